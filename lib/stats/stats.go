package stats

import (
	"sync"
	"time"
)

// Snapshot is the published view of the frame statistics.
type Snapshot struct {
	Frames             uint64  `json:"frames"`
	DrawCalls          uint64  `json:"draw_calls"`
	TextureUpload      uint64  `json:"texture_upload"`
	TextureUploadAvgMb float64 `json:"texture_upload_avg_mb"`
	Uptime             float64 `json:"uptime"`
	FPS                uint64  `json:"fps"`
	Visible            bool    `json:"visible"`
	WsClients          int     `json:"ws_clients"`
}

type Stats struct {
	mu   sync.Mutex
	snap Snapshot

	frameCounter uint64
	frameTimer   time.Time
	start        time.Time
	now          func() time.Time
}

func New() *Stats {
	s := &Stats{now: time.Now}
	s.start = s.now()
	s.frameTimer = s.start
	return s
}

// Update accounts for one presented frame. textureUpload is the total
// number of texture bytes uploaded so far.
func (s *Stats) Update(drawCalls int, textureUpload uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.snap.Frames++
	s.snap.DrawCalls += uint64(drawCalls)
	s.frameCounter++
	if now.Sub(s.frameTimer) > 1*time.Second {
		s.snap.FPS = s.frameCounter
		s.frameCounter = 0
		s.frameTimer = now
	}

	s.snap.Uptime = float64(now.Sub(s.start).Nanoseconds()) / 1e9
	s.snap.TextureUpload = textureUpload
	if s.snap.Uptime > 0 {
		s.snap.TextureUploadAvgMb = float64(textureUpload) / (s.snap.Uptime * 1024 * 1024)
	}
}

func (s *Stats) SetVisible(visible bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Visible = visible
}

func (s *Stats) SetWsClients(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.WsClients = n
}

func (s *Stats) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}
