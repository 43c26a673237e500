package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUpdateCountsFramesAndFPS(t *testing.T) {
	clock := time.Date(2024, 2, 3, 10, 0, 0, 0, time.UTC)
	s := New()
	s.now = func() time.Time { return clock }
	s.start = clock
	s.frameTimer = clock

	for range 30 {
		clock = clock.Add(20 * time.Millisecond)
		s.Update(2, 1024*1024)
	}
	snap := s.Snapshot()
	assert.Equal(t, uint64(30), snap.Frames)
	assert.Equal(t, uint64(60), snap.DrawCalls)
	assert.Zero(t, snap.FPS, "fps not published before a full second")

	for range 30 {
		clock = clock.Add(20 * time.Millisecond)
		s.Update(2, 1024*1024)
	}
	snap = s.Snapshot()
	assert.Equal(t, uint64(51), snap.FPS)
	assert.InDelta(t, 1.2, snap.Uptime, 1e-9)
	assert.InDelta(t, 1/1.2, snap.TextureUploadAvgMb, 1e-9)
}

func TestSnapshotCopiesFlags(t *testing.T) {
	s := New()
	s.SetVisible(true)
	s.SetWsClients(3)

	snap := s.Snapshot()
	assert.True(t, snap.Visible)
	assert.Equal(t, 3, snap.WsClients)
}
