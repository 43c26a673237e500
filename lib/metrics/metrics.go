package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	FramesRendered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "urus_frames_rendered_total",
		Help: "Total number of frames rendered and presented",
	})
	DrawCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "urus_draw_calls_total",
		Help: "Total number of draw calls issued, per render object",
	}, []string{"object"})
	RedrawsRequested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "urus_redraws_requested_total",
		Help: "Total number of redraw requests posted by the idle callback",
	})
	TextureLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "urus_texture_loads_total",
		Help: "Total number of texture loads, by result",
	}, []string{"texture", "result"})
	TextureBytes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "urus_texture_upload_bytes_total",
		Help: "Total number of pixel bytes uploaded to textures",
	})
	FrameTime = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "urus_frame_interval_seconds",
		Help:    "Time between consecutive presented frames",
		Buckets: []float64{0.002, 0.004, 0.008, 0.016, 0.033, 0.066, 0.1, 0.25, 1},
	})
	Visible = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "urus_window_visible",
		Help: "Whether the window is currently visible",
	})
)

// ObjectMetrics holds the per object series so the render loop does not
// look labels up every frame.
type ObjectMetrics struct {
	DrawCalls prometheus.Counter
}

func NewObjectMetrics(name string) ObjectMetrics {
	o := ObjectMetrics{
		DrawCalls: DrawCalls.WithLabelValues(name),
	}
	o.DrawCalls.Add(0)
	return o
}

func TextureLoaded(name string, err error) {
	result := "ok"
	if err != nil {
		result = "failed"
	}
	TextureLoads.WithLabelValues(name, result).Inc()
}

// Handler should usually be mounted at /metrics
func Handler() http.Handler {
	return promhttp.Handler()
}
