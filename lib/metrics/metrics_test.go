package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestTextureLoadedCountsByResult(t *testing.T) {
	ok := testutil.ToFloat64(TextureLoads.WithLabelValues("wall", "ok"))
	failed := testutil.ToFloat64(TextureLoads.WithLabelValues("wall", "failed"))

	TextureLoaded("wall", nil)
	TextureLoaded("wall", errors.New("no such file"))
	TextureLoaded("wall", errors.New("no such file"))

	assert.Equal(t, ok+1, testutil.ToFloat64(TextureLoads.WithLabelValues("wall", "ok")))
	assert.Equal(t, failed+2, testutil.ToFloat64(TextureLoads.WithLabelValues("wall", "failed")))
}

func TestObjectMetricsAreExported(t *testing.T) {
	m := NewObjectMetrics("floor")
	m.DrawCalls.Inc()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `urus_draw_calls_total{object="floor"} 1`)
}
