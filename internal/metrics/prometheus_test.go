package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveSummarize(t *testing.T) {
	e := NewExporter(Config{Registry: prometheus.NewRegistry()})

	e.ObserveSummarize("huggingface", "OK", 2*time.Second)
	e.ObserveSummarize("huggingface", "OK", time.Second)
	e.ObserveSummarize("huggingface", "Unavailable", time.Second)

	assert.Equal(t, float64(2), testutil.ToFloat64(e.summarizeTotal.WithLabelValues("huggingface", "OK")))
	assert.Equal(t, float64(1), testutil.ToFloat64(e.summarizeTotal.WithLabelValues("huggingface", "Unavailable")))
	assert.Equal(t, 1, testutil.CollectAndCount(e.summarizeLatency))
}

func TestObserveSummarizeNilExporter(t *testing.T) {
	var e *Exporter
	assert.NotPanics(t, func() { e.ObserveSummarize("lead", "OK", time.Millisecond) })
}

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	e := NewExporter(DefaultConfig())

	r := gin.New()
	r.Use(e.Middleware())
	r.POST("/summarize", func(c *gin.Context) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No text provided"})
	})
	r.GET("/metrics", gin.WrapH(e.Handler()))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/summarize", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	assert.Equal(t, float64(1), testutil.ToFloat64(e.httpRequests.WithLabelValues("/summarize", "POST", "400")))
	assert.Equal(t, float64(1), testutil.ToFloat64(e.httpRequests.WithLabelValues("unmatched", "GET", "404")))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "summarizer_http_requests_total")
	assert.Contains(t, string(body), "go_goroutines")
}
