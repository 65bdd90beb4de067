package handler

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"summarizer-service/backend/internal/log"
	"summarizer-service/backend/internal/metrics"
	"summarizer-service/backend/internal/summarizer"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/unicode/norm"
)

// ErrNoText is the message returned when the request has no text
const ErrNoText = "No text provided"

// SummarizeRequest is the POST /summarize body
type SummarizeRequest struct {
	Text string `json:"text"`
}

// Body shape errors, answered with 500 like any other failure
var (
	errBodyNotObject = errors.New("request body must be a JSON object")
	errTextNotString = errors.New("text must be a string")
)

// SummarizeResponse is returned on success
type SummarizeResponse struct {
	Summary string `json:"summary"`
}

// ErrorResponse is returned on failure
type ErrorResponse struct {
	Error string `json:"error"`
}

var (
	engine   *summarizer.Engine
	exporter *metrics.Exporter
	engineMu sync.RWMutex
)

// Init installs the loaded engine and the metrics exporter (which may be nil)
func Init(e *summarizer.Engine, m *metrics.Exporter) {
	engineMu.Lock()
	defer engineMu.Unlock()
	engine = e
	exporter = m
}

func current() (*summarizer.Engine, *metrics.Exporter) {
	engineMu.RLock()
	defer engineMu.RUnlock()
	return engine, exporter
}

// HandleSummarize summarizes the request text with the loaded engine.
// Empty text is rejected with 400; every other failure is a 500 carrying the error message.
func HandleSummarize(c *gin.Context) {
	var body any
	if err := c.ShouldBindJSON(&body); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	text, err := requestText(body)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	if text == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: ErrNoText})
		return
	}

	currentEngine, currentExporter := current()
	if currentEngine == nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "summarization model is not loaded"})
		return
	}

	start := time.Now()
	summary, err := currentEngine.Summarize(c.Request.Context(), norm.NFC.String(text))
	duration := time.Since(start)

	code := summarizer.Code(err)
	currentExporter.ObserveSummarize(currentEngine.BackendName(), code.String(), duration)

	if err != nil {
		_ = c.Error(err)
		log.Error().
			Err(err).
			Str("backend", currentEngine.BackendName()).
			Str("code", code.String()).
			Dur("latency", duration).
			Str("request_id", c.GetString(log.ContextKeyRequestID)).
			Msg("summarization failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	log.Debug().
		Str("backend", currentEngine.BackendName()).
		Int("input_chars", len(text)).
		Int("summary_chars", len(summary)).
		Dur("latency", duration).
		Msg("summarization completed")

	c.JSON(http.StatusOK, SummarizeResponse{Summary: summary})
}

// requestText extracts the text field from a decoded body. An absent or empty
// value (null, "", 0, false, [] or {}) yields "" and no error.
func requestText(body any) (string, error) {
	obj, ok := body.(map[string]any)
	if !ok {
		return "", errBodyNotObject
	}

	switch v := obj["text"].(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case bool:
		if !v {
			return "", nil
		}
	case float64:
		if v == 0 {
			return "", nil
		}
	case []any:
		if len(v) == 0 {
			return "", nil
		}
	case map[string]any:
		if len(v) == 0 {
			return "", nil
		}
	}
	return "", errTextNotString
}
