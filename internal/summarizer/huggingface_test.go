package summarizer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
)

func TestHuggingFaceSummarize(t *testing.T) {
	var got hfRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/facebook/bart-large-cnn", r.URL.Path)
		assert.Equal(t, "Bearer hf_test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"summary_text":"A short summary."}]`))
	}))
	defer srv.Close()

	backend := NewHuggingFaceBackend(srv.URL+"/", "facebook/bart-large-cnn", "hf_test")
	results, err := backend.Summarize(context.Background(), "Long article text.", DefaultParams)
	require.NoError(t, err)

	assert.Equal(t, []Result{{SummaryText: "A short summary."}}, results)
	assert.Equal(t, "Long article text.", got.Inputs)
	assert.Equal(t, hfParameters{MaxLength: 130, MinLength: 30, DoSample: false}, got.Parameters)
	assert.True(t, got.Options.WaitForModel)
	assert.False(t, got.Options.UseCache)
}

func TestHuggingFaceRequestCarriesDoSampleFalse(t *testing.T) {
	var raw map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		_, _ = w.Write([]byte(`[{"summary_text":"ok"}]`))
	}))
	defer srv.Close()

	_, err := NewHuggingFaceBackend(srv.URL, "m", "").Summarize(context.Background(), "text", DefaultParams)
	require.NoError(t, err)

	params, ok := raw["parameters"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, false, params["do_sample"])
	assert.Equal(t, float64(130), params["max_length"])
	assert.Equal(t, float64(30), params["min_length"])
}

func TestHuggingFaceErrorMessagePassedThrough(t *testing.T) {
	testCases := []struct {
		name     string
		status   int
		body     string
		expected string
		code     codes.Code
	}{
		{
			name:     "string error",
			status:   http.StatusServiceUnavailable,
			body:     `{"error":"Model facebook/bart-large-cnn is currently loading","estimated_time":20.0}`,
			expected: "Model facebook/bart-large-cnn is currently loading",
			code:     codes.Unavailable,
		},
		{
			name:     "list error",
			status:   http.StatusBadRequest,
			body:     `{"error":["Input is too long","Truncate the input"]}`,
			expected: "Input is too long; Truncate the input",
			code:     codes.InvalidArgument,
		},
		{
			name:     "plain body",
			status:   http.StatusTooManyRequests,
			body:     `slow down`,
			expected: "inference API returned status 429: slow down",
			code:     codes.ResourceExhausted,
		},
		{
			name:     "error with 200",
			status:   http.StatusOK,
			body:     `{"error":"index out of range in self"}`,
			expected: "index out of range in self",
			code:     codes.Unknown,
		},
	}
	for _, c := range testCases {
		t.Run(c.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(c.status)
				_, _ = w.Write([]byte(c.body))
			}))
			defer srv.Close()

			_, err := NewHuggingFaceBackend(srv.URL, "m", "").Summarize(context.Background(), "text", DefaultParams)
			require.Error(t, err)
			assert.Equal(t, c.expected, err.Error())
			assert.Equal(t, c.code, Code(err))
		})
	}
}

func TestHuggingFaceAvailableRunsWarmup(t *testing.T) {
	var got hfRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`[{"summary_text":"warm"}]`))
	}))
	defer srv.Close()

	ok, err := NewHuggingFaceBackend(srv.URL, "m", "").Available(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, warmupText, got.Inputs)
	assert.True(t, got.Options.WaitForModel)
}

func TestHuggingFaceAvailableUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	ok, err := NewHuggingFaceBackend(url, "m", "").Available(context.Background())
	assert.False(t, ok)
	assert.Error(t, err)
}
