package summarizer

import (
	"context"
	"errors"
	"net/http"
	"strings"

	ollama "github.com/ollama/ollama/api"
	"github.com/sashabaranov/go-openai"
	"google.golang.org/genai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	// ErrNoResult is returned when the model produced no usable record
	ErrNoResult = errors.New("summarization returned no result")
	// ErrUnknownBackend is returned for an unsupported SUMMARIZER_BACKEND
	ErrUnknownBackend = errors.New("unknown summarization backend")
	// ErrModelUnavailable is returned when the backend does not serve the model
	ErrModelUnavailable = errors.New("summarization model is not available")
)

// Code classifies a summarization failure for logs and metrics
func Code(err error) codes.Code {
	switch {
	case err == nil:
		return codes.OK
	case errors.Is(err, context.DeadlineExceeded):
		return codes.DeadlineExceeded
	case errors.Is(err, context.Canceled):
		return codes.Canceled
	case errors.Is(err, ErrNoResult):
		return codes.Internal
	case errors.Is(err, ErrModelUnavailable):
		return codes.Unavailable
	}

	if s, ok := status.FromError(err); ok {
		return s.Code()
	}
	if httpStatus, ok := httpStatusOf(err); ok {
		return codeFromHTTPStatus(httpStatus)
	}

	errStr := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errStr, "resourceexhausted"),
		strings.Contains(errStr, "resource_exhausted"),
		strings.Contains(errStr, "rate limit"),
		strings.Contains(errStr, "quota"):
		return codes.ResourceExhausted
	case strings.Contains(errStr, "connection refused"),
		strings.Contains(errStr, "no such host"):
		return codes.Unavailable
	}
	return codes.Unknown
}

// httpStatusOf extracts the HTTP status carried by backend SDK errors
func httpStatusOf(err error) (int, bool) {
	var hfErr *HuggingFaceError
	if errors.As(err, &hfErr) {
		return hfErr.StatusCode, true
	}
	var oaErr *openai.APIError
	if errors.As(err, &oaErr) {
		return oaErr.HTTPStatusCode, true
	}
	var oaReqErr *openai.RequestError
	if errors.As(err, &oaReqErr) {
		return oaReqErr.HTTPStatusCode, true
	}
	var gErr genai.APIError
	if errors.As(err, &gErr) {
		return gErr.Code, true
	}
	var olErr ollama.StatusError
	if errors.As(err, &olErr) {
		return olErr.StatusCode, true
	}
	return 0, false
}

func codeFromHTTPStatus(httpStatus int) codes.Code {
	switch {
	case httpStatus == http.StatusTooManyRequests:
		return codes.ResourceExhausted
	case httpStatus == http.StatusBadRequest, httpStatus == http.StatusUnprocessableEntity:
		return codes.InvalidArgument
	case httpStatus == http.StatusUnauthorized:
		return codes.Unauthenticated
	case httpStatus == http.StatusForbidden:
		return codes.PermissionDenied
	case httpStatus == http.StatusNotFound:
		return codes.NotFound
	case httpStatus == http.StatusServiceUnavailable, httpStatus == http.StatusBadGateway:
		return codes.Unavailable
	case httpStatus == http.StatusGatewayTimeout:
		return codes.DeadlineExceeded
	case httpStatus >= 500:
		return codes.Internal
	default:
		return codes.Unknown
	}
}
