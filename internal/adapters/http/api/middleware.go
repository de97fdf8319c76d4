package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/okian/engage/pkg/metrics"
)

// Error classes recorded for failed requests. They follow statusFor, so
// every status this API sends has exactly one class.
const (
	errTypeBadRequest  = "bad_request"
	errTypeForbidden   = "forbidden"
	errTypeNotFound    = "not_found"
	errTypeConflict    = "conflict"
	errTypeUnavailable = "unavailable"
	errTypeServer      = "server_error"
	errTypeClient      = "client_error"
)

// MetricsMiddleware wraps HTTP handlers to record Prometheus metrics.
func MetricsMiddleware(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Capture the status code written by the handler
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		durationMs := float64(time.Since(start).Microseconds()) / 1000
		statusCodeStr := strconv.Itoa(wrapped.statusCode)

		metrics.RecordHTTPRequest(endpoint, r.Method, statusCodeStr)
		metrics.RecordHTTPRequestDuration(endpoint, r.Method, statusCodeStr, durationMs)

		if wrapped.statusCode >= http.StatusBadRequest {
			errorType := getErrorType(wrapped.statusCode)
			metrics.RecordErrorByEndpoint(endpoint, r.Method, errorType)
			metrics.RecordErrorByType(errorType, getErrorSeverity(wrapped.statusCode))
			metrics.RecordErrorLatency("http", errorType, durationMs)
		}
	}
}

// getErrorType classifies a failed response the way statusFor produced it.
func getErrorType(statusCode int) string {
	switch statusCode {
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge:
		return errTypeBadRequest
	case http.StatusForbidden:
		return errTypeForbidden
	case http.StatusNotFound:
		return errTypeNotFound
	case http.StatusConflict:
		return errTypeConflict
	case http.StatusServiceUnavailable:
		return errTypeUnavailable
	}
	if statusCode >= http.StatusInternalServerError {
		return errTypeServer
	}
	return errTypeClient
}

// getErrorSeverity ranks a failure. Forbidden and conflict answers are
// normal outcomes of the sponsor and draw flows.
func getErrorSeverity(statusCode int) string {
	switch getErrorType(statusCode) {
	case errTypeServer:
		return "high"
	case errTypeUnavailable, errTypeBadRequest:
		return "medium"
	default:
		return "low"
	}
}

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	if err != nil {
		return n, fmt.Errorf("failed to write response: %w", err)
	}
	return n, nil
}
