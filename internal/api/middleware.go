package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/clipforge/clipforge/internal/ports"
)

type contextKey string

const RequestIDKey contextKey = "request_id"

func RequestIDMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := uuid.NewString()[:8]
			ctx := context.WithValue(r.Context(), RequestIDKey, requestID)
			w.Header().Set("X-Request-ID", requestID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func RecoveryMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					requestID, _ := r.Context().Value(RequestIDKey).(string)
					logger.Error("panic recovered", "error", err, "request_id", requestID)
					WriteError(w, http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func LoggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &responseWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			requestID, _ := r.Context().Value(RequestIDKey).(string)
			logger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", wrapped.status,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", requestID,
			)
		})
	}
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (w *responseWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func WriteError(w http.ResponseWriter, status int, message, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message, Code: code})
}

// WritePipelineError maps the typed pipeline errors onto HTTP statuses and
// stable error codes the wizard frontend can branch on.
func WritePipelineError(w http.ResponseWriter, err error) {
	var (
		reqErr       *ports.RequestError
		parseErr     *ports.ParseError
		analysisErr  *ports.AnalysisParseError
		downloadErr  *ports.DownloadError
		transcodeErr *ports.TranscodeError
	)
	switch {
	case errors.Is(err, ports.ErrTranscriptUnavailable):
		WriteError(w, http.StatusUnprocessableEntity, "no english auto-generated transcript for this video", "TRANSCRIPT_UNAVAILABLE")
	case errors.As(err, &analysisErr):
		WriteError(w, http.StatusBadGateway, err.Error(), "ANALYSIS_ERROR")
	case errors.As(err, &parseErr):
		WriteError(w, http.StatusBadGateway, err.Error(), "PARSE_ERROR")
	case errors.As(err, &reqErr):
		WriteError(w, http.StatusBadGateway, err.Error(), "UPSTREAM_ERROR")
	case errors.As(err, &downloadErr):
		WriteError(w, http.StatusBadGateway, err.Error(), "DOWNLOAD_FAILED")
	case errors.As(err, &transcodeErr):
		WriteError(w, http.StatusBadGateway, err.Error(), "TRANSCODE_FAILED")
	default:
		WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
	}
}
