package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// RequestLogger logs one line per request. The level follows the response
// status class: 5xx error, 4xx warn, everything else info. Health checks and
// swagger assets are logged at debug.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		attrs := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes_written", ww.BytesWritten(),
			"duration", time.Since(start),
		}
		if userID := r.Header.Get(UserIDHeader); userID != "" {
			attrs = append(attrs, "user_id", userID)
		}

		msg := http.StatusText(status)
		switch {
		case status >= http.StatusInternalServerError:
			slog.ErrorContext(r.Context(), msg, attrs...)
		case status >= http.StatusBadRequest:
			slog.WarnContext(r.Context(), msg, attrs...)
		case quietPath(r.URL.Path):
			slog.DebugContext(r.Context(), msg, attrs...)
		default:
			slog.InfoContext(r.Context(), msg, attrs...)
		}
	})
}

func quietPath(path string) bool {
	return path == "/healthz" || strings.HasPrefix(path, "/swagger/")
}

// Recoverer turns panics into 500 responses.
func Recoverer(next http.Handler) http.Handler {
	return chimw.Recoverer(next)
}
