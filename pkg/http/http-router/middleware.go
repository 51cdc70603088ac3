package http_router

import (
	"fmt"
	"mime"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// EnforceJSONHandler rejects requests with a body that is not application/json.
func EnforceJSONHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			contentType := r.Header.Get("Content-Type")
			if contentType == "" {
				writeError(w, http.StatusUnsupportedMediaType, "UNSUPPORTED_MEDIA_TYPE", "Content-Type header is not set")
				return
			}
			mt, _, err := mime.ParseMediaType(contentType)
			if err != nil || mt != "application/json" {
				writeError(w, http.StatusUnsupportedMediaType, "UNSUPPORTED_MEDIA_TYPE", "Content-Type header must be application/json")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// Logger is chi's RequestLogger writing to zap. middleware.Recoverer reports panics through the
// same entry, so it has to sit inside Logger in the chain.
func Logger(log *zap.Logger) func(http.Handler) http.Handler {
	return middleware.RequestLogger(&zapLogFormatter{log: log})
}

type zapLogFormatter struct {
	log *zap.Logger
}

func (f *zapLogFormatter) NewLogEntry(r *http.Request) middleware.LogEntry {
	return &zapLogEntry{log: f.log.With(
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("remote_addr", r.RemoteAddr),
		zap.String("request_id", middleware.GetReqID(r.Context())),
	)}
}

type zapLogEntry struct {
	log *zap.Logger
}

func (e *zapLogEntry) Write(status, bytes int, _ http.Header, elapsed time.Duration, _ interface{}) {
	e.log.Info("request",
		zap.Int("status", status),
		zap.Int("bytes", bytes),
		zap.Duration("duration", elapsed),
	)
}

func (e *zapLogEntry) Panic(v interface{}, stack []byte) {
	e.log.Error("recovered from panic", zap.Any("panic", v), zap.ByteString("stack", stack))
}

const requestIDHeader = "X-Request-Id"

// Labels tags every response with the service name and the id middleware.RequestID assigned.
func Labels(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := middleware.GetReqID(r.Context()); id != "" {
			w.Header().Set(requestIDHeader, id)
		}
		w.Header().Set("X-Service", "osm-wrangler")
		next.ServeHTTP(w, r)
	})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = fmt.Fprintf(w, "{\"error\":{\"code\":%q,\"message\":%q}}\n", code, message)
}
