package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"blogapi/pkg/logger"
)

type traceKey string

const TraceIdKey traceKey = "traceId"

type Logging struct {
	logger *zap.SugaredLogger
}

func NewLoggingMiddleware(l *zap.SugaredLogger) *Logging {
	return &Logging{logger: l}
}

// SetupTracing assigns every request a trace id and echoes it back in the
// X-Trace-Id response header.
func (lm *Logging) SetupTracing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceId := r.Header.Get("X-Trace-Id")
		if traceId == "" {
			traceId = uuid.NewString()
		}
		w.Header().Set("X-Trace-Id", traceId)
		ctx := context.WithValue(r.Context(), TraceIdKey, traceId)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SetupLogging puts a request-scoped logger into the context so handlers can
// use logger.Log(ctx).
func (lm *Logging) SetupLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		l := lm.logger
		if traceId, ok := r.Context().Value(TraceIdKey).(string); ok {
			l = l.With("trace_id", traceId)
		}
		next.ServeHTTP(w, r.WithContext(logger.With(r.Context(), l)))
	})
}

func (lm *Logging) AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Log(r.Context()).Infow("request handled",
			"method", r.Method,
			"url", r.URL.Path,
			"remote", r.RemoteAddr,
			"took", time.Since(start),
		)
	})
}
