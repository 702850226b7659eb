package middleware

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// quietPaths are polled by health checks and never logged.
var quietPaths = map[string]bool{"/healthz": true}

// access collects what the console learns about a request while serving it.
type access struct {
	status   int
	bytes    int
	username string
}

type accessKey struct{}

// noteOperator attaches the signed-in username to the access log line.
func noteOperator(ctx context.Context, username string) {
	if a, ok := ctx.Value(accessKey{}).(*access); ok {
		a.username = username
	}
}

// RequestLogger logs one line per console request: at DEBUG normally and at
// WARN when the console answered with a server error. Pass nil logger to
// disable logging.
func RequestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if logger == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if quietPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			a := &access{status: http.StatusOK}
			next.ServeHTTP(&accessWriter{ResponseWriter: w, access: a},
				r.WithContext(context.WithValue(r.Context(), accessKey{}, a)))

			level := zapcore.DebugLevel
			if a.status >= http.StatusInternalServerError {
				level = zapcore.WarnLevel
			}
			ce := logger.Check(level, "Console request")
			if ce == nil {
				return
			}
			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", a.status),
				zap.Int("bytes", a.bytes),
				zap.Duration("duration", time.Since(start)),
				zap.String("remote_addr", r.RemoteAddr),
			}
			if a.username != "" {
				fields = append(fields, zap.String("username", a.username))
			}
			if loc := w.Header().Get("Location"); loc != "" {
				fields = append(fields, zap.String("redirect", loc))
			}
			ce.Write(fields...)
		})
	}
}

type accessWriter struct {
	http.ResponseWriter
	access      *access
	wroteHeader bool
}

func (aw *accessWriter) WriteHeader(code int) {
	if !aw.wroteHeader {
		aw.access.status = code
		aw.wroteHeader = true
	}
	aw.ResponseWriter.WriteHeader(code)
}

func (aw *accessWriter) Write(b []byte) (int, error) {
	aw.wroteHeader = true
	n, err := aw.ResponseWriter.Write(b)
	aw.access.bytes += n
	return n, err
}
