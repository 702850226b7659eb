package middleware

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"habitat/internal/session"
	"habitat/internal/storage"
)

// Session gives every request its own session store, rehydrated from the
// browser's durable storage. Transitions made by the handler are written back
// to storage, and storage is flushed right before the response header goes out.
func Session(backend storage.Backend, now func() time.Time, logger *zap.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			st, err := backend.Open(r)
			if err != nil {
				logger.Error("Failed to open browser storage", zap.Error(err))
				http.Error(w, "Session storage unavailable", http.StatusInternalServerError)
				return
			}

			store := session.NewStore(now)
			if err := session.Restore(store, st); err != nil && !errors.Is(err, session.ErrNoStoredSession) {
				logger.Debug("Stored session discarded", zap.Error(err))
			}
			if user := store.User(); user != nil {
				noteOperator(r.Context(), user.Username)
			}

			unsync := session.SyncTo(store, st, func(err error) {
				logger.Error("Failed to persist session", zap.Error(err))
			})
			defer unsync()
			unlog := store.Subscribe(func(action session.Action, state session.State) {
				fields := []zap.Field{
					zap.String("action", string(action)),
					zap.Stringer("status", state.Status()),
				}
				if state.User != nil {
					fields = append(fields, zap.String("username", state.User.Username))
					noteOperator(r.Context(), state.User.Username)
				}
				logger.Debug("Session transition", fields...)
			})
			defer unlog()

			fw := &flushWriter{ResponseWriter: w, storage: st, r: r, logger: logger}
			next.ServeHTTP(fw, r.WithContext(session.WithStore(r.Context(), store)))
			fw.flush()
		})
	}
}

// flushWriter flushes storage before the first header or body byte is written.
type flushWriter struct {
	http.ResponseWriter
	storage storage.Storage
	r       *http.Request
	logger  *zap.Logger
	once    sync.Once
}

func (fw *flushWriter) flush() {
	fw.once.Do(func() {
		if err := fw.storage.Flush(fw.ResponseWriter, fw.r); err != nil {
			fw.logger.Error("Failed to flush browser storage", zap.Error(err))
		}
	})
}

func (fw *flushWriter) WriteHeader(code int) {
	fw.flush()
	fw.ResponseWriter.WriteHeader(code)
}

func (fw *flushWriter) Write(b []byte) (int, error) {
	fw.flush()
	return fw.ResponseWriter.Write(b)
}
