package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/meur/skyatlas/internal/catalog"
	"github.com/meur/skyatlas/internal/dataset"
	"github.com/meur/skyatlas/internal/session"
)

// SessionCookie carries the client's session id
const SessionCookie = "skyatlas_session"

type indexKey struct{}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			t0 := time.Now()
			defer func() {
				logger.Info("request",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("elapsed", time.Since(t0)),
					zap.String("request_id", middleware.GetReqID(r.Context())),
				)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}

// requireDataset answers 503 while the snapshot loads and 500 once the load failed
func (s *Server) requireDataset(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		idx, err := s.catalogIndex()
		switch {
		case errors.Is(err, dataset.ErrLoading):
			w.Header().Set("Retry-After", "1")
			respondError(w, http.StatusServiceUnavailable, "Dataset is loading")
			return
		case err != nil:
			respondError(w, http.StatusInternalServerError, "Dataset failed to load: "+err.Error())
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), indexKey{}, idx)))
	})
}

// withSession resolves the client's UI state, issuing a cookie for new clients
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		idx := indexFrom(r)

		var id string
		if c, err := r.Cookie(SessionCookie); err == nil {
			id = c.Value
		}
		newID, state := s.sessions.Get(id, idx.Dataset())
		if newID != id {
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    newID,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), state)))
	})
}

func indexFrom(r *http.Request) *catalog.Index {
	idx, _ := r.Context().Value(indexKey{}).(*catalog.Index)
	return idx
}

func stateFrom(r *http.Request) *session.State {
	state, _ := session.FromContext(r.Context())
	return state
}
