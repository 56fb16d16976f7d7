package web

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/travhouse/communitybot/internal/services/webauth"
)

const sessionCookie = "panel_token"

func ApplyMiddlewares(r chiRouter, log *zap.Logger) {
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))
	r.Use(requestLogger(log))
}

// SessionMiddleware gates panel pages behind the cookie session. Browser
// requests bounce to the login page, API requests get a JSON 401.
func SessionMiddleware(auth *webauth.Service, log *zap.Logger, api bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(sessionCookie)
			if err == nil {
				if _, validateErr := auth.Validate(r.Context(), cookie.Value); validateErr == nil {
					next.ServeHTTP(w, r)
					return
				} else if log != nil {
					log.Debug("panel session rejected", zap.Error(validateErr))
				}
			}

			if api {
				writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
				return
			}
			http.Redirect(w, r, "/login", http.StatusFound)
		})
	}
}

func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			if log != nil {
				log.Info("http_request",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Duration("duration", time.Since(start)),
				)
			}
		})
	}
}

type chiRouter interface {
	Use(middlewares ...func(http.Handler) http.Handler)
}
