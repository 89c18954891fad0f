package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// RouterConfig wires the handlers and the identity middleware together.
type RouterConfig struct {
	Games *GameHandler
	// Identity attaches the caller to each request context.
	Identity       func(http.Handler) http.Handler
	RequestTimeout time.Duration
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	api := r.NewRoute().Subrouter()
	if cfg.RequestTimeout > 0 {
		api.Use(withTimeout(cfg.RequestTimeout))
	}
	if cfg.Identity != nil {
		api.Use(mux.MiddlewareFunc(cfg.Identity))
	}

	api.HandleFunc("/games", cfg.Games.Publish).Methods(http.MethodPost)
	api.HandleFunc("/games", cfg.Games.ListPublic).Methods(http.MethodGet)
	api.HandleFunc("/games/by-code", cfg.Games.FindByCode).Methods(http.MethodGet)
	api.HandleFunc("/topics", cfg.Games.PopularTopics).Methods(http.MethodGet)

	return r
}

// withTimeout bounds the request context. Store calls observe the deadline and
// an in-flight publication is rolled back when it expires.
func withTimeout(d time.Duration) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
