// Package health reports whether the service can reach its database.
package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/GersonESantos/EsqJSCRUDProjeto/internal/api"
)

const pingTimeout = 2 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	basePath string
	pinger   Pinger
}

func NewServer(basePath string, pinger Pinger) Server {
	return Server{
		basePath: basePath,
		pinger:   pinger,
	}
}

func (s Server) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("GET "+s.basePath+"/health", s.handler())
}

func (s Server) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		defer cancel()

		if err := s.pinger.Ping(ctx); err != nil {
			slog.WarnContext(r.Context(), "database is unreachable", "error", err)
			api.WriteJSON(w, response{Status: "unavailable"}, http.StatusServiceUnavailable)
			return
		}

		api.WriteJSON(w, response{Status: "ok"}, http.StatusOK)
	})
}

type response struct {
	Status string `json:"status"`
}
