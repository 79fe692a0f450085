package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (c controller) GetMux() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(c.requestIdMw)
	r.Use(c.requestLoggingMw)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Get("/roster", c.getRoster)
	r.Get("/activity", c.getActivity)
	r.Get("/state", c.getState)

	r.Post("/play", c.intent(c.room.PlayIntent))
	r.Post("/pause", c.intent(c.room.PauseIntent))
	r.Post("/toggle", c.intent(c.room.Toggle))
	r.Post("/seek", c.seek)

	return r
}
