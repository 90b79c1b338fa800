package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-chi/render"

	httpapi "github.com/yourorg/realty-api/http"
)

func BuildRouter(idxDeps httpapi.IDXDeps, propDeps httpapi.PropertiesDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(httprate.LimitByIP(100, 1*time.Minute)) // protect upstream quota
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", func(w http.ResponseWriter, req *http.Request) {
			render.JSON(w, req, map[string]any{"status": "healthy", "service": "api"})
		})
		httpapi.RegisterIDX(api, idxDeps)
		httpapi.RegisterProperties(api, propDeps)
	})

	return r
}
