package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/yourorg/realty-api/idx"
	"github.com/yourorg/realty-api/internal/store"
)

// PropertyStore is the slice of the local store the properties API reads
// and writes. *store.Postgres satisfies it.
type PropertyStore interface {
	SearchProperties(ctx context.Context, f store.SearchFilter) ([]idx.Listing, error)
	GetProperty(ctx context.Context, id string) (*idx.Listing, error)
	FeaturedProperties(ctx context.Context, limit int) ([]idx.Listing, error)
	ToggleFavorite(ctx context.Context, userID, propertyID string) (bool, error)
	FavoritesByUser(ctx context.Context, userID string) ([]idx.Listing, error)
}

type PropertiesDeps struct {
	Store PropertyStore
}

// RegisterProperties serves the site's own listings out of the local store.
// Unlike the /idx routes these never touch the feed.
func RegisterProperties(r chi.Router, d PropertiesDeps) {
	r.Route("/properties", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, req *http.Request) {
			q := req.URL.Query()
			filter := store.SearchFilter{
				Query:        q.Get("query"),
				MinPrice:     queryInt(q.Get("minPrice")),
				MaxPrice:     queryInt(q.Get("maxPrice")),
				Beds:         queryInt(q.Get("beds")),
				PropertyType: q.Get("propertyType"),
				City:         q.Get("city"),
				State:        q.Get("state"),
				Limit:        queryInt(q.Get("limit")),
				Offset:       queryInt(q.Get("offset")),
			}
			if v := q.Get("baths"); v != "" {
				if f, err := strconv.ParseFloat(v, 64); err == nil {
					filter.Baths = f
				}
			}
			properties, err := d.Store.SearchProperties(req.Context(), filter)
			if err != nil {
				serveError(w, req, err, "Failed to fetch properties")
				return
			}
			render.JSON(w, req, map[string]any{"properties": properties, "total": len(properties)})
		})

		r.Get("/featured/list", func(w http.ResponseWriter, req *http.Request) {
			properties, err := d.Store.FeaturedProperties(req.Context(), 6)
			if err != nil {
				serveError(w, req, err, "Failed to fetch featured properties")
				return
			}
			render.JSON(w, req, map[string]any{"properties": properties})
		})

		r.Post("/favorites", func(w http.ResponseWriter, req *http.Request) {
			var body struct {
				PropertyID string `json:"propertyId"`
				UserID     string `json:"userId"`
			}
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				writeError(w, req, http.StatusBadRequest, "Invalid JSON body")
				return
			}
			if body.PropertyID == "" || body.UserID == "" {
				writeError(w, req, http.StatusBadRequest, "propertyId and userId are required")
				return
			}
			favorited, err := d.Store.ToggleFavorite(req.Context(), body.UserID, body.PropertyID)
			if err != nil {
				serveError(w, req, err, "Failed to update favorites")
				return
			}
			render.JSON(w, req, map[string]any{"favorited": favorited})
		})

		r.Get("/favorites/{userID}", func(w http.ResponseWriter, req *http.Request) {
			properties, err := d.Store.FavoritesByUser(req.Context(), chi.URLParam(req, "userID"))
			if err != nil {
				serveError(w, req, err, "Failed to fetch favorite properties")
				return
			}
			render.JSON(w, req, map[string]any{"properties": properties})
		})

		r.Get("/{id}", func(w http.ResponseWriter, req *http.Request) {
			property, err := d.Store.GetProperty(req.Context(), chi.URLParam(req, "id"))
			if err != nil {
				serveError(w, req, err, "Failed to fetch property")
				return
			}
			if property == nil {
				writeError(w, req, http.StatusNotFound, "Property not found")
				return
			}
			render.JSON(w, req, map[string]any{"property": property})
		})
	})
}
