package httpapi

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/yourorg/realty-api/idx"
	"github.com/yourorg/realty-api/internal/listings"
	"github.com/yourorg/realty-api/internal/syncer"
)

type IDXDeps struct {
	Service *listings.Service
	Sync    *syncer.Orchestrator
}

func RegisterIDX(r chi.Router, d IDXDeps) {
	r.Route("/idx", func(r chi.Router) {
		r.Use(requireAPIKey(d.Service))

		r.Get("/featured", func(w http.ResponseWriter, req *http.Request) {
			out, err := d.Service.Featured(req.Context())
			if err != nil {
				serveError(w, req, err, "Failed to fetch featured properties from IDX")
				return
			}
			render.JSON(w, req, out)
		})

		r.Get("/search", func(w http.ResponseWriter, req *http.Request) {
			out, err := d.Service.Search(req.Context(), searchParamsFromQuery(req))
			if err != nil {
				serveError(w, req, err, "Failed to search IDX properties")
				return
			}
			render.JSON(w, req, out)
		})

		r.Get("/property/{listingID}", func(w http.ResponseWriter, req *http.Request) {
			out, err := d.Service.Property(req.Context(), chi.URLParam(req, "listingID"))
			if err != nil {
				if errors.Is(err, idx.ErrNotFound) {
					writeError(w, req, http.StatusNotFound, "Property not found")
					return
				}
				serveError(w, req, err, "Failed to fetch property details from IDX")
				return
			}
			render.JSON(w, req, out)
		})

		r.Get("/property/{listingID}/photos", func(w http.ResponseWriter, req *http.Request) {
			out, err := d.Service.Photos(req.Context(), chi.URLParam(req, "listingID"))
			if err != nil {
				serveError(w, req, err, "Failed to fetch property photos from IDX")
				return
			}
			render.JSON(w, req, out)
		})

		r.Get("/listings", func(w http.ResponseWriter, req *http.Request) {
			out, err := d.Service.Inventory(req.Context())
			if err != nil {
				serveError(w, req, err, "Failed to fetch IDX listings")
				return
			}
			render.JSON(w, req, out)
		})

		r.Get("/soldpending", func(w http.ResponseWriter, req *http.Request) {
			out, err := d.Service.SoldPending(req.Context())
			if err != nil {
				serveError(w, req, err, "Failed to fetch sold/pending properties from IDX")
				return
			}
			render.JSON(w, req, out)
		})

		r.Get("/system-info", func(w http.ResponseWriter, req *http.Request) {
			info, err := d.Service.SystemInfo(req.Context())
			if err != nil {
				serveError(w, req, err, "Failed to fetch IDX system info")
				return
			}
			render.JSON(w, req, map[string]any{"systemInfo": info})
		})

		r.Post("/sync", func(w http.ResponseWriter, req *http.Request) {
			summary, err := d.Sync.Run(req.Context())
			if err != nil {
				if errors.Is(err, syncer.ErrSyncInProgress) {
					writeError(w, req, http.StatusConflict, "Sync already in progress")
					return
				}
				serveError(w, req, err, "Failed to sync IDX properties")
				return
			}
			render.JSON(w, req, map[string]any{
				"message": "Successfully synced IDX properties",
				"total":   summary.Total,
				"synced":  summary.Synced,
				"updated": summary.Updated,
			})
		})
	})
}

// requireAPIKey fails every IDX route with a 500 until the feed credential
// is configured. This is a hard precondition, not a retryable error.
func requireAPIKey(svc *listings.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if !svc.Configured() {
				writeError(w, req, http.StatusInternalServerError, "IDX API key not configured")
				return
			}
			next.ServeHTTP(w, req)
		})
	}
}

func searchParamsFromQuery(req *http.Request) listings.SearchParams {
	q := req.URL.Query()
	p := listings.SearchParams{
		City:         q.Get("city"),
		State:        q.Get("state"),
		Zipcode:      q.Get("zipcode"),
		PropertyType: q.Get("propertyType"),
		MinPrice:     queryInt(q.Get("minPrice")),
		MaxPrice:     queryInt(q.Get("maxPrice")),
		Beds:         queryInt(q.Get("beds")),
		SqftMin:      queryInt(q.Get("sqftMin")),
		SqftMax:      queryInt(q.Get("sqftMax")),
		Limit:        queryInt(q.Get("limit")),
		Offset:       queryInt(q.Get("offset")),
	}
	if v := q.Get("baths"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			p.Baths = f
		}
	}
	return p
}

func queryInt(v string) int {
	if v == "" {
		return 0
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return i
}

// serveError logs the real cause and answers with a stable public message;
// upstream details never reach callers.
func serveError(w http.ResponseWriter, req *http.Request, err error, msg string) {
	log.Printf("[WARN] %s %s: %v", req.Method, req.URL.Path, err)
	writeError(w, req, http.StatusInternalServerError, msg)
}

func writeError(w http.ResponseWriter, req *http.Request, status int, msg string) {
	render.Status(req, status)
	render.JSON(w, req, map[string]any{"error": msg})
}
