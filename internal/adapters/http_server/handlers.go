// internal/adapters/http_server/handlers.go
package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"food_explorer/internal/adapters/observability"
	"food_explorer/internal/app"
	"food_explorer/internal/domain"
)

const (
	defaultBestLimit = 4
	maxBestLimit     = 50
	maxBodyBytes     = 1 << 20
)

// Handlers serves the restaurant resource. C is nil when the backend is read-only.
type Handlers struct {
	Q *app.QueryService
	C *app.RestaurantService
}

// envelope wraps every response body.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Count   *int   `json:"count,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Route("/restaurants", func(r chi.Router) {
		r.Get("/", h.listRestaurants)
		r.Post("/", h.createRestaurant)
		r.Delete("/", h.deleteRestaurant)
		r.Get("/best", h.bestPlaces)
		r.Get("/{slug}", h.getRestaurant)
	})
	s.mux.Get("/awards", h.listAwards)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func writeFailure(w http.ResponseWriter, status int, msg, detail string, data any) {
	writeJSON(w, status, envelope{Success: false, Error: msg, Message: detail, Data: data})
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeCacheable answers 304 when the client already holds this version.
func writeCacheable(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if body == nil {
		writeFailure(w, http.StatusInternalServerError, "Failed to encode response", "", nil)
		return
	}
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(append(body, '\n')); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

func listEnvelope[T any](items []T) envelope {
	if items == nil {
		items = []T{}
	}
	n := len(items)
	return envelope{Success: true, Data: items, Count: &n}
}

func (h *Handlers) listRestaurants(w http.ResponseWriter, r *http.Request) {
	f := domain.ParseFilter(r.URL.Query())
	rs, err := h.Q.ListRestaurants(r.Context(), f)
	if err != nil {
		log.Error().Err(err).Str("filter", f.Key()).Msg("list restaurants failed")
		writeFailure(w, http.StatusInternalServerError, "Failed to fetch restaurants", err.Error(), []domain.Restaurant{})
		return
	}
	writeCacheable(w, r, listEnvelope(rs))
}

func (h *Handlers) bestPlaces(w http.ResponseWriter, r *http.Request) {
	limit := defaultBestLimit
	if ls := r.URL.Query().Get("limit"); ls != "" {
		l, err := strconv.Atoi(ls)
		if err != nil || l <= 0 || l > maxBestLimit {
			writeFailure(w, http.StatusBadRequest, "Invalid limit", "limit must be an integer between 1 and 50", nil)
			return
		}
		limit = l
	}
	f := domain.ParseFilter(r.URL.Query())
	rs, err := h.Q.BestPlaces(r.Context(), f, limit)
	if err != nil {
		log.Error().Err(err).Msg("best places failed")
		writeFailure(w, http.StatusInternalServerError, "Failed to fetch restaurants", err.Error(), []domain.Restaurant{})
		return
	}
	writeCacheable(w, r, listEnvelope(rs))
}

func (h *Handlers) getRestaurant(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	rs, err := h.Q.GetBySlug(r.Context(), slug)
	if errors.Is(err, domain.ErrNotFound) {
		writeFailure(w, http.StatusNotFound, "Restaurant not found", "", nil)
		return
	}
	if err != nil {
		log.Error().Err(err).Str("slug", slug).Msg("get restaurant failed")
		writeFailure(w, http.StatusInternalServerError, "Failed to fetch restaurant", err.Error(), nil)
		return
	}
	writeCacheable(w, r, envelope{Success: true, Data: rs})
}

func (h *Handlers) listAwards(w http.ResponseWriter, r *http.Request) {
	as, err := h.Q.ListAwards(r.Context())
	if errors.Is(err, domain.ErrNotFound) {
		writeFailure(w, http.StatusNotFound, "Awards are not available for this backend", "", []domain.Award{})
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("list awards failed")
		writeFailure(w, http.StatusInternalServerError, "Failed to fetch awards", err.Error(), []domain.Award{})
		return
	}
	writeCacheable(w, r, listEnvelope(as))
}

func (h *Handlers) createRestaurant(w http.ResponseWriter, r *http.Request) {
	if h.C == nil {
		writeFailure(w, http.StatusMethodNotAllowed, "This backend is read-only", "", nil)
		return
	}
	var in domain.CreateInput
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&in); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid JSON body", err.Error(), nil)
		return
	}

	created, err := h.C.Create(r.Context(), in)
	observability.ObserveWrite("create", err)
	var verr *domain.ValidationError
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, envelope{Success: true, Message: "Restaurant created successfully!", Data: created})
	case errors.As(err, &verr):
		writeFailure(w, http.StatusBadRequest, verr.Reason, verr.Error(), nil)
	case errors.Is(err, domain.ErrConflict):
		writeFailure(w, http.StatusConflict, "A restaurant with this name already exists", "", nil)
	default:
		log.Error().Err(err).Str("name", in.Name).Msg("create restaurant failed")
		writeFailure(w, http.StatusInternalServerError, "Failed to create restaurant", err.Error(), nil)
	}
}

func (h *Handlers) deleteRestaurant(w http.ResponseWriter, r *http.Request) {
	if h.C == nil {
		writeFailure(w, http.StatusMethodNotAllowed, "This backend is read-only", "", nil)
		return
	}
	id := r.URL.Query().Get("id")
	if id == "" {
		writeFailure(w, http.StatusBadRequest, "Restaurant ID is required", "", nil)
		return
	}

	err := h.C.Delete(r.Context(), id)
	observability.ObserveWrite("delete", err)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, envelope{Success: true, Message: "Restaurant deleted successfully"})
	case errors.Is(err, domain.ErrNotFound):
		writeFailure(w, http.StatusNotFound, "Restaurant not found", "", nil)
	default:
		log.Error().Err(err).Str("id", id).Msg("delete restaurant failed")
		writeFailure(w, http.StatusInternalServerError, "Failed to delete restaurant", err.Error(), nil)
	}
}
