package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ecosferadigital/ecosfera-core/internal/resource"
)

// crud is the standard handler set for one resource. The five resources
// share the same shape; the flags capture the per-resource quirks of the
// legacy contract.
type crud[E any, P any] struct {
	repo *resource.Repository[E, P]
	name string

	// updateNoContent makes PUT answer 204 without a body.
	updateNoContent bool

	// afterCreate runs once a create has committed. Used to feed the
	// WebSocket hub, the broker and the readings mirror.
	afterCreate func(e *E)
}

// mountCRUD registers list/get/create/update/delete routes for a resource
// under the given path.
func mountCRUD[E any, P any](r chi.Router, path string, h crud[E, P]) {
	r.Route(path, func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.create)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.get)
			r.Put("/", h.update)
			r.Delete("/", h.delete)
		})
	})
}

func (h crud[E, P]) list(w http.ResponseWriter, r *http.Request) {
	entities, err := h.repo.List(r.Context())
	if err != nil {
		writeRepoError(w, err, "no "+h.name+" records found")
		return
	}
	writeJSON(w, http.StatusOK, entities)
}

func (h crud[E, P]) get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	entity, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		writeRepoError(w, err, h.name+" not found")
		return
	}
	writeJSON(w, http.StatusOK, entity)
}

func (h crud[E, P]) create(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodePayload[P](w, r)
	if !ok {
		return
	}

	entity, err := h.repo.Create(r.Context(), payload)
	if err != nil {
		writeRepoError(w, err, h.name+" not found")
		return
	}

	if h.afterCreate != nil {
		h.afterCreate(entity)
	}
	writeJSON(w, http.StatusCreated, entity)
}

func (h crud[E, P]) update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	payload, ok := decodePayload[P](w, r)
	if !ok {
		return
	}

	entity, err := h.repo.Update(r.Context(), id, payload)
	if err != nil {
		writeRepoError(w, err, h.name+" not found")
		return
	}

	if h.updateNoContent {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, entity)
}

func (h crud[E, P]) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		writeRepoError(w, err, h.name+" not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// parseID extracts the {id} path parameter. On failure it writes a 400
// and returns ok=false.
func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		writeBadRequest(w, "invalid id: "+raw)
		return 0, false
	}
	return id, true
}

// decodePayload reads a JSON request body. On failure it writes a 400
// and returns ok=false.
func decodePayload[P any](w http.ResponseWriter, r *http.Request) (P, bool) {
	var payload P
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeBadRequest(w, "invalid request body: "+err.Error())
		return payload, false
	}
	return payload, true
}
