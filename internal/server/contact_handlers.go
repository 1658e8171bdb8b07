package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/telbook/telbook/internal/auth"
	"github.com/telbook/telbook/internal/db/models"
	"github.com/telbook/telbook/internal/middleware"
	"github.com/telbook/telbook/internal/services/contact"
)

// ContactService defines the contact operations needed by the REST handlers.
type ContactService interface {
	List(ctx context.Context, ownerID int64, search string, page int) (*contact.Page, error)
	Create(ctx context.Context, ownerID int64, in contact.Input) (*models.Contact, error)
	Get(ctx context.Context, ownerID, id int64) (*models.Contact, error)
	Update(ctx context.Context, ownerID, id int64, in contact.Input, partial bool) (*models.Contact, error)
	Delete(ctx context.Context, ownerID, id int64) error
}

// ContactHandlers wires the contact CRUD endpoints.
type ContactHandlers struct {
	service ContactService
}

// NewContactHandlers creates a handler set over the given contact service.
func NewContactHandlers(service ContactService) *ContactHandlers {
	return &ContactHandlers{service: service}
}

// Mount registers the contact routes. The router group is expected to carry
// the authentication middleware already; every handler here assumes a
// resolved user on the context.
func (h *ContactHandlers) Mount(r chi.Router) {
	r.Get("/contacts/", h.List)
	r.Post("/contacts/", h.Create)
	r.Get("/contacts/{id}/", h.Retrieve)
	r.Put("/contacts/{id}/", h.Update)
	r.Patch("/contacts/{id}/", h.PartialUpdate)
	r.Delete("/contacts/{id}/", h.Delete)
}

// paginatedResponse is the list body shape: {count, next, previous, results}.
type paginatedResponse struct {
	Count    int              `json:"count"`
	Next     *string          `json:"next"`
	Previous *string          `json:"previous"`
	Results  []models.Contact `json:"results"`
}

// List handles GET /contacts/ with optional ?search= and ?page= parameters.
func (h *ContactHandlers) List(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		respondDetail(w, http.StatusUnauthorized, middleware.DetailNoCredentials)
		return
	}

	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondDetail(w, http.StatusNotFound, DetailInvalidPage)
			return
		}
		page = parsed
	}

	result, err := h.service.List(r.Context(), user.ID, r.URL.Query().Get("search"), page)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	results := result.Results
	if results == nil {
		results = []models.Contact{}
	}

	resp := paginatedResponse{
		Count:   result.Count,
		Results: results,
	}
	if result.HasNext() {
		resp.Next = pageURL(r, result.Number+1)
	}
	if result.HasPrevious() {
		resp.Previous = pageURL(r, result.Number-1)
	}

	respondJSON(w, http.StatusOK, resp)
}

// Create handles POST /contacts/. The owner is always the authenticated
// user; an owner key in the body has no representation in the input type and
// is silently discarded.
func (h *ContactHandlers) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		respondDetail(w, http.StatusUnauthorized, middleware.DetailNoCredentials)
		return
	}

	in, err := decodeInput(r)
	if err != nil {
		respondDetail(w, http.StatusBadRequest, DetailMalformedBody)
		return
	}

	created, err := h.service.Create(r.Context(), user.ID, in)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, created)
}

// Retrieve handles GET /contacts/{id}/.
func (h *ContactHandlers) Retrieve(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		respondDetail(w, http.StatusUnauthorized, middleware.DetailNoCredentials)
		return
	}

	id, err := contactID(r)
	if err != nil {
		respondDetail(w, http.StatusNotFound, DetailNotFound)
		return
	}

	found, err := h.service.Get(r.Context(), user.ID, id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, found)
}

// Update handles PUT /contacts/{id}/ as a full replacement.
func (h *ContactHandlers) Update(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, false)
}

// PartialUpdate handles PATCH /contacts/{id}/, applying only supplied fields.
func (h *ContactHandlers) PartialUpdate(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, true)
}

func (h *ContactHandlers) update(w http.ResponseWriter, r *http.Request, partial bool) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		respondDetail(w, http.StatusUnauthorized, middleware.DetailNoCredentials)
		return
	}

	id, err := contactID(r)
	if err != nil {
		respondDetail(w, http.StatusNotFound, DetailNotFound)
		return
	}

	in, err := decodeInput(r)
	if err != nil {
		respondDetail(w, http.StatusBadRequest, DetailMalformedBody)
		return
	}

	updated, err := h.service.Update(r.Context(), user.ID, id, in, partial)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /contacts/{id}/.
func (h *ContactHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		respondDetail(w, http.StatusUnauthorized, middleware.DetailNoCredentials)
		return
	}

	id, err := contactID(r)
	if err != nil {
		respondDetail(w, http.StatusNotFound, DetailNotFound)
		return
	}

	if err := h.service.Delete(r.Context(), user.ID, id); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// writeServiceError maps contact service failures onto the REST error shapes.
func (h *ContactHandlers) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *contact.ValidationError
	switch {
	case errors.As(err, &verr):
		respondJSON(w, http.StatusBadRequest, verr.Fields)
	case errors.Is(err, contact.ErrNotFound):
		respondDetail(w, http.StatusNotFound, DetailNotFound)
	case errors.Is(err, contact.ErrInvalidPage):
		respondDetail(w, http.StatusNotFound, DetailInvalidPage)
	default:
		log.Printf("contact handler error for %s %s: %v", r.Method, r.URL.Path, err)
		respondDetail(w, http.StatusInternalServerError, DetailInternalError)
	}
}

// contactID parses the {id} route parameter. Unparseable IDs surface as 404
// in the handlers, same as missing records.
func contactID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// decodeInput reads the contact fields from the request body. An empty body
// decodes to the zero input so that validation reports every missing field.
func decodeInput(r *http.Request) (contact.Input, error) {
	var in contact.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil && !errors.Is(err, io.EOF) {
		return contact.Input{}, err
	}
	return in, nil
}

// pageURL rebuilds the request URL pointing at the given page number. The
// page parameter is dropped for page one, so the first-page URL is canonical.
func pageURL(r *http.Request, page int) *string {
	u := *r.URL

	q := u.Query()
	if page <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	u.RawQuery = q.Encode()

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}

	full := scheme + "://" + r.Host + u.String()
	return &full
}
