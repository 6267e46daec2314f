package prompts

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/promptdeck/promptdeck/pkg/handlers"
	"github.com/promptdeck/promptdeck/pkg/pagination"
	"github.com/promptdeck/promptdeck/pkg/response"
	"github.com/promptdeck/promptdeck/pkg/routes"
)

// Handler provides HTTP endpoints for prompt operations.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// SearchRequest combines pagination and filter criteria for the search endpoint.
type SearchRequest struct {
	pagination.PageRequest
	Filters
}

// ShareRequest carries the recipient addresses for the share endpoint.
type ShareRequest struct {
	Emails []string `json:"emails"`
}

// NewHandler creates a Handler with the given system, logger, and pagination config.
func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "prompts"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for prompt endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/prompts",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.FindAll},
			{Method: "GET", Pattern: "/published", Handler: h.FindPublished},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "POST", Pattern: "", Handler: h.Create},
			{Method: "POST", Pattern: "/search", Handler: h.Search},
			{Method: "POST", Pattern: "/{id}/share", Handler: h.Share},
			{Method: "POST", Pattern: "/{id}/duplicate", Handler: h.Duplicate},
			{Method: "PUT", Pattern: "/{id}", Handler: h.Update},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete},
		},
	}
}

// FindAll returns every prompt visible to the acting user.
func (h *Handler) FindAll(w http.ResponseWriter, r *http.Request) {
	respond(w, h.sys.FindAll(r.Context()))
}

// FindPublished returns published prompts visible to the acting user.
func (h *Handler) FindPublished(w http.ResponseWriter, r *http.Request) {
	respond(w, h.sys.FindPublished(r.Context()))
}

// Find returns a single prompt by its id path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	respond(w, h.sys.FindByID(r.Context(), r.PathValue("id")))
}

// Search accepts a JSON body with pagination and filter criteria and returns
// matching prompts.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	respond(w, h.sys.List(r.Context(), req.PageRequest, req.Filters))
}

// Create persists a new prompt for the acting user.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var input Prompt
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	res := h.sys.Create(r.Context(), input)
	if res.OK() {
		handlers.RespondJSON(w, http.StatusCreated, res)
		return
	}

	respond(w, res)
}

// Update merges the submitted fields into an existing prompt.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var input Prompt
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	input.ID = r.PathValue("id")
	respond(w, h.sys.Upsert(r.Context(), input))
}

// Delete removes a prompt owned by the acting user.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	respond(w, h.sys.Delete(r.Context(), r.PathValue("id")))
}

// Share grants the listed addresses access to a published prompt.
func (h *Handler) Share(w http.ResponseWriter, r *http.Request) {
	var req ShareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	respond(w, h.sys.Share(r.Context(), r.PathValue("id"), req.Emails))
}

// Duplicate copies a prompt shared with the acting user into their collection.
func (h *Handler) Duplicate(w http.ResponseWriter, r *http.Request) {
	respond(w, h.sys.Duplicate(r.Context(), r.PathValue("id")))
}

func respond[T any](w http.ResponseWriter, res response.Response[T]) {
	handlers.RespondJSON(w, response.HTTPStatus(res.Status), res)
}
