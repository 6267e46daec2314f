package chats

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/promptdeck/promptdeck/pkg/handlers"
	"github.com/promptdeck/promptdeck/pkg/response"
	"github.com/promptdeck/promptdeck/pkg/routes"
)

// Handler provides HTTP endpoints for chat thread operations.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// CoUserRequest carries a single co-user address for membership endpoints.
type CoUserRequest struct {
	Email string `json:"email"`
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "chats"),
	}
}

// Routes returns the route group definition for chat endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/chats",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.FindAll},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "POST", Pattern: "", Handler: h.Create},
			{Method: "POST", Pattern: "/{id}/co-users", Handler: h.AddCoUser},
			{Method: "DELETE", Pattern: "/{id}/co-users", Handler: h.RemoveCoUser},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete},
		},
	}
}

// FindAll returns every thread the acting user owns or participates in.
func (h *Handler) FindAll(w http.ResponseWriter, r *http.Request) {
	respond(w, h.sys.FindAll(r.Context()))
}

// Find returns a single thread by its id path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	respond(w, h.sys.FindByID(r.Context(), r.PathValue("id")))
}

// Create persists a new thread owned by the acting user.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var input ChatThread
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

// AddCoUser grants an address access to a thread.
func (h *Handler) AddCoUser(w http.ResponseWriter, r *http.Request) {
	var req CoUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	respond(w, h.sys.AddCoUser(r.Context(), r.PathValue("id"), req.Email))
}

// RemoveCoUser revokes an address's access to a thread.
func (h *Handler) RemoveCoUser(w http.ResponseWriter, r *http.Request) {
	var req CoUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	respond(w, h.sys.RemoveCoUser(r.Context(), r.PathValue("id"), req.Email))
}

// Delete removes a thread owned by the acting user.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	respond(w, h.sys.Delete(r.Context(), r.PathValue("id")))
}

func respond[T any](w http.ResponseWriter, res response.Response[T]) {
	handlers.RespondJSON(w, response.HTTPStatus(res.Status), res)
}
