package promptstate

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/promptdeck/promptdeck/pkg/handlers"
	"github.com/promptdeck/promptdeck/pkg/response"
	"github.com/promptdeck/promptdeck/pkg/routes"

	"github.com/promptdeck/promptdeck/internal/prompts"
)

// Handler exposes the editor store over HTTP for thin clients that keep
// their editing session server-side.
type Handler struct {
	store  *Store
	logger *slog.Logger
}

// OpenRequest toggles the editor's open flag.
type OpenRequest struct {
	Opened bool `json:"opened"`
}

// NewHandler creates a Handler over the given store.
func NewHandler(store *Store, logger *slog.Logger) *Handler {
	return &Handler{
		store:  store,
		logger: logger.With("handler", "editor"),
	}
}

// Routes returns the route group definition for editor endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/editor",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.Snapshot},
			{Method: "POST", Pattern: "/new", Handler: h.New},
			{Method: "POST", Pattern: "/load", Handler: h.Load},
			{Method: "POST", Pattern: "/open", Handler: h.Open},
			{Method: "POST", Pattern: "/submit", Handler: h.Submit},
		},
	}
}

// Snapshot returns the current editor state.
func (h *Handler) Snapshot(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, h.store.Snapshot())
}

// New resets the editor to an empty record and opens it.
func (h *Handler) New(w http.ResponseWriter, r *http.Request) {
	h.store.NewPrompt()
	handlers.RespondJSON(w, http.StatusOK, h.store.Snapshot())
}

// Load places an existing record in the editor and opens it. The body is
// accepted in the older record shape and upgraded on the way in; sharing
// state is never edited here, so nothing is lost.
func (h *Handler) Load(w http.ResponseWriter, r *http.Request) {
	var base prompts.BasePrompt
	if err := json.NewDecoder(r.Body).Decode(&base); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	h.store.UpdateFromBase(base)
	handlers.RespondJSON(w, http.StatusOK, h.store.Snapshot())
}

// Open sets the editor's open flag.
func (h *Handler) Open(w http.ResponseWriter, r *http.Request) {
	var req OpenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	h.store.UpdateOpened(req.Opened)
	handlers.RespondJSON(w, http.StatusOK, h.store.Snapshot())
}

// Submit dispatches the editor form through the operations layer.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var form Form
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	res := h.store.Submit(r.Context(), form)
	handlers.RespondJSON(w, response.HTTPStatus(res.Status), res)
}
