package api

import (
	"log/slog"
	"net/http"

	"github.com/promptdeck/promptdeck/pkg/handlers"
	"github.com/promptdeck/promptdeck/pkg/revalidate"
	"github.com/promptdeck/promptdeck/pkg/routes"
)

// revalidationHandler lets clients poll the revalidation generation for a
// page and refetch when it moves.
type revalidationHandler struct {
	broadcast *revalidate.Broadcast
	logger    *slog.Logger
}

type revalidationState struct {
	Page       string `json:"page"`
	Generation uint64 `json:"generation"`
}

func newRevalidationHandler(broadcast *revalidate.Broadcast, logger *slog.Logger) *revalidationHandler {
	return &revalidationHandler{
		broadcast: broadcast,
		logger:    logger.With("handler", "revalidations"),
	}
}

func (h *revalidationHandler) routes() routes.Group {
	return routes.Group{
		Prefix: "/revalidations",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/{page}", Handler: h.find},
		},
	}
}

func (h *revalidationHandler) find(w http.ResponseWriter, r *http.Request) {
	page := r.PathValue("page")

	handlers.RespondJSON(w, http.StatusOK, revalidationState{
		Page:       page,
		Generation: h.broadcast.Generation(page),
	})
}
