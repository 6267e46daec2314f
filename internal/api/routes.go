package api

import (
	"net/http"

	"github.com/promptdeck/promptdeck/internal/promptstate"
	"github.com/promptdeck/promptdeck/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	runtime *Runtime,
) {
	routes.Register(
		mux,
		domain.Prompts.Handler().Routes(),
	)
	routes.Register(
		mux,
		domain.Chats.Handler().Routes(),
	)
	routes.Register(
		mux,
		promptstate.NewHandler(domain.Editor, runtime.Logger).Routes(),
	)
	routes.Register(
		mux,
		newRevalidationHandler(runtime.Revalidator, runtime.Logger).routes(),
	)
}
