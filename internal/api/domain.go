package api

import (
	"github.com/promptdeck/promptdeck/internal/chats"
	"github.com/promptdeck/promptdeck/internal/prompts"
	"github.com/promptdeck/promptdeck/internal/promptstate"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Prompts prompts.System
	Chats   chats.System
	Editor  *promptstate.Store
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	promptsSystem := prompts.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	chatsSystem := chats.New(
		runtime.Database.Connection(),
		runtime.Logger,
	)

	editorStore := promptstate.NewStore(
		promptsSystem,
		runtime.Revalidator,
		runtime.Notifier,
	)

	return &Domain{
		Prompts: promptsSystem,
		Chats:   chatsSystem,
		Editor:  editorStore,
	}
}
