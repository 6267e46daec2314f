package prompts

import (
	"strings"

	"github.com/promptdeck/promptdeck/pkg/response"
)

// Validation messages surfaced to the UI.
const (
	MsgTitleEmpty       = "Title cannot be empty"
	MsgDescriptionEmpty = "Description cannot be empty"
	MsgInvalidType      = "Record type must be PROMPT"
)

// Validate checks the record against the current schema and returns the
// violations. An empty result means the record is valid.
func (p Prompt) Validate() []response.Message {
	var errs []response.Message

	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, response.Message{Message: MsgTitleEmpty})
	}
	if strings.TrimSpace(p.Description) == "" {
		errs = append(errs, response.Message{Message: MsgDescriptionEmpty})
	}
	if p.Type != RecordType {
		errs = append(errs, response.Message{Message: MsgInvalidType})
	}

	return errs
}

// Upgrade converts a base-shape record to the current shape, defaulting the
// sharing list to empty. Records that fail validation after conversion are
// returned as-is with the base fields carried over; the failure surfaces
// later at the operation boundary, never here.
func Upgrade(base BasePrompt) Prompt {
	return Prompt{
		ID:          base.ID,
		Name:        base.Name,
		Description: base.Description,
		CreatedAt:   base.CreatedAt,
		IsPublished: base.IsPublished,
		UserID:      base.UserID,
		SharedWith:  []string{},
		Type:        base.Type,
	}
}
