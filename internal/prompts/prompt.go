// Package prompts implements the prompt domain: shareable text artifacts
// with ownership, publication, and duplicate access controls. It provides
// the model, validation, authorization rules, operations, and HTTP handlers.
package prompts

import "time"

// RecordType is the container discriminator tag for prompt records.
const RecordType = "PROMPT"

// summaryLimit caps the description length used for card summaries.
const summaryLimit = 100

// Prompt is a shareable text artifact. UserID is set once at creation from
// the authenticated creator; SharedWith holds the email addresses granted
// duplicate access and contains no duplicates.
type Prompt struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	IsPublished bool      `json:"isPublished"`
	UserID      string    `json:"userId"`
	SharedWith  []string  `json:"sharedWith"`
	Type        string    `json:"type"`
}

// BasePrompt is the older record shape, predating the sharing list.
type BasePrompt struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	IsPublished bool      `json:"isPublished"`
	UserID      string    `json:"userId"`
	Type        string    `json:"type"`
}

// Summary returns the description clipped for card display. Stored data is
// never mutated; this is display-only.
func (p Prompt) Summary() string {
	runes := []rune(p.Description)
	if len(runes) <= summaryLimit {
		return p.Description
	}
	return string(runes[:summaryLimit]) + "..."
}
