// Package promptstate holds the prompt editor state: the record currently
// being edited, the editor's open flag, and the validation messages from the
// last submit. Mutating methods are safe for concurrent use and mutations
// publish change notifications to watchers.
package promptstate

import (
	"context"
	"sync"

	"github.com/promptdeck/promptdeck/internal/prompts"
	"github.com/promptdeck/promptdeck/pkg/notify"
	"github.com/promptdeck/promptdeck/pkg/response"
	"github.com/promptdeck/promptdeck/pkg/revalidate"
)

// RevalidatePage identifies the page refetched after a successful submit.
const RevalidatePage = "prompt"

// Form is the editor's raw input shape. It carries the older record shape;
// submit upgrades it before dispatching.
type Form struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPublished bool   `json:"isPublished"`
}

// State is a snapshot of the editor.
type State struct {
	Prompt   prompts.Prompt     `json:"prompt"`
	IsOpened bool               `json:"isOpened"`
	Errors   []response.Message `json:"errors"`
}

// Store synchronizes editor state with the prompt operations layer.
type Store struct {
	mu       sync.RWMutex
	prompt   prompts.Prompt
	isOpened bool
	errors   []response.Message

	sys        prompts.System
	revalidate revalidate.Revalidator
	notifier   notify.Notifier
	watchers   []chan State
}

// NewStore creates a Store over the given operations layer and boundaries.
func NewStore(sys prompts.System, rv revalidate.Revalidator, n notify.Notifier) *Store {
	return &Store{
		prompt:     prompts.Upgrade(prompts.BasePrompt{}),
		sys:        sys,
		revalidate: rv,
		notifier:   n,
	}
}

// Snapshot returns the current editor state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Watch returns a channel receiving a state snapshot after every mutation.
// Slow receivers miss intermediate snapshots rather than blocking mutations.
func (s *Store) Watch() <-chan State {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan State, 1)
	s.watchers = append(s.watchers, ch)
	return ch
}

// NewPrompt resets the buffer to an empty upgraded record and opens the editor.
func (s *Store) NewPrompt() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prompt = prompts.Upgrade(prompts.BasePrompt{})
	s.isOpened = true
	s.errors = nil
	s.publishLocked()
}

// UpdatePrompt loads an existing record into the buffer and opens the editor.
func (s *Store) UpdatePrompt(p prompts.Prompt) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prompt = p
	s.isOpened = true
	s.errors = nil
	s.publishLocked()
}

// UpdateFromBase upgrades an older-shape record and loads it into the buffer.
func (s *Store) UpdateFromBase(base prompts.BasePrompt) {
	s.UpdatePrompt(prompts.Upgrade(base))
}

// UpdateOpened sets the editor's open flag.
func (s *Store) UpdateOpened(opened bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.isOpened = opened
	s.publishLocked()
}

// UpdateErrors replaces the buffered validation messages.
func (s *Store) UpdateErrors(errs []response.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.errors = errs
	s.publishLocked()
}

// Submit upgrades the form input and dispatches it: records without an id
// are created, records with one are updated. On success the editor closes
// and the prompt page is revalidated; on failure the messages buffer for
// the UI and a notification fires.
func (s *Store) Submit(ctx context.Context, form Form) response.Response[prompts.Prompt] {
	model := prompts.Upgrade(prompts.BasePrompt{
		ID:          form.ID,
		Name:        form.Name,
		Description: form.Description,
		IsPublished: form.IsPublished,
		Type:        prompts.RecordType,
	})

	var res response.Response[prompts.Prompt]
	if form.ID == "" {
		res = s.sys.Create(ctx, model)
	} else {
		res = s.sys.Upsert(ctx, model)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if res.OK() {
		s.prompt = res.Payload
		s.isOpened = false
		s.errors = nil
		s.publishLocked()

		s.revalidate.Revalidate(RevalidatePage)
		return res
	}

	s.errors = res.Errors
	s.publishLocked()

	if msgs := res.Messages(); len(msgs) > 0 {
		s.notifier.Error(msgs[0], nil)
	}

	return res
}

func (s *Store) snapshotLocked() State {
	errs := make([]response.Message, len(s.errors))
	copy(errs, s.errors)

	return State{
		Prompt:   s.prompt,
		IsOpened: s.isOpened,
		Errors:   errs,
	}
}

func (s *Store) publishLocked() {
	snap := s.snapshotLocked()
	for _, ch := range s.watchers {
		select {
		case ch <- snap:
		default:
		}
	}
}
