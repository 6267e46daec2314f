package chats

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/promptdeck/promptdeck/internal/session"
	"github.com/promptdeck/promptdeck/pkg/docstore"
	"github.com/promptdeck/promptdeck/pkg/query"
	"github.com/promptdeck/promptdeck/pkg/response"
)

const (
	MsgNotSignedIn   = "Not signed in"
	MsgNotFound      = "Chat thread not found"
	MsgOwnerOnly     = "Only the owner can manage co-users"
	MsgInvalidCoUser = "Please provide a valid email address"
)

// Store is the container contract the chat service depends on.
// *docstore.Container[ChatThread] satisfies it.
type Store interface {
	Builder(defaultSort ...query.SortField) *query.Builder
	Query(ctx context.Context, qb *query.Builder) ([]ChatThread, error)
	QueryOne(ctx context.Context, qb *query.Builder) (ChatThread, error)
	Insert(ctx context.Context, fields docstore.Fields) (ChatThread, error)
	Upsert(ctx context.Context, fields docstore.Fields) (ChatThread, error)
	Delete(ctx context.Context, id, partitionKey string) (ChatThread, error)
}

// System defines the public contract for chat thread operations.
type System interface {
	Handler() *Handler

	Create(ctx context.Context, input ChatThread) response.Response[ChatThread]
	FindAll(ctx context.Context) response.Response[[]ChatThread]
	FindByID(ctx context.Context, id string) response.Response[ChatThread]
	AddCoUser(ctx context.Context, id, email string) response.Response[ChatThread]
	RemoveCoUser(ctx context.Context, id, email string) response.Response[ChatThread]
	Delete(ctx context.Context, id string) response.Response[ChatThread]
}

type service struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
}

// New creates a chat system backed by the shared records container.
func New(db *sql.DB, logger *slog.Logger) System {
	store := docstore.NewContainer(db, projection, RecordType, scanThread, logger)
	return NewWithStore(store, logger)
}

// NewWithStore creates a chat system over an explicit store.
func NewWithStore(store Store, logger *slog.Logger) System {
	return &service{
		store:  store,
		logger: logger.With("system", "chats"),
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

func (s *service) Handler() *Handler {
	return NewHandler(s, s.logger)
}

func (s *service) Create(ctx context.Context, input ChatThread) response.Response[ChatThread] {
	user, ok := session.FromContext(ctx)
	if !ok {
		return response.Unauthorized[ChatThread](MsgNotSignedIn)
	}

	model := ChatThread{
		ID:        s.newID(),
		Name:      input.Name,
		UserID:    user.ID,
		CoUsers:   []string{},
		CreatedAt: s.now(),
		Type:      RecordType,
	}

	if errs := model.Validate(); len(errs) > 0 {
		return response.Response[ChatThread]{Status: response.StatusError, Errors: errs}
	}

	fields, err := recordFields(model)
	if err != nil {
		return response.Errorf[ChatThread]("Error creating chat thread: %v", err)
	}

	created, err := s.store.Insert(ctx, fields)
	if err != nil {
		return response.Errorf[ChatThread]("Error creating chat thread: %v", err)
	}

	s.logger.Info("chat thread created", "id", created.ID, "user", user.ID)
	return response.OK(created)
}

// FindAll returns threads the acting user owns or participates in. Admins
// see every thread.
func (s *service) FindAll(ctx context.Context) response.Response[[]ChatThread] {
	user, ok := session.FromContext(ctx)
	if !ok {
		return response.Unauthorized[[]ChatThread](MsgNotSignedIn)
	}

	qb := s.store.Builder(defaultSort)

	if !user.IsAdmin {
		qb.WhereOr(
			query.Eq("UserID", user.ID),
			query.JSONContains("CoUsers", user.Email),
		)
	}

	items, err := s.store.Query(ctx, qb)
	if err != nil {
		return response.Errorf[[]ChatThread]("Error retrieving chat threads: %v", err)
	}

	return response.OK(items)
}

func (s *service) FindByID(ctx context.Context, id string) response.Response[ChatThread] {
	qb := s.store.Builder().WhereEquals("ID", &id)

	t, err := s.store.QueryOne(ctx, qb)
	if err != nil {
		if err == sql.ErrNoRows {
			return response.NotFound[ChatThread](MsgNotFound)
		}
		return response.Errorf[ChatThread]("Error finding chat thread: %v", err)
	}

	return response.OK(t)
}

func (s *service) AddCoUser(ctx context.Context, id, email string) response.Response[ChatThread] {
	gate := s.ownerGate(ctx, id)
	if !gate.OK() {
		return gate
	}

	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return response.Error[ChatThread](MsgInvalidCoUser)
	}

	thread := gate.Payload
	if thread.HasCoUser(email) {
		return response.OK(thread)
	}

	thread.CoUsers = append(thread.CoUsers, email)
	return s.save(ctx, thread)
}

func (s *service) RemoveCoUser(ctx context.Context, id, email string) response.Response[ChatThread] {
	gate := s.ownerGate(ctx, id)
	if !gate.OK() {
		return gate
	}

	thread := gate.Payload
	remaining := make([]string, 0, len(thread.CoUsers))
	for _, c := range thread.CoUsers {
		if c != email {
			remaining = append(remaining, c)
		}
	}

	if len(remaining) == len(thread.CoUsers) {
		return response.OK(thread)
	}

	thread.CoUsers = remaining
	return s.save(ctx, thread)
}

func (s *service) Delete(ctx context.Context, id string) response.Response[ChatThread] {
	gate := s.ownerGate(ctx, id)
	if !gate.OK() {
		return gate
	}

	deleted, err := s.store.Delete(ctx, id, gate.Payload.UserID)
	if err != nil {
		return response.Errorf[ChatThread]("Error deleting chat thread: %v", err)
	}

	s.logger.Info("chat thread deleted", "id", id)
	return response.OK(deleted)
}

func (s *service) ownerGate(ctx context.Context, id string) response.Response[ChatThread] {
	found := s.FindByID(ctx, id)
	user, ok := session.FromContext(ctx)

	if found.OK() && ok && (user.IsAdmin || found.Payload.UserID == user.ID) {
		return found
	}

	if found.OK() {
		return response.Unauthorized[ChatThread](MsgOwnerOnly)
	}

	return response.Unauthorized[ChatThread](fmt.Sprintf("Chat thread not found with id: %s", id))
}

func (s *service) save(ctx context.Context, thread ChatThread) response.Response[ChatThread] {
	fields, err := recordFields(thread)
	if err != nil {
		return response.Errorf[ChatThread]("Error updating chat thread: %v", err)
	}

	updated, err := s.store.Upsert(ctx, fields)
	if err != nil {
		return response.Errorf[ChatThread]("Error updating chat thread: %v", err)
	}

	return response.OK(updated)
}
