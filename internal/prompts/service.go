package prompts

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/promptdeck/promptdeck/internal/session"
	"github.com/promptdeck/promptdeck/pkg/docstore"
	"github.com/promptdeck/promptdeck/pkg/pagination"
	"github.com/promptdeck/promptdeck/pkg/query"
	"github.com/promptdeck/promptdeck/pkg/response"
)

// Operation messages surfaced to the UI.
const (
	MsgNotSignedIn       = "Not signed in"
	MsgNotFound          = "Prompt not found"
	MsgOwnerOnlyShare    = "Only the owner can share this prompt"
	MsgUnpublishedShare  = "Only published prompts can be shared"
	MsgNoValidAddresses  = "Please provide valid email addresses (xxxxx@eg.)"
	MsgDuplicateOwn      = "Cannot duplicate your own prompt"
	MsgNotSharedWithYou  = "Prompt is not shared with you"
	copySuffix           = " (Copy)"
)

// Store is the container contract the prompt service depends on.
// *docstore.Container[Prompt] satisfies it.
type Store interface {
	Builder(defaultSort ...query.SortField) *query.Builder
	Query(ctx context.Context, qb *query.Builder) ([]Prompt, error)
	QueryPage(ctx context.Context, qb *query.Builder, page, pageSize int) ([]Prompt, error)
	Count(ctx context.Context, qb *query.Builder) (int, error)
	QueryOne(ctx context.Context, qb *query.Builder) (Prompt, error)
	Insert(ctx context.Context, fields docstore.Fields) (Prompt, error)
	Upsert(ctx context.Context, fields docstore.Fields) (Prompt, error)
	Delete(ctx context.Context, id, partitionKey string) (Prompt, error)
}

// System defines the public contract for prompt domain operations.
// Every operation independently derives the acting user from the request
// context and returns a tagged envelope; store faults never escape as
// Go errors.
type System interface {
	Handler() *Handler

	Create(ctx context.Context, input Prompt) response.Response[Prompt]
	FindAll(ctx context.Context) response.Response[[]Prompt]
	FindPublished(ctx context.Context) response.Response[[]Prompt]
	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) response.Response[pagination.PageResult[Prompt]]
	FindByID(ctx context.Context, id string) response.Response[Prompt]
	EnsureOperationAllowed(ctx context.Context, id string) response.Response[Prompt]
	Delete(ctx context.Context, id string) response.Response[Prompt]
	Upsert(ctx context.Context, input Prompt) response.Response[Prompt]
	Share(ctx context.Context, id string, emails []string) response.Response[Prompt]
	Duplicate(ctx context.Context, id string) response.Response[Prompt]
}

// Filters contains optional filtering criteria for paged prompt queries.
// Nil fields are ignored.
type Filters struct {
	IsPublished *bool   `json:"isPublished,omitempty"`
	Name        *string `json:"name,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("IsPublished", f.IsPublished).
		WhereContains("Name", f.Name)
}

type service struct {
	store      Store
	logger     *slog.Logger
	pagination pagination.Config
	now        func() time.Time
	newID      func() string
}

// New creates a prompt system backed by the shared records container.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	store := docstore.NewContainer(db, projection, RecordType, scanPrompt, logger)
	return NewWithStore(store, logger, pagination)
}

// NewWithStore creates a prompt system over an explicit store.
func NewWithStore(store Store, logger *slog.Logger, pagination pagination.Config) System {
	return &service{
		store:      store,
		logger:     logger.With("system", "prompts"),
		pagination: pagination,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

func (s *service) Handler() *Handler {
	return NewHandler(s, s.logger, s.pagination)
}

func (s *service) Create(ctx context.Context, input Prompt) response.Response[Prompt] {
	user, ok := session.FromContext(ctx)
	if !ok {
		return response.Unauthorized[Prompt](MsgNotSignedIn)
	}

	// Ownership, sharing, and timestamps come from the server regardless of
	// what the caller supplied.
	model := Prompt{
		ID:          s.newID(),
		Name:        input.Name,
		Description: input.Description,
		IsPublished: input.IsPublished,
		UserID:      user.ID,
		SharedWith:  []string{},
		CreatedAt:   s.now(),
		Type:        RecordType,
	}

	if errs := model.Validate(); len(errs) > 0 {
		return response.Response[Prompt]{Status: response.StatusError, Errors: errs}
	}

	fields, err := recordFields(model)
	if err != nil {
		return response.Errorf[Prompt]("Error creating prompt: %v", err)
	}

	created, err := s.store.Insert(ctx, fields)
	if err != nil {
		return response.Errorf[Prompt]("Error creating prompt: %v", err)
	}

	s.logger.Info("prompt created", "id", created.ID, "user", user.ID)
	return response.OK(created)
}

func (s *service) FindAll(ctx context.Context) response.Response[[]Prompt] {
	user, ok := session.FromContext(ctx)
	if !ok {
		return response.Unauthorized[[]Prompt](MsgNotSignedIn)
	}

	qb := Visible(s.store.Builder(defaultSort), user)

	items, err := s.store.Query(ctx, qb)
	if err != nil {
		return response.Errorf[[]Prompt]("Error retrieving prompts: %v", err)
	}

	return response.OK(items)
}

func (s *service) FindPublished(ctx context.Context) response.Response[[]Prompt] {
	user, ok := session.FromContext(ctx)
	if !ok {
		return response.Unauthorized[[]Prompt](MsgNotSignedIn)
	}

	published := true
	qb := s.store.Builder(defaultSort).WhereEquals("IsPublished", &published)

	if !user.IsAdmin {
		qb.WhereOr(
			query.Eq("UserID", user.ID),
			query.JSONContains("SharedWith", user.Email),
		)
	}

	items, err := s.store.Query(ctx, qb)
	if err != nil {
		return response.Errorf[[]Prompt]("Error retrieving published prompts: %v", err)
	}

	return response.OK(items)
}

func (s *service) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) response.Response[pagination.PageResult[Prompt]] {
	type result = pagination.PageResult[Prompt]

	user, ok := session.FromContext(ctx)
	if !ok {
		return response.Unauthorized[result](MsgNotSignedIn)
	}

	page.Normalize(s.pagination)

	qb := Visible(s.store.Builder(defaultSort), user).
		WhereSearch(page.Search, "Name", "Description")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	total, err := s.store.Count(ctx, qb)
	if err != nil {
		return response.Errorf[result]("Error retrieving prompts: %v", err)
	}

	items, err := s.store.QueryPage(ctx, qb, page.Page, page.PageSize)
	if err != nil {
		return response.Errorf[result]("Error retrieving prompts: %v", err)
	}

	return response.OK(pagination.NewPageResult(items, total, page.Page, page.PageSize))
}

func (s *service) FindByID(ctx context.Context, id string) response.Response[Prompt] {
	qb := s.store.Builder().WhereEquals("ID", &id)

	p, err := s.store.QueryOne(ctx, qb)
	if err != nil {
		if err == sql.ErrNoRows {
			return response.NotFound[Prompt](MsgNotFound)
		}
		return response.Errorf[Prompt]("Error finding prompt: %v", err)
	}

	return response.OK(p)
}

// EnsureOperationAllowed is the shared gate for delete and update: the record
// must exist and the acting user must own it. A lookup miss and an ownership
// failure are indistinguishable to the caller.
func (s *service) EnsureOperationAllowed(ctx context.Context, id string) response.Response[Prompt] {
	found := s.FindByID(ctx, id)
	user, ok := session.FromContext(ctx)

	if found.OK() && ok && Owner(found.Payload, user) {
		return found
	}

	return response.Unauthorized[Prompt](fmt.Sprintf("Prompt not found with id: %s", id))
}

func (s *service) Delete(ctx context.Context, id string) response.Response[Prompt] {
	gate := s.EnsureOperationAllowed(ctx, id)
	if !gate.OK() {
		return gate
	}

	deleted, err := s.store.Delete(ctx, id, gate.Payload.UserID)
	if err != nil {
		return response.Errorf[Prompt]("Error deleting prompt: %v", err)
	}

	s.logger.Info("prompt deleted", "id", id)
	return response.OK(deleted)
}

func (s *service) Upsert(ctx context.Context, input Prompt) response.Response[Prompt] {
	gate := s.EnsureOperationAllowed(ctx, input.ID)
	if !gate.OK() {
		return gate
	}

	// Merge only the permitted fields; ownership, sharing, and type carry
	// over from the stored record. The timestamp refreshes on every update.
	model := gate.Payload
	model.Name = input.Name
	model.Description = input.Description
	model.IsPublished = input.IsPublished
	model.CreatedAt = s.now()

	if errs := model.Validate(); len(errs) > 0 {
		return response.Response[Prompt]{Status: response.StatusError, Errors: errs}
	}

	fields, err := recordFields(model)
	if err != nil {
		return response.Errorf[Prompt]("Error updating prompt: %v", err)
	}

	updated, err := s.store.Upsert(ctx, fields)
	if err != nil {
		return response.Errorf[Prompt]("Error updating prompt: %v", err)
	}

	s.logger.Info("prompt updated", "id", updated.ID)
	return response.OK(updated)
}

func (s *service) Share(ctx context.Context, id string, emails []string) response.Response[Prompt] {
	found := s.FindByID(ctx, id)
	if !found.OK() {
		return found
	}

	user, ok := session.FromContext(ctx)
	if !ok {
		return response.Unauthorized[Prompt](MsgNotSignedIn)
	}

	prompt := found.Payload

	// Sharing is reserved for the creator; admins do not get a pass here.
	if prompt.UserID != user.ID {
		return response.Unauthorized[Prompt](MsgOwnerOnlyShare)
	}

	if !prompt.IsPublished {
		return response.Error[Prompt](MsgUnpublishedShare)
	}

	valid := FilterShareable(emails)
	if len(valid) == 0 {
		return response.Error[Prompt](MsgNoValidAddresses)
	}

	prompt.SharedWith = union(prompt.SharedWith, valid)

	if errs := prompt.Validate(); len(errs) > 0 {
		return response.Response[Prompt]{Status: response.StatusError, Errors: errs}
	}

	fields, err := recordFields(prompt)
	if err != nil {
		return response.Errorf[Prompt]("Error sharing prompt: %v", err)
	}

	shared, err := s.store.Upsert(ctx, fields)
	if err != nil {
		return response.Errorf[Prompt]("Error sharing prompt: %v", err)
	}

	s.logger.Info("prompt shared", "id", shared.ID, "recipients", len(valid))
	return response.OK(shared)
}

func (s *service) Duplicate(ctx context.Context, id string) response.Response[Prompt] {
	found := s.FindByID(ctx, id)
	if !found.OK() {
		return found
	}

	user, ok := session.FromContext(ctx)
	if !ok {
		return response.Unauthorized[Prompt](MsgNotSignedIn)
	}

	original := found.Payload

	if original.UserID == user.ID {
		return response.Error[Prompt](MsgDuplicateOwn)
	}

	if !slices.Contains(original.SharedWith, user.Email) {
		return response.Unauthorized[Prompt](MsgNotSharedWithYou)
	}

	model := Prompt{
		ID:          s.newID(),
		Name:        original.Name + copySuffix,
		Description: original.Description,
		IsPublished: false,
		UserID:      user.ID,
		SharedWith:  []string{},
		CreatedAt:   s.now(),
		Type:        RecordType,
	}

	if errs := model.Validate(); len(errs) > 0 {
		return response.Response[Prompt]{Status: response.StatusError, Errors: errs}
	}

	fields, err := recordFields(model)
	if err != nil {
		return response.Errorf[Prompt]("Error duplicating prompt: %v", err)
	}

	duplicated, err := s.store.Insert(ctx, fields)
	if err != nil {
		return response.Errorf[Prompt]("Error duplicating prompt: %v", err)
	}

	s.logger.Info("prompt duplicated", "source", id, "id", duplicated.ID, "user", user.ID)
	return response.OK(duplicated)
}
