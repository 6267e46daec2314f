package chats_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/promptdeck/promptdeck/internal/chats"
	"github.com/promptdeck/promptdeck/internal/session"
	"github.com/promptdeck/promptdeck/pkg/docstore"
	"github.com/promptdeck/promptdeck/pkg/query"
	"github.com/promptdeck/promptdeck/pkg/response"
)

var (
	owner    = session.Identity{ID: "user-1", Email: "owner@eg.example"}
	admin    = session.Identity{ID: "admin-1", Email: "admin@eg.example", IsAdmin: true}
	stranger = session.Identity{ID: "user-2", Email: "other@eg.example"}
)

func validThread() chats.ChatThread {
	return chats.ChatThread{
		ID:        "t-1",
		Name:      "Release planning",
		UserID:    "user-1",
		CoUsers:   []string{"guest@eg.example"},
		CreatedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		Type:      chats.RecordType,
	}
}

type fakeStore struct {
	recordType string
	order      []string
	data       map[string]chats.ChatThread

	queryErr  error
	upsertErr error
}

func newFakeStore(seed ...chats.ChatThread) *fakeStore {
	f := &fakeStore{
		recordType: chats.RecordType,
		data:       make(map[string]chats.ChatThread),
	}
	for _, t := range seed {
		f.put(t)
	}
	return f
}

func (f *fakeStore) put(t chats.ChatThread) {
	if _, ok := f.data[t.ID]; !ok {
		f.order = append(f.order, t.ID)
	}
	f.data[t.ID] = t
}

func threadProjection() *query.ProjectionMap {
	return query.NewProjectionMap(docstore.Schema, docstore.Table, "r").
		Project("id", "ID").
		Project("type", "Type").
		Project("user_id", "UserID").
		Project("name", "Name").
		Project("co_users", "CoUsers").
		Project("created_at", "CreatedAt")
}

func (f *fakeStore) Builder(defaultSort ...query.SortField) *query.Builder {
	return query.
		NewBuilder(threadProjection(), defaultSort...).
		WhereEquals("Type", &f.recordType)
}

func (f *fakeStore) Query(ctx context.Context, qb *query.Builder) ([]chats.ChatThread, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	items := make([]chats.ChatThread, 0, len(f.order))
	for _, id := range f.order {
		items = append(items, f.data[id])
	}
	return items, nil
}

func (f *fakeStore) QueryOne(ctx context.Context, qb *query.Builder) (chats.ChatThread, error) {
	if f.queryErr != nil {
		return chats.ChatThread{}, f.queryErr
	}

	_, args := qb.BuildSingleOrNull()
	if len(args) < 2 {
		return chats.ChatThread{}, sql.ErrNoRows
	}
	id, ok := args[len(args)-1].(*string)
	if !ok {
		return chats.ChatThread{}, sql.ErrNoRows
	}

	t, found := f.data[*id]
	if !found {
		return chats.ChatThread{}, sql.ErrNoRows
	}
	return t, nil
}

func (f *fakeStore) Insert(ctx context.Context, fields docstore.Fields) (chats.ChatThread, error) {
	t, err := threadFromFields(fields)
	if err != nil {
		return chats.ChatThread{}, err
	}
	f.put(t)
	return t, nil
}

func (f *fakeStore) Upsert(ctx context.Context, fields docstore.Fields) (chats.ChatThread, error) {
	if f.upsertErr != nil {
		return chats.ChatThread{}, f.upsertErr
	}
	t, err := threadFromFields(fields)
	if err != nil {
		return chats.ChatThread{}, err
	}
	f.put(t)
	return t, nil
}

func (f *fakeStore) Delete(ctx context.Context, id, partitionKey string) (chats.ChatThread, error) {
	t, ok := f.data[id]
	if !ok || t.UserID != partitionKey {
		return chats.ChatThread{}, sql.ErrNoRows
	}
	delete(f.data, id)
	return t, nil
}

func threadFromFields(fields docstore.Fields) (chats.ChatThread, error) {
	var t chats.ChatThread
	for _, field := range fields {
		switch field.Column {
		case "id":
			t.ID = field.Value.(string)
		case "type":
			t.Type = field.Value.(string)
		case "user_id":
			t.UserID = field.Value.(string)
		case "name":
			t.Name = field.Value.(string)
		case "co_users":
			if err := json.Unmarshal(field.Value.([]byte), &t.CoUsers); err != nil {
				return t, err
			}
		case "created_at":
			t.CreatedAt = field.Value.(time.Time)
		}
	}
	return t, nil
}

func newService(store *fakeStore) chats.System {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return chats.NewWithStore(store, logger)
}

func asContext(u session.Identity) context.Context {
	return session.WithIdentity(context.Background(), u)
}

func TestCreate(t *testing.T) {
	store := newFakeStore()
	sys := newService(store)

	res := sys.Create(asContext(owner), chats.ChatThread{
		Name:    "Release planning",
		UserID:  "spoofed",
		CoUsers: []string{"evil@eg.example"},
	})

	if res.Status != response.StatusOK {
		t.Fatalf("Create() status = %s: %v", res.Status, res.Errors)
	}
	if res.Payload.UserID != owner.ID {
		t.Errorf("Create() UserID = %q, want %q", res.Payload.UserID, owner.ID)
	}
	if len(res.Payload.CoUsers) != 0 {
		t.Errorf("Create() CoUsers = %v, want empty", res.Payload.CoUsers)
	}
	if res.Payload.Type != chats.RecordType {
		t.Errorf("Create() Type = %q, want %q", res.Payload.Type, chats.RecordType)
	}
}

func TestCreateValidation(t *testing.T) {
	sys := newService(newFakeStore())

	res := sys.Create(asContext(owner), chats.ChatThread{})

	if res.Status != response.StatusError {
		t.Fatalf("Create() status = %s, want ERROR", res.Status)
	}
	if msgs := res.Messages(); len(msgs) != 1 || msgs[0] != chats.MsgNameEmpty {
		t.Errorf("Create() errors = %v", msgs)
	}
}

func TestCreateNoIdentity(t *testing.T) {
	sys := newService(newFakeStore())

	res := sys.Create(context.Background(), chats.ChatThread{Name: "Release planning"})

	if res.Status != response.StatusUnauthorized {
		t.Fatalf("Create() status = %s, want UNAUTHORIZED", res.Status)
	}
}

func TestFindAll(t *testing.T) {
	sys := newService(newFakeStore(validThread()))

	res := sys.FindAll(asContext(owner))

	if res.Status != response.StatusOK || len(res.Payload) != 1 {
		t.Fatalf("FindAll() = %+v, want one thread", res)
	}
}

func TestFindAllStoreFailure(t *testing.T) {
	store := newFakeStore()
	store.queryErr = errors.New("timeout")
	sys := newService(store)

	res := sys.FindAll(asContext(owner))

	if res.Status != response.StatusError {
		t.Fatalf("FindAll() status = %s, want ERROR", res.Status)
	}
}

func TestFindByIDNotFound(t *testing.T) {
	sys := newService(newFakeStore())

	res := sys.FindByID(asContext(owner), "missing")

	if res.Status != response.StatusNotFound {
		t.Fatalf("FindByID() status = %s, want NOT_FOUND", res.Status)
	}
}

func TestAddCoUser(t *testing.T) {
	th := validThread()
	sys := newService(newFakeStore(th))

	res := sys.AddCoUser(asContext(owner), th.ID, "new@eg.example")

	if res.Status != response.StatusOK {
		t.Fatalf("AddCoUser() status = %s: %v", res.Status, res.Errors)
	}
	want := []string{"guest@eg.example", "new@eg.example"}
	if len(res.Payload.CoUsers) != len(want) {
		t.Fatalf("AddCoUser() CoUsers = %v, want %v", res.Payload.CoUsers, want)
	}
}

func TestAddCoUserDeduplicates(t *testing.T) {
	th := validThread()
	sys := newService(newFakeStore(th))

	res := sys.AddCoUser(asContext(owner), th.ID, "guest@eg.example")

	if res.Status != response.StatusOK {
		t.Fatalf("AddCoUser() status = %s", res.Status)
	}
	if len(res.Payload.CoUsers) != 1 {
		t.Errorf("AddCoUser() CoUsers = %v, want unchanged single entry", res.Payload.CoUsers)
	}
}

func TestAddCoUserInvalidAddress(t *testing.T) {
	th := validThread()
	sys := newService(newFakeStore(th))

	for _, email := range []string{"", "   ", "not-an-address"} {
		res := sys.AddCoUser(asContext(owner), th.ID, email)
		if res.Status != response.StatusError {
			t.Errorf("AddCoUser(%q) status = %s, want ERROR", email, res.Status)
		}
	}
}

func TestAddCoUserNotOwner(t *testing.T) {
	th := validThread()
	sys := newService(newFakeStore(th))

	res := sys.AddCoUser(asContext(stranger), th.ID, "new@eg.example")

	if res.Status != response.StatusUnauthorized {
		t.Fatalf("AddCoUser() status = %s, want UNAUTHORIZED", res.Status)
	}
	if msgs := res.Messages(); len(msgs) != 1 || msgs[0] != chats.MsgOwnerOnly {
		t.Errorf("AddCoUser() errors = %v", msgs)
	}
}

func TestAddCoUserAdminAllowed(t *testing.T) {
	th := validThread()
	sys := newService(newFakeStore(th))

	res := sys.AddCoUser(asContext(admin), th.ID, "new@eg.example")

	if res.Status != response.StatusOK {
		t.Fatalf("AddCoUser() status = %s, want OK for admin", res.Status)
	}
}

func TestRemoveCoUser(t *testing.T) {
	th := validThread()
	store := newFakeStore(th)
	sys := newService(store)

	res := sys.RemoveCoUser(asContext(owner), th.ID, "guest@eg.example")

	if res.Status != response.StatusOK {
		t.Fatalf("RemoveCoUser() status = %s: %v", res.Status, res.Errors)
	}
	if len(res.Payload.CoUsers) != 0 {
		t.Errorf("RemoveCoUser() CoUsers = %v, want empty", res.Payload.CoUsers)
	}
}

func TestRemoveCoUserAbsentNoop(t *testing.T) {
	th := validThread()
	sys := newService(newFakeStore(th))

	res := sys.RemoveCoUser(asContext(owner), th.ID, "never@eg.example")

	if res.Status != response.StatusOK {
		t.Fatalf("RemoveCoUser() status = %s", res.Status)
	}
	if len(res.Payload.CoUsers) != 1 {
		t.Errorf("RemoveCoUser() CoUsers = %v, want unchanged", res.Payload.CoUsers)
	}
}

func TestDelete(t *testing.T) {
	th := validThread()
	store := newFakeStore(th)
	sys := newService(store)

	res := sys.Delete(asContext(owner), th.ID)

	if res.Status != response.StatusOK {
		t.Fatalf("Delete() status = %s: %v", res.Status, res.Errors)
	}
	if _, ok := store.data[th.ID]; ok {
		t.Error("Delete() did not remove the thread")
	}
}

func TestDeleteNotOwner(t *testing.T) {
	th := validThread()
	store := newFakeStore(th)
	sys := newService(store)

	res := sys.Delete(asContext(stranger), th.ID)

	if res.Status != response.StatusUnauthorized {
		t.Fatalf("Delete() status = %s, want UNAUTHORIZED", res.Status)
	}
	if _, ok := store.data[th.ID]; !ok {
		t.Error("Delete() removed the thread despite failing the gate")
	}
}

func TestHasCoUser(t *testing.T) {
	th := validThread()

	if !th.HasCoUser("guest@eg.example") {
		t.Error("HasCoUser() = false for existing co-user")
	}
	if th.HasCoUser("other@eg.example") {
		t.Error("HasCoUser() = true for absent co-user")
	}
}
