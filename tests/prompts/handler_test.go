package prompts_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/promptdeck/promptdeck/internal/prompts"
	"github.com/promptdeck/promptdeck/internal/session"
	"github.com/promptdeck/promptdeck/pkg/pagination"
	"github.com/promptdeck/promptdeck/pkg/response"
	"github.com/promptdeck/promptdeck/pkg/routes"
)

func newTestServer(t *testing.T, store *fakeStore, user session.Identity) http.Handler {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sys := prompts.NewWithStore(store, logger, pagination.Config{
		DefaultPageSize: 20,
		MaxPageSize:     100,
	})

	mux := http.NewServeMux()
	routes.Register(mux, sys.Handler().Routes())

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mux.ServeHTTP(w, r.WithContext(session.WithIdentity(r.Context(), user)))
	})
}

func decodePrompt(t *testing.T, body io.Reader) response.Response[prompts.Prompt] {
	t.Helper()
	var res response.Response[prompts.Prompt]
	if err := json.NewDecoder(body).Decode(&res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return res
}

func TestHandlerFindAll(t *testing.T) {
	handler := newTestServer(t, newFakeStore(validPrompt()), owner)

	req := httptest.NewRequest("GET", "/prompts", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var res response.Response[[]prompts.Prompt]
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.Status != response.StatusOK || len(res.Payload) != 1 {
		t.Errorf("response = %+v, want OK with one prompt", res)
	}
}

func TestHandlerFind(t *testing.T) {
	p := validPrompt()
	handler := newTestServer(t, newFakeStore(p), owner)

	req := httptest.NewRequest("GET", "/prompts/"+p.ID, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if res := decodePrompt(t, rec.Body); res.Payload.ID != p.ID {
		t.Errorf("payload ID = %q, want %q", res.Payload.ID, p.ID)
	}
}

func TestHandlerFindNotFound(t *testing.T) {
	handler := newTestServer(t, newFakeStore(), owner)

	req := httptest.NewRequest("GET", "/prompts/missing", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if res := decodePrompt(t, rec.Body); res.Status != response.StatusNotFound {
		t.Errorf("status tag = %s, want NOT_FOUND", res.Status)
	}
}

func TestHandlerCreate(t *testing.T) {
	handler := newTestServer(t, newFakeStore(), owner)

	body := `{"name": "Daily standup", "description": "Summarize the day."}`
	req := httptest.NewRequest("POST", "/prompts", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	if res := decodePrompt(t, rec.Body); res.Payload.UserID != owner.ID {
		t.Errorf("payload UserID = %q, want %q", res.Payload.UserID, owner.ID)
	}
}

func TestHandlerCreateValidationFailure(t *testing.T) {
	handler := newTestServer(t, newFakeStore(), owner)

	req := httptest.NewRequest("POST", "/prompts", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}

	res := decodePrompt(t, rec.Body)
	if res.Status != response.StatusError || len(res.Errors) != 2 {
		t.Errorf("response = %+v, want ERROR with two messages", res)
	}
}

func TestHandlerCreateInvalidJSON(t *testing.T) {
	handler := newTestServer(t, newFakeStore(), owner)

	req := httptest.NewRequest("POST", "/prompts", strings.NewReader(`{broken`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHandlerUpdate(t *testing.T) {
	p := validPrompt()
	handler := newTestServer(t, newFakeStore(p), owner)

	body := `{"name": "Renamed", "description": "New body.", "isPublished": false}`
	req := httptest.NewRequest("PUT", "/prompts/"+p.ID, strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if res := decodePrompt(t, rec.Body); res.Payload.Name != "Renamed" {
		t.Errorf("payload Name = %q, want Renamed", res.Payload.Name)
	}
}

func TestHandlerUpdateUnauthorized(t *testing.T) {
	p := validPrompt()
	handler := newTestServer(t, newFakeStore(p), stranger)

	body := `{"name": "Hijacked", "description": "Nope."}`
	req := httptest.NewRequest("PUT", "/prompts/"+p.ID, strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestHandlerDelete(t *testing.T) {
	p := validPrompt()
	store := newFakeStore(p)
	handler := newTestServer(t, store, owner)

	req := httptest.NewRequest("DELETE", "/prompts/"+p.ID, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if _, ok := store.data[p.ID]; ok {
		t.Error("record still present after delete")
	}
}

func TestHandlerShare(t *testing.T) {
	p := validPrompt()
	handler := newTestServer(t, newFakeStore(p), owner)

	body := `{"emails": ["abcde@eg.example"]}`
	req := httptest.NewRequest("POST", "/prompts/"+p.ID+"/share", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if res := decodePrompt(t, rec.Body); len(res.Payload.SharedWith) != 1 {
		t.Errorf("payload SharedWith = %v, want one entry", res.Payload.SharedWith)
	}
}

func TestHandlerShareUnpublished(t *testing.T) {
	p := validPrompt()
	p.IsPublished = false
	handler := newTestServer(t, newFakeStore(p), owner)

	body := `{"emails": ["abcde@eg.example"]}`
	req := httptest.NewRequest("POST", "/prompts/"+p.ID+"/share", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}

func TestHandlerDuplicate(t *testing.T) {
	p := sharedPrompt(true)
	handler := newTestServer(t, newFakeStore(p), shared)

	req := httptest.NewRequest("POST", "/prompts/"+p.ID+"/duplicate", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if res := decodePrompt(t, rec.Body); res.Payload.UserID != shared.ID {
		t.Errorf("payload UserID = %q, want %q", res.Payload.UserID, shared.ID)
	}
}

func TestHandlerDuplicateNotShared(t *testing.T) {
	p := validPrompt()
	handler := newTestServer(t, newFakeStore(p), stranger)

	req := httptest.NewRequest("POST", "/prompts/"+p.ID+"/duplicate", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestHandlerSearch(t *testing.T) {
	handler := newTestServer(t, newFakeStore(validPrompt()), owner)

	body := `{"page": 1, "page_size": 10, "search": "standup"}`
	req := httptest.NewRequest("POST", "/prompts/search", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var res response.Response[pagination.PageResult[prompts.Prompt]]
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.Payload.Total != 1 {
		t.Errorf("total = %d, want 1", res.Payload.Total)
	}
}

func TestHandlerPublished(t *testing.T) {
	handler := newTestServer(t, newFakeStore(validPrompt()), owner)

	req := httptest.NewRequest("GET", "/prompts/published", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}
