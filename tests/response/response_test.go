package response_test

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/promptdeck/promptdeck/pkg/response"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name       string
		res        response.Response[string]
		wantStatus response.Status
		wantOK     bool
		wantMsgs   []string
	}{
		{
			name:       "ok",
			res:        response.OK("payload"),
			wantStatus: response.StatusOK,
			wantOK:     true,
		},
		{
			name:       "error",
			res:        response.Error[string]("first", "second"),
			wantStatus: response.StatusError,
			wantMsgs:   []string{"first", "second"},
		},
		{
			name:       "errorf",
			res:        response.Errorf[string]("failed after %d tries", 3),
			wantStatus: response.StatusError,
			wantMsgs:   []string{"failed after 3 tries"},
		},
		{
			name:       "not found",
			res:        response.NotFound[string]("missing"),
			wantStatus: response.StatusNotFound,
			wantMsgs:   []string{"missing"},
		},
		{
			name:       "unauthorized",
			res:        response.Unauthorized[string]("denied"),
			wantStatus: response.StatusUnauthorized,
			wantMsgs:   []string{"denied"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.res.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", tt.res.Status, tt.wantStatus)
			}
			if tt.res.OK() != tt.wantOK {
				t.Errorf("OK() = %v, want %v", tt.res.OK(), tt.wantOK)
			}

			got := tt.res.Messages()
			if len(got) != len(tt.wantMsgs) {
				t.Fatalf("Messages() = %v, want %v", got, tt.wantMsgs)
			}
			for i, msg := range tt.wantMsgs {
				if got[i] != msg {
					t.Errorf("Messages()[%d] = %q, want %q", i, got[i], msg)
				}
			}
		})
	}
}

func TestPropagate(t *testing.T) {
	gate := response.Unauthorized[int]("denied")
	got := response.Propagate[string](gate)

	if got.Status != response.StatusUnauthorized {
		t.Errorf("Status = %q, want UNAUTHORIZED", got.Status)
	}
	if len(got.Errors) != 1 || got.Errors[0].Message != "denied" {
		t.Errorf("Errors = %v", got.Errors)
	}
	if got.Payload != "" {
		t.Errorf("Payload = %q, want zero value", got.Payload)
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		status response.Status
		want   int
	}{
		{response.StatusOK, http.StatusOK},
		{response.StatusNotFound, http.StatusNotFound},
		{response.StatusUnauthorized, http.StatusForbidden},
		{response.StatusError, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		if got := response.HTTPStatus(tt.status); got != tt.want {
			t.Errorf("HTTPStatus(%q) = %d, want %d", tt.status, got, tt.want)
		}
	}
}

func TestJSONOmitsEmptyFields(t *testing.T) {
	ok, err := json.Marshal(response.OK("payload"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(ok), "errors") {
		t.Errorf("OK envelope should omit errors: %s", ok)
	}

	failed, err := json.Marshal(response.Error[string]("boom"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(failed), "\"response\"") {
		t.Errorf("failed envelope should omit the payload: %s", failed)
	}
	if !strings.Contains(string(failed), `"message":"boom"`) {
		t.Errorf("failed envelope missing message: %s", failed)
	}
}
