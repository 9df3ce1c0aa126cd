package httputil

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
)

func TestParseJSON(t *testing.T) {
	type payload struct {
		Email string `json:"email"`
	}

	t.Run("valid body", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.com"}`))
		var p payload
		if err := ParseJSON(r, &p); err != nil {
			t.Fatalf("ParseJSON() error = %v", err)
		}
		if p.Email != "a@b.com" {
			t.Errorf("email = %q, want a@b.com", p.Email)
		}
	})

	t.Run("invalid body", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
		var p payload
		if err := ParseJSON(r, &p); err == nil {
			t.Fatal("ParseJSON() expected error for truncated JSON")
		}
	})
}

func TestParsePathInt64(t *testing.T) {
	tests := []struct {
		name    string
		vars    map[string]string
		want    int64
		wantErr bool
	}{
		{"valid", map[string]string{"id": "42"}, 42, false},
		{"missing", map[string]string{}, 0, true},
		{"not a number", map[string]string{"id": "abc"}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), tt.vars)
			got, err := ParsePathInt64(r, "id")
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePathInt64() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParsePathInt64() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRequireNonEmpty(t *testing.T) {
	rec := httptest.NewRecorder()
	if RequireNonEmpty(rec, "", "email") {
		t.Error("RequireNonEmpty() = true for empty value")
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}

	rec = httptest.NewRecorder()
	if !RequireNonEmpty(rec, "a@b.com", "email") {
		t.Error("RequireNonEmpty() = false for present value")
	}
}
