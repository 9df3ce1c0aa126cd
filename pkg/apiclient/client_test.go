package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubTokens is a TokenSource with canned answers.
type stubTokens struct {
	token        string
	refreshTo    string
	refreshOK    bool
	tokenCalls   int
	refreshCalls int
}

func (s *stubTokens) Token(ctx context.Context) (string, bool) {
	s.tokenCalls++
	return s.token, s.token != ""
}

func (s *stubTokens) Refresh(ctx context.Context) (string, bool) {
	s.refreshCalls++
	if !s.refreshOK {
		return "", false
	}
	s.token = s.refreshTo
	return s.refreshTo, true
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(server.URL)
	require.NoError(t, err)
	return client, server
}

func TestClient_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"ok":true,"items":[]}`))
	}))
	client.SetTokenSource(&stubTokens{token: "tok1"})

	_, err := client.Get(context.Background(), "/api/v1/orders")
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok1", gotAuth)
}

func TestClient_RetriesOnceOn401(t *testing.T) {
	var auths []string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auths = append(auths, r.Header.Get("Authorization"))
		if r.Header.Get("Authorization") != "Bearer fresh" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"token expired"}`))
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	tokens := &stubTokens{token: "stale", refreshTo: "fresh", refreshOK: true}
	client.SetTokenSource(tokens)

	raw, err := client.Get(context.Background(), "/api/v1/orders")
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(raw))
	assert.Equal(t, 1, tokens.refreshCalls)
	assert.Equal(t, []string{"Bearer stale", "Bearer fresh"}, auths)
}

func TestClient_SurfacesSecond401(t *testing.T) {
	calls := 0
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"session revoked"}`))
	}))
	tokens := &stubTokens{token: "stale", refreshTo: "fresh", refreshOK: true}
	client.SetTokenSource(tokens)

	_, err := client.Get(context.Background(), "/api/v1/orders")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "session revoked", apiErr.Message)
	assert.Equal(t, 2, calls, "exactly one retry")
	assert.Equal(t, 1, tokens.refreshCalls)
}

func TestClient_No401RetryWhenRefreshFails(t *testing.T) {
	calls := 0
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"nope"}`))
	}))
	client.SetTokenSource(&stubTokens{token: "stale", refreshOK: false})

	_, err := client.Get(context.Background(), "/api/v1/orders")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 1, calls, "no retry without a fresh token")
}

func TestClient_ErrorMessages(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"backend error field", http.StatusBadRequest, `{"error":"title is required"}`, "title is required"},
		{"backend message field", http.StatusConflict, `{"message":"duplicate slug"}`, "duplicate slug"},
		{"empty body", http.StatusInternalServerError, ``, "request failed"},
		{"non-json body", http.StatusBadGateway, `<html>bad gateway</html>`, "request failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))

			_, err := client.Get(context.Background(), "/api/v1/products")
			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.wantMsg, apiErr.Message)
		})
	}
}

func TestClient_PostMarshalsBody(t *testing.T) {
	var gotBody map[string]interface{}
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"ok":true}`))
	}))

	_, err := client.Post(context.Background(), "/api/v1/products", map[string]string{"title": "Embers"})
	require.NoError(t, err)
	assert.Equal(t, "Embers", gotBody["title"])
}

func TestClient_WorksWithoutTokenSource(t *testing.T) {
	var gotAuth string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))

	_, err := client.Get(context.Background(), "/api/v1/health")
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestClient_GetJSONDecodes(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":true,"items":[{"id":1}]}`))
	}))

	var out struct {
		OK    bool `json:"ok"`
		Items []struct {
			ID int `json:"id"`
		} `json:"items"`
	}
	require.NoError(t, client.GetJSON(context.Background(), "/api/v1/orders", &out))
	assert.True(t, out.OK)
	require.Len(t, out.Items, 1)

	t.Run("invalid json payload", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`not json`))
		}))
		var dest map[string]interface{}
		err := client.GetJSON(context.Background(), "/api/v1/orders", &dest)
		assert.ErrorIs(t, err, ErrMalformedResponse)
	})
}
