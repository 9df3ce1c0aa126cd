package gateway

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/inkwell-press/console/pkg/httputil"
	"github.com/inkwell-press/console/pkg/identity"
	"github.com/inkwell-press/console/pkg/session"
)

// sessionResponse is the wire form of the current session state
type sessionResponse struct {
	Status string         `json:"status"`
	User   *identity.User `json:"user,omitempty"`
}

func snapshotResponse(snap session.Snapshot) sessionResponse {
	return sessionResponse{Status: snap.Status.String(), User: snap.User}
}

// handleSession reports the current session without touching the backend
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	httputil.WriteSuccess(w, snapshotResponse(s.manager.Snapshot()))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if !httputil.RequireNonEmpty(w, req.Email, "email") ||
		!httputil.RequireNonEmpty(w, req.Password, "password") {
		return
	}

	snap, err := s.manager.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		httputil.WriteBackendError(w, err)
		return
	}
	httputil.WriteSuccess(w, snapshotResponse(snap))
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if !httputil.RequireNonEmpty(w, req.Name, "name") ||
		!httputil.RequireNonEmpty(w, req.Email, "email") ||
		!httputil.RequireNonEmpty(w, req.Password, "password") {
		return
	}

	snap, err := s.manager.Signup(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		httputil.WriteBackendError(w, err)
		return
	}
	httputil.WriteSuccess(w, snapshotResponse(snap))
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.manager.Logout(r.Context())
	httputil.WriteNoContent(w)
}

type updateRoleRequest struct {
	Role string `json:"role"`
}

func (s *Server) handleUpdateRole(w http.ResponseWriter, r *http.Request) {
	userID, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	var req updateRoleRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	role, err := identity.ParseRole(req.Role)
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}

	if !s.manager.Snapshot().Authenticated() {
		httputil.WriteUnauthorized(w, "no active session")
		return
	}

	updated, err := s.manager.UpdateRole(r.Context(), userID, role)
	if err != nil {
		httputil.WriteBackendError(w, err)
		return
	}
	httputil.WriteSuccess(w, updated)
}

// handleProxy forwards backend API calls through the authenticated
// client, which attaches the bearer token and retries once on 401.
func (s *Server) handleProxy(w http.ResponseWriter, r *http.Request) {
	if !s.manager.Snapshot().Authenticated() {
		httputil.WriteUnauthorized(w, "no active session")
		return
	}

	var (
		result json.RawMessage
		err    error
	)
	switch r.Method {
	case http.MethodGet:
		result, err = s.client.Get(r.Context(), r.URL.RequestURI())
	case http.MethodDelete:
		result, err = s.client.Delete(r.Context(), r.URL.RequestURI())
	case http.MethodPost, http.MethodPut:
		body, readErr := io.ReadAll(r.Body)
		if readErr != nil {
			httputil.WriteBadRequest(w, "unreadable request body")
			return
		}
		payload := json.RawMessage(body)
		if len(body) == 0 {
			payload = json.RawMessage("{}")
		}
		if r.Method == http.MethodPost {
			result, err = s.client.Post(r.Context(), r.URL.RequestURI(), payload)
		} else {
			result, err = s.client.Put(r.Context(), r.URL.RequestURI(), payload)
		}
	default:
		httputil.WriteErrorMessage(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if err != nil {
		httputil.WriteBackendError(w, err)
		return
	}
	httputil.WriteSuccess(w, result)
}
