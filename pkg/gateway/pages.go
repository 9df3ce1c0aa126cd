package gateway

import (
	"html/template"
	"net/http"

	"github.com/inkwell-press/console/pkg/session"
)

var loginTmpl = template.Must(template.New("login").Parse(`<!DOCTYPE html>
<html>
<head><title>Console Login</title></head>
<body>
<h1>Operator Console</h1>
<form method="post" action="/api/login" id="login">
  <label>Email <input type="email" name="email" required></label>
  <label>Password <input type="password" name="password" required></label>
  <button type="submit">Sign in</button>
</form>
</body>
</html>
`))

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head><title>Console</title></head>
<body>
<h1>Operator Console</h1>
<p>Signed in as {{.User.Name}} ({{.User.Role}})</p>
<p>Path: {{.Path}}</p>
</body>
</html>
`))

type pageData struct {
	User *sessionUser
	Path string
}

type sessionUser struct {
	Name string
	Role string
}

// handlePage renders a console page. The guard has already decided this
// request may proceed, so a protected page always has an identity.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if s.routes.IsPublic(r.URL.Path) {
		if err := loginTmpl.Execute(w, nil); err != nil {
			s.logger.WithError(err).Error("page render failed")
		}
		return
	}

	snap := s.manager.Snapshot()
	data := pageData{Path: r.URL.Path, User: &sessionUser{Name: "unknown", Role: ""}}
	if snap.Status == session.StatusAuthenticated && snap.User != nil {
		data.User = &sessionUser{Name: snap.User.Name, Role: string(snap.User.Role)}
	}
	if err := pageTmpl.Execute(w, data); err != nil {
		s.logger.WithError(err).Error("page render failed")
	}
}
