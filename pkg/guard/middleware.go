package guard

import (
	"context"
	"net/http"

	"github.com/inkwell-press/console/pkg/contextkeys"
	"github.com/inkwell-press/console/pkg/observability"
	"github.com/inkwell-press/console/pkg/routes"
	"github.com/inkwell-press/console/pkg/session"
)

// retryAfterSeconds is the hint sent with the holding page while the
// session is still settling.
const retryAfterSeconds = "1"

const loadingPage = `<!DOCTYPE html>
<html><head><meta http-equiv="refresh" content="1"><title>Loading</title></head>
<body><p>Signing you in&hellip;</p></body></html>
`

// Middleware guards every request behind the session. It bootstraps the
// session for the requested path, evaluates the route policy, and either
// forwards to next, serves a holding page, or redirects.
func Middleware(manager *session.Manager, set *routes.Set, logger *observability.Logger, metrics *observability.Metrics, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		class := "protected"
		if set.IsPublic(r.URL.Path) {
			class = "public"
		}
		ctx := context.WithValue(r.Context(), contextkeys.RouteClassKey, class)
		r = r.WithContext(ctx)

		snap := manager.EnsureBootstrapped(ctx, r.URL.Path)
		decision := Evaluate(snap, r.URL.Path, set)

		if metrics != nil {
			metrics.GuardDecisionsTotal.WithLabelValues(decision.Action.String()).Inc()
		}

		switch decision.Action {
		case ActionLoading:
			w.Header().Set("Retry-After", retryAfterSeconds)
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Header().Set("Cache-Control", "no-store")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(loadingPage))
		case ActionRedirect:
			logger.WithFields(map[string]interface{}{
				"path":     r.URL.Path,
				"location": decision.Location,
			}).Debug("request redirected")
			http.Redirect(w, r, decision.Location, http.StatusSeeOther)
		default:
			next.ServeHTTP(w, r)
		}
	})
}
