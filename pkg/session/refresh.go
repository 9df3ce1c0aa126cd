package session

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/inkwell-press/console/pkg/observability"
)

// RefreshAPI mints a new access token from the refresh cookie.
type RefreshAPI interface {
	RefreshToken(ctx context.Context) (string, error)
}

// Coordinator exchanges the long-lived refresh cookie for short-lived access
// tokens and keeps the TokenStore current.
//
// Overlapping refresh triggers (a failed request and the renewal scheduler,
// say) share one in-flight call: every caller gets the token from the same
// backend response, so an older response can never overwrite a newer token.
type Coordinator struct {
	api     RefreshAPI
	store   *TokenStore
	logger  *observability.Logger
	metrics *observability.Metrics
	group   singleflight.Group

	// quiet suppresses failure logging while the active route is public,
	// where "not logged in yet" is the expected case.
	quiet atomic.Bool

	// onClear runs after a failed refresh so the owner can drop the
	// identity snapshot along with the token.
	onClear func()
}

// NewCoordinator creates a refresh coordinator. onClear may be nil.
func NewCoordinator(api RefreshAPI, store *TokenStore, logger *observability.Logger, metrics *observability.Metrics, onClear func()) *Coordinator {
	return &Coordinator{
		api:     api,
		store:   store,
		logger:  logger,
		metrics: metrics,
		onClear: onClear,
	}
}

// SetQuiet switches failure logging off for public routes.
func (c *Coordinator) SetQuiet(quiet bool) {
	c.quiet.Store(quiet)
}

// Refresh mints a new access token. On success the store holds the new
// token. On failure the store and identity are cleared and the second
// return is false; a failed refresh means "no session", not a fatal error.
func (c *Coordinator) Refresh(ctx context.Context) (string, bool) {
	v, err, _ := c.group.Do("refresh", func() (interface{}, error) {
		return c.api.RefreshToken(ctx)
	})
	if err != nil {
		c.store.Clear()
		if c.onClear != nil {
			c.onClear()
		}
		if c.metrics != nil {
			c.metrics.SessionRefreshTotal.WithLabelValues("failure").Inc()
		}
		if c.quiet.Load() {
			c.logger.WithError(err).Debug("token refresh failed")
		} else {
			c.logger.WithError(err).Error("token refresh failed")
		}
		return "", false
	}

	token := v.(string)
	c.store.Set(token)
	if c.metrics != nil {
		c.metrics.SessionRefreshTotal.WithLabelValues("success").Inc()
	}
	return token, true
}

// Token returns the stored token when present. When absent it refreshes,
// except on public routes where an anonymous visitor is expected and no
// refresh attempt should be made.
func (c *Coordinator) Token(ctx context.Context) (string, bool) {
	if token, ok := c.store.Get(); ok {
		return token, true
	}
	if c.quiet.Load() {
		return "", false
	}
	return c.Refresh(ctx)
}
