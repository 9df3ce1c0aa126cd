package session

import (
	"context"
	"sync"
	"time"

	"github.com/inkwell-press/console/pkg/identity"
	"github.com/inkwell-press/console/pkg/observability"
	"github.com/inkwell-press/console/pkg/routes"
)

// renewTimeout bounds a single background renewal cycle.
const renewTimeout = 15 * time.Second

// Status is the session state machine position.
type Status int

const (
	StatusUnauthenticated Status = iota
	StatusLoading
	StatusAuthenticated
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusAuthenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// Snapshot is an immutable view of the session for guards and pages.
type Snapshot struct {
	Status Status
	User   *identity.User
}

// Authenticated reports whether the snapshot carries an established session.
func (s Snapshot) Authenticated() bool {
	return s.Status == StatusAuthenticated && s.User != nil
}

// AuthAPI is the backend surface the session manager drives.
// *apiclient.Client satisfies it.
type AuthAPI interface {
	RefreshAPI
	Login(ctx context.Context, email, password string) (string, *identity.User, error)
	Signup(ctx context.Context, name, email, password string) (string, *identity.User, error)
	Me(ctx context.Context, token string) (*identity.User, error)
	Logout(ctx context.Context) error
	UpdateUserRole(ctx context.Context, userID int64, role identity.Role) (*identity.User, error)
}

// Options configures a Manager.
type Options struct {
	API             AuthAPI
	Routes          *routes.Set
	Logger          *observability.Logger
	Metrics         *observability.Metrics
	RenewalInterval time.Duration
}

// Manager owns the session state machine. It is the only writer of session
// status and identity; the token store is additionally written by the
// refresh coordinator it owns.
type Manager struct {
	api     AuthAPI
	store   *TokenStore
	coord   *Coordinator
	routes  *routes.Set
	logger  *observability.Logger
	metrics *observability.Metrics
	renewer *Renewer

	mu       sync.RWMutex
	status   Status
	user     *identity.User
	lastPath string
	booted   bool

	subsMu sync.Mutex
	subs   map[int]chan Snapshot
	nextID int
}

// NewManager creates a session manager. The manager starts Unauthenticated;
// Bootstrap or Login establishes a session.
func NewManager(opts Options) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = observability.NewLogger(observability.InfoLevel, nil)
	}

	m := &Manager{
		api:     opts.API,
		store:   NewTokenStore(),
		routes:  opts.Routes,
		logger:  logger,
		metrics: opts.Metrics,
		subs:    make(map[int]chan Snapshot),
	}
	m.coord = NewCoordinator(opts.API, m.store, logger, opts.Metrics, func() {
		m.settle(StatusUnauthenticated, nil)
	})
	m.renewer = NewRenewer(opts.RenewalInterval, m.renew)
	return m
}

// TokenSource exposes the refresh coordinator for wiring into the API
// client's bearer path.
func (m *Manager) TokenSource() *Coordinator {
	return m.coord
}

// Snapshot returns the current session view.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Snapshot{Status: m.status, User: m.user.Clone()}
}

// Bootstrap settles the session for the given path.
//
// Public paths settle immediately without contacting the backend: an
// anonymous visitor on the login page must not trigger refresh calls or
// error noise. Protected paths run refresh plus profile fetch and settle on
// the outcome.
func (m *Manager) Bootstrap(ctx context.Context, path string) Snapshot {
	public := m.routes.IsPublic(path)
	m.coord.SetQuiet(public)

	m.mu.Lock()
	m.lastPath = path
	m.booted = true
	alreadyAuthed := m.status == StatusAuthenticated
	m.mu.Unlock()

	if public {
		if !alreadyAuthed {
			m.settle(StatusUnauthenticated, nil)
		}
		return m.Snapshot()
	}

	// An established session revalidates silently; only a cold start
	// shows the loading state.
	if !alreadyAuthed {
		m.settle(StatusLoading, nil)
	}

	token, ok := m.coord.Refresh(ctx)
	if !ok {
		m.renewer.Stop()
		m.settle(StatusUnauthenticated, nil)
		return m.Snapshot()
	}

	user, err := m.api.Me(ctx, token)
	if err != nil {
		m.logger.WithError(err).Error("profile fetch failed")
		m.store.Clear()
		m.renewer.Stop()
		m.settle(StatusUnauthenticated, nil)
		return m.Snapshot()
	}

	m.settle(StatusAuthenticated, user)
	m.renewer.Start()
	return m.Snapshot()
}

// EnsureBootstrapped runs Bootstrap when the session has not yet settled
// for this path. Repeated requests for the same path reuse the settled
// state instead of re-contacting the backend.
func (m *Manager) EnsureBootstrapped(ctx context.Context, path string) Snapshot {
	m.mu.RLock()
	booted, lastPath := m.booted, m.lastPath
	m.mu.RUnlock()

	if booted && lastPath == path {
		return m.Snapshot()
	}
	return m.Bootstrap(ctx, path)
}

// Login establishes a session from credentials. Backend rejections surface
// as *apiclient.APIError for the login form to display.
func (m *Manager) Login(ctx context.Context, email, password string) (Snapshot, error) {
	token, user, err := m.api.Login(ctx, email, password)
	if err != nil {
		return m.Snapshot(), err
	}

	m.store.Set(token)
	m.settle(StatusAuthenticated, user)
	m.renewer.Start()
	m.logger.WithField("user_id", user.ID).Info("session established")
	return m.Snapshot(), nil
}

// Signup registers an account and establishes a session, mirroring Login.
func (m *Manager) Signup(ctx context.Context, name, email, password string) (Snapshot, error) {
	token, user, err := m.api.Signup(ctx, name, email, password)
	if err != nil {
		return m.Snapshot(), err
	}

	m.store.Set(token)
	m.settle(StatusAuthenticated, user)
	m.renewer.Start()
	return m.Snapshot(), nil
}

// Logout tears the session down. The backend call is best-effort: a dead
// backend must not trap the operator in a session.
func (m *Manager) Logout(ctx context.Context) {
	if err := m.api.Logout(ctx); err != nil {
		m.logger.WithError(err).Debug("backend logout failed")
	}

	m.renewer.Stop()
	m.store.Clear()
	m.settle(StatusUnauthenticated, nil)
	m.logger.Info("session cleared")
}

// UpdateRole runs the explicit role-update round trip. When the operator
// updates their own account the identity snapshot is re-fetched so session
// state only ever carries server-confirmed fields.
func (m *Manager) UpdateRole(ctx context.Context, userID int64, role identity.Role) (*identity.User, error) {
	updated, err := m.api.UpdateUserRole(ctx, userID, role)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	self := m.user != nil && m.user.ID == userID
	m.mu.RUnlock()

	if self {
		if token, ok := m.store.Get(); ok {
			if fresh, err := m.api.Me(ctx, token); err == nil {
				m.settle(StatusAuthenticated, fresh)
			}
		}
	}
	return updated, nil
}

// Subscribe returns a channel of session snapshots and a cancel function.
// Slow consumers drop notifications rather than block state transitions.
func (m *Manager) Subscribe() (<-chan Snapshot, func()) {
	m.subsMu.Lock()
	defer m.subsMu.Unlock()

	id := m.nextID
	m.nextID++
	ch := make(chan Snapshot, 8)
	m.subs[id] = ch

	cancel := func() {
		m.subsMu.Lock()
		defer m.subsMu.Unlock()
		if existing, ok := m.subs[id]; ok {
			delete(m.subs, id)
			close(existing)
		}
	}
	return ch, cancel
}

// Close stops background renewal and releases subscribers.
func (m *Manager) Close() {
	m.renewer.Stop()

	m.subsMu.Lock()
	defer m.subsMu.Unlock()
	for id, ch := range m.subs {
		delete(m.subs, id)
		close(ch)
	}
}

// renew is the scheduled renewal job: refresh plus profile fetch, treated
// exactly like a cold bootstrap failure when it goes wrong.
func (m *Manager) renew() {
	ctx, cancel := context.WithTimeout(context.Background(), renewTimeout)
	defer cancel()

	if _, ok := m.store.Get(); !ok {
		m.renewer.Stop()
		return
	}

	token, ok := m.coord.Refresh(ctx)
	if !ok {
		if m.metrics != nil {
			m.metrics.SessionRenewalTotal.WithLabelValues("failure").Inc()
		}
		m.renewer.Stop()
		m.settle(StatusUnauthenticated, nil)
		return
	}

	user, err := m.api.Me(ctx, token)
	if err != nil {
		m.logger.WithError(err).Error("scheduled renewal profile fetch failed")
		if m.metrics != nil {
			m.metrics.SessionRenewalTotal.WithLabelValues("failure").Inc()
		}
		m.store.Clear()
		m.renewer.Stop()
		m.settle(StatusUnauthenticated, nil)
		return
	}

	if m.metrics != nil {
		m.metrics.SessionRenewalTotal.WithLabelValues("success").Inc()
	}
	m.settle(StatusAuthenticated, user)
}

// settle moves the state machine. It is the single mutation point for
// status and identity; no-op transitions do not notify subscribers.
func (m *Manager) settle(status Status, user *identity.User) {
	m.mu.Lock()
	if m.status == status && sameUser(m.user, user) {
		m.mu.Unlock()
		return
	}
	m.status = status
	m.user = user
	snap := Snapshot{Status: status, User: user.Clone()}
	m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.SessionStatus.Set(float64(status))
	}

	m.subsMu.Lock()
	for _, ch := range m.subs {
		select {
		case ch <- snap:
		default:
		}
	}
	m.subsMu.Unlock()
}

func sameUser(a, b *identity.User) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
