package session

import (
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultRenewalInterval matches the backend's access token lifetime with
// room to spare.
const DefaultRenewalInterval = 10 * time.Minute

// Renewer re-runs the renewal job on a fixed wall-clock interval while a
// session is active. Start and Stop may be called repeatedly; Stop releases
// the underlying scheduler so a stopped Renewer holds no resources.
type Renewer struct {
	interval time.Duration
	job      func()

	mu   sync.Mutex
	cron *cron.Cron
}

// NewRenewer creates a stopped renewer. A non-positive interval falls back
// to DefaultRenewalInterval.
func NewRenewer(interval time.Duration, job func()) *Renewer {
	if interval <= 0 {
		interval = DefaultRenewalInterval
	}
	return &Renewer{interval: interval, job: job}
}

// Start begins periodic renewal. Calling Start on a running renewer is a
// no-op.
func (r *Renewer) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cron != nil {
		return
	}
	c := cron.New()
	// AddFunc only fails on a bad spec; "@every <duration>" cannot fail
	// for a positive interval.
	if _, err := c.AddFunc("@every "+r.interval.String(), r.job); err != nil {
		return
	}
	c.Start()
	r.cron = c
}

// Stop cancels periodic renewal. A renewal already in flight runs to
// completion.
func (r *Renewer) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cron == nil {
		return
	}
	r.cron.Stop()
	r.cron = nil
}

// Running reports whether the renewer is scheduled.
func (r *Renewer) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cron != nil
}
