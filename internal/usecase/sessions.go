package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"StockDash/internal/domain/models"
	drepo "StockDash/internal/domain/repository"
	applogger "StockDash/pkg/logger"

	"github.com/google/uuid"
)

// Registry holds the live sessions of this process. Sessions are never
// persisted; an idle one is evicted by Sweep.
type Registry struct {
	catalogs drepo.CatalogSource
	deps     ControllerDeps
	idleTTL  time.Duration
	log      *applogger.Logger

	mu       sync.RWMutex
	sessions map[string]*Controller
	newID    func() string
}

func NewRegistry(catalogs drepo.CatalogSource, deps ControllerDeps, idleTTL time.Duration) *Registry {
	return &Registry{
		catalogs: catalogs,
		deps:     deps,
		idleTTL:  idleTTL,
		log:      deps.Logger.With("sessions"),
		sessions: make(map[string]*Controller),
		newID:    uuid.NewString,
	}
}

// Create loads a catalog snapshot and registers a new session. A failed load
// still yields a session, flagged catalog_loaded=false.
func (r *Registry) Create(ctx context.Context) *Controller {
	id := r.newID()

	catalog, err := LoadCatalog(ctx, r.catalogs)
	if err != nil {
		r.log.Error("catalog load failed", applogger.String("session", id), applogger.Error(err))
		catalog = nil
	}

	c := NewController(id, catalog, r.deps)

	r.mu.Lock()
	r.sessions[id] = c
	n := len(r.sessions)
	r.mu.Unlock()

	r.deps.Metrics.SetActiveSessions(n)
	r.log.Info("session created",
		applogger.String("session", id),
		applogger.Int("catalog_size", c.State().CatalogSize),
	)
	return c
}

// Get returns the session or ErrSessionNotFound.
func (r *Registry) Get(id string) (*Controller, error) {
	r.mu.RLock()
	c, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrSessionNotFound, id)
	}
	return c, nil
}

// Reload fetches a new catalog for a session.
func (r *Registry) Reload(ctx context.Context, id string) (models.SessionState, error) {
	c, err := r.Get(id)
	if err != nil {
		return models.SessionState{}, err
	}
	catalog, err := LoadCatalog(ctx, r.catalogs)
	if err != nil {
		return models.SessionState{}, err
	}
	return c.Reload(catalog), nil
}

// Delete closes and removes a session.
func (r *Registry) Delete(id string) bool {
	r.mu.Lock()
	c, ok := r.sessions[id]
	delete(r.sessions, id)
	n := len(r.sessions)
	r.mu.Unlock()

	if !ok {
		return false
	}
	c.Close()
	r.deps.Metrics.SetActiveSessions(n)
	return true
}

// Sweep evicts sessions idle for longer than the idle TTL and returns how
// many went. A session with a batch in flight counts as active.
func (r *Registry) Sweep(now time.Time) int {
	var victims []*Controller

	r.mu.Lock()
	for id, c := range r.sessions {
		st := c.State()
		if st.Pending || now.Sub(c.LastActive()) <= r.idleTTL {
			continue
		}
		delete(r.sessions, id)
		victims = append(victims, c)
	}
	n := len(r.sessions)
	r.mu.Unlock()

	for _, c := range victims {
		c.Close()
	}
	r.deps.Metrics.SetActiveSessions(n)
	if len(victims) > 0 {
		r.log.Info("idle sessions evicted", applogger.Int("evicted", len(victims)), applogger.Int("active", n))
	}
	return len(victims)
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// CloseAll closes every session. Used on shutdown.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	all := r.sessions
	r.sessions = make(map[string]*Controller)
	r.mu.Unlock()

	for _, c := range all {
		c.Close()
	}
	r.deps.Metrics.SetActiveSessions(0)
}

// SweepJob runs Registry.Sweep on a schedule.
type SweepJob struct {
	Registry *Registry
	// OnSweep runs after each sweep, e.g. to prune per-session rate limits.
	OnSweep func(now time.Time)
}

func (j SweepJob) Name() string { return "session-sweep" }

func (j SweepJob) Run() error {
	now := time.Now()
	j.Registry.Sweep(now)
	if j.OnSweep != nil {
		j.OnSweep(now)
	}
	return nil
}
