// Package session keeps one clinic store per signed-in user and drops stores
// that another session has made stale.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/jwalitptl/clinic-records/internal/repository"
	"github.com/jwalitptl/clinic-records/internal/scope"
	"github.com/jwalitptl/clinic-records/internal/store"
	"github.com/jwalitptl/clinic-records/pkg/logger"
	"github.com/jwalitptl/clinic-records/pkg/messaging"
	"github.com/jwalitptl/clinic-records/pkg/metrics"
)

// Resolver binds an identity to a clinic.
type Resolver interface {
	Resolve(ctx context.Context, id scope.Identity) scope.Result
}

type Config struct {
	TTL             time.Duration
	CleanupInterval time.Duration
	InitTimeout     time.Duration
	Channel         string
}

type entry struct {
	store    *store.ClinicStore
	clinicID uuid.UUID
	origin   string
}

type Manager struct {
	resolver Resolver
	repos    repository.Repositories
	broker   messaging.Broker
	channel  string
	timeout  time.Duration
	instance string

	// mu orders cache writes so a sliding refresh never re-inserts an entry
	// that was invalidated or replaced.
	mu      sync.Mutex
	cache   *cache.Cache
	group   singleflight.Group
	log     *logger.Logger
	metrics *metrics.Metrics
}

func NewManager(cfg Config, resolver Resolver, repos repository.Repositories, broker messaging.Broker, log *logger.Logger, m *metrics.Metrics) *Manager {
	if cfg.InitTimeout <= 0 {
		cfg.InitTimeout = 30 * time.Second
	}
	mgr := &Manager{
		resolver: resolver,
		repos:    repos,
		broker:   broker,
		channel:  cfg.Channel,
		timeout:  cfg.InitTimeout,
		instance: uuid.NewString(),
		cache:    cache.New(cfg.TTL, cfg.CleanupInterval),
		log:      log,
		metrics:  m,
	}
	mgr.cache.OnEvicted(func(key string, v interface{}) {
		v.(*entry).store.Reset()
		mgr.metrics.ActiveSessions.Set(float64(mgr.cache.ItemCount()))
		mgr.log.Debug("session store evicted", "user_id", key)
	})
	return mgr
}

// Acquire returns the user's store, creating and loading it on first use.
// Concurrent first requests for the same user share one load.
func (m *Manager) Acquire(ctx context.Context, id scope.Identity) (store.Store, error) {
	key := id.UserID.String()
	if e, ok := m.lookup(key); ok {
		return e.store, nil
	}

	v, err, _ := m.group.Do(key, func() (interface{}, error) {
		if e, ok := m.lookup(key); ok {
			return e, nil
		}
		// The load is shared, so it must outlive the request that started it.
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.timeout)
		defer cancel()

		sc := m.resolver.Resolve(ctx, id)
		origin := m.instance + "/" + key
		s := store.New(m.repos, sc, m.log.With("user_id", key), m.metrics, store.WithNotifier(m, origin))
		if err := s.Init(ctx); err != nil {
			return nil, fmt.Errorf("failed to load clinic data: %w", err)
		}

		clinicID, _ := sc.ClinicID()
		e := &entry{store: s, clinicID: clinicID, origin: origin}
		m.mu.Lock()
		m.cache.SetDefault(key, e)
		m.mu.Unlock()
		m.metrics.ActiveSessions.Set(float64(m.cache.ItemCount()))
		m.log.Info("session store created", "user_id", key, "bound", sc.IsBound(), "source", string(sc.Source()))
		return e, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*entry).store, nil
}

// lookup returns a cached entry and slides its expiry. Replace fails when the
// entry expired in the meantime, so nothing is resurrected.
func (m *Manager) lookup(key string) (*entry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, found := m.cache.Get(key)
	if !found {
		return nil, false
	}
	e := v.(*entry)
	if err := m.cache.Replace(key, e, cache.DefaultExpiration); err != nil {
		return nil, false
	}
	return e, true
}

func (m *Manager) drop(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache.Delete(key)
}

// Reload refetches every collection of the user's store. An unbound session
// is resolved again, so a profile bound since sign-in takes effect.
func (m *Manager) Reload(ctx context.Context, id scope.Identity) (store.Store, error) {
	key := id.UserID.String()
	e, ok := m.lookup(key)
	if !ok {
		return m.Acquire(ctx, id)
	}
	if !e.store.Scope().IsBound() {
		m.drop(key)
		return m.Acquire(ctx, id)
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.timeout)
	defer cancel()
	if err := e.store.Init(ctx); err != nil {
		return nil, fmt.Errorf("failed to reload clinic data: %w", err)
	}
	return e.store, nil
}

// Release ends the user's session and clears its data.
func (m *Manager) Release(userID uuid.UUID) {
	m.drop(userID.String())
}

func (m *Manager) Active() int {
	return m.cache.ItemCount()
}

// Notify publishes a store change to the other sessions.
func (m *Manager) Notify(ctx context.Context, ev store.ChangeEvent) {
	if m.broker == nil {
		return
	}
	if err := m.broker.Publish(ctx, m.channel, ev); err != nil {
		m.metrics.BrokerPublishes.WithLabelValues("error").Inc()
		m.log.Warn("failed to publish change", "entity", ev.Entity, "op", ev.Op, "error", err.Error())
		return
	}
	m.metrics.BrokerPublishes.WithLabelValues("success").Inc()
}

// Listen drops cached stores made stale by changes from other sessions of the
// same clinic. It returns once subscribed; consumption stops with ctx.
func (m *Manager) Listen(ctx context.Context) error {
	if m.broker == nil {
		return nil
	}
	return messaging.Consume(ctx, m.broker, m.channel, m.log, m.handleChange)
}

func (m *Manager) handleChange(payload []byte) error {
	var ev store.ChangeEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return fmt.Errorf("failed to decode change event: %w", err)
	}
	if ev.ClinicID == uuid.Nil {
		return nil
	}

	for key, item := range m.cache.Items() {
		e := item.Object.(*entry)
		if e.clinicID != ev.ClinicID || e.origin == ev.Origin {
			continue
		}
		m.drop(key)
		m.metrics.Invalidations.Inc()
		m.log.Debug("session store invalidated", "user_id", key, "entity", ev.Entity, "op", ev.Op)
	}
	return nil
}
