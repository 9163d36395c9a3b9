// Package store holds the per-session, in-memory view of a clinic's data and
// mediates every change through the backend.
package store

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jwalitptl/clinic-records/internal/mapper"
	"github.com/jwalitptl/clinic-records/internal/model"
	"github.com/jwalitptl/clinic-records/internal/repository"
	"github.com/jwalitptl/clinic-records/internal/scope"
	apperrors "github.com/jwalitptl/clinic-records/pkg/errors"
	"github.com/jwalitptl/clinic-records/pkg/logger"
	"github.com/jwalitptl/clinic-records/pkg/metrics"
)

// Store is the clinic data container handed to the HTTP layer.
type Store interface {
	Init(ctx context.Context) error
	Reset()
	Snapshot() State
	Scope() scope.Result

	AddPatient(ctx context.Context, p model.Patient) (model.Patient, error)
	UpdatePatient(ctx context.Context, p model.Patient) (model.Patient, error)
	DeletePatient(ctx context.Context, id uuid.UUID) error

	AddProfessional(ctx context.Context, p model.Professional) (model.Professional, error)
	UpdateProfessional(ctx context.Context, p model.Professional) (model.Professional, error)
	DeleteProfessional(ctx context.Context, id uuid.UUID) error

	AddAppointment(ctx context.Context, a model.Appointment) (model.Appointment, error)
	UpdateAppointment(ctx context.Context, a model.Appointment) (model.Appointment, error)
	DeleteAppointment(ctx context.Context, id uuid.UUID) error

	AddEvaluation(ctx context.Context, e model.Evaluation) (model.Evaluation, error)
	UpdateEvaluation(ctx context.Context, e model.Evaluation) (model.Evaluation, error)
	DeleteEvaluation(ctx context.Context, d model.Discipline, id uuid.UUID) error

	AddEvolution(ctx context.Context, e model.Evolution) (model.Evolution, error)
	UpdateEvolution(ctx context.Context, e model.Evolution) (model.Evolution, error)
	DeleteEvolution(ctx context.Context, d model.Discipline, id uuid.UUID) error
}

// ChangeEvent describes a successful mutation.
type ChangeEvent struct {
	ClinicID uuid.UUID `json:"clinicId"`
	Origin   string    `json:"origin"`
	Entity   string    `json:"entity"`
	Op       string    `json:"op"`
	EntityID uuid.UUID `json:"entityId"`
	At       time.Time `json:"at"`
}

// Notifier receives change events. Delivery is best-effort.
type Notifier interface {
	Notify(ctx context.Context, ev ChangeEvent)
}

type Option func(*ClinicStore)

// WithNotifier publishes every successful mutation, tagged with origin.
func WithNotifier(n Notifier, origin string) Option {
	return func(s *ClinicStore) {
		s.notifier = n
		s.origin = origin
	}
}

var _ Store = (*ClinicStore)(nil)

type ClinicStore struct {
	repos    repository.Repositories
	scope    scope.Result
	log      *logger.Logger
	metrics  *metrics.Metrics
	notifier Notifier
	origin   string

	// mu serializes reducer transitions only; it is never held across a
	// backend call.
	mu    sync.Mutex
	state atomic.Pointer[State]
}

func New(repos repository.Repositories, sc scope.Result, log *logger.Logger, m *metrics.Metrics, opts ...Option) *ClinicStore {
	s := &ClinicStore{
		repos:   repos,
		scope:   sc,
		log:     log,
		metrics: m,
	}
	if id, ok := sc.ClinicID(); ok {
		s.log = log.With("clinic_id", id.String())
	}
	for _, opt := range opts {
		opt(s)
	}
	s.state.Store(&State{})
	return s
}

func (s *ClinicStore) Snapshot() State {
	return *s.state.Load()
}

func (s *ClinicStore) Scope() scope.Result {
	return s.scope
}

func (s *ClinicStore) dispatch(a Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := Reduce(*s.state.Load(), a)
	s.state.Store(&next)
}

// Reset drops all cached data.
func (s *ClinicStore) Reset() {
	s.dispatch(Cleared{})
}

// Init loads every collection in parallel. A failed collection is logged and
// left empty; the rest of the state is still published. A cancelled load
// keeps the previous collections.
func (s *ClinicStore) Init(ctx context.Context) error {
	s.dispatch(LoadStarted{})

	clinicID, ok := s.scope.ClinicID()
	if !ok {
		s.log.Warn("session has no clinic, loading empty state")
		s.dispatch(Loaded{})
		return nil
	}
	ctx = scope.WithClinic(ctx, clinicID)

	var (
		next State
		g    errgroup.Group
	)
	g.Go(func() error {
		next.Patients = load(ctx, s, "patients", s.repos.Patients.List, func(p model.Patient) model.Patient { return p })
		return nil
	})
	g.Go(func() error {
		next.Professionals = load(ctx, s, "professionals", s.repos.Professionals.List, mapper.ProfessionalFromStorage)
		return nil
	})
	g.Go(func() error {
		next.Appointments = load(ctx, s, "appointments", s.repos.Appointments.List, mapper.AppointmentFromStorage)
		return nil
	})
	g.Go(func() error {
		next.PhysioEvaluations = load(ctx, s, "physio_evaluations", s.repos.PhysioEvaluations.List, mapper.PhysioEvaluationFromStorage)
		return nil
	})
	g.Go(func() error {
		next.OTEvaluations = load(ctx, s, "ot_evaluations", s.repos.OTEvaluations.List, mapper.OTEvaluationFromStorage)
		return nil
	})
	g.Go(func() error {
		next.PhysioEvolutions = load(ctx, s, "physio_evolutions", s.repos.PhysioEvolutions.List, mapper.PhysioEvolutionFromStorage)
		return nil
	})
	g.Go(func() error {
		next.OTEvolutions = load(ctx, s, "ot_evolutions", s.repos.OTEvolutions.List, mapper.OTEvolutionFromStorage)
		return nil
	})
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		s.dispatch(LoadAborted{})
		return err
	}

	s.dispatch(Loaded{State: next})
	s.log.Info("clinic data loaded",
		"patients", len(next.Patients),
		"professionals", len(next.Professionals),
		"appointments", len(next.Appointments))
	return nil
}

func load[R, E any](ctx context.Context, s *ClinicStore, collection string, list func(context.Context) ([]R, error), conv func(R) E) []E {
	start := time.Now()
	rows, err := list(ctx)
	s.metrics.BackendLatency.WithLabelValues("list_" + collection).Observe(time.Since(start).Seconds())
	if err != nil {
		s.log.Error(err, "failed to load collection", "collection", collection)
		s.metrics.StoreLoads.WithLabelValues(collection, "error").Inc()
		return []E{}
	}
	s.metrics.StoreLoads.WithLabelValues(collection, "success").Inc()

	out := make([]E, len(rows))
	for i, r := range rows {
		out[i] = conv(r)
	}
	return out
}

// call runs one backend round trip for a mutation. The scope check happens
// before anything is sent.
func (s *ClinicStore) call(ctx context.Context, entity, op string, fn func(ctx context.Context, clinicID uuid.UUID) error) error {
	clinicID, ok := s.scope.ClinicID()
	if !ok {
		s.metrics.StoreMutations.WithLabelValues(entity, op, "unbound").Inc()
		return apperrors.ErrUserNotBound
	}

	start := time.Now()
	err := fn(scope.WithClinic(ctx, clinicID), clinicID)
	s.metrics.BackendLatency.WithLabelValues(op + "_" + entity).Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.StoreMutations.WithLabelValues(entity, op, "error").Inc()
		s.log.Error(err, "failed to "+op+" "+entity)
		return apperrors.Backend(op+" "+entity, err)
	}
	s.metrics.StoreMutations.WithLabelValues(entity, op, "success").Inc()
	return nil
}

func (s *ClinicStore) notify(ctx context.Context, entity, op string, id uuid.UUID) {
	if s.notifier == nil {
		return
	}
	clinicID, _ := s.scope.ClinicID()
	s.notifier.Notify(context.WithoutCancel(ctx), ChangeEvent{
		ClinicID: clinicID,
		Origin:   s.origin,
		Entity:   entity,
		Op:       op,
		EntityID: id,
		At:       time.Now().UTC(),
	})
}

func requireID(entity string, id uuid.UUID) error {
	if id == uuid.Nil {
		return apperrors.BadRequest(entity+" id is required", nil)
	}
	return nil
}
