package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-records/internal/mapper"
	"github.com/jwalitptl/clinic-records/internal/model"
	"github.com/jwalitptl/clinic-records/internal/repository"
	"github.com/jwalitptl/clinic-records/internal/scope"
	apperrors "github.com/jwalitptl/clinic-records/pkg/errors"
	"github.com/jwalitptl/clinic-records/pkg/logger"
	"github.com/jwalitptl/clinic-records/pkg/metrics"
)

type mockTable[R any] struct{ mock.Mock }

func (m *mockTable[R]) List(ctx context.Context) ([]R, error) {
	args := m.Called(ctx)
	rows, _ := args.Get(0).([]R)
	return rows, args.Error(1)
}

func (m *mockTable[R]) Insert(ctx context.Context, row R) (R, error) {
	args := m.Called(ctx, row)
	if fn, ok := args.Get(0).(func(context.Context, R) R); ok {
		return fn(ctx, row), args.Error(1)
	}
	out, _ := args.Get(0).(R)
	return out, args.Error(1)
}

func (m *mockTable[R]) Update(ctx context.Context, row R) (R, error) {
	args := m.Called(ctx, row)
	out, _ := args.Get(0).(R)
	return out, args.Error(1)
}

func (m *mockTable[R]) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mocks struct {
	patients          *mockTable[model.Patient]
	professionals     *mockTable[mapper.ProfessionalRow]
	appointments      *mockTable[mapper.AppointmentRow]
	physioEvaluations *mockTable[mapper.PhysioEvaluationRow]
	otEvaluations     *mockTable[mapper.OTEvaluationRow]
	physioEvolutions  *mockTable[mapper.PhysioEvolutionRow]
	otEvolutions      *mockTable[mapper.OTEvolutionRow]
}

func newMocks() *mocks {
	return &mocks{
		patients:          new(mockTable[model.Patient]),
		professionals:     new(mockTable[mapper.ProfessionalRow]),
		appointments:      new(mockTable[mapper.AppointmentRow]),
		physioEvaluations: new(mockTable[mapper.PhysioEvaluationRow]),
		otEvaluations:     new(mockTable[mapper.OTEvaluationRow]),
		physioEvolutions:  new(mockTable[mapper.PhysioEvolutionRow]),
		otEvolutions:      new(mockTable[mapper.OTEvolutionRow]),
	}
}

func (m *mocks) repos() repository.Repositories {
	return repository.Repositories{
		Patients:          m.patients,
		Professionals:     m.professionals,
		Appointments:      m.appointments,
		PhysioEvaluations: m.physioEvaluations,
		OTEvaluations:     m.otEvaluations,
		PhysioEvolutions:  m.physioEvolutions,
		OTEvolutions:      m.otEvolutions,
	}
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []ChangeEvent
}

func (n *recordingNotifier) Notify(_ context.Context, ev ChangeEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
}

func newTestStore(m *mocks, sc scope.Result, opts ...Option) (*ClinicStore, *metrics.Metrics) {
	met := metrics.NewMetrics("test", prometheus.NewRegistry())
	return New(m.repos(), sc, logger.Nop(), met, opts...), met
}

func validPatient() model.Patient {
	return model.Patient{
		Name:      "Maria Souza",
		BirthDate: model.NewDate(1990, time.March, 14),
		Sex:       model.SexFemale,
		CPF:       "123.456.789-00",
		Status:    model.PatientActive,
	}
}

func scopedTo(clinicID uuid.UUID) interface{} {
	return mock.MatchedBy(func(ctx context.Context) bool {
		id, ok := scope.ClinicFrom(ctx)
		return ok && id == clinicID
	})
}

func TestInitLoadsAllCollections(t *testing.T) {
	m := newMocks()
	clinicID := uuid.New()
	p := model.Patient{ID: uuid.New(), Name: "Maria"}
	profRow := mapper.ProfessionalRow{ID: uuid.New(), Name: "Ana", Role: "Fisioterapeuta"}
	apptRow := mapper.AppointmentRow{ID: uuid.New(), PatientID: p.ID, Status: "Realizado"}

	m.patients.On("List", scopedTo(clinicID)).Return([]model.Patient{p}, nil)
	m.professionals.On("List", scopedTo(clinicID)).Return([]mapper.ProfessionalRow{profRow}, nil)
	m.appointments.On("List", scopedTo(clinicID)).Return([]mapper.AppointmentRow{apptRow}, nil)
	m.physioEvaluations.On("List", mock.Anything).Return([]mapper.PhysioEvaluationRow{}, nil)
	m.otEvaluations.On("List", mock.Anything).Return([]mapper.OTEvaluationRow{}, nil)
	m.physioEvolutions.On("List", mock.Anything).Return([]mapper.PhysioEvolutionRow{}, nil)
	m.otEvolutions.On("List", mock.Anything).Return([]mapper.OTEvolutionRow{}, nil)

	s, _ := newTestStore(m, scope.Bound(clinicID, scope.FromProfile))
	require.NoError(t, s.Init(context.Background()))

	snap := s.Snapshot()
	assert.False(t, snap.Loading)
	assert.Equal(t, []model.Patient{p}, snap.Patients)
	require.Len(t, snap.Professionals, 1)
	assert.Equal(t, model.RolePhysiotherapist, snap.Professionals[0].Role)
	require.Len(t, snap.Appointments, 1)
	assert.Equal(t, model.AppointmentCompleted, snap.Appointments[0].Status)
	assert.Equal(t, model.SOAP{}, snap.Appointments[0].SOAP)
}

func TestInitToleratesFailedCollections(t *testing.T) {
	m := newMocks()
	clinicID := uuid.New()
	p := model.Patient{ID: uuid.New()}

	m.patients.On("List", mock.Anything).Return([]model.Patient{p}, nil)
	m.professionals.On("List", mock.Anything).Return(nil, errors.New("permission denied for table profissionais"))
	m.appointments.On("List", mock.Anything).Return(nil, errors.New("timeout"))
	m.physioEvaluations.On("List", mock.Anything).Return(nil, errors.New("relation does not exist"))
	m.otEvaluations.On("List", mock.Anything).Return([]mapper.OTEvaluationRow{}, nil)
	m.physioEvolutions.On("List", mock.Anything).Return([]mapper.PhysioEvolutionRow{}, nil)
	m.otEvolutions.On("List", mock.Anything).Return([]mapper.OTEvolutionRow{}, nil)

	s, met := newTestStore(m, scope.Bound(clinicID, scope.FromProfile))
	require.NoError(t, s.Init(context.Background()))

	snap := s.Snapshot()
	assert.False(t, snap.Loading)
	assert.Len(t, snap.Patients, 1)
	assert.NotNil(t, snap.Professionals)
	assert.Empty(t, snap.Professionals)
	assert.Empty(t, snap.Appointments)
	assert.Equal(t, 1.0, testutil.ToFloat64(met.StoreLoads.WithLabelValues("professionals", "error")))
}

func TestInitWithoutScopeLoadsEmptyState(t *testing.T) {
	m := newMocks()
	s, _ := newTestStore(m, scope.Unbound())

	require.NoError(t, s.Init(context.Background()))
	assert.Equal(t, State{}, s.Snapshot())
	m.patients.AssertNotCalled(t, "List", mock.Anything)
}

func TestMutationsWithoutScopeFailBeforeBackend(t *testing.T) {
	m := newMocks()
	s, _ := newTestStore(m, scope.Unbound())

	_, err := s.AddPatient(context.Background(), validPatient())
	assert.ErrorIs(t, err, apperrors.ErrUserNotBound)
	assert.EqualError(t, err, "user not bound to a clinic")

	err = s.DeleteAppointment(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrUserNotBound)

	m.patients.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	m.appointments.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestAddPatientAppendsOnSuccess(t *testing.T) {
	m := newMocks()
	clinicID := uuid.New()
	notifier := &recordingNotifier{}
	s, _ := newTestStore(m, scope.Bound(clinicID, scope.FromProfile), WithNotifier(notifier, "session-1"))

	in := validPatient()
	stored := in
	stored.ID = uuid.New()
	stored.ClinicID = clinicID

	m.patients.On("Insert", scopedTo(clinicID), mock.MatchedBy(func(p model.Patient) bool {
		return p.ClinicID == clinicID && p.Name == in.Name
	})).Return(stored, nil).Once()

	got, err := s.AddPatient(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, stored, got)
	assert.Equal(t, []model.Patient{stored}, s.Snapshot().Patients)

	require.Len(t, notifier.events, 1)
	assert.Equal(t, ChangeEvent{
		ClinicID: clinicID, Origin: "session-1", Entity: "patient", Op: "add", EntityID: stored.ID, At: notifier.events[0].At,
	}, notifier.events[0])
	m.patients.AssertExpectations(t)
}

func TestAddPatientFailureLeavesStateUntouched(t *testing.T) {
	m := newMocks()
	s, met := newTestStore(m, scope.Bound(uuid.New(), scope.FromProfile))
	m.patients.On("Insert", mock.Anything, mock.Anything).Return(nil, errors.New("duplicate key value")).Once()

	_, err := s.AddPatient(context.Background(), validPatient())
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrBackend, apperrors.CodeOf(err))
	assert.Contains(t, err.Error(), "duplicate key value")
	assert.Empty(t, s.Snapshot().Patients)
	assert.Equal(t, 1.0, testutil.ToFloat64(met.StoreMutations.WithLabelValues("patient", "add", "error")))

	// at-most-once: no retry was attempted
	m.patients.AssertNumberOfCalls(t, "Insert", 1)
}

func TestAddPatientRejectsInvalidInput(t *testing.T) {
	m := newMocks()
	s, _ := newTestStore(m, scope.Bound(uuid.New(), scope.FromProfile))

	p := validPatient()
	p.CPF = ""
	_, err := s.AddPatient(context.Background(), p)
	assert.Equal(t, apperrors.ErrBadRequest, apperrors.CodeOf(err))
	m.patients.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestUpdateAppointmentReplacesByID(t *testing.T) {
	m := newMocks()
	clinicID := uuid.New()
	s, _ := newTestStore(m, scope.Bound(clinicID, scope.FromProfile))

	patientID := uuid.New()
	appt := model.Appointment{
		ID:          uuid.New(),
		ClinicID:    clinicID,
		PatientID:   patientID,
		ScheduledAt: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
		Type:        model.AppointmentSession,
		Status:      model.AppointmentScheduled,
	}
	other := appt
	other.ID = uuid.New()
	s.dispatch(Loaded{State: State{Appointments: []model.Appointment{appt, other}}})

	edited := appt
	edited.Status = model.AppointmentCompleted
	m.appointments.On("Update", mock.Anything, mock.MatchedBy(func(r mapper.AppointmentRow) bool {
		return r.ID == appt.ID && r.Status == "Realizado" && !r.ProfessionalID.Valid
	})).Return(mapper.AppointmentToStorage(edited, clinicID), nil)

	got, err := s.UpdateAppointment(context.Background(), edited)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentCompleted, got.Status)

	snap := s.Snapshot()
	assert.Equal(t, model.AppointmentCompleted, snap.Appointments[0].Status)
	assert.Equal(t, model.AppointmentScheduled, snap.Appointments[1].Status)
}

func TestUpdateRequiresID(t *testing.T) {
	m := newMocks()
	s, _ := newTestStore(m, scope.Bound(uuid.New(), scope.FromProfile))

	_, err := s.UpdatePatient(context.Background(), validPatient())
	assert.Equal(t, apperrors.ErrBadRequest, apperrors.CodeOf(err))
}

func TestDeleteMissingPatientStillCallsBackend(t *testing.T) {
	m := newMocks()
	clinicID := uuid.New()
	s, _ := newTestStore(m, scope.Bound(clinicID, scope.FromProfile))

	existing := model.Patient{ID: uuid.New()}
	s.dispatch(Loaded{State: State{Patients: []model.Patient{existing}}})

	missing := uuid.New()
	m.patients.On("Delete", scopedTo(clinicID), missing).Return(nil).Once()

	require.NoError(t, s.DeletePatient(context.Background(), missing))
	assert.Equal(t, []model.Patient{existing}, s.Snapshot().Patients)
	m.patients.AssertExpectations(t)
}

func TestEvaluationMutationsUseDisciplineTable(t *testing.T) {
	m := newMocks()
	clinicID := uuid.New()
	s, _ := newTestStore(m, scope.Bound(clinicID, scope.FromProfile))

	e := model.Evaluation{
		Discipline: model.OccupationalTherapy,
		PatientID:  uuid.New(),
		Findings:   model.Findings{Diagnosis: "déficit de coordenação motora fina"},
	}
	stored := mapper.OTEvaluationToStorage(e, clinicID)
	stored.ID = uuid.New()
	m.otEvaluations.On("Insert", mock.Anything, mock.Anything).Return(stored, nil).Once()

	got, err := s.AddEvaluation(context.Background(), e)
	require.NoError(t, err)
	assert.Equal(t, model.OccupationalTherapy, got.Discipline)
	assert.Len(t, s.Snapshot().OTEvaluations, 1)
	assert.Empty(t, s.Snapshot().PhysioEvaluations)
	m.physioEvaluations.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)

	m.otEvaluations.On("Delete", mock.Anything, stored.ID).Return(nil).Once()
	require.NoError(t, s.DeleteEvaluation(context.Background(), model.OccupationalTherapy, stored.ID))
	assert.Empty(t, s.Snapshot().OTEvaluations)
}

func TestEvolutionAddRoutesPhysio(t *testing.T) {
	m := newMocks()
	clinicID := uuid.New()
	s, _ := newTestStore(m, scope.Bound(clinicID, scope.FromProfile))

	e := model.Evolution{Discipline: model.Physiotherapy, PatientID: uuid.New(), Procedures: "cinesioterapia"}
	stored := mapper.PhysioEvolutionToStorage(e, clinicID)
	stored.ID = uuid.New()
	m.physioEvolutions.On("Insert", mock.Anything, mock.Anything).Return(stored, nil).Once()

	got, err := s.AddEvolution(context.Background(), e)
	require.NoError(t, err)
	assert.Equal(t, "cinesioterapia", got.Procedures)
	assert.Len(t, s.Snapshot().PhysioEvolutions, 1)
}

func TestConcurrentMutationsOnDifferentRecords(t *testing.T) {
	m := newMocks()
	clinicID := uuid.New()
	s, _ := newTestStore(m, scope.Bound(clinicID, scope.FromProfile))

	m.patients.On("Insert", mock.Anything, mock.Anything).Return(func(_ context.Context, p model.Patient) model.Patient {
		p.ID = uuid.New()
		return p
	}, nil)

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.AddPatient(context.Background(), validPatient())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Len(t, s.Snapshot().Patients, n)
}

func TestResetClearsState(t *testing.T) {
	m := newMocks()
	s, _ := newTestStore(m, scope.Bound(uuid.New(), scope.FromProfile))
	s.dispatch(Loaded{State: State{Patients: []model.Patient{{ID: uuid.New()}}}})

	s.Reset()
	assert.Equal(t, State{}, s.Snapshot())
}

func expectCancelledLoads(m *mocks) {
	for _, tbl := range []interface{ On(string, ...interface{}) *mock.Call }{
		m.patients, m.professionals, m.appointments,
		m.physioEvaluations, m.otEvaluations, m.physioEvolutions, m.otEvolutions,
	} {
		tbl.On("List", mock.Anything).Return(nil, context.Canceled)
	}
}

func TestCancelledInitKeepsPreviousStateAndClearsLoading(t *testing.T) {
	m := newMocks()
	s, _ := newTestStore(m, scope.Bound(uuid.New(), scope.FromProfile))
	existing := validPatient()
	existing.ID = uuid.New()
	s.dispatch(Loaded{State: State{Patients: []model.Patient{existing}}})
	expectCancelledLoads(m)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Init(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	snap := s.Snapshot()
	assert.False(t, snap.Loading)
	assert.Equal(t, []model.Patient{existing}, snap.Patients)
}

func TestDeleteRecordOfOtherDisciplineKeepsLocalRecord(t *testing.T) {
	m := newMocks()
	clinicID := uuid.New()
	s, _ := newTestStore(m, scope.Bound(clinicID, scope.FromProfile))

	evaluation := model.Evaluation{ID: uuid.New(), Discipline: model.Physiotherapy, PatientID: uuid.New()}
	evolution := model.Evolution{ID: uuid.New(), Discipline: model.Physiotherapy, PatientID: evaluation.PatientID}
	s.dispatch(Loaded{State: State{
		PhysioEvaluations: []model.Evaluation{evaluation},
		PhysioEvolutions:  []model.Evolution{evolution},
	}})

	m.otEvaluations.On("Delete", scopedTo(clinicID), evaluation.ID).Return(nil).Once()
	m.otEvolutions.On("Delete", scopedTo(clinicID), evolution.ID).Return(nil).Once()

	require.NoError(t, s.DeleteEvaluation(context.Background(), model.OccupationalTherapy, evaluation.ID))
	require.NoError(t, s.DeleteEvolution(context.Background(), model.OccupationalTherapy, evolution.ID))

	snap := s.Snapshot()
	assert.Equal(t, []model.Evaluation{evaluation}, snap.PhysioEvaluations)
	assert.Equal(t, []model.Evolution{evolution}, snap.PhysioEvolutions)
	m.physioEvaluations.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	m.physioEvolutions.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestFailedMutationsLeaveStateUntouched(t *testing.T) {
	clinicID := uuid.New()
	patientID := uuid.New()
	backendErr := errors.New("connection reset by peer")

	patient := validPatient()
	patient.ID = patientID
	professional := model.Professional{ID: uuid.New(), Name: "Ana Lima", Email: "ana@clinica.com", Role: model.RolePhysiotherapist}
	appointment := model.Appointment{
		ID:          uuid.New(),
		PatientID:   patientID,
		ScheduledAt: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
		Type:        model.AppointmentSession,
		Status:      model.AppointmentScheduled,
	}
	physioEval := model.Evaluation{ID: uuid.New(), Discipline: model.Physiotherapy, PatientID: patientID}
	otEval := model.Evaluation{ID: uuid.New(), Discipline: model.OccupationalTherapy, PatientID: patientID}
	physioEvo := model.Evolution{ID: uuid.New(), Discipline: model.Physiotherapy, PatientID: patientID}
	otEvo := model.Evolution{ID: uuid.New(), Discipline: model.OccupationalTherapy, PatientID: patientID}

	initial := State{
		Patients:          []model.Patient{patient},
		Professionals:     []model.Professional{professional},
		Appointments:      []model.Appointment{appointment},
		PhysioEvaluations: []model.Evaluation{physioEval},
		OTEvaluations:     []model.Evaluation{otEval},
		PhysioEvolutions:  []model.Evolution{physioEvo},
		OTEvolutions:      []model.Evolution{otEvo},
	}

	tests := []struct {
		name   string
		expect func(m *mocks)
		run    func(s *ClinicStore) error
	}{
		{
			name:   "update patient",
			expect: func(m *mocks) { m.patients.On("Update", mock.Anything, mock.Anything).Return(nil, backendErr) },
			run: func(s *ClinicStore) error {
				p := patient
				p.Name = "Maria S."
				_, err := s.UpdatePatient(context.Background(), p)
				return err
			},
		},
		{
			name:   "delete patient",
			expect: func(m *mocks) { m.patients.On("Delete", mock.Anything, patientID).Return(backendErr) },
			run:    func(s *ClinicStore) error { return s.DeletePatient(context.Background(), patientID) },
		},
		{
			name:   "update professional",
			expect: func(m *mocks) { m.professionals.On("Update", mock.Anything, mock.Anything).Return(nil, backendErr) },
			run: func(s *ClinicStore) error {
				_, err := s.UpdateProfessional(context.Background(), professional)
				return err
			},
		},
		{
			name:   "delete professional",
			expect: func(m *mocks) { m.professionals.On("Delete", mock.Anything, professional.ID).Return(backendErr) },
			run:    func(s *ClinicStore) error { return s.DeleteProfessional(context.Background(), professional.ID) },
		},
		{
			name:   "update appointment",
			expect: func(m *mocks) { m.appointments.On("Update", mock.Anything, mock.Anything).Return(nil, backendErr) },
			run: func(s *ClinicStore) error {
				a := appointment
				a.Status = model.AppointmentCompleted
				_, err := s.UpdateAppointment(context.Background(), a)
				return err
			},
		},
		{
			name:   "delete appointment",
			expect: func(m *mocks) { m.appointments.On("Delete", mock.Anything, appointment.ID).Return(backendErr) },
			run:    func(s *ClinicStore) error { return s.DeleteAppointment(context.Background(), appointment.ID) },
		},
		{
			name:   "update physio evaluation",
			expect: func(m *mocks) { m.physioEvaluations.On("Update", mock.Anything, mock.Anything).Return(nil, backendErr) },
			run: func(s *ClinicStore) error {
				_, err := s.UpdateEvaluation(context.Background(), physioEval)
				return err
			},
		},
		{
			name:   "delete ot evaluation",
			expect: func(m *mocks) { m.otEvaluations.On("Delete", mock.Anything, otEval.ID).Return(backendErr) },
			run: func(s *ClinicStore) error {
				return s.DeleteEvaluation(context.Background(), model.OccupationalTherapy, otEval.ID)
			},
		},
		{
			name:   "update ot evolution",
			expect: func(m *mocks) { m.otEvolutions.On("Update", mock.Anything, mock.Anything).Return(nil, backendErr) },
			run: func(s *ClinicStore) error {
				_, err := s.UpdateEvolution(context.Background(), otEvo)
				return err
			},
		},
		{
			name:   "delete physio evolution",
			expect: func(m *mocks) { m.physioEvolutions.On("Delete", mock.Anything, physioEvo.ID).Return(backendErr) },
			run: func(s *ClinicStore) error {
				return s.DeleteEvolution(context.Background(), model.Physiotherapy, physioEvo.ID)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMocks()
			s, _ := newTestStore(m, scope.Bound(clinicID, scope.FromProfile))
			s.dispatch(Loaded{State: initial})
			tt.expect(m)

			err := tt.run(s)
			require.Error(t, err)
			assert.Equal(t, apperrors.ErrBackend, apperrors.CodeOf(err))
			assert.Equal(t, initial, s.Snapshot())
		})
	}
}
