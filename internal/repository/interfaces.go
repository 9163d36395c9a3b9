package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-records/internal/mapper"
	"github.com/jwalitptl/clinic-records/internal/model"
)

// Table is the row-level access every clinic collection offers. Reads and
// deletes are scoped to the clinic carried by the context; inserts and
// updates use the clinic set on the row.
type Table[R any] interface {
	List(ctx context.Context) ([]R, error)
	Insert(ctx context.Context, row R) (R, error)
	Update(ctx context.Context, row R) (R, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// All repository interfaces in one file
type (
	PatientRepository interface {
		Table[model.Patient]
	}

	ProfessionalRepository interface {
		Table[mapper.ProfessionalRow]
	}

	AppointmentRepository interface {
		Table[mapper.AppointmentRow]
	}

	PhysioEvaluationRepository interface {
		Table[mapper.PhysioEvaluationRow]
	}

	OTEvaluationRepository interface {
		Table[mapper.OTEvaluationRow]
	}

	PhysioEvolutionRepository interface {
		Table[mapper.PhysioEvolutionRow]
	}

	OTEvolutionRepository interface {
		Table[mapper.OTEvolutionRow]
	}

	ProfileRepository interface {
		GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Profile, error)
	}

	ClinicRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.Clinic, error)
		// EnsureForUser runs the server-side fallback that creates a clinic
		// and an admin profile for a user without one.
		EnsureForUser(ctx context.Context, userID uuid.UUID, email string) (uuid.UUID, error)
	}
)

// Repositories bundles the collections a clinic store reads and writes.
type Repositories struct {
	Patients          PatientRepository
	Professionals     ProfessionalRepository
	Appointments      AppointmentRepository
	PhysioEvaluations PhysioEvaluationRepository
	OTEvaluations     OTEvaluationRepository
	PhysioEvolutions  PhysioEvolutionRepository
	OTEvolutions      OTEvolutionRepository
}
