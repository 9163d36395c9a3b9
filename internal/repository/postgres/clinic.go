package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/clinic-records/internal/model"
	"github.com/jwalitptl/clinic-records/internal/repository"
	apperrors "github.com/jwalitptl/clinic-records/pkg/errors"
)

type clinicRepository struct {
	BaseRepository
}

func NewClinicRepository(db *sqlx.DB) repository.ClinicRepository {
	return &clinicRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *clinicRepository) Get(ctx context.Context, id uuid.UUID) (*model.Clinic, error) {
	query := `SELECT id, nome, created_at FROM clinicas WHERE id = $1`
	var clinic model.Clinic
	if err := r.db.GetContext(ctx, &clinic, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("clinic", err)
		}
		return nil, fmt.Errorf("failed to get clinic: %w", err)
	}
	return &clinic, nil
}

func (r *clinicRepository) EnsureForUser(ctx context.Context, userID uuid.UUID, email string) (uuid.UUID, error) {
	var clinicID uuid.NullUUID
	if err := r.db.GetContext(ctx, &clinicID, `SELECT ensure_clinic_for_user($1, $2)`, userID, email); err != nil {
		return uuid.Nil, fmt.Errorf("failed to ensure clinic for user: %w", err)
	}
	if !clinicID.Valid {
		return uuid.Nil, apperrors.NotFound("clinic", nil)
	}
	return clinicID.UUID, nil
}
