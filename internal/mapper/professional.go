package mapper

import (
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-records/internal/model"
)

// ProfessionalRow is a row of the profissionais table.
type ProfessionalRow struct {
	ID        uuid.UUID `db:"id"`
	ClinicID  uuid.UUID `db:"clinica_id"`
	Name      string    `db:"nome"`
	Email     string    `db:"email"`
	Phone     *string   `db:"telefone"`
	License   *string   `db:"crefito"`
	Role      string    `db:"funcao"`
	CreatedAt time.Time `db:"created_at"`
}

func ProfessionalFromStorage(row ProfessionalRow) model.Professional {
	return model.Professional{
		ID:        row.ID,
		ClinicID:  row.ClinicID,
		Name:      row.Name,
		Email:     row.Email,
		Phone:     str(row.Phone),
		License:   str(row.License),
		Role:      model.Role(row.Role),
		CreatedAt: row.CreatedAt,
	}
}

func ProfessionalToStorage(p model.Professional, clinicID uuid.UUID) ProfessionalRow {
	return ProfessionalRow{
		ID:        p.ID,
		ClinicID:  clinicID,
		Name:      p.Name,
		Email:     p.Email,
		Phone:     nullString(p.Phone),
		License:   nullString(p.License),
		Role:      string(p.Role),
		CreatedAt: p.CreatedAt,
	}
}
