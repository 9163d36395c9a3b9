package model

import (
	"time"

	"github.com/google/uuid"
)

type Clinic struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"nome" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Profile binds an authenticated user to a clinic.
type Profile struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"userId"`
	ClinicID  uuid.UUID `db:"clinica_id" json:"clinicId"`
	Name      string    `db:"nome" json:"name"`
	Role      string    `db:"role" json:"role"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
