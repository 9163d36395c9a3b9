package model

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RolePhysiotherapist Role = "Fisioterapeuta"
	RoleReceptionist    Role = "Recepcionista"
	RoleCoordinator     Role = "Coordenador"
	RoleAssistant       Role = "Assistente"
)

func (r Role) IsValid() bool {
	switch r {
	case RolePhysiotherapist, RoleReceptionist, RoleCoordinator, RoleAssistant:
		return true
	}
	return false
}

type Professional struct {
	ID        uuid.UUID `json:"id"`
	ClinicID  uuid.UUID `json:"clinicId"`
	Name      string    `json:"name" validate:"required"`
	Email     string    `json:"email" validate:"required,email"`
	Phone     string    `json:"phone"`
	License   string    `json:"license"` // CREFITO
	Role      Role      `json:"role" validate:"required,enum"`
	CreatedAt time.Time `json:"createdAt"`
}

func (p Professional) Validate() error {
	return check("professional", p)
}

func (p Professional) GetID() uuid.UUID { return p.ID }
