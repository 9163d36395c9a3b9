package model

import (
	"time"

	"github.com/google/uuid"
)

type PatientStatus string

const (
	PatientActive     PatientStatus = "Ativo"
	PatientInactive   PatientStatus = "Inativo"
	PatientDischarged PatientStatus = "Alta"
)

func (s PatientStatus) IsValid() bool {
	switch s {
	case PatientActive, PatientInactive, PatientDischarged:
		return true
	}
	return false
}

type Sex string

const (
	SexMale        Sex = "Masculino"
	SexFemale      Sex = "Feminino"
	SexOther       Sex = "Outro"
	SexUndisclosed Sex = "Prefere não informar"
)

func (s Sex) IsValid() bool {
	switch s {
	case SexMale, SexFemale, SexOther, SexUndisclosed:
		return true
	}
	return false
}

// Patient is stored as-is; its columns already match the row shape.
type Patient struct {
	ID        uuid.UUID     `db:"id" json:"id"`
	ClinicID  uuid.UUID     `db:"clinica_id" json:"clinicId"`
	Name      string        `db:"nome" json:"name" validate:"required"`
	BirthDate Date          `db:"data_nascimento" json:"birthDate" validate:"required"`
	Sex       Sex           `db:"sexo" json:"sex" validate:"required,enum"`
	CPF       string        `db:"cpf" json:"cpf" validate:"required,max=14"`
	Phone     string        `db:"telefone" json:"phone"`
	Email     string        `db:"email" json:"email" validate:"omitempty,email"`
	Address   string        `db:"endereco" json:"address"`
	Notes     string        `db:"observacoes" json:"notes"`
	Status    PatientStatus `db:"status" json:"status" validate:"required,enum"`
	CreatedAt time.Time     `db:"created_at" json:"createdAt"`
}

func (p Patient) Validate() error {
	return check("patient", p)
}

func (p Patient) GetID() uuid.UUID { return p.ID }
