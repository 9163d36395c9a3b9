package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentType string

const (
	AppointmentEvaluation   AppointmentType = "Avaliação"
	AppointmentSession      AppointmentType = "Sessão de Fisioterapia"
	AppointmentReevaluation AppointmentType = "Reavaliação"
	AppointmentDischarge    AppointmentType = "Alta"
	AppointmentPilates      AppointmentType = "Pilates"
	AppointmentAcupuncture  AppointmentType = "Acupuntura"
)

func (t AppointmentType) IsValid() bool {
	switch t {
	case AppointmentEvaluation, AppointmentSession, AppointmentReevaluation,
		AppointmentDischarge, AppointmentPilates, AppointmentAcupuncture:
		return true
	}
	return false
}

type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "Agendado"
	AppointmentCompleted AppointmentStatus = "Realizado"
	AppointmentCanceled  AppointmentStatus = "Cancelado"
	AppointmentNoShow    AppointmentStatus = "Faltou"
)

func (s AppointmentStatus) IsValid() bool {
	switch s {
	case AppointmentScheduled, AppointmentCompleted, AppointmentCanceled, AppointmentNoShow:
		return true
	}
	return false
}

// Locations offered when booking.
var Locations = []string{"Sala 1", "Sala 2", "Ginásio", "Box 1", "Box 2", "Domiciliar", "Online"}

// Vitals is a snapshot of vital signs; every reading is optional.
type Vitals struct {
	SpO2            *float64 `json:"spo2,omitempty"`
	HeartRate       *float64 `json:"heartRate,omitempty"`
	RespiratoryRate *float64 `json:"respiratoryRate,omitempty"`
	Systolic        *float64 `json:"systolic,omitempty"`
	Diastolic       *float64 `json:"diastolic,omitempty"`
	Temperature     *float64 `json:"temperature,omitempty"`
}

// SOAP is the structured clinical note of an appointment.
type SOAP struct {
	Subjective string `json:"subjective"`
	Objective  string `json:"objective"`
	Assessment string `json:"assessment"`
	Plan       string `json:"plan"`
}

type Appointment struct {
	ID        uuid.UUID `json:"id"`
	ClinicID  uuid.UUID `json:"clinicId"`
	PatientID uuid.UUID `json:"patientId" validate:"required"`
	// ProfessionalID is empty when no professional is attached.
	ProfessionalID string            `json:"professionalId" validate:"omitempty,uuid"`
	ScheduledAt    time.Time         `json:"scheduledAt" validate:"required"`
	Location       string            `json:"location"`
	Type           AppointmentType   `json:"type" validate:"required,enum"`
	Status         AppointmentStatus `json:"status" validate:"required,enum"`
	Vitals         Vitals            `json:"vitals"`
	SOAP           SOAP              `json:"soap"`
	CreatedAt      time.Time         `json:"createdAt"`
}

func (a Appointment) Validate() error {
	return check("appointment", a)
}

func (a Appointment) GetID() uuid.UUID { return a.ID }
