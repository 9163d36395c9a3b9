package mapper

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"

	"github.com/jwalitptl/clinic-records/internal/model"
)

// AppointmentRow is a row of the atendimentos table. Vitals and the SOAP
// note are JSONB documents.
type AppointmentRow struct {
	ID             uuid.UUID      `db:"id"`
	ClinicID       uuid.UUID      `db:"clinica_id"`
	PatientID      uuid.UUID      `db:"paciente_id"`
	ProfessionalID uuid.NullUUID  `db:"profissional_id"`
	ScheduledAt    time.Time      `db:"data_hora"`
	Location       string         `db:"local"`
	Type           string         `db:"tipo"`
	Status         string         `db:"status"`
	Vitals         types.JSONText `db:"sinais_vitais"`
	SOAP           types.JSONText `db:"soap"`
	CreatedAt      time.Time      `db:"created_at"`
}

type vitalsDoc struct {
	SpO2         *float64 `json:"spo2,omitempty"`
	FC           *float64 `json:"fc,omitempty"`
	FR           *float64 `json:"fr,omitempty"`
	PASistolica  *float64 `json:"paSistolica,omitempty"`
	PADiastolica *float64 `json:"paDiastolica,omitempty"`
	Temp         *float64 `json:"temp,omitempty"`
}

type soapDoc struct {
	Subjetivo string `json:"subjetivo"`
	Objetivo  string `json:"objetivo"`
	Avaliacao string `json:"avaliacao"`
	Plano     string `json:"plano"`
}

func AppointmentFromStorage(row AppointmentRow) model.Appointment {
	v := decode[vitalsDoc](row.Vitals)
	s := decode[soapDoc](row.SOAP)

	return model.Appointment{
		ID:             row.ID,
		ClinicID:       row.ClinicID,
		PatientID:      row.PatientID,
		ProfessionalID: refString(row.ProfessionalID),
		ScheduledAt:    row.ScheduledAt,
		Location:       row.Location,
		Type:           model.AppointmentType(row.Type),
		Status:         model.AppointmentStatus(row.Status),
		Vitals: model.Vitals{
			SpO2:            v.SpO2,
			HeartRate:       v.FC,
			RespiratoryRate: v.FR,
			Systolic:        v.PASistolica,
			Diastolic:       v.PADiastolica,
			Temperature:     v.Temp,
		},
		SOAP: model.SOAP{
			Subjective: s.Subjetivo,
			Objective:  s.Objetivo,
			Assessment: s.Avaliacao,
			Plan:       s.Plano,
		},
		CreatedAt: row.CreatedAt,
	}
}

func AppointmentToStorage(a model.Appointment, clinicID uuid.UUID) AppointmentRow {
	return AppointmentRow{
		ID:             a.ID,
		ClinicID:       clinicID,
		PatientID:      a.PatientID,
		ProfessionalID: nullID(a.ProfessionalID),
		ScheduledAt:    a.ScheduledAt,
		Location:       a.Location,
		Type:           string(a.Type),
		Status:         string(a.Status),
		Vitals: encode(vitalsDoc{
			SpO2:         a.Vitals.SpO2,
			FC:           a.Vitals.HeartRate,
			FR:           a.Vitals.RespiratoryRate,
			PASistolica:  a.Vitals.Systolic,
			PADiastolica: a.Vitals.Diastolic,
			Temp:         a.Vitals.Temperature,
		}),
		SOAP: encode(soapDoc{
			Subjetivo: a.SOAP.Subjective,
			Objetivo:  a.SOAP.Objective,
			Avaliacao: a.SOAP.Assessment,
			Plano:     a.SOAP.Plan,
		}),
		CreatedAt: a.CreatedAt,
	}
}

// decode yields the zero document when the stored one is missing or malformed.
func decode[T any](doc types.JSONText) T {
	var out T
	if len(doc) == 0 || string(doc) == "null" {
		return out
	}
	var parsed T
	if err := json.Unmarshal(doc, &parsed); err != nil {
		return out
	}
	return parsed
}

func encode(v interface{}) types.JSONText {
	b, err := json.Marshal(v)
	if err != nil {
		return types.JSONText("{}")
	}
	return types.JSONText(b)
}
