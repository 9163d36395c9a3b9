package mapper

import (
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-records/internal/model"
)

// EvolutionColumns holds the columns shared by evolucoes_fisio and evolucoes_to.
type EvolutionColumns struct {
	ID             uuid.UUID     `db:"id"`
	ClinicID       uuid.UUID     `db:"clinica_id"`
	PatientID      uuid.UUID     `db:"paciente_id"`
	ProfessionalID uuid.NullUUID `db:"profissional_id"`
	Date           model.Date    `db:"data_evolucao"`
	Time           *string       `db:"hora_evolucao"`
	SessionNumber  *int          `db:"numero_sessao"`
	Procedures     *string       `db:"procedimentos"`
	Complications  *string       `db:"intercorrencias"`
	HealthProgress *string       `db:"evolucao_estado_saude"`
	CreatedAt      time.Time     `db:"created_at"`
}

type PhysioEvolutionRow struct {
	EvolutionColumns
	TherapistName    *string `db:"nome_fisioterapeuta"`
	TherapistLicense *string `db:"crefito_fisioterapeuta"`
	TraineeName      *string `db:"nome_academico_estagiario"`
}

type OTEvolutionRow struct {
	EvolutionColumns
	TherapistName    *string `db:"nome_terapeuta_ocupacional"`
	TherapistLicense *string `db:"crefito_terapeuta_ocupacional"`
	TraineeName      *string `db:"nome_academico_estagiario_to"`
}

func evolutionFromColumns(c EvolutionColumns, d model.Discipline, s model.Signatory) model.Evolution {
	return model.Evolution{
		ID:             c.ID,
		ClinicID:       c.ClinicID,
		Discipline:     d,
		PatientID:      c.PatientID,
		ProfessionalID: refString(c.ProfessionalID),
		Date:           c.Date,
		Time:           str(c.Time),
		SessionNumber:  c.SessionNumber,
		Procedures:     str(c.Procedures),
		Complications:  str(c.Complications),
		HealthProgress: str(c.HealthProgress),
		Signatory:      s,
		CreatedAt:      c.CreatedAt,
	}
}

func evolutionToColumns(e model.Evolution, clinicID uuid.UUID) EvolutionColumns {
	return EvolutionColumns{
		ID:             e.ID,
		ClinicID:       clinicID,
		PatientID:      e.PatientID,
		ProfessionalID: nullID(e.ProfessionalID),
		Date:           e.Date,
		Time:           nullString(e.Time),
		SessionNumber:  e.SessionNumber,
		Procedures:     nullString(e.Procedures),
		Complications:  nullString(e.Complications),
		HealthProgress: nullString(e.HealthProgress),
		CreatedAt:      e.CreatedAt,
	}
}

func PhysioEvolutionFromStorage(row PhysioEvolutionRow) model.Evolution {
	return evolutionFromColumns(row.EvolutionColumns, model.Physiotherapy, model.Signatory{
		TherapistName:    str(row.TherapistName),
		TherapistLicense: str(row.TherapistLicense),
		TraineeName:      str(row.TraineeName),
	})
}

func PhysioEvolutionToStorage(e model.Evolution, clinicID uuid.UUID) PhysioEvolutionRow {
	return PhysioEvolutionRow{
		EvolutionColumns: evolutionToColumns(e, clinicID),
		TherapistName:    nullString(e.Signatory.TherapistName),
		TherapistLicense: nullString(e.Signatory.TherapistLicense),
		TraineeName:      nullString(e.Signatory.TraineeName),
	}
}

func OTEvolutionFromStorage(row OTEvolutionRow) model.Evolution {
	return evolutionFromColumns(row.EvolutionColumns, model.OccupationalTherapy, model.Signatory{
		TherapistName:    str(row.TherapistName),
		TherapistLicense: str(row.TherapistLicense),
		TraineeName:      str(row.TraineeName),
	})
}

func OTEvolutionToStorage(e model.Evolution, clinicID uuid.UUID) OTEvolutionRow {
	return OTEvolutionRow{
		EvolutionColumns: evolutionToColumns(e, clinicID),
		TherapistName:    nullString(e.Signatory.TherapistName),
		TherapistLicense: nullString(e.Signatory.TherapistLicense),
		TraineeName:      nullString(e.Signatory.TraineeName),
	}
}
