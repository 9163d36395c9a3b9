package mapper

import (
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-records/internal/model"
)

// EvaluationColumns holds the columns shared by avaliacoes_fisio and avaliacoes_to.
type EvaluationColumns struct {
	ID                    uuid.UUID     `db:"id"`
	ClinicID              uuid.UUID     `db:"clinica_id"`
	PatientID             uuid.UUID     `db:"paciente_id"`
	ProfessionalID        uuid.NullUUID `db:"profissional_id"`
	FullName              *string       `db:"nome_completo"`
	Age                   *int          `db:"idade"`
	Birthplace            *string       `db:"naturalidade"`
	MaritalStatus         *string       `db:"estado_civil"`
	Gender                *string       `db:"genero"`
	Occupation            *string       `db:"profissao"`
	HomeAddress           *string       `db:"endereco_residencial"`
	WorkAddress           *string       `db:"endereco_comercial"`
	Location              *string       `db:"local"`
	EvaluatedOn           model.Date    `db:"data_avaliacao"`
	ChiefComplaint        *string       `db:"queixa_principal"`
	IllnessHistory        *string       `db:"historia_pregressa_e_atual_da_doenca"`
	LifeHabits            *string       `db:"habitos_de_vida"`
	PreviousTreatments    *string       `db:"tratamentos_realizados"`
	PersonalFamilyHistory *string       `db:"antecedentes_pessoais_e_familiares"`
	Other                 *string       `db:"outros"`
	ComplementaryExams    *string       `db:"exames_complementares"`
	Goals                 *string       `db:"objetivos"`
	ExpectedSessions      *int          `db:"qtd_atendimentos_provaveis"`
	Procedures            *string       `db:"procedimentos"`
	CreatedAt             time.Time     `db:"created_at"`
}

type PhysioEvaluationRow struct {
	EvaluationColumns
	ClinicalExam     *string `db:"exame_clinico_fisico"`
	Diagnosis        *string `db:"diagnostico_fisioterapeutico"`
	Prognosis        *string `db:"prognostico"`
	TherapistName    *string `db:"nome_fisioterapeuta"`
	TherapistLicense *string `db:"crefito_fisioterapeuta"`
	TraineeName      *string `db:"nome_academico_estagiario"`
	TherapistSigned  bool    `db:"assinatura_digital_fisioterapeuta"`
	TraineeSigned    bool    `db:"assinatura_digital_estagiario"`
}

type OTEvaluationRow struct {
	EvaluationColumns
	ClinicalExam     *string `db:"exame_clinico_fisico_educacional_social"`
	Diagnosis        *string `db:"diagnostico_terapeutico_ocupacional"`
	Prognosis        *string `db:"prognostico_terapeutico_ocupacional"`
	TherapistName    *string `db:"nome_terapeuta_ocupacional"`
	TherapistLicense *string `db:"crefito_terapeuta_ocupacional"`
	TraineeName      *string `db:"nome_academico_estagiario_to"`
	TherapistSigned  bool    `db:"assinatura_digital_terapeuta"`
	TraineeSigned    bool    `db:"assinatura_digital_estagiario"`
}

func evaluationFromColumns(c EvaluationColumns, d model.Discipline) model.Evaluation {
	return model.Evaluation{
		ID:             c.ID,
		ClinicID:       c.ClinicID,
		Discipline:     d,
		PatientID:      c.PatientID,
		ProfessionalID: refString(c.ProfessionalID),
		EvaluatedOn:    c.EvaluatedOn,
		Identification: model.Identification{
			FullName:      str(c.FullName),
			Age:           c.Age,
			Birthplace:    str(c.Birthplace),
			MaritalStatus: str(c.MaritalStatus),
			Gender:        str(c.Gender),
			Occupation:    str(c.Occupation),
			HomeAddress:   str(c.HomeAddress),
			WorkAddress:   str(c.WorkAddress),
			Location:      str(c.Location),
		},
		Anamnesis: model.Anamnesis{
			ChiefComplaint:        str(c.ChiefComplaint),
			IllnessHistory:        str(c.IllnessHistory),
			LifeHabits:            str(c.LifeHabits),
			PreviousTreatments:    str(c.PreviousTreatments),
			PersonalFamilyHistory: str(c.PersonalFamilyHistory),
			Other:                 str(c.Other),
		},
		Findings: model.Findings{
			ComplementaryExams: str(c.ComplementaryExams),
			Goals:              str(c.Goals),
			ExpectedSessions:   c.ExpectedSessions,
			Procedures:         str(c.Procedures),
		},
		CreatedAt: c.CreatedAt,
	}
}

func evaluationToColumns(e model.Evaluation, clinicID uuid.UUID) EvaluationColumns {
	return EvaluationColumns{
		ID:                    e.ID,
		ClinicID:              clinicID,
		PatientID:             e.PatientID,
		ProfessionalID:        nullID(e.ProfessionalID),
		FullName:              nullString(e.Identification.FullName),
		Age:                   e.Identification.Age,
		Birthplace:            nullString(e.Identification.Birthplace),
		MaritalStatus:         nullString(e.Identification.MaritalStatus),
		Gender:                nullString(e.Identification.Gender),
		Occupation:            nullString(e.Identification.Occupation),
		HomeAddress:           nullString(e.Identification.HomeAddress),
		WorkAddress:           nullString(e.Identification.WorkAddress),
		Location:              nullString(e.Identification.Location),
		EvaluatedOn:           e.EvaluatedOn,
		ChiefComplaint:        nullString(e.Anamnesis.ChiefComplaint),
		IllnessHistory:        nullString(e.Anamnesis.IllnessHistory),
		LifeHabits:            nullString(e.Anamnesis.LifeHabits),
		PreviousTreatments:    nullString(e.Anamnesis.PreviousTreatments),
		PersonalFamilyHistory: nullString(e.Anamnesis.PersonalFamilyHistory),
		Other:                 nullString(e.Anamnesis.Other),
		ComplementaryExams:    nullString(e.Findings.ComplementaryExams),
		Goals:                 nullString(e.Findings.Goals),
		ExpectedSessions:      e.Findings.ExpectedSessions,
		Procedures:            nullString(e.Findings.Procedures),
		CreatedAt:             e.CreatedAt,
	}
}

func PhysioEvaluationFromStorage(row PhysioEvaluationRow) model.Evaluation {
	e := evaluationFromColumns(row.EvaluationColumns, model.Physiotherapy)
	e.Findings.ClinicalExam = str(row.ClinicalExam)
	e.Findings.Diagnosis = str(row.Diagnosis)
	e.Findings.Prognosis = str(row.Prognosis)
	e.Signatory = model.Signatory{
		TherapistName:    str(row.TherapistName),
		TherapistLicense: str(row.TherapistLicense),
		TraineeName:      str(row.TraineeName),
	}
	e.Signed = model.Signatures{Therapist: row.TherapistSigned, Trainee: row.TraineeSigned}
	return e
}

func PhysioEvaluationToStorage(e model.Evaluation, clinicID uuid.UUID) PhysioEvaluationRow {
	return PhysioEvaluationRow{
		EvaluationColumns: evaluationToColumns(e, clinicID),
		ClinicalExam:      nullString(e.Findings.ClinicalExam),
		Diagnosis:         nullString(e.Findings.Diagnosis),
		Prognosis:         nullString(e.Findings.Prognosis),
		TherapistName:     nullString(e.Signatory.TherapistName),
		TherapistLicense:  nullString(e.Signatory.TherapistLicense),
		TraineeName:       nullString(e.Signatory.TraineeName),
		TherapistSigned:   e.Signed.Therapist,
		TraineeSigned:     e.Signed.Trainee,
	}
}

func OTEvaluationFromStorage(row OTEvaluationRow) model.Evaluation {
	e := evaluationFromColumns(row.EvaluationColumns, model.OccupationalTherapy)
	e.Findings.ClinicalExam = str(row.ClinicalExam)
	e.Findings.Diagnosis = str(row.Diagnosis)
	e.Findings.Prognosis = str(row.Prognosis)
	e.Signatory = model.Signatory{
		TherapistName:    str(row.TherapistName),
		TherapistLicense: str(row.TherapistLicense),
		TraineeName:      str(row.TraineeName),
	}
	e.Signed = model.Signatures{Therapist: row.TherapistSigned, Trainee: row.TraineeSigned}
	return e
}

func OTEvaluationToStorage(e model.Evaluation, clinicID uuid.UUID) OTEvaluationRow {
	return OTEvaluationRow{
		EvaluationColumns: evaluationToColumns(e, clinicID),
		ClinicalExam:      nullString(e.Findings.ClinicalExam),
		Diagnosis:         nullString(e.Findings.Diagnosis),
		Prognosis:         nullString(e.Findings.Prognosis),
		TherapistName:     nullString(e.Signatory.TherapistName),
		TherapistLicense:  nullString(e.Signatory.TherapistLicense),
		TraineeName:       nullString(e.Signatory.TraineeName),
		TherapistSigned:   e.Signed.Therapist,
		TraineeSigned:     e.Signed.Trainee,
	}
}
