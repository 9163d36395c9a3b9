package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Discipline selects the therapy variant of a clinical record.
type Discipline string

const (
	Physiotherapy       Discipline = "fisio"
	OccupationalTherapy Discipline = "to"
)

func (d Discipline) IsValid() bool {
	return d == Physiotherapy || d == OccupationalTherapy
}

func (d Discipline) Label() string {
	if d == OccupationalTherapy {
		return "Terapia Ocupacional"
	}
	return "Fisioterapia"
}

// Identification holds the patient data as recorded on the intake form.
type Identification struct {
	FullName      string `json:"fullName"`
	Age           *int   `json:"age,omitempty"`
	Birthplace    string `json:"birthplace"`
	MaritalStatus string `json:"maritalStatus"`
	Gender        string `json:"gender"`
	Occupation    string `json:"occupation"`
	HomeAddress   string `json:"homeAddress"`
	WorkAddress   string `json:"workAddress"`
	Location      string `json:"location"`
}

type Anamnesis struct {
	ChiefComplaint        string `json:"chiefComplaint"`
	IllnessHistory        string `json:"illnessHistory"`
	LifeHabits            string `json:"lifeHabits"`
	PreviousTreatments    string `json:"previousTreatments"`
	PersonalFamilyHistory string `json:"personalFamilyHistory"`
	Other                 string `json:"other"`
}

// Findings carries exam results and the treatment plan. ClinicalExam,
// Diagnosis and Prognosis hold the discipline-specific texts.
type Findings struct {
	ClinicalExam       string `json:"clinicalExam"`
	ComplementaryExams string `json:"complementaryExams"`
	Diagnosis          string `json:"diagnosis"`
	Prognosis          string `json:"prognosis"`
	Goals              string `json:"goals"`
	ExpectedSessions   *int   `json:"expectedSessions,omitempty" validate:"omitempty,gte=0"`
	Procedures         string `json:"procedures"`
}

// Signatory names the therapist and trainee responsible for a record.
type Signatory struct {
	TherapistName    string `json:"therapistName"`
	TherapistLicense string `json:"therapistLicense"`
	TraineeName      string `json:"traineeName"`
}

type Signatures struct {
	Therapist bool `json:"therapist"`
	Trainee   bool `json:"trainee"`
}

// Evaluation is an intake document. Empty strings mean the field was not filled.
type Evaluation struct {
	ID             uuid.UUID      `json:"id"`
	ClinicID       uuid.UUID      `json:"clinicId"`
	Discipline     Discipline     `json:"discipline" validate:"required,enum"`
	PatientID      uuid.UUID      `json:"patientId" validate:"required"`
	ProfessionalID string         `json:"professionalId" validate:"omitempty,uuid"`
	EvaluatedOn    Date           `json:"evaluatedOn"`
	Identification Identification `json:"identification"`
	Anamnesis      Anamnesis      `json:"anamnesis"`
	Findings       Findings       `json:"findings"`
	Signatory      Signatory      `json:"signatory"`
	Signed         Signatures     `json:"signed"`
	CreatedAt      time.Time      `json:"createdAt"`
}

func (e Evaluation) Validate() error {
	return check("evaluation", e)
}

func (e Evaluation) GetID() uuid.UUID { return e.ID }

// SortKey is the evaluation date when present, else the creation time.
func (e Evaluation) SortKey() time.Time {
	if !e.EvaluatedOn.IsZero() {
		return e.EvaluatedOn.Time()
	}
	return e.CreatedAt
}

// Evolution is a dated progress note for one session.
type Evolution struct {
	ID             uuid.UUID  `json:"id"`
	ClinicID       uuid.UUID  `json:"clinicId"`
	Discipline     Discipline `json:"discipline" validate:"required,enum"`
	PatientID      uuid.UUID  `json:"patientId" validate:"required"`
	ProfessionalID string     `json:"professionalId" validate:"omitempty,uuid"`
	Date           Date       `json:"date"`
	Time           string     `json:"time" validate:"omitempty,datetime=15:04"`
	SessionNumber  *int       `json:"sessionNumber,omitempty" validate:"omitempty,gte=1"`
	Procedures     string     `json:"procedures"`
	Complications  string     `json:"complications"`
	HealthProgress string     `json:"healthProgress"`
	Signatory      Signatory  `json:"signatory"`
	CreatedAt      time.Time  `json:"createdAt"`
}

func (e Evolution) Validate() error {
	return check("evolution", e)
}

func (e Evolution) GetID() uuid.UUID { return e.ID }

// SortKey is the session date (plus time of day when recorded), else the
// creation time.
func (e Evolution) SortKey() time.Time {
	if e.Date.IsZero() {
		return e.CreatedAt
	}
	key := e.Date.Time()
	if hm, err := time.Parse("15:04", strings.TrimSpace(e.Time)); err == nil {
		key = key.Add(time.Duration(hm.Hour())*time.Hour + time.Duration(hm.Minute())*time.Minute)
	}
	return key
}
