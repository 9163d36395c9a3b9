// Package report assembles printable clinical documents from a store
// snapshot. It performs no I/O beyond writing the rendered output.
package report

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-records/internal/model"
	"github.com/jwalitptl/clinic-records/internal/store"
	"github.com/jwalitptl/clinic-records/internal/views"
	apperrors "github.com/jwalitptl/clinic-records/pkg/errors"
)

// Placeholder is rendered for every field without a value.
const Placeholder = "-"

type Kind string

const (
	KindEvaluation Kind = "avaliacao"
	KindEvolution  Kind = "evolucao"
	KindDischarge  Kind = "alta"
)

func (k Kind) IsValid() bool {
	switch k {
	case KindEvaluation, KindEvolution, KindDischarge:
		return true
	}
	return false
}

func (k Kind) Title() string {
	switch k {
	case KindEvolution:
		return "Evolução Clínica"
	case KindDischarge:
		return "Relatório de Alta"
	}
	return "Ficha de Avaliação"
}

// ErrPatientRequired is returned when the requested patient is not in the
// snapshot. No document is produced.
var ErrPatientRequired = &apperrors.AppError{
	Code:    apperrors.ErrBadRequest,
	Message: "select a patient before generating a report",
}

type Request struct {
	PatientID  uuid.UUID
	Kind       Kind
	Discipline model.Discipline
}

type Builder struct {
	loc *time.Location
	now func() time.Time
}

type Option func(*Builder)

// WithClock overrides the time used for the generation stamp and ages.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) { b.now = now }
}

// NewBuilder formats dates in loc. A nil loc means UTC.
func NewBuilder(loc *time.Location, opts ...Option) *Builder {
	if loc == nil {
		loc = time.UTC
	}
	b := &Builder{loc: loc, now: time.Now}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build gathers the patient's records from s and lays them out for r.Kind.
// The set of sections and fields depends only on the request, never on which
// records exist.
func (b *Builder) Build(s store.State, r Request) (*Document, error) {
	patient, ok := s.Patient(r.PatientID)
	if r.PatientID == uuid.Nil || !ok {
		return nil, ErrPatientRequired
	}
	if !r.Kind.IsValid() {
		return nil, apperrors.BadRequest("unknown report kind "+strconv.Quote(string(r.Kind)), nil)
	}
	if r.Discipline == "" {
		r.Discipline = model.Physiotherapy
	}
	if !r.Discipline.IsValid() {
		return nil, apperrors.BadRequest("unknown discipline "+strconv.Quote(string(r.Discipline)), nil)
	}

	now := b.now()
	evaluation := views.LatestEvaluation(s, patient.ID, r.Discipline)
	evolutions := views.EvolutionHistory(s, patient.ID, r.Discipline)
	appointments := views.PatientAppointments(s, patient.ID)

	doc := &Document{
		Kind:        r.Kind,
		Discipline:  r.Discipline,
		Title:       r.Kind.Title(),
		Subtitle:    r.Discipline.Label(),
		GeneratedAt: now.In(b.loc).Format("02/01/2006 15:04"),
		PatientName: patient.Name,
	}
	doc.Sections = append(doc.Sections, b.patientSection(patient, now))

	switch r.Kind {
	case KindEvaluation:
		doc.Sections = append(doc.Sections, b.evaluationSections(s, evaluation, r.Discipline)...)
	case KindEvolution:
		doc.Sections = append(doc.Sections, b.progressSection(s, patient.ID, evaluation, evolutions))
		doc.Evolutions = b.evolutionRows(evolutions)
	case KindDischarge:
		doc.Sections = append(doc.Sections, b.dischargeSection(s, patient.ID, evaluation, evolutions, now))
		doc.Sections = append(doc.Sections, b.signatureSection(evaluation))
	}
	doc.Appointments = b.appointmentRows(s, appointments)
	return doc, nil
}

func (b *Builder) patientSection(p model.Patient, now time.Time) Section {
	age := Placeholder
	if !p.BirthDate.IsZero() {
		age = strconv.Itoa(p.BirthDate.AgeAt(now.In(b.loc))) + " anos"
	}
	return Section{
		Title: "Identificação do paciente",
		Fields: []Field{
			field("Nome", p.Name),
			field("Data de nascimento", formatDate(p.BirthDate)),
			field("Idade", age),
			field("Sexo", string(p.Sex)),
			field("CPF", p.CPF),
			field("Telefone", p.Phone),
			field("E-mail", p.Email),
			field("Endereço", p.Address),
			field("Situação", string(p.Status)),
		},
	}
}

func (b *Builder) evaluationSections(s store.State, e *model.Evaluation, d model.Discipline) []Section {
	var ev model.Evaluation
	if e != nil {
		ev = *e
	}

	examLabel, diagnosisLabel := "Exame físico", "Diagnóstico fisioterapêutico"
	if d == model.OccupationalTherapy {
		examLabel, diagnosisLabel = "Avaliação funcional", "Diagnóstico terapêutico ocupacional"
	}

	return []Section{
		{
			Title: "Dados da avaliação",
			Fields: []Field{
				field("Data da avaliação", formatDate(ev.EvaluatedOn)),
				field("Profissional", professionalName(s, ev.ProfessionalID)),
				field("Naturalidade", ev.Identification.Birthplace),
				field("Estado civil", ev.Identification.MaritalStatus),
				field("Profissão", ev.Identification.Occupation),
				field("Endereço residencial", ev.Identification.HomeAddress),
				field("Endereço comercial", ev.Identification.WorkAddress),
				field("Local de atendimento", ev.Identification.Location),
			},
		},
		{
			Title: "Anamnese",
			Fields: []Field{
				field("Queixa principal", ev.Anamnesis.ChiefComplaint),
				field("História da doença atual", ev.Anamnesis.IllnessHistory),
				field("Hábitos de vida", ev.Anamnesis.LifeHabits),
				field("Tratamentos realizados", ev.Anamnesis.PreviousTreatments),
				field("Antecedentes pessoais e familiares", ev.Anamnesis.PersonalFamilyHistory),
				field("Outras informações", ev.Anamnesis.Other),
			},
		},
		{
			Title: "Exames e conduta",
			Fields: []Field{
				field(examLabel, ev.Findings.ClinicalExam),
				field("Exames complementares", ev.Findings.ComplementaryExams),
				field(diagnosisLabel, ev.Findings.Diagnosis),
				field("Prognóstico", ev.Findings.Prognosis),
				field("Objetivos", ev.Findings.Goals),
				field("Sessões previstas", intString(ev.Findings.ExpectedSessions)),
				field("Procedimentos", ev.Findings.Procedures),
			},
		},
		b.signatureSection(e),
	}
}

func (b *Builder) signatureSection(e *model.Evaluation) Section {
	var sig model.Signatory
	if e != nil {
		sig = e.Signatory
	}
	return Section{
		Title: "Responsáveis",
		Fields: []Field{
			field("Terapeuta", sig.TherapistName),
			field("Registro profissional", sig.TherapistLicense),
			field("Estagiário", sig.TraineeName),
		},
	}
}

func (b *Builder) progressSection(s store.State, patientID uuid.UUID, e *model.Evaluation, evs []model.Evolution) Section {
	var ev model.Evaluation
	if e != nil {
		ev = *e
	}
	return Section{
		Title: "Resumo do tratamento",
		Fields: []Field{
			field("Diagnóstico", ev.Findings.Diagnosis),
			field("Objetivos", ev.Findings.Goals),
			field("Evoluções registradas", strconv.Itoa(len(evs))),
			field("Progresso", strconv.Itoa(views.Progress(s, patientID))+"%"),
		},
	}
}

func (b *Builder) dischargeSection(s store.State, patientID uuid.UUID, e *model.Evaluation, evs []model.Evolution, now time.Time) Section {
	var (
		ev   model.Evaluation
		last model.Evolution
	)
	if e != nil {
		ev = *e
	}
	if len(evs) > 0 {
		last = evs[0]
	}
	completed := 0
	for _, a := range s.Appointments {
		if a.PatientID == patientID && a.Status == model.AppointmentCompleted {
			completed++
		}
	}
	return Section{
		Title: "Resumo da alta",
		Fields: []Field{
			field("Data da avaliação inicial", formatDate(ev.EvaluatedOn)),
			field("Diagnóstico", ev.Findings.Diagnosis),
			field("Objetivos", ev.Findings.Goals),
			field("Sessões previstas", intString(ev.Findings.ExpectedSessions)),
			field("Sessões realizadas", strconv.Itoa(completed)),
			field("Última evolução", formatDate(last.Date)),
			field("Evolução clínica final", last.HealthProgress),
			field("Data da alta", now.In(b.loc).Format("02/01/2006")),
		},
	}
}

func (b *Builder) evolutionRows(evs []model.Evolution) []EvolutionRow {
	if len(evs) == 0 {
		return []EvolutionRow{{Date: Placeholder, Time: Placeholder, Session: Placeholder, Procedures: Placeholder, Complications: Placeholder, Progress: Placeholder}}
	}
	rows := make([]EvolutionRow, len(evs))
	for i, e := range evs {
		rows[i] = EvolutionRow{
			Date:          formatDate(e.Date),
			Time:          orPlaceholder(e.Time),
			Session:       intString(e.SessionNumber),
			Procedures:    orPlaceholder(e.Procedures),
			Complications: orPlaceholder(e.Complications),
			Progress:      orPlaceholder(e.HealthProgress),
			Therapist:     orPlaceholder(e.Signatory.TherapistName),
		}
	}
	return rows
}

func (b *Builder) appointmentRows(s store.State, appts []model.Appointment) []AppointmentRow {
	rows := make([]AppointmentRow, len(appts))
	for i, a := range appts {
		rows[i] = AppointmentRow{
			When:         a.ScheduledAt,
			Date:         a.ScheduledAt.In(b.loc).Format("02/01/2006 15:04"),
			Type:         orPlaceholder(string(a.Type)),
			Status:       orPlaceholder(string(a.Status)),
			Location:     orPlaceholder(a.Location),
			Professional: professionalName(s, a.ProfessionalID),
		}
	}
	return rows
}

func professionalName(s store.State, ref string) string {
	id, err := uuid.Parse(ref)
	if err != nil {
		return Placeholder
	}
	p, ok := s.Professional(id)
	if !ok {
		return Placeholder
	}
	return orPlaceholder(p.Name)
}

func field(label, value string) Field {
	return Field{Label: label, Value: orPlaceholder(value)}
}

func orPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return Placeholder
	}
	return s
}

func formatDate(d model.Date) string {
	if d.IsZero() {
		return Placeholder
	}
	return d.Time().Format("02/01/2006")
}

func intString(n *int) string {
	if n == nil {
		return Placeholder
	}
	return strconv.Itoa(*n)
}
