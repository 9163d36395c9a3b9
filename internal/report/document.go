package report

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/360EntSecGroup-Skylar/excelize"

	"github.com/jwalitptl/clinic-records/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

var documentTemplate = template.Must(template.ParseFS(templateFS, "templates/report.html"))

type Field struct {
	Label string
	Value string
}

type Section struct {
	Title  string
	Fields []Field
}

type EvolutionRow struct {
	Date          string
	Time          string
	Session       string
	Procedures    string
	Complications string
	Progress      string
	Therapist     string
}

type AppointmentRow struct {
	When         time.Time
	Date         string
	Type         string
	Status       string
	Location     string
	Professional string
}

// Document is a fully laid out report. Every value is already formatted and
// placeholders are filled in.
type Document struct {
	Kind         Kind
	Discipline   model.Discipline
	Title        string
	Subtitle     string
	GeneratedAt  string
	PatientName  string
	Sections     []Section
	Evolutions   []EvolutionRow
	Appointments []AppointmentRow
}

// Filename is a download name such as "avaliacao-fisio-maria-souza".
func (d *Document) Filename() string {
	return fmt.Sprintf("%s-%s-%s", d.Kind, d.Discipline, slug(d.PatientName))
}

// Render writes the document as a standalone HTML page with a print button.
func (d *Document) Render(w io.Writer) error {
	if err := documentTemplate.Execute(w, d); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}

const (
	summarySheet      = "Paciente"
	appointmentsSheet = "Atendimentos"
	evolutionsSheet   = "Evolucoes"
)

var (
	appointmentHeaders = []string{"Data", "Tipo", "Status", "Local", "Profissional"}
	evolutionHeaders   = []string{"Data", "Hora", "Sessão", "Procedimentos", "Intercorrências", "Evolução", "Terapeuta"}
)

// WriteXLSX exports the document as a workbook: one sheet with the field
// sections, one with the appointment history and, for evolution reports, one
// with the evolutions.
func (d *Document) WriteXLSX(w io.Writer) error {
	file := excelize.NewFile()
	summary := file.NewSheet(summarySheet)
	file.DeleteSheet("Sheet1")

	row := 1
	for _, s := range d.Sections {
		file.SetCellValue(summarySheet, cell("A", row), s.Title)
		row++
		for _, f := range s.Fields {
			file.SetCellValue(summarySheet, cell("A", row), f.Label)
			file.SetCellValue(summarySheet, cell("B", row), f.Value)
			row++
		}
		row++
	}

	file.NewSheet(appointmentsSheet)
	writeHeaders(file, appointmentsSheet, appointmentHeaders)
	for i, a := range d.Appointments {
		r := i + 2
		file.SetCellValue(appointmentsSheet, cell("A", r), a.Date)
		file.SetCellValue(appointmentsSheet, cell("B", r), a.Type)
		file.SetCellValue(appointmentsSheet, cell("C", r), a.Status)
		file.SetCellValue(appointmentsSheet, cell("D", r), a.Location)
		file.SetCellValue(appointmentsSheet, cell("E", r), a.Professional)
	}

	if len(d.Evolutions) > 0 {
		file.NewSheet(evolutionsSheet)
		writeHeaders(file, evolutionsSheet, evolutionHeaders)
		for i, e := range d.Evolutions {
			r := i + 2
			for j, v := range []string{e.Date, e.Time, e.Session, e.Procedures, e.Complications, e.Progress, e.Therapist} {
				file.SetCellValue(evolutionsSheet, cell(column(j), r), v)
			}
		}
	}

	file.SetActiveSheet(summary)
	if err := file.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeHeaders(file *excelize.File, sheet string, headers []string) {
	for i, h := range headers {
		file.SetCellValue(sheet, cell(column(i), 1), h)
	}
}

func column(i int) string {
	return string(rune('A' + i))
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
