package views

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jwalitptl/clinic-records/internal/model"
	"github.com/jwalitptl/clinic-records/internal/store"
)

var folder = cases.Fold()

// fold lowers s and strips diacritics so "José" matches "jose".
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return folder.String(out)
}

// SearchPatients matches query against the name (ignoring case and accents)
// or as a CPF substring. An empty status matches every status.
func SearchPatients(s store.State, query string, status model.PatientStatus) []model.Patient {
	q := fold(strings.TrimSpace(query))
	raw := strings.TrimSpace(query)

	out := []model.Patient{}
	for _, p := range s.Patients {
		if status != "" && p.Status != status {
			continue
		}
		if q == "" || strings.Contains(fold(p.Name), q) || (p.CPF != "" && strings.Contains(p.CPF, raw)) {
			out = append(out, p)
		}
	}
	return out
}

type PatientStats struct {
	Total      int `json:"total"`
	Active     int `json:"active"`
	AverageAge int `json:"averageAge"`
}

// ComputePatientStats counts patients and averages their age at now, rounded
// to the nearest year.
func ComputePatientStats(s store.State, now time.Time) PatientStats {
	st := PatientStats{Total: len(s.Patients)}
	if st.Total == 0 {
		return st
	}
	ages := 0
	for _, p := range s.Patients {
		if p.Status == model.PatientActive {
			st.Active++
		}
		ages += p.BirthDate.AgeAt(now)
	}
	st.AverageAge = (2*ages + st.Total) / (2 * st.Total)
	return st
}

// SearchProfessionals matches query against name or email, ignoring case and
// accents.
func SearchProfessionals(s store.State, query string) []model.Professional {
	q := fold(strings.TrimSpace(query))
	out := []model.Professional{}
	for _, p := range s.Professionals {
		if q == "" || strings.Contains(fold(p.Name), q) || strings.Contains(fold(p.Email), q) {
			out = append(out, p)
		}
	}
	return out
}

type ProfessionalStats struct {
	Total    int `json:"total"`
	Licensed int `json:"licensed"`
	Roles    int `json:"roles"`
}

func ComputeProfessionalStats(s store.State) ProfessionalStats {
	st := ProfessionalStats{Total: len(s.Professionals)}
	roles := make(map[model.Role]struct{})
	for _, p := range s.Professionals {
		if p.License != "" {
			st.Licensed++
		}
		roles[p.Role] = struct{}{}
	}
	st.Roles = len(roles)
	return st
}
