// Package views computes read-only projections over a store snapshot. Every
// function is pure: the same snapshot and arguments give the same result.
package views

import (
	"sort"

	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-records/internal/model"
	"github.com/jwalitptl/clinic-records/internal/store"
)

// LatestEvaluation returns the patient's most recent evaluation in the given
// discipline, or nil when there is none.
func LatestEvaluation(s store.State, patientID uuid.UUID, d model.Discipline) *model.Evaluation {
	var latest *model.Evaluation
	for _, e := range s.Evaluations(d) {
		if e.PatientID != patientID {
			continue
		}
		if latest == nil || e.SortKey().After(latest.SortKey()) {
			e := e
			latest = &e
		}
	}
	return latest
}

// EvolutionHistory returns the patient's evolutions in the given discipline,
// newest first. Records with equal keys keep their snapshot order.
func EvolutionHistory(s store.State, patientID uuid.UUID, d model.Discipline) []model.Evolution {
	out := []model.Evolution{}
	for _, e := range s.Evolutions(d) {
		if e.PatientID == patientID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SortKey().After(out[j].SortKey())
	})
	return out
}

// EvaluationHistory returns the patient's evaluations in the given
// discipline, newest first.
func EvaluationHistory(s store.State, patientID uuid.UUID, d model.Discipline) []model.Evaluation {
	out := []model.Evaluation{}
	for _, e := range s.Evaluations(d) {
		if e.PatientID == patientID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SortKey().After(out[j].SortKey())
	})
	return out
}

// PatientAppointments returns the patient's appointments, newest first.
func PatientAppointments(s store.State, patientID uuid.UUID) []model.Appointment {
	out := []model.Appointment{}
	for _, a := range s.Appointments {
		if a.PatientID == patientID {
			out = append(out, a)
		}
	}
	SortNewestFirst(out)
	return out
}

// SortNewestFirst orders appts by scheduled time, latest first, in place.
func SortNewestFirst(appts []model.Appointment) {
	sort.SliceStable(appts, func(i, j int) bool {
		return appts[i].ScheduledAt.After(appts[j].ScheduledAt)
	})
}
