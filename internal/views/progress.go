package views

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-records/internal/model"
	"github.com/jwalitptl/clinic-records/internal/store"
)

const (
	// ProgressStep is the percentage each completed appointment adds.
	ProgressStep = 20
	maxProgress  = 100
)

func progressOf(completed int) int {
	return min(maxProgress, completed*ProgressStep)
}

func completedCount(s store.State, patientID uuid.UUID) int {
	n := 0
	for _, a := range s.Appointments {
		if a.PatientID == patientID && a.Status == model.AppointmentCompleted {
			n++
		}
	}
	return n
}

// Progress is a display-only percentage derived from the number of completed
// appointments. It is not a clinical measure.
func Progress(s store.State, patientID uuid.UUID) int {
	return progressOf(completedCount(s, patientID))
}

type PatientProgress struct {
	PatientID uuid.UUID           `json:"patientId"`
	Name      string              `json:"name"`
	Status    model.PatientStatus `json:"status"`
	Sessions  int                 `json:"sessions"`
	Progress  int                 `json:"progress"`
	// LastAppointment is nil for patients with no appointments.
	LastAppointment *time.Time `json:"lastAppointment"`
}

// ProgressList returns the progress of every patient, or only of filter when
// it is not uuid.Nil, ordered by most recent appointment first. Patients
// without appointments come last.
func ProgressList(s store.State, filter uuid.UUID) []PatientProgress {
	completed := make(map[uuid.UUID]int)
	last := make(map[uuid.UUID]time.Time)
	for _, a := range s.Appointments {
		if a.Status == model.AppointmentCompleted {
			completed[a.PatientID]++
		}
		if a.ScheduledAt.After(last[a.PatientID]) {
			last[a.PatientID] = a.ScheduledAt
		}
	}

	out := []PatientProgress{}
	for _, p := range s.Patients {
		if filter != uuid.Nil && p.ID != filter {
			continue
		}
		pp := PatientProgress{
			PatientID: p.ID,
			Name:      p.Name,
			Status:    p.Status,
			Sessions:  completed[p.ID],
			Progress:  progressOf(completed[p.ID]),
		}
		if ts, ok := last[p.ID]; ok {
			pp.LastAppointment = &ts
		}
		out = append(out, pp)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return last[out[i].PatientID].After(last[out[j].PatientID])
	})
	return out
}
