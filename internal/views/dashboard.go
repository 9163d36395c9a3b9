package views

import (
	"time"

	"github.com/jwalitptl/clinic-records/internal/model"
	"github.com/jwalitptl/clinic-records/internal/store"
)

const recentLimit = 5

type Dashboard struct {
	ActivePatients    int                 `json:"activePatients"`
	Professionals     int                 `json:"professionals"`
	AppointmentsToday int                 `json:"appointmentsToday"`
	Pending           int                 `json:"pending"`
	Recent            []model.Appointment `json:"recent"`
}

// BuildDashboard summarizes the snapshot as of now. "Today" is the calendar
// day of now in loc.
func BuildDashboard(s store.State, now time.Time, loc *time.Location) Dashboard {
	d := Dashboard{Professionals: len(s.Professionals)}
	for _, p := range s.Patients {
		if p.Status == model.PatientActive {
			d.ActivePatients++
		}
	}

	for _, a := range s.Appointments {
		if sameDay(a.ScheduledAt, now, loc) {
			d.AppointmentsToday++
		}
		if a.Status == model.AppointmentScheduled {
			d.Pending++
		}
	}

	recent := make([]model.Appointment, len(s.Appointments))
	copy(recent, s.Appointments)
	SortNewestFirst(recent)
	if len(recent) > recentLimit {
		recent = recent[:recentLimit]
	}
	d.Recent = recent
	return d
}

func sameDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}
