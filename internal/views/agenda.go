package views

import (
	"sort"
	"time"

	"github.com/jwalitptl/clinic-records/internal/model"
	"github.com/jwalitptl/clinic-records/internal/store"
)

const (
	firstSlotHour = 8
	lastSlotHour  = 18
)

type Slot struct {
	Hour         int                 `json:"hour"`
	Appointments []model.Appointment `json:"appointments"`
}

type Agenda struct {
	Day          model.Date          `json:"day"`
	Appointments []model.Appointment `json:"appointments"`
	Slots        []Slot              `json:"slots"`
}

// DayAgenda lists the appointments of one calendar day in loc, earliest
// first, and groups them into the hourly slots shown on the agenda.
// Appointments outside the 8h to 18h window appear only in Appointments.
func DayAgenda(s store.State, day model.Date, loc *time.Location) Agenda {
	ref := time.Date(day.Time().Year(), day.Time().Month(), day.Time().Day(), 12, 0, 0, 0, loc)

	ag := Agenda{Day: day, Appointments: []model.Appointment{}}
	for _, a := range s.Appointments {
		if sameDay(a.ScheduledAt, ref, loc) {
			ag.Appointments = append(ag.Appointments, a)
		}
	}
	sort.SliceStable(ag.Appointments, func(i, j int) bool {
		return ag.Appointments[i].ScheduledAt.Before(ag.Appointments[j].ScheduledAt)
	})

	for h := firstSlotHour; h <= lastSlotHour; h++ {
		slot := Slot{Hour: h, Appointments: []model.Appointment{}}
		for _, a := range ag.Appointments {
			if a.ScheduledAt.In(loc).Hour() == h {
				slot.Appointments = append(slot.Appointments, a)
			}
		}
		ag.Slots = append(ag.Slots, slot)
	}
	return ag
}
