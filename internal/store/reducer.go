package store

import (
	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-records/internal/model"
)

// Action is a state transition applied by Reduce.
type Action interface {
	isAction()
}

type (
	// LoadStarted raises the loading flag.
	LoadStarted struct{}
	// Loaded replaces the whole state and clears the loading flag.
	Loaded struct{ State State }
	// LoadAborted clears the loading flag and keeps the previous collections.
	LoadAborted struct{}
	// Cleared empties the state when the session ends.
	Cleared struct{}

	// EvaluationDeleted and EvolutionDeleted remove a record from the
	// collection of one discipline only.
	EvaluationDeleted struct {
		Discipline model.Discipline
		ID         uuid.UUID
	}
	EvolutionDeleted struct {
		Discipline model.Discipline
		ID         uuid.UUID
	}

	Added[T identified]   struct{ Item T }
	Updated[T identified] struct{ Item T }
	Deleted[T identified] struct{ ID uuid.UUID }
)

func (LoadStarted) isAction()       {}
func (Loaded) isAction()            {}
func (LoadAborted) isAction()       {}
func (Cleared) isAction()           {}
func (Added[T]) isAction()          {}
func (Updated[T]) isAction()        {}
func (Deleted[T]) isAction()        {}
func (EvaluationDeleted) isAction() {}
func (EvolutionDeleted) isAction()  {}

// Reduce returns the state that results from applying a to s. It never
// modifies s or the slices it references.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case LoadStarted:
		s.Loading = true
	case Loaded:
		next := a.State
		next.Loading = false
		return next
	case LoadAborted:
		s.Loading = false
	case Cleared:
		return State{}

	case Added[model.Patient]:
		s.Patients = appendItem(s.Patients, a.Item)
	case Updated[model.Patient]:
		s.Patients = replaceByID(s.Patients, a.Item)
	case Deleted[model.Patient]:
		s.Patients = removeByID(s.Patients, a.ID)

	case Added[model.Professional]:
		s.Professionals = appendItem(s.Professionals, a.Item)
	case Updated[model.Professional]:
		s.Professionals = replaceByID(s.Professionals, a.Item)
	case Deleted[model.Professional]:
		s.Professionals = removeByID(s.Professionals, a.ID)

	case Added[model.Appointment]:
		s.Appointments = appendItem(s.Appointments, a.Item)
	case Updated[model.Appointment]:
		s.Appointments = replaceByID(s.Appointments, a.Item)
	case Deleted[model.Appointment]:
		s.Appointments = removeByID(s.Appointments, a.ID)

	case Added[model.Evaluation]:
		if a.Item.Discipline == model.OccupationalTherapy {
			s.OTEvaluations = appendItem(s.OTEvaluations, a.Item)
		} else {
			s.PhysioEvaluations = appendItem(s.PhysioEvaluations, a.Item)
		}
	case Updated[model.Evaluation]:
		if a.Item.Discipline == model.OccupationalTherapy {
			s.OTEvaluations = replaceByID(s.OTEvaluations, a.Item)
		} else {
			s.PhysioEvaluations = replaceByID(s.PhysioEvaluations, a.Item)
		}
	case EvaluationDeleted:
		if a.Discipline == model.OccupationalTherapy {
			s.OTEvaluations = removeByID(s.OTEvaluations, a.ID)
		} else {
			s.PhysioEvaluations = removeByID(s.PhysioEvaluations, a.ID)
		}

	case Added[model.Evolution]:
		if a.Item.Discipline == model.OccupationalTherapy {
			s.OTEvolutions = appendItem(s.OTEvolutions, a.Item)
		} else {
			s.PhysioEvolutions = appendItem(s.PhysioEvolutions, a.Item)
		}
	case Updated[model.Evolution]:
		if a.Item.Discipline == model.OccupationalTherapy {
			s.OTEvolutions = replaceByID(s.OTEvolutions, a.Item)
		} else {
			s.PhysioEvolutions = replaceByID(s.PhysioEvolutions, a.Item)
		}
	case EvolutionDeleted:
		if a.Discipline == model.OccupationalTherapy {
			s.OTEvolutions = removeByID(s.OTEvolutions, a.ID)
		} else {
			s.PhysioEvolutions = removeByID(s.PhysioEvolutions, a.ID)
		}
	}
	return s
}

func appendItem[T any](items []T, item T) []T {
	out := make([]T, len(items), len(items)+1)
	copy(out, items)
	return append(out, item)
}

func replaceByID[T identified](items []T, item T) []T {
	out := make([]T, len(items))
	for i, it := range items {
		if it.GetID() == item.GetID() {
			out[i] = item
		} else {
			out[i] = it
		}
	}
	return out
}

func removeByID[T identified](items []T, id uuid.UUID) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if it.GetID() != id {
			out = append(out, it)
		}
	}
	return out
}
