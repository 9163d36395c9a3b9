package store

import (
	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-records/internal/model"
)

// State is an immutable snapshot of a clinic's data. Slices are never
// modified after the snapshot is published; callers must not modify them.
type State struct {
	Patients          []model.Patient      `json:"patients"`
	Professionals     []model.Professional `json:"professionals"`
	Appointments      []model.Appointment  `json:"appointments"`
	PhysioEvaluations []model.Evaluation   `json:"physioEvaluations"`
	OTEvaluations     []model.Evaluation   `json:"otEvaluations"`
	PhysioEvolutions  []model.Evolution    `json:"physioEvolutions"`
	OTEvolutions      []model.Evolution    `json:"otEvolutions"`
	Loading           bool                 `json:"loading"`
}

func (s State) Evaluations(d model.Discipline) []model.Evaluation {
	if d == model.OccupationalTherapy {
		return s.OTEvaluations
	}
	return s.PhysioEvaluations
}

func (s State) Evolutions(d model.Discipline) []model.Evolution {
	if d == model.OccupationalTherapy {
		return s.OTEvolutions
	}
	return s.PhysioEvolutions
}

func (s State) Patient(id uuid.UUID) (model.Patient, bool) {
	return find(s.Patients, id)
}

func (s State) Professional(id uuid.UUID) (model.Professional, bool) {
	return find(s.Professionals, id)
}

type identified interface {
	GetID() uuid.UUID
}

func find[T identified](items []T, id uuid.UUID) (T, bool) {
	for _, it := range items {
		if it.GetID() == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}
