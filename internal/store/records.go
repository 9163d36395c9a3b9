package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-records/internal/mapper"
	"github.com/jwalitptl/clinic-records/internal/model"
)

func (s *ClinicStore) saveEvaluation(ctx context.Context, clinicID uuid.UUID, e model.Evaluation, insert bool) (model.Evaluation, error) {
	if e.Discipline == model.OccupationalTherapy {
		write := s.repos.OTEvaluations.Update
		if insert {
			write = s.repos.OTEvaluations.Insert
		}
		row, err := write(ctx, mapper.OTEvaluationToStorage(e, clinicID))
		if err != nil {
			return model.Evaluation{}, err
		}
		return mapper.OTEvaluationFromStorage(row), nil
	}

	write := s.repos.PhysioEvaluations.Update
	if insert {
		write = s.repos.PhysioEvaluations.Insert
	}
	row, err := write(ctx, mapper.PhysioEvaluationToStorage(e, clinicID))
	if err != nil {
		return model.Evaluation{}, err
	}
	return mapper.PhysioEvaluationFromStorage(row), nil
}

func (s *ClinicStore) AddEvaluation(ctx context.Context, e model.Evaluation) (model.Evaluation, error) {
	if err := e.Validate(); err != nil {
		return model.Evaluation{}, err
	}
	var saved model.Evaluation
	err := s.call(ctx, "evaluation", "add", func(ctx context.Context, clinicID uuid.UUID) (err error) {
		saved, err = s.saveEvaluation(ctx, clinicID, e, true)
		return err
	})
	if err != nil {
		return model.Evaluation{}, err
	}
	s.dispatch(Added[model.Evaluation]{Item: saved})
	s.notify(ctx, "evaluation", "add", saved.ID)
	return saved, nil
}

func (s *ClinicStore) UpdateEvaluation(ctx context.Context, e model.Evaluation) (model.Evaluation, error) {
	if err := requireID("evaluation", e.ID); err != nil {
		return model.Evaluation{}, err
	}
	if err := e.Validate(); err != nil {
		return model.Evaluation{}, err
	}
	var saved model.Evaluation
	err := s.call(ctx, "evaluation", "update", func(ctx context.Context, clinicID uuid.UUID) (err error) {
		saved, err = s.saveEvaluation(ctx, clinicID, e, false)
		return err
	})
	if err != nil {
		return model.Evaluation{}, err
	}
	s.dispatch(Updated[model.Evaluation]{Item: saved})
	s.notify(ctx, "evaluation", "update", saved.ID)
	return saved, nil
}

func (s *ClinicStore) DeleteEvaluation(ctx context.Context, d model.Discipline, id uuid.UUID) error {
	err := s.call(ctx, "evaluation", "delete", func(ctx context.Context, _ uuid.UUID) error {
		if d == model.OccupationalTherapy {
			return s.repos.OTEvaluations.Delete(ctx, id)
		}
		return s.repos.PhysioEvaluations.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.dispatch(EvaluationDeleted{Discipline: d, ID: id})
	s.notify(ctx, "evaluation", "delete", id)
	return nil
}

func (s *ClinicStore) saveEvolution(ctx context.Context, clinicID uuid.UUID, e model.Evolution, insert bool) (model.Evolution, error) {
	if e.Discipline == model.OccupationalTherapy {
		write := s.repos.OTEvolutions.Update
		if insert {
			write = s.repos.OTEvolutions.Insert
		}
		row, err := write(ctx, mapper.OTEvolutionToStorage(e, clinicID))
		if err != nil {
			return model.Evolution{}, err
		}
		return mapper.OTEvolutionFromStorage(row), nil
	}

	write := s.repos.PhysioEvolutions.Update
	if insert {
		write = s.repos.PhysioEvolutions.Insert
	}
	row, err := write(ctx, mapper.PhysioEvolutionToStorage(e, clinicID))
	if err != nil {
		return model.Evolution{}, err
	}
	return mapper.PhysioEvolutionFromStorage(row), nil
}

func (s *ClinicStore) AddEvolution(ctx context.Context, e model.Evolution) (model.Evolution, error) {
	if err := e.Validate(); err != nil {
		return model.Evolution{}, err
	}
	var saved model.Evolution
	err := s.call(ctx, "evolution", "add", func(ctx context.Context, clinicID uuid.UUID) (err error) {
		saved, err = s.saveEvolution(ctx, clinicID, e, true)
		return err
	})
	if err != nil {
		return model.Evolution{}, err
	}
	s.dispatch(Added[model.Evolution]{Item: saved})
	s.notify(ctx, "evolution", "add", saved.ID)
	return saved, nil
}

func (s *ClinicStore) UpdateEvolution(ctx context.Context, e model.Evolution) (model.Evolution, error) {
	if err := requireID("evolution", e.ID); err != nil {
		return model.Evolution{}, err
	}
	if err := e.Validate(); err != nil {
		return model.Evolution{}, err
	}
	var saved model.Evolution
	err := s.call(ctx, "evolution", "update", func(ctx context.Context, clinicID uuid.UUID) (err error) {
		saved, err = s.saveEvolution(ctx, clinicID, e, false)
		return err
	})
	if err != nil {
		return model.Evolution{}, err
	}
	s.dispatch(Updated[model.Evolution]{Item: saved})
	s.notify(ctx, "evolution", "update", saved.ID)
	return saved, nil
}

func (s *ClinicStore) DeleteEvolution(ctx context.Context, d model.Discipline, id uuid.UUID) error {
	err := s.call(ctx, "evolution", "delete", func(ctx context.Context, _ uuid.UUID) error {
		if d == model.OccupationalTherapy {
			return s.repos.OTEvolutions.Delete(ctx, id)
		}
		return s.repos.PhysioEvolutions.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.dispatch(EvolutionDeleted{Discipline: d, ID: id})
	s.notify(ctx, "evolution", "delete", id)
	return nil
}
