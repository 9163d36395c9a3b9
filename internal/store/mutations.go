package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-records/internal/mapper"
	"github.com/jwalitptl/clinic-records/internal/model"
)

func (s *ClinicStore) AddPatient(ctx context.Context, p model.Patient) (model.Patient, error) {
	if err := p.Validate(); err != nil {
		return model.Patient{}, err
	}
	var saved model.Patient
	err := s.call(ctx, "patient", "add", func(ctx context.Context, clinicID uuid.UUID) (err error) {
		p.ClinicID = clinicID
		saved, err = s.repos.Patients.Insert(ctx, p)
		return err
	})
	if err != nil {
		return model.Patient{}, err
	}
	s.dispatch(Added[model.Patient]{Item: saved})
	s.notify(ctx, "patient", "add", saved.ID)
	return saved, nil
}

func (s *ClinicStore) UpdatePatient(ctx context.Context, p model.Patient) (model.Patient, error) {
	if err := requireID("patient", p.ID); err != nil {
		return model.Patient{}, err
	}
	if err := p.Validate(); err != nil {
		return model.Patient{}, err
	}
	var saved model.Patient
	err := s.call(ctx, "patient", "update", func(ctx context.Context, clinicID uuid.UUID) (err error) {
		p.ClinicID = clinicID
		saved, err = s.repos.Patients.Update(ctx, p)
		return err
	})
	if err != nil {
		return model.Patient{}, err
	}
	s.dispatch(Updated[model.Patient]{Item: saved})
	s.notify(ctx, "patient", "update", saved.ID)
	return saved, nil
}

func (s *ClinicStore) DeletePatient(ctx context.Context, id uuid.UUID) error {
	err := s.call(ctx, "patient", "delete", func(ctx context.Context, _ uuid.UUID) error {
		return s.repos.Patients.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.dispatch(Deleted[model.Patient]{ID: id})
	s.notify(ctx, "patient", "delete", id)
	return nil
}

func (s *ClinicStore) AddProfessional(ctx context.Context, p model.Professional) (model.Professional, error) {
	if err := p.Validate(); err != nil {
		return model.Professional{}, err
	}
	var saved model.Professional
	err := s.call(ctx, "professional", "add", func(ctx context.Context, clinicID uuid.UUID) error {
		row, err := s.repos.Professionals.Insert(ctx, mapper.ProfessionalToStorage(p, clinicID))
		if err != nil {
			return err
		}
		saved = mapper.ProfessionalFromStorage(row)
		return nil
	})
	if err != nil {
		return model.Professional{}, err
	}
	s.dispatch(Added[model.Professional]{Item: saved})
	s.notify(ctx, "professional", "add", saved.ID)
	return saved, nil
}

func (s *ClinicStore) UpdateProfessional(ctx context.Context, p model.Professional) (model.Professional, error) {
	if err := requireID("professional", p.ID); err != nil {
		return model.Professional{}, err
	}
	if err := p.Validate(); err != nil {
		return model.Professional{}, err
	}
	var saved model.Professional
	err := s.call(ctx, "professional", "update", func(ctx context.Context, clinicID uuid.UUID) error {
		row, err := s.repos.Professionals.Update(ctx, mapper.ProfessionalToStorage(p, clinicID))
		if err != nil {
			return err
		}
		saved = mapper.ProfessionalFromStorage(row)
		return nil
	})
	if err != nil {
		return model.Professional{}, err
	}
	s.dispatch(Updated[model.Professional]{Item: saved})
	s.notify(ctx, "professional", "update", saved.ID)
	return saved, nil
}

func (s *ClinicStore) DeleteProfessional(ctx context.Context, id uuid.UUID) error {
	err := s.call(ctx, "professional", "delete", func(ctx context.Context, _ uuid.UUID) error {
		return s.repos.Professionals.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.dispatch(Deleted[model.Professional]{ID: id})
	s.notify(ctx, "professional", "delete", id)
	return nil
}

func (s *ClinicStore) AddAppointment(ctx context.Context, a model.Appointment) (model.Appointment, error) {
	if err := a.Validate(); err != nil {
		return model.Appointment{}, err
	}
	var saved model.Appointment
	err := s.call(ctx, "appointment", "add", func(ctx context.Context, clinicID uuid.UUID) error {
		row, err := s.repos.Appointments.Insert(ctx, mapper.AppointmentToStorage(a, clinicID))
		if err != nil {
			return err
		}
		saved = mapper.AppointmentFromStorage(row)
		return nil
	})
	if err != nil {
		return model.Appointment{}, err
	}
	s.dispatch(Added[model.Appointment]{Item: saved})
	s.notify(ctx, "appointment", "add", saved.ID)
	return saved, nil
}

func (s *ClinicStore) UpdateAppointment(ctx context.Context, a model.Appointment) (model.Appointment, error) {
	if err := requireID("appointment", a.ID); err != nil {
		return model.Appointment{}, err
	}
	if err := a.Validate(); err != nil {
		return model.Appointment{}, err
	}
	var saved model.Appointment
	err := s.call(ctx, "appointment", "update", func(ctx context.Context, clinicID uuid.UUID) error {
		row, err := s.repos.Appointments.Update(ctx, mapper.AppointmentToStorage(a, clinicID))
		if err != nil {
			return err
		}
		saved = mapper.AppointmentFromStorage(row)
		return nil
	})
	if err != nil {
		return model.Appointment{}, err
	}
	s.dispatch(Updated[model.Appointment]{Item: saved})
	s.notify(ctx, "appointment", "update", saved.ID)
	return saved, nil
}

func (s *ClinicStore) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	err := s.call(ctx, "appointment", "delete", func(ctx context.Context, _ uuid.UUID) error {
		return s.repos.Appointments.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.dispatch(Deleted[model.Appointment]{ID: id})
	s.notify(ctx, "appointment", "delete", id)
	return nil
}
