// Package scope resolves which clinic a signed-in user works in.
package scope

import (
	"context"

	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-records/internal/repository"
	"github.com/jwalitptl/clinic-records/pkg/logger"
)

// Source tells how a binding was obtained.
type Source string

const (
	FromProfile  Source = "profile"
	FromFallback Source = "fallback"
)

// Result is the outcome of resolving a user's clinic: bound or unbound.
type Result struct {
	clinicID uuid.UUID
	source   Source
	bound    bool
}

func Bound(clinicID uuid.UUID, source Source) Result {
	return Result{clinicID: clinicID, source: source, bound: clinicID != uuid.Nil}
}

func Unbound() Result {
	return Result{}
}

func (r Result) IsBound() bool { return r.bound }

// ClinicID returns the bound clinic; ok is false when unbound.
func (r Result) ClinicID() (uuid.UUID, bool) {
	return r.clinicID, r.bound
}

func (r Result) Source() Source { return r.source }

// Identity is the authenticated user as known to the identity provider.
type Identity struct {
	UserID uuid.UUID
	Email  string
}

type Resolver struct {
	profiles repository.ProfileRepository
	clinics  repository.ClinicRepository
	log      *logger.Logger
}

func NewResolver(profiles repository.ProfileRepository, clinics repository.ClinicRepository, log *logger.Logger) *Resolver {
	return &Resolver{profiles: profiles, clinics: clinics, log: log}
}

// Resolve looks up the user's profile, then falls back to the server-side
// clinic provisioning function. Failures of both steps yield Unbound.
func (r *Resolver) Resolve(ctx context.Context, id Identity) Result {
	profile, err := r.profiles.GetByUserID(ctx, id.UserID)
	if err == nil && profile.ClinicID != uuid.Nil {
		return Bound(profile.ClinicID, FromProfile)
	}
	if err != nil {
		r.log.Warn("profile lookup failed, trying clinic fallback", "user_id", id.UserID.String(), "error", err.Error())
	}

	clinicID, err := r.clinics.EnsureForUser(ctx, id.UserID, id.Email)
	if err != nil {
		r.log.Error(err, "clinic fallback failed", "user_id", id.UserID.String())
		return Unbound()
	}
	return Bound(clinicID, FromFallback)
}
