package scope

import (
	"context"

	"github.com/google/uuid"
)

type clinicKey struct{}

// WithClinic returns a context whose backend reads are limited to clinicID.
func WithClinic(ctx context.Context, clinicID uuid.UUID) context.Context {
	return context.WithValue(ctx, clinicKey{}, clinicID)
}

// ClinicFrom returns the clinic bound to ctx, if any.
func ClinicFrom(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(clinicKey{}).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}
