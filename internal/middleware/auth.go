package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/clinic-records/internal/handler"
	"github.com/jwalitptl/clinic-records/internal/scope"
	"github.com/jwalitptl/clinic-records/internal/store"
	"github.com/jwalitptl/clinic-records/pkg/auth"
	apperrors "github.com/jwalitptl/clinic-records/pkg/errors"
)

// TokenVerifier is satisfied by *auth.Verifier.
type TokenVerifier interface {
	Verify(token string) (auth.Identity, error)
}

// SessionAcquirer is satisfied by *session.Manager.
type SessionAcquirer interface {
	Acquire(ctx context.Context, id scope.Identity) (store.Store, error)
}

type AuthMiddleware struct {
	verifier TokenVerifier
	sessions SessionAcquirer
}

func NewAuthMiddleware(verifier TokenVerifier, sessions SessionAcquirer) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		sessions: sessions,
	}
}

// Authenticate verifies the bearer token and attaches the caller's clinic
// store to the request. An unbound user still gets a store; its mutations
// fail with ErrNoClinic.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.BearerToken(c.GetHeader("Authorization"))
		if err != nil {
			handler.RespondError(c, apperrors.Unauthorized(err))
			return
		}

		id, err := m.verifier.Verify(token)
		if err != nil {
			handler.RespondError(c, apperrors.Unauthorized(err))
			return
		}

		s, err := m.sessions.Acquire(c.Request.Context(), scope.Identity{UserID: id.UserID, Email: id.Email})
		if err != nil {
			handler.RespondError(c, apperrors.Internal(err))
			return
		}

		handler.SetSession(c, id, s)
		c.Next()
	}
}
