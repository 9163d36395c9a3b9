// Package session exposes the caller's clinic binding and store lifecycle.
package session

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-records/internal/handler"
	"github.com/jwalitptl/clinic-records/internal/model"
	"github.com/jwalitptl/clinic-records/internal/scope"
	"github.com/jwalitptl/clinic-records/internal/store"
)

// Manager is the part of the session manager the handler drives.
type Manager interface {
	Reload(ctx context.Context, id scope.Identity) (store.Store, error)
	Release(userID uuid.UUID)
}

// ClinicReader looks up the clinic a session is bound to.
type ClinicReader interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Clinic, error)
}

type Handler struct {
	*handler.BaseHandler
	sessions Manager
	clinics  ClinicReader
}

func NewHandler(base *handler.BaseHandler, sessions Manager, clinics ClinicReader) *Handler {
	return &Handler{BaseHandler: base, sessions: sessions, clinics: clinics}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	session := r.Group("/session")
	{
		session.GET("", h.GetSession)
		session.POST("/reload", h.Reload)
		session.DELETE("", h.Logout)
	}
}

type scopeResponse struct {
	Bound    bool         `json:"bound"`
	ClinicID *uuid.UUID   `json:"clinicId,omitempty"`
	Source   scope.Source `json:"source,omitempty"`
	Name     string       `json:"name,omitempty"`
}

type sessionResponse struct {
	UserID uuid.UUID     `json:"userId"`
	Email  string        `json:"email"`
	Scope  scopeResponse `json:"scope"`
	Data   store.State   `json:"data"`
}

func (h *Handler) respond(c *gin.Context, s store.Store) {
	id := h.Identity(c)
	sc := s.Scope()
	res := sessionResponse{
		UserID: id.UserID,
		Email:  id.Email,
		Scope:  scopeResponse{Bound: sc.IsBound(), Source: sc.Source()},
		Data:   s.Snapshot(),
	}
	if clinicID, ok := sc.ClinicID(); ok {
		res.Scope.ClinicID = &clinicID
		// A missing clinic name does not fail the session response.
		if clinic, err := h.clinics.Get(c.Request.Context(), clinicID); err == nil {
			res.Scope.Name = clinic.Name
		} else {
			_ = c.Error(err)
		}
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(res))
}

// GetSession returns the caller's scope and the full clinic snapshot.
func (h *Handler) GetSession(c *gin.Context) {
	h.respond(c, h.Store(c))
}

func (h *Handler) Reload(c *gin.Context) {
	id := h.Identity(c)
	s, err := h.sessions.Reload(c.Request.Context(), scope.Identity{UserID: id.UserID, Email: id.Email})
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	h.respond(c, s)
}

// Logout drops the caller's store. The token itself stays valid until it
// expires at the identity provider.
func (h *Handler) Logout(c *gin.Context) {
	h.sessions.Release(h.Identity(c).UserID)
	c.Status(http.StatusNoContent)
}
