package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-records/internal/model"
	"github.com/jwalitptl/clinic-records/internal/store"
	"github.com/jwalitptl/clinic-records/pkg/auth"
	apperrors "github.com/jwalitptl/clinic-records/pkg/errors"
)

const (
	ContextIdentity = "identity"
	ContextStore    = "clinic_store"
)

// SetSession attaches the caller and their clinic store to the request.
func SetSession(c *gin.Context, id auth.Identity, s store.Store) {
	c.Set(ContextIdentity, id)
	c.Set(ContextStore, s)
}

// BaseHandler carries what every clinic handler needs.
type BaseHandler struct {
	Location *time.Location
	Now      func() time.Time
}

func NewBaseHandler(loc *time.Location) *BaseHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &BaseHandler{Location: loc, Now: time.Now}
}

// Store returns the caller's clinic store. The auth middleware guarantees it
// is present on every authenticated route.
func (h *BaseHandler) Store(c *gin.Context) store.Store {
	return c.MustGet(ContextStore).(store.Store)
}

func (h *BaseHandler) Identity(c *gin.Context) auth.Identity {
	return c.MustGet(ContextIdentity).(auth.Identity)
}

// ParseID reads a UUID path parameter.
func (h *BaseHandler) ParseID(c *gin.Context, param string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		return uuid.Nil, apperrors.BadRequest("invalid "+param, err)
	}
	return id, nil
}

// ParseDiscipline reads the :discipline path parameter.
func (h *BaseHandler) ParseDiscipline(c *gin.Context) (model.Discipline, error) {
	d := model.Discipline(c.Param("discipline"))
	if !d.IsValid() {
		return "", apperrors.BadRequest("discipline must be fisio or to", nil)
	}
	return d, nil
}

// Bind decodes the JSON body into dst.
func (h *BaseHandler) Bind(c *gin.Context, dst interface{}) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return apperrors.BadRequest("invalid request body", err)
	}
	return nil
}
