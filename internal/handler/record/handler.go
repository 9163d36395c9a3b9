// Package record serves evaluation and evolution records of both
// disciplines. The discipline comes from the path and overrides the body.
package record

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-records/internal/handler"
	"github.com/jwalitptl/clinic-records/internal/model"
)

type Handler struct {
	*handler.BaseHandler
}

func NewHandler(base *handler.BaseHandler) *Handler {
	return &Handler{BaseHandler: base}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	evaluations := r.Group("/evaluations/:discipline")
	{
		evaluations.POST("", h.CreateEvaluation)
		evaluations.PUT("/:id", h.UpdateEvaluation)
		evaluations.DELETE("/:id", h.DeleteEvaluation)
	}

	evolutions := r.Group("/evolutions/:discipline")
	{
		evolutions.POST("", h.CreateEvolution)
		evolutions.PUT("/:id", h.UpdateEvolution)
		evolutions.DELETE("/:id", h.DeleteEvolution)
	}
}

func (h *Handler) CreateEvaluation(c *gin.Context) {
	d, err := h.ParseDiscipline(c)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	var req model.Evaluation
	if err := h.Bind(c, &req); err != nil {
		handler.RespondError(c, err)
		return
	}
	req.ID = uuid.Nil
	req.Discipline = d

	e, err := h.Store(c).AddEvaluation(c.Request.Context(), req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(e))
}

func (h *Handler) UpdateEvaluation(c *gin.Context) {
	d, err := h.ParseDiscipline(c)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	id, err := h.ParseID(c, "id")
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	var req model.Evaluation
	if err := h.Bind(c, &req); err != nil {
		handler.RespondError(c, err)
		return
	}
	req.ID = id
	req.Discipline = d

	e, err := h.Store(c).UpdateEvaluation(c.Request.Context(), req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(e))
}

func (h *Handler) DeleteEvaluation(c *gin.Context) {
	d, err := h.ParseDiscipline(c)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	id, err := h.ParseID(c, "id")
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	if err := h.Store(c).DeleteEvaluation(c.Request.Context(), d, id); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) CreateEvolution(c *gin.Context) {
	d, err := h.ParseDiscipline(c)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	var req model.Evolution
	if err := h.Bind(c, &req); err != nil {
		handler.RespondError(c, err)
		return
	}
	req.ID = uuid.Nil
	req.Discipline = d

	e, err := h.Store(c).AddEvolution(c.Request.Context(), req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(e))
}

func (h *Handler) UpdateEvolution(c *gin.Context) {
	d, err := h.ParseDiscipline(c)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	id, err := h.ParseID(c, "id")
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	var req model.Evolution
	if err := h.Bind(c, &req); err != nil {
		handler.RespondError(c, err)
		return
	}
	req.ID = id
	req.Discipline = d

	e, err := h.Store(c).UpdateEvolution(c.Request.Context(), req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(e))
}

func (h *Handler) DeleteEvolution(c *gin.Context) {
	d, err := h.ParseDiscipline(c)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	id, err := h.ParseID(c, "id")
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	if err := h.Store(c).DeleteEvolution(c.Request.Context(), d, id); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
