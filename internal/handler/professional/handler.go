package professional

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-records/internal/handler"
	"github.com/jwalitptl/clinic-records/internal/model"
	"github.com/jwalitptl/clinic-records/internal/views"
)

type Handler struct {
	*handler.BaseHandler
}

func NewHandler(base *handler.BaseHandler) *Handler {
	return &Handler{BaseHandler: base}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	professionals := r.Group("/professionals")
	{
		professionals.POST("", h.CreateProfessional)
		professionals.GET("", h.ListProfessionals)
		professionals.PUT("/:id", h.UpdateProfessional)
		professionals.DELETE("/:id", h.DeleteProfessional)
	}
}

func (h *Handler) ListProfessionals(c *gin.Context) {
	list := views.SearchProfessionals(h.Store(c).Snapshot(), c.Query("q"))
	c.JSON(http.StatusOK, handler.NewSuccessResponse(list))
}

func (h *Handler) CreateProfessional(c *gin.Context) {
	var req model.Professional
	if err := h.Bind(c, &req); err != nil {
		handler.RespondError(c, err)
		return
	}
	req.ID = uuid.Nil

	p, err := h.Store(c).AddProfessional(c.Request.Context(), req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(p))
}

func (h *Handler) UpdateProfessional(c *gin.Context) {
	id, err := h.ParseID(c, "id")
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	var req model.Professional
	if err := h.Bind(c, &req); err != nil {
		handler.RespondError(c, err)
		return
	}
	req.ID = id

	p, err := h.Store(c).UpdateProfessional(c.Request.Context(), req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(p))
}

func (h *Handler) DeleteProfessional(c *gin.Context) {
	id, err := h.ParseID(c, "id")
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	if err := h.Store(c).DeleteProfessional(c.Request.Context(), id); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
