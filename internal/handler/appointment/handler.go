package appointment

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-records/internal/handler"
	"github.com/jwalitptl/clinic-records/internal/model"
	"github.com/jwalitptl/clinic-records/internal/views"
	apperrors "github.com/jwalitptl/clinic-records/pkg/errors"
)

type Handler struct {
	*handler.BaseHandler
}

func NewHandler(base *handler.BaseHandler) *Handler {
	return &Handler{BaseHandler: base}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.POST("", h.CreateAppointment)
		appointments.GET("", h.ListAppointments)
		appointments.GET("/agenda", h.Agenda)
		appointments.PUT("/:id", h.UpdateAppointment)
		appointments.DELETE("/:id", h.DeleteAppointment)
	}
}

// ListAppointments returns every appointment, newest first.
func (h *Handler) ListAppointments(c *gin.Context) {
	snap := h.Store(c).Snapshot()
	out := make([]model.Appointment, len(snap.Appointments))
	copy(out, snap.Appointments)
	views.SortNewestFirst(out)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(out))
}

// Agenda lists one day, ?date=YYYY-MM-DD, defaulting to today in the clinic
// time zone.
func (h *Handler) Agenda(c *gin.Context) {
	day := model.DateOf(h.Now().In(h.Location))
	if raw := c.Query("date"); raw != "" {
		d, err := model.ParseDate(raw)
		if err != nil {
			handler.RespondError(c, apperrors.BadRequest("date must be YYYY-MM-DD", err))
			return
		}
		day = d
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(views.DayAgenda(h.Store(c).Snapshot(), day, h.Location)))
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	var req model.Appointment
	if err := h.Bind(c, &req); err != nil {
		handler.RespondError(c, err)
		return
	}
	req.ID = uuid.Nil

	a, err := h.Store(c).AddAppointment(c.Request.Context(), req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(a))
}

func (h *Handler) UpdateAppointment(c *gin.Context) {
	id, err := h.ParseID(c, "id")
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	var req model.Appointment
	if err := h.Bind(c, &req); err != nil {
		handler.RespondError(c, err)
		return
	}
	req.ID = id

	a, err := h.Store(c).UpdateAppointment(c.Request.Context(), req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(a))
}

func (h *Handler) DeleteAppointment(c *gin.Context) {
	id, err := h.ParseID(c, "id")
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	if err := h.Store(c).DeleteAppointment(c.Request.Context(), id); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
