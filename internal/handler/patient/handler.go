package patient

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
	patients := r.Group("/patients")
	{
		patients.POST("", h.CreatePatient)
		patients.GET("", h.ListPatients)
		patients.GET("/:id", h.GetPatient)
		patients.PUT("/:id", h.UpdatePatient)
		patients.DELETE("/:id", h.DeletePatient)

		patients.GET("/:id/appointments", h.ListAppointments)
		patients.GET("/:id/evaluations/:discipline/latest", h.LatestEvaluation)
		patients.GET("/:id/evolutions/:discipline", h.ListEvolutions)
	}
}

// ListPatients supports ?q= (name or CPF) and ?status=.
func (h *Handler) ListPatients(c *gin.Context) {
	status := model.PatientStatus(c.Query("status"))
	if status != "" && !status.IsValid() {
		handler.RespondError(c, apperrors.BadRequest("invalid status filter", nil))
		return
	}
	patients := views.SearchPatients(h.Store(c).Snapshot(), c.Query("q"), status)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(patients))
}

func (h *Handler) GetPatient(c *gin.Context) {
	id, err := h.ParseID(c, "id")
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	p, ok := h.Store(c).Snapshot().Patient(id)
	if !ok {
		handler.RespondError(c, apperrors.NotFound("patient", nil))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(p))
}

func (h *Handler) CreatePatient(c *gin.Context) {
	var req model.Patient
	if err := h.Bind(c, &req); err != nil {
		handler.RespondError(c, err)
		return
	}
	req.ID = uuid.Nil

	p, err := h.Store(c).AddPatient(c.Request.Context(), req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(p))
}

func (h *Handler) UpdatePatient(c *gin.Context) {
	id, err := h.ParseID(c, "id")
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	var req model.Patient
	if err := h.Bind(c, &req); err != nil {
		handler.RespondError(c, err)
		return
	}
	req.ID = id

	p, err := h.Store(c).UpdatePatient(c.Request.Context(), req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(p))
}

func (h *Handler) DeletePatient(c *gin.Context) {
	id, err := h.ParseID(c, "id")
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	if err := h.Store(c).DeletePatient(c.Request.Context(), id); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ListAppointments(c *gin.Context) {
	id, err := h.ParseID(c, "id")
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(views.PatientAppointments(h.Store(c).Snapshot(), id)))
}

// LatestEvaluation responds without data when the patient has no evaluation
// in the discipline.
func (h *Handler) LatestEvaluation(c *gin.Context) {
	id, err := h.ParseID(c, "id")
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	d, err := h.ParseDiscipline(c)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	latest := views.LatestEvaluation(h.Store(c).Snapshot(), id, d)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(latest))
}

func (h *Handler) ListEvolutions(c *gin.Context) {
	id, err := h.ParseID(c, "id")
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	d, err := h.ParseDiscipline(c)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(views.EvolutionHistory(h.Store(c).Snapshot(), id, d)))
}
