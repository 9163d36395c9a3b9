package dashboard

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-records/internal/handler"
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
	r.GET("/dashboard", h.Dashboard)
	r.GET("/progress", h.Progress)
	r.GET("/stats/patients", h.PatientStats)
	r.GET("/stats/professionals", h.ProfessionalStats)
}

func (h *Handler) Dashboard(c *gin.Context) {
	d := views.BuildDashboard(h.Store(c).Snapshot(), h.Now(), h.Location)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(d))
}

// Progress lists patient progress, optionally for ?patientId= only.
func (h *Handler) Progress(c *gin.Context) {
	filter := uuid.Nil
	if raw := c.Query("patientId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			handler.RespondError(c, apperrors.BadRequest("invalid patientId", err))
			return
		}
		filter = id
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(views.ProgressList(h.Store(c).Snapshot(), filter)))
}

func (h *Handler) PatientStats(c *gin.Context) {
	st := views.ComputePatientStats(h.Store(c).Snapshot(), h.Now().In(h.Location))
	c.JSON(http.StatusOK, handler.NewSuccessResponse(st))
}

func (h *Handler) ProfessionalStats(c *gin.Context) {
	c.JSON(http.StatusOK, handler.NewSuccessResponse(views.ComputeProfessionalStats(h.Store(c).Snapshot())))
}
