package report

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/clinic-records/internal/handler"
	"github.com/jwalitptl/clinic-records/internal/model"
	"github.com/jwalitptl/clinic-records/internal/report"
	apperrors "github.com/jwalitptl/clinic-records/pkg/errors"
	"github.com/jwalitptl/clinic-records/pkg/metrics"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	*handler.BaseHandler
	builder *report.Builder
	metrics *metrics.Metrics
}

func NewHandler(base *handler.BaseHandler, builder *report.Builder, m *metrics.Metrics) *Handler {
	return &Handler{BaseHandler: base, builder: builder, metrics: m}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/patients/:id/reports/:kind", h.GenerateReport)
}

// GenerateReport renders ?format=html (default) or ?format=xlsx. The
// discipline defaults to fisio.
func (h *Handler) GenerateReport(c *gin.Context) {
	id, err := h.ParseID(c, "id")
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	req := report.Request{
		PatientID:  id,
		Kind:       report.Kind(c.Param("kind")),
		Discipline: model.Discipline(c.DefaultQuery("discipline", string(model.Physiotherapy))),
	}
	doc, err := h.builder.Build(h.Store(c).Snapshot(), req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	format := c.DefaultQuery("format", "html")
	var (
		buf         bytes.Buffer
		contentType string
	)
	switch format {
	case "html":
		err = doc.Render(&buf)
		contentType = "text/html; charset=utf-8"
	case "xlsx":
		err = doc.WriteXLSX(&buf)
		contentType = xlsxContentType
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.xlsx"`, doc.Filename()))
	default:
		handler.RespondError(c, apperrors.BadRequest("format must be html or xlsx", nil))
		return
	}
	if err != nil {
		handler.RespondError(c, apperrors.Internal(err))
		return
	}

	h.metrics.ReportsGenerated.WithLabelValues(string(req.Kind), format).Inc()
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
