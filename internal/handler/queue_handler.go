package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studq/queue-api/internal/service"
	appErrors "github.com/studq/queue-api/pkg/errors"
	"github.com/studq/queue-api/pkg/export"
	"github.com/studq/queue-api/pkg/response"
)

type queueService interface {
	ListQueue(ctx context.Context, callerID int64, subjectID string) (*service.QueueView, error)
	Join(ctx context.Context, callerID int64, subjectID string) (*service.QueueView, error)
	Leave(ctx context.Context, callerID int64, subjectID string) (*service.QueueView, error)
	Clear(ctx context.Context, callerID int64, subjectID string) (*service.QueueView, error)
	ExportRoster(ctx context.Context, callerID int64, subjectID string) (*service.QueueView, error)
	MyQueues(ctx context.Context, callerID int64) ([]string, error)
}

type queueCounters interface {
	CountJoin()
	CountLeave()
}

// QueueHandler handles queue membership endpoints.
type QueueHandler struct {
	service queueService
	metrics queueCounters
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
}

// NewQueueHandler constructs a queue handler.
func NewQueueHandler(svc queueService, metrics queueCounters) *QueueHandler {
	return &QueueHandler{
		service: svc,
		metrics: metrics,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
	}
}

// List godoc
// @Summary Show a subject's queue in arrival order
// @Tags Queues
// @Produce json
// @Param id path string true "Subject ID"
// @Success 200 {object} response.Envelope
// @Router /subjects/{id}/queue [get]
func (h *QueueHandler) List(c *gin.Context) {
	claims := currentClaims(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	view, err := h.service.ListQueue(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view)
}

// Join godoc
// @Summary Join a subject's queue
// @Tags Queues
// @Produce json
// @Param id path string true "Subject ID"
// @Success 201 {object} response.Envelope
// @Router /subjects/{id}/queue [post]
func (h *QueueHandler) Join(c *gin.Context) {
	claims := currentClaims(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	view, err := h.service.Join(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.CountJoin()
	}
	response.Created(c, view)
}

// Leave godoc
// @Summary Leave a subject's queue (idempotent)
// @Tags Queues
// @Produce json
// @Param id path string true "Subject ID"
// @Success 200 {object} response.Envelope
// @Router /subjects/{id}/queue [delete]
func (h *QueueHandler) Leave(c *gin.Context) {
	claims := currentClaims(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	view, err := h.service.Leave(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.CountLeave()
	}
	response.JSON(c, http.StatusOK, view)
}

// Clear godoc
// @Summary Clear a subject's queue (admin)
// @Tags Queues
// @Produce json
// @Param id path string true "Subject ID"
// @Success 200 {object} response.Envelope
// @Router /subjects/{id}/queue/entries [delete]
func (h *QueueHandler) Clear(c *gin.Context) {
	claims := currentClaims(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	view, err := h.service.Clear(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view)
}

// Export godoc
// @Summary Export a subject's queue roster as CSV or PDF (admin)
// @Tags Queues
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Subject ID"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200
// @Router /subjects/{id}/queue/export [get]
func (h *QueueHandler) Export(c *gin.Context) {
	claims := currentClaims(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	view, err := h.service.ExportRoster(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	roster := export.Roster{Subject: view.Subject.Name}
	for i, entry := range view.Entries {
		roster.Rows = append(roster.Rows, export.RosterRow{
			Position: i + 1,
			Student:  entry.DisplayName,
			JoinedAt: entry.JoinedAt.Format("2006-01-02 15:04:05"),
		})
	}

	format := c.DefaultQuery("format", "csv")
	switch format {
	case "csv":
		data, err := h.csv.Render(roster)
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv"))
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", view.Subject.Name+".csv"))
		c.Data(http.StatusOK, "text/csv", data)
	case "pdf":
		data, err := h.pdf.Render(roster)
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf"))
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", view.Subject.Name+".pdf"))
		c.Data(http.StatusOK, "application/pdf", data)
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf"))
	}
}

// MyQueues godoc
// @Summary List subject names the caller queues for
// @Tags Queues
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /me/queues [get]
func (h *QueueHandler) MyQueues(c *gin.Context) {
	claims := currentClaims(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	names, err := h.service.MyQueues(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, names)
}
