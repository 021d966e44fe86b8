package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studq/queue-api/internal/models"
	"github.com/studq/queue-api/internal/service"
	appErrors "github.com/studq/queue-api/pkg/errors"
	"github.com/studq/queue-api/pkg/response"
)

type dialogService interface {
	BeginAdd(ctx context.Context, callerID int64) (*models.DialogState, error)
	BeginRename(ctx context.Context, callerID int64, subjectID string) (*models.DialogState, error)
	SubmitName(ctx context.Context, callerID int64, text string) (*service.DialogResult, error)
	Cancel(ctx context.Context, callerID int64) error
	State(ctx context.Context, callerID int64) (*models.DialogState, error)
}

// BeginDialogRequest selects which subject-management dialog to start.
type BeginDialogRequest struct {
	Action    string `json:"action" binding:"required"`
	SubjectID string `json:"subject_id"`
}

// DialogInputRequest carries the text the user typed.
type DialogInputRequest struct {
	Text string `json:"text" binding:"required"`
}

// DialogHandler exposes the admin subject-management dialog to the front end.
type DialogHandler struct {
	service dialogService
}

// NewDialogHandler constructs a dialog handler.
func NewDialogHandler(svc dialogService) *DialogHandler {
	return &DialogHandler{service: svc}
}

// Begin godoc
// @Summary Start an add or rename dialog (admin)
// @Tags Dialogs
// @Accept json
// @Produce json
// @Param payload body handler.BeginDialogRequest true "Dialog action"
// @Success 200 {object} response.Envelope
// @Router /dialog [post]
func (h *DialogHandler) Begin(c *gin.Context) {
	claims := currentClaims(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req BeginDialogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	var (
		state *models.DialogState
		err   error
	)
	switch req.Action {
	case "add":
		state, err = h.service.BeginAdd(c.Request.Context(), claims.UserID)
	case "rename":
		if req.SubjectID == "" {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "subject_id required for rename"))
			return
		}
		state, err = h.service.BeginRename(c.Request.Context(), claims.UserID, req.SubjectID)
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "action must be add or rename"))
		return
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, state)
}

// Input godoc
// @Summary Submit the typed subject name for the active dialog
// @Tags Dialogs
// @Accept json
// @Produce json
// @Param payload body handler.DialogInputRequest true "Typed text"
// @Success 200 {object} response.Envelope
// @Router /dialog/input [post]
func (h *DialogHandler) Input(c *gin.Context) {
	claims := currentClaims(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req DialogInputRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	result, err := h.service.SubmitName(c.Request.Context(), claims.UserID, req.Text)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// State godoc
// @Summary Inspect the caller's dialog state
// @Tags Dialogs
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dialog [get]
func (h *DialogHandler) State(c *gin.Context) {
	claims := currentClaims(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	state, err := h.service.State(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, state)
}

// Cancel godoc
// @Summary Cancel the caller's dialog
// @Tags Dialogs
// @Produce json
// @Success 204
// @Router /dialog [delete]
func (h *DialogHandler) Cancel(c *gin.Context) {
	claims := currentClaims(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.Cancel(c.Request.Context(), claims.UserID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
