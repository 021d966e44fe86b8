package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studq/queue-api/internal/models"
	appErrors "github.com/studq/queue-api/pkg/errors"
	"github.com/studq/queue-api/pkg/response"
)

type directoryService interface {
	Get(ctx context.Context, id int64) (*models.User, error)
}

// MeHandler serves the caller's own profile.
type MeHandler struct {
	directory directoryService
}

// NewMeHandler constructs a MeHandler.
func NewMeHandler(directory directoryService) *MeHandler {
	return &MeHandler{directory: directory}
}

// Profile godoc
// @Summary Get the caller's profile
// @Tags Me
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /me [get]
func (h *MeHandler) Profile(c *gin.Context) {
	claims := currentClaims(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	user, err := h.directory.Get(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, user)
}
