package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studq/queue-api/internal/service"
	appErrors "github.com/studq/queue-api/pkg/errors"
	"github.com/studq/queue-api/pkg/response"
)

const gatewayKeyHeader = "X-Gateway-Key"

// SessionHandler exchanges a gateway-authenticated platform identity for an
// access token.
type SessionHandler struct {
	sessions *service.SessionService
}

// NewSessionHandler constructs a session handler.
func NewSessionHandler(sessions *service.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// Start godoc
// @Summary Start a session for a platform user
// @Tags Sessions
// @Accept json
// @Produce json
// @Param X-Gateway-Key header string true "Gateway key"
// @Param payload body service.StartSessionRequest true "Platform identity"
// @Success 200 {object} response.Envelope
// @Router /auth/session [post]
func (h *SessionHandler) Start(c *gin.Context) {
	var req service.StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	session, err := h.sessions.Start(c.Request.Context(), c.GetHeader(gatewayKeyHeader), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session)
}
