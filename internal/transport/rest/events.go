package rest

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// @Summary Appointment event stream
// @Description Websocket stream of booking, status and medical record events for the caller's appointments
// @Tags events
// @Param token query string true "Access token"
// @Success 101 {string} string "Switching Protocols"
// @Failure 401 {object} errorResponseBody
// @Router /events [get]
func (h *Handler) eventStream(c *gin.Context) {
	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		unauthorizedResponse(c)
		return
	}

	actor, err := h.services.Auth.ParseToken(c.Request.Context(), token)
	if err != nil {
		h.logger.Debug("rejected event stream token", zap.Error(err))
		unauthorizedResponse(c)
		return
	}

	if err := h.events.Serve(c.Writer, c.Request, actor); err != nil {
		h.logger.Warn("event stream upgrade failed", zap.Int64("userId", actor.UserID), zap.Error(err))
	}
}
