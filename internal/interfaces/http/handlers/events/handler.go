// Package events receives inbound message events from the platform
// collaborator and feeds them into the relay pipeline.
package events

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lingorelay/lingorelay/internal/application/relay"
	"github.com/lingorelay/lingorelay/internal/shared/logger"
	"github.com/lingorelay/lingorelay/internal/shared/utils"
)

// eventSecretHeader carries the shared secret the platform collaborator
// signs event posts with.
const eventSecretHeader = "X-Event-Secret"

type Handler struct {
	service *relay.Service
	secret  string
	logger  logger.Interface
}

func NewHandler(service *relay.Service, secret string, log logger.Interface) *Handler {
	return &Handler{
		service: service,
		secret:  secret,
		logger:  log,
	}
}

// HandleMessageEvent processes one inbound message event.
// POST /platform/events
func (h *Handler) HandleMessageEvent(c *gin.Context) {
	if h.secret == "" || subtle.ConstantTimeCompare([]byte(c.GetHeader(eventSecretHeader)), []byte(h.secret)) != 1 {
		utils.ErrorResponse(c, http.StatusUnauthorized, "invalid event secret")
		return
	}

	var event relay.MessageEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid event payload")
		return
	}

	// Pipeline gates drop silently; an error here is infrastructure, not
	// a rejected message.
	if err := h.service.ProcessMessage(c.Request.Context(), event); err != nil {
		h.logger.Errorw("failed to process message event",
			"space_id", event.SpaceID,
			"channel_id", event.ChannelID,
			"message_id", event.MessageID,
			"error", err,
		)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", nil)
}
