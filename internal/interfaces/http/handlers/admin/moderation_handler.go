package admin

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	moderationApp "github.com/lingorelay/lingorelay/internal/application/moderation"
	domainModeration "github.com/lingorelay/lingorelay/internal/domain/moderation"
	"github.com/lingorelay/lingorelay/internal/shared/logger"
	"github.com/lingorelay/lingorelay/internal/shared/utils"
)

type ModerationHandler struct {
	service *moderationApp.Service
	logger  logger.Interface
}

func NewModerationHandler(service *moderationApp.Service, log logger.Interface) *ModerationHandler {
	return &ModerationHandler{
		service: service,
		logger:  log,
	}
}

type moderationActionRequest struct {
	Reason          string `json:"reason"`
	ActorID         string `json:"actor_id" binding:"required"`
	DurationMinutes int    `json:"duration_minutes"`
}

type banResponse struct {
	ID        uint       `json:"id"`
	UserID    string     `json:"user_id"`
	Active    bool       `json:"active"`
	Reason    string     `json:"reason,omitempty"`
	ActorID   string     `json:"actor_id"`
	BannedAt  time.Time  `json:"banned_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

func toBanResponse(b *domainModeration.Ban) banResponse {
	return banResponse{
		ID:        b.ID(),
		UserID:    b.UserID(),
		Active:    b.Active(),
		Reason:    b.Reason(),
		ActorID:   b.ActorID(),
		BannedAt:  b.BannedAt(),
		ExpiresAt: b.ExpiresAt(),
	}
}

// Ban places a permanent ban, or a timed one when duration_minutes is set.
// POST /admin/tenants/:id/moderation/:user_id/ban
func (h *ModerationHandler) Ban(c *gin.Context) {
	tenantID, ok := tenantIDParam(c)
	if !ok {
		return
	}
	userID := c.Param("user_id")

	var req moderationActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	var b *domainModeration.Ban
	var err error
	if req.DurationMinutes > 0 {
		b, err = h.service.Timeout(c.Request.Context(), tenantID, userID, req.Reason, req.ActorID,
			time.Duration(req.DurationMinutes)*time.Minute)
	} else {
		b, err = h.service.Ban(c.Request.Context(), tenantID, userID, req.Reason, req.ActorID)
	}
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, toBanResponse(b))
}

// Unban lifts the active ban.
// POST /admin/tenants/:id/moderation/:user_id/unban
func (h *ModerationHandler) Unban(c *gin.Context) {
	tenantID, ok := tenantIDParam(c)
	if !ok {
		return
	}

	var req moderationActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.service.Unban(c.Request.Context(), tenantID, c.Param("user_id"), req.Reason, req.ActorID); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "ban lifted", nil)
}

// Warn issues a warning and returns the active count.
// POST /admin/tenants/:id/moderation/:user_id/warn
func (h *ModerationHandler) Warn(c *gin.Context) {
	tenantID, ok := tenantIDParam(c)
	if !ok {
		return
	}

	var req moderationActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	count, err := h.service.Warn(c.Request.Context(), tenantID, c.Param("user_id"), req.Reason, req.ActorID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{"active_warnings": count})
}

// ClearWarnings flips every active warning of the user.
// POST /admin/tenants/:id/moderation/:user_id/clear-warnings
func (h *ModerationHandler) ClearWarnings(c *gin.Context) {
	tenantID, ok := tenantIDParam(c)
	if !ok {
		return
	}

	var req moderationActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	cleared, err := h.service.ClearWarnings(c.Request.Context(), tenantID, c.Param("user_id"), req.ActorID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{"cleared": cleared})
}

// RemoveWarning flips one warning inactive.
// DELETE /admin/tenants/:id/moderation/warnings/:warning_id
func (h *ModerationHandler) RemoveWarning(c *gin.Context) {
	tenantID, ok := tenantIDParam(c)
	if !ok {
		return
	}

	warningID, err := strconv.ParseUint(c.Param("warning_id"), 10, 32)
	if err != nil || warningID == 0 {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid warning id")
		return
	}

	actorID := c.Query("actor_id")
	if actorID == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "actor_id is required")
		return
	}

	if err := h.service.RemoveWarning(c.Request.Context(), tenantID, uint(warningID), actorID); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "warning removed", nil)
}

// Status reports the user's moderation standing.
// GET /admin/tenants/:id/moderation/:user_id
func (h *ModerationHandler) Status(c *gin.Context) {
	tenantID, ok := tenantIDParam(c)
	if !ok {
		return
	}

	status, err := h.service.Status(c.Request.Context(), tenantID, c.Param("user_id"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	resp := gin.H{"warning_count": status.WarningCount}
	if status.Ban != nil {
		resp["ban"] = toBanResponse(status.Ban)
	}
	warnings := make([]gin.H, 0, len(status.Warnings))
	for _, w := range status.Warnings {
		warnings = append(warnings, gin.H{
			"id":         w.ID(),
			"reason":     w.Reason(),
			"actor_id":   w.ActorID(),
			"created_at": w.CreatedAt(),
		})
	}
	resp["warnings"] = warnings

	utils.SuccessResponse(c, http.StatusOK, "", resp)
}
