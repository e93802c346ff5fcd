package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	memberApp "github.com/lingorelay/lingorelay/internal/application/member"
	statsApp "github.com/lingorelay/lingorelay/internal/application/stats"
	"github.com/lingorelay/lingorelay/internal/shared/logger"
	"github.com/lingorelay/lingorelay/internal/shared/utils"
)

type MemberHandler struct {
	service *memberApp.Service
	stats   *statsApp.Service
	logger  logger.Interface
}

func NewMemberHandler(service *memberApp.Service, stats *statsApp.Service, log logger.Interface) *MemberHandler {
	return &MemberHandler{
		service: service,
		stats:   stats,
		logger:  log,
	}
}

// Verify admits a user into the tenant.
// POST /admin/tenants/:id/members/:user_id/verify
func (h *MemberHandler) Verify(c *gin.Context) {
	tenantID, ok := tenantIDParam(c)
	if !ok {
		return
	}

	m, err := h.service.Verify(c.Request.Context(), tenantID, c.Param("user_id"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "member verified", gin.H{
		"tenant_id": m.TenantID(),
		"user_id":   m.UserID(),
		"verified":  m.Verified(),
	})
}

type memberPreferencesRequest struct {
	Immersion   *bool   `json:"immersion"`
	HideStats   *bool   `json:"hide_stats"`
	DisplayName *string `json:"display_name"`
}

// UpdatePreferences applies per-member preference toggles.
// PATCH /admin/tenants/:id/members/:user_id
func (h *MemberHandler) UpdatePreferences(c *gin.Context) {
	tenantID, ok := tenantIDParam(c)
	if !ok {
		return
	}
	userID := c.Param("user_id")

	var req memberPreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx := c.Request.Context()
	if req.Immersion != nil {
		if err := h.service.SetImmersion(ctx, tenantID, userID, *req.Immersion); err != nil {
			utils.ErrorResponseWithError(c, err)
			return
		}
	}
	if req.HideStats != nil {
		if err := h.service.SetHideStats(ctx, tenantID, userID, *req.HideStats); err != nil {
			utils.ErrorResponseWithError(c, err)
			return
		}
	}
	if req.DisplayName != nil {
		if err := h.service.SetDisplayName(ctx, tenantID, userID, *req.DisplayName); err != nil {
			utils.ErrorResponseWithError(c, err)
			return
		}
	}

	utils.SuccessResponse(c, http.StatusOK, "preferences updated", nil)
}

// Stats reports a member's own numbers.
// GET /admin/tenants/:id/members/:user_id/stats
func (h *MemberHandler) Stats(c *gin.Context) {
	tenantID, ok := tenantIDParam(c)
	if !ok {
		return
	}

	stats, err := h.stats.MemberStats(c.Request.Context(), tenantID, c.Param("user_id"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", stats)
}
