// Package admin exposes the authenticated management API: tenant
// configuration, membership administration, moderation and stats.
package admin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	statsApp "github.com/lingorelay/lingorelay/internal/application/stats"
	tenantApp "github.com/lingorelay/lingorelay/internal/application/tenant"
	domainTenant "github.com/lingorelay/lingorelay/internal/domain/tenant"
	"github.com/lingorelay/lingorelay/internal/shared/logger"
	"github.com/lingorelay/lingorelay/internal/shared/utils"
)

type TenantHandler struct {
	service *tenantApp.Service
	stats   *statsApp.Service
	logger  logger.Interface
}

func NewTenantHandler(service *tenantApp.Service, stats *statsApp.Service, log logger.Interface) *TenantHandler {
	return &TenantHandler{
		service: service,
		stats:   stats,
		logger:  log,
	}
}

type registerTenantRequest struct {
	SpaceID string `json:"space_id" binding:"required"`
	Name    string `json:"name" binding:"required"`
	Tier    string `json:"tier" binding:"required"`
}

type tenantResponse struct {
	ID           uint             `json:"id"`
	SpaceID      string           `json:"space_id"`
	Name         string           `json:"name"`
	Tier         string           `json:"tier"`
	LogChannelID string           `json:"log_channel_id,omitempty"`
	Channels     []channelMapping `json:"channels"`
}

type channelMapping struct {
	Language  string `json:"language"`
	ChannelID string `json:"channel_id"`
	Enabled   bool   `json:"enabled"`
}

func toTenantResponse(t *domainTenant.Tenant) tenantResponse {
	resp := tenantResponse{
		ID:           t.ID(),
		SpaceID:      t.SpaceID(),
		Name:         t.Name(),
		Tier:         t.Tier().String(),
		LogChannelID: t.LogChannelID(),
		Channels:     []channelMapping{},
	}
	for _, ch := range t.Channels() {
		resp.Channels = append(resp.Channels, channelMapping{
			Language:  ch.Language.String(),
			ChannelID: ch.ChannelID,
			Enabled:   ch.Enabled,
		})
	}
	return resp
}

// Register creates a tenant.
// POST /admin/tenants
func (h *TenantHandler) Register(c *gin.Context) {
	var req registerTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	t, err := h.service.Register(c.Request.Context(), req.SpaceID, req.Name, req.Tier)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, toTenantResponse(t))
}

// Get returns a tenant's configuration.
// GET /admin/tenants/:id
func (h *TenantHandler) Get(c *gin.Context) {
	tenantID, ok := tenantIDParam(c)
	if !ok {
		return
	}

	t, err := h.service.Get(c.Request.Context(), tenantID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", toTenantResponse(t))
}

type setChannelRequest struct {
	Language  string `json:"language" binding:"required"`
	ChannelID string `json:"channel_id" binding:"required"`
}

// SetChannel binds a language to a channel.
// PUT /admin/tenants/:id/channels
func (h *TenantHandler) SetChannel(c *gin.Context) {
	tenantID, ok := tenantIDParam(c)
	if !ok {
		return
	}

	var req setChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.service.SetChannel(c.Request.Context(), tenantID, req.Language, req.ChannelID); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "channel configured", nil)
}

// DisableChannel takes a language out of the fan-out.
// DELETE /admin/tenants/:id/channels/:language
func (h *TenantHandler) DisableChannel(c *gin.Context) {
	tenantID, ok := tenantIDParam(c)
	if !ok {
		return
	}

	if err := h.service.DisableChannel(c.Request.Context(), tenantID, c.Param("language")); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "channel disabled", nil)
}

type setLogChannelRequest struct {
	ChannelID string `json:"channel_id" binding:"required"`
}

// SetLogChannel points moderation notifications at a channel.
// PUT /admin/tenants/:id/log-channel
func (h *TenantHandler) SetLogChannel(c *gin.Context) {
	tenantID, ok := tenantIDParam(c)
	if !ok {
		return
	}

	var req setLogChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.service.SetLogChannel(c.Request.Context(), tenantID, req.ChannelID); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "log channel configured", nil)
}

type setTierRequest struct {
	Tier string `json:"tier" binding:"required"`
}

// SetTier moves the tenant to another subscription tier.
// PUT /admin/tenants/:id/tier
func (h *TenantHandler) SetTier(c *gin.Context) {
	tenantID, ok := tenantIDParam(c)
	if !ok {
		return
	}

	var req setTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.service.SetTier(c.Request.Context(), tenantID, req.Tier); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "tier updated", nil)
}

// Usage reports the tenant's month-to-date consumption.
// GET /admin/tenants/:id/usage
func (h *TenantHandler) Usage(c *gin.Context) {
	tenantID, ok := tenantIDParam(c)
	if !ok {
		return
	}

	summary, err := h.stats.TenantUsage(c.Request.Context(), tenantID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{
		"tenant_id":       summary.TenantID,
		"tier":            summary.Tier.String(),
		"monthly_usage":   summary.MonthlyUsage,
		"character_limit": summary.CharacterLimit,
		"used_fraction":   summary.UsedFraction,
		"resets_at":       summary.ResetsAt,
		"languages":       summary.Languages,
	})
}

// Leaderboard ranks members by monthly usage.
// GET /admin/tenants/:id/leaderboard
func (h *TenantHandler) Leaderboard(c *gin.Context) {
	tenantID, ok := tenantIDParam(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	rows, err := h.stats.Leaderboard(c.Request.Context(), tenantID, limit)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", rows)
}

// Activity pages the tenant's relay ledger newest-first.
// GET /admin/tenants/:id/activity
func (h *TenantHandler) Activity(c *gin.Context) {
	tenantID, ok := tenantIDParam(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	entries, err := h.stats.RecentActivity(c.Request.Context(), tenantID, limit, offset)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	items := make([]gin.H, 0, len(entries))
	for _, e := range entries {
		items = append(items, gin.H{
			"user_id":          e.UserID(),
			"source_language":  e.SourceLanguage(),
			"target_languages": e.TargetLanguages(),
			"character_cost":   e.CharacterCost(),
			"created_at":       e.CreatedAt(),
		})
	}
	utils.SuccessResponse(c, http.StatusOK, "", items)
}

func tenantIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid tenant id")
		return 0, false
	}
	return uint(id), true
}
