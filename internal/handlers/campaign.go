// internal/handlers/campaign.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dungeun/video-platform-sub018/internal/i18n"
	"github.com/dungeun/video-platform-sub018/internal/models"
	"github.com/dungeun/video-platform-sub018/internal/services"
	"github.com/dungeun/video-platform-sub018/internal/utils"
)

type CampaignHandler struct {
	campaignService *services.CampaignService
}

func NewCampaignHandler(campaignService *services.CampaignService) *CampaignHandler {
	return &CampaignHandler{
		campaignService: campaignService,
	}
}

// POST /campaigns
func (h *CampaignHandler) CreateCampaign(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	campaign, err := h.campaignService.CreateCampaign(userID, &req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeyCampaignCreated),
		"campaign": campaign,
	})
}

// PUT /campaigns/:id
func (h *CampaignHandler) UpdateCampaign(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	campaignID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid campaign ID", nil)
		return
	}

	var req services.UpdateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	campaign, err := h.campaignService.UpdateCampaign(userID, campaignID, &req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeyCampaignUpdated),
		"campaign": campaign,
	})
}

// POST /campaigns/:id/submit
func (h *CampaignHandler) SubmitCampaign(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	campaignID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid campaign ID", nil)
		return
	}

	campaign, err := h.campaignService.SubmitCampaign(userID, campaignID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeyCampaignSubmitted),
		"campaign": campaign,
	})
}

// POST /admin/campaigns/:id/review
func (h *CampaignHandler) ReviewCampaign(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	adminID, ok := currentUserID(c)
	if !ok {
		return
	}

	campaignID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid campaign ID", nil)
		return
	}

	var req services.ReviewCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	campaign, err := h.campaignService.ReviewCampaign(adminID, campaignID, &req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeyCampaignReviewed),
		"campaign": campaign,
	})
}

// PATCH /campaigns/:id/status
func (h *CampaignHandler) UpdateStatus(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	campaignID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid campaign ID", nil)
		return
	}

	var req struct {
		Status models.CampaignStatus `json:"status" validate:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	campaign, err := h.campaignService.UpdateStatus(userID, campaignID, req.Status)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeyCampaignUpdated),
		"campaign": campaign,
	})
}

// GET /campaigns/:id
func (h *CampaignHandler) GetCampaign(c *gin.Context) {
	campaignID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid campaign ID", nil)
		return
	}

	campaign, err := h.campaignService.GetCampaign(campaignID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, campaign)
}

// GET /campaigns
func (h *CampaignHandler) SearchCampaigns(c *gin.Context) {
	params := services.CampaignSearchParams{
		PaginationParams: utils.GetPaginationParams(c),
	}

	if businessIDStr := c.Query("business_id"); businessIDStr != "" {
		if businessID, err := uuid.Parse(businessIDStr); err == nil {
			params.BusinessID = &businessID
		}
	}
	if statusStr := c.Query("status"); statusStr != "" {
		status := models.CampaignStatus(statusStr)
		params.Status = &status
	}

	campaigns, total, err := h.campaignService.SearchCampaigns(params)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	result := utils.CreatePaginationResult(campaigns, total, params.PaginationParams)
	utils.PaginatedResponse(c, result)
}
