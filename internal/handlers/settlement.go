// internal/handlers/settlement.go
package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dungeun/video-platform-sub018/internal/i18n"
	"github.com/dungeun/video-platform-sub018/internal/services"
	"github.com/dungeun/video-platform-sub018/internal/utils"
)

type SettlementHandler struct {
	settlementService *services.SettlementService
	revenueService    *services.RevenueService
}

func NewSettlementHandler(settlementService *services.SettlementService, revenueService *services.RevenueService) *SettlementHandler {
	return &SettlementHandler{
		settlementService: settlementService,
		revenueService:    revenueService,
	}
}

// POST /settlements
func (h *SettlementHandler) RequestSettlement(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.RequestSettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	settlement, err := h.settlementService.RequestSettlement(userID, &req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":    i18n.T(lang, i18n.KeySettlementRequested),
		"settlement": settlement,
	})
}

// POST /admin/settlements/:id/process
func (h *SettlementHandler) ProcessSettlement(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	adminID, ok := currentUserID(c)
	if !ok {
		return
	}

	settlementID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid settlement ID", nil)
		return
	}

	var req services.ProcessSettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	settlement, err := h.settlementService.ProcessSettlement(adminID, settlementID, &req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":    i18n.T(lang, i18n.KeySettlementProcessed),
		"settlement": settlement,
	})
}

// POST /admin/settlements/:id/paid
func (h *SettlementHandler) MarkPaid(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	adminID, ok := currentUserID(c)
	if !ok {
		return
	}

	settlementID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid settlement ID", nil)
		return
	}

	settlement, err := h.settlementService.MarkPaid(adminID, settlementID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":    i18n.T(lang, i18n.KeySettlementPaid),
		"settlement": settlement,
	})
}

// GET /settlements/:id
func (h *SettlementHandler) GetSettlement(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	settlementID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid settlement ID", nil)
		return
	}

	settlement, err := h.settlementService.GetSettlement(userID, settlementID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, settlement)
}

// GET /settlements
func (h *SettlementHandler) ListSettlements(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)

	settlements, total, err := h.settlementService.ListSettlements(&userID, params)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	result := utils.CreatePaginationResult(settlements, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /admin/settlements
func (h *SettlementHandler) ListAllSettlements(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	settlements, total, err := h.settlementService.ListSettlements(nil, params)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	result := utils.CreatePaginationResult(settlements, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /revenues/summary
func (h *SettlementHandler) GetRevenueSummary(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	now := time.Now()
	year, month := now.Year(), int(now.Month())
	if yearStr := c.Query("year"); yearStr != "" {
		if y, err := strconv.Atoi(yearStr); err == nil {
			year = y
		}
	}
	if monthStr := c.Query("month"); monthStr != "" {
		if m, err := strconv.Atoi(monthStr); err == nil {
			month = m
		}
	}

	summary, err := h.revenueService.GetMonthlySummary(&userID, year, month)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, summary)
}
