package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/finwell/riskplatform/internal/riskprofile/application"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/response"
)

// HTTP 处理器
// 负责处理与风险画像相关的 HTTP 请求
type ProfileHandler struct {
	command *application.ProfileCommandService // 画像命令服务
	query   *application.ProfileQueryService   // 画像查询服务
}

// 创建 HTTP 处理器实例
func NewProfileHandler(command *application.ProfileCommandService, query *application.ProfileQueryService) *ProfileHandler {
	return &ProfileHandler{command: command, query: query}
}

// 注册路由
// 将处理器方法绑定到 Gin 路由引擎
func (h *ProfileHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/v1/riskprofiles")
	{
		api.POST("", h.OnboardCustomer)
		api.GET("/stale", h.ListStaleProfiles)
		api.GET("/:customer_id", h.GetProfile)
		api.DELETE("/:customer_id", h.EraseCustomer)
		api.POST("/:customer_id/assessments", h.RecordAssessment)
		api.POST("/:customer_id/category/refresh", h.RefreshCategory)
		api.GET("/:customer_id/reassessment", h.RequiresReassessment)
		api.GET("/:customer_id/scores/latest", h.LatestScore)
	}
}

// OnboardCustomer 开户建档
func (h *ProfileHandler) OnboardCustomer(c *gin.Context) {
	var req struct {
		CustomerID string `json:"customer_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	dto, err := h.command.OnboardCustomer(c.Request.Context(), application.OnboardCustomerCommand{CustomerID: req.CustomerID})
	if err != nil {
		h.fail(c, "failed to onboard customer", err)
		return
	}
	response.Success(c, dto)
}

// GetProfile 查询画像
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	dto, err := h.query.GetProfile(c.Request.Context(), c.Param("customer_id"))
	if err != nil {
		h.fail(c, "failed to get profile", err)
		return
	}
	response.Success(c, dto)
}

// RecordAssessment 记录一次评估
func (h *ProfileHandler) RecordAssessment(c *gin.Context) {
	var req struct {
		Score      string `json:"score" binding:"required"`
		AssessedAt int64  `json:"assessed_at"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	dto, err := h.command.RecordAssessment(c.Request.Context(), application.RecordAssessmentCommand{
		CustomerID: c.Param("customer_id"),
		Score:      req.Score,
		AssessedAt: req.AssessedAt,
	})
	if err != nil {
		h.fail(c, "failed to record assessment", err)
		return
	}
	response.Success(c, dto)
}

// RefreshCategory 按当前评分修复风险类别
func (h *ProfileHandler) RefreshCategory(c *gin.Context) {
	dto, err := h.command.RefreshCategory(c.Request.Context(), c.Param("customer_id"))
	if err != nil {
		h.fail(c, "failed to refresh category", err)
		return
	}
	response.Success(c, dto)
}

// RequiresReassessment 查询重评判定
func (h *ProfileHandler) RequiresReassessment(c *gin.Context) {
	dto, err := h.query.RequiresReassessment(c.Request.Context(), c.Param("customer_id"))
	if err != nil {
		h.fail(c, "failed to evaluate reassessment", err)
		return
	}
	response.Success(c, dto)
}

// LatestScore 查询最近一次历史评分
func (h *ProfileHandler) LatestScore(c *gin.Context) {
	dto, err := h.query.LatestScore(c.Request.Context(), c.Param("customer_id"))
	if err != nil {
		h.fail(c, "failed to get latest score", err)
		return
	}
	if dto == nil {
		response.ErrorWithStatus(c, http.StatusNotFound, "no assessment history", "")
		return
	}
	response.Success(c, dto)
}

// ListStaleProfiles 分页列出到期待重评画像
func (h *ProfileHandler) ListStaleProfiles(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid limit", "")
		return
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid offset", "")
		return
	}

	dtos, err := h.query.ListStaleProfiles(c.Request.Context(), limit, offset)
	if err != nil {
		h.fail(c, "failed to list stale profiles", err)
		return
	}
	response.Success(c, dtos)
}

// EraseCustomer 监管删除权
func (h *ProfileHandler) EraseCustomer(c *gin.Context) {
	customerID := c.Param("customer_id")
	if err := h.command.EraseCustomer(c.Request.Context(), customerID); err != nil {
		h.fail(c, "failed to erase customer", err)
		return
	}
	response.Success(c, gin.H{"customer_id": customerID, "erased": true})
}

func (h *ProfileHandler) fail(c *gin.Context, msg string, err error) {
	switch {
	case errors.Is(err, application.ErrProfileNotFound):
		response.ErrorWithStatus(c, http.StatusNotFound, err.Error(), "")
	case errors.Is(err, application.ErrProfileExists):
		response.ErrorWithStatus(c, http.StatusConflict, err.Error(), "")
	case errors.Is(err, application.ErrInvalidScore), errors.Is(err, application.ErrInvalidProfile):
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
	default:
		logging.Error(c.Request.Context(), msg, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
	}
}
