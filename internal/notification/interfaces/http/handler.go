package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/finwell/riskplatform/internal/notification/application"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/response"
)

// HTTP 处理器
// 负责处理与通知相关的 HTTP 请求
type NotificationHandler struct {
	command *application.NotificationCommandService // 通知命令服务
	query   *application.NotificationQueryService   // 通知查询服务
}

// 创建 HTTP 处理器实例
func NewNotificationHandler(command *application.NotificationCommandService, query *application.NotificationQueryService) *NotificationHandler {
	return &NotificationHandler{command: command, query: query}
}

// 注册路由
func (h *NotificationHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/v1/notifications")
	{
		api.GET("", h.ListNotifications)
		api.POST("/:notification_id/read", h.MarkRead)
	}
}

// ListNotifications 分页查询客户通知
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	customerID := c.Query("customer_id")
	if customerID == "" {
		response.ErrorWithStatus(c, http.StatusBadRequest, "customer_id is required", "")
		return
	}

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

	dtos, err := h.query.ListByCustomer(c.Request.Context(), customerID, c.Query("status"), limit, offset)
	if err != nil {
		logging.Error(c.Request.Context(), "Failed to list notifications", "customer_id", customerID, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}
	response.Success(c, dtos)
}

// MarkRead 标记通知已读
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	dto, err := h.command.MarkRead(c.Request.Context(), c.Param("notification_id"))
	if err != nil {
		if errors.Is(err, application.ErrNotificationNotFound) {
			response.ErrorWithStatus(c, http.StatusNotFound, err.Error(), "")
			return
		}
		logging.Error(c.Request.Context(), "Failed to mark notification read", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}
	response.Success(c, dto)
}
