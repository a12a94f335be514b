package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"vibho-hcm/backend/internal/dto"
	"vibho-hcm/backend/internal/service"
	"vibho-hcm/backend/pkg/response"
)

// NotificationHandler 通知模块 HTTP 处理器
type NotificationHandler struct {
	notificationSvc service.NotificationService
}

// NewNotificationHandler 创建 NotificationHandler
func NewNotificationHandler(notificationSvc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationSvc: notificationSvc}
}

// List 当前用户的通知列表
// GET /api/v1/notifications?unread_only=true&page=1&page_size=20
func (h *NotificationHandler) List(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var q dto.ListNotificationsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.notificationSvc.List(c.Request.Context(), userID, &q)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OKPage(c, list, total, q.Page, q.PageSize)
}

// MarkRead 标记通知为已读
// PUT /api/v1/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.notificationSvc.MarkRead(c.Request.Context(), userID, c.Param("id")); err != nil {
		switch {
		case errors.Is(err, service.ErrNotificationNotFound):
			response.NotFound(c, 19001, "通知不存在")
		case errors.Is(err, service.ErrNotificationNotOwner):
			response.Forbidden(c, 19002, "只能操作本人的通知")
		default:
			response.InternalError(c)
		}
		return
	}
	response.OK(c, nil)
}

// MarkAllRead 全部标记为已读
// PUT /api/v1/notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.notificationSvc.MarkAllRead(c.Request.Context(), userID); err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, nil)
}
