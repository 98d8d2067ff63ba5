package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/dgarcoe/award-planner-sub000/internal/dto"
	"github.com/dgarcoe/award-planner-sub000/internal/service"
	"github.com/dgarcoe/award-planner-sub000/pkg/response"
)

// AnnouncementHandler 公告模块 HTTP 处理器
type AnnouncementHandler struct {
	annSvc service.AnnouncementService
}

// NewAnnouncementHandler 创建 AnnouncementHandler
func NewAnnouncementHandler(annSvc service.AnnouncementService) *AnnouncementHandler {
	return &AnnouncementHandler{annSvc: annSvc}
}

// Create 发布公告（管理员）
// POST /api/v1/announcements
func (h *AnnouncementHandler) Create(c *gin.Context) {
	callsign, ok := MustGetCallsign(c)
	if !ok {
		return
	}

	var req dto.CreateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.annSvc.Create(c.Request.Context(), callsign, &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.Created(c, result)
}

// List 公告列表
// 普通视图返回启用中的公告并附带已读标记；
// 管理员可加 ?all=true 查看全部公告
// GET /api/v1/announcements
func (h *AnnouncementHandler) List(c *gin.Context) {
	callsign, ok := MustGetCallsign(c)
	if !ok {
		return
	}

	includeInactive := c.Query("all") == "true" && GetIsAdmin(c)

	result, err := h.annSvc.List(c.Request.Context(), callsign, includeInactive)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// ToggleActive 切换公告启用状态（管理员）
// PUT /api/v1/announcements/:id/toggle
func (h *AnnouncementHandler) ToggleActive(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	active, err := h.annSvc.ToggleActive(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrAnnouncementNotFound) {
			response.NotFound(c, 15001, "公告不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"is_active": active})
}

// Delete 删除公告（管理员）
// DELETE /api/v1/announcements/:id
func (h *AnnouncementHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.annSvc.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrAnnouncementNotFound) {
			response.NotFound(c, 15001, "公告不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}

// MarkRead 标记单条公告已读
// POST /api/v1/announcements/:id/read
func (h *AnnouncementHandler) MarkRead(c *gin.Context) {
	callsign, ok := MustGetCallsign(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.annSvc.MarkRead(c.Request.Context(), id, callsign); err != nil {
		if errors.Is(err, service.ErrAnnouncementNotFound) {
			response.NotFound(c, 15001, "公告不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}

// MarkAllRead 标记全部公告已读
// POST /api/v1/announcements/read-all
func (h *AnnouncementHandler) MarkAllRead(c *gin.Context) {
	callsign, ok := MustGetCallsign(c)
	if !ok {
		return
	}

	marked, err := h.annSvc.MarkAllRead(c.Request.Context(), callsign)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"marked": marked})
}

// UnreadCount 未读公告数量
// GET /api/v1/announcements/unread-count
func (h *AnnouncementHandler) UnreadCount(c *gin.Context) {
	callsign, ok := MustGetCallsign(c)
	if !ok {
		return
	}

	result, err := h.annSvc.UnreadCount(c.Request.Context(), callsign)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

