package handler

import (
	"errors"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dgarcoe/award-planner-sub000/internal/dto"
	"github.com/dgarcoe/award-planner-sub000/internal/service"
	"github.com/dgarcoe/award-planner-sub000/pkg/response"
)

// AwardHandler 奖项模块 HTTP 处理器
type AwardHandler struct {
	awardSvc service.AwardService
}

// NewAwardHandler 创建 AwardHandler
func NewAwardHandler(awardSvc service.AwardService) *AwardHandler {
	return &AwardHandler{awardSvc: awardSvc}
}

func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.BadRequest(c, 10001, "无效的 ID")
		return 0, false
	}
	return uint(id), true
}

// Create 创建奖项
// POST /api/v1/awards
func (h *AwardHandler) Create(c *gin.Context) {
	var req dto.CreateAwardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.awardSvc.Create(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrAwardNameTaken) {
			response.Conflict(c, 13001, "奖项名称已存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.Created(c, result)
}

// List 奖项列表
// GET /api/v1/awards?active_only=true
func (h *AwardHandler) List(c *gin.Context) {
	activeOnly := c.Query("active_only") == "true"

	result, err := h.awardSvc.List(c.Request.Context(), activeOnly)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// Get 单个奖项详情
// GET /api/v1/awards/:id
func (h *AwardHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	result, err := h.awardSvc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrAwardNotFound) {
			response.NotFound(c, 13002, "奖项不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// Update 更新奖项信息
// PUT /api/v1/awards/:id
func (h *AwardHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req dto.UpdateAwardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.awardSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAwardNotFound):
			response.NotFound(c, 13002, "奖项不存在")
		case errors.Is(err, service.ErrAwardNameTaken):
			response.Conflict(c, 13001, "奖项名称已存在")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}

// ToggleActive 切换奖项启用状态
// PUT /api/v1/awards/:id/toggle
func (h *AwardHandler) ToggleActive(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	active, err := h.awardSvc.ToggleActive(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrAwardNotFound) {
			response.NotFound(c, 13002, "奖项不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"is_active": active})
}

// UploadImage 上传奖品图片（multipart 表单字段 image）
// POST /api/v1/awards/:id/image
func (h *AwardHandler) UploadImage(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		response.BadRequest(c, 10001, "缺少图片文件")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		response.InternalError(c)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		response.InternalError(c)
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if err := h.awardSvc.UploadImage(c.Request.Context(), id, data, contentType); err != nil {
		switch {
		case errors.Is(err, service.ErrAwardNotFound):
			response.NotFound(c, 13002, "奖项不存在")
		case errors.Is(err, service.ErrImageTooLarge):
			response.BadRequest(c, 13003, "图片超过大小限制")
		case errors.Is(err, service.ErrImageUnsupported):
			response.BadRequest(c, 13004, "不支持的图片格式")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, nil)
}

// GetImage 下载奖品图片
// GET /api/v1/awards/:id/image
func (h *AwardHandler) GetImage(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	data, contentType, err := h.awardSvc.GetImage(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAwardNotFound):
			response.NotFound(c, 13002, "奖项不存在")
		case errors.Is(err, service.ErrAwardNoImage):
			response.NotFound(c, 13005, "该奖项未上传图片")
		default:
			response.InternalError(c)
		}
		return
	}

	c.Data(200, contentType, data)
}

// Delete 删除奖项并级联清理
// DELETE /api/v1/awards/:id
func (h *AwardHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	result, err := h.awardSvc.Delete(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrAwardNotFound) {
			response.NotFound(c, 13002, "奖项不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// Calendar 导出全部启用奖项的 iCalendar 日历
// GET /api/v1/awards/calendar.ics
func (h *AwardHandler) Calendar(c *gin.Context) {
	content, err := h.awardSvc.CalendarICS(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="awards.ics"`)
	c.Data(200, "text/calendar; charset=utf-8", []byte(content))
}

