package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/dgarcoe/award-planner-sub000/internal/dto"
	"github.com/dgarcoe/award-planner-sub000/internal/service"
	"github.com/dgarcoe/award-planner-sub000/pkg/response"
)

// SettingHandler 应用设置模块 HTTP 处理器
type SettingHandler struct {
	settingSvc service.SettingService
}

// NewSettingHandler 创建 SettingHandler
func NewSettingHandler(settingSvc service.SettingService) *SettingHandler {
	return &SettingHandler{settingSvc: settingSvc}
}

// FeatureFlags 功能可见性开关（全体操作员可见）
// GET /api/v1/settings/features
func (h *SettingHandler) FeatureFlags(c *gin.Context) {
	result, err := h.settingSvc.FeatureFlags(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// List 全部设置项（管理员）
// GET /api/v1/settings
func (h *SettingHandler) List(c *gin.Context) {
	result, err := h.settingSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// Set 写入设置项（管理员，upsert）
// PUT /api/v1/settings
func (h *SettingHandler) Set(c *gin.Context) {
	var req dto.UpdateSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.settingSvc.Set(c.Request.Context(), &req); err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}

