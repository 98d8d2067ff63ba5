package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/dgarcoe/award-planner-sub000/internal/dto"
	"github.com/dgarcoe/award-planner-sub000/internal/service"
	"github.com/dgarcoe/award-planner-sub000/pkg/response"
)

// OperatorHandler 操作员管理模块 HTTP 处理器（均为管理员接口）
type OperatorHandler struct {
	operatorSvc service.OperatorService
}

// NewOperatorHandler 创建 OperatorHandler
func NewOperatorHandler(operatorSvc service.OperatorService) *OperatorHandler {
	return &OperatorHandler{operatorSvc: operatorSvc}
}

// Create 创建操作员
// POST /api/v1/operators
func (h *OperatorHandler) Create(c *gin.Context) {
	var req dto.CreateOperatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.operatorSvc.Create(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCallsignTaken):
			response.Conflict(c, 12001, "该呼号已注册")
		case errors.Is(err, service.ErrPasswordTooShort):
			response.BadRequest(c, 11004, "密码长度不足")
		default:
			response.InternalError(c)
		}
		return
	}

	response.Created(c, result)
}

// List 操作员列表
// GET /api/v1/operators
func (h *OperatorHandler) List(c *gin.Context) {
	result, err := h.operatorSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// Get 单个操作员信息
// GET /api/v1/operators/:callsign
func (h *OperatorHandler) Get(c *gin.Context) {
	result, err := h.operatorSvc.Get(c.Request.Context(), c.Param("callsign"))
	if err != nil {
		if errors.Is(err, service.ErrOperatorNotFound) {
			response.NotFound(c, 12002, "操作员不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// SetAdmin 设置/撤销管理员权限
// PUT /api/v1/operators/:callsign/admin
func (h *OperatorHandler) SetAdmin(c *gin.Context) {
	var req struct {
		IsAdmin *bool `json:"is_admin" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.operatorSvc.SetAdmin(c.Request.Context(), c.Param("callsign"), *req.IsAdmin); err != nil {
		if errors.Is(err, service.ErrOperatorNotFound) {
			response.NotFound(c, 12002, "操作员不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}

// ResetPassword 重置操作员密码
// PUT /api/v1/operators/:callsign/password
func (h *OperatorHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.operatorSvc.ResetPassword(c.Request.Context(), c.Param("callsign"), &req); err != nil {
		switch {
		case errors.Is(err, service.ErrOperatorNotFound):
			response.NotFound(c, 12002, "操作员不存在")
		case errors.Is(err, service.ErrPasswordTooShort):
			response.BadRequest(c, 11004, "密码长度不足")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, nil)
}

// Delete 删除操作员并释放其全部锁定
// DELETE /api/v1/operators/:callsign
func (h *OperatorHandler) Delete(c *gin.Context) {
	result, err := h.operatorSvc.Delete(c.Request.Context(), c.Param("callsign"))
	if err != nil {
		if errors.Is(err, service.ErrOperatorNotFound) {
			response.NotFound(c, 12002, "操作员不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

