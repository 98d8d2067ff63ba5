package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/dgarcoe/award-planner-sub000/internal/dto"
	"github.com/dgarcoe/award-planner-sub000/internal/service"
	"github.com/dgarcoe/award-planner-sub000/pkg/response"
)

// ChatHandler 聊天模块 HTTP 处理器
type ChatHandler struct {
	chatSvc service.ChatService
}

// NewChatHandler 创建 ChatHandler
func NewChatHandler(chatSvc service.ChatService) *ChatHandler {
	return &ChatHandler{chatSvc: chatSvc}
}

// Post 发送聊天消息（award_id 为空时发到全局聊天室）
// POST /api/v1/chat/messages
func (h *ChatHandler) Post(c *gin.Context) {
	callsign, ok := MustGetCallsign(c)
	if !ok {
		return
	}

	var req dto.PostChatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.chatSvc.PostMessage(c.Request.Context(), callsign, &req)
	if err != nil {
		if errors.Is(err, service.ErrAwardNotFound) {
			response.NotFound(c, 13002, "奖项不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.Created(c, result)
}

// History 聊天历史（按时间正序）
// GET /api/v1/chat/messages?award_id=&limit=
func (h *ChatHandler) History(c *gin.Context) {
	var req dto.ChatHistoryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.chatSvc.History(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

