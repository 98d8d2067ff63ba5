package dto

// ── 聊天模块 DTO ──

// PostChatMessageRequest 发送聊天消息请求
// AwardID 为空表示发到全局聊天室
type PostChatMessageRequest struct {
	AwardID *uint  `json:"award_id"`
	Message string `json:"message" binding:"required,min=1,max=1000"`
}

// ChatHistoryRequest 聊天历史查询参数
type ChatHistoryRequest struct {
	AwardID *uint `form:"award_id"`
	Limit   int   `form:"limit" binding:"omitempty,min=1,max=500"`
}

// ChatMessageResponse 聊天消息响应
type ChatMessageResponse struct {
	ID               uint   `json:"id"`
	AwardID          *uint  `json:"award_id,omitempty"`
	OperatorCallsign string `json:"operator_callsign"`
	Message          string `json:"message"`
	Source           string `json:"source"`
	CreatedAt        string `json:"created_at"`
}
