package model

import "time"

// 消息来源
const (
	ChatSourceApp    = "app"
	ChatSourceSystem = "system"
)

// SystemCallsign 系统事件消息的发送者标识
const SystemCallsign = "SYSTEM"

// ChatMessage 聊天消息表 — 对应 chat_messages
// AwardID 为 nil 表示全局聊天室
type ChatMessage struct {
	ID               uint      `gorm:"primaryKey"                         json:"id"`
	AwardID          *uint     `gorm:"index:idx_chat_messages_award"      json:"award_id,omitempty"`
	OperatorCallsign string    `gorm:"type:text;not null"                 json:"operator_callsign"`
	Message          string    `gorm:"type:text;not null"                 json:"message"`
	Source           string    `gorm:"type:text;not null;default:'app'"   json:"source"`
	CreatedAt        time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;index:idx_chat_messages_award" json:"created_at"`
}

// TableName 指定表名
func (ChatMessage) TableName() string { return "chat_messages" }
