package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/dgarcoe/award-planner-sub000/internal/model"
)

// ChatRepository 聊天消息数据访问接口
type ChatRepository interface {
	Create(ctx context.Context, message *model.ChatMessage) error
	// History 返回某聊天室最近 limit 条消息，按时间正序。
	// awardID 为 nil 表示全局聊天室
	History(ctx context.Context, awardID *uint, limit int) ([]model.ChatMessage, error)
}

// chatRepo ChatRepository 的 GORM 实现
type chatRepo struct {
	db *gorm.DB
}

// NewChatRepo 创建 ChatRepository 实例
func NewChatRepo(db *gorm.DB) ChatRepository {
	return &chatRepo{db: db}
}

func (r *chatRepo) Create(ctx context.Context, message *model.ChatMessage) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *chatRepo) History(ctx context.Context, awardID *uint, limit int) ([]model.ChatMessage, error) {
	var messages []model.ChatMessage
	db := r.db.WithContext(ctx)
	if awardID != nil {
		db = db.Where("award_id = ?", *awardID)
	} else {
		db = db.Where("award_id IS NULL")
	}
	// 先倒序取最近 limit 条，再翻回正序
	err := db.Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

