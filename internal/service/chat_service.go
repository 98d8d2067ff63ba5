package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dgarcoe/award-planner-sub000/internal/dto"
	"github.com/dgarcoe/award-planner-sub000/internal/model"
	"github.com/dgarcoe/award-planner-sub000/internal/repository"
	"github.com/dgarcoe/award-planner-sub000/pkg/redis"
)

const defaultHistoryLimit = 100

// ChatService 聊天业务接口
// 每个奖项有独立聊天室，award_id 为空表示全局聊天室
type ChatService interface {
	PostMessage(ctx context.Context, callsign string, req *dto.PostChatMessageRequest) (*dto.ChatMessageResponse, error)
	History(ctx context.Context, req *dto.ChatHistoryRequest) ([]dto.ChatMessageResponse, error)
	// PostSystemEvent 写入一条系统事件消息并广播。
	// 尽力而为：持久化或广播失败只记日志，不影响调用方
	PostSystemEvent(ctx context.Context, awardID *uint, message string)
}

type chatService struct {
	repo   *repository.Repository
	rdb    *redis.Client
	logger *zap.Logger
}

// NewChatService 创建 ChatService 实例
// rdb 可为 nil（不广播，仅持久化）
func NewChatService(repo *repository.Repository, rdb *redis.Client, logger *zap.Logger) ChatService {
	return &chatService{repo: repo, rdb: rdb, logger: logger}
}

func (s *chatService) PostMessage(ctx context.Context, callsign string, req *dto.PostChatMessageRequest) (*dto.ChatMessageResponse, error) {
	if req.AwardID != nil {
		if _, err := s.repo.Award.GetByID(ctx, *req.AwardID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrAwardNotFound
			}
			return nil, err
		}
	}

	message := &model.ChatMessage{
		AwardID:          req.AwardID,
		OperatorCallsign: callsign,
		Message:          req.Message,
		Source:           model.ChatSourceApp,
	}
	if err := s.repo.Chat.Create(ctx, message); err != nil {
		s.logger.Error("写入聊天消息失败", zap.Error(err))
		return nil, err
	}

	resp := s.toChatMessageResponse(message)
	s.publish(ctx, req.AwardID, resp)
	return resp, nil
}

func (s *chatService) History(ctx context.Context, req *dto.ChatHistoryRequest) ([]dto.ChatMessageResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	messages, err := s.repo.Chat.History(ctx, req.AwardID, limit)
	if err != nil {
		s.logger.Error("查询聊天历史失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.ChatMessageResponse, 0, len(messages))
	for i := range messages {
		result = append(result, *s.toChatMessageResponse(&messages[i]))
	}
	return result, nil
}

func (s *chatService) PostSystemEvent(ctx context.Context, awardID *uint, text string) {
	message := &model.ChatMessage{
		AwardID:          awardID,
		OperatorCallsign: model.SystemCallsign,
		Message:          text,
		Source:           model.ChatSourceSystem,
	}
	if err := s.repo.Chat.Create(ctx, message); err != nil {
		s.logger.Warn("写入系统事件失败", zap.String("message", text), zap.Error(err))
		return
	}
	s.publish(ctx, awardID, s.toChatMessageResponse(message))
}

// publish 将消息推到对应 Redis 频道，在线客户端经 SSE/WS 网关订阅
func (s *chatService) publish(ctx context.Context, awardID *uint, resp *dto.ChatMessageResponse) {
	if s.rdb == nil {
		return
	}
	channel := "chat:global"
	if awardID != nil {
		channel = fmt.Sprintf("chat:award:%d", *awardID)
	}
	payload, err := json.Marshal(resp)
	if err != nil {
		s.logger.Warn("序列化聊天消息失败", zap.Error(err))
		return
	}
	if err := s.rdb.Publish(ctx, channel, payload); err != nil {
		s.logger.Warn("广播聊天消息失败", zap.String("channel", channel), zap.Error(err))
	}
}

func (s *chatService) toChatMessageResponse(m *model.ChatMessage) *dto.ChatMessageResponse {
	return &dto.ChatMessageResponse{
		ID:               m.ID,
		AwardID:          m.AwardID,
		OperatorCallsign: m.OperatorCallsign,
		Message:          m.Message,
		Source:           m.Source,
		CreatedAt:        m.CreatedAt.Format(time.RFC3339),
	}
}

