package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dgarcoe/award-planner-sub000/internal/dto"
	"github.com/dgarcoe/award-planner-sub000/internal/repository"
)

// 功能开关键名，值 "1" 表示启用
const (
	SettingAnnouncementsEnabled = "feature.announcements"
	SettingChatEnabled          = "feature.chat"
)

// SettingService 应用设置业务接口
type SettingService interface {
	// FeatureFlags 返回功能可见性开关，未设置的键默认为启用
	FeatureFlags(ctx context.Context) (*dto.FeatureFlagsResponse, error)
	List(ctx context.Context) (map[string]string, error)
	Set(ctx context.Context, req *dto.UpdateSettingRequest) error
}

type settingService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSettingService 创建 SettingService 实例
func NewSettingService(repo *repository.Repository, logger *zap.Logger) SettingService {
	return &settingService{repo: repo, logger: logger}
}

func (s *settingService) FeatureFlags(ctx context.Context) (*dto.FeatureFlagsResponse, error) {
	announcements, err := s.enabled(ctx, SettingAnnouncementsEnabled)
	if err != nil {
		return nil, err
	}
	chat, err := s.enabled(ctx, SettingChatEnabled)
	if err != nil {
		return nil, err
	}
	return &dto.FeatureFlagsResponse{
		Announcements: announcements,
		Chat:          chat,
	}, nil
}

func (s *settingService) List(ctx context.Context) (map[string]string, error) {
	settings, err := s.repo.Setting.List(ctx)
	if err != nil {
		s.logger.Error("查询设置失败", zap.Error(err))
		return nil, err
	}
	result := make(map[string]string, len(settings))
	for _, setting := range settings {
		result[setting.Key] = setting.Value
	}
	return result, nil
}

func (s *settingService) Set(ctx context.Context, req *dto.UpdateSettingRequest) error {
	if err := s.repo.Setting.Set(ctx, req.Key, req.Value); err != nil {
		s.logger.Error("写入设置失败", zap.String("key", req.Key), zap.Error(err))
		return err
	}
	s.logger.Info("设置已更新", zap.String("key", req.Key), zap.String("value", req.Value))
	return nil
}

func (s *settingService) enabled(ctx context.Context, key string) (bool, error) {
	setting, err := s.repo.Setting.Get(ctx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return true, nil
		}
		return false, err
	}
	return setting.Value == "1", nil
}

