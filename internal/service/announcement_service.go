package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dgarcoe/award-planner-sub000/internal/dto"
	"github.com/dgarcoe/award-planner-sub000/internal/model"
	"github.com/dgarcoe/award-planner-sub000/internal/repository"
)

var ErrAnnouncementNotFound = errors.New("公告不存在")

// AnnouncementService 公告业务接口
type AnnouncementService interface {
	Create(ctx context.Context, createdBy string, req *dto.CreateAnnouncementRequest) (*dto.AnnouncementResponse, error)
	// List 返回启用中的公告，附带 callsign 视角的已读标记。
	// includeInactive 为 true（管理员视图）时返回全部公告，不带已读标记
	List(ctx context.Context, callsign string, includeInactive bool) ([]dto.AnnouncementResponse, error)
	ToggleActive(ctx context.Context, id uint) (bool, error)
	Delete(ctx context.Context, id uint) error
	MarkRead(ctx context.Context, id uint, callsign string) error
	MarkAllRead(ctx context.Context, callsign string) (int64, error)
	UnreadCount(ctx context.Context, callsign string) (*dto.UnreadCountResponse, error)
}

type announcementService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAnnouncementService 创建 AnnouncementService 实例
func NewAnnouncementService(repo *repository.Repository, logger *zap.Logger) AnnouncementService {
	return &announcementService{repo: repo, logger: logger}
}

func (s *announcementService) Create(ctx context.Context, createdBy string, req *dto.CreateAnnouncementRequest) (*dto.AnnouncementResponse, error) {
	announcement := &model.Announcement{
		Title:     req.Title,
		Content:   req.Content,
		CreatedBy: createdBy,
		IsActive:  true,
	}
	if err := s.repo.Announcement.Create(ctx, announcement); err != nil {
		s.logger.Error("创建公告失败", zap.Error(err))
		return nil, err
	}
	s.logger.Info("公告已发布", zap.Uint("id", announcement.ID), zap.String("created_by", createdBy))
	return s.toAnnouncementResponse(announcement, nil), nil
}

func (s *announcementService) List(ctx context.Context, callsign string, includeInactive bool) ([]dto.AnnouncementResponse, error) {
	if includeInactive {
		announcements, err := s.repo.Announcement.List(ctx, true)
		if err != nil {
			s.logger.Error("查询公告列表失败", zap.Error(err))
			return nil, err
		}
		result := make([]dto.AnnouncementResponse, 0, len(announcements))
		for i := range announcements {
			result = append(result, *s.toAnnouncementResponse(&announcements[i], nil))
		}
		return result, nil
	}

	withRead, err := s.repo.Announcement.ListWithReadStatus(ctx, callsign)
	if err != nil {
		s.logger.Error("查询公告列表失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.AnnouncementResponse, 0, len(withRead))
	for i := range withRead {
		isRead := withRead[i].IsRead
		result = append(result, *s.toAnnouncementResponse(&withRead[i].Announcement, &isRead))
	}
	return result, nil
}

func (s *announcementService) ToggleActive(ctx context.Context, id uint) (bool, error) {
	announcement, err := s.repo.Announcement.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrAnnouncementNotFound
		}
		return false, err
	}

	newState := !announcement.IsActive
	if err := s.repo.Announcement.SetActive(ctx, id, newState); err != nil {
		s.logger.Error("切换公告状态失败", zap.Uint("id", id), zap.Error(err))
		return false, err
	}
	return newState, nil
}

func (s *announcementService) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.Announcement.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAnnouncementNotFound
		}
		return err
	}
	if err := s.repo.Announcement.Delete(ctx, id); err != nil {
		s.logger.Error("删除公告失败", zap.Uint("id", id), zap.Error(err))
		return err
	}
	s.logger.Info("公告已删除", zap.Uint("id", id))
	return nil
}

func (s *announcementService) MarkRead(ctx context.Context, id uint, callsign string) error {
	if _, err := s.repo.Announcement.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAnnouncementNotFound
		}
		return err
	}
	return s.repo.Announcement.MarkRead(ctx, id, callsign)
}

func (s *announcementService) MarkAllRead(ctx context.Context, callsign string) (int64, error) {
	count, err := s.repo.Announcement.MarkAllRead(ctx, callsign)
	if err != nil {
		s.logger.Error("全部标记已读失败", zap.String("callsign", callsign), zap.Error(err))
		return 0, err
	}
	return count, nil
}

func (s *announcementService) UnreadCount(ctx context.Context, callsign string) (*dto.UnreadCountResponse, error) {
	count, err := s.repo.Announcement.UnreadCount(ctx, callsign)
	if err != nil {
		s.logger.Error("查询未读数量失败", zap.String("callsign", callsign), zap.Error(err))
		return nil, err
	}
	return &dto.UnreadCountResponse{Count: count}, nil
}

func (s *announcementService) toAnnouncementResponse(a *model.Announcement, isRead *bool) *dto.AnnouncementResponse {
	return &dto.AnnouncementResponse{
		ID:        a.ID,
		Title:     a.Title,
		Content:   a.Content,
		CreatedBy: a.CreatedBy,
		IsActive:  a.IsActive,
		IsRead:    isRead,
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
	}
}

