package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dgarcoe/award-planner-sub000/internal/model"
	"github.com/dgarcoe/award-planner-sub000/internal/repository"
	"github.com/dgarcoe/award-planner-sub000/pkg/adif"
)

// ExportService 日志导出业务接口
type ExportService interface {
	// ExportADIF 导出某奖项全部 QSO 为 ADIF 3.x，返回 (文件名, 内容)
	ExportADIF(ctx context.Context, awardID uint) (string, []byte, error)
	// ExportXLSX 导出某奖项全部 QSO 为 Excel，返回 (文件名, 内容)
	ExportXLSX(ctx context.Context, awardID uint) (string, []byte, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

func (s *exportService) ExportADIF(ctx context.Context, awardID uint) (string, []byte, error) {
	award, qsos, err := s.load(ctx, awardID)
	if err != nil {
		return "", nil, err
	}

	// ADIF 的 operator 字段逐条携带，这里按记录归属操作员分段导出
	var sb strings.Builder
	grouped := groupByOperator(qsos)
	first := true
	for _, group := range grouped {
		records := make([]adif.Record, 0, len(group.qsos))
		for _, qso := range group.qsos {
			records = append(records, adif.Record{
				Call:      qso.Callsign,
				Band:      qso.Band,
				Mode:      qso.Mode,
				QSODate:   qso.QSODate,
				TimeOn:    qso.TimeOn,
				RSTSent:   qso.RSTSent,
				RSTRcvd:   qso.RSTRcvd,
				Frequency: qso.Frequency,
				Comment:   qso.Comment,
			})
		}
		content := adif.Export(records, group.operator, award.Name)
		if !first {
			// 后续分段去掉重复的文件头
			if idx := strings.Index(content, "<eoh>\n\n"); idx >= 0 {
				content = content[idx+len("<eoh>\n\n"):]
			}
		}
		sb.WriteString(content)
		first = false
	}
	if first {
		// 无记录时仍返回合法的空 ADIF
		sb.WriteString(adif.Export(nil, "", award.Name))
	}

	filename := fmt.Sprintf("%s.adi", sanitizeFilename(award.Name))
	s.logger.Info("ADIF 导出完成", zap.Uint("award_id", awardID), zap.Int("qsos", len(qsos)))
	return filename, []byte(sb.String()), nil
}

func (s *exportService) ExportXLSX(ctx context.Context, awardID uint) (string, []byte, error) {
	award, qsos, err := s.load(ctx, awardID)
	if err != nil {
		return "", nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "QSO"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return "", nil, err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []interface{}{
		"日期", "时间", "呼号", "波段", "模式", "频率 (MHz)",
		"RST 发", "RST 收", "操作员", "备注",
	}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return "", nil, err
	}

	for i, qso := range qsos {
		row := []interface{}{
			qso.QSODate, qso.TimeOn, qso.Callsign, qso.Band, qso.Mode,
			qso.Frequency, qso.RSTSent, qso.RSTRcvd, qso.OperatorCallsign, qso.Comment,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return "", nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return "", nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("生成 Excel 失败", zap.Uint("award_id", awardID), zap.Error(err))
		return "", nil, err
	}

	filename := fmt.Sprintf("%s.xlsx", sanitizeFilename(award.Name))
	s.logger.Info("Excel 导出完成", zap.Uint("award_id", awardID), zap.Int("qsos", len(qsos)))
	return filename, buf.Bytes(), nil
}

func (s *exportService) load(ctx context.Context, awardID uint) (*model.Award, []model.QSO, error) {
	award, err := s.repo.Award.GetByID(ctx, awardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrAwardNotFound
		}
		return nil, nil, err
	}
	qsos, err := s.repo.QSO.ListAll(ctx, awardID)
	if err != nil {
		s.logger.Error("查询 QSO 失败", zap.Uint("award_id", awardID), zap.Error(err))
		return nil, nil, err
	}
	return award, qsos, nil
}

type operatorGroup struct {
	operator string
	qsos     []model.QSO
}

// groupByOperator 保持首次出现顺序的分组
func groupByOperator(qsos []model.QSO) []operatorGroup {
	var groups []operatorGroup
	index := make(map[string]int)
	for _, qso := range qsos {
		i, ok := index[qso.OperatorCallsign]
		if !ok {
			i = len(groups)
			index[qso.OperatorCallsign] = i
			groups = append(groups, operatorGroup{operator: qso.OperatorCallsign})
		}
		groups[i].qsos = append(groups[i].qsos, qso)
	}
	return groups
}

// sanitizeFilename 替换文件名中的路径分隔符与空白
func sanitizeFilename(name string) string {
	replacer := strings.NewReplacer("/", "_", "\\", "_", " ", "_", ":", "_")
	return replacer.Replace(name)
}

