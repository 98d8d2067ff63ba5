package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/dgarcoe/award-planner-sub000/internal/model"
	"github.com/dgarcoe/award-planner-sub000/internal/repository"
)

func newExportTestEnv(t *testing.T) (ExportService, *repository.Repository, *model.Award) {
	t.Helper()
	repo := newTestRepo()
	service := NewExportService(repo, zap.NewNop())

	ctx := context.Background()
	award := &model.Award{Name: "EF6ZB 活动", IsActive: true}
	if err := repo.Award.Create(ctx, award); err != nil {
		t.Fatalf("创建奖项失败: %v", err)
	}

	qsos := []model.QSO{
		{AwardID: award.ID, OperatorCallsign: "EA1ABC", Callsign: "DL1ABC", Band: "20m", Mode: "CW", QSODate: "2026-08-01", TimeOn: "10:12", RSTSent: "599", RSTRcvd: "579"},
		{AwardID: award.ID, OperatorCallsign: "EA2DEF", Callsign: "F4XYZ", Band: "40m", Mode: "SSB", QSODate: "2026-08-01", TimeOn: "10:45", Frequency: 7.125},
	}
	for i := range qsos {
		if err := repo.QSO.Create(ctx, &qsos[i]); err != nil {
			t.Fatalf("创建 QSO 失败: %v", err)
		}
	}
	return service, repo, award
}

func TestExport_ADIF(t *testing.T) {
	service, _, award := newExportTestEnv(t)

	filename, content, err := service.ExportADIF(context.Background(), award.ID)
	if err != nil {
		t.Fatalf("ExportADIF 失败: %v", err)
	}
	if !strings.HasSuffix(filename, ".adi") {
		t.Errorf("文件名应以 .adi 结尾: %s", filename)
	}
	text := string(content)
	if !strings.Contains(text, "<eoh>") {
		t.Error("输出应包含 ADIF 文件头")
	}
	for _, want := range []string{"DL1ABC", "F4XYZ", "<operator:6>EA1ABC", "<operator:6>EA2DEF"} {
		if !strings.Contains(text, want) {
			t.Errorf("输出应包含 %q", want)
		}
	}
	// 日期/时间按 ADIF 写法去掉分隔符
	if !strings.Contains(text, "<qso_date:8>20260801") {
		t.Error("日期应为 YYYYMMDD 写法")
	}
}

func TestExport_ADIF_Empty(t *testing.T) {
	service, repo, _ := newExportTestEnv(t)
	ctx := context.Background()

	empty := &model.Award{Name: "空活动", IsActive: true}
	if err := repo.Award.Create(ctx, empty); err != nil {
		t.Fatalf("创建奖项失败: %v", err)
	}

	_, content, err := service.ExportADIF(ctx, empty.ID)
	if err != nil {
		t.Fatalf("空奖项导出应成功: %v", err)
	}
	if !strings.Contains(string(content), "<eoh>") {
		t.Error("空导出也应是合法 ADIF")
	}
}

func TestExport_XLSX(t *testing.T) {
	service, _, award := newExportTestEnv(t)

	filename, content, err := service.ExportXLSX(context.Background(), award.ID)
	if err != nil {
		t.Fatalf("ExportXLSX 失败: %v", err)
	}
	if !strings.HasSuffix(filename, ".xlsx") {
		t.Errorf("文件名应以 .xlsx 结尾: %s", filename)
	}
	// xlsx 是 zip 容器，检查魔数
	if !bytes.HasPrefix(content, []byte("PK")) {
		t.Error("输出应为合法 xlsx（zip）文件")
	}
}

func TestExport_AwardNotFound(t *testing.T) {
	service, _, _ := newExportTestEnv(t)

	if _, _, err := service.ExportADIF(context.Background(), 9999); !errors.Is(err, ErrAwardNotFound) {
		t.Errorf("期望 ErrAwardNotFound，得到: %v", err)
	}
	if _, _, err := service.ExportXLSX(context.Background(), 9999); !errors.Is(err, ErrAwardNotFound) {
		t.Errorf("期望 ErrAwardNotFound，得到: %v", err)
	}
}
