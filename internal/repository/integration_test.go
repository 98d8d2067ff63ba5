//go:build integration

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	pkgerrors "github.com/dgarcoe/award-planner-sub000/pkg/errors"

	"github.com/dgarcoe/award-planner-sub000/internal/model"
	"github.com/dgarcoe/award-planner-sub000/internal/repository"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=award_planner password=award_planner_password dbname=award_planner_test sslmode=disable TimeZone=UTC"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法连接测试数据库: %v\n", err)
		os.Exit(1)
	}

	// 自动迁移测试表结构
	err = testDB.AutoMigrate(
		&model.Operator{},
		&model.Award{},
		&model.BandModeBlock{},
		&model.Announcement{},
		&model.AnnouncementRead{},
		&model.ChatMessage{},
		&model.QSO{},
		&model.AppSetting{},
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "AutoMigrate 失败: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()
	os.Exit(code)
}

// setupTestData 创建基础测试数据（两个操作员 + 一个奖项）并返回清理函数
func setupTestData(t *testing.T) (op1, op2 *model.Operator, award *model.Award, cleanup func()) {
	t.Helper()
	ctx := context.Background()
	suffix := time.Now().UnixNano()

	op1 = &model.Operator{
		Callsign:     fmt.Sprintf("EA1T%d", suffix%100000),
		OperatorName: "测试操作员一",
		PasswordHash: "$2a$10$placeholder",
	}
	if err := testDB.WithContext(ctx).Create(op1).Error; err != nil {
		t.Fatalf("创建操作员失败: %v", err)
	}

	op2 = &model.Operator{
		Callsign:     fmt.Sprintf("EA2T%d", suffix%100000),
		OperatorName: "测试操作员二",
		PasswordHash: "$2a$10$placeholder",
	}
	if err := testDB.WithContext(ctx).Create(op2).Error; err != nil {
		t.Fatalf("创建操作员失败: %v", err)
	}

	award = &model.Award{
		Name:     fmt.Sprintf("测试活动-%d", suffix),
		IsActive: true,
	}
	if err := testDB.WithContext(ctx).Create(award).Error; err != nil {
		t.Fatalf("创建奖项失败: %v", err)
	}

	cleanup = func() {
		testDB.Where("award_id = ?", award.ID).Delete(&model.BandModeBlock{})
		testDB.Where("award_id = ?", award.ID).Delete(&model.QSO{})
		testDB.Where("award_id = ?", award.ID).Delete(&model.ChatMessage{})
		testDB.Where("id = ?", award.ID).Delete(&model.Award{})
		testDB.Where("callsign IN ?", []string{op1.Callsign, op2.Callsign}).Delete(&model.Operator{})
	}
	return
}

// ═══════════════════════════════════════════════════════════
// Test: Reserve / Release
// ═══════════════════════════════════════════════════════════

func TestBlock_ReserveAndRelease(t *testing.T) {
	op1, _, award, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	block := &model.BandModeBlock{
		OperatorCallsign: op1.Callsign,
		AwardID:          award.ID,
		Band:             "20m",
		Mode:             "SSB",
	}
	released, err := repo.Block.Reserve(ctx, block)
	if err != nil {
		t.Fatalf("Reserve 失败: %v", err)
	}
	if released != nil {
		t.Errorf("首次锁定不应释放旧锁定，得到: %+v", released)
	}

	found, err := repo.Block.GetByKey(ctx, award.ID, "20m", "SSB")
	if err != nil {
		t.Fatalf("GetByKey 失败: %v", err)
	}
	if found.OperatorCallsign != op1.Callsign {
		t.Errorf("持有者不匹配: expected %s, got %s", op1.Callsign, found.OperatorCallsign)
	}

	if err := repo.Block.Release(ctx, op1.Callsign, award.ID, "20m", "SSB"); err != nil {
		t.Fatalf("Release 失败: %v", err)
	}

	_, err = repo.Block.GetByKey(ctx, award.ID, "20m", "SSB")
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("释放后应查不到锁定，得到: %v", err)
	}
}

func TestBlock_SlotTaken(t *testing.T) {
	op1, op2, award, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	first := &model.BandModeBlock{
		OperatorCallsign: op1.Callsign,
		AwardID:          award.ID,
		Band:             "40m",
		Mode:             "CW",
	}
	if _, err := repo.Block.Reserve(ctx, first); err != nil {
		t.Fatalf("第一次 Reserve 失败: %v", err)
	}

	second := &model.BandModeBlock{
		OperatorCallsign: op2.Callsign,
		AwardID:          award.ID,
		Band:             "40m",
		Mode:             "CW",
	}
	_, err := repo.Block.Reserve(ctx, second)
	var taken *pkgerrors.SlotTakenError
	if !errors.As(err, &taken) {
		t.Fatalf("期望 SlotTakenError，得到: %v", err)
	}
	if taken.Holder != op1.Callsign {
		t.Errorf("持有者不匹配: expected %s, got %s", op1.Callsign, taken.Holder)
	}
}

func TestBlock_AutoReleasePrevious(t *testing.T) {
	op1, _, award, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	first := &model.BandModeBlock{
		OperatorCallsign: op1.Callsign,
		AwardID:          award.ID,
		Band:             "20m",
		Mode:             "FT8",
	}
	if _, err := repo.Block.Reserve(ctx, first); err != nil {
		t.Fatalf("第一次 Reserve 失败: %v", err)
	}

	// 同一操作员换槽位：旧锁定应在同一事务内自动释放
	second := &model.BandModeBlock{
		OperatorCallsign: op1.Callsign,
		AwardID:          award.ID,
		Band:             "15m",
		Mode:             "CW",
	}
	released, err := repo.Block.Reserve(ctx, second)
	if err != nil {
		t.Fatalf("换槽位 Reserve 失败: %v", err)
	}
	if released == nil {
		t.Fatal("期望返回被释放的旧锁定，得到 nil")
	}
	if released.Band != "20m" || released.Mode != "FT8" {
		t.Errorf("被释放的旧锁定不匹配: got %s/%s", released.Band, released.Mode)
	}

	// 任意时刻每人同奖项最多一条
	blocks, err := repo.Block.ListByOperator(ctx, op1.Callsign, &award.ID)
	if err != nil {
		t.Fatalf("ListByOperator 失败: %v", err)
	}
	if len(blocks) != 1 {
		t.Fatalf("期望恰好 1 条锁定，得到 %d 条", len(blocks))
	}
	if blocks[0].Band != "15m" || blocks[0].Mode != "CW" {
		t.Errorf("剩余锁定不匹配: got %s/%s", blocks[0].Band, blocks[0].Mode)
	}
}

func TestBlock_ReserveOwnSlotRejected(t *testing.T) {
	op1, _, award, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	block := &model.BandModeBlock{
		OperatorCallsign: op1.Callsign,
		AwardID:          award.ID,
		Band:             "10m",
		Mode:             "SSB",
	}
	if _, err := repo.Block.Reserve(ctx, block); err != nil {
		t.Fatalf("Reserve 失败: %v", err)
	}

	// 重复锁定同一槽位（即使持有者是自己）也按占用处理
	again := &model.BandModeBlock{
		OperatorCallsign: op1.Callsign,
		AwardID:          award.ID,
		Band:             "10m",
		Mode:             "SSB",
	}
	_, err := repo.Block.Reserve(ctx, again)
	var taken *pkgerrors.SlotTakenError
	if !errors.As(err, &taken) {
		t.Fatalf("期望 SlotTakenError，得到: %v", err)
	}
	if taken.Holder != op1.Callsign {
		t.Errorf("持有者应为自己: got %s", taken.Holder)
	}
}

func TestBlock_ReleaseErrors(t *testing.T) {
	op1, op2, award, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	// 空闲槽位
	err := repo.Block.Release(ctx, op1.Callsign, award.ID, "80m", "CW")
	if !errors.Is(err, pkgerrors.ErrNotBlocked) {
		t.Errorf("期望 ErrNotBlocked，得到: %v", err)
	}

	// 他人持有
	block := &model.BandModeBlock{
		OperatorCallsign: op1.Callsign,
		AwardID:          award.ID,
		Band:             "80m",
		Mode:             "CW",
	}
	if _, err := repo.Block.Reserve(ctx, block); err != nil {
		t.Fatalf("Reserve 失败: %v", err)
	}
	err = repo.Block.Release(ctx, op2.Callsign, award.ID, "80m", "CW")
	var notOwner *pkgerrors.NotOwnerError
	if !errors.As(err, &notOwner) {
		t.Fatalf("期望 NotOwnerError，得到: %v", err)
	}
	if notOwner.Holder != op1.Callsign {
		t.Errorf("持有者不匹配: got %s", notOwner.Holder)
	}

	// 原锁定应原封不动
	if _, err := repo.Block.GetByKey(ctx, award.ID, "80m", "CW"); err != nil {
		t.Errorf("他人释放失败后锁定应保留: %v", err)
	}
}

func TestBlock_AdminRelease(t *testing.T) {
	op1, _, award, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	block := &model.BandModeBlock{
		OperatorCallsign: op1.Callsign,
		AwardID:          award.ID,
		Band:             "6m",
		Mode:             "FT4",
	}
	if _, err := repo.Block.Reserve(ctx, block); err != nil {
		t.Fatalf("Reserve 失败: %v", err)
	}

	holder, err := repo.Block.AdminRelease(ctx, award.ID, "6m", "FT4")
	if err != nil {
		t.Fatalf("AdminRelease 失败: %v", err)
	}
	if holder != op1.Callsign {
		t.Errorf("原持有者不匹配: got %s", holder)
	}

	_, err = repo.Block.AdminRelease(ctx, award.ID, "6m", "FT4")
	if !errors.Is(err, pkgerrors.ErrNotBlocked) {
		t.Errorf("空闲槽位期望 ErrNotBlocked，得到: %v", err)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Concurrent Reserve（唯一约束 + 行锁兜底）
// ═══════════════════════════════════════════════════════════

func TestBlock_ConcurrentReserve_SingleWinner(t *testing.T) {
	op1, op2, award, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	callsigns := []string{op1.Callsign, op2.Callsign}
	results := make([]error, len(callsigns))

	var wg sync.WaitGroup
	for i, cs := range callsigns {
		wg.Add(1)
		go func(i int, cs string) {
			defer wg.Done()
			block := &model.BandModeBlock{
				OperatorCallsign: cs,
				AwardID:          award.ID,
				Band:             "2m",
				Mode:             "SSB",
			}
			_, results[i] = repo.Block.Reserve(ctx, block)
		}(i, cs)
	}
	wg.Wait()

	var winners, losers int
	for _, err := range results {
		switch {
		case err == nil:
			winners++
		default:
			var taken *pkgerrors.SlotTakenError
			if !errors.As(err, &taken) {
				t.Fatalf("并发失败方期望 SlotTakenError，得到: %v", err)
			}
			losers++
		}
	}
	if winners != 1 || losers != 1 {
		t.Fatalf("期望恰好一胜一败，得到 winners=%d losers=%d", winners, losers)
	}

	blocks, err := repo.Block.List(ctx, &award.ID)
	if err != nil {
		t.Fatalf("List 失败: %v", err)
	}
	if len(blocks) != 1 {
		t.Errorf("期望恰好 1 条锁定，得到 %d 条", len(blocks))
	}
}

// ═══════════════════════════════════════════════════════════
// Test: ReleaseAll / Cascade
// ═══════════════════════════════════════════════════════════

func TestBlock_ReleaseAll(t *testing.T) {
	op1, _, award, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	// 第二个奖项，验证跨奖项释放
	award2 := &model.Award{Name: fmt.Sprintf("测试活动二-%d", time.Now().UnixNano()), IsActive: true}
	if err := testDB.Create(award2).Error; err != nil {
		t.Fatalf("创建奖项失败: %v", err)
	}
	defer func() {
		testDB.Where("award_id = ?", award2.ID).Delete(&model.BandModeBlock{})
		testDB.Where("id = ?", award2.ID).Delete(&model.Award{})
	}()

	for _, a := range []uint{award.ID, award2.ID} {
		block := &model.BandModeBlock{
			OperatorCallsign: op1.Callsign,
			AwardID:          a,
			Band:             "20m",
			Mode:             "CW",
		}
		if _, err := repo.Block.Reserve(ctx, block); err != nil {
			t.Fatalf("Reserve 失败: %v", err)
		}
	}

	count, err := repo.Block.ReleaseAll(ctx, op1.Callsign, nil)
	if err != nil {
		t.Fatalf("ReleaseAll 失败: %v", err)
	}
	if count != 2 {
		t.Errorf("期望释放 2 条，得到 %d", count)
	}

	// 无锁定时也成功，计数为 0
	count, err = repo.Block.ReleaseAll(ctx, op1.Callsign, nil)
	if err != nil {
		t.Fatalf("空 ReleaseAll 不应报错: %v", err)
	}
	if count != 0 {
		t.Errorf("期望释放 0 条，得到 %d", count)
	}
}

func TestOperator_DeleteCascade(t *testing.T) {
	op1, _, award, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	block := &model.BandModeBlock{
		OperatorCallsign: op1.Callsign,
		AwardID:          award.ID,
		Band:             "20m",
		Mode:             "RTTY",
	}
	if _, err := repo.Block.Reserve(ctx, block); err != nil {
		t.Fatalf("Reserve 失败: %v", err)
	}

	released, err := repo.Operator.DeleteCascade(ctx, op1.Callsign)
	if err != nil {
		t.Fatalf("DeleteCascade 失败: %v", err)
	}
	if released != 1 {
		t.Errorf("期望释放 1 条锁定，得到 %d", released)
	}

	_, err = repo.Operator.GetByCallsign(ctx, op1.Callsign)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("删除后应查不到操作员: %v", err)
	}
	_, err = repo.Block.GetByKey(ctx, award.ID, "20m", "RTTY")
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("删除操作员后其锁定应释放: %v", err)
	}
}

func TestAward_DeleteCascade(t *testing.T) {
	op1, _, award, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	block := &model.BandModeBlock{
		OperatorCallsign: op1.Callsign,
		AwardID:          award.ID,
		Band:             "20m",
		Mode:             "CW",
	}
	if _, err := repo.Block.Reserve(ctx, block); err != nil {
		t.Fatalf("Reserve 失败: %v", err)
	}
	msg := &model.ChatMessage{
		AwardID:          &award.ID,
		OperatorCallsign: op1.Callsign,
		Message:          "测试消息",
		Source:           model.ChatSourceApp,
	}
	if err := repo.Chat.Create(ctx, msg); err != nil {
		t.Fatalf("创建聊天消息失败: %v", err)
	}

	releasedBlocks, deletedMessages, err := repo.Award.DeleteCascade(ctx, award.ID)
	if err != nil {
		t.Fatalf("DeleteCascade 失败: %v", err)
	}
	if releasedBlocks != 1 || deletedMessages != 1 {
		t.Errorf("期望 (1, 1)，得到 (%d, %d)", releasedBlocks, deletedMessages)
	}

	_, err = repo.Award.GetByID(ctx, award.ID)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("删除后应查不到奖项: %v", err)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Announcement Read Tracking
// ═══════════════════════════════════════════════════════════

func TestAnnouncement_ReadTracking(t *testing.T) {
	op1, _, _, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	a := &model.Announcement{
		Title:     fmt.Sprintf("测试公告-%d", time.Now().UnixNano()),
		Content:   "内容",
		CreatedBy: op1.Callsign,
		IsActive:  true,
	}
	if err := repo.Announcement.Create(ctx, a); err != nil {
		t.Fatalf("创建公告失败: %v", err)
	}
	defer repo.Announcement.Delete(ctx, a.ID)

	count, err := repo.Announcement.UnreadCount(ctx, op1.Callsign)
	if err != nil {
		t.Fatalf("UnreadCount 失败: %v", err)
	}
	if count < 1 {
		t.Errorf("期望至少 1 条未读，得到 %d", count)
	}

	if err := repo.Announcement.MarkRead(ctx, a.ID, op1.Callsign); err != nil {
		t.Fatalf("MarkRead 失败: %v", err)
	}
	// 重复标记应静默成功
	if err := repo.Announcement.MarkRead(ctx, a.ID, op1.Callsign); err != nil {
		t.Fatalf("重复 MarkRead 应静默成功: %v", err)
	}

	list, err := repo.Announcement.ListWithReadStatus(ctx, op1.Callsign)
	if err != nil {
		t.Fatalf("ListWithReadStatus 失败: %v", err)
	}
	for _, item := range list {
		if item.ID == a.ID && !item.IsRead {
			t.Error("标记已读后 IsRead 应为 true")
		}
	}
}

// ═══════════════════════════════════════════════════════════
// Test: QSO Bulk Import
// ═══════════════════════════════════════════════════════════

func TestQSO_BulkCreateSkipDuplicates(t *testing.T) {
	op1, _, award, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	batch := []model.QSO{
		{AwardID: award.ID, OperatorCallsign: op1.Callsign, Callsign: "DL1ABC", Band: "20m", Mode: "CW", QSODate: "2026-08-01", TimeOn: "10:00"},
		{AwardID: award.ID, OperatorCallsign: op1.Callsign, Callsign: "F4XYZ", Band: "40m", Mode: "SSB", QSODate: "2026-08-01", TimeOn: "10:05"},
	}
	inserted, skipped, err := repo.QSO.BulkCreateSkipDuplicates(ctx, batch)
	if err != nil {
		t.Fatalf("BulkCreateSkipDuplicates 失败: %v", err)
	}
	if inserted != 2 || skipped != 0 {
		t.Errorf("期望 (2, 0)，得到 (%d, %d)", inserted, skipped)
	}

	// 重复导入同一批次：全部跳过
	again := []model.QSO{
		{AwardID: award.ID, OperatorCallsign: op1.Callsign, Callsign: "DL1ABC", Band: "20m", Mode: "CW", QSODate: "2026-08-01", TimeOn: "10:00"},
		{AwardID: award.ID, OperatorCallsign: op1.Callsign, Callsign: "EA5QRP", Band: "20m", Mode: "FT8", QSODate: "2026-08-01", TimeOn: "10:10"},
	}
	inserted, skipped, err = repo.QSO.BulkCreateSkipDuplicates(ctx, again)
	if err != nil {
		t.Fatalf("二次导入失败: %v", err)
	}
	if inserted != 1 || skipped != 1 {
		t.Errorf("期望 (1, 1)，得到 (%d, %d)", inserted, skipped)
	}

	stats, err := repo.QSO.Stats(ctx, award.ID)
	if err != nil {
		t.Fatalf("Stats 失败: %v", err)
	}
	if stats.Total != 3 {
		t.Errorf("期望总数 3，得到 %d", stats.Total)
	}
	if stats.ByBand["20m"] != 2 {
		t.Errorf("期望 20m 计数 2，得到 %d", stats.ByBand["20m"])
	}
}
