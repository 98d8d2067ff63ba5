package service

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/dgarcoe/award-planner-sub000/internal/dto"
)

func TestSetting_FeatureFlags(t *testing.T) {
	service := NewSettingService(newTestRepo(), zap.NewNop())
	ctx := context.Background()

	// 未设置时默认全部启用
	flags, err := service.FeatureFlags(ctx)
	if err != nil {
		t.Fatalf("FeatureFlags 失败: %v", err)
	}
	if !flags.Announcements || !flags.Chat {
		t.Errorf("默认应全部启用: %+v", flags)
	}

	// 关闭聊天
	if err := service.Set(ctx, &dto.UpdateSettingRequest{
		Key: SettingChatEnabled, Value: "0",
	}); err != nil {
		t.Fatalf("Set 失败: %v", err)
	}
	flags, _ = service.FeatureFlags(ctx)
	if flags.Chat {
		t.Error("聊天开关应已关闭")
	}
	if !flags.Announcements {
		t.Error("公告开关不应受影响")
	}

	// 覆盖写回
	if err := service.Set(ctx, &dto.UpdateSettingRequest{
		Key: SettingChatEnabled, Value: "1",
	}); err != nil {
		t.Fatalf("Set 失败: %v", err)
	}
	flags, _ = service.FeatureFlags(ctx)
	if !flags.Chat {
		t.Error("聊天开关应已恢复")
	}

	settings, err := service.List(ctx)
	if err != nil {
		t.Fatalf("List 失败: %v", err)
	}
	if settings[SettingChatEnabled] != "1" {
		t.Errorf("设置值不匹配: %+v", settings)
	}
}
