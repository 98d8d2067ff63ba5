package dto

// ── 应用设置模块 DTO ──

// UpdateSettingRequest 设置项更新请求（upsert）
type UpdateSettingRequest struct {
	Key   string `json:"key"   binding:"required,max=100"`
	Value string `json:"value" binding:"required,max=500"`
}

// FeatureFlagsResponse 功能可见性开关响应
type FeatureFlagsResponse struct {
	Announcements bool `json:"announcements"`
	Chat          bool `json:"chat"`
}
