package model

// AppSetting 应用级键值设置 — 对应 app_settings
// 环境管理员用它控制功能可见性（公告/聊天开关等）
type AppSetting struct {
	Key   string `gorm:"primaryKey;type:text" json:"key"`
	Value string `gorm:"type:text;not null"   json:"value"`
}

// TableName 指定表名
func (AppSetting) TableName() string { return "app_settings" }
