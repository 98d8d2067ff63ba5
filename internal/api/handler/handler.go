package handler

import "github.com/dgarcoe/award-planner-sub000/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth         *AuthHandler
	Operator     *OperatorHandler
	Award        *AwardHandler
	Block        *BlockHandler
	Announcement *AnnouncementHandler
	Chat         *ChatHandler
	QSO          *QSOHandler
	Export       *ExportHandler
	Setting      *SettingHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(svc.Auth),
		Operator:     NewOperatorHandler(svc.Operator),
		Award:        NewAwardHandler(svc.Award),
		Block:        NewBlockHandler(svc.Block),
		Announcement: NewAnnouncementHandler(svc.Announcement),
		Chat:         NewChatHandler(svc.Chat),
		QSO:          NewQSOHandler(svc.QSO),
		Export:       NewExportHandler(svc.Export),
		Setting:      NewSettingHandler(svc.Setting),
	}
}

