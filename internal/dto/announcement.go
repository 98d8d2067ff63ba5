package dto

// ── 公告模块 DTO ──

// CreateAnnouncementRequest 创建公告请求
type CreateAnnouncementRequest struct {
	Title   string `json:"title"   binding:"required,min=2,max=200"`
	Content string `json:"content" binding:"required,max=5000"`
}

// AnnouncementResponse 公告信息响应
type AnnouncementResponse struct {
	ID        uint   `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedBy string `json:"created_by"`
	IsActive  bool   `json:"is_active"`
	IsRead    *bool  `json:"is_read,omitempty"` // 仅带已读状态的查询填充
	CreatedAt string `json:"created_at"`
}

// UnreadCountResponse 未读公告数量响应
type UnreadCountResponse struct {
	Count int64 `json:"count"`
}
