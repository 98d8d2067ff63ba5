package model

import "time"

// Announcement 公告表 — 对应 announcements
type Announcement struct {
	ID        uint      `gorm:"primaryKey"                         json:"id"`
	Title     string    `gorm:"type:text;not null"                 json:"title"`
	Content   string    `gorm:"type:text;not null"                 json:"content"`
	CreatedBy string    `gorm:"type:text;not null"                 json:"created_by"`
	IsActive  bool      `gorm:"not null;default:true"              json:"is_active"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName 指定表名
func (Announcement) TableName() string { return "announcements" }

// AnnouncementRead 公告已读记录 — 对应 announcement_reads
// (announcement_id, operator_callsign) 唯一，重复标记为幂等操作
type AnnouncementRead struct {
	ID               uint      `gorm:"primaryKey"                         json:"id"`
	AnnouncementID   uint      `gorm:"not null;uniqueIndex:uq_announcement_reads,priority:1" json:"announcement_id"`
	OperatorCallsign string    `gorm:"type:text;not null;uniqueIndex:uq_announcement_reads,priority:2" json:"operator_callsign"`
	ReadAt           time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"read_at"`
}

// TableName 指定表名
func (AnnouncementRead) TableName() string { return "announcement_reads" }

