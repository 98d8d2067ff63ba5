package model

import "time"

// Award 奖项（特别呼号活动）表 — 对应 awards
type Award struct {
	ID          uint      `gorm:"primaryKey"                         json:"id"`
	Name        string    `gorm:"type:text;not null;uniqueIndex"     json:"name"`
	Description string    `gorm:"type:text;not null;default:''"      json:"description"`
	StartDate   string    `gorm:"type:text;not null;default:''"      json:"start_date"` // YYYY-MM-DD，可为空串
	EndDate     string    `gorm:"type:text;not null;default:''"      json:"end_date"`
	IsActive    bool      `gorm:"not null;default:true"              json:"is_active"`
	ImageData   []byte    `gorm:"type:bytea"                         json:"-"`
	ImageType   *string   `gorm:"type:text"                          json:"image_type,omitempty"`
	QRZLink     string    `gorm:"column:qrz_link;type:text;not null;default:''" json:"qrz_link"`
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName 指定表名
func (Award) TableName() string { return "awards" }

