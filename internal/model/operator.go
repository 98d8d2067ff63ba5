package model

import "time"

// Operator 操作员表 — 对应 operators
// 呼号为主键，入库前统一大写
type Operator struct {
	Callsign     string    `gorm:"primaryKey;type:text"                       json:"callsign"`
	OperatorName string    `gorm:"type:text;not null"                         json:"operator_name"`
	PasswordHash string    `gorm:"type:text;not null"                         json:"-"`
	IsAdmin      bool      `gorm:"not null;default:false"                     json:"is_admin"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"         json:"created_at"`
}

// TableName 指定表名
func (Operator) TableName() string { return "operators" }

