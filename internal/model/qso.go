package model

import "time"

// QSO 通联日志表 — 对应 qso_log
// Callsign 为被通联电台呼号，OperatorCallsign 为记录归属操作员
type QSO struct {
	ID               uint      `gorm:"primaryKey"                         json:"id"`
	AwardID          uint      `gorm:"not null;index:idx_qso_log_award"   json:"award_id"`
	OperatorCallsign string    `gorm:"type:text;not null"                 json:"operator_callsign"`
	Callsign         string    `gorm:"type:text;not null"                 json:"callsign"`
	Band             string    `gorm:"type:text;not null"                 json:"band"`
	Mode             string    `gorm:"type:text;not null"                 json:"mode"`
	Frequency        float64   `gorm:"type:double precision"              json:"frequency,omitempty"`
	QSODate          string    `gorm:"column:qso_date;type:text;not null;default:''" json:"qso_date"` // YYYY-MM-DD
	TimeOn           string    `gorm:"type:text;not null;default:''"      json:"time_on"`             // HH:MM
	RSTSent          string    `gorm:"column:rst_sent;type:text;not null;default:''" json:"rst_sent"`
	RSTRcvd          string    `gorm:"column:rst_rcvd;type:text;not null;default:''" json:"rst_rcvd"`
	Comment          string    `gorm:"type:text;not null;default:''"      json:"comment"`
	CreatedAt        time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;index:idx_qso_log_award" json:"created_at"`
}

// TableName 指定表名
func (QSO) TableName() string { return "qso_log" }

