package dto

// ── QSO 日志模块 DTO ──

// CreateQSORequest 录入单条 QSO 请求
type CreateQSORequest struct {
	AwardID   uint    `json:"award_id"  binding:"required"`
	Callsign  string  `json:"callsign"  binding:"required,min=3,max=12"`
	Band      string  `json:"band"      binding:"required"`
	Mode      string  `json:"mode"      binding:"required"`
	Frequency float64 `json:"frequency" binding:"omitempty,gt=0"`
	QSODate   string  `json:"qso_date"  binding:"required,datetime=2006-01-02"`
	TimeOn    string  `json:"time_on"   binding:"required"`
	RSTSent   string  `json:"rst_sent"  binding:"omitempty,max=10"`
	RSTRcvd   string  `json:"rst_rcvd"  binding:"omitempty,max=10"`
	Comment   string  `json:"comment"   binding:"omitempty,max=500"`
}

// QSOListRequest QSO 列表查询参数
type QSOListRequest struct {
	AwardID  uint   `form:"award_id" binding:"required"`
	Operator string `form:"operator"`
	Band     string `form:"band"`
	Mode     string `form:"mode"`
	Page     int    `form:"page"      binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=200"`
}

// QSOResponse 单条 QSO 响应
type QSOResponse struct {
	ID               uint    `json:"id"`
	AwardID          uint    `json:"award_id"`
	OperatorCallsign string  `json:"operator_callsign"`
	Callsign         string  `json:"callsign"`
	Band             string  `json:"band"`
	Mode             string  `json:"mode"`
	Frequency        float64 `json:"frequency,omitempty"`
	QSODate          string  `json:"qso_date"`
	TimeOn           string  `json:"time_on"`
	RSTSent          string  `json:"rst_sent"`
	RSTRcvd          string  `json:"rst_rcvd"`
	Comment          string  `json:"comment,omitempty"`
	CreatedAt        string  `json:"created_at"`
}

// QSOImportResponse ADIF 导入结果
type QSOImportResponse struct {
	Inserted int      `json:"inserted"`
	Skipped  int      `json:"skipped"`
	Warnings []string `json:"warnings,omitempty"`
}

// QSOStatsResponse QSO 统计响应
type QSOStatsResponse struct {
	Total      int64            `json:"total"`
	ByBand     map[string]int64 `json:"by_band"`
	ByMode     map[string]int64 `json:"by_mode"`
	ByOperator map[string]int64 `json:"by_operator"`
}
