package dto

// ── 波段/模式锁定模块 DTO ──

// BlockRequest 锁定/释放请求
type BlockRequest struct {
	AwardID uint   `json:"award_id" binding:"required"`
	Band    string `json:"band"     binding:"required"`
	Mode    string `json:"mode"     binding:"required"`
}

// AdminUnblockRequest 管理员强制释放请求
type AdminUnblockRequest struct {
	AwardID uint   `json:"award_id" binding:"required"`
	Band    string `json:"band"     binding:"required"`
	Mode    string `json:"mode"     binding:"required"`
}

// BlockListRequest 锁定列表查询参数
type BlockListRequest struct {
	AwardID *uint `form:"award_id"`
}

// BlockResponse 单条锁定响应
type BlockResponse struct {
	ID               uint        `json:"id"`
	OperatorCallsign string      `json:"operator_callsign"`
	OperatorName     string      `json:"operator_name,omitempty"`
	AwardID          uint        `json:"award_id"`
	Award            *AwardBrief `json:"award,omitempty"`
	Band             string      `json:"band"`
	Mode             string      `json:"mode"`
	BlockedAt        string      `json:"blocked_at"`
}

// BlockResult 锁定操作结果
// ReleasedPrevious 非 nil 时表示本次锁定自动释放了先前持有的槽位
type BlockResult struct {
	Block            *BlockResponse `json:"block"`
	ReleasedPrevious *BlockResponse `json:"released_previous,omitempty"`
}

// UnblockAllResponse 批量释放响应
type UnblockAllResponse struct {
	Count int64 `json:"count"`
}

// AdminUnblockResponse 管理员强制释放响应
type AdminUnblockResponse struct {
	Band     string `json:"band"`
	Mode     string `json:"mode"`
	WasHeldBy string `json:"was_held_by"`
}
