package dto

// ── 操作员模块 DTO ──

// CreateOperatorRequest 创建操作员请求（仅管理员）
type CreateOperatorRequest struct {
	Callsign     string `json:"callsign"      binding:"required,min=3,max=12"`
	OperatorName string `json:"operator_name" binding:"required,min=2,max=100"`
	Password     string `json:"password"      binding:"required"`
	IsAdmin      bool   `json:"is_admin"`
}

// ResetPasswordRequest 管理员重置密码请求
type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required"`
}

// OperatorResponse 操作员信息响应
type OperatorResponse struct {
	Callsign     string `json:"callsign"`
	OperatorName string `json:"operator_name"`
	IsAdmin      bool   `json:"is_admin"`
	CreatedAt    string `json:"created_at"`
}

// DeleteOperatorResponse 删除操作员响应
// ReleasedBlocks 为级联释放的锁定数量
type DeleteOperatorResponse struct {
	Callsign       string `json:"callsign"`
	ReleasedBlocks int64  `json:"released_blocks"`
}
