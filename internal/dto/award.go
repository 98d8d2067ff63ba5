package dto

// ── 奖项模块 DTO ──

// CreateAwardRequest 创建奖项请求
type CreateAwardRequest struct {
	Name        string `json:"name"        binding:"required,min=2,max=100"`
	Description string `json:"description" binding:"max=2000"`
	StartDate   string `json:"start_date"  binding:"omitempty,datetime=2006-01-02"`
	EndDate     string `json:"end_date"    binding:"omitempty,datetime=2006-01-02"`
	QRZLink     string `json:"qrz_link"    binding:"omitempty,url"`
}

// UpdateAwardRequest 更新奖项请求（不含图片）
type UpdateAwardRequest struct {
	Name        *string `json:"name"        binding:"omitempty,min=2,max=100"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	StartDate   *string `json:"start_date"  binding:"omitempty,datetime=2006-01-02"`
	EndDate     *string `json:"end_date"    binding:"omitempty,datetime=2006-01-02"`
	QRZLink     *string `json:"qrz_link"    binding:"omitempty,url"`
}

// AwardResponse 奖项信息响应
type AwardResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	IsActive    bool   `json:"is_active"`
	HasImage    bool   `json:"has_image"`
	QRZLink     string `json:"qrz_link"`
	CreatedAt   string `json:"created_at"`
}

// AwardBrief 奖项简要信息（嵌入锁定响应）
type AwardBrief struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// DeleteAwardResponse 删除奖项响应
type DeleteAwardResponse struct {
	Name            string `json:"name"`
	ReleasedBlocks  int64  `json:"released_blocks"`
	DeletedMessages int64  `json:"deleted_messages"`
}
