package handler

import (
	"errors"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dgarcoe/award-planner-sub000/internal/dto"
	"github.com/dgarcoe/award-planner-sub000/internal/service"
	"github.com/dgarcoe/award-planner-sub000/pkg/response"
)

// QSOHandler QSO 日志模块 HTTP 处理器
type QSOHandler struct {
	qsoSvc service.QSOService
}

// NewQSOHandler 创建 QSOHandler
func NewQSOHandler(qsoSvc service.QSOService) *QSOHandler {
	return &QSOHandler{qsoSvc: qsoSvc}
}

// Create 录入单条 QSO
// POST /api/v1/qsos
func (h *QSOHandler) Create(c *gin.Context) {
	callsign, ok := MustGetCallsign(c)
	if !ok {
		return
	}

	var req dto.CreateQSORequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.qsoSvc.Create(c.Request.Context(), callsign, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidBand):
			response.BadRequest(c, 14004, "无效的波段")
		case errors.Is(err, service.ErrInvalidMode):
			response.BadRequest(c, 14004, "无效的模式")
		case errors.Is(err, service.ErrAwardNotFound):
			response.NotFound(c, 13002, "奖项不存在")
		default:
			response.InternalError(c)
		}
		return
	}

	response.Created(c, result)
}

// List QSO 列表（分页）
// GET /api/v1/qsos?award_id=&operator=&band=&mode=&page=&page_size=
func (h *QSOHandler) List(c *gin.Context) {
	var req dto.QSOListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, total, err := h.qsoSvc.List(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrAwardNotFound) {
			response.NotFound(c, 13002, "奖项不存在")
			return
		}
		response.InternalError(c)
		return
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = 50
	}
	response.OKPage(c, result, total, page, pageSize)
}

// Import ADIF 文件导入（multipart 表单字段 file，查询参数 award_id）
// POST /api/v1/qsos/import
func (h *QSOHandler) Import(c *gin.Context) {
	callsign, ok := MustGetCallsign(c)
	if !ok {
		return
	}

	awardID, err := strconv.ParseUint(c.Query("award_id"), 10, 64)
	if err != nil || awardID == 0 {
		response.BadRequest(c, 10001, "无效的 award_id")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, 10001, "缺少 ADIF 文件")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		response.InternalError(c)
		return
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		response.InternalError(c)
		return
	}

	result, err := h.qsoSvc.ImportADIF(c.Request.Context(), callsign, uint(awardID), string(content))
	if err != nil {
		if errors.Is(err, service.ErrAwardNotFound) {
			response.NotFound(c, 13002, "奖项不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// Stats 某奖项的 QSO 统计
// GET /api/v1/qsos/stats?award_id=
func (h *QSOHandler) Stats(c *gin.Context) {
	awardID, err := strconv.ParseUint(c.Query("award_id"), 10, 64)
	if err != nil || awardID == 0 {
		response.BadRequest(c, 10001, "无效的 award_id")
		return
	}

	result, err := h.qsoSvc.Stats(c.Request.Context(), uint(awardID))
	if err != nil {
		if errors.Is(err, service.ErrAwardNotFound) {
			response.NotFound(c, 13002, "奖项不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// Delete 删除单条 QSO（录入者本人或管理员）
// DELETE /api/v1/qsos/:id
func (h *QSOHandler) Delete(c *gin.Context) {
	callsign, ok := MustGetCallsign(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.qsoSvc.Delete(c.Request.Context(), id, callsign, GetIsAdmin(c)); err != nil {
		switch {
		case errors.Is(err, service.ErrQSONotFound):
			response.NotFound(c, 16001, "QSO 记录不存在")
		case errors.Is(err, service.ErrQSOForbidden):
			response.Forbidden(c, 16002, "只能删除自己录入的 QSO")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, nil)
}

