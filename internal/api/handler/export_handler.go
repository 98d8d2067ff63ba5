package handler

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dgarcoe/award-planner-sub000/internal/service"
	"github.com/dgarcoe/award-planner-sub000/pkg/response"
)

// ExportHandler QSO 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

func exportAwardID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Query("award_id"), 10, 64)
	if err != nil || id == 0 {
		response.BadRequest(c, 10001, "无效的 award_id")
		return 0, false
	}
	return uint(id), true
}

// ADIF 导出某奖项全部 QSO 为 ADIF 3.x 文件
// GET /api/v1/qsos/export/adif?award_id=
func (h *ExportHandler) ADIF(c *gin.Context) {
	awardID, ok := exportAwardID(c)
	if !ok {
		return
	}

	filename, content, err := h.exportSvc.ExportADIF(c.Request.Context(), awardID)
	if err != nil {
		if errors.Is(err, service.ErrAwardNotFound) {
			response.NotFound(c, 13002, "奖项不存在")
			return
		}
		response.InternalError(c)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(200, "text/plain; charset=utf-8", content)
}

// XLSX 导出某奖项全部 QSO 为 Excel 文件
// GET /api/v1/qsos/export/xlsx?award_id=
func (h *ExportHandler) XLSX(c *gin.Context) {
	awardID, ok := exportAwardID(c)
	if !ok {
		return
	}

	filename, content, err := h.exportSvc.ExportXLSX(c.Request.Context(), awardID)
	if err != nil {
		if errors.Is(err, service.ErrAwardNotFound) {
			response.NotFound(c, 13002, "奖项不存在")
			return
		}
		response.InternalError(c)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(200, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", content)
}

