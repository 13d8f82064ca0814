package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/UraN9/curriculum-parser/internal/model"
	"github.com/UraN9/curriculum-parser/internal/service"
	"github.com/UraN9/curriculum-parser/pkg/response"
	"gorm.io/gorm"
)

// ImportHandler 导入模块 HTTP 处理器
type ImportHandler struct {
	importSvc service.ImportService
	errLogSvc service.ErrorLogService
}

// NewImportHandler 创建 ImportHandler
func NewImportHandler(importSvc service.ImportService, errLogSvc service.ErrorLogService) *ImportHandler {
	return &ImportHandler{importSvc: importSvc, errLogSvc: errLogSvc}
}

// ImportPlan 上传并导入课程计划
// POST /api/v1/import  (multipart: file, discipline_id)
func (h *ImportHandler) ImportPlan(c *gin.Context) {
	disciplineID, err := strconv.Atoi(c.PostForm("discipline_id"))
	if err != nil || disciplineID <= 0 {
		response.BadRequest(c, 10001, "discipline_id 不能为空")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, 10001, "缺少上传文件")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.InternalError(c)
		return
	}
	defer file.Close()

	result, err := h.importSvc.ImportPlan(c.Request.Context(), file, fileHeader.Filename, disciplineID)
	switch {
	case errors.Is(err, service.ErrDisciplineNotFound):
		response.NotFound(c, 20001, "学科不存在")
		return
	case errors.Is(err, service.ErrPlanUnparsable):
		response.UnprocessableEntity(c, 20002, "课程计划文件无法解析")
		return
	case errors.Is(err, service.ErrImportLoadFailed):
		response.ErrorWithDetails(c, http.StatusInternalServerError, 20003, "课程计划装载失败", err.Error())
		return
	case err != nil:
		response.InternalError(c)
		return
	}

	// 校验未通过：会话失败，校验报告随响应体返回
	if result.Outcome == model.SessionFailed {
		c.JSON(http.StatusUnprocessableEntity, response.Response{
			Code:    20004,
			Message: "课程计划校验未通过",
			Data:    result,
		})
		return
	}
	response.Created(c, result)
}

// GetSessionErrors 查询导入会话的错误报告
// GET /api/v1/import/:id/errors
func (h *ImportHandler) GetSessionErrors(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "会话ID不能为空")
		return
	}

	if _, err := h.importSvc.GetSession(c.Request.Context(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, 20005, "导入会话不存在")
			return
		}
		response.InternalError(c)
		return
	}

	entries, err := h.errLogSvc.GetSessionErrors(c.Request.Context(), id)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{
		"list":   entries,
		"report": h.errLogSvc.FormatReport(entries),
	})
}
