package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/UraN9/curriculum-parser/internal/dto"
	"github.com/UraN9/curriculum-parser/internal/service"
	"github.com/UraN9/curriculum-parser/pkg/response"
)

// ErrorHandler 错误日志模块 HTTP 处理器
type ErrorHandler struct {
	errLogSvc service.ErrorLogService
}

// NewErrorHandler 创建 ErrorHandler
func NewErrorHandler(errLogSvc service.ErrorLogService) *ErrorHandler {
	return &ErrorHandler{errLogSvc: errLogSvc}
}

// GetRecentErrors 查询最近错误日志
// GET /api/v1/errors/recent?limit=
func (h *ErrorHandler) GetRecentErrors(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	entries, err := h.errLogSvc.GetRecentErrors(c.Request.Context(), limit)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": entries})
}

// ResolveErrors 标记错误日志条目为已处理
// POST /api/v1/errors/resolve
func (h *ErrorHandler) ResolveErrors(c *gin.Context) {
	var req dto.ResolveErrorsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	flipped, err := h.errLogSvc.Resolve(c.Request.Context(), req.IDs)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"resolved": flipped})
}
