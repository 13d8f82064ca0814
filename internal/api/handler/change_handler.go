package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/UraN9/curriculum-parser/internal/dto"
	"github.com/UraN9/curriculum-parser/internal/service"
	"github.com/UraN9/curriculum-parser/pkg/response"
)

// ChangeHandler 变更日志模块 HTTP 处理器
type ChangeHandler struct {
	changeSvc service.ChangeLogService
}

// NewChangeHandler 创建 ChangeHandler
func NewChangeHandler(changeSvc service.ChangeLogService) *ChangeHandler {
	return &ChangeHandler{changeSvc: changeSvc}
}

// GetRecentChanges 查询最近变更
// GET /api/v1/changes/recent?limit=&table=&operation=
func (h *ChangeHandler) GetRecentChanges(c *gin.Context) {
	var query dto.ChangeQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	records, err := h.changeSvc.GetRecentChanges(c.Request.Context(), query)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": records})
}

// GetUnprocessedCount 按 (表, 操作) 统计未处理变更
// GET /api/v1/changes/unprocessed-count
func (h *ChangeHandler) GetUnprocessedCount(c *gin.Context) {
	groups, err := h.changeSvc.GetUnprocessedCount(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": groups})
}

// MarkProcessed 幂等标记变更已处理
// POST /api/v1/changes/mark-processed
func (h *ChangeHandler) MarkProcessed(c *gin.Context) {
	var req dto.MarkProcessedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	flipped, err := h.changeSvc.MarkProcessed(c.Request.Context(), req.IDs)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"processed": flipped})
}

// Cleanup 删除保留期之前的已处理变更
// POST /api/v1/changes/cleanup
func (h *ChangeHandler) Cleanup(c *gin.Context) {
	var req dto.CleanupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	deleted, err := h.changeSvc.Cleanup(c.Request.Context(), req.RetentionDays)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"deleted": deleted})
}
