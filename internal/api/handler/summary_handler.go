package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/UraN9/curriculum-parser/internal/service"
	"github.com/UraN9/curriculum-parser/pkg/response"
)

// SummaryHandler 汇总模块 HTTP 处理器
type SummaryHandler struct {
	summarySvc service.SummaryService
	refresh    *service.RefreshCoordinator
}

// NewSummaryHandler 创建 SummaryHandler
func NewSummaryHandler(summarySvc service.SummaryService, refresh *service.RefreshCoordinator) *SummaryHandler {
	return &SummaryHandler{summarySvc: summarySvc, refresh: refresh}
}

// GetSummaries 查询指定维度的汇总
// GET /api/v1/summaries/:view
func (h *SummaryHandler) GetSummaries(c *gin.Context) {
	view := c.Param("view")

	payload, err := h.summarySvc.GetSummaries(c.Request.Context(), view)
	if err != nil {
		if errors.Is(err, service.ErrUnknownView) {
			response.NotFound(c, 40001, "未知的汇总视图")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"view": view, "list": json.RawMessage(payload)})
}

// Refresh 同步整表重算全部汇总视图
// POST /api/v1/summaries/refresh
func (h *SummaryHandler) Refresh(c *gin.Context) {
	if err := h.refresh.RefreshAll(c.Request.Context()); err != nil {
		response.ErrorWithDetails(c, http.StatusInternalServerError, 40002, "部分汇总视图刷新失败", err.Error())
		return
	}
	response.OK(c, gin.H{"refreshed": true})
}
