package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/UraN9/curriculum-parser/internal/dto"
	"github.com/UraN9/curriculum-parser/internal/service"
	"github.com/UraN9/curriculum-parser/pkg/response"
)

// CurriculumHandler 课程数据模块 HTTP 处理器
type CurriculumHandler struct {
	currSvc service.CurriculumService
}

// NewCurriculumHandler 创建 CurriculumHandler
func NewCurriculumHandler(currSvc service.CurriculumService) *CurriculumHandler {
	return &CurriculumHandler{currSvc: currSvc}
}

// ListDisciplines 学科列表
// GET /api/v1/disciplines
func (h *CurriculumHandler) ListDisciplines(c *gin.Context) {
	disciplines, err := h.currSvc.ListDisciplines(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": disciplines})
}

// ListSections 章节列表
// GET /api/v1/sections?discipline_id=
func (h *CurriculumHandler) ListSections(c *gin.Context) {
	disciplineID, _ := strconv.Atoi(c.DefaultQuery("discipline_id", "0"))
	sections, err := h.currSvc.ListSections(c.Request.Context(), disciplineID)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": sections})
}

// ListThemes 主题列表
// GET /api/v1/themes?section_id=
func (h *CurriculumHandler) ListThemes(c *gin.Context) {
	sectionID, _ := strconv.Atoi(c.DefaultQuery("section_id", "0"))
	themes, err := h.currSvc.ListThemes(c.Request.Context(), sectionID)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": themes})
}

// ListActivities 活动列表
// GET /api/v1/activities?theme_id=
func (h *CurriculumHandler) ListActivities(c *gin.Context) {
	themeID, _ := strconv.Atoi(c.DefaultQuery("theme_id", "0"))
	activities, err := h.currSvc.ListActivities(c.Request.Context(), themeID)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": activities})
}

// GetActivity 教学活动详情
// GET /api/v1/activities/:id
func (h *CurriculumHandler) GetActivity(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		response.BadRequest(c, 10001, "活动ID非法")
		return
	}

	activity, err := h.currSvc.GetActivity(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrActivityNotFound) {
			response.NotFound(c, 30001, "教学活动不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, activity)
}

// CreateActivity 创建教学活动
// POST /api/v1/activities
func (h *CurriculumHandler) CreateActivity(c *gin.Context) {
	var req dto.CreateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	activity, err := h.currSvc.CreateActivity(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrThemeNotFound) {
			response.NotFound(c, 30002, "主题不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.Created(c, activity)
}

// UpdateActivity 更新教学活动
// PUT /api/v1/activities/:id
func (h *CurriculumHandler) UpdateActivity(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		response.BadRequest(c, 10001, "活动ID非法")
		return
	}
	var req dto.UpdateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	activity, err := h.currSvc.UpdateActivity(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrActivityNotFound) {
			response.NotFound(c, 30001, "教学活动不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, activity)
}

// DeleteActivity 删除教学活动
// DELETE /api/v1/activities/:id
func (h *CurriculumHandler) DeleteActivity(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		response.BadRequest(c, 10001, "活动ID非法")
		return
	}

	if err := h.currSvc.DeleteActivity(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrActivityNotFound) {
			response.NotFound(c, 30001, "教学活动不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"deleted": true})
}
