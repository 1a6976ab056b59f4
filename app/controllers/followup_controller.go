package controllers

import (
	"time"
)

// FollowUpRequest 跟进邮件请求
type FollowUpRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Name        string `json:"name" validate:"omitempty,max=100"`
	InquiryType string `json:"inquiry_type" validate:"omitempty,max=64"`
	SessionID   string `json:"session_id"`
}

// FollowUpController 跟进邮件接口
type FollowUpController struct {
	BaseController
}

// Post 发送跟进邮件
func (c *FollowUpController) Post() {
	var req FollowUpRequest
	if !c.BindAndValidate(&req) {
		return
	}
	if req.InquiryType == "" {
		req.InquiryType = "general"
	}

	err := registry.FollowUp.SendFollowUp(
		c.Ctx.Request.Context(), req.Email, req.Name, req.InquiryType, req.SessionID)
	if err != nil {
		c.JSONAppError(err)
		return
	}

	c.JSONSuccess(map[string]string{
		"message":   "Follow-up email sent successfully",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
