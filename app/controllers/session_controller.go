package controllers

import (
	"net/http"

	"github.com/admithub/backend-go/internal/models"
)

// SessionController 会话管理接口
type SessionController struct {
	BaseController
}

// Summary 会话摘要
func (c *SessionController) Summary() {
	sessionID := c.Ctx.Input.Param(":session_id")
	if sessionID == "" {
		c.JSONError(http.StatusBadRequest, "session_id is required")
		return
	}
	c.JSONSuccess(registry.Assistant.Summary(sessionID))
}

// Context 会话上下文快照
func (c *SessionController) Context() {
	sessionID := c.Ctx.Input.Param(":session_id")
	if sessionID == "" {
		c.JSONError(http.StatusBadRequest, "session_id is required")
		return
	}
	c.JSONSuccess(registry.Assistant.Context(sessionID))
}

// History 持久化的会话历史
func (c *SessionController) History() {
	sessionID := c.Ctx.Input.Param(":session_id")
	if sessionID == "" {
		c.JSONError(http.StatusBadRequest, "session_id is required")
		return
	}
	limit, _ := c.GetInt("limit", 50)

	history, err := registry.Analytics.SessionHistory(c.Ctx.Request.Context(), sessionID, limit)
	if err != nil {
		c.JSONAppError(err)
		return
	}
	c.JSONSuccess(history)
}

// Clear 清除会话上下文
func (c *SessionController) Clear() {
	sessionID := c.Ctx.Input.Param(":session_id")
	if sessionID == "" {
		c.JSONError(http.StatusBadRequest, "session_id is required")
		return
	}
	registry.Assistant.ClearSession(c.Ctx.Request.Context(), sessionID)
	c.JSONSuccess(map[string]string{"session_id": sessionID, "status": "cleared"})
}

// FeedbackRequest 用户反馈请求
type FeedbackRequest struct {
	SessionID     string `json:"session_id" validate:"required"`
	InteractionID *uint  `json:"interaction_id"`
	FeedbackType  string `json:"feedback_type" validate:"required,oneof=helpful not_helpful rating"`
	Rating        int    `json:"rating" validate:"omitempty,min=1,max=5"`
	Comments      string `json:"comments" validate:"max=1000"`
}

// Feedback 提交用户反馈
func (c *SessionController) Feedback() {
	var req FeedbackRequest
	if !c.BindAndValidate(&req) {
		return
	}

	feedback := &models.UserFeedback{
		SessionID:     req.SessionID,
		InteractionID: req.InteractionID,
		FeedbackType:  req.FeedbackType,
		Rating:        req.Rating,
		Comments:      req.Comments,
	}
	if err := registry.Analytics.SaveFeedback(c.Ctx.Request.Context(), feedback); err != nil {
		c.JSONAppError(err)
		return
	}
	c.JSONSuccess(map[string]string{"status": "saved"})
}
