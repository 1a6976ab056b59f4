package controllers

import (
	"net/http"
	"strings"

	"github.com/admithub/backend-go/internal/logger"
	"go.uber.org/zap"
)

// ChatRequest 咨询请求
type ChatRequest struct {
	Message   string `json:"message" validate:"required,max=2000"`
	SessionID string `json:"session_id"`
	Channel   string `json:"channel" validate:"omitempty,oneof=chat web voice"`
}

// ChatController 咨询对话接口
type ChatController struct {
	BaseController
}

// Post 处理一条用户咨询
func (c *ChatController) Post() {
	var req ChatRequest
	if !c.BindAndValidate(&req) {
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		c.JSONError(http.StatusBadRequest, "message is required")
		return
	}

	reply, err := registry.Assistant.ProcessInquiry(
		c.Ctx.Request.Context(), req.SessionID, req.Message, req.Channel)
	if err != nil {
		logger.Error("failed to process inquiry",
			zap.String("session_id", req.SessionID), zap.Error(err))
		c.JSONAppError(err)
		return
	}

	logger.Info("inquiry handled",
		zap.String("session_id", reply.SessionID),
		zap.String("intent", reply.Intent),
		zap.String("client_ip", c.getClientIP()))
	c.JSON(http.StatusOK, reply)
}
