package controllers

import (
	"encoding/json"
	"net/http"
	"strings"

	apperrors "github.com/admithub/backend-go/internal/errors"
	"github.com/beego/beego/v2/server/web"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// BaseController provides helpers for consistent JSON responses.
type BaseController struct {
	web.Controller
}

// JSON writes a JSON response with the supplied HTTP status code.
func (c *BaseController) JSON(status int, payload interface{}) {
	c.Ctx.Output.SetStatus(status)
	c.Data["json"] = payload
	c.ServeJSON()
}

// JSONSuccess writes a standard success envelope.
func (c *BaseController) JSONSuccess(data interface{}) {
	c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    data,
	})
}

// JSONError writes an error envelope with message.
func (c *BaseController) JSONError(status int, message string) {
	c.JSON(status, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}

// JSONAppError 按错误类型写出对应的HTTP状态码
func (c *BaseController) JSONAppError(err error) {
	if appErr, ok := err.(*apperrors.AppError); ok {
		c.JSON(appErr.HTTPCode, map[string]interface{}{
			"success": false,
			"error":   appErr.Message,
			"code":    appErr.Code,
		})
		return
	}
	c.JSONError(http.StatusInternalServerError, "internal server error")
}

// BindAndValidate 解析请求体并按validator标签校验
func (c *BaseController) BindAndValidate(target interface{}) bool {
	if err := json.Unmarshal(c.Ctx.Input.RequestBody, target); err != nil {
		c.JSONError(http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := validate.Struct(target); err != nil {
		c.JSONError(http.StatusBadRequest, validationMessage(err))
		return false
	}
	return true
}

func validationMessage(err error) string {
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		first := verrs[0]
		return strings.ToLower(first.Field()) + " failed on " + first.Tag() + " validation"
	}
	return err.Error()
}

// getClientIP 获取客户端真实IP地址
func (c *BaseController) getClientIP() string {
	if forwarded := c.Ctx.Input.Header("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	if realIP := c.Ctx.Input.Header("X-Real-Ip"); realIP != "" {
		return realIP
	}
	return c.Ctx.Input.IP()
}
