package controllers

import (
	"crypto/subtle"
	"net/http"

	"github.com/admithub/backend-go/internal/auth"
	"github.com/admithub/backend-go/internal/config"
)

// LoginRequest 管理端登录请求
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,max=200"`
}

// AuthController 管理端认证接口
type AuthController struct {
	BaseController
}

// Login 校验管理员账号并签发token
func (c *AuthController) Login() {
	var req LoginRequest
	if !c.BindAndValidate(&req) {
		return
	}

	admin := config.AppConfig.Admin
	if admin.Password == "" {
		c.JSONError(http.StatusForbidden, "admin login is disabled")
		return
	}

	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(admin.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(admin.Password)) == 1
	if !userOK || !passOK {
		c.JSONError(http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := registry.JWT.GenerateToken(1, admin.Username, auth.RoleAdmin)
	if err != nil {
		c.JSONError(http.StatusInternalServerError, "failed to issue token")
		return
	}

	c.JSONSuccess(map[string]string{"token": token, "role": auth.RoleAdmin})
}

// Refresh 刷新token
func (c *AuthController) Refresh() {
	tokenString, err := auth.ExtractTokenFromHeader(c.Ctx.Input.Header("Authorization"))
	if err != nil {
		c.JSONError(http.StatusUnauthorized, err.Error())
		return
	}

	token, err := registry.JWT.RefreshToken(tokenString)
	if err != nil {
		c.JSONError(http.StatusUnauthorized, "invalid token")
		return
	}
	c.JSONSuccess(map[string]string{"token": token})
}
