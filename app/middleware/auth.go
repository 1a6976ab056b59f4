package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/admithub/backend-go/internal/auth"
	"github.com/admithub/backend-go/internal/logger"
	"github.com/beego/beego/v2/server/web/context"
	"go.uber.org/zap"
)

// ClaimsKey 校验通过后声明写入请求上下文的键
const ClaimsKey = "staff_claims"

// JWTAuthFilter 管理端路由的JWT校验过滤器
func JWTAuthFilter(jwtService *auth.JWTService) func(ctx *context.Context) {
	return func(ctx *context.Context) {
		tokenString, err := auth.ExtractTokenFromHeader(ctx.Input.Header("Authorization"))
		if err != nil {
			deny(ctx, err.Error())
			return
		}

		claims, err := jwtService.ValidateToken(tokenString)
		if err != nil {
			logger.Warn("token validation failed",
				zap.String("path", ctx.Request.RequestURI), zap.Error(err))
			deny(ctx, "invalid or expired token")
			return
		}

		ctx.Input.SetData(ClaimsKey, claims)
	}
}

func deny(ctx *context.Context, message string) {
	ctx.Output.SetStatus(http.StatusUnauthorized)
	body, _ := json.Marshal(map[string]interface{}{
		"success": false,
		"error":   message,
	})
	ctx.Output.Header("Content-Type", "application/json; charset=utf-8")
	ctx.Output.Body(body)
}
