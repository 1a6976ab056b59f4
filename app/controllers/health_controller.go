package controllers

import (
	"net/http"
	"time"

	"github.com/admithub/backend-go/internal/config"
	"github.com/admithub/backend-go/internal/database"
)

// RootController 服务入口信息
type RootController struct {
	BaseController
}

func (c *RootController) Index() {
	c.JSON(http.StatusOK, map[string]interface{}{
		"service": "admissions-assistant",
		"status":  "running",
		"docs":    "/health",
	})
}

// HealthController 健康检查
type HealthController struct {
	BaseController
}

// Health 汇报各组件状态
func (c *HealthController) Health() {
	components := map[string]string{
		"nlu":       componentStatus(registry.Training != nil),
		"retrieval": componentStatus(registry.Knowledge != nil),
		"dialogue":  componentStatus(registry.Assistant != nil),
	}

	if config.AppConfig.Database.Enabled {
		components["database"] = "down"
		if database.DB != nil {
			if sqlDB, err := database.DB.DB(); err == nil && sqlDB.Ping() == nil {
				components["database"] = "healthy"
			}
		}
	}
	if config.AppConfig.Redis.Enabled {
		components["redis"] = "down"
		if database.RedisClient != nil {
			ctx := c.Ctx.Request.Context()
			if database.RedisClient.Ping(ctx).Err() == nil {
				components["redis"] = "healthy"
			}
		}
	}

	status := "healthy"
	for _, s := range components {
		if s != "healthy" && s != "initialized" {
			status = "degraded"
			break
		}
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"status":     status,
		"components": components,
		"timestamp":  time.Now().Format(time.RFC3339),
	})
}

func componentStatus(up bool) string {
	if up {
		return "initialized"
	}
	return "down"
}
