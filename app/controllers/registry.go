package controllers

import (
	"github.com/admithub/backend-go/internal/auth"
	"github.com/admithub/backend-go/internal/services"
)

// ServiceRegistry 控制器依赖的服务集合，由bootstrap注入
type ServiceRegistry struct {
	Assistant *services.AssistantService
	Training  *services.TrainingService
	Knowledge *services.KnowledgeService
	Analytics *services.AnalyticsService
	FollowUp  *services.FollowUpService
	JWT       *auth.JWTService
}

var registry *ServiceRegistry

// SetRegistry 注入服务，必须在路由注册前调用
func SetRegistry(r *ServiceRegistry) {
	registry = r
}
