package router

import (
	"github.com/admithub/backend-go/app/controllers"
	"github.com/admithub/backend-go/app/middleware"
	"github.com/admithub/backend-go/internal/auth"
	"github.com/beego/beego/v2/server/web"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Init registers all routes. Must be called after services are wired.
func Init(jwtService *auth.JWTService) {
	web.Router("/", &controllers.RootController{}, "get:Index")
	web.Router("/health", &controllers.HealthController{}, "get:Health")

	web.InsertFilter("/*", web.BeforeRouter, middleware.CORSMiddleware)
	web.Handler("/metrics", promhttp.Handler())

	// 对话与会话路由
	web.Router("/api/chat", &controllers.ChatController{}, "post:Post")
	web.Router("/api/sessions/:session_id/summary", &controllers.SessionController{}, "get:Summary")
	web.Router("/api/sessions/:session_id/context", &controllers.SessionController{}, "get:Context;delete:Clear")
	web.Router("/api/sessions/:session_id/history", &controllers.SessionController{}, "get:History")
	web.Router("/api/sessions/:session_id", &controllers.SessionController{}, "delete:Clear")
	web.Router("/api/feedback", &controllers.SessionController{}, "post:Feedback")

	// 跟进邮件
	web.Router("/api/followup", &controllers.FollowUpController{}, "post:Post")

	// 管理端认证
	web.Router("/api/auth/login", &controllers.AuthController{}, "post:Login")
	web.Router("/api/auth/refresh", &controllers.AuthController{}, "post:Refresh")

	// 管理端路由需要JWT
	authFilter := middleware.JWTAuthFilter(jwtService)
	web.InsertFilter("/api/knowledge", web.BeforeRouter, authFilter)
	web.InsertFilter("/api/knowledge/*", web.BeforeRouter, authFilter)
	web.InsertFilter("/api/training/*", web.BeforeRouter, authFilter)
	web.InsertFilter("/api/analytics", web.BeforeRouter, authFilter)
	web.InsertFilter("/api/analytics/*", web.BeforeRouter, authFilter)

	// 知识库管理路由
	knowledgeController := &controllers.KnowledgeController{}
	web.Router("/api/knowledge", knowledgeController, "get:List;post:Create")
	// 注意：具体路由必须在参数路由之前，否则/reindex会被:id匹配
	web.Router("/api/knowledge/search", knowledgeController, "get:Search")
	web.Router("/api/knowledge/reindex", knowledgeController, "post:Reindex")
	web.Router("/api/knowledge/stats", knowledgeController, "get:Stats")
	web.Router("/api/knowledge/:id", knowledgeController, "put:Update;delete:Delete")

	// 意图语料路由
	trainingController := &controllers.TrainingController{}
	web.Router("/api/training/intents", trainingController, "get:Intents")
	web.Router("/api/training/examples", trainingController, "post:AddExample")
	web.Router("/api/training/retrain", trainingController, "post:Retrain")

	// 统计报表路由
	analyticsController := &controllers.AnalyticsController{}
	web.Router("/api/analytics", analyticsController, "get:Report")
	web.Router("/api/analytics/popular-queries", analyticsController, "get:PopularQueries")
	web.Router("/api/analytics/low-confidence", analyticsController, "get:LowConfidence")
}
