package main

import (
	"log"
	"strconv"

	"github.com/admithub/backend-go/app/bootstrap"
	"github.com/admithub/backend-go/app/router"
	"github.com/admithub/backend-go/internal/config"
	"github.com/admithub/backend-go/internal/logger"
	"github.com/beego/beego/v2/server/web"
	"go.uber.org/zap"
)

func main() {
	app, err := bootstrap.Init()
	if err != nil {
		log.Fatalf("failed to bootstrap application: %v", err)
	}
	defer app.Shutdown()

	router.Init(app.JWTService)

	web.BConfig.AppName = "Admissions Assistant"
	web.BConfig.CopyRequestBody = true
	if port, err := strconv.Atoi(config.AppConfig.Server.Port); err == nil {
		web.BConfig.Listen.HTTPPort = port
	}

	logger.Info("🚀 Starting Admissions Assistant", zap.Int("port", web.BConfig.Listen.HTTPPort))
	web.Run()
}
