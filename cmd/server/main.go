package main

import (
	"log"

	"go-password-vault/internal/api"
	"go-password-vault/internal/middleware"
	"go-password-vault/internal/repository"
	"go-password-vault/internal/service"
	"go-password-vault/pkg/config"
	"go-password-vault/pkg/db"
	"go-password-vault/pkg/logger"
	"go-password-vault/pkg/metrics"

	"github.com/gin-gonic/gin"
)

func main() {
	// 初始化配置
	if err := config.Init(); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化日志
	if err := logger.InitLogger(config.GlobalConfig.Log.Level, config.GlobalConfig.Log.ProductionMode); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// 初始化数据库连接
	if err := db.InitDB(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// 注册指标
	metrics.Init()

	// 存储库
	userRepo := repository.NewUserRepository()
	passwordRepo := repository.NewPasswordRepository()
	orgRepo := repository.NewOrganizationRepository()
	shareRepo := repository.NewShareRepository()

	// 服务
	authService := service.NewAuthService(userRepo)
	passwordService := service.NewPasswordService(passwordRepo, service.DefaultPolicy())
	orgService := service.NewOrganizationService(orgRepo, userRepo)
	shareService := service.NewShareService(shareRepo, passwordRepo, userRepo, config.GlobalConfig.Vault.BaseURL)
	accessService := service.NewAccessService(userRepo, passwordRepo, orgRepo, shareRepo)

	// 处理器
	authHandler := api.NewAuthHandler(authService, userRepo)
	passwordHandler := api.NewPasswordHandler(passwordService, accessService)
	orgHandler := api.NewOrganizationHandler(orgService)
	shareHandler := api.NewShareHandler(shareService, passwordService, accessService)

	// 创建Gin引擎
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.GinZapLogger())
	r.Use(metrics.Instrument())

	r.GET("/metrics", metrics.Handler())

	// 公开路由
	r.POST("/api/register", authHandler.Register)
	r.POST("/api/token", authHandler.Login)

	// 受保护的路由
	protected := r.Group("/api")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.GET("/users/me", authHandler.Me)
		protected.GET("/permissions", authHandler.Permissions)

		protected.POST("/passwords", passwordHandler.Create)
		protected.GET("/passwords", passwordHandler.List)
		protected.GET("/passwords/:id", passwordHandler.Get)
		protected.PATCH("/passwords/:id", passwordHandler.Update)
		protected.DELETE("/passwords/:id", passwordHandler.Delete)
		protected.GET("/passwords/:id/shares", shareHandler.ListForPassword)

		protected.POST("/organizations", orgHandler.Create)
		protected.GET("/organizations", orgHandler.List)
		protected.GET("/organizations/:id", orgHandler.Get)
		protected.POST("/organizations/:id/join-as-member", orgHandler.JoinMember)
		protected.POST("/organizations/:id/add-passwords", orgHandler.AddPasswords)

		protected.POST("/shares", shareHandler.Create)
		protected.GET("/shares", shareHandler.ListSharedWithMe)
		protected.DELETE("/shares/:id", shareHandler.Delete)
		protected.GET("/shared-passwords/:id", shareHandler.SharedPassword)
	}

	// 启动服务器
	addr := config.GlobalConfig.Server.Addr
	if addr == "" {
		addr = ":8080"
	}
	if err := r.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
