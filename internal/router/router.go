package router

import (
	"time"

	"refearn/config"
	"refearn/internal/cache"
	"refearn/internal/handler"
	"refearn/internal/middleware"
	"refearn/internal/repository"
	"refearn/internal/service"
	"refearn/internal/ws"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, cacheClient *cache.Client) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewRateLimiter(100, 60*time.Second)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	txnRepo := repository.NewTransactionRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db, cfg.Commission.CommitAttempts, cfg.Commission.CommitTimeout)
	settingRepo := repository.NewSettingRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// Live-connection registry, torn down with the process.
	hub := ws.NewHub()

	// Services
	policy := service.NewPolicyProvider(settingRepo, cfg.Commission)
	dispatcher := service.NewDispatcher(hub, notificationRepo, cacheClient, cfg.Commission.DispatchTimeout)
	purchaseSvc := service.NewPurchaseService(userRepo, txnRepo, ledgerRepo, dispatcher, policy)
	registrySvc := service.NewRegistryService(userRepo, settingRepo, cfg.Commission.MaxReferrals)

	// Handlers
	purchaseHandler := handler.NewPurchaseHandler(purchaseSvc)
	earningHandler := handler.NewEarningHandler(ledgerRepo, cacheClient)
	userHandler := handler.NewUserHandler(registrySvc, userRepo)
	notificationHandler := handler.NewNotificationHandler(notificationRepo)

	api := r.Group("/api")
	{
		api.POST("/purchase", purchaseHandler.Process)
		api.POST("/transactions/:reference/distribute", purchaseHandler.RetryDistribution)
		api.GET("/earnings", earningHandler.List)
		api.POST("/users", userHandler.Register)
		api.GET("/user", userHandler.GetByName)
		api.GET("/referrals", userHandler.ListReferrals)
		api.GET("/notifications", notificationHandler.List)
		api.PUT("/notifications/:id/read", notificationHandler.MarkRead)
	}

	r.GET("/ws/earnings", ws.UpgradeEarningsWS(hub))

	return r
}
