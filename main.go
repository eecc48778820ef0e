package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"giveaway-system/config"
	"giveaway-system/database"
	"giveaway-system/giveaway"
	"giveaway-system/handlers"
	"giveaway-system/logging"
	"giveaway-system/middleware"
	"giveaway-system/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env file not found, using system environment")
	}
	cfg := config.Load()

	if err := logging.InitLogger(cfg.Env == "release"); err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logging.Logger.Sync()

	if err := database.InitDB(cfg); err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer database.CloseDB()

	svc := giveaway.New(store.NewPostgresStore(database.Pool), logging.Logger)
	handlers.InitGiveawayHandlers(svc, cfg)

	if cfg.Env == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.SetTrustedProxies(cfg.TrustedProxies)
	r.Use(middleware.SetupCORS(cfg))

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthHandler)

		giveaways := api.Group("/giveaways")
		{
			giveaways.POST("/:id/entries",
				middleware.RateLimit(cfg.EntryRateLimit, cfg.EntryRateWindow),
				handlers.EnterGiveawayHandler)
			giveaways.POST("/:id/lookup", handlers.LookupEntryHandler)
			giveaways.POST("/:id/bonus", handlers.ClaimBonusHandler)
		}

		admin := api.Group("/admin")
		admin.Use(middleware.AdminKeyMiddleware(cfg))
		{
			admin.POST("/giveaways", handlers.CreateGiveawayHandler)
			admin.GET("/giveaways/:id", handlers.GetGiveawayHandler)
			admin.GET("/giveaways/:id/entries", handlers.ListEntriesHandler)
			admin.POST("/giveaways/:id/select-winners", handlers.SelectWinnersHandler)
			admin.GET("/giveaways/:id/winners", handlers.ListWinnersHandler)
		}
	}

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	port := ":" + cfg.Port
	fmt.Printf("giveaway service listening on %s\n", port)
	log.Printf("server started on port %s", port)
	if err := r.Run(port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
