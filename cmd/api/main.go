package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/orbitlog/orbitlog/internal/config"
	"github.com/orbitlog/orbitlog/internal/friends"
	"github.com/orbitlog/orbitlog/internal/handlers"
	"github.com/orbitlog/orbitlog/internal/middleware"
	"github.com/orbitlog/orbitlog/internal/repository"
	"github.com/orbitlog/orbitlog/internal/services"
	"github.com/orbitlog/orbitlog/pkg/cache"
	"github.com/orbitlog/orbitlog/pkg/logger"
	"github.com/orbitlog/orbitlog/pkg/queue"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logger.NewLogger(cfg.Log.Level)
	logger.Info("Starting orbitlog API server...")

	db, err := repository.NewDatabase(&cfg.Database)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	if err := db.AutoMigrate(); err != nil {
		logger.WithError(err).Fatal("Failed to migrate database")
	}

	redisClient := cache.NewRedisClient(
		cfg.Redis.Addr(),
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Redis.PoolSize,
		cfg.Redis.MinIdleConns,
	)
	defer redisClient.Close()

	ctx := context.Background()
	if err := redisClient.Ping(ctx); err != nil {
		logger.WithError(err).Fatal("Failed to connect to Redis")
	}

	producer := queue.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topics.EngagementEvents)
	defer producer.Close()

	userRepo := repository.NewUserRepository(db.DB)
	profileRepo := repository.NewProfileRepository(db.DB)
	engagementRepo := repository.NewEngagementRepository(db.DB)
	tagRepo := repository.NewTagRepository(db.DB)
	badgeRepo := repository.NewBadgeRepository(db.DB)
	journalRepo := repository.NewJournalRepository(db.DB)

	friendService := friends.NewService(userRepo, profileRepo, engagementRepo, tagRepo, badgeRepo, logger)
	accountService := services.NewAccountService(userRepo, producer, logger)
	journalService := services.NewJournalService(journalRepo, userRepo, producer, logger)

	friendsHandler := handlers.NewFriendsHandler(friendService, producer, logger)
	accountHandler := handlers.NewAccountHandler(accountService, &cfg.JWT)
	journalHandler := handlers.NewJournalHandler(journalService)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().Unix(),
		})
	})

	jwtConfig := &middleware.JWTConfig{Secret: cfg.JWT.Secret}

	api := router.Group("/api/v1")
	{
		api.POST("/register", accountHandler.Register)
		api.POST("/login", accountHandler.Login)

		// 好友目录：列表和单条读允许匿名访问，登录时带上点赞视角
		friendsGroup := api.Group("/friends")
		friendsGroup.Use(middleware.NewOptionalJWTAuth(jwtConfig))
		{
			friendsGroup.GET("", friendsHandler.List)
			friendsGroup.GET("/:id", friendsHandler.Get)
		}

		protected := api.Group("")
		protected.Use(middleware.NewJWTAuth(jwtConfig))
		{
			protected.PUT("/friends/:id/profile", friendsHandler.UpdateProfile)
			protected.POST("/friends/:id/tags", friendsHandler.AddTag)
			protected.POST("/friends/:id/tags/:tagId/like", friendsHandler.LikeTag)

			protected.POST("/journal/posts", journalHandler.CreatePost)
			protected.GET("/journal/posts", journalHandler.ListPosts)
			protected.DELETE("/journal/posts/:id", journalHandler.DeletePost)
			protected.POST("/journal/posts/:id/like", journalHandler.LikePost)
			protected.DELETE("/journal/posts/:id/like", journalHandler.UnlikePost)
			protected.POST("/journal/posts/:id/comments", journalHandler.CreateComment)
			protected.GET("/journal/posts/:id/comments", journalHandler.ListComments)
			protected.DELETE("/journal/comments/:commentId", journalHandler.DeleteComment)
		}

		admin := api.Group("/admin")
		admin.Use(middleware.NewJWTAuth(jwtConfig), middleware.RequireAdmin())
		{
			admin.GET("/registrations", accountHandler.ListPending)
			admin.POST("/registrations/:id/approve", accountHandler.Approve)
			admin.POST("/registrations/:id/reject", accountHandler.Reject)

			admin.DELETE("/friends/:id/tags/:tagId", friendsHandler.RemoveTag)
			admin.POST("/friends/:id/badges", friendsHandler.AddBadge)
			admin.DELETE("/friends/:id/badges/:badgeId", friendsHandler.RemoveBadge)
		}
	}

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.WithField("port", cfg.Server.Port).Info("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Failed to start HTTP server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	logger.Info("Server exited")
}

func init() {
	if err := os.MkdirAll("configs", 0755); err != nil {
		log.Printf("Failed to create configs directory: %v", err)
	}

	configPath := "configs/config.yaml"
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := createDefaultConfig(configPath); err != nil {
			log.Printf("Failed to create default config: %v", err)
		}
	}
}

func createDefaultConfig(path string) error {
	defaultConfig := `server:
  port: ":8080"
  mode: "debug"
  read_timeout: 30s
  write_timeout: 30s

database:
  host: "localhost"
  port: 5432
  user: "orbitlog"
  password: "orbitlog"
  dbname: "orbitlog"
  sslmode: "disable"
  max_open_conns: 50
  max_idle_conns: 10

redis:
  host: "localhost"
  port: 6379
  password: ""
  db: 0
  pool_size: 50
  min_idle_conns: 5

kafka:
  brokers:
    - "localhost:9092"
  topics:
    engagement_events: "engagement-events"

jwt:
  secret: "change-me-in-production"
  expire_time: 24h

log:
  level: "info"`

	return os.WriteFile(path, []byte(defaultConfig), 0644)
}
