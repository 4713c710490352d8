package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"linkup/chat"
	"linkup/config"
	"linkup/handlers"
	"linkup/middleware"
	"linkup/posts"
	"linkup/realtime"
	"linkup/social"
	"linkup/store"

	"github.com/gin-gonic/gin"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	db, err := gorm.Open(mysql.Open(cfg.MySQLDSN), &gorm.Config{TranslateError: true})
	if err != nil {
		logger.Error("mysql connection failed", "error", err)
		os.Exit(1)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	minioClient, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		logger.Error("minio connection failed", "error", err)
		os.Exit(1)
	}

	st := store.New(db, rdb, logger)
	if err := st.AutoMigrate(); err != nil {
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	hub := realtime.NewHub(logger)
	bus := realtime.NewRedisBus(rdb, hub, logger)
	go bus.Run(ctx)

	go func() {
		ticker := time.NewTicker(cfg.LikeSyncInterval)
		for range ticker.C {
			st.SyncLikeCounts(ctx)
		}
	}()

	h := &handlers.Handler{
		Social: social.NewManager(st, logger),
		Posts:  posts.NewService(st, logger),
		Chat:   chat.NewService(st, bus, logger),
		Store:  st,
		Minio:  minioClient,
		Cfg:    cfg,
		Logger: logger,
	}

	r := gin.Default()

	api := r.Group("/api/v1")
	api.POST("/auth/register", h.Register)
	api.POST("/auth/login", h.Login)

	auth := api.Group("/")
	auth.Use(middleware.Auth(cfg.JWTSecret))
	{
		auth.GET("/me", h.GetMe)
		auth.PATCH("/me", h.UpdateMe)
		auth.DELETE("/me", h.DeleteMe)
		auth.GET("/users/:id", h.GetUser)
		auth.POST("/users/:id/follow", h.Follow)
		auth.POST("/users/:id/unfollow", h.Unfollow)

		auth.POST("/posts", h.CreatePost)
		auth.GET("/posts", h.ListPosts)
		auth.GET("/posts/:id", h.GetPost)
		auth.PATCH("/posts/:id", h.UpdatePost)
		auth.DELETE("/posts/:id", h.DeletePost)
		auth.POST("/posts/:id/like", h.LikePost)
		auth.POST("/posts/:id/comment", h.CommentPost)

		auth.POST("/messages", h.SendMessage)
		auth.GET("/messages/:userId", h.GetMessages)

		auth.POST("/upload", h.UploadImage)
	}

	r.GET("/ws", realtime.ServeWS(hub, logger))

	if err := r.Run(cfg.Addr); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
