package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "boardsync/docs"
	"boardsync/internal/auth"
	"boardsync/internal/config"
	"boardsync/internal/database"
	"boardsync/internal/handler"
	"boardsync/internal/middleware"
	"boardsync/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client
	Config *config.Config

	log *logrus.Logger
}

func Init(cfg *config.Config, log *logrus.Logger) (*Server, error) {
	db, err := database.Open(cfg)
	if err != nil {
		return nil, err
	}
	log.Info("connected to database")

	rdb := connectRedis(cfg, log)

	return &Server{
		Engine: NewRouter(cfg, db, rdb, log),
		DB:     db,
		Redis:  rdb,
		Config: cfg,
		log:    log,
	}, nil
}

// connectRedis returns nil when no address is configured or the server is
// unreachable; the columns endpoint then reads straight from postgres.
func connectRedis(cfg *config.Config, log *logrus.Logger) *redis.Client {
	if cfg.RedisAddr == "" {
		log.Info("REDIS_ADDR not set, columns cache disabled")
		return nil
	}
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.WithError(err).WithField("addr", cfg.RedisAddr).Warn("redis unreachable, columns cache disabled")
		_ = rdb.Close()
		return nil
	}
	log.WithField("addr", cfg.RedisAddr).Info("connected to redis")
	return rdb
}

// NewRouter wires repositories and handlers onto a gin engine.
func NewRouter(cfg *config.Config, db *gorm.DB, rdb *redis.Client, log *logrus.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))

	userRepo := repository.NewUserRepository(db)
	boardRepo := repository.NewBoardRepository(db)
	columnRepo := repository.NewColumnRepository(db)
	cardRepo := repository.NewCardRepository(db)
	labelRepo := repository.NewLabelRepository(db)
	columnCache := repository.NewColumnCache(columnRepo, rdb, cfg.ColumnsCacheTTL, log)

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTExpiry)

	userHandler := handler.NewUserHandler(userRepo, tokens)
	boardHandler := handler.NewBoardHandler(boardRepo)
	columnHandler := handler.NewColumnHandler(columnRepo, boardRepo, columnCache)
	labelHandler := handler.NewLabelHandler(labelRepo, boardRepo)
	cardHandler := handler.NewCardHandler(cardRepo, columnRepo, boardRepo, labelRepo, userRepo, columnCache, log)

	r.POST("/register", userHandler.Register)
	r.POST("/login", userHandler.Login)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	authorized := r.Group("/")
	authorized.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	{
		authorized.POST("/boards", boardHandler.Create)
		authorized.GET("/boards", boardHandler.GetAll)
		authorized.GET("/boards/:id", boardHandler.GetByID)

		authorized.POST("/columns", columnHandler.Create)
		authorized.GET("/boards/:id/columns", columnHandler.GetByBoard)
		authorized.PATCH("/boards/:id/columns/order", columnHandler.Reorder)

		authorized.POST("/labels", labelHandler.Create)
		authorized.GET("/boards/:id/labels", labelHandler.GetByBoardID)

		authorized.POST("/cards", cardHandler.Create)
		authorized.GET("/cards/:id", cardHandler.GetByID)
		authorized.PATCH("/cards/:id/column", cardHandler.UpdateColumn)
		authorized.PATCH("/cards/:id/order", cardHandler.UpdateOrder)
	}
	return r
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	go func() {
		s.log.WithField("port", s.Config.ServerPort).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.WithError(err).Fatal("failed to listen")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	s.log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		s.log.WithError(err).Fatal("server forced to shutdown")
	}
	if s.Redis != nil {
		_ = s.Redis.Close()
	}
	if sqlDB, err := s.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}

	s.log.Info("server exited")
}
