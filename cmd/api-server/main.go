package main

import (
	"fmt"
	"log"

	"libraryhub/database"
	"libraryhub/internal/api"
	"libraryhub/internal/api/handler"
	"libraryhub/internal/api/repository"
	"libraryhub/internal/api/service"
	"libraryhub/internal/config"
	"libraryhub/internal/logging"
	"libraryhub/internal/notify"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logging.Init(cfg.LogLevel)

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}

	cache := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})

	// Repositories
	userRepo := repository.NewUserRepository(db)
	bookRepo := repository.NewBookRepository(db)
	borrowRepo := repository.NewBorrowRepository(db)

	// Services
	mailer := notify.NewMailer(cfg)
	authService := service.NewAuthService(userRepo, mailer, cfg)
	bookService := service.NewBookService(bookRepo, borrowRepo, cache, cfg)
	borrowService := service.NewBorrowService(borrowRepo, cache)
	reportService := service.NewReportService(userRepo, borrowRepo)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := api.NewRouter(cfg, authService, api.Handlers{
		Auth:   handler.NewAuthHandler(authService),
		Book:   handler.NewBookHandler(bookService),
		Borrow: handler.NewBorrowHandler(borrowService),
		Admin:  handler.NewAdminHandler(reportService),
		Health: handler.NewHealthHandler(db),
	})

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	logging.Logger.WithField("addr", addr).Info("server starting")
	if err := r.Run(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
