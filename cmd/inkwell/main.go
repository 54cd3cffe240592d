package main

import (
	"log"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/inkwell-dev/inkwell/db"
	"github.com/inkwell-dev/inkwell/internal/auth"
	"github.com/inkwell-dev/inkwell/internal/config"
	"github.com/inkwell-dev/inkwell/internal/handlers"
	"github.com/inkwell-dev/inkwell/internal/logger"
	"github.com/inkwell-dev/inkwell/internal/mailer"
	"github.com/inkwell-dev/inkwell/internal/middleware"
	"github.com/inkwell-dev/inkwell/internal/router"
	"github.com/inkwell-dev/inkwell/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	cfg, err := config.Load()

	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.LogLevel)

	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	database, err := db.Connect(cfg.DatabaseURL)

	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}

	if err := db.Migrate(database); err != nil {
		zlog.Fatal("failed to migrate database", zap.Error(err))
	}

	users := store.NewUserStore(database)
	notes := store.NewNoteStore(database)

	tokens := auth.NewTokenService(cfg.JWTSecret)
	otp := auth.NewOTPService(users)
	google := auth.NewGoogleVerifier(cfg.GoogleClientID)
	mail := mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.EmailUser, cfg.EmailPass)

	guard := middleware.NewAuthGuard(tokens, users)

	r := router.New(router.Deps{
		Auth:        handlers.NewAuthHandler(users, otp, tokens, google, mail, zlog),
		Notes:       handlers.NewNotesHandler(notes, zlog),
		Guard:       guard,
		CORSOrigins: cfg.CORSOrigins,
	})

	zlog.Info("starting server", zap.String("port", cfg.Port))

	if err := r.Run(":" + cfg.Port); err != nil {
		zlog.Fatal("failed to start server", zap.Error(err))
	}
}
