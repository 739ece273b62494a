package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/oakhollow/spotlight/internal/api"
	"github.com/oakhollow/spotlight/internal/config"
	"github.com/oakhollow/spotlight/internal/db"
	"github.com/oakhollow/spotlight/internal/mailer"
	"github.com/oakhollow/spotlight/internal/render"
	"github.com/oakhollow/spotlight/internal/services"
)

func main() {
	cfg := config.Load()
	time.Local = cfg.Location

	database, err := db.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}

	repositories := db.NewRepositories(database)
	cycles := services.NewCycleService(repositories.Publications, repositories.Submissions)
	if err := cycles.EnsureCurrentYear(time.Now().In(cfg.Location)); err != nil {
		log.Fatalf("cycle bootstrap failed: %v", err)
	}

	renderer, err := render.NewEmailRenderer()
	if err != nil {
		log.Fatalf("renderer init failed: %v", err)
	}

	handler := api.NewHandler(api.Dependencies{
		Database:   database,
		SecretKey:  cfg.SecretKey,
		Gateway:    services.NewAIClient(cfg.AIEndpoint, cfg.AIAPIKey, cfg.AIModel),
		Renderer:   renderer,
		Notifier:   mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPEmail, cfg.SMTPPassword),
		Recipients: cfg.Recipients,
		Location:   cfg.Location,
		Secure:     cfg.CookieSecure,
	})

	app := fiber.New(fiber.Config{
		AppName:               "Spotlight",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())

	api.RegisterRoutes(app, handler)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Printf("server shutdown failed: %v", err)
		}
	}()

	log.Printf("Spotlight listening on http://0.0.0.0:%s (db: %s, tz: %s)", cfg.Port, cfg.DBPath, cfg.Location.String())
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
