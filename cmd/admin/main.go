package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	"github.com/unibridge/bridge-go-api/internal/config"
	"github.com/unibridge/bridge-go-api/internal/repository/memory"
	"github.com/unibridge/bridge-go-api/internal/service"
	"github.com/unibridge/bridge-go-api/internal/webadmin"
)

func main() {
	mockMode := flag.Bool("mock", false, "serve against an in-memory course store instead of the bridge API")
	flag.Parse()

	cfg, err := config.LoadAdmin()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	var directory webadmin.CourseDirectory
	if *mockMode {
		validate := validator.New(validator.WithRequiredStructEnabled())
		courses := service.NewCourseService(memory.NewCourseRepository(), validate, logger)
		directory = webadmin.NewServiceDirectory(courses)
		logger.Info().Msg("running in mock mode with an in-memory course store")
	} else {
		directory = webadmin.NewRESTDirectory(cfg.AdminAPIBaseURL, nil, logger)
	}

	adminHandler, err := webadmin.NewHandler(directory, logger)
	if err != nil {
		log.Fatalf("failed to initialise admin handler: %v", err)
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName + " Admin",
		ServerHeader: cfg.AppName,
	})
	app.Use(recover.New())
	adminHandler.Register(app)

	go func() {
		if err := app.Listen(cfg.AdminHTTPAddress()); err != nil {
			log.Fatalf("failed to start admin server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("admin server stopped")
}
