package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/unibridge/bridge-go-api/internal/config"
	"github.com/unibridge/bridge-go-api/internal/database"
	"github.com/unibridge/bridge-go-api/internal/handler"
	"github.com/unibridge/bridge-go-api/internal/middleware"
	"github.com/unibridge/bridge-go-api/internal/observability"
	"github.com/unibridge/bridge-go-api/internal/repository"
	"github.com/unibridge/bridge-go-api/internal/router"
	"github.com/unibridge/bridge-go-api/internal/service"
	gh "github.com/unibridge/bridge-go-api/pkg/github"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	connectCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	db, err := database.ConnectMongo(connectCtx, cfg.MongoURL, cfg.MongoDatabase)
	if err != nil {
		log.Fatalf("failed to connect to mongodb: %v", err)
	}
	if err := database.EnsureIndexes(connectCtx, db); err != nil {
		log.Fatalf("failed to create indexes: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Close()
	}
	events := service.NewNATSImportEvents(natsConn, cfg.NATSSubject, logger)

	observability.RegisterMetrics()

	var githubAuth gh.AuthProvider = gh.AnonymousAuth{}
	if cfg.GithubUseAuth {
		githubAuth, err = gh.NewAppAuth(gh.AppAuthConfig{
			AppID:            cfg.GithubAppID,
			InstallationID:   cfg.GithubInstallationID,
			PrivateKeyBase64: cfg.GithubPrivateKeyBase64,
		}, logger)
		if err != nil {
			log.Fatalf("failed to configure github app auth: %v", err)
		}
	}
	githubClient := gh.NewClient(gh.ClientConfig{Auth: githubAuth}, logger)

	validate := validator.New(validator.WithRequiredStructEnabled())

	courseRepo := repository.NewCourseRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	problemRepo := repository.NewSubmissionProblemRepository(db)

	courseService := service.NewCourseService(courseRepo, validate, logger)
	studentService := service.NewStudentService(studentRepo, validate, logger)
	enrollmentService := service.NewEnrollmentService(studentRepo, courseRepo, enrollmentRepo, events, logger)
	submissionService := service.NewSubmissionService(problemRepo, validate, redisClient, cfg.SubmissionCacheTTL, events, logger)
	githubService := service.NewGithubService(studentRepo, githubClient, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		CourseHandler:     handler.NewCourseHandler(courseService, logger),
		StudentHandler:    handler.NewStudentHandler(studentService, logger),
		EnrollmentHandler: handler.NewEnrollmentHandler(enrollmentService, logger),
		SubmissionHandler: handler.NewSubmissionHandler(submissionService, logger),
		GithubHandler:     handler.NewGithubHandler(githubService, logger),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
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

	log.Println("server stopped")
}
