package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	config "github.com/maheshrc27/postforge/configs"
	"github.com/maheshrc27/postforge/internal/api/handlers"
	"github.com/maheshrc27/postforge/internal/api/middleware"
	job "github.com/maheshrc27/postforge/internal/jobs"
	"github.com/maheshrc27/postforge/internal/llm"
	"github.com/maheshrc27/postforge/internal/notifier"
	"github.com/maheshrc27/postforge/internal/queue"
	"github.com/maheshrc27/postforge/internal/repository"
	"github.com/maheshrc27/postforge/internal/scheduler"
	"github.com/maheshrc27/postforge/internal/service"
	"github.com/robfig/cron"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer closeDB(db)

	if err := db.Ping(); err != nil {
		log.Fatalf("Database is unreachable: %v", err)
	}

	redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
	client := asynq.NewClient(redisConn)
	defer client.Close()

	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Minute,
		WriteTimeout: 10 * time.Minute,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	accountRepo := repository.NewAccountRepository(db)
	postSetRepo := repository.NewPostSetRepository(db)
	postRepo := repository.NewPostRepository(db)
	dedupeRepo := repository.NewDedupeRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)
	learningRepo := repository.NewLearningRepository(db)

	llmClient := llm.NewClient(cfg.OpenAIBaseURL, cfg.DefaultModel)

	chain := scheduler.NewChain("succulent-social",
		scheduler.NewBulkAPIAdapter(cfg.SchedulerAPIURL),
		&scheduler.BufferExportAdapter{},
		&scheduler.LaterExportAdapter{},
		&scheduler.HootsuiteExportAdapter{},
		&scheduler.JSONExportAdapter{},
	)

	dedupeService := service.NewDedupeService(dedupeRepo)
	brandContextService := service.NewBrandContextService(learningRepo)
	costService := service.NewCostService(accountRepo)
	accountService := service.NewAccountService(*cfg, accountRepo)
	generationService := service.NewGenerationService(*cfg, db, accountRepo, postSetRepo, postRepo, dedupeService, brandContextService, costService, llmClient)
	approvalService := service.NewApprovalService(db, postSetRepo, postRepo, dedupeService, chain)
	feedbackService := service.NewFeedbackService(postRepo, postSetRepo, feedbackRepo)
	learningService := service.NewLearningService(*cfg, accountRepo, postRepo, feedbackRepo, learningRepo, llmClient)
	toneService := service.NewToneService(*cfg, accountRepo, llmClient)

	triggerMiddleware := middleware.NewTriggerMiddleware(*cfg)

	api := app.Group("/api")

	account := handlers.NewAccountHandler(accountService)
	api.Post("/accounts", account.CreateAccount)
	api.Get("/accounts", account.ListAccounts)
	api.Put("/accounts/:id", account.UpdateAccount)
	api.Delete("/accounts/:id", account.RemoveAccount)

	tone := handlers.NewToneHandler(toneService)
	api.Post("/analyze-tone", tone.AnalyzeTone)

	usage := handlers.NewUsageHandler(costService)
	api.Get("/usage", usage.MonthlyUsage)

	generate := handlers.NewGenerateHandler(*cfg, generationService, client)
	api.Post("/generate", generate.Generate)
	api.Get("/generate/stream", generate.GenerateStream)

	review := handlers.NewReviewHandler(approvalService, postSetRepo, postRepo, client)
	api.Get("/postsets", review.ListPostSets)
	api.Get("/postsets/:id", review.GetPostSet)
	api.Put("/postsets/:id/posts", review.UpdatePost)
	api.Post("/postsets/:id/approve", review.Approve)

	export := handlers.NewExportHandler(approvalService)
	api.Get("/postsets/:id/exports", export.ListExports)
	api.Get("/postsets/:id/exports/download", export.DownloadExport)

	feedback := handlers.NewFeedbackHandler(feedbackService, client)
	api.Post("/posts/:id/feedback", feedback.CreateFeedback)

	trigger := handlers.NewTriggerHandler(generationService, approvalService, accountRepo, postSetRepo, client)
	triggers := app.Group("/trigger")
	triggers.Use(triggerMiddleware.TriggerMiddleware())
	triggers.Post("/weekly", trigger.TriggerWeekly)
	triggers.Post("/autosend", trigger.TriggerAutosend)

	// cron jobs
	weeklyJob := job.NewWeeklyGenerationJob(*cfg, generationService, client)

	// queue
	n := notifier.NewNotifier(*cfg)
	queueW := queue.NewQueue(n, learningService)

	c := cron.New()
	c.AddFunc("0 0 6 * * 1", weeklyJob.Run)
	c.Start()

	go func() {
		server := asynq.NewServer(redisConn, asynq.Config{
			Concurrency: 10,
		})

		mux := asynq.NewServeMux()
		mux.HandleFunc(queue.TaskTypeNotify, queueW.HandleNotifyTask)
		mux.HandleFunc(queue.TaskTypeLearning, queueW.HandleLearningTask)

		log.Println("Starting the Asynq server...")
		if err := server.Run(mux); err != nil {
			log.Fatalf("Could not start Asynq server: %v", err)
		}
	}()

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Println("Server is running on port " + cfg.Port)

	gracefulShutdown(app, db)
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, db *sql.DB) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}

	closeDB(db)
	log.Println("Server shutdown complete.")
}
