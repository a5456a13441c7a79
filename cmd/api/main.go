package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"mind-maze/internal/adapter"
	"mind-maze/internal/adapter/modelclient"
	"mind-maze/internal/cache"
	"mind-maze/internal/config"
	"mind-maze/internal/database"
	"mind-maze/internal/handler"
	"mind-maze/internal/logger"
	"mind-maze/internal/middleware"
	"mind-maze/internal/repository"
	"mind-maze/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		duration := time.Since(start)
		status := c.Response().StatusCode()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("ip", c.IP()),
			zap.String("user_agent", c.Get("User-Agent")),
		)

		return err
	}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	// Connect to database
	db, err := database.NewSQLXOracleDB(cfg.GetDSN())
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("Successfully connected to Oracle database")

	// Connect to Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	appLogger.Info("Successfully connected to Redis")
	cacheAdapter := adapter.NewRedisCacheAdapter(redisClient)

	// Model client
	ollamaClient, err := modelclient.NewOllamaClient(cfg.LLM)
	if err != nil {
		appLogger.Fatal("Failed to create Ollama client", zap.Error(err))
	}
	appLogger.Info("Ollama client initialized",
		zap.String("server_url", cfg.LLM.ServerURL),
		zap.String("model", cfg.LLM.Model))

	// Repositories
	quizRepository := repository.NewQuizDatabaseAdapter(db)
	questionRepository := repository.NewQuestionDatabaseAdapter(db)
	progressRepository := repository.NewProgressDatabaseAdapter(db)
	userRepository := repository.NewSQLXUserRepository(db)
	txManager := repository.NewTransactionManagerAdapter(db)

	// Services
	questionCache := service.NewQuestionCache(questionRepository, cacheAdapter)
	generationService := service.NewGenerationService(
		quizRepository,
		questionRepository,
		ollamaClient,
		service.NewResponseParser(),
		cfg.Generation.MaxConcurrentJobs,
	)
	quizService := service.NewQuizService(
		quizRepository,
		questionRepository,
		progressRepository,
		generationService,
		txManager,
		questionCache,
	)
	progressService := service.NewProgressService(quizRepository, progressRepository, questionCache)

	authService, err := service.NewAuthService(userRepository, cfg)
	if err != nil {
		appLogger.Fatal("Failed to create AuthService", zap.Error(err))
	}
	userService := service.NewUserService(userRepository)

	// Handlers
	quizHandler := handler.NewQuizHandler(quizService)
	progressHandler := handler.NewProgressHandler(progressService)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  20 * time.Second,
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,PUT,DELETE,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept,Authorization", MaxAge: 300}))
	app.Use(recover.New())

	apiGroup := app.Group("/api")

	// Auth routes
	authGroup := apiGroup.Group("/auth")
	authGroup.Get("/google/login", authHandler.GoogleLogin)
	authGroup.Get("/google/callback", authHandler.GoogleCallback)
	authGroup.Post("/refresh", authHandler.RefreshToken)

	// User routes (all protected)
	userGroup := apiGroup.Group("/users", middleware.Protected(authService))
	userGroup.Get("/me", userHandler.GetMyProfile)

	// Quiz lifecycle and session routes (all protected)
	quizGroup := apiGroup.Group("/quizzes", middleware.Protected(authService))
	quizGroup.Post("/", quizHandler.CreateQuiz)
	quizGroup.Get("/", quizHandler.ListQuizzes)
	quizGroup.Get("/:id", quizHandler.GetQuiz)
	quizGroup.Delete("/:id", quizHandler.DeleteQuiz)
	quizGroup.Get("/:id/questions/next", progressHandler.NextQuestion)
	quizGroup.Post("/:id/answers", progressHandler.RecordAnswer)
	quizGroup.Get("/:id/resume", progressHandler.Resume)
	quizGroup.Get("/:id/score", progressHandler.GetScore)

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", os.Getenv("ENV")))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
