package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/quizmaster-api/internal/config"
	"github.com/yourusername/quizmaster-api/internal/handler"
	"github.com/yourusername/quizmaster-api/internal/middleware"
	pgRepo "github.com/yourusername/quizmaster-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/quizmaster-api/internal/repository/redis"
	"github.com/yourusername/quizmaster-api/internal/service"
	"github.com/yourusername/quizmaster-api/pkg/auth"
	"github.com/yourusername/quizmaster-api/pkg/database"
)

func main() {
	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Загрузка конфигурации из %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к PostgreSQL
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	// Применяем миграции
	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к Redis
	redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	log.Println("Successfully connected to Redis")

	// Инициализируем репозитории
	userRepo := pgRepo.NewUserRepo(db)
	subjectRepo := pgRepo.NewSubjectRepo(db)
	chapterRepo := pgRepo.NewChapterRepo(db)
	quizRepo := pgRepo.NewQuizRepo(db)
	questionRepo := pgRepo.NewQuestionRepo(db)
	optionRepo := pgRepo.NewOptionRepo(db)
	scoreRepo := pgRepo.NewScoreRepo(db)

	jobQueue, err := redisRepo.NewQueueRepo(redisClient, cfg.Jobs.QueueKey)
	if err != nil {
		log.Printf("Failed to initialize QueueRepo: %v", err)
		os.Exit(1)
	}

	// Инициализируем JWT сервис
	jwtService, err := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpirationHrs)
	if err != nil {
		log.Printf("Failed to initialize JWTService: %v", err)
		os.Exit(1)
	}

	// Инициализируем сервисы
	authService := service.NewAuthService(userRepo, jwtService)
	userService := service.NewUserService(userRepo)
	contentService := service.NewContentService(subjectRepo, chapterRepo)
	quizService := service.NewQuizService(quizRepo, chapterRepo, questionRepo, optionRepo)
	scoringService := service.NewScoringService(scoreRepo, quizRepo, questionRepo, optionRepo, cfg.Scoring.MalformedAnswerPolicy)
	searchService := service.NewSearchService(userRepo, subjectRepo, quizRepo)

	// Создаем администратора при первом запуске
	if err := authService.BootstrapAdmin(cfg.Admin); err != nil {
		log.Printf("Failed to bootstrap admin user: %v", err)
		os.Exit(1)
	}

	// Инициализируем обработчики
	authHandler := handler.NewAuthHandler(authService, userService, jwtService)
	userHandler := handler.NewUserHandler(userService)
	contentHandler := handler.NewContentHandler(contentService)
	quizHandler := handler.NewQuizHandler(quizService)
	scoreHandler := handler.NewScoreHandler(scoringService, jobQueue)
	searchHandler := handler.NewSearchHandler(searchService)

	// Инициализируем middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService)
	rateLimiter := middleware.NewRateLimiter(redisClient)

	// Инициализируем роутер Gin
	router := gin.Default()

	isProduction := gin.Mode() == gin.ReleaseMode
	if isProduction {
		// Production: не доверять прокси-заголовкам
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		// Development: доверяем localhost
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	// Настройка CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:3000", "http://localhost:8000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Файлы экспорта раздаются статикой
	router.StaticFS("/exports", http.Dir(cfg.Export.Dir))

	// Настраиваем маршруты API
	api := router.Group("/api")
	{
		// Аутентификация
		authGroup := api.Group("/auth")
		authGroup.Use(rateLimiter.Limit(middleware.AuthRateLimitConfig()))
		{
			authGroup.POST("/signup", authHandler.Signup)
			authGroup.POST("/login", authHandler.Login)
		}

		// Профиль текущего пользователя
		users := api.Group("/users")
		users.Use(authMiddleware.RequireAuth())
		{
			users.GET("/me", authHandler.GetMe)
		}

		// Предметы и главы: чтение доступно всем аутентифицированным,
		// изменение только администратору
		subjects := api.Group("/subjects")
		subjects.Use(authMiddleware.RequireAuth())
		{
			subjects.GET("", contentHandler.ListSubjects)

			subjectWithID := subjects.Group("/:id")
			subjectWithID.Use(middleware.ExtractUintParam("id", "subjectID"))
			{
				subjectWithID.GET("", contentHandler.GetSubject)
				subjectWithID.GET("/chapters", contentHandler.ListChaptersBySubject)

				adminSubjects := subjectWithID.Group("")
				adminSubjects.Use(authMiddleware.AdminOnly())
				{
					adminSubjects.PUT("", contentHandler.UpdateSubject)
					adminSubjects.DELETE("", contentHandler.DeleteSubject)
				}
			}

			subjects.POST("", authMiddleware.AdminOnly(), contentHandler.CreateSubject)
		}

		chapters := api.Group("/chapters")
		chapters.Use(authMiddleware.RequireAuth())
		{
			chapterWithID := chapters.Group("/:id")
			chapterWithID.Use(middleware.ExtractUintParam("id", "chapterID"))
			{
				chapterWithID.GET("", contentHandler.GetChapter)

				adminChapters := chapterWithID.Group("")
				adminChapters.Use(authMiddleware.AdminOnly())
				{
					adminChapters.PUT("", contentHandler.UpdateChapter)
					adminChapters.DELETE("", contentHandler.DeleteChapter)
				}
			}

			chapters.POST("", authMiddleware.AdminOnly(), contentHandler.CreateChapter)
		}

		// Тесты
		quizzes := api.Group("/quizzes")
		quizzes.Use(authMiddleware.RequireAuth())
		{
			quizzes.GET("", quizHandler.ListQuizzes)

			quizWithID := quizzes.Group("/:id")
			quizWithID.Use(middleware.ExtractUintParam("id", "quizID"))
			{
				quizWithID.GET("", quizHandler.GetQuiz)
				quizWithID.GET("/questions", quizHandler.GetQuizQuestions)

				adminQuizzes := quizWithID.Group("")
				adminQuizzes.Use(authMiddleware.AdminOnly())
				{
					adminQuizzes.PUT("", quizHandler.UpdateQuiz)
					adminQuizzes.DELETE("", quizHandler.DeleteQuiz)
				}
			}

			quizzes.POST("", authMiddleware.AdminOnly(), quizHandler.CreateQuiz)
		}

		// Вопросы и варианты ответов (только администратор)
		questions := api.Group("/questions")
		questions.Use(authMiddleware.RequireAuth(), authMiddleware.AdminOnly())
		{
			questions.POST("", quizHandler.CreateQuestion)

			questionWithID := questions.Group("/:id")
			questionWithID.Use(middleware.ExtractUintParam("id", "questionID"))
			{
				questionWithID.PUT("", quizHandler.UpdateQuestion)
				questionWithID.DELETE("", quizHandler.DeleteQuestion)
			}
		}

		options := api.Group("/options")
		options.Use(authMiddleware.RequireAuth(), authMiddleware.AdminOnly())
		{
			options.POST("", quizHandler.CreateOption)

			optionWithID := options.Group("/:id")
			optionWithID.Use(middleware.ExtractUintParam("id", "optionID"))
			{
				optionWithID.PUT("", quizHandler.UpdateOption)
				optionWithID.DELETE("", quizHandler.DeleteOption)
			}
		}

		// Сдача тестов и результаты
		scores := api.Group("/scores")
		scores.Use(authMiddleware.RequireAuth())
		{
			scores.POST("/submit", rateLimiter.Limit(middleware.SubmitRateLimitConfig()), scoreHandler.SubmitQuiz)
			scores.GET("", scoreHandler.ListMyScores)
			scores.GET("/stats", scoreHandler.GetMyStats)
			scores.POST("/export", scoreHandler.RequestExport)

			scoreWithID := scores.Group("/:id")
			scoreWithID.Use(middleware.ExtractUintParam("id", "scoreID"))
			{
				scoreWithID.GET("", scoreHandler.GetScoreDetails)
			}
		}

		// Административные маршруты
		admin := api.Group("/admin")
		admin.Use(authMiddleware.RequireAuth(), authMiddleware.AdminOnly())
		{
			admin.GET("/users", userHandler.ListUsers)

			adminUserWithID := admin.Group("/users/:id")
			adminUserWithID.Use(middleware.ExtractUintParam("id", "userID"))
			{
				adminUserWithID.GET("", userHandler.GetUser)
				adminUserWithID.GET("/stats", scoreHandler.GetUserStats)
				adminUserWithID.PUT("", userHandler.UpdateUser)
				adminUserWithID.DELETE("", userHandler.DeleteUser)
			}

			admin.GET("/search", searchHandler.Search)
			admin.GET("/stats", scoreHandler.GetSummaryStats)
		}
	}

	// Настраиваем HTTP сервер с тайм-аутами для защиты от slow client attacks
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Запускаем сервер в горутине
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	// Ждем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Graceful shutdown с таймаутом
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	if err := redisClient.Close(); err != nil {
		log.Printf("Error closing Redis client: %v", err)
	}

	log.Println("Server exited properly")
}
