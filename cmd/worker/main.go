package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/yourusername/quizmaster-api/internal/config"
	"github.com/yourusername/quizmaster-api/internal/domain/entity"
	pgRepo "github.com/yourusername/quizmaster-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/quizmaster-api/internal/repository/redis"
	"github.com/yourusername/quizmaster-api/internal/service"
	"github.com/yourusername/quizmaster-api/internal/worker"
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

	// Инициализируем подключение к PostgreSQL.
	// Миграции применяет API-сервер, воркер только читает и пишет данные.
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
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
	quizRepo := pgRepo.NewQuizRepo(db)
	scoreRepo := pgRepo.NewScoreRepo(db)

	cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
	if err != nil {
		log.Printf("Failed to initialize CacheRepo: %v", err)
		os.Exit(1)
	}

	jobQueue, err := redisRepo.NewQueueRepo(redisClient, cfg.Jobs.QueueKey)
	if err != nil {
		log.Printf("Failed to initialize QueueRepo: %v", err)
		os.Exit(1)
	}

	// Инициализируем почтовый транспорт
	var emailSvc service.EmailService
	switch cfg.Mail.Provider {
	case "resend":
		emailSvc, err = service.NewResendEmailService(cfg.Mail.APIKey, cfg.Mail.From)
		if err != nil {
			log.Printf("Failed to initialize Resend email service: %v", err)
			os.Exit(1)
		}
	default:
		log.Println("Почтовый провайдер не настроен, письма пишутся в лог")
		emailSvc = &service.NoopEmailService{}
	}

	// Инициализируем сервисы фоновых задач
	exportService := service.NewExportService(userRepo, scoreRepo, quizRepo, emailSvc, cfg.Export)
	reportService := service.NewReportService(userRepo, scoreRepo, cacheRepo, emailSvc, cfg.Jobs)

	// Контекст жизненного цикла воркеров
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Регистрируем обработчики задач
	dispatcher := worker.NewDispatcher(jobQueue, cfg.Jobs.WorkerCount, cfg.Jobs.DequeueTimeout)

	dispatcher.Register(entity.JobExportScores, func(ctx context.Context, job *entity.Job) error {
		var payload entity.ExportPayload
		if err := json.Unmarshal(job.Payload, &payload); err != nil {
			return fmt.Errorf("invalid export payload: %w", err)
		}
		summary, err := exportService.Run(ctx, payload.UserID, payload.Format)
		if err != nil {
			return err
		}
		log.Printf("[Worker] Экспорт: %s", summary)
		return nil
	})

	dispatcher.Register(entity.JobDailyReminder, func(ctx context.Context, job *entity.Job) error {
		sent, err := reportService.SendDailyReminders(ctx)
		if err != nil {
			return err
		}
		log.Printf("[Worker] Напоминания: отправлено %d писем", sent)
		return nil
	})

	dispatcher.Register(entity.JobMonthlyReport, func(ctx context.Context, job *entity.Job) error {
		sent, err := reportService.SendMonthlyReports(ctx)
		if err != nil {
			return err
		}
		log.Printf("[Worker] Отчеты: отправлено %d писем", sent)
		return nil
	})

	dispatcher.Start(ctx)

	// Запускаем планировщик периодических задач
	scheduler := worker.NewScheduler(jobQueue, cacheRepo)
	if err := scheduler.AddJob(ctx, cfg.Jobs.ReminderSpec, entity.JobDailyReminder); err != nil {
		log.Printf("Failed to schedule daily reminders: %v", err)
		os.Exit(1)
	}
	if err := scheduler.AddJob(ctx, cfg.Jobs.ReportSpec, entity.JobMonthlyReport); err != nil {
		log.Printf("Failed to schedule monthly reports: %v", err)
		os.Exit(1)
	}
	scheduler.Start()

	log.Println("Worker started")

	// Ждем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down worker...")

	scheduler.Stop()
	cancel()
	dispatcher.Wait()

	if err := redisClient.Close(); err != nil {
		log.Printf("Error closing Redis client: %v", err)
	}

	log.Println("Worker exited properly")
}
