package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config хранит все настройки приложения
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Mail     MailConfig
	Export   ExportConfig
	Jobs     JobsConfig
	Scoring  ScoringConfig
	Admin    AdminConfig
}

// ServerConfig содержит настройки HTTP сервера
type ServerConfig struct {
	Port         string
	ReadTimeout  int
	WriteTimeout int
}

// DatabaseConfig содержит настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig содержит унифицированные настройки подключения к Redis
// Поддерживает режимы: single, sentinel, cluster
type RedisConfig struct {
	// Mode: Режим работы Redis ("single", "sentinel", "cluster"). По умолчанию "single".
	Mode string `mapstructure:"mode"`

	// Addrs: Список адресов Redis (хост:порт). Используется для всех режимов.
	// Для 'single', если не пуст, используется первый адрес из списка.
	Addrs []string `mapstructure:"addrs"`

	// Addr: Альтернативный адрес для режима 'single' (для обратной совместимости).
	Addr string `mapstructure:"addr"`

	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`

	// MasterName: Имя мастер-сервера Redis (только для режима "sentinel")
	MasterName string `mapstructure:"master_name"`

	// MaxRetries: Максимальное количество попыток переподключения (-1 - бесконечно).
	MaxRetries int `mapstructure:"max_retries"`

	// MinRetryBackoff: Минимальный интервал между попытками (в миллисекундах).
	MinRetryBackoff int `mapstructure:"min_retry_backoff"`

	// MaxRetryBackoff: Максимальный интервал между попытками (в миллисекундах).
	MaxRetryBackoff int `mapstructure:"max_retry_backoff"`
}

// JWTConfig содержит настройки JWT
type JWTConfig struct {
	Secret        string `mapstructure:"secret"`
	ExpirationHrs int    `mapstructure:"expirationHrs"`
}

// MailConfig содержит настройки почтового транспорта
type MailConfig struct {
	// Provider: "resend" или "noop" (для разработки и тестов)
	Provider string `mapstructure:"provider"`
	APIKey   string `mapstructure:"api_key"`
	From     string `mapstructure:"from"`
}

// ExportConfig содержит настройки генерации файлов экспорта
type ExportConfig struct {
	// Dir: каталог, в который пишутся файлы экспорта
	Dir string `mapstructure:"dir"`
	// BaseURL: публичный префикс, из которого собирается ссылка на скачивание
	BaseURL string `mapstructure:"base_url"`
	// Format: формат по умолчанию ("csv" или "xlsx")
	Format string `mapstructure:"format"`
}

// JobsConfig содержит настройки очереди задач и расписаний
type JobsConfig struct {
	// QueueKey: ключ Redis-списка, служащего очередью задач
	QueueKey string `mapstructure:"queue_key"`
	// WorkerCount: количество горутин-воркеров, разбирающих очередь
	WorkerCount int `mapstructure:"worker_count"`
	// ReminderSpec: cron-выражение для ежедневных напоминаний
	ReminderSpec string `mapstructure:"reminder_spec"`
	// ReportSpec: cron-выражение для ежемесячных отчетов
	ReportSpec string `mapstructure:"report_spec"`
	// ReminderCutoffDays: сколько дней без попыток считается неактивностью
	ReminderCutoffDays int `mapstructure:"reminder_cutoff_days"`
	// AppURL: ссылка на фронтенд, включается в письма-напоминания
	AppURL string `mapstructure:"app_url"`
	// DequeueTimeout: таймаут блокирующего чтения из очереди
	DequeueTimeout time.Duration `mapstructure:"dequeue_timeout"`
}

// ScoringConfig содержит настройки движка подсчета результатов
type ScoringConfig struct {
	// MalformedAnswerPolicy определяет обработку ответов без question_id
	// или selected_option_id: "skip", "reject" или "count_wrong".
	MalformedAnswerPolicy string `mapstructure:"malformed_answer_policy"`
}

// AdminConfig содержит данные администратора, создаваемого при первом запуске
type AdminConfig struct {
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
	FullName string `mapstructure:"full_name"`
}

// PostgresConnectionString формирует строку подключения к PostgreSQL
func (d *DatabaseConfig) PostgresConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// Допустимые значения ScoringConfig.MalformedAnswerPolicy
const (
	MalformedSkip       = "skip"
	MalformedReject     = "reject"
	MalformedCountWrong = "count_wrong"
)

// Load загружает конфигурацию из файла
func Load(configPath string) (*Config, error) {
	vip := viper.New() // Используем новый экземпляр Viper, чтобы избежать глобального состояния

	// 1. Значения по умолчанию
	vip.SetDefault("server.port", "8080")
	vip.SetDefault("server.readtimeout", 15)
	vip.SetDefault("server.writetimeout", 15)
	vip.SetDefault("mail.provider", "noop")
	vip.SetDefault("export.dir", "static/exports")
	vip.SetDefault("export.format", "csv")
	vip.SetDefault("jobs.queue_key", "quizmaster:jobs")
	vip.SetDefault("jobs.worker_count", 4)
	vip.SetDefault("jobs.reminder_spec", "0 8 * * *")
	vip.SetDefault("jobs.report_spec", "0 9 1 * *")
	vip.SetDefault("jobs.reminder_cutoff_days", 7)
	vip.SetDefault("jobs.dequeue_timeout", 5*time.Second)
	vip.SetDefault("scoring.malformed_answer_policy", MalformedSkip)

	// 2. Привязываем переменные окружения ЯВНО
	// Привязка для секции Database
	vip.BindEnv("database.host", "DATABASE_HOST")
	vip.BindEnv("database.port", "DATABASE_PORT")
	vip.BindEnv("database.user", "DATABASE_USER")
	vip.BindEnv("database.password", "DATABASE_PASSWORD")
	vip.BindEnv("database.dbname", "DATABASE_DBNAME")
	vip.BindEnv("database.sslmode", "DATABASE_SSLMODE")

	// Привязка для секции Redis
	vip.BindEnv("redis.mode", "REDIS_MODE")
	vip.BindEnv("redis.addrs", "REDIS_ADDRS")
	vip.BindEnv("redis.addr", "REDIS_ADDR")
	vip.BindEnv("redis.password", "REDIS_PASSWORD")
	vip.BindEnv("redis.db", "REDIS_DB")
	vip.BindEnv("redis.master_name", "REDIS_MASTER_NAME")

	// Привязка для секции JWT
	vip.BindEnv("jwt.secret", "JWT_SECRET")
	vip.BindEnv("jwt.expirationHrs", "JWT_EXPIRATIONHRS")

	// Привязка для секции Mail
	vip.BindEnv("mail.provider", "MAIL_PROVIDER")
	vip.BindEnv("mail.api_key", "MAIL_API_KEY")
	vip.BindEnv("mail.from", "MAIL_FROM")

	// Привязка для секции Export
	vip.BindEnv("export.dir", "EXPORT_DIR")
	vip.BindEnv("export.base_url", "EXPORT_BASE_URL")
	vip.BindEnv("export.format", "EXPORT_FORMAT")

	// Привязка для секции Jobs
	vip.BindEnv("jobs.queue_key", "JOBS_QUEUE_KEY")
	vip.BindEnv("jobs.worker_count", "JOBS_WORKER_COUNT")
	vip.BindEnv("jobs.reminder_spec", "JOBS_REMINDER_SPEC")
	vip.BindEnv("jobs.report_spec", "JOBS_REPORT_SPEC")
	vip.BindEnv("jobs.reminder_cutoff_days", "JOBS_REMINDER_CUTOFF_DAYS")
	vip.BindEnv("jobs.app_url", "JOBS_APP_URL")

	// Привязка для секции Scoring
	vip.BindEnv("scoring.malformed_answer_policy", "SCORING_MALFORMED_ANSWER_POLICY")

	// Привязка для секции Admin
	vip.BindEnv("admin.email", "ADMIN_EMAIL")
	vip.BindEnv("admin.password", "ADMIN_PASSWORD")
	vip.BindEnv("admin.full_name", "ADMIN_FULL_NAME")

	// Привязка для Server
	vip.BindEnv("server.port", "SERVER_PORT")

	// 3. Устанавливаем путь к файлу конфигурации
	if configPath != "" {
		vip.SetConfigFile(configPath)
		// 4. Пытаемся прочитать файл конфигурации (не страшно, если его нет, т.к. есть BindEnv)
		if err := vip.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); ok {
				log.Printf("Файл конфигурации '%s' не найден, используются переменные окружения/умолчания.", configPath)
			} else {
				log.Printf("Предупреждение: не удалось прочитать файл конфигурации '%s': %v", configPath, err)
			}
		}
	}

	// 5. Анмаршалим конфигурацию (Viper объединит значения из файла и привязанных env vars)
	var cfg Config
	if err := vip.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 6. Логирование конфигурации (только в debug режиме)
	if os.Getenv("GIN_MODE") != "release" {
		log.Printf("--- Загруженные значения конфигурации ---")
		log.Printf("Database Host: %s", cfg.Database.Host)
		log.Printf("Database Name: %s", cfg.Database.DBName)
		log.Printf("Redis Addr: %s", cfg.Redis.Addr)
		log.Printf("Redis Mode: %s", cfg.Redis.Mode)
		log.Printf("JWT Expiration Hours: %d", cfg.JWT.ExpirationHrs)
		log.Printf("Mail Provider: %s", cfg.Mail.Provider)
		log.Printf("Export Dir: %s", cfg.Export.Dir)
		log.Printf("Jobs Queue Key: %s", cfg.Jobs.QueueKey)
		log.Printf("Reminder Spec: %s, Report Spec: %s", cfg.Jobs.ReminderSpec, cfg.Jobs.ReportSpec)
		log.Printf("Malformed Answer Policy: %s", cfg.Scoring.MalformedAnswerPolicy)
		log.Printf("Server Port: %s", cfg.Server.Port)
		log.Printf("-----------------------------------------")
	}

	// 7. Проверка обязательных параметров
	if cfg.Database.Host == "" || cfg.Database.DBName == "" || cfg.Database.User == "" {
		return nil, fmt.Errorf("database configuration (host, dbname, user) is incomplete in config (check DATABASE_HOST, DATABASE_DBNAME, DATABASE_USER env vars)")
	}
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT secret is required in config (check JWT_SECRET env var)")
	}
	switch cfg.Scoring.MalformedAnswerPolicy {
	case MalformedSkip, MalformedReject, MalformedCountWrong:
	default:
		return nil, fmt.Errorf("invalid scoring.malformed_answer_policy %q (expected skip, reject or count_wrong)", cfg.Scoring.MalformedAnswerPolicy)
	}
	if cfg.Mail.Provider == "resend" && cfg.Mail.APIKey == "" {
		return nil, fmt.Errorf("mail.api_key is required when mail.provider is resend (check MAIL_API_KEY env var)")
	}

	return &cfg, nil
}
