package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config настройки приложения из окружения и .env
type Config struct {
	AppEnv        string // dev, prod
	TelegramToken string // токен бота
	LogLevel      string // debug, info, warn, error
	RulesFile     string // файл с текстом правил по умолчанию (необязательно)
	RulesPack     string // YAML с пресетами; пусто - встроенные пресеты
	RulesPreset   string // пресет по умолчанию для новых сессий
	VariantPolicy string // all, include-first
	MetricsAddr   string // адрес /metrics; пусто - не поднимать
	BatchWorkers  int    // параллельных файлов при пакетной проверке
}

// ValidationError ошибка проверки конфигурации
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config validation failed [%s]: %s", e.Field, e.Message)
}

// Load читает .env (если есть) и переменные окружения
func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	SetDefaults(v)

	return FromViper(v), nil
}

// SetDefaults задаёт значения по умолчанию
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "dev")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("RULES_PRESET", "default")
	v.SetDefault("VARIANT_POLICY", "all")
	v.SetDefault("METRICS_ADDR", ":9090")
	v.SetDefault("BATCH_WORKERS", 4)
}

// FromViper собирает Config из экземпляра viper
func FromViper(v *viper.Viper) *Config {
	return &Config{
		AppEnv:        v.GetString("APP_ENV"),
		TelegramToken: v.GetString("TELEGRAM_TOKEN"),
		LogLevel:      v.GetString("LOG_LEVEL"),
		RulesFile:     v.GetString("RULES_FILE"),
		RulesPack:     v.GetString("RULES_PACK"),
		RulesPreset:   v.GetString("RULES_PRESET"),
		VariantPolicy: v.GetString("VARIANT_POLICY"),
		MetricsAddr:   v.GetString("METRICS_ADDR"),
		BatchWorkers:  v.GetInt("BATCH_WORKERS"),
	}
}

// Validate проверяет общие настройки
func (c *Config) Validate() error {
	switch strings.ToLower(c.VariantPolicy) {
	case "all", "include-first", "include_first":
	default:
		return ValidationError{
			Field:   "VARIANT_POLICY",
			Message: fmt.Sprintf("must be 'all' or 'include-first', got '%s'", c.VariantPolicy),
		}
	}

	if c.BatchWorkers <= 0 {
		return ValidationError{
			Field:   "BATCH_WORKERS",
			Message: fmt.Sprintf("must be positive, got %d", c.BatchWorkers),
		}
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return ValidationError{
			Field:   "LOG_LEVEL",
			Message: fmt.Sprintf("unknown level '%s'", c.LogLevel),
		}
	}

	return nil
}

// ValidateBot дополнительно требует токен Telegram
func (c *Config) ValidateBot() error {
	if c.TelegramToken == "" {
		return ValidationError{Field: "TELEGRAM_TOKEN", Message: "TELEGRAM_TOKEN is required"}
	}
	return c.Validate()
}

// IsDev сообщает, запущено ли приложение в режиме разработки
func (c *Config) IsDev() bool {
	return c.AppEnv == "dev"
}
