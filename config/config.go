package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Log       Logger         `mapstructure:"logger"`
	DB        Database       `mapstructure:"database"`
	API       API            `mapstructure:"api"`
	Worker    Worker         `mapstructure:"worker"`
	Moex      Moex           `mapstructure:"moex"`
	Yahoo     Yahoo          `mapstructure:"yahoo"`
	Cache     Cache          `mapstructure:"cache"`
	Telegram  TelegramConfig `mapstructure:"telegram"`
	TA        TA             `mapstructure:"ta"`
	Scheduler Scheduler      `mapstructure:"scheduler"`
}

type Logger struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type Database struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"name"`
	SSLMode         string `mapstructure:"ssl_mode"`
	TimeZone        string `mapstructure:"time_zone"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime"`
	LogLevel        string `mapstructure:"log_level"`
}

type API struct {
	Port int `mapstructure:"port"`
}

// Worker controls the background task queue.
type Worker struct {
	MaxConcurrency int           `mapstructure:"max_concurrency"`
	PollInterval   time.Duration `mapstructure:"poll_interval"`
	TaskTimeout    time.Duration `mapstructure:"task_timeout"`
}

type Moex struct {
	BaseURL          string        `mapstructure:"base_url"`
	Timeout          time.Duration `mapstructure:"timeout"`
	Board            string        `mapstructure:"board"`
	MaxRequestPerMin int           `mapstructure:"max_request_per_min"`
}

type Yahoo struct {
	BaseURL          string        `mapstructure:"base_url"`
	Timeout          time.Duration `mapstructure:"timeout"`
	MaxRequestPerMin int           `mapstructure:"max_request_per_min"`
}

type Cache struct {
	DefaultExpiration time.Duration `mapstructure:"default_expiration"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
}

type TelegramConfig struct {
	BotToken            string        `mapstructure:"bot_token"`
	ChatID              int64         `mapstructure:"chat_id"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRequestPerSecond int           `mapstructure:"max_request_per_second"`
}

// TA holds the decision engine borders. HighVolatilityTickers replaces the
// hard-coded allowlist of the first generations with configuration.
type TA struct {
	BottomBorder           float64  `mapstructure:"bottom_border"`
	TopBorder              float64  `mapstructure:"top_border"`
	HighVolatilityBorder   float64  `mapstructure:"high_volatility_border"`
	HighVolatilityTickers  []string `mapstructure:"high_volatility_tickers"`
	HistoryDays            int      `mapstructure:"history_days"`
	DecisionExpirationDays int      `mapstructure:"decision_expiration_days"`
}

type Scheduler struct {
	GenerateCron string `mapstructure:"generate_cron"`
	SendMessage  bool   `mapstructure:"send_message"`
	UpdateDB     bool   `mapstructure:"update_db"`
}

func Load() (*Config, error) {
	// .env is optional, it only backfills process env in local setups.
	_ = godotenv.Load()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	setDefaults()

	// A missing config file is fine, env vars cover everything.
	_ = viper.ReadInConfig()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.encoding", "json")
	viper.SetDefault("api.port", 8080)
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.ssl_mode", "disable")
	viper.SetDefault("database.time_zone", "Europe/Moscow")
	viper.SetDefault("database.max_idle_conns", 10)
	viper.SetDefault("database.max_open_conns", 100)
	viper.SetDefault("database.conn_max_lifetime", "1h")
	viper.SetDefault("database.log_level", "warn")
	viper.SetDefault("worker.max_concurrency", 10)
	viper.SetDefault("worker.poll_interval", time.Second)
	viper.SetDefault("worker.task_timeout", 5*time.Minute)
	viper.SetDefault("moex.base_url", "https://iss.moex.com")
	viper.SetDefault("moex.board", "TQBR")
	viper.SetDefault("moex.timeout", 30*time.Second)
	viper.SetDefault("moex.max_request_per_min", 60)
	viper.SetDefault("yahoo.base_url", "https://query1.finance.yahoo.com/v8/finance/chart")
	viper.SetDefault("yahoo.timeout", 30*time.Second)
	viper.SetDefault("yahoo.max_request_per_min", 30)
	viper.SetDefault("cache.default_expiration", 10*time.Minute)
	viper.SetDefault("cache.cleanup_interval", 30*time.Minute)
	viper.SetDefault("telegram.timeout", 10*time.Second)
	viper.SetDefault("telegram.max_request_per_second", 25)
	viper.SetDefault("ta.bottom_border", 25.0)
	viper.SetDefault("ta.top_border", 80.0)
	viper.SetDefault("ta.high_volatility_border", 40.0)
	viper.SetDefault("ta.high_volatility_tickers", []string{"LKOH"})
	viper.SetDefault("ta.history_days", 930)
	viper.SetDefault("ta.decision_expiration_days", 7)
	viper.SetDefault("scheduler.generate_cron", "0 10 * * 1-5")
	viper.SetDefault("scheduler.send_message", true)
	viper.SetDefault("scheduler.update_db", true)
}
