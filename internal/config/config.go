package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Providers  ProvidersConfig  `mapstructure:"providers"`
	Generative GenerativeConfig `mapstructure:"generative"`
	Cache      CacheConfig      `mapstructure:"cache"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
	I18n       I18nConfig       `mapstructure:"i18n"`
	Telegram   TelegramConfig   `mapstructure:"telegram"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type ProvidersConfig struct {
	GoldAPI   GoldAPIConfig   `mapstructure:"goldapi"`
	CoinGecko CoinGeckoConfig `mapstructure:"coingecko"`
	News      NewsConfig      `mapstructure:"news"`
}

type GoldAPIConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type CoinGeckoConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type NewsConfig struct {
	APIKey   string        `mapstructure:"api_key"`
	BaseURL  string        `mapstructure:"base_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
	PageSize int           `mapstructure:"page_size"`
}

// GenerativePolicy controls when the generative backend is consulted.
// "no_rule_match" only attempts generation when no keyword rule matched;
// "always" attempts it on every request and keeps the result when it
// passes validation.
type GenerativePolicy string

const (
	PolicyNoRuleMatch GenerativePolicy = "no_rule_match"
	PolicyAlways      GenerativePolicy = "always"
)

type GenerativeConfig struct {
	BaseURL          string           `mapstructure:"base_url"`
	APIKey           string           `mapstructure:"api_key"`
	Model            string           `mapstructure:"model"`
	MaxTokens        int              `mapstructure:"max_tokens"`
	Temperature      float64          `mapstructure:"temperature"`
	TopP             float64          `mapstructure:"top_p"`
	Timeout          time.Duration    `mapstructure:"timeout"`
	Policy           GenerativePolicy `mapstructure:"policy"`
	MinMessageLength int              `mapstructure:"min_message_length"`
}

type CacheConfig struct {
	Backend string        `mapstructure:"backend"`
	TTL     time.Duration `mapstructure:"ttl"`
	MaxSize int           `mapstructure:"max_size"`
	Redis   RedisConfig   `mapstructure:"redis"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests_per_minute"`
	Burst             int  `mapstructure:"burst"`
}

type LoggingConfig struct {
	Level  string     `mapstructure:"level"`
	Format string     `mapstructure:"format"`
	Output string     `mapstructure:"output"`
	File   FileConfig `mapstructure:"file"`
}

type FileConfig struct {
	Path       string `mapstructure:"path"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
}

type MonitoringConfig struct {
	Metrics MetricsConfig `mapstructure:"metrics"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port"`
	Path    string `mapstructure:"path"`
}

type I18nConfig struct {
	Directory       string   `mapstructure:"directory"`
	DefaultLanguage string   `mapstructure:"default_language"`
	Languages       []string `mapstructure:"languages"`
}

type TelegramConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	Token         string `mapstructure:"token"`
	UpdateTimeout int    `mapstructure:"update_timeout"`
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Credentials always come from the environment
	viper.BindEnv("providers.goldapi.api_key", "GOLDAPI_KEY")
	viper.BindEnv("providers.news.api_key", "NEWS_API_KEY")
	viper.BindEnv("generative.api_key", "GENERATIVE_API_KEY")
	viper.BindEnv("telegram.token", "TELEGRAM_BOT_TOKEN")
	viper.BindEnv("cache.redis.password", "REDIS_PASSWORD")
	viper.BindEnv("cache.redis.db", "REDIS_DB")

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Handle Redis address special case
	if redisHost := viper.GetString("REDIS_HOST"); redisHost != "" {
		redisPort := viper.GetString("REDIS_PORT")
		if redisPort == "" {
			redisPort = "6379"
		}
		config.Cache.Redis.Addr = fmt.Sprintf("%s:%s", redisHost, redisPort)
	}

	applyDefaults(&config)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8000
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30 * time.Second
	}
	if cfg.Providers.GoldAPI.BaseURL == "" {
		cfg.Providers.GoldAPI.BaseURL = "https://api.goldapi.io"
	}
	if cfg.Providers.GoldAPI.Timeout == 0 {
		cfg.Providers.GoldAPI.Timeout = 10 * time.Second
	}
	if cfg.Providers.CoinGecko.BaseURL == "" {
		cfg.Providers.CoinGecko.BaseURL = "https://api.coingecko.com"
	}
	if cfg.Providers.CoinGecko.Timeout == 0 {
		cfg.Providers.CoinGecko.Timeout = 10 * time.Second
	}
	if cfg.Providers.News.BaseURL == "" {
		cfg.Providers.News.BaseURL = "https://newsapi.org"
	}
	if cfg.Providers.News.Timeout == 0 {
		cfg.Providers.News.Timeout = 10 * time.Second
	}
	if cfg.Providers.News.PageSize == 0 {
		cfg.Providers.News.PageSize = 3
	}
	if cfg.Generative.MaxTokens == 0 {
		cfg.Generative.MaxTokens = 800
	}
	if cfg.Generative.Temperature == 0 {
		cfg.Generative.Temperature = 0.3
	}
	if cfg.Generative.TopP == 0 {
		cfg.Generative.TopP = 0.8
	}
	if cfg.Generative.Timeout == 0 {
		cfg.Generative.Timeout = 8 * time.Second
	}
	if cfg.Generative.Policy == "" {
		cfg.Generative.Policy = PolicyNoRuleMatch
	}
	if cfg.Generative.MinMessageLength == 0 {
		cfg.Generative.MinMessageLength = 5
	}
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = "memory"
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = 5 * time.Minute
	}
	if cfg.Cache.MaxSize == 0 {
		cfg.Cache.MaxSize = 1000
	}
	if cfg.I18n.Directory == "" {
		cfg.I18n.Directory = "configs/i18n"
	}
	if cfg.I18n.DefaultLanguage == "" {
		cfg.I18n.DefaultLanguage = "en"
	}
	if len(cfg.I18n.Languages) == 0 {
		cfg.I18n.Languages = []string{"en"}
	}
	if cfg.Telegram.UpdateTimeout == 0 {
		cfg.Telegram.UpdateTimeout = 60
	}
}

func validateConfig(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", cfg.Server.Port)
	}
	switch cfg.Cache.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("unsupported cache backend: %s", cfg.Cache.Backend)
	}
	if cfg.Cache.Backend == "redis" && cfg.Cache.Redis.Addr == "" {
		return fmt.Errorf("redis cache backend requires an address")
	}
	switch cfg.Generative.Policy {
	case PolicyNoRuleMatch, PolicyAlways:
	default:
		return fmt.Errorf("unsupported generative policy: %s", cfg.Generative.Policy)
	}
	if cfg.Telegram.Enabled && cfg.Telegram.Token == "" {
		return fmt.Errorf("telegram transport requires a bot token")
	}
	return nil
}
