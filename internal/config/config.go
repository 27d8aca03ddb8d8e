package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const EnvPrefix = "DAYBOOK"

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Logger    LoggerConfig    `mapstructure:"logger"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Day       DayConfig       `mapstructure:"day"`
	Notify    NotifyConfig    `mapstructure:"notify"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

type ServerConfig struct {
	BaseURL  string `mapstructure:"base_url" validate:"required,url"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type StorageConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

type LoggerConfig struct {
	Level    string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format   string `mapstructure:"format" validate:"oneof=json console"`
	Output   string `mapstructure:"output" validate:"oneof=stdout stderr file"`
	Filename string `mapstructure:"filename" validate:"required_if=Output file"`
}

type SchedulerConfig struct {
	Interval time.Duration `mapstructure:"interval" validate:"gt=0"`
}

type DayConfig struct {
	AutosaveDelay time.Duration `mapstructure:"autosave_delay" validate:"gt=0"`
}

type NotifyConfig struct {
	Desktop     bool   `mapstructure:"desktop"`
	Icon        string `mapstructure:"icon"`
	SoundFile   string `mapstructure:"sound_file"`
	InAppBuffer int    `mapstructure:"in_app_buffer" validate:"gt=0"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Listen  string `mapstructure:"listen" validate:"required_if=Enabled true"`
}

// Load reads configuration from defaults, an optional config file, a .env file
// and DAYBOOK_* environment variables, in increasing precedence.
func Load(configFile string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	bindEnvVars(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("daybook")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(DefaultDir())
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func DefaultDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "daybook")
	}
	return ".daybook"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.base_url", "http://localhost:5000")
	v.SetDefault("server.username", "")
	v.SetDefault("server.password", "")

	v.SetDefault("storage.path", filepath.Join(DefaultDir(), "daybook.db"))

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output", "stderr")
	v.SetDefault("logger.filename", "")

	v.SetDefault("scheduler.interval", "60s")
	v.SetDefault("day.autosave_delay", "1s")

	v.SetDefault("notify.desktop", true)
	v.SetDefault("notify.icon", "/logo192.png")
	v.SetDefault("notify.sound_file", "")
	v.SetDefault("notify.in_app_buffer", 16)

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.listen", "127.0.0.1:9464")
}

func bindEnvVars(v *viper.Viper) {
	_ = v.BindEnv("server.base_url", "DAYBOOK_SERVER_URL")
	_ = v.BindEnv("server.username", "DAYBOOK_USERNAME")
	_ = v.BindEnv("server.password", "DAYBOOK_PASSWORD")
	_ = v.BindEnv("storage.path", "DAYBOOK_DB_PATH")
	_ = v.BindEnv("logger.level", "DAYBOOK_LOG_LEVEL")
	_ = v.BindEnv("logger.format", "DAYBOOK_LOG_FORMAT")
	_ = v.BindEnv("logger.output", "DAYBOOK_LOG_OUTPUT")
	_ = v.BindEnv("logger.filename", "DAYBOOK_LOG_FILE")
	_ = v.BindEnv("scheduler.interval", "DAYBOOK_POLL_INTERVAL")
	_ = v.BindEnv("day.autosave_delay", "DAYBOOK_AUTOSAVE_DELAY")
	_ = v.BindEnv("notify.desktop", "DAYBOOK_DESKTOP_NOTIFICATIONS")
	_ = v.BindEnv("notify.sound_file", "DAYBOOK_SOUND_FILE")
	_ = v.BindEnv("metrics.enabled", "DAYBOOK_METRICS_ENABLED")
	_ = v.BindEnv("metrics.listen", "DAYBOOK_METRICS_LISTEN")
}

func validateConfig(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return err
	}
	if cfg.Scheduler.Interval < time.Second {
		return fmt.Errorf("scheduler.interval must be at least 1s, got %s", cfg.Scheduler.Interval)
	}
	return nil
}
