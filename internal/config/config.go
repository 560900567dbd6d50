package config

import (
	"errors"
	"fmt"
	"os"

	"onhostel/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	Database   DatabaseConfig   `yaml:"database"`
	Mongo      MongoConfig      `yaml:"mongo"`
	Redis      RedisConfig      `yaml:"redis"`
	Auth       AuthConfig       `yaml:"auth"`
	API        APIConfig        `yaml:"api"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
	Reports    ReportsConfig    `yaml:"reports"`
	Google     GoogleConfig     `yaml:"google"`
	Units      []models.Unit    `yaml:"units"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type MongoConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
	Timeout  int    `yaml:"timeout_seconds"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type AuthConfig struct {
	JWTSecret  string      `yaml:"jwt_secret"`
	TokenTTL   int         `yaml:"token_ttl_minutes"`
	SessionTTL int         `yaml:"session_ttl_seconds"`
	Users      []PanelUser `yaml:"users"`
}

// PanelUser -- учетная запись панели. Пароль хранится как bcrypt-хеш.
type PanelUser struct {
	Email        string `yaml:"email"`
	PasswordHash string `yaml:"password_hash"`
	Name         string `yaml:"name"`
}

type APIConfig struct {
	Port            int     `yaml:"port"`
	RateLimitRPS    float64 `yaml:"rate_limit_rps"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	ShutdownTimeout int     `yaml:"shutdown_timeout_seconds"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

type ReportsConfig struct {
	Path string `yaml:"path"`
}

type GoogleConfig struct {
	CredentialsFile      string `yaml:"credentials_file"`
	SummarySpreadsheetID string `yaml:"summary_spreadsheet_id"`
}

func Load(configPath string) (*Config, error) {
	// Загружаем .env файл если существует
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	// Предварительная замена переменных окружения в YAML
	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return errors.New("database path is required")
	}

	if c.Auth.JWTSecret == "" || c.Auth.JWTSecret == "CHANGE_ME" {
		return errors.New("auth jwt secret is required")
	}

	if len(c.Auth.Users) == 0 {
		return errors.New("at least one panel user is required")
	}
	for _, u := range c.Auth.Users {
		if u.Email == "" || u.PasswordHash == "" {
			return fmt.Errorf("panel user '%s' is missing email or password hash", u.Name)
		}
	}

	return ValidateUnits(c.Units)
}

// ValidateUnits проверяет каталог единиц размещения на дубликаты и
// корректность вида.
func ValidateUnits(units []models.Unit) error {
	if len(units) == 0 {
		return errors.New("at least one unit is required")
	}

	unitIDs := make(map[string]bool)
	for _, unit := range units {
		if unit.ID == "" {
			return fmt.Errorf("unit '%s' has empty ID", unit.Name)
		}
		if unitIDs[unit.ID] {
			return fmt.Errorf("duplicate unit ID found: %s", unit.ID)
		}
		unitIDs[unit.ID] = true

		switch unit.Kind {
		case models.UnitKindRoom, models.UnitKindHouse, models.UnitKindTent, models.UnitKindMotorhome:
		default:
			return fmt.Errorf("unit '%s' has unknown kind: %s", unit.ID, unit.Kind)
		}
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.API.Port == 0 {
		c.API.Port = 8080
	}
	if c.API.RateLimitRPS == 0 {
		c.API.RateLimitRPS = float64(models.RateLimitRequests) / float64(models.RateLimitWindow)
	}
	if c.API.RateLimitBurst == 0 {
		c.API.RateLimitBurst = 10
	}
	if c.API.ShutdownTimeout == 0 {
		c.API.ShutdownTimeout = 10
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
	if c.Mongo.Timeout == 0 {
		c.Mongo.Timeout = 10
	}
	if c.Auth.TokenTTL == 0 {
		c.Auth.TokenTTL = 12 * 60
	}
	if c.Auth.SessionTTL == 0 {
		c.Auth.SessionTTL = models.DefaultSessionTTL
	}
	if c.Reports.Path == "" {
		c.Reports.Path = "exports"
	}
}
