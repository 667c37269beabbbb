package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`

	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
		TemplatesDir string `yaml:"templates_dir"`
		// Bounded retry for outbound sends: RetryAttempts tries with a
		// linearly increasing delay of attempt * RetryDelayMs between them.
		RetryAttempts int `yaml:"retry_attempts"`
		RetryDelayMs  int `yaml:"retry_delay_ms"`
	} `yaml:"email"`

	JWT struct {
		Secret        string `yaml:"secret"`
		AccessTTLMin  int    `yaml:"access_ttl_min"`
		RefreshTTLDay int    `yaml:"refresh_ttl_day"`
	} `yaml:"jwt"`

	Verification struct {
		// Base URL embedded in verification emails.
		LinkBaseURL string `yaml:"link_base_url"`
		CodeTTLMin  int    `yaml:"code_ttl_min"`
	} `yaml:"verification"`
}

var AppConfig *Config

// LoadConfig reads config.yaml unless DATABASE_URL is set, in which
// case everything comes from the environment (test / container mode).
// A .env file is honored when present.
func LoadConfig() {
	_ = godotenv.Load()

	var cfg Config

	if os.Getenv("DATABASE_URL") == "" {
		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}

		f, err := os.Open(configPath)
		if err != nil {
			log.Fatalf("Failed to open config file at %s: %v", configPath, err)
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}

		applyDefaults(&cfg)
		AppConfig = &cfg
		return
	}

	cfg.Database.DSN = os.Getenv("DATABASE_URL")
	cfg.Server.Env = os.Getenv("SERVER_ENV")
	cfg.Server.Port, _ = strconv.Atoi(os.Getenv("SERVER_PORT"))
	cfg.JWT.Secret = os.Getenv("JWT_SECRET")

	cfg.Email.SMTPHost = os.Getenv("SMTP_HOST")
	cfg.Email.SMTPPort, _ = strconv.Atoi(os.Getenv("SMTP_PORT"))
	cfg.Email.SMTPUsername = os.Getenv("SMTP_USER")
	cfg.Email.SMTPPassword = os.Getenv("SMTP_PASSWORD")
	cfg.Email.FromEmail = os.Getenv("SMTP_FROM")
	cfg.Verification.LinkBaseURL = os.Getenv("VERIFICATION_LINK_BASE_URL")

	applyDefaults(&cfg)
	AppConfig = &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 4000
	}
	if cfg.JWT.AccessTTLMin == 0 {
		cfg.JWT.AccessTTLMin = 15
	}
	if cfg.JWT.RefreshTTLDay == 0 {
		cfg.JWT.RefreshTTLDay = 7
	}
	if cfg.Verification.CodeTTLMin == 0 {
		cfg.Verification.CodeTTLMin = 15
	}
	if cfg.Verification.LinkBaseURL == "" {
		cfg.Verification.LinkBaseURL = "http://localhost:4000/verify"
	}
	if cfg.Email.RetryAttempts == 0 {
		cfg.Email.RetryAttempts = 3
	}
	if cfg.Email.RetryDelayMs == 0 {
		cfg.Email.RetryDelayMs = 500
	}
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
