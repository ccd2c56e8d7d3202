package config

import (
	"log"
	"os"
	"strconv"

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

	Site struct {
		// BaseURL is the public frontend origin. Used for verification links,
		// redirect targets and page revalidation calls.
		BaseURL string `yaml:"base_url"`
	} `yaml:"site"`

	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
	} `yaml:"email"`

	JWT struct {
		Secret string `yaml:"secret"`
		TTL    int    `yaml:"ttl"` // minutes
	} `yaml:"jwt"`

	Security struct {
		// TokenSecret signs review verification tokens. Fatal when empty.
		TokenSecret   string `yaml:"token_secret"`
		TokenTTLHours int    `yaml:"token_ttl_hours"`
	} `yaml:"security"`

	Turnstile struct {
		Secret   string `yaml:"secret"`
		Endpoint string `yaml:"endpoint"`
	} `yaml:"turnstile"`

	Review struct {
		// RateLimit caps submissions per hashed IP within RateWindowMinutes.
		RateLimit         int `yaml:"rate_limit"`
		RateWindowMinutes int `yaml:"rate_window_minutes"`
	} `yaml:"review"`

	Storage struct {
		Type       string `yaml:"type"`       // local, s3
		BasePath   string `yaml:"base_path"`  // for local storage
		BaseURL    string `yaml:"base_url"`   // public URL base
		Bucket     string `yaml:"bucket"`     // for S3
		Region     string `yaml:"region"`     // for S3
		AccessKey  string `yaml:"access_key"` // for S3
		SecretKey  string `yaml:"secret_key"` // for S3
		Endpoint   string `yaml:"endpoint"`   // for S3-compatible stores
		PublicRead bool   `yaml:"public_read"`
	} `yaml:"storage"`

	FirstAdminEmail    string `yaml:"first_admin_email"`
	FirstAdminPassword string `yaml:"first_admin_password"`
}

var AppConfig *Config

// LoadConfig loads configuration from config.yaml, or entirely from
// environment variables when DATABASE_URL is set (tests, containers).
func LoadConfig() {
	var cfg Config

	dbURL := os.Getenv("DATABASE_URL")

	if dbURL == "" {
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

	cfg.Database.DSN = dbURL
	cfg.Server.Env = os.Getenv("SERVER_ENV")
	cfg.Server.Port, _ = strconv.Atoi(os.Getenv("SERVER_PORT"))
	cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	cfg.JWT.TTL = 60
	cfg.Site.BaseURL = os.Getenv("SITE_BASE_URL")
	cfg.Security.TokenSecret = os.Getenv("REVIEW_TOKEN_SECRET")
	cfg.Turnstile.Secret = os.Getenv("TURNSTILE_SECRET_KEY")
	cfg.Email.SMTPHost = os.Getenv("SMTP_HOST")
	cfg.Email.SMTPPort, _ = strconv.Atoi(os.Getenv("SMTP_PORT"))
	cfg.Email.SMTPUsername = os.Getenv("SMTP_USER")
	cfg.Email.SMTPPassword = os.Getenv("SMTP_PASS")
	cfg.Email.FromEmail = os.Getenv("SMTP_FROM")
	cfg.FirstAdminEmail = os.Getenv("FIRST_ADMIN_EMAIL")
	cfg.FirstAdminPassword = os.Getenv("FIRST_ADMIN_PASSWORD")

	if v := os.Getenv("REVIEW_RATE_LIMIT"); v != "" {
		cfg.Review.RateLimit, _ = strconv.Atoi(v)
	}

	cfg.Storage.Type = "local"
	cfg.Storage.BasePath = "./uploads"

	applyDefaults(&cfg)
	AppConfig = &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Site.BaseURL == "" {
		cfg.Site.BaseURL = "http://localhost:3000"
	}
	if cfg.Security.TokenTTLHours <= 0 {
		cfg.Security.TokenTTLHours = 24
	}
	if cfg.Turnstile.Endpoint == "" {
		cfg.Turnstile.Endpoint = "https://challenges.cloudflare.com/turnstile/v0/siteverify"
	}
	if cfg.Review.RateLimit <= 0 {
		cfg.Review.RateLimit = 3
	}
	if cfg.Review.RateWindowMinutes <= 0 {
		cfg.Review.RateWindowMinutes = 60
	}
	// Local uploads are served by the files route; S3 setups provide their
	// own public base URL.
	if (cfg.Storage.Type == "" || cfg.Storage.Type == "local") && cfg.Storage.BaseURL == "" {
		cfg.Storage.BaseURL = "/api/files"
	}
	if cfg.Email.FromName == "" {
		cfg.Email.FromName = "Tastes Like Home"
	}
	if cfg.JWT.TTL <= 0 {
		cfg.JWT.TTL = 60
	}
}

// GetConfig returns the loaded configuration, loading it on first use.
func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
