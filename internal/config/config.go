package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xxxsen/common/logger"

	"photodrop/internal/model"
)

type Config struct {
	Port        int              `json:"port"`
	UploadLimit *int             `json:"upload_limit"`
	Users       []string         `json:"users"`
	Database    DatabaseConfig   `json:"database"`
	Mail        MailConfig       `json:"mail"`
	FileStore   FileStoreConfig  `json:"file_store"`
	Session     SessionConfig    `json:"session"`
	CORSOrigins []string         `json:"cors_origins"`
	RateLimitMS int              `json:"rate_limit_ms"`
	ReportCron  string           `json:"report_cron"`
	LogConfig   logger.LogConfig `json:"log_config"`
}

type DatabaseConfig struct {
	DSN      string `json:"dsn"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"dbname"`
	SSLMode  string `json:"sslmode"`
}

type MailConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	From     string `json:"from"`
}

type FileStoreConfig struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type SessionConfig struct {
	TTLHours    int `json:"ttl_hours"`
	MaxSessions int `json:"max_sessions"`
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Port == 0 {
		return nil, fmt.Errorf("port is required")
	}
	if cfg.UploadLimit == nil {
		return nil, fmt.Errorf("upload_limit is required")
	}
	if *cfg.UploadLimit < 0 {
		return nil, fmt.Errorf("upload_limit must not be negative")
	}
	if len(cfg.Users) == 0 {
		return nil, fmt.Errorf("users is required")
	}
	if _, err := ParseAccounts(cfg.Users); err != nil {
		return nil, err
	}
	if cfg.Database.DSN == "" && cfg.Database.Host == "" {
		return nil, fmt.Errorf("database.dsn or database.host is required")
	}
	if cfg.Mail.Host == "" || cfg.Mail.Port == 0 || cfg.Mail.From == "" {
		return nil, fmt.Errorf("mail host/port/from are required")
	}
	if cfg.FileStore.Type == "" {
		cfg.FileStore.Type = "local"
	}
	if cfg.Session.TTLHours == 0 {
		cfg.Session.TTLHours = 24
	}
	if cfg.Session.MaxSessions == 0 {
		cfg.Session.MaxSessions = 4096
	}
	if cfg.ReportCron == "" {
		cfg.ReportCron = "5 0 * * *"
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	return &cfg, nil
}

// ParseAccounts turns "username:password:email" entries into accounts.
// List order is preserved; duplicate usernames are allowed and resolve to
// the first match at authentication time.
func ParseAccounts(users []string) ([]model.Account, error) {
	accounts := make([]model.Account, 0, len(users))
	for _, entry := range users {
		parts := strings.Split(entry, ":")
		if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
			return nil, fmt.Errorf("invalid user entry %q, want username:password:email", entry)
		}
		accounts = append(accounts, model.Account{
			Username: parts[0],
			Password: parts[1],
			Email:    parts[2],
		})
	}
	return accounts, nil
}
