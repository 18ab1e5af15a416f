package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Log           LogConfig           `yaml:"log"`
	Gemini        GeminiConfig        `yaml:"gemini"`
	SMTP          SMTPConfig          `yaml:"smtp"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Store         StoreConfig         `yaml:"store"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type GeminiConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

type SMTPConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	SenderEmail    string `yaml:"sender_email"`
	SenderPassword string `yaml:"sender_password"`
}

type NotificationsConfig struct {
	// Days holds the reminder offsets, in days before termination
	Days []int `yaml:"days"`
	// SweepIntervalMinutes controls the background dispatcher cadence
	SweepIntervalMinutes int `yaml:"sweep_interval_minutes"`
}

type StoreConfig struct {
	// Path of the JSON notification ledger
	Path string `yaml:"path"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Set defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Gemini.Model == "" {
		cfg.Gemini.Model = "gemini-1.5-flash"
	}
	if cfg.Gemini.BaseURL == "" {
		cfg.Gemini.BaseURL = "https://generativelanguage.googleapis.com"
	}
	if cfg.SMTP.Host == "" {
		cfg.SMTP.Host = "smtp.gmail.com"
	}
	if cfg.SMTP.Port == 0 {
		cfg.SMTP.Port = 587
	}
	if len(cfg.Notifications.Days) == 0 {
		cfg.Notifications.Days = []int{1, 3, 5}
	}
	if cfg.Notifications.SweepIntervalMinutes == 0 {
		cfg.Notifications.SweepIntervalMinutes = 60
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = "contract_notifications.json"
	}

	// Credentials may come from the environment instead of the config file
	if v := os.Getenv("GEMINI_API"); v != "" {
		cfg.Gemini.APIKey = v
	}
	if v := os.Getenv("NOTIFICATION_EMAIL"); v != "" {
		cfg.SMTP.SenderEmail = v
	}
	if v := os.Getenv("NOTIFICATION_PASSWORD"); v != "" {
		cfg.SMTP.SenderPassword = v
	}

	return &cfg, nil
}
