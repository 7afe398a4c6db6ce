package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Backend struct {
		URL     string `yaml:"url"`
		Token   string `yaml:"token"`
		Timeout string `yaml:"timeout"`
	} `yaml:"backend"`
	Video struct {
		YouTubeKey   string `yaml:"youtubeKey"`
		Timeout      string `yaml:"timeout"`
		RefreshLimit int    `yaml:"refreshLimit"`
	} `yaml:"video"`
	Bank struct {
		TTL string `yaml:"ttl"`
	} `yaml:"bank"`
	Collapse struct {
		TTL string `yaml:"ttl"`
	} `yaml:"collapse"`
	Money struct {
		Locale string `yaml:"locale"`
	} `yaml:"money"`
	Rollbar struct {
		Token       string `yaml:"token"`
		Environment string `yaml:"environment"`
	} `yaml:"rollbar"`
}

// Load reads YAML config from path. Secrets left empty in the file are taken from the environment.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	fromEnv(&cfg.Backend.Token, "BACKEND_TOKEN")
	fromEnv(&cfg.Video.YouTubeKey, "YOUTUBE_API_KEY")
	fromEnv(&cfg.Rollbar.Token, "ROLLBAR_TOKEN")
	fromEnv(&cfg.Postgres.URL, "DATABASE_URL")
	return cfg, nil
}

func fromEnv(dst *string, key string) {
	if *dst != "" {
		return
	}
	*dst = os.Getenv(key)
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
