package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Dataset struct {
		Path string `yaml:"path" env:"CARPRICE_DATASET_PATH"`
	} `yaml:"dataset"`
	Database struct {
		Path string `yaml:"path" env:"CARPRICE_DATABASE_PATH"`
	} `yaml:"database"`
	Http struct {
		Port           int           `yaml:"port" env:"CARPRICE_HTTP_PORT"`
		Timeout        time.Duration `yaml:"timeout" env:"CARPRICE_HTTP_TIMEOUT"`
		AllowedOrigins []string      `yaml:"allowed_origins" env:"CARPRICE_HTTP_ALLOWED_ORIGINS" envSeparator:","`
	} `yaml:"http"`
	Log struct {
		Level      string `yaml:"level" env:"CARPRICE_LOG_LEVEL"`
		File       string `yaml:"file" env:"CARPRICE_LOG_FILE"`
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
		MaxAgeDays int    `yaml:"max_age_days"`
	} `yaml:"log"`
	ML struct {
		ModelType  string `yaml:"model_type" env:"CARPRICE_MODEL_TYPE"`
		ModelPath  string `yaml:"model_path" env:"CARPRICE_MODEL_PATH"`
		WatchModel bool   `yaml:"watch_model" env:"CARPRICE_WATCH_MODEL"`
		CacheSize  int    `yaml:"cache_size" env:"CARPRICE_CACHE_SIZE"`
		Training   struct {
			TestRatio float64 `yaml:"test_ratio"`
			Seed      int64   `yaml:"seed"`
		} `yaml:"training"`
	} `yaml:"ml"`
}

// Default returns the configuration used when no file is present. Load decodes on top
// of it, so a key absent from the file keeps its default and an explicit zero wins:
// cache_size: 0 turns memoization off and seed: 0 is a valid seed.
func Default() *Config {
	cfg := &Config{}
	cfg.Dataset.Path = "data/Cardetails.csv"
	cfg.Http.Port = 8080
	cfg.Http.Timeout = 30 * time.Second
	cfg.Http.AllowedOrigins = []string{"*"}
	cfg.Log.Level = "info"
	cfg.Log.MaxSizeMB = 100
	cfg.Log.MaxBackups = 3
	cfg.Log.MaxAgeDays = 28
	cfg.ML.ModelType = "linear_regression"
	cfg.ML.ModelPath = "models/model.json"
	cfg.ML.CacheSize = 1024
	cfg.ML.Training.TestRatio = 0.2
	cfg.ML.Training.Seed = 42
	return cfg
}

// Load reads the YAML file at path (optional when it does not exist), then a .env file
// if present, then CARPRICE_* environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		file, err := os.Open(path)
		switch {
		case err == nil:
			defer file.Close()
			if err := yaml.NewDecoder(file).Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("decode %s: %w", path, err)
			}
		case os.IsNotExist(err):
		default:
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
	}

	_ = godotenv.Load()
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	return cfg, nil
}
