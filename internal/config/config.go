// Package config handles loading and parsing application configuration.
// It supports two sources (in priority order):
//  1. An environment variable:  CONFIG_PATH=/path/to/config.yaml
//  2. A command-line flag:      --config=/path/to/config.yaml
//
// A .env file in the working directory, if present, is loaded into the
// process environment first, so any key can be overridden there too.
package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config is the root configuration structure.
// Every field maps to a key in the YAML file AND can be overridden
// by the corresponding environment variable (env:"...").
type Config struct {
	// Env controls log format and verbosity.
	// Valid values: "dev", "staging", "prod"
	Env string `yaml:"env" env:"ENV" env-default:"dev" validate:"oneof=dev staging prod"`

	Storage Storage `yaml:"storage"`
	Uploads Uploads `yaml:"uploads"`

	// HTTPServer is embedded so its fields are promoted: cfg.Addr.
	HTTPServer `yaml:"http_server"`
}

// Storage selects and configures the record backend.
type Storage struct {
	// Driver is one of "mongo" (default), "sqlite" or "memory".
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"mongo" validate:"oneof=mongo sqlite memory"`

	// SQLitePath is the filesystem path to the SQLite .db file.
	SQLitePath string `yaml:"sqlite_path" env:"STORAGE_PATH" validate:"required_if=Driver sqlite"`

	Mongo Mongo `yaml:"mongo"`
}

// Mongo holds the document-store connection settings.
type Mongo struct {
	URI      string        `yaml:"uri"      env:"MONGO_URI"      env-default:"mongodb://127.0.0.1:27017" validate:"required"`
	Database string        `yaml:"database" env:"MONGO_DATABASE" env-default:"portalDB"                  validate:"required"`
	Timeout  time.Duration `yaml:"timeout"  env:"MONGO_TIMEOUT"  env-default:"10s"                       validate:"gt=0"`
}

// Uploads configures File Intake.
type Uploads struct {
	// Dir is where uploaded files are written. Created on startup.
	Dir string `yaml:"dir" env:"UPLOADS_DIR" env-default:"uploads" validate:"required"`

	// URLPrefix is both the prefix of the reference path stored on a
	// record and the route the files are served back from.
	URLPrefix string `yaml:"url_prefix" env:"UPLOADS_URL_PREFIX" env-default:"/uploads" validate:"required,startswith=/"`
}

// HTTPServer holds settings specific to the HTTP server.
type HTTPServer struct {
	Addr string `yaml:"address" env:"HTTP_SERVER_ADDR" env-default:"localhost:5000" validate:"required"`

	// StaticDir is served at "/" when it exists. Empty disables it.
	StaticDir string `yaml:"static_dir" env:"HTTP_STATIC_DIR" env-default:"public"`

	// AllowedOrigins lists the origins allowed to call the API from a browser.
	AllowedOrigins []string `yaml:"allowed_origins" env:"HTTP_ALLOWED_ORIGINS" env-default:"http://localhost:5173" env-separator:","`
}

// Load reads the YAML file at path, applies env overrides and defaults,
// then validates the result.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", path)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// MustLoad locates the config file, loads it, and returns it.
//
// The name "MustLoad" follows a Go convention: functions prefixed with
// "Must" are allowed to fatal on failure. If this returns, the config
// is valid.
func MustLoad() *Config {
	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Fatalf("cannot load .env: %s", err.Error())
	}

	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {
		flags := flag.String("config", "", "Path to the configuration YAML file")
		flag.Parse()
		configPath = *flags
	}

	if configPath == "" {
		log.Fatal("config path is not set: use --config flag or CONFIG_PATH env var")
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatal(err.Error())
	}

	return cfg
}
