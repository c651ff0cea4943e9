// Package config loads process configuration once at startup. Values
// come from the environment (optionally seeded from a .env file) and are
// immutable for the process lifetime.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App         AppConfig
	HTTP        HTTPConfig
	Recognition RecognitionConfig
	Devices     DevicesConfig
	Log         LogConfig
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Env string // "dev" | "prod"
}

// HTTPConfig holds the listener settings.
type HTTPConfig struct {
	Addr string
}

// RecognitionConfig holds the face provider settings. AccessKey and
// SecretKey are optional; when unset the AWS SDK's default credential
// chain applies.
type RecognitionConfig struct {
	CollectionID string
	Region       string
	AccessKey    string
	SecretKey    string

	// Threshold is the minimum similarity (0–100) required for a match.
	Threshold float64
}

// DevicesConfig holds the camera and door actuator endpoints.
type DevicesConfig struct {
	CameraURL string
	DoorURL   string
	Timeout   time.Duration
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
}

// Load reads configuration from the environment. A .env file in the
// working directory is honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("LIMEN")
	v.AutomaticEnv()

	v.SetDefault("env", "dev")
	v.SetDefault("http_addr", ":3000")
	v.SetDefault("collection_id", "smart-door-faces")
	v.SetDefault("camera_url", "http://192.168.1.140/capture")
	v.SetDefault("door_url", "http://192.168.1.141/door")
	v.SetDefault("device_timeout", "10s")
	v.SetDefault("confidence_threshold", 75.0)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")

	// AWS settings keep their conventional unprefixed names.
	_ = v.BindEnv("aws_region", "AWS_REGION")
	_ = v.BindEnv("aws_access_key_id", "AWS_ACCESS_KEY_ID")
	_ = v.BindEnv("aws_secret_access_key", "AWS_SECRET_ACCESS_KEY")

	cfg := &Config{
		App: AppConfig{
			Env: v.GetString("env"),
		},
		HTTP: HTTPConfig{
			Addr: v.GetString("http_addr"),
		},
		Recognition: RecognitionConfig{
			CollectionID: v.GetString("collection_id"),
			Region:       v.GetString("aws_region"),
			AccessKey:    v.GetString("aws_access_key_id"),
			SecretKey:    v.GetString("aws_secret_access_key"),
			Threshold:    v.GetFloat64("confidence_threshold"),
		},
		Devices: DevicesConfig{
			CameraURL: v.GetString("camera_url"),
			DoorURL:   v.GetString("door_url"),
			Timeout:   v.GetDuration("device_timeout"),
		},
		Log: LogConfig{
			Level:  v.GetString("log_level"),
			Format: v.GetString("log_format"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the loaded configuration for values the process cannot
// run with.
func (c *Config) Validate() error {
	if c.Recognition.CollectionID == "" {
		return fmt.Errorf("collection id must not be empty")
	}
	if t := c.Recognition.Threshold; t < 0 || t > 100 {
		return fmt.Errorf("confidence threshold must be in [0, 100], got %v", t)
	}
	if c.HTTP.Addr == "" {
		return fmt.Errorf("http addr must not be empty")
	}
	if c.Devices.CameraURL == "" {
		return fmt.Errorf("camera url must not be empty")
	}
	if c.Devices.DoorURL == "" {
		return fmt.Errorf("door url must not be empty")
	}
	return nil
}
