package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// Server
	Port        int    `envconfig:"PORT" default:"3000"`
	Environment string `envconfig:"ENV" default:"development"`

	// Database. Empty disables the archive layer; sessions then run
	// fully in memory.
	DatabaseURL string `envconfig:"DATABASE_URL"`

	// Provider
	FaceProvider string `envconfig:"FACE_PROVIDER" default:"facemesh"`
	FacemeshURL  string `envconfig:"FACEMESH_URL" default:"http://localhost:5005"`
	AWSRegion    string `envconfig:"AWS_REGION" default:"us-east-1"`

	// Security
	APIKey string `envconfig:"API_KEY" required:"true"`

	// Monitoring cadences and thresholds
	HeadMovementDuration    time.Duration `envconfig:"HEAD_MOVEMENT_DURATION" default:"3s"`
	EyeDownDuration         time.Duration `envconfig:"EYE_DOWN_DURATION" default:"5s"`
	DetectionFrameThreshold int           `envconfig:"DETECTION_FRAME_THRESHOLD" default:"3"`
	FaceInterval            time.Duration `envconfig:"FACE_INTERVAL" default:"33ms"`
	ObjectInterval          time.Duration `envconfig:"OBJECT_INTERVAL" default:"500ms"`
	AudioInterval           time.Duration `envconfig:"AUDIO_INTERVAL" default:"100ms"`
	AudioEventDebounce      time.Duration `envconfig:"AUDIO_EVENT_DEBOUNCE" default:"0s"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// ArchiveEnabled reports whether session persistence is configured
func (c *Config) ArchiveEnabled() bool {
	return c.DatabaseURL != ""
}
