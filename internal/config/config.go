package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/docker/go-units"

	"github.com/redpwn/powupload/internal/fault"
)

type size uint64

func (s *size) UnmarshalText(t []byte) error {
	v, err := units.RAMInBytes(string(t))
	*s = size(v)
	return err
}

func (s size) String() string {
	return units.BytesSize(float64(s))
}

type Config struct {
	Workers          int           `env:"UPLOAD_WORKERS" envDefault:"32"`
	SuffixSize       int           `env:"UPLOAD_SUFFIX_SIZE" envDefault:"64"`
	ProgressInterval uint64        `env:"UPLOAD_PROGRESS_INTERVAL" envDefault:"10000"`
	SolveTimeout     time.Duration `env:"UPLOAD_SOLVE_TIMEOUT"`
	HTTPTimeout      time.Duration `env:"UPLOAD_HTTP_TIMEOUT" envDefault:"60s"`
	MaxFileSize      size          `env:"UPLOAD_MAX_FILE_SIZE"`
	RequestRate      float64       `env:"UPLOAD_REQUEST_RATE"`
	ChallengePath    string        `env:"UPLOAD_CHALLENGE_PATH" envDefault:"/api2/challenge"`
	UploadPath       string        `env:"UPLOAD_UPLOAD_PATH" envDefault:"/api2/upload"`
}

// MaxFileBytes returns the upload size limit, 0 meaning unlimited.
func (c *Config) MaxFileBytes() int64 {
	return int64(c.MaxFileSize)
}

func (c *Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers %d: %w", c.Workers, fault.ErrInvalidConfig)
	}
	if c.SuffixSize < 1 {
		return fmt.Errorf("suffix size %d: %w", c.SuffixSize, fault.ErrInvalidConfig)
	}
	if c.RequestRate < 0 {
		return fmt.Errorf("request rate %g: %w", c.RequestRate, fault.ErrInvalidConfig)
	}
	if c.SolveTimeout < 0 || c.HTTPTimeout < 0 {
		return fmt.Errorf("negative timeout: %w", fault.ErrInvalidConfig)
	}
	return nil
}

func GetConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
