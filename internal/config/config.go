package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"

	"github.com/canvasgit/canvasgit/internal/utils"
)

// TokenEnv is the environment variable holding the Canvas API bearer token.
// Tokens never land in the config file.
const TokenEnv = "CANVAS_TOKEN"

var (
	ErrNoCourseID = errors.New("config: course id missing")
	ErrNoBaseURL  = errors.New("config: canvas base url missing")
	ErrNoToken    = errors.New("config: CANVAS_TOKEN not set")
)

// Config is the per-course configuration stored at .canvas/config.json.
type Config struct {
	CourseID   int64  `json:"course_id"`
	CourseName string `json:"course_name,omitempty"`
	BaseURL    string `json:"base_url"`
	Policy     string `json:"policy,omitempty"`

	Path string `json:"-"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Path = path
	return &cfg, nil
}

func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	if err := utils.WriteFileAtomic(path, data, 0o644); err != nil {
		return err
	}
	c.Path = path
	return nil
}

func (c *Config) Validate() error {
	if c.CourseID <= 0 {
		return ErrNoCourseID
	}
	if c.BaseURL == "" {
		return ErrNoBaseURL
	}
	if _, err := url.ParseRequestURI(c.BaseURL); err != nil {
		return fmt.Errorf("config: invalid base url %q: %w", c.BaseURL, err)
	}
	return nil
}

// Token reads the API token from the environment.
func Token() (string, error) {
	token := os.Getenv(TokenEnv)
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}
