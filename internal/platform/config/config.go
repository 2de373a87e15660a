package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultWindowDays  = 3 * 365
	DefaultPageCap     = 200
	DefaultPacingDelay = 200 * time.Millisecond
)

// fileConfig is the yaml shape of <data-dir>/config.yaml. Every field is
// optional; flags override anything set here.
type fileConfig struct {
	Origin        string `yaml:"origin"`
	StudentID     int64  `yaml:"student_id"`
	CourseID      int64  `yaml:"course_id"`
	SessionCookie string `yaml:"session_cookie"`
	WindowDays    int    `yaml:"window_days"`
	PageCap       int    `yaml:"page_cap"`
	PacingMS      int    `yaml:"pacing_ms"`
}

type Config struct {
	DataDir string
	DBPath  string

	Origin        string
	StudentID     int64
	CourseID      int64
	SessionCookie string

	WindowDays  int
	PageCap     int
	PacingDelay time.Duration
}

func New(dataDir string) (Config, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve home dir: %w", err)
		}
		dataDir = filepath.Join(home, ".mastats")
	}
	cfg := Config{
		DataDir:     dataDir,
		DBPath:      filepath.Join(dataDir, "mastats.db"),
		Origin:      "https://www.mathacademy.com",
		WindowDays:  DefaultWindowDays,
		PageCap:     DefaultPageCap,
		PacingDelay: DefaultPacingDelay,
	}
	if err := cfg.applyFile(filepath.Join(dataDir, "config.yaml")); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return fmt.Errorf("unmarshal config file %s: %w", path, err)
	}
	if fc.Origin != "" {
		c.Origin = fc.Origin
	}
	if fc.StudentID != 0 {
		c.StudentID = fc.StudentID
	}
	if fc.CourseID != 0 {
		c.CourseID = fc.CourseID
	}
	if fc.SessionCookie != "" {
		c.SessionCookie = fc.SessionCookie
	}
	if fc.WindowDays > 0 {
		c.WindowDays = fc.WindowDays
	}
	if fc.PageCap > 0 {
		c.PageCap = fc.PageCap
	}
	if fc.PacingMS > 0 {
		c.PacingDelay = time.Duration(fc.PacingMS) * time.Millisecond
	}
	return nil
}

func (c Config) Window() time.Duration {
	return time.Duration(c.WindowDays) * 24 * time.Hour
}
