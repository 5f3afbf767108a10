package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the FilmAffinity exporter
type Config struct {
	// FilmAffinity site settings
	FilmAffinity FilmAffinityConfig `yaml:"filmaffinity" json:"filmaffinity"`

	// Scraper settings
	Scraper ScraperConfig `yaml:"scraper" json:"scraper"`

	// Output settings
	Output OutputConfig `yaml:"output" json:"output"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// FilmAffinityConfig holds settings for talking to the FilmAffinity site
type FilmAffinityConfig struct {
	BaseURL        string        `yaml:"base_url" json:"base_url"`
	UserAgent      string        `yaml:"user_agent" json:"user_agent"`
	RequestTimeout time.Duration `yaml:"request_timeout" json:"request_timeout"`
}

// ScraperConfig holds pagination settings
type ScraperConfig struct {
	// MaxPages bounds the pagination loop. The site signals the end of a
	// rating history with an empty page; the cap only guards against a
	// misbehaving response that never goes empty.
	MaxPages int `yaml:"max_pages" json:"max_pages"`
}

// OutputConfig holds output file configuration
type OutputConfig struct {
	Directory       string `yaml:"directory" json:"directory"`
	FileNamePattern string `yaml:"file_name_pattern" json:"file_name_pattern"`
	RecordsPerPage  int    `yaml:"records_per_page" json:"records_per_page"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		FilmAffinity: FilmAffinityConfig{
			BaseURL:        "https://www.filmaffinity.com",
			UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
			RequestTimeout: 30 * time.Second,
		},
		Scraper: ScraperConfig{
			MaxPages: 200,
		},
		Output: OutputConfig{
			Directory:       ".",
			FileNamePattern: "fa_ratings_{user_id}.pdf",
			RecordsPerPage:  5,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if baseURL := os.Getenv("FAEXPORT_BASE_URL"); baseURL != "" {
		c.FilmAffinity.BaseURL = baseURL
	}
	if userAgent := os.Getenv("FAEXPORT_USER_AGENT"); userAgent != "" {
		c.FilmAffinity.UserAgent = userAgent
	}

	if maxPages := os.Getenv("FAEXPORT_MAX_PAGES"); maxPages != "" {
		var val int
		fmt.Sscanf(maxPages, "%d", &val)
		if val > 0 {
			c.Scraper.MaxPages = val
		}
	}

	if outputDir := os.Getenv("FAEXPORT_OUTPUT_DIR"); outputDir != "" {
		c.Output.Directory = outputDir
	}
	if perPage := os.Getenv("FAEXPORT_RECORDS_PER_PAGE"); perPage != "" {
		var val int
		fmt.Sscanf(perPage, "%d", &val)
		if val > 0 {
			c.Output.RecordsPerPage = val
		}
	}

	if logLevel := os.Getenv("FAEXPORT_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	// Check in order of precedence
	locations := []string{
		".faexport.yaml",
		".faexport.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "faexport", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "faexport", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".faexport.yaml"),
		filepath.Join(os.Getenv("HOME"), ".faexport.yml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.FilmAffinity.BaseURL == "" {
		errs = append(errs, errors.New("base URL is required"))
	}
	if c.FilmAffinity.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}

	if c.Scraper.MaxPages <= 0 {
		errs = append(errs, errors.New("max pages must be positive"))
	}

	if c.Output.Directory == "" {
		errs = append(errs, errors.New("output directory is required"))
	}
	if c.Output.FileNamePattern == "" {
		errs = append(errs, errors.New("file name pattern is required"))
	}
	if c.Output.RecordsPerPage <= 0 {
		errs = append(errs, errors.New("records per page must be positive"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if outputDir, ok := flags["output"].(string); ok && outputDir != "" {
		c.Output.Directory = outputDir
	}
	if perPage, ok := flags["records-per-page"].(int); ok && perPage > 0 {
		c.Output.RecordsPerPage = perPage
	}
	if maxPages, ok := flags["max-pages"].(int); ok && maxPages > 0 {
		c.Scraper.MaxPages = maxPages
	}
	if baseURL, ok := flags["base-url"].(string); ok && baseURL != "" {
		c.FilmAffinity.BaseURL = baseURL
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// OutputFileName expands the file name pattern for a user id
func (c *Config) OutputFileName(userID string) string {
	return strings.ReplaceAll(c.Output.FileNamePattern, "{user_id}", userID)
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".faexport.env"))

	// Start with defaults
	config := DefaultConfig()

	// Load from config file
	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	// Override with environment variables (includes values from .env)
	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Override with command line flags
	config.MergeCommandLineFlags(flags)

	// Validate final configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
