package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where the CLI looks for a config file.
const DefaultPath = "stubsplit.yaml"

type Config struct {
	Project struct {
		StubRoot   string `yaml:"stub_root" validate:"required"`
		DocRoot    string `yaml:"doc_root" validate:"required"`
		CreateDirs bool   `yaml:"create_dirs"` // create doc directories on split
	} `yaml:"project"`
	Scan struct {
		Extensions []string `yaml:"extensions" validate:"min=1,dive,startswith=."`
		Ignore     []string `yaml:"ignore"` // .gitignore-style patterns
	} `yaml:"scan"`
	Check struct {
		Strict bool `yaml:"strict"` // refuse to split stubs with unsupported constructs
	} `yaml:"check"`
	Journal struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path" validate:"required_if=Enabled true"`
	} `yaml:"journal"`
	Log struct {
		Level string `yaml:"level" validate:"oneof=debug info warn error"`
		File  string `yaml:"file"`
	} `yaml:"log"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	var cfg Config
	cfg.Project.StubRoot = "stubs"
	cfg.Project.DocRoot = "docstrings"
	cfg.Project.CreateDirs = true
	cfg.Scan.Extensions = []string{".pyi"}
	cfg.Scan.Ignore = []string{".git", "__pycache__", "node_modules"}
	cfg.Check.Strict = true
	cfg.Journal.Enabled = true
	cfg.Journal.Path = ".stubsplit.db"
	cfg.Log.Level = "info"
	return &cfg
}

// LoadConfig reads the YAML file at path on top of Default. A missing file is
// not an error. Environment variables (and a .env file) override file values.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	cfg := Default()

	// 2. Load YAML config
	file, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	// 3. Override with Environment Variables if present
	if v := os.Getenv("STUBSPLIT_STUB_ROOT"); v != "" {
		cfg.Project.StubRoot = v
	}
	if v := os.Getenv("STUBSPLIT_DOC_ROOT"); v != "" {
		cfg.Project.DocRoot = v
	}
	if v := os.Getenv("STUBSPLIT_DB"); v != "" {
		cfg.Journal.Path = v
	}
	if v := os.Getenv("STUBSPLIT_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("STUBSPLIT_STRICT"); v != "" {
		strict, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("STUBSPLIT_STRICT: %w", err)
		}
		cfg.Check.Strict = strict
	}

	return cfg, nil
}

var validate = validator.New()

// Validate checks the configuration after flags have been applied.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
