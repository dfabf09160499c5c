package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"
)

// ScheduleDefault defines a recurring game-slot pattern used when generating
// an event's schedule
type ScheduleDefault struct {
	Name              string `yaml:"name,omitempty"`
	RRule             string `yaml:"rrule" validate:"required"`
	GameLengthMinutes *int   `yaml:"gameLengthMinutes,omitempty" validate:"omitempty,min=1"`
}

// Config represents the application configuration
type Config struct {
	DatabaseURL              string            `yaml:"databaseURL" validate:"required"`
	Timezone                 string            `yaml:"timezone" validate:"required"`
	DefaultGameLengthMinutes int               `yaml:"defaultGameLengthMinutes" validate:"min=1"`
	ScheduleDefaults         []ScheduleDefault `yaml:"scheduleDefaults,omitempty" validate:"dive"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// LoadWithEnv loads crewcall_config.<env>.yaml, falling back to
// crewcall_config.yaml, from the current directory then the home directory
func LoadWithEnv(env string) (*Config, error) {
	names := []string{"crewcall_config.yaml"}
	if env != "" {
		names = append([]string{fmt.Sprintf("crewcall_config.%s.yaml", env)}, names...)
	}

	configPath, err := findConfigFile(names)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct and checks rrule syntax
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	for i, def := range cfg.ScheduleDefaults {
		if _, err := rrule.StrToRRule(def.RRule); err != nil {
			return fmt.Errorf("invalid rrule in scheduleDefaults[%d]: %w", i, err)
		}
	}

	return nil
}

// findConfigFile searches the current directory then the home directory for
// the first matching name
func findConfigFile(names []string) (string, error) {
	for _, name := range names {
		if _, err := os.Stat(name); err == nil {
			return name, nil
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	for _, name := range names {
		homePath := filepath.Join(homeDir, name)
		if _, err := os.Stat(homePath); err == nil {
			return homePath, nil
		}
	}

	return "", fmt.Errorf("config file not found in current directory or home directory")
}
