package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"

	"github.com/jakechorley/shift-rota/pkg/core/allocator"
	"github.com/jakechorley/shift-rota/pkg/core/model"
)

// EnvPrefix is prepended to every environment variable that overrides the config file
const EnvPrefix = "SHIFT_"

// Quota is the staffing requirement for one shift type
type Quota struct {
	Seniors int `yaml:"seniors" validate:"min=0"`
	Juniors int `yaml:"juniors" validate:"min=0"`
}

// Quotas holds the requirement for each shift type
type Quotas struct {
	Day   Quota `yaml:"day"`
	Night Quota `yaml:"night"`
}

// Config represents the application configuration
type Config struct {
	DatabaseDriver string `yaml:"databaseDriver" env:"DATABASE_DRIVER" validate:"required,oneof=postgres sqlite"`
	DatabaseURL    string `yaml:"databaseURL" env:"DATABASE_URL" validate:"required"`

	RestHours      int    `yaml:"restHours" env:"REST_HOURS" validate:"min=1"`
	RestClock      string `yaml:"restClock" env:"REST_CLOCK" validate:"oneof=date shift-start"`
	DayStartHour   int    `yaml:"dayStartHour" env:"DAY_START_HOUR" validate:"min=0,max=23"`
	NightStartHour int    `yaml:"nightStartHour" env:"NIGHT_START_HOUR" validate:"min=0,max=23,nefield=DayStartHour"`

	SabbathPairing string `yaml:"sabbathPairing" env:"SABBATH_PAIRING" validate:"oneof=legacy across-boundary"`
	SabbathRRule   string `yaml:"sabbathRRule" env:"SABBATH_RRULE" validate:"required"`

	Quotas Quotas `yaml:"quotas"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Default returns the configuration used for any field the file and environment leave unset
func Default() *Config {
	return &Config{
		DatabaseDriver: "postgres",
		RestHours:      int(allocator.DefaultRestPeriod / time.Hour),
		RestClock:      string(allocator.RestClockDate),
		DayStartHour:   allocator.DefaultDayStartHour,
		NightStartHour: allocator.DefaultNightStartHour,
		SabbathPairing: string(allocator.SabbathPairingLegacy),
		SabbathRRule:   allocator.DefaultSabbathRRule,
		Quotas: Quotas{
			Day:   Quota{Seniors: 1, Juniors: 2},
			Night: Quota{Seniors: 1, Juniors: 1},
		},
	}
}

// Load loads and validates the configuration for the given environment.
// It reads shift_rota_config.<env>.yaml (or shift_rota_config.yaml when env is empty) from the
// current directory first, then from the user's home directory.
func Load(environment string) (*Config, error) {
	configPath, err := findConfigFile(FileName(environment))
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// FileName returns the config file name for an environment
func FileName(environment string) string {
	if environment == "" {
		return "shift_rota_config.yaml"
	}
	return fmt.Sprintf("shift_rota_config.%s.yaml", environment)
}

// LoadFromPath loads and validates the configuration from a specific path,
// overlaying SHIFT_* variables from the process environment
func LoadFromPath(path string) (*Config, error) {
	return LoadFromPathWithEnv(path, nil)
}

// LoadFromPathWithEnv is LoadFromPath with an explicit environment.
// A nil environ means the process environment.
func LoadFromPathWithEnv(path string, environ map[string]string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	opts := env.Options{Prefix: EnvPrefix}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("failed to read environment overrides: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration struct and checks the rrule yields at least one weekday
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if _, err := rrule.StrToRRule(cfg.SabbathRRule); err != nil {
		return fmt.Errorf("invalid rrule in sabbathRRule: %w", err)
	}
	sabbathDays, err := allocator.SabbathDaysFromRRule(cfg.SabbathRRule)
	if err != nil {
		return fmt.Errorf("invalid rrule in sabbathRRule: %w", err)
	}
	if len(sabbathDays) == 0 {
		return fmt.Errorf("sabbathRRule %q matches no weekdays", cfg.SabbathRRule)
	}

	return nil
}

// AllocatorOptions converts the configuration into assignment engine options
func (c *Config) AllocatorOptions() (allocator.Options, error) {
	sabbathDays, err := allocator.SabbathDaysFromRRule(c.SabbathRRule)
	if err != nil {
		return allocator.Options{}, err
	}
	if sabbathDays == nil {
		sabbathDays = []time.Weekday{}
	}

	return allocator.Options{
		RestPeriod:     time.Duration(c.RestHours) * time.Hour,
		RestClock:      allocator.RestClock(c.RestClock),
		DayStartHour:   c.DayStartHour,
		NightStartHour: c.NightStartHour,
		Quotas: map[model.ShiftType]model.Quota{
			model.ShiftDay:   {Seniors: c.Quotas.Day.Seniors, Juniors: c.Quotas.Day.Juniors},
			model.ShiftNight: {Seniors: c.Quotas.Night.Seniors, Juniors: c.Quotas.Night.Juniors},
		},
		SabbathDays:    sabbathDays,
		SabbathPairing: allocator.SabbathPairing(c.SabbathPairing),
	}, nil
}

// findConfigFile searches for the config file in the current directory and home directory
func findConfigFile(configFileName string) (string, error) {
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("%s not found in current directory or home directory", configFileName)
}
