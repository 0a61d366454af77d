// Package config provides Viper-based hierarchical configuration management
package config

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	CSV struct {
		Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	} `mapstructure:"csv" yaml:"csv"`

	AI struct {
		Enabled        bool   `mapstructure:"enabled" yaml:"enabled"`
		Model          string `mapstructure:"model" yaml:"model"`
		TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
		APIKey         string `mapstructure:"api_key" yaml:"-"` // Never serialize API key
	} `mapstructure:"ai" yaml:"ai"`

	Property struct {
		Address     string `mapstructure:"address" yaml:"address"`
		Einheit     string `mapstructure:"einheit" yaml:"einheit"`
		Bezeichnung string `mapstructure:"bezeichnung" yaml:"bezeichnung"`
		Untergruppe string `mapstructure:"untergruppe" yaml:"untergruppe"`
	} `mapstructure:"property" yaml:"property"`

	// MEA is the Miteigentumsanteil of the unit: the co-ownership share the
	// WEG statement apportions by.
	MEA struct {
		Anteile     int `mapstructure:"anteile" yaml:"anteile"`
		BasisGesamt int `mapstructure:"basis_gesamt" yaml:"basis_gesamt"`
		BasisUG     int `mapstructure:"basis_ug" yaml:"basis_ug"`
	} `mapstructure:"mea" yaml:"mea"`

	Landlord struct {
		Name    string `mapstructure:"name" yaml:"name"`
		Address string `mapstructure:"address" yaml:"address"`
		City    string `mapstructure:"city" yaml:"city"`
		Email   string `mapstructure:"email" yaml:"email"`
	} `mapstructure:"landlord" yaml:"landlord"`

	Settlement struct {
		Year      int    `mapstructure:"year" yaml:"year"`
		RulesFile string `mapstructure:"rules_file" yaml:"rules_file"`
		OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`
	} `mapstructure:"settlement" yaml:"settlement"`
}

// MEARatioGesamt returns the unit's share of the whole property.
func (c *Config) MEARatioGesamt() float64 {
	if c.MEA.BasisGesamt == 0 {
		return 0
	}
	return float64(c.MEA.Anteile) / float64(c.MEA.BasisGesamt)
}

// MEARatioUG returns the unit's share within its subgroup.
func (c *Config) MEARatioUG() float64 {
	if c.MEA.BasisUG == 0 {
		return 0
	}
	return float64(c.MEA.Anteile) / float64(c.MEA.BasisUG)
}

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig() (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.nebenkosten")
	v.AddConfigPath(".nebenkosten")
	v.AddConfigPath(".")

	// 3. Environment variables
	v.SetEnvPrefix("NK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Log the error but don't fail - continue with defaults and env vars
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
		// Config file not found or invalid is OK, we'll use defaults and env vars
	}

	// 5. Handle special case for API key (always from env, not prefixed)
	if err := v.BindEnv("ai.api_key", "GEMINI_API_KEY"); err != nil {
		fmt.Printf("Warning: failed to bind GEMINI_API_KEY environment variable: %v\n", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 6. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// CSV defaults
	v.SetDefault("csv.delimiter", ",")

	// AI defaults
	v.SetDefault("ai.enabled", false)
	v.SetDefault("ai.model", "gemini-1.5-pro")
	v.SetDefault("ai.timeout_seconds", 120)

	// Property defaults
	v.SetDefault("property.address", "")
	v.SetDefault("property.einheit", "")
	v.SetDefault("property.bezeichnung", "")
	v.SetDefault("property.untergruppe", "")

	// MEA defaults
	v.SetDefault("mea.anteile", 0)
	v.SetDefault("mea.basis_gesamt", 10000)
	v.SetDefault("mea.basis_ug", 0)

	// Landlord defaults
	v.SetDefault("landlord.name", "")
	v.SetDefault("landlord.address", "")
	v.SetDefault("landlord.city", "Berlin")
	v.SetDefault("landlord.email", "")

	// Settlement defaults
	v.SetDefault("settlement.year", 0)
	v.SetDefault("settlement.rules_file", "")
	v.SetDefault("settlement.output_dir", "output")
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	// Validate log level
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	// Validate log format
	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	// Validate CSV delimiter
	if len(config.CSV.Delimiter) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.CSV.Delimiter)
	}

	// Validate AI configuration
	if config.AI.Enabled {
		if config.AI.APIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY required when AI is enabled")
		}
		if config.AI.TimeoutSeconds < 1 || config.AI.TimeoutSeconds > 600 {
			return fmt.Errorf("ai.timeout_seconds must be between 1 and 600, got: %d", config.AI.TimeoutSeconds)
		}
	}

	// Validate MEA shares
	if config.MEA.Anteile < 0 {
		return fmt.Errorf("mea.anteile must not be negative, got: %d", config.MEA.Anteile)
	}
	if config.MEA.BasisGesamt < 1 {
		return fmt.Errorf("mea.basis_gesamt must be positive, got: %d", config.MEA.BasisGesamt)
	}

	return nil
}

// ConfigureLoggingFromConfig configures logging based on the Config struct
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	logger := logrus.New()

	// Parse and set log level
	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Configure log format
	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}
