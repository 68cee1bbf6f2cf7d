package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port string
	}
	Database struct {
		URL string // postgres://... or sqlite://...
	}
	CORS struct {
		AllowedOrigins []string
	}
}

// Load reads config.yaml if present, then lets environment variables
// override. Every key has a working local default.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	setDefaults(v)

	v.AutomaticEnv()
	if err := v.BindEnv("server.port", "PORT"); err != nil {
		return nil, err
	}
	if err := v.BindEnv("database.url", "DATABASE_URL"); err != nil {
		return nil, err
	}
	if err := v.BindEnv("cors.allowed_origins", "CORS_ALLOWED_ORIGINS"); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// No config file; defaults and env vars are enough.
	}

	cfg := &Config{}
	cfg.Server.Port = v.GetString("server.port")
	cfg.Database.URL = v.GetString("database.url")
	cfg.CORS.AllowedOrigins = v.GetStringSlice("cors.allowed_origins")

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8000")
	v.SetDefault("database.url", "sqlite://ideatter.db")
	// Local frontend dev servers.
	v.SetDefault("cors.allowed_origins", []string{
		"http://localhost:5173",
		"http://localhost:5175",
	})
}

func validate(cfg *Config) error {
	if cfg.Database.URL == "" {
		return fmt.Errorf("database.url must not be empty")
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		return fmt.Errorf("cors.allowed_origins must name at least one origin")
	}
	return nil
}
