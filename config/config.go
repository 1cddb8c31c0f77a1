package config

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server   Server
	Database Database
	Session  Session

	GeminiApiKey string
	JWTSecret    string
}

type Server struct {
	Port           string
	AllowedOrigins []string
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// Session controls the lifetime of entries in the in-memory session registry.
type Session struct {
	TTLMinutes       int
	SweepIntervalSec int
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SESSION_TTL_MINUTES", 120)
	viper.SetDefault("SESSION_SWEEP_INTERVAL_SECONDS", 300)

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Server.AllowedOrigins = viper.GetStringSlice("ALLOWED_ORIGINS")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")

	config.Session.TTLMinutes = viper.GetInt("SESSION_TTL_MINUTES")
	config.Session.SweepIntervalSec = viper.GetInt("SESSION_SWEEP_INTERVAL_SECONDS")

	config.GeminiApiKey = viper.GetString("GEMINI_API_KEY")
	config.JWTSecret = viper.GetString("SUPABASE_JWT_SECRET")

	log.Info().Str("port", config.Server.Port).Int("sessionTTLMinutes", config.Session.TTLMinutes).Msg("Config loaded")
	return &config, nil
}
