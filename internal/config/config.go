package config

import (
	"fmt"
	"log"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	GeminiAPIKey   string  `env:"GEMINI_API_KEY"`
	LegacyAPIKey   string  `env:"API_KEY"`
	GeminiModel    string  `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
	DatabaseURL    string  `env:"DATABASE_URL" envDefault:"file:portfolio_transcript?mode=memory&cache=shared"`
	HTTPPort       string  `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel       string  `env:"LOG_LEVEL" envDefault:"INFO"`
	ContentFile    string  `env:"CONTENT_FILE"`
	FrameRate      int     `env:"FRAME_RATE" envDefault:"60"`
	StreamRate     int     `env:"STREAM_RATE" envDefault:"30"`
	ViewportAspect float64 `env:"VIEWPORT_ASPECT" envDefault:"1.7778"`
	CORSAllowAll   bool    `env:"CORS_ALLOW_ALL" envDefault:"false"`
}

var AppConfig Config

// LoadConfig populates AppConfig from the environment, reading a .env file
// first when one is present. A missing Gemini key is not an error: the chat
// widget degrades to its fallback reply instead.
func LoadConfig() error {
	err := godotenv.Load() // Load .env file if it exists
	if err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	AppConfig = cfg
	if AppConfig.APIKey() == "" {
		log.Println("GEMINI_API_KEY is not set; the chat assistant will answer with its fallback message")
	}
	return nil
}

// APIKey returns the Gemini credential, preferring GEMINI_API_KEY over the
// generic API_KEY.
func (c Config) APIKey() string {
	if c.GeminiAPIKey != "" {
		return c.GeminiAPIKey
	}
	return c.LegacyAPIKey
}

func (c Config) Debug() bool {
	return c.LogLevel == "DEBUG"
}

func (c Config) Validate() error {
	if c.FrameRate <= 0 {
		return fmt.Errorf("FRAME_RATE must be positive, got %d", c.FrameRate)
	}
	if c.StreamRate <= 0 || c.StreamRate > c.FrameRate {
		return fmt.Errorf("STREAM_RATE must be between 1 and FRAME_RATE (%d), got %d", c.FrameRate, c.StreamRate)
	}
	if c.ViewportAspect <= 0 {
		return fmt.Errorf("VIEWPORT_ASPECT must be positive, got %v", c.ViewportAspect)
	}
	if c.HTTPPort == "" {
		return fmt.Errorf("HTTP_PORT is required")
	}
	return nil
}
