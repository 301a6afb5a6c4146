package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	API   APIConfig
	Agent AgentConfig
	Kiosk KioskConfig
	App   AppConfig
}

// APIConfig holds the remote platform API configuration
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// AgentConfig holds the local kiosk agent configuration
type AgentConfig struct {
	Port         int
	StateDir     string
	SyncInterval time.Duration
	UIOrigin     string
}

// KioskConfig holds kiosk-specific configuration
type KioskConfig struct {
	ShopID             string
	SupervisorPINHash  string
	LocalSessionSecret string
	LocalSessionTTL    time.Duration
}

// AppConfig holds application configuration
type AppConfig struct {
	Env      string
	LogLevel string
}

func Load() (*Config, error) {
	// .env is optional on kiosks; real deployments configure via the environment
	_ = godotenv.Load()

	config := &Config{}

	apiTimeout, err := time.ParseDuration(getEnv("API_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid API_TIMEOUT: %w", err)
	}

	config.API = APIConfig{
		BaseURL: getEnv("API_BASE_URL", "https://api.arcadehq.dev/api/v1"),
		Timeout: apiTimeout,
	}

	agentPort, err := strconv.Atoi(getEnv("AGENT_PORT", "7420"))
	if err != nil {
		return nil, fmt.Errorf("invalid AGENT_PORT: %w", err)
	}

	syncInterval, err := time.ParseDuration(getEnv("SYNC_INTERVAL", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SYNC_INTERVAL: %w", err)
	}

	config.Agent = AgentConfig{
		Port:         agentPort,
		StateDir:     getEnv("STATE_DIR", "/var/lib/arcade-agent"),
		SyncInterval: syncInterval,
		UIOrigin:     getEnv("UI_ORIGIN", "http://localhost:3000"),
	}

	sessionTTL, err := time.ParseDuration(getEnv("LOCAL_SESSION_TTL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOCAL_SESSION_TTL: %w", err)
	}

	config.Kiosk = KioskConfig{
		ShopID:             getEnv("SHOP_ID", ""),
		SupervisorPINHash:  getEnv("SUPERVISOR_PIN_HASH", ""),
		LocalSessionSecret: getEnv("LOCAL_SESSION_SECRET", ""),
		LocalSessionTTL:    sessionTTL,
	}

	config.App = AppConfig{
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	return config, nil
}

// Validate checks the settings the kiosk agent daemon cannot run without.
// One-shot tools like payrollctl skip it; they only need the API settings.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("API_BASE_URL is required")
	}
	if c.Agent.StateDir == "" {
		return fmt.Errorf("STATE_DIR is required")
	}
	if c.Kiosk.LocalSessionSecret == "" {
		return fmt.Errorf("LOCAL_SESSION_SECRET is required")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
