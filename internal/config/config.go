package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/partsline/opsconsole/internal/types"
)

// Config holds all configuration for the application
type Config struct {
	Port           string
	AllowedOrigins []string
	LogLevel       string

	DialpadAPIKey  string
	DialpadBaseURL string
	DepartmentID   string
	Agents         []types.Agent

	FetchTimeout    time.Duration
	DefaultMaxPages int

	OIDCIssuerURL string
	VPICBaseURL   string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:5173"), ","),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		DialpadAPIKey:  os.Getenv("DIALPAD_API_KEY"),
		DialpadBaseURL: getEnv("DIALPAD_BASE_URL", "https://dialpad.com"),
		DepartmentID:   os.Getenv("DIALPAD_DEPARTMENT_ID"),
		OIDCIssuerURL:  os.Getenv("OIDC_ISSUER_URL"),
		VPICBaseURL:    getEnv("VPIC_BASE_URL", "https://vpic.nhtsa.dot.gov"),
	}

	fetchTimeout, err := strconv.Atoi(getEnv("FETCH_TIMEOUT_MINUTES", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid FETCH_TIMEOUT_MINUTES: %w", err)
	}
	config.FetchTimeout = time.Duration(fetchTimeout) * time.Minute

	maxPages, err := strconv.Atoi(getEnv("DEFAULT_MAX_PAGES", "2"))
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_MAX_PAGES: %w", err)
	}
	config.DefaultMaxPages = maxPages

	agents, err := parseRoster(os.Getenv("AGENT_ROSTER"))
	if err != nil {
		return nil, err
	}
	config.Agents = agents

	// Trim spaces from allowed origins
	for i, origin := range config.AllowedOrigins {
		config.AllowedOrigins[i] = strings.TrimSpace(origin)
	}

	return config, nil
}

// parseRoster parses the static agent map, formatted "Name:id,Name:id".
// Display names may contain spaces but not colons or commas.
func parseRoster(raw string) ([]types.Agent, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	entries := strings.Split(raw, ",")
	agents := make([]types.Agent, 0, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, id, ok := strings.Cut(entry, ":")
		if !ok || strings.TrimSpace(name) == "" || strings.TrimSpace(id) == "" {
			return nil, fmt.Errorf("invalid AGENT_ROSTER entry %q (want Name:id)", entry)
		}
		agents = append(agents, types.Agent{
			Name: strings.TrimSpace(name),
			ID:   strings.TrimSpace(id),
		})
	}
	return agents, nil
}

// getEnv gets an environment variable with a fallback default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
