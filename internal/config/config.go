package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the application configuration. It is constructed once at
// startup and passed by injection; nothing reads the environment afterwards.
type Config struct {
	ServerPort  int
	DatabaseURL string // postgres://... selects Postgres, anything else is a SQLite path

	JWTSecret    string
	JWTAlgorithm string // HS256, HS384 or HS512
	JWTTTL       time.Duration

	CORSOrigins []string
}

// Load loads configuration from environment variables or sets defaults.
// defaultPort differs per service binary.
func Load(defaultPort int) (*Config, error) {
	portStr := getEnv("PORT", strconv.Itoa(defaultPort))
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT %q: %w", portStr, err)
	}

	secret := getEnv("JWT_SECRET", "")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
	}

	alg := getEnv("JWT_ALGORITHM", "HS256")
	switch alg {
	case "HS256", "HS384", "HS512":
	default:
		return nil, fmt.Errorf("unsupported JWT_ALGORITHM %q", alg)
	}

	ttlStr := getEnv("JWT_TTL_MINUTES", "60")
	ttlMinutes, err := strconv.Atoi(ttlStr)
	if err != nil || ttlMinutes <= 0 {
		return nil, fmt.Errorf("invalid JWT_TTL_MINUTES %q", ttlStr)
	}

	var origins []string
	for _, o := range strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	return &Config{
		ServerPort:   port,
		DatabaseURL:  getEnv("DATABASE_URL", "./spendtrack.db"),
		JWTSecret:    secret,
		JWTAlgorithm: alg,
		JWTTTL:       time.Duration(ttlMinutes) * time.Minute,
		CORSOrigins:  origins,
	}, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
