package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultRateSourceURL = "https://bank.gov.ua/NBUStatService/v1/statdirectory/exchange?json"

type Config struct {
	PostgresAddress  string
	PostgresPort     string
	PostgresDB       string
	PostgresUsername string
	PostgresPassword string

	HTTPPort string
	LogLevel string

	// RedisAddress selects the rate cache backend. Empty means an in-process cache.
	RedisAddress  string
	RedisPassword string
	RedisDB       int

	RateSourceURL    string
	RateCacheKey     string
	RateCacheTTL     time.Duration
	RateFetchTimeout time.Duration

	OperatorWorkers int
}

func ProcessEnvironmentVariables() (*Config, error) {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()

	// In all cases the default behavior should be for the docker compose setup
	env := Config{
		PostgresAddress:  "localhost",
		PostgresPort:     "5433",
		PostgresDB:       "postgres",
		PostgresUsername: "postgres",
		PostgresPassword: "testpassword",
		HTTPPort:         "9446",
		LogLevel:         "info",
		RateSourceURL:    defaultRateSourceURL,
		RateCacheKey:     "nbu_rates",
		RateCacheTTL:     time.Hour,
		RateFetchTimeout: 5 * time.Second,
		OperatorWorkers:  4,
	}

	overrideString(&env.PostgresAddress, "POSTGRES_ADDRESS")
	overrideString(&env.PostgresPort, "POSTGRES_PORT")
	overrideString(&env.PostgresDB, "POSTGRES_DB")
	overrideString(&env.PostgresUsername, "POSTGRES_USERNAME")
	overrideString(&env.PostgresPassword, "POSTGRES_PASSWORD")
	overrideString(&env.HTTPPort, "HTTP_PORT")
	overrideString(&env.LogLevel, "LOG_LEVEL")
	overrideString(&env.RedisAddress, "REDIS_ADDRESS")
	overrideString(&env.RedisPassword, "REDIS_PASSWORD")
	overrideString(&env.RateSourceURL, "RATE_SOURCE_URL")
	overrideString(&env.RateCacheKey, "RATE_CACHE_KEY")

	var err error
	if env.RedisDB, err = overrideInt(env.RedisDB, "REDIS_DB"); err != nil {
		return nil, err
	}
	if env.OperatorWorkers, err = overrideInt(env.OperatorWorkers, "OPERATOR_WORKERS"); err != nil {
		return nil, err
	}
	if env.RateCacheTTL, err = overrideDuration(env.RateCacheTTL, "RATE_CACHE_TTL"); err != nil {
		return nil, err
	}
	if env.RateFetchTimeout, err = overrideDuration(env.RateFetchTimeout, "RATE_FETCH_TIMEOUT"); err != nil {
		return nil, err
	}

	if err := env.Validate(); err != nil {
		return nil, err
	}
	return &env, nil
}

// PostgresURL builds the lib/pq connection string.
func (c *Config) PostgresURL() string {
	return "postgres://" + c.PostgresUsername + ":" +
		c.PostgresPassword + "@" + c.PostgresAddress + ":" +
		c.PostgresPort + "/" + c.PostgresDB + "?sslmode=disable"
}

// Validate returns every problem found, not just the first one.
func (c *Config) Validate() error {
	var problems []string

	for name, port := range map[string]string{"HTTP_PORT": c.HTTPPort, "POSTGRES_PORT": c.PostgresPort} {
		n, err := strconv.Atoi(port)
		if err != nil || n < 1 || n > 65535 {
			problems = append(problems, fmt.Sprintf("invalid %s '%s': must be a number between 1 and 65535", name, port))
		}
	}
	if c.RateCacheTTL <= 0 {
		problems = append(problems, fmt.Sprintf("invalid RATE_CACHE_TTL %v: must be positive", c.RateCacheTTL))
	}
	if c.RateFetchTimeout <= 0 {
		problems = append(problems, fmt.Sprintf("invalid RATE_FETCH_TIMEOUT %v: must be positive", c.RateFetchTimeout))
	}
	if c.RateCacheKey == "" {
		problems = append(problems, "RATE_CACHE_KEY cannot be empty")
	}
	if c.OperatorWorkers < 1 {
		problems = append(problems, fmt.Sprintf("invalid OPERATOR_WORKERS %d: must be at least 1", c.OperatorWorkers))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

func overrideString(target *string, key string) {
	if value := os.Getenv(key); len(value) != 0 {
		*target = value
	}
}

func overrideInt(current int, key string) (int, error) {
	value := os.Getenv(key)
	if len(value) == 0 {
		return current, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func overrideDuration(current time.Duration, key string) (time.Duration, error) {
	value := os.Getenv(key)
	if len(value) == 0 {
		return current, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
