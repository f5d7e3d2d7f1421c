package env

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"pagekit/internal/application/port/output"

	"github.com/joho/godotenv"
)

var _ output.ConfigPort = (*EnvService)(nil)

type EnvService struct{}

// NewEnvService loads .env and then .env.<APP_ENV>, the latter overriding.
// Missing files are fine; CI sets variables directly.
func NewEnvService(dir string) *EnvService {
	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = "dev"
	}

	if err := godotenv.Load(join(dir, ".env")); err != nil {
		log.Printf("Info: no .env file found (this is OK for CI/CD)")
	}

	envFile := join(dir, fmt.Sprintf(".env.%s", appEnv))
	if err := godotenv.Overload(envFile); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not load %s: %v", envFile, err)
	}

	return &EnvService{}
}

func join(dir, name string) string {
	if dir == "" {
		return name
	}
	return filepath.Join(dir, name)
}

func (e *EnvService) Get(key string) string {
	return os.Getenv(key)
}

// MustGet exits the process when key is unset or empty.
func (e *EnvService) MustGet(key string) string {
	val, ok := lookup(key, func(s string) (string, error) { return s, nil })
	if !ok {
		log.Fatalf("ENV %s is missing", key)
	}
	return val
}

func (e *EnvService) GetWithDefault(key, defaultValue string) string {
	return orDefault(key, defaultValue, func(s string) (string, error) { return s, nil })
}

func (e *EnvService) GetBool(key string, defaultValue bool) bool {
	return orDefault(key, defaultValue, strconv.ParseBool)
}

func (e *EnvService) GetInt(key string, defaultValue int) int {
	return orDefault(key, defaultValue, strconv.Atoi)
}

// GetDuration accepts Go duration strings ("15s") or a bare number of seconds.
func (e *EnvService) GetDuration(key string, defaultValue time.Duration) time.Duration {
	return orDefault(key, defaultValue, parseDuration)
}

func parseDuration(s string) (time.Duration, error) {
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}
	secs, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return time.Duration(secs) * time.Second, nil
}

// lookup parses the value of key. ok is false when the variable is empty or
// does not parse.
func lookup[T any](key string, parse func(string) (T, error)) (T, bool) {
	var zero T
	raw := os.Getenv(key)
	if raw == "" {
		return zero, false
	}
	v, err := parse(raw)
	if err != nil {
		return zero, false
	}
	return v, true
}

func orDefault[T any](key string, defaultValue T, parse func(string) (T, error)) T {
	if v, ok := lookup(key, parse); ok {
		return v
	}
	return defaultValue
}
