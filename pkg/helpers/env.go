// Package helpers provides common utility functions used across the project.
package helpers

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadDotenv loads .env files into the process environment.
//
// Input: optional file paths (defaults to ".env" in the working directory)
// Output: error if an explicitly named file cannot be read
// Behavior: missing default .env is not an error; already-set variables win
//
// Meant for example binaries and local development, mirroring the usual
// twelve-factor setup. Library code reads plain environment variables and
// never calls this itself.
//
// Example:
//
//	func main() {
//		_ = helpers.LoadDotenv()
//		...
//	}
func LoadDotenv(paths ...string) error {
	if len(paths) == 0 {
		if _, err := os.Stat(".env"); err != nil {
			return nil
		}
	}
	return godotenv.Load(paths...)
}

// GetStringFromEnv reads an environment variable, falling back when the
// variable is unset or empty.
//
// Example:
//
//	endpoint := helpers.GetStringFromEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
func GetStringFromEnv(key, fallback string) string {
	if raw, ok := os.LookupEnv(key); ok && raw != "" {
		return raw
	}
	return fallback
}

// GetIntFromEnv reads an integer environment variable, falling back when
// the variable is unset, empty, or not a valid integer.
//
// Example:
//
//	workers := helpers.GetIntFromEnv("DELUGE_WORKERS", runtime.GOMAXPROCS(0))
func GetIntFromEnv(key string, fallback int) int {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
