package utils

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads a .env file from the working directory if present.
func LoadDotEnv() {
	_ = godotenv.Load()
}

func LoadEnv(requiredVars []string) (map[string]string, error) {
	LoadDotEnv()

	envVars := make(map[string]string)

	for _, key := range requiredVars {
		value := os.Getenv(key)
		if value == "" {
			return nil, fmt.Errorf("missing required environment variable: %s", key)
		}
		envVars[key] = value
	}

	return envVars, nil
}

// EnvOr returns the trimmed value of key, or def when it is unset or blank.
func EnvOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// SplitList splits a comma separated env value, dropping blanks and a leading @.
func SplitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimPrefix(strings.TrimSpace(part), "@")
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

var moscowLocation = time.FixedZone("Moscow Time", 3*60*60)

func ConvertToMoscowTime(t time.Time) string {
	return t.In(moscowLocation).Format("15:04:05")
}

// MoscowDay is the calendar day of t in Moscow time, used to bucket daily quotas.
func MoscowDay(t time.Time) string {
	return t.In(moscowLocation).Format("2006-01-02")
}
