package app

import (
	"os"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the production Text2Speech API endpoint.
	DefaultBaseURL = "https://mc.agaii.org/TTS/api/v1"

	// LocalBaseURL is the local development endpoint.
	LocalBaseURL = "http://localhost:24536/api/v1"
)

type Config struct {
	BaseURL string

	// Job polling
	PollInterval time.Duration
	JobTimeout   time.Duration

	// Transport
	HTTPTimeout time.Duration

	// Error monitoring
	SentryDSN string
}

func LoadConfigFromEnv() Config {
	baseURL := os.Getenv("T2S_API_URL")
	if baseURL == "" {
		if getenvBool("T2S_LOCAL", false) {
			baseURL = LocalBaseURL
		} else {
			baseURL = DefaultBaseURL
		}
	}

	return Config{
		BaseURL:      strings.TrimRight(baseURL, "/"),
		PollInterval: getenvDuration("T2S_POLL_INTERVAL", time.Second),
		JobTimeout:   getenvDuration("T2S_JOB_TIMEOUT", 5*time.Minute),
		HTTPTimeout:  getenvDuration("T2S_HTTP_TIMEOUT", 60*time.Second),
		SentryDSN:    getenv("SENTRY_DSN", ""),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvBool(k string, def bool) bool {
	switch strings.ToLower(os.Getenv(k)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return def
}

func getenvDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
