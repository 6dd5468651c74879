package app

import (
	"testing"
	"time"
)

func TestGetenv(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		defValue string
		want     string
	}{
		{"env set", "custom_value", "default", "custom_value"},
		{"env not set", "", "default", "default"},
		{"empty default", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				t.Setenv("TEST_ENV_VAR", tt.envValue)
			}
			got := getenv("TEST_ENV_VAR", tt.defValue)
			if got != tt.want {
				t.Errorf("getenv(TEST_ENV_VAR, %q) = %q, want %q", tt.defValue, got, tt.want)
			}
		})
	}
}

func TestGetenvBool(t *testing.T) {
	tests := []struct {
		value string
		def   bool
		want  bool
	}{
		{"true", false, true},
		{"1", false, true},
		{"YES", false, true},
		{"on", false, true},
		{"false", true, false},
		{"0", true, false},
		{"off", true, false},
		{"", true, true},
		{"", false, false},
		{"garbage", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv("TEST_BOOL_VAR", tt.value)
			}
			if got := getenvBool("TEST_BOOL_VAR", tt.def); got != tt.want {
				t.Errorf("getenvBool(%q, %t) = %t, want %t", tt.value, tt.def, got, tt.want)
			}
		})
	}
}

func TestGetenvDuration(t *testing.T) {
	tests := []struct {
		name  string
		value string
		def   time.Duration
		want  time.Duration
	}{
		{"valid duration", "2s", time.Second, 2 * time.Second},
		{"minutes", "10m", time.Second, 10 * time.Minute},
		{"unset uses default", "", 5 * time.Second, 5 * time.Second},
		{"invalid uses default", "banana", 5 * time.Second, 5 * time.Second},
		{"non-positive uses default", "-1s", 5 * time.Second, 5 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv("TEST_DUR_VAR", tt.value)
			}
			if got := getenvDuration("TEST_DUR_VAR", tt.def); got != tt.want {
				t.Errorf("getenvDuration(%q, %v) = %v, want %v", tt.value, tt.def, got, tt.want)
			}
		})
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("T2S_API_URL", "")
		t.Setenv("T2S_LOCAL", "")
		t.Setenv("T2S_POLL_INTERVAL", "")
		t.Setenv("T2S_JOB_TIMEOUT", "")
		cfg := LoadConfigFromEnv()
		if cfg.BaseURL != DefaultBaseURL {
			t.Errorf("BaseURL = %q, want %q", cfg.BaseURL, DefaultBaseURL)
		}
		if cfg.PollInterval != time.Second {
			t.Errorf("PollInterval = %v, want 1s", cfg.PollInterval)
		}
		if cfg.JobTimeout != 5*time.Minute {
			t.Errorf("JobTimeout = %v, want 5m", cfg.JobTimeout)
		}
	})

	t.Run("local mode", func(t *testing.T) {
		t.Setenv("T2S_API_URL", "")
		t.Setenv("T2S_LOCAL", "true")
		cfg := LoadConfigFromEnv()
		if cfg.BaseURL != LocalBaseURL {
			t.Errorf("BaseURL = %q, want %q", cfg.BaseURL, LocalBaseURL)
		}
	})

	t.Run("explicit URL wins over local and drops trailing slash", func(t *testing.T) {
		t.Setenv("T2S_LOCAL", "true")
		t.Setenv("T2S_API_URL", "http://elsewhere:9999/api/v1/")
		cfg := LoadConfigFromEnv()
		if cfg.BaseURL != "http://elsewhere:9999/api/v1" {
			t.Errorf("BaseURL = %q, want explicit URL without trailing slash", cfg.BaseURL)
		}
	})

	t.Run("poll settings", func(t *testing.T) {
		t.Setenv("T2S_POLL_INTERVAL", "250ms")
		t.Setenv("T2S_JOB_TIMEOUT", "30s")
		cfg := LoadConfigFromEnv()
		if cfg.PollInterval != 250*time.Millisecond {
			t.Errorf("PollInterval = %v, want 250ms", cfg.PollInterval)
		}
		if cfg.JobTimeout != 30*time.Second {
			t.Errorf("JobTimeout = %v, want 30s", cfg.JobTimeout)
		}
	})
}
