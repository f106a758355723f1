package config

import (
	"testing"
	"time"
)

func TestParseOrigins(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{name: "empty allows all", raw: "", want: nil},
		{name: "single origin", raw: "https://app.example.com", want: []string{"https://app.example.com"}},
		{name: "multiple with spaces", raw: "https://a.example.com, https://b.example.com", want: []string{"https://a.example.com", "https://b.example.com"}},
		{name: "trailing comma", raw: "https://a.example.com,", want: []string{"https://a.example.com"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := parseOrigins(tc.raw)
			if len(got) != len(tc.want) {
				t.Fatalf("parseOrigins(%q) = %v, want %v", tc.raw, got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("origin[%d] = %q, want %q", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("TEST_INT_VALID", "42")
	t.Setenv("TEST_INT_GARBAGE", "not-a-number")

	if got := getEnvInt("TEST_INT_VALID", 7); got != 42 {
		t.Errorf("valid value = %d, want 42", got)
	}
	if got := getEnvInt("TEST_INT_GARBAGE", 7); got != 7 {
		t.Errorf("garbage value = %d, want fallback 7", got)
	}
	if got := getEnvInt("TEST_INT_MISSING", 7); got != 7 {
		t.Errorf("missing value = %d, want fallback 7", got)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.ServerPort == "" {
		t.Error("server port should have a default")
	}
	if cfg.BankCacheTTL <= 0 {
		t.Errorf("bank cache TTL = %v, want a positive default", cfg.BankCacheTTL)
	}
	if cfg.JWTExpiry < time.Hour {
		t.Errorf("JWT expiry = %v, suspiciously short default", cfg.JWTExpiry)
	}
}

func TestCacheKeys(t *testing.T) {
	if got := CacheKey.BankItemKey("abc"); got != "bank:item:abc" {
		t.Errorf("BankItemKey = %q", got)
	}
	if got := CacheKey.ExamMonitorChannel("xyz"); got != "exam:xyz:monitor" {
		t.Errorf("ExamMonitorChannel = %q", got)
	}
}
