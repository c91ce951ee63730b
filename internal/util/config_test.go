package util

import (
	"testing"
	"time"
)

func TestLinkerConfigFromEnv(t *testing.T) {
	t.Setenv("LINKER_WIKIDATA_ENDPOINT", "http://localhost:9000/w/api.php")
	t.Setenv("LINKER_WIKIDATA_TIMEOUT_SECONDS", "20")
	t.Setenv("LINKER_WIKIDATA_MAX_RESULTS", "3")
	t.Setenv("LINKER_WIKIDATA_LANGUAGE", "de")
	t.Setenv("LINKER_WIKIDATA_REQUESTS_PER_SECOND", "2.5")
	t.Setenv("LINKER_WIKIDATA_MAX_CONCURRENT_REQUESTS", "2")

	cfg := LinkerConfigFromEnv("wikidata")
	if cfg.Endpoint != "http://localhost:9000/w/api.php" {
		t.Fatalf("unexpected endpoint %s", cfg.Endpoint)
	}
	if cfg.Timeout != 20*time.Second {
		t.Fatalf("unexpected timeout %s", cfg.Timeout)
	}
	if cfg.MaxResults != 3 {
		t.Fatalf("unexpected max results %d", cfg.MaxResults)
	}
	if cfg.Language != "de" {
		t.Fatalf("unexpected language %s", cfg.Language)
	}
	if cfg.RequestsPerSecond != 2.5 {
		t.Fatalf("unexpected rps %f", cfg.RequestsPerSecond)
	}
	if cfg.MaxConcurrentRequests != 2 {
		t.Fatalf("unexpected concurrency %d", cfg.MaxConcurrentRequests)
	}
}

func TestLinkerConfigFromEnvDefaultsToZeroValues(t *testing.T) {
	cfg := LinkerConfigFromEnv("nosuchsource")
	if cfg.Endpoint != "" || cfg.Timeout != 0 || cfg.MaxResults != 0 {
		t.Fatalf("expected zero config, got %+v", cfg)
	}
}
