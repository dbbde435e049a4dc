package config

import (
	"testing"
)

func TestGetEnvAsList(t *testing.T) {
	tests := []struct {
		name string
		env  string
		want []string
	}{
		{"unset uses fallback", "", []string{"Closed"}},
		{"single value", "Closed", []string{"Closed"}},
		{"legacy pair", "Resolved,Dropped", []string{"Resolved", "Dropped"}},
		{"whitespace trimmed", " Resolved , Dropped ", []string{"Resolved", "Dropped"}},
		{"only separators falls back", " , ,", []string{"Closed"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TICKET_TERMINAL_STATUSES", tt.env)
			got := getEnvAsList("TICKET_TERMINAL_STATUSES", []string{"Closed"})
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.App.Port == "" {
		t.Error("expected default port")
	}
	if len(cfg.Assignment.TerminalStatuses) == 0 {
		t.Error("expected default terminal statuses")
	}
	if cfg.S3.PresignTTL() <= 0 {
		t.Error("expected positive presign TTL")
	}
	if cfg.Taxonomy.CacheTTL() <= 0 {
		t.Error("expected positive taxonomy cache TTL")
	}
}
