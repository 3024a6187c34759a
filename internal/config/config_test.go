package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matheuskafuri/jjfeed/internal/juejin"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := loadDefaults()
	if err != nil {
		t.Fatalf("loadDefaults: %v", err)
	}
	if cfg.Endpoints.Articles != juejin.DefaultArticlesURL {
		t.Errorf("unexpected articles endpoint %q", cfg.Endpoints.Articles)
	}
	if cfg.Endpoints.Github != juejin.DefaultGithubURL {
		t.Errorf("unexpected github endpoint %q", cfg.Endpoints.Github)
	}
	if err := validate(cfg); err != nil {
		t.Errorf("embedded defaults must validate: %v", err)
	}
}

func TestDefaultQueries(t *testing.T) {
	cfg, err := loadDefaults()
	if err != nil {
		t.Fatalf("loadDefaults: %v", err)
	}

	aq := cfg.ArticleQuery()
	if aq.CateID != juejin.CategoryHome {
		t.Errorf("expected home category, got %q", aq.CateID)
	}
	if aq.SortType != juejin.SortHot || aq.Cursor != "0" || aq.Limit != 20 {
		t.Errorf("unexpected article query %+v", aq)
	}

	gq := cfg.GithubQuery()
	if gq.Category != juejin.GithubTrending || gq.Lang != juejin.LangJavaScript || gq.Period != juejin.PeriodDay {
		t.Errorf("unexpected github query %+v", gq)
	}
	if gq.Limit != 30 {
		t.Errorf("expected github limit 30, got %d", gq.Limit)
	}
}

func TestTimeout(t *testing.T) {
	cfg := &Config{RequestTimeout: "3s"}
	if got := cfg.Timeout(); got != 3*time.Second {
		t.Errorf("expected 3s, got %v", got)
	}
	cfg.RequestTimeout = "soon"
	if got := cfg.Timeout(); got != 15*time.Second {
		t.Errorf("expected 15s fallback, got %v", got)
	}
}

func TestRetentionDuration(t *testing.T) {
	tests := []struct {
		input    string
		wantDays int
	}{
		{"90d", 90},
		{"30d", 30},
		{"720h", 30},
		{"", 90},
		{"invalid", 90},
	}
	for _, tt := range tests {
		cfg := &Config{Retention: tt.input}
		got := cfg.RetentionDuration()
		wantHours := float64(tt.wantDays * 24)
		if got.Hours() != wantHours {
			t.Errorf("RetentionDuration(%q) = %v, want %dd", tt.input, got, tt.wantDays)
		}
	}
}

func TestLoadFromFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	content := `articles:
  category: backend
  sort: new
github:
  lang: rust
  period: week
`
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	aq := cfg.ArticleQuery()
	if aq.CateID != juejin.CategoryBackend || aq.SortType != juejin.SortNew {
		t.Errorf("file values not applied: %+v", aq)
	}
	gq := cfg.GithubQuery()
	if gq.Lang != juejin.LangRust || gq.Period != juejin.PeriodWeek {
		t.Errorf("file values not applied: %+v", gq)
	}
	// Keys absent from the file keep their defaults.
	if cfg.Endpoints.Github != juejin.DefaultGithubURL {
		t.Errorf("expected default github endpoint, got %q", cfg.Endpoints.Github)
	}
	if gq.Category != juejin.GithubTrending {
		t.Errorf("expected default github category, got %q", gq.Category)
	}
}

func TestLoadNonexistentWritesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "sub", "config.yaml")

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Endpoints.Articles == "" {
		t.Error("expected default endpoints when config doesn't exist")
	}
	if _, err := os.Stat(cfgPath); err != nil {
		t.Errorf("expected defaults written to %s: %v", cfgPath, err)
	}
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("github:\n  lang: cobol\n"), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	if _, err := Load(cfgPath); err == nil {
		t.Error("expected error for unknown language")
	}
}

func TestValidateInvalidURLScheme(t *testing.T) {
	cfg, _ := loadDefaults()
	cfg.Endpoints.Articles = "file:///etc/passwd"
	if err := validate(cfg); err == nil {
		t.Error("expected error for file:// URL scheme")
	}
}

func TestValidateMissingURL(t *testing.T) {
	cfg, _ := loadDefaults()
	cfg.Endpoints.Github = ""
	if err := validate(cfg); err == nil {
		t.Error("expected error for missing URL")
	}
}

func TestValidateEnums(t *testing.T) {
	tests := []func(*Config){
		func(c *Config) { c.Articles.Category = "mobile" },
		func(c *Config) { c.Articles.Sort = "top" },
		func(c *Config) { c.Github.Category = "hot" },
		func(c *Config) { c.Github.Period = "year" },
		func(c *Config) { c.RequestTimeout = "soon" },
	}
	for i, mutate := range tests {
		cfg, _ := loadDefaults()
		mutate(cfg)
		if err := validate(cfg); err == nil {
			t.Errorf("case %d: expected validation error", i)
		}
	}
}

func TestParseDays(t *testing.T) {
	tests := []struct {
		input string
		want  time.Duration
		err   bool
	}{
		{"7d", 7 * 24 * time.Hour, false},
		{"24h", 24 * time.Hour, false},
		{"2h30m", 2*time.Hour + 30*time.Minute, false},
		{"invalid", 0, true},
		{"", 0, true},
		{"d", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseDays(tt.input)
		if tt.err {
			if err == nil {
				t.Errorf("ParseDays(%q): expected error, got %v", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDays(%q): unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDays(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
