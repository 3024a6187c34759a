package config

import (
	"embed"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/matheuskafuri/jjfeed/internal/juejin"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

type Endpoints struct {
	Articles string `yaml:"articles"`
	Github   string `yaml:"github"`
}

// ArticlesConfig seeds the article pane's filters.
type ArticlesConfig struct {
	Category string `yaml:"category"`
	Sort     string `yaml:"sort"`
	Limit    int    `yaml:"limit"`
}

// GithubConfig seeds the GitHub pane's filters.
type GithubConfig struct {
	Category string `yaml:"category"`
	Lang     string `yaml:"lang"`
	Period   string `yaml:"period"`
	Limit    int    `yaml:"limit"`
}

type Config struct {
	Endpoints      Endpoints      `yaml:"endpoints"`
	RequestTimeout string         `yaml:"request_timeout"`
	UserAgent      string         `yaml:"user_agent,omitempty"`
	LogLevel       string         `yaml:"log_level"`
	Retention      string         `yaml:"retention"`
	Articles       ArticlesConfig `yaml:"articles"`
	Github         GithubConfig   `yaml:"github"`
}

func (c *Config) Timeout() time.Duration {
	d, err := time.ParseDuration(c.RequestTimeout)
	if err != nil || d <= 0 {
		return 15 * time.Second
	}
	return d
}

func (c *Config) RetentionDuration() time.Duration {
	if c.Retention == "" {
		return 90 * 24 * time.Hour
	}
	d, err := ParseDays(c.Retention)
	if err != nil {
		return 90 * 24 * time.Hour
	}
	return d
}

// ParseDays parses a duration, additionally accepting "Nd" for N days.
func ParseDays(s string) (time.Duration, error) {
	if len(s) > 1 && s[len(s)-1] == 'd' {
		var days int
		if _, err := fmt.Sscanf(s, "%dd", &days); err == nil {
			return time.Duration(days) * 24 * time.Hour, nil
		}
	}
	return time.ParseDuration(s)
}

// ClientOptions returns the HTTP client settings.
func (c *Config) ClientOptions() juejin.ClientOptions {
	return juejin.ClientOptions{
		ArticlesURL: c.Endpoints.Articles,
		GithubURL:   c.Endpoints.Github,
		Timeout:     c.Timeout(),
		UserAgent:   c.UserAgent,
	}
}

// ArticleQuery is the first query of the article pane.
func (c *Config) ArticleQuery() juejin.ArticleQuery {
	q := juejin.DefaultArticleQuery()
	if cat, ok := juejin.LookupCategory(c.Articles.Category); ok {
		q.CateID = cat.ID
	}
	if s, err := juejin.ParseSortType(c.Articles.Sort); err == nil {
		q.SortType = s
	}
	if c.Articles.Limit > 0 {
		q.Limit = c.Articles.Limit
	}
	return q
}

// GithubQuery is the first query of the GitHub pane.
func (c *Config) GithubQuery() juejin.GithubQuery {
	q := juejin.DefaultGithubQuery()
	if cat, err := juejin.ParseGithubCategory(c.Github.Category); err == nil {
		q.Category = cat
	}
	if l, err := juejin.ParseLanguage(c.Github.Lang); err == nil {
		q.Lang = l
	}
	if p, err := juejin.ParsePeriod(c.Github.Period); err == nil {
		q.Period = p
	}
	if c.Github.Limit > 0 {
		q.Limit = c.Github.Limit
	}
	return q
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "jjfeed", "config.yaml")
}

func CachePath() string {
	return filepath.Join(xdg.CacheHome, "jjfeed", "history.db")
}

func LogPath() string {
	return filepath.Join(xdg.StateHome, "jjfeed", "jjfeed.log")
}

// SocketPath is where a running panel listens for open requests from later
// invocations.
func SocketPath() string {
	return filepath.Join(xdg.RuntimeDir, "jjfeed.sock")
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

// Load reads the config at path over the embedded defaults. A missing file
// is created from the defaults.
func Load(path string) (*Config, error) {
	cfg, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Non-fatal: the embedded defaults are enough.
			_ = writeDefaults(path)
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Keys missing from the file keep their default values.
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

func validate(cfg *Config) error {
	for name, raw := range map[string]string{
		"endpoints.articles": cfg.Endpoints.Articles,
		"endpoints.github":   cfg.Endpoints.Github,
	} {
		if raw == "" {
			return fmt.Errorf("%s: url is required", name)
		}
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("%s: invalid url: %w", name, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("%s: url scheme must be http or https, got %q", name, u.Scheme)
		}
	}

	if cfg.RequestTimeout != "" {
		if _, err := time.ParseDuration(cfg.RequestTimeout); err != nil {
			return fmt.Errorf("request_timeout: %w", err)
		}
	}
	if cfg.Articles.Category != "" {
		if _, ok := juejin.LookupCategory(cfg.Articles.Category); !ok {
			return fmt.Errorf("articles.category: unknown category %q", cfg.Articles.Category)
		}
	}
	if cfg.Articles.Sort != "" {
		if _, err := juejin.ParseSortType(cfg.Articles.Sort); err != nil {
			return fmt.Errorf("articles.sort: %w", err)
		}
	}
	if cfg.Github.Category != "" {
		if _, err := juejin.ParseGithubCategory(cfg.Github.Category); err != nil {
			return fmt.Errorf("github.category: %w", err)
		}
	}
	if cfg.Github.Lang != "" {
		if _, err := juejin.ParseLanguage(cfg.Github.Lang); err != nil {
			return fmt.Errorf("github.lang: %w", err)
		}
	}
	if cfg.Github.Period != "" {
		if _, err := juejin.ParsePeriod(cfg.Github.Period); err != nil {
			return fmt.Errorf("github.period: %w", err)
		}
	}
	return nil
}
