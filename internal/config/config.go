// Package config loads the application configuration: a YAML file with
// environment variable expansion, optionally seeded from .env files.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/bentoforge/internal/bentoerr"
)

// Config is the root application configuration.
type Config struct {
	BaseDomain string        `yaml:"base_domain"`
	Tier       string        `yaml:"tier"` // "free" or "pro"
	Export     ExportConfig  `yaml:"export"`
	Store      StoreConfig   `yaml:"store"`
	Deploy     DeployConfig  `yaml:"deploy"`
	Events     EventsConfig  `yaml:"events"`
	Metrics    MetricsConfig `yaml:"metrics"`
	Daemon     DaemonConfig  `yaml:"daemon"`
	Logging    LoggingConfig `yaml:"logging"`
}

// ExportConfig holds the default export options.
type ExportConfig struct {
	Target         string `yaml:"target"` // "static-html" or "framework-project"
	ServiceWorker  *bool  `yaml:"service_worker,omitempty"`
	Analytics      *bool  `yaml:"analytics,omitempty"`
	RemoveBranding bool   `yaml:"remove_branding"`
	OutputDir      string `yaml:"output_dir"`
}

// StoreConfig selects the project database.
type StoreConfig struct {
	Path string `yaml:"path"` // SQLite file, ":memory:" for ephemeral
}

// DeployConfig configures the git deployment target.
type DeployConfig struct {
	Enabled   bool   `yaml:"enabled"`
	RepoURL   string `yaml:"repo_url"`
	Branch    string `yaml:"branch"`
	AuthToken string `yaml:"auth_token,omitempty"`
	Name      string `yaml:"name,omitempty"`
	Email     string `yaml:"email,omitempty"`
}

// EventsConfig configures the NATS lifecycle event publisher.
type EventsConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
}

// DaemonConfig configures the background scheduler. Durations use Go
// syntax ("30m", "24h").
type DaemonConfig struct {
	RepublishInterval string `yaml:"republish_interval"`
	RetentionMaxAge   string `yaml:"retention_max_age"`
}

// RepublishEvery returns the parsed republish interval.
func (d *DaemonConfig) RepublishEvery() time.Duration {
	v, err := time.ParseDuration(d.RepublishInterval)
	if err != nil {
		return time.Hour
	}
	return v
}

// RetentionAge returns the parsed retention cutoff.
func (d *DaemonConfig) RetentionAge() time.Duration {
	v, err := time.ParseDuration(d.RetentionMaxAge)
	if err != nil {
		return 90 * 24 * time.Hour
	}
	return v
}

// LoggingConfig controls slog setup.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "text" or "json"
}

// Load reads, expands and validates the configuration file. Values in
// .env / .env.local seed the environment without overriding it.
func Load(configPath string) (*Config, error) {
	// Best effort; a missing .env is the common case.
	_ = godotenv.Load(".env", ".env.local")

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, bentoerr.ConfigNotFound(configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.BaseDomain == "" {
		c.BaseDomain = "offlink.bio"
	}
	if c.Tier == "" {
		c.Tier = "free"
	}
	if c.Export.Target == "" {
		c.Export.Target = "framework-project"
	}
	if c.Export.OutputDir == "" {
		c.Export.OutputDir = "."
	}
	if c.Store.Path == "" {
		c.Store.Path = "bentoforge.db"
	}
	if c.Deploy.Branch == "" {
		c.Deploy.Branch = "main"
	}
	if c.Events.Subject == "" {
		c.Events.Subject = "bentoforge.sites"
	}
	if c.Metrics.Listen == "" {
		c.Metrics.Listen = ":9090"
	}
	if c.Daemon.RepublishInterval == "" {
		c.Daemon.RepublishInterval = "1h"
	}
	if c.Daemon.RetentionMaxAge == "" {
		c.Daemon.RetentionMaxAge = "2160h"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}

func (c *Config) validate() error {
	switch c.Export.Target {
	case "static-html", "framework-project":
	default:
		return bentoerr.ValidationFailed("export.target",
			fmt.Sprintf("unknown target %q (want static-html or framework-project)", c.Export.Target))
	}
	switch c.Tier {
	case "free", "pro":
	default:
		return bentoerr.ValidationFailed("tier",
			fmt.Sprintf("unknown tier %q (want free or pro)", c.Tier))
	}
	if c.Deploy.Enabled && c.Deploy.RepoURL == "" {
		return bentoerr.ValidationFailed("deploy.repo_url", "required when deploy is enabled")
	}
	if c.Events.Enabled && c.Events.URL == "" {
		return bentoerr.ValidationFailed("events.url", "required when events are enabled")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return bentoerr.ValidationFailed("logging.level",
			fmt.Sprintf("unknown level %q", c.Logging.Level))
	}
	if _, err := time.ParseDuration(c.Daemon.RepublishInterval); err != nil {
		return bentoerr.ValidationFailed("daemon.republish_interval", err.Error())
	}
	if _, err := time.ParseDuration(c.Daemon.RetentionMaxAge); err != nil {
		return bentoerr.ValidationFailed("daemon.retention_max_age", err.Error())
	}
	return nil
}

// ServiceWorkerEnabled resolves the tri-state flag (default on).
func (e *ExportConfig) ServiceWorkerEnabled() bool {
	return e.ServiceWorker == nil || *e.ServiceWorker
}

// AnalyticsEnabled resolves the tri-state flag (default on).
func (e *ExportConfig) AnalyticsEnabled() bool {
	return e.Analytics == nil || *e.Analytics
}

const exampleConfig = `# bentoforge configuration
base_domain: offlink.bio
tier: free

export:
  target: framework-project # or static-html
  remove_branding: false
  output_dir: .

store:
  path: bentoforge.db

deploy:
  enabled: false
  repo_url: ""
  branch: main
  auth_token: ${BENTOFORGE_DEPLOY_TOKEN}

events:
  enabled: false
  url: nats://localhost:4222
  subject: bentoforge.sites

metrics:
  enabled: false
  listen: ":9090"

logging:
  level: info
  format: text
`

// Init writes an example configuration file.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}
	if err := os.WriteFile(configPath, []byte(exampleConfig), 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}
