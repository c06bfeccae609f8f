// Package config provides configuration types and defaults for skillboard.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/glamour/styles"
	"golang.org/x/text/language"

	"github.com/zjrosen/skillboard/internal/log"
	"github.com/zjrosen/skillboard/internal/skills"
	"github.com/zjrosen/skillboard/internal/tracing"
)

// Store backends.
const (
	BackendSQLite = "sqlite"
	BackendJSON   = "json"
)

// AppName names the XDG subdirectories.
const AppName = "skillboard"

// Config holds all configuration options for skillboard.
type Config struct {
	Store   StoreConfig    `mapstructure:"store"`
	Catalog CatalogConfig  `mapstructure:"catalog"`
	Locale  string         `mapstructure:"locale"`
	UI      UIConfig       `mapstructure:"ui"`
	Tracing tracing.Config `mapstructure:"tracing"`
	Theme   ThemeConfig    `mapstructure:"theme"`
}

// StoreConfig selects where skills are saved.
type StoreConfig struct {
	Backend string `mapstructure:"backend"` // "sqlite" (default) or "json"
	Path    string `mapstructure:"path"`    // empty means the XDG data home default
}

// CatalogConfig points at an optional replacement catalog.
type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

// UIConfig holds user interface configuration options.
type UIConfig struct {
	ShowLevelLabels bool   `mapstructure:"show_level_labels"`
	ShowStatusBar   bool   `mapstructure:"show_status_bar"`
	DefaultSort     string `mapstructure:"default_sort"`   // applied once at startup when set
	MarkdownStyle   string `mapstructure:"markdown_style"` // glamour style for help; empty detects the background
}

// ThemeConfig overrides individual colors. Empty values keep the built-in
// adaptive colors.
type ThemeConfig struct {
	Highlight string `mapstructure:"highlight"`
	Subtle    string `mapstructure:"subtle"`
	Error     string `mapstructure:"error"`
	Success   string `mapstructure:"success"`
}

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Defaults returns the configuration used when no file sets a value.
func Defaults() Config {
	tr := tracing.DefaultConfig()
	tr.FilePath = DefaultTracesFilePath()
	return Config{
		Store:  StoreConfig{Backend: BackendSQLite},
		Locale: "und",
		UI: UIConfig{
			ShowLevelLabels: true,
			ShowStatusBar:   true,
		},
		Tracing: tr,
	}
}

// StorePath returns the configured store path, or the default for the backend.
func (c Config) StorePath() string {
	if c.Store.Path != "" {
		return c.Store.Path
	}
	return DefaultStorePath(c.Store.Backend)
}

// DefaultStorePath returns $XDG_DATA_HOME/skillboard/skills.{db,json}.
func DefaultStorePath(backend string) string {
	name := "skills.db"
	if backend == BackendJSON {
		name = "skills.json"
	}
	return filepath.Join(xdg.DataHome, AppName, name)
}

// DefaultTracesFilePath returns $XDG_STATE_HOME/skillboard/traces.jsonl.
func DefaultTracesFilePath() string {
	return filepath.Join(xdg.StateHome, AppName, "traces.jsonl")
}

// DefaultLogFilePath returns $XDG_STATE_HOME/skillboard/debug.log.
func DefaultLogFilePath() string {
	return filepath.Join(xdg.StateHome, AppName, "debug.log")
}

// DefaultConfigPath returns ~/.config/skillboard/config.yaml under the XDG config home.
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.yaml")
}

// Validate checks every section and returns the first problem found.
func (c Config) Validate() error {
	if err := ValidateStore(c.Store); err != nil {
		return err
	}
	if c.Locale != "" {
		if _, err := language.Parse(c.Locale); err != nil {
			return fmt.Errorf("locale %q is not a valid BCP 47 tag: %w", c.Locale, err)
		}
	}
	if c.UI.DefaultSort != "" {
		if _, err := skills.ParseSortCriterion(c.UI.DefaultSort); err != nil {
			return fmt.Errorf("ui.default_sort: %w", err)
		}
	}
	if s := c.UI.MarkdownStyle; s != "" && s != styles.AutoStyle {
		if _, ok := styles.DefaultStyles[s]; !ok {
			return fmt.Errorf("ui.markdown_style %q is not a glamour style (try dark, light, notty, ascii, dracula, pink)", s)
		}
	}
	if err := ValidateTracing(c.Tracing); err != nil {
		return err
	}
	return ValidateTheme(c.Theme)
}

// ValidateStore checks the store section.
func ValidateStore(s StoreConfig) error {
	switch s.Backend {
	case "", BackendSQLite, BackendJSON:
		return nil
	default:
		return fmt.Errorf("store.backend must be %q or %q, got %q", BackendSQLite, BackendJSON, s.Backend)
	}
}

// ValidateTracing checks the tracing section.
func ValidateTracing(t tracing.Config) error {
	if t.SampleRate < 0.0 || t.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", t.SampleRate)
	}

	switch t.Exporter {
	case "", "none", "file", "stdout", "otlp":
	default:
		return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", t.Exporter)
	}

	if t.Enabled {
		if t.Exporter == "file" && t.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if t.Exporter == "otlp" && t.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}
	return nil
}

// ValidateTheme checks that every override is a hex color.
func ValidateTheme(t ThemeConfig) error {
	for key, value := range map[string]string{
		"highlight": t.Highlight,
		"subtle":    t.Subtle,
		"error":     t.Error,
		"success":   t.Success,
	} {
		if value != "" && !hexColor.MatchString(value) {
			return fmt.Errorf("theme.%s must be a hex color like \"#7D56F4\", got %q", key, value)
		}
	}
	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Skillboard Configuration

# Where skills are saved
store:
  backend: sqlite         # "sqlite" (default) or "json"
  # path: /path/to/skills.db   # default: $XDG_DATA_HOME/skillboard/skills.db

# Replace the built-in language list with your own YAML file:
#   languages:
#     - Go
#     - Rust
# catalog:
#   path: /path/to/catalog.yaml

# Language used to order names when sorting (BCP 47 tag, e.g. "en", "fr", "sv")
locale: und

# UI settings
ui:
  show_level_labels: true   # Show level descriptions next to each skill
  show_status_bar: true     # Show key hints at the bottom
  # default_sort: name-asc  # Sort once at startup: level-asc, level-desc, name-asc, name-desc
  # markdown_style: dark    # Help rendering: auto, dark, light, notty, ascii, dracula, pink

# Tracing (OpenTelemetry)
tracing:
  enabled: false
  exporter: file            # "none", "file", "stdout" or "otlp"
  # file_path: /path/to/traces.jsonl
  otlp_endpoint: localhost:4317
  sample_rate: 1.0

# Color overrides (hex). Leave empty to follow the terminal background.
theme:
  # highlight: "#7D56F4"
  # subtle: "#626262"
  # error: "#FF5F87"
  # success: "#73F59F"
`
}

// WriteDefaultConfig creates a config file with default settings.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
