package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/skillboard/internal/app"
	"github.com/zjrosen/skillboard/internal/config"
	"github.com/zjrosen/skillboard/internal/log"
	"github.com/zjrosen/skillboard/internal/skills"
	"github.com/zjrosen/skillboard/internal/ui/styles"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in input fields.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

// localConfigPath is checked before the user config.
const localConfigPath = ".skillboard/config.yaml"

var (
	version     = "dev"
	cfgFile     string
	storePath   string
	backendName string
	debug       bool
	cfg         config.Config
	cfgUsed     string
)

var rootCmd = &cobra.Command{
	Use:   "skillboard",
	Short: "Track your programming language skills from the terminal",
	Long: `Skillboard keeps a list of the programming languages you know and how well
you know each one, on a five step scale from "aware of it" to "can teach others".

Run without arguments for the interactive board. The subcommands script the
same store.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfigE,
	RunE:              runApp,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .skillboard/config.yaml, then ~/.config/skillboard/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&storePath, "store", "",
		"path to the skills store (overrides store.path)")
	rootCmd.PersistentFlags().StringVar(&backendName, "backend", "",
		"store backend: sqlite or json (overrides store.backend)")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false,
		"write a debug log and enable the in-app log overlay (ctrl+l)")
}

func loadConfigE(cmd *cobra.Command, _ []string) error {
	loaded, used, err := loadConfig(cfgFile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("store") {
		loaded.Store.Path = storePath
	}
	if cmd.Flags().Changed("backend") {
		loaded.Store.Backend = backendName
	}
	if err := loaded.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	cfg, cfgUsed = loaded, used
	return nil
}

// loadConfig reads configuration from path, or from the first file in the
// lookup order. When no file exists anywhere a commented default is written
// to the user config directory. It returns the file actually read, if any.
func loadConfig(path string) (config.Config, string, error) {
	v := viper.New()
	v.SetEnvPrefix("SKILLBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := config.Defaults()
	v.SetDefault("store.backend", defaults.Store.Backend)
	v.SetDefault("store.path", defaults.Store.Path)
	v.SetDefault("catalog.path", defaults.Catalog.Path)
	v.SetDefault("locale", defaults.Locale)

	switch {
	case path != "":
		v.SetConfigFile(path)
	case fileExists(localConfigPath):
		v.SetConfigFile(localConfigPath)
	default:
		userPath := config.DefaultConfigPath()
		if !fileExists(userPath) {
			if err := config.WriteDefaultConfig(userPath); err != nil {
				// Run on defaults; the board works without a file.
				log.Warn(log.CatConfig, "Could not write default config", "path", userPath, "error", err)
			}
		}
		v.SetConfigFile(userPath)
	}

	used := v.ConfigFileUsed()
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || (!errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist)) {
			return config.Config{}, "", fmt.Errorf("reading config %s: %w", used, err)
		}
		used = ""
	}

	cfg := defaults
	if err := v.Unmarshal(&cfg); err != nil {
		return config.Config{}, "", fmt.Errorf("parsing config: %w", err)
	}
	log.Debug(log.CatConfig, "Loaded config", "path", used, "backend", cfg.Store.Backend)
	return cfg, used, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// debugEnabled reports whether --debug or SKILLBOARD_DEBUG asks for logging.
func debugEnabled() bool {
	if debug {
		return true
	}
	switch strings.ToLower(os.Getenv("SKILLBOARD_DEBUG")) {
	case "", "0", "false", "no":
		return false
	}
	return true
}

// initLogging starts file logging when debugging. The returned cleanup is
// always safe to call.
func initLogging(tui bool) (func(), error) {
	if !debugEnabled() {
		return func() {}, nil
	}
	path := config.DefaultLogFilePath()
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	var (
		cleanup func()
		err     error
	)
	if tui {
		cleanup, err = log.InitWithTeaLog(path, "skillboard")
	} else {
		cleanup, err = log.Init(path)
	}
	if err != nil {
		return nil, err
	}
	log.Info(log.CatConfig, "Debug logging enabled", "path", path, "config", cfgUsed)
	return func() {
		log.Reset()
		cleanup()
	}, nil
}

func runApp(cmd *cobra.Command, _ []string) error {
	cleanupLog, err := initLogging(true)
	if err != nil {
		return err
	}
	defer cleanupLog()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	svc, err := openServices(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close(context.Background()) }()

	styles.ApplyTheme(styles.Theme{
		Highlight: cfg.Theme.Highlight,
		Subtle:    cfg.Theme.Subtle,
		Error:     cfg.Theme.Error,
		Success:   cfg.Theme.Success,
	})

	var warning string
	if errors.Is(svc.loadErr, skills.ErrCorruptSnapshot) {
		warning = "Saved skills could not be read; starting empty"
	}
	if cfg.UI.DefaultSort != "" && svc.loadErr == nil {
		criterion, _ := skills.ParseSortCriterion(cfg.UI.DefaultSort) // validated with the config
		if err := svc.registry.Sort(ctx, criterion); err != nil {
			log.ErrorErr(log.CatConfig, "Default sort not saved", err)
		}
	}

	zone.NewGlobal()
	model := app.New(appConfig(cfg, svc, warning))
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	_, err = p.Run()

	if closeErr := model.Close(); closeErr != nil && err == nil {
		err = closeErr
	}

	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// appConfig maps the loaded config and services onto the TUI's settings.
func appConfig(cfg config.Config, svc *services, warning string) app.Config {
	return app.Config{
		Registry:        svc.registry,
		Catalog:         svc.catalog,
		Events:          svc.events,
		Logs:            log.Broker(),
		ShowLevelLabels: cfg.UI.ShowLevelLabels,
		ShowStatusBar:   cfg.UI.ShowStatusBar,
		MarkdownStyle:   cfg.UI.MarkdownStyle,
		StartupWarning:  warning,
	}
}
