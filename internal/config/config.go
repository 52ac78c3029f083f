package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// AppName is the application name, used for env var prefixes and the
// config file location.
const AppName = "orderdesk"

// Config holds the runtime settings for the order pipeline.
type Config struct {
	// WatchDir is the directory observed for incoming order files.
	WatchDir string `mapstructure:"watch_dir"`
	// FallbackDirs are tried in order when WatchDir does not exist.
	FallbackDirs []string `mapstructure:"fallback_dirs"`
	// SnapshotFile is the order state snapshot path. Its base name is
	// never treated as an input order file.
	SnapshotFile string `mapstructure:"snapshot_file"`
	// ArchiveFile is the SQLite database holding canceled orders.
	ArchiveFile string `mapstructure:"archive_file"`
	// WatchStrategy selects the watcher implementation: "auto",
	// "fsnotify" or "poll".
	WatchStrategy string `mapstructure:"watch_strategy"`
	// PollInterval is the polling watcher tick.
	PollInterval time.Duration `mapstructure:"poll_interval"`
	// SettleDelay is the pause after a file event before reading, so
	// writers can finish.
	SettleDelay time.Duration `mapstructure:"settle_delay"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		WatchDir:      "uploads",
		FallbackDirs:  []string{"orders", "incoming"},
		SnapshotFile:  "orders_state.json",
		ArchiveFile:   "canceled_orders.db",
		WatchStrategy: "auto",
		PollInterval:  2 * time.Second,
		SettleDelay:   100 * time.Millisecond,
	}
}

// Load reads configuration from an optional config.toml in the working
// directory, with ORDERDESK_* environment variables taking precedence
// over the file and built-in defaults filling the rest.
func Load() (Config, error) {
	v := viper.New()

	defaults := Default()
	v.SetDefault("watch_dir", defaults.WatchDir)
	v.SetDefault("fallback_dirs", defaults.FallbackDirs)
	v.SetDefault("snapshot_file", defaults.SnapshotFile)
	v.SetDefault("archive_file", defaults.ArchiveFile)
	v.SetDefault("watch_strategy", defaults.WatchStrategy)
	v.SetDefault("poll_interval", defaults.PollInterval)
	v.SetDefault("settle_delay", defaults.SettleDelay)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.SetEnvPrefix(AppName)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.WatchStrategy {
	case "auto", "fsnotify", "poll":
	default:
		return fmt.Errorf("invalid watch_strategy %q (want auto, fsnotify or poll)", c.WatchStrategy)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be positive, got %v", c.PollInterval)
	}
	if c.WatchDir == "" {
		return fmt.Errorf("watch_dir must not be empty")
	}
	return nil
}
