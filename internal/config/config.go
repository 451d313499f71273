package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"

	"github.com/swu-engine/swu-server-go/internal/game"
)

// Config holds all settings for the engine binaries.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Game    GameConfig    `mapstructure:"game"`
	Catalog CatalogConfig `mapstructure:"catalog"`
}

// LoggingConfig selects the zap level and encoder.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// GameConfig tunes the built-in rules.
type GameConfig struct {
	HandLimit   int   `mapstructure:"hand_limit"`
	OpeningHand int   `mapstructure:"opening_hand"`
	DrawPerTurn int   `mapstructure:"draw_per_turn"`
	BaseHealth  int   `mapstructure:"base_health"`
	Seed        int64 `mapstructure:"seed"`
}

// CatalogConfig points at card data. Paths are CSV or JSON set files;
// DatabaseURL, when set, selects the PostgreSQL store instead.
type CatalogConfig struct {
	Paths       []string `mapstructure:"paths"`
	DatabaseURL string   `mapstructure:"database_url"`
}

// EnvPrefix prefixes every environment override, e.g. SWU_GAME_HAND_LIMIT.
const EnvPrefix = "SWU"

// Load reads the YAML file at path, applies SWU_ environment overrides and
// fills the rest with defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	def := game.DefaultOptions()
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("game.hand_limit", def.HandLimit)
	v.SetDefault("game.opening_hand", def.OpeningHand)
	v.SetDefault("game.draw_per_turn", def.DrawPerTurn)
	v.SetDefault("game.base_health", def.BaseHealth)
	v.SetDefault("game.seed", 0)
	v.SetDefault("catalog.paths", []string{})
	v.SetDefault("catalog.database_url", "")
}

// Validate rejects settings the engine cannot run with.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unknown level %q", c.Logging.Level)
	}
	if c.Game.HandLimit < 0 {
		return fmt.Errorf("game.hand_limit must not be negative, got %d", c.Game.HandLimit)
	}
	if c.Game.OpeningHand < 0 || c.Game.DrawPerTurn < 0 {
		return fmt.Errorf("game.opening_hand and game.draw_per_turn must not be negative")
	}
	if c.Game.BaseHealth <= 0 {
		return fmt.Errorf("game.base_health must be positive, got %d", c.Game.BaseHealth)
	}
	return nil
}

// GameOptions converts the game section into engine options.
func (c *Config) GameOptions() game.Options {
	return game.Options{
		HandLimit:   c.Game.HandLimit,
		OpeningHand: c.Game.OpeningHand,
		DrawPerTurn: c.Game.DrawPerTurn,
		BaseHealth:  c.Game.BaseHealth,
		Seed:        c.Game.Seed,
	}
}
