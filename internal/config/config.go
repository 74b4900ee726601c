package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/vancomm/minesweeper/internal/mines"
)

const EnvPrefix = "MINES"

type Game struct {
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
	Mines  int    `mapstructure:"mines"`
	Mode   string `mapstructure:"mode"`
	Seed   uint64 `mapstructure:"seed"`
	// Params is the W:H:M shorthand; when set it wins over the fields above.
	Params string `mapstructure:"params"`
}

type Log struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
}

type Simulate struct {
	Rounds     int `mapstructure:"rounds"`
	Workers    int `mapstructure:"workers"`
	SolveEvery int `mapstructure:"solve_every"`
}

type Config struct {
	Game     Game     `mapstructure:"game"`
	Log      Log      `mapstructure:"log"`
	Simulate Simulate `mapstructure:"simulate"`
}

// New returns a viper instance with every default set and MINES_* env
// variables bound, e.g. MINES_GAME_WIDTH for game.width.
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault("game.width", 24)
	v.SetDefault("game.height", 20)
	v.SetDefault("game.mines", 99)
	v.SetDefault("game.mode", mines.SafeFirstClick.String())
	v.SetDefault("game.seed", 0)
	v.SetDefault("game.params", "")

	level := logrus.InfoLevel
	if Development() {
		level = logrus.DebugLevel
	}
	v.SetDefault("log.level", level.String())
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age", 28)

	v.SetDefault("simulate.rounds", 1000)
	v.SetDefault("simulate.workers", 4)
	v.SetDefault("simulate.solve_every", 0)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads the optional config file at path into v and decodes the
// result.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("unable to read config %s: %w", path, err)
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to parse config: %w", err)
	}
	return &cfg, nil
}

// GameParams resolves and validates the configured board.
func (c Config) GameParams() (mines.GameParams, error) {
	params := mines.GameParams{
		Width:     c.Game.Width,
		Height:    c.Game.Height,
		MineCount: c.Game.Mines,
	}
	if c.Game.Params != "" {
		p, err := mines.ParseSeed(c.Game.Params)
		if err != nil {
			return mines.GameParams{}, err
		}
		params = *p
	}
	if err := params.Validate(); err != nil {
		return mines.GameParams{}, err
	}
	return params, nil
}

func (c Config) PlacementMode() (mines.PlacementMode, error) {
	return mines.ParsePlacementMode(c.Game.Mode)
}

// Validate checks everything a command needs before it builds a game.
func (c Config) Validate() error {
	_, paramsErr := c.GameParams()
	_, modeErr := c.PlacementMode()
	_, levelErr := logrus.ParseLevel(c.Log.Level)
	var simErr error
	if c.Simulate.Rounds < 0 || c.Simulate.Workers < 1 || c.Simulate.SolveEvery < 0 {
		simErr = fmt.Errorf(
			"invalid simulate settings (rounds = %d, workers = %d, solve_every = %d)",
			c.Simulate.Rounds, c.Simulate.Workers, c.Simulate.SolveEvery,
		)
	}
	return errors.Join(paramsErr, modeErr, levelErr, simErr)
}

func (c Config) Fields() logrus.Fields {
	return map[string]any{
		"game_width":           c.Game.Width,
		"game_height":          c.Game.Height,
		"game_mines":           c.Game.Mines,
		"game_params":          c.Game.Params,
		"game_mode":            c.Game.Mode,
		"game_seed":            c.Game.Seed,
		"log_level":            c.Log.Level,
		"log_file":             c.Log.File,
		"simulate_rounds":      c.Simulate.Rounds,
		"simulate_workers":     c.Simulate.Workers,
		"simulate_solve_every": c.Simulate.SolveEvery,
	}
}
