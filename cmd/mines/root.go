package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/vancomm/minesweeper/internal/config"
	"github.com/vancomm/minesweeper/internal/console"
	"github.com/vancomm/minesweeper/internal/logging"
	"github.com/vancomm/minesweeper/internal/mines"
	"github.com/vancomm/minesweeper/internal/simulate"
)

var (
	v          = config.New()
	configPath string
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "mines",
	Short:         "Play minesweeper in the terminal",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(v, configPath); err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := logging.Setup(cfg.Log, log, mines.Log, console.Log, simulate.Log); err != nil {
			return err
		}
		log.WithFields(cfg.Fields()).Debug("config")
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		params, err := cfg.GameParams()
		if err != nil {
			return err
		}
		mode, err := cfg.PlacementMode()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		session, err := console.New(params, out,
			mines.WithMode(mode),
			mines.WithSeed(cfg.Game.Seed),
			mines.WithObserver(mines.ObserverFunc(logRound)),
		)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, `type "h" for help`)

		err = session.Run(cmd.Context(), os.Stdin)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "config file path")
	flags.Int("width", 0, "board width")
	flags.Int("height", 0, "board height")
	flags.Int("mines", 0, "number of mines")
	flags.String("params", "", "board as W:H:M, overrides width, height and mines")
	flags.String("mode", "", "mine placement: safe or eager")
	flags.Uint64("seed", 0, "random seed, 0 for a random one")
	flags.String("log-level", "", "log level")
	flags.String("log-file", "", "also write JSON logs to this rotated file")

	bind(flags.Lookup, map[string]string{
		"game.width":  "width",
		"game.height": "height",
		"game.mines":  "mines",
		"game.params": "params",
		"game.mode":   "mode",
		"game.seed":   "seed",
		"log.level":   "log-level",
		"log.file":    "log-file",
	})

	rootCmd.AddCommand(simulateCmd)
}

// bind ties config keys to flags; a flag only wins when it was set.
func bind(lookup func(string) *pflag.Flag, keys map[string]string) {
	for key, name := range keys {
		if err := v.BindPFlag(key, lookup(name)); err != nil {
			panic(err)
		}
	}
}

// logRound records the layout of every finished round.
func logRound(round uuid.UUID, outcome mines.Outcome, snapshot *mines.Board) {
	log.WithFields(logrus.Fields{
		"round":   round.String(),
		"outcome": outcome.String(),
		"layout":  fmt.Sprint(snapshot.Mines()),
	}).Debug("layout")
}
