package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vancomm/minesweeper/internal/simulate"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Play random rounds concurrently and print statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		params, err := cfg.GameParams()
		if err != nil {
			return err
		}
		mode, err := cfg.PlacementMode()
		if err != nil {
			return err
		}

		stats, err := simulate.Run(cmd.Context(), simulate.Options{
			Params:     params,
			Mode:       mode,
			Rounds:     cfg.Simulate.Rounds,
			Workers:    cfg.Simulate.Workers,
			Seed:       cfg.Game.Seed,
			SolveEvery: cfg.Simulate.SolveEvery,
		})

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s %s, %d rounds\n", params, mode, stats.Rounds)
		if stats.Rounds > 0 {
			fmt.Fprintf(out, "won %d (%.1f%%), lost %d\n",
				stats.Wins, 100*float64(stats.Wins)/float64(stats.Rounds), stats.Losses)
			fmt.Fprintf(out, "%.2f reveals per round, largest flood %d cells\n",
				float64(stats.Reveals)/float64(stats.Rounds), stats.LargestFlood)
		}
		return err
	},
}

func init() {
	flags := simulateCmd.Flags()
	flags.Int("rounds", 0, "number of rounds to play")
	flags.Int("workers", 0, "number of concurrent workers")
	flags.Int("solve-every", 0, "solve every n-th round after its first reveal")

	bind(flags.Lookup, map[string]string{
		"simulate.rounds":      "rounds",
		"simulate.workers":     "workers",
		"simulate.solve_every": "solve-every",
	})
}
