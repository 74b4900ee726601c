// Package simulate plays many independent rounds concurrently and reports
// aggregate statistics. Each round owns its Game; nothing is shared between
// workers except the totals.
package simulate

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/minesweeper/internal/mines"
)

var Log = logrus.New()

var (
	ErrStuck     = errors.New("no hidden cell left in an unfinished round")
	ErrSolveLost = errors.New("solved round did not win")
)

type Options struct {
	Params  mines.GameParams
	Mode    mines.PlacementMode
	Rounds  int
	Workers int
	// Seed makes a run reproducible; 0 draws from runtime entropy.
	Seed uint64
	// SolveEvery makes every n-th round finish with Solve. 0 disables it.
	SolveEvery int
}

type Stats struct {
	Rounds       int
	Wins         int
	Losses       int
	Reveals      int
	LargestFlood int
}

func (s *Stats) add(o roundResult) {
	s.Rounds++
	switch o.outcome {
	case mines.Won:
		s.Wins++
	case mines.Lost:
		s.Losses++
	}
	s.Reveals += o.reveals
	s.LargestFlood = max(s.LargestFlood, o.largestFlood)
}

func (s Stats) Fields() logrus.Fields {
	return logrus.Fields{
		"rounds":        s.Rounds,
		"wins":          s.Wins,
		"losses":        s.Losses,
		"reveals":       s.Reveals,
		"largest_flood": s.LargestFlood,
	}
}

type roundResult struct {
	round        uuid.UUID
	outcome      mines.Outcome
	reveals      int
	largestFlood int
}

func (o Options) validate() error {
	if err := o.Params.Validate(); err != nil {
		return err
	}
	if o.Rounds < 0 || o.Workers < 1 || o.SolveEvery < 0 {
		return fmt.Errorf(
			"invalid simulation options (rounds = %d, workers = %d, solve_every = %d)",
			o.Rounds, o.Workers, o.SolveEvery,
		)
	}
	return nil
}

// Run plays opts.Rounds rounds on at most opts.Workers goroutines. It stops
// at the first failed round or when ctx is done, returning the statistics
// gathered so far alongside the error.
func Run(ctx context.Context, opts Options) (Stats, error) {
	if err := opts.validate(); err != nil {
		return Stats{}, err
	}

	var (
		mu    sync.Mutex
		stats Stats
		seeds = mines.NewRand(opts.Seed)
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)

	for i := range opts.Rounds {
		if gCtx.Err() != nil {
			break
		}
		// Seeds are drawn here so a seeded run does not depend on scheduling.
		seed := seeds.Uint64() | 1
		solve := opts.SolveEvery > 0 && (i+1)%opts.SolveEvery == 0
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			res, err := playRound(opts, seed, solve)
			if err != nil {
				return fmt.Errorf("round %d: %w", i, err)
			}
			mu.Lock()
			stats.add(res)
			mu.Unlock()
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	log := Log.WithFields(stats.Fields())
	if err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Error("simulation failed")
	} else {
		log.Info("simulation done")
	}
	return stats, err
}

// playRound reveals random hidden cells until the round ends. With solve
// set it reveals one cell and then solves the board, which must win.
func playRound(opts Options, seed uint64, solve bool) (roundResult, error) {
	r := rand.New(rand.NewPCG(seed, seed))
	game, err := mines.NewGame(
		opts.Params,
		mines.WithMode(opts.Mode),
		mines.WithPlacer(mines.RandomPlacer{Rand: r}),
	)
	if err != nil {
		return roundResult{}, err
	}
	res := roundResult{round: game.Round()}

	for !game.Outcome().Over() {
		c, ok := pickHidden(game, r)
		if !ok {
			return res, ErrStuck
		}
		u, err := game.Reveal(c)
		if err != nil {
			return res, err
		}
		res.reveals++
		res.largestFlood = max(res.largestFlood, len(u.Revealed))

		if solve && !game.Outcome().Over() {
			if _, err := game.Solve(); err != nil {
				return res, err
			}
			if game.Outcome() != mines.Won {
				return res, ErrSolveLost
			}
		}
	}

	res.outcome = game.Outcome()
	Log.WithFields(logrus.Fields{
		"round":   res.round.String(),
		"outcome": res.outcome.String(),
		"reveals": res.reveals,
	}).Debug("round played")
	return res, nil
}

// pickHidden returns a uniformly chosen cell that is neither revealed nor
// flagged.
func pickHidden(game *mines.Game, r *rand.Rand) (mines.Coord, bool) {
	var hidden []mines.Coord
	p := game.Params()
	for y := range p.Height {
		for x := range p.Width {
			c := mines.Coord{X: x, Y: y}
			if cell, _ := game.CellAt(c); !cell.IsRevealed() && !cell.IsFlagged() {
				hidden = append(hidden, c)
			}
		}
	}
	if len(hidden) == 0 {
		return mines.Coord{}, false
	}
	return hidden[r.IntN(len(hidden))], true
}
