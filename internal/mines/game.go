package mines

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

type Outcome int

const (
	InProgress Outcome = iota
	Won
	Lost
)

func (o Outcome) String() string {
	switch o {
	case InProgress:
		return "in progress"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Over reports whether the outcome is terminal.
func (o Outcome) Over() bool {
	return o != InProgress
}

// Update describes what a single action changed, so a caller can redraw
// incrementally.
type Update struct {
	// Revealed lists newly revealed cells in discovery order.
	Revealed  []Coord
	Flagged   []Coord
	Unflagged []Coord
	// OutOfFlags is set when a flag was refused because the budget is spent.
	OutOfFlags     bool
	Outcome        Outcome
	RemainingMines int
}

// Changed reports whether the action mutated any cell.
func (u Update) Changed() bool {
	return len(u.Revealed) > 0 || len(u.Flagged) > 0 || len(u.Unflagged) > 0
}

// Observer is told when a round ends. The snapshot is a copy with all
// mines disclosed.
type Observer interface {
	RoundOver(round uuid.UUID, outcome Outcome, snapshot *Board)
}

type ObserverFunc func(round uuid.UUID, outcome Outcome, snapshot *Board)

func (f ObserverFunc) RoundOver(round uuid.UUID, outcome Outcome, snapshot *Board) {
	f(round, outcome, snapshot)
}

type Option func(*Game)

// WithPlacer replaces the default random placer.
func WithPlacer(p Placer) Option {
	return func(g *Game) { g.placer = p }
}

// WithSeed seeds the default random placer; see [NewRand].
func WithSeed(seed uint64) Option {
	return func(g *Game) { g.placer = RandomPlacer{Rand: NewRand(seed)} }
}

func WithMode(m PlacementMode) Option {
	return func(g *Game) { g.mode = m }
}

func WithObserver(o Observer) Option {
	return func(g *Game) { g.observers = append(g.observers, o) }
}

// Game drives one board through rounds. A Game is not safe for concurrent
// use; every action runs to completion before it returns.
type Game struct {
	params    GameParams
	mode      PlacementMode
	placer    Placer
	observers []Observer

	board        *Board
	round        uuid.UUID
	flaggedCount int
	revealedSafe int
	initialized  bool
	outcome      Outcome
	exploded     *Coord
}

func NewGame(params GameParams, opts ...Option) (*Game, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	board, err := NewBoard(params.Width, params.Height)
	if err != nil {
		return nil, err
	}
	g := &Game{
		params: params,
		board:  board,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.placer == nil {
		g.placer = RandomPlacer{Rand: NewRand(0)}
	}
	if err := g.startRound(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Game) Params() GameParams { return g.params }
func (g *Game) Mode() PlacementMode { return g.mode }
func (g *Game) Round() uuid.UUID { return g.round }
func (g *Game) Outcome() Outcome { return g.outcome }
func (g *Game) Initialized() bool { return g.initialized }
func (g *Game) FlaggedCount() int { return g.flaggedCount }
func (g *Game) RevealedSafeCount() int { return g.revealedSafe }
func (g *Game) RemainingMines() int { return g.params.MineCount - g.flaggedCount }
func (g *Game) Snapshot() *Board { return g.board.Clone() }
func (g *Game) InBounds(c Coord) bool { return g.board.InBounds(c) }
func (g *Game) CellAt(c Coord) (Cell, error) { return g.board.CellAt(c) }

// Exploded returns the mine that lost the round, if any.
func (g *Game) Exploded() (Coord, bool) {
	if g.exploded == nil {
		return Coord{}, false
	}
	return *g.exploded, true
}

func (g *Game) logger() *logrus.Entry {
	return Log.WithFields(logrus.Fields{
		"round":  g.round.String(),
		"params": g.params.String(),
	})
}

func (g *Game) update() Update {
	return Update{Outcome: g.outcome, RemainingMines: g.RemainingMines()}
}

func (g *Game) startRound() error {
	g.round = uuid.New()
	g.flaggedCount = 0
	g.revealedSafe = 0
	g.initialized = false
	g.outcome = InProgress
	g.exploded = nil
	g.board.Clear()

	g.logger().WithField("mode", g.mode.String()).Debug("round started")

	if g.mode == Eager {
		return g.initialize(nil)
	}
	return nil
}

// initialize lays out the mines, keeping the excluded cells clear.
func (g *Game) initialize(excluded []Coord) error {
	if err := g.placer.Place(g.board, g.params.MineCount, excluded); err != nil {
		return fmt.Errorf("unable to place mines: %w", err)
	}
	if err := g.board.ComputeAdjacentCounts(); err != nil {
		return err
	}
	g.initialized = true
	g.logger().WithField("excluded", len(excluded)).Debug("mines placed")
	return nil
}

func (g *Game) safeZone(c Coord) []Coord {
	zone := make([]Coord, 0, SafeZone)
	zone = append(zone, c)
	for nb := range g.board.Neighbors(c) {
		zone = append(zone, nb)
	}
	return zone
}

// Reveal opens the cell at c. Opening a cell with no adjacent mines opens
// its whole zero region and the numbered cells bordering it. Revealing a
// revealed or flagged cell, or acting after the round ended, does nothing.
func (g *Game) Reveal(c Coord) (Update, error) {
	if err := g.board.checkBounds(c); err != nil {
		return Update{}, err
	}
	if g.outcome.Over() {
		return g.update(), nil
	}
	if !g.initialized {
		if err := g.initialize(g.safeZone(c)); err != nil {
			return Update{}, err
		}
	}
	if cell := g.board.cell(c); cell.revealed || cell.flagged {
		return g.update(), nil
	}

	var revealed []Coord
	queued := make([]bool, len(g.board.cells))
	queued[g.board.index(c)] = true
	queue := []Coord{c}

	for len(queue) > 0 && !g.outcome.Over() {
		cur := queue[0]
		queue = queue[1:]

		cell := g.board.cell(cur)
		cell.revealed = true
		revealed = append(revealed, cur)

		if cell.mine {
			g.lose(cur)
			break
		}
		g.revealedSafe++
		if g.revealedSafe == g.params.SafeCells() {
			g.win()
			break
		}

		if cell.adjacent != 0 {
			continue
		}
		for nb := range g.board.Neighbors(cur) {
			i := g.board.index(nb)
			n := &g.board.cells[i]
			if queued[i] || n.revealed || n.flagged {
				continue
			}
			queued[i] = true
			queue = append(queue, nb)
		}
	}

	g.logger().WithFields(logrus.Fields{
		"x": c.X, "y": c.Y, "revealed": len(revealed),
	}).Debug("reveal")

	u := g.update()
	u.Revealed = revealed
	return u, nil
}

// ToggleFlag flags or unflags a hidden cell. Flags need a placed layout, so
// this does nothing before the first reveal in safe-first-click mode. No
// more than MineCount flags can be set.
func (g *Game) ToggleFlag(c Coord) (Update, error) {
	if err := g.board.checkBounds(c); err != nil {
		return Update{}, err
	}
	u := g.update()
	if !g.initialized || g.outcome.Over() {
		return u, nil
	}
	cell := g.board.cell(c)
	switch {
	case cell.revealed:
		return u, nil
	case cell.flagged:
		cell.flagged = false
		g.flaggedCount--
		u.Unflagged = []Coord{c}
	case g.flaggedCount >= g.params.MineCount:
		u.OutOfFlags = true
		return u, nil
	default:
		cell.flagged = true
		g.flaggedCount++
		u.Flagged = []Coord{c}
	}

	g.logger().WithFields(logrus.Fields{
		"x": c.X, "y": c.Y, "flagged": cell.flagged,
	}).Debug("flag")

	u.RemainingMines = g.RemainingMines()
	return u, nil
}

// Solve reveals the true board: every mine ends up flagged and every safe
// cell revealed, which wins the round. It ignores the flag budget. On a
// board without mines yet, the layout is placed with no safe zone.
func (g *Game) Solve() (Update, error) {
	if g.outcome.Over() {
		return g.update(), nil
	}
	if !g.initialized {
		if err := g.initialize(nil); err != nil {
			return Update{}, err
		}
	}

	var u Update
	for _, c := range g.board.mines {
		if cell := g.board.cell(c); !cell.flagged {
			cell.flagged = true
			g.flaggedCount++
			u.Flagged = append(u.Flagged, c)
		}
	}
	for i := range g.board.cells {
		cell := &g.board.cells[i]
		if cell.mine {
			continue
		}
		c := g.board.coord(i)
		if cell.flagged {
			cell.flagged = false
			g.flaggedCount--
			u.Unflagged = append(u.Unflagged, c)
		}
		if cell.revealed {
			continue
		}
		cell.revealed = true
		u.Revealed = append(u.Revealed, c)
		g.revealedSafe++
		if g.revealedSafe == g.params.SafeCells() {
			g.win()
		}
	}

	g.logger().WithFields(logrus.Fields{
		"revealed": len(u.Revealed), "flagged": len(u.Flagged),
	}).Debug("solve")

	u.Outcome = g.outcome
	u.RemainingMines = g.RemainingMines()
	return u, nil
}

// Reset starts a fresh round with the same parameters and a new layout.
func (g *Game) Reset() error {
	return g.startRound()
}

func (g *Game) win() {
	g.board.Disclose()
	g.outcome = Won
	g.finish()
}

func (g *Game) lose(c Coord) {
	g.exploded = &c
	g.board.Disclose()
	g.outcome = Lost
	g.finish()
}

func (g *Game) finish() {
	g.logger().WithFields(logrus.Fields{
		"outcome":  g.outcome.String(),
		"revealed": g.revealedSafe,
		"flagged":  g.flaggedCount,
	}).Info("round over")

	if len(g.observers) == 0 {
		return
	}
	snapshot := g.board.Clone()
	for _, o := range g.observers {
		o.RoundOver(g.round, g.outcome, snapshot)
	}
}
