package mines

import (
	"fmt"
	"iter"
	"math/rand/v2"
	"slices"
)

// Coord addresses a cell by column (X) and row (Y), both 0-indexed.
type Coord struct {
	X, Y int
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// adjacency is unknown until the board's counts are computed.
const unknownCount int8 = -1

type Cell struct {
	mine      bool
	revealed  bool
	flagged   bool
	disclosed bool
	adjacent  int8
}

func (c Cell) IsMine() bool { return c.mine }
func (c Cell) IsRevealed() bool { return c.revealed }
func (c Cell) IsFlagged() bool { return c.flagged }

// IsDisclosed reports whether a mine is shown after the round ended. It is
// display-only and independent of IsRevealed.
func (c Cell) IsDisclosed() bool { return c.disclosed }

// AdjacentMines returns the number of mines among the cell's neighbors.
//
// panics [AssertionError] if counts have not been computed yet
func (c Cell) AdjacentMines() int {
	if c.adjacent == unknownCount {
		panic(AssertionError{"adjacent mine count read before counts were computed"})
	}
	return int(c.adjacent)
}

func (c *Cell) clear() {
	*c = Cell{adjacent: unknownCount}
}

// Board owns the grid topology, the mine layout and the adjacency counts.
// It knows nothing about the outcome of a round.
type Board struct {
	width, height int
	cells         []Cell
	mines         []Coord
	placed        bool
	counted       bool
}

func NewBoard(width, height int) (*Board, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	b := &Board{
		width:  width,
		height: height,
		cells:  make([]Cell, width*height),
	}
	b.Clear()
	return b, nil
}

func (b *Board) Width() int { return b.width }
func (b *Board) Height() int { return b.height }
func (b *Board) Area() int { return b.width * b.height }

// Placed reports whether mines have been placed on the board.
func (b *Board) Placed() bool { return b.placed }

// Counted reports whether adjacency counts are available.
func (b *Board) Counted() bool { return b.counted }

func (b *Board) InBounds(c Coord) bool {
	return 0 <= c.X && c.X < b.width && 0 <= c.Y && c.Y < b.height
}

func (b *Board) index(c Coord) int {
	return c.Y*b.width + c.X
}

func (b *Board) coord(i int) Coord {
	return Coord{X: i % b.width, Y: i / b.width}
}

func (b *Board) checkBounds(c Coord) error {
	if !b.InBounds(c) {
		return fmt.Errorf("%w: %v on a %dx%d board", ErrOutOfBounds, c, b.width, b.height)
	}
	return nil
}

// CellAt returns a copy of the cell at c.
func (b *Board) CellAt(c Coord) (Cell, error) {
	if err := b.checkBounds(c); err != nil {
		return Cell{}, err
	}
	return b.cells[b.index(c)], nil
}

// cell returns the stored cell; c must be in bounds.
func (b *Board) cell(c Coord) *Cell {
	return &b.cells[b.index(c)]
}

// Neighbors yields the in-bounds cells at Chebyshev distance 1 from c, in
// row-major order. Corner cells have 3 neighbors, edge cells 5, others 8.
func (b *Board) Neighbors(c Coord) iter.Seq[Coord] {
	return func(yield func(Coord) bool) {
		for dy := -1; dy <= 1; dy++ {
			y := c.Y + dy
			if y < 0 || y >= b.height {
				continue
			}
			for dx := -1; dx <= 1; dx++ {
				x := c.X + dx
				if x < 0 || x >= b.width || (dx == 0 && dy == 0) {
					continue
				}
				if !yield(Coord{X: x, Y: y}) {
					return
				}
			}
		}
	}
}

// Mines returns the mine coordinates in row-major order.
func (b *Board) Mines() []Coord {
	return slices.Clone(b.mines)
}

// PlaceMines picks count distinct cells uniformly at random among those not
// in excluded and mines them. Excluded coordinates outside the board are
// ignored.
func (b *Board) PlaceMines(count int, excluded []Coord, r *rand.Rand) error {
	if b.placed {
		return AssertionError{"mines are already placed"}
	}
	if count < 0 {
		return fmt.Errorf("%w: negative count %d", ErrInsufficientSpace, count)
	}

	skip := make([]bool, len(b.cells))
	for _, c := range excluded {
		if b.InBounds(c) {
			skip[b.index(c)] = true
		}
	}

	/*
	 * Write down the list of possible mine locations.
	 */
	candidates := make([]int, 0, len(b.cells))
	for i := range b.cells {
		if !skip[i] {
			candidates = append(candidates, i)
		}
	}
	if count > len(candidates) {
		return fmt.Errorf(
			"%w: %d mines, %d candidate cells", ErrInsufficientSpace, count, len(candidates),
		)
	}

	/*
	 * Now pick count off the list at random, swapping each pick out of
	 * the live prefix so every remaining candidate stays equally likely.
	 */
	k := len(candidates)
	for range count {
		i := r.IntN(k)
		b.cells[candidates[i]].mine = true
		k--
		candidates[i] = candidates[k]
	}

	b.collectMines()
	return nil
}

// SetMines mines exactly the given coordinates. It is the deterministic
// counterpart of [Board.PlaceMines].
func (b *Board) SetMines(coords []Coord) error {
	if b.placed {
		return AssertionError{"mines are already placed"}
	}
	seen := make(map[Coord]bool, len(coords))
	for _, c := range coords {
		if err := b.checkBounds(c); err != nil {
			return err
		}
		if seen[c] {
			return AssertionError{fmt.Sprintf("duplicate mine at %v", c)}
		}
		seen[c] = true
	}
	for _, c := range coords {
		b.cell(c).mine = true
	}
	b.collectMines()
	return nil
}

func (b *Board) collectMines() {
	b.mines = b.mines[:0]
	for i := range b.cells {
		if b.cells[i].mine {
			b.mines = append(b.mines, b.coord(i))
		}
	}
	b.placed = true
}

// ComputeAdjacentCounts fills in the adjacency count of every non-mine cell.
// It must run exactly once, after the mines are placed.
func (b *Board) ComputeAdjacentCounts() error {
	if !b.placed {
		return AssertionError{"adjacency counts computed before mines were placed"}
	}
	if b.counted {
		return AssertionError{"adjacency counts computed twice"}
	}
	for i := range b.cells {
		if b.cells[i].mine {
			b.cells[i].adjacent = 0
			continue
		}
		var n int8
		for nb := range b.Neighbors(b.coord(i)) {
			if b.cell(nb).mine {
				n++
			}
		}
		b.cells[i].adjacent = n
	}
	b.counted = true
	return nil
}

// Disclose marks every mine as shown. It does not touch IsRevealed.
func (b *Board) Disclose() {
	for _, c := range b.mines {
		b.cell(c).disclosed = true
	}
}

// Clear returns every cell to its initial state and forgets the layout.
func (b *Board) Clear() {
	for i := range b.cells {
		b.cells[i].clear()
	}
	b.mines = nil
	b.placed = false
	b.counted = false
}

// Clone returns an independent copy of the board.
func (b *Board) Clone() *Board {
	clone := *b
	clone.cells = slices.Clone(b.cells)
	clone.mines = slices.Clone(b.mines)
	return &clone
}
