package mines

import (
	"fmt"
	"strconv"
	"strings"
)

type CellStatus int8

const (
	Unknown       CellStatus = -2
	Flag          CellStatus = -1
	CorrectFlag   CellStatus = 64 // post-game-over
	ExplodedMine  CellStatus = 65
	WrongFlag     CellStatus = 66
	UnflaggedMine CellStatus = 67
	// 0-8 for a revealed cell with the given number of mined neighbors
)

func (s CellStatus) String() string {
	switch s {
	case Unknown:
		return "."
	case Flag, CorrectFlag:
		return "F"
	case ExplodedMine:
		return "X"
	case WrongFlag:
		return "x"
	case UnflaggedMine:
		return "*"
	case 0:
		return " "
	case 1, 2, 3, 4, 5, 6, 7, 8:
		return strconv.Itoa(int(s))
	default:
		return "!"
	}
}

// Revealed reports whether the status carries an adjacency count.
func (s CellStatus) Revealed() bool {
	return 0 <= s && s <= 8
}

// CellView is what a presentation layer may know about one cell: the mine
// bit only once disclosed or revealed, and the count only once revealed.
type CellView struct {
	Revealed      bool
	Flagged       bool
	Mine          bool
	AdjacentMines int
}

// View exposes the display facts of the cell at c.
func (g *Game) View(c Coord) (CellView, error) {
	cell, err := g.board.CellAt(c)
	if err != nil {
		return CellView{}, err
	}
	v := CellView{
		Revealed: cell.revealed,
		Flagged:  cell.flagged,
		Mine:     cell.mine && (cell.revealed || cell.disclosed),
	}
	if cell.revealed && !cell.mine {
		v.AdjacentMines = cell.AdjacentMines()
	}
	return v, nil
}

// Status folds the display facts of the cell at c into one value.
func (g *Game) Status(c Coord) (CellStatus, error) {
	cell, err := g.board.CellAt(c)
	if err != nil {
		return 0, err
	}
	return g.status(c, cell), nil
}

func (g *Game) status(c Coord, cell Cell) CellStatus {
	switch {
	case cell.revealed && cell.mine:
		if x, ok := g.Exploded(); ok && x == c {
			return ExplodedMine
		}
		return UnflaggedMine
	case cell.revealed:
		return CellStatus(cell.AdjacentMines())
	case cell.flagged && g.outcome.Over():
		if cell.mine {
			return CorrectFlag
		}
		return WrongFlag
	case cell.flagged:
		return Flag
	case cell.disclosed:
		return UnflaggedMine
	default:
		return Unknown
	}
}

type Grid []CellStatus

// PlayerGrid returns the status of every cell in row-major order.
func (g *Game) PlayerGrid() Grid {
	grid := make(Grid, len(g.board.cells))
	for i, cell := range g.board.cells {
		grid[i] = g.status(g.board.coord(i), cell)
	}
	return grid
}

func (g Grid) ToString(width int) string {
	var b strings.Builder
	for y := range len(g) / width {
		for x := range width {
			fmt.Fprint(&b, g[y*width+x].String()+" ")
		}
		fmt.Fprint(&b, "\n")
	}
	return b.String()
}
