package mines

import (
	"fmt"
	"strings"
)

// SafeZone is the largest number of cells the first click may keep free of
// mines: the clicked cell and its eight neighbors.
const SafeZone = 9

type GameParams struct {
	Width, Height, MineCount int
}

func (p GameParams) Unpack() (w int, h int, mc int) {
	return p.Width, p.Height, p.MineCount
}

func (p GameParams) Area() int {
	return p.Width * p.Height
}

// SafeCells is the number of reveals needed to win.
func (p GameParams) SafeCells() int {
	return p.Area() - p.MineCount
}

// Validate rejects parameters for which no round can be built. The mine
// count must leave room for a full SafeZone, so boards with fewer than
// SafeZone cells are always rejected.
func (p GameParams) Validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, p.Width, p.Height)
	}
	if p.MineCount < 0 || p.MineCount > p.Area()-SafeZone {
		return fmt.Errorf(
			"%w: %d mines on a %dx%d board (allowed 0..%d)",
			ErrInvalidMineCount, p.MineCount, p.Width, p.Height, p.Area()-SafeZone,
		)
	}
	return nil
}

func (p GameParams) Seed() string {
	return fmt.Sprintf("%d:%d:%d", p.Width, p.Height, p.MineCount)
}

func (p GameParams) String() string {
	return fmt.Sprintf("%dx%d(%d)", p.Width, p.Height, p.MineCount)
}

// ParseSeed reads the W:H:M form produced by [GameParams.Seed]. The result
// is not validated.
func ParseSeed(seed string) (*GameParams, error) {
	p := &GameParams{}
	sseed := strings.ReplaceAll(strings.TrimSpace(seed), ":", " ")
	n, err := fmt.Sscanf(sseed, "%d %d %d", &p.Width, &p.Height, &p.MineCount)
	if n != 3 || err != nil {
		return nil, fmt.Errorf(
			`invalid game params seed (seed = "%s", n = %d, err = %v)`,
			seed, n, err,
		)
	}
	return p, nil
}
