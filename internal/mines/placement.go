package mines

import (
	"fmt"
	"hash/maphash"
	"math/rand/v2"
	"slices"
)

// PlacementMode selects when a Game lays out its mines.
type PlacementMode int

const (
	// SafeFirstClick defers placement to the first reveal and keeps the
	// clicked cell and its neighbors free of mines.
	SafeFirstClick PlacementMode = iota
	// Eager places mines when the round starts; the first click may hit one.
	Eager
)

func (m PlacementMode) String() string {
	switch m {
	case SafeFirstClick:
		return "safe"
	case Eager:
		return "eager"
	default:
		return fmt.Sprintf("PlacementMode(%d)", int(m))
	}
}

func ParsePlacementMode(s string) (PlacementMode, error) {
	switch s {
	case "safe", "":
		return SafeFirstClick, nil
	case "eager":
		return Eager, nil
	default:
		return 0, fmt.Errorf("unknown placement mode %q (want safe or eager)", s)
	}
}

// Placer lays out count mines on b, avoiding the excluded coordinates.
type Placer interface {
	Place(b *Board, count int, excluded []Coord) error
}

// RandomPlacer samples mine positions uniformly.
type RandomPlacer struct {
	Rand *rand.Rand
}

func (p RandomPlacer) Place(b *Board, count int, excluded []Coord) error {
	return b.PlaceMines(count, excluded, p.Rand)
}

// FixedLayout always places mines at the listed coordinates.
type FixedLayout []Coord

func (l FixedLayout) Place(b *Board, count int, excluded []Coord) error {
	if len(l) != count {
		return AssertionError{fmt.Sprintf("fixed layout has %d mines, want %d", len(l), count)}
	}
	for _, c := range l {
		if slices.Contains(excluded, c) {
			return AssertionError{fmt.Sprintf("fixed mine %v lies in the excluded zone", c)}
		}
	}
	return b.SetMines(l)
}

// NewRand returns a PCG stream. A zero seed draws from runtime entropy.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(
			new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
		))
	}
	return rand.New(rand.NewPCG(seed, seed))
}
