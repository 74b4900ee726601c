package mines

import (
	"errors"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	// Log.SetLevel(logrus.DebugLevel)
	Log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	m.Run()
}

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}

// nearby is the all-pairs adjacency test; it serves as an oracle only.
func nearby(a, b Coord) bool {
	return a != b && absDiff(a.X, b.X) <= 1 && absDiff(a.Y, b.Y) <= 1
}

func TestNewBoardInvalidDimensions(t *testing.T) {
	tests := []struct{ w, h int }{{0, 5}, {5, 0}, {-1, 3}, {3, -7}, {0, 0}}
	for _, test := range tests {
		_, err := NewBoard(test.w, test.h)
		assert.ErrorIs(t, err, ErrInvalidDimensions, "%dx%d", test.w, test.h)
	}
}

func TestNewBoardIsBlank(t *testing.T) {
	b, err := NewBoard(4, 3)
	require.NoError(t, err)
	assert.Equal(t, 12, b.Area())
	assert.False(t, b.Placed())
	assert.False(t, b.Counted())
	assert.Empty(t, b.Mines())
	for y := range 3 {
		for x := range 4 {
			cell, err := b.CellAt(Coord{x, y})
			require.NoError(t, err)
			assert.False(t, cell.IsMine())
			assert.False(t, cell.IsRevealed())
			assert.False(t, cell.IsFlagged())
			assert.False(t, cell.IsDisclosed())
		}
	}
}

func TestCellAtOutOfBounds(t *testing.T) {
	b, err := NewBoard(3, 3)
	require.NoError(t, err)
	for _, c := range []Coord{{-1, 0}, {0, -1}, {3, 0}, {0, 3}, {10, 10}} {
		_, err := b.CellAt(c)
		assert.ErrorIs(t, err, ErrOutOfBounds, "%v", c)
	}
}

func TestNeighbors(t *testing.T) {
	b, err := NewBoard(5, 4)
	require.NoError(t, err)

	tests := []struct {
		name  string
		coord Coord
		count int
	}{
		{"top-left corner", Coord{0, 0}, 3},
		{"bottom-right corner", Coord{4, 3}, 3},
		{"top edge", Coord{2, 0}, 5},
		{"left edge", Coord{0, 2}, 5},
		{"interior", Coord{2, 2}, 8},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := slices.Collect(b.Neighbors(test.coord))
			assert.Len(t, got, test.count)
			for _, nb := range got {
				assert.True(t, b.InBounds(nb))
				assert.True(t, nearby(test.coord, nb), "%v is not next to %v", nb, test.coord)
			}
		})
	}

	single, err := NewBoard(1, 1)
	require.NoError(t, err)
	assert.Empty(t, slices.Collect(single.Neighbors(Coord{0, 0})))
}

func TestNeighborsMatchAllPairsScan(t *testing.T) {
	b, err := NewBoard(7, 5)
	require.NoError(t, err)
	for i := range b.Area() {
		c := b.coord(i)
		var want []Coord
		for j := range b.Area() {
			if other := b.coord(j); nearby(c, other) {
				want = append(want, other)
			}
		}
		assert.Equal(t, want, slices.Collect(b.Neighbors(c)), "%v", c)
	}
}

func TestPlaceMines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		w, h, n  int
		excluded []Coord
	}{
		{"9x9(10)", 9, 9, 10, nil},
		{"9x9(72) around center", 9, 9, 72, []Coord{{3, 3}, {4, 3}, {5, 3}, {3, 4}, {4, 4}, {5, 4}, {3, 5}, {4, 5}, {5, 5}}},
		{"16x16(40)", 16, 16, 40, []Coord{{0, 0}, {1, 0}, {0, 1}, {1, 1}}},
		{"30x16(99)", 30, 16, 99, []Coord{{29, 15}}},
		{"full", 3, 3, 9, nil},
		{"empty", 3, 3, 0, nil},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			r := rand.New(rand.NewPCG(1, 2))
			b, err := NewBoard(test.w, test.h)
			require.NoError(t, err)
			require.NoError(t, b.PlaceMines(test.n, test.excluded, r))

			mines := b.Mines()
			assert.Len(t, mines, test.n)
			assert.Equal(t, len(mines), len(slices.Compact(slices.Clone(mines))), "duplicate mines")
			for _, c := range test.excluded {
				cell, _ := b.CellAt(c)
				assert.False(t, cell.IsMine(), "mine placed on excluded %v", c)
			}

			count := 0
			for y := range test.h {
				for x := range test.w {
					if cell, _ := b.CellAt(Coord{x, y}); cell.IsMine() {
						count++
					}
				}
			}
			assert.Equal(t, test.n, count)
		})
	}
}

func TestPlaceMinesInsufficientSpace(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	b, err := NewBoard(3, 3)
	require.NoError(t, err)

	err = b.PlaceMines(1, []Coord{
		{0, 0}, {1, 0}, {2, 0}, {0, 1}, {1, 1}, {2, 1}, {0, 2}, {1, 2}, {2, 2},
	}, r)
	assert.ErrorIs(t, err, ErrInsufficientSpace)
	assert.False(t, b.Placed())

	assert.ErrorIs(t, b.PlaceMines(10, nil, r), ErrInsufficientSpace)
	assert.ErrorIs(t, b.PlaceMines(-1, nil, r), ErrInsufficientSpace)
}

func TestPlaceMinesTwice(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	b, err := NewBoard(4, 4)
	require.NoError(t, err)
	require.NoError(t, b.PlaceMines(3, nil, r))

	var ae AssertionError
	assert.True(t, errors.As(b.PlaceMines(3, nil, r), &ae))
	assert.True(t, errors.As(b.SetMines([]Coord{{0, 0}}), &ae))
}

// Every non-excluded cell should be picked about equally often.
func TestPlaceMinesUniform(t *testing.T) {
	const trials = 8000
	r := rand.New(rand.NewPCG(1, 2))
	hits := make(map[Coord]int)
	for range trials {
		b, err := NewBoard(3, 3)
		require.NoError(t, err)
		require.NoError(t, b.PlaceMines(1, []Coord{{1, 1}}, r))
		hits[b.Mines()[0]]++
	}
	assert.Len(t, hits, 8)
	assert.Zero(t, hits[Coord{1, 1}])
	for c, n := range hits {
		assert.InDelta(t, trials/8, n, 200, "cell %v picked %d times", c, n)
	}
}

func TestSetMines(t *testing.T) {
	b, err := NewBoard(4, 4)
	require.NoError(t, err)
	require.NoError(t, b.SetMines([]Coord{{3, 3}, {0, 2}}))
	assert.Equal(t, []Coord{{0, 2}, {3, 3}}, b.Mines())

	b, _ = NewBoard(4, 4)
	assert.ErrorIs(t, b.SetMines([]Coord{{4, 0}}), ErrOutOfBounds)

	b, _ = NewBoard(4, 4)
	var ae AssertionError
	assert.True(t, errors.As(b.SetMines([]Coord{{1, 1}, {1, 1}}), &ae))
}

func TestAdjacentCountsMatchBruteForce(t *testing.T) {
	tests := []struct {
		name    string
		w, h, n int
	}{
		{"3x3(1)", 3, 3, 1},
		{"3x3(4)", 3, 3, 4},
		{"1x8(3)", 1, 8, 3},
		{"8x1(3)", 8, 1, 3},
		{"6x5(12)", 6, 5, 12},
		{"9x9(40)", 9, 9, 40},
	}

	r := rand.New(rand.NewPCG(1, 2))
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			for range 50 {
				b, err := NewBoard(test.w, test.h)
				require.NoError(t, err)
				require.NoError(t, b.PlaceMines(test.n, nil, r))
				require.NoError(t, b.ComputeAdjacentCounts())

				mines := b.Mines()
				for i := range b.Area() {
					c := b.coord(i)
					cell, _ := b.CellAt(c)
					if cell.IsMine() {
						continue
					}
					want := 0
					for _, m := range mines {
						if nearby(c, m) {
							want++
						}
					}
					assert.Equal(t, want, cell.AdjacentMines(), "%v", c)
				}
			}
		})
	}
}

func TestAdjacentCountsLifecycle(t *testing.T) {
	b, err := NewBoard(3, 3)
	require.NoError(t, err)

	cell, _ := b.CellAt(Coord{0, 0})
	assert.Panics(t, func() { cell.AdjacentMines() })

	var ae AssertionError
	assert.True(t, errors.As(b.ComputeAdjacentCounts(), &ae), "counts before placement")

	require.NoError(t, b.SetMines([]Coord{{2, 2}}))
	require.NoError(t, b.ComputeAdjacentCounts())
	assert.True(t, errors.As(b.ComputeAdjacentCounts(), &ae), "counts twice")

	cell, _ = b.CellAt(Coord{1, 1})
	assert.Equal(t, 1, cell.AdjacentMines())
	cell, _ = b.CellAt(Coord{0, 0})
	assert.Equal(t, 0, cell.AdjacentMines())

	b.Clear()
	assert.False(t, b.Placed())
	assert.Empty(t, b.Mines())
	cell, _ = b.CellAt(Coord{1, 1})
	assert.Panics(t, func() { cell.AdjacentMines() })
}

func TestCloneIsIndependent(t *testing.T) {
	b, err := NewBoard(3, 3)
	require.NoError(t, err)
	require.NoError(t, b.SetMines([]Coord{{0, 0}}))

	clone := b.Clone()
	b.Disclose()

	orig, _ := b.CellAt(Coord{0, 0})
	copied, _ := clone.CellAt(Coord{0, 0})
	assert.True(t, orig.IsDisclosed())
	assert.False(t, copied.IsDisclosed())
	assert.Equal(t, b.Mines(), clone.Mines())
}
