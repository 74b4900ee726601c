package console

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/schema"

	"github.com/vancomm/minesweeper/internal/mines"
)

// ErrQuit is returned by [Session.Execute] for the quit command.
var ErrQuit = errors.New("quit")

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
}

// NewGameParams is the argument list of the n command, written as a query
// string ("width=9&height=9&mines=10") or as space separated pairs.
type NewGameParams struct {
	Width     int `schema:"width,required"`
	Height    int `schema:"height,required"`
	MineCount int `schema:"mines,required"`
}

// Maps known commands to number of arguments; -1 means one or more.
var commandNargs = map[string]int{
	"o": 2,
	"f": 2,
	"s": 0,
	"r": 0,
	"p": 0,
	"n": -1,
	"h": 0,
	"q": 0,
}

const usage = `commands:
  o X Y   reveal the cell at column X, row Y
  f X Y   toggle a flag
  s       solve the board
  r       restart with a new layout
  n width=W&height=H&mines=M
          start a game with other parameters
  p       print the board
  h       show this help
  q       quit
`

func parseXY(twoStrings []string) (c mines.Coord, err error) {
	if c.X, err = strconv.Atoi(twoStrings[0]); err != nil {
		err = errors.New("first argument must be an int")
		return
	}
	if c.Y, err = strconv.Atoi(twoStrings[1]); err != nil {
		err = errors.New("second argument must be an int")
		return
	}
	return
}

func parseNewGame(args []string) (mines.GameParams, error) {
	query, err := url.ParseQuery(strings.Join(args, "&"))
	if err != nil {
		return mines.GameParams{}, fmt.Errorf("unable to parse game params: %w", err)
	}
	var p NewGameParams
	if err := decoder.Decode(&p, query); err != nil {
		return mines.GameParams{}, fmt.Errorf("unable to decode game params: %w", err)
	}
	params := mines.GameParams{Width: p.Width, Height: p.Height, MineCount: p.MineCount}
	if err := params.Validate(); err != nil {
		return mines.GameParams{}, err
	}
	return params, nil
}

func splitCommand(line string) (string, []string, error) {
	parts := strings.Fields(line)
	nargs, ok := commandNargs[parts[0]]
	if !ok {
		return "", nil, fmt.Errorf("unknown command %q", parts[0])
	}
	args := parts[1:]
	if (nargs < 0 && len(args) == 0) || (nargs >= 0 && nargs != len(args)) {
		return "", nil, errors.New("invalid number of arguments")
	}
	return parts[0], args, nil
}
