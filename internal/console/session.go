package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper/internal/mines"
)

var Log = logrus.New()

// Session plays one game at a time against a line-oriented terminal.
type Session struct {
	game *mines.Game
	opts []mines.Option
	out  io.Writer
}

// New starts a session on a fresh game. opts are reused for every game the
// session creates with the n command.
func New(params mines.GameParams, out io.Writer, opts ...mines.Option) (*Session, error) {
	s := &Session{opts: opts, out: out}
	if err := s.newGame(params); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) Game() *mines.Game { return s.game }

func (s *Session) newGame(params mines.GameParams) error {
	game, err := mines.NewGame(params, s.opts...)
	if err != nil {
		return err
	}
	s.game = game
	Log.WithFields(logrus.Fields{
		"round":  game.Round().String(),
		"params": params.String(),
		"mode":   game.Mode().String(),
	}).Debug("new game")
	fmt.Fprintf(s.out, "new game %s (%s)\n", params, game.Mode())
	return nil
}

// Execute runs a single command line. Blank lines are ignored.
func (s *Session) Execute(line string) error {
	if strings.TrimSpace(line) == "" {
		return nil
	}
	cmd, args, err := splitCommand(line)
	if err != nil {
		return err
	}

	var u mines.Update
	switch cmd {
	case "o":
		c, err := parseXY(args)
		if err != nil {
			return err
		}
		if u, err = s.game.Reveal(c); err != nil {
			return err
		}
	case "f":
		c, err := parseXY(args)
		if err != nil {
			return err
		}
		if u, err = s.game.ToggleFlag(c); err != nil {
			return err
		}
		if u.OutOfFlags {
			fmt.Fprintln(s.out, "out of flags")
		}
	case "s":
		if u, err = s.game.Solve(); err != nil {
			return err
		}
	case "r":
		if err := s.game.Reset(); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "new round %s\n", s.game.Params())
	case "n":
		params, err := parseNewGame(args)
		if err != nil {
			return err
		}
		if err := s.newGame(params); err != nil {
			return err
		}
	case "p":
	case "h":
		fmt.Fprint(s.out, usage)
		return nil
	case "q":
		return ErrQuit
	}

	Log.WithFields(logrus.Fields{
		"command":  cmd,
		"revealed": len(u.Revealed),
		"flagged":  len(u.Flagged),
		"outcome":  s.game.Outcome().String(),
	}).Debug("command")

	s.print()
	return nil
}

func (s *Session) print() {
	fmt.Fprint(s.out, s.game.PlayerGrid().ToString(s.game.Params().Width))
	switch s.game.Outcome() {
	case mines.Won:
		fmt.Fprintln(s.out, "you won!")
	case mines.Lost:
		x, _ := s.game.Exploded()
		fmt.Fprintf(s.out, "boom at %v, you lost!\n", x)
	default:
		fmt.Fprintf(s.out, "%d mines left\n", s.game.RemainingMines())
	}
}

// Run reads commands from r until it is exhausted, the quit command is
// entered or ctx is done. Command errors are reported and do not stop the
// session.
func (s *Session) Run(ctx context.Context, r io.Reader) error {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- scanner.Err()
	}()

	fmt.Fprint(s.out, "> ")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-errc:
					return err
				default:
					return ctx.Err()
				}
			}
			err := s.Execute(line)
			if errors.Is(err, ErrQuit) {
				return nil
			}
			if err != nil {
				fmt.Fprintf(s.out, "error: %s\n", err)
			}
			fmt.Fprint(s.out, "> ")
		}
	}
}
