package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/park285/cheese-chess/internal/engine"
	"github.com/park285/cheese-chess/internal/termview"
)

type viewOptions struct {
	unicode bool
	color   bool
	flipped bool
}

type session struct {
	game *engine.Game
	view viewOptions
	log  *zap.Logger
}

func newSession(g *engine.Game, view viewOptions, log *zap.Logger) *session {
	if log == nil {
		log = zap.NewNop()
	}
	return &session{game: g, view: view, log: log}
}

const helpText = `commands:
  e2 e4 | e2e4   move a piece
  moves e2       show legal destinations
  board          redraw the board
  fen            print the piece placement
  new            restart from the starting position
  quit           leave`

var errQuit = errors.New("quit")

// run reads commands from in until EOF or quit.
func (s *session) run(in io.Reader, out io.Writer) error {
	s.draw(out, nil)
	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !sc.Scan() {
			fmt.Fprintln(out)
			return sc.Err()
		}
		if err := s.exec(out, sc.Text()); errors.Is(err, errQuit) {
			return nil
		}
	}
}

func (s *session) exec(out io.Writer, line string) error {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return nil
	}
	switch fields[0] {
	case "quit", "exit", "q":
		return errQuit
	case "help", "?":
		fmt.Fprintln(out, helpText)
	case "board":
		s.draw(out, nil)
	case "fen":
		fmt.Fprintln(out, s.game.Board().Placement())
	case "new":
		s.game.Reset()
		s.log.Info("cli_reset")
		s.draw(out, nil)
	case "moves":
		if len(fields) != 2 {
			fmt.Fprintln(out, "usage: moves <square>")
			return nil
		}
		from, err := engine.ParseSquare(fields[1])
		if err != nil || !from.Valid() {
			fmt.Fprintf(out, "not a square: %s\n", fields[1])
			return nil
		}
		targets := s.game.LegalMoves(from)
		s.draw(out, targets)
		if len(targets) == 0 {
			fmt.Fprintf(out, "%s: no legal moves\n", from)
		}
	default:
		from, to, ok := splitMove(fields)
		if !ok {
			fmt.Fprintf(out, "unknown command %q, try help\n", line)
			return nil
		}
		if err := s.game.PlayNotation(from, to); err != nil {
			s.log.Debug("cli_move_rejected", zap.String("from", from), zap.String("to", to), zap.Error(err))
			fmt.Fprintf(out, "rejected: %v\n", err)
			return nil
		}
		s.log.Info("cli_move", zap.String("move", from+to), zap.String("state", s.game.State().String()))
		s.draw(out, nil)
	}
	return nil
}

func splitMove(fields []string) (string, string, bool) {
	switch {
	case len(fields) == 2 && len(fields[0]) == 2 && len(fields[1]) == 2:
		return fields[0], fields[1], true
	case len(fields) == 1 && len(fields[0]) == 4:
		return fields[0][:2], fields[0][2:], true
	}
	return "", "", false
}

func (s *session) draw(out io.Writer, targets []engine.Square) {
	opts := termview.Options{
		Unicode: s.view.unicode,
		Color:   s.view.color,
		Flipped: s.view.flipped,
		Targets: targets,
	}
	if last, ok := s.game.LastMove(); ok {
		opts.LastMove = []engine.Square{last.From, last.To}
	}
	if s.game.InCheck() {
		if sq, ok := s.game.Board().FindKing(s.game.Turn()); ok {
			opts.CheckedOn = &sq
		}
	}
	fmt.Fprint(out, termview.Render(s.game.Snapshot(), opts))
	fmt.Fprintln(out, termview.Status(s.game))
}
