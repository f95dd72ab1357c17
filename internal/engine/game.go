package engine

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrIllegalMove is wrapped by every move rejection.
	ErrIllegalMove = errors.New("illegal move")

	ErrGameOver    = fmt.Errorf("%w: game is over", ErrIllegalMove)
	ErrNoPiece     = fmt.Errorf("%w: no piece on source square", ErrIllegalMove)
	ErrWrongTurn   = fmt.Errorf("%w: piece belongs to the side not on move", ErrIllegalMove)
	ErrUnreachable = fmt.Errorf("%w: piece cannot reach destination", ErrIllegalMove)
	ErrExposesKing = fmt.Errorf("%w: move leaves own king in check", ErrIllegalMove)
)

// State is the game-end classification.
type State uint8

const (
	InProgress State = iota
	Checkmate
	Stalemate
)

func (s State) String() string {
	switch s {
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	default:
		return "in_progress"
	}
}

// Simulation selects how king-exposure checks try a move.
type Simulation uint8

const (
	// SimulateClone plays the candidate move on a copy of the board.
	SimulateClone Simulation = iota
	// SimulateInPlace moves the piece on the live board and moves it back.
	// The reverse move does not restore a captured piece and leaves the
	// mover's Moved flag set.
	SimulateInPlace
)

func (s Simulation) String() string {
	if s == SimulateInPlace {
		return "inplace"
	}
	return "clone"
}

// ParseSimulation maps "clone" and "inplace" (case-insensitive); empty means clone.
func ParseSimulation(v string) (Simulation, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "clone", "copy":
		return SimulateClone, nil
	case "inplace", "in-place", "legacy":
		return SimulateInPlace, nil
	default:
		return SimulateClone, fmt.Errorf("unknown simulation mode %q", v)
	}
}

// Move is an accepted move as recorded by the game.
type Move struct {
	From     Square
	To       Square
	Piece    Piece
	Captured Piece
}

func (m Move) String() string {
	return m.From.Notation() + m.To.Notation()
}

// Game drives turn order, legality filtering and terminal-state detection
// for one board. It is not safe for concurrent use.
type Game struct {
	board  *Board
	turn   Color
	state  State
	winner Color
	result string
	moves  []Move
	sim    Simulation

	initial     *Board
	initialTurn Color
}

type Option func(*Game)

// WithBoard starts the game from a custom position with turn to move.
func WithBoard(b *Board, turn Color) Option {
	return func(g *Game) {
		if b == nil {
			return
		}
		g.initial = b.Clone()
		g.initialTurn = turn
	}
}

func WithSimulation(s Simulation) Option {
	return func(g *Game) { g.sim = s }
}

// NewGame starts a game from the standard layout with White to move unless
// WithBoard says otherwise. A custom position is classified immediately.
func NewGame(opts ...Option) *Game {
	g := &Game{}
	for _, opt := range opts {
		opt(g)
	}
	g.Reset()
	return g
}

// Reset discards the current board and restores the starting position.
// A custom starting position is classified again.
func (g *Game) Reset() {
	if g.initial != nil {
		g.board = g.initial.Clone()
		g.turn = g.initialTurn
	} else {
		g.board = NewBoard()
		g.turn = White
	}
	g.state = InProgress
	g.winner = White
	g.result = ""
	g.moves = nil
	if g.initial != nil {
		g.checkGameEnd()
	}
}

func (g *Game) Turn() Color            { return g.turn }
func (g *Game) State() State           { return g.state }
func (g *Game) Over() bool             { return g.state != InProgress }
func (g *Game) Result() string         { return g.result }
func (g *Game) Simulation() Simulation { return g.sim }
func (g *Game) Snapshot() Grid         { return g.board.Snapshot() }
func (g *Game) MoveCount() int         { return len(g.moves) }

// Winner reports the winning color; ok is false unless the game ended in checkmate.
func (g *Game) Winner() (Color, bool) {
	return g.winner, g.state == Checkmate
}

// Board returns a copy of the live board.
func (g *Game) Board() *Board { return g.board.Clone() }

func (g *Game) Moves() []Move {
	return append([]Move(nil), g.moves...)
}

func (g *Game) LastMove() (Move, bool) {
	if len(g.moves) == 0 {
		return Move{}, false
	}
	return g.moves[len(g.moves)-1], true
}

// AttemptMove plays from→to for the side to move and reports whether it was
// accepted. A rejected move leaves the game unchanged.
func (g *Game) AttemptMove(from, to Square) bool {
	return g.Play(from, to) == nil
}

// Play is AttemptMove with the rejection reason. Every error wraps ErrIllegalMove.
func (g *Game) Play(from, to Square) error {
	if g.Over() {
		return ErrGameOver
	}
	piece, ok := g.board.PieceAt(from)
	if !ok {
		return ErrNoPiece
	}
	if piece.Color != g.turn {
		return ErrWrongTurn
	}
	if !containsSquare(piece.PseudoLegalMoves(g.board.Snapshot()), to) {
		return ErrUnreachable
	}
	captured, _ := g.board.PieceAt(to)
	if g.WouldExposeKing(from, to, piece.Color) {
		return ErrExposesKing
	}

	g.board.Relocate(from, to)
	g.moves = append(g.moves, Move{From: from, To: to, Piece: piece, Captured: captured})
	g.turn = g.turn.Opponent()
	g.checkGameEnd()
	return nil
}

// PlayNotation parses both squares before touching the game, so a malformed
// coordinate surfaces ErrInvalidNotation with no state change.
func (g *Game) PlayNotation(from, to string) error {
	f, err := ParseSquare(strings.TrimSpace(from))
	if err != nil {
		return err
	}
	t, err := ParseSquare(strings.TrimSpace(to))
	if err != nil {
		return err
	}
	return g.Play(f, t)
}

// LegalMoves lists the legal destinations of the piece on from, regardless
// of whose turn it is. Empty for an empty square.
func (g *Game) LegalMoves(from Square) []Square {
	piece, ok := g.board.PieceAt(from)
	if !ok {
		return nil
	}
	var legal []Square
	for _, to := range piece.PseudoLegalMoves(g.board.Snapshot()) {
		if !g.WouldExposeKing(from, to, piece.Color) {
			legal = append(legal, to)
		}
	}
	return legal
}

// WouldExposeKing reports whether playing from→to leaves color's king attacked.
func (g *Game) WouldExposeKing(from, to Square, color Color) bool {
	if g.sim == SimulateInPlace {
		g.board.Relocate(from, to)
		check := kingInCheck(g.board, color)
		g.board.Relocate(to, from)
		return check
	}
	trial := g.board.Clone()
	trial.Relocate(from, to)
	return kingInCheck(trial, color)
}

// IsKingInCheck reports whether any opposing piece attacks color's king.
// A board without that king counts as not in check.
func (g *Game) IsKingInCheck(color Color) bool {
	return kingInCheck(g.board, color)
}

// InCheck reports whether the side to move is in check.
func (g *Game) InCheck() bool {
	return g.IsKingInCheck(g.turn)
}

// HasKing reports whether color still has a king on the board.
func (g *Game) HasKing(color Color) bool {
	_, ok := g.board.FindKing(color)
	return ok
}

func kingInCheck(b *Board, color Color) bool {
	kingSq, ok := b.FindKing(color)
	if !ok {
		return false
	}
	grid := b.Snapshot()
	opponent := color.Opponent()
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			p := grid[row][col]
			if p.IsZero() || p.Color != opponent {
				continue
			}
			if containsSquare(p.PseudoLegalMoves(grid), kingSq) {
				return true
			}
		}
	}
	return false
}

// HasNoValidMoves reports whether color has no legal move at all.
func (g *Game) HasNoValidMoves(color Color) bool {
	grid := g.board.Snapshot()
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			p := grid[row][col]
			if p.IsZero() || p.Color != color {
				continue
			}
			for _, to := range p.PseudoLegalMoves(grid) {
				if !g.WouldExposeKing(p.Square, to, color) {
					return false
				}
			}
		}
	}
	return true
}

func (g *Game) checkGameEnd() {
	inCheck := g.IsKingInCheck(g.turn)
	if !g.HasNoValidMoves(g.turn) {
		return
	}
	if inCheck {
		g.state = Checkmate
		g.winner = g.turn.Opponent()
		g.result = g.winner.String() + " wins by checkmate!"
		return
	}
	g.state = Stalemate
	g.result = "Stalemate - Draw!"
}
