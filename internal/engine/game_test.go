package engine

import (
	"errors"
	"testing"
)

func play(t *testing.T, g *Game, moves ...string) {
	t.Helper()
	for _, mv := range moves {
		if err := g.PlayNotation(mv[:2], mv[2:]); err != nil {
			t.Fatalf("%s: %v", mv, err)
		}
	}
}

func gameFrom(t *testing.T, placement string, turn Color, opts ...Option) *Game {
	t.Helper()
	b, err := ParsePlacement(placement)
	if err != nil {
		t.Fatalf("ParsePlacement(%q): %v", placement, err)
	}
	return NewGame(append([]Option{WithBoard(b, turn)}, opts...)...)
}

func TestOpeningPawnPush(t *testing.T) {
	g := NewGame()
	if !g.AttemptMove(MustParseSquare("e2"), MustParseSquare("e4")) {
		t.Fatalf("e2e4 rejected")
	}
	if g.Turn() != Black {
		t.Fatalf("turn = %v, want Black", g.Turn())
	}
	p, ok := g.Board().PieceAt(MustParseSquare("e4"))
	if !ok || p.Kind != Pawn || p.Color != White || !p.Moved {
		t.Fatalf("e4 holds %+v", p)
	}
	if _, ok := g.Board().PieceAt(MustParseSquare("e2")); ok {
		t.Fatalf("e2 not vacated")
	}
	last, ok := g.LastMove()
	if !ok || last.String() != "e2e4" || !last.Captured.IsZero() {
		t.Fatalf("last move = %+v", last)
	}
}

func TestMovingOpponentPieceIsRejected(t *testing.T) {
	g := NewGame()
	before := g.Snapshot()
	err := g.PlayNotation("e7", "e5")
	if !errors.Is(err, ErrWrongTurn) || !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("err = %v, want ErrWrongTurn", err)
	}
	if g.Snapshot() != before || g.Turn() != White || g.MoveCount() != 0 {
		t.Fatalf("rejected move changed the game")
	}
}

func TestPawnDiagonalOntoEmptySquareIsRejected(t *testing.T) {
	g := NewGame()
	if err := g.PlayNotation("e2", "d3"); !errors.Is(err, ErrUnreachable) {
		t.Fatalf("err = %v, want ErrUnreachable", err)
	}
	if g.Turn() != White {
		t.Fatalf("turn changed after rejection")
	}
}

func TestFoolsMate(t *testing.T) {
	for _, sim := range []Simulation{SimulateClone, SimulateInPlace} {
		t.Run(sim.String(), func(t *testing.T) {
			g := NewGame(WithSimulation(sim))
			play(t, g, "f2f3", "e7e5", "g2g4")
			if g.Over() {
				t.Fatalf("game over too early: %v", g.State())
			}
			play(t, g, "d8h4")
			if g.State() != Checkmate {
				t.Fatalf("state = %v, want checkmate", g.State())
			}
			if w, ok := g.Winner(); !ok || w != Black {
				t.Fatalf("winner = %v,%v", w, ok)
			}
			if g.Result() != "Black wins by checkmate!" {
				t.Fatalf("result = %q", g.Result())
			}
			if !g.InCheck() {
				t.Fatalf("White should be in check")
			}
			if err := g.PlayNotation("a2", "a3"); !errors.Is(err, ErrGameOver) {
				t.Fatalf("move after mate: %v", err)
			}
		})
	}
}

func TestCheckmateDetectedAtConstruction(t *testing.T) {
	g := gameFrom(t, "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR", White)
	if g.State() != Checkmate {
		t.Fatalf("state = %v", g.State())
	}
	if w, ok := g.Winner(); !ok || w != Black {
		t.Fatalf("winner = %v,%v", w, ok)
	}
}

func TestPinnedPieceCannotLeaveTheLine(t *testing.T) {
	g := gameFrom(t, "k3r3/8/8/8/8/8/4R3/4K3", White)
	err := g.PlayNotation("e2", "d2")
	if !errors.Is(err, ErrExposesKing) {
		t.Fatalf("err = %v, want ErrExposesKing", err)
	}
	for _, to := range notations(g.LegalMoves(MustParseSquare("e2"))) {
		if to[0] != 'e' {
			t.Fatalf("pinned rook offered %s", to)
		}
	}
	if err := g.PlayNotation("e2", "e5"); err != nil {
		t.Fatalf("e2e5: %v", err)
	}
}

func TestCaptureRecordedOnMove(t *testing.T) {
	g := gameFrom(t, "k3r3/8/8/8/8/8/4R3/4K3", White)
	play(t, g, "e2e8")
	last, _ := g.LastMove()
	if last.Captured.Kind != Rook || last.Captured.Color != Black {
		t.Fatalf("captured = %+v", last.Captured)
	}
	// a7 and b7 stay open for the king.
	if !g.InCheck() || g.Over() {
		t.Fatalf("want Black in check with an escape, state %v", g.State())
	}
}

func TestStalemateAfterMove(t *testing.T) {
	g := gameFrom(t, "7k/4Q3/6K1/8/8/8/8/8", White)
	if g.Over() {
		t.Fatalf("position already terminal: %v", g.State())
	}
	play(t, g, "e7f7")
	if g.State() != Stalemate {
		t.Fatalf("state = %v, want stalemate", g.State())
	}
	if _, ok := g.Winner(); ok {
		t.Fatalf("stalemate reported a winner")
	}
	if g.Result() != "Stalemate - Draw!" {
		t.Fatalf("result = %q", g.Result())
	}
	if g.InCheck() {
		t.Fatalf("stalemated side is not in check")
	}
}

func TestStalemateAtConstruction(t *testing.T) {
	g := gameFrom(t, "7k/5Q2/6K1/8/8/8/8/8", Black)
	if g.State() != Stalemate {
		t.Fatalf("state = %v", g.State())
	}
	if !g.HasNoValidMoves(Black) || g.HasNoValidMoves(White) {
		t.Fatalf("HasNoValidMoves mismatch")
	}
}

func TestKinglessSideIsNeverInCheck(t *testing.T) {
	g := gameFrom(t, "4k3/8/8/8/8/8/8/R7", Black)
	if g.HasKing(White) {
		t.Fatalf("white has no king")
	}
	if g.IsKingInCheck(White) {
		t.Fatalf("missing king reported in check")
	}
	if g.Over() {
		t.Fatalf("state = %v", g.State())
	}
}

func TestInPlaceSimulationLosesCapturedPiece(t *testing.T) {
	const placement = "4k3/8/8/3p4/8/4N3/8/4K3"
	from, to := MustParseSquare("e3"), MustParseSquare("d5")

	g := gameFrom(t, placement, White, WithSimulation(SimulateInPlace))
	if g.WouldExposeKing(from, to, White) {
		t.Fatalf("knight capture does not expose the king")
	}
	b := g.Board()
	if _, ok := b.PieceAt(to); ok {
		t.Fatalf("in-place simulation should drop the captured pawn")
	}
	if n, ok := b.PieceAt(from); !ok || !n.Moved {
		t.Fatalf("in-place simulation should leave the knight marked moved, got %+v", n)
	}

	g = gameFrom(t, placement, White)
	before := g.Snapshot()
	if g.WouldExposeKing(from, to, White) {
		t.Fatalf("knight capture does not expose the king")
	}
	if g.Snapshot() != before {
		t.Fatalf("clone simulation mutated the board")
	}
}

func TestInPlaceSimulationCostsPawnDoubleStep(t *testing.T) {
	g := NewGame(WithSimulation(SimulateInPlace))
	g.LegalMoves(MustParseSquare("e2"))
	if err := g.PlayNotation("e2", "e4"); !errors.Is(err, ErrUnreachable) {
		t.Fatalf("err = %v, want ErrUnreachable after in-place probing", err)
	}

	g = NewGame()
	g.LegalMoves(MustParseSquare("e2"))
	play(t, g, "e2e4")
}

func TestLegalMovesOfEmptySquare(t *testing.T) {
	g := NewGame()
	if moves := g.LegalMoves(MustParseSquare("e4")); len(moves) != 0 {
		t.Fatalf("empty square moves = %v", moves)
	}
	got := notations(g.LegalMoves(MustParseSquare("g8")))
	if !equalStrings(got, []string{"f6", "h6"}) {
		t.Fatalf("g8 knight moves = %v", got)
	}
}

func TestResetRestoresStartingPosition(t *testing.T) {
	g := NewGame()
	play(t, g, "f2f3", "e7e5", "g2g4", "d8h4")
	g.Reset()
	if g.Over() || g.Turn() != White || g.MoveCount() != 0 || g.Result() != "" {
		t.Fatalf("reset left state %v turn %v moves %d", g.State(), g.Turn(), g.MoveCount())
	}
	if g.Board().Placement() != startPlacement {
		t.Fatalf("reset placement = %q", g.Board().Placement())
	}

	custom := gameFrom(t, "7k/4Q3/6K1/8/8/8/8/8", White)
	play(t, custom, "e7f7")
	custom.Reset()
	if custom.Board().Placement() != "7k/4Q3/6K1/8/8/8/8/8" || custom.Over() {
		t.Fatalf("reset did not restore the custom position")
	}
}

func TestPlayNotationRejectsMalformedSquares(t *testing.T) {
	g := NewGame()
	for _, pair := range [][2]string{{"e", "e4"}, {"e2", "44"}, {"", ""}} {
		if err := g.PlayNotation(pair[0], pair[1]); !errors.Is(err, ErrInvalidNotation) {
			t.Fatalf("PlayNotation(%q,%q) = %v", pair[0], pair[1], err)
		}
	}
	if err := g.PlayNotation("e2", "i9"); !errors.Is(err, ErrUnreachable) {
		t.Fatalf("off-board destination: %v", err)
	}
}

func TestParseSimulation(t *testing.T) {
	cases := map[string]Simulation{"": SimulateClone, "Clone": SimulateClone, "inplace": SimulateInPlace, " LEGACY ": SimulateInPlace}
	for in, want := range cases {
		got, err := ParseSimulation(in)
		if err != nil || got != want {
			t.Fatalf("ParseSimulation(%q) = %v,%v", in, got, err)
		}
	}
	if _, err := ParseSimulation("fast"); err == nil {
		t.Fatalf("unknown mode accepted")
	}
}
