package engine

import (
	"errors"
	"testing"
)

const startPlacement = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR"

func TestNewBoardLayout(t *testing.T) {
	b := NewBoard()
	if b.Count(White) != 16 || b.Count(Black) != 16 {
		t.Fatalf("piece counts white=%d black=%d", b.Count(White), b.Count(Black))
	}
	if got := b.Placement(); got != startPlacement {
		t.Fatalf("placement = %q", got)
	}
	for _, p := range append(b.Pieces(White), b.Pieces(Black)...) {
		if p.Moved {
			t.Fatalf("%v on %v starts moved", p.Kind, p.Square)
		}
		if at, ok := b.PieceAt(p.Square); !ok || at != p {
			t.Fatalf("piece square %v does not match its cell", p.Square)
		}
	}
}

func TestPieceAtInvalidAndEmpty(t *testing.T) {
	b := NewBoard()
	if _, ok := b.PieceAt(NewSquare(-1, 3)); ok {
		t.Fatalf("invalid square returned a piece")
	}
	if _, ok := b.PieceAt(sq(t, "e4")); ok {
		t.Fatalf("empty square returned a piece")
	}
}

func TestRelocateRejectsWithoutMutation(t *testing.T) {
	b := NewBoard()
	before := b.Snapshot()
	if b.Relocate(sq(t, "e4"), sq(t, "e5")) {
		t.Fatalf("relocate from empty square succeeded")
	}
	if b.Relocate(sq(t, "e2"), NewSquare(8, 4)) {
		t.Fatalf("relocate to invalid square succeeded")
	}
	if b.Relocate(NewSquare(9, 9), sq(t, "e4")) {
		t.Fatalf("relocate from invalid square succeeded")
	}
	if b.Snapshot() != before {
		t.Fatalf("board mutated by rejected relocation")
	}
}

func TestRelocateOverwritesTarget(t *testing.T) {
	b := NewBoard()
	if !b.Relocate(sq(t, "d1"), sq(t, "d7")) {
		t.Fatalf("relocate failed")
	}
	p, ok := b.PieceAt(sq(t, "d7"))
	if !ok || p.Kind != Queen || p.Color != White || !p.Moved || p.Square != sq(t, "d7") {
		t.Fatalf("unexpected piece on d7: %+v", p)
	}
	if _, ok := b.PieceAt(sq(t, "d1")); ok {
		t.Fatalf("source square not cleared")
	}
	if b.Count(Black) != 15 {
		t.Fatalf("captured pawn should be gone, black count %d", b.Count(Black))
	}
}

func TestFindKingFollowsRelocations(t *testing.T) {
	b := NewBoard()
	path := []string{"e1", "e2", "e3", "f4", "g5"}
	b.Remove(sq(t, "e2"))
	for i := 1; i < len(path); i++ {
		if !b.Relocate(sq(t, path[i-1]), sq(t, path[i])) {
			t.Fatalf("relocate %s->%s failed", path[i-1], path[i])
		}
		got, ok := b.FindKing(White)
		if !ok || got != sq(t, path[i]) {
			t.Fatalf("FindKing = %v,%v want %s", got, ok, path[i])
		}
	}
	if got, ok := b.FindKing(Black); !ok || got != sq(t, "e8") {
		t.Fatalf("black king = %v,%v", got, ok)
	}

	b.Remove(sq(t, "g5"))
	if _, ok := b.FindKing(White); ok {
		t.Fatalf("FindKing found a removed king")
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	b := NewBoard()
	snap := b.Snapshot()
	b.Relocate(sq(t, "e2"), sq(t, "e4"))
	if _, ok := snap.At(sq(t, "e4")); ok {
		t.Fatalf("snapshot observed a later relocation")
	}
	if p, ok := snap.At(sq(t, "e2")); !ok || p.Kind != Pawn {
		t.Fatalf("snapshot lost its pawn")
	}

	c := b.Clone()
	c.Remove(sq(t, "e4"))
	if _, ok := b.PieceAt(sq(t, "e4")); !ok {
		t.Fatalf("clone shares cells with original")
	}
}

func TestPlacementRoundTrip(t *testing.T) {
	for _, text := range []string{
		startPlacement,
		"8/8/8/8/8/8/8/8",
		"rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR",
		"7k/5Q2/6K1/8/8/8/8/8",
	} {
		b, err := ParsePlacement(text)
		if err != nil {
			t.Fatalf("ParsePlacement(%q): %v", text, err)
		}
		if got := b.Placement(); got != text {
			t.Fatalf("round trip %q -> %q", text, got)
		}
	}
}

func TestParsePlacementMarksAdvancedPawnsMoved(t *testing.T) {
	b, err := ParsePlacement(startPlacement + " w - - 0 1")
	if err != nil {
		t.Fatalf("ParsePlacement: %v", err)
	}
	if p, _ := b.PieceAt(sq(t, "e2")); p.Moved {
		t.Fatalf("home pawn marked moved")
	}
	b, _ = ParsePlacement("4k3/8/8/8/4P3/8/8/4K3")
	if p, _ := b.PieceAt(sq(t, "e4")); !p.Moved {
		t.Fatalf("advanced pawn should be marked moved")
	}
}

func TestParsePlacementErrors(t *testing.T) {
	for _, text := range []string{
		"",
		"8/8/8/8/8/8/8",
		"9/8/8/8/8/8/8/8",
		"8/8/8/8/8/8/8/7",
		"8/8/8/8/8/8/8/x7",
		"ppppppppp/8/8/8/8/8/8/8",
	} {
		if _, err := ParsePlacement(text); !errors.Is(err, ErrInvalidPlacement) {
			t.Fatalf("ParsePlacement(%q) err = %v", text, err)
		}
	}
}

func TestBoardString(t *testing.T) {
	b := NewBoard()
	s := b.String()
	if len(s) == 0 || s[:17] != "  a b c d e f g h" {
		t.Fatalf("unexpected board diagram header: %q", s)
	}
}
