package chesspresenter

import (
	"fmt"
	"strings"
	"testing"

	"github.com/park285/cheese-chess/internal/engine"
	"github.com/park285/cheese-chess/internal/msgcat"
	"github.com/park285/cheese-chess/internal/pvpchan"
	"github.com/park285/cheese-chess/internal/pvpchess"
	"github.com/park285/cheese-chess/internal/util"
	"github.com/park285/cheese-chess/pkg/chessdto"
)

type staticPrefix string

func (p staticPrefix) Prefix() string { return string(p) }

func newTestFormatter(t *testing.T) *Formatter {
	t.Helper()
	cat, err := msgcat.New("")
	if err != nil {
		t.Fatalf("msgcat.New: %v", err)
	}
	return NewFormatter(cat, staticPrefix("!"))
}

func activeState() *chessdto.GameState {
	return &chessdto.GameState{
		Label:     "brave-otter",
		WhiteName: "alice",
		BlackName: "bob",
		Turn:      "black",
		Status:    "ACTIVE",
		Moves:     []string{"e2e4"},
		LastMove:  "e2e4",
	}
}

func TestFormatterStart(t *testing.T) {
	f := newTestFormatter(t)
	got := f.Start(activeState())
	for _, want := range []string{"brave-otter", "White: alice", "Black: bob", "!chess e2 e4"} {
		if !strings.Contains(got, want) {
			t.Fatalf("start text missing %q:\n%s", want, got)
		}
	}
	hot := activeState()
	hot.HotSeat = true
	if got := f.Start(hot); !strings.Contains(got, "alice plays both sides") {
		t.Fatalf("hot-seat text: %s", got)
	}
}

func TestFormatterMove(t *testing.T) {
	f := newTestFormatter(t)
	state := activeState()
	state.InCheck = true
	state.Captured = "knight"
	got := f.Move(MoveSummaryOf(state, "alice"))
	want := "alice: e2e4 takes knight\nBlack is in check.\nBlack to move (bob)."
	if got != want {
		t.Fatalf("move text\n got %q\nwant %q", got, want)
	}

	mate := activeState()
	mate.Status = "CHECKMATE"
	mate.Result = "Black wins by checkmate!"
	got = f.Move(MoveSummaryOf(mate, "bob"))
	if !strings.Contains(got, "Black wins by checkmate! (bob)") {
		t.Fatalf("mate text: %s", got)
	}
}

func TestFormatterStatusAndMoves(t *testing.T) {
	f := newTestFormatter(t)
	got := f.Status(activeState())
	if !strings.Contains(got, "Moves played: 1 (last e2e4)") || !strings.Contains(got, "Black to move.") {
		t.Fatalf("status: %s", got)
	}
	if got := f.Moves("e2", []string{"e3", "e4"}); got != "e2: e3 e4" {
		t.Fatalf("moves: %q", got)
	}
	if got := f.Moves("e1", nil); got != "e1: no legal moves." {
		t.Fatalf("no moves: %q", got)
	}
}

func TestFormatterErrors(t *testing.T) {
	f := newTestFormatter(t)
	cases := map[error]string{
		fmt.Errorf("wrap: %w", engine.ErrExposesKing): "leave your king in check",
		engine.ErrInvalidNotation:                      "Use squares like e2",
		pvpchess.ErrNotYourTurn:                        "not your turn",
		pvpchess.ErrGameNotFound:                       "`!chess start`",
		engine.ErrUnreachable:                          "from e2 to e5",
		fmt.Errorf("boom"):                             "went wrong",
	}
	for err, want := range cases {
		got := f.Error(ToDomainError(err, "e2", "e5"))
		if !strings.Contains(got, want) {
			t.Fatalf("Error(%v) = %q, want substring %q", err, got, want)
		}
	}
	for _, err := range []error{pvpchess.ErrConcurrentUpdate, fmt.Errorf("join: %w", pvpchan.ErrChallengeClaimed)} {
		if de := ToDomainError(err, "", ""); !de.Retryable || de.Code != chessdto.CodeConflict {
			t.Fatalf("ToDomainError(%v) = %+v", err, de)
		}
	}
	if de := ToDomainError(pvpchan.ErrSelfJoin, "", ""); de.Code != chessdto.CodeSelfJoin || de.Retryable {
		t.Fatalf("self join = %+v", de)
	}
	if got := f.Error(chessdto.DomainError{Code: "unknown"}); !strings.Contains(got, "went wrong") {
		t.Fatalf("unknown code: %q", got)
	}
}

func TestFormatterHistory(t *testing.T) {
	f := newTestFormatter(t)
	if got := f.History(nil); got != "No finished games yet." {
		t.Fatalf("empty history: %q", got)
	}
	entries := HistoryEntries([]*pvpchess.GameSummary{
		{Label: "a", WhiteName: "alice", BlackName: "bob", Result: "black", Method: "checkmate", MoveCount: 4},
		nil,
		{Label: "b", WhiteName: "bob", BlackName: "alice", Result: "draw", Method: "stalemate", MoveCount: 40},
	})
	if len(entries) != 2 {
		t.Fatalf("entries = %d", len(entries))
	}
	got := f.History(entries)
	if !strings.Contains(got, "1. a alice vs bob 0-1 checkmate in 4 moves") || !strings.Contains(got, "1/2-1/2") {
		t.Fatalf("history: %s", got)
	}
}

func TestFormatterHelpFolds(t *testing.T) {
	f := newTestFormatter(t)
	got := f.Help()
	if !strings.HasPrefix(got, "♞ Chess commands"+util.ZeroWidthSpace) {
		t.Fatalf("help not folded: %q", got[:40])
	}
	if !strings.Contains(got, "!chess moves <square>") {
		t.Fatalf("help lacks prefix: %s", got)
	}
}
