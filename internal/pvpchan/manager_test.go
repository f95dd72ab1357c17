package pvpchan

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"

	"github.com/park285/cheese-chess/internal/pvpchess"
)

var (
	alice = pvpchess.Player{ID: "u1", Name: "alice"}
	bob   = pvpchess.Player{ID: "u2", Name: "bob"}
	carol = pvpchess.Player{ID: "u3", Name: "carol"}
)

func newTestManager(t *testing.T) (*Manager, *pvpchess.Manager, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(func() { mr.Close() })
	games, err := pvpchess.NewManager(fmt.Sprintf("redis://%s/0", mr.Addr()))
	if err != nil {
		t.Fatalf("pvpchess.NewManager: %v", err)
	}
	t.Cleanup(func() { _ = games.Close() })
	return NewManager(games.Redis(), games, time.Minute), games, mr
}

func TestOpenAndJoinStartsGame(t *testing.T) {
	m, games, _ := newTestManager(t)
	ctx := context.Background()

	ch, err := m.Open(ctx, "room", alice, ColorBlack)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if len(ch.Code) != 9 || ch.State != StateOpen || ch.CreatorID != alice.ID {
		t.Fatalf("challenge %+v", ch)
	}
	if _, err := m.Open(ctx, "room", bob, ColorRandom); !errors.Is(err, ErrChallengeExists) {
		t.Fatalf("second open: %v", err)
	}
	pending, err := m.Pending(ctx, "room")
	if err != nil || pending.Code != ch.Code {
		t.Fatalf("Pending = %+v, %v", pending, err)
	}

	if _, err := m.Join(ctx, "room", "", alice); !errors.Is(err, ErrSelfJoin) {
		t.Fatalf("self join: %v", err)
	}
	g, err := m.Join(ctx, "room", "", bob)
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if g.WhiteID != bob.ID || g.BlackID != alice.ID {
		t.Fatalf("colours %+v", g)
	}
	if _, err := games.ActiveGame(ctx, "room"); err != nil {
		t.Fatalf("ActiveGame: %v", err)
	}
	if _, err := m.Pending(ctx, "room"); !errors.Is(err, ErrNoChallenge) {
		t.Fatalf("challenge still pending: %v", err)
	}
	if _, err := m.Join(ctx, "room", ch.Code, carol); !errors.Is(err, ErrNoChallenge) {
		t.Fatalf("join after start: %v", err)
	}
	if _, err := m.Open(ctx, "room", carol, ColorWhite); !errors.Is(err, pvpchess.ErrGameInProgress) {
		t.Fatalf("open during game: %v", err)
	}
}

func TestJoinByCodeIsRoomScoped(t *testing.T) {
	m, _, _ := newTestManager(t)
	ctx := context.Background()
	ch, err := m.Open(ctx, "a", alice, ColorWhite)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := m.Join(ctx, "b", ch.Code, bob); !errors.Is(err, ErrNoChallenge) {
		t.Fatalf("cross-room join: %v", err)
	}
	g, err := m.Join(ctx, "a", " "+strings.ToLower(ch.Code)+" ", bob)
	if err != nil {
		t.Fatalf("Join by code: %v", err)
	}
	if g.WhiteID != alice.ID {
		t.Fatalf("creator asked for white: %+v", g)
	}
}

func TestCancel(t *testing.T) {
	m, _, _ := newTestManager(t)
	ctx := context.Background()
	if _, err := m.Cancel(ctx, "room", alice.ID); !errors.Is(err, ErrNoChallenge) {
		t.Fatalf("cancel nothing: %v", err)
	}
	if _, err := m.Open(ctx, "room", alice, ColorRandom); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := m.Cancel(ctx, "room", bob.ID); !errors.Is(err, ErrNotChallenger) {
		t.Fatalf("cancel by other: %v", err)
	}
	if _, err := m.Cancel(ctx, "room", alice.ID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if _, err := m.Open(ctx, "room", bob, ColorRandom); err != nil {
		t.Fatalf("reopen after cancel: %v", err)
	}
}

func TestChallengeExpires(t *testing.T) {
	m, _, mr := newTestManager(t)
	ctx := context.Background()
	if _, err := m.Open(ctx, "room", alice, ColorWhite); err != nil {
		t.Fatalf("Open: %v", err)
	}
	mr.FastForward(2 * time.Minute)
	if _, err := m.Join(ctx, "room", "", bob); !errors.Is(err, ErrNoChallenge) {
		t.Fatalf("expired challenge: %v", err)
	}
	if _, err := m.Open(ctx, "room", bob, ColorWhite); err != nil {
		t.Fatalf("open after expiry: %v", err)
	}
}

func TestParseColorChoice(t *testing.T) {
	cases := map[string]ColorChoice{"white": ColorWhite, "b": ColorBlack, "": ColorRandom, "x": ColorRandom}
	for in, want := range cases {
		if got := ParseColorChoice(in); got != want {
			t.Fatalf("ParseColorChoice(%q) = %q", in, got)
		}
	}
}

func TestJoinKeepsChallengeWhenRoomIsBusy(t *testing.T) {
	m, games, _ := newTestManager(t)
	ctx := context.Background()
	ch, err := m.Open(ctx, "room", alice, ColorWhite)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := games.CreateGame(ctx, "room", carol, carol); err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	if _, err := m.Join(ctx, "room", "", bob); !errors.Is(err, pvpchess.ErrGameInProgress) {
		t.Fatalf("join into busy room: %v", err)
	}
	pending, err := m.Pending(ctx, "room")
	if err != nil || pending.Code != ch.Code || pending.State != StateOpen {
		t.Fatalf("Pending = %+v, %v", pending, err)
	}
}

func TestJoinRestoresChallengeWhenStartFails(t *testing.T) {
	m, _, _ := newTestManager(t)
	ctx := context.Background()
	ch, err := m.Open(ctx, "room", alice, ColorWhite)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	realStart := m.start
	m.start = func(context.Context, string, pvpchess.Player, pvpchess.Player) (*pvpchess.Game, error) {
		return nil, pvpchess.ErrGameInProgress
	}
	if _, err := m.Join(ctx, "room", "", bob); !errors.Is(err, pvpchess.ErrGameInProgress) {
		t.Fatalf("Join err = %v", err)
	}
	pending, err := m.Pending(ctx, "room")
	if err != nil || pending.Code != ch.Code || pending.State != StateOpen {
		t.Fatalf("challenge not restored: %+v, %v", pending, err)
	}

	m.start = realStart
	g, err := m.Join(ctx, "room", "", bob)
	if err != nil {
		t.Fatalf("Join after restore: %v", err)
	}
	if g.WhiteID != alice.ID || g.BlackID != bob.ID {
		t.Fatalf("colours %+v", g)
	}
}

func TestJoinRejectsClaimedChallenge(t *testing.T) {
	m, _, _ := newTestManager(t)
	ctx := context.Background()
	ch, err := m.Open(ctx, "room", alice, ColorWhite)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	ch.State = StateClaimed
	if err := m.store.Save(ctx, ch); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := m.Join(ctx, "room", ch.Code, bob); !errors.Is(err, ErrChallengeClaimed) {
		t.Fatalf("join claimed: %v", err)
	}
}
