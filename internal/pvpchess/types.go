package pvpchess

import (
	"errors"
	"time"

	"github.com/park285/cheese-chess/internal/engine"
)

var (
	ErrGameNotFound      = errors.New("no active game")
	ErrNotParticipant    = errors.New("user is not playing this game")
	ErrNotYourTurn       = errors.New("not your turn")
	ErrGameInProgress    = errors.New("a game is already in progress in this room")
	ErrConcurrentUpdate  = errors.New("game changed concurrently, retry")
	ErrInvalidPlayers    = errors.New("invalid participants")
	ErrManagerNotReady   = errors.New("pvp manager not initialized")
	ErrDuplicateGame     = errors.New("game result already stored")
	ErrCorruptMoveRecord = errors.New("stored move list does not replay")
)

// Color identifies chess side.
type Color string

const (
	White Color = "white"
	Black Color = "black"
)

func colorOf(c engine.Color) Color {
	if c == engine.White {
		return White
	}
	return Black
}

// Status represents a PvP game lifecycle state.
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusCheckmate Status = "CHECKMATE"
	StatusStalemate Status = "STALEMATE"
	StatusResigned  Status = "RESIGNED"
	StatusAborted   Status = "ABORTED"
)

// Final reports whether the status ends the game.
func (s Status) Final() bool { return s != StatusActive }

type Player struct {
	ID   string
	Name string
}

// Game is the persisted state of a PvP match. The board is never stored;
// it is rebuilt by replaying Moves from the start position.
type Game struct {
	ID          string    `json:"id"`
	Label       string    `json:"label"`
	Room        string    `json:"room"`
	WhiteID     string    `json:"white_id"`
	WhiteName   string    `json:"white_name"`
	BlackID     string    `json:"black_id"`
	BlackName   string    `json:"black_name"`
	Moves       []string  `json:"moves"`
	Simulation  string    `json:"simulation"`
	Turn        Color     `json:"turn"`
	Status      Status    `json:"status"`
	InCheck     bool      `json:"in_check"`
	Winner      string    `json:"winner,omitempty"`
	WinnerColor Color     `json:"winner_color,omitempty"`
	Result      string    `json:"result,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// HotSeat reports whether one user plays both colours.
func (g *Game) HotSeat() bool { return g.WhiteID == g.BlackID }

func (g *Game) colorOf(userID string) (Color, bool) {
	switch userID {
	case g.WhiteID:
		if g.HotSeat() {
			return g.Turn, true
		}
		return White, true
	case g.BlackID:
		return Black, true
	}
	return "", false
}

// outcome is the result token used for persistence: white, black or draw.
func (g *Game) outcome() string {
	if g.Status == StatusStalemate {
		return "draw"
	}
	return string(g.WinnerColor)
}
