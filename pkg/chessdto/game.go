package chessdto

import "time"

// GameState is the presenter view of one chat game.
type GameState struct {
	GameID     string
	Label      string
	Room       string
	WhiteName  string
	BlackName  string
	HotSeat    bool
	Turn       string // "white" or "black"
	InCheck    bool
	Status     string
	Result     string
	Moves      []string
	LastMove   string
	Captured   string   // kind taken by LastMove, lower case
	BoardRows  []string // rank 8 first, one symbol per square
	BoardImage []byte
	UpdatedAt  time.Time
}

// MoveCount is the number of half-moves played.
func (s *GameState) MoveCount() int { return len(s.Moves) }

// Finished reports whether the game has ended.
func (s *GameState) Finished() bool { return s.Status != "" && s.Status != "ACTIVE" }
