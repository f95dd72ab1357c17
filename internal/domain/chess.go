package domain

import "time"

// GameRecord is a finished game as stored in the results table.
type GameRecord struct {
	ID           int64
	GameID       string
	Label        string
	Room         string
	WhiteID      string
	WhiteName    string
	BlackID      string
	BlackName    string
	Result       string // white, black or draw
	ResultMethod string // checkmate, stalemate, resignation
	Moves        []string
	PGN          string
	StartedAt    time.Time
	EndedAt      time.Time
	Duration     time.Duration
}

// PGNResult maps Result to the PGN result token.
func (r *GameRecord) PGNResult() string {
	switch r.Result {
	case "white":
		return "1-0"
	case "black":
		return "0-1"
	case "draw":
		return "1/2-1/2"
	default:
		return "*"
	}
}
