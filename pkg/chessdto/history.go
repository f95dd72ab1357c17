package chessdto

import "time"

type HistoryEntry struct {
	GameID    string
	Label     string
	WhiteName string
	BlackName string
	Result    string
	Method    string
	MoveCount int
	EndedAt   time.Time
}
