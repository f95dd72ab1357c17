package chessdto

// MoveSummary describes one accepted move and the position after it.
type MoveSummary struct {
	State    *GameState
	Mover    string
	Move     string
	Captured string
	Finished bool
}
