package chessdto

// Challenge is an open invitation waiting for an opponent.
type Challenge struct {
	Code        string
	CreatorName string
	Color       string // white, black or random: the creator's side
}
