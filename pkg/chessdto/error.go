package chessdto

const (
	CodeIllegalMove    = "illegal_move"
	CodeGameOver       = "game_over"
	CodeNoPiece        = "no_piece"
	CodeWrongPiece     = "wrong_piece"
	CodeUnreachable    = "unreachable"
	CodeExposesKing    = "exposes_king"
	CodeBadNotation    = "bad_notation"
	CodeNotYourTurn    = "not_your_turn"
	CodeNotParticipant = "not_participant"
	CodeNoGame         = "no_game"
	CodeGameInProgress = "game_in_progress"
	CodeConflict       = "conflict"
	CodeNoChallenge    = "no_challenge"
	CodeChallengeOpen  = "challenge_open"
	CodeSelfJoin       = "self_join"
	CodeNotChallenger  = "not_challenger"
	CodeInternal       = "internal"
)

// DomainError is the user-facing form of a service failure. From and To carry
// the squares of a rejected move when there was one.
type DomainError struct {
	Code      string
	Message   string
	From      string
	To        string
	Retryable bool
}

func (e DomainError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Code != "" {
		return e.Code
	}
	return "chess service error"
}
