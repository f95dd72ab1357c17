package chesspresenter

import (
	"errors"

	"github.com/park285/cheese-chess/internal/engine"
	"github.com/park285/cheese-chess/internal/pvpchan"
	"github.com/park285/cheese-chess/internal/pvpchess"
	"github.com/park285/cheese-chess/pkg/chessdto"
)

// ToDomainError classifies a service error. from and to are the squares of
// the attempted move, empty for other commands.
func ToDomainError(err error, from, to string) chessdto.DomainError {
	de := chessdto.DomainError{Code: chessdto.CodeInternal, From: from, To: to}
	if err == nil {
		return de
	}
	de.Message = err.Error()
	switch {
	case errors.Is(err, engine.ErrGameOver):
		de.Code = chessdto.CodeGameOver
	case errors.Is(err, engine.ErrNoPiece):
		de.Code = chessdto.CodeNoPiece
	case errors.Is(err, engine.ErrWrongTurn):
		de.Code = chessdto.CodeWrongPiece
	case errors.Is(err, engine.ErrUnreachable):
		de.Code = chessdto.CodeUnreachable
	case errors.Is(err, engine.ErrExposesKing):
		de.Code = chessdto.CodeExposesKing
	case errors.Is(err, engine.ErrIllegalMove):
		de.Code = chessdto.CodeIllegalMove
	case errors.Is(err, engine.ErrInvalidNotation):
		de.Code = chessdto.CodeBadNotation
	case errors.Is(err, pvpchess.ErrNotYourTurn):
		de.Code = chessdto.CodeNotYourTurn
	case errors.Is(err, pvpchess.ErrNotParticipant):
		de.Code = chessdto.CodeNotParticipant
	case errors.Is(err, pvpchess.ErrGameNotFound):
		de.Code = chessdto.CodeNoGame
	case errors.Is(err, pvpchess.ErrGameInProgress):
		de.Code = chessdto.CodeGameInProgress
	case errors.Is(err, pvpchess.ErrConcurrentUpdate):
		de.Code = chessdto.CodeConflict
		de.Retryable = true
	case errors.Is(err, pvpchan.ErrNoChallenge):
		de.Code = chessdto.CodeNoChallenge
	case errors.Is(err, pvpchan.ErrChallengeExists):
		de.Code = chessdto.CodeChallengeOpen
	case errors.Is(err, pvpchan.ErrSelfJoin):
		de.Code = chessdto.CodeSelfJoin
	case errors.Is(err, pvpchan.ErrNotChallenger):
		de.Code = chessdto.CodeNotChallenger
	case errors.Is(err, pvpchan.ErrChallengeClaimed):
		de.Code = chessdto.CodeConflict
		de.Retryable = true
	}
	return de
}

func ChallengeOf(ch *pvpchan.Challenge) chessdto.Challenge {
	if ch == nil {
		return chessdto.Challenge{}
	}
	return chessdto.Challenge{Code: ch.Code, CreatorName: ch.CreatorName, Color: string(ch.Color)}
}

func HistoryEntries(list []*pvpchess.GameSummary) []chessdto.HistoryEntry {
	out := make([]chessdto.HistoryEntry, 0, len(list))
	for _, s := range list {
		if s == nil {
			continue
		}
		out = append(out, chessdto.HistoryEntry{
			GameID:    s.GameID,
			Label:     s.Label,
			WhiteName: s.WhiteName,
			BlackName: s.BlackName,
			Result:    s.Result,
			Method:    s.Method,
			MoveCount: s.MoveCount,
			EndedAt:   s.EndedAt,
		})
	}
	return out
}

// MoveSummaryOf describes the last move of state as played by mover.
func MoveSummaryOf(state *chessdto.GameState, mover string) *chessdto.MoveSummary {
	if state == nil {
		return nil
	}
	return &chessdto.MoveSummary{
		State:    state,
		Mover:    mover,
		Move:     state.LastMove,
		Captured: state.Captured,
		Finished: state.Finished(),
	}
}

func SquareNotations(squares []engine.Square) []string {
	out := make([]string, 0, len(squares))
	for _, sq := range squares {
		out = append(out, sq.Notation())
	}
	return out
}
