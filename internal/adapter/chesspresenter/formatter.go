package chesspresenter

import (
	"fmt"
	"strings"

	"github.com/park285/cheese-chess/internal/msgcat"
	"github.com/park285/cheese-chess/internal/util"
	"github.com/park285/cheese-chess/pkg/chessdto"
)

// PrefixProvider exposes the command prefix shown in help texts.
type PrefixProvider interface {
	Prefix() string
}

// Formatter renders chess DTOs into chat text using the message catalog.
type Formatter struct {
	catalog        *msgcat.Catalog
	prefixProvider PrefixProvider
}

func NewFormatter(catalog *msgcat.Catalog, provider PrefixProvider) *Formatter {
	return &Formatter{catalog: catalog, prefixProvider: provider}
}

func (f *Formatter) Prefix() string {
	if f == nil || f.prefixProvider == nil {
		return ""
	}
	return strings.TrimSpace(f.prefixProvider.Prefix())
}

func (f *Formatter) text(key string, data map[string]any) string {
	if data == nil {
		data = map[string]any{}
	}
	data["Prefix"] = f.Prefix()
	return f.catalog.Text(key, data)
}

func (f *Formatter) Start(state *chessdto.GameState) string {
	if state == nil {
		return f.Error(chessdto.DomainError{Code: chessdto.CodeInternal})
	}
	if state.HotSeat {
		return f.text("chess.start_hot_seat", map[string]any{"Label": state.Label, "Player": state.WhiteName})
	}
	return f.text("chess.start", map[string]any{
		"Label": state.Label,
		"White": state.WhiteName,
		"Black": state.BlackName,
	})
}

func (f *Formatter) Restarted(state *chessdto.GameState) string {
	if state == nil {
		return f.Error(chessdto.DomainError{Code: chessdto.CodeInternal})
	}
	return f.text("chess.restarted", map[string]any{"Label": state.Label}) + "\n" + f.Start(state)
}

// Move reports an accepted move followed by either the result or whose turn it is.
func (f *Formatter) Move(summary *chessdto.MoveSummary) string {
	if summary == nil || summary.State == nil {
		return ""
	}
	state := summary.State
	lines := []string{f.text("chess.moved", map[string]any{
		"Player":   summary.Mover,
		"Move":     summary.Move,
		"Captured": summary.Captured,
	})}
	if summary.Finished {
		lines = append(lines, f.result(state, summary.Mover, ""))
		return strings.Join(lines, "\n")
	}
	side := sideTitle(state.Turn)
	if state.InCheck {
		lines = append(lines, f.text("chess.check", map[string]any{"Side": side}))
	}
	lines = append(lines, f.text("chess.to_move", map[string]any{"Side": side, "Player": toMove(state)}))
	return strings.Join(lines, "\n")
}

func (f *Formatter) result(state *chessdto.GameState, winner, loser string) string {
	switch state.Status {
	case "CHECKMATE":
		return f.text("chess.result.checkmate", map[string]any{"Result": state.Result, "Winner": winner})
	case "STALEMATE":
		return f.text("chess.result.stalemate", map[string]any{"Result": state.Result})
	case "RESIGNED":
		return f.text("chess.result.resigned", map[string]any{"Result": state.Result, "Loser": loser})
	}
	return state.Result
}

func (f *Formatter) Resign(state *chessdto.GameState, loser string) string {
	if state == nil {
		return ""
	}
	return f.result(state, "", loser)
}

func (f *Formatter) Status(state *chessdto.GameState) string {
	if state == nil {
		return f.Help()
	}
	if state.Finished() {
		return state.Result
	}
	return f.text("chess.status", map[string]any{
		"Label":   state.Label,
		"White":   state.WhiteName,
		"Black":   state.BlackName,
		"Count":   state.MoveCount(),
		"Last":    state.LastMove,
		"Side":    sideTitle(state.Turn),
		"InCheck": state.InCheck,
	})
}

// Moves lists the legal destinations of the piece on square.
func (f *Formatter) Moves(square string, targets []string) string {
	if len(targets) == 0 {
		return f.text("chess.moves_none", map[string]any{"Square": square})
	}
	return f.text("chess.moves", map[string]any{"Square": square, "Targets": strings.Join(targets, " ")})
}

func (f *Formatter) History(entries []chessdto.HistoryEntry) string {
	if len(entries) == 0 {
		return f.text("chess.history_empty", nil)
	}
	header := f.text("chess.history_header", nil)
	lines := []string{header}
	for i, e := range entries {
		lines = append(lines, f.text("chess.history_line", map[string]any{
			"Index":  i + 1,
			"Label":  e.Label,
			"White":  e.WhiteName,
			"Black":  e.BlackName,
			"Score":  score(e.Result),
			"Method": e.Method,
			"Count":  e.MoveCount,
		}))
	}
	return util.FoldLong(strings.Join(lines, "\n"), header)
}

func (f *Formatter) ChallengeOpened(ch chessdto.Challenge) string {
	color := ch.Color
	if color == "" {
		color = "random"
	}
	return f.text("chess.challenge_open", map[string]any{"Player": ch.CreatorName, "Color": color, "Code": ch.Code})
}

func (f *Formatter) ChallengeCancelled(ch chessdto.Challenge) string {
	return f.text("chess.challenge_cancelled", map[string]any{"Player": ch.CreatorName, "Code": ch.Code})
}

func (f *Formatter) Help() string {
	content := f.text("chess.help", nil)
	header, _, _ := strings.Cut(content, "\n")
	return util.FoldLong(content, header)
}

// Error renders a rejection. Unknown codes fall back to the internal message.
func (f *Formatter) Error(de chessdto.DomainError) string {
	key := "errors." + de.Code
	if !f.catalog.Has(key) {
		key = "errors." + chessdto.CodeInternal
	}
	return f.text(key, map[string]any{"From": de.From, "To": de.To})
}

func sideTitle(turn string) string {
	switch strings.ToLower(turn) {
	case "white":
		return "White"
	case "black":
		return "Black"
	}
	return turn
}

func toMove(state *chessdto.GameState) string {
	if strings.EqualFold(state.Turn, "black") {
		return state.BlackName
	}
	return state.WhiteName
}

func score(result string) string {
	switch result {
	case "white":
		return "1-0"
	case "black":
		return "0-1"
	case "draw":
		return "1/2-1/2"
	}
	return fmt.Sprintf("(%s)", result)
}
