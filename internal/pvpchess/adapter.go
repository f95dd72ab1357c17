package pvpchess

import (
	"context"
	"fmt"
	"strings"

	"github.com/park285/cheese-chess/internal/engine"
	"github.com/park285/cheese-chess/internal/render"
	"github.com/park285/cheese-chess/pkg/chessdto"
)

// ToDTO replays g and builds the presenter state. The board image is rendered
// when a renderer is configured; targets are drawn as destination dots.
func (m *Manager) ToDTO(ctx context.Context, g *Game, targets []engine.Square) (*chessdto.GameState, error) {
	if g == nil {
		return nil, ErrGameNotFound
	}
	eng, err := Replay(g)
	if err != nil {
		return nil, err
	}
	state := &chessdto.GameState{
		GameID:    g.ID,
		Label:     g.Label,
		Room:      g.Room,
		WhiteName: g.WhiteName,
		BlackName: g.BlackName,
		HotSeat:   g.HotSeat(),
		Turn:      string(g.Turn),
		InCheck:   g.InCheck,
		Status:    string(g.Status),
		Result:    g.Result,
		Moves:     append([]string(nil), g.Moves...),
		BoardRows: boardRows(eng.Snapshot()),
		UpdatedAt: g.UpdatedAt,
	}
	last, hasLast := eng.LastMove()
	if hasLast {
		state.LastMove = last.String()
		if !last.Captured.IsZero() {
			state.Captured = strings.ToLower(last.Captured.Kind.String())
		}
	}
	if m == nil || m.renderer == nil {
		return state, nil
	}

	opts := render.RenderOptions{
		HUDHeader: fmt.Sprintf("%s vs %s", g.WhiteName, g.BlackName),
		HUDTurn:   hudTurn(g),
		Targets:   targets,
	}
	if hasLast {
		opts.Highlight = &render.MoveHighlight{From: last.From, To: last.To}
	}
	if eng.InCheck() {
		if sq, ok := eng.Board().FindKing(eng.Turn()); ok {
			opts.Check = &sq
		}
	}
	png, err := m.renderer.RenderPNG(ctx, eng.Snapshot(), opts)
	if err != nil {
		return nil, err
	}
	state.BoardImage = png
	return state, nil
}

// LegalMoves lists the legal destinations of the piece on square in the
// room's active game.
func (m *Manager) LegalMoves(ctx context.Context, room, square string) (*Game, engine.Square, []engine.Square, error) {
	g, err := m.ActiveGame(ctx, room)
	if err != nil {
		return nil, engine.Square{}, nil, err
	}
	from, err := engine.ParseSquare(strings.TrimSpace(square))
	if err != nil {
		return nil, engine.Square{}, nil, err
	}
	eng, err := Replay(g)
	if err != nil {
		return nil, engine.Square{}, nil, err
	}
	return g, from, eng.LegalMoves(from), nil
}

func hudTurn(g *Game) string {
	if g.Status.Final() {
		return g.Result
	}
	turn := len(g.Moves)/2 + 1
	return fmt.Sprintf("%s to move - turn %d", sideTitle(g.Turn), turn)
}

func boardRows(grid engine.Grid) []string {
	rows := make([]string, 0, engine.Size)
	for row := 0; row < engine.Size; row++ {
		var sb strings.Builder
		for col := 0; col < engine.Size; col++ {
			p := grid[row][col]
			if p.IsZero() {
				sb.WriteByte('.')
				continue
			}
			sb.WriteByte(p.Letter())
		}
		rows = append(rows, sb.String())
	}
	return rows
}
