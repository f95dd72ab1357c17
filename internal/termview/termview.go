// Package termview draws a board for a terminal.
package termview

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/park285/cheese-chess/internal/engine"
)

// Options controls a single Render call.
type Options struct {
	Unicode   bool // chess glyphs instead of two-letter codes
	Color     bool // ANSI square shading
	Flipped   bool // Black at the bottom
	LastMove  []engine.Square
	Targets   []engine.Square
	CheckedOn *engine.Square
}

type palette struct {
	light, dark, last, target, check *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		light:  color.New(color.BgHiWhite, color.FgBlack),
		dark:   color.New(color.BgGreen, color.FgBlack),
		last:   color.New(color.BgYellow, color.FgBlack),
		target: color.New(color.BgCyan, color.FgBlack),
		check:  color.New(color.BgRed, color.FgHiWhite, color.Bold),
	}
	for _, c := range []*color.Color{p.light, p.dark, p.last, p.target, p.check} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Render returns the board as text, rank 8 first unless Flipped.
func Render(grid engine.Grid, opts Options) string {
	pal := newPalette(opts.Color)
	last := squareSet(opts.LastMove)
	targets := squareSet(opts.Targets)
	width := 2
	if !opts.Unicode {
		width = 3
	}

	var sb strings.Builder
	files := fileLabels(opts.Flipped, width)
	sb.WriteString("   " + files + "\n")
	for i := 0; i < engine.Size; i++ {
		row := i
		if opts.Flipped {
			row = engine.Size - 1 - i
		}
		rank := engine.Size - row
		fmt.Fprintf(&sb, "%d  ", rank)
		for j := 0; j < engine.Size; j++ {
			col := j
			if opts.Flipped {
				col = engine.Size - 1 - j
			}
			sq := engine.NewSquare(row, col)
			cell := cellText(grid[row][col], targets[sq], opts.Unicode, width)

			c := pal.light
			if (row+col)%2 == 1 {
				c = pal.dark
			}
			switch {
			case opts.CheckedOn != nil && *opts.CheckedOn == sq:
				c = pal.check
			case targets[sq]:
				c = pal.target
			case last[sq]:
				c = pal.last
			}
			if !opts.Color && (last[sq] || targets[sq] && !grid[row][col].IsZero()) {
				cell = "[" + strings.TrimSpace(cell) + "]"
				cell = pad(cell, width)
			}
			sb.WriteString(c.Sprint(cell))
		}
		fmt.Fprintf(&sb, "  %d\n", rank)
	}
	sb.WriteString("   " + files + "\n")
	return sb.String()
}

func cellText(p engine.Piece, target, unicode bool, width int) string {
	var s string
	switch {
	case !p.IsZero() && unicode:
		s = p.Symbol()
	case !p.IsZero():
		s = p.FallbackSymbol()
	case target:
		s = "*"
	case unicode:
		s = "·"
	default:
		s = "."
	}
	return pad(s, width)
}

// pad centres s in width+1 columns; width counts runes.
func pad(s string, width int) string {
	n := len([]rune(s))
	if n >= width+1 {
		return s
	}
	left := (width + 1 - n) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width+1-n-left)
}

func fileLabels(flipped bool, width int) string {
	var parts []string
	for i := 0; i < engine.Size; i++ {
		f := i
		if flipped {
			f = engine.Size - 1 - i
		}
		parts = append(parts, pad(string(rune('a'+f)), width))
	}
	return strings.Join(parts, "")
}

func squareSet(list []engine.Square) map[engine.Square]bool {
	m := make(map[engine.Square]bool, len(list))
	for _, sq := range list {
		m[sq] = true
	}
	return m
}

// Status is the one-line summary under the board.
func Status(g *engine.Game) string {
	if g.Over() {
		return g.Result()
	}
	s := fmt.Sprintf("%s to move", g.Turn())
	if g.InCheck() {
		s += fmt.Sprintf(" - %s is in check!", g.Turn())
	}
	return s
}
