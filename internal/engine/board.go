package engine

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidPlacement = errors.New("invalid piece placement")

// Grid is a full copy of the board cells. A zero Piece is an empty cell.
type Grid [Size][Size]Piece

// At returns the piece on sq, or false for an invalid square or empty cell.
func (g *Grid) At(sq Square) (Piece, bool) {
	if !sq.Valid() {
		return Piece{}, false
	}
	p := g[sq.Row][sq.Col]
	return p, !p.IsZero()
}

// Board owns piece placement. At most one piece occupies a square.
type Board struct {
	grid Grid
}

var backRank = [Size]Kind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// NewBoard returns the standard starting layout with White on rows 6 and 7.
func NewBoard() *Board {
	b := &Board{}
	b.setup(White, 7, 6)
	b.setup(Black, 0, 1)
	return b
}

func NewEmptyBoard() *Board {
	return &Board{}
}

func (b *Board) setup(c Color, backRow, pawnRow int) {
	for col := 0; col < Size; col++ {
		b.Place(NewPiece(Pawn, c, Square{}), NewSquare(pawnRow, col))
		b.Place(NewPiece(backRank[col], c, Square{}), NewSquare(backRow, col))
	}
}

// Place puts p on sq, replacing any occupant. Invalid squares are ignored.
func (b *Board) Place(p Piece, sq Square) {
	if !sq.Valid() || p.IsZero() {
		return
	}
	p.Square = sq
	b.grid[sq.Row][sq.Col] = p
}

func (b *Board) Remove(sq Square) {
	if !sq.Valid() {
		return
	}
	b.grid[sq.Row][sq.Col] = Piece{}
}

func (b *Board) PieceAt(sq Square) (Piece, bool) {
	return b.grid.At(sq)
}

// Relocate moves the piece on from to to, discarding whatever stood on to,
// and marks the piece as moved. It returns false without mutating anything
// when either square is invalid or from is empty.
func (b *Board) Relocate(from, to Square) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}
	p, ok := b.PieceAt(from)
	if !ok {
		return false
	}
	p.Square = to
	p.Moved = true
	b.grid[to.Row][to.Col] = p
	b.grid[from.Row][from.Col] = Piece{}
	return true
}

// FindKing scans the board for the king of color c.
func (b *Board) FindKing(c Color) (Square, bool) {
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			p := b.grid[row][col]
			if p.Kind == King && p.Color == c {
				return NewSquare(row, col), true
			}
		}
	}
	return Square{}, false
}

func (b *Board) Snapshot() Grid {
	return b.grid
}

func (b *Board) Clone() *Board {
	return &Board{grid: b.grid}
}

// Pieces returns the pieces of color c in row-major order.
func (b *Board) Pieces(c Color) []Piece {
	var out []Piece
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			p := b.grid[row][col]
			if !p.IsZero() && p.Color == c {
				out = append(out, p)
			}
		}
	}
	return out
}

func (b *Board) Count(c Color) int {
	return len(b.Pieces(c))
}

func (b *Board) String() string {
	var sb strings.Builder
	sb.WriteString("  a b c d e f g h\n")
	for row := 0; row < Size; row++ {
		fmt.Fprintf(&sb, "%d ", Size-row)
		for col := 0; col < Size; col++ {
			p := b.grid[row][col]
			if p.IsZero() {
				sb.WriteString(". ")
				continue
			}
			sb.WriteString(p.Symbol())
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%d\n", Size-row)
	}
	sb.WriteString("  a b c d e f g h\n")
	return sb.String()
}

// Placement encodes the board as the piece-placement field of a FEN record.
func (b *Board) Placement() string {
	var sb strings.Builder
	for row := 0; row < Size; row++ {
		empty := 0
		for col := 0; col < Size; col++ {
			p := b.grid[row][col]
			if p.IsZero() {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(p.Letter())
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if row < Size-1 {
			sb.WriteByte('/')
		}
	}
	return sb.String()
}

// ParsePlacement builds a board from a FEN piece-placement field. Anything
// after the first space is ignored. Pawns away from their home row are
// marked as moved so they do not get the double step.
func ParsePlacement(placement string) (*Board, error) {
	if i := strings.IndexByte(placement, ' '); i >= 0 {
		placement = placement[:i]
	}
	rows := strings.Split(placement, "/")
	if len(rows) != Size {
		return nil, fmt.Errorf("%w: want %d ranks, got %d", ErrInvalidPlacement, Size, len(rows))
	}
	b := NewEmptyBoard()
	for row, text := range rows {
		col := 0
		for i := 0; i < len(text); i++ {
			ch := text[i]
			if ch >= '1' && ch <= '8' {
				col += int(ch - '0')
				continue
			}
			kind, color, ok := kindFromLetter(ch)
			if !ok {
				return nil, fmt.Errorf("%w: unexpected %q in rank %d", ErrInvalidPlacement, ch, Size-row)
			}
			if col >= Size {
				return nil, fmt.Errorf("%w: rank %d overflows", ErrInvalidPlacement, Size-row)
			}
			p := NewPiece(kind, color, Square{})
			if kind == Pawn && row != pawnHomeRow(color) {
				p.Moved = true
			}
			b.Place(p, NewSquare(row, col))
			col++
		}
		if col != Size {
			return nil, fmt.Errorf("%w: rank %d has %d files", ErrInvalidPlacement, Size-row, col)
		}
	}
	return b, nil
}

func pawnHomeRow(c Color) int {
	if c == White {
		return 6
	}
	return 1
}
