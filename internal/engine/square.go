package engine

import (
	"errors"
	"fmt"
)

// Size is the number of rows and columns on the board.
const Size = 8

var ErrInvalidNotation = errors.New("invalid square notation")

// Square is a board coordinate. Row 0 is rank 8 (Black's back rank) and
// column 0 is file a.
type Square struct {
	Row int
	Col int
}

func NewSquare(row, col int) Square {
	return Square{Row: row, Col: col}
}

func (s Square) Valid() bool {
	return s.Row >= 0 && s.Row < Size && s.Col >= 0 && s.Col < Size
}

// Offset returns the square dr rows and dc columns away. The result may be invalid.
func (s Square) Offset(dr, dc int) Square {
	return Square{Row: s.Row + dr, Col: s.Col + dc}
}

// Notation renders the square as file letter plus rank digit, e.g. "e4".
func (s Square) Notation() string {
	if !s.Valid() {
		return "invalid"
	}
	return string([]byte{byte('a' + s.Col), byte('0' + Size - s.Row)})
}

func (s Square) String() string { return s.Notation() }

// ParseSquare converts "e4" style notation into a Square. The input must be a
// letter followed by a digit; the resulting square is not range checked, so
// "i9" yields an invalid Square and no error.
func ParseSquare(notation string) (Square, error) {
	if len(notation) != 2 {
		return Square{}, fmt.Errorf("%w: %q", ErrInvalidNotation, notation)
	}
	file, rank := notation[0], notation[1]
	if file >= 'A' && file <= 'Z' {
		file += 'a' - 'A'
	}
	if file < 'a' || file > 'z' || rank < '0' || rank > '9' {
		return Square{}, fmt.Errorf("%w: %q", ErrInvalidNotation, notation)
	}
	return Square{Row: Size - int(rank-'0'), Col: int(file - 'a')}, nil
}

func MustParseSquare(notation string) Square {
	sq, err := ParseSquare(notation)
	if err != nil {
		panic(err)
	}
	return sq
}
