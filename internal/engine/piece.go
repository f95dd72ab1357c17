package engine

// Color identifies a side.
type Color uint8

const (
	White Color = iota
	Black
)

func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

func (c Color) String() string {
	if c == White {
		return "White"
	}
	return "Black"
}

// Kind tags the piece variant. NoKind marks an empty cell.
type Kind uint8

const (
	NoKind Kind = iota
	King
	Queen
	Rook
	Bishop
	Knight
	Pawn
)

func (k Kind) String() string {
	switch k {
	case King:
		return "King"
	case Queen:
		return "Queen"
	case Rook:
		return "Rook"
	case Bishop:
		return "Bishop"
	case Knight:
		return "Knight"
	case Pawn:
		return "Pawn"
	default:
		return ""
	}
}

// Piece is a value stored in a board cell. Moved becomes true on the first
// relocation and never resets.
type Piece struct {
	Kind   Kind
	Color  Color
	Square Square
	Moved  bool
}

func NewPiece(kind Kind, color Color, sq Square) Piece {
	return Piece{Kind: kind, Color: color, Square: sq}
}

func (p Piece) IsZero() bool { return p.Kind == NoKind }

var unicodeSymbols = map[Kind][2]string{
	King:   {"♔", "♚"},
	Queen:  {"♕", "♛"},
	Rook:   {"♖", "♜"},
	Bishop: {"♗", "♝"},
	Knight: {"♘", "♞"},
	Pawn:   {"♙", "♟"},
}

// Symbol returns the Unicode chess glyph.
func (p Piece) Symbol() string {
	s, ok := unicodeSymbols[p.Kind]
	if !ok {
		return ""
	}
	return s[p.Color]
}

// FallbackSymbol returns a two letter code such as "WK" or "BN" for terminals
// without the chess glyphs.
func (p Piece) FallbackSymbol() string {
	if p.IsZero() {
		return ""
	}
	prefix := "W"
	if p.Color == Black {
		prefix = "B"
	}
	return prefix + string(kindLetter(p.Kind))
}

// Letter returns the FEN letter: upper case for White, lower case for Black.
func (p Piece) Letter() byte {
	l := kindLetter(p.Kind)
	if p.Color == Black && l != '?' {
		l += 'a' - 'A'
	}
	return l
}

func kindLetter(k Kind) byte {
	switch k {
	case King:
		return 'K'
	case Queen:
		return 'Q'
	case Rook:
		return 'R'
	case Bishop:
		return 'B'
	case Knight:
		return 'N'
	case Pawn:
		return 'P'
	default:
		return '?'
	}
}

func kindFromLetter(l byte) (Kind, Color, bool) {
	color := White
	if l >= 'a' && l <= 'z' {
		color = Black
		l -= 'a' - 'A'
	}
	switch l {
	case 'K':
		return King, color, true
	case 'Q':
		return Queen, color, true
	case 'R':
		return Rook, color, true
	case 'B':
		return Bishop, color, true
	case 'N':
		return Knight, color, true
	case 'P':
		return Pawn, color, true
	default:
		return NoKind, White, false
	}
}
