package engine

type offset struct{ dr, dc int }

var (
	orthogonalDirs = []offset{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	diagonalDirs   = []offset{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
	queenDirs      = append(append([]offset{}, orthogonalDirs...), diagonalDirs...)
	knightOffsets  = []offset{{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2}, {1, -2}, {1, 2}, {2, -1}, {2, 1}}
	kingOffsets    = []offset{{-1, -1}, {-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, -1}, {1, 0}, {1, 1}}
)

// PseudoLegalMoves lists the destinations allowed by the piece's movement
// pattern on grid, ignoring whether the move leaves its own king attacked.
// The grid is taken by value; generation never touches a live board.
func (p Piece) PseudoLegalMoves(grid Grid) []Square {
	switch p.Kind {
	case Rook:
		return slide(p, grid, orthogonalDirs)
	case Bishop:
		return slide(p, grid, diagonalDirs)
	case Queen:
		return slide(p, grid, queenDirs)
	case Knight:
		return jump(p, grid, knightOffsets)
	case King:
		return jump(p, grid, kingOffsets)
	case Pawn:
		return pawnMoves(p, grid)
	default:
		return nil
	}
}

func slide(p Piece, grid Grid, dirs []offset) []Square {
	var moves []Square
	for _, d := range dirs {
		for step := 1; step < Size; step++ {
			sq := p.Square.Offset(d.dr*step, d.dc*step)
			if !sq.Valid() {
				break
			}
			target := grid[sq.Row][sq.Col]
			if target.IsZero() {
				moves = append(moves, sq)
				continue
			}
			if target.Color != p.Color {
				moves = append(moves, sq)
			}
			break
		}
	}
	return moves
}

func jump(p Piece, grid Grid, offsets []offset) []Square {
	var moves []Square
	for _, o := range offsets {
		sq := p.Square.Offset(o.dr, o.dc)
		if !sq.Valid() {
			continue
		}
		target := grid[sq.Row][sq.Col]
		if target.IsZero() || target.Color != p.Color {
			moves = append(moves, sq)
		}
	}
	return moves
}

func pawnDirection(c Color) int {
	if c == White {
		return -1
	}
	return 1
}

func pawnMoves(p Piece, grid Grid) []Square {
	var moves []Square
	dir := pawnDirection(p.Color)

	one := p.Square.Offset(dir, 0)
	if one.Valid() && grid[one.Row][one.Col].IsZero() {
		moves = append(moves, one)
		if !p.Moved {
			two := p.Square.Offset(2*dir, 0)
			if two.Valid() && grid[two.Row][two.Col].IsZero() {
				moves = append(moves, two)
			}
		}
	}

	for _, dc := range [2]int{-1, 1} {
		sq := p.Square.Offset(dir, dc)
		if !sq.Valid() {
			continue
		}
		target := grid[sq.Row][sq.Col]
		if !target.IsZero() && target.Color != p.Color {
			moves = append(moves, sq)
		}
	}
	return moves
}

func containsSquare(list []Square, sq Square) bool {
	for _, s := range list {
		if s == sq {
			return true
		}
	}
	return false
}
