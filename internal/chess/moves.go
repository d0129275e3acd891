package chess

// IsValidMove reports whether moving the piece on from to to is legal
// for the side to move. Illegal moves are a normal outcome, not an
// error, so the answer is a plain boolean.
//
// Movement is per-piece only: there is no check detection, castling,
// en passant, or promotion.
func IsValidMove(b Board, from, to Square, turn Color) bool {
	if !from.InBounds() || !to.InBounds() {
		return false
	}
	p := b.At(from)
	if p.IsEmpty() || p.Color != turn {
		return false
	}
	if dst := b.At(to); !dst.IsEmpty() && dst.Color == p.Color {
		return false
	}

	dr := to.Row - from.Row
	dc := to.Col - from.Col

	switch p.Type {
	case Pawn:
		return validPawnMove(b, from, to, p.Color)
	case Rook:
		return (dr == 0) != (dc == 0) && pathClear(b, from, to)
	case Knight:
		return (abs(dr) == 1 && abs(dc) == 2) || (abs(dr) == 2 && abs(dc) == 1)
	case Bishop:
		return dr != 0 && abs(dr) == abs(dc) && pathClear(b, from, to)
	case Queen:
		if dr == 0 && dc == 0 {
			return false
		}
		if dr != 0 && dc != 0 && abs(dr) != abs(dc) {
			return false
		}
		return pathClear(b, from, to)
	case King:
		return max(abs(dr), abs(dc)) == 1
	}
	return false
}

func validPawnMove(b Board, from, to Square, color Color) bool {
	dir, home := -1, 6
	if color == Black {
		dir, home = 1, 1
	}
	dr := to.Row - from.Row
	dc := to.Col - from.Col

	switch {
	case dc == 0 && dr == dir:
		return b.At(to).IsEmpty()
	case dc == 0 && dr == 2*dir && from.Row == home:
		mid := Square{Row: from.Row + dir, Col: from.Col}
		return b.At(mid).IsEmpty() && b.At(to).IsEmpty()
	case abs(dc) == 1 && dr == dir:
		// Diagonal only as a capture.
		dst := b.At(to)
		return !dst.IsEmpty() && dst.Color != color
	}
	return false
}

// pathClear checks every square strictly between from and to along a
// straight or diagonal line. The destination square itself is governed
// by the self-capture rule, not by this check.
func pathClear(b Board, from, to Square) bool {
	stepR := sign(to.Row - from.Row)
	stepC := sign(to.Col - from.Col)
	cur := Square{Row: from.Row + stepR, Col: from.Col + stepC}
	for cur != to {
		if !b.At(cur).IsEmpty() {
			return false
		}
		cur.Row += stepR
		cur.Col += stepC
	}
	return true
}

// ValidMoves enumerates, in row-major order, every destination square
// the piece on from may legally move to. Used for move highlighting.
func ValidMoves(b Board, from Square, turn Color) []Square {
	var out []Square
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			to := Square{Row: row, Col: col}
			if IsValidMove(b, from, to, turn) {
				out = append(out, to)
			}
		}
	}
	return out
}

// ApplyMove returns a new board with the piece on from relocated to to.
// Legality is not re-checked here; callers must have already confirmed
// the move with IsValidMove.
func ApplyMove(b Board, from, to Square) Board {
	b[to.Row][to.Col] = b[from.Row][from.Col]
	b[from.Row][from.Col] = Piece{}
	return b
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}
	return 0
}
