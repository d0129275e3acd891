package chess

// Color identifies a chess side.
type Color string

const (
	White Color = "white"
	Black Color = "black"
)

// Opposite returns the other side.
func (c Color) Opposite() Color {
	if c == White {
		return Black
	}
	return White
}

// PieceType identifies a kind of chess piece. The empty string means
// the square holds no piece.
type PieceType string

const (
	Pawn   PieceType = "pawn"
	Rook   PieceType = "rook"
	Knight PieceType = "knight"
	Bishop PieceType = "bishop"
	Queen  PieceType = "queen"
	King   PieceType = "king"
)

// Piece is a value type; the zero value is an empty square.
type Piece struct {
	Type  PieceType `json:"type,omitempty"`
	Color Color     `json:"color,omitempty"`
}

func (p Piece) IsEmpty() bool { return p.Type == "" }

// Square addresses one of the 64 board positions. Row 0 is the black
// back rank; white pawns advance toward decreasing row.
type Square struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (s Square) InBounds() bool {
	return s.Row >= 0 && s.Row < 8 && s.Col >= 0 && s.Col < 8
}

// Board is an 8x8 grid of pieces. It is a plain array value: assigning
// or passing a Board copies it, so applied moves always produce a new
// board and never mutate a snapshot a concurrent reader may hold.
type Board [8][8]Piece

// At returns the occupant of sq. Callers must pass an in-bounds square.
func (b Board) At(sq Square) Piece { return b[sq.Row][sq.Col] }

var backRank = [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// InitialBoard returns the canonical starting position: black on rows
// 0-1, white on rows 6-7, empty squares elsewhere.
func InitialBoard() Board {
	var b Board
	for col := 0; col < 8; col++ {
		b[0][col] = Piece{Type: backRank[col], Color: Black}
		b[1][col] = Piece{Type: Pawn, Color: Black}
		b[6][col] = Piece{Type: Pawn, Color: White}
		b[7][col] = Piece{Type: backRank[col], Color: White}
	}
	return b
}
