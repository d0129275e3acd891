package gamedto

import "time"

// PieceView mirrors the engine piece; empty object means empty square.
type PieceView struct {
	Type  string `json:"type,omitempty"`
	Color string `json:"color,omitempty"`
}

// SessionView is the polling payload rendered for one caller. YourColor
// is empty for spectators.
type SessionView struct {
	ID        string          `json:"id"`
	Board     [8][8]PieceView `json:"board"`
	Turn      string          `json:"turn"`
	Status    string          `json:"status"`
	WhiteName string          `json:"white_name,omitempty"`
	BlackName string          `json:"black_name,omitempty"`
	Winner    string          `json:"winner,omitempty"`
	YourColor string          `json:"your_color,omitempty"`
	YourTurn  bool            `json:"your_turn"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// MovesView lists legal destinations for a selected piece.
type MovesView struct {
	From  SquareRef   `json:"from"`
	Moves []SquareRef `json:"moves"`
}
