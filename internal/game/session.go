package game

import (
	"errors"
	"time"

	"github.com/dnspavankumar/Chessforces/internal/chess"
)

// Status represents a session lifecycle state.
type Status string

const (
	StatusWaiting Status = "WAITING"
	StatusActive  Status = "ACTIVE"
	// StatusFinished is a reserved terminal state. No operation in this
	// package transitions into it; end-of-game detection lives with a
	// future rule extension.
	StatusFinished Status = "FINISHED"
)

var (
	ErrSessionNotFound = errors.New("game session not found")
	ErrSessionFull     = errors.New("game session already has two players")
	ErrNotYourTurn     = errors.New("not your turn")
	ErrIllegalMove     = errors.New("illegal move")
)

// Session is the persisted state of one match. It is saved and loaded
// as a whole JSON record; fields are never updated in place in storage.
type Session struct {
	ID        string      `json:"id"`
	Board     chess.Board `json:"board"`
	Turn      chess.Color `json:"turn"`
	Status    Status      `json:"status"`
	WhiteID   string      `json:"white_id"`
	WhiteName string      `json:"white_name"`
	BlackID   string      `json:"black_id"`
	BlackName string      `json:"black_name"`
	Winner    string      `json:"winner,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// PlayerColor resolves an opaque player id to the slot it occupies.
// Every caller that needs "which side is this player" goes through
// here so join and move paths cannot diverge.
func (s *Session) PlayerColor(playerID string) (chess.Color, bool) {
	if playerID == "" {
		return "", false
	}
	switch playerID {
	case s.WhiteID:
		return chess.White, true
	case s.BlackID:
		return chess.Black, true
	}
	return "", false
}
