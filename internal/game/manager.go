package game

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dnspavankumar/Chessforces/internal/chess"
	"github.com/dnspavankumar/Chessforces/internal/obslog"
)

const DefaultSessionTTL = 24 * time.Hour

// Manager owns the session state machine. It holds no state of its
// own; every operation is one read-modify-write cycle against the
// injected store. Concurrent submissions for the same session race as
// last-writer-wins, which is accepted for a casual two-party game
// rather than paying for per-session serialization.
type Manager struct {
	store SessionStore
	ttl   time.Duration
}

func NewManager(store SessionStore, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Manager{store: store, ttl: ttl}
}

// Create builds a fresh waiting session under the caller-supplied id
// and persists it. Id generation is the caller's concern.
func (m *Manager) Create(ctx context.Context, id string) (*Session, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("session id required")
	}
	now := time.Now()
	s := &Session{
		ID:        id,
		Board:     chess.InitialBoard(),
		Turn:      chess.White,
		Status:    StatusWaiting,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := m.store.Save(ctx, s, m.ttl); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	obslog.L().Info("session_create", zap.String("session_id", s.ID))
	return s, nil
}

func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	s, err := m.store.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if s == nil {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Join admits a player into the first open slot. Rejoining with an id
// already seated is a no-op that reports the existing color. The
// second distinct player activates the session; a third is rejected.
func (m *Manager) Join(ctx context.Context, id, playerID, displayName string) (*Session, chess.Color, error) {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return nil, "", fmt.Errorf("player id required")
	}
	s, err := m.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if color, ok := s.PlayerColor(playerID); ok {
		return s, color, nil
	}

	// Build the successor value instead of mutating the loaded one, so
	// what reaches Save is always a whole replacement record.
	next := *s
	var color chess.Color
	switch {
	case next.WhiteID == "":
		next.WhiteID = playerID
		next.WhiteName = strings.TrimSpace(displayName)
		color = chess.White
	case next.BlackID == "":
		next.BlackID = playerID
		next.BlackName = strings.TrimSpace(displayName)
		next.Status = StatusActive
		color = chess.Black
	default:
		return nil, "", ErrSessionFull
	}
	next.UpdatedAt = time.Now()

	if err := m.store.Save(ctx, &next, m.ttl); err != nil {
		return nil, "", fmt.Errorf("save session: %w", err)
	}
	obslog.L().Info("session_join",
		zap.String("session_id", next.ID),
		zap.String("player_id", playerID),
		zap.String("color", string(color)),
		zap.String("status", string(next.Status)),
	)
	return &next, color, nil
}

// Move validates and applies one move: slot resolution, turn check,
// piece legality, then a wholesale persist of the successor state.
func (m *Manager) Move(ctx context.Context, id, playerID string, from, to chess.Square) (*Session, error) {
	s, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	color, ok := s.PlayerColor(strings.TrimSpace(playerID))
	if !ok || color != s.Turn {
		// Spectators and out-of-turn players fail the same way.
		return nil, ErrNotYourTurn
	}
	if !chess.IsValidMove(s.Board, from, to, s.Turn) {
		return nil, ErrIllegalMove
	}

	next := *s
	next.Board = chess.ApplyMove(s.Board, from, to)
	next.Turn = s.Turn.Opposite()
	next.UpdatedAt = time.Now()

	if err := m.store.Save(ctx, &next, m.ttl); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	obslog.L().Info("session_move",
		zap.String("session_id", next.ID),
		zap.String("player_id", strings.TrimSpace(playerID)),
		zap.String("color", string(color)),
		zap.Int("from_row", from.Row), zap.Int("from_col", from.Col),
		zap.Int("to_row", to.Row), zap.Int("to_col", to.Col),
		zap.String("turn", string(next.Turn)),
	)
	return &next, nil
}

// ValidMoves lists the legal destinations for the piece on from, for
// move highlighting in the UI. The enumeration is against the side to
// move, so it is empty for opponent pieces and empty squares.
func (m *Manager) ValidMoves(ctx context.Context, id string, from chess.Square) ([]chess.Square, error) {
	s, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return chess.ValidMoves(s.Board, from, s.Turn), nil
}
