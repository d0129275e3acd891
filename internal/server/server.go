package server

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/dnspavankumar/Chessforces/internal/game"
	"github.com/dnspavankumar/Chessforces/internal/msgcat"
	"github.com/dnspavankumar/Chessforces/internal/obslog"
	"github.com/dnspavankumar/Chessforces/internal/render"
	"github.com/dnspavankumar/Chessforces/pkg/gamedto"
)

// Server is the thin HTTP plumbing around the session manager. It owns
// no game logic: identity comes from an opaque cookie, everything else
// is delegated to the manager and rendered back as JSON.
type Server struct {
	manager    *game.Manager
	renderer   render.BoardRenderer
	catalog    *msgcat.Catalog
	cookieName string
}

func New(manager *game.Manager, renderer render.BoardRenderer, catalog *msgcat.Catalog, cookieName string) *Server {
	if strings.TrimSpace(cookieName) == "" {
		cookieName = "cf_player"
	}
	return &Server{manager: manager, renderer: renderer, catalog: catalog, cookieName: cookieName}
}

// Handler routes /api/sessions and its sub-resources.
func (s *Server) Handler() fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		path := string(ctx.Path())
		method := string(ctx.Method())

		if path == "/api/sessions" && method == fasthttp.MethodPost {
			s.handleCreate(ctx)
			return
		}
		if rest, ok := strings.CutPrefix(path, "/api/sessions/"); ok {
			id, sub, _ := strings.Cut(rest, "/")
			if strings.TrimSpace(id) == "" {
				s.writeDomainError(ctx, fasthttp.StatusBadRequest, gamedto.DomainError{Code: gamedto.CodeBadRequest, Message: "session id required"})
				return
			}
			switch {
			case sub == "" && method == fasthttp.MethodGet:
				s.handleGet(ctx, id)
			case sub == "join" && method == fasthttp.MethodPost:
				s.handleJoin(ctx, id)
			case sub == "move" && method == fasthttp.MethodPost:
				s.handleMove(ctx, id)
			case sub == "moves" && method == fasthttp.MethodGet:
				s.handleMoves(ctx, id)
			case sub == "board.png" && method == fasthttp.MethodGet:
				s.handleBoardPNG(ctx, id)
			default:
				ctx.SetStatusCode(fasthttp.StatusNotFound)
			}
			return
		}
		ctx.SetStatusCode(fasthttp.StatusNotFound)
	}
}

// playerID returns the caller's opaque identity, issuing a fresh
// cookie on first contact.
func (s *Server) playerID(ctx *fasthttp.RequestCtx) string {
	if v := string(ctx.Request.Header.Cookie(s.cookieName)); strings.TrimSpace(v) != "" {
		return v
	}
	id := uuid.NewString()
	c := fasthttp.AcquireCookie()
	defer fasthttp.ReleaseCookie(c)
	c.SetKey(s.cookieName)
	c.SetValue(id)
	c.SetPath("/")
	c.SetHTTPOnly(true)
	ctx.Response.Header.SetCookie(c)
	return id
}

// newSessionID returns a short random alphanumeric token. Session id
// generation is a transport concern; the manager accepts any id.
func newSessionID() (string, error) {
	const letters = "abcdefghijklmnopqrstuvwxyz0123456789"
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	for i := range b {
		b[i] = letters[int(b[i])%len(letters)]
	}
	return string(b), nil
}

func (s *Server) writeDomainError(ctx *fasthttp.RequestCtx, status int, derr gamedto.DomainError) {
	ctx.SetStatusCode(status)
	writeJSON(ctx, derr)
}

// mapError translates manager rejections into status codes and
// catalog-rendered messages; storage failures stay opaque 500s.
func (s *Server) mapError(ctx *fasthttp.RequestCtx, id string, err error) {
	msg := func(key string, data any, fallback string) string {
		if s.catalog == nil {
			return fallback
		}
		out, rerr := s.catalog.Render(key, data)
		if rerr != nil {
			return fallback
		}
		return out
	}
	switch {
	case errors.Is(err, game.ErrSessionNotFound):
		s.writeDomainError(ctx, fasthttp.StatusNotFound, gamedto.DomainError{
			Code:    gamedto.CodeNotFound,
			Message: msg("session.not_found", map[string]string{"ID": id}, "session not found"),
		})
	case errors.Is(err, game.ErrSessionFull):
		s.writeDomainError(ctx, fasthttp.StatusConflict, gamedto.DomainError{
			Code:    gamedto.CodeSessionFull,
			Message: msg("session.full", map[string]string{"ID": id}, "session is full"),
		})
	case errors.Is(err, game.ErrNotYourTurn):
		s.writeDomainError(ctx, fasthttp.StatusUnprocessableEntity, gamedto.DomainError{
			Code:      gamedto.CodeNotYourTurn,
			Message:   msg("move.not_your_turn", nil, "not your turn"),
			Retryable: true,
		})
	case errors.Is(err, game.ErrIllegalMove):
		s.writeDomainError(ctx, fasthttp.StatusUnprocessableEntity, gamedto.DomainError{
			Code:      gamedto.CodeIllegalMove,
			Message:   msg("move.illegal", nil, "illegal move"),
			Retryable: true,
		})
	default:
		obslog.L().Error("request_failed",
			zap.String("session_id", id),
			zap.String("path", string(ctx.Path())),
			zap.Error(err),
		)
		s.writeDomainError(ctx, fasthttp.StatusInternalServerError, gamedto.DomainError{
			Code:    gamedto.CodeInternal,
			Message: "internal error",
		})
	}
}

func writeJSON(ctx *fasthttp.RequestCtx, v any) {
	ctx.SetContentType("application/json; charset=utf-8")
	body, err := json.Marshal(v)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		ctx.SetBodyString(fmt.Sprintf(`{"code":%q,"message":"encode error"}`, gamedto.CodeInternal))
		return
	}
	ctx.SetBody(body)
}
