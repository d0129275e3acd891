package server

import (
	"encoding/json"
	"strconv"

	"github.com/valyala/fasthttp"

	"github.com/dnspavankumar/Chessforces/internal/chess"
	"github.com/dnspavankumar/Chessforces/internal/game"
	"github.com/dnspavankumar/Chessforces/internal/render"
	"github.com/dnspavankumar/Chessforces/pkg/gamedto"
)

func (s *Server) handleCreate(ctx *fasthttp.RequestCtx) {
	var req gamedto.CreateRequest
	if len(ctx.PostBody()) > 0 {
		if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
			s.writeDomainError(ctx, fasthttp.StatusBadRequest, gamedto.DomainError{Code: gamedto.CodeBadRequest, Message: "malformed request body"})
			return
		}
	}

	id, err := newSessionID()
	if err != nil {
		s.mapError(ctx, "", err)
		return
	}
	playerID := s.playerID(ctx)

	if _, err := s.manager.Create(ctx, id); err != nil {
		s.mapError(ctx, id, err)
		return
	}
	// The creator takes the white slot immediately.
	sess, color, err := s.manager.Join(ctx, id, playerID, req.Name)
	if err != nil {
		s.mapError(ctx, id, err)
		return
	}

	ctx.SetStatusCode(fasthttp.StatusCreated)
	writeJSON(ctx, sessionView(sess, color))
}

func (s *Server) handleGet(ctx *fasthttp.RequestCtx, id string) {
	sess, err := s.manager.Get(ctx, id)
	if err != nil {
		s.mapError(ctx, id, err)
		return
	}
	color, _ := sess.PlayerColor(s.playerID(ctx))
	writeJSON(ctx, sessionView(sess, color))
}

func (s *Server) handleJoin(ctx *fasthttp.RequestCtx, id string) {
	var req gamedto.JoinRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		s.writeDomainError(ctx, fasthttp.StatusBadRequest, gamedto.DomainError{Code: gamedto.CodeBadRequest, Message: "malformed request body"})
		return
	}
	sess, color, err := s.manager.Join(ctx, id, s.playerID(ctx), req.Name)
	if err != nil {
		s.mapError(ctx, id, err)
		return
	}
	writeJSON(ctx, sessionView(sess, color))
}

func (s *Server) handleMove(ctx *fasthttp.RequestCtx, id string) {
	var req gamedto.MoveRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		s.writeDomainError(ctx, fasthttp.StatusBadRequest, gamedto.DomainError{Code: gamedto.CodeBadRequest, Message: "malformed request body"})
		return
	}
	from := chess.Square{Row: req.From.Row, Col: req.From.Col}
	to := chess.Square{Row: req.To.Row, Col: req.To.Col}

	sess, err := s.manager.Move(ctx, id, s.playerID(ctx), from, to)
	if err != nil {
		s.mapError(ctx, id, err)
		return
	}
	color, _ := sess.PlayerColor(s.playerID(ctx))
	writeJSON(ctx, sessionView(sess, color))
}

func (s *Server) handleMoves(ctx *fasthttp.RequestCtx, id string) {
	row, err1 := strconv.Atoi(string(ctx.QueryArgs().Peek("row")))
	col, err2 := strconv.Atoi(string(ctx.QueryArgs().Peek("col")))
	if err1 != nil || err2 != nil {
		s.writeDomainError(ctx, fasthttp.StatusBadRequest, gamedto.DomainError{Code: gamedto.CodeBadRequest, Message: "row and col query parameters required"})
		return
	}
	from := chess.Square{Row: row, Col: col}
	moves, err := s.manager.ValidMoves(ctx, id, from)
	if err != nil {
		s.mapError(ctx, id, err)
		return
	}
	view := gamedto.MovesView{
		From:  gamedto.SquareRef{Row: from.Row, Col: from.Col},
		Moves: make([]gamedto.SquareRef, 0, len(moves)),
	}
	for _, m := range moves {
		view.Moves = append(view.Moves, gamedto.SquareRef{Row: m.Row, Col: m.Col})
	}
	writeJSON(ctx, view)
}

func (s *Server) handleBoardPNG(ctx *fasthttp.RequestCtx, id string) {
	sess, err := s.manager.Get(ctx, id)
	if err != nil {
		s.mapError(ctx, id, err)
		return
	}
	img, err := s.renderer.RenderPNG(ctx, sess.Board, render.Options{})
	if err != nil {
		s.mapError(ctx, id, err)
		return
	}
	ctx.SetContentType("image/png")
	ctx.SetBody(img)
}

func sessionView(sess *game.Session, you chess.Color) gamedto.SessionView {
	v := gamedto.SessionView{
		ID:        sess.ID,
		Turn:      string(sess.Turn),
		Status:    string(sess.Status),
		WhiteName: sess.WhiteName,
		BlackName: sess.BlackName,
		Winner:    sess.Winner,
		YourColor: string(you),
		YourTurn:  you != "" && you == sess.Turn && sess.Status == game.StatusActive,
		UpdatedAt: sess.UpdatedAt,
	}
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			p := sess.Board.At(chess.Square{Row: row, Col: col})
			v.Board[row][col] = gamedto.PieceView{Type: string(p.Type), Color: string(p.Color)}
		}
	}
	return v
}
