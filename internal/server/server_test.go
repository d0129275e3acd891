package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"

	"github.com/dnspavankumar/Chessforces/internal/game"
	"github.com/dnspavankumar/Chessforces/internal/msgcat"
	"github.com/dnspavankumar/Chessforces/internal/render"
	"github.com/dnspavankumar/Chessforces/pkg/gamedto"
)

// testClient wraps an http.Client speaking to an in-memory fasthttp
// server, carrying its own cookie jar per simulated player.
type testClient struct {
	t      *testing.T
	http   *http.Client
	cookie string
}

func newTestServer(t *testing.T) (*testClient, *testClient) {
	t.Helper()

	catalog, err := msgcat.New("")
	if err != nil {
		t.Fatalf("msgcat.New: %v", err)
	}
	m := game.NewManager(game.NewMemoryStore(), time.Hour)
	s := New(m, render.NewSVGBoardRenderer(), catalog, "cf_player")

	ln := fasthttputil.NewInmemoryListener()
	go func() { _ = fasthttp.Serve(ln, s.Handler()) }()
	t.Cleanup(func() { _ = ln.Close() })

	mk := func() *testClient {
		return &testClient{t: t, http: &http.Client{
			Transport: &http.Transport{
				DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
					return ln.Dial()
				},
			},
		}}
	}
	return mk(), mk()
}

func (c *testClient) do(method, path string, body any) (int, []byte) {
	c.t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			c.t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, "http://game"+path, rd)
	if err != nil {
		c.t.Fatalf("new request: %v", err)
	}
	if c.cookie != "" {
		req.Header.Set("Cookie", c.cookie)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		c.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	if sc := resp.Header.Get("Set-Cookie"); sc != "" && c.cookie == "" {
		// keep only the name=value pair
		if i := strings.Index(sc, ";"); i >= 0 {
			sc = sc[:i]
		}
		c.cookie = sc
	}
	out, err := io.ReadAll(resp.Body)
	if err != nil {
		c.t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, out
}

func TestFullGameOverHTTP(t *testing.T) {
	alice, bob := newTestServer(t)

	status, body := alice.do(http.MethodPost, "/api/sessions", gamedto.CreateRequest{Name: "Alice"})
	if status != http.StatusCreated {
		t.Fatalf("create status = %d: %s", status, body)
	}
	var created gamedto.SessionView
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if created.YourColor != "white" || created.Status != "WAITING" {
		t.Fatalf("creator got %s/%s, want white/WAITING", created.YourColor, created.Status)
	}
	if alice.cookie == "" {
		t.Fatalf("expected identity cookie on first contact")
	}

	base := "/api/sessions/" + created.ID
	status, body = bob.do(http.MethodPost, base+"/join", gamedto.JoinRequest{Name: "Bob"})
	if status != http.StatusOK {
		t.Fatalf("join status = %d: %s", status, body)
	}
	var joined gamedto.SessionView
	if err := json.Unmarshal(body, &joined); err != nil {
		t.Fatalf("decode join response: %v", err)
	}
	if joined.YourColor != "black" || joined.Status != "ACTIVE" {
		t.Fatalf("joiner got %s/%s, want black/ACTIVE", joined.YourColor, joined.Status)
	}

	// Highlight listing for the e-file pawn.
	status, body = alice.do(http.MethodGet, base+"/moves?row=6&col=4", nil)
	if status != http.StatusOK {
		t.Fatalf("moves status = %d: %s", status, body)
	}
	var moves gamedto.MovesView
	if err := json.Unmarshal(body, &moves); err != nil {
		t.Fatalf("decode moves: %v", err)
	}
	if len(moves.Moves) != 2 {
		t.Fatalf("pawn highlight has %d targets, want 2", len(moves.Moves))
	}

	// White plays e2-e4; black replies; black tries again out of turn.
	status, body = alice.do(http.MethodPost, base+"/move", gamedto.MoveRequest{
		From: gamedto.SquareRef{Row: 6, Col: 4}, To: gamedto.SquareRef{Row: 4, Col: 4},
	})
	if status != http.StatusOK {
		t.Fatalf("white move status = %d: %s", status, body)
	}
	status, body = bob.do(http.MethodPost, base+"/move", gamedto.MoveRequest{
		From: gamedto.SquareRef{Row: 1, Col: 0}, To: gamedto.SquareRef{Row: 3, Col: 0},
	})
	if status != http.StatusOK {
		t.Fatalf("black move status = %d: %s", status, body)
	}
	status, body = bob.do(http.MethodPost, base+"/move", gamedto.MoveRequest{
		From: gamedto.SquareRef{Row: 3, Col: 0}, To: gamedto.SquareRef{Row: 4, Col: 0},
	})
	if status != http.StatusUnprocessableEntity {
		t.Fatalf("out-of-turn move status = %d: %s", status, body)
	}
	var derr gamedto.DomainError
	if err := json.Unmarshal(body, &derr); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if derr.Code != gamedto.CodeNotYourTurn || !derr.Retryable {
		t.Fatalf("unexpected rejection: %+v", derr)
	}
}

func TestThirdPlayerRejectedOverHTTP(t *testing.T) {
	alice, bob := newTestServer(t)

	_, body := alice.do(http.MethodPost, "/api/sessions", gamedto.CreateRequest{Name: "Alice"})
	var created gamedto.SessionView
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	base := "/api/sessions/" + created.ID
	if status, _ := bob.do(http.MethodPost, base+"/join", gamedto.JoinRequest{Name: "Bob"}); status != http.StatusOK {
		t.Fatalf("join status = %d", status)
	}

	carol := &testClient{t: t, http: bob.http}
	status, body := carol.do(http.MethodPost, base+"/join", gamedto.JoinRequest{Name: "Carol"})
	if status != http.StatusConflict {
		t.Fatalf("third join status = %d: %s", status, body)
	}
	var derr gamedto.DomainError
	if err := json.Unmarshal(body, &derr); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if derr.Code != gamedto.CodeSessionFull {
		t.Fatalf("code = %s, want %s", derr.Code, gamedto.CodeSessionFull)
	}
}

func TestUnknownSessionOverHTTP(t *testing.T) {
	alice, _ := newTestServer(t)
	status, body := alice.do(http.MethodGet, "/api/sessions/doesnotexist", nil)
	if status != http.StatusNotFound {
		t.Fatalf("status = %d: %s", status, body)
	}
	var derr gamedto.DomainError
	if err := json.Unmarshal(body, &derr); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if derr.Code != gamedto.CodeNotFound {
		t.Fatalf("code = %s, want %s", derr.Code, gamedto.CodeNotFound)
	}
}

func TestBoardPNGOverHTTP(t *testing.T) {
	alice, _ := newTestServer(t)
	_, body := alice.do(http.MethodPost, "/api/sessions", gamedto.CreateRequest{Name: "Alice"})
	var created gamedto.SessionView
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}

	req, _ := http.NewRequest(http.MethodGet, fmt.Sprintf("http://game/api/sessions/%s/board.png", created.ID), nil)
	resp, err := alice.http.Do(req)
	if err != nil {
		t.Fatalf("board.png: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("board.png status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Fatalf("content type = %q", ct)
	}
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) == 0 {
		t.Fatalf("empty png body")
	}
}
