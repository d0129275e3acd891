package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/dnspavankumar/Chessforces/internal/chess"
)

// Options controls optional board decorations.
type Options struct {
	// Highlight squares get a translucent overlay (typically the last
	// move's origin and destination).
	Highlight []chess.Square
}

// BoardRenderer turns a board snapshot into a PNG image.
type BoardRenderer interface {
	RenderPNG(ctx context.Context, board chess.Board, opts Options) ([]byte, error)
}

type svgBoardRenderer struct{}

func NewSVGBoardRenderer() BoardRenderer { return &svgBoardRenderer{} }

const (
	squareSize = 72
	boardSize  = squareSize * 8
	margin     = 28
)

var (
	backgroundColor = color.RGBA{240, 237, 229, 255}
	lightSquare     = color.RGBA{229, 211, 179, 255}
	darkSquare      = color.RGBA{148, 111, 81, 255}
	highlightColor  = color.NRGBA{R: 246, G: 226, B: 112, A: 130}
	coordinateColor = color.NRGBA{R: 60, G: 52, B: 44, A: 255}
)

func (r *svgBoardRenderer) RenderPNG(ctx context.Context, board chess.Board, opts Options) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	total := boardSize + 2*margin
	img := image.NewRGBA(image.Rect(0, 0, total, total))
	draw.Draw(img, img.Bounds(), image.NewUniform(backgroundColor), image.Point{}, draw.Src)
	origin := image.Point{X: margin, Y: margin}

	drawSquares(img, origin)
	drawHighlights(img, origin, opts.Highlight)
	if err := drawPieces(img, board, origin); err != nil {
		return nil, err
	}
	drawCoordinates(img, origin)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func squareRect(origin image.Point, row, col int) image.Rectangle {
	x := origin.X + col*squareSize
	y := origin.Y + row*squareSize
	return image.Rect(x, y, x+squareSize, y+squareSize)
}

func drawSquares(img *image.RGBA, origin image.Point) {
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			fill := lightSquare
			if (row+col)%2 == 1 {
				fill = darkSquare
			}
			draw.Draw(img, squareRect(origin, row, col), image.NewUniform(fill), image.Point{}, draw.Src)
		}
	}
}

func drawHighlights(img *image.RGBA, origin image.Point, squares []chess.Square) {
	for _, sq := range squares {
		if !sq.InBounds() {
			continue
		}
		draw.Draw(img, squareRect(origin, sq.Row, sq.Col), image.NewUniform(highlightColor), image.Point{}, draw.Over)
	}
}

func drawPieces(img *image.RGBA, board chess.Board, origin image.Point) error {
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			p := board.At(chess.Square{Row: row, Col: col})
			if p.IsEmpty() {
				continue
			}
			glyph, err := pieceImage(p, squareSize)
			if err != nil {
				return err
			}
			draw.Draw(img, squareRect(origin, row, col), glyph, image.Point{}, draw.Over)
		}
	}
	return nil
}

// drawCoordinates labels files a-h along the bottom and ranks 8-1 down
// the left edge, matching the row-0-is-rank-8 board orientation.
func drawCoordinates(img *image.RGBA, origin image.Point) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(coordinateColor),
		Face: basicfont.Face7x13,
	}
	for col := 0; col < 8; col++ {
		label := string(rune('a' + col))
		d.Dot = fixed.P(origin.X+col*squareSize+squareSize/2-3, origin.Y+boardSize+18)
		d.DrawString(label)
	}
	for row := 0; row < 8; row++ {
		label := string(rune('8' - row))
		d.Dot = fixed.P(origin.X-18, origin.Y+row*squareSize+squareSize/2+4)
		d.DrawString(label)
	}
}
