package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	imagedraw "image/draw"
	"image/png"
	"strings"

	"github.com/park285/cheese-chess/internal/engine"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

type MoveHighlight struct {
	From engine.Square
	To   engine.Square
}

type RenderOptions struct {
	Highlight *MoveHighlight
	// Check marks the square of a king in check.
	Check *engine.Square
	// Targets are drawn as dots, typically the legal destinations of one piece.
	Targets   []engine.Square
	HUDHeader string
	HUDTurn   string
}

type BoardRenderer interface {
	RenderPNG(ctx context.Context, grid engine.Grid, opts RenderOptions) ([]byte, error)
}

type svgBoardRenderer struct {
	face font.Face
}

func NewBoardRenderer() BoardRenderer {
	return &svgBoardRenderer{face: basicfont.Face7x13}
}

const (
	squareSize      = 72
	boardSize       = squareSize * engine.Size
	sideMargin      = 36
	topMargin       = 96
	bottomMargin    = 36
	panelHeight     = 30
	panelGap        = 10
	panelRadius     = 10
	panelPaddingX   = 20
	panelMinWidth   = 140
	gapToBoard      = 16
	panelShadowDrop = 4
)

var (
	lightSquare        = color.RGBA{233, 207, 163, 255}
	darkSquare         = color.RGBA{187, 136, 96, 255}
	backgroundColor    = color.RGBA{22, 24, 36, 255}
	moveHighlightFill  = color.NRGBA{R: 255, G: 228, B: 120, A: 140}
	checkOverlayColor  = color.NRGBA{R: 220, G: 40, B: 40, A: 150}
	targetDotColor     = color.NRGBA{R: 30, G: 30, B: 30, A: 110}
	hudPanelColor      = color.NRGBA{R: 28, G: 31, B: 46, A: 250}
	hudShadowColor     = color.NRGBA{0, 0, 0, 50}
	hudTextPrimary     = color.NRGBA{R: 236, G: 239, B: 255, A: 255}
	coordinateTextTint = color.NRGBA{R: 8, G: 214, B: 120, A: 255}
)

func (r *svgBoardRenderer) RenderPNG(ctx context.Context, grid engine.Grid, opts RenderOptions) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	totalWidth := boardSize + sideMargin*2
	totalHeight := boardSize + topMargin + bottomMargin
	origin := image.Point{X: sideMargin, Y: topMargin}
	boardRect := image.Rect(origin.X, origin.Y, origin.X+boardSize, origin.Y+boardSize)

	img := image.NewRGBA(image.Rect(0, 0, totalWidth, totalHeight))
	imagedraw.Draw(img, img.Bounds(), image.NewUniform(backgroundColor), image.Point{}, imagedraw.Src)

	r.drawHUD(img, opts, boardRect)
	drawSquares(img, origin)
	if opts.Highlight != nil {
		drawSquareOverlay(img, opts.Highlight.From, origin, moveHighlightFill)
		drawSquareOverlay(img, opts.Highlight.To, origin, moveHighlightFill)
	}
	if opts.Check != nil {
		drawSquareOverlay(img, *opts.Check, origin, checkOverlayColor)
	}
	if err := drawPieces(img, grid, origin); err != nil {
		return nil, err
	}
	for _, sq := range opts.Targets {
		rect := squareRect(sq, origin)
		center := image.Pt(rect.Min.X+squareSize/2, rect.Min.Y+squareSize/2)
		drawDisc(img, center, squareSize/8, targetDotColor)
	}
	r.drawCoordinates(img, origin)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func drawSquares(dst imagedraw.Image, origin image.Point) {
	for row := 0; row < engine.Size; row++ {
		for col := 0; col < engine.Size; col++ {
			rect := squareRect(engine.NewSquare(row, col), origin)
			imagedraw.Draw(dst, rect, image.NewUniform(squareColor(row, col)), image.Point{}, imagedraw.Src)
		}
	}
}

func drawPieces(dst imagedraw.Image, grid engine.Grid, origin image.Point) error {
	for row := 0; row < engine.Size; row++ {
		for col := 0; col < engine.Size; col++ {
			p := grid[row][col]
			if p.IsZero() {
				continue
			}
			glyph, err := renderPieceImage(p, squareSize)
			if err != nil {
				return err
			}
			rect := squareRect(engine.NewSquare(row, col), origin)
			imagedraw.Draw(dst, rect, glyph, image.Point{}, imagedraw.Over)
		}
	}
	return nil
}

func (r *svgBoardRenderer) drawHUD(img *image.RGBA, opts RenderOptions, boardRect image.Rectangle) {
	drawer := &font.Drawer{Dst: img, Face: r.face}

	title := strings.TrimSpace(opts.HUDHeader)
	if title == "" {
		title = "White vs Black"
	}
	turn := strings.TrimSpace(opts.HUDTurn)

	turnBottom := boardRect.Min.Y - gapToBoard
	turnTop := turnBottom - panelHeight
	titleBottom := turnTop - panelGap
	titleTop := titleBottom - panelHeight

	titleWidth := panelWidth(drawer, title, boardRect.Dx())
	titleRect := image.Rect(boardRect.Min.X, titleTop, boardRect.Min.X+titleWidth, titleBottom)
	drawRoundedPanel(img, titleRect.Add(image.Pt(0, panelShadowDrop)), panelRadius, hudShadowColor)
	drawRoundedPanel(img, titleRect, panelRadius, hudPanelColor)
	drawCenteredString(drawer, titleRect, title, hudTextPrimary)

	if turn == "" {
		return
	}
	turnWidth := panelWidth(drawer, turn, boardRect.Dx())
	left := boardRect.Min.X + (boardRect.Dx()-turnWidth)/2
	turnRect := image.Rect(left, turnTop, left+turnWidth, turnBottom)
	drawRoundedPanel(img, turnRect.Add(image.Pt(0, panelShadowDrop)), panelRadius, hudShadowColor)
	drawRoundedPanel(img, turnRect, panelRadius, hudPanelColor)
	drawCenteredString(drawer, turnRect, turn, hudTextPrimary)
}

func panelWidth(drawer *font.Drawer, text string, maxWidth int) int {
	w := drawer.MeasureString(text).Round() + panelPaddingX*2
	if w < panelMinWidth {
		w = panelMinWidth
	}
	if w > maxWidth {
		w = maxWidth
	}
	return w
}

func (r *svgBoardRenderer) drawCoordinates(img *image.RGBA, origin image.Point) {
	drawer := &font.Drawer{Dst: img, Face: r.face, Src: image.NewUniform(coordinateTextTint)}
	ascent := r.face.Metrics().Ascent.Ceil()
	boardEndY := origin.Y + boardSize
	for i := 0; i < engine.Size; i++ {
		rank := fmt.Sprint(engine.Size - i)
		rankCenter := origin.Y + i*squareSize + squareSize/2
		drawCenteredText(drawer, rank, origin.X-sideMargin/2, rankCenter+ascent/2)

		file := string(rune('a' + i))
		fileCenter := origin.X + i*squareSize + squareSize/2
		drawCenteredText(drawer, file, fileCenter, boardEndY+ascent+4)
	}
}

func drawCenteredString(drawer *font.Drawer, rect image.Rectangle, text string, clr color.Color) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	metrics := drawer.Face.Metrics()
	width := drawer.MeasureString(text).Round()
	x := rect.Min.X + (rect.Dx()-width)/2
	if x < rect.Min.X {
		x = rect.Min.X
	}
	baseline := rect.Min.Y + (rect.Dy()+metrics.Ascent.Ceil()-metrics.Descent.Ceil())/2
	drawer.Src = image.NewUniform(clr)
	drawer.Dot = fixed.P(x, baseline)
	drawer.DrawString(text)
}

func drawCenteredText(drawer *font.Drawer, text string, centerX, baseline int) {
	width := drawer.MeasureString(text).Round()
	drawer.Dot = fixed.P(centerX-width/2, baseline)
	drawer.DrawString(text)
}

func squareRect(sq engine.Square, origin image.Point) image.Rectangle {
	x := origin.X + sq.Col*squareSize
	y := origin.Y + sq.Row*squareSize
	return image.Rect(x, y, x+squareSize, y+squareSize)
}

// a8 (row 0, col 0) is a light square.
func squareColor(row, col int) color.Color {
	if (row+col)%2 == 0 {
		return lightSquare
	}
	return darkSquare
}
