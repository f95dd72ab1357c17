package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"

	"github.com/park285/cheese-chess/internal/engine"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// Glyph bodies drawn on a 45x45 canvas. %[1]s is the fill, %[2]s the stroke.
var glyphBodies = map[engine.Kind]string{
	engine.Pawn: `<path d="M22.5 9 C19.5 9 17.5 11.5 17.5 14 C17.5 15.5 18.2 16.9 19.3 17.8 C16.8 19.2 15 21.9 15 25 L18.5 25 C16 27 14 30.5 13.5 36 L31.5 36 C31 30.5 29 27 26.5 25 L30 25 C30 21.9 28.2 19.2 25.7 17.8 C26.8 16.9 27.5 15.5 27.5 14 C27.5 11.5 25.5 9 22.5 9 Z" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>`,
	engine.Rook: `<path d="M9 39 L36 39 L36 36 L9 36 Z M12 36 L12 32 L33 32 L33 36 Z M11 14 L11 9 L15 9 L15 11 L20 11 L20 9 L25 9 L25 11 L30 11 L30 9 L34 9 L34 14 Z M14 17 L31 17 L31 29.5 L14 29.5 Z M12 32 L14 29.5 L31 29.5 L33 32 Z M11 14 L34 14 L31 17 L14 17 Z" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>`,
	engine.Knight: `<path d="M22 10 C32.5 11 38.5 18 38 39 L15 39 C15 30 25 32.5 23 18 Z" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>` +
		`<path d="M24 18 C24.4 20.9 18.5 25.4 16 27 C13 29 13.2 31.3 11 31 C10 30.1 12.4 28 11 28 C10 28 11.2 29.2 10 30 C9 30 6 31 6 26 C6 24 12 14 12 14 C12 14 13.9 12.1 14 10.5 C13.3 9.5 13.5 8.5 13.5 7.5 C14.5 6.5 16.5 10 16.5 10 L18.5 10 C18.5 10 19.3 8 21 7 C22 7 22 10 22 10" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>`,
	engine.Bishop: `<path d="M9 36 C12.4 35 19.1 36.4 22.5 34 C25.9 36.4 32.6 35 36 36 C36 36 37.6 36.5 39 38 C38.3 39 37.4 39 36 38.5 C32.6 37.5 25.9 38.9 22.5 37.5 C19.1 38.9 12.4 37.5 9 38.5 C7.6 39 6.7 39 6 38 C7.4 36.5 9 36 9 36 Z" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>` +
		`<path d="M15 32 C17.5 34.5 27.5 34.5 30 32 C30.5 30.5 30 30 30 30 C30 27.5 27.5 26 27.5 26 C33 24.5 33.5 14.5 22.5 10.5 C11.5 14.5 12 24.5 17.5 26 C17.5 26 15 27.5 15 30 C15 30 14.5 30.5 15 32 Z" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>` +
		`<circle cx="22.5" cy="8" r="2.5" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>`,
	engine.Queen: `<path d="M9 26 C17.5 24.5 30 24.5 36 26 L38.5 13.5 L31 25 L30.7 10.9 L25.5 24.5 L22.5 10 L19.5 24.5 L14.3 10.9 L14 25 L6.5 13.5 Z" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>` +
		`<path d="M9 26 C9 28 10.5 28 11.5 30 C12.5 31.5 12.5 31 12 33.5 C10.5 34.5 11 36 11 36 C9.5 37.5 11 38.5 11 38.5 C17.5 39.5 27.5 39.5 34 38.5 C34 38.5 35.5 37.5 34 36 C34 36 34.5 34.5 33 33.5 C32.5 31 32.5 31.5 33.5 30 C34.5 28 36 28 36 26 C27.5 24.5 17.5 24.5 9 26 Z" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>` +
		`<circle cx="6" cy="12" r="2" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>` +
		`<circle cx="14" cy="9" r="2" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>` +
		`<circle cx="22.5" cy="8" r="2" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>` +
		`<circle cx="31" cy="9" r="2" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>` +
		`<circle cx="39" cy="12" r="2" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>`,
	engine.King: `<path d="M21 6 L24 6 L24 9 L27 9 L27 12 L24 12 L24 16 L21 16 L21 12 L18 12 L18 9 L21 9 Z" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>` +
		`<path d="M22.5 25 C22.5 25 27 17.5 25.5 14.5 C25.5 14.5 24.5 12 22.5 12 C20.5 12 19.5 14.5 19.5 14.5 C18 17.5 22.5 25 22.5 25 Z" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>` +
		`<path d="M12.5 37 C18 40.5 27 40.5 32.5 37 L32.5 30 C32.5 30 41.5 25.5 38.5 19.5 C34.5 13 25 16 22.5 23.5 L22.5 27 L22.5 23.5 C20 16 10.5 13 6.5 19.5 C3.5 25.5 12.5 30 12.5 30 Z" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>`,
}

type glyphKey struct {
	kind  engine.Kind
	color engine.Color
	size  int
}

var (
	glyphCache   = map[glyphKey]image.Image{}
	glyphCacheMu sync.RWMutex
)

// pieceSVG returns the SVG document for p.
func pieceSVG(p engine.Piece) ([]byte, error) {
	body, ok := glyphBodies[p.Kind]
	if !ok {
		return nil, fmt.Errorf("no glyph for piece kind %d", p.Kind)
	}
	fill, stroke := "#ffffff", "#000000"
	if p.Color == engine.Black {
		fill, stroke = "#1f1f1f", "#000000"
	}
	var b bytes.Buffer
	b.WriteString(`<svg xmlns="http://www.w3.org/2000/svg" width="45" height="45" viewBox="0 0 45 45">`)
	fmt.Fprintf(&b, body, fill, stroke)
	b.WriteString(`</svg>`)
	return b.Bytes(), nil
}

// renderPieceImage rasterises p at size x size pixels. Results are cached.
func renderPieceImage(p engine.Piece, size int) (image.Image, error) {
	key := glyphKey{kind: p.Kind, color: p.Color, size: size}

	glyphCacheMu.RLock()
	if img, ok := glyphCache[key]; ok {
		glyphCacheMu.RUnlock()
		return img, nil
	}
	glyphCacheMu.RUnlock()

	data, err := pieceSVG(p)
	if err != nil {
		return nil, err
	}
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse %s %s glyph: %w", p.Color, p.Kind, err)
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Transparent), image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)

	glyphCacheMu.Lock()
	glyphCache[key] = img
	glyphCacheMu.Unlock()

	return img, nil
}
