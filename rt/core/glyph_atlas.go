package core

import (
	"fmt"
	"image"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	atlasSize  = 256
	atlasGap   = 2
	firstGlyph = ' '
	lastGlyph  = '~'
)

type TextVertex struct {
	Pos   [2]float32
	UV    [2]float32
	Color [4]float32
}

type TextItem struct {
	Text     string
	Position [2]float32 // Pixels from the top-left corner
	Scale    float32
	Color    [4]float32
}

// Glyph locates one rasterised rune in the atlas. Rect is relative to the
// pen position on the baseline.
type Glyph struct {
	UV      [4]float32 // u0, v0, u1, v1
	Rect    image.Rectangle
	Advance float32
	ok      bool
}

func (g Glyph) Empty() bool {
	return g.Rect.Empty()
}

// GlyphAtlas holds printable ASCII in Go Mono, packed into one
// single-channel image for the debug overlay.
type GlyphAtlas struct {
	Image      *image.Alpha
	Ascent     float32
	LineHeight float32

	glyphs [lastGlyph - firstGlyph + 1]Glyph
}

func NewGlyphAtlas(fontSize float64) (*GlyphAtlas, error) {
	f, err := opentype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    fontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create face: %w", err)
	}
	defer face.Close()

	m := face.Metrics()
	a := &GlyphAtlas{
		Image:      image.NewAlpha(image.Rect(0, 0, atlasSize, atlasSize)),
		Ascent:     float32(m.Ascent.Ceil()),
		LineHeight: float32(m.Height.Ceil()),
	}

	shelf := shelfPacker{size: atlasSize, x: atlasGap, y: atlasGap}
	for r := rune(firstGlyph); r <= lastGlyph; r++ {
		bounds, mask, maskp, adv, ok := face.Glyph(fixed.Point26_6{}, r)
		if !ok {
			continue
		}
		g := Glyph{Rect: bounds, Advance: float32(adv) / 64, ok: true}

		if !bounds.Empty() {
			at, fits := shelf.place(bounds.Dx(), bounds.Dy())
			if !fits {
				return nil, fmt.Errorf("glyph atlas full at %q (font size %v)", r, fontSize)
			}
			dst := image.Rectangle{Min: at, Max: at.Add(bounds.Size())}
			draw.Draw(a.Image, dst, mask, maskp, draw.Src)
			g.UV = [4]float32{
				float32(dst.Min.X) / atlasSize, float32(dst.Min.Y) / atlasSize,
				float32(dst.Max.X) / atlasSize, float32(dst.Max.Y) / atlasSize,
			}
		}
		a.glyphs[r-firstGlyph] = g
	}
	return a, nil
}

func (a *GlyphAtlas) Glyph(r rune) (Glyph, bool) {
	if r < firstGlyph || r > lastGlyph {
		return Glyph{}, false
	}
	g := a.glyphs[r-firstGlyph]
	return g, g.ok
}

// Layout turns items into two triangles per visible glyph, in NDC for a
// screen of the given pixel size.
func (a *GlyphAtlas) Layout(items []TextItem, screenW, screenH int) []TextVertex {
	if screenW <= 0 || screenH <= 0 {
		return nil
	}
	toNDC := func(x, y float32) [2]float32 {
		return [2]float32{x/float32(screenW)*2 - 1, 1 - y/float32(screenH)*2}
	}

	var out []TextVertex
	for _, item := range items {
		if !a.onScreen(item, screenW, screenH) {
			continue
		}
		s := item.Scale
		penX, penY := item.Position[0], item.Position[1]+a.Ascent*s
		for _, r := range item.Text {
			if r == '\n' {
				penX = item.Position[0]
				penY += a.LineHeight * s
				continue
			}
			g, ok := a.Glyph(r)
			if !ok {
				continue
			}
			if !g.Empty() {
				p0 := toNDC(penX+float32(g.Rect.Min.X)*s, penY+float32(g.Rect.Min.Y)*s)
				p1 := toNDC(penX+float32(g.Rect.Max.X)*s, penY+float32(g.Rect.Max.Y)*s)
				out = appendQuad(out, p0, p1, g.UV, item.Color)
			}
			penX += g.Advance * s
		}
	}
	return out
}

// onScreen reports whether any part of item's text box overlaps the
// screen.
func (a *GlyphAtlas) onScreen(item TextItem, screenW, screenH int) bool {
	w, h := a.Measure(item.Text, item.Scale)
	x, y := item.Position[0], item.Position[1]
	return x < float32(screenW) && y < float32(screenH) && x+w > 0 && y+h > 0
}

func appendQuad(out []TextVertex, p0, p1 [2]float32, uv [4]float32, color [4]float32) []TextVertex {
	tl := TextVertex{Pos: p0, UV: [2]float32{uv[0], uv[1]}, Color: color}
	tr := TextVertex{Pos: [2]float32{p1[0], p0[1]}, UV: [2]float32{uv[2], uv[1]}, Color: color}
	bl := TextVertex{Pos: [2]float32{p0[0], p1[1]}, UV: [2]float32{uv[0], uv[3]}, Color: color}
	br := TextVertex{Pos: p1, UV: [2]float32{uv[2], uv[3]}, Color: color}
	return append(out, tl, tr, bl, tr, br, bl)
}

// Measure returns the pixel size of text at scale. A nil atlas measures
// nothing.
func (a *GlyphAtlas) Measure(text string, scale float32) (width, height float32) {
	if a == nil {
		return 0, 0
	}
	var line float32
	lines := 1
	for _, r := range text {
		if r == '\n' {
			width = max(width, line)
			line = 0
			lines++
			continue
		}
		if g, ok := a.Glyph(r); ok {
			line += g.Advance * scale
		}
	}
	return max(width, line), a.LineHeight * scale * float32(lines)
}

// shelfPacker places rectangles left to right in rows, opening a new row
// below the tallest rectangle of the current one.
type shelfPacker struct {
	size   int
	x, y   int
	rowMax int
}

func (p *shelfPacker) place(w, h int) (image.Point, bool) {
	if p.x+w+atlasGap > p.size {
		p.x = atlasGap
		p.y += p.rowMax + atlasGap
		p.rowMax = 0
	}
	if p.y+h+atlasGap > p.size || w+2*atlasGap > p.size {
		return image.Point{}, false
	}
	at := image.Pt(p.x, p.y)
	p.x += w + atlasGap
	p.rowMax = max(p.rowMax, h)
	return at, true
}
