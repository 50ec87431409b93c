package document

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
)

// Evidence rendering scale: page points to pixels.
const evidenceScale = 2.0

var (
	evidencePaper     = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	evidenceInk       = color.RGBA{R: 210, G: 210, B: 210, A: 255}
	evidenceHighlight = color.RGBA{R: 220, G: 38, B: 38, A: 255}
)

// RenderEvidence rasterizes one page as a PNG: text blocks as filled grey
// boxes, highlights as non-filled red outlines around located values.
func RenderEvidence(page Page, highlights []Rect) ([]byte, error) {
	w := int(page.Width * evidenceScale)
	h := int(page.Height * evidenceScale)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("degenerate page dimensions %gx%g", page.Width, page.Height)
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: evidencePaper}, image.Point{}, draw.Src)

	for _, block := range page.Blocks {
		fillRect(img, scaleRect(block.Box), evidenceInk)
	}
	for _, hl := range highlights {
		outlineRect(img, scaleRect(hl), evidenceHighlight, 3)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode evidence png: %w", err)
	}
	return buf.Bytes(), nil
}

func scaleRect(r Rect) image.Rectangle {
	return image.Rect(
		int(r.X0*evidenceScale), int(r.Y0*evidenceScale),
		int(r.X1*evidenceScale), int(r.Y1*evidenceScale),
	)
}

func fillRect(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	draw.Draw(img, r.Intersect(img.Bounds()), &image.Uniform{C: c}, image.Point{}, draw.Src)
}

// outlineRect draws an unfilled border so the underlying block stays
// visible inside the evidence box.
func outlineRect(img *image.RGBA, r image.Rectangle, c color.RGBA, width int) {
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return
	}
	top := image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+width)
	bottom := image.Rect(r.Min.X, r.Max.Y-width, r.Max.X, r.Max.Y)
	left := image.Rect(r.Min.X, r.Min.Y, r.Min.X+width, r.Max.Y)
	right := image.Rect(r.Max.X-width, r.Min.Y, r.Max.X, r.Max.Y)
	for _, edge := range []image.Rectangle{top, bottom, left, right} {
		fillRect(img, edge, c)
	}
}
