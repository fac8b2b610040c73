// Package render rasterizes receipt text into PNG images. Lines wrapped in
// "**" render with the bold face; separator and blank lines get reduced
// spacing; content that would overflow the canvas is truncated with an
// ellipsis marker instead of failing.
package render

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	canvasWidth  = 600
	canvasHeight = 900
	marginX      = 25
	topMargin    = 25
	lineSpacing  = 32
	bottomGuard  = 30 // stop drawing this close to the bottom edge
)

type Renderer struct {
	bold    font.Face
	regular font.Face
	log     *logrus.Logger
}

// NewRenderer loads the bold/regular font pair from fontDir, trying Arial
// then Courier, and falling back to the builtin bitmap face so rendering
// always works.
func NewRenderer(fontDir string, log *logrus.Logger) *Renderer {
	r := &Renderer{log: log}

	pairs := [][2]string{
		{"arialbd.ttf", "arial.ttf"},
		{"courbd.ttf", "cour.ttf"},
	}
	for _, pair := range pairs {
		bold, err := loadFace(filepath.Join(fontDir, pair[0]), 24)
		if err != nil {
			continue
		}
		regular, err := loadFace(filepath.Join(fontDir, pair[1]), 22)
		if err != nil {
			continue
		}
		r.bold, r.regular = bold, regular
		return r
	}

	log.WithField("font_dir", fontDir).
		Warn("no TTF fonts found, using builtin face; ticket appearance will be basic")
	r.bold = basicfont.Face7x13
	r.regular = basicfont.Face7x13
	return r
}

func loadFace(path string, size float64) (font.Face, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// Ticket draws the text block onto a white canvas and returns PNG bytes.
func (r *Renderer) Ticket(text string) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, canvasWidth, canvasHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	black := image.NewUniform(color.Black)
	y := topMargin

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		face := r.regular

		if strings.HasPrefix(trimmed, "**") {
			face = r.bold
			trimmed = strings.TrimPrefix(trimmed, "**")
			trimmed = strings.TrimSuffix(trimmed, "**")
		}

		r.drawLine(img, black, face, trimmed, y)

		switch {
		case strings.HasPrefix(trimmed, "-----") || strings.HasPrefix(trimmed, "*****"):
			y += lineSpacing * 7 / 10
		case trimmed == "":
			y += lineSpacing / 2
		default:
			y += lineSpacing
		}

		if y > canvasHeight-bottomGuard {
			r.log.Warn("ticket content exceeds canvas height, truncating")
			r.drawLine(img, black, r.regular, "...", y)
			break
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *Renderer) drawLine(dst draw.Image, src image.Image, face font.Face, text string, y int) {
	ascent := face.Metrics().Ascent.Ceil()
	d := &font.Drawer{
		Dst:  dst,
		Src:  src,
		Face: face,
		Dot:  fixed.P(marginX, y+ascent),
	}
	d.DrawString(text)
}
