// Package overlay places greeting text to the right of a picture.
package overlay

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	// Avatars are sometimes served as webp.
	_ "golang.org/x/image/webp"
)

// lineSpacing is the extra gap in pixels between text lines.
const lineSpacing = 4

// Greeting builds the text drawn next to a contact's picture.
func Greeting(name, addText string) string {
	return "祝" + name + "\n" + addText
}

// ParseFont parses TrueType font data.
func ParseFont(data []byte) (*truetype.Font, error) {
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return f, nil
}

// LoadFont reads and parses the TrueType font at path.
func LoadFont(path string) (*truetype.Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font %s: %w", path, err)
	}
	return ParseFont(data)
}

// Renderer draws text with a fixed font, pixel size and colour.
type Renderer struct {
	Font  *truetype.Font
	Size  float64
	Color color.Color
}

// Render returns a white canvas twice as wide as src with src on the left
// half and text starting at (width, height/2). Lines are split on '\n'.
func (r *Renderer) Render(src image.Image, text string) *image.NRGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()

	canvas := imaging.New(2*w, h, color.White)
	canvas = imaging.Paste(canvas, src, image.Pt(0, 0))

	face := truetype.NewFace(r.Font, &truetype.Options{Size: r.Size, DPI: 72, Hinting: font.HintingFull})
	defer face.Close()

	d := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(r.textColor()),
		Face: face,
	}

	m := face.Metrics()
	dot := fixed.P(w, h/2)
	dot.Y += m.Ascent

	for _, line := range strings.Split(text, "\n") {
		d.Dot = dot
		d.DrawString(line)
		dot.Y += m.Height + fixed.I(lineSpacing)
	}

	return canvas
}

// RenderFile renders the picture at in with text and saves it to out.
// The output format follows the extension of out.
func (r *Renderer) RenderFile(in, out, text string) error {
	src, err := imaging.Open(in)
	if err != nil {
		return fmt.Errorf("open %s: %w", in, err)
	}

	if err := imaging.Save(r.Render(src, text), out); err != nil {
		return fmt.Errorf("save %s: %w", out, err)
	}

	return nil
}

func (r *Renderer) textColor() color.Color {
	if r.Color == nil {
		return color.Black
	}
	return r.Color
}
