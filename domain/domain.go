package domain

import (
	"image"
	"image/color"
)

// Channel names one of the three colour components of a pixel.
type Channel int

const (
	Red Channel = iota
	Green
	Blue
)

// Channels lists the channels in the order they are laid out in a sheet.
var Channels = [...]Channel{Red, Green, Blue}

func (c Channel) String() string {
	switch c {
	case Red:
		return "R"
	case Green:
		return "G"
	case Blue:
		return "B"
	}
	return "?"
}

// Pixel is a single RGB sample with 8-bit channels.
type Pixel struct {
	R, G, B uint8
}

// Value returns the intensity of channel c.
func (p Pixel) Value(c Channel) uint8 {
	switch c {
	case Red:
		return p.R
	case Green:
		return p.G
	default:
		return p.B
	}
}

// Image is an immutable row-major grid of pixels.
type Image struct {
	width  int
	height int
	pix    []Pixel
}

// NewImage builds a w×h image from row-major pixels.
// It panics if len(pix) != w*h.
func NewImage(w, h int, pix []Pixel) Image {
	if w < 0 || h < 0 || len(pix) != w*h {
		panic("domain: pixel count does not match dimensions")
	}
	cp := make([]Pixel, len(pix))
	copy(cp, pix)
	return Image{width: w, height: h, pix: cp}
}

// FromImage samples src into an Image. Colours are converted to
// non-premultiplied RGBA first and alpha is dropped.
func FromImage(src image.Image) Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	pix := make([]Pixel, 0, w*h)

	for y := range h {
		for x := range w {
			c := color.NRGBAModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			pix = append(pix, Pixel{R: c.R, G: c.G, B: c.B})
		}
	}

	return Image{width: w, height: h, pix: pix}
}

func (img Image) Width() int  { return img.width }
func (img Image) Height() int { return img.height }

// At returns the pixel at column x, row y.
func (img Image) At(x, y int) Pixel {
	return img.pix[y*img.width+x]
}

// Contact is one row of a contact export that carries an avatar URL.
type Contact struct {
	Name      string
	AvatarURL string
}
