package video

import (
	"image"
	"image/color"
)

// BGR24 is an in-memory video frame in ffmpeg's bgr24 pixel order: three
// bytes per pixel, blue first, no padding between rows. It implements
// draw.Image so text and shapes can be rendered straight into the buffer
// that gets piped back to the encoder.
type BGR24 struct {
	// Pix holds the pixels in B, G, R order. The pixel at (x, y) starts at
	// Pix[(y-Rect.Min.Y)*Stride + (x-Rect.Min.X)*3].
	Pix    []uint8
	Stride int
	Rect   image.Rectangle
}

// NewBGR24 returns a frame with the given bounds, backed by a fresh buffer.
func NewBGR24(r image.Rectangle) *BGR24 {
	return &BGR24{
		Pix:    make([]uint8, 3*r.Dx()*r.Dy()),
		Stride: 3 * r.Dx(),
		Rect:   r,
	}
}

func (p *BGR24) ColorModel() color.Model { return color.RGBAModel }

func (p *BGR24) Bounds() image.Rectangle { return p.Rect }

// PixOffset returns the index of the first byte of the pixel at (x, y).
func (p *BGR24) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)*3
}

func (p *BGR24) At(x, y int) color.Color {
	if !(image.Point{x, y}.In(p.Rect)) {
		return color.RGBA{}
	}
	i := p.PixOffset(x, y)
	return color.RGBA{B: p.Pix[i], G: p.Pix[i+1], R: p.Pix[i+2], A: 0xff}
}

func (p *BGR24) Set(x, y int, c color.Color) {
	if !(image.Point{x, y}.In(p.Rect)) {
		return
	}
	i := p.PixOffset(x, y)
	r, g, b, _ := c.RGBA()
	p.Pix[i] = uint8(b >> 8)
	p.Pix[i+1] = uint8(g >> 8)
	p.Pix[i+2] = uint8(r >> 8)
}

// SetBGR writes a pixel without going through the color interface. Hot
// paths that fill rectangles use this directly.
func (p *BGR24) SetBGR(x, y int, b, g, r uint8) {
	if !(image.Point{x, y}.In(p.Rect)) {
		return
	}
	i := p.PixOffset(x, y)
	p.Pix[i] = b
	p.Pix[i+1] = g
	p.Pix[i+2] = r
}

// ToRGBA converts the frame to RGBA for consumers that expect standard
// channel order, such as JPEG encoding for the face detector. When dst has
// matching bounds its buffer is reused, so a single scratch image can serve
// every frame of a video.
func (p *BGR24) ToRGBA(dst *image.RGBA) *image.RGBA {
	if dst == nil || dst.Bounds() != p.Rect {
		dst = image.NewRGBA(p.Rect)
	}
	for y := 0; y < p.Rect.Dy(); y++ {
		src := p.Pix[y*p.Stride:]
		out := dst.Pix[y*dst.Stride:]
		for x := 0; x < p.Rect.Dx(); x++ {
			si, oi := x*3, x*4
			out[oi] = src[si+2]
			out[oi+1] = src[si+1]
			out[oi+2] = src[si]
			out[oi+3] = 0xff
		}
	}
	return dst
}
