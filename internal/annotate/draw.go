package annotate

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/facetag/facetag/internal/types"
	"github.com/facetag/facetag/internal/video"
)

const (
	boxThickness = 2
	stripHeight  = 35
	labelInsetX  = 6
	labelInsetY  = 6
)

// Annotation color in BGR byte order.
const (
	boxB uint8 = 0
	boxG uint8 = 0
	boxR uint8 = 255
)

// draw renders one labeled face into the frame: a box around the face, a
// filled strip along its bottom edge, and the name on the strip.
func (a *Annotator) draw(frame *video.BGR24, lf types.LabeledFace) {
	strokeRect(frame, lf.Rect, boxThickness)

	strip := image.Rect(lf.Rect.Min.X, lf.Rect.Max.Y-stripHeight, lf.Rect.Max.X, lf.Rect.Max.Y)
	fillRect(frame, strip)

	drawLabel(frame, a.font, lf.Match.Name, lf.Rect.Min.X+labelInsetX, lf.Rect.Max.Y-labelInsetY)
}

// fillRect paints the intersection of r and the frame bounds.
func fillRect(frame *video.BGR24, r image.Rectangle) {
	r = r.Intersect(frame.Bounds())
	if r.Empty() {
		return
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		i := frame.PixOffset(r.Min.X, y)
		for x := r.Min.X; x < r.Max.X; x++ {
			frame.Pix[i] = boxB
			frame.Pix[i+1] = boxG
			frame.Pix[i+2] = boxR
			i += 3
		}
	}
}

// strokeRect draws a border of the given thickness just inside r, clamped
// to the frame.
func strokeRect(frame *video.BGR24, r image.Rectangle, thickness int) {
	fillRect(frame, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+thickness))
	fillRect(frame, image.Rect(r.Min.X, r.Max.Y-thickness, r.Max.X, r.Max.Y))
	fillRect(frame, image.Rect(r.Min.X, r.Min.Y, r.Min.X+thickness, r.Max.Y))
	fillRect(frame, image.Rect(r.Max.X-thickness, r.Min.Y, r.Max.X, r.Max.Y))
}

// drawLabel renders white text with its baseline at (x, y). The frame's
// Set method drops out-of-bounds pixels, so labels at the frame edge clip
// instead of wrapping or panicking.
func drawLabel(frame *video.BGR24, face font.Face, text string, x, y int) {
	d := &font.Drawer{
		Dst:  frame,
		Src:  image.NewUniform(color.White),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
