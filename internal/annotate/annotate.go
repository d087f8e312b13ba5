// Package annotate runs the per-frame pipeline: detect faces, identify
// them against the reference set, and draw boxes and name labels into the
// frame buffer.
package annotate

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/facetag/facetag/internal/match"
	"github.com/facetag/facetag/internal/refset"
	"github.com/facetag/facetag/internal/types"
	"github.com/facetag/facetag/internal/video"
)

// UnknownLabel is the name drawn for faces that match no reference within
// tolerance.
const UnknownLabel = "Unknown"

// jpegQuality is used when re-encoding frames for the detector. High enough
// to keep descriptors stable, low enough to keep the per-frame cost down.
const jpegQuality = 90

const labelFontSize = 22

// Recognizer is the slice of the face engine the annotator needs.
type Recognizer interface {
	Recognize(jpegData []byte) ([]types.Face, error)
}

// Annotator identifies and labels faces in successive frames. It reuses
// internal scratch buffers, so it is not safe for concurrent use; frames
// are processed strictly one at a time.
type Annotator struct {
	rec       Recognizer
	refs      *refset.Set
	tolerance float64
	font      font.Face
	scratch   *image.RGBA
	jpegBuf   bytes.Buffer
}

// New builds an Annotator matching against refs at the given tolerance.
func New(rec Recognizer, refs *refset.Set, tolerance float64) (*Annotator, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("cannot parse label font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    labelFontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot build label font face: %w", err)
	}

	return &Annotator{
		rec:       rec,
		refs:      refs,
		tolerance: tolerance,
		font:      face,
	}, nil
}

// ProcessFrame detects, identifies, and labels every face in the frame,
// drawing the annotations in place. The returned result carries either the
// labeled faces or the error that made this frame fail; the caller decides
// whether a failed frame skips or aborts the run.
func (a *Annotator) ProcessFrame(frame *video.BGR24, index int) types.FrameResult {
	a.scratch = frame.ToRGBA(a.scratch)

	a.jpegBuf.Reset()
	if err := jpeg.Encode(&a.jpegBuf, a.scratch, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return types.FrameResult{Index: index, Err: fmt.Errorf("encoding frame for detection: %w", err)}
	}

	faces, err := a.rec.Recognize(a.jpegBuf.Bytes())
	if err != nil {
		return types.FrameResult{Index: index, Err: fmt.Errorf("face detection: %w", err)}
	}

	labeled := make([]types.LabeledFace, 0, len(faces))
	for _, f := range faces {
		lf := types.LabeledFace{Face: f, Match: a.identify(f.Descriptor)}
		a.draw(frame, lf)
		labeled = append(labeled, lf)
	}

	return types.FrameResult{Index: index, Faces: labeled}
}

// identify names a detected face. Only the nearest reference is consulted:
// its match flag decides between a name and Unknown, regardless of any
// other entry's flag.
func (a *Annotator) identify(d types.Descriptor) types.Match {
	if a.refs.Empty() {
		return types.Match{Name: UnknownLabel}
	}

	flags := match.CompareFaces(a.refs.Descriptors(), d, a.tolerance)
	distances := match.FaceDistances(a.refs.Descriptors(), d)
	best := match.BestMatch(distances)

	m := types.Match{Name: UnknownLabel, Distance: distances[best]}
	if flags[best] {
		m.Name = a.refs.Names()[best]
		m.Known = true
	}
	return m
}
