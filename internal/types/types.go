package types

import "image"

// Descriptor is the 128-dimensional face embedding produced by the
// recognition engine. Reference faces and per-frame detections live in the
// same vector space.
type Descriptor = [128]float32

// Face represents a single face detected in an image or video frame.
type Face struct {
	Rect       image.Rectangle
	Descriptor Descriptor
}

// Match is the outcome of comparing one detected face against the reference
// set. Name is "Unknown" when Known is false, in which case Distance holds
// the distance to the nearest reference (or is meaningless if the set was
// empty).
type Match struct {
	Name     string
	Distance float64
	Known    bool
}

// LabeledFace pairs a detection with its match outcome for drawing.
type LabeledFace struct {
	Face
	Match
}

// FrameResult classifies the outcome of annotating a single frame so the
// driver can apply an explicit skip-or-abort policy instead of letting a
// mid-stream failure propagate uncontrolled.
type FrameResult struct {
	Index int
	Faces []LabeledFace
	Err   error
}

// Failed reports whether the annotation step errored. The frame itself is
// still writable (it passes through untouched).
func (r FrameResult) Failed() bool { return r.Err != nil }
