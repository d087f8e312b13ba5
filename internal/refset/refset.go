// Package refset builds the reference set of known faces from a directory
// of images. Each image contributes at most one entry; the entry's name is
// the filename with its extension stripped.
package refset

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/facetag/facetag/internal/logging"
	"github.com/facetag/facetag/internal/match"
	"github.com/facetag/facetag/internal/types"
)

// Encoder is the slice of the face engine the loader needs: detect faces in
// a JPEG image and return them with descriptors in detection order.
type Encoder interface {
	Recognize(jpegData []byte) ([]types.Face, error)
}

// Reference is one known face: a name, the image it came from, and its
// descriptor.
type Reference struct {
	Name       string
	Source     string
	Descriptor types.Descriptor
}

// Set is the ordered, immutable collection of references built once per
// run and shared read-only afterwards.
type Set struct {
	refs        []Reference
	names       []string
	descriptors []types.Descriptor
}

// New builds a Set from references, preserving their order.
func New(refs []Reference) *Set {
	s := &Set{
		refs:        refs,
		names:       make([]string, len(refs)),
		descriptors: make([]types.Descriptor, len(refs)),
	}
	for i, r := range refs {
		s.names[i] = r.Name
		s.descriptors[i] = r.Descriptor
	}
	return s
}

// Len returns the number of references.
func (s *Set) Len() int { return len(s.refs) }

// Empty reports whether the set has no references.
func (s *Set) Empty() bool { return len(s.refs) == 0 }

// References returns the references in load order.
func (s *Set) References() []Reference { return s.refs }

// Names returns the reference names in load order.
func (s *Set) Names() []string { return s.names }

// Descriptors returns the reference descriptors in load order.
func (s *Set) Descriptors() []types.Descriptor { return s.descriptors }

// ConfusablePairs returns the index pairs (i < j) of references whose
// descriptors sit within tolerance of each other. Two such references are
// mutually confusable: whichever sorts first in load order will win every
// tie for faces between them.
func (s *Set) ConfusablePairs(tolerance float64) [][2]int {
	var pairs [][2]int
	for i := 0; i < len(s.descriptors); i++ {
		for j := i + 1; j < len(s.descriptors); j++ {
			if match.FaceDistance(s.descriptors[i], s.descriptors[j]) <= tolerance {
				pairs = append(pairs, [2]int{i, j})
			}
		}
	}
	return pairs
}

// EnsureDir creates the known-faces directory when missing. It reports
// whether it had to create it, so the caller can print bootstrap
// instructions on first run.
func EnsureDir(dir string) (created bool, err error) {
	if _, err := os.Stat(dir); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return false, err
	}
	return true, nil
}

// eligible reports whether a directory entry looks like a reference image.
func eligible(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg", ".png":
		return true
	}
	return false
}

// Load scans dir and builds the reference set. A missing directory is
// reported and yields an empty set, not an error; the caller decides
// whether to continue. Per-image failures (unreadable file, no face found)
// are logged and skipped, never fatal to the loader.
func Load(enc Encoder, dir string) (*Set, error) {
	log := logging.Component("refset")

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		log.Errorf("The directory %q does not exist", dir)
		return New(nil), nil
	}

	// ReadDir returns entries sorted by filename, which keeps reference
	// order and argmin tie-breaks deterministic across runs.
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var refs []Reference
	for _, entry := range entries {
		if entry.IsDir() || !eligible(entry.Name()) {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		log.Infof("Loading face from: %s", path)

		desc, ok := loadDescriptor(enc, path, entry.Name(), log)
		if !ok {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		refs = append(refs, Reference{Name: name, Source: path, Descriptor: desc})
	}

	log.Infof("Loaded %d known faces", len(refs))
	return New(refs), nil
}

// loadDescriptor decodes one image and extracts the first detected face's
// descriptor. It reports ok=false for every skip case after logging why.
func loadDescriptor(enc Encoder, path, name string, log logger) (types.Descriptor, bool) {
	var zero types.Descriptor

	// AutoOrientation applies the EXIF rotation, so portrait phone shots
	// are fed to the detector the way the photographer saw them.
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		log.Errorf("Error loading image %s: %v", name, err)
		return zero, false
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(95)); err != nil {
		log.Errorf("Error encoding image %s: %v", name, err)
		return zero, false
	}

	faces, err := enc.Recognize(buf.Bytes())
	if err != nil {
		log.Errorf("Face detection failed on %s: %v", name, err)
		return zero, false
	}
	if len(faces) == 0 {
		log.Warnf("No face found in %s. Skipping.", name)
		return zero, false
	}
	if len(faces) > 1 {
		log.Debugf("%d faces in %s, using the first", len(faces), name)
	}

	return faces[0].Descriptor, true
}

// logger is the subset of a logrus entry the loader uses.
type logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}
