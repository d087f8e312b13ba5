package engine

import (
	"fmt"

	"github.com/Kagami/go-face"

	"github.com/facetag/facetag/internal/logging"
	"github.com/facetag/facetag/internal/types"
)

// DlibEngine detects and encodes faces using dlib via go-face. It is not
// safe for concurrent use; the annotation pipeline is strictly sequential,
// so one instance serves the whole run.
type DlibEngine struct {
	rec *face.Recognizer
}

// New loads the dlib models from modelsDir and returns a ready engine.
// Loading is expensive (the resnet model alone is ~20MB of weights), so
// callers create one engine per run and reuse it.
func New(modelsDir string) (*DlibEngine, error) {
	if err := CheckModels(modelsDir); err != nil {
		return nil, err
	}

	logging.Component("engine").Infof("Loading face recognition models from %s", modelsDir)
	rec, err := face.NewRecognizer(modelsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load models: %w", err)
	}

	return &DlibEngine{rec: rec}, nil
}

// Recognize returns every face found in a JPEG image, each with its
// bounding rectangle and 128-dimensional descriptor, in detection order.
// A frame with no faces returns an empty slice, not an error.
func (e *DlibEngine) Recognize(jpegData []byte) ([]types.Face, error) {
	faces, err := e.rec.Recognize(jpegData)
	if err != nil {
		return nil, fmt.Errorf("face detection failed: %w", err)
	}

	result := make([]types.Face, len(faces))
	for i, f := range faces {
		result[i] = types.Face{
			Rect:       f.Rectangle,
			Descriptor: f.Descriptor,
		}
	}
	return result, nil
}

// Close releases the dlib resources.
func (e *DlibEngine) Close() {
	if e.rec != nil {
		e.rec.Close()
		e.rec = nil
	}
}
