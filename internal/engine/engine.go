// Package engine wraps the dlib face detection and encoding models behind a
// small surface the rest of facetag consumes. The models themselves are an
// opaque external collaborator; nothing here inspects or tunes them.
package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Model describes one of the dlib data files the recognizer loads.
type Model struct {
	Name string
	URL  string
}

// Models lists the files the recognizer requires in the models directory.
// The URLs point at the upstream bzip2 archives.
var Models = []Model{
	{
		Name: "shape_predictor_5_face_landmarks.dat",
		URL:  "http://dlib.net/files/shape_predictor_5_face_landmarks.dat.bz2",
	},
	{
		Name: "dlib_face_recognition_resnet_model_v1.dat",
		URL:  "http://dlib.net/files/dlib_face_recognition_resnet_model_v1.dat.bz2",
	},
	{
		Name: "mmod_human_face_detector.dat",
		URL:  "http://dlib.net/files/mmod_human_face_detector.dat.bz2",
	},
}

// CheckModels verifies that every required model file exists in dir.
// The returned error names what is missing and how to fetch it, so a fresh
// install fails with instructions instead of a bare dlib load error.
func CheckModels(dir string) error {
	var missing []string
	for _, m := range Models {
		if _, err := os.Stat(filepath.Join(dir, m.Name)); err != nil {
			missing = append(missing, m.Name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("models directory %q is missing %s (run 'facetag models --download' to fetch them)",
		dir, strings.Join(missing, ", "))
}
