// Package match implements nearest-neighbor matching of face descriptors
// against a reference set. It is pure vector math with no engine dependency.
package match

import (
	"math"

	"github.com/facetag/facetag/internal/types"
)

// DefaultTolerance is the engine family's default same-person threshold.
// Two descriptors within this Euclidean distance are considered the same
// person.
const DefaultTolerance = 0.6

// FaceDistance calculates the Euclidean distance between two face
// descriptors. Lower distance means more similar faces.
func FaceDistance(a, b types.Descriptor) float64 {
	var sum float64
	for i := 0; i < len(a); i++ {
		diff := float64(a[i]) - float64(b[i])
		sum += diff * diff
	}
	return math.Sqrt(sum)
}

// FaceDistances calculates the distance between each known descriptor and
// the probe. Results are in the same order as the known descriptors.
func FaceDistances(known []types.Descriptor, probe types.Descriptor) []float64 {
	distances := make([]float64, len(known))
	for i, enc := range known {
		distances[i] = FaceDistance(enc, probe)
	}
	return distances
}

// CompareFaces compares a probe descriptor against every known descriptor
// and reports which of them match (distance <= tolerance). A non-positive
// tolerance falls back to DefaultTolerance.
func CompareFaces(known []types.Descriptor, probe types.Descriptor, tolerance float64) []bool {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}

	distances := FaceDistances(known, probe)
	matches := make([]bool, len(distances))
	for i, distance := range distances {
		matches[i] = distance <= tolerance
	}
	return matches
}

// BestMatch returns the index of the smallest distance, breaking ties in
// favor of the first occurrence. Returns -1 for an empty slice.
func BestMatch(distances []float64) int {
	if len(distances) == 0 {
		return -1
	}

	best := 0
	for i, d := range distances {
		if d < distances[best] {
			best = i
		}
	}
	return best
}
