// Package bbox holds the geographic extent extracted from a query.
package bbox

import (
	"fmt"
	"math"
	"strconv"
)

// Size is the number of coordinates in a bounding box.
const Size = 4

// BoundingBox is (xll, yll, xur, yur): lower-left longitude and latitude, then
// upper-right longitude and latitude. Coordinates are kept as the model wrote them.
type BoundingBox struct {
	coords [Size]string
}

// New builds a bounding box from exactly four coordinates.
func New(coords []string) (BoundingBox, error) {
	if len(coords) != Size {
		return BoundingBox{}, fmt.Errorf("bbox needs %d coordinates, got %d", Size, len(coords))
	}
	var b BoundingBox
	copy(b.coords[:], coords)
	return b, nil
}

// Coordinates returns a copy of the four coordinate strings.
func (b BoundingBox) Coordinates() []string {
	out := make([]string, Size)
	copy(out, b.coords[:])
	return out
}

// XLL returns the lower-left longitude.
func (b BoundingBox) XLL() string { return b.coords[0] }

// YLL returns the lower-left latitude.
func (b BoundingBox) YLL() string { return b.coords[1] }

// XUR returns the upper-right longitude.
func (b BoundingBox) XUR() string { return b.coords[2] }

// YUR returns the upper-right latitude.
func (b BoundingBox) YUR() string { return b.coords[3] }

// Floats parses the coordinates for consumers that need numbers (STAC search).
func (b BoundingBox) Floats() ([]float64, error) {
	return ParseFloats(b.coords[:])
}

// ParseFloats converts coordinate strings to float64, rejecting anything but 4 values.
func ParseFloats(coords []string) ([]float64, error) {
	if len(coords) != Size {
		return nil, fmt.Errorf("bbox needs %d coordinates, got %d", Size, len(coords))
	}
	out := make([]float64, Size)
	for i, c := range coords {
		f, err := strconv.ParseFloat(c, 64)
		if err != nil {
			return nil, fmt.Errorf("bbox coordinate %d: %w", i, err)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("bbox coordinate %d: %q is not a finite number", i, c)
		}
		out[i] = f
	}
	return out, nil
}
