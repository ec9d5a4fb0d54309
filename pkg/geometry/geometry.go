package geometry

import (
	"fmt"
	"math"
)

// NormalizedMax is the upper bound of the normalized coordinate space.
// Seat positions are stored as percentages of the chart image dimensions
// so a chart authored against a 4000x3000 upload renders correctly at
// any display resolution.
const NormalizedMax = 100.0

// ImageSize holds pixel dimensions of a chart image.
type ImageSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (s ImageSize) Valid() bool {
	return s.Width > 0 && s.Height > 0
}

// Normalized is a resolution-independent seat position, each axis in [0,100].
type Normalized struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (n Normalized) Valid() bool {
	return n.X >= 0 && n.X <= NormalizedMax && n.Y >= 0 && n.Y <= NormalizedMax
}

// ToNormalized converts a pixel coordinate within the given image into
// normalized space. Called once, at seat-creation time. Points outside the
// image bounds are rejected, not clamped.
func ToNormalized(pixelX, pixelY float64, size ImageSize) (Normalized, error) {
	if !size.Valid() {
		return Normalized{}, fmt.Errorf("invalid image size %dx%d", size.Width, size.Height)
	}

	if pixelX < 0 || pixelY < 0 || pixelX > float64(size.Width) || pixelY > float64(size.Height) {
		return Normalized{}, fmt.Errorf("pixel (%.1f, %.1f) outside image bounds %dx%d",
			pixelX, pixelY, size.Width, size.Height)
	}

	return Normalized{
		X: pixelX / float64(size.Width) * NormalizedMax,
		Y: pixelY / float64(size.Height) * NormalizedMax,
	}, nil
}

// ToPixel converts a normalized position back to pixel space at any target
// resolution. Applied at every render.
func ToPixel(n Normalized, target ImageSize) (pixelX, pixelY float64) {
	pixelX = n.X / NormalizedMax * float64(target.Width)
	pixelY = n.Y / NormalizedMax * float64(target.Height)
	return pixelX, pixelY
}

// Distance returns the Euclidean distance between two normalized positions.
func Distance(a, b Normalized) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// TooClose reports whether two positions fall within epsilon of each other.
// Used to reject accidental overlapping seat placement.
func TooClose(a, b Normalized, epsilon float64) bool {
	return Distance(a, b) < epsilon
}
