package window

import "errors"

// ErrNoWindow is returned when no window currently holds focus.
var ErrNoWindow = errors.New("no focused window")

// Rect is a screen-space bounding box in pixels.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Contains reports whether the point (x, y) lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Center returns the rectangle's center point.
func (r Rect) Center() (int, int) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// WindowInfo represents information about the currently focused window
type WindowInfo struct {
	AppName     string
	WindowTitle string
	Bounds      Rect
}

// Provider is the interface all window/input detection implementations
// must satisfy. Implementations must not block indefinitely; the sampling
// loop calls these once per tick.
type Provider interface {
	// SampleForegroundWindow returns the focused window, or ErrNoWindow
	// when nothing has focus.
	SampleForegroundWindow() (*WindowInfo, error)

	// RawIdleSeconds returns seconds since the last keyboard/mouse input.
	// Returns 0 when the idle timer cannot be read.
	RawIdleSeconds() float64

	// MonitorGeometry returns the monitor bounding boxes, ordered with the
	// primary monitor first. Queried once at startup; a topology change
	// requires a restart.
	MonitorGeometry() []Rect

	// Close cleans up any resources used by the provider
	Close() error
}
