package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/workshot/workshot/pkg/window"
)

func dualMonitors() []window.Rect {
	return []window.Rect{
		{X: 0, Y: 0, Width: 1920, Height: 1080},
		{X: 1920, Y: 0, Width: 2560, Height: 1440},
	}
}

func TestResolveByCenterPoint(t *testing.T) {
	g := NewGeometryResolver(dualMonitors())

	tests := []struct {
		name   string
		bounds window.Rect
		want   int
	}{
		{"fully on primary", window.Rect{X: 100, Y: 100, Width: 800, Height: 600}, 1},
		{"fully on secondary", window.Rect{X: 2000, Y: 50, Width: 800, Height: 600}, 2},
		{"straddles, center on primary", window.Rect{X: 1400, Y: 0, Width: 800, Height: 600}, 1},
		{"straddles, center on secondary", window.Rect{X: 1600, Y: 0, Width: 800, Height: 600}, 2},
		{"off screen", window.Rect{X: -5000, Y: -5000, Width: 100, Height: 100}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, g.Resolve(tt.bounds))
		})
	}
}

func TestResolveEmptyGeometryFallsBack(t *testing.T) {
	g := NewGeometryResolver(nil)

	assert.Equal(t, 1, g.Count())
	assert.Equal(t, 1, g.Resolve(window.Rect{X: 10, Y: 10, Width: 100, Height: 100}))
}

func TestRectContainsHalfOpen(t *testing.T) {
	r := window.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}

	assert.True(t, r.Contains(0, 0))
	assert.True(t, r.Contains(1919, 1079))
	assert.False(t, r.Contains(1920, 0))
	assert.False(t, r.Contains(0, 1080))
}
