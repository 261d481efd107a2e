package monitor

import "github.com/workshot/workshot/pkg/window"

// fallbackMonitor is the id reported when no geometry entry matches.
const fallbackMonitor = 1

// GeometryResolver maps a window's screen position to a logical monitor
// index (1-based) using monitor bounds captured at startup. A topology
// change at runtime is not detected; it requires a restart.
type GeometryResolver struct {
	monitors []window.Rect
}

// NewGeometryResolver builds a resolver over the given monitor list. An
// empty list yields a single synthetic 1920x1080 primary.
func NewGeometryResolver(monitors []window.Rect) *GeometryResolver {
	if len(monitors) == 0 {
		monitors = []window.Rect{{Width: 1920, Height: 1080}}
	}
	return &GeometryResolver{monitors: monitors}
}

// Count returns the number of known monitors.
func (g *GeometryResolver) Count() int {
	return len(g.monitors)
}

// Resolve returns the id of the first monitor whose bounds contain the
// window's center point. Unmatched or degenerate bounds resolve to
// monitor 1; classification here is cosmetic and must never fail the tick.
func (g *GeometryResolver) Resolve(bounds window.Rect) int {
	cx, cy := bounds.Center()
	for i, m := range g.monitors {
		if m.Contains(cx, cy) {
			return i + 1
		}
	}
	return fallbackMonitor
}
