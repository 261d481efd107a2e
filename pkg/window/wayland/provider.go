// Package wayland samples the foreground window on wlroots-style
// compositors through their IPC CLIs. Sway and Hyprland are supported;
// other compositors expose no stable query interface.
package wayland

import (
	"encoding/json"
	"fmt"
	"os/exec"

	"github.com/workshot/workshot/pkg/window"
)

const (
	compositorSway     = "sway"
	compositorHyprland = "hyprland"
)

// Provider implements window.Provider on top of swaymsg or hyprctl.
// Wayland has no global input-idle counter, so RawIdleSeconds always
// reports zero and idle detection degrades to never-idle.
type Provider struct {
	compositor string
}

// NewProvider detects a supported compositor by its running process and
// verifies its IPC client is on PATH.
func NewProvider() (*Provider, error) {
	for _, c := range []struct {
		process, name, client string
	}{
		{"sway", compositorSway, "swaymsg"},
		{"Hyprland", compositorHyprland, "hyprctl"},
	} {
		if exec.Command("pgrep", "-x", c.process).Run() != nil {
			continue
		}
		if _, err := exec.LookPath(c.client); err != nil {
			return nil, fmt.Errorf("%s is running but %s is not on PATH", c.process, c.client)
		}
		return &Provider{compositor: c.name}, nil
	}

	return nil, fmt.Errorf("no supported wayland compositor found (sway, hyprland)")
}

// Compositor returns the detected compositor name.
func (p *Provider) Compositor() string {
	return p.compositor
}

func (p *Provider) SampleForegroundWindow() (*window.WindowInfo, error) {
	switch p.compositor {
	case compositorSway:
		return p.sampleSway()
	case compositorHyprland:
		return p.sampleHyprland()
	default:
		return nil, fmt.Errorf("unsupported compositor: %s", p.compositor)
	}
}

// RawIdleSeconds reports zero: no compositor-agnostic idle counter
// exists on Wayland.
func (p *Provider) RawIdleSeconds() float64 {
	return 0
}

func (p *Provider) MonitorGeometry() []window.Rect {
	switch p.compositor {
	case compositorSway:
		return p.swayOutputs()
	case compositorHyprland:
		return p.hyprlandMonitors()
	default:
		return nil
	}
}

func (p *Provider) Close() error {
	return nil
}

// swayNode is the subset of the sway tree we walk. Focus, identity and
// geometry; everything else in the tree is ignored.
type swayNode struct {
	Focused          bool   `json:"focused"`
	AppID            string `json:"app_id"`
	Name             string `json:"name"`
	WindowProperties struct {
		Class string `json:"class"`
	} `json:"window_properties"`
	Rect struct {
		X      int `json:"x"`
		Y      int `json:"y"`
		Width  int `json:"width"`
		Height int `json:"height"`
	} `json:"rect"`
	Nodes         []swayNode `json:"nodes"`
	FloatingNodes []swayNode `json:"floating_nodes"`
}

func (p *Provider) sampleSway() (*window.WindowInfo, error) {
	output, err := exec.Command("swaymsg", "-t", "get_tree").Output()
	if err != nil {
		return nil, fmt.Errorf("swaymsg failed: %w", err)
	}

	var root swayNode
	if err := json.Unmarshal(output, &root); err != nil {
		return nil, fmt.Errorf("failed to parse sway tree: %w", err)
	}

	focused := findFocused(&root)
	if focused == nil {
		return nil, window.ErrNoWindow
	}

	appName := focused.AppID
	if appName == "" {
		// XWayland clients carry an X11 class instead of an app_id.
		appName = focused.WindowProperties.Class
	}
	if appName == "" {
		return nil, window.ErrNoWindow
	}

	return &window.WindowInfo{
		AppName:     appName,
		WindowTitle: focused.Name,
		Bounds: window.Rect{
			X:      focused.Rect.X,
			Y:      focused.Rect.Y,
			Width:  focused.Rect.Width,
			Height: focused.Rect.Height,
		},
	}, nil
}

// findFocused walks tiled and floating children for the focused leaf.
func findFocused(node *swayNode) *swayNode {
	if node.Focused && len(node.Nodes) == 0 && len(node.FloatingNodes) == 0 {
		return node
	}
	for i := range node.Nodes {
		if found := findFocused(&node.Nodes[i]); found != nil {
			return found
		}
	}
	for i := range node.FloatingNodes {
		if found := findFocused(&node.FloatingNodes[i]); found != nil {
			return found
		}
	}
	return nil
}

type swayOutput struct {
	Active bool `json:"active"`
	Rect   struct {
		X      int `json:"x"`
		Y      int `json:"y"`
		Width  int `json:"width"`
		Height int `json:"height"`
	} `json:"rect"`
}

func (p *Provider) swayOutputs() []window.Rect {
	output, err := exec.Command("swaymsg", "-t", "get_outputs").Output()
	if err != nil {
		return nil
	}

	var outputs []swayOutput
	if err := json.Unmarshal(output, &outputs); err != nil {
		return nil
	}

	rects := make([]window.Rect, 0, len(outputs))
	for _, o := range outputs {
		if !o.Active {
			continue
		}
		rects = append(rects, window.Rect{
			X:      o.Rect.X,
			Y:      o.Rect.Y,
			Width:  o.Rect.Width,
			Height: o.Rect.Height,
		})
	}
	return rects
}

type hyprlandWindow struct {
	Class string `json:"class"`
	Title string `json:"title"`
	At    [2]int `json:"at"`
	Size  [2]int `json:"size"`
}

func (p *Provider) sampleHyprland() (*window.WindowInfo, error) {
	output, err := exec.Command("hyprctl", "activewindow", "-j").Output()
	if err != nil {
		return nil, fmt.Errorf("hyprctl failed: %w", err)
	}

	var win hyprlandWindow
	if err := json.Unmarshal(output, &win); err != nil {
		return nil, fmt.Errorf("failed to parse hyprctl output: %w", err)
	}

	if win.Class == "" {
		return nil, window.ErrNoWindow
	}

	return &window.WindowInfo{
		AppName:     win.Class,
		WindowTitle: win.Title,
		Bounds: window.Rect{
			X:      win.At[0],
			Y:      win.At[1],
			Width:  win.Size[0],
			Height: win.Size[1],
		},
	}, nil
}

type hyprlandMonitor struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (p *Provider) hyprlandMonitors() []window.Rect {
	output, err := exec.Command("hyprctl", "monitors", "-j").Output()
	if err != nil {
		return nil
	}

	var monitors []hyprlandMonitor
	if err := json.Unmarshal(output, &monitors); err != nil {
		return nil
	}

	rects := make([]window.Rect, 0, len(monitors))
	for _, m := range monitors {
		rects = append(rects, window.Rect{X: m.X, Y: m.Y, Width: m.Width, Height: m.Height})
	}
	return rects
}
