package x11

import (
	"fmt"
	"strings"
	"time"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/screensaver"
	"github.com/jezek/xgb/xinerama"
	"github.com/jezek/xgb/xproto"

	"github.com/workshot/workshot/pkg/window"
)

// Provider implements window.Provider against a live X11 connection.
type Provider struct {
	conn        *xgb.Conn
	root        xproto.Window
	atoms       map[string]xproto.Atom
	hasSaver    bool
	hasXinerama bool
}

// NewProvider connects to the X server and interns the atoms the sampler
// needs. The MIT-SCREEN-SAVER and Xinerama extensions are optional; their
// absence only degrades idle and monitor readings.
func NewProvider() (*Provider, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X server: %w", err)
	}

	setup := xproto.Setup(conn)
	root := setup.DefaultScreen(conn).Root

	p := &Provider{
		conn:  conn,
		root:  root,
		atoms: make(map[string]xproto.Atom),
	}

	atomNames := []string{
		"_NET_ACTIVE_WINDOW",
		"_NET_WM_NAME",
		"WM_NAME",
		"WM_CLASS",
		"UTF8_STRING",
	}

	for _, name := range atomNames {
		reply, err := xproto.InternAtom(conn, false, uint16(len(name)), name).Reply()
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to intern atom %s: %w", name, err)
		}
		p.atoms[name] = reply.Atom
	}

	p.hasSaver = screensaver.Init(conn) == nil
	p.hasXinerama = xinerama.Init(conn) == nil

	return p, nil
}

// SampleForegroundWindow returns the focused window with its absolute
// screen bounds.
func (p *Provider) SampleForegroundWindow() (*window.WindowInfo, error) {
	win, err := p.activeWindow()
	if err != nil {
		return nil, err
	}

	title := p.windowName(win)
	if title == "" {
		title = "(No Title)"
	}

	appName := p.windowApp(win)
	if appName == "" {
		appName = "Unknown"
	}

	return &window.WindowInfo{
		AppName:     appName,
		WindowTitle: title,
		Bounds:      p.windowBounds(win),
	}, nil
}

// RawIdleSeconds reads the MIT-SCREEN-SAVER idle timer. Any failure is
// reported as zero idle so the sampler never flags idleness on a broken
// reading.
func (p *Provider) RawIdleSeconds() float64 {
	if !p.hasSaver {
		return 0
	}

	reply, err := screensaver.QueryInfo(p.conn, xproto.Drawable(p.root)).Reply()
	if err != nil {
		return 0
	}

	return float64(reply.MsSinceUserInput) / 1000.0
}

// MonitorGeometry returns per-monitor bounding boxes via Xinerama. When
// Xinerama is unavailable the root screen dimensions are used, and when
// even those cannot be read a synthetic 1920x1080 primary is returned.
func (p *Provider) MonitorGeometry() []window.Rect {
	if p.hasXinerama {
		if reply, err := xinerama.QueryScreens(p.conn).Reply(); err == nil && len(reply.ScreenInfo) > 0 {
			rects := make([]window.Rect, 0, len(reply.ScreenInfo))
			for _, si := range reply.ScreenInfo {
				rects = append(rects, window.Rect{
					X:      int(si.XOrg),
					Y:      int(si.YOrg),
					Width:  int(si.Width),
					Height: int(si.Height),
				})
			}
			return rects
		}
	}

	screen := xproto.Setup(p.conn).DefaultScreen(p.conn)
	if screen.WidthInPixels > 0 && screen.HeightInPixels > 0 {
		return []window.Rect{{
			Width:  int(screen.WidthInPixels),
			Height: int(screen.HeightInPixels),
		}}
	}

	return []window.Rect{{Width: 1920, Height: 1080}}
}

// Close shuts down the X connection.
func (p *Provider) Close() error {
	p.conn.Close()
	return nil
}

func (p *Provider) activeWindow() (xproto.Window, error) {
	for i := 0; i < 3; i++ {
		win := p.activeWindowFromProperty()
		if win != 0 && p.hasValidName(win) {
			return win, nil
		}

		win = p.activeWindowFromInputFocus()
		if win != 0 && win != p.root {
			topLevel := p.topLevelParent(win)
			if topLevel != 0 && p.hasValidName(topLevel) {
				return topLevel, nil
			}
		}

		time.Sleep(20 * time.Millisecond)
	}

	return 0, window.ErrNoWindow
}

func (p *Provider) activeWindowFromProperty() xproto.Window {
	data, err := p.getProperty(p.root, p.atoms["_NET_ACTIVE_WINDOW"], xproto.AtomWindow, 1)
	if err != nil || len(data) < 4 {
		return 0
	}
	return xproto.Window(uint32(data[0]) | uint32(data[1])<<8 | uint32(data[2])<<16 | uint32(data[3])<<24)
}

func (p *Provider) activeWindowFromInputFocus() xproto.Window {
	reply, err := xproto.GetInputFocus(p.conn).Reply()
	if err != nil {
		return 0
	}
	return reply.Focus
}

func (p *Provider) topLevelParent(win xproto.Window) xproto.Window {
	for {
		reply, err := xproto.QueryTree(p.conn, win).Reply()
		if err != nil || reply.Parent == p.root || reply.Parent == 0 {
			return win
		}
		win = reply.Parent
	}
}

func (p *Provider) hasValidName(win xproto.Window) bool {
	data, _ := p.getProperty(win, p.atoms["_NET_WM_NAME"], p.atoms["UTF8_STRING"], 1)
	if len(data) > 0 {
		return true
	}
	data, _ = p.getProperty(win, p.atoms["WM_NAME"], xproto.AtomString, 1)
	return len(data) > 0
}

func (p *Provider) windowName(win xproto.Window) string {
	data, err := p.getProperty(win, p.atoms["_NET_WM_NAME"], p.atoms["UTF8_STRING"], 256)
	if err == nil && len(data) > 0 {
		return strings.TrimRight(string(data), "\x00")
	}

	data, err = p.getProperty(win, p.atoms["WM_NAME"], xproto.AtomString, 256)
	if err == nil && len(data) > 0 {
		return strings.TrimRight(string(data), "\x00")
	}

	return ""
}

// windowApp extracts the application name from WM_CLASS. The instance
// name is preferred; the class name is the fallback.
func (p *Provider) windowApp(win xproto.Window) string {
	data, err := p.getProperty(win, p.atoms["WM_CLASS"], xproto.AtomString, 256)
	if err != nil || len(data) == 0 {
		return ""
	}

	parts := strings.Split(strings.TrimRight(string(data), "\x00"), "\x00")
	if len(parts) >= 1 && parts[0] != "" {
		return parts[0]
	}
	if len(parts) >= 2 {
		return parts[1]
	}
	return ""
}

// windowBounds resolves the window's absolute screen rectangle. Geometry
// coordinates are parent-relative, so the origin is translated to root
// space first. Failures produce a zero rect; the geometry resolver treats
// that as monitor 1.
func (p *Provider) windowBounds(win xproto.Window) window.Rect {
	geom, err := xproto.GetGeometry(p.conn, xproto.Drawable(win)).Reply()
	if err != nil {
		return window.Rect{}
	}

	trans, err := xproto.TranslateCoordinates(p.conn, win, p.root, 0, 0).Reply()
	if err != nil {
		return window.Rect{
			X:      int(geom.X),
			Y:      int(geom.Y),
			Width:  int(geom.Width),
			Height: int(geom.Height),
		}
	}

	return window.Rect{
		X:      int(trans.DstX),
		Y:      int(trans.DstY),
		Width:  int(geom.Width),
		Height: int(geom.Height),
	}
}

func (p *Provider) getProperty(win xproto.Window, atom, atomType xproto.Atom, length uint32) ([]byte, error) {
	reply, err := xproto.GetProperty(p.conn, false, win, atom, atomType, 0, length).Reply()
	if err != nil {
		return nil, err
	}
	return reply.Value, nil
}
