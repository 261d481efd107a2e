// Package detector picks the window provider matching the running
// display server.
package detector

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/workshot/workshot/pkg/window"
	"github.com/workshot/workshot/pkg/window/wayland"
	"github.com/workshot/workshot/pkg/window/x11"
)

// New returns a provider for the current session. Wayland sessions that
// lack a supported compositor fall back to X11 through XWayland when a
// DISPLAY is available; idle readings and monitor geometry then come
// from the XWayland side.
func New() (window.Provider, error) {
	switch server := DisplayServer(); server {
	case "wayland":
		provider, err := wayland.NewProvider()
		if err == nil {
			log.Debug().Str("compositor", provider.Compositor()).Msg("using wayland provider")
			return provider, nil
		}
		if os.Getenv("DISPLAY") != "" {
			log.Debug().Err(err).Msg("wayland provider unavailable, trying xwayland")
			return x11.NewProvider()
		}
		return nil, err

	case "x11":
		return x11.NewProvider()

	default:
		return nil, fmt.Errorf("no display server detected (neither DISPLAY nor WAYLAND_DISPLAY set)")
	}
}

// DisplayServer reports "wayland", "x11" or "unknown" from the session
// environment.
func DisplayServer() string {
	sessionType := os.Getenv("XDG_SESSION_TYPE")

	if sessionType == "wayland" || os.Getenv("WAYLAND_DISPLAY") != "" {
		return "wayland"
	}

	if sessionType == "x11" || os.Getenv("DISPLAY") != "" {
		return "x11"
	}

	return "unknown"
}
