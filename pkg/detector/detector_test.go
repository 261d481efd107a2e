package detector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func clearDisplayEnv(t *testing.T) {
	t.Setenv("XDG_SESSION_TYPE", "")
	t.Setenv("WAYLAND_DISPLAY", "")
	t.Setenv("DISPLAY", "")
}

func TestDisplayServerWayland(t *testing.T) {
	clearDisplayEnv(t)
	t.Setenv("XDG_SESSION_TYPE", "wayland")
	assert.Equal(t, "wayland", DisplayServer())
}

func TestDisplayServerWaylandDisplayWins(t *testing.T) {
	clearDisplayEnv(t)
	// XWayland sets DISPLAY too; WAYLAND_DISPLAY marks the real server.
	t.Setenv("WAYLAND_DISPLAY", "wayland-0")
	t.Setenv("DISPLAY", ":0")
	assert.Equal(t, "wayland", DisplayServer())
}

func TestDisplayServerX11(t *testing.T) {
	clearDisplayEnv(t)
	t.Setenv("DISPLAY", ":0")
	assert.Equal(t, "x11", DisplayServer())

	t.Setenv("XDG_SESSION_TYPE", "x11")
	assert.Equal(t, "x11", DisplayServer())
}

func TestDisplayServerUnknown(t *testing.T) {
	clearDisplayEnv(t)
	assert.Equal(t, "unknown", DisplayServer())
}

func TestNewWithoutDisplayServer(t *testing.T) {
	clearDisplayEnv(t)

	_, err := New()
	assert.Error(t, err)
}
