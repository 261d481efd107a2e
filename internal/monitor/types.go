package monitor

import "time"

// Snapshot is an instantaneous read of the foreground window, enriched
// with the monitor it occupies. Produced once per tick, never persisted.
type Snapshot struct {
	AppName     string
	WindowTitle string
	Monitor     int
	CapturedAt  time.Time
}

// ActivityKey identifies whether two snapshots belong to the same ongoing
// session. Equality is exact string/int match; no normalization, no fuzzy
// title matching.
type ActivityKey struct {
	AppName     string
	WindowTitle string
	Monitor     int
	IsIdle      bool
}

// Key derives the session identity tuple for a snapshot.
func (s *Snapshot) Key() ActivityKey {
	return ActivityKey{
		AppName:     s.AppName,
		WindowTitle: s.WindowTitle,
		Monitor:     s.Monitor,
	}
}

// Activity is the read-only view of the currently open session handed to
// dashboard readers and observers.
type Activity struct {
	AppName        string    `json:"app_name"`
	WindowTitle    string    `json:"window_title"`
	Monitor        int       `json:"monitor"`
	StartTime      time.Time `json:"start_time"`
	ElapsedSeconds int64     `json:"elapsed_seconds"`
	IsIdle         bool      `json:"is_idle"`
}

// Observer receives one callback per sampling tick while a session is
// open. Callbacks run synchronously on the sampling goroutine; a panic in
// one observer is isolated from the tick and from other observers.
type Observer interface {
	OnActivity(state Activity, elapsedSeconds int64, isIdle bool)
}

// SessionStore is the durable record of session intervals. The state
// machine is its sole writer and guarantees at most one open session.
type SessionStore interface {
	// StartSession creates an open session row and returns its id.
	StartSession(appName, windowTitle string, monitorID int, isIdle bool, startTime time.Time) (uint, error)

	// EndSession closes a session, computing and persisting its duration.
	EndSession(id uint, endTime time.Time) error

	// TouchSession advances the open session's heartbeat stamp so a hard
	// crash loses at most one tick of the session's duration.
	TouchSession(id uint, now time.Time) error
}
