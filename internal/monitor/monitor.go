// Package monitor implements the activity sampling pipeline: once per
// tick it snapshots the foreground window, classifies the user as active
// or idle, and turns the result into contiguous, non-overlapping session
// records in the session store.
package monitor

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/workshot/workshot/internal/config"
	"github.com/workshot/workshot/pkg/window"
)

const (
	idleAppName     = "Idle"
	idleWindowTitle = "User is idle"
	idleMonitorID   = 0
)

// sessionState is the in-memory record of the currently open session.
// Written only by the sampling goroutine, published atomically for
// readers.
type sessionState struct {
	key       ActivityKey
	sessionID uint
	startTime time.Time
}

// Monitor owns the sampling loop and the session state machine. It is
// the sole writer of activity state and the sole issuer of session
// open/close commands; everything else reads.
type Monitor struct {
	cfg        *config.Config
	store      SessionStore
	provider   window.Provider
	resolver   *GeometryResolver
	classifier *IdleClassifier
	logger     zerolog.Logger

	state atomic.Pointer[sessionState]

	mu        sync.Mutex
	observers []Observer
	running   bool
	stopChan  chan struct{}
	doneChan  chan struct{}
}

// New wires a monitor from its collaborators. Monitor geometry is
// captured here, once; plugging or unplugging a monitor afterwards
// requires a restart.
func New(cfg *config.Config, store SessionStore, provider window.Provider) *Monitor {
	return &Monitor{
		cfg:        cfg,
		store:      store,
		provider:   provider,
		resolver:   NewGeometryResolver(provider.MonitorGeometry()),
		classifier: NewIdleClassifier(cfg.Idle),
		logger:     log.With().Str("component", "monitor").Logger(),
	}
}

// Start launches the sampling loop. Calling Start on a running monitor
// is a no-op.
func (m *Monitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return
	}

	m.running = true
	m.stopChan = make(chan struct{})
	m.doneChan = make(chan struct{})

	go m.run(m.stopChan, m.doneChan)
	m.logger.Info().Dur("poll_interval", m.cfg.Tracker.PollInterval).Msg("activity monitoring started")
}

// Stop closes any open session and joins the sampling goroutine with a
// bounded wait. Idempotent. If the goroutine does not stop within twice
// the poll interval, Stop returns anyway; shutdown is best-effort.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	stopChan, doneChan := m.stopChan, m.doneChan
	m.mu.Unlock()

	close(stopChan)

	select {
	case <-doneChan:
		m.logger.Info().Msg("activity monitoring stopped")
	case <-time.After(2 * m.cfg.Tracker.PollInterval):
		m.logger.Warn().Msg("sampling loop did not stop within timeout")
	}
}

// AddListener registers an observer for per-tick activity updates.
func (m *Monitor) AddListener(obs Observer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers = append(m.observers, obs)
}

// RemoveListener unregisters a previously added observer. Observers are
// matched by identity, so implement Observer on a pointer type.
func (m *Monitor) RemoveListener(obs Observer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, o := range m.observers {
		if o == obs {
			m.observers = append(m.observers[:i], m.observers[i+1:]...)
			return
		}
	}
}

// CurrentActivity returns a copy of the currently open session state, or
// nil when no session is open. Non-blocking, safe from any goroutine.
func (m *Monitor) CurrentActivity() *Activity {
	st := m.state.Load()
	if st == nil {
		return nil
	}

	elapsed := int64(time.Since(st.startTime).Seconds())
	if elapsed < 0 {
		elapsed = 0
	}

	return &Activity{
		AppName:        st.key.AppName,
		WindowTitle:    st.key.WindowTitle,
		Monitor:        st.key.Monitor,
		StartTime:      st.startTime,
		ElapsedSeconds: elapsed,
		IsIdle:         st.key.IsIdle,
	}
}

func (m *Monitor) run(stopChan <-chan struct{}, doneChan chan<- struct{}) {
	defer close(doneChan)

	ticker := time.NewTicker(m.cfg.Tracker.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopChan:
			m.closeCurrent(time.Now())
			return
		case <-ticker.C:
			m.tick(time.Now())
		}
	}
}

// tick runs one pass of the pipeline: sample, resolve monitor, classify,
// transition, notify. Collaborator failures degrade (no window this
// tick, idle reading of zero) but never abort the loop.
func (m *Monitor) tick(now time.Time) {
	rawIdle := m.provider.RawIdleSeconds()
	snap := m.sample(now)

	isIdle := m.classifier.Classify(rawIdle, snap, now)

	if isIdle {
		m.tickIdle(now)
	} else {
		m.tickActive(snap, now)
	}
}

// sample reads the foreground window and enriches it with the monitor
// id. A sampling failure is "no window this tick", not an error.
func (m *Monitor) sample(now time.Time) *Snapshot {
	info, err := m.provider.SampleForegroundWindow()
	if err != nil || info == nil || info.AppName == "" {
		if err != nil && err != window.ErrNoWindow {
			m.logger.Debug().Err(err).Msg("window sample failed")
		}
		return nil
	}

	return &Snapshot{
		AppName:     info.AppName,
		WindowTitle: info.WindowTitle,
		Monitor:     m.resolver.Resolve(info.Bounds),
		CapturedAt:  now,
	}
}

// tickIdle ensures the open session is the idle session, rolling over
// from an active one if needed. Close always happens before open.
func (m *Monitor) tickIdle(now time.Time) {
	cur := m.state.Load()

	if cur == nil || !cur.key.IsIdle {
		if cur != nil {
			if !m.closeCurrent(now) {
				return // keep state, retry next tick
			}
			m.logger.Info().Str("app", cur.key.AppName).Msg("going idle")
		}
		m.openSession(ActivityKey{
			AppName:     idleAppName,
			WindowTitle: idleWindowTitle,
			Monitor:     idleMonitorID,
			IsIdle:      true,
		}, now)
	} else {
		m.touchCurrent(now)
	}

	m.notify(now)
}

// tickActive closes any idle session, then tracks the snapshot: a key
// change rolls the session over, an equal key continues it. No snapshot
// with no open active session is a no-op.
func (m *Monitor) tickActive(snap *Snapshot, now time.Time) {
	cur := m.state.Load()

	if cur != nil && cur.key.IsIdle {
		if !m.closeCurrent(now) {
			return
		}
		m.logger.Info().Msg("back from idle")
		cur = nil
	}

	if snap == nil {
		if cur != nil {
			m.touchCurrent(now)
			m.notify(now)
		}
		return
	}

	key := snap.Key()
	if cur == nil || cur.key != key {
		if cur != nil && !m.closeCurrent(now) {
			return
		}
		m.openSession(key, now)
	} else {
		m.touchCurrent(now)
	}

	m.notify(now)
}

// openSession issues the store create and publishes the new state. A
// store failure skips the mutation for this tick; a missed write beats
// losing the loop.
func (m *Monitor) openSession(key ActivityKey, now time.Time) {
	id, err := m.store.StartSession(key.AppName, key.WindowTitle, key.Monitor, key.IsIdle, now)
	if err != nil {
		m.logger.Error().Err(err).Str("app", key.AppName).Msg("failed to open session")
		m.state.Store(nil)
		return
	}

	m.state.Store(&sessionState{key: key, sessionID: id, startTime: now})
}

// touchCurrent heartbeats the open session's row. Failures only widen
// the window a crash can lose, so they are logged and ignored.
func (m *Monitor) touchCurrent(now time.Time) {
	cur := m.state.Load()
	if cur == nil {
		return
	}

	if err := m.store.TouchSession(cur.sessionID, now); err != nil {
		m.logger.Debug().Err(err).Uint("session_id", cur.sessionID).Msg("failed to touch session")
	}
}

// closeCurrent closes the open session, if any. On store failure the
// state is kept so the close retries next tick, preserving the at most
// one open session invariant.
func (m *Monitor) closeCurrent(now time.Time) bool {
	cur := m.state.Load()
	if cur == nil {
		return true
	}

	if err := m.store.EndSession(cur.sessionID, now); err != nil {
		m.logger.Error().Err(err).Uint("session_id", cur.sessionID).Msg("failed to close session")
		return false
	}

	m.state.Store(nil)
	return true
}

// notify fans the current state out to observers. Each observer is
// isolated: a panic is caught and logged, never aborting the tick or
// starving later observers.
func (m *Monitor) notify(now time.Time) {
	st := m.state.Load()
	if st == nil {
		return
	}

	elapsed := int64(now.Sub(st.startTime).Seconds())
	if elapsed < 0 {
		elapsed = 0
	}

	activity := Activity{
		AppName:        st.key.AppName,
		WindowTitle:    st.key.WindowTitle,
		Monitor:        st.key.Monitor,
		StartTime:      st.startTime,
		ElapsedSeconds: elapsed,
		IsIdle:         st.key.IsIdle,
	}

	m.mu.Lock()
	observers := make([]Observer, len(m.observers))
	copy(observers, m.observers)
	m.mu.Unlock()

	for _, obs := range observers {
		m.safeNotify(obs, activity)
	}
}

func (m *Monitor) safeNotify(obs Observer, activity Activity) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Warn().Interface("panic", r).Msg("observer panicked")
		}
	}()
	obs.OnActivity(activity, activity.ElapsedSeconds, activity.IsIdle)
}
