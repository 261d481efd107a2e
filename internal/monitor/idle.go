package monitor

import (
	"strings"
	"time"

	"github.com/workshot/workshot/internal/config"
)

// IdleClassifier decides whether the user is idle from the raw input-idle
// reading and the current window. Media and reading contexts suppress
// idleness: a user watching a video or reading a document generates
// little input but is not idle. A grace window after leaving such a
// context additionally tolerates brief detours. This trades missed idle
// time for fewer wrongly truncated sessions.
type IdleClassifier struct {
	threshold time.Duration
	grace     time.Duration

	exemptApps        []string
	streamingKeywords []string
	readingKeywords   []string

	// lastMediaActivity advances every tick the user is in a media
	// context; zero means no media context seen since the last idle
	// episode. Touched only by the sampling goroutine.
	lastMediaActivity time.Time
}

// NewIdleClassifier builds a classifier from the idle configuration.
// Match lists are lowercased once up front.
func NewIdleClassifier(cfg config.IdleConfig) *IdleClassifier {
	return &IdleClassifier{
		threshold:         cfg.Threshold,
		grace:             cfg.GracePeriod,
		exemptApps:        lowercaseAll(cfg.ExemptApps),
		streamingKeywords: lowercaseAll(cfg.StreamingKeywords),
		readingKeywords:   lowercaseAll(cfg.ReadingKeywords),
	}
}

// Classify returns true when the user should be considered idle.
// The grace timer does not persist across an idle episode: once idle is
// declared, returning to activity requires fresh input, not leftover
// media credit.
func (c *IdleClassifier) Classify(rawIdleSeconds float64, snap *Snapshot, now time.Time) bool {
	isMedia := c.isMediaOrReading(snap)
	if isMedia {
		c.lastMediaActivity = now
	}

	withinGrace := !c.lastMediaActivity.IsZero() && now.Sub(c.lastMediaActivity) < c.grace

	isIdle := rawIdleSeconds >= c.threshold.Seconds() && !isMedia && !withinGrace
	if isIdle {
		c.lastMediaActivity = time.Time{}
	}

	return isIdle
}

// isMediaOrReading checks whether the focused window indicates active
// media consumption or reading. App names match the exempt list, window
// titles match streaming keywords, and reading keywords match either.
// This keeps an idle browser tab distinguishable from a playing video.
func (c *IdleClassifier) isMediaOrReading(snap *Snapshot) bool {
	if snap == nil {
		return false
	}

	appName := strings.ToLower(snap.AppName)
	title := strings.ToLower(snap.WindowTitle)

	for _, app := range c.exemptApps {
		if strings.Contains(appName, app) {
			return true
		}
	}

	for _, keyword := range c.streamingKeywords {
		if strings.Contains(title, keyword) {
			return true
		}
	}

	for _, keyword := range c.readingKeywords {
		if strings.Contains(appName, keyword) || strings.Contains(title, keyword) {
			return true
		}
	}

	return false
}

func lowercaseAll(list []string) []string {
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = strings.ToLower(s)
	}
	return out
}
