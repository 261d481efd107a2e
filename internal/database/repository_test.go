package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workshot/workshot/internal/models"
)

func testRepo(t *testing.T) *SessionRepository {
	db, err := Connect(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, db.Initialize())
	t.Cleanup(func() { db.Close() })

	return NewSessionRepository(db)
}

func TestStartAndEndSession(t *testing.T) {
	repo := testRepo(t)

	start := time.Now().Add(-time.Minute)
	id, err := repo.StartSession("firefox", "docs", 1, false, start)
	require.NoError(t, err)
	require.NotZero(t, id)

	open, err := repo.CurrentSession()
	require.NoError(t, err)
	require.NotNil(t, open)
	assert.Equal(t, "firefox", open.AppName)
	assert.True(t, open.Open())

	end := start.Add(90 * time.Second)
	require.NoError(t, repo.EndSession(id, end))

	open, err = repo.CurrentSession()
	require.NoError(t, err)
	assert.Nil(t, open)

	sessions, err := repo.SessionsSince(start.Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, int64(90), sessions[0].DurationSeconds)
	require.NotNil(t, sessions[0].EndTime)
}

func TestEndSessionClampsNegativeDuration(t *testing.T) {
	repo := testRepo(t)

	start := time.Now()
	id, err := repo.StartSession("firefox", "docs", 1, false, start)
	require.NoError(t, err)

	// End before start (clock skew): duration clamps to zero.
	require.NoError(t, repo.EndSession(id, start.Add(-time.Minute)))

	sessions, err := repo.SessionsSince(start.Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, int64(0), sessions[0].DurationSeconds)
}

func TestEndSessionUnknownID(t *testing.T) {
	repo := testRepo(t)
	assert.Error(t, repo.EndSession(12345, time.Now()))
}

func TestRepairDangling(t *testing.T) {
	repo := testRepo(t)

	start := time.Now().Add(-10 * time.Minute)
	_, err := repo.StartSession("firefox", "docs", 1, false, start)
	require.NoError(t, err)
	_, err = repo.StartSession("code", "main.go", 2, false, start.Add(time.Minute))
	require.NoError(t, err)

	repaired, err := repo.RepairDangling()
	require.NoError(t, err)
	assert.Equal(t, int64(2), repaired)

	open, err := repo.CurrentSession()
	require.NoError(t, err)
	assert.Nil(t, open)

	// End times never precede start times, so durations are non-negative.
	sessions, err := repo.SessionsSince(start.Add(-time.Hour))
	require.NoError(t, err)
	for _, s := range sessions {
		require.NotNil(t, s.EndTime)
		assert.False(t, s.EndTime.Before(s.StartTime))
		assert.GreaterOrEqual(t, s.DurationSeconds, int64(0))
	}

	// Idempotent: a second pass finds nothing.
	repaired, err = repo.RepairDangling()
	require.NoError(t, err)
	assert.Zero(t, repaired)
}

func TestRepairDanglingUsesHeartbeat(t *testing.T) {
	repo := testRepo(t)

	start := time.Now().Add(-10 * time.Minute)
	id, err := repo.StartSession("firefox", "docs", 1, false, start)
	require.NoError(t, err)

	// The sampling loop heartbeats the row; the repair closes at the
	// last heartbeat, not the creation stamp.
	require.NoError(t, repo.TouchSession(id, start.Add(5*time.Minute)))

	repaired, err := repo.RepairDangling()
	require.NoError(t, err)
	assert.Equal(t, int64(1), repaired)

	sessions, err := repo.SessionsSince(start.Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.InDelta(t, 300, sessions[0].DurationSeconds, 1)
}

func seedClosedSession(t *testing.T, repo *SessionRepository, app, title string, monitorID int, isIdle bool, start time.Time, dur time.Duration) {
	id, err := repo.StartSession(app, title, monitorID, isIdle, start)
	require.NoError(t, err)
	require.NoError(t, repo.EndSession(id, start.Add(dur)))
}

func TestAppSummarySince(t *testing.T) {
	repo := testRepo(t)
	base := time.Now().Add(-time.Hour)

	seedClosedSession(t, repo, "firefox", "a", 1, false, base, 30*time.Minute)
	seedClosedSession(t, repo, "firefox", "b", 1, false, base.Add(30*time.Minute), 10*time.Minute)
	seedClosedSession(t, repo, "code", "c", 2, false, base.Add(40*time.Minute), 5*time.Minute)
	seedClosedSession(t, repo, "Idle", "User is idle", 0, true, base.Add(45*time.Minute), 5*time.Minute)

	summary, err := repo.AppSummarySince(base.Add(-time.Minute), false)
	require.NoError(t, err)
	require.Len(t, summary, 2)

	assert.Equal(t, "firefox", summary[0].AppName)
	assert.Equal(t, int64(2400), summary[0].TotalSeconds)
	assert.Equal(t, 2, summary[0].SessionCount)
	assert.Equal(t, "code", summary[1].AppName)

	withIdle, err := repo.AppSummarySince(base.Add(-time.Minute), true)
	require.NoError(t, err)
	assert.Len(t, withIdle, 3)
}

func TestMonitorBreakdownExcludesIdle(t *testing.T) {
	repo := testRepo(t)
	base := time.Now().Add(-time.Hour)

	seedClosedSession(t, repo, "firefox", "a", 1, false, base, 10*time.Minute)
	seedClosedSession(t, repo, "code", "b", 2, false, base.Add(10*time.Minute), 20*time.Minute)
	seedClosedSession(t, repo, "Idle", "User is idle", 0, true, base.Add(30*time.Minute), 10*time.Minute)

	breakdown, err := repo.MonitorBreakdownSince(base.Add(-time.Minute))
	require.NoError(t, err)
	require.Len(t, breakdown, 2)

	assert.Equal(t, 1, breakdown[0].Monitor)
	assert.Equal(t, int64(600), breakdown[0].TotalSeconds)
	assert.Equal(t, 2, breakdown[1].Monitor)
	assert.Equal(t, int64(1200), breakdown[1].TotalSeconds)
}

func TestIdleSecondsSince(t *testing.T) {
	repo := testRepo(t)
	base := time.Now().Add(-time.Hour)

	total, err := repo.IdleSecondsSince(base)
	require.NoError(t, err)
	assert.Zero(t, total)

	seedClosedSession(t, repo, "Idle", "User is idle", 0, true, base, 5*time.Minute)
	seedClosedSession(t, repo, "firefox", "a", 1, false, base.Add(5*time.Minute), 10*time.Minute)

	total, err = repo.IdleSecondsSince(base)
	require.NoError(t, err)
	assert.Equal(t, int64(300), total)
}

func TestSessionsBetweenHalfOpenRange(t *testing.T) {
	repo := testRepo(t)
	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	seedClosedSession(t, repo, "before", "x", 1, false, base.Add(-time.Hour), time.Minute)
	seedClosedSession(t, repo, "inside", "x", 1, false, base, time.Minute)
	seedClosedSession(t, repo, "at-end", "x", 1, false, base.Add(time.Hour), time.Minute)

	sessions, err := repo.SessionsBetween(base, base.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "inside", sessions[0].AppName)
}

func TestRecentSessionsOrderAndLimit(t *testing.T) {
	repo := testRepo(t)
	base := time.Now().Add(-time.Hour)

	for i := 0; i < 5; i++ {
		seedClosedSession(t, repo, "app", "x", 1, false, base.Add(time.Duration(i)*time.Minute), 30*time.Second)
	}

	recent, err := repo.RecentSessions(3)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.True(t, recent[0].StartTime.After(recent[1].StartTime))
	assert.True(t, recent[1].StartTime.After(recent[2].StartTime))
}

func TestDeleteOldSessions(t *testing.T) {
	repo := testRepo(t)
	base := time.Now()

	seedClosedSession(t, repo, "old", "x", 1, false, base.Add(-48*time.Hour), time.Minute)
	seedClosedSession(t, repo, "new", "x", 1, false, base.Add(-time.Hour), time.Minute)

	deleted, err := repo.DeleteOldSessions(base.Add(-24 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	sessions, err := repo.SessionsSince(base.Add(-72 * time.Hour))
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "new", sessions[0].AppName)
}

func TestClear(t *testing.T) {
	repo := testRepo(t)

	seedClosedSession(t, repo, "firefox", "x", 1, false, time.Now().Add(-time.Minute), 30*time.Second)
	require.NoError(t, repo.Clear())

	sessions, err := repo.SessionsSince(time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Empty(t, sessions)

	var count int64
	require.NoError(t, repo.db.Model(&models.Session{}).Count(&count).Error)
	assert.Zero(t, count)
}
