package database

import (
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/workshot/workshot/internal/models"
)

// SessionRepository handles all database operations for sessions. It
// implements the store side of the tracking pipeline: the monitor is the
// only writer, the web layer and reports are readers.
type SessionRepository struct {
	db *DB
}

// NewSessionRepository creates a new repository instance
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// StartSession inserts a new open session row and returns its id.
func (r *SessionRepository) StartSession(appName, windowTitle string, monitorID int, isIdle bool, startTime time.Time) (uint, error) {
	session := &models.Session{
		AppName:     appName,
		WindowTitle: windowTitle,
		Monitor:     monitorID,
		StartTime:   startTime,
		IsIdle:      isIdle,
	}

	if result := r.db.Create(session); result.Error != nil {
		return 0, errors.Wrap(result.Error, "failed to insert session")
	}

	return session.ID, nil
}

// EndSession closes a session and persists its duration. Negative deltas
// from clock skew are clamped to zero.
func (r *SessionRepository) EndSession(id uint, endTime time.Time) error {
	var session models.Session
	if result := r.db.First(&session, id); result.Error != nil {
		return errors.Wrap(result.Error, "failed to load session for close")
	}

	duration := int64(endTime.Sub(session.StartTime).Seconds())
	if duration < 0 {
		duration = 0
	}

	result := r.db.Model(&models.Session{}).Where("id = ?", id).Updates(map[string]interface{}{
		"end_time":         endTime,
		"duration_seconds": duration,
	})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to close session")
	}

	return nil
}

// TouchSession stamps the open row's update time. The sampling loop
// calls this every tick a session continues; after a crash,
// RepairDangling then closes the row near its true end time.
func (r *SessionRepository) TouchSession(id uint, now time.Time) error {
	result := r.db.Model(&models.Session{}).Where("id = ?", id).Update("updated_at", now)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to touch session")
	}
	return nil
}

// RepairDangling closes every session left open by a hard crash, using
// the row's last update stamp as the end time, clamped to not precede
// the start. Run once at startup, before the sampling loop opens its
// first session. Returns the number of rows repaired.
func (r *SessionRepository) RepairDangling() (int64, error) {
	var dangling []models.Session
	if result := r.db.Where("end_time IS NULL").Find(&dangling); result.Error != nil {
		return 0, errors.Wrap(result.Error, "failed to query dangling sessions")
	}

	for _, session := range dangling {
		end := session.UpdatedAt
		if end.Before(session.StartTime) {
			end = session.StartTime
		}
		if err := r.EndSession(session.ID, end); err != nil {
			return 0, errors.Wrapf(err, "failed to repair session %d", session.ID)
		}
	}

	return int64(len(dangling)), nil
}

// SessionsSince retrieves all sessions starting at or after a given time.
func (r *SessionRepository) SessionsSince(since time.Time) ([]*models.Session, error) {
	var sessions []*models.Session
	result := r.db.Where("start_time >= ?", since).Order("start_time ASC").Find(&sessions)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query sessions")
	}

	return sessions, nil
}

// SessionsBetween retrieves all closed-or-open sessions whose start falls
// in [start, end).
func (r *SessionRepository) SessionsBetween(start, end time.Time) ([]*models.Session, error) {
	var sessions []*models.Session
	result := r.db.Where("start_time >= ? AND start_time < ?", start, end).
		Order("start_time ASC").Find(&sessions)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query sessions")
	}

	return sessions, nil
}

// AppSummarySince returns aggregated per-app time since a given time.
// Idle sessions are excluded unless includeIdle is set.
func (r *SessionRepository) AppSummarySince(since time.Time, includeIdle bool) ([]models.AppSummary, error) {
	var summaries []models.AppSummary

	query := r.db.Model(&models.Session{}).
		Select("app_name, SUM(duration_seconds) as total_seconds, COUNT(*) as session_count").
		Where("start_time >= ? AND duration_seconds > 0", since)

	if !includeIdle {
		query = query.Where("is_idle = ?", false)
	}

	result := query.Group("app_name").Order("total_seconds DESC").Scan(&summaries)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query app summary")
	}

	return summaries, nil
}

// MonitorBreakdownSince returns per-monitor time since a given time,
// excluding idle sessions (monitor 0).
func (r *SessionRepository) MonitorBreakdownSince(since time.Time) ([]models.MonitorSummary, error) {
	var breakdown []models.MonitorSummary

	result := r.db.Model(&models.Session{}).
		Select("monitor, SUM(duration_seconds) as total_seconds, COUNT(*) as session_count").
		Where("start_time >= ? AND duration_seconds > 0 AND is_idle = ? AND monitor > 0", since, false).
		Group("monitor").Order("monitor").Scan(&breakdown)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query monitor breakdown")
	}

	return breakdown, nil
}

// IdleSecondsSince returns total recorded idle time since a given time.
func (r *SessionRepository) IdleSecondsSince(since time.Time) (int64, error) {
	var total int64
	result := r.db.Model(&models.Session{}).
		Select("COALESCE(SUM(duration_seconds), 0)").
		Where("start_time >= ? AND is_idle = ?", since, true).
		Scan(&total)
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "failed to query idle time")
	}

	return total, nil
}

// RecentSessions returns the most recent sessions, idle included.
func (r *SessionRepository) RecentSessions(limit int) ([]*models.Session, error) {
	var sessions []*models.Session
	result := r.db.Order("start_time DESC").Limit(limit).Find(&sessions)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query recent sessions")
	}

	return sessions, nil
}

// CurrentSession returns the open session, or nil when none is open.
func (r *SessionRepository) CurrentSession() (*models.Session, error) {
	var session models.Session
	result := r.db.Where("end_time IS NULL").Order("start_time DESC").First(&session)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(result.Error, "failed to query current session")
	}

	return &session, nil
}

// DeleteOldSessions deletes sessions older than a specified date (soft delete)
func (r *SessionRepository) DeleteOldSessions(before time.Time) (int64, error) {
	result := r.db.Where("start_time < ?", before).Delete(&models.Session{})
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "failed to delete old sessions")
	}
	return result.RowsAffected, nil
}

// Clear removes all sessions from the database
func (r *SessionRepository) Clear() error {
	result := r.db.Exec("DELETE FROM sessions")
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to clear sessions")
	}
	return nil
}
