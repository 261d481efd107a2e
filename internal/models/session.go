package models

import (
	"time"

	"gorm.io/gorm"
)

// Session is a contiguous time interval attributed to one
// app/window/monitor/idle combination. EndTime is nil while the session
// is open; DurationSeconds stays 0 until the session closes.
type Session struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	AppName         string         `gorm:"not null;index" json:"app_name"`
	WindowTitle     string         `gorm:"not null" json:"window_title"`
	Monitor         int            `gorm:"not null;default:1" json:"monitor"` // 0 reserved for idle
	StartTime       time.Time      `gorm:"not null;index" json:"start_time"`
	EndTime         *time.Time     `json:"end_time"`
	DurationSeconds int64          `gorm:"not null;default:0" json:"duration_seconds"`
	IsIdle          bool           `gorm:"not null;default:false" json:"is_idle"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// Open reports whether the session has not been closed yet.
func (s *Session) Open() bool {
	return s.EndTime == nil
}

type AppSummary struct {
	AppName      string  `json:"app_name"`
	AppDisplay   string  `json:"app_display,omitempty"`
	TotalSeconds int64   `json:"total_seconds"`
	SessionCount int     `json:"session_count"`
	Percentage   float64 `json:"percentage,omitempty"`
}

type MonitorSummary struct {
	Monitor      int   `json:"monitor"`
	TotalSeconds int64 `json:"total_seconds"`
	SessionCount int   `json:"session_count"`
}

type ReportPeriod struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Type  string    `json:"type"` // "day", "week", "month"
}

type Report struct {
	Period       ReportPeriod `json:"period"`
	Apps         []AppSummary `json:"apps"`
	TotalSeconds int64        `json:"total_seconds"`
	IdleSeconds  int64        `json:"idle_seconds"`
	GeneratedAt  time.Time    `json:"generated_at"`
}
