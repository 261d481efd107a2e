package reporter

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/workshot/workshot/internal/database"
	"github.com/workshot/workshot/internal/models"
	"github.com/workshot/workshot/pkg/utils"
)

// Reporter handles report generation over the session store.
type Reporter struct {
	repo *database.SessionRepository
}

// New creates a new reporter
func New(repo *database.SessionRepository) *Reporter {
	return &Reporter{repo: repo}
}

// GenerateReport generates a report for the specified period
func (r *Reporter) GenerateReport(periodType string) (*models.Report, error) {
	period, err := Period(periodType)
	if err != nil {
		return nil, err
	}

	// SQL does the SUM; percentages and display names are derived here.
	summaries, err := r.repo.AppSummarySince(period.Start, false)
	if err != nil {
		return nil, fmt.Errorf("failed to get app summary: %w", err)
	}

	var totalSeconds int64
	for i := range summaries {
		summaries[i].AppDisplay = utils.SanitizeAppName(summaries[i].AppName)
		totalSeconds += summaries[i].TotalSeconds
	}

	if totalSeconds > 0 {
		for i := range summaries {
			summaries[i].Percentage = (float64(summaries[i].TotalSeconds) / float64(totalSeconds)) * 100.0
		}
	}

	idleSeconds, err := r.repo.IdleSecondsSince(period.Start)
	if err != nil {
		return nil, fmt.Errorf("failed to get idle time: %w", err)
	}

	return &models.Report{
		Period:       *period,
		Apps:         summaries,
		TotalSeconds: totalSeconds,
		IdleSeconds:  idleSeconds,
		GeneratedAt:  time.Now(),
	}, nil
}

// Period calculates the time range for a report period type.
func Period(periodType string) (*models.ReportPeriod, error) {
	now := time.Now()
	var start, end time.Time

	switch periodType {
	case "day", "today":
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		end = start.Add(24 * time.Hour)

	case "week":
		// Start of week (Monday)
		weekday := int(now.Weekday())
		if weekday == 0 {
			weekday = 7 // Sunday = 7
		}
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -(weekday - 1))
		end = start.AddDate(0, 0, 7)

	case "month":
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		end = start.AddDate(0, 1, 0)

	default:
		return nil, fmt.Errorf("invalid period type: %s (valid: day, week, month)", periodType)
	}

	return &models.ReportPeriod{
		Start: start,
		End:   end,
		Type:  periodType,
	}, nil
}

// FormatReportText formats the report as human-readable text
func (r *Reporter) FormatReportText(report *models.Report) string {
	output := fmt.Sprintf("Activity Report - %s\n", report.Period.Type)
	output += fmt.Sprintf("Period: %s to %s\n",
		report.Period.Start.Format("2006-01-02 15:04"),
		report.Period.End.Format("2006-01-02 15:04"))
	output += fmt.Sprintf("Total Time: %s\n", utils.FormatDuration(report.TotalSeconds))
	output += fmt.Sprintf("Idle Time:  %s\n\n", utils.FormatDuration(report.IdleSeconds))

	if len(report.Apps) == 0 {
		output += "No activity recorded for this period.\n"
		return output
	}

	output += fmt.Sprintf("%-30s %12s %10s %10s\n", "Application", "Time", "Sessions", "Percent")
	output += fmt.Sprintf("%s\n", "----------------------------------------------------------------")

	for _, app := range report.Apps {
		output += fmt.Sprintf("%-30s %12s %10d %9.1f%%\n",
			utils.Truncate(app.AppDisplay, 30),
			utils.FormatDuration(app.TotalSeconds),
			app.SessionCount,
			app.Percentage)
	}

	return output
}

// FormatReportJSON formats the report as JSON
func (r *Reporter) FormatReportJSON(report *models.Report) (string, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data), nil
}
