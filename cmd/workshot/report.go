package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/workshot/workshot/internal/database"
	"github.com/workshot/workshot/internal/export"
	"github.com/workshot/workshot/internal/reporter"
	"github.com/workshot/workshot/internal/uploader"
)

var (
	flagJSON        bool
	flagExportStart string
	flagExportEnd   string
	flagDoUpload    bool
)

var reportCmd = &cobra.Command{
	Use:   "report [day|week|month]",
	Short: "Generate a time report",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		periodType := "day"
		if len(args) > 0 {
			periodType = args[0]
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		setupLogging(cfg, false)

		db, err := database.Connect(cfg.Database.Path)
		if err != nil {
			return err
		}
		defer db.Close()

		rep := reporter.New(database.NewSessionRepository(db))

		report, err := rep.GenerateReport(periodType)
		if err != nil {
			return err
		}

		if flagJSON {
			jsonStr, err := rep.FormatReportJSON(report)
			if err != nil {
				return err
			}
			fmt.Println(jsonStr)
			return nil
		}

		fmt.Println(rep.FormatReportText(report))
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export [csv|json|html]",
	Short: "Export session history to a file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format := "csv"
		if len(args) > 0 {
			format = args[0]
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		setupLogging(cfg, false)

		start, end, err := exportRange()
		if err != nil {
			return err
		}

		db, err := database.Connect(cfg.Database.Path)
		if err != nil {
			return err
		}
		defer db.Close()

		exp := export.New(database.NewSessionRepository(db), cfg.Export.Dir)
		path, err := exp.Export(format, start, end)
		if err != nil {
			return err
		}

		fmt.Printf("Exported to %s\n", path)

		if flagDoUpload {
			if err := uploader.New(cfg.Upload).UploadFile(path); err != nil {
				return err
			}
			fmt.Println("Upload complete")
		}

		return nil
	},
}

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload an export file to the configured endpoint",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		setupLogging(cfg, false)

		if err := uploader.New(cfg.Upload).UploadFile(args[0]); err != nil {
			return err
		}

		fmt.Println("Upload complete")
		return nil
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all tracking data",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		fmt.Print("This will delete all tracking data. Are you sure? (yes/no): ")
		var response string
		fmt.Scanln(&response)

		if response != "yes" && response != "y" {
			fmt.Println("Operation cancelled")
			return nil
		}

		db, err := database.Connect(cfg.Database.Path)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := database.NewSessionRepository(db).Clear(); err != nil {
			return err
		}

		fmt.Println("Database cleared successfully")
		return nil
	},
}

// exportRange interprets the --start/--end flags (YYYY-MM-DD,
// inclusive). With no flags the export covers today.
func exportRange() (time.Time, time.Time, error) {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := start.Add(24 * time.Hour)

	if flagExportStart != "" {
		parsed, err := time.ParseInLocation("2006-01-02", flagExportStart, time.Local)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --start date: %s", flagExportStart)
		}
		start = parsed
		end = start.Add(24 * time.Hour)
	}

	if flagExportEnd != "" {
		parsed, err := time.ParseInLocation("2006-01-02", flagExportEnd, time.Local)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --end date: %s", flagExportEnd)
		}
		end = parsed.Add(24 * time.Hour)
	}

	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("--end precedes --start")
	}

	return start, end, nil
}

func init() {
	reportCmd.Flags().BoolVar(&flagJSON, "json", false, "output the report as JSON")
	exportCmd.Flags().StringVar(&flagExportStart, "start", "", "start date (YYYY-MM-DD, inclusive)")
	exportCmd.Flags().StringVar(&flagExportEnd, "end", "", "end date (YYYY-MM-DD, inclusive)")
	exportCmd.Flags().BoolVar(&flagDoUpload, "upload", false, "upload the export after writing it")
}
