package main

import (
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/workshot/workshot/internal/daemon"
	"github.com/workshot/workshot/internal/database"
	"github.com/workshot/workshot/pkg/utils"
)

// daemonChildEnv marks the re-executed child so it runs the tracker
// instead of forking again.
const daemonChildEnv = "WORKSHOT_DAEMON_CHILD"

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the tracker as a background daemon",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		dm := daemon.New(cfg.Daemon.PIDFile)
		running, pid, err := dm.IsRunning()
		if err != nil {
			return err
		}
		if running {
			return fmt.Errorf("tracker is already running (PID: %d)", pid)
		}

		if os.Getenv(daemonChildEnv) != "1" {
			return daemonize(cfg.Web.Host, cfg.Web.Port)
		}

		// Child process: run detached, logging to file, no browser.
		setupLogging(cfg, true)
		return runTracker(cfg, dm, false)
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the background tracker",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		dm := daemon.New(cfg.Daemon.PIDFile)
		if err := dm.Stop(); err != nil {
			return err
		}

		fmt.Println("Tracker stopped")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show tracker status and the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		dm := daemon.New(cfg.Daemon.PIDFile)
		running, pid, err := dm.IsRunning()
		if err != nil {
			return err
		}

		if !running {
			fmt.Println("Tracker is not running")
			return nil
		}

		fmt.Printf("Tracker is running (PID: %d)\n", pid)
		fmt.Printf("Dashboard: http://%s:%d\n", cfg.Web.Host, cfg.Web.Port)

		db, err := database.Connect(cfg.Database.Path)
		if err != nil {
			return err
		}
		defer db.Close()

		session, err := database.NewSessionRepository(db).CurrentSession()
		if err != nil {
			return err
		}

		if session == nil {
			fmt.Println("No open session")
			return nil
		}

		if session.IsIdle {
			fmt.Println("Current: idle")
		} else {
			fmt.Printf("Current: %s — %s (monitor %d)\n",
				utils.SanitizeAppName(session.AppName),
				utils.Truncate(session.WindowTitle, 60),
				session.Monitor)
		}
		fmt.Printf("Since:   %s\n", session.StartTime.Format("15:04:05"))

		return nil
	},
}

// daemonize re-executes the binary detached in a new session with the
// child marker set, then reports and returns in the parent.
func daemonize(host string, port int) error {
	exe, err := resolveExecutable()
	if err != nil {
		return err
	}

	env := append(os.Environ(), daemonChildEnv+"=1")

	procAttr := &os.ProcAttr{
		Env:   env,
		Files: []*os.File{nil, nil, nil}, // stdin, stdout, stderr detached
		Sys: &syscall.SysProcAttr{
			Setsid: true,
		},
	}

	process, err := os.StartProcess(exe, os.Args, procAttr)
	if err != nil {
		return fmt.Errorf("failed to start daemon process: %w", err)
	}

	fmt.Printf("Tracker started (PID: %d)\n", process.Pid)
	fmt.Printf("Dashboard: http://%s:%d\n", host, port)
	return nil
}

// resolveExecutable returns the absolute path of the running binary.
// os.Args[0] is a bare name when invoked through PATH, and StartProcess
// does no PATH lookup.
func resolveExecutable() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to resolve executable path: %w", err)
	}
	return exe, nil
}
