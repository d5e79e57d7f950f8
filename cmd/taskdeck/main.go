package main

import (
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jspence/taskdeck/internal/config"
	"github.com/jspence/taskdeck/internal/managers"
	"github.com/jspence/taskdeck/internal/store"
	"github.com/jspence/taskdeck/internal/ui"
	"github.com/jspence/taskdeck/internal/ui/styles"
	"github.com/jspence/taskdeck/pkg/logger"
	"github.com/spf13/pflag"
)

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	var (
		configPath  string
		statePath   string
		showVersion bool
	)
	pflag.StringVar(&configPath, "config", "", "path to config file")
	pflag.StringVar(&statePath, "state", "", "path to state file (overrides config)")
	pflag.BoolVarP(&showVersion, "version", "v", false, "print version and exit")
	pflag.Parse()

	if showVersion {
		fmt.Printf("taskdeck %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if statePath != "" {
		cfg.StatePath = statePath
	}

	// The terminal UI owns stdout, so diagnostics go to a log file.
	var logWriter io.Writer = io.Discard
	logFile, err := os.OpenFile(cfg.LogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err == nil {
		defer logFile.Close()
		logWriter = logFile
	}
	logger.Init(cfg.LogLevel, logWriter)

	st := store.New(cfg.StatePath)
	st.Load()

	projects := managers.NewProjectManager(st)
	tasks := managers.NewTaskManager(st)
	team := managers.NewTeamManager(st)
	settings := managers.NewSettingsManager(
		st,
		time.Duration(cfg.AutoSaveIntervalMS)*time.Millisecond,
		styles.Apply,
	)

	// Normalizes stored settings and applies theme and autosave state.
	settings.Load()

	app := ui.NewApp(st, projects, tasks, team, settings)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running application: %v\n", err)
		os.Exit(1)
	}

	st.DisableAutoSave()
	if err := st.Save(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not save state: %v\n", err)
	}
}
