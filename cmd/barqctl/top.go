package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/barqfleet/dispatch-core/internal/tui"
)

var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Live dashboard: grid coverage, active repositioning, recent rebalance cycles",
	Run:   runTop,
}

func runTop(cmd *cobra.Command, args []string) {
	cfg := loadConfigOrExit()
	log := newLogger(cfg)

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		fmt.Fprintln(os.Stderr, "barqctl: DATABASE_URL is required for top")
		os.Exit(1)
	}
	db, err := dbOpenOrExit(dsn, log)
	if err != nil {
		os.Exit(1)
	}
	defer db.Close()

	eng, _, err := buildEngine(cfg, log, db)
	if err != nil {
		fmt.Fprintf(os.Stderr, "barqctl: build engine: %v\n", err)
		os.Exit(1)
	}

	poll := func() tui.Snapshot {
		return tui.Snapshot{
			Coverage: eng.CoverageSnapshot(),
			History:  eng.History(),
			Active:   eng.ActiveRepositioning(),
		}
	}

	program := tea.NewProgram(tui.New(poll))
	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "barqctl: top: %v\n", err)
		os.Exit(1)
	}
}
