package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/operaviva/shiftcal/internal/api"
	"github.com/operaviva/shiftcal/internal/calendar"
	"github.com/operaviva/shiftcal/internal/config"
	"github.com/operaviva/shiftcal/internal/shift"
	"github.com/operaviva/shiftcal/internal/ui"
	"github.com/spf13/cobra"

	tea "github.com/charmbracelet/bubbletea"
)

var (
	cfgFile  string
	dataFile string
	tableID  string
	debugLog string
	cfg      *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "shiftcal",
	Short: "A terminal planner and shift roster for the records backend",
	Long: `Shiftcal is a terminal client for the records backend: a drag-and-drop
event planner bound to one table, and the volunteer shift roster with its
booking rules.`,
	RunE: runTUI,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&dataFile, "data-file", "", "Serve from a local JSON file instead of the backend")
	rootCmd.PersistentFlags().StringVar(&tableID, "table", "", "Table id to bind the planner to")
	rootCmd.PersistentFlags().StringVar(&debugLog, "log-file", "", "Write debug logs to this file")
}

func initConfig() {
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadConfigFile(cfgFile)
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if dataFile != "" {
		cfg.DataFile = dataFile
	}
	if tableID != "" {
		cfg.TableID = tableID
	}
}

// newLogger sends structured logs to the --log-file, or nowhere: the TUI
// owns the terminal.
func newLogger() *slog.Logger {
	var w io.Writer = io.Discard
	if debugLog != "" {
		if f, err := os.OpenFile(debugLog, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644); err == nil {
			w = f
		}
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// buildSource picks the data source once: a local JSON file when configured,
// the HTTP backend otherwise.
func buildSource(log *slog.Logger) (api.Source, *api.FileSource, error) {
	if cfg.DataFile != "" {
		fs, err := api.NewFileSource(cfg.DataFile)
		if err != nil {
			return nil, nil, err
		}
		return fs, fs, nil
	}
	if cfg.BaseURL == "" {
		return nil, nil, fmt.Errorf("no base_url configured and no --data-file given")
	}
	return api.NewClient(cfg.BaseURL, cfg.Token, log), nil, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	log := newLogger()
	slog.SetDefault(log)

	source, fileSource, err := buildSource(log)
	if err != nil {
		return err
	}

	store := calendar.NewStore(source, cfg.TableID, calendar.DefaultMetrics(), log)
	roster := shift.NewStore(source, shift.ScheduleType(cfg.Schedule), log)

	model := ui.NewModel(cfg, store, roster)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	// Offline mode: pick up edits made to the data file by other tools.
	if fileSource != nil {
		watcher, err := fileSource.Watch(func() {
			p.Send(ui.RefreshMsg{})
		})
		if err == nil {
			defer watcher.Close()
		} else {
			log.Warn("file watching unavailable", "err", err)
		}
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}

	store.Flush()
	roster.Flush()
	return nil
}
