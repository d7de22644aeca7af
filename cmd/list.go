package cmd

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/operaviva/shiftcal/internal/calendar"
	"github.com/operaviva/shiftcal/internal/parser"
	"github.com/spf13/cobra"
)

var listDate string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List a day's events and exit",
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listDate, "date", "today", "Day to list (e.g. 'today', 'next mon', '2025-03-14')")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	log := newLogger()
	slog.SetDefault(log)

	day, err := parser.NewDateParser().Parse(listDate)
	if err != nil {
		return err
	}

	source, _, err := buildSource(log)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	snap, err := source.FetchCalendar(ctx, cfg.TableID)
	if err != nil {
		return fmt.Errorf("fetching events: %w", err)
	}

	var dayEvents []calendar.Event
	for _, ev := range snap.Events {
		if calendar.CoversDate(ev.Start, ev.End, day) {
			dayEvents = append(dayEvents, ev)
		}
	}
	sort.Slice(dayEvents, func(i, j int) bool {
		return dayEvents[i].Start.Before(dayEvents[j].Start)
	})

	fmt.Printf("Events for %s:\n", day.Format(cfg.DateFormat))
	if len(dayEvents) == 0 {
		fmt.Println("No events found.")
		return nil
	}

	for _, ev := range dayEvents {
		span := ""
		if calendar.IsMultiDay(ev.Start, ev.End) {
			span = fmt.Sprintf(" (day %s of %d)",
				calendar.PositionInSpan(ev.Start, ev.End, day),
				calendar.DaySpan(ev.Start, ev.End))
		}
		fmt.Printf("  %s - %s  %s%s\n",
			ev.Start.Format(cfg.TimeFormat),
			ev.End.Format(cfg.TimeFormat),
			ev.Title, span)
		if ev.Description != "" {
			fmt.Printf("    %s\n", ev.Description)
		}
	}

	if len(snap.Unplanned) > 0 {
		fmt.Printf("\n%d unplanned event(s) waiting.\n", len(snap.Unplanned))
	}
	return nil
}
