package cmd

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/operaviva/shiftcal/internal/shift"
	"github.com/spf13/cobra"
)

var rosterMonth string

var rosterCmd = &cobra.Command{
	Use:   "roster",
	Short: "Print a month's shift roster and exit",
	RunE:  runRoster,
}

func init() {
	rosterCmd.Flags().StringVar(&rosterMonth, "month", "", "Month to print (YYYY-MM, default current)")
	rootCmd.AddCommand(rosterCmd)
}

func runRoster(cmd *cobra.Command, args []string) error {
	log := newLogger()
	slog.SetDefault(log)

	now := time.Now()
	year, month := now.Year(), now.Month()
	if rosterMonth != "" {
		parsed, err := time.ParseInLocation("2006-01", rosterMonth, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --month %q: %w", rosterMonth, err)
		}
		year, month = parsed.Year(), parsed.Month()
	}

	source, _, err := buildSource(log)
	if err != nil {
		return err
	}

	data, err := source.FetchSchedule(cmd.Context(), shift.ScheduleType(cfg.Schedule))
	if err != nil {
		return fmt.Errorf("fetching roster: %w", err)
	}

	grid := shift.BuildMonthGrid(year, month, data.Slots, data.TimeSlots)

	fmt.Printf("Roster (%s) - %s %d\n\n", cfg.Schedule, month, year)
	fmt.Printf("%-12s", "")
	for _, ts := range data.TimeSlots {
		fmt.Printf("%-24s", ts)
	}
	fmt.Println()
	fmt.Println(strings.Repeat("-", 12+24*len(data.TimeSlots)))

	for _, day := range grid {
		marker := " "
		if day.FullyBooked() {
			marker = "*"
		}
		fmt.Printf("%2d %-8s%s", day.Day, day.DayName[:3], marker)
		for _, slot := range day.Slots {
			cell := "-"
			if slot != nil {
				cell = slot.Name
				if slot.Shift != "" {
					cell += " [" + slot.Shift + "]"
				}
			}
			fmt.Printf("%-24s", cell)
		}
		fmt.Println()
	}

	fmt.Println("\n* fully booked")
	return nil
}
