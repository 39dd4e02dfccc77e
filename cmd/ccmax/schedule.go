package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mm-zacharydavison/claude-code-maximizer/internal/timeutil"
	"github.com/mm-zacharydavison/claude-code-maximizer/store"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Show or override the persisted trigger schedule",
}

var scheduleShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print working hours and trigger times per weekday",
	RunE: func(cmd *cobra.Command, _ []string) error {
		instanceProfile, err := loadProfile()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		storeInstance, err := openStore(ctx, instanceProfile)
		if err != nil {
			return err
		}
		defer storeInstance.Close()

		wh, err := storeInstance.GetWorkingHours(ctx)
		if err != nil {
			return err
		}
		times, err := storeInstance.GetOptimalStartTimes(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("Scheduling enabled: %t, auto-adjust: %t\n\n", wh.Enabled, wh.AutoAdjust)
		for day := time.Sunday; day <= time.Saturday; day++ {
			hours := "-"
			if workStart, workEnd, ok := wh.HoursFor(day); ok {
				hours = fmt.Sprintf("%s-%s",
					timeutil.FormatClock(workStart), timeutil.FormatClock(workEnd))
			}
			trigger := "-"
			if clock := times.Days[int(day)]; clock != nil {
				trigger = *clock
			}
			fmt.Printf("%-9s work %-12s trigger %s\n", day, hours, trigger)
		}
		return nil
	},
}

var scheduleSetCmd = &cobra.Command{
	Use:   "set <weekday> <HH:MM>",
	Short: "Override the trigger time for one weekday",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := timeutil.ParseWeekday(args[0])
		if err != nil {
			return err
		}
		minutes, err := timeutil.ParseClock(args[1])
		if err != nil {
			return err
		}

		return updateStartTimes(cmd, func(times *store.OptimalStartTimes) {
			times.SetMinutes(day, minutes)
			fmt.Printf("%s trigger set to %s\n", day, timeutil.FormatClock(minutes))
		})
	},
}

var scheduleClearCmd = &cobra.Command{
	Use:   "clear <weekday>",
	Short: "Remove the trigger time for one weekday",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := timeutil.ParseWeekday(args[0])
		if err != nil {
			return err
		}

		return updateStartTimes(cmd, func(times *store.OptimalStartTimes) {
			times.Days[int(day)] = nil
			fmt.Printf("%s trigger cleared\n", day)
		})
	},
}

func updateStartTimes(cmd *cobra.Command, mutate func(*store.OptimalStartTimes)) error {
	instanceProfile, err := loadProfile()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	storeInstance, err := openStore(ctx, instanceProfile)
	if err != nil {
		return err
	}
	defer storeInstance.Close()

	times, err := storeInstance.GetOptimalStartTimes(ctx)
	if err != nil {
		return err
	}
	mutate(times)
	return storeInstance.SetOptimalStartTimes(ctx, times)
}

func init() {
	scheduleCmd.AddCommand(scheduleShowCmd, scheduleSetCmd, scheduleClearCmd)
}
