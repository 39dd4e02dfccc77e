package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mm-zacharydavison/claude-code-maximizer/internal/timeutil"
	"github.com/mm-zacharydavison/claude-code-maximizer/planner"
	"github.com/mm-zacharydavison/claude-code-maximizer/store"
)

const maxBarLength = 40

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Rebuild the usage profile from history and show recommended triggers",
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

		days, _ := cmd.Flags().GetInt("days")
		since := time.Now().AddDate(0, 0, -days)

		samples, err := storeInstance.GetHourlyUsageSince(ctx, since)
		if err != nil {
			return err
		}
		windows, err := storeInstance.GetWindowsSince(ctx, since)
		if err != nil {
			return err
		}
		if len(samples) == 0 {
			fmt.Printf("No usage samples in the last %d days; nothing to analyze.\n", days)
			return nil
		}

		profile := planner.BuildHourlyProfile(toSamples(samples), toSpans(windows))

		fmt.Printf("📊 Hourly usage profile (last %d days, %d samples)\n", days, len(samples))
		fmt.Println(strings.Repeat("─", 50))
		printProfileHistogram(profile)

		wh, err := storeInstance.GetWorkingHours(ctx)
		if err != nil {
			return err
		}
		if !wh.HasConfiguredDays() {
			fmt.Println("\nNo working hours configured; skipping trigger recommendations.")
			return nil
		}

		fmt.Println("\nRecommended triggers")
		fmt.Println(strings.Repeat("─", 50))
		printRecommendations(profile, wh)
		return nil
	},
}

func printProfileHistogram(profile planner.HourlyProfile) {
	maxUsage := 0.0
	for _, usage := range profile {
		if usage > maxUsage {
			maxUsage = usage
		}
	}

	grey := color.New(color.FgHiBlack)
	cyan := color.New(color.FgCyan)
	for hour, usage := range profile {
		line := fmt.Sprintf("%02d:00 ", hour)
		if usage > 0 {
			line += fmt.Sprintf("(%5.1f%%/h) ", usage)
			barLength := int(usage / maxUsage * maxBarLength)
			if barLength == 0 {
				line += grey.Sprint("·")
			} else {
				line += cyan.Sprint(strings.Repeat("█", barLength))
			}
		}
		fmt.Println(line)
	}
}

func printRecommendations(profile planner.HourlyProfile, wh *store.WorkingHours) {
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)

	for day := time.Sunday; day <= time.Saturday; day++ {
		workStart, workEnd, ok := wh.HoursFor(day)
		if !ok {
			continue
		}

		opt := planner.FindOptimalTrigger(profile, workStart, workEnd)
		line := fmt.Sprintf("%-9s work %s-%s: trigger %s, %d window(s)",
			day,
			timeutil.FormatClock(workStart),
			timeutil.FormatClock(workEnd),
			timeutil.FormatClock(opt.TriggerTime),
			opt.BucketCount)
		if opt.IsValid {
			green.Printf("%s, min slack %.1f%%\n", line, opt.MinSlack)
		} else {
			red.Printf("%s — projected usage exceeds the quota\n", line)
		}
	}
}

func toSamples(records []*store.HourlyUsage) []planner.Sample {
	samples := make([]planner.Sample, 0, len(records))
	for _, r := range records {
		samples = append(samples, planner.Sample{
			CumulativePct: r.CumulativePct,
			ObservedAt:    time.Unix(r.ObservedTs, 0),
		})
	}
	return samples
}

func toSpans(windows []*store.UsageWindow) []planner.Span {
	spans := make([]planner.Span, 0, len(windows))
	for _, w := range windows {
		spans = append(spans, planner.Span{
			Start: time.Unix(w.StartTs, 0),
			End:   time.Unix(w.EndTs, 0),
		})
	}
	return spans
}

func init() {
	analyzeCmd.Flags().Int("days", 14, "days of history to analyze")
}
