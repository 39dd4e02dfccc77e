package main

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mm-zacharydavison/claude-code-maximizer/adaptive"
	"github.com/mm-zacharydavison/claude-code-maximizer/store"
)

// dryRunStore is an adaptive.Store that reads from the real store but drops
// all writes.
type dryRunStore struct {
	*store.Store
}

func (s *dryRunStore) SetOptimalStartTimes(context.Context, *store.OptimalStartTimes) error {
	return nil
}

func (s *dryRunStore) SetAdjustmentMeta(context.Context, *store.AdjustmentMeta) error {
	return nil
}

var adjustCmd = &cobra.Command{
	Use:   "adjust",
	Short: "Run the adaptive schedule adjustment once",
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

		dryRun, _ := cmd.Flags().GetBool("dry-run")
		var learnerStore adaptive.Store = storeInstance
		if dryRun {
			learnerStore = &dryRunStore{Store: storeInstance}
			fmt.Println("Dry run: nothing will be persisted.")
		}

		result := adaptive.NewLearner(learnerStore).RunAdjustment(ctx, time.Now())

		if !result.Adjusted {
			fmt.Printf("No adjustment: %s\n", result.Reason)
			fmt.Printf("Samples: %d, windows: %d over %d days\n",
				result.Diagnostics.SampleCount,
				result.Diagnostics.WindowCount,
				result.Diagnostics.LookbackDays)
			return nil
		}

		green := color.New(color.FgGreen)
		for _, change := range result.Changes {
			old := "(unset)"
			if change.Old != nil {
				old = *change.Old
			}
			fmt.Printf("%-9s %s -> recommended %s, ", change.Day, old, change.New)
			green.Printf("blended %s\n", change.Blended)
		}
		fmt.Printf("Trend: %s (avg shift %+.1f min)\n",
			result.Diagnostics.Trend, result.Diagnostics.AvgShiftMinutes)
		return nil
	},
}

func init() {
	adjustCmd.Flags().Bool("dry-run", false, "compute the adjustment without persisting it")
}
