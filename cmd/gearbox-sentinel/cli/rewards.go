package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/publu/gearbox-sentinel/internal/observability/tracing"
	"github.com/publu/gearbox-sentinel/internal/types"
)

func RewardsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rewards",
		Short: "Show active reward programs and points across pools",
		Args:  cobra.ExactArgs(0),
		RunE:  runRewards,
	}
}

func runRewards(cmd *cobra.Command, args []string) error {
	ctx := tracing.InjectTraceID(cmd.Context(), "rewards")

	service, _, err := newService()
	if err != nil {
		return err
	}

	programs, err := service.Rewards(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(programs) == 0 {
		fmt.Fprintln(out, "No active reward programs found.")
		return nil
	}

	lastPool := ""
	for _, program := range programs {
		if program.PoolID != lastPool {
			fmt.Fprintf(out, "\n  Pool: %s (%s)\n", shortAddr(program.PoolID), program.Chain)
			lastPool = program.PoolID
		}
		switch program.Kind {
		case types.RewardKindPoints:
			fmt.Fprintf(out, "    Points: %s (%s) - %s/%s\n",
				program.Name, program.Units, program.Amount, program.Duration)
		case types.RewardKindExtraAPY:
			if program.RewardToken != "" {
				fmt.Fprintf(out, "    Extra APY: %.2f%% in %s\n", program.APY, program.RewardToken)
			} else {
				fmt.Fprintf(out, "    External APY: %s - %.2f%%\n", program.Name, program.APY)
			}
		}
	}
	return nil
}
