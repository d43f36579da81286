package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/publu/gearbox-sentinel/internal/observability/tracing"
)

func PoolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pools [chain]",
		Short: "List lending pools with TVL and APY",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runPools,
	}
}

func runPools(cmd *cobra.Command, args []string) error {
	ctx := tracing.InjectTraceID(cmd.Context(), "pools")

	service, _, err := newService()
	if err != nil {
		return err
	}

	chainFilter := ""
	if len(args) > 0 {
		chainFilter = args[0]
	}

	pools, err := service.ListPools(ctx, chainFilter)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(pools) == 0 {
		if chainFilter != "" {
			fmt.Fprintf(out, "No pools found on %s\n", chainFilter)
		} else {
			fmt.Fprintln(out, "No pools found")
		}
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Symbol\tChain\tTVL\tAPY\tBase\tReward\tStable")

	var totalTVL decimal.Decimal
	for _, p := range pools {
		totalTVL = totalTVL.Add(p.TVLUSD)
		stable := "no"
		if p.Stablecoin {
			stable = "yes"
		}
		reward := fmt.Sprintf("%.2f%%", p.APYReward)
		if !p.RewardsKnown {
			reward = "unknown"
		}
		if p.DataSuspect {
			reward += " *"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f%%\t%.2f%%\t%s\t%s\n",
			p.Symbol, p.Chain, fmtUSDWhole(p.TVLUSD), p.APYTotal, p.APYBase, reward, stable)
	}
	fmt.Fprintf(w, "Total\t\t%s\t%d pools\t\t\t\n", fmtUSDWhole(totalTVL), len(pools))
	return w.Flush()
}
