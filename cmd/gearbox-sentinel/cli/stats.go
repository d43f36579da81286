package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/publu/gearbox-sentinel/internal/observability/tracing"
)

func StatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Protocol-wide stats overview",
		Args:  cobra.ExactArgs(0),
		RunE:  runStats,
	}
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := tracing.InjectTraceID(cmd.Context(), "stats")

	service, _, err := newService()
	if err != nil {
		return err
	}

	stats, err := service.ProtocolStats(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Gearbox Protocol Stats")
	fmt.Fprintln(out, strings.Repeat("=", 50))

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Total TVL:\t%s\n", fmtUSDWhole(stats.TotalTVLUSD))
	fmt.Fprintf(w, "  Pools:\t%d\n", stats.PoolCount)
	fmt.Fprintf(w, "  Chains:\t%s\n", strings.Join(stats.Chains, ", "))
	fmt.Fprintf(w, "  Stablecoin pools:\t%d\n", stats.StablecoinPools)
	fmt.Fprintf(w, "  Volatile pools:\t%d\n", stats.VolatilePools)
	fmt.Fprintf(w, "  Avg APY:\t%.2f%%\n", stats.AvgAPY)
	if stats.BestPool != nil {
		fmt.Fprintf(w, "  Best APY:\t%.2f%% (%s on %s)\n",
			stats.BestPool.APYTotal, stats.BestPool.Symbol, stats.BestPool.Chain)
	}
	if stats.LargestPool != nil {
		fmt.Fprintf(w, "  Largest pool:\t%s (%s on %s)\n",
			fmtUSDWhole(stats.LargestPool.TVLUSD), stats.LargestPool.Symbol, stats.LargestPool.Chain)
	}
	return w.Flush()
}
