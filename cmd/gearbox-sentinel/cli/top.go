package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/publu/gearbox-sentinel/internal/observability/tracing"
	"github.com/publu/gearbox-sentinel/internal/types"
)

const defaultTopCount = 5

func TopCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "top [count]",
		Short: "Top pools by APY",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runTop,
	}
	cmd.Flags().String("chain", "", "filter pools by chain name")
	return cmd
}

func runTop(cmd *cobra.Command, args []string) error {
	ctx := tracing.InjectTraceID(cmd.Context(), "top")

	n := defaultTopCount
	if len(args) > 0 {
		parsed, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("%w: %q is not a number", types.ErrInvalidCount, args[0])
		}
		n = parsed
	}

	service, _, err := newService()
	if err != nil {
		return err
	}

	chainFilter, _ := cmd.Flags().GetString("chain")
	pools, err := service.TopPools(ctx, n, chainFilter)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Top %d Pools by APY\n", n)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tSymbol\tChain\tAPY\tTVL")
	for i, p := range pools {
		fmt.Fprintf(w, "%d\t%s\t%s\t%.2f%%\t%s\n", i+1, p.Symbol, p.Chain, p.APYTotal, fmtUSDWhole(p.TVLUSD))
	}
	return w.Flush()
}
