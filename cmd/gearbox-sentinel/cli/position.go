package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/publu/gearbox-sentinel/internal/observability/tracing"
	"github.com/publu/gearbox-sentinel/internal/types"
)

var hundred = decimal.NewFromInt(100)

func PositionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "position <wallet_address> [chain]",
		Short: "Check a wallet's credit account positions",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  runPosition,
	}
}

func runPosition(cmd *cobra.Command, args []string) error {
	ctx := tracing.InjectTraceID(cmd.Context(), "position")

	service, _, err := newService()
	if err != nil {
		return err
	}

	chainID := ""
	if len(args) > 1 {
		chainID = args[1]
	}

	scan, err := service.ScanPositions(ctx, args[0], chainID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Scanning %d CreditManagers on %s for %s\n\n",
		len(scan.Chain.Managers), scan.Chain.ID, shortAddr(scan.Wallet.Hex()))

	for _, report := range scan.Reports {
		printReport(out, report)
	}

	fmt.Fprintf(out, "  Scanned %d/%d CreditManagers\n", scan.Scanned, len(scan.Chain.Managers))
	for _, warning := range scan.Warnings {
		fmt.Fprintf(out, "  Warning: manager %s skipped: %v\n", shortAddr(warning.Manager.Hex()), warning.Err)
	}
	if len(scan.Reports) == 0 {
		fmt.Fprintln(out, "  No active credit accounts found for this address.")
	}
	return nil
}

func printReport(out io.Writer, report types.PositionReport) {
	acct := report.Account
	w := tabwriter.NewWriter(out, 0, 0, 1, ' ', 0)

	debtUSD := "price n/a"
	if report.DebtKnown {
		debtUSD = fmtUSD(report.DebtUSD)
	}

	fmt.Fprintf(w, "  Credit Account: %s\n", acct.Account.Hex())
	fmt.Fprintf(w, "    CreditManager:\t%s\n", shortAddr(acct.Manager.Hex()))
	fmt.Fprintf(w, "    Underlying:\t%s\n", acct.Underlying.Symbol)
	fmt.Fprintf(w, "    Debt:\t%s %s (%s)\n",
		fmtToken(acct.DebtRaw, acct.Underlying.Decimals), acct.Underlying.Symbol, debtUSD)
	if acct.LastDebtUpdate > 0 {
		fmt.Fprintf(w, "    Last debt update:\tblock %s\n", groupThousands(fmt.Sprintf("%d", acct.LastDebtUpdate)))
	}

	fmt.Fprintf(w, "    Collateral:\t%s total\n", fmtUSD(report.CollateralUSD))
	for _, holding := range acct.Collateral {
		usd := "price n/a"
		if holding.PriceKnown {
			usd = fmtUSD(holding.USDValue)
		}
		fmt.Fprintf(w, "      %s %s\t(%s)\tLT: %s%%\n",
			fmtToken(holding.Raw, holding.Token.Decimals), holding.Token.Symbol,
			usd, holding.LiquidationThreshold.Mul(hundred).StringFixed(0))
	}

	ratio := "n/a"
	if report.Ratio != nil {
		if report.AtRisk {
			ratio = report.Ratio.StringFixed(2) + "x (AT LIQUIDATION RISK)"
		} else {
			ratio = report.Ratio.StringFixed(2) + "x (healthy)"
		}
	}
	fmt.Fprintf(w, "    Collateral ratio:\t%s\n", ratio)
	if report.Incomplete {
		fmt.Fprintln(w, "    Note: some prices were unavailable; USD totals are incomplete")
	}
	fmt.Fprintln(w)
	w.Flush()
}
