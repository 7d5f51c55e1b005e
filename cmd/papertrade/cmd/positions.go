package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/papertrade/quotes"
)

var holdCmd = &cobra.Command{
	Use:   "hold <code> <name> <shares> <cost-price> [notes...]",
	Short: "Register an existing holding without moving cash",
	Long: `Book shares into the account at a cost price. Cash is not touched and no
trade is journaled; use it to seed positions opened elsewhere.

Example:
  papertrade hold 000858 Wuliangye 200 150.20 "bought before tracking"`,
	Args: cobra.MinimumNArgs(4),
	RunE: runHold,
}

var priceCmd = &cobra.Command{
	Use:   "price <code> <price> [<code> <price>...]",
	Short: "Update current prices of held symbols",
	Long: `Set the current price of held symbols. Prices can also be read from a CSV
file with code,price[,date] rows; the latest row per code is applied and
symbols that are not held are skipped.

Examples:
  papertrade price 600519 1712.50 000001 9.87
  papertrade price --file closes.csv`,
	Args: func(cmd *cobra.Command, args []string) error {
		if priceFile != "" {
			return cobra.NoArgs(cmd, args)
		}
		if len(args) == 0 || len(args)%2 != 0 {
			return fmt.Errorf("expected <code> <price> pairs, got %d args", len(args))
		}
		return nil
	},
	RunE: runPrice,
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"portfolio", "ls"},
	Short:   "Show the account summary and positions",
	Args:    cobra.NoArgs,
	RunE:    runList,
}

var priceFile string

func init() {
	rootCmd.AddCommand(holdCmd)
	rootCmd.AddCommand(priceCmd)
	rootCmd.AddCommand(listCmd)

	priceCmd.Flags().StringVarP(&priceFile, "file", "f", "", "CSV file of code,price[,date] rows")
}

func runHold(cmd *cobra.Command, args []string) error {
	shares, err := parseShares(args[2])
	if err != nil {
		return err
	}
	cost, err := parsePrice(args[3])
	if err != nil {
		return err
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	p, err := s.engine.Hold(args[0], args[1], shares, cost, strings.Join(args[4:], " "))
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Holding %s %s: %d shares at %s\n",
		p.Code, p.Name, p.Shares, p.CostPrice.StringFixed(3))
	return nil
}

func runPrice(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	out := cmd.OutOrStdout()
	if priceFile != "" {
		prices, err := quotes.Latest(priceFile)
		if err != nil {
			return fmt.Errorf("read quotes: %w", err)
		}
		n, err := s.engine.SetQuotes(prices)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "✓ Applied %d of %d quotes from %s\n", n, len(prices), priceFile)
		return nil
	}
	for i := 0; i < len(args); i += 2 {
		price, err := parsePrice(args[i+1])
		if err != nil {
			return err
		}
		p, err := s.engine.SetQuote(args[i], price)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "✓ %s %s: %s (P/L %s, %s%%)\n", p.Code, p.Name,
			p.CurrentPrice.StringFixed(3), p.ProfitLoss().StringFixed(2), p.ProfitLossPct().StringFixed(2))
	}
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	sum := s.engine.Summary()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Total assets:  %s\n", sum.TotalAssets.StringFixed(2))
	fmt.Fprintf(out, "Cash:          %s\n", sum.AvailableCash.StringFixed(2))
	fmt.Fprintf(out, "Market value:  %s\n", sum.TotalMarketValue.StringFixed(2))
	fmt.Fprintf(out, "Position P/L:  %s (%s%%)\n", sum.TotalProfitLoss.StringFixed(2), sum.TotalProfitLossPct.StringFixed(2))
	fmt.Fprintf(out, "Total return:  %s%%\n", sum.TotalReturnPct.StringFixed(2))
	fmt.Fprintf(out, "Position:      %s%% (limit %s%%)\n", sum.PositionRatio.StringFixed(2), sum.RiskParams.MaxTotalPositionPct.StringFixed(0))

	if len(sum.Positions) == 0 {
		fmt.Fprintln(out, "\nNo positions.")
		return nil
	}
	fmt.Fprintln(out)
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "CODE\tNAME\tSHARES\tCOST\tPRICE\tVALUE\tP/L\tP/L%\tWEIGHT%\t")
	for _, p := range sum.Positions {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			p.Code, p.Name, p.Shares, p.CostPrice.StringFixed(3), p.CurrentPrice.StringFixed(3),
			p.MarketValue.StringFixed(2), p.ProfitLoss.StringFixed(2),
			p.ProfitLossPct.StringFixed(2), p.WeightPct.StringFixed(2))
	}
	return tw.Flush()
}
