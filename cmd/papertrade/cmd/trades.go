package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/papertrade/journal"
)

var tradesCmd = &cobra.Command{
	Use:   "trades",
	Short: "Query the trade journal",
	Long: `List journaled trades, newest first.

Examples:
  papertrade trades -n 20
  papertrade trades --from 2024-01-01 --to 2024-01-31
  papertrade trades --id 01HQX7Y3KZ6R9V2J8W4N5M0PQT --org`,
	Args: cobra.NoArgs,
	RunE: runTrades,
}

var (
	tradesLimit int
	tradesFrom  string
	tradesTo    string
	tradesID    string
	tradesOrg   bool
)

func init() {
	rootCmd.AddCommand(tradesCmd)

	tradesCmd.Flags().IntVarP(&tradesLimit, "limit", "n", 10, "number of most recent trades")
	tradesCmd.Flags().StringVar(&tradesFrom, "from", "", "first date (YYYY-MM-DD, inclusive)")
	tradesCmd.Flags().StringVar(&tradesTo, "to", "", "last date (YYYY-MM-DD, inclusive)")
	tradesCmd.Flags().StringVar(&tradesID, "id", "", "show a single trade")
	tradesCmd.Flags().BoolVar(&tradesOrg, "org", false, "print as Org-mode journal entries")
}

func runTrades(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	out := cmd.OutOrStdout()
	if tradesID != "" {
		t, err := s.engine.Trade(tradesID)
		if err != nil {
			return fmt.Errorf("get trade: %w", err)
		}
		if tradesOrg {
			fmt.Fprintln(out, journal.FormatTradeOrg(t))
			return nil
		}
		return printTradeTable(out, []journal.Trade{t})
	}

	var trades []journal.Trade
	title := "Trades"
	if tradesFrom != "" || tradesTo != "" {
		trades, err = s.engine.TradesBetween(tradesFrom, tradesTo)
		title = fmt.Sprintf("Trades %s..%s", tradesFrom, tradesTo)
	} else {
		trades, err = s.engine.History(tradesLimit)
	}
	if err != nil {
		return fmt.Errorf("query trades: %w", err)
	}

	if tradesOrg {
		fmt.Fprintln(out, journal.FormatTradesOrg(title, trades))
		return nil
	}
	if len(trades) == 0 {
		fmt.Fprintln(out, "No trades.")
		return nil
	}
	return printTradeTable(out, trades)
}

func printTradeTable(out io.Writer, trades []journal.Trade) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tTIME\tACTION\tCODE\tNAME\tSHARES\tPRICE\tAMOUNT\tFEES\tP/L\tID")
	for _, t := range trades {
		pl := "-"
		if !t.Action.IsAcquisition() {
			pl = t.NetProfit.StringFixed(2)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%s\t%s\t%s\t%s\t%s\n",
			t.Date, t.Time, strings.ToUpper(string(t.Action)), t.Code, t.Name, t.Shares,
			t.Price.StringFixed(3), t.Amount.StringFixed(2), t.Fees().StringFixed(2), pl, t.ID)
	}
	return tw.Flush()
}
