package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/papertrade/journal"
	"github.com/rustyeddy/papertrade/money"
)

var actionHelp = map[journal.Action]string{
	journal.Buy:    "Open or add to a position, paying amount plus commission",
	journal.Sell:   "Sell shares, receiving proceeds less commission and stamp duty",
	journal.Add:    "Add to an existing position (same accounting as buy)",
	journal.Reduce: "Reduce a position (same accounting as sell)",
}

func init() {
	for _, a := range journal.Actions {
		rootCmd.AddCommand(newTradeCmd(a))
	}
}

func newTradeCmd(action journal.Action) *cobra.Command {
	return &cobra.Command{
		Use:   fmt.Sprintf("%s <code> <name> <shares> <price> [reason...]", action),
		Short: actionHelp[action],
		Long: fmt.Sprintf(`%s.

The trade is written to the journal and the account is saved.

Example:
  papertrade %s 600519 Moutai 100 1500.50 "breakout above resistance"`, actionHelp[action], action),
		Args: cobra.MinimumNArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrade(cmd, action, args)
		},
	}
}

func parseShares(s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("shares %q: must be a whole number", s)
	}
	return n, nil
}

func parsePrice(s string) (money.Amount, error) {
	p, err := money.Parse(s)
	if err != nil {
		return money.Zero, fmt.Errorf("price %q: must be a number", s)
	}
	return p, nil
}

func runTrade(cmd *cobra.Command, action journal.Action, args []string) error {
	shares, err := parseShares(args[2])
	if err != nil {
		return err
	}
	price, err := parsePrice(args[3])
	if err != nil {
		return err
	}
	reason := strings.Join(args[4:], " ")

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	t, err := s.engine.RecordTrade(args[0], args[1], action, shares, price, reason)
	if t.ID == "" {
		return fmt.Errorf("trade rejected: %w", err)
	}
	printTrade(cmd.OutOrStdout(), t)
	fmt.Fprintf(cmd.OutOrStdout(), "  Cash: %s\n", s.engine.Account().AvailableCash.StringFixed(2))
	if err != nil {
		return fmt.Errorf("trade recorded but not fully saved: %w", err)
	}
	return nil
}

func printTrade(out io.Writer, t journal.Trade) {
	fmt.Fprintf(out, "✓ %s %s %s %d @ %s\n",
		strings.ToUpper(string(t.Action)), t.Code, t.Name, t.Shares, t.Price.StringFixed(3))
	fmt.Fprintf(out, "  Amount: %s  Commission: %s  Stamp duty: %s\n",
		t.Amount.StringFixed(2), t.Commission.StringFixed(2), t.StampDuty.StringFixed(2))
	if !t.Action.IsAcquisition() {
		fmt.Fprintf(out, "  Realized P/L: %s\n", t.NetProfit.StringFixed(2))
	}
	fmt.Fprintf(out, "  Trade ID: %s\n", t.ID)
}
