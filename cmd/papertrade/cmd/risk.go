package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Check positions against stop loss, take profit and position limits",
	Args:  cobra.NoArgs,
	RunE:  runAlerts,
}

var sizeCmd = &cobra.Command{
	Use:   "size <code> <price>",
	Short: "How many shares can still be bought within the risk limits",
	Args:  cobra.ExactArgs(2),
	RunE:  runSize,
}

var sizeLot int64

func init() {
	rootCmd.AddCommand(alertsCmd)
	rootCmd.AddCommand(sizeCmd)

	sizeCmd.Flags().Int64Var(&sizeLot, "lot", 100, "board lot; results are rounded down to a multiple")
}

func runAlerts(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	out := cmd.OutOrStdout()
	alerts := s.engine.Alerts()
	if len(alerts) == 0 {
		fmt.Fprintln(out, "✓ No risk alerts")
		return nil
	}
	for _, a := range alerts {
		fmt.Fprintf(out, "[%s] %s %s: %s\n", strings.ToUpper(string(a.Severity)), a.Symbol, a.Name, a.Message)
		if a.Action != "" {
			fmt.Fprintf(out, "    -> %s\n", a.Action)
		}
	}
	return nil
}

func runSize(cmd *cobra.Command, args []string) error {
	price, err := parsePrice(args[1])
	if err != nil {
		return err
	}
	if !price.IsPositive() {
		return fmt.Errorf("price %q: must be positive", args[1])
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	c := s.engine.Size(args[0], price, sizeLot)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s @ %s: up to %d shares (%s)\n",
		c.Symbol, c.Price.StringFixed(3), c.Shares, c.Amount.StringFixed(2))
	fmt.Fprintf(out, "  single-position limit: %d\n", c.BySingleLimit)
	fmt.Fprintf(out, "  total-position limit:  %d\n", c.ByTotalLimit)
	fmt.Fprintf(out, "  available cash:        %d\n", c.ByCash)
	return nil
}
