package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/papertrade/analysis"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Record today's account snapshot",
	Long: `Capture total assets, cash, market value and positions for today. Running
it again on the same day replaces the earlier snapshot.`,
	Args: cobra.NoArgs,
	RunE: runSnapshot,
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Performance over the most recent snapshots",
	Args:  cobra.NoArgs,
	RunE:  runReport,
}

var accuracyCmd = &cobra.Command{
	Use:   "accuracy",
	Short: "Grade each day's position against the next day's return",
	Args:  cobra.NoArgs,
	RunE:  runAccuracy,
}

var reportDays int

func init() {
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(accuracyCmd)

	reportCmd.Flags().IntVarP(&reportDays, "days", "d", analysis.DefaultReportDays, "number of snapshots in the window")
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	snap, err := s.engine.TakeDailySnapshot()
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Snapshot %s: assets %s, day %s (%s%%), total return %s%%\n",
		snap.Date, snap.TotalAssets.StringFixed(2), snap.DailyProfitLoss.StringFixed(2),
		snap.DailyReturnPct.StringFixed(2), snap.TotalReturnPct.StringFixed(2))
	return nil
}

func runReport(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	r, err := s.engine.Report(reportDays)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(r.Daily) == 0 {
		fmt.Fprintln(out, "No snapshots yet. Run `papertrade snapshot` after the close.")
		return nil
	}
	fmt.Fprintf(out, "Performance %s .. %s (%d days)\n", r.From, r.To, len(r.Daily))
	fmt.Fprintf(out, "  Assets:       %s -> %s\n", r.StartAssets.StringFixed(2), r.EndAssets.StringFixed(2))
	fmt.Fprintf(out, "  Window P/L:   %s (%s%%)\n", r.WindowProfitLoss.StringFixed(2), r.WindowReturnPct.StringFixed(2))
	fmt.Fprintf(out, "  Total return: %s%%\n", r.CumulativeReturnPct.StringFixed(2))
	fmt.Fprintf(out, "  Up/down days: %d/%d\n", r.UpDays, r.DownDays)
	if r.Best != nil {
		fmt.Fprintf(out, "  Best day:     %s %s%%\n", r.Best.Date, r.Best.DailyReturnPct.StringFixed(2))
	}
	if r.Worst != nil {
		fmt.Fprintf(out, "  Worst day:    %s %s%%\n", r.Worst.Date, r.Worst.DailyReturnPct.StringFixed(2))
	}
	fmt.Fprintf(out, "  Trades:       %d (%d buys, %d sells)\n", r.Trades.Total, r.Trades.Buys, r.Trades.Sells)
	fmt.Fprintln(out, "  Daily:")
	for _, d := range r.Daily {
		fmt.Fprintf(out, "    %s  %12s  %10s (%s%%)\n", d.Date, d.TotalAssets.StringFixed(2),
			d.DailyProfitLoss.StringFixed(2), d.DailyReturnPct.StringFixed(2))
	}
	return nil
}

func runAccuracy(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	r := s.engine.Accuracy()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Accuracy: %d/%d (%s%%)\n",
		r.Summary.CorrectPredictions, r.Summary.TotalPredictions, r.Summary.AccuracyPct.StringFixed(2))
	for _, m := range r.Monthly {
		fmt.Fprintf(out, "  %s  %d/%d (%s%%)\n", m.Month, m.Correct, m.Total, m.AccuracyPct.StringFixed(2))
	}
	fmt.Fprintf(out, "\n%s\n", r.Limitation)
	return nil
}
