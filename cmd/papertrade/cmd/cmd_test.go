package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the root command. Flag variables are package globals, so
// they are reset first; these tests cannot run in parallel.
func run(t *testing.T, data string, args ...string) (string, error) {
	t.Helper()

	cfgFile, dataDir, logLevel = "", "", ""
	envFile = filepath.Join(data, "missing.env")
	tradesLimit, tradesFrom, tradesTo, tradesID, tradesOrg = 10, "", "", "", false
	reportDays = 7
	priceFile = ""
	sizeLot = 100

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--data", data, "--log-level", "error"}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestTradeLifecycle(t *testing.T) {
	data := t.TempDir()

	out, err := run(t, data, "buy", "600519", "Moutai", "100", "15", "breakout", "above", "range")
	require.NoError(t, err, out)
	assert.Contains(t, out, "✓ BUY 600519 Moutai 100 @ 15.000")
	assert.Contains(t, out, "Cash: 98495.00")

	out, err = run(t, data, "price", "600519", "16")
	require.NoError(t, err, out)
	assert.Contains(t, out, "16.000")

	// 800 proceeds - 750 cost - 5 commission - 0.80 stamp duty.
	out, err = run(t, data, "sell", "600519", "Moutai", "50", "16")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Realized P/L: 44.20")

	out, err = run(t, data, "list")
	require.NoError(t, err, out)
	assert.Contains(t, out, "600519")
	assert.Contains(t, out, "Cash:          99289.20")

	out, err = run(t, data, "trades")
	require.NoError(t, err, out)
	assert.Contains(t, out, "BUY")
	assert.Contains(t, out, "SELL")

	out, err = run(t, data, "trades", "--org")
	require.NoError(t, err, out)
	assert.Contains(t, out, "** Trade: SELL 600519 Moutai")

	out, err = run(t, data, "snapshot")
	require.NoError(t, err, out)
	assert.Contains(t, out, "✓ Snapshot")

	out, err = run(t, data, "report", "-d", "3")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Trades:       2 (1 buys, 1 sells)")
	assert.Contains(t, out, "  Daily:\n")
	assert.Contains(t, out, "0.00 (0.00%)\n")

	out, err = run(t, data, "accuracy")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Accuracy: 0/0")

	out, err = run(t, data, "alerts")
	require.NoError(t, err, out)
	assert.Contains(t, out, "No risk alerts")

	out, err = run(t, data, "size", "000001", "10")
	require.NoError(t, err, out)
	assert.Contains(t, out, "000001 @ 10.000: up to")
}

func TestPriceFromFile(t *testing.T) {
	data := t.TempDir()
	_, err := run(t, data, "buy", "600519", "Moutai", "100", "15")
	require.NoError(t, err)

	path := filepath.Join(data, "closes.csv")
	require.NoError(t, os.WriteFile(path, []byte("code,price,date\n600519,16.5,2024-01-15\n000001,9.8,2024-01-15\n"), 0o644))

	out, err := run(t, data, "price", "--file", path)
	require.NoError(t, err, out)
	assert.Contains(t, out, "✓ Applied 1 of 2 quotes")

	out, err = run(t, data, "list")
	require.NoError(t, err, out)
	assert.Contains(t, out, "16.500")

	_, err = run(t, data, "price", "--file", path, "600519", "1")
	assert.Error(t, err)
}

func TestTradeRejections(t *testing.T) {
	data := t.TempDir()

	_, err := run(t, data, "sell", "000001", "PingAn", "100", "10")
	assert.ErrorContains(t, err, "unknown symbol")

	_, err = run(t, data, "buy", "000001", "PingAn", "many", "10")
	assert.ErrorContains(t, err, "whole number")

	_, err = run(t, data, "buy", "000001", "PingAn", "100")
	assert.Error(t, err)

	_, err = run(t, data, "price", "000001", "10")
	assert.ErrorContains(t, err, "unknown symbol")
}

func TestHoldDoesNotMoveCash(t *testing.T) {
	data := t.TempDir()

	out, err := run(t, data, "hold", "000858", "Wuliangye", "200", "150")
	require.NoError(t, err, out)
	assert.Contains(t, out, "✓ Holding 000858 Wuliangye: 200 shares")

	out, err = run(t, data, "list")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Cash:          100000.00")

	out, err = run(t, data, "trades")
	require.NoError(t, err, out)
	assert.Contains(t, out, "No trades.")
}

func TestConfigInitAndValidate(t *testing.T) {
	data := t.TempDir()
	path := filepath.Join(data, "papertrade.yaml")

	out, err := run(t, data, "config", "init", "-o", path)
	require.NoError(t, err, out)
	assert.Contains(t, out, "✓ Created default configuration")

	out, err = run(t, data, "config", "validate", "-f", path)
	require.NoError(t, err, out)
	assert.Contains(t, out, "✓ Configuration valid")
	assert.Contains(t, out, "Journal: jsonl")
}

func TestVersion(t *testing.T) {
	out, err := run(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Contains(t, out, "papertrade version "+version)
}
