package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/papertrade/analysis"
	"github.com/rustyeddy/papertrade/config"
	"github.com/rustyeddy/papertrade/journal"
	"github.com/rustyeddy/papertrade/portfolio"
	"github.com/rustyeddy/papertrade/risk"
	"github.com/rustyeddy/papertrade/sim"
	"github.com/rustyeddy/papertrade/snapshot"
	"github.com/rustyeddy/papertrade/store"
)

var testNow = time.Date(2024, 1, 15, 14, 30, 0, 0, time.UTC)

// setupTestRouter builds a router over an engine backed by files in a
// temporary directory.
func setupTestRouter(t *testing.T) http.Handler {
	t.Helper()

	dir := t.TempDir()
	now := func() time.Time { return testNow }
	j, err := journal.NewJSONL(filepath.Join(dir, "trades.jsonl"), nil)
	require.NoError(t, err)

	e, err := sim.NewEngine(
		&store.AccountFile{Path: filepath.Join(dir, "portfolio.json"), Defaults: portfolio.DefaultSettings(), Now: now},
		&store.SnapshotFile{Path: filepath.Join(dir, "daily_snapshots.json")},
		j,
		sim.WithClock(now),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })

	return NewRouter(e, config.ServerConfig{}, nil)
}

// doRequest performs a request and returns the response.
func doRequest(router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var reqBody bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		reqBody.WriteString(b)
	default:
		_ = json.NewEncoder(&reqBody).Encode(b)
	}

	req := httptest.NewRequest(method, path, &reqBody)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&v), rr.Body.String())
	return v
}

func buy(t *testing.T, router http.Handler) journal.Trade {
	t.Helper()
	rr := doRequest(router, http.MethodPost, "/api/trades", map[string]any{
		"code": "600519", "name": "Moutai", "action": "buy", "shares": 100, "price": 15, "reason": "breakout",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decode[journal.Trade](t, rr)
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()
	router := setupTestRouter(t)

	rr := doRequest(router, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", decode[map[string]string](t, rr)["status"])
}

func TestRecordTradeUpdatesPortfolio(t *testing.T) {
	t.Parallel()
	router := setupTestRouter(t)

	tr := buy(t, router)
	assert.NotEmpty(t, tr.ID)
	assert.Equal(t, journal.Buy, tr.Action)
	assert.Equal(t, "2024-01-15", tr.Date)
	assert.Equal(t, "14:30:00", tr.Time)
	assert.Equal(t, "5.00", tr.Commission.StringFixed(2))

	rr := doRequest(router, http.MethodGet, "/api/portfolio", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	sum := decode[portfolio.Summary](t, rr)
	assert.Equal(t, "98495.00", sum.AvailableCash.StringFixed(2))
	assert.Equal(t, 1, sum.PositionCount)
	require.Len(t, sum.Positions, 1)
	assert.Equal(t, "600519", sum.Positions[0].Code)

	rr = doRequest(router, http.MethodGet, "/api/trades/"+tr.ID, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, tr.ID, decode[journal.Trade](t, rr).ID)

	rr = doRequest(router, http.MethodGet, "/api/trades", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.EqualValues(t, 1, decode[map[string]any](t, rr)["count"])

	rr = doRequest(router, http.MethodGet, "/api/trades?from=2024-01-16", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.EqualValues(t, 0, decode[map[string]any](t, rr)["count"])
}

func TestRecordTradeErrors(t *testing.T) {
	t.Parallel()
	router := setupTestRouter(t)
	buy(t, router)

	tests := []struct {
		name string
		body any
		want int
	}{
		{"unknown action", map[string]any{"code": "600519", "action": "hold", "shares": 100, "price": 15}, http.StatusBadRequest},
		{"bad json", "{", http.StatusBadRequest},
		{"unknown field", map[string]any{"code": "600519", "action": "buy", "qty": 1}, http.StatusBadRequest},
		{"zero shares", map[string]any{"code": "600519", "action": "buy", "shares": 0, "price": 15}, http.StatusBadRequest},
		{"missing code", map[string]any{"action": "buy", "shares": 100, "price": 15}, http.StatusBadRequest},
		{"negative price", map[string]any{"code": "600519", "action": "add", "shares": 100, "price": -1}, http.StatusBadRequest},
		{"oversell", map[string]any{"code": "600519", "action": "sell", "shares": 200, "price": 15}, http.StatusBadRequest},
		{"too expensive", map[string]any{"code": "000001", "action": "buy", "shares": 100000, "price": 10}, http.StatusBadRequest},
		{"not held", map[string]any{"code": "000001", "action": "sell", "shares": 100, "price": 10}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doRequest(router, http.MethodPost, "/api/trades", tt.body)
			assert.Equal(t, tt.want, rr.Code, rr.Body.String())
			assert.NotEmpty(t, decode[ErrorResponse](t, rr).Error)
		})
	}

	rr := doRequest(router, http.MethodGet, "/api/trades/nope", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	rr = doRequest(router, http.MethodGet, "/api/trades?limit=x", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestPricesAndPositions(t *testing.T) {
	t.Parallel()
	router := setupTestRouter(t)
	buy(t, router)

	rr := doRequest(router, http.MethodPut, "/api/positions/600519/price", map[string]any{"price": 16})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "16.00", decode[portfolio.Position](t, rr).CurrentPrice.StringFixed(2))

	rr = doRequest(router, http.MethodPut, "/api/positions/000001/price", map[string]any{"price": 16})
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = doRequest(router, http.MethodPost, "/api/quotes", map[string]any{
		"prices": map[string]float64{"600519": 17, "000001": 9},
	})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, map[string]int{"applied": 1, "received": 2}, decode[map[string]int](t, rr))

	rr = doRequest(router, http.MethodPost, "/api/positions", map[string]any{
		"code": "000858", "name": "Wuliangye", "shares": 200, "cost_price": 150,
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	pos := decode[portfolio.Position](t, rr)
	assert.EqualValues(t, 200, pos.Shares)

	// Holding does not move cash.
	rr = doRequest(router, http.MethodGet, "/api/portfolio", nil)
	assert.Equal(t, "98495.00", decode[portfolio.Summary](t, rr).AvailableCash.StringFixed(2))
}

func TestSnapshotsAndAnalytics(t *testing.T) {
	t.Parallel()
	router := setupTestRouter(t)
	buy(t, router)

	rr := doRequest(router, http.MethodPost, "/api/snapshots", nil)
	require.Equal(t, http.StatusCreated, rr.Code)
	snap := decode[snapshot.DailySnapshot](t, rr)
	assert.Equal(t, "2024-01-15", snap.Date)
	assert.Equal(t, "99995.00", snap.TotalAssets.StringFixed(2))

	rr = doRequest(router, http.MethodGet, "/api/snapshots", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.EqualValues(t, 1, decode[map[string]any](t, rr)["count"])

	rr = doRequest(router, http.MethodGet, "/api/report?days=3", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	rep := decode[analysis.Report](t, rr)
	assert.Equal(t, 3, rep.Days)
	assert.Equal(t, 1, rep.Trades.Total)

	rr = doRequest(router, http.MethodGet, "/api/report?days=-1", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doRequest(router, http.MethodGet, "/api/accuracy", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	acc := decode[analysis.AccuracyReport](t, rr)
	assert.Equal(t, 0, acc.Summary.TotalPredictions)

	rr = doRequest(router, http.MethodGet, "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	dash := decode[analysis.Dashboard](t, rr)
	assert.Equal(t, 1, dash.TradeStats.Buys)
}

func TestAlertsAndSize(t *testing.T) {
	t.Parallel()
	router := setupTestRouter(t)
	buy(t, router)

	// A 10% drop breaches the default 8% stop loss.
	rr := doRequest(router, http.MethodPut, "/api/positions/600519/price", map[string]any{"price": 13.5})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doRequest(router, http.MethodGet, "/api/alerts", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var body struct {
		Alerts []risk.Alert `json:"alerts"`
		Count  int          `json:"count"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	require.Equal(t, 1, body.Count)
	assert.Equal(t, risk.StopLoss, body.Alerts[0].Kind)

	rr = doRequest(router, http.MethodGet, "/api/size?code=000001&price=10", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	c := decode[risk.Capacity](t, rr)
	assert.Zero(t, c.Shares%100)
	assert.Positive(t, c.Shares)

	rr = doRequest(router, http.MethodGet, "/api/size?price=10", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	rr = doRequest(router, http.MethodGet, "/api/size?code=000001&price=0", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCORSPreflight(t *testing.T) {
	t.Parallel()
	router := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/trades", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestStatusFor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, http.StatusNotFound, statusFor(journal.ErrTradeNotFound))
	assert.Equal(t, http.StatusBadRequest, statusFor(portfolio.ErrInsufficientCash))
	assert.Equal(t, http.StatusInternalServerError, statusFor(store.ErrPersistence))
}
