package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/rustyeddy/papertrade/analysis"
	"github.com/rustyeddy/papertrade/journal"
	"github.com/rustyeddy/papertrade/money"
	"github.com/rustyeddy/papertrade/risk"
	"github.com/rustyeddy/papertrade/snapshot"
)

const defaultLot = 100

type tradePayload struct {
	Code   string       `json:"code"`
	Name   string       `json:"name"`
	Action string       `json:"action"`
	Shares int64        `json:"shares"`
	Price  money.Amount `json:"price"`
	Reason string       `json:"reason"`
}

type holdPayload struct {
	Code      string       `json:"code"`
	Name      string       `json:"name"`
	Shares    int64        `json:"shares"`
	CostPrice money.Amount `json:"cost_price"`
	Notes     string       `json:"notes"`
}

type pricePayload struct {
	Price money.Amount `json:"price"`
}

type quotesPayload struct {
	Prices map[string]money.Amount `json:"prices"`
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) getPortfolio(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.engine.Summary())
}

func (h *handler) getDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.engine.Dashboard()
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *handler) getAlerts(w http.ResponseWriter, r *http.Request) {
	alerts := h.engine.Alerts()
	if alerts == nil {
		alerts = []risk.Alert{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"alerts": alerts, "count": len(alerts)})
}

func (h *handler) getSize(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	code := strings.TrimSpace(q.Get("code"))
	if code == "" {
		writeError(w, r, http.StatusBadRequest, "code is required")
		return
	}
	price, err := money.Parse(q.Get("price"))
	if err != nil || !price.IsPositive() {
		writeError(w, r, http.StatusBadRequest, "price must be a positive number")
		return
	}
	lot, ok := intParam(q.Get("lot"), defaultLot)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "invalid lot")
		return
	}
	writeJSON(w, http.StatusOK, h.engine.Size(code, price, int64(lot)))
}

func (h *handler) holdPosition(w http.ResponseWriter, r *http.Request) {
	var p holdPayload
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	pos, err := h.engine.Hold(strings.TrimSpace(p.Code), p.Name, p.Shares, p.CostPrice, p.Notes)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, pos)
}

func (h *handler) setPrice(w http.ResponseWriter, r *http.Request) {
	var p pricePayload
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	pos, err := h.engine.SetQuote(chi.URLParam(r, "code"), p.Price)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pos)
}

func (h *handler) setQuotes(w http.ResponseWriter, r *http.Request) {
	var p quotesPayload
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	n, err := h.engine.SetQuotes(p.Prices)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"applied": n, "received": len(p.Prices)})
}

func (h *handler) getTrades(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, to := q.Get("from"), q.Get("to")
	if from != "" || to != "" {
		trades, err := h.engine.TradesBetween(from, to)
		if err != nil {
			writeEngineError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, tradeList(trades))
		return
	}

	limit, ok := intParam(q.Get("limit"), 0)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "invalid limit")
		return
	}
	trades, err := h.engine.History(limit)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tradeList(trades))
}

func (h *handler) recordTrade(w http.ResponseWriter, r *http.Request) {
	var p tradePayload
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	action, err := journal.ParseAction(p.Action)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	t, err := h.engine.RecordTrade(strings.TrimSpace(p.Code), p.Name, action, p.Shares, p.Price, p.Reason)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (h *handler) getTrade(w http.ResponseWriter, r *http.Request) {
	t, err := h.engine.Trade(chi.URLParam(r, "id"))
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *handler) getSnapshots(w http.ResponseWriter, r *http.Request) {
	limit, ok := intParam(r.URL.Query().Get("limit"), 0)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "invalid limit")
		return
	}
	snaps := h.engine.Snapshots().Latest(limit)
	if snaps == nil {
		snaps = []snapshot.DailySnapshot{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"snapshots": snaps, "count": len(snaps)})
}

func (h *handler) takeSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.engine.TakeDailySnapshot()
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, snap)
}

func (h *handler) getReport(w http.ResponseWriter, r *http.Request) {
	days, ok := intParam(r.URL.Query().Get("days"), analysis.DefaultReportDays)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "invalid days")
		return
	}
	rep, err := h.engine.Report(days)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (h *handler) getAccuracy(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.engine.Accuracy())
}

func tradeList(trades []journal.Trade) map[string]any {
	if trades == nil {
		trades = []journal.Trade{}
	}
	return map[string]any{"trades": trades, "count": len(trades)}
}

// intParam parses a non-negative integer query value. Empty means def.
func intParam(s string, def int) (int, bool) {
	if s == "" {
		return def, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
