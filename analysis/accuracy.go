package analysis

import (
	"github.com/rustyeddy/papertrade/money"
	"github.com/rustyeddy/papertrade/snapshot"
)

// MaxAccuracyRecords bounds the graded records returned.
const MaxAccuracyRecords = 30

// PredictionHold is the only signal the backtest can infer.
const PredictionHold = "hold"

// Limitation is reported alongside every accuracy result.
const Limitation = "Accuracy treats holding any position at snapshot time as a single hold/buy signal " +
	"and grades it correct when total assets rise by the next snapshot. It does not read per-symbol " +
	"advice history, so cash drag and offsetting positions are not attributed to individual symbols."

// Graded is one prediction day checked against the following snapshot.
type Graded struct {
	Date             string       `json:"date"`
	NextDate         string       `json:"next_date"`
	Prediction       string       `json:"prediction"`
	NextDayReturnPct money.Amount `json:"next_day_return"`
	Correct          bool         `json:"is_correct"`
	TotalAssets      money.Amount `json:"total_assets"`
}

// MonthAccuracy groups graded days by YYYY-MM.
type MonthAccuracy struct {
	Month       string       `json:"month"`
	Total       int          `json:"total"`
	Correct     int          `json:"correct"`
	AccuracyPct money.Amount `json:"accuracy"`
}

type AccuracySummary struct {
	TotalPredictions   int          `json:"total_predictions"`
	CorrectPredictions int          `json:"correct_predictions"`
	AccuracyPct        money.Amount `json:"accuracy_rate"`
}

type AccuracyReport struct {
	Summary    AccuracySummary `json:"summary"`
	Records    []Graded        `json:"records"`
	Monthly    []MonthAccuracy `json:"monthly_accuracy"`
	Limitation string          `json:"limitation"`
}

// Accuracy grades each snapshot date against the next one in the series.
// Only days with at least one held position count as predictions, pairs
// whose base total is zero are skipped, and the last date is never graded.
func Accuracy(series snapshot.Series) AccuracyReport {
	snaps := series.Sorted()
	rep := AccuracyReport{
		Summary:    AccuracySummary{AccuracyPct: money.Zero},
		Records:    []Graded{},
		Monthly:    []MonthAccuracy{},
		Limitation: Limitation,
	}

	var (
		graded []Graded
		months []string
		byMon  = map[string]*MonthAccuracy{}
	)
	for i := 0; i+1 < len(snaps); i++ {
		cur, next := snaps[i], snaps[i+1]
		if !cur.TotalAssets.IsPositive() || !cur.HeldPositions() {
			continue
		}
		ret := next.TotalAssets.Sub(cur.TotalAssets).Pct(cur.TotalAssets)
		g := Graded{
			Date:             cur.Date,
			NextDate:         next.Date,
			Prediction:       PredictionHold,
			NextDayReturnPct: ret,
			Correct:          ret.IsPositive(),
			TotalAssets:      cur.TotalAssets,
		}
		graded = append(graded, g)

		rep.Summary.TotalPredictions++
		month := monthOf(g.Date)
		m, ok := byMon[month]
		if !ok {
			m = &MonthAccuracy{Month: month}
			byMon[month] = m
			months = append(months, month)
		}
		m.Total++
		if g.Correct {
			rep.Summary.CorrectPredictions++
			m.Correct++
		}
	}

	rep.Summary.AccuracyPct = ratePct(rep.Summary.CorrectPredictions, rep.Summary.TotalPredictions)
	// Dates are ascending so months are already in order.
	for _, month := range months {
		m := byMon[month]
		m.AccuracyPct = ratePct(m.Correct, m.Total)
		rep.Monthly = append(rep.Monthly, *m)
	}
	if len(graded) > MaxAccuracyRecords {
		graded = graded[len(graded)-MaxAccuracyRecords:]
	}
	if graded != nil {
		rep.Records = graded
	}
	return rep
}

func monthOf(date string) string {
	if len(date) < 7 {
		return date
	}
	return date[:7]
}

func ratePct(n, d int) money.Amount {
	return money.FromInt(int64(n)).Pct(money.FromInt(int64(d)))
}
