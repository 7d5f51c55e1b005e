package journal

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/rustyeddy/papertrade/money"
)

var csvHeader = []string{
	"id", "date", "time", "code", "name", "action", "shares",
	"price", "amount", "commission", "stamp_duty", "net_profit", "reason",
}

// CSVJournal appends trades as CSV rows under a fixed header.
type CSVJournal struct {
	mu   sync.Mutex
	path string
	f    *os.File
	w    *csv.Writer
	log  *zap.Logger
}

func NewCSV(path string, log *zap.Logger) (*CSVJournal, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(csvHeader); err != nil {
			f.Close()
			return nil, err
		}
		w.Flush()
		if err := w.Error(); err != nil {
			f.Close()
			return nil, err
		}
	}
	return &CSVJournal{path: path, f: f, w: w, log: log}, nil
}

func (j *CSVJournal) Append(t Trade) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	err := j.w.Write([]string{
		t.ID,
		t.Date,
		t.Time,
		t.Code,
		t.Name,
		string(t.Action),
		strconv.FormatInt(t.Shares, 10),
		t.Price.String(),
		t.Amount.String(),
		t.Commission.String(),
		t.StampDuty.String(),
		t.NetProfit.String(),
		t.Reason,
	})
	if err != nil {
		return err
	}
	j.w.Flush()
	if err := j.w.Error(); err != nil {
		return fmt.Errorf("append trade to %s: %w", j.path, err)
	}
	return j.f.Sync()
}

// Load reads every row after the header. Rows that do not parse are logged
// and skipped.
func (j *CSVJournal) Load() ([]Trade, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	f, err := os.Open(j.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", j.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(csvHeader)

	var out []Trade
	for row := 0; ; row++ {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if !errors.As(err, &perr) {
				return nil, fmt.Errorf("read journal %s: %w", j.path, err)
			}
			j.log.Error("skipping malformed journal row",
				zap.String("path", j.path), zap.Int("row", row), zap.Error(err))
			continue
		}
		if row == 0 && rec[0] == csvHeader[0] {
			continue
		}
		t, err := parseCSVRow(rec)
		if err != nil {
			j.log.Error("skipping malformed journal row",
				zap.String("path", j.path), zap.Int("row", row), zap.Error(err))
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (j *CSVJournal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.w.Flush()
	if err := j.w.Error(); err != nil {
		return err
	}
	return j.f.Close()
}

func parseCSVRow(rec []string) (Trade, error) {
	action, err := ParseAction(rec[5])
	if err != nil {
		return Trade{}, err
	}
	shares, err := strconv.ParseInt(rec[6], 10, 64)
	if err != nil {
		return Trade{}, fmt.Errorf("shares: %w", err)
	}
	t := Trade{
		ID:     rec[0],
		Date:   rec[1],
		Time:   rec[2],
		Code:   rec[3],
		Name:   rec[4],
		Action: action,
		Shares: shares,
		Reason: rec[12],
	}
	fields := []struct {
		dst *money.Amount
		src string
	}{
		{&t.Price, rec[7]},
		{&t.Amount, rec[8]},
		{&t.Commission, rec[9]},
		{&t.StampDuty, rec[10]},
		{&t.NetProfit, rec[11]},
	}
	for _, fld := range fields {
		v, err := money.Parse(fld.src)
		if err != nil {
			return Trade{}, err
		}
		*fld.dst = v
	}
	return t, nil
}
