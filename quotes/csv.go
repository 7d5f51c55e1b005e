// Package quotes reads price files used to mark positions to market.
package quotes

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rustyeddy/papertrade/money"
)

type Quote struct {
	Code  string
	Price money.Amount
	Date  string // optional, YYYY-MM-DD
}

// CSVFeed yields quotes from CSV rows.
//
// Expected columns:
// code,price[,date]
// Header allowed; blank rows are skipped.
type CSVFeed struct {
	c        io.Closer
	r        *csv.Reader
	line     int
	sawFirst bool
}

func OpenCSV(path string) (*CSVFeed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	feed := NewCSVFeed(f)
	feed.c = f
	return feed, nil
}

// NewCSVFeed reads quotes from r. The caller owns r.
func NewCSVFeed(r io.Reader) *CSVFeed {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'
	return &CSVFeed{r: cr}
}

func (f *CSVFeed) Close() error {
	if f.c != nil {
		return f.c.Close()
	}
	return nil
}

// Next returns the next quote, or false at the end of the input.
func (f *CSVFeed) Next() (Quote, bool, error) {
	for {
		row, err := f.r.Read()
		if errors.Is(err, io.EOF) {
			return Quote{}, false, nil
		}
		if err != nil {
			return Quote{}, false, err
		}
		f.line++
		if len(row) == 0 || (len(row) == 1 && strings.TrimSpace(row[0]) == "") {
			continue
		}

		if !f.sawFirst {
			f.sawFirst = true
			if strings.EqualFold(strings.TrimSpace(row[0]), "code") {
				continue
			}
		}

		if len(row) < 2 || len(row) > 3 {
			return Quote{}, false, fmt.Errorf("row %d: expected code,price[,date], got %d columns", f.line, len(row))
		}
		q := Quote{Code: strings.TrimSpace(row[0])}
		if q.Code == "" {
			return Quote{}, false, fmt.Errorf("row %d: empty code", f.line)
		}
		price, err := money.Parse(strings.TrimSpace(row[1]))
		if err != nil {
			return Quote{}, false, fmt.Errorf("row %d: %w", f.line, err)
		}
		if price.IsNegative() {
			return Quote{}, false, fmt.Errorf("row %d: negative price %s", f.line, price)
		}
		q.Price = price
		if len(row) == 3 {
			q.Date = strings.TrimSpace(row[2])
		}
		return q, true, nil
	}
}

// Latest reads every quote in the file and keeps, per code, the row with the
// latest date. Undated rows count as later than dated ones; among equal
// dates the last row wins.
func Latest(path string) (map[string]money.Amount, error) {
	feed, err := OpenCSV(path)
	if err != nil {
		return nil, err
	}
	defer feed.Close()

	prices := make(map[string]money.Amount)
	dates := make(map[string]string)
	for {
		q, ok, err := feed.Next()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if !ok {
			return prices, nil
		}
		if d, seen := dates[q.Code]; seen && later(d, q.Date) {
			continue
		}
		prices[q.Code] = q.Price
		dates[q.Code] = q.Date
	}
}

// later reports whether date a sorts after b, with "" after everything.
func later(a, b string) bool {
	switch {
	case a == b:
		return false
	case a == "":
		return true
	case b == "":
		return false
	default:
		return a > b
	}
}
