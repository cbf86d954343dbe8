package feed

import (
	"compress/gzip"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/ulikunitz/xz"

	"github.com/rustyeddy/marketsim/market"
)

// Accepted row shapes, after the timestamp column:
//
//	close,volume                                    (minimal equity data)
//	open,high,low,close,volume                      (OHLCV)
//	open,high,low,close,volume,trade_count[,vwap]   (futures/e-mini)
//
// A single header row is allowed. Any row that fails to parse is fatal: no
// partial or garbage bars are ever admitted into a symbol's buffer.

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"20060102 15:04:05",
	"2006-01-02",
}

func parseBarTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("bad time %q", s)
}

func parsePrice(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(s))
}

func parseCount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	// Some exports write integral columns as floats ("1234.0").
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int64(f), nil
}

func parseBarRow(symbol string, row []string) (market.Bar, error) {
	b := market.Bar{Symbol: symbol}

	t, err := parseBarTime(row[0])
	if err != nil {
		return market.Bar{}, err
	}
	b.Time = t

	switch {
	case len(row) >= 6:
		if b.Open, err = parsePrice(row[1]); err != nil {
			return market.Bar{}, fmt.Errorf("bad open %q: %w", row[1], err)
		}
		if b.High, err = parsePrice(row[2]); err != nil {
			return market.Bar{}, fmt.Errorf("bad high %q: %w", row[2], err)
		}
		if b.Low, err = parsePrice(row[3]); err != nil {
			return market.Bar{}, fmt.Errorf("bad low %q: %w", row[3], err)
		}
		if b.Close, err = parsePrice(row[4]); err != nil {
			return market.Bar{}, fmt.Errorf("bad close %q: %w", row[4], err)
		}
		if b.Volume, err = parseCount(row[5]); err != nil {
			return market.Bar{}, fmt.Errorf("bad volume %q: %w", row[5], err)
		}
		if len(row) >= 7 {
			if b.TradeCount, err = parseCount(row[6]); err != nil {
				return market.Bar{}, fmt.Errorf("bad trade_count %q: %w", row[6], err)
			}
		}
		if len(row) >= 8 {
			if b.VWAP, err = parsePrice(row[7]); err != nil {
				return market.Bar{}, fmt.Errorf("bad vwap %q: %w", row[7], err)
			}
		}

	case len(row) == 3:
		if b.Close, err = parsePrice(row[1]); err != nil {
			return market.Bar{}, fmt.Errorf("bad close %q: %w", row[1], err)
		}
		if b.Volume, err = parseCount(row[2]); err != nil {
			return market.Bar{}, fmt.Errorf("bad volume %q: %w", row[2], err)
		}

	default:
		return market.Bar{}, fmt.Errorf("bad row: need 3 or 6+ columns, got %d", len(row))
	}

	return b, nil
}

// openSource opens a bar CSV, transparently decompressing .gz and .xz files.
func openSource(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	switch {
	case strings.HasSuffix(path, ".gz"):
		zr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("gzip %s: %w", path, err)
		}
		return struct {
			io.Reader
			io.Closer
		}{zr, f}, nil

	case strings.HasSuffix(path, ".xz"):
		xr, err := xz.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("xz %s: %w", path, err)
		}
		return struct {
			io.Reader
			io.Closer
		}{xr, f}, nil
	}

	return f, nil
}

// loadBars reads an entire bar source for one symbol. Rows must be ordered
// by timestamp ascending; duplicate timestamps keep the first row.
func loadBars(path, symbol string) ([]market.Bar, error) {
	src, err := openSource(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	r := csv.NewReader(src)
	r.FieldsPerRecord = -1

	var (
		bars       []market.Bar
		duplicates int
		sawFirst   bool
		line       int
	)

	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		line++
		if len(row) == 0 {
			continue
		}

		if !sawFirst {
			sawFirst = true
			first := strings.ToLower(strings.TrimSpace(row[0]))
			if first == "time" || first == "datetime" || first == "date" {
				continue
			}
		}

		b, err := parseBarRow(symbol, row)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, line, err)
		}

		if n := len(bars); n > 0 {
			prev := bars[n-1].Time
			if b.Time.Equal(prev) {
				// keep-first policy
				duplicates++
				continue
			}
			if b.Time.Before(prev) {
				return nil, fmt.Errorf("%s line %d: out of order timestamp %s", path, line, b.Time)
			}
		}
		bars = append(bars, b)
	}

	if len(bars) == 0 {
		return nil, fmt.Errorf("%s: no bars", path)
	}
	if duplicates > 0 {
		slog.Warn("duplicate timestamps dropped", "path", path, "count", duplicates)
	}
	return bars, nil
}

// sourcePath resolves dir/SYMBOL.csv, preferring a plain file but accepting
// .gz and .xz compressed variants.
func sourcePath(dir, symbol string) (string, error) {
	base := filepath.Join(dir, symbol+".csv")
	for _, p := range []string{base, base + ".gz", base + ".xz"} {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("no bar source for %s in %s", symbol, dir)
}
