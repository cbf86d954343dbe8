package journal

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ListEquityBetween returns equity rows with time in [start, end), oldest
// first.
func (j *SQLite) ListEquityBetween(start, end time.Time) ([]EquityRecord, error) {
	rows, err := j.db.Query(`
		SELECT time, cash, holdings, total, period_return, equity_curve
		FROM equity
		WHERE time >= ? AND time < ?
		ORDER BY time ASC`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EquityRecord
	for rows.Next() {
		var (
			rec                                EquityRecord
			cash, holdings, total, ret, curve string
		)
		if err := rows.Scan(&rec.Time, &cash, &holdings, &total, &ret, &curve); err != nil {
			return nil, err
		}

		if rec.Cash, err = parseDec(cash); err != nil {
			return nil, err
		}
		if rec.Holdings, err = parseDec(holdings); err != nil {
			return nil, err
		}
		if rec.Total, err = parseDec(total); err != nil {
			return nil, err
		}
		if rec.Return, err = parseDec(ret); err != nil {
			return nil, err
		}
		if rec.Equity, err = parseDec(curve); err != nil {
			return nil, err
		}

		out = append(out, rec)
	}
	return out, rows.Err()
}

// ListFills returns every recorded fill for symbol, oldest first.
func (j *SQLite) ListFills(symbol string) ([]FillRecord, error) {
	rows, err := j.db.Query(`
		SELECT fill_id, order_id, symbol, side, quantity, fill_price, commission, time
		FROM fills
		WHERE symbol = ?
		ORDER BY time ASC`, symbol)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []FillRecord
	for rows.Next() {
		var (
			rec               FillRecord
			price, commission string
		)
		if err := rows.Scan(&rec.FillID, &rec.OrderID, &rec.Symbol, &rec.Side,
			&rec.Quantity, &price, &commission, &rec.Time); err != nil {
			return nil, err
		}

		if rec.FillPrice, err = parseDec(price); err != nil {
			return nil, err
		}
		if rec.Commission, err = parseDec(commission); err != nil {
			return nil, err
		}

		out = append(out, rec)
	}
	return out, rows.Err()
}

func parseDec(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("journal: bad decimal %q: %w", s, err)
	}
	return d, nil
}
