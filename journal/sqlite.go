package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

// SQLite persists equity rows and fills in a single database file, which
// keeps multi-run comparisons queryable.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordEquity(e EquityRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO equity
		(time, cash, holdings, total, period_return, equity_curve)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.Time, e.Cash.String(), e.Holdings.String(), e.Total.String(),
		e.Return.String(), e.Equity.String(),
	)
	return err
}

func (j *SQLite) RecordFill(f FillRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO fills
		(fill_id, order_id, symbol, side, quantity, fill_price, commission, time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		f.FillID, f.OrderID, f.Symbol, f.Side, f.Quantity,
		f.FillPrice.String(), f.Commission.String(), f.Time,
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
