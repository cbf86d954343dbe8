package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

// CSV writes equity rows and fills to two flat files, flushing after every
// record so a crashed run still leaves usable output.
type CSV struct {
	equity *csv.Writer
	fills  *csv.Writer
	ef, ff *os.File
}

func NewCSV(equityPath, fillsPath string) (*CSV, error) {
	ef, err := os.Create(equityPath)
	if err != nil {
		return nil, err
	}
	ff, err := os.Create(fillsPath)
	if err != nil {
		ef.Close()
		return nil, err
	}

	ew := csv.NewWriter(ef)
	fw := csv.NewWriter(ff)

	if err := ew.Write([]string{"time", "cash", "holdings", "total", "return", "equity_curve"}); err != nil {
		return nil, err
	}
	if err := fw.Write([]string{"fill_id", "order_id", "symbol", "side", "quantity", "fill_price", "commission", "time"}); err != nil {
		return nil, err
	}

	ew.Flush()
	if err := ew.Error(); err != nil {
		return nil, err
	}
	fw.Flush()
	if err := fw.Error(); err != nil {
		return nil, err
	}

	return &CSV{equity: ew, fills: fw, ef: ef, ff: ff}, nil
}

func (j *CSV) RecordEquity(e EquityRecord) error {
	err := j.equity.Write([]string{
		e.Time.Format(time.RFC3339),
		e.Cash.String(),
		e.Holdings.String(),
		e.Total.String(),
		e.Return.String(),
		e.Equity.String(),
	})
	if err != nil {
		return err
	}

	j.equity.Flush()
	return j.equity.Error()
}

func (j *CSV) RecordFill(f FillRecord) error {
	err := j.fills.Write([]string{
		f.FillID,
		f.OrderID,
		f.Symbol,
		f.Side,
		strconv.FormatInt(f.Quantity, 10),
		f.FillPrice.String(),
		f.Commission.String(),
		f.Time.Format(time.RFC3339),
	})
	if err != nil {
		return err
	}

	j.fills.Flush()
	return j.fills.Error()
}

func (j *CSV) Close() error {
	j.equity.Flush()
	if err := j.equity.Error(); err != nil {
		return err
	}
	j.fills.Flush()
	if err := j.fills.Error(); err != nil {
		return err
	}

	if err := j.ef.Close(); err != nil {
		return err
	}
	return j.ff.Close()
}
