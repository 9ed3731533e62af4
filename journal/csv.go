package journal

import (
	"encoding/csv"
	"os"
	"time"
)

var (
	tradeHeader  = []string{"trade_id", "account", "symbol", "action", "quantity", "price", "total", "status", "source", "realized_pl", "time"}
	equityHeader = []string{"time", "account", "balance", "equity", "unrealized_pl"}
)

type CSV struct {
	trades *csv.Writer
	equity *csv.Writer
	tf, ef *os.File
}

// NewCSV appends to the two files, creating them with a header row when
// they are new or empty.
func NewCSV(tradesPath, equityPath string) (*CSV, error) {
	tf, tnew, err := openAppend(tradesPath)
	if err != nil {
		return nil, err
	}
	ef, enew, err := openAppend(equityPath)
	if err != nil {
		tf.Close()
		return nil, err
	}

	j := &CSV{
		trades: csv.NewWriter(tf),
		equity: csv.NewWriter(ef),
		tf:     tf,
		ef:     ef,
	}
	if tnew {
		if err := j.write(j.trades, tradeHeader); err != nil {
			j.Close()
			return nil, err
		}
	}
	if enew {
		if err := j.write(j.equity, equityHeader); err != nil {
			j.Close()
			return nil, err
		}
	}
	return j, nil
}

// openAppend reports whether the file was empty and so needs a header.
func openAppend(path string) (*os.File, bool, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, false, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, false, err
	}
	return f, st.Size() == 0, nil
}

func (j *CSV) write(w *csv.Writer, rec []string) error {
	if err := w.Write(rec); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func (j *CSV) RecordTrade(t TradeRecord) error {
	return j.write(j.trades, []string{
		t.ID,
		string(t.Account),
		t.Symbol,
		string(t.Action),
		t.Quantity.String(),
		t.Price.StringFixed(2),
		t.Total.StringFixed(2),
		string(t.Status),
		string(t.Source),
		t.RealizedPL.StringFixed(2),
		t.Time.UTC().Format(time.RFC3339),
	})
}

func (j *CSV) RecordEquity(e EquitySnapshot) error {
	return j.write(j.equity, []string{
		e.Time.UTC().Format(time.RFC3339),
		string(e.Account),
		e.Balance.StringFixed(2),
		e.Equity.StringFixed(2),
		e.UnrealizedPL.StringFixed(2),
	})
}

func (j *CSV) Close() error {
	j.trades.Flush()
	if err := j.trades.Error(); err != nil {
		return err
	}
	j.equity.Flush()
	if err := j.equity.Error(); err != nil {
		return err
	}

	if err := j.tf.Close(); err != nil {
		return err
	}
	return j.ef.Close()
}
