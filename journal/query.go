package journal

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rustyeddy/quantdesk/account"
	"github.com/rustyeddy/quantdesk/broker"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("not found")

const tradeColumns = `trade_id, account, symbol, action, quantity, price, total, status, source, realized_pl, time`

type rowScanner interface {
	Scan(dest ...any) error
}

// scanTrade reads one trades row; amounts come back as TEXT.
func scanTrade(row rowScanner) (TradeRecord, error) {
	var rec TradeRecord
	var acct, action, status, source string
	var qty, price, total, realized string
	if err := row.Scan(&rec.ID, &acct, &rec.Symbol, &action, &qty, &price, &total, &status, &source, &realized, &rec.Time); err != nil {
		return TradeRecord{}, err
	}
	rec.Account = account.Selector(acct)
	rec.Action = broker.Action(action)
	rec.Status = broker.Status(status)
	rec.Source = broker.Source(source)

	var err error
	if rec.Quantity, err = decimal.NewFromString(qty); err != nil {
		return TradeRecord{}, fmt.Errorf("trade %s quantity: %w", rec.ID, err)
	}
	if rec.Price, err = decimal.NewFromString(price); err != nil {
		return TradeRecord{}, fmt.Errorf("trade %s price: %w", rec.ID, err)
	}
	if rec.Total, err = decimal.NewFromString(total); err != nil {
		return TradeRecord{}, fmt.Errorf("trade %s total: %w", rec.ID, err)
	}
	if rec.RealizedPL, err = decimal.NewFromString(realized); err != nil {
		return TradeRecord{}, fmt.Errorf("trade %s realized_pl: %w", rec.ID, err)
	}
	return rec, nil
}

// GetTrade returns a single trade record by ID.
func (j *sqlStore) GetTrade(tradeID string) (TradeRecord, error) {
	row := j.db.QueryRow(`SELECT `+tradeColumns+` FROM trades WHERE trade_id = ?`, tradeID)

	rec, err := scanTrade(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return TradeRecord{}, fmt.Errorf("trade %q: %w", tradeID, ErrNotFound)
		}
		return TradeRecord{}, err
	}
	return rec, nil
}

// ListTrades returns every trade in insertion order.
func (j *sqlStore) ListTrades() ([]TradeRecord, error) {
	rows, err := j.db.Query(`SELECT ` + tradeColumns + ` FROM trades ORDER BY seq ASC`)
	if err != nil {
		return nil, err
	}
	return collectTrades(rows)
}

// ListTradesBetween returns trades whose time is within [start, end).
func (j *sqlStore) ListTradesBetween(start, end time.Time) ([]TradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT `+tradeColumns+`
		FROM trades
		WHERE time >= ? AND time < ?
		ORDER BY seq ASC`, start.UTC(), end.UTC())
	if err != nil {
		return nil, err
	}
	return collectTrades(rows)
}

func collectTrades(rows *sql.Rows) ([]TradeRecord, error) {
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		rec, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListEquity returns the equity curve for one account in time order.
func (j *sqlStore) ListEquity(acct account.Selector) ([]EquitySnapshot, error) {
	rows, err := j.db.Query(`
		SELECT time, account, balance, equity, unrealized_pl
		FROM equity
		WHERE account = ?
		ORDER BY time ASC`, string(acct))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EquitySnapshot
	for rows.Next() {
		var snap EquitySnapshot
		var sel, bal, eq, unrealized string
		if err := rows.Scan(&snap.Time, &sel, &bal, &eq, &unrealized); err != nil {
			return nil, err
		}
		snap.Account = account.Selector(sel)
		snap.Balance, _ = decimal.NewFromString(bal)
		snap.Equity, _ = decimal.NewFromString(eq)
		snap.UnrealizedPL, _ = decimal.NewFromString(unrealized)
		out = append(out, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
