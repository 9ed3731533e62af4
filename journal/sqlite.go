package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

// sqlStore is the database/sql journal shared by SQLite and MySQL. Both
// drivers take ? placeholders.
type sqlStore struct {
	db *sql.DB
}

type SQLite struct {
	sqlStore
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{sqlStore{db: db}}, nil
}

func (j *sqlStore) RecordTrade(t TradeRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(trade_id, account, symbol, action, quantity, price, total, status, source, realized_pl, time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, string(t.Account), t.Symbol, string(t.Action),
		t.Quantity.String(), t.Price.String(), t.Total.String(),
		string(t.Status), string(t.Source), t.RealizedPL.String(), t.Time.UTC(),
	)
	return err
}

func (j *sqlStore) RecordEquity(e EquitySnapshot) error {
	_, err := j.db.Exec(`
		INSERT INTO equity
		(time, account, balance, equity, unrealized_pl)
		VALUES (?, ?, ?, ?, ?)`,
		e.Time.UTC(), string(e.Account), e.Balance.String(), e.Equity.String(), e.UnrealizedPL.String(),
	)
	return err
}

func (j *sqlStore) Close() error {
	return j.db.Close()
}
