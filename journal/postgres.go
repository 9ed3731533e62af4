package journal

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var postgresSchema = []string{
	`create table if not exists trades (
		seq bigserial primary key,
		trade_id text not null unique,
		account text not null,
		symbol text not null,
		action text not null,
		quantity text not null,
		price text not null,
		total text not null,
		status text not null,
		source text not null,
		realized_pl text not null,
		time timestamptz not null
	);`,
	`create table if not exists equity (
		time timestamptz not null,
		account text not null,
		balance text not null,
		equity text not null,
		unrealized_pl text not null
	);`,
	`create index if not exists equity_time_idx on equity(time);`,
}

// Postgres is a journal backed by a pgx connection pool.
type Postgres struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

func NewPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	cfg.MaxConns = 4

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := migratePostgres(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return &Postgres{pool: pool, timeout: 5 * time.Second}, nil
}

func migratePostgres(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range postgresSchema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (j *Postgres) RecordTrade(t TradeRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	_, err := j.pool.Exec(ctx, `
		insert into trades
		(trade_id, account, symbol, action, quantity, price, total, status, source, realized_pl, time)
		values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		t.ID, string(t.Account), t.Symbol, string(t.Action),
		t.Quantity.String(), t.Price.String(), t.Total.String(),
		string(t.Status), string(t.Source), t.RealizedPL.String(), t.Time.UTC(),
	)
	return err
}

func (j *Postgres) RecordEquity(e EquitySnapshot) error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	_, err := j.pool.Exec(ctx, `
		insert into equity (time, account, balance, equity, unrealized_pl)
		values ($1, $2, $3, $4, $5)`,
		e.Time.UTC(), string(e.Account), e.Balance.String(), e.Equity.String(), e.UnrealizedPL.String(),
	)
	return err
}

// ListTrades returns every trade in insertion order.
func (j *Postgres) ListTrades(ctx context.Context) ([]TradeRecord, error) {
	rows, err := j.pool.Query(ctx, `select `+tradeColumns+` from trades order by seq asc`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		rec, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (j *Postgres) Close() error {
	j.pool.Close()
	return nil
}
