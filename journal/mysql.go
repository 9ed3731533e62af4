package journal

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
)

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS trades (
		seq BIGINT AUTO_INCREMENT PRIMARY KEY,
		trade_id VARCHAR(64) NOT NULL UNIQUE,
		account VARCHAR(16) NOT NULL,
		symbol VARCHAR(16) NOT NULL,
		action VARCHAR(8) NOT NULL,
		quantity VARCHAR(64) NOT NULL,
		price VARCHAR(64) NOT NULL,
		total VARCHAR(64) NOT NULL,
		status VARCHAR(16) NOT NULL,
		source VARCHAR(16) NOT NULL,
		realized_pl VARCHAR(64) NOT NULL,
		time DATETIME(6) NOT NULL,
		INDEX idx_trades_time (time)
	)`,
	`CREATE TABLE IF NOT EXISTS equity (
		time DATETIME(6) NOT NULL,
		account VARCHAR(16) NOT NULL,
		balance VARCHAR(64) NOT NULL,
		equity VARCHAR(64) NOT NULL,
		unrealized_pl VARCHAR(64) NOT NULL,
		INDEX idx_equity_time (time)
	)`,
}

type MySQL struct {
	sqlStore
}

// NewMySQL connects with dsn (e.g. "user:pass@tcp(127.0.0.1:3306)/quantdesk")
// and creates the tables.
func NewMySQL(dsn string) (*MySQL, error) {
	norm, err := mysqlDSN(dsn)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("mysql", norm)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("mysql unreachable: %w", err)
	}
	for _, stmt := range mysqlSchema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("mysql migrate: %w", err)
		}
	}
	return &MySQL{sqlStore{db: db}}, nil
}

// mysqlDSN forces DATETIME columns to scan into time.Time in UTC.
func mysqlDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	return cfg.FormatDSN(), nil
}
