package journal

// Amounts are stored as TEXT so decimals round-trip exactly.
const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	trade_id TEXT NOT NULL UNIQUE,
	account TEXT NOT NULL,
	symbol TEXT NOT NULL,
	action TEXT NOT NULL,
	quantity TEXT NOT NULL,
	price TEXT NOT NULL,
	total TEXT NOT NULL,
	status TEXT NOT NULL,
	source TEXT NOT NULL,
	realized_pl TEXT NOT NULL,
	time DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS equity (
	time DATETIME NOT NULL,
	account TEXT NOT NULL,
	balance TEXT NOT NULL,
	equity TEXT NOT NULL,
	unrealized_pl TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_time ON trades(time);
CREATE INDEX IF NOT EXISTS idx_equity_time ON equity(time);
`
