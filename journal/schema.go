package journal

// Schema creates the trade log. seq preserves insertion order; money columns
// hold decimal text so nothing is lost to floating point.
const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	trade_id TEXT NOT NULL UNIQUE,
	date TEXT NOT NULL,
	time TEXT NOT NULL,
	code TEXT NOT NULL,
	name TEXT NOT NULL,
	action TEXT NOT NULL CHECK (action IN ('buy', 'sell', 'add', 'reduce')),
	shares INTEGER NOT NULL,
	price TEXT NOT NULL,
	amount TEXT NOT NULL,
	commission TEXT NOT NULL,
	stamp_duty TEXT NOT NULL,
	net_profit TEXT NOT NULL,
	reason TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_date ON trades(date);
CREATE INDEX IF NOT EXISTS idx_trades_code ON trades(code);
`
