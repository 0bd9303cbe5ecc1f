package store

const schemaVersion = 1

// dialect carries the DDL that differs between drivers. Queries use ?
// placeholders and REPLACE INTO, which both SQLite and MySQL accept.
type dialect struct {
	name   string
	schema []string
}

var sqliteDialect = dialect{
	name: "sqlite",
	schema: []string{
		`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`,
		`CREATE TABLE IF NOT EXISTS bids (
			run_id      TEXT PRIMARY KEY,
			rfp_id      TEXT NOT NULL,
			client      TEXT NOT NULL DEFAULT '',
			outcome     TEXT NOT NULL,
			risk_score  REAL,
			grand_total TEXT,
			decided_at  TEXT NOT NULL,
			payload     BLOB NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_bids_rfp ON bids(rfp_id)`,
		`CREATE INDEX IF NOT EXISTS idx_bids_outcome ON bids(outcome)`,
		`CREATE TABLE IF NOT EXISTS checkpoints (
			run_id   TEXT PRIMARY KEY,
			node     TEXT NOT NULL,
			saved_at TEXT NOT NULL,
			payload  BLOB NOT NULL
		)`,
	},
}

var mysqlDialect = dialect{
	name: "mysql",
	schema: []string{
		`CREATE TABLE IF NOT EXISTS schema_version (version INT NOT NULL)`,
		`CREATE TABLE IF NOT EXISTS bids (
			run_id      VARCHAR(64) PRIMARY KEY,
			rfp_id      VARCHAR(255) NOT NULL,
			client      VARCHAR(255) NOT NULL DEFAULT '',
			outcome     VARCHAR(32) NOT NULL,
			risk_score  DOUBLE,
			grand_total VARCHAR(64),
			decided_at  VARCHAR(64) NOT NULL,
			payload     LONGBLOB NOT NULL,
			INDEX idx_bids_rfp (rfp_id),
			INDEX idx_bids_outcome (outcome)
		)`,
		`CREATE TABLE IF NOT EXISTS checkpoints (
			run_id   VARCHAR(64) PRIMARY KEY,
			node     VARCHAR(64) NOT NULL,
			saved_at VARCHAR(64) NOT NULL,
			payload  LONGBLOB NOT NULL
		)`,
	},
}
