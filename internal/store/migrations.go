package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// sqliteMigrations is the ordered migration list for the sqlite driver.
// Each migration's version must be sequential starting from 1.
var sqliteMigrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS discarded_emails (
	id         TEXT PRIMARY KEY,
	email_id   TEXT NOT NULL UNIQUE,
	subject    TEXT NOT NULL,
	sender     TEXT NOT NULL,
	content    TEXT NOT NULL DEFAULT '',
	deleted_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS archived_content (
	id          TEXT PRIMARY KEY,
	email_id    TEXT NOT NULL UNIQUE,
	subject     TEXT NOT NULL,
	sender      TEXT NOT NULL,
	content     TEXT NOT NULL,
	summary     TEXT NOT NULL,
	category    TEXT NOT NULL,
	received_at DATETIME NOT NULL,
	archived_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS processing_history (
	id            TEXT PRIMARY KEY,
	email_id      TEXT NOT NULL,
	action        TEXT NOT NULL,
	category      TEXT NOT NULL,
	success       INTEGER NOT NULL,
	error_message TEXT NOT NULL DEFAULT '',
	reasoning     TEXT NOT NULL DEFAULT '',
	processed_at  DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_history_email_id ON processing_history(email_id);
CREATE INDEX IF NOT EXISTS idx_history_processed_at ON processing_history(processed_at);
CREATE INDEX IF NOT EXISTS idx_history_action ON processing_history(action);
CREATE INDEX IF NOT EXISTS idx_archived_category ON archived_content(category);
CREATE INDEX IF NOT EXISTS idx_archived_received_at ON archived_content(received_at);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		// confidence arrived after the first release; rows written
		// before then read back as 0.
		version: 2,
		sql: `
ALTER TABLE processing_history
	ADD COLUMN confidence REAL NOT NULL DEFAULT 0;

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}

// postgresMigrations mirrors sqliteMigrations for the postgres driver.
// Versions must stay in lockstep across both lists.
var postgresMigrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS discarded_emails (
	id         TEXT PRIMARY KEY,
	email_id   TEXT NOT NULL UNIQUE,
	subject    TEXT NOT NULL,
	sender     TEXT NOT NULL,
	content    TEXT NOT NULL DEFAULT '',
	deleted_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS archived_content (
	id          TEXT PRIMARY KEY,
	email_id    TEXT NOT NULL UNIQUE,
	subject     TEXT NOT NULL,
	sender      TEXT NOT NULL,
	content     TEXT NOT NULL,
	summary     TEXT NOT NULL,
	category    TEXT NOT NULL,
	received_at TIMESTAMPTZ NOT NULL,
	archived_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS processing_history (
	id            TEXT PRIMARY KEY,
	email_id      TEXT NOT NULL,
	action        TEXT NOT NULL,
	category      TEXT NOT NULL,
	success       SMALLINT NOT NULL,
	error_message TEXT NOT NULL DEFAULT '',
	reasoning     TEXT NOT NULL DEFAULT '',
	processed_at  TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_history_email_id ON processing_history(email_id);
CREATE INDEX IF NOT EXISTS idx_history_processed_at ON processing_history(processed_at);
CREATE INDEX IF NOT EXISTS idx_history_action ON processing_history(action);
CREATE INDEX IF NOT EXISTS idx_archived_category ON archived_content(category);
CREATE INDEX IF NOT EXISTS idx_archived_received_at ON archived_content(received_at);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
ALTER TABLE processing_history
	ADD COLUMN IF NOT EXISTS confidence DOUBLE PRECISION NOT NULL DEFAULT 0;

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}
