package db

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/naivary/wpsio/inout"
	_ "github.com/mattn/go-sqlite3"
)

// SQLite stores outputs in a single SQLite database file.
type SQLite struct {
	db       *sql.DB
	location string
	schema   string
}

var _ Storage = (*SQLite)(nil)

func NewSQLite(location, schema string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", location+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	if schema != "" {
		if _, err := tableIdent(schema); err != nil {
			db.Close()
			return nil, err
		}
	}
	return &SQLite{db: db, location: location, schema: schema}, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

// Store writes the output into the table named after its identifier,
// prefixed with the schema name since SQLite has no schemas. The
// returned reference is "<location>.<identifier>".
func (s *SQLite) Store(out *inout.ComplexOutput) (inout.StoreType, string, string, error) {
	data, err := out.Data()
	if err != nil {
		return 0, "", "", err
	}
	table, err := tableIdent(out.Identifier)
	if err != nil {
		return 0, "", "", err
	}
	if s.schema != "" {
		table = s.schema + "_" + table
	}
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		uuid TEXT NOT NULL,
		mime_type TEXT,
		data BLOB NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`, table)
	if _, err := s.db.Exec(ddl); err != nil {
		return 0, "", "", fmt.Errorf("creating output table %s: %w", table, err)
	}
	requestID := out.RequestID()
	if requestID == "" {
		requestID = uuid.NewString()
	}
	insert := fmt.Sprintf("INSERT INTO %s (uuid, mime_type, data) VALUES (?, ?, ?)", table)
	if _, err := s.db.Exec(insert, requestID, out.Format().MimeType, data); err != nil {
		return 0, "", "", fmt.Errorf("storing output %s: %w", out.Identifier, err)
	}
	ref := fmt.Sprintf("%s.%s", s.location, out.Identifier)
	return inout.StoreDB, table, ref, nil
}
