package db

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/naivary/wpsio/inout"
)

// Pg stores outputs in a Postgres schema, one table per output
// identifier.
type Pg struct {
	db     *sql.DB
	dbname string
	schema string
}

var _ Storage = (*Pg)(nil)

// NewPg connects and makes sure the schema exists.
func NewPg(dsn, dbname, schema string) (*Pg, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening postgres database: %w", err)
	}
	if schema == "" {
		schema = "public"
	}
	if _, err := tableIdent(schema); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", schema)); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema %s: %w", schema, err)
	}
	return &Pg{db: db, dbname: dbname, schema: schema}, nil
}

func (p *Pg) Close() error {
	return p.db.Close()
}

// Store writes the output into <schema>.<identifier> and returns the
// reference "<dbname>.<schema>.<identifier>".
func (p *Pg) Store(out *inout.ComplexOutput) (inout.StoreType, string, string, error) {
	data, err := out.Data()
	if err != nil {
		return 0, "", "", err
	}
	table, err := tableIdent(out.Identifier)
	if err != nil {
		return 0, "", "", err
	}
	qualified := p.schema + "." + table
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id SERIAL PRIMARY KEY,
		uuid TEXT NOT NULL,
		mime_type TEXT,
		data BYTEA NOT NULL,
		created_at TIMESTAMPTZ DEFAULT now()
	)`, qualified)
	if _, err := p.db.Exec(ddl); err != nil {
		return 0, "", "", fmt.Errorf("creating output table %s: %w", qualified, err)
	}
	requestID := out.RequestID()
	if requestID == "" {
		requestID = uuid.NewString()
	}
	insert := fmt.Sprintf("INSERT INTO %s (uuid, mime_type, data) VALUES ($1, $2, $3)", qualified)
	if _, err := p.db.Exec(insert, requestID, out.Format().MimeType, data); err != nil {
		return 0, "", "", fmt.Errorf("storing output %s: %w", out.Identifier, err)
	}
	ref := fmt.Sprintf("%s.%s.%s", p.dbname, p.schema, out.Identifier)
	return inout.StoreDB, qualified, ref, nil
}
