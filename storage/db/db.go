// Package db stores complex process outputs in a relational
// database. One table per output identifier holds the stored rows;
// the reference handed back to the caller is the dotted
// database.schema.table path of that table.
package db

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/naivary/wpsio/inout"
)

var (
	ErrUnknownDriver     = errors.New("unknown database driver")
	ErrInvalidIdentifier = errors.New("output identifier is not usable as a table name")
)

// Storage is a database backed output storage.
type Storage interface {
	inout.Storage
	Close() error
}

// Config selects and configures the database backend.
type Config struct {
	// Driver is "sqlite" or "postgres".
	Driver string
	// DSN is the data source name; for sqlite the database file
	// location.
	DSN string
	// Name is the database name, used in the returned reference.
	Name string
	// Schema the output tables are created in. SQLite has no
	// schemas; there it prefixes the table names instead.
	Schema string
}

// New opens the backend the config selects.
func New(cfg Config) (Storage, error) {
	switch cfg.Driver {
	case "sqlite":
		return NewSQLite(cfg.DSN, cfg.Schema)
	case "postgres", "pg":
		return NewPg(cfg.DSN, cfg.Name, cfg.Schema)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
}

var identRegexp = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// tableIdent guards identifiers that end up in DDL statements.
func tableIdent(s string) (string, error) {
	if !identRegexp.MatchString(s) {
		return "", fmt.Errorf("%w: %q", ErrInvalidIdentifier, s)
	}
	return s, nil
}
