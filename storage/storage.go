// Package storage persists complex process outputs and hands back
// URLs under which they can be fetched. Backends exist for the file
// system, for SQLite and Postgres (storage/db) and for an embedded
// object store (storage/bucket).
package storage

import (
	"errors"

	"github.com/naivary/wpsio/inout"
)

var (
	ErrNotEnoughStorage = errors.New("not enough free space on the storage target")
)

// Dummy stores nothing. It is the backend of outputs which were not
// requested as a reference.
type Dummy struct{}

var _ inout.Storage = Dummy{}

func (Dummy) Store(*inout.ComplexOutput) (inout.StoreType, string, string, error) {
	return inout.StorePath, "", "", nil
}
