package bucket

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dgraph-io/badger/v4"
	"golang.org/x/exp/slog"
)

const (
	dataDir = "data"
	nameDir = "name"
)

// Bucket is the embedded store for output objects.
type Bucket struct {
	// payload persists the objects themselves, keyed by id.
	payload *badger.DB
	// names is a helper db mapping name_owner to the object id. It
	// gives a quick existence check without unmarshaling objects.
	names *badger.DB

	// BasePath is the directory the underlying databases live in.
	BasePath string

	logger *slog.Logger
	done   chan struct{}
}

// New opens a bucket below dir. The badger options' data directories
// are overwritten so the layout below dir stays under the bucket's
// control.
func New(dir string, opts badger.Options) (*Bucket, error) {
	payloadDir := filepath.Join(dir, dataDir)
	opts.Dir = payloadDir
	opts.ValueDir = payloadDir
	payload, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening payload db: %w", err)
	}
	nameOpts := badger.DefaultOptions(filepath.Join(dir, nameDir))
	nameOpts.Logger = opts.Logger
	names, err := badger.Open(nameOpts)
	if err != nil {
		return nil, fmt.Errorf("opening name db: %w", err)
	}
	b := &Bucket{
		payload:  payload,
		names:    names,
		BasePath: dir,
		logger:   slog.New(slog.NewTextHandler(os.Stdout, nil)),
		done:     make(chan struct{}),
	}
	go b.gc()
	return b, nil
}

// Create inserts the object. The name must be unique per owner. The
// object is immutable afterwards.
func (b *Bucket) Create(obj *Object) error {
	err := b.payload.Update(func(txn *badger.Txn) error {
		e, err := b.objectEntry(obj)
		if err != nil {
			return err
		}
		if err := txn.SetEntry(e); err != nil {
			return err
		}
		obj.markAsImmutable()
		return nil
	})
	if err != nil {
		return err
	}
	return b.insertName(obj.Name(), obj.Owner(), obj.ID())
}

// BatchCreate inserts multiple objects in one write batch.
func (b *Bucket) BatchCreate(objs []*Object) error {
	wb := b.payload.NewWriteBatch()
	defer wb.Cancel()
	for _, obj := range objs {
		e, err := b.objectEntry(obj)
		if err != nil {
			return err
		}
		if err := wb.SetEntry(e); err != nil {
			return err
		}
		if err := b.insertName(obj.Name(), obj.Owner(), obj.ID()); err != nil {
			return err
		}
		obj.markAsImmutable()
	}
	return wb.Flush()
}

func (b *Bucket) GetByID(id string) (*Object, error) {
	var obj Object
	err := b.payload.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(id))
		if err != nil {
			return err
		}
		return item.Value(obj.Unmarshal)
	})
	if err != nil {
		return nil, err
	}
	return &obj, nil
}

func (b *Bucket) GetByName(name, owner string) (*Object, error) {
	id, err := b.nameLookup(name, owner)
	if err != nil {
		return nil, err
	}
	return b.GetByID(id)
}

// GetByOwner returns every output object the given request created.
func (b *Bucket) GetByOwner(owner string) ([]*Object, error) {
	return b.filter(func(obj *Object) bool {
		return obj.Owner() == owner
	})
}

// GetByMeta returns the objects whose metadata covers meta under the
// given action.
func (b *Bucket) GetByMeta(meta *Metadata, act action) ([]*Object, error) {
	return b.filter(func(obj *Object) bool {
		return meta.match(obj, act)
	})
}

func (b *Bucket) DeleteByID(id string) error {
	err := b.payload.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(id))
	})
	if err != nil {
		return err
	}
	return b.deleteName(id)
}

func (b *Bucket) DeleteByName(name, owner string) error {
	id, err := b.nameLookup(name, owner)
	if err != nil {
		return err
	}
	return b.DeleteByID(id)
}

func (b *Bucket) Shutdown() error {
	close(b.done)
	if err := b.payload.Close(); err != nil {
		return err
	}
	return b.names.Close()
}

// gc garbage collects the value log every 10 minutes until the bucket
// shuts down.
func (b *Bucket) gc() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-b.done:
			return
		case <-ticker.C:
			err := b.payload.RunValueLogGC(0.7)
			if err != nil && !errors.Is(err, badger.ErrNoRewrite) {
				b.logger.Error("value log gc", slog.String("msg", err.Error()))
			}
		}
	}
}

func (b *Bucket) filter(keep func(*Object) bool) ([]*Object, error) {
	const prefetchSize = 10
	objs := make([]*Object, 0, prefetchSize)
	err := b.payload.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchSize = prefetchSize
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				obj := &Object{}
				if err := obj.Unmarshal(val); err != nil {
					return err
				}
				if keep(obj) {
					objs = append(objs, obj)
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return objs, err
}

// objectEntry validates the object and builds its badger entry.
func (b *Bucket) objectEntry(obj *Object) (*badger.Entry, error) {
	if b.nameExists(obj.Name(), obj.Owner()) {
		return nil, fmt.Errorf("output %s for request %s already exists", obj.Name(), obj.Owner())
	}
	data, err := obj.Marshal()
	if err != nil {
		return nil, err
	}
	return badger.NewEntry([]byte(obj.ID()), data), nil
}

func (b *Bucket) nameFormat(name, owner string) string {
	return fmt.Sprintf("%s_%s", name, owner)
}

func (b *Bucket) nameExists(name, owner string) bool {
	err := b.names.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(b.nameFormat(name, owner)))
		return err
	})
	return !errors.Is(err, badger.ErrKeyNotFound)
}

func (b *Bucket) nameLookup(name, owner string) (string, error) {
	var id string
	err := b.names.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(b.nameFormat(name, owner)))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			id = string(val)
			return nil
		})
	})
	return id, err
}

func (b *Bucket) insertName(name, owner, id string) error {
	return b.names.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(b.nameFormat(name, owner)), []byte(id))
	})
}

func (b *Bucket) deleteName(id string) error {
	return b.names.Update(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			var key []byte
			err := item.Value(func(val []byte) error {
				if string(val) == id {
					key = item.KeyCopy(nil)
				}
				return nil
			})
			if err != nil {
				return err
			}
			if key != nil {
				return txn.Delete(key)
			}
		}
		return nil
	})
}
