package bucket

import (
	"strconv"
	"time"

	"golang.org/x/exp/slices"
)

type MetaKey string

const (
	MetaKeyContentType  MetaKey = "contentType"
	MetaKeyCreatedAt    MetaKey = "createdAt"
	MetaKeyLastModified MetaKey = "lastModified"
)

func (m MetaKey) String() string {
	return string(m)
}

// systemMetaKeys are managed by the store and cannot be set or
// deleted by the caller.
var systemMetaKeys = []MetaKey{MetaKeyCreatedAt, MetaKeyLastModified}

// action is the logical relationship between multiple metadata pairs
// in a match.
type action int

const (
	// Or matches if at least one pair is present.
	Or action = iota + 1
	// And matches only if every pair is present.
	And
)

type Metadata struct {
	data map[MetaKey]string
}

func NewMetadata() *Metadata {
	return &Metadata{data: make(map[MetaKey]string)}
}

// Set inserts the pair iff the key isn't system managed and the value
// isn't empty.
func (m *Metadata) Set(k MetaKey, v string) {
	if m.isSystemMetaKey(k) || v == "" {
		return
	}
	m.data[k] = v
}

func (m *Metadata) Get(k MetaKey) string {
	return m.data[k]
}

func (m *Metadata) Has(k MetaKey) bool {
	_, ok := m.data[k]
	return ok
}

func (m *Metadata) Del(k MetaKey) {
	if m.isSystemMetaKey(k) {
		return
	}
	delete(m.data, k)
}

func (m *Metadata) isSystemMetaKey(k MetaKey) bool {
	return slices.Contains(systemMetaKeys, k)
}

// set bypasses the system key guard, for internal use.
func (m *Metadata) set(k MetaKey, v string) {
	m.data[k] = v
}

func (m *Metadata) setDefaults() {
	t := strconv.FormatInt(time.Now().Unix(), 10)
	m.set(MetaKeyCreatedAt, t)
	m.set(MetaKeyLastModified, t)
}

// match reports whether the object's metadata covers m under the
// given action.
func (m *Metadata) match(o *Object, act action) bool {
	if act == And {
		for k := range m.data {
			if !o.HasMetaKey(k) {
				return false
			}
		}
		return true
	}
	for k := range m.data {
		if o.HasMetaKey(k) {
			return true
		}
	}
	return false
}
