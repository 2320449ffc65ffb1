// Package bucket is an embedded object store for process outputs,
// backed by badger. Outputs are stored as immutable objects named by
// their output identifier and owned by the request which produced
// them.
package bucket

import (
	"bytes"
	"encoding/gob"
	"errors"
	"io"
	"regexp"

	"github.com/google/uuid"
)

var (
	ErrMissingOwnerOrName  = errors.New("an object must have an owner and a name")
	ErrObjectIsImmutable   = errors.New("stored objects cannot be written to")
	ErrMissingContentType  = errors.New("missing content type metadata")
	ErrEmptyPayload        = errors.New("object doesn't contain any payload")
	ErrInvalidNamePattern  = errors.New("object name contains invalid characters")
)

const namePattern = `^[a-zA-Z0-9_.-]+$`

var nameRegexp = regexp.MustCompile(namePattern)

// Object is one stored output payload. The name is the output
// identifier, the owner is the id of the request the output belongs
// to. An object is only mutable until it is inserted into or
// retrieved from the store.
type Object struct {
	id    string
	name  string
	owner string
	meta  *Metadata
	pl    *bytes.Buffer
	pos   int64

	isMutable bool
}

// objectModel is the serialization form of an object.
type objectModel struct {
	ID      string
	Name    string
	Owner   string
	Meta    map[MetaKey]string
	Payload []byte
}

func NewObject(name, owner string) (*Object, error) {
	if name == "" || owner == "" {
		return nil, ErrMissingOwnerOrName
	}
	o := &Object{
		id:        uuid.NewString(),
		name:      name,
		owner:     owner,
		meta:      NewMetadata(),
		pl:        new(bytes.Buffer),
		isMutable: true,
	}
	o.meta.setDefaults()
	return o, nil
}

func (o *Object) ID() string {
	return o.id
}

func (o *Object) Name() string {
	return o.name
}

func (o *Object) Owner() string {
	return o.owner
}

func (o *Object) Payload() []byte {
	return o.pl.Bytes()
}

// SetMeta sets a metadata pair. System managed keys cannot be
// overwritten.
func (o *Object) SetMeta(k MetaKey, v string) {
	o.meta.Set(k, v)
}

func (o *Object) GetMeta(k MetaKey) (string, bool) {
	v := o.meta.Get(k)
	return v, o.meta.Has(k)
}

func (o *Object) HasMetaKey(k MetaKey) bool {
	return o.meta.Has(k)
}

func (o *Object) Marshal() ([]byte, error) {
	if err := o.isValid(); err != nil {
		return nil, err
	}
	m := objectModel{
		ID:      o.id,
		Name:    o.name,
		Owner:   o.owner,
		Meta:    o.meta.data,
		Payload: o.Payload(),
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (o *Object) Unmarshal(data []byte) error {
	m := objectModel{}
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&m); err != nil {
		return err
	}
	o.id = m.ID
	o.name = m.Name
	o.owner = m.Owner
	o.meta = &Metadata{data: m.Meta}
	o.pl = bytes.NewBuffer(m.Payload)
	o.isMutable = false
	return nil
}

func (o *Object) isValid() error {
	if !o.HasMetaKey(MetaKeyContentType) {
		return ErrMissingContentType
	}
	if o.pl.Len() == 0 {
		return ErrEmptyPayload
	}
	if !nameRegexp.MatchString(o.name) {
		return ErrInvalidNamePattern
	}
	return nil
}

func (o *Object) markAsImmutable() {
	o.isMutable = false
}

// Write appends to the payload iff the object is still mutable.
func (o *Object) Write(p []byte) (int, error) {
	if !o.isMutable {
		return 0, ErrObjectIsImmutable
	}
	return o.pl.Write(p)
}

func (o *Object) Read(p []byte) (int, error) {
	n, err := bytes.NewReader(o.pl.Bytes()[o.pos:]).Read(p)
	if err != nil {
		return 0, err
	}
	o.pos += int64(n)
	return n, nil
}

func (o *Object) WriteTo(w io.Writer) (int64, error) {
	return bytes.NewBuffer(o.Payload()).WriteTo(w)
}

func (o *Object) ReadFrom(r io.Reader) (int64, error) {
	if !o.isMutable {
		return 0, ErrObjectIsImmutable
	}
	return o.pl.ReadFrom(r)
}
