package bucket

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewObjectMissingOwnerOrName(t *testing.T) {
	if _, err := NewObject("", "owner"); !errors.Is(err, ErrMissingOwnerOrName) {
		t.Fatalf("error = %v, want ErrMissingOwnerOrName", err)
	}
	if _, err := NewObject("name", ""); !errors.Is(err, ErrMissingOwnerOrName) {
		t.Fatalf("error = %v, want ErrMissingOwnerOrName", err)
	}
}

func TestObjectMarshalRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	obj := env.object(t, "BufferedPolygon")

	data, err := obj.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	var got Object
	if err := got.Unmarshal(data); err != nil {
		t.Fatal(err)
	}
	if got.ID() != obj.ID() || got.Name() != obj.Name() || got.Owner() != obj.Owner() {
		t.Fatalf("identity. Got: %s, %s, %s", got.ID(), got.Name(), got.Owner())
	}
	if diff := cmp.Diff(obj.Payload(), got.Payload()); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
	if _, err := got.Write([]byte("more")); !errors.Is(err, ErrObjectIsImmutable) {
		t.Fatalf("unmarshaled objects must be immutable. Got: %v", err)
	}
}

func TestObjectMarshalValidation(t *testing.T) {
	obj, err := NewObject("BufferedPolygon", "owner")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := obj.Marshal(); !errors.Is(err, ErrMissingContentType) {
		t.Fatalf("error = %v, want ErrMissingContentType", err)
	}
	obj.SetMeta(MetaKeyContentType, "text/plain")
	if _, err := obj.Marshal(); !errors.Is(err, ErrEmptyPayload) {
		t.Fatalf("error = %v, want ErrEmptyPayload", err)
	}
}

func TestObjectInvalidName(t *testing.T) {
	obj, err := NewObject("no spaces allowed", "owner")
	if err != nil {
		t.Fatal(err)
	}
	obj.SetMeta(MetaKeyContentType, "text/plain")
	if _, err := obj.Write([]byte("data")); err != nil {
		t.Fatal(err)
	}
	if _, err := obj.Marshal(); !errors.Is(err, ErrInvalidNamePattern) {
		t.Fatalf("error = %v, want ErrInvalidNamePattern", err)
	}
}

func TestObjectReadWrite(t *testing.T) {
	obj, err := NewObject("BufferedPolygon", "owner")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := obj.ReadFrom(strings.NewReader("buffered ")); err != nil {
		t.Fatal(err)
	}
	if _, err := obj.Write([]byte("polygon")); err != nil {
		t.Fatal(err)
	}
	p, err := io.ReadAll(obj)
	if err != nil && err != io.EOF {
		t.Fatal(err)
	}
	if string(p) != "buffered polygon" {
		t.Fatalf("payload. Got: %s", p)
	}
	var buf bytes.Buffer
	if _, err := obj.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "buffered polygon" {
		t.Fatalf("payload via WriteTo. Got: %s", buf.String())
	}
}

func TestMetadataSystemKeys(t *testing.T) {
	m := NewMetadata()
	m.setDefaults()
	created := m.Get(MetaKeyCreatedAt)
	if created == "" {
		t.Fatal("createdAt must be set by default")
	}
	m.Set(MetaKeyCreatedAt, "0")
	if m.Get(MetaKeyCreatedAt) != created {
		t.Fatal("system keys must not be overwritable")
	}
	m.Del(MetaKeyCreatedAt)
	if !m.Has(MetaKeyCreatedAt) {
		t.Fatal("system keys must not be deletable")
	}
	m.Set("layer", "")
	if m.Has("layer") {
		t.Fatal("empty values must not be set")
	}
}
