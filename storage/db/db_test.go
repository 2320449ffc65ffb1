package db

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/naivary/wpsio"
	"github.com/naivary/wpsio/inout"
)

func TestNewUnknownDriver(t *testing.T) {
	_, err := New(Config{Driver: "oracle"})
	if !errors.Is(err, ErrUnknownDriver) {
		t.Fatalf("error = %v, want ErrUnknownDriver", err)
	}
}

func TestTableIdent(t *testing.T) {
	tests := []struct {
		ident   string
		wantErr bool
	}{
		{ident: "BufferedPolygon"},
		{ident: "buffered_polygon_2"},
		{ident: "_private"},
		{ident: "2starts_with_digit", wantErr: true},
		{ident: "has space", wantErr: true},
		{ident: "drop;table", wantErr: true},
		{ident: "", wantErr: true},
	}
	for _, tt := range tests {
		_, err := tableIdent(tt.ident)
		if (err != nil) != tt.wantErr {
			t.Errorf("tableIdent(%q) error = %v, wantErr %t", tt.ident, err, tt.wantErr)
		}
		if tt.wantErr && !errors.Is(err, ErrInvalidIdentifier) {
			t.Errorf("tableIdent(%q) error = %v, want ErrInvalidIdentifier", tt.ident, err)
		}
	}
}

func newSQLiteEnv(t *testing.T) (*SQLite, string) {
	t.Helper()
	location := filepath.Join(t.TempDir(), "outputs.db")
	s, err := NewSQLite(location, "wpsio")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Error(err)
		}
	})
	return s, location
}

func TestSQLiteStore(t *testing.T) {
	s, location := newSQLiteEnv(t)

	out := inout.NewComplexOutput("BufferedPolygon", wpsio.FormatGML)
	out.SetData([]byte(`<gml:Point><gml:pos>7.1 50.7</gml:pos></gml:Point>`))
	out.SetRequestID(uuid.NewString())

	st, table, ref, err := s.Store(out)
	if err != nil {
		t.Fatal(err)
	}
	if st != inout.StoreDB {
		t.Fatalf("store type. Got: %d", st)
	}
	if table != "wpsio_BufferedPolygon" {
		t.Fatalf("table. Got: %s", table)
	}
	if ref != location+".BufferedPolygon" {
		t.Fatalf("reference. Got: %s", ref)
	}

	var (
		gotUUID string
		gotMime string
		gotData []byte
	)
	row := s.db.QueryRow("SELECT uuid, mime_type, data FROM wpsio_BufferedPolygon")
	if err := row.Scan(&gotUUID, &gotMime, &gotData); err != nil {
		t.Fatal(err)
	}
	if gotUUID != out.RequestID() {
		t.Fatalf("uuid. Got: %s", gotUUID)
	}
	if gotMime != wpsio.FormatGML.MimeType {
		t.Fatalf("mime type. Got: %s", gotMime)
	}
	data, err := out.Data()
	if err != nil {
		t.Fatal(err)
	}
	if string(gotData) != string(data) {
		t.Fatalf("data. Got: %s", gotData)
	}
}

func TestSQLiteStoreAppends(t *testing.T) {
	s, _ := newSQLiteEnv(t)

	out := inout.NewComplexOutput("BufferedPolygon", wpsio.FormatGML)
	out.SetData([]byte("data"))

	if _, _, _, err := s.Store(out); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := s.Store(out); err != nil {
		t.Fatal(err)
	}
	var count int
	row := s.db.QueryRow("SELECT COUNT(*) FROM wpsio_BufferedPolygon")
	if err := row.Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Fatalf("rows. Got: %d", count)
	}
}

func TestSQLiteStoreInvalidIdentifier(t *testing.T) {
	s, _ := newSQLiteEnv(t)

	out := inout.NewComplexOutput("not a table", wpsio.FormatGML)
	out.SetData([]byte("data"))

	if _, _, _, err := s.Store(out); !errors.Is(err, ErrInvalidIdentifier) {
		t.Fatalf("error = %v, want ErrInvalidIdentifier", err)
	}
}

func TestPgStore(t *testing.T) {
	dsn := os.Getenv("WPSIO_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("WPSIO_TEST_PG_DSN is not set")
	}
	s, err := NewPg(dsn, "wpsio_test", "outputs")
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	out := inout.NewComplexOutput("BufferedPolygon", wpsio.FormatGML)
	out.SetData([]byte("data"))
	out.SetRequestID(uuid.NewString())

	st, table, ref, err := s.Store(out)
	if err != nil {
		t.Fatal(err)
	}
	if st != inout.StoreDB {
		t.Fatalf("store type. Got: %d", st)
	}
	if table != "outputs.BufferedPolygon" {
		t.Fatalf("table. Got: %s", table)
	}
	if ref != "wpsio_test.outputs.BufferedPolygon" {
		t.Fatalf("reference. Got: %s", ref)
	}
}
