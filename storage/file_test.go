package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/naivary/wpsio"
	"github.com/naivary/wpsio/inout"
)

func TestDummyStore(t *testing.T) {
	env := newTestEnv(t)
	out := env.vectorOutput(t)
	st, location, u, err := Dummy{}.Store(out)
	if err != nil {
		t.Fatal(err)
	}
	if st != inout.StorePath {
		t.Fatalf("store type. Got: %d", st)
	}
	if location != "" || u != "" {
		t.Fatalf("dummy must not produce a location or url. Got: %s, %s", location, u)
	}
}

func TestFileStore(t *testing.T) {
	env := newTestEnv(t)
	out := env.vectorOutput(t)

	st, location, u, err := env.storage.Store(out)
	if err != nil {
		t.Fatal(err)
	}
	if st != inout.StorePath {
		t.Fatalf("store type. Got: %d", st)
	}
	if location != filepath.Join(out.RequestID(), "buffered_polygon.gml") {
		t.Fatalf("location. Got: %s", location)
	}
	p, err := os.ReadFile(filepath.Join(env.storage.Target, location))
	if err != nil {
		t.Fatal(err)
	}
	if string(p) != gml {
		t.Fatalf("stored content. Got: %s", p)
	}
	want := "http://localhost:8080/outputs/" + out.RequestID() + "/buffered_polygon.gml"
	if u != want {
		t.Fatalf("url. Got: %s, want %s", u, want)
	}
}

func TestFileStoreSpillsDataSources(t *testing.T) {
	env := newTestEnv(t)
	out := inout.NewComplexOutput("BufferedPolygon", wpsio.FormatGML)
	if err := out.SetWorkdir(env.workdir); err != nil {
		t.Fatal(err)
	}
	out.SetData([]byte(gml))

	_, location, _, err := env.storage.Store(out)
	if err != nil {
		t.Fatal(err)
	}
	if ext := filepath.Ext(location); ext != ".gml" {
		t.Fatalf("stored extension. Got: %s", ext)
	}
	p, err := os.ReadFile(filepath.Join(env.storage.Target, location))
	if err != nil {
		t.Fatal(err)
	}
	if string(p) != gml {
		t.Fatalf("stored content. Got: %s", p)
	}
}

func TestFileStoreDuplicateName(t *testing.T) {
	env := newTestEnv(t)
	out := env.vectorOutput(t)

	_, first, _, err := env.storage.Store(out)
	if err != nil {
		t.Fatal(err)
	}
	_, second, _, err := env.storage.Store(out)
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Fatalf("duplicate store must pick a unique name. Got: %s twice", first)
	}
	if !strings.HasPrefix(filepath.Base(second), "buffered_polygon") {
		t.Fatalf("unique name must keep the base name. Got: %s", second)
	}
	if filepath.Ext(second) != ".gml" {
		t.Fatalf("unique name must keep the extension. Got: %s", second)
	}
}

func TestFileStoreGeneratesRequestID(t *testing.T) {
	env := newTestEnv(t)
	out := env.vectorOutput(t)
	out.SetRequestID("")

	_, location, _, err := env.storage.Store(out)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Dir(location) == "." {
		t.Fatalf("output must live below a request directory. Got: %s", location)
	}
}

func TestFileStoreComplexOutputURL(t *testing.T) {
	env := newTestEnv(t)
	out := env.vectorOutput(t)
	out.Storage = env.storage

	u, err := out.URL()
	if err != nil {
		t.Fatal(err)
	}
	want := "http://localhost:8080/outputs/" + out.RequestID() + "/buffered_polygon.gml"
	if u != want {
		t.Fatalf("url. Got: %s, want %s", u, want)
	}
}

func TestOutputName(t *testing.T) {
	tests := []struct {
		file string
		ext  string
		want string
	}{
		{"/tmp/work/buffered_polygon.gml", ".gml", "buffered_polygon.gml"},
		{"/tmp/work/input_12345", ".gml", "input_12345.gml"},
		{"/tmp/work/input_12345", "", "input_12345"},
	}
	for _, tt := range tests {
		if got := outputName(tt.file, tt.ext); got != tt.want {
			t.Errorf("outputName(%q, %q) = %q, want %q", tt.file, tt.ext, got, tt.want)
		}
	}
}
