// Package wpsiotest provides a shared test environment: a temp
// working directory, a file storage with its download handler and
// ready-made outputs.
package wpsiotest

import (
	"fmt"
	"net/http/httptest"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/naivary/wpsio"
	"github.com/naivary/wpsio/inout"
	"github.com/naivary/wpsio/storage"
)

// GML is a tiny valid GML point document used as vector payload.
const GML = `<gml:Point xmlns:gml="http://www.opengis.net/gml" srsName="epsg:4326">
  <gml:coordinates>15.0,50.0</gml:coordinates>
</gml:Point>
`

type Env struct {
	Workdir string
	Storage *storage.FileStorage
	TS      *httptest.Server
}

func NewEnv() (*Env, error) {
	workdir, err := os.MkdirTemp("", "wpsio_test_")
	if err != nil {
		return nil, err
	}
	fs, err := storage.NewFileStorage(filepath.Join(workdir, "outputs"), "")
	if err != nil {
		os.RemoveAll(workdir)
		return nil, err
	}
	ts := httptest.NewServer(storage.NewHandler(fs))
	fs.OutputURL = ts.URL + "/outputs"
	return &Env{
		Workdir: workdir,
		Storage: fs,
		TS:      ts,
	}, nil
}

// RequestID returns a fresh request identifier.
func (e *Env) RequestID() string {
	return uuid.NewString()
}

// Identifier returns a unique output identifier.
func (e *Env) Identifier() string {
	return fmt.Sprintf("output_%s", uuid.NewString()[:8])
}

// VectorOutput returns a GML complex output backed by a file in the
// working directory.
func (e *Env) VectorOutput() (*inout.ComplexOutput, error) {
	out := inout.NewComplexOutput(e.Identifier(), wpsio.FormatGML)
	out.SetRequestID(e.RequestID())
	if err := out.SetWorkdir(e.Workdir); err != nil {
		return nil, err
	}
	path := filepath.Join(e.Workdir, out.Identifier+".gml")
	if err := os.WriteFile(path, []byte(GML), 0o644); err != nil {
		return nil, err
	}
	if err := out.SetFile(path); err != nil {
		return nil, err
	}
	return out, nil
}

// DataOutput returns a plain text output carrying the payload in
// memory.
func (e *Env) DataOutput(payload []byte) *inout.ComplexOutput {
	out := inout.NewComplexOutput(e.Identifier(), wpsio.FormatText)
	out.SetRequestID(e.RequestID())
	out.SetWorkdir(e.Workdir)
	out.SetData(payload)
	return out
}

func (e *Env) Destroy() error {
	e.TS.Close()
	return os.RemoveAll(e.Workdir)
}
