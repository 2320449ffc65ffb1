package inout

import (
	"errors"
	"testing"

	"github.com/naivary/wpsio"
)

// fakeStorage records the output it stored and answers with a fixed
// url.
type fakeStorage struct {
	stored *ComplexOutput
}

func (f *fakeStorage) Store(out *ComplexOutput) (StoreType, string, string, error) {
	f.stored = out
	return StorePath, out.Identifier + ".gml", "http://localhost:8080/outputs/" + out.Identifier + ".gml", nil
}

func TestComplexOutputURL(t *testing.T) {
	out := NewComplexOutput("BufferedPolygon", wpsio.FormatGML)
	out.SetData([]byte(gml))
	fs := &fakeStorage{}
	out.Storage = fs

	u, err := out.URL()
	if err != nil {
		t.Fatal(err)
	}
	if u != "http://localhost:8080/outputs/BufferedPolygon.gml" {
		t.Fatalf("url. Got: %s", u)
	}
	if fs.stored != out {
		t.Fatal("storage must receive the output itself")
	}
}

func TestComplexOutputURLWithoutStorage(t *testing.T) {
	out := NewComplexOutput("BufferedPolygon", wpsio.FormatGML)
	out.SetData([]byte(gml))
	if _, err := out.URL(); !errors.Is(err, ErrNoStorage) {
		t.Fatalf("error = %v, want ErrNoStorage", err)
	}
}

func TestComplexOutputSetFormat(t *testing.T) {
	out := NewComplexOutput("BufferedPolygon", wpsio.FormatGML, wpsio.FormatGeoJSON)
	if err := out.SetFormat(wpsio.FormatGeoJSON); err != nil {
		t.Fatal(err)
	}
	err := out.SetFormat(wpsio.FormatShapefile)
	if !errors.Is(err, wpsio.ErrFormatNotSupported) {
		t.Fatalf("error = %v, want ErrFormatNotSupported", err)
	}
}

func TestLiteralOutputUOM(t *testing.T) {
	out := NewLiteralOutput("Area", wpsio.TypeFloat, "meters", "feet")
	if out.UOM() != "meters" {
		t.Fatalf("default uom. Got: %s", out.UOM())
	}
	out.SetUOM("feet")
	if out.UOM() != "feet" {
		t.Fatalf("uom after switch. Got: %s", out.UOM())
	}
}

func TestBoundingBoxOutput(t *testing.T) {
	out := NewBoundingBoxOutput("Extent", "epsg:4326")
	out.SetBox(wpsio.BoundingBox{
		CRS:         "",
		LowerCorner: []float64{7.1, 50.6},
		UpperCorner: []float64{7.3, 50.8},
	})
	if out.Box().CRS != "epsg:4326" {
		t.Fatalf("crs. Got: %s", out.Box().CRS)
	}
}
