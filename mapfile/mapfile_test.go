package mapfile

import (
	"strings"
	"testing"
)

func TestGenerate(t *testing.T) {
	l := Layer{
		Name:           "BufferedPolygon",
		Table:          "outputs.BufferedPolygon",
		Extent:         "432000 5650000 437000 5655000",
		Connection:     "host=localhost dbname=wpsio",
		OnlineResource: "http://localhost:8080/wms",
	}
	var sb strings.Builder
	if err := Generate(&sb, l); err != nil {
		t.Fatal(err)
	}
	got := sb.String()
	for _, want := range []string{
		`NAME "BufferedPolygon"`,
		"EXTENT 432000 5650000 437000 5655000",
		`"wms_title" "BufferedPolygon"`,
		`"wms_onlineresource" "http://localhost:8080/wms"`,
		`"wms_enable_request" "*"`,
		"TYPE POLYGON",
		"CONNECTIONTYPE postgis",
		`CONNECTION "host=localhost dbname=wpsio"`,
		`DATA "wkb_geometry from outputs.BufferedPolygon"`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("mapfile must contain %q, got:\n%s", want, got)
		}
	}
}

func TestGenerateWithoutExtent(t *testing.T) {
	var sb strings.Builder
	if err := Generate(&sb, Layer{Name: "L", Table: "t"}); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(sb.String(), "EXTENT") {
		t.Fatalf("mapfile must not contain an extent, got:\n%s", sb.String())
	}
}

func TestGenerateMissingLayer(t *testing.T) {
	var sb strings.Builder
	if err := Generate(&sb, Layer{Name: "OnlyAName"}); err == nil {
		t.Fatal("expected an error for a layer without a table")
	}
}

func TestParseExtent(t *testing.T) {
	tests := []struct {
		box     string
		want    string
		wantErr bool
	}{
		{box: "BOX(432000 5650000,437000 5655000)", want: "432000 5650000 437000 5655000"},
		{box: "BOX(7.1 50.6,7.3 50.8)", want: "7.1 50.6 7.3 50.8"},
		{box: "not a box", wantErr: true},
		{box: "BOX)432000(", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseExtent(tt.box)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseExtent(%q) error = %v, wantErr %t", tt.box, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseExtent(%q) = %q, want %q", tt.box, got, tt.want)
		}
	}
}

func TestLayerType(t *testing.T) {
	tests := []struct {
		wkt  string
		want string
	}{
		{"POINT(7.1 50.7)", "POINT"},
		{"MULTIPOINT((7.1 50.7))", "POINT"},
		{"LINESTRING(0 0,1 1)", "LINE"},
		{"MULTILINESTRING((0 0,1 1))", "LINE"},
		{"POLYGON((0 0,1 0,1 1,0 0))", "POLYGON"},
		{"MULTIPOLYGON(((0 0,1 0,1 1,0 0)))", "POLYGON"},
		{"GEOMETRYCOLLECTION(POINT(0 0))", "POLYGON"},
	}
	for _, tt := range tests {
		if got := layerType(tt.wkt); got != tt.want {
			t.Errorf("layerType(%q) = %q, want %q", tt.wkt, got, tt.want)
		}
	}
}
