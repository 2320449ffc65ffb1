// Package mapfile renders minimal MapServer mapfiles for vector
// outputs stored in a PostGIS table, so a stored table can be served
// as a WMS layer right away.
package mapfile

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"
	"text/template"
)

// Layer describes the mapfile to render.
type Layer struct {
	// Name of the map and the layer.
	Name string
	// Table holding the geometries, optionally schema qualified.
	Table string
	// GeometryColumn defaults to "wkb_geometry".
	GeometryColumn string
	// Type is the MapServer layer type: POINT, LINE or POLYGON.
	Type string
	// Extent is "minx miny maxx maxy".
	Extent string
	// Connection is the Postgres connection string of the layer.
	Connection string
	// Title is the WMS title advertised in the web metadata.
	Title string
	// OnlineResource is the WMS online resource URL.
	OnlineResource string
}

const mapTemplate = `MAP
  NAME "{{ .Name }}"
{{- if .Extent }}
  EXTENT {{ .Extent }}
{{- end }}
  WEB
    METADATA
      "wms_title" "{{ .Title }}"
{{- if .OnlineResource }}
      "wms_onlineresource" "{{ .OnlineResource }}"
{{- end }}
      "wms_enable_request" "*"
    END
  END
  LAYER
    NAME "{{ .Name }}"
    STATUS ON
    TYPE {{ .Type }}
    CONNECTIONTYPE postgis
    CONNECTION "{{ .Connection }}"
    DATA "{{ .GeometryColumn }} from {{ .Table }}"
  END
END
`

var tmpl = template.Must(template.New("mapfile").Parse(mapTemplate))

// Generate renders the mapfile for the layer to w.
func Generate(w io.Writer, l Layer) error {
	if l.Name == "" || l.Table == "" {
		return fmt.Errorf("layer needs a name and a table")
	}
	if l.GeometryColumn == "" {
		l.GeometryColumn = "wkb_geometry"
	}
	if l.Type == "" {
		l.Type = "POLYGON"
	}
	if l.Title == "" {
		l.Title = l.Name
	}
	if err := tmpl.Execute(w, l); err != nil {
		return fmt.Errorf("rendering mapfile: %w", err)
	}
	return nil
}

// FromTable fills the layer's extent and geometry type from the
// stored table before rendering.
func FromTable(ctx context.Context, db *sql.DB, l Layer) (Layer, error) {
	if l.GeometryColumn == "" {
		l.GeometryColumn = "wkb_geometry"
	}
	var box sql.NullString
	query := fmt.Sprintf("SELECT ST_Extent(%s) FROM %s", l.GeometryColumn, l.Table)
	if err := db.QueryRowContext(ctx, query).Scan(&box); err != nil {
		return l, fmt.Errorf("querying extent of %s: %w", l.Table, err)
	}
	if box.Valid {
		extent, err := ParseExtent(box.String)
		if err != nil {
			return l, err
		}
		l.Extent = extent
	}
	var geom sql.NullString
	query = fmt.Sprintf("SELECT ST_AsText(%s) FROM %s LIMIT 1", l.GeometryColumn, l.Table)
	if err := db.QueryRowContext(ctx, query).Scan(&geom); err != nil {
		return l, fmt.Errorf("querying geometry of %s: %w", l.Table, err)
	}
	if geom.Valid {
		l.Type = layerType(geom.String)
	}
	return l, nil
}

// ParseExtent reformats a PostGIS "BOX(minx miny,maxx maxy)" value
// into the space separated extent a mapfile expects.
func ParseExtent(box string) (string, error) {
	start := strings.Index(box, "(")
	end := strings.Index(box, ")")
	if start < 0 || end < start {
		return "", fmt.Errorf("malformed extent %q", box)
	}
	return strings.ReplaceAll(box[start+1:end], ",", " "), nil
}

// layerType maps the WKT prefix of a geometry to the MapServer layer
// type.
func layerType(wkt string) string {
	prefix, _, _ := strings.Cut(wkt, "(")
	switch strings.TrimPrefix(strings.TrimSpace(strings.ToUpper(prefix)), "MULTI") {
	case "POINT":
		return "POINT"
	case "LINESTRING":
		return "LINE"
	default:
		return "POLYGON"
	}
}
