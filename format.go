package wpsio

import (
	"mime"

	"golang.org/x/exp/slices"
)

// Format describes the encoding of complex data: the mime type, the
// filename extension used when the data is spilled to disk, an
// optional text encoding and an optional schema reference.
type Format struct {
	MimeType  string
	Extension string
	Encoding  string
	Schema    string
}

// SameAs reports whether both formats describe the same encoding.
// The extension is a local concern and not part of the comparison.
func (f Format) SameAs(o Format) bool {
	return f.MimeType == o.MimeType &&
		f.Encoding == o.Encoding &&
		f.Schema == o.Schema
}

// Common geospatial formats.
var (
	FormatGML       = Format{MimeType: "application/gml+xml", Extension: ".gml", Encoding: "UTF-8"}
	FormatGeoJSON   = Format{MimeType: "application/geo+json", Extension: ".geojson"}
	FormatShapefile = Format{MimeType: "application/x-zipped-shp", Extension: ".zip"}
	FormatGeoTIFF   = Format{MimeType: "image/tiff; subtype=geotiff", Extension: ".tiff", Encoding: "base64"}
	FormatWKT       = Format{MimeType: "application/wkt", Extension: ".wkt"}
	FormatNetCDF    = Format{MimeType: "application/x-netcdf", Extension: ".nc", Encoding: "base64"}
	FormatJSON      = Format{MimeType: "application/json", Extension: ".json"}
	FormatText      = Format{MimeType: "text/plain", Extension: ".txt"}
	FormatXML       = Format{MimeType: "text/xml", Extension: ".xml", Encoding: "UTF-8"}
)

// Formats lists the formats known to the package.
var Formats = []Format{
	FormatGML,
	FormatGeoJSON,
	FormatShapefile,
	FormatGeoTIFF,
	FormatWKT,
	FormatNetCDF,
	FormatJSON,
	FormatText,
	FormatXML,
}

// FormatByMimeType looks the mime type up in the known formats.
func FormatByMimeType(mimeType string) (Format, bool) {
	i := slices.IndexFunc(Formats, func(f Format) bool {
		return f.MimeType == mimeType
	})
	if i < 0 {
		return Format{}, false
	}
	return Formats[i], true
}

// FormatByExtension resolves the extension (e.g. ".gml") to a format.
// Extensions unknown to the package fall back to the mime registry of
// the process.
func FormatByExtension(ext string) (Format, bool) {
	i := slices.IndexFunc(Formats, func(f Format) bool {
		return f.Extension == ext
	})
	if i >= 0 {
		return Formats[i], true
	}
	if typ := mime.TypeByExtension(ext); typ != "" {
		return Format{MimeType: typ, Extension: ext}, true
	}
	return Format{}, false
}

// AddExtensionType registers a custom file extension, e.g. ".gml",
// with its mime type in the process wide mime registry.
func AddExtensionType(ext, typ string) error {
	return mime.AddExtensionType(ext, typ)
}

// IsText reports whether data of this format is textual, judged by
// the mime type. Formats carrying base64 encoded data are binary.
func (f Format) IsText() bool {
	if f.Encoding == "base64" {
		return false
	}
	switch {
	case len(f.MimeType) >= 5 && f.MimeType[:5] == "text/":
		return true
	case f.MimeType == "application/json", f.MimeType == "application/geo+json":
		return true
	case f.MimeType == "application/gml+xml", f.MimeType == "application/xml":
		return true
	}
	return false
}
