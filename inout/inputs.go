package inout

import (
	"fmt"

	"github.com/naivary/wpsio"
)

// Meta is the descriptive part every input and output carries.
type Meta struct {
	Identifier string
	Title      string
	Abstract   string
	Keywords   []string
}

// LiteralInput is a simple typed value with optional units of measure
// and an optional set of allowed values.
type LiteralInput struct {
	Meta
	Source

	DataType wpsio.DataType
	// UOMs are the accepted units; the first one is the default.
	UOMs    []wpsio.UOM
	Allowed wpsio.AllowedValues
	// Default is the raw value used when none was set.
	Default string

	uom wpsio.UOM
}

// NewLiteralInput returns a literal input of the given data type
// accepting any value.
func NewLiteralInput(identifier string, dataType wpsio.DataType, uoms ...wpsio.UOM) *LiteralInput {
	in := &LiteralInput{
		Meta:     Meta{Identifier: identifier},
		DataType: dataType,
		UOMs:     uoms,
	}
	if len(uoms) > 0 {
		in.uom = uoms[0]
	}
	return in
}

// UOM returns the current unit of measure.
func (in *LiteralInput) UOM() wpsio.UOM {
	return in.uom
}

func (in *LiteralInput) SetUOM(uom wpsio.UOM) {
	in.uom = uom
}

// SetValue converts raw to the input's data type, checks it against
// the allowed values and sets it as the source data.
func (in *LiteralInput) SetValue(raw string) error {
	if _, err := in.DataType.Convert(raw); err != nil {
		return err
	}
	if !in.Allowed.Allows(in.DataType, raw) {
		return fmt.Errorf("%w: %s=%q", wpsio.ErrValueNotAllowed, in.Identifier, raw)
	}
	in.SetData([]byte(raw))
	return nil
}

// Value returns the source data converted to the input's data type,
// falling back to the default value when no source was set.
func (in *LiteralInput) Value() (any, error) {
	if in.Kind() == SourceNone && in.Default != "" {
		return in.DataType.Convert(in.Default)
	}
	p, err := in.Data()
	if err != nil {
		return nil, err
	}
	return in.DataType.Convert(string(p))
}

// ComplexInput is structured data in one of a set of supported
// formats. The first supported format is the default.
type ComplexInput struct {
	Meta
	Source

	supported []wpsio.Format
	format    wpsio.Format
}

func NewComplexInput(identifier string, supported ...wpsio.Format) *ComplexInput {
	in := &ComplexInput{
		Meta:      Meta{Identifier: identifier},
		supported: supported,
	}
	if len(supported) > 0 {
		in.format = supported[0]
		in.setExt(in.format.Extension)
	}
	return in
}

// Format returns the current data format.
func (in *ComplexInput) Format() wpsio.Format {
	return in.format
}

// SetFormat switches the current format. The format must be one of
// the supported ones.
func (in *ComplexInput) SetFormat(f wpsio.Format) error {
	for _, s := range in.supported {
		if s.SameAs(f) {
			in.format = f
			in.setExt(f.Extension)
			return nil
		}
	}
	return fmt.Errorf("%w: %s, %s, %s", wpsio.ErrFormatNotSupported, f.MimeType, f.Encoding, f.Schema)
}

// SupportedFormats returns the formats the input accepts.
func (in *ComplexInput) SupportedFormats() []wpsio.Format {
	return in.supported
}

// FormatByMimeType returns the supported format with the given mime
// type.
func (in *ComplexInput) FormatByMimeType(mimeType string) (wpsio.Format, bool) {
	for _, s := range in.supported {
		if s.MimeType == mimeType {
			return s, true
		}
	}
	return wpsio.Format{}, false
}

// BoundingBoxInput is a rectangular region in one of a set of
// supported coordinate reference systems.
type BoundingBoxInput struct {
	Meta

	// CRSs are the accepted reference systems; the first one is the
	// default.
	CRSs []string

	box wpsio.BoundingBox
}

func NewBoundingBoxInput(identifier string, crss ...string) *BoundingBoxInput {
	if len(crss) == 0 {
		crss = []string{wpsio.DefaultCRS}
	}
	box := wpsio.NewBoundingBox()
	box.CRS = crss[0]
	return &BoundingBoxInput{
		Meta: Meta{Identifier: identifier},
		CRSs: crss,
		box:  box,
	}
}

func (in *BoundingBoxInput) Box() wpsio.BoundingBox {
	return in.box
}

// SetBox sets the box. An empty CRS keeps the default one.
func (in *BoundingBoxInput) SetBox(box wpsio.BoundingBox) {
	if box.CRS == "" {
		box.CRS = in.CRSs[0]
	}
	if box.Dimensions == 0 {
		box.Dimensions = len(box.LowerCorner)
	}
	in.box = box
}
