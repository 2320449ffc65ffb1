package inout

import (
	"fmt"

	"github.com/naivary/wpsio"
)

// StoreType tells where a storage backend put an output.
type StoreType int

const (
	// StorePath is a file below the storage target directory.
	StorePath StoreType = iota
	// StoreDB is a database table.
	StoreDB
	// StoreObject is an object in an embedded object store.
	StoreObject
)

// Storage persists a complex output and returns where it went: the
// store type, a backend specific location (file name, table
// reference, object id) and the URL under which the data can be
// fetched.
type Storage interface {
	Store(out *ComplexOutput) (StoreType, string, string, error)
}

// LiteralOutput is a simple typed output value.
type LiteralOutput struct {
	Meta
	Source

	DataType wpsio.DataType
	UOMs     []wpsio.UOM

	uom wpsio.UOM
}

func NewLiteralOutput(identifier string, dataType wpsio.DataType, uoms ...wpsio.UOM) *LiteralOutput {
	out := &LiteralOutput{
		Meta:     Meta{Identifier: identifier},
		DataType: dataType,
		UOMs:     uoms,
	}
	if len(uoms) > 0 {
		out.uom = uoms[0]
	}
	return out
}

func (out *LiteralOutput) UOM() wpsio.UOM {
	return out.uom
}

func (out *LiteralOutput) SetUOM(uom wpsio.UOM) {
	out.uom = uom
}

// ComplexOutput is a structured output. When a storage backend is
// attached the output can be turned into a reference URL.
type ComplexOutput struct {
	Meta
	Source

	// Storage persists the output when a reference is requested.
	Storage Storage

	supported []wpsio.Format
	format    wpsio.Format
}

func NewComplexOutput(identifier string, supported ...wpsio.Format) *ComplexOutput {
	out := &ComplexOutput{
		Meta:      Meta{Identifier: identifier},
		supported: supported,
	}
	if len(supported) > 0 {
		out.format = supported[0]
		out.setExt(out.format.Extension)
	}
	return out
}

func (out *ComplexOutput) Format() wpsio.Format {
	return out.format
}

func (out *ComplexOutput) SetFormat(f wpsio.Format) error {
	for _, s := range out.supported {
		if s.SameAs(f) {
			out.format = f
			out.setExt(f.Extension)
			return nil
		}
	}
	return fmt.Errorf("%w: %s, %s, %s", wpsio.ErrFormatNotSupported, f.MimeType, f.Encoding, f.Schema)
}

func (out *ComplexOutput) SupportedFormats() []wpsio.Format {
	return out.supported
}

// URL stores the output through its storage backend and returns the
// URL pointing to the stored data.
func (out *ComplexOutput) URL() (string, error) {
	if out.Storage == nil {
		return "", ErrNoStorage
	}
	_, _, url, err := out.Storage.Store(out)
	return url, err
}

// BoundingBoxOutput is a rectangular output region.
type BoundingBoxOutput struct {
	Meta

	CRSs []string

	box wpsio.BoundingBox
}

func NewBoundingBoxOutput(identifier string, crss ...string) *BoundingBoxOutput {
	if len(crss) == 0 {
		crss = []string{wpsio.DefaultCRS}
	}
	box := wpsio.NewBoundingBox()
	box.CRS = crss[0]
	return &BoundingBoxOutput{
		Meta: Meta{Identifier: identifier},
		CRSs: crss,
		box:  box,
	}
}

func (out *BoundingBoxOutput) Box() wpsio.BoundingBox {
	return out.box
}

func (out *BoundingBoxOutput) SetBox(box wpsio.BoundingBox) {
	if box.CRS == "" {
		box.CRS = out.CRSs[0]
	}
	if box.Dimensions == 0 {
		box.Dimensions = len(box.LowerCorner)
	}
	out.box = box
}
