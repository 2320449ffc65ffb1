// Package wpsio models OGC WPS 1.0.0 process inputs and outputs. The
// root package holds the Execute request document model and the value
// types shared by the io handlers (formats, units of measure, literal
// data types, bounding boxes). It does not implement a WPS service;
// the documents are plain data which can be encoded to XML or to the
// equivalent HTTP GET (KVP) form.
package wpsio

import (
	"encoding/xml"
	"fmt"
	"io"
)

const (
	NamespaceWPS   = "http://www.opengis.net/wps/1.0.0"
	NamespaceOWS   = "http://www.opengis.net/ows/1.1"
	NamespaceXLink = "http://www.w3.org/1999/xlink"
)

const (
	// ServiceName is the fixed service attribute of every WPS document.
	ServiceName = "WPS"
	// Version is the only protocol version this model speaks.
	Version = "1.0.0"
)

// Execute is a WPS 1.0.0 Execute request document. It invokes a named
// process with a set of data inputs and describes the wanted response
// form.
type Execute struct {
	XMLName xml.Name `xml:"http://www.opengis.net/wps/1.0.0 Execute"`

	Service string `xml:"service,attr"`
	Version string `xml:"version,attr"`

	// Identifier of the process to invoke, e.g. "Buffer".
	Identifier string `xml:"http://www.opengis.net/ows/1.1 Identifier"`

	DataInputs   []Input       `xml:"DataInputs>Input"`
	ResponseForm *ResponseForm `xml:"ResponseForm"`
}

// NewExecute returns an Execute document for the process with the
// given identifier with the fixed service name and version set.
func NewExecute(identifier string) *Execute {
	return &Execute{
		Service:    ServiceName,
		Version:    Version,
		Identifier: identifier,
	}
}

// Input is one named data input of an Execute request. Exactly one of
// Reference or Data is set.
type Input struct {
	Identifier string `xml:"http://www.opengis.net/ows/1.1 Identifier"`
	Title      string `xml:"http://www.opengis.net/ows/1.1 Title,omitempty"`
	Abstract   string `xml:"http://www.opengis.net/ows/1.1 Abstract,omitempty"`

	Reference *Reference `xml:"Reference"`
	Data      *Data      `xml:"Data"`
}

// Reference points to input data retrievable over the wire instead of
// carrying it inline.
type Reference struct {
	Href     string `xml:"http://www.w3.org/1999/xlink href,attr"`
	Method   string `xml:"method,attr,omitempty"`
	MimeType string `xml:"mimeType,attr,omitempty"`
	Encoding string `xml:"encoding,attr,omitempty"`
	Schema   string `xml:"schema,attr,omitempty"`

	// Body is the raw request body to send when Method is POST.
	Body string `xml:"Body,omitempty"`
}

// Data carries inline input data. Exactly one of the fields is set.
type Data struct {
	Literal     *LiteralData     `xml:"LiteralData"`
	Complex     *ComplexData     `xml:"ComplexData"`
	BoundingBox *BoundingBoxData `xml:"BoundingBoxData"`
}

// LiteralData is a simple value with an optional unit of measure and
// data type.
type LiteralData struct {
	Value    string `xml:",chardata"`
	UOM      string `xml:"uom,attr,omitempty"`
	DataType string `xml:"dataType,attr,omitempty"`
}

// ComplexData is structured inline content, e.g. an embedded GML
// document. Content holds the raw inner XML.
type ComplexData struct {
	MimeType string `xml:"mimeType,attr,omitempty"`
	Encoding string `xml:"encoding,attr,omitempty"`
	Schema   string `xml:"schema,attr,omitempty"`
	Content  string `xml:",innerxml"`
}

// BoundingBoxData is an inline bounding box in the given CRS. The
// corners are space separated coordinate lists.
type BoundingBoxData struct {
	CRS         string `xml:"crs,attr,omitempty"`
	Dimensions  int    `xml:"dimensions,attr,omitempty"`
	LowerCorner string `xml:"http://www.opengis.net/ows/1.1 LowerCorner"`
	UpperCorner string `xml:"http://www.opengis.net/ows/1.1 UpperCorner"`
}

// ResponseForm describes the wanted response. Exactly one of
// ResponseDocument or RawDataOutput is set.
type ResponseForm struct {
	ResponseDocument *ResponseDocument `xml:"ResponseDocument"`
	RawDataOutput    *RawDataOutput    `xml:"RawDataOutput"`
}

// ResponseDocument requests a structured response carrying the listed
// outputs, inline or by reference.
type ResponseDocument struct {
	// StoreExecuteResponse asks the server to keep the execute
	// response retrievable after the request finished.
	StoreExecuteResponse bool `xml:"storeExecuteResponse,attr,omitempty"`
	// Lineage asks the server to echo the data inputs back into the
	// response document.
	Lineage bool `xml:"lineage,attr,omitempty"`
	// Status asks for ongoing status updates in the stored response.
	Status bool `xml:"status,attr,omitempty"`

	Outputs []DocumentOutput `xml:"Output"`
}

// DocumentOutput is one requested output of a response document.
type DocumentOutput struct {
	AsReference bool   `xml:"asReference,attr,omitempty"`
	UOM         string `xml:"uom,attr,omitempty"`
	MimeType    string `xml:"mimeType,attr,omitempty"`
	Encoding    string `xml:"encoding,attr,omitempty"`
	Schema      string `xml:"schema,attr,omitempty"`

	Identifier string `xml:"http://www.opengis.net/ows/1.1 Identifier"`
	Title      string `xml:"http://www.opengis.net/ows/1.1 Title,omitempty"`
	Abstract   string `xml:"http://www.opengis.net/ows/1.1 Abstract,omitempty"`
}

// RawDataOutput requests a single output as the raw response body.
type RawDataOutput struct {
	UOM      string `xml:"uom,attr,omitempty"`
	MimeType string `xml:"mimeType,attr,omitempty"`
	Encoding string `xml:"encoding,attr,omitempty"`
	Schema   string `xml:"schema,attr,omitempty"`

	Identifier string `xml:"http://www.opengis.net/ows/1.1 Identifier"`
}

// DecodeExecute reads an Execute document from r.
func DecodeExecute(r io.Reader) (*Execute, error) {
	e := &Execute{}
	if err := xml.NewDecoder(r).Decode(e); err != nil {
		return nil, fmt.Errorf("decoding execute document: %w", err)
	}
	if e.Identifier == "" {
		return nil, ErrMissingIdentifier
	}
	return e, nil
}

// Encode writes the document as indented XML with the standard header.
// Missing service and version attributes are filled in.
func (e *Execute) Encode(w io.Writer) error {
	if e.Identifier == "" {
		return ErrMissingIdentifier
	}
	if e.Service == "" {
		e.Service = ServiceName
	}
	if e.Version == "" {
		e.Version = Version
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(e); err != nil {
		return fmt.Errorf("encoding execute document: %w", err)
	}
	return enc.Flush()
}

// InputByIdentifier returns the first input with the given identifier.
func (e *Execute) InputByIdentifier(identifier string) (*Input, bool) {
	for i := range e.DataInputs {
		if e.DataInputs[i].Identifier == identifier {
			return &e.DataInputs[i], true
		}
	}
	return nil, false
}
