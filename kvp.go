package wpsio

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// The KVP form separates inputs with ";" and appends attributes to a
// value as "@name=value" pairs, e.g.
//
//	datainputs=InputPolygon=@xlink:href=http%3A%2F%2Ffoo.bar%2Fsome_WFS_request.xml;BufferDistance=400@uom=meters
//
// Values and attribute values are percent encoded a second time so
// the separators stay unambiguous.
const (
	kvpInputSep = ";"
	kvpAttrSep  = "@"
)

// KVP returns the HTTP GET form equivalent to the Execute document.
// Titles and abstracts have no KVP representation and are dropped;
// bounding box inputs are encoded as comma separated corner
// coordinates followed by the CRS.
func (e *Execute) KVP() url.Values {
	v := url.Values{}
	v.Set("service", ServiceName)
	v.Set("request", "Execute")
	version := e.Version
	if version == "" {
		version = Version
	}
	v.Set("version", version)
	v.Set("identifier", e.Identifier)

	if len(e.DataInputs) > 0 {
		inputs := make([]string, 0, len(e.DataInputs))
		for _, in := range e.DataInputs {
			inputs = append(inputs, encodeKVPInput(in))
		}
		v.Set("datainputs", strings.Join(inputs, kvpInputSep))
	}

	if rf := e.ResponseForm; rf != nil {
		if rd := rf.ResponseDocument; rd != nil {
			outputs := make([]string, 0, len(rd.Outputs))
			for _, out := range rd.Outputs {
				outputs = append(outputs, encodeKVPOutput(out))
			}
			if len(outputs) > 0 {
				v.Set("responsedocument", strings.Join(outputs, kvpInputSep))
			}
			setKVPFlag(v, "storeexecuteresponse", rd.StoreExecuteResponse)
			setKVPFlag(v, "lineage", rd.Lineage)
			setKVPFlag(v, "status", rd.Status)
		}
		if raw := rf.RawDataOutput; raw != nil {
			v.Set("rawdataoutput", encodeKVPRawOutput(*raw))
		}
	}
	return v
}

func setKVPFlag(v url.Values, key string, flag bool) {
	if flag {
		v.Set(key, "true")
	}
}

func encodeKVPInput(in Input) string {
	var sb strings.Builder
	sb.WriteString(in.Identifier)
	sb.WriteString("=")
	switch {
	case in.Reference != nil:
		ref := in.Reference
		writeKVPAttr(&sb, "xlink:href", ref.Href)
		writeKVPAttr(&sb, "method", ref.Method)
		writeKVPAttr(&sb, "mimetype", ref.MimeType)
		writeKVPAttr(&sb, "encoding", ref.Encoding)
		writeKVPAttr(&sb, "schema", ref.Schema)
	case in.Data != nil && in.Data.Literal != nil:
		lit := in.Data.Literal
		sb.WriteString(url.QueryEscape(lit.Value))
		writeKVPAttr(&sb, "uom", lit.UOM)
		writeKVPAttr(&sb, "datatype", lit.DataType)
	case in.Data != nil && in.Data.Complex != nil:
		c := in.Data.Complex
		sb.WriteString(url.QueryEscape(c.Content))
		writeKVPAttr(&sb, "mimetype", c.MimeType)
		writeKVPAttr(&sb, "encoding", c.Encoding)
		writeKVPAttr(&sb, "schema", c.Schema)
	case in.Data != nil && in.Data.BoundingBox != nil:
		b := in.Data.BoundingBox
		coords := strings.Fields(b.LowerCorner)
		coords = append(coords, strings.Fields(b.UpperCorner)...)
		if b.CRS != "" {
			coords = append(coords, b.CRS)
		}
		sb.WriteString(url.QueryEscape(strings.Join(coords, ",")))
	}
	return sb.String()
}

func encodeKVPOutput(out DocumentOutput) string {
	var sb strings.Builder
	sb.WriteString(out.Identifier)
	sb.WriteString("=")
	if out.AsReference {
		writeKVPAttr(&sb, "asreference", "true")
	}
	writeKVPAttr(&sb, "uom", out.UOM)
	writeKVPAttr(&sb, "mimetype", out.MimeType)
	writeKVPAttr(&sb, "encoding", out.Encoding)
	writeKVPAttr(&sb, "schema", out.Schema)
	return sb.String()
}

func encodeKVPRawOutput(raw RawDataOutput) string {
	var sb strings.Builder
	sb.WriteString(raw.Identifier)
	sb.WriteString("=")
	writeKVPAttr(&sb, "uom", raw.UOM)
	writeKVPAttr(&sb, "mimetype", raw.MimeType)
	writeKVPAttr(&sb, "encoding", raw.Encoding)
	writeKVPAttr(&sb, "schema", raw.Schema)
	return sb.String()
}

func writeKVPAttr(sb *strings.Builder, name, value string) {
	if value == "" {
		return
	}
	sb.WriteString(kvpAttrSep)
	sb.WriteString(name)
	sb.WriteString("=")
	sb.WriteString(url.QueryEscape(value))
}

// ParseKVP builds an Execute document from its HTTP GET form.
// Parameter and attribute names are matched case insensitively.
// Inputs with an xlink:href attribute become references, everything
// else becomes literal data.
func ParseKVP(values url.Values) (*Execute, error) {
	params := make(map[string]string, len(values))
	for k := range values {
		params[strings.ToLower(k)] = values.Get(k)
	}
	if !strings.EqualFold(params["request"], "Execute") {
		return nil, ErrNotKVPExecute
	}
	if params["identifier"] == "" {
		return nil, ErrMissingIdentifier
	}

	e := NewExecute(params["identifier"])
	if v := params["version"]; v != "" {
		e.Version = v
	}

	if di := params["datainputs"]; di != "" {
		for _, part := range strings.Split(di, kvpInputSep) {
			in, err := parseKVPInput(part)
			if err != nil {
				return nil, err
			}
			e.DataInputs = append(e.DataInputs, in)
		}
	}

	rd := &ResponseDocument{}
	hasResponseDoc := false
	if doc := params["responsedocument"]; doc != "" {
		hasResponseDoc = true
		for _, part := range strings.Split(doc, kvpInputSep) {
			out, err := parseKVPOutput(part)
			if err != nil {
				return nil, err
			}
			rd.Outputs = append(rd.Outputs, out)
		}
	}
	for key, dst := range map[string]*bool{
		"storeexecuteresponse": &rd.StoreExecuteResponse,
		"lineage":              &rd.Lineage,
		"status":               &rd.Status,
	} {
		raw, ok := params[key]
		if !ok {
			continue
		}
		flag, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", key, err)
		}
		*dst = flag
		hasResponseDoc = hasResponseDoc || flag
	}
	if hasResponseDoc {
		e.ResponseForm = &ResponseForm{ResponseDocument: rd}
	}

	if raw := params["rawdataoutput"]; raw != "" {
		out, err := parseKVPRawOutput(raw)
		if err != nil {
			return nil, err
		}
		e.ResponseForm = &ResponseForm{RawDataOutput: &out}
	}
	return e, nil
}

func parseKVPInput(part string) (Input, error) {
	identifier, value, attrs, err := splitKVPPart(part)
	if err != nil {
		return Input{}, err
	}
	in := Input{Identifier: identifier}
	if href, ok := attrs["xlink:href"]; ok {
		in.Reference = &Reference{
			Href:     href,
			Method:   attrs["method"],
			MimeType: attrs["mimetype"],
			Encoding: attrs["encoding"],
			Schema:   attrs["schema"],
		}
		return in, nil
	}
	if mt, ok := attrs["mimetype"]; ok {
		in.Data = &Data{Complex: &ComplexData{
			MimeType: mt,
			Encoding: attrs["encoding"],
			Schema:   attrs["schema"],
			Content:  value,
		}}
		return in, nil
	}
	in.Data = &Data{Literal: &LiteralData{
		Value:    value,
		UOM:      attrs["uom"],
		DataType: attrs["datatype"],
	}}
	return in, nil
}

func parseKVPOutput(part string) (DocumentOutput, error) {
	identifier, _, attrs, err := splitKVPPart(part)
	if err != nil {
		return DocumentOutput{}, err
	}
	out := DocumentOutput{
		Identifier: identifier,
		UOM:        attrs["uom"],
		MimeType:   attrs["mimetype"],
		Encoding:   attrs["encoding"],
		Schema:     attrs["schema"],
	}
	if raw, ok := attrs["asreference"]; ok {
		ref, err := strconv.ParseBool(raw)
		if err != nil {
			return DocumentOutput{}, fmt.Errorf("parsing asreference of %s: %w", identifier, err)
		}
		out.AsReference = ref
	}
	return out, nil
}

func parseKVPRawOutput(part string) (RawDataOutput, error) {
	identifier, _, attrs, err := splitKVPPart(part)
	if err != nil {
		return RawDataOutput{}, err
	}
	return RawDataOutput{
		Identifier: identifier,
		UOM:        attrs["uom"],
		MimeType:   attrs["mimetype"],
		Encoding:   attrs["encoding"],
		Schema:     attrs["schema"],
	}, nil
}

// splitKVPPart takes one "id=value@attr=v@attr=v" part apart. The
// returned attribute names are lowercased, values are unescaped.
func splitKVPPart(part string) (identifier, value string, attrs map[string]string, err error) {
	tokens := strings.Split(part, kvpAttrSep)
	identifier, raw, ok := strings.Cut(tokens[0], "=")
	if !ok || identifier == "" {
		return "", "", nil, fmt.Errorf("malformed input %q: missing identifier", part)
	}
	if value, err = url.QueryUnescape(raw); err != nil {
		return "", "", nil, fmt.Errorf("malformed input %q: %w", part, err)
	}
	attrs = make(map[string]string, len(tokens)-1)
	for _, tok := range tokens[1:] {
		name, raw, ok := strings.Cut(tok, "=")
		if !ok {
			return "", "", nil, fmt.Errorf("malformed attribute %q of input %s", tok, identifier)
		}
		v, err := url.QueryUnescape(raw)
		if err != nil {
			return "", "", nil, fmt.Errorf("malformed attribute %q of input %s: %w", tok, identifier, err)
		}
		attrs[strings.ToLower(name)] = v
	}
	return identifier, value, attrs, nil
}
