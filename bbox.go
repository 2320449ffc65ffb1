package wpsio

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultCRS is the coordinate reference system assumed when none is
// given.
const DefaultCRS = "epsg:4326"

// BoundingBox is a rectangular region in a coordinate reference
// system. The corner slices hold one coordinate per dimension.
type BoundingBox struct {
	CRS         string
	Dimensions  int
	LowerCorner []float64
	UpperCorner []float64
}

// NewBoundingBox returns a two dimensional bounding box in the
// default CRS.
func NewBoundingBox() BoundingBox {
	return BoundingBox{CRS: DefaultCRS, Dimensions: 2}
}

// Data converts the box to its document representation with space
// separated corner coordinates.
func (b BoundingBox) Data() *BoundingBoxData {
	return &BoundingBoxData{
		CRS:         b.CRS,
		Dimensions:  b.Dimensions,
		LowerCorner: formatCorner(b.LowerCorner),
		UpperCorner: formatCorner(b.UpperCorner),
	}
}

// Box converts the document representation back into a bounding box.
func (d BoundingBoxData) Box() (BoundingBox, error) {
	lower, err := parseCorner(d.LowerCorner)
	if err != nil {
		return BoundingBox{}, fmt.Errorf("parsing lower corner: %w", err)
	}
	upper, err := parseCorner(d.UpperCorner)
	if err != nil {
		return BoundingBox{}, fmt.Errorf("parsing upper corner: %w", err)
	}
	if len(lower) != len(upper) {
		return BoundingBox{}, fmt.Errorf("corner dimensions differ: %d != %d", len(lower), len(upper))
	}
	b := BoundingBox{
		CRS:         d.CRS,
		Dimensions:  d.Dimensions,
		LowerCorner: lower,
		UpperCorner: upper,
	}
	if b.CRS == "" {
		b.CRS = DefaultCRS
	}
	if b.Dimensions == 0 {
		b.Dimensions = len(lower)
	}
	return b, nil
}

func formatCorner(coords []float64) string {
	parts := make([]string, 0, len(coords))
	for _, c := range coords {
		parts = append(parts, strconv.FormatFloat(c, 'f', -1, 64))
	}
	return strings.Join(parts, " ")
}

func parseCorner(s string) ([]float64, error) {
	fields := strings.Fields(s)
	coords := make([]float64, 0, len(fields))
	for _, f := range fields {
		c, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		coords = append(coords, c)
	}
	return coords, nil
}
