package wpsio

// UOM is a unit of measure as used by literal data, e.g. "meters".
type UOM string

// ogcUnitPrefix is the URN namespace of the OGC unit-of-measure
// recommendation.
const ogcUnitPrefix = "urn:ogc:def:uom:OGC:1.0:"

var ogcUnits = map[UOM]string{
	"degree": ogcUnitPrefix + "degree",
	"metre":  ogcUnitPrefix + "metre",
	"meter":  ogcUnitPrefix + "metre",
	"meters": ogcUnitPrefix + "metre",
	"m":      ogcUnitPrefix + "metre",
	"radian": ogcUnitPrefix + "radian",
	"feet":   ogcUnitPrefix + "feet",
	"unity":  ogcUnitPrefix + "unity",
}

func (u UOM) String() string {
	return string(u)
}

// Reference returns the OGC unit URN for the unit. Units without a
// well known URN are put into the OGC namespace verbatim.
func (u UOM) Reference() string {
	if ref, ok := ogcUnits[u]; ok {
		return ref
	}
	return ogcUnitPrefix + string(u)
}
