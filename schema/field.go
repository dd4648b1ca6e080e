package schema

import (
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

const (
	defaultIndexSlot int32 = 1

	defaultGeoBits uint32  = 26
	defaultGeoMin  float64 = -180.0
	defaultGeoMax  float64 = 180.0

	maxGeoBits    = 32
	maxTextWeight = 99999
)

type GeoKind int

const (
	GeoCartesian GeoKind = iota
	GeoSpherical
)

// marker is the key document value of a geo index.
func (k GeoKind) marker() string {
	if k == GeoSpherical {
		return "2dsphere"
	}
	return "2d"
}

// Geo is a geospatial encoding. Bits, Min and Max are only meaningful for
// GeoSpherical.
type Geo struct {
	Kind GeoKind
	Bits uint32
	Min  float64
	Max  float64
}

type CaseInsensitivity struct {
	Locale   string
	Strength CollationStrength
}

type IndexKind int

const (
	KindNumeric IndexKind = iota
	KindText
	KindGeo
)

// FieldSpec is the validated indexing metadata of one field.
type FieldSpec struct {
	Name              string
	Sub               string
	Slot              int32
	Link              string
	Order             uint8
	Unique            bool
	TextWeight        *uint32
	Geo               *Geo
	CaseInsensitivity *CaseInsensitivity
	IndexName         string
	LangField         bool
	Filter            bson.D
}

// Path is the possibly dotted key path the field is indexed under.
func (f FieldSpec) Path() string {
	if f.Sub == "" {
		return f.Name
	}
	return f.Name + "." + f.Sub
}

// Kind resolves the index kind, geo over text over numeric.
func (f FieldSpec) Kind() IndexKind {
	switch {
	case f.Geo != nil:
		return KindGeo
	case f.TextWeight != nil:
		return KindText
	default:
		return KindNumeric
	}
}

// ParseField validates the indexing annotations of a field and applies defaults.
func ParseField(name string, ix Indexing) (FieldSpec, error) {
	if name == "" {
		return FieldSpec{}, fmt.Errorf("%w: field name is empty", ErrInvalidField)
	}

	spec := FieldSpec{
		Name:      name,
		Sub:       ix.Sub,
		Slot:      defaultIndexSlot,
		Link:      ix.Link,
		Order:     ix.Order,
		Unique:    ix.Unique,
		IndexName: ix.Name,
		LangField: ix.LangField,
	}
	if ix.Index != nil {
		spec.Slot = *ix.Index
	}

	if ix.TextWeight != nil {
		w := *ix.TextWeight
		if w < 1 || w > maxTextWeight {
			return FieldSpec{}, fmt.Errorf("%w: field %q: text weight %d not in 1..%d", ErrInvalidField, name, w, maxTextWeight)
		}
		spec.TextWeight = &w
	}

	geo, err := parseGeo(ix)
	if err != nil {
		return FieldSpec{}, fmt.Errorf("field %q: %w", name, err)
	}
	spec.Geo = geo

	if ix.ICaseStrength != nil {
		strength, err := ParseCollationStrength(*ix.ICaseStrength)
		if err != nil {
			return FieldSpec{}, fmt.Errorf("field %q: %w", name, err)
		}
		if ix.ICaseLocale != "" {
			spec.CaseInsensitivity = &CaseInsensitivity{Locale: ix.ICaseLocale, Strength: strength}
		}
	}

	if strings.TrimSpace(ix.PFE) != "" {
		var filter bson.D
		if err := bson.UnmarshalExtJSON([]byte(ix.PFE), false, &filter); err != nil {
			return FieldSpec{}, fmt.Errorf("%w: field %q: %v", ErrInvalidFilter, name, err)
		}
		if filter == nil {
			filter = bson.D{}
		}
		spec.Filter = filter
	}

	return spec, nil
}

func parseGeo(ix Indexing) (*Geo, error) {
	switch ix.TwoD {
	case "":
		return nil, nil
	case TwoDCartesian:
		return &Geo{Kind: GeoCartesian}, nil
	case TwoDSpherical:
		geo := &Geo{Kind: GeoSpherical, Bits: defaultGeoBits, Min: defaultGeoMin, Max: defaultGeoMax}
		if ix.TwoDBits != nil {
			geo.Bits = *ix.TwoDBits
		}
		if ix.TwoDMin != nil {
			geo.Min = *ix.TwoDMin
		}
		if ix.TwoDMax != nil {
			geo.Max = *ix.TwoDMax
		}
		if geo.Bits < 1 || geo.Bits > maxGeoBits {
			return nil, fmt.Errorf("%w: two_d_bits %d not in 1..%d", ErrInvalidField, geo.Bits, maxGeoBits)
		}
		return geo, nil
	default:
		return nil, fmt.Errorf("%w: two_d %q must be %q or %q", ErrInvalidField, ix.TwoD, TwoDSpherical, TwoDCartesian)
	}
}
