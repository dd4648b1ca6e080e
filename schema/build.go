package schema

import (
	"fmt"
	"math"

	"go.mongodb.org/mongo-driver/bson"
)

const textMarker = "text"

// buildIndex turns a collated group into its key document and options.
// expireAfter is the record-wide expiration, nil when disabled.
func buildIndex(g IndexGroup, expireAfter *int32) Index {
	ix := Index{
		Key:                make(bson.D, 0, len(g.Members)),
		Name:               g.Name,
		Unique:             g.Unique,
		ExpireAfterSeconds: expireAfter,
		Collation:          &Collation{Locale: defaultCollationLocale},
	}

	for _, m := range g.Members {
		switch m.Kind() {
		case KindGeo:
			// The group's encoding wins over the member's own.
			ix.Key = append(ix.Key, bson.E{Key: m.Path(), Value: g.geoKind(m).marker()})
		case KindText:
			ix.Key = append(ix.Key, bson.E{Key: m.Path(), Value: textMarker})
			ix.Weights = append(ix.Weights, bson.E{Key: m.Path(), Value: int32(*m.TextWeight)})
		default:
			ix.Key = append(ix.Key, bson.E{Key: m.Path(), Value: m.Slot})
		}

		if m.LangField && ix.LanguageOverride == "" {
			ix.LanguageOverride = m.Path()
		}
	}

	if g.Geo != nil && g.Geo.Kind == GeoSpherical {
		bits := int32(g.Geo.Bits)
		minimum, maximum := g.Geo.Min, g.Geo.Max
		ix.Bits, ix.Min, ix.Max = &bits, &minimum, &maximum
	}

	if g.CaseInsensitivity != nil {
		ix.Collation = &Collation{Locale: g.CaseInsensitivity.Locale, Strength: g.CaseInsensitivity.Strength}
	}

	ix.PartialFilterExpression = g.Filter
	return ix
}

func (g IndexGroup) geoKind(m FieldSpec) GeoKind {
	if g.Geo != nil {
		return g.Geo.Kind
	}
	return m.Geo.Kind
}

func expiration(secs uint64) (*int32, error) {
	if secs == 0 {
		return nil, nil
	}
	if secs > math.MaxInt32 {
		return nil, fmt.Errorf("%w: %d seconds exceeds %d", ErrExpirationRange, secs, math.MaxInt32)
	}
	s := int32(secs)
	return &s, nil
}
