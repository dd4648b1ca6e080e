package schema

import (
	"slices"

	"go.mongodb.org/mongo-driver/bson"
)

// IndexGroup is the set of fields that end up in one index.
type IndexGroup struct {
	Members           []FieldSpec
	Link              string
	Unique            bool
	Name              string
	CaseInsensitivity *CaseInsensitivity
	Geo               *Geo
	Filter            bson.D
}

// collate groups fields into indexes. Unlinked fields get an index each;
// fields sharing a link id are merged into the group opened by the first of
// them. Groups keep the order their first field was seen in.
func collate(fields []FieldSpec) []IndexGroup {
	var groups []IndexGroup
	for _, f := range fields {
		if f.Link != "" {
			i := slices.IndexFunc(groups, func(g IndexGroup) bool { return g.Link == f.Link })
			if i >= 0 {
				groups[i].merge(f)
				continue
			}
		}
		groups = append(groups, IndexGroup{
			Members:           []FieldSpec{f},
			Link:              f.Link,
			Unique:            f.Unique,
			Name:              f.IndexName,
			CaseInsensitivity: f.CaseInsensitivity,
			Geo:               f.Geo,
			Filter:            f.Filter,
		})
	}
	return groups
}

// merge adds f to the group. Later fields win for every option except unique,
// which is or-ed.
func (g *IndexGroup) merge(f FieldSpec) {
	g.Members = append(g.Members, f)
	slices.SortStableFunc(g.Members, func(a, b FieldSpec) int {
		return int(a.Order) - int(b.Order)
	})

	g.Unique = g.Unique || f.Unique
	if f.IndexName != "" {
		g.Name = f.IndexName
	}
	if f.CaseInsensitivity != nil {
		g.CaseInsensitivity = f.CaseInsensitivity
	}
	if f.Geo != nil {
		g.Geo = f.Geo
	}
	if f.Filter != nil {
		g.Filter = f.Filter
	}
}
