package schema

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Schema is the rendered index set of one collection
type Schema struct {
	Collection string  `bson:"collection"`
	Indexes    []Index `bson:"indexes"`
}

// Index is one compiled index definition, laid out the way the server's
// createIndexes command expects it.
type Index struct {
	Key                     bson.D     `bson:"key"`
	Name                    string     `bson:"name,omitempty"`
	Unique                  bool       `bson:"unique"`
	ExpireAfterSeconds      *int32     `bson:"expireAfterSeconds,omitempty"`
	Weights                 bson.D     `bson:"weights,omitempty"`
	Bits                    *int32     `bson:"bits,omitempty"`
	Min                     *float64   `bson:"min,omitempty"`
	Max                     *float64   `bson:"max,omitempty"`
	Collation               *Collation `bson:"collation,omitempty"`
	LanguageOverride        string     `bson:"language_override,omitempty"`
	PartialFilterExpression bson.D     `bson:"partialFilterExpression,omitempty"`
}

type Collation struct {
	Locale   string            `bson:"locale"`
	Strength CollationStrength `bson:"strength,omitempty"`
}

// Model converts the index into the driver's create request.
func (ix Index) Model() mongo.IndexModel {
	opts := options.Index().SetUnique(ix.Unique)
	if ix.Name != "" {
		opts.SetName(ix.Name)
	}
	if ix.ExpireAfterSeconds != nil {
		opts.SetExpireAfterSeconds(*ix.ExpireAfterSeconds)
	}
	if ix.Weights != nil {
		opts.SetWeights(ix.Weights)
	}
	if ix.Bits != nil {
		opts.SetBits(*ix.Bits)
	}
	if ix.Min != nil {
		opts.SetMin(*ix.Min)
	}
	if ix.Max != nil {
		opts.SetMax(*ix.Max)
	}
	if ix.Collation != nil {
		opts.SetCollation(&options.Collation{
			Locale:   ix.Collation.Locale,
			Strength: int(ix.Collation.Strength),
		})
	}
	if ix.LanguageOverride != "" {
		opts.SetLanguageOverride(ix.LanguageOverride)
	}
	if ix.PartialFilterExpression != nil {
		opts.SetPartialFilterExpression(ix.PartialFilterExpression)
	}
	return mongo.IndexModel{Keys: ix.Key, Options: opts}
}

// Named returns a copy of the index whose name is filled with the driver's
// generated name when none was declared.
func (ix Index) Named() Index {
	if ix.Name == "" {
		ix.Name = DefaultIndexName(ix.Key)
	}
	return ix
}
