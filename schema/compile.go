package schema

import (
	"fmt"
	"slices"

	"go.mongodb.org/mongo-driver/mongo"
)

// Compiled is the immutable result of compiling a Declaration.
type Compiled struct {
	Identity Identity
	Indexes  []Index
}

// Compile resolves the identity of a record type and builds its indexes in
// declaration order. The declaration itself is not modified.
func Compile(decl Declaration) (*Compiled, error) {
	decl.Fields = slices.Clone(decl.Fields)

	identity, err := resolveIdentity(&decl)
	if err != nil {
		return nil, err
	}

	expireAfter, err := expiration(decl.ExpirationSecs)
	if err != nil {
		return nil, fmt.Errorf("collection %q: %w", decl.Name, err)
	}

	fields := make([]FieldSpec, 0, len(decl.Fields))
	for _, f := range decl.Fields {
		if f.Indexing == nil {
			continue
		}
		spec, err := ParseField(f.Name, *f.Indexing)
		if err != nil {
			return nil, fmt.Errorf("collection %q: %w", decl.Name, err)
		}
		fields = append(fields, spec)
	}

	groups := collate(fields)
	indexes := make([]Index, 0, len(groups))
	for _, g := range groups {
		indexes = append(indexes, buildIndex(g, expireAfter))
	}

	return &Compiled{Identity: identity, Indexes: indexes}, nil
}

// MustCompile is like Compile but panics on a declaration error.
func MustCompile(decl Declaration) *Compiled {
	c, err := Compile(decl)
	if err != nil {
		panic(fmt.Sprintf("schema: %v", err))
	}
	return c
}

// Models returns the driver create requests, in build order.
func (c *Compiled) Models() []mongo.IndexModel {
	models := make([]mongo.IndexModel, 0, len(c.Indexes))
	for _, ix := range c.Indexes {
		models = append(models, ix.Model())
	}
	return models
}

// Schema returns the rendered index set of the collection.
func (c *Compiled) Schema() Schema {
	return Schema{Collection: c.Identity.Collection, Indexes: slices.Clone(c.Indexes)}
}
