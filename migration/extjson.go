package migration

import (
	"bytes"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
)

// marshalDocuments renders docs as an indented extended JSON array.
// Migration files must be canonical: golang-migrate's mongodb driver parses
// them in canonical mode, which rejects relaxed dates.
func marshalDocuments[T any](docs []T, canonical bool) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("[")
	for i, doc := range docs {
		b, err := bson.MarshalExtJSONIndent(doc, canonical, false, "  ", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling document %d: %w", i, err)
		}
		if i > 0 {
			buf.WriteString(",")
		}
		buf.WriteString("\n  ")
		buf.Write(b)
	}
	if len(docs) > 0 {
		buf.WriteString("\n")
	}
	buf.WriteString("]\n")
	return buf.Bytes(), nil
}
