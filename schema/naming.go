package schema

import (
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

// DefaultIndexName generates the name the server would give an unnamed index,
// e.g. {country: 1, city: -1} becomes "country_1_city_-1".
func DefaultIndexName(keys bson.D) string {
	parts := make([]string, 0, len(keys)*2)
	for _, e := range keys {
		parts = append(parts, e.Key, fmt.Sprint(e.Value))
	}
	return strings.Join(parts, "_")
}
