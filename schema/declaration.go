package schema

// Declaration is the structural description of one record type. It is produced
// by FromType from struct tags, read from a declaration file, or built by hand.
// Name is the collection; ExpirationSecs, when non-zero, is applied to every
// index of the record type.
type Declaration struct {
	Name           string             `yaml:"name" json:"name"`
	ExpirationSecs uint64             `yaml:"expiration_secs,omitempty" json:"expiration_secs,omitempty"`
	Fields         []FieldDeclaration `yaml:"fields" json:"fields"`
}

// FieldDeclaration holds the raw annotations of one field. Name is the
// database-level field name.
type FieldDeclaration struct {
	Name          string    `yaml:"name" json:"name"`
	IDField       bool      `yaml:"id_field,omitempty" json:"id_field,omitempty"`
	NativeIDField bool      `yaml:"native_id_field,omitempty" json:"native_id_field,omitempty"`
	Indexing      *Indexing `yaml:"indexing,omitempty" json:"indexing,omitempty"`

	// structIndex locates the field in its Go struct, when there is one.
	structIndex []int
}

type TwoD string

const (
	TwoDSpherical TwoD = "spherical"
	TwoDCartesian TwoD = "cartesian"
)

// Indexing is the index annotation bag of a field. Zero values mean "not
// declared". Sub indexes the nested path field.sub, Index is the direction or
// priority of a plain index (default 1), fields sharing a Link are merged into
// one compound index positioned by Order, and PFE is a partial filter
// expression in MongoDB extended JSON.
type Indexing struct {
	Sub           string   `yaml:"sub,omitempty" json:"sub,omitempty"`
	Index         *int32   `yaml:"index,omitempty" json:"index,omitempty"`
	Link          string   `yaml:"link,omitempty" json:"link,omitempty"`
	Order         uint8    `yaml:"order,omitempty" json:"order,omitempty"`
	Unique        bool     `yaml:"unique,omitempty" json:"unique,omitempty"`
	TextWeight    *uint32  `yaml:"text_weight,omitempty" json:"text_weight,omitempty"`
	TwoD          TwoD     `yaml:"two_d,omitempty" json:"two_d,omitempty"`
	TwoDBits      *uint32  `yaml:"two_d_bits,omitempty" json:"two_d_bits,omitempty"`
	TwoDMin       *float64 `yaml:"two_d_min,omitempty" json:"two_d_min,omitempty"`
	TwoDMax       *float64 `yaml:"two_d_max,omitempty" json:"two_d_max,omitempty"`
	ICaseLocale   string   `yaml:"icase_locale,omitempty" json:"icase_locale,omitempty"`
	ICaseStrength *int     `yaml:"icase_strength,omitempty" json:"icase_strength,omitempty"`
	Name          string   `yaml:"name,omitempty" json:"name,omitempty"`
	LangField     bool     `yaml:"lang_field,omitempty" json:"lang_field,omitempty"`
	PFE           string   `yaml:"pfe,omitempty" json:"pfe,omitempty"`
}
