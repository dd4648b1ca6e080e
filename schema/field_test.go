package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func ptr[T any](v T) *T { return &v }

func TestParseField_Defaults(t *testing.T) {
	spec, err := ParseField("username", Indexing{Unique: true})
	require.NoError(t, err)

	assert.Equal(t, int32(1), spec.Slot)
	assert.Equal(t, KindNumeric, spec.Kind())
	assert.Equal(t, "username", spec.Path())
	assert.True(t, spec.Unique)
	assert.Nil(t, spec.Geo)
	assert.Nil(t, spec.CaseInsensitivity)
	assert.Nil(t, spec.Filter)
}

func TestParseField_SubPath(t *testing.T) {
	spec, err := ParseField("address", Indexing{Sub: "zip", Index: ptr(int32(-1))})
	require.NoError(t, err)

	assert.Equal(t, "address.zip", spec.Path())
	assert.Equal(t, int32(-1), spec.Slot)
}

func TestParseField_Geo(t *testing.T) {
	t.Run("spherical defaults", func(t *testing.T) {
		spec, err := ParseField("location", Indexing{TwoD: TwoDSpherical})
		require.NoError(t, err)
		require.NotNil(t, spec.Geo)
		assert.Equal(t, Geo{Kind: GeoSpherical, Bits: 26, Min: -180, Max: 180}, *spec.Geo)
	})

	t.Run("spherical overrides", func(t *testing.T) {
		spec, err := ParseField("location", Indexing{
			TwoD:     TwoDSpherical,
			TwoDBits: ptr(uint32(10)),
			TwoDMin:  ptr(-90.0),
			TwoDMax:  ptr(90.0),
		})
		require.NoError(t, err)
		assert.Equal(t, Geo{Kind: GeoSpherical, Bits: 10, Min: -90, Max: 90}, *spec.Geo)
	})

	t.Run("cartesian carries no parameters", func(t *testing.T) {
		spec, err := ParseField("point", Indexing{TwoD: TwoDCartesian, TwoDBits: ptr(uint32(10))})
		require.NoError(t, err)
		assert.Equal(t, Geo{Kind: GeoCartesian}, *spec.Geo)
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := ParseField("point", Indexing{TwoD: "flat"})
		assert.ErrorIs(t, err, ErrInvalidField)
	})

	t.Run("bits out of range", func(t *testing.T) {
		_, err := ParseField("point", Indexing{TwoD: TwoDSpherical, TwoDBits: ptr(uint32(33))})
		assert.ErrorIs(t, err, ErrInvalidField)
	})
}

func TestParseField_KindPrecedence(t *testing.T) {
	spec, err := ParseField("body", Indexing{Index: ptr(int32(-1)), TextWeight: ptr(uint32(3))})
	require.NoError(t, err)
	assert.Equal(t, KindText, spec.Kind())

	spec, err = ParseField("body", Indexing{TextWeight: ptr(uint32(3)), TwoD: TwoDCartesian})
	require.NoError(t, err)
	assert.Equal(t, KindGeo, spec.Kind())
}

func TestParseField_TextWeightRange(t *testing.T) {
	_, err := ParseField("body", Indexing{TextWeight: ptr(uint32(0))})
	assert.ErrorIs(t, err, ErrInvalidField)

	_, err = ParseField("body", Indexing{TextWeight: ptr(uint32(100000))})
	assert.ErrorIs(t, err, ErrInvalidField)
}

func TestParseField_CaseInsensitivity(t *testing.T) {
	tests := []struct {
		name    string
		ix      Indexing
		want    *CaseInsensitivity
		wantErr error
	}{
		{
			name: "locale and strength",
			ix:   Indexing{ICaseLocale: "fr", ICaseStrength: ptr(2)},
			want: &CaseInsensitivity{Locale: "fr", Strength: CollationSecondary},
		},
		{
			name: "locale alone is ignored",
			ix:   Indexing{ICaseLocale: "fr"},
		},
		{
			name: "strength alone is ignored",
			ix:   Indexing{ICaseStrength: ptr(5)},
		},
		{
			name:    "strength six",
			ix:      Indexing{ICaseLocale: "fr", ICaseStrength: ptr(6)},
			wantErr: ErrCollationStrength,
		},
		{
			name:    "strength zero",
			ix:      Indexing{ICaseLocale: "fr", ICaseStrength: ptr(0)},
			wantErr: ErrCollationStrength,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := ParseField("name", tt.ix)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, spec.CaseInsensitivity)
		})
	}
}

func TestParseField_PartialFilter(t *testing.T) {
	spec, err := ParseField("age", Indexing{PFE: `{"age": {"$gt": 17}}`})
	require.NoError(t, err)
	require.Len(t, spec.Filter, 1)
	assert.Equal(t, "age", spec.Filter[0].Key)

	spec, err = ParseField("age", Indexing{PFE: `{"active": true}`})
	require.NoError(t, err)
	assert.Equal(t, bson.D{{Key: "active", Value: true}}, spec.Filter)

	_, err = ParseField("age", Indexing{PFE: `{"age": {"$gt": }`})
	assert.ErrorIs(t, err, ErrInvalidFilter)
}

func TestParseCollationStrength(t *testing.T) {
	want := []CollationStrength{CollationPrimary, CollationSecondary, CollationTertiary, CollationQuaternary, CollationIdentical}
	for level, s := range want {
		got, err := ParseCollationStrength(level + 1)
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	_, err := ParseCollationStrength(-1)
	assert.ErrorIs(t, err, ErrCollationStrength)
	assert.Equal(t, "tertiary", CollationTertiary.String())
}
