package schema

import (
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"go.uber.org/multierr"
)

const tagKey = "db"

// FromType reads the db struct tags of t into a Declaration for collection.
//
//	type User struct {
//		ID       primitive.ObjectID `bson:"_id,omitempty" db:"native_id"`
//		Username string             `bson:"username" db:"index=1,unique"`
//		Country  string             `bson:"country" db:"link=place,order=0"`
//		City     string             `bson:"city" db:"link=place,order=1"`
//		Age      int                `bson:"age" db:"index=-1,pfe={\"age\": {\"$gt\": 17}}"`
//	}
//
// pfe takes the remainder of the tag and must come last. Every malformed
// field is reported, not only the first.
func FromType(t reflect.Type, collection string, expirationSecs uint64) (Declaration, error) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return Declaration{}, fmt.Errorf("%w: type %s is not a struct", ErrInvalidField, t)
	}

	decl := Declaration{Name: collection, ExpirationSecs: expirationSecs}
	if err := collectFields(t, nil, &decl); err != nil {
		return Declaration{}, err
	}
	return decl, nil
}

// collectFields appends the tagged fields of t, descending into structs the
// driver inlines into the parent document.
func collectFields(t reflect.Type, parent []int, decl *Declaration) error {
	var errs error
	for i := range t.NumField() {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		name, inline, ok := bsonName(sf)
		if !ok {
			continue
		}
		index := append(slices.Clone(parent), sf.Index...)
		tag, tagged := sf.Tag.Lookup(tagKey)

		if inline {
			if tagged && tag != "-" {
				errs = multierr.Append(errs, fmt.Errorf("%s.%s: %w: db tag on an inlined field", t.Name(), sf.Name, ErrInvalidField))
				continue
			}
			if sf.Type.Kind() == reflect.Struct {
				errs = multierr.Append(errs, collectFields(sf.Type, index, decl))
			}
			continue
		}
		if !tagged || tag == "-" {
			continue
		}

		fd := FieldDeclaration{Name: name, structIndex: index}
		if err := applyTag(&fd, tag); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s.%s: %w", t.Name(), sf.Name, err))
			continue
		}
		if fd.NativeIDField && fd.Name != NativeKeyField {
			errs = multierr.Append(errs, fmt.Errorf("%s.%s: %w: native_id field is stored as %q, not %q", t.Name(), sf.Name, ErrInvalidField, fd.Name, NativeKeyField))
			continue
		}
		decl.Fields = append(decl.Fields, fd)
	}
	return errs
}

// bsonName is the document key the driver stores the field under, and
// whether the field is inlined into its parent instead.
func bsonName(sf reflect.StructField) (name string, inline, ok bool) {
	tag := sf.Tag.Get("bson")
	if tag == "-" {
		return "", false, false
	}
	name, opts, _ := strings.Cut(tag, ",")
	for _, opt := range strings.Split(opts, ",") {
		if opt == "inline" {
			inline = true
		}
	}
	if name == "" {
		name = strings.ToLower(sf.Name)
	}
	return name, inline, true
}

func applyTag(fd *FieldDeclaration, tag string) error {
	rest := tag
	for rest != "" {
		var item string
		if strings.HasPrefix(rest, "pfe=") {
			item, rest = rest, ""
		} else {
			item, rest, _ = strings.Cut(rest, ",")
		}
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}

		key, value, hasValue := strings.Cut(item, "=")
		switch key {
		case "id":
			fd.IDField = true
			continue
		case "native_id":
			fd.NativeIDField = true
			continue
		}

		if fd.Indexing == nil {
			fd.Indexing = &Indexing{}
		}
		if err := applyIndexingItem(fd.Indexing, key, value, hasValue); err != nil {
			return err
		}
	}
	return nil
}

func applyIndexingItem(ix *Indexing, key, value string, hasValue bool) error {
	flag := func(dst *bool) error {
		if hasValue {
			return fmt.Errorf("%w: %s takes no value", ErrInvalidField, key)
		}
		*dst = true
		return nil
	}
	str := func(dst *string) error {
		if !hasValue || value == "" {
			return fmt.Errorf("%w: %s needs a value", ErrInvalidField, key)
		}
		*dst = value
		return nil
	}

	switch key {
	case "unique":
		return flag(&ix.Unique)
	case "lang_field":
		return flag(&ix.LangField)
	case "sub":
		return str(&ix.Sub)
	case "link":
		return str(&ix.Link)
	case "name":
		return str(&ix.Name)
	case "icase_locale":
		return str(&ix.ICaseLocale)
	case "pfe":
		return str(&ix.PFE)
	case "two_d":
		var kind string
		if err := str(&kind); err != nil {
			return err
		}
		ix.TwoD = TwoD(kind)
		return nil
	case "index":
		n, err := strconv.ParseInt(value, 10, 32)
		if err != nil {
			return fmt.Errorf("%w: index: %v", ErrInvalidField, err)
		}
		slot := int32(n)
		ix.Index = &slot
	case "order":
		n, err := strconv.ParseUint(value, 10, 8)
		if err != nil {
			return fmt.Errorf("%w: order: %v", ErrInvalidField, err)
		}
		ix.Order = uint8(n)
	case "text_weight":
		n, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return fmt.Errorf("%w: text_weight: %v", ErrInvalidField, err)
		}
		w := uint32(n)
		ix.TextWeight = &w
	case "two_d_bits":
		n, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return fmt.Errorf("%w: two_d_bits: %v", ErrInvalidField, err)
		}
		bits := uint32(n)
		ix.TwoDBits = &bits
	case "two_d_min", "two_d_max":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidField, key, err)
		}
		if key == "two_d_min" {
			ix.TwoDMin = &f
		} else {
			ix.TwoDMax = &f
		}
	case "icase_strength":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: icase_strength: %v", ErrInvalidField, err)
		}
		ix.ICaseStrength = &n
	default:
		return fmt.Errorf("%w: %q", ErrUnknownTag, key)
	}
	return nil
}
