package schema

import (
	"fmt"
	"reflect"

	"go.mongodb.org/mongo-driver/bson"
)

// NativeKeyField is the database name of a store-generated key.
const NativeKeyField = "_id"

// Identity is the resolved collection identity of a record type.
type Identity struct {
	Collection     string
	KeyField       string
	Native         bool
	ExpirationSecs uint64

	structIndex []int
}

// Filter selects the single document holding key.
func (id Identity) Filter(key any) bson.D {
	return bson.D{{Key: id.KeyField, Value: key}}
}

// KeyValue reads the identity value out of a record. Native keys are unwrapped
// and must be set; application keys are returned as they are.
func (id Identity) KeyValue(record any) (any, error) {
	if id.structIndex == nil {
		return nil, fmt.Errorf("%w: collection %q", ErrNoAccessor, id.Collection)
	}

	v := reflect.ValueOf(record)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, fmt.Errorf("%w: record is nil", ErrMissingKey)
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s is not a struct", ErrNoAccessor, v.Type())
	}

	key, err := v.FieldByIndexErr(id.structIndex)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoAccessor, err)
	}
	if !id.Native {
		return key.Interface(), nil
	}

	for key.Kind() == reflect.Pointer || key.Kind() == reflect.Interface {
		if key.IsNil() {
			return nil, fmt.Errorf("%w: %s", ErrMissingKey, id.KeyField)
		}
		key = key.Elem()
	}
	if key.IsZero() {
		return nil, fmt.Errorf("%w: %s", ErrMissingKey, id.KeyField)
	}
	return key.Interface(), nil
}

// resolveIdentity finds the single identity field. An application-assigned
// identity is upgraded to a unique index in place so collation sees it.
func resolveIdentity(decl *Declaration) (Identity, error) {
	if decl.Name == "" {
		return Identity{}, ErrMissingCollection
	}

	id := Identity{Collection: decl.Name, ExpirationSecs: decl.ExpirationSecs}
	found := -1
	for i := range decl.Fields {
		f := &decl.Fields[i]
		if !f.IDField && !f.NativeIDField {
			continue
		}
		if f.IDField && f.NativeIDField {
			return Identity{}, fmt.Errorf("%w: field %q", ErrConflictingIdentity, f.Name)
		}
		if found >= 0 {
			return Identity{}, fmt.Errorf("%w: %q and %q", ErrMultipleIdentity, decl.Fields[found].Name, f.Name)
		}
		found = i

		id.Native = f.NativeIDField
		id.structIndex = f.structIndex
		if id.Native {
			id.KeyField = NativeKeyField
			continue
		}
		id.KeyField = f.Name

		if f.Indexing == nil {
			f.Indexing = &Indexing{}
		} else {
			upgraded := *f.Indexing
			f.Indexing = &upgraded
		}
		f.Indexing.Unique = true
	}
	if found < 0 {
		return Identity{}, fmt.Errorf("%w: collection %q", ErrNoIdentity, decl.Name)
	}
	return id, nil
}
