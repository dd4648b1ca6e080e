package schema

import "errors"

// Declaration errors. They are programmer errors and stop compilation.
var (
	ErrMissingCollection   = errors.New("collection name is required")
	ErrNoIdentity          = errors.New("identity field must be present")
	ErrMultipleIdentity    = errors.New("multiple identity fields not allowed")
	ErrConflictingIdentity = errors.New("field cannot be both id_field and native_id_field")
	ErrInvalidFilter       = errors.New("partial filter expression is not valid extended JSON")
	ErrCollationStrength   = errors.New("collation strength out of bounds")
	ErrInvalidField        = errors.New("invalid field declaration")
	ErrUnknownTag          = errors.New("unknown db tag item")
	ErrExpirationRange     = errors.New("expiration out of range")
)

// Key access errors, raised while reading an identity value from a record.
var (
	ErrMissingKey = errors.New("identity value is not set")
	ErrNoAccessor = errors.New("identity has no struct accessor")
)
