package registry

import (
	"sort"
	"sync"
	"testing"

	"bitbucket.org/ltman/goldleaf/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type user struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" db:"native_id"`
	Username string             `bson:"username" db:"index=1,unique"`
}

type session struct {
	Token string `bson:"token" db:"id"`
}

type broken struct {
	Name string `bson:"name" db:"index=1"`
}

func TestRegisterAndLookup(t *testing.T) {
	r := New()

	compiled, err := Register[user](r, "users")
	require.NoError(t, err)
	assert.Equal(t, "users", compiled.Identity.Collection)

	got, err := Lookup[user](r)
	require.NoError(t, err)
	assert.Same(t, compiled, got)

	got, err = Lookup[*user](r)
	require.NoError(t, err)
	assert.Same(t, compiled, got)

	_, err = Lookup[session](r)
	assert.ErrorIs(t, err, ErrNotRegistered)
}

func TestRegister_Errors(t *testing.T) {
	r := New()

	_, err := Register[broken](r, "broken")
	assert.ErrorIs(t, err, schema.ErrNoIdentity)

	MustRegister[user](r, "users")
	_, err = Register[user](r, "users")
	assert.ErrorIs(t, err, ErrAlreadyRegistered)

	assert.Panics(t, func() { MustRegister[broken](r, "broken") })
}

func TestRegister_Expiration(t *testing.T) {
	r := New()

	compiled := MustRegister[session](r, "sessions", WithExpiration(120))

	assert.Equal(t, uint64(120), compiled.Identity.ExpirationSecs)
	require.Len(t, compiled.Indexes, 1)
	assert.Equal(t, int32(120), *compiled.Indexes[0].ExpireAfterSeconds)
	assert.True(t, compiled.Indexes[0].Unique)
}

func TestRegistry_Concurrent(t *testing.T) {
	r := New()
	MustRegister[user](r, "users")
	MustRegister[session](r, "sessions")

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := Lookup[user](r)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	collections := r.Collections()
	sort.Strings(collections)
	assert.Equal(t, []string{"sessions", "users"}, collections)
}
