package kv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soyeahso/pocketchat/internal/config"
	"github.com/soyeahso/pocketchat/internal/logging"
)

// backends returns every locally runnable Store implementation. The
// redis backend needs a live server and is exercised only through the
// shared contract at deploy time.
func backends(t *testing.T) map[string]Store {
	t.Helper()
	log := logging.New(nil, "silent")

	sqlite, err := OpenSQLite(":memory:", log)
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })

	return map[string]Store{
		"memory": NewMemory(),
		"sqlite": sqlite,
	}
}

func TestStore_GetMissing(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(ctx, "absent")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStore_SetGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Set(ctx, "k", []byte(`{"a":1}`)))

			got, err := s.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, []byte(`{"a":1}`), got)
		})
	}
}

func TestStore_SetReplaces(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Set(ctx, "k", []byte("one")))
			require.NoError(t, s.Set(ctx, "k", []byte("two")))

			got, err := s.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, []byte("two"), got)
		})
	}
}

func TestStore_Remove(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Set(ctx, "k", []byte("v")))
			require.NoError(t, s.Remove(ctx, "k"))

			_, err := s.Get(ctx, "k")
			assert.ErrorIs(t, err, ErrNotFound)

			// Removing again is not an error.
			assert.NoError(t, s.Remove(ctx, "k"))
		})
	}
}

func TestStore_MultiRemove(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Set(ctx, "a", []byte("1")))
			require.NoError(t, s.Set(ctx, "b", []byte("2")))
			require.NoError(t, s.Set(ctx, "c", []byte("3")))

			require.NoError(t, s.MultiRemove(ctx, []string{"a", "c", "missing"}))

			_, err := s.Get(ctx, "a")
			assert.ErrorIs(t, err, ErrNotFound)
			_, err = s.Get(ctx, "b")
			assert.NoError(t, err)
		})
	}
}

func TestStore_KeysByPrefix(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Set(ctx, "chat:messages:1", []byte("x")))
			require.NoError(t, s.Set(ctx, "chat:messages:2", []byte("y")))
			require.NoError(t, s.Set(ctx, "chat:draft:1", []byte("z")))

			keys, err := s.Keys(ctx, "chat:messages:")
			require.NoError(t, err)
			assert.ElementsMatch(t, []string{"chat:messages:1", "chat:messages:2"}, keys)
		})
	}
}

func TestStore_ValueIsolation(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	in := []byte("original")
	require.NoError(t, s.Set(ctx, "k", in))
	in[0] = 'X'

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), got)

	got[0] = 'Y'
	again, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), again)
}

func TestSQLite_EscapeLike(t *testing.T) {
	ctx := context.Background()
	log := logging.New(nil, "silent")
	s, err := OpenSQLite(":memory:", log)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Set(ctx, "a%b:1", []byte("x")))
	require.NoError(t, s.Set(ctx, "axb:1", []byte("y")))

	keys, err := s.Keys(ctx, "a%b:")
	require.NoError(t, err)
	assert.Equal(t, []string{"a%b:1"}, keys)
}

func TestOpen_SelectsBackend(t *testing.T) {
	ctx := context.Background()
	log := logging.New(nil, "silent")

	mem, err := Open(ctx, config.StorageConfig{Backend: "memory"}, "", log)
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, mem)

	sq, err := Open(ctx, config.StorageConfig{Backend: "sqlite"}, ":memory:", log)
	require.NoError(t, err)
	assert.IsType(t, &SQLite{}, sq)
	sq.Close()

	_, err = Open(ctx, config.StorageConfig{Backend: "bogus"}, "", log)
	assert.Error(t, err)
}
