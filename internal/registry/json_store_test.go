package registry

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/citepage/internal/foundation/errors"
)

func hashes(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%012x", i)
	}
	return out
}

func TestJSONStore_LoadMissingIsEmpty(t *testing.T) {
	store := NewJSONStore(filepath.Join(t.TempDir(), "data", "used.json"), 0)
	set := store.Load(context.Background())
	require.NotNil(t, set)
	require.Zero(t, set.Len())
}

func TestJSONStore_LoadCorruptIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "used.json")
	require.NoError(t, os.WriteFile(path, []byte("[\"abc\", 12"), 0o600))

	set := NewJSONStore(path, 0).Load(context.Background())
	require.Zero(t, set.Len())
}

func TestJSONStore_SaveCreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "data", "used.json")
	store := NewJSONStore(path, 0)

	require.NoError(t, store.Save(context.Background(), NewSet("aaa", "bbb")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "[\n  \"aaa\",\n  \"bbb\"\n]\n", string(data))
	require.NoFileExists(t, path+".tmp")
}

func TestJSONStore_RoundTripIsIdempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "used.json")
	store := NewJSONStore(path, 0)
	require.NoError(t, store.Save(ctx, NewSet(hashes(250)...)))

	before, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, store.Save(ctx, store.Load(ctx)))

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, string(before), string(after))
	require.Equal(t, hashes(250), store.Load(ctx).Hashes())
}

func TestJSONStore_SaveKeepsNewestEntries(t *testing.T) {
	ctx := context.Background()
	store := NewJSONStore(filepath.Join(t.TempDir(), "used.json"), 0)
	all := hashes(DefaultMaxEntries + 5)

	require.NoError(t, store.Save(ctx, NewSet(all...)))

	loaded := store.Load(ctx)
	require.Equal(t, DefaultMaxEntries, loaded.Len())
	require.Equal(t, all[5:], loaded.Hashes())
	require.False(t, loaded.Has(all[0]))
	require.True(t, loaded.Has(all[len(all)-1]))
}

func TestJSONStore_SaveOverwrites(t *testing.T) {
	ctx := context.Background()
	store := NewJSONStore(filepath.Join(t.TempDir(), "used.json"), 0)

	require.NoError(t, store.Save(ctx, NewSet("old-1", "old-2")))
	require.NoError(t, store.Save(ctx, NewSet("new-1")))

	require.Equal(t, []string{"new-1"}, store.Load(ctx).Hashes())
}

func TestJSONStore_SaveFailureIsRegistryError(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	err := NewJSONStore(filepath.Join(blocker, "used.json"), 0).Save(context.Background(), NewSet("a"))

	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryRegistry))
}

func TestJSONStore_LoadDeduplicates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "used.json")
	require.NoError(t, os.WriteFile(path, []byte(`["a","b","a","c"]`), 0o600))

	require.Equal(t, []string{"a", "b", "c"}, NewJSONStore(path, 0).Load(context.Background()).Hashes())
}
