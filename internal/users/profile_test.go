package users

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wasifsarwar/gocart/internal/storage"
)

func TestProfileSaveLoadClear(t *testing.T) {
	p := NewProfile(storage.NewMemoryStore().Bucket("sess"), nil)
	_, ok := p.Load()
	require.False(t, ok)

	p.Save(User{ID: "u1", FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"})
	u, ok := p.Load()
	require.True(t, ok)
	require.Equal(t, "Ada Lovelace", u.FullName())

	p.Clear()
	_, ok = p.Load()
	require.False(t, ok)
}

func TestProfileCorruptOrMissingStorageReadsSignedOut(t *testing.T) {
	kv := storage.NewMemoryStore().Bucket("sess")
	require.NoError(t, kv.Set(ProfileKey, []byte(`not json`)))
	_, ok := NewProfile(kv, nil).Load()
	require.False(t, ok)

	require.NoError(t, kv.Set(ProfileKey, []byte(`{"first_name":"NoID"}`)))
	_, ok = NewProfile(kv, nil).Load()
	require.False(t, ok)

	gone := NewProfile(storage.Unavailable(), nil)
	gone.Save(User{ID: "u1"})
	_, ok = gone.Load()
	require.False(t, ok)
	gone.Clear()
}
