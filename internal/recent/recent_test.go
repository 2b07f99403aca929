package recent

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wasifsarwar/gocart/internal/catalog"
	"github.com/wasifsarwar/gocart/internal/storage"
)

func product(id string) catalog.Product {
	return catalog.Product{ID: id, Name: "Product " + id, Price: 10, Category: "Misc"}
}

func TestAddDedupesAndCaps(t *testing.T) {
	s := New(storage.NewMemoryStore().Bucket("sess"), nil)
	for i := 1; i <= 10; i++ {
		s.Add(product(fmt.Sprint(i)))
	}
	s.Add(product("5"))

	got := catalog.IDs(s.List())
	require.Equal(t, []string{"5", "10", "9", "8", "7", "6", "4", "3"}, got)
	require.Len(t, got, s.MaxItems())
}

func TestInvalidEntriesDropped(t *testing.T) {
	kv := storage.NewMemoryStore().Bucket("sess")
	require.NoError(t, kv.Set(StorageKey, []byte(`[{"product_id":"1","name":"Lamp"},{"product_id":"","name":"x"},{"product_id":"3"}]`)))
	require.Equal(t, []string{"1"}, catalog.IDs(New(kv, nil).List()))

	require.NoError(t, kv.Set(StorageKey, []byte(`"not a list"`)))
	require.Empty(t, New(kv, nil).List())
}

func TestClear(t *testing.T) {
	s := New(storage.NewMemoryStore().Bucket("sess"), nil)
	s.Add(product("1"))
	s.Clear()
	require.Empty(t, s.List())
}

func TestStorageFailureIsSilent(t *testing.T) {
	s := New(storage.NewMemoryStore(storage.WithQuota(8)).Bucket("sess"), nil)
	next := s.Add(product("1"))
	require.Len(t, next, 1)
	require.Empty(t, s.List())
}
