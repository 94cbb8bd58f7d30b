package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/IndraniBorra/InvoiceManagementStore/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryIdempotencyStore_Reserve(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	ctx := context.Background()

	t.Run("reserves new key", func(t *testing.T) {
		ok, err := store.Reserve(ctx, "key-1", time.Hour)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("rejects key already reserved", func(t *testing.T) {
		ok, err := store.Reserve(ctx, "key-2", time.Hour)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = store.Reserve(ctx, "key-2", time.Hour)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("allows reservation after expiration", func(t *testing.T) {
		ok, err := store.Reserve(ctx, "key-3", 10*time.Millisecond)
		require.NoError(t, err)
		assert.True(t, ok)

		time.Sleep(20 * time.Millisecond)

		ok, err = store.Reserve(ctx, "key-3", time.Hour)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("only one concurrent caller wins", func(t *testing.T) {
		var wins atomic.Int32
		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if ok, _ := store.Reserve(ctx, "contended", time.Hour); ok {
					wins.Add(1)
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, int32(1), wins.Load())
	})
}

func TestInMemoryIdempotencyStore_CompleteAndLookup(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	ctx := context.Background()

	resp, err := store.Lookup(ctx, "unknown")
	require.NoError(t, err)
	assert.Nil(t, resp)

	ok, err := store.Reserve(ctx, "create-customer", time.Hour)
	require.NoError(t, err)
	require.True(t, ok)

	resp, err = store.Lookup(ctx, "create-customer")
	require.NoError(t, err)
	assert.Nil(t, resp, "pending key has no response yet")

	body := []byte(`{"success":true}`)
	require.NoError(t, store.Complete(ctx, "create-customer", shared.StoredResponse{
		StatusCode:  201,
		ContentType: "application/json",
		Body:        body,
	}, time.Hour))
	body[0] = 'X'

	resp, err = store.Lookup(ctx, "create-customer")
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 201, resp.StatusCode)
	assert.Equal(t, "application/json", resp.ContentType)
	assert.Equal(t, `{"success":true}`, string(resp.Body))

	ok, err = store.Reserve(ctx, "create-customer", time.Hour)
	require.NoError(t, err)
	assert.False(t, ok, "completed key stays claimed")
}

func TestInMemoryIdempotencyStore_Release(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	ctx := context.Background()

	_, err := store.Reserve(ctx, "key", time.Hour)
	require.NoError(t, err)
	require.NoError(t, store.Release(ctx, "key"))

	ok, err := store.Reserve(ctx, "key", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)

	assert.NoError(t, store.Release(ctx, "never-seen"))
}

func TestInMemoryIdempotencyStore_Cleanup(t *testing.T) {
	store := newInMemoryIdempotencyStore(5 * time.Millisecond)
	defer store.Close()

	ctx := context.Background()
	_, err := store.Reserve(ctx, "short", time.Millisecond)
	require.NoError(t, err)
	_, err = store.Reserve(ctx, "long", time.Hour)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		return store.Size() == 1
	}, time.Second, 5*time.Millisecond)
}

func TestInMemoryIdempotencyStore_Close(t *testing.T) {
	store := NewInMemoryIdempotencyStore()

	assert.NoError(t, store.Close())
	assert.NoError(t, store.Close())
}
