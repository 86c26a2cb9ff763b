package state

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readkeeper/read/internal/entities"
)

func TestStore_SubscribersSeeDispatchOrder(t *testing.T) {
	store, cleanup := setupStore(t, false)
	defer cleanup()

	var seen []int
	cancel := store.Subscribe(func(s State) {
		seen = append(seen, len(s.Books))
	})

	for i := 0; i < 3; i++ {
		store.Dispatch(AddBook{Book: entities.NewBook(fmt.Sprintf("Book %d", i))})
	}
	assert.Equal(t, []int{1, 2, 3}, seen)

	cancel()
	store.Dispatch(AddBook{Book: entities.NewBook("After Cancel")})
	assert.Len(t, seen, 3)
}

func TestStore_ConcurrentDispatchesSerialize(t *testing.T) {
	store, cleanup := setupStore(t, false)
	defer cleanup()

	const writers = 8
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			store.Dispatch(AddBook{Book: entities.NewBook(fmt.Sprintf("Book %d", n))})
		}(i)
	}
	wg.Wait()

	snapshot := store.State()
	require.Len(t, snapshot.Books, writers)
	assert.Empty(t, snapshot.LastError)
}

func TestStore_StateIsSnapshot(t *testing.T) {
	store, cleanup := setupStore(t, false)
	defer cleanup()

	store.Dispatch(AddBook{Book: entities.NewBook("Only Book")})
	before := store.State()
	store.Dispatch(AddBook{Book: entities.NewBook("Second Book")})

	// the earlier snapshot is unaffected by later dispatches
	assert.Len(t, before.Books, 1)
	assert.Len(t, store.State().Books, 2)
}
