package session_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/skirmish/internal/game/session"
)

func TestMemoryStore(t *testing.T) {
	store := session.NewMemoryStore()

	s := &session.Session{ID: "match-1"}
	require.NoError(t, store.Create(s))
	assert.Equal(t, 1, store.Count())

	got, err := store.Get("match-1")
	require.NoError(t, err)
	assert.Same(t, s, got)

	err = store.Create(&session.Session{ID: "match-1"})
	assert.ErrorIs(t, err, session.ErrSessionExists)

	_, err = store.Get("match-2")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)

	store.Delete("match-1")
	store.Delete("match-1") // deleting twice is a no-op
	assert.Equal(t, 0, store.Count())
	_, err = store.Get("match-1")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestMemoryStore_Range(t *testing.T) {
	store := session.NewMemoryStore()
	for i := 0; i < 5; i++ {
		require.NoError(t, store.Create(&session.Session{ID: fmt.Sprintf("match-%d", i)}))
	}

	seen := make(map[string]bool)
	store.Range(func(s *session.Session) bool {
		seen[s.ID] = true
		return true
	})
	assert.Len(t, seen, 5)

	// Early termination.
	visited := 0
	store.Range(func(s *session.Session) bool {
		visited++
		return false
	})
	assert.Equal(t, 1, visited)
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	store := session.NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("match-%d", n)
			_ = store.Create(&session.Session{ID: id})
			_, _ = store.Get(id)
			store.Range(func(s *session.Session) bool { return true })
			if n%2 == 0 {
				store.Delete(id)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 10, store.Count())
}
