package memory_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-arena/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
	"github.com/rocketscienceinc/tictactoe-arena/internal/repository"
	"github.com/rocketscienceinc/tictactoe-arena/internal/repository/memory"
)

func newQueue() (repository.WaitingRepository, repository.GameRepository, *clockwork.FakeClock) {
	games := memory.NewGameRepository()
	clock := clockwork.NewFakeClockAt(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))

	return memory.NewWaitingRepository(games, clock), games, clock
}

func TestWaitingRepository_Enqueue(t *testing.T) {
	ctx := context.Background()

	t.Run("Entries are stamped with sequence and time", func(t *testing.T) {
		queue, _, clock := newQueue()

		first, err := queue.Enqueue(ctx, "u1", "chatA")
		require.NoError(t, err)

		clock.Advance(time.Second)

		second, err := queue.Enqueue(ctx, "u2", "chatB")
		require.NoError(t, err)

		assert.Equal(t, "chatA", first.ArenaID)
		assert.Less(t, first.Seq, second.Seq)
		assert.Equal(t, time.Second, second.QueuedAt.Sub(first.QueuedAt))
	})

	t.Run("Same user twice fails with ErrAlreadyQueued", func(t *testing.T) {
		queue, _, _ := newQueue()

		_, err := queue.Enqueue(ctx, "u1", "chatA")
		require.NoError(t, err)

		_, err = queue.Enqueue(ctx, "u1", "chatB")
		require.ErrorIs(t, err, apperror.ErrAlreadyQueued)
	})

	t.Run("Player in a session fails with ErrAlreadyInSession", func(t *testing.T) {
		queue, games, _ := newQueue()

		_, err := games.Create(ctx, "chatA", entity.NewBoard(), entity.PlayerX, "u1", "u2")
		require.NoError(t, err)

		_, err = queue.Enqueue(ctx, "u2", "chatB")
		require.ErrorIs(t, err, apperror.ErrAlreadyInSession)
	})
}

func TestWaitingRepository_TryPairOldest(t *testing.T) {
	ctx := context.Background()

	t.Run("Fewer than two waiting yields no pairing", func(t *testing.T) {
		queue, _, _ := newQueue()

		pairing, err := queue.TryPairOldest(ctx)
		require.NoError(t, err)
		assert.Nil(t, pairing)

		_, err = queue.Enqueue(ctx, "u1", "chatA")
		require.NoError(t, err)

		pairing, err = queue.TryPairOldest(ctx)
		require.NoError(t, err)
		assert.Nil(t, pairing)
	})

	t.Run("Oldest two are paired in arrival order", func(t *testing.T) {
		queue, _, _ := newQueue()

		for i := range 3 {
			_, err := queue.Enqueue(ctx, fmt.Sprintf("u%d", i+1), "chatA")
			require.NoError(t, err)
		}

		pairing, err := queue.TryPairOldest(ctx)
		require.NoError(t, err)
		require.NotNil(t, pairing)
		assert.Equal(t, "u1", pairing.X.UserID)
		assert.Equal(t, "u2", pairing.O.UserID)

		pairing, err = queue.TryPairOldest(ctx)
		require.NoError(t, err)
		assert.Nil(t, pairing)
	})

	t.Run("Concurrent pairing never hands out a user twice", func(t *testing.T) {
		// Given: an even number of waiting users
		queue, _, _ := newQueue()
		const users = 100

		for i := range users {
			_, err := queue.Enqueue(ctx, fmt.Sprintf("u%d", i), "chatA")
			require.NoError(t, err)
		}

		// When: many callers pair at once
		var (
			wg   sync.WaitGroup
			mu   sync.Mutex
			seen = make(map[string]int)
			got  int
		)

		for range users {
			wg.Add(1)
			go func() {
				defer wg.Done()

				pairing, err := queue.TryPairOldest(ctx)
				assert.NoError(t, err)
				if pairing == nil {
					return
				}

				mu.Lock()
				defer mu.Unlock()
				got++
				for _, entry := range pairing.Entries() {
					seen[entry.UserID]++
				}
			}()
		}

		wg.Wait()

		// Then: every user landed in exactly one pairing
		assert.Equal(t, users/2, got)
		assert.Len(t, seen, users)
		for user, count := range seen {
			assert.Equal(t, 1, count, user)
		}
	})
}

func TestWaitingRepository_Restore(t *testing.T) {
	ctx := context.Background()

	// Given: u1 and u2 were paired while u3 kept waiting
	queue, _, _ := newQueue()
	for _, user := range []string{"u1", "u2", "u3"} {
		_, err := queue.Enqueue(ctx, user, "chatA")
		require.NoError(t, err)
	}

	pairing, err := queue.TryPairOldest(ctx)
	require.NoError(t, err)
	require.NotNil(t, pairing)

	// When: the pairing is put back
	require.NoError(t, queue.Restore(ctx, pairing))
	require.NoError(t, queue.Restore(ctx, pairing))

	// Then: u1 and u2 are back at the head, once each
	pairing, err = queue.TryPairOldest(ctx)
	require.NoError(t, err)
	require.NotNil(t, pairing)
	assert.Equal(t, "u1", pairing.X.UserID)
	assert.Equal(t, "u2", pairing.O.UserID)

	pairing, err = queue.TryPairOldest(ctx)
	require.NoError(t, err)
	assert.Nil(t, pairing)
}

func TestWaitingRepository_Dequeue(t *testing.T) {
	ctx := context.Background()

	t.Run("Dequeue removes only that user", func(t *testing.T) {
		queue, _, _ := newQueue()
		for _, user := range []string{"u1", "u2", "u3"} {
			_, err := queue.Enqueue(ctx, user, "chatA")
			require.NoError(t, err)
		}

		require.NoError(t, queue.Dequeue(ctx, "u1"))
		require.NoError(t, queue.Dequeue(ctx, "unknown"))

		pairing, err := queue.TryPairOldest(ctx)
		require.NoError(t, err)
		require.NotNil(t, pairing)
		assert.Equal(t, "u2", pairing.X.UserID)
		assert.Equal(t, "u3", pairing.O.UserID)
	})

	t.Run("DequeueArena removes entries from that arena", func(t *testing.T) {
		queue, _, _ := newQueue()
		enqueue := map[string]string{"u1": "chatA", "u2": "chatB", "u3": "chatA"}
		for _, user := range []string{"u1", "u2", "u3"} {
			_, err := queue.Enqueue(ctx, user, enqueue[user])
			require.NoError(t, err)
		}

		removed, err := queue.DequeueArena(ctx, "chatA")
		require.NoError(t, err)
		assert.Equal(t, 2, removed)

		_, err = queue.Enqueue(ctx, "u1", "chatC")
		require.NoError(t, err)

		pairing, err := queue.TryPairOldest(ctx)
		require.NoError(t, err)
		require.NotNil(t, pairing)
		assert.Equal(t, "u2", pairing.X.UserID)
		assert.Equal(t, "u1", pairing.O.UserID)
	})
}
