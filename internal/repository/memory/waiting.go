package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/rocketscienceinc/tictactoe-arena/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
	"github.com/rocketscienceinc/tictactoe-arena/internal/repository"
)

type waitingQueue struct {
	mu      sync.Mutex
	entries []entity.WaitingEntry
	seq     int64

	sessions repository.SessionLookup
	clock    clockwork.Clock
}

func NewWaitingRepository(sessions repository.SessionLookup, clock clockwork.Clock) repository.WaitingRepository {
	return &waitingQueue{
		sessions: sessions,
		clock:    clock,
	}
}

func (that *waitingQueue) Enqueue(ctx context.Context, userID, arenaID string) (*entity.WaitingEntry, error) {
	if err := repository.CheckNotPlaying(ctx, that.sessions, userID); err != nil {
		return nil, err
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	if that.indexOf(userID) >= 0 {
		return nil, fmt.Errorf("%w: user %s", apperror.ErrAlreadyQueued, userID)
	}

	that.seq++
	entry := entity.WaitingEntry{
		UserID:   userID,
		ArenaID:  arenaID,
		Seq:      that.seq,
		QueuedAt: that.clock.Now(),
	}
	that.entries = append(that.entries, entry)

	return &entry, nil
}

func (that *waitingQueue) TryPairOldest(_ context.Context) (*entity.Pairing, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if len(that.entries) < 2 {
		return nil, nil //nolint: nilnil // fewer than two waiting is not an error
	}

	pairing := &entity.Pairing{X: that.entries[0], O: that.entries[1]}
	that.entries = slices.Delete(that.entries, 0, 2)

	return pairing, nil
}

func (that *waitingQueue) Restore(_ context.Context, pairing *entity.Pairing) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	for _, entry := range pairing.Entries() {
		if that.indexOf(entry.UserID) >= 0 {
			continue
		}

		that.entries = append(that.entries, entry)
	}

	slices.SortFunc(that.entries, func(a, b entity.WaitingEntry) int {
		return cmp.Compare(a.Seq, b.Seq)
	})

	return nil
}

func (that *waitingQueue) Dequeue(_ context.Context, userID string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if i := that.indexOf(userID); i >= 0 {
		that.entries = slices.Delete(that.entries, i, i+1)
	}

	return nil
}

func (that *waitingQueue) DequeueArena(_ context.Context, arenaID string) (int, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	before := len(that.entries)
	that.entries = slices.DeleteFunc(that.entries, func(entry entity.WaitingEntry) bool {
		return entry.ArenaID == arenaID
	})

	return before - len(that.entries), nil
}

// indexOf expects mu to be held.
func (that *waitingQueue) indexOf(userID string) int {
	return slices.IndexFunc(that.entries, func(entry entity.WaitingEntry) bool {
		return entry.UserID == userID
	})
}
