package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/tictactoe-arena/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
)

const (
	waitingKeyPrefix = "waiting:"
	waitingQueueKey  = "waiting:queue"
	waitingSeqKey    = "waiting:seq"
)

// WaitingRepository is the FIFO of users waiting for an opponent.
type WaitingRepository interface {
	Enqueue(ctx context.Context, userID, arenaID string) (*entity.WaitingEntry, error)
	// TryPairOldest returns nil without error when fewer than two users are waiting.
	TryPairOldest(ctx context.Context) (*entity.Pairing, error)
	Restore(ctx context.Context, pairing *entity.Pairing) error
	Dequeue(ctx context.Context, userID string) error
	DequeueArena(ctx context.Context, arenaID string) (int, error)
}

// SessionLookup resolves the arena a user is currently playing in.
type SessionLookup interface {
	ArenaOf(ctx context.Context, userID string) (string, error)
}

// KEYS: entry, queue, seq. ARGV: arena, queued_at, user.
var enqueueScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
	return 0
end
local seq = redis.call('INCR', KEYS[3])
redis.call('HSET', KEYS[1], 'arena_id', ARGV[1], 'seq', seq, 'queued_at', ARGV[2])
redis.call('ZADD', KEYS[2], seq, ARGV[3])
return seq
`)

// KEYS: queue. ARGV: entry key prefix.
// Returns user, arena, seq, queued_at for the two oldest entries, or nothing.
var pairScript = redis.NewScript(`
if redis.call('ZCARD', KEYS[1]) < 2 then
	return {}
end
local popped = redis.call('ZPOPMIN', KEYS[1], 2)
local result = {}
for i = 1, #popped, 2 do
	local user = popped[i]
	local key = ARGV[1] .. user
	local fields = redis.call('HMGET', key, 'arena_id', 'seq', 'queued_at')
	redis.call('DEL', key)
	table.insert(result, user)
	table.insert(result, fields[1] or '')
	table.insert(result, fields[2] or popped[i + 1])
	table.insert(result, fields[3] or '0')
end
return result
`)

// KEYS: queue. ARGV: entry key prefix, then user, arena, seq, queued_at per entry.
var restoreScript = redis.NewScript(`
local restored = 0
for i = 2, #ARGV, 4 do
	local key = ARGV[1] .. ARGV[i]
	if redis.call('EXISTS', key) == 0 then
		redis.call('HSET', key, 'arena_id', ARGV[i + 1], 'seq', ARGV[i + 2], 'queued_at', ARGV[i + 3])
		redis.call('ZADD', KEYS[1], ARGV[i + 2], ARGV[i])
		restored = restored + 1
	end
end
return restored
`)

// KEYS: queue. ARGV: entry key prefix, arena.
var dequeueArenaScript = redis.NewScript(`
local members = redis.call('ZRANGE', KEYS[1], 0, -1)
local removed = 0
for _, user in ipairs(members) do
	local key = ARGV[1] .. user
	if redis.call('HGET', key, 'arena_id') == ARGV[2] then
		redis.call('DEL', key)
		redis.call('ZREM', KEYS[1], user)
		removed = removed + 1
	end
end
return removed
`)

type dbWaiting struct {
	client   *redis.Client
	sessions SessionLookup
	clock    clockwork.Clock
}

func NewWaitingRepository(client *redis.Client, sessions SessionLookup, clock clockwork.Clock) WaitingRepository {
	return &dbWaiting{
		client:   client,
		sessions: sessions,
		clock:    clock,
	}
}

func waitingKey(userID string) string {
	return waitingKeyPrefix + userID
}

func (that *dbWaiting) Enqueue(ctx context.Context, userID, arenaID string) (*entity.WaitingEntry, error) {
	if err := CheckNotPlaying(ctx, that.sessions, userID); err != nil {
		return nil, err
	}

	queuedAt := that.clock.Now()
	keys := []string{waitingKey(userID), waitingQueueKey, waitingSeqKey}

	seq, err := enqueueScript.Run(ctx, that.client, keys,
		arenaID, strconv.FormatInt(queuedAt.UnixNano(), 10), userID,
	).Int64()
	if err != nil {
		return nil, fmt.Errorf("failed to enqueue player: %w", err)
	}

	if seq == 0 {
		return nil, fmt.Errorf("%w: user %s", apperror.ErrAlreadyQueued, userID)
	}

	return &entity.WaitingEntry{
		UserID:   userID,
		ArenaID:  arenaID,
		Seq:      seq,
		QueuedAt: queuedAt,
	}, nil
}

func (that *dbWaiting) TryPairOldest(ctx context.Context) (*entity.Pairing, error) {
	fields, err := pairScript.Run(ctx, that.client, []string{waitingQueueKey}, waitingKeyPrefix).StringSlice()
	if err != nil {
		return nil, fmt.Errorf("failed to pair players: %w", err)
	}

	if len(fields) == 0 {
		return nil, nil //nolint: nilnil // fewer than two waiting is not an error
	}

	if len(fields) != 8 {
		return nil, fmt.Errorf("unexpected pairing reply of %d fields", len(fields))
	}

	first, err := parseWaitingEntry(fields[0:4])
	if err != nil {
		return nil, err
	}

	second, err := parseWaitingEntry(fields[4:8])
	if err != nil {
		return nil, err
	}

	return &entity.Pairing{X: first, O: second}, nil
}

func (that *dbWaiting) Restore(ctx context.Context, pairing *entity.Pairing) error {
	args := []any{waitingKeyPrefix}
	for _, entry := range pairing.Entries() {
		args = append(args,
			entry.UserID,
			entry.ArenaID,
			strconv.FormatInt(entry.Seq, 10),
			strconv.FormatInt(entry.QueuedAt.UnixNano(), 10),
		)
	}

	if err := restoreScript.Run(ctx, that.client, []string{waitingQueueKey}, args...).Err(); err != nil {
		return fmt.Errorf("failed to restore pairing: %w", err)
	}

	return nil
}

func (that *dbWaiting) Dequeue(ctx context.Context, userID string) error {
	_, err := that.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRem(ctx, waitingQueueKey, userID)
		pipe.Del(ctx, waitingKey(userID))

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to dequeue player: %w", err)
	}

	return nil
}

func (that *dbWaiting) DequeueArena(ctx context.Context, arenaID string) (int, error) {
	removed, err := dequeueArenaScript.Run(ctx, that.client, []string{waitingQueueKey}, waitingKeyPrefix, arenaID).Int()
	if err != nil {
		return 0, fmt.Errorf("failed to dequeue arena: %w", err)
	}

	return removed, nil
}

// CheckNotPlaying fails with ErrAlreadyInSession when the user is a player of a live game.
func CheckNotPlaying(ctx context.Context, sessions SessionLookup, userID string) error {
	arenaID, err := sessions.ArenaOf(ctx, userID)
	if errors.Is(err, apperror.ErrSessionNotFound) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to check active game: %w", err)
	}

	return fmt.Errorf("%w: user %s plays in %s", apperror.ErrAlreadyInSession, userID, arenaID)
}

func parseWaitingEntry(fields []string) (entity.WaitingEntry, error) {
	seq, err := strconv.ParseInt(fields[2], 10, 64)
	if err != nil {
		return entity.WaitingEntry{}, fmt.Errorf("invalid seq for %s: %w", fields[0], err)
	}

	queuedAt, err := strconv.ParseInt(fields[3], 10, 64)
	if err != nil {
		return entity.WaitingEntry{}, fmt.Errorf("invalid queued_at for %s: %w", fields[0], err)
	}

	return entity.WaitingEntry{
		UserID:   fields[0],
		ArenaID:  fields[1],
		Seq:      seq,
		QueuedAt: time.Unix(0, queuedAt),
	}, nil
}
