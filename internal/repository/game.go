package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/tictactoe-arena/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
)

const (
	gameKeyPrefix   = "game:"
	playerKeyPrefix = "player:"

	DefaultMoveRetries = 8
)

var ErrTooManyRetries = errors.New("too many concurrent updates")

type GameRepository interface {
	Create(ctx context.Context, arenaID string, board entity.Board, firstTurn entity.Mark, playerX, playerO string) (*entity.Game, error)
	GetByID(ctx context.Context, arenaID string) (*entity.Game, error)
	ArenaOf(ctx context.Context, userID string) (string, error)
	AttachRenderHandles(ctx context.Context, arenaID, handleX, handleO string) error
	ApplyMove(ctx context.Context, arenaID string, row, col int, userID string) (*entity.Game, error)
	DeleteByID(ctx context.Context, arenaID string) error
}

// KEYS: game, player x, player o. ARGV: board, turn, player x, player o, arena.
var createGameScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
	return 0
end
redis.call('HSET', KEYS[1], 'board', ARGV[1], 'turn', ARGV[2], 'player_x', ARGV[3], 'player_o', ARGV[4], 'handle_x', '', 'handle_o', '')
redis.call('SET', KEYS[2], ARGV[5])
redis.call('SET', KEYS[3], ARGV[5])
return 1
`)

// KEYS: game. ARGV: handle x, handle o.
var attachHandlesScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return 0
end
redis.call('HSET', KEYS[1], 'handle_x', ARGV[1], 'handle_o', ARGV[2])
return 1
`)

// KEYS: game. ARGV: player key prefix, arena.
// Player index entries are only removed while they still point at this arena.
var deleteGameScript = redis.NewScript(`
local players = redis.call('HMGET', KEYS[1], 'player_x', 'player_o')
for _, player in ipairs(players) do
	if player then
		local key = ARGV[1] .. player
		if redis.call('GET', key) == ARGV[2] then
			redis.call('DEL', key)
		end
	end
end
return redis.call('DEL', KEYS[1])
`)

type hashGetter interface {
	HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd
}

type dbGameRecord struct {
	Board   string `redis:"board"`
	Turn    string `redis:"turn"`
	PlayerX string `redis:"player_x"`
	PlayerO string `redis:"player_o"`
	HandleX string `redis:"handle_x"`
	HandleO string `redis:"handle_o"`
}

type dbGame struct {
	client      *redis.Client
	moveRetries int
}

func NewGameRepository(client *redis.Client, moveRetries int) GameRepository {
	if moveRetries <= 0 {
		moveRetries = DefaultMoveRetries
	}

	return &dbGame{
		client:      client,
		moveRetries: moveRetries,
	}
}

func gameKey(arenaID string) string {
	return gameKeyPrefix + arenaID
}

func playerKey(userID string) string {
	return playerKeyPrefix + userID
}

func (that *dbGame) Create(
	ctx context.Context, arenaID string, board entity.Board, firstTurn entity.Mark, playerX, playerO string,
) (*entity.Game, error) {
	keys := []string{gameKey(arenaID), playerKey(playerX), playerKey(playerO)}

	created, err := createGameScript.Run(ctx, that.client, keys,
		board.String(), string(firstTurn), playerX, playerO, arenaID,
	).Int()
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	if created == 0 {
		return nil, fmt.Errorf("%w: arena %s", apperror.ErrSessionAlreadyExists, arenaID)
	}

	return entity.NewGame(arenaID, board, firstTurn, playerX, playerO), nil
}

func (that *dbGame) GetByID(ctx context.Context, arenaID string) (*entity.Game, error) {
	return that.load(ctx, that.client, arenaID)
}

func (that *dbGame) ArenaOf(ctx context.Context, userID string) (string, error) {
	arenaID, err := that.client.Get(ctx, playerKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", apperror.ErrSessionNotFound
	}

	if err != nil {
		return "", fmt.Errorf("failed to get arena by player: %w", err)
	}

	return arenaID, nil
}

func (that *dbGame) AttachRenderHandles(ctx context.Context, arenaID, handleX, handleO string) error {
	attached, err := attachHandlesScript.Run(ctx, that.client, []string{gameKey(arenaID)}, handleX, handleO).Int()
	if err != nil {
		return fmt.Errorf("failed to attach render handles: %w", err)
	}

	if attached == 0 {
		return fmt.Errorf("%w: arena %s", apperror.ErrSessionNotFound, arenaID)
	}

	return nil
}

// ApplyMove runs the move as an optimistic transaction on the game key. A concurrent writer
// aborts the transaction and the move is re-validated against the fresh state.
func (that *dbGame) ApplyMove(ctx context.Context, arenaID string, row, col int, userID string) (*entity.Game, error) {
	key := gameKey(arenaID)

	var updated *entity.Game

	txf := func(tx *redis.Tx) error {
		game, err := that.load(ctx, tx, arenaID)
		if err != nil {
			return err
		}

		if err = game.MakeTurn(userID, row, col); err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if game.IsFinished() {
				deleteGameScript.Eval(ctx, pipe, []string{key}, playerKeyPrefix, arenaID)
				return nil
			}

			pipe.HSet(ctx, key, "board", game.Board.String(), "turn", string(game.Turn))

			return nil
		})
		if err != nil {
			return err
		}

		updated = game

		return nil
	}

	for attempt := 0; attempt < that.moveRetries; attempt++ {
		err := that.client.Watch(ctx, txf, key)
		if err == nil {
			return updated, nil
		}

		if errors.Is(err, redis.TxFailedErr) {
			continue
		}

		if apperror.IsNotice(err) {
			return nil, err
		}

		return nil, fmt.Errorf("failed to apply move: %w", err)
	}

	return nil, fmt.Errorf("%w: arena %s", ErrTooManyRetries, arenaID)
}

func (that *dbGame) DeleteByID(ctx context.Context, arenaID string) error {
	err := deleteGameScript.Run(ctx, that.client, []string{gameKey(arenaID)}, playerKeyPrefix, arenaID).Err()
	if err != nil {
		return fmt.Errorf("failed to delete game by ID: %w", err)
	}

	return nil
}

func (that *dbGame) load(ctx context.Context, client hashGetter, arenaID string) (*entity.Game, error) {
	cmd := client.HGetAll(ctx, gameKey(arenaID))

	fields, err := cmd.Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: arena %s", apperror.ErrSessionNotFound, arenaID)
	}

	var record dbGameRecord
	if err = cmd.Scan(&record); err != nil {
		return nil, fmt.Errorf("failed to scan game: %w", err)
	}

	board, err := entity.ParseBoard(record.Board)
	if err != nil {
		return nil, fmt.Errorf("corrupt game %s: %w", arenaID, err)
	}

	turn := entity.Mark(record.Turn)
	if turn != entity.PlayerX && turn != entity.PlayerO {
		return nil, fmt.Errorf("corrupt game %s: %w: turn %q", arenaID, apperror.ErrInvalidBoard, record.Turn)
	}

	return &entity.Game{
		ArenaID: arenaID,
		Board:   board,
		Turn:    turn,
		PlayerX: record.PlayerX,
		PlayerO: record.PlayerO,
		HandleX: record.HandleX,
		HandleO: record.HandleO,
		Status:  entity.StatusOngoing,
	}, nil
}
