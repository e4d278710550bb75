package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/rocketscienceinc/tictactoe-arena/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
	"github.com/rocketscienceinc/tictactoe-arena/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-arena/internal/repository"
)

// gameStore keeps sessions in process. Every mutation of an arena runs under that arena's lock;
// mu only guards the maps themselves and is never held across a move.
type gameStore struct {
	mu      sync.RWMutex
	games   map[string]*entity.Game
	players map[string]string

	arenas *pkg.KeyedMutex
}

func NewGameRepository() repository.GameRepository {
	return &gameStore{
		games:   make(map[string]*entity.Game),
		players: make(map[string]string),
		arenas:  pkg.NewKeyedMutex(),
	}
}

func (that *gameStore) Create(
	_ context.Context, arenaID string, board entity.Board, firstTurn entity.Mark, playerX, playerO string,
) (*entity.Game, error) {
	unlock := that.arenas.Lock(arenaID)
	defer unlock()

	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.games[arenaID]; ok {
		return nil, fmt.Errorf("%w: arena %s", apperror.ErrSessionAlreadyExists, arenaID)
	}

	game := entity.NewGame(arenaID, board, firstTurn, playerX, playerO)
	that.games[arenaID] = game
	that.players[playerX] = arenaID
	that.players[playerO] = arenaID

	return game.Clone(), nil
}

func (that *gameStore) GetByID(_ context.Context, arenaID string) (*entity.Game, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	game, ok := that.games[arenaID]
	if !ok {
		return nil, fmt.Errorf("%w: arena %s", apperror.ErrSessionNotFound, arenaID)
	}

	return game.Clone(), nil
}

func (that *gameStore) ArenaOf(_ context.Context, userID string) (string, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	arenaID, ok := that.players[userID]
	if !ok {
		return "", apperror.ErrSessionNotFound
	}

	return arenaID, nil
}

func (that *gameStore) AttachRenderHandles(_ context.Context, arenaID, handleX, handleO string) error {
	unlock := that.arenas.Lock(arenaID)
	defer unlock()

	that.mu.Lock()
	defer that.mu.Unlock()

	game, ok := that.games[arenaID]
	if !ok {
		return fmt.Errorf("%w: arena %s", apperror.ErrSessionNotFound, arenaID)
	}

	game.HandleX = handleX
	game.HandleO = handleO

	return nil
}

func (that *gameStore) ApplyMove(ctx context.Context, arenaID string, row, col int, userID string) (*entity.Game, error) {
	unlock := that.arenas.Lock(arenaID)
	defer unlock()

	game, err := that.GetByID(ctx, arenaID)
	if err != nil {
		return nil, err
	}

	if err = game.MakeTurn(userID, row, col); err != nil {
		return nil, err
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	if game.IsFinished() {
		that.remove(arenaID)
	} else {
		that.games[arenaID] = game.Clone()
	}

	return game, nil
}

func (that *gameStore) DeleteByID(_ context.Context, arenaID string) error {
	unlock := that.arenas.Lock(arenaID)
	defer unlock()

	that.mu.Lock()
	defer that.mu.Unlock()

	that.remove(arenaID)

	return nil
}

// remove expects mu to be held.
func (that *gameStore) remove(arenaID string) {
	game, ok := that.games[arenaID]
	if !ok {
		return
	}

	for _, player := range game.Players() {
		if that.players[player] == arenaID {
			delete(that.players, player)
		}
	}

	delete(that.games, arenaID)
}
