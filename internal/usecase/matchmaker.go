package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/jonboulle/clockwork"
	"github.com/rocketscienceinc/tictactoe-arena/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
	"github.com/rocketscienceinc/tictactoe-arena/internal/metrics"
)

type gameRepo interface {
	Create(ctx context.Context, arenaID string, board entity.Board, firstTurn entity.Mark, playerX, playerO string) (*entity.Game, error)
	GetByID(ctx context.Context, arenaID string) (*entity.Game, error)
	ArenaOf(ctx context.Context, userID string) (string, error)
	AttachRenderHandles(ctx context.Context, arenaID, handleX, handleO string) error
	DeleteByID(ctx context.Context, arenaID string) error
}

type waitingRepo interface {
	Enqueue(ctx context.Context, userID, arenaID string) (*entity.WaitingEntry, error)
	TryPairOldest(ctx context.Context) (*entity.Pairing, error)
	Restore(ctx context.Context, pairing *entity.Pairing) error
	DequeueArena(ctx context.Context, arenaID string) (int, error)
}

// Matchmaker is the only component that touches both the waiting queue and the game store.
type Matchmaker struct {
	logger *slog.Logger
	clock  clockwork.Clock

	gameRepo    gameRepo
	waitingRepo waitingRepo
	notifier    Notifier
}

func NewMatchmaker(logger *slog.Logger, clock clockwork.Clock, gameRepo gameRepo, waitingRepo waitingRepo, notifier Notifier) *Matchmaker {
	return &Matchmaker{
		logger: logger.With("component", "matchmaker"),
		clock:  clock,

		gameRepo:    gameRepo,
		waitingRepo: waitingRepo,
		notifier:    notifier,
	}
}

// Join queues the user and pairs the two oldest waiting users into a game in arenaID.
// It returns the created game, or nil when the user keeps waiting.
func (that *Matchmaker) Join(ctx context.Context, userID, arenaID string) (*entity.Game, error) {
	log := that.logger.With("method", "Join", "user", userID, "arena", arenaID)

	_, err := that.gameRepo.GetByID(ctx, arenaID)
	if err == nil {
		metrics.JoinsTotal.WithLabelValues(metrics.ResultRejected).Inc()
		that.notifyText(ctx, log, userID, msgArenaBusy)

		return nil, fmt.Errorf("%w: arena %s", apperror.ErrArenaBusy, arenaID)
	}

	if !errors.Is(err, apperror.ErrSessionNotFound) {
		return nil, that.fail(ctx, log, userID, fmt.Errorf("failed to check arena: %w", err))
	}

	if _, err = that.waitingRepo.Enqueue(ctx, userID, arenaID); err != nil {
		if apperror.IsNotice(err) {
			metrics.JoinsTotal.WithLabelValues(metrics.ResultRejected).Inc()
			that.notifyText(ctx, log, userID, noticeFor(err))

			return nil, err
		}

		return nil, that.fail(ctx, log, userID, fmt.Errorf("failed to enqueue: %w", err))
	}

	pairing, err := that.waitingRepo.TryPairOldest(ctx)
	if err != nil {
		return nil, that.fail(ctx, log, userID, fmt.Errorf("failed to pair: %w", err))
	}

	if pairing == nil {
		that.notifyWaiting(ctx, log, userID)

		return nil, nil //nolint: nilnil // waiting for an opponent
	}

	game, err := that.startGame(ctx, log, arenaID, pairing)
	if err != nil {
		if errors.Is(err, apperror.ErrSessionAlreadyExists) {
			metrics.JoinsTotal.WithLabelValues(metrics.ResultRejected).Inc()
			that.notifyText(ctx, log, userID, msgArenaBusy)

			return nil, fmt.Errorf("%w: %w", apperror.ErrArenaBusy, err)
		}

		return nil, that.fail(ctx, log, userID, err)
	}

	// a concurrent join may have paired others, or paired us elsewhere
	if !pairing.Includes(userID) {
		that.notifyWaiting(ctx, log, userID)

		return game, nil
	}

	metrics.JoinsTotal.WithLabelValues(metrics.ResultPaired).Inc()

	return game, nil
}

// notifyWaiting tells the user to wait unless another join already put them into a game.
func (that *Matchmaker) notifyWaiting(ctx context.Context, log *slog.Logger, userID string) {
	arenaID, err := that.gameRepo.ArenaOf(ctx, userID)
	switch {
	case err == nil:
		log.Debug("paired by a concurrent join", "playing_in", arenaID)
		return
	case !errors.Is(err, apperror.ErrSessionNotFound):
		log.Warn("failed to check active game", "error", err)
	}

	metrics.JoinsTotal.WithLabelValues(metrics.ResultWaiting).Inc()
	that.notifyText(ctx, log, userID, msgWaiting)
}

// startGame creates the session under the arena of the request that triggered the pairing.
func (that *Matchmaker) startGame(ctx context.Context, log *slog.Logger, arenaID string, pairing *entity.Pairing) (*entity.Game, error) {
	board := entity.NewBoard()

	game, err := that.gameRepo.Create(ctx, arenaID, board, entity.PlayerX, pairing.X.UserID, pairing.O.UserID)
	if err != nil {
		if restoreErr := that.waitingRepo.Restore(ctx, pairing); restoreErr != nil {
			log.Error("failed to restore pairing", "error", restoreErr)
		}

		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	metrics.GamesStarted.Inc()
	for _, entry := range pairing.Entries() {
		metrics.QueueWait.Observe(that.clock.Since(entry.QueuedAt).Seconds())
	}

	log.Info("game started", "player_x", game.PlayerX, "player_o", game.PlayerO,
		"origin_x", pairing.X.ArenaID, "origin_o", pairing.O.ArenaID)

	that.notifyText(ctx, log, game.PlayerX, opponentFound(entity.PlayerX))
	that.notifyText(ctx, log, game.PlayerO, opponentFound(entity.PlayerO))

	game.HandleX = that.notifyBoard(ctx, log, game.PlayerX, board, arenaID, msgCaptionFirst)
	game.HandleO = that.notifyBoard(ctx, log, game.PlayerO, board, arenaID, msgCaptionSecond)

	err = that.gameRepo.AttachRenderHandles(ctx, arenaID, game.HandleX, game.HandleO)
	switch {
	case errors.Is(err, apperror.ErrSessionNotFound):
		log.Debug("game ended before render handles were attached")
		that.releaseBoards(ctx, log, game.Handles())
	case err != nil:
		log.Error("failed to attach render handles", "error", err)
		that.releaseBoards(ctx, log, game.Handles())
	}

	return game, nil
}

// Reset drops the arena's game and every waiting entry that joined from the arena.
func (that *Matchmaker) Reset(ctx context.Context, userID, arenaID string) error {
	log := that.logger.With("method", "Reset", "user", userID, "arena", arenaID)

	game, err := that.gameRepo.GetByID(ctx, arenaID)
	if err != nil && !errors.Is(err, apperror.ErrSessionNotFound) {
		return that.fail(ctx, log, userID, fmt.Errorf("failed to get game: %w", err))
	}

	if err = that.gameRepo.DeleteByID(ctx, arenaID); err != nil {
		return that.fail(ctx, log, userID, fmt.Errorf("failed to delete game: %w", err))
	}

	if game != nil {
		that.releaseBoards(ctx, log, game.Handles())
	}

	removed, err := that.waitingRepo.DequeueArena(ctx, arenaID)
	if err != nil {
		return that.fail(ctx, log, userID, fmt.Errorf("failed to clear waiting players: %w", err))
	}

	log.Info("arena reset", "dequeued", removed)
	that.notifyText(ctx, log, userID, msgReset)

	return nil
}

func (that *Matchmaker) fail(ctx context.Context, log *slog.Logger, userID string, err error) error {
	metrics.JoinsTotal.WithLabelValues(metrics.ResultError).Inc()
	that.notifyText(ctx, log, userID, msgTryAgain)

	return err
}

func (that *Matchmaker) notifyText(ctx context.Context, log *slog.Logger, userID, message string) {
	if err := that.notifier.NotifyText(ctx, userID, message); err != nil {
		log.Warn("failed to notify player", "to", userID, "error", err)
	}
}

func (that *Matchmaker) releaseBoards(ctx context.Context, log *slog.Logger, handles []string) {
	handles = slices.DeleteFunc(slices.Clone(handles), func(handle string) bool { return handle == "" })
	if len(handles) == 0 {
		return
	}

	if err := that.notifier.ReleaseBoards(ctx, handles); err != nil {
		log.Warn("failed to release boards", "error", err)
	}
}

func (that *Matchmaker) notifyBoard(
	ctx context.Context, log *slog.Logger, userID string, board entity.Board, arenaID, caption string,
) string {
	handle, err := that.notifier.NotifyBoard(ctx, userID, board, arenaID, caption)
	if err != nil {
		log.Warn("failed to deliver board", "to", userID, "error", err)
		return ""
	}

	return handle
}
