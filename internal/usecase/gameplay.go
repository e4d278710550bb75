package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-arena/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
	"github.com/rocketscienceinc/tictactoe-arena/internal/metrics"
)

type moveRepo interface {
	ApplyMove(ctx context.Context, arenaID string, row, col int, userID string) (*entity.Game, error)
}

// GamePlay handles moves. Validation and persistence happen inside moveRepo.ApplyMove, which
// serializes moves per arena and removes the game once it is won or drawn.
type GamePlay struct {
	logger *slog.Logger

	moveRepo moveRepo
	notifier Notifier
}

func NewGamePlay(logger *slog.Logger, moveRepo moveRepo, notifier Notifier) *GamePlay {
	return &GamePlay{
		logger: logger.With("component", "gameplay"),

		moveRepo: moveRepo,
		notifier: notifier,
	}
}

func (that *GamePlay) MakeTurn(ctx context.Context, arenaID string, row, col int, userID, requestToken string) (*entity.Game, error) {
	log := that.logger.With("method", "MakeTurn", "arena", arenaID, "user", userID)

	game, err := that.moveRepo.ApplyMove(ctx, arenaID, row, col, userID)
	if errors.Is(err, apperror.ErrSessionNotFound) {
		err = fmt.Errorf("%w: %w", apperror.ErrGameNotFound, err)
	}

	if err != nil {
		result := metrics.ResultRejected
		if !apperror.IsNotice(err) {
			result = metrics.ResultError
			err = fmt.Errorf("failed to apply move: %w", err)
		}

		metrics.MovesTotal.WithLabelValues(result).Inc()
		that.ack(ctx, log, requestToken, noticeFor(err))

		return nil, err
	}

	metrics.MovesTotal.WithLabelValues(metrics.ResultAccepted).Inc()
	that.ack(ctx, log, requestToken, "")

	for _, handle := range game.Handles() {
		if handle == "" {
			log.Debug("render handle not attached yet, skipping board update")
			continue
		}

		if err = that.notifier.UpdateBoard(ctx, handle, game.Board); err != nil {
			log.Warn("failed to update board", "handle", handle, "error", err)
		}
	}

	if !game.IsFinished() {
		return game, nil
	}

	message, outcome := msgDraw, metrics.OutcomeDraw
	if !game.IsDraw() {
		message, outcome = winner(game.Winner), metrics.OutcomeWin
	}

	metrics.GamesFinished.WithLabelValues(outcome).Inc()
	log.Info("game finished", "winner", game.Winner)

	for _, player := range game.Players() {
		if err = that.notifier.NotifyText(ctx, player, message); err != nil {
			log.Warn("failed to notify player", "to", player, "error", err)
		}
	}

	return game, nil
}

func (that *GamePlay) ack(ctx context.Context, log *slog.Logger, requestToken, message string) {
	if err := that.notifier.Ack(ctx, requestToken, message); err != nil {
		log.Warn("failed to ack request", "token", requestToken, "error", err)
	}
}
