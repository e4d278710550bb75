package usecase

import (
	"context"

	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
)

// Notifier delivers game events to players. It is implemented by the chat transport.
type Notifier interface {
	// NotifyText sends a plain notice to the user.
	NotifyText(ctx context.Context, userID, message string) error
	// NotifyBoard renders the board as an interactive grid and returns a handle for later updates.
	NotifyBoard(ctx context.Context, userID string, board entity.Board, arenaID, caption string) (string, error)
	// UpdateBoard replaces the grid of a previously rendered board.
	UpdateBoard(ctx context.Context, handle string, board entity.Board) error
	// ReleaseBoards forgets rendered boards that will never be updated again.
	ReleaseBoards(ctx context.Context, handles []string) error
	// Ack answers a single request, optionally with a short notice.
	Ack(ctx context.Context, requestToken, message string) error
}
