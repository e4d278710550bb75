package usecase

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-arena/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
)

const (
	msgArenaBusy       = "A game is already active in this chat. Wait for an opponent or continue the current game."
	msgAlreadyQueued   = "You are already waiting for an opponent."
	msgAlreadyInGame   = "You are already playing a game. Finish it before starting a new one."
	msgWaiting         = "Looking for an opponent... Please wait."
	msgGameNotFound    = "Game not found. Start a new game with /start."
	msgNotYourTurn     = "It's not your turn."
	msgCellOccupied    = "This cell is already taken. Please choose another one."
	msgInvalidCell     = "This cell does not exist."
	msgTryAgain        = "Something went wrong. Please try again later."
	msgDraw            = "The game ended in a draw!"
	msgReset           = "The game has been reset. Start a new game with /start."
	msgCaptionFirst    = "The game begins. You move first."
	msgCaptionSecond   = "The game begins. Wait for player X to move."
	msgOpponentFoundFm = "Opponent found! You are player %s."
	msgWinnerFm        = "Player %s wins!"
)

func opponentFound(mark entity.Mark) string {
	return fmt.Sprintf(msgOpponentFoundFm, mark)
}

func winner(mark entity.Mark) string {
	return fmt.Sprintf(msgWinnerFm, mark.Symbol())
}

// noticeFor maps an error to the text shown to the player.
func noticeFor(err error) string {
	switch {
	case errors.Is(err, apperror.ErrArenaBusy):
		return msgArenaBusy
	case errors.Is(err, apperror.ErrAlreadyQueued):
		return msgAlreadyQueued
	case errors.Is(err, apperror.ErrAlreadyInSession):
		return msgAlreadyInGame
	case errors.Is(err, apperror.ErrGameNotFound), errors.Is(err, apperror.ErrSessionNotFound):
		return msgGameNotFound
	case errors.Is(err, apperror.ErrNotYourTurn):
		return msgNotYourTurn
	case errors.Is(err, apperror.ErrCellOccupied):
		return msgCellOccupied
	case errors.Is(err, apperror.ErrInvalidCell):
		return msgInvalidCell
	default:
		return msgTryAgain
	}
}
