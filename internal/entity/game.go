package entity

import (
	"github.com/rocketscienceinc/tictactoe-arena/internal/apperror"
)

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"
)

// Game is the live session of an arena. Finished games are never persisted: Status and Winner
// only describe the outcome of the move that ended them.
type Game struct {
	ArenaID string `json:"arena_id"`
	Board   Board  `json:"board"`
	Turn    Mark   `json:"turn"`
	PlayerX string `json:"player_x"`
	PlayerO string `json:"player_o"`
	HandleX string `json:"handle_x,omitempty"`
	HandleO string `json:"handle_o,omitempty"`

	Status string `json:"status"`
	Winner Mark   `json:"winner,omitempty"`
}

func NewGame(arenaID string, board Board, firstTurn Mark, playerX, playerO string) *Game {
	return &Game{
		ArenaID: arenaID,
		Board:   board,
		Turn:    firstTurn,
		PlayerX: playerX,
		PlayerO: playerO,
		Status:  StatusOngoing,
	}
}

// MarkOf returns the mark assigned to the user, or EmptyCell for a stranger.
func (that *Game) MarkOf(userID string) Mark {
	switch userID {
	case that.PlayerX:
		return PlayerX
	case that.PlayerO:
		return PlayerO
	default:
		return EmptyCell
	}
}

// Players returns both player identities, X first.
func (that *Game) Players() []string {
	return []string{that.PlayerX, that.PlayerO}
}

// Handles returns both render handles, X first.
func (that *Game) Handles() []string {
	return []string{that.HandleX, that.HandleO}
}

// MakeTurn validates and applies a move by the user. On failure the game is left unchanged.
func (that *Game) MakeTurn(userID string, row, col int) error {
	mark := that.MarkOf(userID)
	if mark == EmptyCell || mark != that.Turn {
		return apperror.ErrNotYourTurn
	}

	board, err := that.Board.Place(row, col, mark)
	if err != nil {
		return err
	}

	that.Board = board
	that.Turn = mark.Opponent()

	that.UpdateGameState()

	return nil
}

// UpdateGameState evaluates the winner first, then the draw.
func (that *Game) UpdateGameState() {
	if winner := that.Board.Winner(); winner != EmptyCell {
		that.Winner = winner
		that.Status = StatusFinished

		return
	}

	if that.Board.IsDraw() {
		that.Winner = PlayerTie
		that.Status = StatusFinished

		return
	}

	that.Status = StatusOngoing
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Game) IsDraw() bool {
	return that.IsFinished() && that.Winner == PlayerTie
}

// Clone returns an independent copy; Board is an array so it copies by value.
func (that *Game) Clone() *Game {
	clone := *that
	return &clone
}
