package apperror

import "errors"

var (
	ErrArenaBusy            = errors.New("a game is already active in this arena")
	ErrAlreadyQueued        = errors.New("player is already waiting for an opponent")
	ErrAlreadyInSession     = errors.New("player is already in a game")
	ErrGameNotFound         = errors.New("game not found")
	ErrNotYourTurn          = errors.New("it's not your turn")
	ErrCellOccupied         = errors.New("cell is already occupied")
	ErrInvalidCell          = errors.New("invalid cell")
	ErrSessionAlreadyExists = errors.New("session already exists")
	ErrSessionNotFound      = errors.New("session not found")

	ErrInvalidBoard = errors.New("invalid board")
)

var notices = []error{
	ErrArenaBusy,
	ErrAlreadyQueued,
	ErrAlreadyInSession,
	ErrGameNotFound,
	ErrNotYourTurn,
	ErrCellOccupied,
	ErrInvalidCell,
	ErrSessionAlreadyExists,
	ErrSessionNotFound,
}

// IsNotice reports whether err is a recoverable, user-facing outcome of a single request
// rather than a store failure.
func IsNotice(err error) bool {
	for _, notice := range notices {
		if errors.Is(err, notice) {
			return true
		}
	}

	return false
}
