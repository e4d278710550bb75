package entity

import (
	"fmt"
	"strings"

	"github.com/rocketscienceinc/tictactoe-arena/internal/apperror"
)

// Mark is the content of a single board cell.
type Mark string

const (
	PlayerX   Mark = "X"
	PlayerO   Mark = "O"
	PlayerTie Mark = "-"

	EmptyCell Mark = " "
)

const BoardSize = 3

var WinCombos = [][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

var symbols = map[Mark]string{
	PlayerX: "❌",
	PlayerO: "⭕",
}

// Symbol returns the emoji used for the mark in chat notices.
func (that Mark) Symbol() string {
	if symbol, ok := symbols[that]; ok {
		return symbol
	}

	return string(that)
}

// Opponent returns the other player's mark.
func (that Mark) Opponent() Mark {
	if that == PlayerX {
		return PlayerO
	}

	return PlayerX
}

// Board is a 3x3 grid stored row-major.
type Board [BoardSize * BoardSize]Mark

func NewBoard() Board {
	var board Board
	for i := range board {
		board[i] = EmptyCell
	}

	return board
}

// Cell returns the mark at row, col.
func (that Board) Cell(row, col int) Mark {
	return that[row*BoardSize+col]
}

// Place returns a copy of the board with the cell set. The receiver is left untouched.
func (that Board) Place(row, col int, mark Mark) (Board, error) {
	if row < 0 || row >= BoardSize || col < 0 || col >= BoardSize {
		return that, fmt.Errorf("%w: row %d col %d", apperror.ErrInvalidCell, row, col)
	}

	if that.Cell(row, col) != EmptyCell {
		return that, apperror.ErrCellOccupied
	}

	that[row*BoardSize+col] = mark

	return that, nil
}

// Winner returns the mark owning a full row, column or diagonal, or EmptyCell.
func (that Board) Winner() Mark {
	for _, combo := range WinCombos {
		a, b, c := that[combo[0]], that[combo[1]], that[combo[2]]
		if a != EmptyCell && a == b && b == c {
			return a
		}
	}

	return EmptyCell
}

// IsDraw reports a full board without a winner.
func (that Board) IsDraw() bool {
	for _, cell := range that {
		if cell == EmptyCell {
			return false
		}
	}

	return that.Winner() == EmptyCell
}

// Rows returns the board as a 3x3 grid, handy for rendering.
func (that Board) Rows() [][]Mark {
	rows := make([][]Mark, 0, BoardSize)
	for row := 0; row < BoardSize; row++ {
		rows = append(rows, that[row*BoardSize:(row+1)*BoardSize])
	}

	return rows
}

// String serializes the board to its 9 symbol storage form.
func (that Board) String() string {
	var sb strings.Builder
	for _, cell := range that {
		sb.WriteString(string(cell))
	}

	return sb.String()
}

// ParseBoard is the inverse of Board.String.
func ParseBoard(raw string) (Board, error) {
	var board Board

	if len(raw) != len(board) {
		return board, fmt.Errorf("%w: expected %d cells, got %d", apperror.ErrInvalidBoard, len(board), len(raw))
	}

	for i := range raw {
		switch mark := Mark(raw[i]); mark {
		case PlayerX, PlayerO, EmptyCell:
			board[i] = mark
		default:
			return board, fmt.Errorf("%w: unexpected cell %q at %d", apperror.ErrInvalidBoard, raw[i], i)
		}
	}

	return board, nil
}
