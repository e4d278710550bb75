package usecase

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-arena/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
	"github.com/rocketscienceinc/tictactoe-arena/internal/repository"
	"github.com/rocketscienceinc/tictactoe-arena/internal/repository/memory"
	mockedUseCase "github.com/rocketscienceinc/tictactoe-arena/mocks/usecase"
)

type gamePlayFixture struct {
	gamePlay *GamePlay
	games    repository.GameRepository
	notifier *mockedUseCase.MockNotifier
}

// newGamePlayFixture prepares a game in chatA between u1 (X) and u2 (O) with handles hX and hO.
func newGamePlayFixture(t *testing.T, board string, turn entity.Mark) *gamePlayFixture {
	t.Helper()

	ctx := context.Background()
	games := memory.NewGameRepository()
	notifier := mockedUseCase.NewMockNotifier(t)

	parsed, err := entity.ParseBoard(board)
	require.NoError(t, err)

	_, err = games.Create(ctx, "chatA", parsed, turn, "u1", "u2")
	require.NoError(t, err)
	require.NoError(t, games.AttachRenderHandles(ctx, "chatA", "hX", "hO"))

	return &gamePlayFixture{
		gamePlay: NewGamePlay(discardLogger(), games, notifier),
		games:    games,
		notifier: notifier,
	}
}

func mustBoard(t *testing.T, raw string) entity.Board {
	t.Helper()

	board, err := entity.ParseBoard(raw)
	require.NoError(t, err)

	return board
}

func TestGamePlay_MakeTurn(t *testing.T) {
	ctx := context.Background()

	t.Run("Accepted move updates both boards and passes the turn", func(t *testing.T) {
		// Given: a fresh game
		fx := newGamePlayFixture(t, "         ", entity.PlayerX)
		expected := mustBoard(t, "    X    ")

		fx.notifier.EXPECT().Ack(mock.Anything, "tok1", "").Return(nil).Once()
		fx.notifier.EXPECT().UpdateBoard(mock.Anything, "hX", expected).Return(nil).Once()
		fx.notifier.EXPECT().UpdateBoard(mock.Anything, "hO", expected).Return(nil).Once()

		// When: X plays the center
		game, err := fx.gamePlay.MakeTurn(ctx, "chatA", 1, 1, "u1", "tok1")

		// Then: the move is stored and O is on turn
		require.NoError(t, err)
		assert.Equal(t, entity.PlayerO, game.Turn)

		stored, err := fx.games.GetByID(ctx, "chatA")
		require.NoError(t, err)
		assert.Equal(t, expected, stored.Board)
		assert.Equal(t, entity.PlayerO, stored.Turn)
	})

	t.Run("Move by a user who is not a player fails with ErrNotYourTurn", func(t *testing.T) {
		fx := newGamePlayFixture(t, "         ", entity.PlayerX)
		fx.notifier.EXPECT().Ack(mock.Anything, "tok1", msgNotYourTurn).Return(nil).Once()

		_, err := fx.gamePlay.MakeTurn(ctx, "chatA", 0, 0, "stranger", "tok1")

		require.ErrorIs(t, err, apperror.ErrNotYourTurn)

		stored, err := fx.games.GetByID(ctx, "chatA")
		require.NoError(t, err)
		assert.Equal(t, entity.NewBoard(), stored.Board)
	})

	t.Run("Move out of turn fails with ErrNotYourTurn", func(t *testing.T) {
		fx := newGamePlayFixture(t, "         ", entity.PlayerX)
		fx.notifier.EXPECT().Ack(mock.Anything, "tok1", msgNotYourTurn).Return(nil).Once()

		_, err := fx.gamePlay.MakeTurn(ctx, "chatA", 0, 0, "u2", "tok1")

		require.ErrorIs(t, err, apperror.ErrNotYourTurn)
	})

	t.Run("Move on a taken cell fails with ErrCellOccupied and keeps the turn", func(t *testing.T) {
		fx := newGamePlayFixture(t, "X        ", entity.PlayerO)
		fx.notifier.EXPECT().Ack(mock.Anything, "tok1", msgCellOccupied).Return(nil).Once()

		_, err := fx.gamePlay.MakeTurn(ctx, "chatA", 0, 0, "u2", "tok1")

		require.ErrorIs(t, err, apperror.ErrCellOccupied)

		stored, err := fx.games.GetByID(ctx, "chatA")
		require.NoError(t, err)
		assert.Equal(t, "X        ", stored.Board.String())
		assert.Equal(t, entity.PlayerO, stored.Turn)
	})

	t.Run("Move without a game fails with ErrGameNotFound", func(t *testing.T) {
		fx := newGamePlayFixture(t, "         ", entity.PlayerX)
		fx.notifier.EXPECT().Ack(mock.Anything, "tok1", msgGameNotFound).Return(nil).Once()

		_, err := fx.gamePlay.MakeTurn(ctx, "chatB", 0, 0, "u1", "tok1")

		require.ErrorIs(t, err, apperror.ErrGameNotFound)
	})

	t.Run("Winning move notifies both players and removes the game", func(t *testing.T) {
		// Given: X can complete the top row
		fx := newGamePlayFixture(t, "XX OO    ", entity.PlayerX)
		final := mustBoard(t, "XXXOO    ")

		fx.notifier.EXPECT().Ack(mock.Anything, "tok1", "").Return(nil).Once()
		fx.notifier.EXPECT().UpdateBoard(mock.Anything, "hX", final).Return(nil).Once()
		fx.notifier.EXPECT().UpdateBoard(mock.Anything, "hO", final).Return(nil).Once()
		fx.notifier.EXPECT().NotifyText(mock.Anything, "u1", winner(entity.PlayerX)).Return(nil).Once()
		fx.notifier.EXPECT().NotifyText(mock.Anything, "u2", winner(entity.PlayerX)).Return(nil).Once()

		// When: X plays 0,2
		game, err := fx.gamePlay.MakeTurn(ctx, "chatA", 0, 2, "u1", "tok1")

		// Then: X won and the session is terminated
		require.NoError(t, err)
		assert.True(t, game.IsFinished())
		assert.Equal(t, entity.PlayerX, game.Winner)

		_, err = fx.games.GetByID(ctx, "chatA")
		require.ErrorIs(t, err, apperror.ErrSessionNotFound)

		_, err = fx.games.ArenaOf(ctx, "u1")
		require.ErrorIs(t, err, apperror.ErrSessionNotFound)
	})

	t.Run("Filling the board without a line ends in a draw", func(t *testing.T) {
		fx := newGamePlayFixture(t, "XOXOXOOX ", entity.PlayerO)

		fx.notifier.EXPECT().Ack(mock.Anything, "tok1", "").Return(nil).Once()
		fx.notifier.EXPECT().UpdateBoard(mock.Anything, mock.Anything, mustBoard(t, "XOXOXOOXO")).Return(nil).Twice()
		fx.notifier.EXPECT().NotifyText(mock.Anything, "u1", msgDraw).Return(nil).Once()
		fx.notifier.EXPECT().NotifyText(mock.Anything, "u2", msgDraw).Return(nil).Once()

		game, err := fx.gamePlay.MakeTurn(ctx, "chatA", 2, 2, "u2", "tok1")

		require.NoError(t, err)
		assert.True(t, game.IsDraw())

		_, err = fx.games.GetByID(ctx, "chatA")
		require.ErrorIs(t, err, apperror.ErrSessionNotFound)
	})

	t.Run("Boards without render handles are skipped", func(t *testing.T) {
		// Given: a game whose handles were never attached
		games := memory.NewGameRepository()
		notifier := mockedUseCase.NewMockNotifier(t)
		_, err := games.Create(ctx, "chatA", entity.NewBoard(), entity.PlayerX, "u1", "u2")
		require.NoError(t, err)
		notifier.EXPECT().Ack(mock.Anything, "tok1", "").Return(nil).Once()

		// When: X moves
		_, err = NewGamePlay(discardLogger(), games, notifier).MakeTurn(ctx, "chatA", 0, 0, "u1", "tok1")

		// Then: the move succeeds without board updates
		require.NoError(t, err)
	})

	t.Run("Store failure is acknowledged with a retry notice", func(t *testing.T) {
		notifier := mockedUseCase.NewMockNotifier(t)
		notifier.EXPECT().Ack(mock.Anything, "tok1", msgTryAgain).Return(nil).Once()

		_, err := NewGamePlay(discardLogger(), brokenMoves{}, notifier).MakeTurn(ctx, "chatA", 0, 0, "u1", "tok1")

		require.ErrorIs(t, err, errRedisDown)
		assert.False(t, apperror.IsNotice(err))
	})
}

func TestGamePlay_ConcurrentMoves(t *testing.T) {
	ctx := context.Background()

	// Given: a fresh game and X submitting every cell at once
	fx := newGamePlayFixture(t, "         ", entity.PlayerX)
	fx.notifier.EXPECT().Ack(mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	fx.notifier.EXPECT().UpdateBoard(mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()

	var (
		wg       sync.WaitGroup
		accepted atomic.Int32
	)

	for cell := range entity.BoardSize * entity.BoardSize {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, err := fx.gamePlay.MakeTurn(ctx, "chatA", cell/entity.BoardSize, cell%entity.BoardSize, "u1", fmt.Sprintf("tok%d", cell))
			if err == nil {
				accepted.Add(1)
				return
			}

			assert.ErrorIs(t, err, apperror.ErrNotYourTurn)
		}()
	}

	wg.Wait()

	// Then: exactly one move was accepted and O is on turn
	assert.Equal(t, int32(1), accepted.Load())

	stored, err := fx.games.GetByID(ctx, "chatA")
	require.NoError(t, err)
	assert.Equal(t, entity.PlayerO, stored.Turn)

	marks := 0
	for _, cell := range stored.Board {
		if cell != entity.EmptyCell {
			marks++
		}
	}
	assert.Equal(t, 1, marks)
}

func TestGamePlay_OnlyLegalStatesAreReachable(t *testing.T) {
	ctx := context.Background()

	// Given: a game and an arbitrary stream of submissions by both players
	fx := newGamePlayFixture(t, "         ", entity.PlayerX)
	fx.notifier.EXPECT().Ack(mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	fx.notifier.EXPECT().UpdateBoard(mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	fx.notifier.EXPECT().NotifyText(mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()

	submissions := []struct {
		user     string
		row, col int
	}{
		{"u2", 0, 0}, {"u1", 0, 0}, {"u1", 0, 1}, {"u2", 0, 0}, {"u2", 1, 1}, {"u1", 1, 0},
		{"u1", 1, 0}, {"u2", 1, 2}, {"u1", 2, 2}, {"u2", 2, 2}, {"u2", 0, 2},
	}

	// Then: after every submission X has as many marks as O, or one more
	for _, submission := range submissions {
		_, _ = fx.gamePlay.MakeTurn(ctx, "chatA", submission.row, submission.col, submission.user, "tok")

		stored, err := fx.games.GetByID(ctx, "chatA")
		if err != nil {
			require.ErrorIs(t, err, apperror.ErrSessionNotFound)
			break
		}

		xs, os := 0, 0
		for _, cell := range stored.Board {
			switch cell {
			case entity.PlayerX:
				xs++
			case entity.PlayerO:
				os++
			}
		}

		assert.Contains(t, []int{0, 1}, xs-os, stored.Board.String())
		if xs == os {
			assert.Equal(t, entity.PlayerX, stored.Turn)
		} else {
			assert.Equal(t, entity.PlayerO, stored.Turn)
		}
		assert.Equal(t, entity.EmptyCell, stored.Board.Winner())
	}
}

type brokenMoves struct{}

func (brokenMoves) ApplyMove(context.Context, string, int, int, string) (*entity.Game, error) {
	return nil, errRedisDown
}
