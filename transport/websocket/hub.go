package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
	"github.com/rocketscienceinc/tictactoe-arena/internal/pkg"
)

var (
	ErrUserOffline   = errors.New("user has no open connection")
	ErrUnknownHandle = errors.New("unknown render handle")
	ErrUnknownToken  = errors.New("unknown request token")
)

type renderedBoard struct {
	userID  string
	arenaID string
}

// Hub tracks open connections and delivers game events to them. It implements usecase.Notifier.
type Hub struct {
	logger *slog.Logger

	mu      sync.RWMutex
	clients map[string]map[*client]struct{}
	boards  map[string]renderedBoard
	pending map[string]*client
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger: logger.With("component", "hub"),

		clients: make(map[string]map[*client]struct{}),
		boards:  make(map[string]renderedBoard),
		pending: make(map[string]*client),
	}
}

func (that *Hub) register(c *client) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.clients[c.userID] == nil {
		that.clients[c.userID] = make(map[*client]struct{})
	}
	that.clients[c.userID][c] = struct{}{}
}

func (that *Hub) unregister(c *client) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.clients[c.userID], c)
	if len(that.clients[c.userID]) == 0 {
		delete(that.clients, c.userID)
	}

	for token, owner := range that.pending {
		if owner == c {
			delete(that.pending, token)
		}
	}

	that.logger.Debug("connection unregistered", "user", c.userID, "remaining", len(that.clients[c.userID]))
}

// expect remembers which connection an Ack for token belongs to.
func (that *Hub) expect(token string, c *client) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.pending[token] = c
}

// forget drops a token that was never acknowledged.
func (that *Hub) forget(token string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.pending, token)
}

func (that *Hub) connectionsOf(userID string) []*client {
	that.mu.RLock()
	defer that.mu.RUnlock()

	conns := make([]*client, 0, len(that.clients[userID]))
	for c := range that.clients[userID] {
		conns = append(conns, c)
	}

	return conns
}

func (that *Hub) broadcast(userID, action string, payload any) error {
	conns := that.connectionsOf(userID)
	if len(conns) == 0 {
		return fmt.Errorf("%w: %s", ErrUserOffline, userID)
	}

	var errs []error
	for _, c := range conns {
		if err := c.send(action, payload); err != nil {
			errs = append(errs, err)
		}
	}

	// one live connection is enough
	if len(errs) == len(conns) {
		return errors.Join(errs...)
	}

	return nil
}

func (that *Hub) NotifyText(_ context.Context, userID, message string) error {
	return that.broadcast(userID, actionText, TextPayload{Message: message})
}

func (that *Hub) NotifyBoard(_ context.Context, userID string, board entity.Board, arenaID, caption string) (string, error) {
	handle := pkg.GenerateRenderHandle()

	err := that.broadcast(userID, actionBoard, BoardPayload{
		Handle:  handle,
		Arena:   arenaID,
		Caption: caption,
		Board:   board.String(),
		Cells:   renderCells(arenaID, board),
	})
	if err != nil {
		return "", err
	}

	that.mu.Lock()
	that.boards[handle] = renderedBoard{userID: userID, arenaID: arenaID}
	that.mu.Unlock()

	return handle, nil
}

func (that *Hub) UpdateBoard(_ context.Context, handle string, board entity.Board) error {
	that.mu.RLock()
	rendered, ok := that.boards[handle]
	that.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownHandle, handle)
	}

	if board.Winner() != entity.EmptyCell || board.IsDraw() {
		that.mu.Lock()
		delete(that.boards, handle)
		that.mu.Unlock()
	}

	return that.broadcast(rendered.userID, actionBoardUpdate, BoardPayload{
		Handle: handle,
		Board:  board.String(),
		Cells:  renderCells(rendered.arenaID, board),
	})
}

func (that *Hub) ReleaseBoards(_ context.Context, handles []string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	for _, handle := range handles {
		delete(that.boards, handle)
	}

	return nil
}

func (that *Hub) Ack(_ context.Context, requestToken, message string) error {
	that.mu.Lock()
	c, ok := that.pending[requestToken]
	delete(that.pending, requestToken)
	that.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownToken, requestToken)
	}

	return c.send(actionAck, AckPayload{Token: requestToken, Message: message})
}
