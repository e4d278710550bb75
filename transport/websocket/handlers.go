package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-arena/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-arena/internal/pkg"
)

var errArenaRequired = errors.New("arena is required")

// Use cases notify players about rejected requests themselves, so notices are not errors here.
func (that *Server) handleJoin(ctx context.Context, c *client, msg *Message) error {
	log := that.logger.With("method", "handleJoin", "user", c.userID)

	var payload JoinPayload
	if err := that.decode(c, msg, &payload); err != nil {
		return err
	}

	if payload.Arena == "" {
		that.sendError(log, c, errArenaRequired.Error())
		return errArenaRequired
	}

	game, err := that.matchmaker.Join(ctx, c.userID, payload.Arena)
	if err != nil {
		if apperror.IsNotice(err) {
			log.Info("join rejected", "arena", payload.Arena, "reason", err)
			return nil
		}

		return fmt.Errorf("failed to join: %w", err)
	}

	if game != nil {
		log.Info("join started a game", "arena", game.ArenaID)
	}

	return nil
}

func (that *Server) handleMove(ctx context.Context, c *client, msg *Message) error {
	log := that.logger.With("method", "handleMove", "user", c.userID)

	var payload MovePayload
	if err := that.decode(c, msg, &payload); err != nil {
		return err
	}

	if payload.Arena == "" {
		that.sendError(log, c, errArenaRequired.Error())
		return errArenaRequired
	}

	token := payload.Token
	if token == "" {
		token = pkg.GenerateRequestToken()
	}

	that.hub.expect(token, c)
	defer that.hub.forget(token)

	_, err := that.gamePlay.MakeTurn(ctx, payload.Arena, payload.Row, payload.Col, c.userID, token)
	if err != nil {
		if apperror.IsNotice(err) {
			log.Info("move rejected", "arena", payload.Arena, "reason", err)
			return nil
		}

		return fmt.Errorf("failed to make turn: %w", err)
	}

	return nil
}

func (that *Server) handleReset(ctx context.Context, c *client, msg *Message) error {
	log := that.logger.With("method", "handleReset", "user", c.userID)

	var payload ResetPayload
	if err := that.decode(c, msg, &payload); err != nil {
		return err
	}

	if payload.Arena == "" {
		that.sendError(log, c, errArenaRequired.Error())
		return errArenaRequired
	}

	if err := that.matchmaker.Reset(ctx, c.userID, payload.Arena); err != nil {
		return fmt.Errorf("failed to reset arena: %w", err)
	}

	return nil
}

func (that *Server) decode(c *client, msg *Message, v any) error {
	if len(msg.Payload) == 0 {
		return nil
	}

	if err := json.Unmarshal(msg.Payload, v); err != nil {
		that.sendError(that.logger, c, "invalid payload")
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	return nil
}
