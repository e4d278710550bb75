package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
)

const shutdownTimeout = 5 * time.Second

type uMatchmaker interface {
	Join(ctx context.Context, userID, arenaID string) (*entity.Game, error)
	Reset(ctx context.Context, userID, arenaID string) error
}

type uGamePlay interface {
	MakeTurn(ctx context.Context, arenaID string, row, col int, userID, requestToken string) (*entity.Game, error)
}

type handlerFunc func(ctx context.Context, c *client, msg *Message) error

type Server struct {
	logger   *slog.Logger
	upgrader websocket.Upgrader

	hub        *Hub
	matchmaker uMatchmaker
	gamePlay   uGamePlay

	handlers map[string]handlerFunc
}

func New(logger *slog.Logger, hub *Hub, matchmaker uMatchmaker, gamePlay uGamePlay) *Server {
	server := &Server{
		logger: logger.With("component", "websocket"),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},

		hub:        hub,
		matchmaker: matchmaker,
		gamePlay:   gamePlay,

		handlers: make(map[string]handlerFunc),
	}

	server.handlers[actionJoin] = server.handleJoin
	server.handlers[actionMove] = server.handleMove
	server.handlers[actionReset] = server.handleReset

	return server
}

// Handler returns the http handler serving /ws. Inbound events run with ctx, not the request context.
func (that *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.serveWebSocket(ctx, w, r)
	})

	return mux
}

// Start - starts WebSocket server and stops it once ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Handler(ctx),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shutdown websocket server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) serveWebSocket(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "serveWebSocket")

	userID := r.URL.Query().Get("user")
	if userID == "" {
		http.Error(w, "user is required", http.StatusBadRequest)
		return
	}

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("failed to upgrade connection", "error", err)
		return
	}

	defer conn.Close()

	c := &client{userID: userID, conn: conn}
	that.hub.register(c)
	defer that.hub.unregister(c)

	log = log.With("user", userID)
	log.Info("WebSocket connection established")

	that.handleMessages(ctx, log, c)

	log.Info("WebSocket connection closed")
}

// handleMessages reads until the connection closes. Every event gets its own goroutine and
// the connection stays registered until all of them are done.
func (that *Server) handleMessages(ctx context.Context, log *slog.Logger, c *client) {
	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		var message Message
		if err := c.conn.ReadJSON(&message); err != nil {
			var (
				syntaxErr *json.SyntaxError
				typeErr   *json.UnmarshalTypeError
			)
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
				log.Warn("failed to unmarshal message", "error", err)
				continue
			}

			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug("read loop stopped", "error", err)
			}

			return
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Warn("unknown action", "action", message.Action)
			that.sendError(log, c, fmt.Sprintf("unknown action %q", message.Action))

			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()

			if err := handler(ctx, c, &message); err != nil {
				log.Error("error processing message", "action", message.Action, "error", err)
			}
		}()
	}
}

func (that *Server) sendError(log *slog.Logger, c *client, text string) {
	if err := c.send(actionError, TextPayload{Message: text}); err != nil {
		log.Warn("failed to send error", "error", err)
	}
}
