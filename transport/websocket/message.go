package websocket

import (
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
)

const (
	actionJoin  = "join"
	actionMove  = "move"
	actionReset = "reset"

	actionText        = "text"
	actionBoard       = "board"
	actionBoardUpdate = "board:update"
	actionAck         = "ack"
	actionError       = "error"
)

const writeTimeout = 10 * time.Second

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type JoinPayload struct {
	Arena string `json:"arena"`
}

type MovePayload struct {
	Arena string `json:"arena"`
	Row   int    `json:"row"`
	Col   int    `json:"col"`
	Token string `json:"token,omitempty"`
}

type ResetPayload struct {
	Arena string `json:"arena"`
}

type TextPayload struct {
	Message string `json:"message"`
}

type AckPayload struct {
	Token   string `json:"token"`
	Message string `json:"message,omitempty"`
}

// Cell is a single button of a rendered board. Data is the `arena,row,col` callback a move sends back.
type Cell struct {
	Label string `json:"label"`
	Data  string `json:"data"`
}

type BoardPayload struct {
	Handle  string   `json:"handle"`
	Arena   string   `json:"arena,omitempty"`
	Caption string   `json:"caption,omitempty"`
	Board   string   `json:"board"`
	Cells   [][]Cell `json:"cells"`
}

func renderCells(arenaID string, board entity.Board) [][]Cell {
	rows := board.Rows()
	cells := make([][]Cell, 0, len(rows))

	for row, marks := range rows {
		line := make([]Cell, 0, len(marks))
		for col, mark := range marks {
			line = append(line, Cell{
				Label: mark.Symbol(),
				Data:  arenaID + "," + strconv.Itoa(row) + "," + strconv.Itoa(col),
			})
		}

		cells = append(cells, line)
	}

	return cells
}

// client is one websocket connection of a user. Writes are serialized by mu.
type client struct {
	userID string
	conn   *websocket.Conn

	mu sync.Mutex
}

func (that *client) send(action string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	if err = that.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	if err = that.conn.WriteJSON(Message{Action: action, Payload: raw}); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}
