package entity

import "time"

// WaitingEntry is a user queued for an opponent, tagged with the arena the join came from.
type WaitingEntry struct {
	UserID   string    `json:"user_id"`
	ArenaID  string    `json:"arena_id"`
	Seq      int64     `json:"seq"`
	QueuedAt time.Time `json:"queued_at"`
}

// Pairing is the result of a successful pairing: X was queued first.
type Pairing struct {
	X WaitingEntry
	O WaitingEntry
}

func (that *Pairing) Entries() []WaitingEntry {
	return []WaitingEntry{that.X, that.O}
}

// Includes reports whether userID is one of the paired users.
func (that *Pairing) Includes(userID string) bool {
	return that.X.UserID == userID || that.O.UserID == userID
}
