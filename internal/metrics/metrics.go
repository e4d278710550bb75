package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result labels shared by the counters below.
const (
	ResultAccepted = "accepted"
	ResultRejected = "rejected"
	ResultError    = "error"
	ResultWaiting  = "waiting"
	ResultPaired   = "paired"

	OutcomeWin  = "win"
	OutcomeDraw = "draw"
)

var (
	// GamesStarted counts sessions created by pairing.
	GamesStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tictactoe_games_started_total",
			Help: "Total games created by pairing two waiting players",
		},
	)

	// GamesFinished counts terminated sessions by outcome (win/draw).
	GamesFinished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tictactoe_games_finished_total",
			Help: "Total games finished by outcome",
		},
		[]string{"outcome"},
	)

	MovesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tictactoe_moves_total",
			Help: "Total move submissions by result",
		},
		[]string{"result"},
	)

	JoinsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tictactoe_joins_total",
			Help: "Total join requests by result",
		},
		[]string{"result"},
	)

	// QueueWait tracks how long paired players waited in the queue
	QueueWait = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tictactoe_queue_wait_seconds",
			Help:    "Time a player spent waiting for an opponent",
			Buckets: []float64{.1, .5, 1, 5, 15, 30, 60, 300, 900},
		},
	)
)
