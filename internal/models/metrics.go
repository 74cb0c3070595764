package models

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Engine-level gauges and counters exposed on /metrics.
var (
	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "play_active_sessions",
		Help: "Number of game sessions currently active",
	})

	FinishedMatches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "play_finished_matches_total",
		Help: "Finished matches by game mode",
	}, []string{"game_mode"})

	WaitingRequests = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "play_matchmaking_waiting",
		Help: "Matchmaking requests currently waiting, by mode",
	}, []string{"game_mode"})

	OpenLobbies = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "play_open_lobbies",
		Help: "Lobbies currently assembling",
	})

	OpenTournaments = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "play_open_tournaments",
		Help: "Tournaments not yet finished",
	})
)
