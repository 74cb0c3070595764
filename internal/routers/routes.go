package routers

import (
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pongarena/play/internal/gateway"
	"pongarena/play/internal/handlers"
)

// PlayRoutes mounts the engine API. The gateway is optional; without a
// push transport the /ws endpoint is simply absent.
func PlayRoutes(r *chi.Mux, s *handlers.Server, gw *gateway.Gateway) {
	r.Get("/healthz", s.HealthHandler)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/guest", s.GuestTokenHandler)

		r.Post("/play", s.PlayHandler)
		r.Post("/play/cancel", s.CancelPlayHandler)

		r.Route("/game", func(r chi.Router) {
			r.Post("/", s.CreateGameHandler)
			r.Get("/", s.GameStatusHandler)
			r.Post("/score", s.ScoreHandler)
			r.Post("/forfeit", s.ForfeitHandler)
			r.Get("/history", s.HistoryHandler)
		})

		r.Route("/lobby", func(r chi.Router) {
			r.Post("/", s.CreateLobbyHandler)
			r.Get("/", s.CurrentLobbyHandler)
			r.Post("/{code}/join", s.JoinLobbyHandler)
			r.Post("/{code}/leave", s.LeaveLobbyHandler)
		})

		r.Route("/tournament", func(r chi.Router) {
			r.Post("/", s.CreateTournamentHandler)
			r.Get("/", s.CurrentTournamentHandler)
			r.Get("/search", s.SearchTournamentsHandler)
			r.Get("/{code}", s.GetTournamentHandler)
			r.Post("/{code}/join", s.JoinTournamentHandler)
			r.Post("/{code}/leave", s.LeaveTournamentHandler)
			r.Post("/{code}/ban", s.BanHandler)
			r.Post("/{code}/invite", s.InviteHandler)
			r.Get("/{code}/messages", s.MessagesHandler)
			r.Post("/{code}/messages", s.PostMessageHandler)
		})

		if gw != nil {
			r.HandleFunc("/ws", gw.WsHandler)
		}
	})
}
