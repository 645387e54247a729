package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/lingodeck/internal/api/middleware"
)

// NewRouter creates the application router with all routes and middleware.
func NewRouter(svc Service, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewTraceMiddleware(logger))

	cardHandler := NewCardHandler(svc, logger)
	learnerHandler := NewLearnerHandler(svc, logger)
	quizHandler := NewQuizHandler(svc, logger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/catalog", cardHandler.ListCards)
		r.Get("/cards/next", cardHandler.GetNextCard)
		r.Post("/cards/{id}/answer", cardHandler.SubmitAnswer)

		r.Get("/progress", learnerHandler.GetProgress)
		r.Delete("/progress", learnerHandler.ResetProgress)

		r.Get("/favorites", learnerHandler.ListFavorites)
		r.Put("/favorites/{id}", learnerHandler.AddFavorite)
		r.Delete("/favorites/{id}", learnerHandler.RemoveFavorite)
		r.Post("/favorites/{id}/toggle", learnerHandler.ToggleFavorite)

		r.Get("/settings", learnerHandler.GetSettings)
		r.Put("/settings", learnerHandler.UpdateSettings)

		r.Route("/quiz", func(r chi.Router) {
			r.Get("/", quizHandler.State)
			r.Get("/history", quizHandler.History)
			r.Post("/start", quizHandler.Start)
			r.Post("/answer", quizHandler.Answer)
			r.Post("/restart", quizHandler.Restart)
			r.Post("/stop", quizHandler.Stop)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
