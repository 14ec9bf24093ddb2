package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/Dosada05/bracket-board/docs"
	"github.com/Dosada05/bracket-board/handlers"
	"github.com/Dosada05/bracket-board/middleware"
)

type Options struct {
	JWTSecret           string
	AllowedOrigins      []string
	ExportRatePerMinute int
	RequestTimeout      time.Duration
}

func SetupRoutes(
	router chi.Router,
	opts Options,
	bracketHandler *handlers.BracketHandler,
	matchHandler *handlers.MatchHandler,
	webSocketHandler *handlers.WebSocketHandler,
	healthHandler *handlers.HealthHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/healthz", healthHandler.Health)
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// WebSocket живет дольше таймаута запроса, поэтому регистрируется вне группы с Timeout.
	router.Get("/ws/tournaments/{tournamentID}", webSocketHandler.ServeWs)

	authenticate := middleware.Authenticate(opts.JWTSecret)
	judges := middleware.Authorize(middleware.RoleJudge, middleware.RoleAdmin)
	exportLimiter := middleware.NewRateLimiter(opts.ExportRatePerMinute)

	router.Group(func(r chi.Router) {
		if opts.RequestTimeout > 0 {
			r.Use(chiMiddleware.Timeout(opts.RequestTimeout))
		}

		r.Route("/tournaments/{tournamentID}", func(r chi.Router) {
			r.Get("/bracket", bracketHandler.GetGraph)
			r.Get("/bracket.dot", bracketHandler.GetDOT)
			r.Get("/bracket/participants", bracketHandler.ListParticipants)

			r.With(authenticate, judges, exportLimiter.Handler).
				Post("/bracket/exports", bracketHandler.Export)
		})

		r.With(authenticate, judges).Put("/matches/{matchID}/winner", matchHandler.RecordWinner)
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"the requested resource could not be found"}` + "\n"))
	})
}
