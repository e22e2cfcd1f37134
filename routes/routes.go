package routes

import (
	"log/slog"
	"net/http"
	"time"

	_ "github.com/Dosada05/bracket-system/docs" // регистрирует swagger-спецификацию
	"github.com/Dosada05/bracket-system/handlers"
	"github.com/Dosada05/bracket-system/metrics"
	"github.com/Dosada05/bracket-system/middleware"
	"github.com/Dosada05/bracket-system/models"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	JWTSecret      string
	AllowedOrigins []string
	// RequestLogger is optional; main passes chi's request logger.
	RequestLogger func(http.Handler) http.Handler
	Logger        *slog.Logger
	// Metrics, when set, instruments every route and serves /metrics.
	Metrics *metrics.Metrics
}

type Handlers struct {
	Auth       *handlers.AuthHandler
	Tournament *handlers.TournamentHandler
	Match      *handlers.MatchHandler
	WebSocket  *handlers.WebSocketHandler
}

func SetupRoutes(router chi.Router, opts Options, h Handlers) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	if opts.RequestLogger != nil {
		router.Use(opts.RequestLogger)
	}
	router.Use(chiMiddleware.Recoverer)
	if opts.Metrics != nil {
		router.Use(opts.Metrics.Middleware)
	}
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate(opts.JWTSecret, opts.Logger)
	hostOnly := middleware.Authorize(models.RoleHost)

	router.Get("/", handlers.Root)
	router.Get("/health", handlers.Health)
	if opts.Metrics != nil {
		router.Handle("/metrics", opts.Metrics.Handler())
	}
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// Websocket без таймаута: соединение живет долго
	router.Get("/ws/tournaments/{tournamentID}", h.WebSocket.ServeWs)

	router.Group(func(r chi.Router) {
		r.Use(chiMiddleware.Timeout(30 * time.Second))

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Auth.Register)
			r.Post("/login", h.Auth.Login)
		})

		r.Route("/tournaments", func(r chi.Router) {
			r.Get("/", h.Tournament.ListHandler)
			r.With(authenticate, hostOnly).Post("/", h.Tournament.CreateHandler)

			r.Route("/{tournamentID}", func(r chi.Router) {
				r.Get("/", h.Tournament.GetByIDHandler)
				r.Get("/entrants", h.Tournament.ListEntrantsHandler)
				r.Get("/matches", h.Match.ListByTournamentHandler)

				r.Group(func(r chi.Router) {
					r.Use(authenticate, hostOnly)
					r.Post("/entrants", h.Tournament.AddEntrantHandler)
					r.Post("/bracket/generate", h.Tournament.GenerateBracketHandler)
				})
			})
		})

		r.Route("/matches/{matchID}", func(r chi.Router) {
			r.Get("/", h.Match.GetByIDHandler)
			r.With(authenticate, hostOnly).Post("/score", h.Match.RecordScoreHandler)
		})
	})
}
