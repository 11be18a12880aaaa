package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Dosada05/sport-events/handlers"
	"github.com/Dosada05/sport-events/middleware"
	"github.com/Dosada05/sport-events/models"
	"github.com/Dosada05/sport-events/services"
)

// SetupRoutes собирает все HTTP-маршруты приложения на одном роутере.
func SetupRoutes(
	router *chi.Mux,
	authService services.AuthService,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	teamHandler *handlers.TeamHandler,
	eventHandler *handlers.EventHandler,
	venueHandler *handlers.VenueHandler,
	sportTypeHandler *handlers.SportTypeHandler,
	notificationHandler *handlers.NotificationHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Get("/current", authHandler.CurrentUser)
		r.Post("/logout", authHandler.Logout)
	})

	router.Route("/events", func(r chi.Router) {
		r.Get("/", eventHandler.List)
		r.Get("/upcoming", eventHandler.ListUpcoming)
		r.Get("/sport-type/{sportTypeID}", eventHandler.ListBySportType)
		r.Get("/{eventID}", eventHandler.GetByID)

		r.Post("/", eventHandler.Create)
		r.Put("/{eventID}", eventHandler.Update)
		r.Delete("/{eventID}", eventHandler.Delete)

		r.Post("/{eventID}/participate", eventHandler.Participate)
		r.Post("/{eventID}/players/{userID}", eventHandler.RegisterPlayer)
		r.Post("/{eventID}/spectators/{userID}", eventHandler.RegisterSpectator)
		r.Post("/{eventID}/referees/{userID}", eventHandler.RegisterReferee)
	})

	router.Get("/results", eventHandler.ListResults)

	router.Route("/teams", func(r chi.Router) {
		r.Get("/", teamHandler.List)
		r.Get("/{teamID}", teamHandler.GetByID)

		r.Post("/create", teamHandler.Create)
		r.Put("/{teamID}", teamHandler.Update)
		r.Delete("/{teamID}", teamHandler.Delete)

		r.Post("/{teamID}/join", teamHandler.Join)
		r.Post("/{teamID}/leave", teamHandler.Leave)
	})

	router.Route("/users", func(r chi.Router) {
		r.Get("/", userHandler.List)
		r.Get("/players", userHandler.ListPlayers)
		r.Get("/email/{email}", userHandler.GetByEmail)
		r.Get("/{userID}", userHandler.GetByID)

		r.Post("/", userHandler.Create)
		r.Put("/{userID}", userHandler.Update)
		r.Delete("/{userID}", userHandler.Delete)

		r.Post("/{userID}/avatar", userHandler.UploadAvatar)

		// Раздачей ролей занимается только администратор.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(authService))
			r.Use(middleware.Authorize(models.RoleAdmin))

			r.Post("/{userID}/roles/{roleID}", userHandler.AssignRole)
			r.Delete("/{userID}/roles/{roleID}", userHandler.RemoveRole)
		})
	})

	// Справочники читают все, менять их могут организаторы и администраторы.
	router.Route("/venues", func(r chi.Router) {
		r.Get("/", venueHandler.List)
		r.Get("/{venueID}", venueHandler.GetByID)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(authService))
			r.Use(middleware.Authorize(models.RoleOrganizer, models.RoleAdmin))

			r.Post("/", venueHandler.Create)
			r.Put("/{venueID}", venueHandler.Update)
			r.Delete("/{venueID}", venueHandler.Delete)
		})
	})

	router.Route("/sport-types", func(r chi.Router) {
		r.Get("/", sportTypeHandler.List)
		r.Get("/{sportTypeID}", sportTypeHandler.GetByID)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(authService))
			r.Use(middleware.Authorize(models.RoleOrganizer, models.RoleAdmin))

			r.Post("/", sportTypeHandler.Create)
			r.Put("/{sportTypeID}", sportTypeHandler.Update)
			r.Delete("/{sportTypeID}", sportTypeHandler.Delete)
		})
	})

	// Уведомления доступны только владельцу активной сессии.
	router.Route("/notifications", func(r chi.Router) {
		r.Use(middleware.Authenticate(authService))

		r.Get("/", notificationHandler.List)
		r.Put("/{notificationID}/read", notificationHandler.MarkRead)
		r.Delete("/all", notificationHandler.DeleteAll)
	})

	router.Get("/ws/events/{eventID}", webSocketHandler.ServeWs)
}
