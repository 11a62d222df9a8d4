package routes

import (
	"github.com/Dosada05/talent-platform/handlers"
	"github.com/Dosada05/talent-platform/middleware"
	"github.com/Dosada05/talent-platform/models"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func SetupRoutes(
	router *chi.Mux,
	jwtSecret string,
	registrationHandler *handlers.RegistrationHandler,
	authHandler *handlers.AuthHandler,
	verificationHandler *handlers.VerificationHandler,
	consentHandler *handlers.ConsentHandler,
	profileHandler *handlers.ProfileHandler,
	adminHandler *handlers.AdminHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate([]byte(jwtSecret))

	// Public registration and verification surface.
	router.Post("/register/player", registrationHandler.RegisterPlayer)
	router.Post("/register/{role}", registrationHandler.RegisterOther)
	router.Post("/login", authHandler.Login)
	router.Post("/resend-verification", authHandler.ResendVerification)
	router.Get("/verify-email/{token}", verificationHandler.VerifyEmail)

	// Guardian consent surface, reached from the emailed link.
	router.Route("/consent/{token}", func(r chi.Router) {
		r.Get("/", consentHandler.Show)
		r.Post("/", consentHandler.Resolve)
	})

	// Authenticated self-service, player-profile only for now.
	router.Route("/me", func(r chi.Router) {
		r.Use(authenticate)
		r.Use(middleware.RequireRole(models.RolePlayer))
		r.Get("/player-profile", profileHandler.GetMyPlayerProfile)
		r.Put("/player-profile", profileHandler.UpdateMyPlayerProfile)
		r.Post("/photo", profileHandler.UploadMyPhoto)
	})

	// Staff console.
	router.Route("/admin", func(r chi.Router) {
		r.Use(authenticate)
		r.Use(middleware.RequireStaff)
		r.Get("/consent-requests", adminHandler.ListConsentRequests)
		r.Get("/consent-requests/ws", webSocketHandler.ConsentFeed)
		r.Get("/users", adminHandler.ListUsers)
	})
}
