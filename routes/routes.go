package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"ABREV_GO/handlers"
	"ABREV_GO/middleware"
)

// Deps reúne os serviços injetados nas rotas.
type Deps struct {
	Store     handlers.Store
	DB        handlers.Pinger
	Limiter   *middleware.RateLimiter
	Sanitizer *middleware.Sanitizer
	JwtSecret []byte
	Log       *zap.Logger
}

func SetupRoutes(d Deps) *mux.Router {
	router := mux.NewRouter()
	limited := d.Limiter.Middleware

	// Health Check
	router.HandleFunc("/health", handlers.HealthCheckHandler(d.DB, d.Log)).Methods(http.MethodGet)

	// Rotas de usuário
	router.Handle("/users", limited(handlers.CreateUserHandler(d.Store, d.Log))).Methods(http.MethodPost)
	router.Handle("/login", limited(handlers.LoginHandler(d.Store, d.JwtSecret, d.Log))).Methods(http.MethodPost)

	// Gerador e leitor PIX públicos
	router.Handle("/pix/code", limited(handlers.PixCodeHandler(d.Log))).Methods(http.MethodPost)
	router.Handle("/pix/decode", limited(handlers.PixDecodeHandler(d.Log))).Methods(http.MethodPost)

	// Página biolink pública
	router.Handle("/p/{slug}/pix", limited(handlers.BiolinkPixHandler(d.Store, d.Log))).Methods(http.MethodGet)

	// Perfis PIX do usuário autenticado
	profiles := router.PathPrefix("/pix/profiles").Subrouter()
	profiles.Use(middleware.Auth(d.JwtSecret))
	profiles.HandleFunc("", handlers.CreateProfileHandler(d.Store, d.Sanitizer, d.Log)).Methods(http.MethodPost)
	profiles.HandleFunc("", handlers.ListProfilesHandler(d.Store, d.Log)).Methods(http.MethodGet)
	profiles.HandleFunc("/{id}", handlers.DeleteProfileHandler(d.Store, d.Log)).Methods(http.MethodDelete)

	return router
}
