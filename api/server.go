package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aliraza-a/portfolio-backend/auth"
	"github.com/aliraza-a/portfolio-backend/config"
	"github.com/aliraza-a/portfolio-backend/database"
	"github.com/aliraza-a/portfolio-backend/services"
	"github.com/aliraza-a/portfolio-backend/storage"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
)

type Server struct {
	*http.Server
	startupTime time.Time
}

func NewServer(db database.Database, gate *auth.Gate, blobs *storage.Client, notifier *services.Notifier) (Server, error) {
	c := config.New()

	port := config.GetString(c, "PORT", "8080")
	address := fmt.Sprintf("0.0.0.0:%s", port) // Bind to 0.0.0.0 for external access

	startupTime := time.Now()

	router, err := newRouter(c, startupTime, db, gate, blobs, notifier)
	if err != nil {
		return Server{}, err
	}

	readTimeout := time.Duration(config.GetInt(c, "READ_TIMEOUT_SECONDS", 60)) * time.Second
	writeTimeout := time.Duration(config.GetInt(c, "WRITE_TIMEOUT_SECONDS", 60)) * time.Second
	idleTimeout := time.Duration(config.GetInt(c, "IDLE_TIMEOUT_SECONDS", 120)) * time.Second

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return Server{server, startupTime}, nil
}

func newRouter(
	c map[string]string,
	startupTime time.Time,
	db database.Database,
	gate *auth.Gate,
	blobs *storage.Client,
	notifier *services.Notifier,
) (*chi.Mux, error) {
	router := chi.NewRouter()
	router.Use(LogInternalServerErrors)

	acceptedOrigins := strings.Split(config.GetString(c, "ACCEPTED_ORIGINS", "*"), ",")
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   acceptedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	contactLimiter, err := NewIPRateLimiter(config.GetString(c, "CONTACT_IP_RATE", "10-M"))
	if err != nil {
		return nil, fmt.Errorf("invalid contact rate limit: %w", err)
	}

	isProduction := config.GetString(c, "ENVIRONMENT", "development") == "production"
	secureCookies := config.GetBool(c, "SECURE_COOKIES", isProduction)
	handlers := initializeHandlers(db, gate, blobs, notifier, secureCookies)
	authMiddleware := newAuthMiddleware(gate)

	setupRoutes(router, handlers, authMiddleware, contactLimiter, startupTime)

	return router, nil
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	errChannel <- s.ListenAndServe()
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
