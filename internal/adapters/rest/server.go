package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	core_port "landmark-service/internal/core/port"
)

type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

// Handlers groups the route handlers of the API.
type Handlers struct {
	Landmarks *LandmarkHandler
	Social    *SocialHandler
	Auth      *AuthHandler
	Uploads   *UploadHandler
}

type Server struct {
	httpServer *http.Server
	logger     core_port.LoggerPort
}

func NewServer(cfg ServerConfig, handlers Handlers, auth *AuthMiddleware, metrics *Metrics, baseLogger core_port.LoggerPort) *Server {
	router := NewRouter(cfg, handlers, auth, metrics, baseLogger)
	return &Server{
		httpServer: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: baseLogger.WithFields(core_port.Fields{"component": "rest_server"}),
	}
}

// NewRouter builds the chi router with every route of the API.
func NewRouter(cfg ServerConfig, h Handlers, auth *AuthMiddleware, metrics *Metrics, baseLogger core_port.LoggerPort) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP, LoggerMiddleware(baseLogger), middleware.Recoverer)
	if metrics != nil {
		r.Use(metrics.Middleware)
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "X-Trace-ID"},
		ExposedHeaders:   []string{"X-Trace-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if metrics != nil {
		r.Handle("/metrics", metrics.Handler())
	}
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		// public
		r.Get("/landmarks", h.Landmarks.ListLandmarks)
		r.Get("/landmarks/home", h.Landmarks.GetHome)
		r.Get("/landmarks/nearby", h.Landmarks.FindNearby)
		r.Get("/landmarks/{landmarkID}", h.Landmarks.GetLandmark)
		r.Get("/images/{fileID}", h.Landmarks.GetImage)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/sign-up", h.Auth.SignUp)
			r.Post("/sign-in", h.Auth.SignIn)
			r.Post("/password-reset", h.Auth.RequestPasswordReset)
			r.Post("/password-reset/confirm", h.Auth.ConfirmPasswordReset)
			r.Get("/oauth/google/login", h.Auth.OAuthLogin)
			r.Get("/oauth/google/callback", h.Auth.OAuthCallback)
		})

		// signed in
		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)

			r.Post("/landmarks", h.Landmarks.CreateLandmark)
			r.Put("/landmarks/{landmarkID}", h.Landmarks.UpdateLandmark)
			r.Delete("/landmarks/{landmarkID}", h.Landmarks.DeleteLandmark)
			r.Put("/landmarks/{landmarkID}/like", h.Social.ToggleLike)
			r.Put("/landmarks/{landmarkID}/favourite", h.Social.ToggleFavourite)
			r.Get("/favourites", h.Social.GetFavourites)

			r.Get("/profile", h.Auth.GetProfile)
			r.Patch("/profile", h.Auth.UpdateProfile)
			r.Get("/profile/landmarks", h.Landmarks.ListOwnLandmarks)

			r.Get("/uploads/subscribe", h.Uploads.Subscribe)
		})
	})

	return r
}

func (s *Server) Start() error {
	s.logger.Info("Starting REST API server", core_port.Fields{"address": s.httpServer.Addr})
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.logger.Error("Could not start server", err, nil)
		return fmt.Errorf("could not start server: %w", err)
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping REST API server...", nil)
	return s.httpServer.Shutdown(ctx)
}
