package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func NewRouter(apiHandler *APIHandler, allowAllOrigins bool) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)       // Basic request logging
	r.Use(middleware.Recoverer)    // Recover from panics
	r.Use(middleware.StripSlashes) // Ensure consistent path handling

	corsOpts := cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}
	if allowAllOrigins {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	// Page and fragments
	r.Get("/", apiHandler.PageHandler)
	r.Get("/overlay", apiHandler.OverlayHandler)
	r.Get("/ws", apiHandler.WebSocketHandler)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", apiHandler.HealthHandler)

		// Navigation
		r.Get("/state", apiHandler.StateHandler)
		r.Post("/navigate", apiHandler.NavigateHandler)

		// Scene
		r.Get("/scene", apiHandler.SceneHandler)
		r.Post("/scene/pointer", apiHandler.PointerHandler)
		r.Post("/scene/click", apiHandler.ClickHandler)

		r.Get("/content/skills", apiHandler.SkillsHandler)

		// Chat widget
		r.Get("/chat", apiHandler.ChatStateHandler)
		r.Get("/chat/history", apiHandler.ChatHistoryHandler)
		r.Post("/chat/toggle", apiHandler.ChatToggleHandler)
		r.Post("/chat/messages", apiHandler.PostMessageHandler)
	})

	return r
}
