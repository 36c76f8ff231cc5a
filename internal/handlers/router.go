package handlers

import (
	"net/http"

	"volunteer-network-backend/internal/middleware"
	"volunteer-network-backend/internal/services"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// Router bundles the handlers served by the API
type Router struct {
	Connections *ConnectionHandler
	Feed        *FeedHandler
	Users       *UserHandler
	WebSocket   *WebSocketHandler

	Identity            *services.IdentityService
	AllowHeaderIdentity bool
}

// Handler builds the chi router with all routes and middleware
func (rt *Router) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.CORS)

	r.Get("/healthz", Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Identity(rt.Identity, rt.AllowHeaderIdentity))

		r.Get("/me", rt.Users.Me)

		r.Route("/connections", func(r chi.Router) {
			r.Get("/", rt.Connections.GetConnections)
			r.Get("/requests", rt.Connections.GetRequests)
			r.Post("/requests", rt.Connections.SendRequest)
			r.Post("/requests/{requester_id}/accept", rt.Connections.AcceptRequest)
			r.Post("/requests/{requester_id}/reject", rt.Connections.RejectRequest)
			r.Get("/suggestions", rt.Connections.GetSuggestions)
			r.Delete("/{user_id}", rt.Connections.RemoveConnection)
		})

		r.Get("/feed", rt.Feed.GetFeed)

		r.Route("/posts", func(r chi.Router) {
			r.Post("/", rt.Feed.CreatePost)
			r.Post("/images", rt.Feed.ImageUploadURL)
			r.Post("/{post_id}/like", rt.Feed.LikePost)
			r.Post("/{post_id}/comments", rt.Feed.AddComment)
		})
	})

	r.Get("/ws", rt.WebSocket.HandleWebSocket)

	return r
}
