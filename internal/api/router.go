package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/isdelr/bulletin-board/internal/api/handlers"
	"github.com/isdelr/bulletin-board/internal/auth"
	"github.com/isdelr/bulletin-board/internal/logger"
	"github.com/isdelr/bulletin-board/internal/services"
	"github.com/isdelr/bulletin-board/internal/websocket"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Users          services.UserServiceProvider
	Boards         services.BoardServiceProvider
	Posts          services.PostServiceProvider
	Events         services.EventServiceProvider
	Sessions       *auth.Sessions
	Views          handlers.Renderer
	Hub            *websocket.Hub // optional; nil disables the live feed
	AllowedOrigins []string
	Production     bool // drops the local front-end dev origin from CORS
}

// NewRouter creates and configures a new Chi router.
func NewRouter(d Deps) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logger.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(d.Sessions.Middleware(d.Users))

	var feed handlers.FeedPublisher
	if d.Hub != nil {
		feed = d.Hub
	}

	// Initialize handlers
	boardHandler := handlers.NewBoardHandler(d.Boards, d.Posts, d.Views)
	postHandler := handlers.NewPostHandler(d.Posts, d.Boards, feed, d.Views)
	userHandler := handlers.NewUserHandler(d.Users, d.Events, d.Sessions, d.Views)
	apiHandler := handlers.NewAPIHandler(d.Boards, d.Posts)
	eventHandler := handlers.NewEventHandler(d.Events)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	// Server-rendered pages
	r.Group(func(r chi.Router) {
		r.Use(auth.CSRF(d.AllowedOrigins))

		r.Get("/", boardHandler.Home)
		r.Get("/signin", userHandler.Signin)
		r.Post("/signin", userHandler.Signin)
		r.Post("/signout", userHandler.Signout)

		r.Route("/boards", func(r chi.Router) {
			r.Get("/", boardHandler.List)
			r.Get("/{id}", boardHandler.Get)
		})

		r.Route("/posts", func(r chi.Router) {
			r.With(auth.RequireUser).Get("/new", postHandler.Create)
			r.With(auth.RequireUser).Post("/new", postHandler.Create)
			r.Get("/{id}", postHandler.Get)
			r.With(auth.RequireUser).Post("/{id}/notice", postHandler.SetNotice)
		})
	})

	// API versioning
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(cors.Handler(corsOptions(d)))

		r.Route("/boards", func(r chi.Router) {
			r.Get("/", apiHandler.ListBoards)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", apiHandler.GetBoard)
				r.Get("/posts", apiHandler.ListBoardPosts)
			})
		})
		r.Get("/posts", apiHandler.ListPosts)
		r.Get("/posts/{id}", apiHandler.GetPost)
		r.Get("/events", eventHandler.GetRecent)

		if d.Hub != nil {
			r.Get("/ws", handlers.NewWebSocketHandler(d.Hub).Serve)
		}
	})

	r.NotFound(handlers.NotFound(d.Views))

	return r
}

// corsOptions allows the configured origins, plus the local front-end dev
// server outside production. An empty list would make cors allow every
// origin, so that case denies all cross-origin requests instead.
func corsOptions(d Deps) cors.Options {
	origins := append([]string(nil), d.AllowedOrigins...)
	if !d.Production {
		origins = append(origins, "http://localhost:3000")
	}
	opts := cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if len(origins) == 0 {
		opts.AllowOriginFunc = func(r *http.Request, origin string) bool { return false }
	}
	return opts
}
