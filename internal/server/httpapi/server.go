// Package httpapi exposes the REST surface of the server: session routes,
// post and comment CRUD, user profiles, file upload and the dog-breed
// directory. Handlers translate between JSON and the services; all domain
// decisions live one layer down.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/28ori/Buddy4Life/internal/logging"
	"github.com/28ori/Buddy4Life/internal/server/auth"
	"github.com/28ori/Buddy4Life/internal/server/services"
)

// Server wires the application services into an http.Handler.
type Server struct {
	sessions *services.SessionService
	users    *services.UserService
	posts    *services.PostService
	files    *services.FileService
	dogs     *services.DogService
	issuer   *auth.Issuer
	logger   logging.Logger
}

func NewServer(
	sessions *services.SessionService,
	users *services.UserService,
	posts *services.PostService,
	files *services.FileService,
	dogs *services.DogService,
	issuer *auth.Issuer,
	logger logging.Logger,
) *Server {
	return &Server{
		sessions: sessions,
		users:    users,
		posts:    posts,
		files:    files,
		dogs:     dogs,
		issuer:   issuer,
		logger:   logger,
	}
}

// Router builds the route tree. Session routes are public; everything else
// sits behind the bearer-token gate.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)
		r.Get("/logout", s.handleLogout)
		r.Get("/refresh", s.handleRefresh)
		r.Post("/google", s.handleGoogleSignIn)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.authenticate)

		r.Route("/post", func(r chi.Router) {
			r.Post("/", s.handleCreatePost)
			r.Get("/", s.handleListPosts)
			r.Get("/{id}", s.handleGetPost)
			r.Put("/{id}", s.handleUpdatePost)
			r.Delete("/{id}", s.handleDeletePost)
			r.Post("/{id}/comment", s.handleAddComment)
			r.Put("/{id}/comment/{commentId}", s.handleUpdateComment)
			r.Delete("/{id}/comment/{commentId}", s.handleDeleteComment)
		})

		r.Route("/user", func(r chi.Router) {
			r.Get("/{id}", s.handleGetUser)
			r.Put("/{id}", s.handleUpdateUser)
			r.Delete("/{id}", s.handleDeleteUser)
		})

		r.Post("/file", s.handleUploadFile)

		r.Route("/dog", func(r chi.Router) {
			r.Get("/", s.handleListBreeds)
			r.Get("/{id}", s.handleGetBreed)
		})
	})

	return r
}
