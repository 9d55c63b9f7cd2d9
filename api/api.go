// Package api exposes a federation of servers over HTTP.
package api

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/davecheney/fedi/activitypub"
	"github.com/davecheney/fedi/internal/httpx"
	"github.com/go-chi/chi/v5"
	"golang.org/x/exp/slog"
)

// A Directory resolves servers by name and lists the names it knows.
type Directory interface {
	activitypub.Directory
	Names() []string
}

type Env struct {
	// Dir resolves the servers named in request paths.
	Dir    Directory
	Logger *slog.Logger
}

func (e *Env) Log() *slog.Logger {
	return e.Logger
}

// server returns the server named by the {server} path parameter.
func (e *Env) server(r *http.Request) (activitypub.Server, error) {
	name := param(r, "server")
	s, ok := e.Dir.Resolve(name)
	if !ok {
		return nil, httpx.Error(http.StatusNotFound, &activitypub.ServerNotFoundError{Name: name})
	}
	return s, nil
}

// param returns the unescaped value of the path parameter key.
func param(r *http.Request, key string) string {
	v := chi.URLParam(r, key)
	if u, err := url.PathUnescape(v); err == nil {
		return u
	}
	return v
}

// New returns a handler serving the servers registered in dir.
func New(dir Directory, logger *slog.Logger) http.Handler {
	env := &Env{
		Dir:    dir,
		Logger: logger,
	}
	envFn := func(*http.Request) *Env { return env }

	r := chi.NewRouter()
	r.Get("/servers", httpx.HandlerFunc(envFn, ServersIndex))
	r.Route("/servers/{server}", func(r chi.Router) {
		r.Get("/activities", httpx.HandlerFunc(envFn, ActivitiesIndex))
		r.Get("/actors", httpx.HandlerFunc(envFn, ActorsIndex))
		r.Post("/actors", httpx.HandlerFunc(envFn, ActorsCreate))
		r.Route("/actors/{id}", func(r chi.Router) {
			r.Get("/", httpx.HandlerFunc(envFn, ActorsShow))
			r.Delete("/", httpx.HandlerFunc(envFn, ActorsDestroy))
			r.Get("/followers", httpx.HandlerFunc(envFn, FollowersIndex))
			r.Get("/following", httpx.HandlerFunc(envFn, FollowingIndex))
			r.Get("/following/{target}", httpx.HandlerFunc(envFn, FollowingShow))
			r.Post("/follow", httpx.HandlerFunc(envFn, FollowCreate))
			r.Post("/unfollow", httpx.HandlerFunc(envFn, FollowDestroy))
			r.Get("/outbox", httpx.HandlerFunc(envFn, OutboxIndex))
			r.Post("/outbox", httpx.HandlerFunc(envFn, OutboxCreate))
			r.Get("/inbox", httpx.HandlerFunc(envFn, InboxIndex))
		})
	})
	return r
}

// status maps errors from the federation onto HTTP status codes.
func status(err error) error {
	switch {
	case errors.Is(err, activitypub.ErrActorNotFound), errors.Is(err, activitypub.ErrServerNotFound):
		return httpx.Error(http.StatusNotFound, err)
	case errors.Is(err, activitypub.ErrActorAlreadyExists):
		return httpx.Error(http.StatusConflict, err)
	default:
		return err
	}
}
