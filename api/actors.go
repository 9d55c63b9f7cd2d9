package api

import (
	"errors"
	"net/http"

	"github.com/davecheney/fedi/activitypub"
	"github.com/davecheney/fedi/internal/algorithms"
	"github.com/davecheney/fedi/internal/httpx"
	"github.com/davecheney/fedi/internal/to"
)

func ActorsIndex(env *Env, w http.ResponseWriter, r *http.Request) error {
	s, err := env.server(r)
	if err != nil {
		return err
	}
	return to.JSON(w, algorithms.Map(s.Actors(), serialiseActor))
}

func ActorsCreate(env *Env, w http.ResponseWriter, r *http.Request) error {
	s, err := env.server(r)
	if err != nil {
		return err
	}
	var params struct {
		Username    string `schema:"username" json:"username"`
		DisplayName string `schema:"display_name" json:"display_name"`
	}
	if err := httpx.Params(r, &params); err != nil {
		return err
	}
	if params.Username == "" {
		return httpx.Error(http.StatusBadRequest, errors.New("username is required"))
	}
	actor, err := s.CreateActor(params.Username, params.DisplayName)
	if errors.Is(err, activitypub.ErrActorAlreadyExists) {
		return status(err)
	}
	if err != nil {
		return httpx.Error(http.StatusBadRequest, err)
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusCreated)
	return to.JSON(w, serialiseActor(actor))
}

func ActorsShow(env *Env, w http.ResponseWriter, r *http.Request) error {
	s, err := env.server(r)
	if err != nil {
		return err
	}
	id := param(r, "id")
	actor, ok := s.Actor(id)
	if !ok {
		return status(&activitypub.ActorNotFoundError{ID: id, Server: s.Name()})
	}
	return to.JSON(w, serialiseActor(actor))
}

func ActorsDestroy(env *Env, w http.ResponseWriter, r *http.Request) error {
	s, err := env.server(r)
	if err != nil {
		return err
	}
	id := param(r, "id")
	if !s.DeleteActor(id) {
		return status(&activitypub.ActorNotFoundError{ID: id, Server: s.Name()})
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}
