package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/davecheney/fedi/activitypub"
	"github.com/davecheney/fedi/internal/algorithms"
	"github.com/davecheney/fedi/internal/httpx"
	"github.com/davecheney/fedi/internal/to"
	"github.com/davecheney/fedi/internal/webfinger"
)

func FollowersIndex(env *Env, w http.ResponseWriter, r *http.Request) error {
	s, err := env.server(r)
	if err != nil {
		return err
	}
	return to.JSON(w, algorithms.Map(s.Followers(param(r, "id")), serialiseActor))
}

func FollowingIndex(env *Env, w http.ResponseWriter, r *http.Request) error {
	s, err := env.server(r)
	if err != nil {
		return err
	}
	return to.JSON(w, algorithms.Map(s.Following(param(r, "id")), serialiseActor))
}

func FollowingShow(env *Env, w http.ResponseWriter, r *http.Request) error {
	s, err := env.server(r)
	if err != nil {
		return err
	}
	target, err := webfinger.Parse(param(r, "target"))
	if err != nil {
		return httpx.Error(http.StatusBadRequest, err)
	}
	return to.JSON(w, map[string]any{
		"following": s.IsFollowing(param(r, "id"), target.String()),
	})
}

func FollowCreate(env *Env, w http.ResponseWriter, r *http.Request) error {
	return changeFollow(env, w, r, activitypub.Server.Follow)
}

func FollowDestroy(env *Env, w http.ResponseWriter, r *http.Request) error {
	return changeFollow(env, w, r, activitypub.Server.Unfollow)
}

func changeFollow(env *Env, w http.ResponseWriter, r *http.Request, fn func(activitypub.Server, context.Context, string, string) (bool, error)) error {
	s, err := env.server(r)
	if err != nil {
		return err
	}
	var params struct {
		Target string `schema:"target" json:"target"`
	}
	if err := httpx.Params(r, &params); err != nil {
		return err
	}
	if params.Target == "" {
		return httpx.Error(http.StatusBadRequest, errors.New("target is required"))
	}
	target, err := webfinger.Parse(params.Target)
	if err != nil {
		return httpx.Error(http.StatusBadRequest, err)
	}
	changed, err := fn(s, r.Context(), param(r, "id"), target.String())
	if err != nil {
		return status(err)
	}
	return to.JSON(w, map[string]any{
		"changed": changed,
	})
}
