package api

import (
	"errors"
	"iter"
	"net/http"
	"strconv"

	"github.com/davecheney/fedi/activitypub"
	"github.com/davecheney/fedi/internal/httpx"
	"github.com/davecheney/fedi/internal/to"
	"github.com/davecheney/fedi/models"
)

func ActivitiesIndex(env *Env, w http.ResponseWriter, r *http.Request) error {
	s, err := env.server(r)
	if err != nil {
		return err
	}
	return page(w, r, s.AllActivities())
}

func OutboxIndex(env *Env, w http.ResponseWriter, r *http.Request) error {
	s, err := env.server(r)
	if err != nil {
		return err
	}
	return page(w, r, s.Outbox(param(r, "id")))
}

func InboxIndex(env *Env, w http.ResponseWriter, r *http.Request) error {
	s, err := env.server(r)
	if err != nil {
		return err
	}
	return page(w, r, s.Inbox(param(r, "id")))
}

func OutboxCreate(env *Env, w http.ResponseWriter, r *http.Request) error {
	s, err := env.server(r)
	if err != nil {
		return err
	}
	var params struct {
		Type    string `schema:"type" json:"type"`
		Content string `schema:"content" json:"content"`
	}
	if err := httpx.Params(r, &params); err != nil {
		return err
	}
	if params.Type == "" {
		params.Type = models.Create.String()
	}
	typ, err := models.ParseActivityType(params.Type)
	if err != nil {
		return httpx.Error(http.StatusBadRequest, err)
	}
	id := param(r, "id")
	if _, ok := s.Actor(id); !ok {
		return status(&activitypub.ActorNotFoundError{ID: id, Server: s.Name()})
	}
	activity, err := s.CreateActivity(r.Context(), id, typ, params.Content)
	if err != nil {
		return status(err)
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusCreated)
	return to.JSON(w, serialiseActivity(activity))
}

// page writes up to limit activities from seq, or all of them if the request
// has no limit.
func page(w http.ResponseWriter, r *http.Request, seq iter.Seq[*models.Activity]) error {
	limit := -1
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return httpx.Error(http.StatusBadRequest, errors.New("limit must be a non-negative integer"))
		}
		limit = n
	}
	resp := []*Activity{}
	for a := range seq {
		if limit >= 0 && len(resp) >= limit {
			break
		}
		resp = append(resp, serialiseActivity(a))
	}
	return to.JSON(w, resp)
}
