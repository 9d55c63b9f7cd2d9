package api

import (
	"time"

	"github.com/davecheney/fedi/models"
)

// serialisers for API responses.

type Actor struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Server      string `json:"server"`
	URL         string `json:"url"`
	Followers   string `json:"followers"`
	Following   string `json:"following"`
	Inbox       string `json:"inbox"`
	Outbox      string `json:"outbox"`
}

func serialiseActor(a *models.Actor) *Actor {
	acct := a.Acct()
	return &Actor{
		ID:          a.FullID(),
		Username:    a.Username(),
		DisplayName: a.DisplayName(),
		Server:      a.Server(),
		URL:         acct.Path(),
		Followers:   acct.Followers(),
		Following:   acct.Following(),
		Inbox:       acct.Inbox(),
		Outbox:      acct.Outbox(),
	}
}

type Activity struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Actor     string `json:"actor"`
	Content   string `json:"content"`
	Published string `json:"published"`
}

func serialiseActivity(a *models.Activity) *Activity {
	return &Activity{
		ID:        a.ID(),
		Type:      a.Type().String(),
		Actor:     a.Actor(),
		Content:   a.Content(),
		Published: a.Published().UTC().Format(time.RFC3339Nano),
	}
}
