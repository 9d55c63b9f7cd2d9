package models

import (
	"github.com/davecheney/fedi/internal/webfinger"
)

// An Actor is an identity hosted by exactly one server, its home server.
// Actors are immutable; they are compared by their full identifier.
type Actor struct {
	username    string
	displayName string
	fullID      string
}

// NewActor returns an Actor named username homed on serverName.
func NewActor(username, displayName, serverName string) *Actor {
	return &Actor{
		username:    username,
		displayName: displayName,
		fullID:      webfinger.FullID(username, serverName),
	}
}

// Username returns the actor's local username.
func (a *Actor) Username() string {
	return a.username
}

// DisplayName returns the actor's display name.
func (a *Actor) DisplayName() string {
	return a.displayName
}

// FullID returns the actor's canonical identifier, @username@server.
func (a *Actor) FullID() string {
	return a.fullID
}

// Server returns the name of the actor's home server.
func (a *Actor) Server() string {
	return webfinger.ServerOf(a.fullID, "")
}

// Acct returns the parsed form of the actor's full identifier.
func (a *Actor) Acct() *webfinger.Acct {
	return &webfinger.Acct{
		User: a.username,
		Host: a.Server(),
	}
}

func (a *Actor) String() string {
	return a.fullID
}
