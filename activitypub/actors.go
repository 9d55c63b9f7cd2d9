package activitypub

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/davecheney/fedi/internal/webfinger"
	"github.com/davecheney/fedi/models"
)

// CreateActor creates a local actor. The actor's full identifier is
// @username@name, where name is this server's name.
func (s *Local) CreateActor(username, displayName string) (*models.Actor, error) {
	if username == "" || strings.ContainsAny(username, "@/") {
		return nil, fmt.Errorf("invalid username %q", username)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.actors[username]; ok {
		return nil, fmt.Errorf("%w: %s", ErrActorAlreadyExists, webfinger.FullID(username, s.name))
	}
	actor := models.NewActor(username, displayName, s.name)
	s.actors[username] = actor
	s.logger.Debug("actor created", "actor", actor)
	return actor, nil
}

// Actor returns the local actor named by id. A full identifier naming
// another server never resolves.
func (s *Local) Actor(id string) (*models.Actor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.actor(id)
}

// actor is Actor for callers holding mu.
func (s *Local) actor(id string) (*models.Actor, bool) {
	if webfinger.ServerOf(id, s.name) != s.name {
		return nil, false
	}
	actor, ok := s.actors[webfinger.UsernameOf(id)]
	return actor, ok
}

// Actors returns every local actor ordered by username.
func (s *Local) Actors() []*models.Actor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	actors := make([]*models.Actor, 0, len(s.actors))
	for _, username := range slices.Sorted(maps.Keys(s.actors)) {
		actors = append(actors, s.actors[username])
	}
	return actors
}

// DeleteActor deletes the local actor named by id. The actor's follow edges,
// outbox and inbox are left in place; reads skip them once the actor no
// longer resolves.
func (s *Local) DeleteActor(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	actor, ok := s.actor(id)
	if !ok {
		return false
	}
	delete(s.actors, actor.Username())
	s.logger.Debug("actor deleted", "actor", actor)
	return true
}
