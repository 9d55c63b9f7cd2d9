package activitypub

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/davecheney/fedi/internal/algorithms"
	"github.com/davecheney/fedi/internal/webfinger"
	"github.com/davecheney/fedi/models"
)

// Follow makes the local actor followerID follow targetID.
//
// The target's home server is asked to add the follower first; only if it
// reports a new edge is the target added to the follower's following set.
// If the remote call fails nothing is changed locally. A remote edge that
// was added is never rolled back.
func (s *Local) Follow(ctx context.Context, followerID, targetID string) (bool, error) {
	follower, ok := s.Actor(followerID)
	if !ok {
		return false, &ActorNotFoundError{ID: followerID, Server: s.name}
	}
	remote, target, err := s.resolve(targetID)
	if err != nil {
		return false, err
	}

	created, err := remote.AddFollower(ctx, follower.FullID(), target.FullID())
	if err != nil {
		return false, fmt.Errorf("follow %s: %w", target, err)
	}
	if !created {
		s.metrics.follow(s.name, false)
		return false, nil
	}

	s.mu.Lock()
	added := add(s.following, follower.FullID(), target.FullID())
	s.mu.Unlock()
	if added {
		s.record(func(j *models.Journal) error {
			return j.RecordEdge(ctx, s.name, models.FollowingSide, models.AddEdge, follower.FullID(), target.FullID())
		})
	}
	s.metrics.follow(s.name, true)
	s.logger.Debug("follow", "follower", follower, "target", target)
	return true, nil
}

// AddFollower adds followerID to the followers of the local actor targetID.
// A bare followerID is taken to name an actor on this server.
func (s *Local) AddFollower(ctx context.Context, followerID, targetID string) (bool, error) {
	followerID = s.canonical(followerID)
	s.mu.Lock()
	target, ok := s.actor(targetID)
	if !ok {
		s.mu.Unlock()
		return false, &ActorNotFoundError{ID: targetID, Server: s.name}
	}
	added := add(s.followers, target.FullID(), followerID)
	s.mu.Unlock()

	if added {
		s.record(func(j *models.Journal) error {
			return j.RecordEdge(ctx, s.name, models.FollowersSide, models.AddEdge, followerID, target.FullID())
		})
	}
	return added, nil
}

// Unfollow removes the edge from the local actor followerID to targetID on
// both servers. It reports true if either server removed something, even if
// the two halves of the edge had drifted apart.
func (s *Local) Unfollow(ctx context.Context, followerID, targetID string) (bool, error) {
	follower, ok := s.Actor(followerID)
	if !ok {
		return false, &ActorNotFoundError{ID: followerID, Server: s.name}
	}
	remote, target, err := s.resolve(targetID)
	if err != nil {
		return false, err
	}

	removedRemote, err := remote.RemoveFollower(ctx, follower.FullID(), target.FullID())
	if err != nil {
		return false, fmt.Errorf("unfollow %s: %w", target, err)
	}

	s.mu.Lock()
	removedLocal := remove(s.following, follower.FullID(), target.FullID())
	s.mu.Unlock()
	if removedLocal {
		s.record(func(j *models.Journal) error {
			return j.RecordEdge(ctx, s.name, models.FollowingSide, models.RemoveEdge, follower.FullID(), target.FullID())
		})
	}

	removed := removedRemote || removedLocal
	s.metrics.unfollow(s.name, removed)
	s.logger.Debug("unfollow", "follower", follower, "target", target, "removed", removed)
	return removed, nil
}

// RemoveFollower removes followerID from the followers of the local actor targetID.
func (s *Local) RemoveFollower(ctx context.Context, followerID, targetID string) (bool, error) {
	followerID = s.canonical(followerID)
	s.mu.Lock()
	target, ok := s.actor(targetID)
	if !ok {
		s.mu.Unlock()
		return false, &ActorNotFoundError{ID: targetID, Server: s.name}
	}
	removed := remove(s.followers, target.FullID(), followerID)
	s.mu.Unlock()

	if removed {
		s.record(func(j *models.Journal) error {
			return j.RecordEdge(ctx, s.name, models.FollowersSide, models.RemoveEdge, followerID, target.FullID())
		})
	}
	return removed, nil
}

// Followers returns the actors following the local actor id that still
// resolve on their home server.
func (s *Local) Followers(id string) []*models.Actor {
	return s.edges(s.followers, id)
}

// Following returns the actors the local actor id follows that still
// resolve on their home server.
func (s *Local) Following(id string) []*models.Actor {
	return s.edges(s.following, id)
}

// edges returns the live actors in the set stored in m for the local actor id.
// Members are snapshotted in lexical order under the lock, then resolved
// without it as resolution may call back into this server.
func (s *Local) edges(m map[string]set, id string) []*models.Actor {
	s.mu.RLock()
	actor, ok := s.actor(id)
	if !ok {
		s.mu.RUnlock()
		return nil
	}
	ids := slices.Sorted(maps.Keys(m[actor.FullID()]))
	s.mu.RUnlock()

	return algorithms.FilterMap(ids, s.lookup)
}

// IsFollowing reports whether the local actor followerID follows targetID.
// It is false if either actor does not resolve.
func (s *Local) IsFollowing(followerID, targetID string) bool {
	follower, ok := s.Actor(followerID)
	if !ok {
		return false
	}
	target, ok := s.lookup(targetID)
	if !ok {
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok = s.following[follower.FullID()][target.FullID()]
	return ok
}

// canonical returns the full identifier for id, qualifying a bare id with
// this server's name.
func (s *Local) canonical(id string) string {
	return webfinger.FullID(webfinger.UsernameOf(id), webfinger.ServerOf(id, s.name))
}

// resolve finds the home server of id through the directory and the actor id
// names on it.
func (s *Local) resolve(id string) (Server, *models.Actor, error) {
	name := webfinger.ServerOf(id, s.name)
	server, ok := s.dir.Resolve(name)
	if !ok {
		return nil, nil, &ServerNotFoundError{Name: name}
	}
	actor, ok := server.Actor(id)
	if !ok {
		return nil, nil, &ActorNotFoundError{ID: id, Server: name, Remote: true}
	}
	return server, actor, nil
}

// lookup is resolve for read paths, where anything that does not resolve is
// treated as absent.
func (s *Local) lookup(id string) (*models.Actor, bool) {
	_, actor, err := s.resolve(id)
	return actor, err == nil
}
