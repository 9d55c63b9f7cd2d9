package activitypub

import (
	"context"
	"iter"

	"github.com/davecheney/fedi/internal/algorithms"
	"github.com/davecheney/fedi/models"
)

// ReceiveActivity appends activity to the inbox of each local actor named in
// targetIDs. Identifiers that do not name a local actor are skipped.
func (s *Local) ReceiveActivity(ctx context.Context, activity *models.Activity, targetIDs ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delivered := 0
	for _, id := range targetIDs {
		actor, ok := s.actor(id)
		if !ok {
			s.logger.Debug("skipping recipient", "id", id, "activity", activity.ID())
			continue
		}
		s.inboxes[actor.FullID()] = append(s.inboxes[actor.FullID()], activity)
		delivered++
	}
	s.logger.Debug("activity received", "activity", activity.ID(), "from", activity.Actor(), "delivered", delivered)
	return nil
}

// Inbox returns the activities delivered to the local actor id, newest first.
// Order is the order of arrival at this server, most recent arrival first.
// Activities from different authors delivered concurrently may arrive out of
// Published order.
func (s *Local) Inbox(id string) iter.Seq[*models.Activity] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	actor, ok := s.actor(id)
	if !ok {
		return algorithms.Backward[*models.Activity](nil)
	}
	return algorithms.Backward(s.inboxes[actor.FullID()])
}
