package activitypub

import (
	"context"
	"fmt"
	"iter"

	"github.com/davecheney/fedi/internal/algorithms"
	"github.com/davecheney/fedi/models"
	"golang.org/x/sync/errgroup"
)

// CreateActivity records a new activity authored by the local actor actorID
// and delivers it to the author's followers, one batch per home server.
// Delivery failures are logged and counted but never returned.
func (s *Local) CreateActivity(ctx context.Context, actorID string, typ models.ActivityType, content string) (*models.Activity, error) {
	s.mu.Lock()
	author, ok := s.actor(actorID)
	if !ok {
		s.mu.Unlock()
		return nil, &ActorNotFoundError{ID: actorID, Server: s.name}
	}
	activity := models.NewActivity(typ, author.FullID(), content, s.clock.Now())
	s.activities = append(s.activities, activity)
	s.outboxes[author.FullID()] = append(s.outboxes[author.FullID()], activity)
	s.mu.Unlock()

	s.record(func(j *models.Journal) error {
		return j.RecordActivity(ctx, s.name, activity)
	})
	s.metrics.activity(s.name, typ)
	s.logger.Debug("activity created", "actor", author, "type", typ, "id", activity.ID())

	s.deliver(ctx, activity, s.Followers(author.FullID()))
	return activity, nil
}

// deliver sends activity to recipients, calling ReceiveActivity once on
// the home server of each group of recipients.
func (s *Local) deliver(ctx context.Context, activity *models.Activity, recipients []*models.Actor) {
	batches := algorithms.GroupBy(recipients, (*models.Actor).Server)

	var g errgroup.Group
	g.SetLimit(s.fanout)
	for name, batch := range batches {
		ids := algorithms.Map(batch, (*models.Actor).FullID)
		g.Go(func() error {
			if err := s.send(ctx, name, activity, ids); err != nil {
				s.metrics.failure(s.name, name)
				s.logger.Warn("delivery failed", "destination", name, "activity", activity.ID(), "recipients", len(ids), "err", err)
			}
			return nil
		})
	}
	g.Wait()
}

func (s *Local) send(ctx context.Context, name string, activity *models.Activity, ids []string) error {
	server, ok := s.dir.Resolve(name)
	if !ok {
		return &ServerNotFoundError{Name: name}
	}
	s.metrics.batch(s.name, name, len(ids))
	if err := server.ReceiveActivity(ctx, activity, ids...); err != nil {
		return fmt.Errorf("receive activity: %w", err)
	}
	return nil
}

// Outbox returns the activities authored by the local actor id, oldest
// first. The sequence is a snapshot; later activities are not included.
func (s *Local) Outbox(id string) iter.Seq[*models.Activity] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	actor, ok := s.actor(id)
	if !ok {
		return algorithms.Values[*models.Activity](nil)
	}
	outbox := s.outboxes[actor.FullID()]
	return algorithms.Values(outbox[:len(outbox):len(outbox)])
}

// AllActivities returns every activity authored on this server, oldest first.
func (s *Local) AllActivities() iter.Seq[*models.Activity] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return algorithms.Values(s.activities[:len(s.activities):len(s.activities)])
}
