package activitypub

import (
	"context"
	"iter"

	"github.com/davecheney/fedi/models"
)

// Proxy is a Server that forwards every call to another Server. It stands in
// for the transport between a client and a server it does not host.
type Proxy struct {
	target Server
}

// NewProxy returns a Proxy forwarding to s.
func NewProxy(s Server) *Proxy {
	return &Proxy{target: s}
}

func (p *Proxy) Name() string { return p.target.Name() }

func (p *Proxy) CreateActor(username, displayName string) (*models.Actor, error) {
	return p.target.CreateActor(username, displayName)
}

func (p *Proxy) Actor(id string) (*models.Actor, bool) { return p.target.Actor(id) }

func (p *Proxy) Actors() []*models.Actor { return p.target.Actors() }

func (p *Proxy) DeleteActor(id string) bool { return p.target.DeleteActor(id) }

func (p *Proxy) Follow(ctx context.Context, followerID, targetID string) (bool, error) {
	return p.target.Follow(ctx, followerID, targetID)
}

func (p *Proxy) AddFollower(ctx context.Context, followerID, targetID string) (bool, error) {
	return p.target.AddFollower(ctx, followerID, targetID)
}

func (p *Proxy) Unfollow(ctx context.Context, followerID, targetID string) (bool, error) {
	return p.target.Unfollow(ctx, followerID, targetID)
}

func (p *Proxy) RemoveFollower(ctx context.Context, followerID, targetID string) (bool, error) {
	return p.target.RemoveFollower(ctx, followerID, targetID)
}

func (p *Proxy) Followers(id string) []*models.Actor { return p.target.Followers(id) }

func (p *Proxy) Following(id string) []*models.Actor { return p.target.Following(id) }

func (p *Proxy) IsFollowing(followerID, targetID string) bool {
	return p.target.IsFollowing(followerID, targetID)
}

func (p *Proxy) CreateActivity(ctx context.Context, actorID string, typ models.ActivityType, content string) (*models.Activity, error) {
	return p.target.CreateActivity(ctx, actorID, typ, content)
}

func (p *Proxy) ReceiveActivity(ctx context.Context, activity *models.Activity, targetIDs ...string) error {
	return p.target.ReceiveActivity(ctx, activity, targetIDs...)
}

func (p *Proxy) AllActivities() iter.Seq[*models.Activity] { return p.target.AllActivities() }

func (p *Proxy) Inbox(id string) iter.Seq[*models.Activity] { return p.target.Inbox(id) }

func (p *Proxy) Outbox(id string) iter.Seq[*models.Activity] { return p.target.Outbox(id) }
