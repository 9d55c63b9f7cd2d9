// Package activitypub implements a federation of servers that exchange follow
// relationships and activities between actors addressed as @user@server.
//
// Each follow edge is stored twice: the target's home server keeps the
// follower in its followers set, and the follower's home server keeps the
// target in its following set. The two halves are written by separate calls
// on separate servers without a shared transaction. Deleting an actor never
// removes edges; every read re-resolves both ends and hides edges whose
// actors have gone.
package activitypub

import (
	"context"
	"iter"
	"sync"

	"github.com/davecheney/fedi/internal/snowflake"
	"github.com/davecheney/fedi/models"
	"golang.org/x/exp/slog"
)

// Server is the capability surface a member of a federation exposes to
// clients and to the other servers.
//
// Identifiers passed to a Server may be a bare local username or a full
// @user@server identifier.
type Server interface {
	// Name returns the name this server is known by.
	Name() string

	// CreateActor creates a local actor.
	CreateActor(username, displayName string) (*models.Actor, error)

	// Actor returns the local actor named by id.
	Actor(id string) (*models.Actor, bool)

	// Actors returns every local actor.
	Actors() []*models.Actor

	// DeleteActor deletes a local actor, reporting whether it existed.
	DeleteActor(id string) bool

	// Follow makes the local actor followerID follow targetID, which may
	// live on any server. It reports whether a new edge was created.
	Follow(ctx context.Context, followerID, targetID string) (bool, error)

	// AddFollower records followerID as a follower of the local actor
	// targetID. It reports whether the follower was not already present.
	AddFollower(ctx context.Context, followerID, targetID string) (bool, error)

	// Unfollow removes the edge from the local actor followerID to targetID.
	// It reports whether either server had anything to remove.
	Unfollow(ctx context.Context, followerID, targetID string) (bool, error)

	// RemoveFollower removes followerID from the followers of the local
	// actor targetID. It reports whether the follower was present.
	RemoveFollower(ctx context.Context, followerID, targetID string) (bool, error)

	// Followers returns the live actors following the local actor id.
	Followers(id string) []*models.Actor

	// Following returns the live actors the local actor id follows.
	Following(id string) []*models.Actor

	// IsFollowing reports whether the local actor followerID follows the
	// live actor targetID.
	IsFollowing(followerID, targetID string) bool

	// CreateActivity records a new activity authored by the local actor
	// actorID and delivers it to the author's followers.
	CreateActivity(ctx context.Context, actorID string, typ models.ActivityType, content string) (*models.Activity, error)

	// ReceiveActivity appends activity to the inbox of each local actor in
	// targetIDs. Identifiers that are not local actors are skipped.
	ReceiveActivity(ctx context.Context, activity *models.Activity, targetIDs ...string) error

	// AllActivities returns every activity authored on this server, oldest first.
	AllActivities() iter.Seq[*models.Activity]

	// Inbox returns the activities delivered to the local actor id, newest first.
	Inbox(id string) iter.Seq[*models.Activity]

	// Outbox returns the activities authored by the local actor id, oldest first.
	Outbox(id string) iter.Seq[*models.Activity]
}

// Local is a Server holding its own state in memory.
type Local struct {
	name    string
	dir     Directory
	logger  *slog.Logger
	journal *models.Journal
	metrics *Metrics
	fanout  int

	// clock is only read with mu held, so activities are appended in
	// timestamp order.
	clock snowflake.Clock

	mu sync.RWMutex
	// actors is keyed by username.
	actors map[string]*models.Actor
	// followers and following are keyed by the full id of the local actor.
	followers  map[string]set
	following  map[string]set
	activities []*models.Activity
	outboxes   map[string][]*models.Activity
	inboxes    map[string][]*models.Activity
}

// An Option configures a Local server.
type Option func(*Local)

// WithLogger sets the logger used by the server.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Local) {
		s.logger = logger
	}
}

// WithJournal records the server's activities and edge changes in j.
func WithJournal(j *models.Journal) Option {
	return func(s *Local) {
		s.journal = j
	}
}

// WithMetrics reports the server's follow and delivery counts to m.
func WithMetrics(m *Metrics) Option {
	return func(s *Local) {
		s.metrics = m
	}
}

// WithFanoutConcurrency bounds the number of servers an activity is
// delivered to concurrently.
func WithFanoutConcurrency(n int) Option {
	return func(s *Local) {
		if n > 0 {
			s.fanout = n
		}
	}
}

// NewServer returns a new Local server named name which finds other servers
// through dir. The server is not registered with dir.
func NewServer(name string, dir Directory, opts ...Option) *Local {
	s := &Local{
		name:      name,
		dir:       dir,
		logger:    slog.Default(),
		fanout:    4,
		actors:    make(map[string]*models.Actor),
		followers: make(map[string]set),
		following: make(map[string]set),
		outboxes:  make(map[string][]*models.Activity),
		inboxes:   make(map[string][]*models.Activity),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("server", name)
	return s
}

func (s *Local) Name() string {
	return s.name
}

// set is a set of full identifiers.
type set map[string]struct{}

// add adds id to the set stored under key in m, reporting whether it was absent.
func add(m map[string]set, key, id string) bool {
	members, ok := m[key]
	if !ok {
		members = make(set)
		m[key] = members
	}
	if _, ok := members[id]; ok {
		return false
	}
	members[id] = struct{}{}
	return true
}

// remove removes id from the set stored under key in m, reporting whether it was present.
func remove(m map[string]set, key, id string) bool {
	members, ok := m[key]
	if !ok {
		return false
	}
	if _, ok := members[id]; !ok {
		return false
	}
	delete(members, id)
	return true
}

// record writes to the journal if one is configured. Journal failures are
// logged; the in memory state has already changed.
func (s *Local) record(fn func(j *models.Journal) error) {
	if s.journal == nil {
		return
	}
	if err := fn(s.journal); err != nil {
		s.logger.Warn("journal write failed", "err", err)
	}
}
