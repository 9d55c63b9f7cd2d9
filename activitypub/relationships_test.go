package activitypub

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"testing"

	"github.com/davecheney/fedi/internal/algorithms"
	"github.com/davecheney/fedi/internal/webfinger"
	"github.com/davecheney/fedi/models"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func fullIDs(actors []*models.Actor) []string {
	return algorithms.Map(actors, (*models.Actor).FullID)
}

func TestFollow(t *testing.T) {
	ctx := context.Background()

	t.Run("same server", func(t *testing.T) {
		require := require.New(t)
		f := newFederation(t)

		require.Empty(f.polito.Followers(f.bob.FullID()))
		require.Empty(f.polito.Following(f.alice.FullID()))

		ok, err := f.polito.Follow(ctx, f.alice.FullID(), f.bob.FullID())
		require.NoError(err)
		require.True(ok)

		require.True(f.polito.IsFollowing(f.alice.FullID(), f.bob.FullID()))
		require.False(f.polito.IsFollowing(f.bob.FullID(), f.alice.FullID()))
		require.Equal([]string{f.alice.FullID()}, fullIDs(f.polito.Followers(f.bob.FullID())))
		require.Equal([]string{f.bob.FullID()}, fullIDs(f.polito.Following(f.alice.FullID())))
	})
	t.Run("bare usernames", func(t *testing.T) {
		require := require.New(t)
		f := newFederation(t)

		ok, err := f.polito.Follow(ctx, "alice", "bob")
		require.NoError(err)
		require.True(ok)
		require.True(f.polito.IsFollowing("alice", "bob"))
		require.True(f.polito.IsFollowing(f.alice.FullID(), f.bob.FullID()))
		require.Len(f.polito.Followers("bob"), 1)
	})
	t.Run("cross server", func(t *testing.T) {
		require := require.New(t)
		f := newFederation(t)

		ok, err := f.polito.Follow(ctx, f.alice.FullID(), f.carla.FullID())
		require.NoError(err)
		require.True(ok)

		require.True(f.polito.IsFollowing(f.alice.FullID(), f.carla.FullID()))
		require.Contains(f.unito.Followers(f.carla.FullID()), f.alice)
		require.Contains(f.polito.Following(f.alice.FullID()), f.carla)

		// each server only holds its own half of the edge
		require.Empty(f.polito.Followers(f.alice.FullID()))
		require.Empty(f.unito.Following(f.carla.FullID()))
	})
	t.Run("twice", func(t *testing.T) {
		require := require.New(t)
		f := newFederation(t)

		ok, err := f.polito.Follow(ctx, f.alice.FullID(), f.bob.FullID())
		require.NoError(err)
		require.True(ok)
		ok, err = f.polito.Follow(ctx, f.alice.FullID(), f.bob.FullID())
		require.NoError(err)
		require.False(ok)
		require.Len(f.polito.Followers(f.bob.FullID()), 1)
	})
	t.Run("follower does not exist", func(t *testing.T) {
		require := require.New(t)
		f := newFederation(t)

		_, err := f.polito.Follow(ctx, webfinger.FullID("**NON-EXISTENT**", mastoPolito), f.bob.FullID())
		require.ErrorIs(err, ErrActorNotFound)
		var anf *ActorNotFoundError
		require.True(errors.As(err, &anf))
		require.False(anf.Remote)
	})
	t.Run("target does not exist", func(t *testing.T) {
		require := require.New(t)
		f := newFederation(t)

		_, err := f.polito.Follow(ctx, f.bob.FullID(), webfinger.FullID("**NON-EXISTENT**", mastoPolito))
		require.ErrorIs(err, ErrActorNotFound)

		_, err = f.polito.Follow(ctx, f.alice.FullID(), "@nonexistent@"+mastoUnito)
		require.ErrorIs(err, ErrActorNotFound)
		var anf *ActorNotFoundError
		require.True(errors.As(err, &anf))
		require.True(anf.Remote)
		require.Equal(mastoUnito, anf.Server)
		require.Empty(f.polito.Following(f.alice.FullID()))
	})
	t.Run("server does not exist", func(t *testing.T) {
		require := require.New(t)
		f := newFederation(t)

		_, err := f.polito.Follow(ctx, f.alice.FullID(), "@dave@masto.torino.it")
		require.ErrorIs(err, ErrServerNotFound)
		var snf *ServerNotFoundError
		require.True(errors.As(err, &snf))
		require.Equal("masto.torino.it", snf.Name)
		require.Empty(f.polito.Following(f.alice.FullID()))
	})
	t.Run("follower is not local", func(t *testing.T) {
		require := require.New(t)
		f := newFederation(t)

		_, err := f.polito.Follow(ctx, f.carla.FullID(), f.bob.FullID())
		require.ErrorIs(err, ErrActorNotFound)
		require.Empty(f.polito.Followers(f.bob.FullID()))
	})
	t.Run("server is not registered", func(t *testing.T) {
		require := require.New(t)
		dir := NewDirectory()
		s := NewServer("masto.torino.it", dir, WithLogger(discard()))
		_, err := s.CreateActor("dave", "Dave")
		require.NoError(err)
		_, err = s.CreateActor("erin", "Erin")
		require.NoError(err)

		_, err = s.Follow(ctx, "dave", "erin")
		require.ErrorIs(err, ErrServerNotFound, "every target is resolved through the directory")
	})
	t.Run("remote failure leaves no local edge", func(t *testing.T) {
		require := require.New(t)
		f := newFederation(t)
		f.dir.Register(mastoUnito, &failing{Server: f.unito, err: errors.New("connection refused")})

		_, err := f.polito.Follow(ctx, f.alice.FullID(), f.carla.FullID())
		require.ErrorContains(err, "connection refused")
		require.Empty(f.polito.Following(f.alice.FullID()))
		require.False(f.polito.IsFollowing(f.alice.FullID(), f.carla.FullID()))
	})
}

// failing is a Server whose follower mutations always fail.
type failing struct {
	Server
	err error
}

func (f *failing) AddFollower(context.Context, string, string) (bool, error) {
	return false, f.err
}

func (f *failing) RemoveFollower(context.Context, string, string) (bool, error) {
	return false, f.err
}

func TestAddFollower(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	f := newFederation(t)

	ok, err := f.unito.AddFollower(ctx, f.alice.FullID(), f.carla.FullID())
	require.NoError(err)
	require.True(ok)
	ok, err = f.unito.AddFollower(ctx, f.alice.FullID(), "carla")
	require.NoError(err)
	require.False(ok)

	// the follower half alone is visible on the target's server only
	require.Equal([]string{f.alice.FullID()}, fullIDs(f.unito.Followers("carla")))
	require.False(f.polito.IsFollowing(f.alice.FullID(), f.carla.FullID()))

	_, err = f.unito.AddFollower(ctx, f.alice.FullID(), f.bob.FullID())
	require.ErrorIs(err, ErrActorNotFound, "target must be local")

	ok, err = f.unito.RemoveFollower(ctx, f.alice.FullID(), f.carla.FullID())
	require.NoError(err)
	require.True(ok)
	ok, err = f.unito.RemoveFollower(ctx, f.alice.FullID(), f.carla.FullID())
	require.NoError(err)
	require.False(ok)

	_, err = f.unito.RemoveFollower(ctx, f.alice.FullID(), "dave")
	require.ErrorIs(err, ErrActorNotFound)
}

func TestAddFollowerBareAndFullIDsAreOneEdge(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	f := newFederation(t)

	ok, err := f.polito.AddFollower(ctx, "bob", "alice")
	require.NoError(err)
	require.True(ok)
	ok, err = f.polito.AddFollower(ctx, f.bob.FullID(), "alice")
	require.NoError(err)
	require.False(ok)
	ok, err = f.polito.AddFollower(ctx, "@bob", "alice")
	require.NoError(err)
	require.False(ok)
	require.Equal([]string{f.bob.FullID()}, fullIDs(f.polito.Followers("alice")))

	_, err = f.polito.CreateActivity(ctx, "alice", models.Create, "hello")
	require.NoError(err)
	require.Len(slices.Collect(f.polito.Inbox("bob")), 1)

	ok, err = f.polito.RemoveFollower(ctx, f.bob.FullID(), "alice")
	require.NoError(err)
	require.True(ok)
	require.Empty(f.polito.Followers("alice"))
}

func TestUnfollow(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		require := require.New(t)
		f := newFederation(t)

		_, err := f.polito.Follow(ctx, f.alice.FullID(), f.bob.FullID())
		require.NoError(err)
		ok, err := f.polito.Unfollow(ctx, f.alice.FullID(), f.bob.FullID())
		require.NoError(err)
		require.True(ok)
		require.False(f.polito.IsFollowing(f.alice.FullID(), f.bob.FullID()))
		require.Empty(f.polito.Followers(f.bob.FullID()))
	})
	t.Run("twice", func(t *testing.T) {
		require := require.New(t)
		f := newFederation(t)

		_, err := f.polito.Follow(ctx, f.alice.FullID(), f.bob.FullID())
		require.NoError(err)
		ok, err := f.polito.Unfollow(ctx, "alice", "bob")
		require.NoError(err)
		require.True(ok)
		ok, err = f.polito.Unfollow(ctx, "alice", "bob")
		require.NoError(err)
		require.False(ok)
	})
	t.Run("cross server", func(t *testing.T) {
		require := require.New(t)
		f := newFederation(t)

		_, err := f.polito.Follow(ctx, f.alice.FullID(), f.carla.FullID())
		require.NoError(err)
		ok, err := f.polito.Unfollow(ctx, f.alice.FullID(), f.carla.FullID())
		require.NoError(err)
		require.True(ok)
		require.Empty(f.unito.Followers(f.carla.FullID()))
		require.Empty(f.polito.Following(f.alice.FullID()))
	})
	t.Run("only one half of the edge remains", func(t *testing.T) {
		require := require.New(t)
		f := newFederation(t)

		// a follower half written without the matching following half
		_, err := f.unito.AddFollower(ctx, f.alice.FullID(), f.carla.FullID())
		require.NoError(err)
		require.False(f.polito.IsFollowing(f.alice.FullID(), f.carla.FullID()))

		ok, err := f.polito.Unfollow(ctx, f.alice.FullID(), f.carla.FullID())
		require.NoError(err)
		require.True(ok, "removing either half counts")
		require.Empty(f.unito.Followers(f.carla.FullID()))
	})
	t.Run("target does not exist", func(t *testing.T) {
		require := require.New(t)
		f := newFederation(t)

		_, err := f.polito.Follow(ctx, f.alice.FullID(), f.bob.FullID())
		require.NoError(err)
		_, err = f.polito.Unfollow(ctx, f.alice.FullID(), "@nonexistent@"+mastoPolito)
		require.ErrorIs(err, ErrActorNotFound)
		require.True(f.polito.IsFollowing(f.alice.FullID(), f.bob.FullID()))
	})
	t.Run("follower is not local", func(t *testing.T) {
		require := require.New(t)
		f := newFederation(t)

		_, err := f.polito.Unfollow(ctx, f.carla.FullID(), f.alice.FullID())
		require.ErrorIs(err, ErrActorNotFound)
	})
	t.Run("remote failure", func(t *testing.T) {
		require := require.New(t)
		f := newFederation(t)

		_, err := f.polito.Follow(ctx, f.alice.FullID(), f.carla.FullID())
		require.NoError(err)
		f.dir.Register(mastoUnito, &failing{Server: f.unito, err: errors.New("timeout")})

		_, err = f.polito.Unfollow(ctx, f.alice.FullID(), f.carla.FullID())
		require.ErrorContains(err, "timeout")
		require.True(f.polito.IsFollowing(f.alice.FullID(), f.carla.FullID()), "local half is kept when the remote call fails")
	})
}

func TestDeletedActorsAreHidden(t *testing.T) {
	ctx := context.Background()

	t.Run("follower deleted", func(t *testing.T) {
		require := require.New(t)
		f := newFederation(t)

		_, err := f.polito.Follow(ctx, f.alice.FullID(), f.bob.FullID())
		require.NoError(err)
		require.True(f.polito.DeleteActor("alice"))

		require.Empty(f.polito.Followers(f.bob.FullID()))
		require.False(f.polito.IsFollowing(f.alice.FullID(), f.bob.FullID()))
	})
	t.Run("across servers", func(t *testing.T) {
		require := require.New(t)
		f := newFederation(t)

		_, err := f.polito.Follow(ctx, f.alice.FullID(), f.carla.FullID())
		require.NoError(err)
		_, err = f.polito.Follow(ctx, f.bob.FullID(), f.alice.FullID())
		require.NoError(err)

		require.Len(f.unito.Followers(f.carla.FullID()), 1)
		require.Len(f.polito.Following(f.bob.FullID()), 1)
		require.Len(f.polito.Followers(f.alice.FullID()), 1)

		require.True(f.polito.DeleteActor("alice"))

		require.False(f.polito.IsFollowing(f.alice.FullID(), f.carla.FullID()))
		require.False(f.polito.IsFollowing(f.bob.FullID(), f.alice.FullID()))
		require.Empty(f.unito.Followers(f.carla.FullID()))
		require.Empty(f.polito.Following(f.bob.FullID()))
	})
	t.Run("target deleted", func(t *testing.T) {
		require := require.New(t)
		f := newFederation(t)

		_, err := f.polito.Follow(ctx, f.alice.FullID(), f.carla.FullID())
		require.NoError(err)
		require.True(f.unito.DeleteActor("carla"))

		require.False(f.polito.IsFollowing(f.alice.FullID(), f.carla.FullID()))
		require.Empty(f.polito.Following(f.alice.FullID()))
	})
	t.Run("server unregistered", func(t *testing.T) {
		require := require.New(t)
		f := newFederation(t)

		_, err := f.polito.Follow(ctx, f.alice.FullID(), f.carla.FullID())
		require.NoError(err)

		dir := NewDirectory()
		polito := NewServer(mastoPolito, dir, WithLogger(discard()))
		dir.Register(mastoPolito, polito)
		_, err = polito.CreateActor("alice", "Alice Doe")
		require.NoError(err)
		_, err = polito.AddFollower(ctx, f.carla.FullID(), "alice")
		require.NoError(err)
		require.Empty(polito.Followers("alice"), "followers on unknown servers are hidden")
	})
}

func TestIsFollowingNonExistent(t *testing.T) {
	require := require.New(t)
	f := newFederation(t)

	nobody := webfinger.FullID("**NON-EXISTENT**", mastoPolito)
	require.False(f.polito.IsFollowing(f.alice.FullID(), nobody))
	require.False(f.polito.IsFollowing(nobody, f.alice.FullID()))
	require.False(f.polito.IsFollowing(f.alice.FullID(), "@dave@masto.torino.it"))
	require.False(f.polito.IsFollowing(f.carla.FullID(), f.alice.FullID()))
}

func TestFollowersAreSorted(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	f := newFederation(t)

	for _, u := range []string{"zoe", "mario", "anna"} {
		_, err := f.polito.CreateActor(u, u)
		require.NoError(err)
		_, err = f.polito.Follow(ctx, u, f.carla.FullID())
		require.NoError(err)
	}
	want := []string{"@anna@masto.polito.it", "@mario@masto.polito.it", "@zoe@masto.polito.it"}
	require.Equal(want, fullIDs(f.unito.Followers("carla")))
	require.Equal(want, fullIDs(f.unito.Followers("carla")))
}

func TestConcurrentFollowUnfollow(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	f := newFederation(t)

	const n = 20
	followers := make([]string, n)
	for i := range followers {
		a, err := f.polito.CreateActor(fmt.Sprintf("user%02d", i), "")
		require.NoError(err)
		followers[i] = a.FullID()
	}

	var wg sync.WaitGroup
	errs := make(chan error, n*4)
	for _, id := range followers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 2 {
				if _, err := f.polito.Follow(ctx, id, f.carla.FullID()); err != nil {
					errs <- err
				}
				if _, err := f.polito.Unfollow(ctx, id, f.carla.FullID()); err != nil {
					errs <- err
				}
			}
			if _, err := f.polito.Follow(ctx, id, f.carla.FullID()); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(err)
	}

	require.Equal(followers, fullIDs(f.unito.Followers("carla")))
	for _, id := range followers {
		require.True(f.polito.IsFollowing(id, f.carla.FullID()))
	}
}

// TestFollowGraphModel checks random sequences of follow and unfollow calls
// against a plain set of edges.
func TestFollowGraphModel(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ctx := context.Background()
		dir := NewDirectory()
		servers := map[string]*Local{}
		var ids []string
		for _, name := range []string{mastoPolito, mastoUnito} {
			s := NewServer(name, dir, WithLogger(discard()))
			dir.Register(name, s)
			servers[name] = s
			for _, u := range []string{"alice", "bob", "carla"} {
				a, err := s.CreateActor(u, u)
				if err != nil {
					t.Fatal(err)
				}
				ids = append(ids, a.FullID())
			}
		}

		edges := map[[2]string]bool{}
		steps := rapid.IntRange(1, 50).Draw(t, "steps")
		for range steps {
			follower := rapid.SampledFrom(ids).Draw(t, "follower")
			target := rapid.SampledFrom(ids).Draw(t, "target")
			home := servers[webfinger.ServerOf(follower, "")]
			edge := [2]string{follower, target}

			if rapid.Bool().Draw(t, "follow") {
				ok, err := home.Follow(ctx, follower, target)
				if err != nil {
					t.Fatal(err)
				}
				if ok == edges[edge] {
					t.Fatalf("Follow(%s, %s) = %v with edge present %v", follower, target, ok, edges[edge])
				}
				edges[edge] = true
			} else {
				ok, err := home.Unfollow(ctx, follower, target)
				if err != nil {
					t.Fatal(err)
				}
				if ok != edges[edge] {
					t.Fatalf("Unfollow(%s, %s) = %v with edge present %v", follower, target, ok, edges[edge])
				}
				delete(edges, edge)
			}
		}

		for _, follower := range ids {
			home := servers[webfinger.ServerOf(follower, "")]
			for _, target := range ids {
				if got := home.IsFollowing(follower, target); got != edges[[2]string{follower, target}] {
					t.Fatalf("IsFollowing(%s, %s) = %v", follower, target, got)
				}
			}
		}
		for _, target := range ids {
			home := servers[webfinger.ServerOf(target, "")]
			count := 0
			for _, follower := range ids {
				if edges[[2]string{follower, target}] {
					count++
				}
			}
			if got := len(home.Followers(target)); got != count {
				t.Fatalf("len(Followers(%s)) = %d, want %d", target, got, count)
			}
		}
	})
}
