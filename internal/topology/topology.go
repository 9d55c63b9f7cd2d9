// Package topology describes a federation of servers, their actors and the
// follows between them in YAML.
package topology

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/davecheney/fedi/activitypub"
	"github.com/davecheney/fedi/internal/webfinger"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultTopology []byte

type Topology struct {
	Servers []Server `yaml:"servers"`
	Follows []Follow `yaml:"follows"`
}

type Server struct {
	Name string `yaml:"name"`
	// Proxied servers are registered behind an activitypub.Proxy.
	Proxied bool    `yaml:"proxied"`
	Actors  []Actor `yaml:"actors"`
}

type Actor struct {
	Username    string `yaml:"username"`
	DisplayName string `yaml:"displayName"`
}

type Follow struct {
	Follower string `yaml:"follower"`
	Target   string `yaml:"target"`
}

// Default returns the two server federation used by the demo.
func Default() *Topology {
	t, err := Parse(defaultTopology)
	if err != nil {
		panic(err)
	}
	return t
}

// Load reads and parses the topology file at path.
func Load(path string) (*Topology, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	t, err := Parse(buf)
	if err != nil {
		return nil, fmt.Errorf("in topology file %s: %w", path, err)
	}
	return t, nil
}

// Parse parses a topology document.
func Parse(buf []byte) (*Topology, error) {
	var t Topology
	if err := yaml.Unmarshal(buf, &t); err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	for _, s := range t.Servers {
		if s.Name == "" {
			return nil, errors.New("server without a name")
		}
		if seen[s.Name] {
			return nil, fmt.Errorf("server %s declared twice", s.Name)
		}
		seen[s.Name] = true
	}
	for _, f := range t.Follows {
		if !webfinger.IsQualified(f.Follower) {
			return nil, fmt.Errorf("follower %q is not a full identifier", f.Follower)
		}
	}
	return &t, nil
}

// Build creates the servers of t, registers them with dir, creates their
// actors, then issues each follow through the follower's home server. The
// created servers are returned in declaration order.
func (t *Topology) Build(ctx context.Context, dir activitypub.Directory, opts ...activitypub.Option) ([]activitypub.Server, error) {
	var servers []activitypub.Server
	for _, s := range t.Servers {
		var server activitypub.Server = activitypub.NewServer(s.Name, dir, opts...)
		if s.Proxied {
			server = activitypub.NewProxy(server)
		}
		dir.Register(s.Name, server)
		for _, a := range s.Actors {
			if _, err := server.CreateActor(a.Username, a.DisplayName); err != nil {
				return nil, fmt.Errorf("server %s: %w", s.Name, err)
			}
		}
		servers = append(servers, server)
	}
	for _, f := range t.Follows {
		name := webfinger.ServerOf(f.Follower, "")
		home, ok := dir.Resolve(name)
		if !ok {
			return nil, &activitypub.ServerNotFoundError{Name: name}
		}
		if _, err := home.Follow(ctx, f.Follower, f.Target); err != nil {
			return nil, fmt.Errorf("%s follow %s: %w", f.Follower, f.Target, err)
		}
	}
	return servers, nil
}
