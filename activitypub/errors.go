package activitypub

import (
	"errors"
	"fmt"
)

var (
	// ErrActorNotFound is matched by every error reporting an identifier that
	// does not resolve to an actor on the server expected to host it.
	ErrActorNotFound = errors.New("actor not found")

	// ErrServerNotFound is matched by every error reporting a server name
	// the directory cannot resolve.
	ErrServerNotFound = errors.New("server not found")

	// ErrActorAlreadyExists is returned when creating an actor whose username
	// is taken.
	ErrActorAlreadyExists = errors.New("actor already exists")
)

// ActorNotFoundError reports that ID did not resolve on Server.
// Remote is set when the lookup was made on the actor's home server after
// resolving it through the directory, rather than on the server handling
// the request.
type ActorNotFoundError struct {
	ID     string
	Server string
	Remote bool
}

func (e *ActorNotFoundError) Error() string {
	if e.Remote {
		return fmt.Sprintf("actor %s not found on remote server %s", e.ID, e.Server)
	}
	return fmt.Sprintf("actor %s not found on %s", e.ID, e.Server)
}

func (e *ActorNotFoundError) Is(target error) bool {
	return target == ErrActorNotFound
}

// ServerNotFoundError reports that Name is not registered in the directory.
type ServerNotFoundError struct {
	Name string
}

func (e *ServerNotFoundError) Error() string {
	return fmt.Sprintf("server %s not found", e.Name)
}

func (e *ServerNotFoundError) Is(target error) bool {
	return target == ErrServerNotFound
}
