// Package webfinger implements the @user@server addressing scheme used to
// identify actors across a federation.
package webfinger

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// FullID returns the canonical identifier for username on serverName,
// in the form @username@serverName.
func FullID(username, serverName string) string {
	return "@" + username + "@" + serverName
}

// ServerOf returns the server name portion of id, the text after the last @.
// If id is a bare username, with or without a leading @, local is returned.
func ServerOf(id, local string) string {
	if !IsQualified(id) {
		return local
	}
	return id[strings.LastIndexByte(id, '@')+1:]
}

// UsernameOf returns the username portion of id, the text between the leading
// @ and the next @. If id is not qualified it is returned unchanged.
func UsernameOf(id string) string {
	if !strings.Contains(id, "@") {
		return id
	}
	user, _, _ := strings.Cut(strings.TrimPrefix(id, "@"), "@")
	return user
}

// IsQualified reports whether id names its home server.
func IsQualified(id string) bool {
	return strings.Contains(strings.TrimPrefix(id, "@"), "@")
}

// Acct is a parsed actor identifier.
type Acct struct {
	User string
	Host string
}

// String returns the full identifier for this Acct, or the bare username if
// the Acct has no host.
func (a *Acct) String() string {
	if a.Host == "" {
		return a.User
	}
	return FullID(a.User, a.Host)
}

// Path returns the API path of the actor resource for this Acct.
func (a *Acct) Path() string {
	return "/servers/" + url.PathEscape(a.Host) + "/actors/" + url.PathEscape(a.User)
}

// Followers returns the API path of the followers collection for this Acct.
func (a *Acct) Followers() string {
	return a.Path() + "/followers"
}

// Following returns the API path of the following collection for this Acct.
func (a *Acct) Following() string {
	return a.Path() + "/following"
}

// Inbox returns the API path of the inbox collection for this Acct.
func (a *Acct) Inbox() string {
	return a.Path() + "/inbox"
}

// Outbox returns the API path of the outbox collection for this Acct.
func (a *Acct) Outbox() string {
	return a.Path() + "/outbox"
}

// Parse parses query, which may be a bare username or a full identifier,
// optionally prefixed with acct:. query must already be decoded; it is not
// unescaped again.
func Parse(query string) (*Acct, error) {
	query = strings.TrimPrefix(query, "acct:")
	acct := &Acct{
		User: UsernameOf(query),
	}
	if IsQualified(query) {
		acct.Host = ServerOf(query, "")
	}
	switch {
	case acct.User == "":
		return nil, errors.New("invalid acct: empty username")
	case IsQualified(query) && acct.Host == "":
		return nil, fmt.Errorf("invalid acct: %q", query)
	default:
		return acct, nil
	}
}
