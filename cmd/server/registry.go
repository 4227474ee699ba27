package main

import (
	"sort"
	"strings"
)

type Role string

const (
	RoleDirector    Role = "director"
	RoleParticipant Role = "participant"
)

func parseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleDirector, RoleParticipant:
		return Role(s), true
	}
	return "", false
}

// Connection is one websocket participant. A connection starts anonymous and
// becomes logged-in on a successful handshake; the id is transient and never
// reused for a different person mid-session.
type Connection struct {
	ID       string
	Username string
	Role     Role
	LoggedIn bool
}

// ConnectionRegistry tracks active connections, enforces username uniqueness,
// and answers role membership queries. It is only ever touched from the
// session loop, so it carries no lock.
type ConnectionRegistry struct {
	conns      map[string]*Connection
	byUsername map[string]string
}

func NewConnectionRegistry() *ConnectionRegistry {
	return &ConnectionRegistry{
		conns:      make(map[string]*Connection),
		byUsername: make(map[string]string),
	}
}

func (r *ConnectionRegistry) Add(id string) {
	r.conns[id] = &Connection{ID: id}
}

// Remove drops the connection and immediately frees its username for reuse.
// Tokens owned by that username are untouched.
func (r *ConnectionRegistry) Remove(id string) {
	conn, ok := r.conns[id]
	if !ok {
		return
	}
	if conn.LoggedIn {
		delete(r.byUsername, conn.Username)
	}
	delete(r.conns, id)
}

func (r *ConnectionRegistry) Get(id string) *Connection {
	return r.conns[id]
}

// Login transitions a connection to logged-in. The username must be non-empty
// and not currently held by another active connection; the requested role is
// granted as-is.
func (r *ConnectionRegistry) Login(id, username string, role Role) error {
	conn, ok := r.conns[id]
	if !ok {
		return errNotFound("unknown connection")
	}
	if conn.LoggedIn {
		return errInvalidInput("connection is already logged in as %s", conn.Username)
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return errInvalidInput("username must not be empty")
	}
	if holder, taken := r.byUsername[username]; taken && holder != id {
		return errInvalidInput("username %q is already in use", username)
	}
	conn.Username = username
	conn.Role = role
	conn.LoggedIn = true
	r.byUsername[username] = id
	return nil
}

// Usernames returns the active usernames in stable order for the clients
// roster broadcast.
func (r *ConnectionRegistry) Usernames() []string {
	names := make([]string, 0, len(r.byUsername))
	for name := range r.byUsername {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Connections returns every logged-in connection.
func (r *ConnectionRegistry) Connections() []*Connection {
	var out []*Connection
	for _, conn := range r.conns {
		if conn.LoggedIn {
			out = append(out, conn)
		}
	}
	return out
}

// DirectorIDs returns connection ids of every logged-in director.
func (r *ConnectionRegistry) DirectorIDs() []string {
	var ids []string
	for id, conn := range r.conns {
		if conn.LoggedIn && conn.Role == RoleDirector {
			ids = append(ids, id)
		}
	}
	return ids
}
