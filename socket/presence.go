package socket

import "github.com/pasternak-karmel/google-clone/internal/identity"

// Membership records one identity's presence in one room.
type Membership struct {
	Room    string
	UserID  string
	ConnID  string
	Profile identity.Profile
}

// Registry tracks which identities are in which room and through which
// connection. It is not safe for concurrent use; the hub confines it
// to its run loop.
//
// Invariants: at most one live connection per (room, user) pair, and a
// connection belongs to at most one room at a time.
type Registry struct {
	rooms  map[string][]*Membership // join order
	byConn map[string]string        // connID -> room
}

func NewRegistry() *Registry {
	return &Registry{
		rooms:  make(map[string][]*Membership),
		byConn: make(map[string]string),
	}
}

// Join registers the connection in the room. A prior connection for
// the same (room, user) pair is superseded in place. If the connection
// was in a different room, that membership is removed first and
// returned so the caller can notify the old room.
func (r *Registry) Join(room, userID, connID string, profile identity.Profile) (left *Membership) {
	if prevRoom, ok := r.byConn[connID]; ok && prevRoom != room {
		left = r.Leave(prevRoom, userID, connID)
	}

	for _, m := range r.rooms[room] {
		if m.UserID == userID {
			// Supersede: the stale connection no longer maps anywhere.
			delete(r.byConn, m.ConnID)
			m.ConnID = connID
			m.Profile = profile
			r.byConn[connID] = room
			return left
		}
	}

	r.rooms[room] = append(r.rooms[room], &Membership{
		Room:    room,
		UserID:  userID,
		ConnID:  connID,
		Profile: profile,
	})
	r.byConn[connID] = room
	return left
}

// Leave removes the membership only when connID is the currently
// registered connection for (room, user); a superseded connection's
// belated leave must not evict a newer one. Returns the removed
// membership, or nil for a no-op.
func (r *Registry) Leave(room, userID, connID string) *Membership {
	members := r.rooms[room]
	for i, m := range members {
		if m.UserID != userID {
			continue
		}
		if m.ConnID != connID {
			return nil
		}
		r.rooms[room] = append(members[:i], members[i+1:]...)
		delete(r.byConn, connID)
		if len(r.rooms[room]) == 0 {
			delete(r.rooms, room)
		}
		return m
	}
	return nil
}

// Room returns the room the connection currently belongs to.
func (r *Registry) Room(connID string) (string, bool) {
	room, ok := r.byConn[connID]
	return room, ok
}

// ListActive returns the room's member profiles in join order.
func (r *Registry) ListActive(room string) []identity.Profile {
	members := r.rooms[room]
	profiles := make([]identity.Profile, 0, len(members))
	for _, m := range members {
		profiles = append(profiles, m.Profile)
	}
	return profiles
}

// Members returns the room's memberships in join order.
func (r *Registry) Members(room string) []*Membership {
	return r.rooms[room]
}

// HasRoom reports whether the room has any members.
func (r *Registry) HasRoom(room string) bool {
	_, ok := r.rooms[room]
	return ok
}
