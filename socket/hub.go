package socket

import (
	"encoding/json"

	"github.com/pasternak-karmel/google-clone/internal/identity"
	"github.com/pasternak-karmel/google-clone/pkg/logger"
)

type inbound struct {
	client *Client
	msg    Message
}

// Hub is the single reactor: it owns the presence registry and the
// connection table, and processes every join/leave/broadcast command
// to completion in arrival order. That confinement is what gives
// in-room delivery ordering without locks; handlers must therefore
// never block.
type Hub struct {
	verifier identity.Verifier

	register   chan *Client
	unregister chan *Client
	inbound    chan inbound
	evict      chan string

	registry *Registry
	clients  map[string]*Client // connID -> client
}

func NewHub(verifier identity.Verifier) *Hub {
	return &Hub{
		verifier:   verifier,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbound:    make(chan inbound),
		evict:      make(chan string),
		registry:   NewRegistry(),
		clients:    make(map[string]*Client),
	}
}

// RemoveDocument tears down the document's room: members are told the
// document is gone and their connections are closed. Safe to call from
// any goroutine.
func (h *Hub) RemoveDocument(docID string) {
	h.evict <- docID
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client.connID] = client
			logger.Sugar.Infof("User connected: %s (conn %s)", client.profile.ID, client.connID)

		case client := <-h.unregister:
			if _, ok := h.clients[client.connID]; !ok {
				continue
			}
			// Disconnect implies leaving whichever room the connection
			// is in.
			if room, ok := h.registry.Room(client.connID); ok {
				h.leaveRoom(client, room)
			}
			delete(h.clients, client.connID)
			close(client.send)
			logger.Sugar.Infof("User disconnected: %s (conn %s)", client.profile.ID, client.connID)

		case in := <-h.inbound:
			h.dispatch(in.client, in.msg)

		case docID := <-h.evict:
			for _, m := range h.registry.Members(docID) {
				if c, ok := h.clients[m.ConnID]; ok {
					h.send(c, errorMessage("document was deleted"))
					// Closing the socket makes the read pump exit and
					// unregister the client normally.
					c.conn.Close()
				}
			}
			logger.Sugar.Infof("Evicted room for deleted document %s", docID)
		}
	}
}

func (h *Hub) dispatch(c *Client, msg Message) {
	switch msg.Type {
	case JoinDocumentType:
		var p JoinPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil || p.DocumentID == "" {
			h.send(c, errorMessage("join-document requires a documentId"))
			return
		}
		h.joinRoom(c, p.DocumentID)

	case LeaveDocumentType:
		if room, ok := h.registry.Room(c.connID); ok {
			h.leaveRoom(c, room)
		}

	case DocumentChangeType:
		var p ChangePayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil || p.DocumentID == "" {
			h.send(c, errorMessage("document-change requires a documentId"))
			return
		}
		h.broadcast(p.DocumentID, c.connID, encodeMessage(DocumentChangedType, ChangedPayload{
			UserID:  c.profile.ID,
			Changes: p.Changes,
		}))

	case HandshakeType:
		// Identity is already bound; a repeated handshake is a
		// protocol error but not fatal.
		h.send(c, errorMessage("handshake already completed"))

	default:
		h.send(c, errorMessage("unknown message type: "+msg.Type))
	}
}

func (h *Hub) joinRoom(c *Client, room string) {
	left := h.registry.Join(room, c.profile.ID, c.connID, c.profile)
	// Joining a new room implicitly leaves the previous one; its
	// remaining members hear about it.
	if left != nil {
		h.broadcast(left.Room, c.connID, encodeMessage(UserLeftType, left.Profile))
	}

	h.broadcast(room, c.connID, encodeMessage(UserJoinedType, c.profile))
	h.send(c, encodeMessage(ActiveUsersType, h.registry.ListActive(room)))
	logger.Sugar.Infof("User %s joined document %s", c.profile.ID, room)
}

func (h *Hub) leaveRoom(c *Client, room string) {
	left := h.registry.Leave(room, c.profile.ID, c.connID)
	if left == nil {
		return
	}
	h.broadcast(room, c.connID, encodeMessage(UserLeftType, left.Profile))
	logger.Sugar.Infof("User %s left document %s", c.profile.ID, room)
}

// broadcast fans a frame out to every room member except the
// originating connection.
func (h *Hub) broadcast(room, senderConnID string, frame []byte) {
	if frame == nil {
		return
	}
	for _, m := range h.registry.Members(room) {
		if m.ConnID == senderConnID {
			continue
		}
		if c, ok := h.clients[m.ConnID]; ok {
			h.send(c, frame)
		}
	}
}

// send is best-effort: a saturated or dead connection drops the frame.
func (h *Hub) send(c *Client, frame []byte) {
	if frame == nil {
		return
	}
	select {
	case c.send <- frame:
	default:
		logger.Sugar.Warnf("Client %s's send buffer is full, dropping frame", c.profile.ID)
	}
}
