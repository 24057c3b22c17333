package socket

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/pasternak-karmel/google-clone/internal/identity"
	"github.com/pasternak-karmel/google-clone/pkg/logger"
)

const handshakeTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// CheckOrigin allows us to connect from our Next.js dev server
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Client is one live connection and its bound identity.
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	connID  string
	profile identity.Profile
	send    chan []byte
}

// ServeWs upgrades the connection, resolves an identity from the
// handshake frame, and hands the client to the hub.
func ServeWs(hub *Hub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Sugar.Error(err)
		return
	}

	connID := uuid.NewString()

	// The first frame must arrive promptly; everything after the
	// handshake has no read deadline.
	conn.SetReadDeadline(time.Now().Add(handshakeTimeout))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		logger.Sugar.Warnf("Connection %s closed before handshake: %v", connID, err)
		conn.Close()
		return
	}
	conn.SetReadDeadline(time.Time{})

	var first Message
	var hs HandshakePayload
	var deferred *Message
	if err := json.Unmarshal(raw, &first); err == nil && first.Type == HandshakeType {
		// A malformed handshake payload degrades to anonymous, like a
		// missing token; the connection is not rejected.
		_ = json.Unmarshal(first.Payload, &hs)
	} else if err == nil {
		// No handshake at all: treat the connection as anonymous and
		// still dispatch the frame it sent.
		deferred = &first
	}

	client := &Client{
		hub:     hub,
		conn:    conn,
		connID:  connID,
		profile: resolveIdentity(hub.verifier, connID, hs),
		send:    make(chan []byte, 256),
	}

	client.hub.register <- client

	go client.writePump()
	go client.readPump()

	if hs.Token == "" {
		// Deliberate graceful degradation, not an error; surfaced in
		// the logs only.
		logger.Sugar.Warnf("No token provided, connection %s degraded to %s", connID, client.profile.ID)
	}
	if deferred != nil {
		hub.inbound <- inbound{client: client, msg: *deferred}
	}
}

// resolveIdentity binds a profile to the connection. A missing token
// yields an ephemeral anonymous identity; a token the verifier rejects
// does the same rather than dropping the connection. A display profile
// supplied in the handshake overrides the verified names but never the
// verified id.
func resolveIdentity(verifier identity.Verifier, connID string, hs HandshakePayload) identity.Profile {
	short := connID
	if len(short) > 4 {
		short = short[:4]
	}
	profile := identity.Profile{
		ID:    "anonymous-" + connID,
		Name:  "User " + short,
		Email: "user-" + short + "@example.com",
	}

	if hs.Token != "" && verifier != nil {
		verified, err := verifier.Verify(hs.Token)
		if err != nil {
			logger.Sugar.Warnf("Token verification failed on conn %s, degrading to anonymous: %v", connID, err)
		} else {
			profile = verified
		}
	}

	if hs.User != nil {
		if hs.User.Name != "" {
			profile.Name = hs.User.Name
		}
		if hs.User.Email != "" {
			profile.Email = hs.User.Email
		}
		if hs.User.Image != "" {
			profile.Image = hs.User.Image
		}
	}
	return profile
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Sugar.Errorf("error: %v", err)
			}
			break
		}

		var msg Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			logger.Sugar.Errorf("Error unmarshalling message: %v", err)
			select {
			case c.send <- errorMessage("malformed message"):
			default:
			}
			continue
		}

		c.hub.inbound <- inbound{client: c, msg: msg}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second) // Send ping every 30s
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			c.conn.WriteMessage(websocket.TextMessage, message)
		case <-ticker.C:
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return // Connection is dead
			}
		}
	}
}
