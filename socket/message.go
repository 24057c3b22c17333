package socket

import (
	"encoding/json"

	"github.com/pasternak-karmel/google-clone/internal/identity"
	"github.com/pasternak-karmel/google-clone/pkg/logger"
)

// Message types, client to server and server to client.
const (
	HandshakeType       = "handshake"        // first frame: {token, user}
	JoinDocumentType    = "join-document"    // client joins a document room
	LeaveDocumentType   = "leave-document"   // client leaves its current room
	DocumentChangeType  = "document-change"  // client relays an edit
	ActiveUsersType     = "active-users"     // roster, sent only to the joiner
	UserJoinedType      = "user-joined"      // broadcast, excludes the joiner
	UserLeftType        = "user-left"        // broadcast, excludes the leaver
	DocumentChangedType = "document-changed" // broadcast, excludes the sender
	ErrorType           = "error"            // protocol failure; connection stays open
)

// Message is the JSON envelope every frame uses, in both directions.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// HandshakePayload carries the credential and optional display profile
// from the connection's first frame. A missing token is tolerated; the
// connection falls back to an anonymous identity.
type HandshakePayload struct {
	Token string            `json:"token"`
	User  *identity.Profile `json:"user"`
}

type JoinPayload struct {
	DocumentID string `json:"documentId"`
}

// ChangePayload is a client's edit. Changes is opaque; the server
// relays it without inspection.
type ChangePayload struct {
	DocumentID string          `json:"documentId"`
	Changes    json.RawMessage `json:"changes"`
}

type ChangedPayload struct {
	UserID  string          `json:"userId"`
	Changes json.RawMessage `json:"changes"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

func encodeMessage(msgType string, payload interface{}) []byte {
	raw, err := json.Marshal(payload)
	if err != nil {
		logger.Sugar.Errorf("Error marshalling %s payload: %v", msgType, err)
		return nil
	}
	data, err := json.Marshal(Message{Type: msgType, Payload: raw})
	if err != nil {
		logger.Sugar.Errorf("Error marshalling %s message: %v", msgType, err)
		return nil
	}
	return data
}

func errorMessage(text string) []byte {
	return encodeMessage(ErrorType, ErrorPayload{Message: text})
}
