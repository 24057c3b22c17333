package model

import "time"

// Document is a shared rich-text document. Content is an opaque
// serialized editor tree; the store never inspects it.
type Document struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Content         string    `json:"content"`
	OwnerID         string    `json:"ownerId"`
	CollaboratorIDs []string  `json:"collaboratorIds"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// HasAccess reports whether userID is the owner or a collaborator.
func (d *Document) HasAccess(userID string) bool {
	if d.OwnerID == userID {
		return true
	}
	for _, id := range d.CollaboratorIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// Version is one full-content snapshot in a document's append-only
// history. AuthorName is captured at write time, not looked up live.
type Version struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"documentId"`
	Content    string    `json:"content"`
	AuthorID   string    `json:"authorId"`
	AuthorName string    `json:"authorName"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Patch carries the fields an update may change. Nil means "leave as
// is"; a non-nil Content always appends a version, even when the value
// is unchanged.
type Patch struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

type CreateDocRequest struct {
	Title string `json:"title"`
}

type UpdateDocRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

type ShareRequest struct {
	Email string `json:"email"`
}

type RevertRequest struct {
	VersionID string `json:"versionId"`
}
