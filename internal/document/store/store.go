package store

import (
	"errors"

	"github.com/pasternak-karmel/google-clone/internal/document/model"
)

// ErrNotFound is returned when a document or version does not exist.
var ErrNotFound = errors.New("document not found")

// NameLookup resolves a user id to a display name at version-write
// time. The identity directory implements it.
type NameLookup interface {
	DisplayName(userID string) string
}

// Store owns the document records and their append-only version
// ledger. It performs no authorization; callers are trusted to have
// checked owner/collaborator rights already.
type Store interface {
	// Create makes a new document with empty content, no
	// collaborators, and one initial empty version authored by the
	// owner.
	Create(title, ownerID string) (*model.Document, error)

	Get(id string) (*model.Document, error)

	// ListByUser returns documents the user owns or collaborates on,
	// most recently updated first.
	ListByUser(userID string) ([]model.Document, error)

	// Update merges the fields present in patch and bumps updatedAt.
	// Whenever patch carries content, a new version is appended,
	// even if the content is identical to the current one.
	Update(id string, patch model.Patch) (*model.Document, error)

	// Share adds userID to the collaborator set. Idempotent.
	Share(id, userID string) (*model.Document, error)

	// Revert restores the content of the named version through
	// Update, appending a new version; prior history is untouched.
	// The version must belong to the document.
	Revert(id, versionID string) (*model.Document, error)

	// ListVersions returns the document's versions, newest first.
	ListVersions(id string) ([]model.Version, error)

	// Delete removes the document and cascades to its versions.
	Delete(id string) error
}
