package service

import (
	"errors"
	"fmt"

	"github.com/pasternak-karmel/google-clone/internal/document/model"
	"github.com/pasternak-karmel/google-clone/internal/document/store"
	"github.com/pasternak-karmel/google-clone/internal/identity"
	"github.com/pasternak-karmel/google-clone/pkg/logger"
)

var (
	// ErrNotFound re-exports the store sentinel so handlers map on one
	// package.
	ErrNotFound     = store.ErrNotFound
	ErrUnauthorized = errors.New("unauthorized")
	ErrValidation   = errors.New("validation failed")
)

// UserLookup resolves emails and ids against the identity directory.
type UserLookup interface {
	GetByEmail(email string) (identity.Profile, error)
}

// RoomEvictor tears down a document's live room. The websocket hub
// implements it; deletes use it so connected editors are not left on
// a ghost document.
type RoomEvictor interface {
	RemoveDocument(docID string)
}

// DocumentService is the facade over the versioned store. All
// owner/collaborator authorization happens here; the store trusts its
// caller.
type DocumentService struct {
	Store store.Store
	Users UserLookup
	Rooms RoomEvictor
}

func NewDocumentService(s store.Store, users UserLookup, rooms RoomEvictor) *DocumentService {
	return &DocumentService{Store: s, Users: users, Rooms: rooms}
}

func (s *DocumentService) Create(ownerID, title string) (*model.Document, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	doc, err := s.Store.Create(title, ownerID)
	if err != nil {
		return nil, err
	}
	logger.Sugar.Infof("User %s created document %s (%q)", ownerID, doc.ID, doc.Title)
	return doc, nil
}

func (s *DocumentService) Get(id, actorID string) (*model.Document, error) {
	doc, err := s.Store.Get(id)
	if err != nil {
		return nil, err
	}
	if !doc.HasAccess(actorID) {
		return nil, ErrUnauthorized
	}
	return doc, nil
}

func (s *DocumentService) List(actorID string) ([]model.Document, error) {
	return s.Store.ListByUser(actorID)
}

func (s *DocumentService) Update(id, actorID string, patch model.Patch) (*model.Document, error) {
	if _, err := s.Get(id, actorID); err != nil {
		return nil, err
	}
	return s.Store.Update(id, patch)
}

func (s *DocumentService) Delete(id, actorID string) error {
	doc, err := s.Store.Get(id)
	if err != nil {
		return err
	}
	// Only the owner can delete.
	if doc.OwnerID != actorID {
		return ErrUnauthorized
	}
	if err := s.Store.Delete(id); err != nil {
		return err
	}
	if s.Rooms != nil {
		s.Rooms.RemoveDocument(id)
	}
	logger.Sugar.Infof("User %s deleted document %s", actorID, id)
	return nil
}

// Share grants email's user collaborator access. Only the owner may
// share; sharing with an existing collaborator is a no-op.
func (s *DocumentService) Share(id, actorID, email string) (*model.Document, error) {
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrValidation)
	}

	doc, err := s.Store.Get(id)
	if err != nil {
		return nil, err
	}
	if doc.OwnerID != actorID {
		return nil, ErrUnauthorized
	}

	user, err := s.Users.GetByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("no user with email %q: %w", email, ErrNotFound)
	}
	return s.Store.Share(id, user.ID)
}

func (s *DocumentService) ListVersions(id, actorID string) ([]model.Version, error) {
	if _, err := s.Get(id, actorID); err != nil {
		return nil, err
	}
	return s.Store.ListVersions(id)
}

func (s *DocumentService) Revert(id, actorID, versionID string) (*model.Document, error) {
	if versionID == "" {
		return nil, fmt.Errorf("%w: versionId is required", ErrValidation)
	}
	if _, err := s.Get(id, actorID); err != nil {
		return nil, err
	}
	return s.Store.Revert(id, versionID)
}
