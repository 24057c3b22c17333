package store

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pasternak-karmel/google-clone/internal/document/model"
)

// MemoryStore is the default Store: process-lifetime only, no
// durability. REST handlers run on their own goroutines, so access is
// guarded by a mutex.
type MemoryStore struct {
	mu       sync.RWMutex
	docs     map[string]*model.Document
	versions map[string][]model.Version // docID -> versions in append order
	names    NameLookup
}

func NewMemoryStore(names NameLookup) *MemoryStore {
	return &MemoryStore{
		docs:     make(map[string]*model.Document),
		versions: make(map[string][]model.Version),
		names:    names,
	}
}

func (s *MemoryStore) Create(title, ownerID string) (*model.Document, error) {
	now := time.Now()
	doc := &model.Document{
		ID:              uuid.NewString(),
		Title:           title,
		Content:         "",
		OwnerID:         ownerID,
		CollaboratorIDs: []string{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.docs[doc.ID] = doc
	s.appendVersion(doc, now)
	return copyDoc(doc), nil
}

func (s *MemoryStore) Get(id string) (*model.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyDoc(doc), nil
}

func (s *MemoryStore) ListByUser(userID string) ([]model.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := []model.Document{}
	for _, doc := range s.docs {
		if doc.HasAccess(userID) {
			docs = append(docs, *copyDoc(doc))
		}
	}
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].UpdatedAt.After(docs[j].UpdatedAt)
	})
	return docs, nil
}

func (s *MemoryStore) Update(id string, patch model.Patch) (*model.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.update(id, patch)
}

func (s *MemoryStore) update(id string, patch model.Patch) (*model.Document, error) {
	doc, ok := s.docs[id]
	if !ok {
		return nil, ErrNotFound
	}

	if patch.Title != nil {
		doc.Title = *patch.Title
	}
	if patch.Content != nil {
		doc.Content = *patch.Content
	}

	// updatedAt is monotonically non-decreasing.
	now := time.Now()
	if now.Before(doc.UpdatedAt) {
		now = doc.UpdatedAt
	}
	doc.UpdatedAt = now

	// Any patch that carries content grows the ledger, identical
	// content included.
	if patch.Content != nil {
		s.appendVersion(doc, now)
	}
	return copyDoc(doc), nil
}

func (s *MemoryStore) Share(id, userID string) (*model.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	for _, existing := range doc.CollaboratorIDs {
		if existing == userID {
			return copyDoc(doc), nil
		}
	}
	doc.CollaboratorIDs = append(doc.CollaboratorIDs, userID)
	if now := time.Now(); now.After(doc.UpdatedAt) {
		doc.UpdatedAt = now
	}
	return copyDoc(doc), nil
}

func (s *MemoryStore) Revert(id, versionID string) (*model.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[id]; !ok {
		return nil, ErrNotFound
	}

	var version *model.Version
	for i := range s.versions[id] {
		if s.versions[id][i].ID == versionID {
			version = &s.versions[id][i]
			break
		}
	}
	if version == nil {
		return nil, ErrNotFound
	}

	content := version.Content
	return s.update(id, model.Patch{Content: &content})
}

func (s *MemoryStore) ListVersions(id string) ([]model.Version, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.docs[id]; !ok {
		return nil, ErrNotFound
	}

	ledger := s.versions[id]
	// Append order is creation order; newest first.
	out := make([]model.Version, 0, len(ledger))
	for i := len(ledger) - 1; i >= 0; i-- {
		out = append(out, ledger[i])
	}
	return out, nil
}

func (s *MemoryStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[id]; !ok {
		return ErrNotFound
	}
	delete(s.docs, id)
	delete(s.versions, id)
	return nil
}

// appendVersion snapshots the document's current content. The owner is
// recorded as the author; the display name is captured now, not
// resolved at read time. Caller holds the lock.
func (s *MemoryStore) appendVersion(doc *model.Document, at time.Time) {
	name := "Unknown"
	if s.names != nil {
		name = s.names.DisplayName(doc.OwnerID)
	}
	s.versions[doc.ID] = append(s.versions[doc.ID], model.Version{
		ID:         uuid.NewString(),
		DocumentID: doc.ID,
		Content:    doc.Content,
		AuthorID:   doc.OwnerID,
		AuthorName: name,
		CreatedAt:  at,
	})
}

func copyDoc(doc *model.Document) *model.Document {
	out := *doc
	out.CollaboratorIDs = append([]string{}, doc.CollaboratorIDs...)
	return &out
}
