package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pasternak-karmel/google-clone/internal/document/model"
	"github.com/pasternak-karmel/google-clone/internal/document/store"
	"github.com/pasternak-karmel/google-clone/internal/identity"
)

type evictRecorder struct {
	evicted []string
}

func (e *evictRecorder) RemoveDocument(docID string) {
	e.evicted = append(e.evicted, docID)
}

func newTestService(t *testing.T) (*DocumentService, *identity.Directory, *evictRecorder) {
	directory := identity.NewDirectory()
	evictor := &evictRecorder{}
	svc := NewDocumentService(store.NewMemoryStore(directory), directory, evictor)
	return svc, directory, evictor
}

func registerUser(t *testing.T, d *identity.Directory, name, email string) identity.Profile {
	t.Helper()
	profile, err := d.Register(name, email, "password123")
	require.NoError(t, err)
	return profile
}

func strPtr(s string) *string { return &s }

func TestCreateRequiresTitle(t *testing.T) {
	svc, directory, _ := newTestService(t)
	owner := registerUser(t, directory, "Alice", "alice@example.com")

	_, err := svc.Create(owner.ID, "")
	assert.ErrorIs(t, err, ErrValidation)

	doc, err := svc.Create(owner.ID, "Notes")
	require.NoError(t, err)
	assert.Equal(t, owner.ID, doc.OwnerID)
}

func TestGetEnforcesAccess(t *testing.T) {
	svc, directory, _ := newTestService(t)
	owner := registerUser(t, directory, "Alice", "alice@example.com")
	stranger := registerUser(t, directory, "Mallory", "mallory@example.com")

	doc, err := svc.Create(owner.ID, "Notes")
	require.NoError(t, err)

	_, err = svc.Get(doc.ID, stranger.ID)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.Get("missing", owner.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := svc.Get(doc.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.ID, got.ID)
}

func TestShareResolvesEmailAndGrantsAccess(t *testing.T) {
	svc, directory, _ := newTestService(t)
	owner := registerUser(t, directory, "Alice", "alice@example.com")
	collab := registerUser(t, directory, "Bob", "bob@example.com")

	doc, err := svc.Create(owner.ID, "Notes")
	require.NoError(t, err)

	_, err = svc.Share(doc.ID, owner.ID, "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Share(doc.ID, owner.ID, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Share(doc.ID, collab.ID, "bob@example.com")
	assert.ErrorIs(t, err, ErrUnauthorized, "only the owner can share")

	shared, err := svc.Share(doc.ID, owner.ID, "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{collab.ID}, shared.CollaboratorIDs)

	// Collaborator can now read and update.
	_, err = svc.Get(doc.ID, collab.ID)
	assert.NoError(t, err)
	_, err = svc.Update(doc.ID, collab.ID, model.Patch{Content: strPtr("hi")})
	assert.NoError(t, err)
}

func TestDeleteIsOwnerOnlyAndEvictsRoom(t *testing.T) {
	svc, directory, evictor := newTestService(t)
	owner := registerUser(t, directory, "Alice", "alice@example.com")
	collab := registerUser(t, directory, "Bob", "bob@example.com")

	doc, err := svc.Create(owner.ID, "Notes")
	require.NoError(t, err)
	_, err = svc.Share(doc.ID, owner.ID, "bob@example.com")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(doc.ID, collab.ID), ErrUnauthorized)

	require.NoError(t, svc.Delete(doc.ID, owner.ID))
	assert.Equal(t, []string{doc.ID}, evictor.evicted)

	_, err = svc.Get(doc.ID, owner.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRevertValidatesVersionID(t *testing.T) {
	svc, directory, _ := newTestService(t)
	owner := registerUser(t, directory, "Alice", "alice@example.com")

	doc, err := svc.Create(owner.ID, "Notes")
	require.NoError(t, err)

	_, err = svc.Revert(doc.ID, owner.ID, "")
	assert.ErrorIs(t, err, ErrValidation)

	versions, err := svc.ListVersions(doc.ID, owner.ID)
	require.NoError(t, err)
	require.Len(t, versions, 1)

	reverted, err := svc.Revert(doc.ID, owner.ID, versions[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "", reverted.Content)

	after, err := svc.ListVersions(doc.ID, owner.ID)
	require.NoError(t, err)
	assert.Len(t, after, 2)
}

func TestVersionAuthorNameCapturedAtWriteTime(t *testing.T) {
	svc, directory, _ := newTestService(t)
	owner := registerUser(t, directory, "Alice", "alice@example.com")

	doc, err := svc.Create(owner.ID, "Notes")
	require.NoError(t, err)

	versions, err := svc.ListVersions(doc.ID, owner.ID)
	require.NoError(t, err)
	require.Len(t, versions, 1)
	assert.Equal(t, "Alice", versions[0].AuthorName)
	assert.Equal(t, owner.ID, versions[0].AuthorID)
}
