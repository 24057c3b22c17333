package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pasternak-karmel/google-clone/internal/document/model"
)

type staticNames map[string]string

func (n staticNames) DisplayName(id string) string {
	if name, ok := n[id]; ok {
		return name
	}
	return "Unknown"
}

func newTestStore() *MemoryStore {
	return NewMemoryStore(staticNames{"u1": "Alice", "u2": "Bob"})
}

func strPtr(s string) *string { return &s }

func TestCreateWritesInitialEmptyVersion(t *testing.T) {
	s := newTestStore()

	doc, err := s.Create("Notes", "u1")
	require.NoError(t, err)
	assert.Equal(t, "Notes", doc.Title)
	assert.Equal(t, "", doc.Content)
	assert.Equal(t, "u1", doc.OwnerID)
	assert.Empty(t, doc.CollaboratorIDs)

	versions, err := s.ListVersions(doc.ID)
	require.NoError(t, err)
	require.Len(t, versions, 1)
	assert.Equal(t, "", versions[0].Content)
	assert.Equal(t, "u1", versions[0].AuthorID)
	assert.Equal(t, "Alice", versions[0].AuthorName)
}

func TestUpdateWithContentAlwaysAppendsVersion(t *testing.T) {
	s := newTestStore()
	doc, err := s.Create("Notes", "u1")
	require.NoError(t, err)

	_, err = s.Update(doc.ID, model.Patch{Content: strPtr("hello")})
	require.NoError(t, err)

	// Identical content still grows the ledger; there is no dedup.
	_, err = s.Update(doc.ID, model.Patch{Content: strPtr("hello")})
	require.NoError(t, err)

	versions, err := s.ListVersions(doc.ID)
	require.NoError(t, err)
	assert.Len(t, versions, 3)
	assert.Equal(t, "hello", versions[0].Content, "versions are newest first")
	assert.Equal(t, "", versions[2].Content)
}

func TestUpdateTitleOnlyDoesNotAppendVersion(t *testing.T) {
	s := newTestStore()
	doc, err := s.Create("Notes", "u1")
	require.NoError(t, err)

	updated, err := s.Update(doc.ID, model.Patch{Title: strPtr("Renamed")})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.False(t, updated.UpdatedAt.Before(doc.UpdatedAt))

	versions, err := s.ListVersions(doc.ID)
	require.NoError(t, err)
	assert.Len(t, versions, 1)
}

func TestUpdateMissingDocument(t *testing.T) {
	s := newTestStore()
	_, err := s.Update("nope", model.Patch{Content: strPtr("x")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestShareIsIdempotent(t *testing.T) {
	s := newTestStore()
	doc, err := s.Create("Notes", "u1")
	require.NoError(t, err)

	_, err = s.Share(doc.ID, "u2")
	require.NoError(t, err)
	shared, err := s.Share(doc.ID, "u2")
	require.NoError(t, err)

	assert.Equal(t, []string{"u2"}, shared.CollaboratorIDs)

	_, err = s.Share("nope", "u2")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRevertIsAdditive(t *testing.T) {
	s := newTestStore()
	doc, err := s.Create("Notes", "u1")
	require.NoError(t, err)

	_, err = s.Update(doc.ID, model.Patch{Content: strPtr("v1")})
	require.NoError(t, err)
	_, err = s.Update(doc.ID, model.Patch{Content: strPtr("v2")})
	require.NoError(t, err)

	versions, err := s.ListVersions(doc.ID)
	require.NoError(t, err)
	require.Len(t, versions, 3)

	// Oldest version is the initial empty snapshot; revert to "v1".
	var target model.Version
	for _, v := range versions {
		if v.Content == "v1" {
			target = v
		}
	}
	require.NotEmpty(t, target.ID)

	reverted, err := s.Revert(doc.ID, target.ID)
	require.NoError(t, err)
	assert.Equal(t, "v1", reverted.Content)

	after, err := s.ListVersions(doc.ID)
	require.NoError(t, err)
	assert.Len(t, after, 4, "revert appends, never truncates")
	assert.Equal(t, "v1", after[0].Content)
}

func TestRevertUnknownVersionLeavesStateUntouched(t *testing.T) {
	s := newTestStore()
	doc, err := s.Create("Notes", "u1")
	require.NoError(t, err)
	_, err = s.Update(doc.ID, model.Patch{Content: strPtr("v1")})
	require.NoError(t, err)

	_, err = s.Revert(doc.ID, "no-such-version")
	assert.ErrorIs(t, err, ErrNotFound)

	current, err := s.Get(doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "v1", current.Content)

	versions, err := s.ListVersions(doc.ID)
	require.NoError(t, err)
	assert.Len(t, versions, 2)
}

func TestRevertRejectsVersionOfAnotherDocument(t *testing.T) {
	s := newTestStore()
	docA, err := s.Create("A", "u1")
	require.NoError(t, err)
	docB, err := s.Create("B", "u1")
	require.NoError(t, err)

	versionsB, err := s.ListVersions(docB.ID)
	require.NoError(t, err)
	require.Len(t, versionsB, 1)

	_, err = s.Revert(docA.ID, versionsB[0].ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteCascadesVersions(t *testing.T) {
	s := newTestStore()
	doc, err := s.Create("Notes", "u1")
	require.NoError(t, err)

	require.NoError(t, s.Delete(doc.ID))

	_, err = s.Get(doc.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.ListVersions(doc.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.Delete(doc.ID), ErrNotFound)
}

func TestListByUserIncludesSharedDocuments(t *testing.T) {
	s := newTestStore()
	docA, err := s.Create("Mine", "u1")
	require.NoError(t, err)
	docB, err := s.Create("Theirs", "u2")
	require.NoError(t, err)
	_, err = s.Share(docB.ID, "u1")
	require.NoError(t, err)
	_, err = s.Create("NotMine", "u2")
	require.NoError(t, err)

	docs, err := s.ListByUser("u1")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	ids := []string{docs[0].ID, docs[1].ID}
	assert.Contains(t, ids, docA.ID)
	assert.Contains(t, ids, docB.ID)
}
