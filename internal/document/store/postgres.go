package store

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/pasternak-karmel/google-clone/internal/document/model"
	"github.com/pasternak-karmel/google-clone/pkg/logger"
)

// PostgresStore is the pluggable durable backend, selected when
// DATABASE_URL is configured. Same semantics as MemoryStore.
type PostgresStore struct {
	DB    *sql.DB
	names NameLookup
}

func NewPostgresStore(db *sql.DB, names NameLookup) *PostgresStore {
	return &PostgresStore{DB: db, names: names}
}

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	content TEXT NOT NULL DEFAULT '',
	owner_id TEXT NOT NULL,
	collaborators TEXT[] NOT NULL DEFAULT '{}',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS document_versions (
	id TEXT PRIMARY KEY,
	document_id TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
	content TEXT NOT NULL,
	author_id TEXT NOT NULL,
	author_name TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);`

// EnsureSchema creates the documents and document_versions tables if
// they do not exist yet.
func (s *PostgresStore) EnsureSchema() error {
	_, err := s.DB.Exec(schema)
	if err != nil {
		logger.Sugar.Errorf("Failed to ensure schema: %v", err)
	}
	return err
}

func (s *PostgresStore) Create(title, ownerID string) (*model.Document, error) {
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

	_, err := s.DB.Exec(
		`INSERT INTO documents (id, title, content, owner_id, collaborators, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $6)`,
		doc.ID, doc.Title, doc.Content, doc.OwnerID, pq.Array(doc.CollaboratorIDs), now)
	if err != nil {
		logger.Sugar.Errorf("Failed to create document: %v", err)
		return nil, err
	}

	if err := s.insertVersion(doc, now); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *PostgresStore) Get(id string) (*model.Document, error) {
	return s.scanDocument(s.DB.QueryRow(
		`SELECT id, title, content, owner_id, collaborators, created_at, updated_at
		 FROM documents WHERE id = $1`, id))
}

func (s *PostgresStore) ListByUser(userID string) ([]model.Document, error) {
	rows, err := s.DB.Query(
		`SELECT id, title, content, owner_id, collaborators, created_at, updated_at
		 FROM documents WHERE owner_id = $1 OR $1 = ANY(collaborators)
		 ORDER BY updated_at DESC`, userID)
	if err != nil {
		logger.Sugar.Errorf("Failed to list documents for user %s: %v", userID, err)
		return nil, err
	}
	defer rows.Close()

	docs := []model.Document{}
	for rows.Next() {
		var doc model.Document
		var collaborators pq.StringArray
		if err := rows.Scan(&doc.ID, &doc.Title, &doc.Content, &doc.OwnerID,
			&collaborators, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
			return nil, err
		}
		doc.CollaboratorIDs = collaborators
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (s *PostgresStore) Update(id string, patch model.Patch) (*model.Document, error) {
	doc, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		doc.Title = *patch.Title
	}
	if patch.Content != nil {
		doc.Content = *patch.Content
	}
	now := time.Now()
	if now.Before(doc.UpdatedAt) {
		now = doc.UpdatedAt
	}
	doc.UpdatedAt = now

	_, err = s.DB.Exec(
		`UPDATE documents SET title = $2, content = $3, updated_at = $4 WHERE id = $1`,
		id, doc.Title, doc.Content, now)
	if err != nil {
		logger.Sugar.Errorf("Failed to update document %s: %v", id, err)
		return nil, err
	}

	if patch.Content != nil {
		if err := s.insertVersion(doc, now); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func (s *PostgresStore) Share(id, userID string) (*model.Document, error) {
	// array_append only when the user is not already present keeps the
	// operation idempotent without a read-modify-write cycle.
	_, err := s.DB.Exec(
		`UPDATE documents SET collaborators = array_append(collaborators, $2), updated_at = $3
		 WHERE id = $1 AND NOT ($2 = ANY(collaborators))`,
		id, userID, time.Now())
	if err != nil {
		logger.Sugar.Errorf("Failed to share document %s with %s: %v", id, userID, err)
		return nil, err
	}
	return s.Get(id)
}

func (s *PostgresStore) Revert(id, versionID string) (*model.Document, error) {
	var content string
	err := s.DB.QueryRow(
		`SELECT content FROM document_versions WHERE id = $1 AND document_id = $2`,
		versionID, id).Scan(&content)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	} else if err != nil {
		logger.Sugar.Errorf("Failed to look up version %s of doc %s: %v", versionID, id, err)
		return nil, err
	}
	return s.Update(id, model.Patch{Content: &content})
}

func (s *PostgresStore) ListVersions(id string) ([]model.Version, error) {
	if _, err := s.Get(id); err != nil {
		return nil, err
	}

	rows, err := s.DB.Query(
		`SELECT id, document_id, content, author_id, author_name, created_at
		 FROM document_versions WHERE document_id = $1 ORDER BY created_at DESC`, id)
	if err != nil {
		logger.Sugar.Errorf("Failed to list versions for doc %s: %v", id, err)
		return nil, err
	}
	defer rows.Close()

	versions := []model.Version{}
	for rows.Next() {
		var v model.Version
		if err := rows.Scan(&v.ID, &v.DocumentID, &v.Content, &v.AuthorID,
			&v.AuthorName, &v.CreatedAt); err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

func (s *PostgresStore) Delete(id string) error {
	// Versions cascade via the foreign key.
	result, err := s.DB.Exec(`DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		logger.Sugar.Errorf("Failed to delete doc %s: %v", id, err)
		return err
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) insertVersion(doc *model.Document, at time.Time) error {
	name := "Unknown"
	if s.names != nil {
		name = s.names.DisplayName(doc.OwnerID)
	}
	_, err := s.DB.Exec(
		`INSERT INTO document_versions (id, document_id, content, author_id, author_name, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.NewString(), doc.ID, doc.Content, doc.OwnerID, name, at)
	if err != nil {
		logger.Sugar.Errorf("Failed to append version for doc %s: %v", doc.ID, err)
	}
	return err
}

func (s *PostgresStore) scanDocument(row *sql.Row) (*model.Document, error) {
	var doc model.Document
	var collaborators pq.StringArray
	err := row.Scan(&doc.ID, &doc.Title, &doc.Content, &doc.OwnerID,
		&collaborators, &doc.CreatedAt, &doc.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	} else if err != nil {
		logger.Sugar.Errorf("Failed to scan document: %v", err)
		return nil, err
	}
	doc.CollaboratorIDs = collaborators
	return &doc, nil
}
