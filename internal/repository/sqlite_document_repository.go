package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/qdn-tickets/ticket-service/internal/qdn"
)

type sqliteDocumentRepository struct {
	db *sql.DB
}

// NewSQLiteDocumentRepository instantiates the local SQLite mirror.
func NewSQLiteDocumentRepository(db *sql.DB) DocumentRepository {
	return &sqliteDocumentRepository{db: db}
}

func (r *sqliteDocumentRepository) FetchResourceObject(ctx context.Context, ref qdn.ResourceRef) (*qdn.Resource, error) {
	const query = `
        SELECT body, created_at, updated_at
        FROM qdn_documents WHERE service=? AND name=? AND identifier=?`

	var (
		body             string
		created, updated sql.NullInt64
	)
	err := r.db.QueryRowContext(ctx, query, ref.Service, ref.Name, ref.Identifier).Scan(&body, &created, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, qdn.NotFound(ref)
		}
		return nil, qdn.Failure(ref, 0, err)
	}
	return decodeStored(ref, []byte(body), nullableInt(created), nullableInt(updated))
}

func (r *sqliteDocumentRepository) Put(ctx context.Context, doc StoredDocument) error {
	const query = `
        INSERT INTO qdn_documents (service, name, identifier, body, created_at, updated_at)
        VALUES (?,?,?,?,?,?)
        ON CONFLICT (service, name, identifier) DO UPDATE
        SET body=excluded.body, created_at=excluded.created_at, updated_at=excluded.updated_at, mirrored_at=CURRENT_TIMESTAMP`
	if err := validateStored(doc); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, query,
		doc.Ref.Service,
		doc.Ref.Name,
		doc.Ref.Identifier,
		string(doc.Body),
		doc.Created,
		doc.Updated,
	)
	return err
}

func nullableInt(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	return &v.Int64
}
