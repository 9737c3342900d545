package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/qdn-tickets/ticket-service/internal/qdn"
)

// StoredDocument is a raw document as kept by a mirror.
type StoredDocument struct {
	Ref     qdn.ResourceRef
	Body    []byte
	Created *int64
	Updated *int64
}

// DocumentRepository is a document mirror serving as a qdn.DocumentStore.
type DocumentRepository interface {
	qdn.DocumentStore
	Put(ctx context.Context, doc StoredDocument) error
}

type postgresDocumentRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresDocumentRepository instantiates the Postgres mirror.
func NewPostgresDocumentRepository(pool *pgxpool.Pool) DocumentRepository {
	return &postgresDocumentRepository{pool: pool}
}

func (r *postgresDocumentRepository) FetchResourceObject(ctx context.Context, ref qdn.ResourceRef) (*qdn.Resource, error) {
	const query = `
        SELECT body, created_at, updated_at
        FROM qdn_documents WHERE service=$1 AND name=$2 AND identifier=$3`
	if r.pool == nil {
		return nil, qdn.Failure(ref, 0, errors.New("postgres not configured"))
	}

	var (
		body             []byte
		created, updated *int64
	)
	err := r.pool.QueryRow(ctx, query, ref.Service, ref.Name, ref.Identifier).Scan(&body, &created, &updated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, qdn.NotFound(ref)
		}
		return nil, qdn.Failure(ref, 0, err)
	}
	return decodeStored(ref, body, created, updated)
}

func (r *postgresDocumentRepository) Put(ctx context.Context, doc StoredDocument) error {
	const query = `
        INSERT INTO qdn_documents (service, name, identifier, body, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6)
        ON CONFLICT (service, name, identifier) DO UPDATE
        SET body=EXCLUDED.body, created_at=EXCLUDED.created_at, updated_at=EXCLUDED.updated_at, mirrored_at=NOW()`
	if err := validateStored(doc); err != nil {
		return err
	}
	if r.pool == nil {
		return errors.New("postgres not configured")
	}
	_, err := r.pool.Exec(ctx, query,
		doc.Ref.Service,
		doc.Ref.Name,
		doc.Ref.Identifier,
		doc.Body,
		doc.Created,
		doc.Updated,
	)
	return err
}

func decodeStored(ref qdn.ResourceRef, body []byte, created, updated *int64) (*qdn.Resource, error) {
	res, err := qdn.DecodeResource(ref, body)
	if err != nil {
		return nil, err
	}
	res.Created = created
	res.Updated = updated
	return res, nil
}

func validateStored(doc StoredDocument) error {
	if doc.Ref.Service == "" || doc.Ref.Name == "" || doc.Ref.Identifier == "" {
		return fmt.Errorf("%w: service, name and identifier required", ErrInvalidInput)
	}
	if !json.Valid(doc.Body) {
		return fmt.Errorf("%w: body is not valid JSON", ErrInvalidInput)
	}
	return nil
}
