// Package qdn defines the document store contract used by the ticket
// resolver and a client for the QDN HTTP API of a Qortal core node.
package qdn

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/qdn-tickets/ticket-service/internal/domain"
)

// ServiceDocument is the QDN service holding ticket documents.
const ServiceDocument = "DOCUMENT"

// ResourceRef addresses a single QDN resource.
type ResourceRef struct {
	Service    string
	Name       string
	Identifier string
}

// DocumentRef builds a ref for the DOCUMENT service.
func DocumentRef(name, identifier string) ResourceRef {
	return ResourceRef{Service: ServiceDocument, Name: name, Identifier: identifier}
}

func (r ResourceRef) String() string {
	return fmt.Sprintf("%s/%s/%s", r.Service, r.Name, r.Identifier)
}

// Resource is a decoded document plus the timestamps the store attributes to it.
// Created and Updated are milliseconds since epoch and nil when unknown.
// Document is fully decoded only for domain.SupportedSchemaVersion; for any
// other version only Document.Version is set.
type Resource struct {
	Ref      ResourceRef
	Document domain.Document
	Created  *int64
	Updated  *int64
}

// DocumentStore fetches documents by coordinates. Implementations return a
// *StoreError: KindNotFound when nothing is stored at ref, KindFailure for
// everything else.
type DocumentStore interface {
	FetchResourceObject(ctx context.Context, ref ResourceRef) (*Resource, error)
}

// Pinger is implemented by stores that can report their own availability.
type Pinger interface {
	Ping(ctx context.Context) error
}

type versionHeader struct {
	Version domain.SchemaVersion `json:"version"`
}

// DecodeResource decodes a raw JSON document body. The version is read
// first; bodies of other versions, including valid JSON that is not an
// object, are returned undecoded so their layout cannot cause an error.
// Only syntactically invalid JSON and a malformed supported document fail.
func DecodeResource(ref ResourceRef, body []byte) (*Resource, error) {
	if !json.Valid(body) {
		return nil, Failure(ref, 0, errors.New("decode document: invalid JSON"))
	}

	var header versionHeader
	if err := json.Unmarshal(body, &header); err != nil {
		header.Version = 0
	}
	res := &Resource{Ref: ref, Document: domain.Document{Version: header.Version}}
	if header.Version != domain.SupportedSchemaVersion {
		return res, nil
	}

	if err := json.Unmarshal(body, &res.Document); err != nil {
		return nil, Failure(ref, 0, fmt.Errorf("decode document: %w", err))
	}
	return res, nil
}
