// Package ports defines interfaces (contracts) between layers.
// These interfaces enable dependency injection and testability.
// Implementations live in adapters/.
package ports

import (
	"context"
	"time"

	"github.com/mapforge/mapforge/domain/mapping"
	"github.com/mapforge/mapforge/domain/schema"
)

// -----------------------------------------------------------------------------
// Infrastructure Ports
// -----------------------------------------------------------------------------

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

// IDGenerator generates unique identifiers.
type IDGenerator interface {
	New() string
}

// -----------------------------------------------------------------------------
// Schema Ports
// -----------------------------------------------------------------------------

// SchemaResolver resolves document types within a schema family and serves
// the derived element-order tables. Implementations cache tables for the
// process lifetime of a document type; Reload is the only invalidation.
type SchemaResolver interface {
	// ResolveDocumentType disambiguates the concrete document type for a
	// root-element hint. Resolution either yields exactly one descriptor or
	// fails; it never guesses among candidates.
	ResolveDocumentType(familyID, rootElementHint string) (schema.DocumentType, error)

	// ElementOrder returns the expected child order for a dotted element
	// context. ok=false means the context is unconstrained, which is a
	// normal answer for partially modeled schemas, not an error.
	ElementOrder(ctx context.Context, docType schema.DocumentType, contextPath string) (order []string, ok bool, err error)

	// Elements returns the full child constraints for a context.
	Elements(ctx context.Context, docType schema.DocumentType, contextPath string) ([]schema.Element, bool, error)

	// Reload drops the cached order table for one document type.
	Reload(docType schema.DocumentType)
}

// -----------------------------------------------------------------------------
// Data Store Ports
// -----------------------------------------------------------------------------

// MappingStore persists mapping configurations as immutable, named
// artifacts. Versioning/naming policy belongs to the store, not the engine.
type MappingStore interface {
	// Get retrieves a configuration by name.
	Get(ctx context.Context, name string) (mapping.Config, error)

	// Save stores a configuration under its name. Saving an existing name
	// is an error: saved configurations are immutable once named.
	Save(ctx context.Context, cfg mapping.Config) error

	// List returns the names of all stored configurations.
	List(ctx context.Context) ([]string, error)

	// Delete removes a configuration.
	Delete(ctx context.Context, name string) error
}
