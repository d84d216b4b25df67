package xsd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/mapforge/mapforge/adapters/metrics"
	"github.com/mapforge/mapforge/domain/schema"
)

// Resolution failures. Resolution never falls back to an arbitrary
// candidate: an ambiguous or unknown hint is an explicit error.
var (
	ErrUnknownFamily         = errors.New("unknown schema family")
	ErrUnknownDocumentType   = errors.New("unknown document type")
	ErrAmbiguousDocumentType = errors.New("ambiguous document type")
)

// Resolver loads schema families from a filesystem and serves cached
// element-order tables. Tables are immutable once built; the cache is
// read-mostly and concurrent misses for the same document type are
// coalesced into a single build.
type Resolver struct {
	fsys     fs.FS
	families map[string]schema.Family
	logger   zerolog.Logger
	metrics  *metrics.Collector // optional

	mu     sync.RWMutex
	tables map[string]*schema.OrderTable
	group  singleflight.Group
}

// New creates a resolver over the given filesystem. Family directories are
// relative to fsys. The metrics collector may be nil.
func New(fsys fs.FS, families []schema.Family, logger zerolog.Logger, collector *metrics.Collector) *Resolver {
	fams := make(map[string]schema.Family, len(families))
	for _, f := range families {
		fams[f.ID] = f
	}
	return &Resolver{
		fsys:     fsys,
		families: fams,
		logger:   logger.With().Str("component", "xsd-resolver").Logger(),
		metrics:  collector,
		tables:   make(map[string]*schema.OrderTable),
	}
}

// Families returns the configured families sorted by ID.
func (r *Resolver) Families() []schema.Family {
	out := make([]schema.Family, 0, len(r.families))
	for _, f := range r.families {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ResolveDocumentType finds the concrete definition file for a root-element
// hint. An exact "<Prefix>-<hint>-" filename match wins; failing that, a
// single-type family resolves to its only type; anything else is an
// explicit failure, never a guess.
func (r *Resolver) ResolveDocumentType(familyID, rootElementHint string) (schema.DocumentType, error) {
	fam, ok := r.families[familyID]
	if !ok {
		return schema.DocumentType{}, fmt.Errorf("%w: %s", ErrUnknownFamily, familyID)
	}
	files, err := r.definitionFiles(fam)
	if err != nil {
		return schema.DocumentType{}, err
	}

	if rootElementHint != "" {
		marker := fam.Prefix + "-" + rootElementHint + "-"
		var exact []string
		for _, f := range files {
			if strings.Contains(path.Base(f), marker) {
				exact = append(exact, f)
			}
		}
		switch len(exact) {
		case 1:
			return schema.DocumentType{FamilyID: fam.ID, RootElement: rootElementHint, DefinitionFile: exact[0]}, nil
		default:
			if len(exact) > 1 {
				return schema.DocumentType{}, fmt.Errorf("%w: %d files match %q in family %s",
					ErrAmbiguousDocumentType, len(exact), marker, fam.ID)
			}
		}
	}

	// No exact match: a single-type family still resolves unambiguously.
	types := r.documentTypes(fam, files)
	if len(types) == 1 {
		return types[0], nil
	}
	if len(types) == 0 {
		return schema.DocumentType{}, fmt.Errorf("%w: family %s has no definition files", ErrUnknownDocumentType, fam.ID)
	}
	return schema.DocumentType{}, fmt.Errorf("%w: hint %q does not identify one of %d types in family %s",
		ErrAmbiguousDocumentType, rootElementHint, len(types), fam.ID)
}

// DocumentTypes lists the document types a family declares, derived from
// its "<Prefix>-<RootElement>-..." definition filenames.
func (r *Resolver) DocumentTypes(familyID string) ([]schema.DocumentType, error) {
	fam, ok := r.families[familyID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFamily, familyID)
	}
	files, err := r.definitionFiles(fam)
	if err != nil {
		return nil, err
	}
	return r.documentTypes(fam, files), nil
}

// ElementOrder returns the expected child order for a dotted element
// context, building (or reusing) the document type's order table.
func (r *Resolver) ElementOrder(ctx context.Context, docType schema.DocumentType, contextPath string) ([]string, bool, error) {
	table, err := r.table(ctx, docType)
	if err != nil {
		return nil, false, err
	}
	order, ok := table.Order(contextPath)
	return order, ok, nil
}

// Elements returns the full child constraints for a context.
func (r *Resolver) Elements(ctx context.Context, docType schema.DocumentType, contextPath string) ([]schema.Element, bool, error) {
	table, err := r.table(ctx, docType)
	if err != nil {
		return nil, false, err
	}
	elems, ok := table.Elements(contextPath)
	return elems, ok, nil
}

// Reload drops the cached table for one document type. The next lookup
// rebuilds from the schema files.
func (r *Resolver) Reload(docType schema.DocumentType) {
	r.mu.Lock()
	delete(r.tables, docType.Key())
	r.mu.Unlock()
	r.logger.Info().Str("doc_type", docType.Key()).Msg("order table invalidated")
}

// InvalidateFamily drops every cached table belonging to a family. Used by
// the schema-directory watcher.
func (r *Resolver) InvalidateFamily(familyID string) {
	prefix := familyID + "/"
	r.mu.Lock()
	for key := range r.tables {
		if strings.HasPrefix(key, prefix) {
			delete(r.tables, key)
		}
	}
	r.mu.Unlock()
	r.logger.Info().Str("family", familyID).Msg("family order tables invalidated")
}

// table returns the cached order table, building it at most once per
// document type across concurrent callers. A build error poisons nothing:
// other document types keep their tables and the failed type retries on
// the next lookup.
func (r *Resolver) table(ctx context.Context, docType schema.DocumentType) (*schema.OrderTable, error) {
	key := docType.Key()

	r.mu.RLock()
	table, ok := r.tables[key]
	r.mu.RUnlock()
	if ok {
		if r.metrics != nil {
			r.metrics.OrderTableCacheHits.Inc()
		}
		return table, nil
	}

	v, err, _ := r.group.Do(key, func() (any, error) {
		// A racing build may have finished while we queued.
		r.mu.RLock()
		existing, ok := r.tables[key]
		r.mu.RUnlock()
		if ok {
			return existing, nil
		}

		built, err := r.build(docType)
		if err != nil {
			if r.metrics != nil {
				r.metrics.OrderTableBuildErrors.Inc()
			}
			return nil, err
		}

		r.mu.Lock()
		r.tables[key] = built
		r.mu.Unlock()
		return built, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*schema.OrderTable), nil
}

func (r *Resolver) build(docType schema.DocumentType) (*schema.OrderTable, error) {
	set, err := loadSchemaSet(r.fsys, docType.DefinitionFile)
	if err != nil {
		return nil, fmt.Errorf("load document type %s: %w", docType.Key(), err)
	}
	table, err := buildOrderTable(set)
	if err != nil {
		return nil, fmt.Errorf("build order table for %s: %w", docType.Key(), err)
	}
	if r.metrics != nil {
		r.metrics.OrderTableBuilds.Inc()
	}
	r.logger.Debug().
		Str("doc_type", docType.Key()).
		Int("contexts", table.Len()).
		Msg("order table built")
	return table, nil
}

func (r *Resolver) definitionFiles(fam schema.Family) ([]string, error) {
	entries, err := fs.ReadDir(r.fsys, fam.Dir)
	if err != nil {
		return nil, fmt.Errorf("read family dir %s: %w", fam.Dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".xsd") {
			continue
		}
		if !strings.HasPrefix(e.Name(), fam.Prefix+"-") {
			continue
		}
		files = append(files, path.Join(fam.Dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// documentTypes derives one descriptor per distinct root element found in
// the family's "<Prefix>-<RootElement>-..." filenames.
func (r *Resolver) documentTypes(fam schema.Family, files []string) []schema.DocumentType {
	seen := make(map[string]bool)
	var types []schema.DocumentType
	for _, f := range files {
		base := strings.TrimPrefix(path.Base(f), fam.Prefix+"-")
		dash := strings.Index(base, "-")
		if dash <= 0 {
			continue
		}
		root := base[:dash]
		if seen[root] {
			continue
		}
		seen[root] = true
		types = append(types, schema.DocumentType{FamilyID: fam.ID, RootElement: root, DefinitionFile: f})
	}
	return types
}
