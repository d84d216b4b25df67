// Package mapping provides the mapping configuration value types: field
// connections, the configuration that groups them, eager configuration
// validation, and the per-connection execution issue record.
package mapping

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/mapforge/mapforge/domain/document"
	"github.com/mapforge/mapforge/domain/transform"
)

// Connection maps one or more source paths to a single target path,
// optionally through a transformation. Immutable value type.
type Connection struct {
	ID          string            `json:"id"`
	SourcePaths []document.Path   `json:"sources"`
	TargetPath  document.Path     `json:"target"`
	Transform   transform.Rule    `json:"transform"`
	// BusinessTerm is a free-form classification tag; the engine stores it
	// but never interprets it.
	BusinessTerm string `json:"business_term,omitempty"`
	SourceLabel  string `json:"source_label,omitempty"`
	TargetLabel  string `json:"target_label,omitempty"`
	// ApproxInverse marks connections produced by the reverse mapper whose
	// transformation could not be inverted faithfully.
	ApproxInverse bool `json:"approx_inverse,omitempty"`
	// Score is the auto-mapper confidence for proposed connections.
	Score float64 `json:"score,omitempty"`
}

// Config is an ordered list of connections plus schema metadata. The engine
// loads it as an immutable value; editing produces a new Config.
type Config struct {
	Name         string       `json:"name"`
	SourceFamily string       `json:"source_family,omitempty"`
	SourceType   string       `json:"source_type,omitempty"`
	TargetFamily string       `json:"target_family,omitempty"`
	// TargetType names the target root element; when empty the executor
	// detects it from the source document.
	TargetType  string       `json:"target_type,omitempty"`
	Connections []Connection `json:"connections"`
}

// ExecutionIssue records one connection's non-fatal failure during
// execution. Issues accumulate; they never abort the remaining connections.
type ExecutionIssue struct {
	ConnectionID string `json:"connection_id"`
	Reason       string `json:"reason"`
}

// Configuration errors, detected before any execution starts.
var (
	ErrNoConnections   = errors.New("mapping config has no connections")
	ErrEmptyTarget     = errors.New("connection has empty target path")
	ErrFlatTarget      = errors.New("connection target must be hierarchical")
	ErrNoSources       = errors.New("connection has no source paths")
	ErrDuplicateTarget = errors.New("duplicate target path")
)

// Validate checks the configuration eagerly. Target paths must be unique
// (two connections must never write the same output location); source
// paths may fan out to many targets. A failing config is fatal: execution
// never starts against it.
func (c Config) Validate() error {
	if len(c.Connections) == 0 {
		return ErrNoConnections
	}
	targets := make(map[string]string, len(c.Connections))
	for _, conn := range c.Connections {
		if conn.TargetPath.IsZero() {
			return fmt.Errorf("connection %s: %w", conn.ID, ErrEmptyTarget)
		}
		// Positional paths address source records only; the output tree is
		// always hierarchical.
		if conn.TargetPath.IsFlat() {
			return fmt.Errorf("connection %s: %w", conn.ID, ErrFlatTarget)
		}
		if len(conn.SourcePaths) == 0 {
			return fmt.Errorf("connection %s: %w", conn.ID, ErrNoSources)
		}
		key := conn.TargetPath.String()
		if prev, dup := targets[key]; dup {
			return fmt.Errorf("connections %s and %s: %w %q", prev, conn.ID, ErrDuplicateTarget, key)
		}
		targets[key] = conn.ID
	}
	return nil
}

// Covered reports the set of target paths already mapped, keyed by the
// canonical path string. The auto-mapper uses it to skip covered targets.
func (c Config) Covered() map[string]bool {
	covered := make(map[string]bool, len(c.Connections))
	for _, conn := range c.Connections {
		covered[conn.TargetPath.String()] = true
	}
	return covered
}

// Marshal encodes the configuration as its persisted JSON artifact form.
func Marshal(c Config) ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}

// Unmarshal decodes a persisted configuration.
func Unmarshal(data []byte) (Config, error) {
	var c Config
	if err := json.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("decode mapping config: %w", err)
	}
	return c, nil
}
