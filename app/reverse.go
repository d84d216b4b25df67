package app

import (
	"github.com/rs/zerolog"

	"github.com/mapforge/mapforge/domain/document"
	"github.com/mapforge/mapforge/domain/mapping"
	"github.com/mapforge/mapforge/domain/transform"
)

// Reverser derives a best-effort inverse mapping configuration: source and
// target roles swap, invertible transformations invert, and everything
// else degrades to a Direct copy flagged for manual review. Inversion
// never fails.
type Reverser struct {
	logger zerolog.Logger
}

// NewReverser creates a reverser.
func NewReverser(logger zerolog.Logger) *Reverser {
	return &Reverser{logger: logger.With().Str("component", "reverse").Logger()}
}

// Invert returns the reversed configuration. For multi-source connections
// only the first original source becomes the new target; the extra sources
// have no inverse location and the connection is flagged approximate.
func (r *Reverser) Invert(cfg mapping.Config) mapping.Config {
	inverted := mapping.Config{
		Name:         cfg.Name + "-reversed",
		SourceFamily: cfg.TargetFamily,
		SourceType:   cfg.TargetType,
		TargetFamily: cfg.SourceFamily,
		TargetType:   cfg.SourceType,
		Connections:  make([]mapping.Connection, 0, len(cfg.Connections)),
	}

	approx := 0
	for _, conn := range cfg.Connections {
		if len(conn.SourcePaths) == 0 || conn.TargetPath.IsZero() {
			continue
		}
		rule, exact := transform.Invert(conn.Transform)
		if !exact {
			approx++
		}
		inverted.Connections = append(inverted.Connections, mapping.Connection{
			ID:            conn.ID,
			SourcePaths:   []document.Path{conn.TargetPath},
			TargetPath:    conn.SourcePaths[0],
			Transform:     rule,
			BusinessTerm:  conn.BusinessTerm,
			SourceLabel:   conn.TargetLabel,
			TargetLabel:   conn.SourceLabel,
			ApproxInverse: !exact,
		})
	}

	if approx > 0 {
		r.logger.Info().
			Str("config", cfg.Name).
			Int("approximate", approx).
			Msg("some transformations could not be inverted faithfully")
	}
	return inverted
}
