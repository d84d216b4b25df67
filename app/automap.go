package app

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/mapforge/mapforge/domain/document"
	"github.com/mapforge/mapforge/domain/mapping"
	"github.com/mapforge/mapforge/domain/schema"
	"github.com/mapforge/mapforge/domain/transform"
	"github.com/mapforge/mapforge/ports"
)

// AutoMapper proposes field connections between an unmapped source field
// set and a target field set by name/path similarity. It is a greedy,
// single-pass heuristic: each target gets its best-scoring source, ties
// broken by earliest-declared source, no global optimization.
type AutoMapper struct {
	idgen  ports.IDGenerator
	logger zerolog.Logger
}

// NewAutoMapper creates an auto-mapper.
func NewAutoMapper(idgen ports.IDGenerator, logger zerolog.Logger) *AutoMapper {
	return &AutoMapper{
		idgen:  idgen,
		logger: logger.With().Str("component", "automap").Logger(),
	}
}

// Propose suggests connections for target fields not already covered by the
// existing configuration. Targets are visited in declaration order; a
// target whose best source scores below the threshold stays unmapped.
// Re-running with an updated existing config never re-proposes a covered
// target, so discovery is idempotent and resumable.
func (a *AutoMapper) Propose(existing mapping.Config, sourceFields, targetFields []schema.Field, threshold float64) []mapping.Connection {
	covered := existing.Covered()

	var candidates []mapping.Connection
	for _, target := range targetFields {
		targetPath, err := document.ParsePath(target.Path)
		if err != nil {
			a.logger.Warn().Str("field", target.Name).Str("path", target.Path).Msg("skipping target with unparseable path")
			continue
		}
		if covered[targetPath.String()] {
			continue
		}

		bestScore := -1.0
		bestIdx := -1
		for i, source := range sourceFields {
			score := Similarity(source, target)
			if score > bestScore { // strict: earliest-declared source wins ties
				bestScore = score
				bestIdx = i
			}
		}
		if bestIdx < 0 || bestScore < threshold {
			continue
		}

		source := sourceFields[bestIdx]
		sourcePath, err := document.ParsePath(source.Path)
		if err != nil {
			continue
		}
		candidates = append(candidates, mapping.Connection{
			ID:           a.idgen.New(),
			SourcePaths:  []document.Path{sourcePath},
			TargetPath:   targetPath,
			Transform:    transform.Direct(),
			BusinessTerm: target.BusinessTerm,
			SourceLabel:  source.Name,
			TargetLabel:  target.Name,
			Score:        bestScore,
		})
	}

	a.logger.Debug().
		Int("targets", len(targetFields)).
		Int("proposed", len(candidates)).
		Float64("threshold", threshold).
		Msg("auto-map pass complete")
	return candidates
}

// Similarity scores two fields in [0,1] from token overlap and
// path-segment matching. Identical trailing path segments score highest;
// shared name tokens contribute proportionally.
func Similarity(source, target schema.Field) float64 {
	srcTokens := source.Tokens()
	tgtTokens := target.Tokens()
	if len(srcTokens) == 0 || len(tgtTokens) == 0 {
		return 0
	}

	srcSet := make(map[string]bool, len(srcTokens))
	for _, t := range srcTokens {
		srcSet[t] = true
	}
	shared := 0
	tgtSet := make(map[string]bool, len(tgtTokens))
	for _, t := range tgtTokens {
		if tgtSet[t] {
			continue
		}
		tgtSet[t] = true
		if srcSet[t] {
			shared++
		}
	}
	union := len(srcSet)
	for t := range tgtSet {
		if !srcSet[t] {
			union++
		}
	}

	score := float64(shared) / float64(union)

	// Matching leaf names are a strong signal even when ancestor paths
	// differ entirely.
	if source.LastSegment() == target.LastSegment() && source.LastSegment() != "" {
		score = 0.6 + 0.4*score
	} else if containsFold(source.LastSegment(), target.LastSegment()) ||
		containsFold(target.LastSegment(), source.LastSegment()) {
		score = 0.3 + 0.5*score
	}

	if score > 1 {
		score = 1
	}
	return score
}

func containsFold(haystack, needle string) bool {
	if needle == "" {
		return false
	}
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
