package mapper

import (
	"context"
	"fmt"
	"strings"

	"tradesync/internal/catalog"
	"tradesync/internal/logger"
)

// Match types, strongest first. Confidence is fixed per tier except
// fuzzy, which scales with the search score.
const (
	MatchDirect         = "direct"
	MatchDirectCaseFold = "direct_case_insensitive"
	MatchPattern        = "pattern"
	MatchNormalized     = "normalized"
	MatchGenericNorm    = "generic_normalized"
	MatchFuzzy          = "fuzzy"
	MatchUnmapped       = "unmapped"
)

const (
	confDirect         = 1.0
	confDirectCaseFold = 0.95
	confPattern        = 0.9
	confNormalized     = 0.85
	confGenericNorm    = 0.7
	fuzzyConfWeight    = 0.8
	fuzzyMinScore      = 0.6
	confUnmapped       = 0.3
)

// MappingResult is the outcome of resolving one broker symbol.
type MappingResult struct {
	CanonicalSymbol string              `json:"canonical_symbol"`
	OriginalSymbol  string              `json:"original_symbol"`
	BrokerID        string              `json:"broker_id"`
	Confidence      float64             `json:"confidence"`
	MatchType       string              `json:"match_type"`
	Instrument      *catalog.Instrument `json:"instrument_metadata,omitempty"`
	Warnings        []string            `json:"warnings,omitempty"`
}

// Mapped reports whether the symbol resolved to a catalog instrument
// with usable confidence.
func (r *MappingResult) Mapped() bool {
	return r.MatchType != MatchUnmapped && r.Confidence >= confGenericNorm
}

// Mapper resolves broker-specific symbols to canonical catalog
// symbols. It is stateless beyond its catalog and profile handles and
// safe for concurrent use.
type Mapper struct {
	catalog  *catalog.Catalog
	profiles *Profiles
}

// New builds a mapper over a catalog and a broker profile registry.
func New(cat *catalog.Catalog, profiles *Profiles) *Mapper {
	return &Mapper{catalog: cat, profiles: profiles}
}

// Profiles exposes the broker profile registry, used by importers for
// CSV layout and contract-size overrides.
func (m *Mapper) Profiles() *Profiles {
	return m.profiles
}

// Catalog exposes the instrument catalog backing this mapper.
func (m *Mapper) Catalog() *catalog.Catalog {
	return m.catalog
}

// MapSymbol resolves one broker symbol. Tiers are attempted in order:
// direct table lookup, pattern rewrite, catalog normalization, fuzzy
// search, and finally an unmapped result carrying the normalized
// string as-is. It never fails; the weakest outcome is unmapped at
// confidence 0.3 with a warning.
func (m *Mapper) MapSymbol(ctx context.Context, brokerSymbol, brokerID string) *MappingResult {
	trimmed := strings.TrimSpace(brokerSymbol)
	profile := m.profiles.Get(brokerID)

	res := m.resolve(trimmed, brokerID, profile)
	logger.Mapping(ctx, trimmed, res.CanonicalSymbol, res.MatchType, res.Confidence)
	return res
}

func (m *Mapper) resolve(symbol, brokerID string, profile *BrokerProfile) *MappingResult {
	base := func(canonical, matchType string, confidence float64) *MappingResult {
		return &MappingResult{
			CanonicalSymbol: canonical,
			OriginalSymbol:  symbol,
			BrokerID:        brokerID,
			Confidence:      confidence,
			MatchType:       matchType,
			Instrument:      m.catalog.Resolve(canonical),
		}
	}

	if profile != nil {
		if canonical, ok := profile.SymbolMappings[symbol]; ok {
			return base(canonical, MatchDirect, confDirect)
		}
		if canonical, ok := profile.upperMappings[strings.ToUpper(symbol)]; ok {
			return base(canonical, MatchDirectCaseFold, confDirectCaseFold)
		}
		upper := strings.ToUpper(symbol)
		for _, rule := range profile.SymbolPatterns {
			idx := rule.re.FindStringSubmatchIndex(upper)
			if idx == nil {
				continue
			}
			candidate := strings.ToUpper(string(rule.re.ExpandString(nil, rule.Template, upper, idx)))
			if inst := m.catalog.Resolve(candidate); inst != nil {
				return base(inst.Symbol, MatchPattern, confPattern)
			}
		}
	}

	normalized := m.catalog.Normalize(symbol)
	if inst := m.catalog.Resolve(normalized); inst != nil {
		if profile != nil {
			return base(inst.Symbol, MatchNormalized, confNormalized)
		}
		res := base(inst.Symbol, MatchGenericNorm, confGenericNorm)
		res.Warnings = append(res.Warnings, fmt.Sprintf("unrecognized broker %q, mapped %q by normalization only", brokerID, symbol))
		return res
	}

	if hits := m.catalog.Search(normalized, catalog.SearchOptions{Limit: 1, IncludeFuzzy: true}); len(hits) > 0 {
		best := hits[0]
		if best.Score >= fuzzyMinScore {
			res := base(best.Instrument.Symbol, MatchFuzzy, best.Score*fuzzyConfWeight)
			res.Warnings = append(res.Warnings, fmt.Sprintf("fuzzy matched %q to %q (score %.2f)", symbol, best.Instrument.Symbol, best.Score))
			return res
		}
	}

	res := base(normalized, MatchUnmapped, confUnmapped)
	res.Instrument = nil
	res.Warnings = append(res.Warnings, fmt.Sprintf("could not map symbol %q for broker %q, using as-is", symbol, brokerID))
	return res
}

// BatchMap resolves each symbol independently and keys the results by
// the original symbol.
func (m *Mapper) BatchMap(ctx context.Context, symbols []string, brokerID string) map[string]*MappingResult {
	out := make(map[string]*MappingResult, len(symbols))
	for _, s := range symbols {
		out[s] = m.MapSymbol(ctx, s, brokerID)
	}
	return out
}

// MappingReport buckets a batch-mapping outcome for pre-import review.
type MappingReport struct {
	BrokerID      string                    `json:"broker_id"`
	Total         int                       `json:"total"`
	Mapped        []string                  `json:"mapped"`
	LowConfidence []string                  `json:"low_confidence"`
	Unmapped      []string                  `json:"unmapped"`
	Results       map[string]*MappingResult `json:"results"`
}

// Report runs BatchMap and sorts each symbol into mapped, low
// confidence, or unmapped buckets.
func (m *Mapper) Report(ctx context.Context, symbols []string, brokerID string) *MappingReport {
	results := m.BatchMap(ctx, symbols, brokerID)
	report := &MappingReport{
		BrokerID: brokerID,
		Total:    len(results),
		Results:  results,
	}
	seen := make(map[string]bool, len(symbols))
	for _, s := range symbols {
		res, ok := results[s]
		if !ok || seen[s] {
			continue
		}
		seen[s] = true
		switch {
		case res.MatchType == MatchUnmapped:
			report.Unmapped = append(report.Unmapped, s)
		case res.Confidence < confGenericNorm:
			report.LowConfidence = append(report.LowConfidence, s)
		default:
			report.Mapped = append(report.Mapped, s)
		}
	}
	return report
}
