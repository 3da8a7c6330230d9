package catalog

import (
	"sort"
	"strings"
)

// Search match tiers, highest first. The tier score doubles as the
// ranking key; ties are broken by symbol order.
const (
	scoreExact         = 1.0
	scoreStartsWith    = 0.9
	scoreAliasExact    = 0.85
	scoreAliasStarts   = 0.75
	scoreContains      = 0.7
	scoreAliasContains = 0.65
	fuzzyWeight        = 0.6
	fuzzyMinSimilarity = 0.5
	scorePopular       = 0.5
)

// Ranked is one search hit with its score and the tier that produced it.
type Ranked struct {
	Instrument *Instrument
	Score      float64
	MatchType  string
	Total      int
}

// SearchOptions control pagination, type filtering and the fuzzy tier.
type SearchOptions struct {
	Limit        int
	Offset       int
	TypeFilter   string
	IncludeFuzzy bool
}

// Search ranks instruments against a query. An empty query returns the
// curated popular list instead of scanning the whole catalog.
func (c *Catalog) Search(query string, opts SearchOptions) []Ranked {
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if query == "" {
		return c.popularList(opts)
	}

	idx := c.idx.Load()
	queryUpper := strings.ToUpper(strings.TrimSpace(query))
	queryNorm := stripSymbol(query)

	candidates := idx.instruments
	if opts.TypeFilter != "" {
		candidates = idx.byType[opts.TypeFilter]
	}

	results := make([]Ranked, 0, 16)
	for _, inst := range candidates {
		symbol := strings.ToUpper(inst.Symbol)
		display := strings.ToUpper(inst.DisplayName)

		score, matchType := c.scoreCandidate(symbol, display, inst.Aliases, queryUpper, queryNorm, opts.IncludeFuzzy)
		if score > 0 {
			results = append(results, Ranked{Instrument: inst, Score: score, MatchType: matchType})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Instrument.Symbol < results[j].Instrument.Symbol
	})

	total := len(results)
	if opts.Offset >= total {
		return nil
	}
	end := opts.Offset + opts.Limit
	if end > total {
		end = total
	}
	page := results[opts.Offset:end]
	for i := range page {
		page[i].Total = total
	}
	return page
}

// scoreCandidate evaluates the ranking tiers in strict priority order;
// the first tier that matches wins for this candidate.
func (c *Catalog) scoreCandidate(symbol, display string, aliases []string, queryUpper, queryNorm string, includeFuzzy bool) (float64, string) {
	if symbol == queryUpper || symbol == queryNorm {
		return scoreExact, "exact"
	}
	if strings.HasPrefix(symbol, queryUpper) {
		return scoreStartsWith, "startswith"
	}
	for _, a := range aliases {
		au := strings.ToUpper(a)
		if au == queryUpper || au == queryNorm {
			return scoreAliasExact, "alias_exact"
		}
	}
	for _, a := range aliases {
		if strings.HasPrefix(strings.ToUpper(a), queryUpper) {
			return scoreAliasStarts, "alias_startswith"
		}
	}
	if strings.Contains(symbol, queryUpper) || (display != "" && strings.Contains(display, queryUpper)) {
		return scoreContains, "contains"
	}
	for _, a := range aliases {
		if strings.Contains(strings.ToUpper(a), queryUpper) {
			return scoreAliasContains, "alias_contains"
		}
	}
	if includeFuzzy {
		if sim := c.similarity(queryUpper, symbol); sim >= fuzzyMinSimilarity {
			return sim * fuzzyWeight, "fuzzy"
		}
	}
	return 0, ""
}

func (c *Catalog) popularList(opts SearchOptions) []Ranked {
	idx := c.idx.Load()
	results := make([]Ranked, 0, len(c.popular))
	for _, symbol := range c.popular {
		inst, ok := idx.bySymbol[symbol]
		if !ok {
			continue
		}
		if opts.TypeFilter != "" && inst.Type != opts.TypeFilter {
			continue
		}
		results = append(results, Ranked{Instrument: inst, Score: scorePopular, MatchType: "popular"})
	}
	total := len(results)
	if opts.Offset >= total {
		return nil
	}
	end := opts.Offset + opts.Limit
	if end > total {
		end = total
	}
	page := results[opts.Offset:end]
	for i := range page {
		page[i].Total = total
	}
	return page
}

// similarity is a normalized edit-similarity ratio in [0,1]. Scores are
// memoized since the same broker symbols recur across import batches.
func (c *Catalog) similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}
	key := a + "\x00" + b
	if v, ok := c.scores.Get(key); ok {
		return v.(float64)
	}
	dist := levenshtein(a, b)
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	sim := 1.0 - float64(dist)/float64(maxLen)
	c.scores.SetDefault(key, sim)
	return sim
}

func levenshtein(a, b string) int {
	la, lb := len(a), len(b)
	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}
	for i := 1; i <= la; i++ {
		curr[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[lb]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
