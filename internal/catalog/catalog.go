package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Instrument types known to the catalog.
const (
	TypeForex          = "forex"
	TypeIndex          = "index"
	TypeCrypto         = "crypto"
	TypeStock          = "stock"
	TypeCommodity      = "commodity"
	TypeForexIndicator = "forex_indicator"
)

// Instrument is canonical reference data for one tradable symbol,
// carrying the metadata the P&L engine needs.
type Instrument struct {
	Symbol        string   `json:"symbol"`
	DisplayName   string   `json:"display_name"`
	Type          string   `json:"type"`
	PipOrTickSize float64  `json:"pip_or_tick_size"`
	TickValue     float64  `json:"tick_value"`
	ContractSize  float64  `json:"contract_size"`
	PriceDecimals int      `json:"price_decimals"`
	Aliases       []string `json:"aliases,omitempty"`
}

// index holds all lookup structures. It is built once and swapped in
// atomically so readers never observe a half-built state.
type index struct {
	instruments []*Instrument
	bySymbol    map[string]*Instrument
	byAlias     map[string]string
	byType      map[string][]*Instrument
}

// Catalog is an in-memory reference dataset of canonical instruments.
// It is explicitly constructed and safe for concurrent readers; Reload
// rebuilds the full index and swaps it in atomically.
type Catalog struct {
	idx     atomic.Pointer[index]
	scores  *gocache.Cache
	popular []string
}

var (
	sepRe       = regexp.MustCompile(`[_/\-.\s]`)
	dotSuffixRe = regexp.MustCompile(`\.(M|PRO|ECN|RAW|STP|C|I|S)$`)
	tailRe      = regexp.MustCompile(`(MICRO|MINI)$`)
)

// popularSymbols is the curated list returned for empty search queries.
var popularSymbols = []string{
	"EURUSD", "GBPUSD", "USDJPY", "XAUUSD", "US500", "US100", "US30",
	"BTCUSD", "ETHUSD", "AAPL", "MSFT", "GOOGL", "AMZN", "TSLA",
	"GER40", "UK100", "JPN225", "USOIL", "NATGAS",
}

// New builds a catalog from the given instruments. With no instruments
// the built-in seed set is used.
func New(instruments []*Instrument) *Catalog {
	if len(instruments) == 0 {
		instruments = defaultInstruments()
	}
	c := &Catalog{
		scores:  gocache.New(30*time.Minute, 10*time.Minute),
		popular: popularSymbols,
	}
	c.idx.Store(buildIndex(instruments))
	return c
}

// LoadFile builds a catalog from a JSON seed file.
func LoadFile(path string) (*Catalog, error) {
	instruments, err := readSeed(path)
	if err != nil {
		return nil, err
	}
	return New(instruments), nil
}

// Reload re-reads the seed file and swaps in a fully rebuilt index.
// Concurrent lookups observe either the old index or the new one, never
// a partial state.
func (c *Catalog) Reload(path string) error {
	instruments, err := readSeed(path)
	if err != nil {
		return err
	}
	c.idx.Store(buildIndex(instruments))
	c.scores.Flush()
	return nil
}

func readSeed(path string) ([]*Instrument, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read instrument seed: %w", err)
	}
	var instruments []*Instrument
	if err := json.Unmarshal(b, &instruments); err != nil {
		return nil, fmt.Errorf("parse instrument seed: %w", err)
	}
	return instruments, nil
}

func buildIndex(instruments []*Instrument) *index {
	idx := &index{
		instruments: instruments,
		bySymbol:    make(map[string]*Instrument, len(instruments)),
		byAlias:     make(map[string]string),
		byType:      make(map[string][]*Instrument),
	}
	for _, inst := range instruments {
		symbol := strings.ToUpper(inst.Symbol)
		idx.bySymbol[symbol] = inst
		for _, alias := range inst.Aliases {
			idx.byAlias[strings.ToUpper(alias)] = symbol
		}
		idx.byType[inst.Type] = append(idx.byType[inst.Type], inst)
	}
	return idx
}

// Count returns the number of instruments in the current index.
func (c *Catalog) Count() int {
	return len(c.idx.Load().instruments)
}

// All returns every instrument in the current index.
func (c *Catalog) All() []*Instrument {
	idx := c.idx.Load()
	out := make([]*Instrument, len(idx.instruments))
	copy(out, idx.instruments)
	return out
}

// ByType returns all instruments of the given type.
func (c *Catalog) ByType(instType string) []*Instrument {
	idx := c.idx.Load()
	src := idx.byType[instType]
	out := make([]*Instrument, len(src))
	copy(out, src)
	return out
}

// Normalize uppercases a symbol, strips known broker suffixes
// (.m/.pro/.ecn/.raw, micro/mini) and separators, and resolves aliases
// to the canonical spelling where one exists.
//
// Suffixes are stripped before separators so that "EURUSD.ecn" reduces
// to "EURUSD" rather than "EURUSDECN".
func (c *Catalog) Normalize(symbol string) string {
	if symbol == "" {
		return ""
	}
	n := stripSymbol(symbol)

	idx := c.idx.Load()
	if _, ok := idx.bySymbol[n]; ok {
		return n
	}
	if canonical, ok := idx.byAlias[n]; ok {
		return canonical
	}
	return n
}

// stripSymbol removes broker decorations without consulting the index.
func stripSymbol(symbol string) string {
	n := strings.ToUpper(strings.TrimSpace(symbol))
	n = dotSuffixRe.ReplaceAllString(n, "")
	n = sepRe.ReplaceAllString(n, "")
	return tailRe.ReplaceAllString(n, "")
}

// Resolve looks a symbol up by exact match, then alias, then its
// normalized form. Returns nil when nothing matches.
func (c *Catalog) Resolve(symbol string) *Instrument {
	idx := c.idx.Load()
	upper := strings.ToUpper(strings.TrimSpace(symbol))

	if inst, ok := idx.bySymbol[upper]; ok {
		return inst
	}
	if canonical, ok := idx.byAlias[upper]; ok {
		return idx.bySymbol[canonical]
	}

	normalized := c.Normalize(symbol)
	if inst, ok := idx.bySymbol[normalized]; ok {
		return inst
	}
	if canonical, ok := idx.byAlias[normalized]; ok {
		return idx.bySymbol[canonical]
	}
	return nil
}

// ResolveAlias looks up an instrument by alias only.
func (c *Catalog) ResolveAlias(alias string) *Instrument {
	idx := c.idx.Load()
	if canonical, ok := idx.byAlias[strings.ToUpper(alias)]; ok {
		return idx.bySymbol[canonical]
	}
	return nil
}

// Metadata resolves a symbol and returns its instrument metadata, or
// nil when the symbol is unknown.
func (c *Catalog) Metadata(symbol string) *Instrument {
	return c.Resolve(symbol)
}
