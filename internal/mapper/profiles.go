package mapper

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"sync/atomic"
)

// PatternRule rewrites a broker symbol into a canonical template.
// Capture groups referenced as $1..$9 are substituted uppercased.
type PatternRule struct {
	Pattern  string `json:"pattern"`
	Template string `json:"template"`

	re *regexp.Regexp
}

// CSVFormat describes how a broker lays out its CSV exports. Columns
// maps a logical field name to the header synonyms that carry it.
type CSVFormat struct {
	Delimiter  string              `json:"delimiter,omitempty"`
	DateFormat string              `json:"date_format,omitempty"`
	Columns    map[string][]string `json:"columns,omitempty"`
}

// BrokerProfile is the per-broker configuration: exact symbol
// spellings, rewrite patterns, contract-size overrides per asset
// class, and the CSV layout.
type BrokerProfile struct {
	BrokerID       string             `json:"broker_id"`
	SymbolMappings map[string]string  `json:"symbol_mappings,omitempty"`
	SymbolPatterns []PatternRule      `json:"symbol_patterns,omitempty"`
	LotSizeRule    map[string]float64 `json:"lot_size_rule,omitempty"`
	CSVFormat      *CSVFormat         `json:"csv_format,omitempty"`

	// built at load time
	upperMappings map[string]string
}

// ContractSize returns the broker's contract-size override for an
// asset class, or 0 when the catalog default applies.
func (p *BrokerProfile) ContractSize(instrumentType string) float64 {
	if p == nil {
		return 0
	}
	return p.LotSizeRule[instrumentType]
}

func (p *BrokerProfile) compile() error {
	for i := range p.SymbolPatterns {
		re, err := regexp.Compile(p.SymbolPatterns[i].Pattern)
		if err != nil {
			return fmt.Errorf("broker %s pattern %q: %w", p.BrokerID, p.SymbolPatterns[i].Pattern, err)
		}
		p.SymbolPatterns[i].re = re
	}

	// Deterministic first-wins for case-insensitive collisions.
	keys := make([]string, 0, len(p.SymbolMappings))
	for k := range p.SymbolMappings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	p.upperMappings = make(map[string]string, len(keys))
	for _, k := range keys {
		upper := strings.ToUpper(k)
		if _, exists := p.upperMappings[upper]; !exists {
			p.upperMappings[upper] = p.SymbolMappings[k]
		}
	}
	return nil
}

// Profiles is the registry of broker profiles. Like the catalog it is
// read-mostly: Reload swaps in a fully built replacement.
type Profiles struct {
	byID atomic.Pointer[map[string]*BrokerProfile]
}

// NewProfiles builds a registry from explicit profiles. With none
// given the built-in seed set is used.
func NewProfiles(profiles []*BrokerProfile) (*Profiles, error) {
	if len(profiles) == 0 {
		profiles = defaultProfiles()
	}
	m, err := buildProfiles(profiles)
	if err != nil {
		return nil, err
	}
	p := &Profiles{}
	p.byID.Store(&m)
	return p, nil
}

// LoadProfiles builds a registry from a JSON profile file.
func LoadProfiles(path string) (*Profiles, error) {
	profiles, err := readProfiles(path)
	if err != nil {
		return nil, err
	}
	return NewProfiles(profiles)
}

// Reload re-reads the profile file and swaps the registry atomically.
func (p *Profiles) Reload(path string) error {
	profiles, err := readProfiles(path)
	if err != nil {
		return err
	}
	m, err := buildProfiles(profiles)
	if err != nil {
		return err
	}
	p.byID.Store(&m)
	return nil
}

func readProfiles(path string) ([]*BrokerProfile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read broker profiles: %w", err)
	}
	var profiles []*BrokerProfile
	if err := json.Unmarshal(b, &profiles); err != nil {
		return nil, fmt.Errorf("parse broker profiles: %w", err)
	}
	return profiles, nil
}

func buildProfiles(profiles []*BrokerProfile) (map[string]*BrokerProfile, error) {
	m := make(map[string]*BrokerProfile, len(profiles))
	for _, profile := range profiles {
		if profile.BrokerID == "" {
			return nil, fmt.Errorf("broker profile without broker_id")
		}
		if err := profile.compile(); err != nil {
			return nil, err
		}
		m[strings.ToLower(profile.BrokerID)] = profile
	}
	return m, nil
}

// Get returns the profile for a broker id, or nil when unknown.
func (p *Profiles) Get(brokerID string) *BrokerProfile {
	m := p.byID.Load()
	return (*m)[strings.ToLower(brokerID)]
}

// Known reports whether a broker id has a profile.
func (p *Profiles) Known(brokerID string) bool {
	return p.Get(brokerID) != nil
}

// IDs returns the registered broker ids in sorted order.
func (p *Profiles) IDs() []string {
	m := p.byID.Load()
	ids := make([]string, 0, len(*m))
	for id := range *m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
