package mapper

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"tradesync/internal/catalog"
)

func newTestMapper(t *testing.T) *Mapper {
	t.Helper()
	profiles, err := NewProfiles(nil)
	if err != nil {
		t.Fatalf("NewProfiles: %v", err)
	}
	return New(catalog.New(nil), profiles)
}

func TestMapSymbolDirect(t *testing.T) {
	m := newTestMapper(t)
	ctx := context.Background()

	res := m.MapSymbol(ctx, "EUR_USD", "oanda")
	if res.CanonicalSymbol != "EURUSD" {
		t.Errorf("canonical = %s, want EURUSD", res.CanonicalSymbol)
	}
	if res.MatchType != MatchDirect || res.Confidence != 1.0 {
		t.Errorf("match = %s/%v, want direct/1.0", res.MatchType, res.Confidence)
	}
	if res.Instrument == nil || res.Instrument.Symbol != "EURUSD" {
		t.Error("instrument metadata not attached")
	}
	if len(res.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", res.Warnings)
	}
}

func TestMapSymbolDirectCaseInsensitive(t *testing.T) {
	m := newTestMapper(t)

	res := m.MapSymbol(context.Background(), "eur_usd", "oanda")
	if res.CanonicalSymbol != "EURUSD" {
		t.Errorf("canonical = %s, want EURUSD", res.CanonicalSymbol)
	}
	if res.MatchType != MatchDirectCaseFold || res.Confidence != 0.95 {
		t.Errorf("match = %s/%v, want direct_case_insensitive/0.95", res.MatchType, res.Confidence)
	}
}

func TestMapSymbolPattern(t *testing.T) {
	m := newTestMapper(t)
	ctx := context.Background()

	// GBP_JPY is not in oanda's direct table; the pattern rewrites it.
	res := m.MapSymbol(ctx, "GBP_JPY", "oanda")
	if res.CanonicalSymbol != "GBPJPY" {
		t.Errorf("canonical = %s, want GBPJPY", res.CanonicalSymbol)
	}
	if res.MatchType != MatchPattern || res.Confidence != 0.9 {
		t.Errorf("match = %s/%v, want pattern/0.9", res.MatchType, res.Confidence)
	}

	// Binance USDT suffix with a multi-letter base.
	res = m.MapSymbol(ctx, "DOGEUSDT", "binance")
	if res.CanonicalSymbol != "DOGEUSD" || res.MatchType != MatchPattern {
		t.Errorf("DOGEUSDT -> %s (%s), want DOGEUSD (pattern)", res.CanonicalSymbol, res.MatchType)
	}

	// MT4 broker suffix.
	res = m.MapSymbol(ctx, "EURUSD.ecn", "mt4_generic")
	if res.CanonicalSymbol != "EURUSD" {
		t.Errorf("EURUSD.ecn -> %s, want EURUSD", res.CanonicalSymbol)
	}
	if res.Confidence < 0.85 {
		t.Errorf("confidence = %v, want >= 0.85", res.Confidence)
	}
}

func TestMapSymbolAliasViaNormalization(t *testing.T) {
	m := newTestMapper(t)

	// No direct entry and no pattern hit; the normalization tier
	// resolves the catalog alias.
	res := m.MapSymbol(context.Background(), "GOLD", "oanda")
	if res.CanonicalSymbol != "XAUUSD" {
		t.Errorf("canonical = %s, want XAUUSD", res.CanonicalSymbol)
	}
	if res.MatchType != MatchNormalized || res.Confidence != 0.85 {
		t.Errorf("match = %s/%v, want normalized/0.85", res.MatchType, res.Confidence)
	}
}

func TestMapSymbolNormalized(t *testing.T) {
	m := newTestMapper(t)

	res := m.MapSymbol(context.Background(), "eur usd", "oanda")
	if res.CanonicalSymbol != "EURUSD" {
		t.Errorf("canonical = %s, want EURUSD", res.CanonicalSymbol)
	}
	if res.MatchType != MatchNormalized || res.Confidence != 0.85 {
		t.Errorf("match = %s/%v, want normalized/0.85", res.MatchType, res.Confidence)
	}
}

func TestMapSymbolUnknownBroker(t *testing.T) {
	m := newTestMapper(t)

	res := m.MapSymbol(context.Background(), "EURUSD.ecn", "no_such_broker")
	if res.CanonicalSymbol != "EURUSD" {
		t.Errorf("canonical = %s, want EURUSD", res.CanonicalSymbol)
	}
	if res.MatchType != MatchGenericNorm || res.Confidence != 0.7 {
		t.Errorf("match = %s/%v, want generic_normalized/0.7", res.MatchType, res.Confidence)
	}
	if len(res.Warnings) == 0 {
		t.Error("expected an unrecognized-broker warning")
	}
}

func TestMapSymbolFuzzy(t *testing.T) {
	m := newTestMapper(t)

	res := m.MapSymbol(context.Background(), "EURU", "generic")
	if res.MatchType != MatchFuzzy {
		t.Fatalf("match = %s, want fuzzy", res.MatchType)
	}
	if res.CanonicalSymbol != "EURUSD" {
		t.Errorf("canonical = %s, want EURUSD", res.CanonicalSymbol)
	}
	if res.Confidence >= 0.85 || res.Confidence < 0.3 {
		t.Errorf("fuzzy confidence out of range: %v", res.Confidence)
	}
	if len(res.Warnings) == 0 {
		t.Error("fuzzy match must carry a warning")
	}
}

func TestMapSymbolUnmapped(t *testing.T) {
	m := newTestMapper(t)

	res := m.MapSymbol(context.Background(), "XYZZY123", "oanda")
	if res.MatchType != MatchUnmapped {
		t.Fatalf("match = %s, want unmapped", res.MatchType)
	}
	if res.Confidence != 0.3 {
		t.Errorf("confidence = %v, want 0.3", res.Confidence)
	}
	if res.CanonicalSymbol != "XYZZY123" {
		t.Errorf("canonical = %s, want pass-through XYZZY123", res.CanonicalSymbol)
	}
	if len(res.Warnings) != 1 {
		t.Errorf("warnings = %v, want exactly one", res.Warnings)
	}
	if res.Instrument != nil {
		t.Error("unmapped result must not carry instrument metadata")
	}
}

func TestMapSymbolIdempotent(t *testing.T) {
	m := newTestMapper(t)
	ctx := context.Background()

	for _, symbol := range []string{"EUR_USD", "EURUSD.ecn", "XYZZY123", "EURU"} {
		first := m.MapSymbol(ctx, symbol, "oanda")
		second := m.MapSymbol(ctx, symbol, "oanda")
		if first.CanonicalSymbol != second.CanonicalSymbol ||
			first.Confidence != second.Confidence ||
			first.MatchType != second.MatchType {
			t.Errorf("%s mapped differently on repeat: %+v vs %+v", symbol, first, second)
		}
	}
}

func TestConfidenceOrdering(t *testing.T) {
	m := newTestMapper(t)
	ctx := context.Background()

	direct := m.MapSymbol(ctx, "EUR_USD", "oanda")
	pattern := m.MapSymbol(ctx, "GBP_JPY", "oanda")
	normalized := m.MapSymbol(ctx, "eur usd", "oanda")
	fuzzy := m.MapSymbol(ctx, "EURU", "generic")
	unmapped := m.MapSymbol(ctx, "XYZZY123", "oanda")

	order := []*MappingResult{direct, pattern, normalized, fuzzy, unmapped}
	for i := 1; i < len(order); i++ {
		if order[i-1].Confidence <= order[i].Confidence {
			t.Errorf("confidence not strictly decreasing: %s(%v) <= %s(%v)",
				order[i-1].MatchType, order[i-1].Confidence,
				order[i].MatchType, order[i].Confidence)
		}
	}
}

func TestBatchMapReport(t *testing.T) {
	m := newTestMapper(t)

	symbols := []string{"EUR_USD", "GBP_JPY", "EURU", "XYZZY123"}
	report := m.Report(context.Background(), symbols, "oanda")

	if report.Total != 4 {
		t.Errorf("total = %d, want 4", report.Total)
	}
	if len(report.Mapped) != 3 {
		t.Errorf("mapped = %v, want 3 entries", report.Mapped)
	}
	if len(report.Unmapped) != 1 || report.Unmapped[0] != "XYZZY123" {
		t.Errorf("unmapped = %v, want [XYZZY123]", report.Unmapped)
	}
	for _, s := range symbols {
		if report.Results[s] == nil {
			t.Errorf("missing result for %s", s)
		}
	}
}

func TestProfilesLoadAndReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "brokers.json")

	seed := `[{"broker_id":"acme","symbol_mappings":{"EU":"EURUSD"},"symbol_patterns":[{"pattern":"^([A-Z]+)X$","template":"$1"}]}]`
	if err := os.WriteFile(path, []byte(seed), 0o644); err != nil {
		t.Fatal(err)
	}

	profiles, err := LoadProfiles(path)
	if err != nil {
		t.Fatalf("LoadProfiles: %v", err)
	}
	if !profiles.Known("acme") {
		t.Fatal("acme profile missing")
	}
	if profiles.Known("oanda") {
		t.Error("file load should replace the seed set")
	}

	m := New(catalog.New(nil), profiles)
	res := m.MapSymbol(context.Background(), "EU", "acme")
	if res.CanonicalSymbol != "EURUSD" || res.MatchType != MatchDirect {
		t.Errorf("EU -> %s (%s), want EURUSD (direct)", res.CanonicalSymbol, res.MatchType)
	}

	seed = `[{"broker_id":"acme","symbol_mappings":{"EU":"EURUSD","GU":"GBPUSD"}}]`
	if err := os.WriteFile(path, []byte(seed), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := profiles.Reload(path); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	res = m.MapSymbol(context.Background(), "GU", "acme")
	if res.CanonicalSymbol != "GBPUSD" {
		t.Errorf("GU -> %s after reload, want GBPUSD", res.CanonicalSymbol)
	}
}

func TestProfilesBadPattern(t *testing.T) {
	_, err := NewProfiles([]*BrokerProfile{
		{BrokerID: "bad", SymbolPatterns: []PatternRule{{Pattern: "([", Template: "$1"}}},
	})
	if err == nil {
		t.Fatal("invalid regex should fail profile construction")
	}
}

func TestContractSizeOverride(t *testing.T) {
	profiles, err := NewProfiles(nil)
	if err != nil {
		t.Fatal(err)
	}
	p := profiles.Get("kite")
	if p == nil {
		t.Fatal("kite profile missing")
	}
	if got := p.ContractSize("stock"); got != 1 {
		t.Errorf("ContractSize(stock) = %v, want 1", got)
	}
	if got := p.ContractSize("forex"); got != 0 {
		t.Errorf("ContractSize(forex) = %v, want 0 (no override)", got)
	}
}
