package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"tradesync/internal/types"
)

func sampleResult() *types.ImportResult {
	entry := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)
	return &types.ImportResult{
		Trades: []*types.TradeRecord{
			{
				BrokerTicket:      "1",
				BrokerSymbol:      "EURUSD.ecn",
				CanonicalSymbol:   "EURUSD",
				InstrumentType:    "forex",
				Direction:         types.Buy,
				LotSize:           0.1,
				EntryPrice:        1.1,
				ExitPrice:         types.Ptr(1.105),
				EntryDate:         &entry,
				ProfitLoss:        types.Ptr(50.0),
				MappingConfidence: 0.9,
			},
			{
				BrokerSymbol:      "EURUSD.ecn",
				CanonicalSymbol:   "EURUSD",
				Direction:         types.Sell,
				LotSize:           0.2,
				EntryPrice:        1.2,
				ProfitLoss:        types.Ptr(-10.0),
				MappingConfidence: 0.85,
			},
			{
				BrokerSymbol:      "XYZZY",
				Direction:         types.Buy,
				LotSize:           1,
				EntryPrice:        5,
				MappingConfidence: 0.3,
			},
		},
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return rows
}

func TestWriteTrades(t *testing.T) {
	p := filepath.Join(t.TempDir(), "out", "trades.csv")
	if err := WriteTrades(p, sampleResult()); err != nil {
		t.Fatalf("WriteTrades: %v", err)
	}
	rows := readCSV(t, p)
	if len(rows) != 4 {
		t.Fatalf("rows = %d, want header + 3", len(rows))
	}
	first := rows[1]
	if first[1] != "EURUSD.ecn" || first[2] != "EURUSD" || first[4] != "buy" {
		t.Errorf("first row = %v", first)
	}
	if first[10] != "50" {
		t.Errorf("profit cell = %q, want 50", first[10])
	}
	if first[8] != "2024-01-02 10:00:00" {
		t.Errorf("entry date cell = %q", first[8])
	}
	// Open trade with no exit leaves those cells empty.
	if last := rows[3]; last[7] != "" || last[10] != "" {
		t.Errorf("open trade row = %v", last)
	}
}

func TestWriteSummary(t *testing.T) {
	p := filepath.Join(t.TempDir(), "summary.csv")
	if err := WriteSummary(p, sampleResult()); err != nil {
		t.Fatalf("WriteSummary: %v", err)
	}
	rows := readCSV(t, p)
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2 symbols", len(rows))
	}
	// Sorted: EURUSD before XYZZY.
	eur := rows[1]
	if eur[0] != "EURUSD" || eur[1] != "2" {
		t.Fatalf("eur row = %v", eur)
	}
	if eur[2] != "0.1" || eur[3] != "0.2" {
		t.Errorf("lots = %v/%v", eur[2], eur[3])
	}
	if eur[4] != "40" {
		t.Errorf("pnl = %q, want 40", eur[4])
	}
	if eur[6] != "0.85" {
		t.Errorf("min confidence = %q", eur[6])
	}
	if xyzzy := rows[2]; xyzzy[0] != "XYZZY" || xyzzy[4] != "" {
		t.Errorf("xyzzy row = %v", xyzzy)
	}
}

func TestWriteSummaryEmptyFails(t *testing.T) {
	p := filepath.Join(t.TempDir(), "summary.csv")
	if err := WriteSummary(p, &types.ImportResult{}); err == nil {
		t.Fatal("empty result must not produce a summary")
	}
}
