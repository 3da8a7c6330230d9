package pnl

import (
	"errors"
	"math"
	"testing"

	"tradesync/internal/catalog"
	"tradesync/internal/types"
)

func newTestEngine() *Engine {
	return New(catalog.New(nil))
}

func TestCalculateForexBuy(t *testing.T) {
	e := newTestEngine()

	// 0.10 lots EURUSD, 50 pips in the trade's favor.
	res, err := e.Calculate(Request{
		Symbol:     "EURUSD",
		EntryPrice: 1.1000,
		ExitPrice:  1.1050,
		Size:       0.10,
		SizeType:   types.Lots,
		Direction:  types.Buy,
	})
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if res.PipMove != 50.0 {
		t.Errorf("pip move = %v, want 50.0", res.PipMove)
	}
	if res.ProfitLoss != 50.00 {
		t.Errorf("pnl = %v, want 50.00", res.ProfitLoss)
	}
	if res.ProfitLoss <= 0 {
		t.Error("buy with rising price must be positive")
	}
	if res.InstrumentType != catalog.TypeForex {
		t.Errorf("instrument type = %s, want forex", res.InstrumentType)
	}
}

func TestCalculateForexSell(t *testing.T) {
	e := newTestEngine()

	res, err := e.Calculate(Request{
		Symbol:     "EURUSD",
		EntryPrice: 1.1050,
		ExitPrice:  1.1000,
		Size:       0.10,
		SizeType:   types.Lots,
		Direction:  types.Sell,
	})
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if res.ProfitLoss != 50.00 {
		t.Errorf("pnl = %v, want 50.00 (sell, falling price)", res.ProfitLoss)
	}
	if res.PipMove != 50.0 {
		t.Errorf("pip move = %v, want 50.0", res.PipMove)
	}
}

func TestCalculateForexJPYPip(t *testing.T) {
	e := newTestEngine()

	res, err := e.Calculate(Request{
		Symbol:     "USDJPY",
		EntryPrice: 150.00,
		ExitPrice:  150.50,
		Size:       1,
		SizeType:   types.Lots,
		Direction:  types.Buy,
	})
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if res.PipMove != 50.0 {
		t.Errorf("pip move = %v, want 50.0 (0.01 pip)", res.PipMove)
	}
}

func TestCalculateForexUnits(t *testing.T) {
	e := newTestEngine()

	res, err := e.Calculate(Request{
		Symbol:     "EURUSD",
		EntryPrice: 1.1000,
		ExitPrice:  1.1050,
		Size:       10000,
		SizeType:   types.Units,
		Direction:  types.Buy,
	})
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if res.ProfitLoss != 50.00 {
		t.Errorf("pnl = %v, want 50.00", res.ProfitLoss)
	}
}

func TestCalculateIndex(t *testing.T) {
	e := newTestEngine()

	res, err := e.Calculate(Request{
		Symbol:     "US500",
		EntryPrice: 4500.00,
		ExitPrice:  4550.00,
		Size:       1,
		SizeType:   types.Contracts,
		Direction:  types.Buy,
	})
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if res.Points != 50.0 {
		t.Errorf("points = %v, want 50.0", res.Points)
	}
	if res.ProfitLoss != 50.00 {
		t.Errorf("pnl = %v, want 50.00", res.ProfitLoss)
	}
}

func TestCalculateCommodity(t *testing.T) {
	e := newTestEngine()

	// USOIL contract size 1000: $1 move on 1 contract = $1000.
	res, err := e.Calculate(Request{
		Symbol:     "USOIL",
		EntryPrice: 75.00,
		ExitPrice:  76.00,
		Size:       1,
		SizeType:   types.Contracts,
		Direction:  types.Buy,
	})
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if res.ProfitLoss != 1000.00 {
		t.Errorf("pnl = %v, want 1000.00", res.ProfitLoss)
	}
}

func TestCalculateCrypto(t *testing.T) {
	e := newTestEngine()

	res, err := e.Calculate(Request{
		Symbol:     "BTCUSD",
		EntryPrice: 50000,
		ExitPrice:  51000,
		Size:       0.5,
		SizeType:   types.Units,
		Direction:  types.Buy,
	})
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if res.ProfitLoss != 500.00 {
		t.Errorf("pnl = %v, want 500.00", res.ProfitLoss)
	}
	if res.PercentMove != 2.00 {
		t.Errorf("percent move = %v, want 2.00", res.PercentMove)
	}
}

func TestCalculateStock(t *testing.T) {
	e := newTestEngine()

	// Shares are taken as-is regardless of size type.
	for _, st := range []types.SizeType{types.Units, types.Lots, types.Contracts} {
		res, err := e.Calculate(Request{
			Symbol:     "AAPL",
			EntryPrice: 200.00,
			ExitPrice:  210.00,
			Size:       10,
			SizeType:   st,
			Direction:  types.Buy,
		})
		if err != nil {
			t.Fatalf("Calculate(%s): %v", st, err)
		}
		if res.ProfitLoss != 100.00 {
			t.Errorf("pnl(%s) = %v, want 100.00", st, res.ProfitLoss)
		}
		if res.PercentReturn != 5.00 {
			t.Errorf("percent return(%s) = %v, want 5.00", st, res.PercentReturn)
		}
	}
}

func TestCalculateUnknownSymbolGeneric(t *testing.T) {
	e := newTestEngine()

	res, err := e.Calculate(Request{
		Symbol:     "NOSUCHSYM",
		EntryPrice: 100,
		ExitPrice:  110,
		Size:       2,
		SizeType:   types.Units,
		Direction:  types.Buy,
	})
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if res.InstrumentType != "generic" {
		t.Errorf("instrument type = %s, want generic", res.InstrumentType)
	}
	if res.ProfitLoss != 20.00 {
		t.Errorf("pnl = %v, want 20.00", res.ProfitLoss)
	}
}

func TestCalculateContractSizeOverride(t *testing.T) {
	e := newTestEngine()

	// A micro-lot broker: 1,000 units per lot instead of 100,000.
	res, err := e.Calculate(Request{
		Symbol:       "EURUSD",
		EntryPrice:   1.1000,
		ExitPrice:    1.1050,
		Size:         0.10,
		SizeType:     types.Lots,
		Direction:    types.Buy,
		ContractSize: 1000,
	})
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if res.ProfitLoss != 0.50 {
		t.Errorf("pnl = %v, want 0.50 at 1000 units/lot", res.ProfitLoss)
	}
}

func TestReverseExitPriceContractSizeOverride(t *testing.T) {
	e := newTestEngine()
	req := Request{
		Symbol:       "EURUSD",
		EntryPrice:   1.1000,
		Size:         0.10,
		SizeType:     types.Lots,
		Direction:    types.Buy,
		ContractSize: 1000,
	}
	exit, err := e.ReverseExitPrice(req, 0.50)
	if err != nil {
		t.Fatalf("ReverseExitPrice: %v", err)
	}
	if math.Abs(exit-1.1050) > 1e-9 {
		t.Errorf("exit = %v, want 1.1050", exit)
	}
}

func TestCalculateInvalidInput(t *testing.T) {
	e := newTestEngine()

	bad := []Request{
		{Symbol: "EURUSD", EntryPrice: 0, ExitPrice: 1.1, Size: 1, SizeType: types.Lots, Direction: types.Buy},
		{Symbol: "EURUSD", EntryPrice: 1.1, ExitPrice: -1, Size: 1, SizeType: types.Lots, Direction: types.Buy},
		{Symbol: "EURUSD", EntryPrice: 1.1, ExitPrice: 1.2, Size: 0, SizeType: types.Lots, Direction: types.Buy},
		{Symbol: "EURUSD", EntryPrice: 1.1, ExitPrice: 1.2, Size: -0.5, SizeType: types.Lots, Direction: types.Buy},
	}
	for i, req := range bad {
		if _, err := e.Calculate(req); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("case %d: err = %v, want ErrInvalidInput", i, err)
		}
	}
}

func TestPnLSignMatchesDirection(t *testing.T) {
	e := newTestEngine()

	cases := []struct {
		direction    types.Direction
		entry, exit  float64
		wantPositive bool
	}{
		{types.Buy, 1.1000, 1.1080, true},
		{types.Buy, 1.1000, 1.0920, false},
		{types.Sell, 1.1000, 1.0920, true},
		{types.Sell, 1.1000, 1.1080, false},
	}
	for _, tc := range cases {
		res, err := e.Calculate(Request{
			Symbol:     "EURUSD",
			EntryPrice: tc.entry,
			ExitPrice:  tc.exit,
			Size:       1,
			SizeType:   types.Lots,
			Direction:  tc.direction,
		})
		if err != nil {
			t.Fatalf("Calculate: %v", err)
		}
		if (res.ProfitLoss > 0) != tc.wantPositive {
			t.Errorf("%s %v->%v: pnl = %v, want positive=%v",
				tc.direction, tc.entry, tc.exit, res.ProfitLoss, tc.wantPositive)
		}
	}
}

func TestReverseExitPriceRoundTrip(t *testing.T) {
	e := newTestEngine()

	cases := []struct {
		name   string
		symbol string
		entry  float64
		size   float64
		st     types.SizeType
		target float64
	}{
		{"forex lots", "EURUSD", 1.1000, 0.5, types.Lots, 125.00},
		{"forex units", "GBPUSD", 1.2500, 25000, types.Units, -80.00},
		{"index", "US500", 4500.00, 2, types.Contracts, 150.00},
		{"commodity", "USOIL", 75.00, 1, types.Contracts, -500.00},
		{"crypto", "BTCUSD", 50000, 0.25, types.Units, 750.00},
		{"stock", "AAPL", 200.00, 40, types.Units, 120.00},
	}

	for _, tc := range cases {
		for _, dir := range []types.Direction{types.Buy, types.Sell} {
			req := Request{
				Symbol:     tc.symbol,
				EntryPrice: tc.entry,
				Size:       tc.size,
				SizeType:   tc.st,
				Direction:  dir,
			}
			exit, err := e.ReverseExitPrice(req, tc.target)
			if err != nil {
				t.Fatalf("%s/%s ReverseExitPrice: %v", tc.name, dir, err)
			}
			req.ExitPrice = exit
			res, err := e.Calculate(req)
			if err != nil {
				t.Fatalf("%s/%s Calculate: %v", tc.name, dir, err)
			}
			if math.Abs(res.ProfitLoss-tc.target) > 0.01 {
				t.Errorf("%s/%s: round trip pnl = %v, want %v", tc.name, dir, res.ProfitLoss, tc.target)
			}
		}
	}
}

func TestPipValue(t *testing.T) {
	e := newTestEngine()

	got, err := e.PipValue("EURUSD", 1, types.Lots)
	if err != nil {
		t.Fatalf("PipValue: %v", err)
	}
	if got != 10.00 {
		t.Errorf("pip value = %v, want 10.00 per standard lot", got)
	}

	if _, err := e.PipValue("EURUSD", 0, types.Lots); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("zero size err = %v, want ErrInvalidInput", err)
	}
}

func TestPositionSize(t *testing.T) {
	e := newTestEngine()

	// Risk $100 (1% of 10k) over 50 pips at $10/pip/lot -> 0.2 lots.
	got, err := e.PositionSize("EURUSD", 10000, 1, 50)
	if err != nil {
		t.Fatalf("PositionSize: %v", err)
	}
	if got != 0.20 {
		t.Errorf("position size = %v, want 0.20", got)
	}

	if _, err := e.PositionSize("EURUSD", 10000, 0, 50); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("zero risk err = %v, want ErrInvalidInput", err)
	}
}
