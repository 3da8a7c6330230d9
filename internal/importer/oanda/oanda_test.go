package oanda

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tradesync/internal/api"
	"tradesync/internal/catalog"
	"tradesync/internal/importer"
	"tradesync/internal/mapper"
	"tradesync/internal/pnl"
	"tradesync/internal/types"
)

func newTestImporter(t *testing.T, baseURL string, creds Credentials) *Importer {
	t.Helper()
	profiles, err := mapper.NewProfiles(nil)
	if err != nil {
		t.Fatalf("NewProfiles: %v", err)
	}
	cat := catalog.New(nil)
	pipe := importer.NewPipeline(mapper.New(cat, profiles), pnl.New(cat))
	client := api.NewClient(api.WithBaseURL(baseURL))
	return New(pipe, creds, client)
}

func TestUnconfiguredFailsFast(t *testing.T) {
	// Server must never be hit without credentials.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request to %s", r.URL.Path)
	}))
	defer srv.Close()

	imp := newTestImporter(t, srv.URL, Credentials{})
	res, err := imp.Parse(context.Background(), types.ImportSource{BrokerID: "oanda"})
	if err == nil {
		t.Fatal("unconfigured importer must fail")
	}
	if res.Success || res.Status != types.StatusFailed {
		t.Errorf("result = %v/%s, want failure/failed", res.Success, res.Status)
	}
	if err := imp.TestConnection(context.Background()); err == nil {
		t.Error("TestConnection must fail without credentials")
	}
}

func TestParseConvertsTrades(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer key" {
			t.Errorf("auth header = %q", got)
		}
		w.Write([]byte(`{"trades":[
			{"id":"7","instrument":"EUR_USD","price":"1.1000","initialUnits":"10000",
			 "realizedPL":"50.00","averageClosePrice":"1.1050",
			 "openTime":"2024-01-02T10:00:00.000000000Z","closeTime":"2024-01-03T10:00:00.000000000Z","state":"CLOSED"},
			{"id":"8","instrument":"GBP_USD","price":"1.2500","initialUnits":"-20000",
			 "realizedPL":"-30.00","averageClosePrice":"1.2515",
			 "openTime":"2024-01-04T10:00:00.000000000Z","closeTime":"2024-01-04T15:00:00.000000000Z","state":"CLOSED"}
		]}`))
	}))
	defer srv.Close()

	imp := newTestImporter(t, srv.URL, Credentials{APIKey: "key", AccountID: "001"})
	res, err := imp.Parse(context.Background(), types.ImportSource{BrokerID: "oanda"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !res.Success || len(res.Trades) != 2 {
		t.Fatalf("result = %v with %d trades, want success with 2", res.Success, len(res.Trades))
	}

	long := res.Trades[0]
	if long.Direction != types.Buy {
		t.Errorf("positive units direction = %s, want buy", long.Direction)
	}
	if long.CanonicalSymbol != "EURUSD" {
		t.Errorf("canonical = %s, want EURUSD", long.CanonicalSymbol)
	}
	if long.Units == nil || *long.Units != 10000 {
		t.Errorf("units = %v, want 10000", long.Units)
	}
	if long.ProfitLoss == nil || *long.ProfitLoss != 50.00 {
		t.Errorf("profit = %v, want 50.00", long.ProfitLoss)
	}
	if long.Status != "closed" {
		t.Errorf("status = %s, want closed", long.Status)
	}

	short := res.Trades[1]
	if short.Direction != types.Sell {
		t.Errorf("negative units direction = %s, want sell", short.Direction)
	}
	if short.LotSize != 0.2 {
		t.Errorf("lot size = %v, want 0.2", short.LotSize)
	}
}

func TestPerSymbolFailureIsolated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.RawQuery, "instrument=EUR_USD") {
			http.Error(w, "server error", http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"trades":[
			{"id":"9","instrument":"GBP_USD","price":"1.2500","initialUnits":"10000",
			 "realizedPL":"10.00","averageClosePrice":"1.2510",
			 "openTime":"2024-01-04T10:00:00.000000000Z","closeTime":"2024-01-04T15:00:00.000000000Z","state":"CLOSED"}
		]}`))
	}))
	defer srv.Close()

	imp := newTestImporter(t, srv.URL, Credentials{APIKey: "key", AccountID: "001"})
	res, err := imp.Parse(context.Background(), types.ImportSource{
		BrokerID: "oanda",
		Symbols:  []string{"EUR_USD", "GBP_USD"},
	})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(res.Trades) != 1 || res.Trades[0].BrokerSymbol != "GBP_USD" {
		t.Fatalf("expected only the healthy symbol, got %d trades", len(res.Trades))
	}
	if len(res.Errors) != 1 || !strings.Contains(res.Errors[0], "EUR_USD") {
		t.Errorf("errors = %v, want one naming EUR_USD", res.Errors)
	}
	if !res.Success {
		t.Error("per-symbol failure must not fail the whole import")
	}
}
