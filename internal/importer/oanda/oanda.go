package oanda

import (
	"context"
	"fmt"
	"math"
	"time"

	"tradesync/internal/api"
	"tradesync/internal/importer"
	"tradesync/internal/interfaces"
	"tradesync/internal/logger"
	"tradesync/internal/types"
)

// Credentials for the OANDA v20 REST API.
type Credentials struct {
	APIKey    string
	AccountID string
}

// Importer fetches closed trades from an OANDA account.
type Importer struct {
	pipeline *importer.Pipeline
	client   *api.Client
	creds    Credentials
}

var _ interfaces.Importer = (*Importer)(nil)

// New builds an OANDA importer. The client should carry the OANDA base
// URL; the bearer header is added per request.
func New(p *importer.Pipeline, creds Credentials, client *api.Client) *Importer {
	return &Importer{pipeline: p, creds: creds, client: client}
}

func (i *Importer) SourceType() string { return "api" }

// IsConfigured reports whether credentials are present. It must be
// checked before any network call.
func (i *Importer) IsConfigured() bool {
	return i.creds.APIKey != "" && i.creds.AccountID != ""
}

// TestConnection verifies the credentials against the account summary
// endpoint without importing anything.
func (i *Importer) TestConnection(ctx context.Context) error {
	if !i.IsConfigured() {
		return fmt.Errorf("%w: missing OANDA api key or account id", importer.ErrNotConfigured)
	}
	_, err := i.client.GET(ctx, fmt.Sprintf("/v3/accounts/%s/summary", i.creds.AccountID), i.headers())
	if err != nil {
		return fmt.Errorf("oanda connection test: %w", err)
	}
	return nil
}

// Parse fetches closed trades, per symbol when symbols are given, and
// runs the shared pipeline. A failed symbol is recorded as an error
// and does not abort the others.
func (i *Importer) Parse(ctx context.Context, src types.ImportSource) (*types.ImportResult, error) {
	res := importer.NewResult(src.BrokerID, i.SourceType())
	if res.BrokerID == "" {
		res.BrokerID = "oanda"
	}
	if !i.IsConfigured() {
		err := fmt.Errorf("%w: missing OANDA api key or account id", importer.ErrNotConfigured)
		return importer.Fail(res, err), err
	}
	res.Status = types.StatusParsing

	if len(src.Symbols) == 0 {
		trades, err := i.fetchTrades(ctx, "")
		if err != nil {
			return importer.Fail(res, err), err
		}
		i.appendTrades(res, trades)
	} else {
		for _, symbol := range src.Symbols {
			if ctx.Err() != nil {
				break
			}
			trades, err := i.fetchTrades(ctx, symbol)
			if err != nil {
				res.Errors = append(res.Errors, fmt.Sprintf("symbol %s: %v", symbol, err))
				logger.ErrorWithErr(ctx, "oanda symbol fetch failed", err, "symbol", symbol)
				continue
			}
			i.appendTrades(res, trades)
		}
	}

	return i.pipeline.Finalize(ctx, res), nil
}

// Preview is identical to Parse; nothing is persisted at this layer.
func (i *Importer) Preview(ctx context.Context, src types.ImportSource) (*types.ImportResult, error) {
	return i.Parse(ctx, src)
}

func (i *Importer) Validate(records []*types.TradeRecord) []*types.TradeRecord {
	return importer.Validate(records)
}

func (i *Importer) headers() map[string]string {
	return map[string]string{"Authorization": "Bearer " + i.creds.APIKey}
}

type oandaTrade struct {
	ID                string `json:"id"`
	Instrument        string `json:"instrument"`
	Price             string `json:"price"`
	InitialUnits      string `json:"initialUnits"`
	RealizedPL        string `json:"realizedPL"`
	Financing         string `json:"financing"`
	AverageClosePrice string `json:"averageClosePrice"`
	OpenTime          string `json:"openTime"`
	CloseTime         string `json:"closeTime"`
	State             string `json:"state"`
}

type tradesResponse struct {
	Trades []oandaTrade `json:"trades"`
}

func (i *Importer) fetchTrades(ctx context.Context, instrument string) ([]oandaTrade, error) {
	url := fmt.Sprintf("/v3/accounts/%s/trades?state=CLOSED&count=500", i.creds.AccountID)
	if instrument != "" {
		url += "&instrument=" + instrument
	}
	resp, err := i.client.GET(ctx, url, i.headers())
	if err != nil {
		return nil, err
	}
	var out tradesResponse
	if err := resp.ParseJSON(&out); err != nil {
		return nil, err
	}
	return out.Trades, nil
}

func (i *Importer) appendTrades(res *types.ImportResult, trades []oandaTrade) {
	for _, t := range trades {
		rec, err := convert(t)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("trade %s: %v", t.ID, err))
			continue
		}
		res.Trades = append(res.Trades, rec)
	}
}

// convert maps one OANDA trade onto a TradeRecord. Units are signed:
// negative means a short position.
func convert(t oandaTrade) (*types.TradeRecord, error) {
	units, err := importer.ParseFloat(t.InitialUnits)
	if err != nil {
		return nil, fmt.Errorf("bad units %q: %v", t.InitialUnits, err)
	}
	price, err := importer.ParseFloat(t.Price)
	if err != nil {
		return nil, fmt.Errorf("bad price %q: %v", t.Price, err)
	}

	direction := types.Buy
	if units < 0 {
		direction = types.Sell
	}
	absUnits := math.Abs(units)

	rec := &types.TradeRecord{
		BrokerTicket: t.ID,
		BrokerSymbol: t.Instrument,
		Direction:    direction,
		LotSize:      absUnits / 100000,
		Units:        types.Ptr(absUnits),
		EntryPrice:   price,
		Status:       "open",
	}

	if ts, err := time.Parse(time.RFC3339Nano, t.OpenTime); err == nil {
		rec.EntryDate = &ts
	}
	if t.CloseTime != "" {
		if ts, err := time.Parse(time.RFC3339Nano, t.CloseTime); err == nil {
			rec.ExitDate = &ts
		}
	}
	if t.AverageClosePrice != "" {
		if p, err := importer.ParseFloat(t.AverageClosePrice); err == nil && p > 0 {
			rec.ExitPrice = types.Ptr(p)
		}
	}
	if t.RealizedPL != "" {
		if pl, err := importer.ParseFloat(t.RealizedPL); err == nil {
			rec.ProfitLoss = types.Ptr(pl)
		}
	}
	if t.Financing != "" {
		if f, err := importer.ParseFloat(t.Financing); err == nil {
			rec.Swap = f
		}
	}
	if rec.ExitPrice != nil || rec.ExitDate != nil {
		rec.Status = "closed"
	}
	return rec, nil
}
