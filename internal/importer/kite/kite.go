// Package kite imports executed trades and open positions from a
// Zerodha Kite account.
package kite

import (
	"context"
	"fmt"
	"strings"
	"time"

	kiteconnect "github.com/zerodha/gokiteconnect/v4"

	"tradesync/internal/importer"
	"tradesync/internal/interfaces"
	"tradesync/internal/logger"
	"tradesync/internal/types"
)

// Credentials for the Kite Connect API. The access token is the
// short-lived session token, not the api secret.
type Credentials struct {
	APIKey      string
	AccessToken string
}

// kiteClient is the slice of the Kite Connect client the importer
// uses, kept narrow so tests can stub it.
type kiteClient interface {
	GetTrades() (kiteconnect.Trades, error)
	GetPositions() (kiteconnect.Positions, error)
}

// Importer fetches the day's executed trades and open net positions.
type Importer struct {
	pipeline *importer.Pipeline
	creds    Credentials
	client   kiteClient
}

var _ interfaces.Importer = (*Importer)(nil)

func New(p *importer.Pipeline, creds Credentials) *Importer {
	imp := &Importer{pipeline: p, creds: creds}
	if imp.IsConfigured() {
		kc := kiteconnect.New(creds.APIKey)
		kc.SetAccessToken(creds.AccessToken)
		imp.client = kc
	}
	return imp
}

func (i *Importer) SourceType() string { return "api" }

// IsConfigured reports whether both key and access token are present.
func (i *Importer) IsConfigured() bool {
	return i.creds.APIKey != "" && i.creds.AccessToken != ""
}

// Parse fetches executed trades plus open net positions and runs the
// shared pipeline. A positions failure is recorded as an error and
// does not discard the executed trades.
func (i *Importer) Parse(ctx context.Context, src types.ImportSource) (*types.ImportResult, error) {
	res := importer.NewResult(src.BrokerID, i.SourceType())
	if res.BrokerID == "" {
		res.BrokerID = "kite"
	}
	if !i.IsConfigured() || i.client == nil {
		err := fmt.Errorf("%w: missing Kite api key or access token", importer.ErrNotConfigured)
		return importer.Fail(res, err), err
	}
	res.Status = types.StatusParsing

	trades, err := i.client.GetTrades()
	if err != nil {
		return importer.Fail(res, fmt.Errorf("kite trades: %w", err)), err
	}
	for _, t := range trades {
		res.Trades = append(res.Trades, convertTrade(t))
	}

	positions, err := i.client.GetPositions()
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("positions: %v", err))
		logger.ErrorWithErr(ctx, "kite positions fetch failed", err)
	} else {
		for _, p := range positions.Net {
			if p.Quantity == 0 {
				continue
			}
			res.Trades = append(res.Trades, convertPosition(p))
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

// convertTrade maps one executed Kite trade onto a TradeRecord.
// Quantity is in shares and the transaction type is BUY or SELL.
func convertTrade(t kiteconnect.Trade) *types.TradeRecord {
	rec := &types.TradeRecord{
		BrokerTicket: t.TradeID,
		BrokerSymbol: t.TradingSymbol,
		Direction:    types.Buy,
		LotSize:      t.Quantity,
		Units:        types.Ptr(t.Quantity),
		EntryPrice:   t.AveragePrice,
		Status:       "open",
		RawData: map[string]string{
			"exchange": t.Exchange,
			"order_id": t.OrderID,
			"product":  t.Product,
		},
	}
	if strings.EqualFold(t.TransactionType, "SELL") {
		rec.Direction = types.Sell
	}
	if !t.FillTimestamp.IsZero() {
		ts := t.FillTimestamp.Time
		rec.EntryDate = &ts
	}
	return rec
}

// convertPosition maps an open net position onto a TradeRecord. A
// negative quantity means a short position; the unrealized PnL the
// exchange reports is preserved. Positions carry no fill timestamp,
// so the import time stands in as the entry date.
func convertPosition(p kiteconnect.Position) *types.TradeRecord {
	qty := float64(p.Quantity)
	now := time.Now().UTC()
	rec := &types.TradeRecord{
		BrokerSymbol: p.Tradingsymbol,
		Direction:    types.Buy,
		LotSize:      qty,
		Units:        types.Ptr(qty),
		EntryPrice:   p.AveragePrice,
		EntryDate:    &now,
		ProfitLoss:   types.Ptr(p.PnL),
		Status:       "open",
		RawData: map[string]string{
			"exchange": p.Exchange,
			"product":  p.Product,
		},
	}
	if qty < 0 {
		rec.Direction = types.Sell
		rec.LotSize = -qty
		rec.Units = types.Ptr(-qty)
	}
	return rec
}
