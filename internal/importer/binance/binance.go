// Package binance imports account trade history from the Binance spot
// REST API. Every signed endpoint requires a timestamp and an
// HMAC-SHA256 signature over the query string.
package binance

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"tradesync/internal/api"
	"tradesync/internal/importer"
	"tradesync/internal/interfaces"
	"tradesync/internal/logger"
	"tradesync/internal/types"
)

// Credentials for a Binance API key pair.
type Credentials struct {
	APIKey    string
	APISecret string
}

// Importer fetches filled trades for the requested symbols. Binance
// has no account-wide trade listing, so symbols are mandatory.
type Importer struct {
	pipeline *importer.Pipeline
	client   *api.Client
	creds    Credentials
	now      func() time.Time
}

var _ interfaces.Importer = (*Importer)(nil)

func New(p *importer.Pipeline, creds Credentials, client *api.Client) *Importer {
	return &Importer{pipeline: p, creds: creds, client: client, now: time.Now}
}

func (i *Importer) SourceType() string { return "api" }

// IsConfigured reports whether both key and secret are present.
func (i *Importer) IsConfigured() bool {
	return i.creds.APIKey != "" && i.creds.APISecret != ""
}

// TestConnection hits the signed account endpoint with the configured
// key pair.
func (i *Importer) TestConnection(ctx context.Context) error {
	if !i.IsConfigured() {
		return fmt.Errorf("%w: missing Binance api key or secret", importer.ErrNotConfigured)
	}
	_, err := i.client.GET(ctx, i.sign("/api/v3/account", url.Values{}), i.headers())
	if err != nil {
		return fmt.Errorf("binance connection test: %w", err)
	}
	return nil
}

// Parse fetches trades per symbol and runs the shared pipeline. A
// failed symbol is recorded as an error and does not abort the others.
func (i *Importer) Parse(ctx context.Context, src types.ImportSource) (*types.ImportResult, error) {
	res := importer.NewResult(src.BrokerID, i.SourceType())
	if res.BrokerID == "" {
		res.BrokerID = "binance"
	}
	if !i.IsConfigured() {
		err := fmt.Errorf("%w: missing Binance api key or secret", importer.ErrNotConfigured)
		return importer.Fail(res, err), err
	}
	if len(src.Symbols) == 0 {
		err := fmt.Errorf("%w: binance requires at least one symbol", importer.ErrNotConfigured)
		return importer.Fail(res, err), err
	}
	res.Status = types.StatusParsing

	for _, symbol := range src.Symbols {
		if ctx.Err() != nil {
			break
		}
		trades, err := i.fetchTrades(ctx, symbol, src.From, src.To)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("symbol %s: %v", symbol, err))
			logger.ErrorWithErr(ctx, "binance symbol fetch failed", err, "symbol", symbol)
			continue
		}
		for _, t := range trades {
			res.Trades = append(res.Trades, convert(t))
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
	return map[string]string{"X-MBX-APIKEY": i.creds.APIKey}
}

// sign appends the timestamp and HMAC-SHA256 signature required by
// signed endpoints and returns the full request path.
func (i *Importer) sign(path string, params url.Values) string {
	params.Set("timestamp", strconv.FormatInt(i.now().UnixMilli(), 10))
	query := params.Encode()
	mac := hmac.New(sha256.New, []byte(i.creds.APISecret))
	mac.Write([]byte(query))
	return path + "?" + query + "&signature=" + hex.EncodeToString(mac.Sum(nil))
}

type binanceTrade struct {
	Symbol          string `json:"symbol"`
	ID              int64  `json:"id"`
	Price           string `json:"price"`
	Qty             string `json:"qty"`
	QuoteQty        string `json:"quoteQty"`
	Commission      string `json:"commission"`
	CommissionAsset string `json:"commissionAsset"`
	Time            int64  `json:"time"`
	IsBuyer         bool   `json:"isBuyer"`
}

func (i *Importer) fetchTrades(ctx context.Context, symbol string, from, to *time.Time) ([]binanceTrade, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("limit", "1000")
	if from != nil {
		params.Set("startTime", strconv.FormatInt(from.UnixMilli(), 10))
	}
	if to != nil {
		params.Set("endTime", strconv.FormatInt(to.UnixMilli(), 10))
	}
	resp, err := i.client.GET(ctx, i.sign("/api/v3/myTrades", params), i.headers())
	if err != nil {
		return nil, err
	}
	var out []binanceTrade
	if err := resp.ParseJSON(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// convert maps one Binance fill onto a TradeRecord. Fills are single
// executions, so every record is open with no exit side.
func convert(t binanceTrade) *types.TradeRecord {
	rec := &types.TradeRecord{
		BrokerTicket: strconv.FormatInt(t.ID, 10),
		BrokerSymbol: t.Symbol,
		Direction:    types.Buy,
		Status:       "open",
		RawData: map[string]string{
			"quoteQty":        t.QuoteQty,
			"commissionAsset": t.CommissionAsset,
		},
	}
	if !t.IsBuyer {
		rec.Direction = types.Sell
	}
	if qty, err := importer.ParseFloat(t.Qty); err == nil {
		rec.LotSize = qty
		rec.Units = types.Ptr(qty)
	}
	if price, err := importer.ParseFloat(t.Price); err == nil {
		rec.EntryPrice = price
	}
	if fee, err := importer.ParseFloat(t.Commission); err == nil {
		rec.Commission = fee
	}
	if t.Time > 0 {
		ts := time.UnixMilli(t.Time).UTC()
		rec.EntryDate = &ts
	}
	return rec
}
