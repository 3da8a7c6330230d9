package mt5

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"unicode/utf16"

	"github.com/PuerkitoBio/goquery"

	"tradesync/internal/importer"
	"tradesync/internal/interfaces"
	"tradesync/internal/types"
)

// Non-trade statement rows filtered out by type or content.
var nonTradeMarkers = []string{"balance", "deposit", "withdrawal", "credit", "rebate"}

// Column synonyms per logical field, matched by substring against the
// lowercased header, leftmost column first.
var columnSynonyms = map[string][]string{
	"ticket":      {"ticket", "order", "deal", "position", "#"},
	"symbol":      {"symbol", "instrument", "item"},
	"direction":   {"type", "side", "direction"},
	"lots":        {"volume", "lots", "size", "qty"},
	"entry_date":  {"open time", "open date", "time"},
	"exit_date":   {"close time", "close date"},
	"entry_price": {"open price", "price"},
	"exit_price":  {"close price"},
	"stop_loss":   {"s/l", "sl", "stop"},
	"take_profit": {"t/p", "tp", "take"},
	"commission":  {"commission"},
	"swap":        {"swap"},
	"profit":      {"profit"},
}

const mt5DateFormat = "2006.01.02 15:04:05"

// Importer parses MT4/MT5 HTML account statements.
type Importer struct {
	pipeline *importer.Pipeline
	fetcher  *Fetcher
}

var _ interfaces.Importer = (*Importer)(nil)

// New builds an MT5 statement importer over the shared pipeline.
func New(p *importer.Pipeline, fetcher *Fetcher) *Importer {
	return &Importer{pipeline: p, fetcher: fetcher}
}

func (i *Importer) SourceType() string { return "mt5" }

// Parse extracts the trade table from an HTML statement and runs the
// shared mapping/P&L/validation chain.
func (i *Importer) Parse(ctx context.Context, src types.ImportSource) (*types.ImportResult, error) {
	res := importer.NewResult(src.BrokerID, i.SourceType())
	res.SourceFile = src.Filename
	res.SourceHash = importer.Hash(src.Data)
	res.Status = types.StatusParsing

	if len(src.Data) == 0 {
		return importer.Fail(res, fmt.Errorf("%w: empty statement", importer.ErrUnsupportedFormat)), importer.ErrUnsupportedFormat
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(decode(src.Data)))
	if err != nil {
		return importer.Fail(res, fmt.Errorf("%w: %v", importer.ErrUnsupportedFormat, err)), importer.ErrUnsupportedFormat
	}

	tables := extractTables(doc)
	trade := selectTradeTable(tables)
	if trade == nil {
		return importer.Fail(res, fmt.Errorf("%w: no trade table found in statement", importer.ErrUnsupportedFormat)), importer.ErrUnsupportedFormat
	}

	columns := resolveColumns(trade.headers)
	for rowNum, row := range trade.rows {
		if ctx.Err() != nil {
			break
		}
		rec, skip, err := parseRow(row, columns)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: %v", rowNum+1, err))
			continue
		}
		if skip {
			res.TotalSkipped++
			continue
		}
		res.Trades = append(res.Trades, rec)
	}

	return i.pipeline.Finalize(ctx, res), nil
}

// ParseURL fetches a published statement and parses it.
func (i *Importer) ParseURL(ctx context.Context, url, brokerID string) (*types.ImportResult, error) {
	if i.fetcher == nil {
		res := importer.NewResult(brokerID, i.SourceType())
		return importer.Fail(res, fmt.Errorf("%w: no statement fetcher", importer.ErrNotConfigured)), importer.ErrNotConfigured
	}
	data, err := i.fetcher.Fetch(ctx, url)
	if err != nil {
		res := importer.NewResult(brokerID, i.SourceType())
		return importer.Fail(res, err), err
	}
	return i.Parse(ctx, types.ImportSource{Data: data, Filename: url, BrokerID: brokerID})
}

// Preview parses and validates without any store side effects.
func (i *Importer) Preview(ctx context.Context, src types.ImportSource) (*types.ImportResult, error) {
	return i.Parse(ctx, src)
}

func (i *Importer) Validate(records []*types.TradeRecord) []*types.TradeRecord {
	return importer.Validate(records)
}

type table struct {
	headers []string
	rows    [][]string
}

func extractTables(doc *goquery.Document) []*table {
	var tables []*table
	doc.Find("table").Each(func(_ int, sel *goquery.Selection) {
		t := &table{}
		sel.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			var cells []string
			tr.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
				cells = append(cells, strings.TrimSpace(cell.Text()))
			})
			if len(cells) == 0 {
				return
			}
			if t.headers == nil {
				t.headers = cells
			} else {
				t.rows = append(t.rows, cells)
			}
		})
		if t.headers != nil {
			tables = append(tables, t)
		}
	})
	return tables
}

// selectTradeTable picks the table that looks like a trade log: a
// symbol-ish column plus a profit-ish or type-ish one. Failing that,
// the first table with at least 2 data rows and 5 columns.
func selectTradeTable(tables []*table) *table {
	for _, t := range tables {
		var hasSymbol, hasProfit, hasType bool
		for _, h := range t.headers {
			lower := strings.ToLower(h)
			if strings.Contains(lower, "symbol") || strings.Contains(lower, "instrument") || lower == "item" {
				hasSymbol = true
			}
			if strings.Contains(lower, "profit") {
				hasProfit = true
			}
			if strings.Contains(lower, "type") {
				hasType = true
			}
		}
		if hasSymbol && (hasProfit || hasType) {
			return t
		}
	}
	for _, t := range tables {
		if len(t.rows) >= 2 && len(t.headers) >= 5 {
			return t
		}
	}
	return nil
}

// resolveColumns maps logical fields to header indices by substring
// match, first matching column wins scanning left to right. When a
// close-price or close-time column is missing but two price/time
// columns exist, the rightmost one is taken as the close.
func resolveColumns(headers []string) map[string]int {
	lower := make([]string, len(headers))
	for i, h := range headers {
		lower[i] = strings.ToLower(strings.TrimSpace(h))
	}

	out := make(map[string]int)
	for field, names := range columnSynonyms {
		for _, name := range names {
			found := false
			for idx, h := range lower {
				if strings.Contains(h, name) {
					out[field] = idx
					found = true
					break
				}
			}
			if found {
				break
			}
		}
	}

	if _, ok := out["exit_price"]; !ok {
		if idx, ok := lastMatch(lower, "price"); ok && idx != out["entry_price"] {
			out["exit_price"] = idx
		}
	}
	if _, ok := out["exit_date"]; !ok {
		if idx, ok := lastMatch(lower, "time"); ok && idx != out["entry_date"] {
			out["exit_date"] = idx
		}
	}
	return out
}

func lastMatch(headers []string, name string) (int, bool) {
	for i := len(headers) - 1; i >= 0; i-- {
		if strings.Contains(headers[i], name) {
			return i, true
		}
	}
	return 0, false
}

func parseRow(row []string, columns map[string]int) (*types.TradeRecord, bool, error) {
	field := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	typeVal := strings.ToLower(field("direction"))
	for _, marker := range nonTradeMarkers {
		if strings.Contains(typeVal, marker) {
			return nil, true, nil
		}
	}

	symbol := field("symbol")
	if symbol == "" {
		return nil, true, nil
	}

	rec := &types.TradeRecord{
		BrokerTicket: field("ticket"),
		BrokerSymbol: symbol,
		TradeType:    typeVal,
		Direction:    types.Buy,
	}
	if dir, ok := importer.ParseDirection(typeVal); ok {
		rec.Direction = dir
	}

	if v := field("lots"); v != "" {
		// MT5 renders partial fills as "0.10 / 0.10".
		if idx := strings.Index(v, "/"); idx > 0 {
			v = strings.TrimSpace(v[:idx])
		}
		lots, err := importer.ParseFloat(v)
		if err != nil {
			return nil, false, fmt.Errorf("bad volume %q: %v", v, err)
		}
		if lots < 0 {
			rec.Direction = rec.Direction.Opposite()
			lots = -lots
		}
		rec.LotSize = lots
	}

	if v := field("entry_price"); v != "" {
		price, err := importer.ParseFloat(v)
		if err != nil {
			return nil, false, fmt.Errorf("bad open price %q: %v", v, err)
		}
		rec.EntryPrice = price
	}
	if v := field("exit_price"); v != "" {
		if price, err := importer.ParseFloat(v); err == nil && price > 0 {
			rec.ExitPrice = types.Ptr(price)
		}
	}
	if v := field("stop_loss"); v != "" {
		if price, err := importer.ParseFloat(v); err == nil && price > 0 {
			rec.StopLoss = types.Ptr(price)
		}
	}
	if v := field("take_profit"); v != "" {
		if price, err := importer.ParseFloat(v); err == nil && price > 0 {
			rec.TakeProfit = types.Ptr(price)
		}
	}

	if v := field("entry_date"); v != "" {
		if t, err := importer.ParseDate(v, mt5DateFormat); err == nil {
			rec.EntryDate = &t
		}
	}
	if v := field("exit_date"); v != "" {
		if t, err := importer.ParseDate(v, mt5DateFormat); err == nil {
			rec.ExitDate = &t
		}
	}

	if v := field("profit"); v != "" {
		if pl, err := importer.ParseFloat(v); err == nil {
			rec.ProfitLoss = types.Ptr(pl)
		}
	}
	if v := field("commission"); v != "" {
		if c, err := importer.ParseFloat(v); err == nil {
			rec.Commission = c
		}
	}
	if v := field("swap"); v != "" {
		if s, err := importer.ParseFloat(v); err == nil {
			rec.Swap = s
		}
	}

	if rec.ExitPrice != nil || rec.ExitDate != nil {
		rec.Status = "closed"
	} else {
		rec.Status = "open"
	}
	return rec, false, nil
}

// decode handles the UTF-16 statements some MT4 terminals export,
// detected by byte order mark.
func decode(data []byte) []byte {
	if len(data) < 2 {
		return data
	}
	var le bool
	switch {
	case data[0] == 0xFF && data[1] == 0xFE:
		le = true
	case data[0] == 0xFE && data[1] == 0xFF:
		le = false
	default:
		return data
	}
	body := data[2:]
	u16 := make([]uint16, 0, len(body)/2)
	for i := 0; i+1 < len(body); i += 2 {
		if le {
			u16 = append(u16, uint16(body[i])|uint16(body[i+1])<<8)
		} else {
			u16 = append(u16, uint16(body[i])<<8|uint16(body[i+1]))
		}
	}
	return []byte(string(utf16.Decode(u16)))
}
