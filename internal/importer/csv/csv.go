package csv

import (
	"bytes"
	"context"
	stdcsv "encoding/csv"
	"fmt"
	"io"
	"strings"

	"tradesync/internal/importer"
	"tradesync/internal/interfaces"
	"tradesync/internal/mapper"
	"tradesync/internal/types"
)

// defaultColumns maps each logical field to the header spellings seen
// across broker exports, matched case-insensitively.
var defaultColumns = map[string][]string{
	"ticket":      {"ticket", "order", "order id", "deal", "trade id", "position id", "id"},
	"symbol":      {"symbol", "instrument", "pair", "market", "epic"},
	"direction":   {"type", "side", "direction", "action"},
	"lots":        {"lots", "size", "volume", "quantity", "units", "amount"},
	"entry_price": {"open price", "entry price", "open_price", "entry", "open", "price"},
	"exit_price":  {"close price", "exit price", "close_price", "exit", "close"},
	"entry_date":  {"open time", "open date", "entry time", "open_time", "date", "time"},
	"exit_date":   {"close time", "close date", "exit time", "close_time"},
	"stop_loss":   {"s/l", "sl", "stop loss", "stop"},
	"take_profit": {"t/p", "tp", "take profit", "target"},
	"profit":      {"profit", "pnl", "p/l", "p&l", "net profit", "realized pnl"},
	"commission":  {"commission", "fees", "fee"},
	"swap":        {"swap", "rollover", "financing"},
}

var sniffDelimiters = []rune{',', ';', '\t', '|'}

// Importer parses broker CSV exports. Layout quirks come from the
// broker profile; everything unknown falls back to sniffing.
type Importer struct {
	pipeline *importer.Pipeline
	maxRows  int
}

var _ interfaces.Importer = (*Importer)(nil)

// New builds a CSV importer over the shared pipeline.
func New(p *importer.Pipeline) *Importer {
	return &Importer{pipeline: p}
}

// SetMaxRows caps how many data rows a single file may contribute.
// Rows past the cap are dropped with a warning. Zero means unlimited.
func (i *Importer) SetMaxRows(max int) {
	i.maxRows = max
}

func (i *Importer) SourceType() string { return "csv" }

// Parse reads the CSV payload into trade records and runs the shared
// mapping/P&L/validation chain. Row failures are collected, never
// fatal; only an unreadable file fails the whole result.
func (i *Importer) Parse(ctx context.Context, src types.ImportSource) (*types.ImportResult, error) {
	res := importer.NewResult(src.BrokerID, i.SourceType())
	res.SourceFile = src.Filename
	res.SourceHash = importer.Hash(src.Data)
	res.Status = types.StatusParsing

	if len(src.Data) == 0 {
		return importer.Fail(res, fmt.Errorf("%w: empty csv source", importer.ErrUnsupportedFormat)), importer.ErrUnsupportedFormat
	}

	profile := i.pipeline.Mapper().Profiles().Get(src.BrokerID)
	format := csvFormat(profile)

	reader := stdcsv.NewReader(bytes.NewReader(src.Data))
	reader.Comma = delimiter(format, src.Data)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return importer.Fail(res, fmt.Errorf("%w: no header row: %v", importer.ErrUnsupportedFormat, err)), importer.ErrUnsupportedFormat
	}
	columns := resolveColumns(header, format)
	if _, ok := columns["symbol"]; !ok {
		return importer.Fail(res, fmt.Errorf("%w: no symbol column in header", importer.ErrUnsupportedFormat)), importer.ErrUnsupportedFormat
	}

	rowNum := 1
	for {
		if err := ctx.Err(); err != nil {
			break
		}
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: %v", rowNum, err))
			continue
		}

		rec, skip, err := i.parseRow(header, row, columns, format)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: %v", rowNum, err))
			continue
		}
		if skip {
			res.TotalSkipped++
			continue
		}
		if i.maxRows > 0 && len(res.Trades) >= i.maxRows {
			res.Warnings = append(res.Warnings, fmt.Sprintf("row limit %d reached, remaining rows dropped", i.maxRows))
			break
		}
		res.Trades = append(res.Trades, rec)
	}

	return i.pipeline.Finalize(ctx, res), nil
}

// Preview runs the same parse and validation with no store side
// effects; the result is for display only.
func (i *Importer) Preview(ctx context.Context, src types.ImportSource) (*types.ImportResult, error) {
	return i.Parse(ctx, src)
}

func (i *Importer) Validate(records []*types.TradeRecord) []*types.TradeRecord {
	return importer.Validate(records)
}

func (i *Importer) parseRow(header, row []string, columns map[string]int, format *mapper.CSVFormat) (*types.TradeRecord, bool, error) {
	field := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	symbol := field("symbol")
	if symbol == "" {
		return nil, true, nil
	}

	rec := &types.TradeRecord{
		BrokerTicket: field("ticket"),
		BrokerSymbol: symbol,
		Direction:    types.Buy,
		RawData:      rawRow(header, row),
	}

	if dir, ok := importer.ParseDirection(field("direction")); ok {
		rec.Direction = dir
		rec.TradeType = strings.ToLower(field("direction"))
	}

	if v := field("lots"); v != "" {
		lots, err := importer.ParseFloat(v)
		if err != nil {
			return nil, false, fmt.Errorf("bad lot size %q: %v", v, err)
		}
		// Some brokers export sells as negative volume.
		if lots < 0 {
			rec.Direction = rec.Direction.Opposite()
			lots = -lots
		}
		rec.LotSize = lots
	}

	if v := field("entry_price"); v != "" {
		price, err := importer.ParseFloat(v)
		if err != nil {
			return nil, false, fmt.Errorf("bad entry price %q: %v", v, err)
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

	dateFormat := ""
	if format != nil {
		dateFormat = format.DateFormat
	}
	if v := field("entry_date"); v != "" {
		t, err := importer.ParseDate(v, dateFormat)
		if err != nil {
			return nil, false, err
		}
		rec.EntryDate = &t
	}
	if v := field("exit_date"); v != "" {
		if t, err := importer.ParseDate(v, dateFormat); err == nil {
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

// resolveColumns maps each logical field to a header index. Exact
// (normalized) matches win over contains matches; within a tier the
// leftmost column wins. Unresolved fields stay absent.
func resolveColumns(header []string, format *mapper.CSVFormat) map[string]int {
	normalized := make([]string, len(header))
	for i, h := range header {
		normalized[i] = strings.ToLower(strings.TrimSpace(h))
	}

	synonyms := make(map[string][]string, len(defaultColumns))
	for field, names := range defaultColumns {
		synonyms[field] = names
	}
	if format != nil {
		for field, names := range format.Columns {
			merged := make([]string, 0, len(names)+len(synonyms[field]))
			for _, n := range names {
				merged = append(merged, strings.ToLower(n))
			}
			synonyms[field] = append(merged, synonyms[field]...)
		}
	}

	out := make(map[string]int, len(synonyms))
	for field, names := range synonyms {
		if idx, ok := matchColumn(normalized, names, true); ok {
			out[field] = idx
			continue
		}
		if idx, ok := matchColumn(normalized, names, false); ok {
			out[field] = idx
		}
	}
	return out
}

func matchColumn(header []string, names []string, exact bool) (int, bool) {
	for _, name := range names {
		for i, h := range header {
			if exact && h == name {
				return i, true
			}
			if !exact && strings.Contains(h, name) {
				return i, true
			}
		}
	}
	return 0, false
}

func csvFormat(profile *mapper.BrokerProfile) *mapper.CSVFormat {
	if profile == nil {
		return nil
	}
	return profile.CSVFormat
}

// delimiter uses the profile's delimiter when set, otherwise picks the
// candidate occurring most often in the header line.
func delimiter(format *mapper.CSVFormat, data []byte) rune {
	if format != nil && format.Delimiter != "" {
		return rune(format.Delimiter[0])
	}
	line := data
	if idx := bytes.IndexByte(data, '\n'); idx >= 0 {
		line = data[:idx]
	}
	best, bestCount := ',', 0
	for _, d := range sniffDelimiters {
		if n := bytes.Count(line, []byte(string(d))); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}

func rawRow(header, row []string) map[string]string {
	raw := make(map[string]string, len(row))
	for i, v := range row {
		if i < len(header) {
			raw[header[i]] = v
		}
	}
	return raw
}
