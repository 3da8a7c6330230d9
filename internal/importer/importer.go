package importer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"tradesync/internal/logger"
	"tradesync/internal/mapper"
	"tradesync/internal/pnl"
	"tradesync/internal/types"
)

// Configuration failures abort the whole import up front. Row-level
// problems are collected into the result instead.
var (
	ErrNotConfigured     = errors.New("importer not configured")
	ErrUnsupportedFormat = errors.New("unsupported source format")
)

// Pipeline is the shared back half of every importer: symbol mapping,
// profit/loss completion, validation, date range, and counters. Parsers
// build the raw records; Finalize makes them an ImportResult.
type Pipeline struct {
	mapper        *mapper.Mapper
	engine        *pnl.Engine
	minConfidence float64
}

// defaultMinConfidence is the mapping confidence floor below which a
// resolved symbol is not counted as mapped.
const defaultMinConfidence = 0.7

// NewPipeline builds the shared stage chain over a mapper and engine.
func NewPipeline(m *mapper.Mapper, e *pnl.Engine) *Pipeline {
	return &Pipeline{mapper: m, engine: e, minConfidence: defaultMinConfidence}
}

// SetMinConfidence replaces the mapping confidence floor. Zero keeps
// the default.
func (p *Pipeline) SetMinConfidence(min float64) {
	if min > 0 {
		p.minConfidence = min
	}
}

// Mapper exposes the symbol resolver, for importers that need broker
// profile data while parsing.
func (p *Pipeline) Mapper() *mapper.Mapper { return p.mapper }

// NewResult seeds a pending ImportResult with a fresh run id.
func NewResult(brokerID, sourceType string) *types.ImportResult {
	return &types.ImportResult{
		Status:     types.StatusPending,
		RunID:      uuid.New().String(),
		BrokerID:   brokerID,
		SourceType: sourceType,
	}
}

// Finalize runs mapping, P&L completion, validation and bookkeeping
// over the parsed records. Cancellation is checked between records;
// a cancelled result keeps everything processed so far.
func (p *Pipeline) Finalize(ctx context.Context, res *types.ImportResult) *types.ImportResult {
	res.TotalParsed = len(res.Trades)
	if cancelled(ctx) {
		return p.cancel(ctx, res)
	}

	res.Status = types.StatusMapping
	for _, rec := range res.Trades {
		if cancelled(ctx) {
			return p.cancel(ctx, res)
		}
		p.mapRecord(ctx, rec, res.BrokerID)
		if rec.CanonicalSymbol != "" && rec.MappingConfidence >= p.minConfidence {
			res.TotalMapped++
		}
	}

	for i, rec := range res.Trades {
		if cancelled(ctx) {
			return p.cancel(ctx, res)
		}
		if err := p.completePnL(rec, res.BrokerID); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("record %d (%s): %v", i+1, rec.BrokerSymbol, err))
		}
	}

	res.Status = types.StatusValidating
	Validate(res.Trades)

	res.Status = types.StatusImporting
	for _, rec := range res.Trades {
		if rec.IsValid() {
			res.TotalImported++
		} else {
			res.TotalFailed++
		}
		res.Warnings = append(res.Warnings, rec.MappingWarnings...)
	}
	res.DateRangeStart, res.DateRangeEnd = dateRange(res.Trades)

	res.Status = types.StatusCompleted
	res.Success = true
	res.Message = fmt.Sprintf("imported %d of %d trades (%d mapped, %d skipped, %d failed)",
		res.TotalImported, res.TotalParsed, res.TotalMapped, res.TotalSkipped, res.TotalFailed)

	logger.Import(ctx, res.BrokerID, res.SourceType, res.TotalParsed, res.TotalMapped, res.TotalFailed,
		"run_id", res.RunID)
	return res
}

// Fail marks the result as a configuration-level failure.
func Fail(res *types.ImportResult, err error) *types.ImportResult {
	res.Status = types.StatusFailed
	res.Success = false
	res.Message = err.Error()
	res.Errors = append(res.Errors, err.Error())
	return res
}

func (p *Pipeline) cancel(ctx context.Context, res *types.ImportResult) *types.ImportResult {
	res.Status = types.StatusCancelled
	res.Success = false
	res.Message = fmt.Sprintf("import cancelled after %d records", len(res.Trades))
	logger.Warn(ctx, "import cancelled", "broker", res.BrokerID, "records", len(res.Trades))
	return res
}

func (p *Pipeline) mapRecord(ctx context.Context, rec *types.TradeRecord, brokerID string) {
	if rec.BrokerSymbol == "" {
		return
	}
	m := p.mapper.MapSymbol(ctx, rec.BrokerSymbol, brokerID)
	rec.CanonicalSymbol = m.CanonicalSymbol
	rec.MappingConfidence = m.Confidence
	rec.MappingWarnings = append(rec.MappingWarnings, m.Warnings...)
	if m.Instrument != nil {
		rec.InstrumentType = m.Instrument.Type
	}
}

// completePnL fills ProfitLoss for closed records the broker did not
// price, leaving broker-supplied figures untouched. Broker profiles
// with a lot size rule override the instrument contract size.
func (p *Pipeline) completePnL(rec *types.TradeRecord, brokerID string) error {
	if rec.ProfitLoss != nil || rec.ExitPrice == nil {
		return nil
	}
	if rec.EntryPrice <= 0 || *rec.ExitPrice <= 0 || rec.LotSize <= 0 {
		return nil
	}
	symbol := rec.CanonicalSymbol
	if symbol == "" {
		symbol = rec.BrokerSymbol
	}
	sizeType := types.Lots
	if rec.Units != nil {
		sizeType = types.Units
	}
	size := rec.LotSize
	if sizeType == types.Units {
		size = *rec.Units
	}
	req := pnl.Request{
		Symbol:     symbol,
		EntryPrice: rec.EntryPrice,
		ExitPrice:  *rec.ExitPrice,
		Size:       size,
		SizeType:   sizeType,
		Direction:  rec.Direction,
	}
	if profile := p.mapper.Profiles().Get(brokerID); profile != nil {
		req.ContractSize = profile.ContractSize(rec.InstrumentType)
	}
	out, err := p.engine.Calculate(req)
	if err != nil {
		return err
	}
	rec.ProfitLoss = types.Ptr(out.ProfitLoss)
	return nil
}

// Validate populates each record's ValidationErrors in place. Records
// are never removed.
func Validate(records []*types.TradeRecord) []*types.TradeRecord {
	for _, rec := range records {
		if rec.BrokerSymbol == "" {
			rec.ValidationErrors = append(rec.ValidationErrors, "missing broker symbol")
		}
		if rec.EntryPrice <= 0 {
			rec.ValidationErrors = append(rec.ValidationErrors, "entry price must be positive")
		}
		if rec.LotSize <= 0 {
			rec.ValidationErrors = append(rec.ValidationErrors, "lot size must be positive")
		}
		if rec.EntryDate == nil {
			rec.ValidationErrors = append(rec.ValidationErrors, "missing entry date")
		}
	}
	return records
}

func dateRange(records []*types.TradeRecord) (*time.Time, *time.Time) {
	var start, end *time.Time
	for _, rec := range records {
		if rec.EntryDate == nil {
			continue
		}
		d := *rec.EntryDate
		if start == nil || d.Before(*start) {
			t := d
			start = &t
		}
		if end == nil || d.After(*end) {
			t := d
			end = &t
		}
	}
	return start, end
}

func cancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
