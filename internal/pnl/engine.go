package pnl

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"tradesync/internal/catalog"
	"tradesync/internal/types"
)

// ErrInvalidInput marks calculation requests with unusable numbers.
var ErrInvalidInput = errors.New("invalid calculation input")

// Kind is the closed set of instrument families the engine knows a
// formula for. Unknown catalog types collapse to KindGeneric.
type Kind int

const (
	KindForex Kind = iota
	KindIndex
	KindCommodity
	KindCrypto
	KindStock
	KindGeneric
)

// KindOf maps a catalog instrument type to its calculation family.
func KindOf(instrumentType string) Kind {
	switch instrumentType {
	case catalog.TypeForex, catalog.TypeForexIndicator:
		return KindForex
	case catalog.TypeIndex:
		return KindIndex
	case catalog.TypeCommodity:
		return KindCommodity
	case catalog.TypeCrypto:
		return KindCrypto
	case catalog.TypeStock:
		return KindStock
	default:
		return KindGeneric
	}
}

func (k Kind) String() string {
	switch k {
	case KindForex:
		return "forex"
	case KindIndex:
		return "index"
	case KindCommodity:
		return "commodity"
	case KindCrypto:
		return "crypto"
	case KindStock:
		return "stock"
	default:
		return "generic"
	}
}

// Request is one calculation. Instrument is optional; when nil the
// engine resolves Symbol through the catalog.
type Request struct {
	Symbol     string
	EntryPrice float64
	ExitPrice  float64
	Size       float64
	SizeType   types.SizeType
	Direction  types.Direction
	Instrument *catalog.Instrument
	// ContractSize overrides the instrument contract size when a
	// broker profile defines a lot size rule. Zero means no override.
	ContractSize float64
}

// contractSize resolves the contract multiplier: broker override
// first, then instrument metadata, then the family fallback.
func (r Request) contractSize(inst *catalog.Instrument, fallback float64) float64 {
	if r.ContractSize > 0 {
		return r.ContractSize
	}
	return contractSize(inst, fallback)
}

// Result carries the computed profit/loss plus the per-family
// movement figure. Currency amounts are rounded to 2 decimals and
// pip/point moves to 1; the internal math uses unrounded values.
type Result struct {
	Symbol         string  `json:"symbol"`
	InstrumentType string  `json:"instrument_type"`
	ProfitLoss     float64 `json:"profit_loss"`
	PriceDiff      float64 `json:"price_diff"`
	PipMove        float64 `json:"pip_move,omitempty"`
	Points         float64 `json:"points,omitempty"`
	PercentMove    float64 `json:"percent_move,omitempty"`
	PercentReturn  float64 `json:"percent_return,omitempty"`
	Units          float64 `json:"units,omitempty"`
}

// Engine computes trade profit/loss from canonical instrument
// metadata. It is stateless and safe for concurrent use.
type Engine struct {
	catalog *catalog.Catalog
}

// New builds an engine over the given catalog.
func New(cat *catalog.Catalog) *Engine {
	return &Engine{catalog: cat}
}

// Calculate computes profit/loss for a closed position. The direction
// sign is applied to the price difference once, before the per-family
// branch.
func (e *Engine) Calculate(req Request) (*Result, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	inst := e.instrument(req)
	kind := KindGeneric
	instType := "generic"
	if inst != nil {
		kind = KindOf(inst.Type)
		instType = inst.Type
	}

	diff := req.ExitPrice - req.EntryPrice
	if req.Direction == types.Sell {
		diff = -diff
	}

	res := &Result{
		Symbol:         req.Symbol,
		InstrumentType: instType,
		PriceDiff:      diff,
	}

	switch kind {
	case KindForex:
		units := req.Size
		if req.SizeType == types.Lots {
			units = req.Size * req.contractSize(inst, 100000)
		}
		res.Units = units
		res.ProfitLoss = round2(diff * units)
		res.PipMove = round1(diff / pipSize(req.Symbol, inst))

	case KindIndex:
		n := contracts(req, inst)
		res.Units = n
		res.Points = round1(diff)
		res.ProfitLoss = round2(diff * tickValue(inst) * n)

	case KindCommodity:
		n := contracts(req, inst)
		res.Units = n
		res.Points = round1(diff)
		res.ProfitLoss = round2(diff * req.contractSize(inst, 1) * n)

	case KindCrypto, KindGeneric:
		quantity := req.Size
		if req.SizeType != types.Units {
			quantity = req.Size * req.contractSize(inst, 1)
		}
		res.Units = quantity
		res.ProfitLoss = round2(diff * quantity)
		res.PercentMove = round2(diff / req.EntryPrice * 100)

	case KindStock:
		shares := req.Size
		res.Units = shares
		res.ProfitLoss = round2(diff * shares)
		res.PercentReturn = round2(diff / req.EntryPrice * 100)
	}

	return res, nil
}

// ReverseExitPrice returns the exit price that would produce the
// target profit/loss. It is the algebraic inverse of Calculate up to
// rounding.
func (e *Engine) ReverseExitPrice(req Request, targetPnL float64) (float64, error) {
	if req.EntryPrice <= 0 || req.Size <= 0 {
		return 0, fmt.Errorf("%w: entry price and size must be positive", ErrInvalidInput)
	}
	inst := e.instrument(req)
	kind := KindGeneric
	if inst != nil {
		kind = KindOf(inst.Type)
	}

	multiplier := e.pnlPerPricePoint(req, inst, kind)
	if multiplier == 0 {
		return 0, fmt.Errorf("%w: zero position multiplier", ErrInvalidInput)
	}
	diff := targetPnL / multiplier
	if req.Direction == types.Sell {
		diff = -diff
	}
	return req.EntryPrice + diff, nil
}

// PipValue returns the currency value of one pip for a forex position
// of the given size.
func (e *Engine) PipValue(symbol string, size float64, sizeType types.SizeType) (float64, error) {
	if size <= 0 {
		return 0, fmt.Errorf("%w: size must be positive", ErrInvalidInput)
	}
	inst := e.catalog.Resolve(symbol)
	units := size
	if sizeType == types.Lots {
		units = size * contractSize(inst, 100000)
	}
	return round2(units * pipSize(symbol, inst)), nil
}

// PositionSize returns the lot size that risks riskPercent of the
// account balance over the given stop distance in pips.
func (e *Engine) PositionSize(symbol string, balance, riskPercent, stopLossPips float64) (float64, error) {
	if balance <= 0 || riskPercent <= 0 || stopLossPips <= 0 {
		return 0, fmt.Errorf("%w: balance, risk percent and stop distance must be positive", ErrInvalidInput)
	}
	inst := e.catalog.Resolve(symbol)
	perLotPerPip := contractSize(inst, 100000) * pipSize(symbol, inst)
	if perLotPerPip == 0 {
		return 0, fmt.Errorf("%w: zero pip value", ErrInvalidInput)
	}
	riskAmount := balance * riskPercent / 100
	return round2(riskAmount / (stopLossPips * perLotPerPip)), nil
}

func (e *Engine) instrument(req Request) *catalog.Instrument {
	if req.Instrument != nil {
		return req.Instrument
	}
	return e.catalog.Resolve(req.Symbol)
}

// pnlPerPricePoint is the factor relating a one-point directional
// price move to profit/loss for this position.
func (e *Engine) pnlPerPricePoint(req Request, inst *catalog.Instrument, kind Kind) float64 {
	switch kind {
	case KindForex:
		if req.SizeType == types.Lots {
			return req.Size * req.contractSize(inst, 100000)
		}
		return req.Size
	case KindIndex:
		return tickValue(inst) * contracts(req, inst)
	case KindCommodity:
		return req.contractSize(inst, 1) * contracts(req, inst)
	case KindStock:
		return req.Size
	default:
		if req.SizeType != types.Units {
			return req.Size * req.contractSize(inst, 1)
		}
		return req.Size
	}
}

func validate(req Request) error {
	switch {
	case req.EntryPrice <= 0:
		return fmt.Errorf("%w: entry price %v", ErrInvalidInput, req.EntryPrice)
	case req.ExitPrice <= 0:
		return fmt.Errorf("%w: exit price %v", ErrInvalidInput, req.ExitPrice)
	case req.Size <= 0:
		return fmt.Errorf("%w: size %v", ErrInvalidInput, req.Size)
	}
	return nil
}

// contracts converts the request size into contract count.
func contracts(req Request, inst *catalog.Instrument) float64 {
	if req.SizeType == types.Units {
		if cs := req.contractSize(inst, 1); cs != 0 {
			return req.Size / cs
		}
	}
	return req.Size
}

func contractSize(inst *catalog.Instrument, fallback float64) float64 {
	if inst != nil && inst.ContractSize > 0 {
		return inst.ContractSize
	}
	return fallback
}

func tickValue(inst *catalog.Instrument) float64 {
	if inst != nil && inst.TickValue > 0 {
		return inst.TickValue
	}
	return 1
}

// pipSize prefers instrument metadata, falling back to the quote
// currency convention: 0.01 for JPY pairs, 0.0001 otherwise.
func pipSize(symbol string, inst *catalog.Instrument) float64 {
	if inst != nil && inst.PipOrTickSize > 0 {
		return inst.PipOrTickSize
	}
	if strings.HasSuffix(strings.ToUpper(symbol), "JPY") {
		return 0.01
	}
	return 0.0001
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
