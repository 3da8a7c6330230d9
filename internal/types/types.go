package types

import "time"

// Direction of a position.
type Direction string

const (
	Buy  Direction = "buy"
	Sell Direction = "sell"
)

// Opposite returns the flipped direction.
func (d Direction) Opposite() Direction {
	if d == Sell {
		return Buy
	}
	return Sell
}

// SizeType says how a trade's size is expressed. It selects which
// multiplier the P&L engine applies.
type SizeType string

const (
	Lots      SizeType = "lots"
	Units     SizeType = "units"
	Contracts SizeType = "contracts"
)

// ImportStatus is the state machine every import operation moves through:
// pending -> parsing -> mapping -> validating -> importing -> completed|failed,
// with cancelled reachable from any non-terminal state.
type ImportStatus string

const (
	StatusPending    ImportStatus = "pending"
	StatusParsing    ImportStatus = "parsing"
	StatusMapping    ImportStatus = "mapping"
	StatusValidating ImportStatus = "validating"
	StatusImporting  ImportStatus = "importing"
	StatusCompleted  ImportStatus = "completed"
	StatusFailed     ImportStatus = "failed"
	StatusCancelled  ImportStatus = "cancelled"
)

// Terminal reports whether the status is an end state.
func (s ImportStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

// TradeRecord is the normalized unit produced by every importer. Parsers
// build it, mapping fills CanonicalSymbol/MappingConfidence, P&L completion
// fills ProfitLoss, and once placed in an ImportResult it is frozen.
type TradeRecord struct {
	BrokerTicket    string `json:"broker_ticket"`
	BrokerSymbol    string `json:"broker_symbol"`
	CanonicalSymbol string `json:"canonical_symbol,omitempty"`
	InstrumentType  string `json:"instrument_type,omitempty"`

	TradeType string    `json:"trade_type,omitempty"`
	Direction Direction `json:"direction"`

	LotSize float64  `json:"lot_size"`
	Units   *float64 `json:"units,omitempty"`

	EntryPrice float64  `json:"entry_price"`
	ExitPrice  *float64 `json:"exit_price,omitempty"`
	StopLoss   *float64 `json:"stop_loss,omitempty"`
	TakeProfit *float64 `json:"take_profit,omitempty"`

	EntryDate *time.Time `json:"entry_date,omitempty"`
	ExitDate  *time.Time `json:"exit_date,omitempty"`

	ProfitLoss *float64 `json:"profit_loss,omitempty"`
	Commission float64  `json:"commission"`
	Swap       float64  `json:"swap"`

	Status string `json:"status"`

	RawData           map[string]string `json:"-"`
	MappingConfidence float64           `json:"mapping_confidence"`
	MappingWarnings   []string          `json:"mapping_warnings,omitempty"`
	ValidationErrors  []string          `json:"validation_errors,omitempty"`
}

// IsValid reports whether the record has the minimum required fields.
// Invalid records are kept, not discarded, so ValidationErrors can be
// surfaced to the caller.
func (t *TradeRecord) IsValid() bool {
	return t.BrokerSymbol != "" &&
		t.EntryPrice > 0 &&
		t.LotSize > 0 &&
		t.EntryDate != nil
}

// ImportResult is the outcome of one import operation and the sole artifact
// handed to the orchestration layer.
type ImportResult struct {
	Success bool         `json:"success"`
	Status  ImportStatus `json:"status"`
	Message string       `json:"message"`

	RunID string `json:"run_id,omitempty"`

	Trades []*TradeRecord `json:"trades"`

	TotalParsed   int `json:"total_parsed"`
	TotalMapped   int `json:"total_mapped"`
	TotalImported int `json:"total_imported"`
	TotalSkipped  int `json:"total_skipped"`
	TotalFailed   int `json:"total_failed"`

	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`

	DateRangeStart *time.Time `json:"date_range_start,omitempty"`
	DateRangeEnd   *time.Time `json:"date_range_end,omitempty"`

	BrokerID   string `json:"broker_id,omitempty"`
	SourceFile string `json:"source_file,omitempty"`
	SourceHash string `json:"source_hash,omitempty"`
	SourceType string `json:"source_type"`
}

// Ptr is a small helper for optional numeric fields.
func Ptr(v float64) *float64 { return &v }

// ImportSource is the input to one import operation. File-based
// importers read Data; API importers use Symbols and the date bounds.
type ImportSource struct {
	Data     []byte
	Filename string
	BrokerID string
	Symbols  []string
	From     *time.Time
	To       *time.Time
}
