// Package export writes normalized import results to CSV for
// spreadsheet review.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"tradesync/internal/types"
)

// aggRow accumulates per-symbol totals across one import.
type aggRow struct {
	Symbol     string
	Trades     int
	BuyLots    float64
	SellLots   float64
	TotalPnL   float64
	HasPnL     bool
	MinConf    float64
	Commission float64
}

// WriteTrades writes every trade of the result as one CSV row.
func WriteTrades(path string, res *types.ImportResult) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()

	w := csv.NewWriter(out)
	defer w.Flush()
	headers := []string{
		"broker_ticket", "broker_symbol", "canonical_symbol", "instrument_type",
		"direction", "lots", "entry_price", "exit_price", "entry_date", "exit_date",
		"profit_loss", "commission", "swap", "status", "confidence",
	}
	if err := w.Write(headers); err != nil {
		return err
	}
	for _, t := range res.Trades {
		row := []string{
			t.BrokerTicket,
			t.BrokerSymbol,
			t.CanonicalSymbol,
			t.InstrumentType,
			string(t.Direction),
			f2s(t.LotSize),
			f2s(t.EntryPrice),
			pf2s(t.ExitPrice),
			date(t.EntryDate),
			date(t.ExitDate),
			pf2s(t.ProfitLoss),
			f2s(t.Commission),
			f2s(t.Swap),
			t.Status,
			f2s(t.MappingConfidence),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// WriteSummary aggregates the result per canonical symbol and writes
// one CSV row per symbol, sorted alphabetically.
func WriteSummary(path string, res *types.ImportResult) error {
	aggs := map[string]*aggRow{}
	for _, t := range res.Trades {
		sym := t.CanonicalSymbol
		if sym == "" {
			sym = t.BrokerSymbol
		}
		row := aggs[sym]
		if row == nil {
			row = &aggRow{Symbol: sym, MinConf: 1}
			aggs[sym] = row
		}
		row.Trades++
		if t.Direction == types.Sell {
			row.SellLots += t.LotSize
		} else {
			row.BuyLots += t.LotSize
		}
		if t.ProfitLoss != nil {
			row.TotalPnL += *t.ProfitLoss
			row.HasPnL = true
		}
		row.Commission += t.Commission
		if t.MappingConfidence < row.MinConf {
			row.MinConf = t.MappingConfidence
		}
	}
	if len(aggs) == 0 {
		return fmt.Errorf("no trades to summarize")
	}

	keys := make([]string, 0, len(aggs))
	for k := range aggs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()

	w := csv.NewWriter(out)
	defer w.Flush()
	headers := []string{"symbol", "trades", "buy_lots", "sell_lots", "profit_loss", "commission", "min_confidence"}
	if err := w.Write(headers); err != nil {
		return err
	}
	for _, k := range keys {
		row := aggs[k]
		pnl := ""
		if row.HasPnL {
			pnl = f2s(row.TotalPnL)
		}
		rec := []string{
			row.Symbol,
			strconv.Itoa(row.Trades),
			f2s(row.BuyLots),
			f2s(row.SellLots),
			pnl,
			f2s(row.Commission),
			f2s(row.MinConf),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func f2s(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func pf2s(v *float64) string {
	if v == nil {
		return ""
	}
	return f2s(*v)
}

func date(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format("2006-01-02 15:04:05")
}
