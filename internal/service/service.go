// Package service is the thin front over the importers: it decides
// which importer handles a source and exposes import, preview and
// mapping-report entry points.
package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"tradesync/internal/importer"
	"tradesync/internal/interfaces"
	"tradesync/internal/logger"
	"tradesync/internal/mapper"
	"tradesync/internal/types"
)

// Format names returned by DetectFormat.
const (
	FormatCSV  = "csv"
	FormatMT5  = "mt5"
	FormatAPI  = "api"
	FormatNone = ""
)

// Service routes import sources to the right importer.
type Service struct {
	csv  interfaces.Importer
	mt5  interfaces.Importer
	api  map[string]interfaces.Importer
	mapp *mapper.Mapper
}

func New(csvImp, mt5Imp interfaces.Importer, m *mapper.Mapper) *Service {
	return &Service{
		csv:  csvImp,
		mt5:  mt5Imp,
		api:  make(map[string]interfaces.Importer),
		mapp: m,
	}
}

// RegisterAPI attaches a REST importer under a broker id. Lookup is
// case insensitive.
func (s *Service) RegisterAPI(brokerID string, imp interfaces.Importer) {
	s.api[strings.ToLower(brokerID)] = imp
}

// DetectFormat decides how a source should be parsed. The filename
// extension wins when present; otherwise the content is sniffed. A
// source with no data falls through to the API importers.
func DetectFormat(src types.ImportSource) string {
	switch strings.ToLower(filepath.Ext(src.Filename)) {
	case ".csv", ".txt":
		return FormatCSV
	case ".htm", ".html":
		return FormatMT5
	}
	if len(src.Data) == 0 {
		if src.BrokerID != "" {
			return FormatAPI
		}
		return FormatNone
	}
	if isUTF16(src.Data) {
		// MT4/MT5 terminals export UTF-16 HTML statements.
		return FormatMT5
	}
	head := strings.ToLower(strings.TrimSpace(string(trimBOM(src.Data[:min(len(src.Data), 512)]))))
	if strings.HasPrefix(head, "<") {
		return FormatMT5
	}
	return FormatCSV
}

// Import parses the source with the importer its format calls for and
// runs the full pipeline. The returned result carries the source hash
// so callers can deduplicate repeat uploads.
func (s *Service) Import(ctx context.Context, src types.ImportSource) (*types.ImportResult, error) {
	imp, err := s.importerFor(src)
	if err != nil {
		res := importer.NewResult(src.BrokerID, "unknown")
		return importer.Fail(res, err), err
	}
	logger.Info(ctx, "import started", "broker", src.BrokerID, "source", imp.SourceType(), "file", src.Filename)
	return imp.Parse(ctx, src)
}

// Preview parses without any downstream side effects so callers can
// inspect the mapped trades before committing.
func (s *Service) Preview(ctx context.Context, src types.ImportSource) (*types.ImportResult, error) {
	imp, err := s.importerFor(src)
	if err != nil {
		res := importer.NewResult(src.BrokerID, "unknown")
		return importer.Fail(res, err), err
	}
	return imp.Preview(ctx, src)
}

// MappingReport maps a symbol set for a broker without importing,
// bucketing the results for a pre-import audit.
func (s *Service) MappingReport(ctx context.Context, symbols []string, brokerID string) *mapper.MappingReport {
	return s.mapp.Report(ctx, symbols, brokerID)
}

func (s *Service) importerFor(src types.ImportSource) (interfaces.Importer, error) {
	switch DetectFormat(src) {
	case FormatCSV:
		return s.csv, nil
	case FormatMT5:
		return s.mt5, nil
	case FormatAPI:
		if imp, ok := s.api[strings.ToLower(src.BrokerID)]; ok {
			return imp, nil
		}
		return nil, fmt.Errorf("%w: no API importer registered for broker %q", importer.ErrUnsupportedFormat, src.BrokerID)
	default:
		return nil, fmt.Errorf("%w: empty source and no broker id", importer.ErrUnsupportedFormat)
	}
}

func isUTF16(data []byte) bool {
	return len(data) >= 2 && (data[0] == 0xFF && data[1] == 0xFE || data[0] == 0xFE && data[1] == 0xFF)
}

func trimBOM(data []byte) []byte {
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		return data[3:]
	}
	return data
}
