package importer

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"tradesync/internal/types"
)

// Hash fingerprints a source payload so the orchestrator can detect
// re-imports of identical files.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// dateFormats is the ordered fallback list tried when a broker format
// is unknown or fails; first success wins.
var dateFormats = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	"2006.01.02 15:04:05",
	"2006.01.02 15:04",
	"02.01.2006 15:04:05",
	"02.01.2006 15:04",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"02/01/2006 15:04",
	"2006-01-02",
	"2006.01.02",
	"01/02/2006",
}

// PreferDateFormats moves the configured layouts to the front of the
// fallback list so deployment-specific date styles win ties.
func PreferDateFormats(layouts []string) {
	if len(layouts) == 0 {
		return
	}
	merged := make([]string, 0, len(layouts)+len(dateFormats))
	merged = append(merged, layouts...)
	for _, layout := range dateFormats {
		if !contains(merged, layout) {
			merged = append(merged, layout)
		}
	}
	dateFormats = merged
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// ParseDate tries the broker's preferred layout first, then the shared
// fallback list.
func ParseDate(value, preferred string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if preferred != "" {
		if t, err := time.Parse(preferred, value); err == nil {
			return t, nil
		}
	}
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", value)
}

// ParseFloat accepts broker-flavored numbers: thousands separators,
// surrounding whitespace, and space padding inside the value.
func ParseFloat(value string) (float64, error) {
	cleaned := strings.TrimSpace(value)
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	if cleaned == "" || cleaned == "-" {
		return 0, fmt.Errorf("empty number")
	}
	return strconv.ParseFloat(cleaned, 64)
}

// ParseDirection recognizes the usual broker spellings of a trade side.
func ParseDirection(value string) (types.Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "buy", "long", "b", "0", "bought":
		return types.Buy, true
	case "sell", "short", "s", "1", "sold":
		return types.Sell, true
	}
	return "", false
}
