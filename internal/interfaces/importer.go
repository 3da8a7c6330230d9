package interfaces

import (
	"context"

	"tradesync/internal/types"
)

type Importer interface {
	SourceType() string
	Parse(ctx context.Context, src types.ImportSource) (*types.ImportResult, error)
	Preview(ctx context.Context, src types.ImportSource) (*types.ImportResult, error)
	Validate(records []*types.TradeRecord) []*types.TradeRecord
}
