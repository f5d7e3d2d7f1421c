package output

import (
	"context"

	"pagekit/internal/domain/entity"
)

// EvidencePort persists page snapshots taken when a page-load check fails.
type EvidencePort interface {
	Capture(ctx context.Context, page string, driver DriverPort) (*entity.PageSnapshot, error)
}
