package ports

import (
	"context"

	"github.com/tekblok/fieldtask/internal/core/domain"
)

// GeoExtractor recovers coordinates from photo metadata. A nil result means
// no coordinates could be derived; failures are never returned as errors.
type GeoExtractor interface {
	Extract(photo []byte) *domain.Coordinates
	ExtractFromCandidates(ctx context.Context, urls []string) *domain.Coordinates
}
