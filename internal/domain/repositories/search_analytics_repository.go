package repositories

import (
	"context"

	"github.com/zatekoja/medmatch/internal/domain/entities"
)

// SearchAnalyticsRepository persists recommendation request events
type SearchAnalyticsRepository interface {
	// LogEvent stores a single search event
	LogEvent(ctx context.Context, event *entities.SearchEvent) error

	// GetZeroResultQueries returns recent events that produced no candidates
	GetZeroResultQueries(ctx context.Context, limit int) ([]*entities.SearchEvent, error)
}
