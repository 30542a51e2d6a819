package database

import (
	"context"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/google/uuid"

	"github.com/zatekoja/medmatch/internal/domain/entities"
	"github.com/zatekoja/medmatch/internal/domain/repositories"
	"github.com/zatekoja/medmatch/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/medmatch/pkg/errors"
)

const searchEventsTable = "search_events"

// SearchAnalyticsAdapter persists search events to PostgreSQL
type SearchAnalyticsAdapter struct {
	client  *postgres.Client
	dialect goqu.DialectWrapper
}

// NewSearchAnalyticsAdapter creates a new search analytics adapter
func NewSearchAnalyticsAdapter(client *postgres.Client) repositories.SearchAnalyticsRepository {
	return &SearchAnalyticsAdapter{
		client:  client,
		dialect: goqu.Dialect("postgres"),
	}
}

func (a *SearchAnalyticsAdapter) LogEvent(ctx context.Context, event *entities.SearchEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	query, args, err := a.dialect.Insert(searchEventsTable).Rows(goqu.Record{
		"id":              event.ID,
		"request_id":      event.RequestID,
		"specialties":     event.Specialties,
		"genders":         event.Genders,
		"min_caseload":    event.MinCaseload,
		"radius_miles":    event.RadiusMiles,
		"distance_weight": event.DistanceWeight,
		"caseload_weight": event.CaseloadWeight,
		"user_latitude":   event.UserLatitude,
		"user_longitude":  event.UserLongitude,
		"result_count":    event.ResultCount,
		"best_match":      event.BestMatch,
		"empty_reason":    event.EmptyReason,
		"latency_ms":      event.LatencyMs,
		"created_at":      event.CreatedAt,
	}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build search event insert", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to log search event", err)
	}
	return nil
}

func (a *SearchAnalyticsAdapter) GetZeroResultQueries(ctx context.Context, limit int) ([]*entities.SearchEvent, error) {
	if limit <= 0 {
		limit = 100
	}

	query, args, err := a.dialect.From(searchEventsTable).
		Select("id", "request_id", "specialties", "genders", "min_caseload", "radius_miles",
			"distance_weight", "caseload_weight", "user_latitude", "user_longitude",
			"result_count", "best_match", "empty_reason", "latency_ms", "created_at").
		Where(goqu.C("result_count").Eq(0)).
		Order(goqu.C("created_at").Desc()).
		Limit(uint(limit)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build zero result query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get zero result queries", err)
	}
	defer rows.Close()

	var events []*entities.SearchEvent
	for rows.Next() {
		e := &entities.SearchEvent{}
		err := rows.Scan(
			&e.ID,
			&e.RequestID,
			&e.Specialties,
			&e.Genders,
			&e.MinCaseload,
			&e.RadiusMiles,
			&e.DistanceWeight,
			&e.CaseloadWeight,
			&e.UserLatitude,
			&e.UserLongitude,
			&e.ResultCount,
			&e.BestMatch,
			&e.EmptyReason,
			&e.LatencyMs,
			&e.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan search event", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate search events", err)
	}

	return events, nil
}
