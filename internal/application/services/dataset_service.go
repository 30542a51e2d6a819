package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/medmatch/internal/adapters/cache"
	"github.com/zatekoja/medmatch/internal/adapters/source"
	"github.com/zatekoja/medmatch/internal/domain/entities"
	"github.com/zatekoja/medmatch/internal/infrastructure/observability"
	"github.com/zatekoja/medmatch/pkg/config"
	apperrors "github.com/zatekoja/medmatch/pkg/errors"
)

// DatasetService is the cache manager for the logical provider datasets.
// Every dataset is backed by the same physical source file; entries are
// keyed on (dataset, path, file mtime) so a rewritten file is a guaranteed
// miss, the store enforces TTL expiry, and InvalidateAll covers the explicit
// purge path. All three staleness triggers are checked inside Get under one
// mutex, never by a background timer.
type DatasetService struct {
	cfg        config.DataConfig
	store      *cache.MemoryStore
	reader     source.Reader
	normalizer *SchemaNormalizer
	metrics    *observability.Metrics

	// mu serializes the check-then-load-or-return sequence so a concurrent
	// InvalidateAll cannot interleave mid-check.
	mu sync.Mutex

	refreshMu        sync.Mutex
	lastDailyRefresh string // calendar date of the last full purge, empty until one runs

	now func() time.Time
}

// NewDatasetService creates a new dataset service
func NewDatasetService(
	cfg config.DataConfig,
	store *cache.MemoryStore,
	reader source.Reader,
	normalizer *SchemaNormalizer,
	metrics *observability.Metrics,
) *DatasetService {
	return &DatasetService{
		cfg:        cfg,
		store:      store,
		reader:     reader,
		normalizer: normalizer,
		metrics:    metrics,
		now:        time.Now,
	}
}

// SetClock overrides the service clock. Tests only.
func (s *DatasetService) SetClock(now func() time.Time) {
	s.now = now
}

// Get returns the normalized, dataset-specific table for the logical
// identifier. On a valid cache hit no file I/O happens. Load failures are
// converted to an empty result plus a typed error; callers decide whether
// the distinction from "zero matches" is worth surfacing.
func (s *DatasetService) Get(ctx context.Context, ds entities.Dataset) ([]entities.Provider, error) {
	path := s.cfg.SourcePath()

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn().Str("dataset", ds.String()).Str("path", path).Msg("source file not found")
			return []entities.Provider{}, apperrors.NewNotFoundError("source file not found: " + path)
		}
		log.Error().Err(err).Str("dataset", ds.String()).Msg("failed to stat source file")
		return []entities.Provider{}, apperrors.NewInternalError("failed to stat source file", err)
	}

	key := cache.DatasetKey{Dataset: ds, Path: path, ModTime: info.ModTime().UnixNano()}

	s.mu.Lock()
	defer s.mu.Unlock()

	if providers, ok := s.store.Get(key); ok {
		observability.RecordCacheHit(ctx, s.metrics, ds.String())
		return providers, nil
	}
	observability.RecordCacheMiss(ctx, s.metrics, ds.String())

	start := s.now()
	table, err := s.reader.Read(ctx, path)
	if err != nil {
		log.Error().Err(err).Str("dataset", ds.String()).Str("path", path).Msg("failed to load source file")
		return []entities.Provider{}, err
	}

	normalized := s.normalizer.Normalize(table, ds)
	providers := s.normalizer.ToProviders(normalized)
	s.store.Put(key, providers)

	observability.RecordDatasetLoad(ctx, s.metrics, ds.String(), s.now().Sub(start))
	log.Info().
		Str("dataset", ds.String()).
		Int("rows", len(providers)).
		Msg("loaded and cached dataset")

	return providers, nil
}

// InvalidateAll unconditionally drops every cached dataset. Subsequent Get
// calls are guaranteed misses regardless of TTL or file timestamp.
func (s *DatasetService) InvalidateAll() {
	s.store.PurgeAll()
	log.Info().Msg("dataset cache cleared, next loads will re-read the source file")
}

// Preload eagerly populates the cache for the high-traffic datasets.
// Best-effort: a failure on one dataset is logged and never propagated.
// Returns the datasets that loaded with at least one row.
func (s *DatasetService) Preload(ctx context.Context) []entities.Dataset {
	loaded := make([]entities.Dataset, 0)
	for _, ds := range entities.CriticalDatasets() {
		providers, err := s.Get(ctx, ds)
		if err != nil {
			log.Warn().Err(err).Str("dataset", ds.String()).Msg("failed to preload dataset")
			continue
		}
		if len(providers) == 0 {
			log.Warn().Str("dataset", ds.String()).Msg("preloaded dataset is empty")
			continue
		}
		loaded = append(loaded, ds)
		log.Info().Str("dataset", ds.String()).Int("rows", len(providers)).Msg("preloaded dataset")
	}
	return loaded
}

// CheckAndRefreshDaily performs the scheduled full refresh when the current
// moment is at/after the daily boundary and no refresh ran today yet.
// Advisory: callers invoke it at a moment of their choosing (typically once
// per process start); calling again the same day is a no-op. Reports
// whether a refresh occurred.
func (s *DatasetService) CheckAndRefreshDaily(ctx context.Context) bool {
	now := s.now()
	boundary := time.Date(now.Year(), now.Month(), now.Day(), s.cfg.RefreshHour, 0, 0, 0, now.Location())
	if now.Before(boundary) {
		return false
	}

	today := now.Format("2006-01-02")

	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()
	if s.lastDailyRefresh == today {
		return false
	}

	log.Info().Str("date", today).Msg("performing daily cache refresh")
	s.InvalidateAll()
	s.Preload(ctx)
	s.lastDailyRefresh = today
	return true
}

// DatasetStatus describes the availability of one logical dataset
type DatasetStatus struct {
	Available bool   `json:"available"`
	FileName  string `json:"file_name,omitempty"`
	FileType  string `json:"file_type"`
}

// Status reports source availability for every logical dataset
func (s *DatasetService) Status() map[string]DatasetStatus {
	path := s.cfg.SourcePath()
	_, err := os.Stat(path)
	available := err == nil

	status := make(map[string]DatasetStatus, len(entities.AllDatasets()))
	for _, ds := range entities.AllDatasets() {
		st := DatasetStatus{Available: available, FileType: "none"}
		if available {
			st.FileName = s.cfg.SourceFile
			st.FileType = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
		}
		status[ds.String()] = st
	}
	return status
}

// IntegrityReport summarizes basic data quality checks for a dataset
type IntegrityReport struct {
	Valid              bool `json:"valid"`
	RowCount           int  `json:"row_count"`
	DuplicateNames     int  `json:"duplicate_names"`
	MissingCoordinates int  `json:"missing_coordinates"`
}

// ValidateIntegrity runs row-level quality checks on a dataset
func (s *DatasetService) ValidateIntegrity(ctx context.Context, ds entities.Dataset) IntegrityReport {
	providers, err := s.Get(ctx, ds)
	if err != nil || len(providers) == 0 {
		return IntegrityReport{}
	}

	report := IntegrityReport{Valid: true, RowCount: len(providers)}
	seen := make(map[string]bool, len(providers))
	for i := range providers {
		p := &providers[i]
		if seen[p.FullName] {
			report.DuplicateNames++
		}
		seen[p.FullName] = true
		if !p.HasCoordinates() {
			report.MissingCoordinates++
		}
	}
	return report
}
