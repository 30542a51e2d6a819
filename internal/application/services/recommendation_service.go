package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/zatekoja/medmatch/internal/domain/entities"
	"github.com/zatekoja/medmatch/internal/infrastructure/observability"
)

// Empty-result reasons. NoSourceData means the dataset itself could not be
// loaded or had no rows; NoCandidatesMatched means data existed but the
// filters eliminated everyone.
const (
	ReasonNoSourceData        = "no_source_data"
	ReasonNoCandidatesMatched = "no_candidates_matched"
)

// RecommendationRequest captures one ranking query
type RecommendationRequest struct {
	Latitude    float64  `json:"latitude"`
	Longitude   float64  `json:"longitude"`
	Specialties []string `json:"specialties,omitempty"`
	Genders     []string `json:"genders,omitempty"`
	MinCaseload int      `json:"min_caseload,omitempty"`
	RadiusMiles float64  `json:"radius_miles,omitempty"`
	Weights     Weights  `json:"weights"`

	// TimeWindowDays restricts the caseload signal to referrals dated
	// within the window. Zero means all time.
	TimeWindowDays int `json:"time_window_days,omitempty"`

	Limit int `json:"limit,omitempty"`
}

// RecommendationResult is the ranked answer for one request. Reason is set
// only when Providers is empty.
type RecommendationResult struct {
	RequestID string                    `json:"request_id"`
	Providers []entities.RankedProvider `json:"providers"`
	Reason    string                    `json:"reason,omitempty"`
}

// RecommendationService composes dataset access, filtering, distance
// computation and scoring into ranked provider recommendations.
type RecommendationService struct {
	datasets  *DatasetService
	scoring   *ScoringService
	analytics *SearchAnalyticsService
	metrics   *observability.Metrics
	now       func() time.Time
}

// NewRecommendationService creates a new recommendation service.
// analytics may be nil when no database is configured.
func NewRecommendationService(
	datasets *DatasetService,
	scoring *ScoringService,
	analytics *SearchAnalyticsService,
	metrics *observability.Metrics,
) *RecommendationService {
	return &RecommendationService{
		datasets:  datasets,
		scoring:   scoring,
		analytics: analytics,
		metrics:   metrics,
		now:       time.Now,
	}
}

// SetClock overrides the service clock. Tests only.
func (s *RecommendationService) SetClock(now func() time.Time) {
	s.now = now
}

// Recommend runs the full pipeline over the provider roster
func (s *RecommendationService) Recommend(ctx context.Context, req RecommendationRequest) (*RecommendationResult, error) {
	start := s.now()
	result := &RecommendationResult{
		RequestID: uuid.New().String(),
		Providers: []entities.RankedProvider{},
	}

	pool, err := s.datasets.Get(ctx, entities.DatasetProviderRoster)
	if err != nil || len(pool) == 0 {
		result.Reason = ReasonNoSourceData
		s.trackEvent(ctx, req, result, start)
		return result, nil
	}

	// Work on a copy, caseload recounts must not leak into the cache
	pool = append([]entities.Provider(nil), pool...)

	if req.TimeWindowDays > 0 {
		s.applyTimeWindow(ctx, pool, req.TimeWindowDays)
	}
	s.markPreferred(ctx, pool)

	pool = filterBySpecialty(pool, req.Specialties)
	pool = filterByGender(pool, req.Genders)
	if len(pool) == 0 {
		result.Reason = ReasonNoCandidatesMatched
		s.trackEvent(ctx, req, result, start)
		return result, nil
	}

	distances := Distances(req.Latitude, req.Longitude, pool)

	var inbound map[string]int
	if req.Weights.Inbound > 0 {
		inbound = s.inboundCounts(ctx)
	}

	candidates := make([]Candidate, 0, len(pool))
	for i := range pool {
		d := distances[i]
		if d == nil {
			continue
		}
		if req.RadiusMiles > 0 && *d > req.RadiusMiles {
			continue
		}
		c := Candidate{Provider: pool[i], Distance: d}
		if inbound != nil {
			n := inbound[pool[i].FullName]
			c.Inbound = &n
		}
		candidates = append(candidates, c)
	}

	ranked := s.scoring.Rank(candidates, req.Weights, req.MinCaseload)
	ranked = dedupeByName(ranked)
	if req.Limit > 0 && len(ranked) > req.Limit {
		ranked = ranked[:req.Limit]
	}

	if len(ranked) == 0 {
		result.Reason = ReasonNoCandidatesMatched
	}
	result.Providers = ranked

	s.trackEvent(ctx, req, result, start)
	return result, nil
}

// Filters describes the distinct values available for the filter UI
type Filters struct {
	Specialties []string `json:"specialties"`
	Genders     []string `json:"genders"`
}

// AvailableFilters extracts the distinct specialty and gender values from
// the provider roster. Comma-joined specialty cells are split.
func (s *RecommendationService) AvailableFilters(ctx context.Context) (*Filters, error) {
	pool, err := s.datasets.Get(ctx, entities.DatasetProviderRoster)
	if err != nil {
		return nil, err
	}

	specialties := make(map[string]bool)
	genders := make(map[string]bool)
	for i := range pool {
		for _, sp := range splitSpecialties(pool[i].Specialty) {
			specialties[sp] = true
		}
		if g := titleCase(pool[i].Gender); g != "" {
			genders[g] = true
		}
	}

	return &Filters{
		Specialties: sortedKeys(specialties),
		Genders:     sortedKeys(genders),
	}, nil
}

// applyTimeWindow recounts each provider's caseload from outbound referral
// dates within the window. Providers with no dated referrals inside the
// window drop to zero; the 1990 placeholder dates fall outside any
// realistic window on their own.
func (s *RecommendationService) applyTimeWindow(ctx context.Context, pool []entities.Provider, days int) {
	referrals, err := s.datasets.Get(ctx, entities.DatasetOutboundReferrals)
	if err != nil || len(referrals) == 0 {
		log.Warn().Err(err).Msg("time window requested but outbound referrals unavailable, keeping all-time counts")
		return
	}

	cutoff := s.now().AddDate(0, 0, -days)
	counts := make(map[string]int, len(referrals))
	for i := range referrals {
		r := &referrals[i]
		if r.ReferralDate == nil || r.ReferralDate.Before(cutoff) {
			continue
		}
		counts[r.FullName]++
	}

	for i := range pool {
		pool[i].ReferralCount = counts[pool[i].FullName]
	}
}

// markPreferred flags pool members that appear in the preferred contacts
func (s *RecommendationService) markPreferred(ctx context.Context, pool []entities.Provider) {
	preferred, err := s.datasets.Get(ctx, entities.DatasetPreferredProviders)
	if err != nil || len(preferred) == 0 {
		return
	}

	names := make(map[string]bool, len(preferred))
	for i := range preferred {
		names[strings.ToLower(preferred[i].FullName)] = true
	}
	for i := range pool {
		if names[strings.ToLower(pool[i].FullName)] {
			pool[i].Preferred = true
		}
	}
}

// inboundCounts aggregates inbound referral volume per provider name
func (s *RecommendationService) inboundCounts(ctx context.Context) map[string]int {
	referrals, err := s.datasets.Get(ctx, entities.DatasetInboundReferrals)
	if err != nil || len(referrals) == 0 {
		return nil
	}

	counts := make(map[string]int, len(referrals))
	for i := range referrals {
		counts[referrals[i].FullName]++
	}
	return counts
}

func (s *RecommendationService) trackEvent(ctx context.Context, req RecommendationRequest, result *RecommendationResult, start time.Time) {
	outcome := "matched"
	if result.Reason != "" {
		outcome = result.Reason
	}
	observability.RecordRecommendation(ctx, s.metrics, outcome)

	if s.analytics == nil {
		return
	}

	best := ""
	if len(result.Providers) > 0 {
		best = result.Providers[0].FullName
	}
	s.analytics.TrackSearch(ctx, &entities.SearchEvent{
		RequestID:      result.RequestID,
		Specialties:    strings.Join(req.Specialties, ","),
		Genders:        strings.Join(req.Genders, ","),
		MinCaseload:    req.MinCaseload,
		RadiusMiles:    req.RadiusMiles,
		DistanceWeight: req.Weights.Distance,
		CaseloadWeight: req.Weights.Caseload,
		UserLatitude:   req.Latitude,
		UserLongitude:  req.Longitude,
		ResultCount:    len(result.Providers),
		BestMatch:      best,
		EmptyReason:    result.Reason,
		LatencyMs:      s.now().Sub(start).Milliseconds(),
	})
}

// filterBySpecialty keeps providers whose specialty cell contains any of
// the requested values. An empty request keeps everyone.
func filterBySpecialty(pool []entities.Provider, wanted []string) []entities.Provider {
	wanted = normalizeLower(wanted)
	if len(wanted) == 0 {
		return pool
	}

	out := pool[:0]
	for i := range pool {
		have := splitSpecialties(pool[i].Specialty)
		matched := false
	outer:
		for _, h := range have {
			hl := strings.ToLower(h)
			for _, w := range wanted {
				if hl == w {
					matched = true
					break outer
				}
			}
		}
		if matched {
			out = append(out, pool[i])
		}
	}
	return out
}

// filterByGender keeps providers whose gender matches any requested value
// after title-casing both sides. An empty request keeps everyone.
func filterByGender(pool []entities.Provider, wanted []string) []entities.Provider {
	if len(wanted) == 0 {
		return pool
	}
	want := make(map[string]bool, len(wanted))
	for _, w := range wanted {
		if t := titleCase(w); t != "" {
			want[t] = true
		}
	}
	if len(want) == 0 {
		return pool
	}

	out := pool[:0]
	for i := range pool {
		if want[titleCase(pool[i].Gender)] {
			out = append(out, pool[i])
		}
	}
	return out
}

// dedupeByName keeps the first (best ranked) entry per provider name
func dedupeByName(ranked []entities.RankedProvider) []entities.RankedProvider {
	if len(ranked) == 0 {
		return ranked
	}
	seen := make(map[string]bool, len(ranked))
	out := ranked[:0]
	for _, r := range ranked {
		key := strings.ToLower(r.FullName)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}
	return out
}

func splitSpecialties(cell string) []string {
	if strings.TrimSpace(cell) == "" {
		return nil
	}
	parts := strings.Split(cell, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func normalizeLower(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if t := strings.TrimSpace(v); t != "" {
			out = append(out, strings.ToLower(t))
		}
	}
	return out
}

func titleCase(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return ""
	}
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
