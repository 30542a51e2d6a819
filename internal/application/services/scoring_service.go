package services

import (
	"sort"
	"strings"

	"github.com/zatekoja/medmatch/internal/domain/entities"
)

// Weights holds the relative importance of each ranking signal. Signals
// with a zero weight still participate in tie-breaking order decisions but
// contribute nothing to the composite score.
type Weights struct {
	Distance  float64
	Caseload  float64
	Inbound   float64
	Preferred float64
}

// DefaultWeights mirrors the product default of favoring proximity
// slightly over historical volume.
func DefaultWeights() Weights {
	return Weights{Distance: 0.6, Caseload: 0.4}
}

// Candidate pairs a provider with its per-request signals. Distance is nil
// when the provider has no usable coordinates; Inbound is nil when the
// inbound signal does not participate in this request.
type Candidate struct {
	Provider entities.Provider
	Distance *float64
	Inbound  *int
}

// ScoringService ranks a candidate pool with pool-local min-max
// normalization and a weighted sum. Scores are comparable only within a
// single call; they are recomputed from scratch for every pool.
type ScoringService struct{}

// NewScoringService creates a new scoring service
func NewScoringService() *ScoringService {
	return &ScoringService{}
}

// Rank filters the pool by minimum caseload, scores the survivors and
// returns them best first. Returns nil when nothing survives the filter.
func (s *ScoringService) Rank(candidates []Candidate, weights Weights, minCaseload int) []entities.RankedProvider {
	pool := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Provider.ReferralCount < minCaseload {
			continue
		}
		pool = append(pool, c)
	}
	if len(pool) == 0 {
		return nil
	}

	distScore := normalizeDistances(pool)
	loadScore := normalizeCaseloads(pool)
	inScore := normalizeInbound(pool)
	prefScore := normalizePreferred(pool)

	scored := make([]scoredCandidate, len(pool))
	for i, c := range pool {
		score := weights.Distance*distScore[i] +
			weights.Caseload*loadScore[i] +
			weights.Preferred*prefScore[i]
		if inScore != nil {
			score += weights.Inbound * inScore[i]
		}

		dist := 0.0
		if c.Distance != nil {
			dist = *c.Distance
		}
		inbound := 0
		if c.Inbound != nil {
			inbound = *c.Inbound
		}
		scored[i] = scoredCandidate{
			RankedProvider: entities.RankedProvider{
				Provider:      c.Provider,
				DistanceMiles: dist,
				Score:         score,
			},
			inbound: inbound,
		}
	}

	s.sortScored(scored, weights, inScore != nil)

	ranked := make([]entities.RankedProvider, len(scored))
	for i := range scored {
		ranked[i] = scored[i].RankedProvider
	}
	return ranked
}

// scoredCandidate keeps the inbound signal next to the ranked record so
// the tie chain can consult it while sorting.
type scoredCandidate struct {
	entities.RankedProvider
	inbound int
}

// sortScored orders best-first with a fully deterministic tie chain:
// score, then the distance/caseload pair with the heavier-weighted signal
// first, then inbound volume when it participates, then name.
func (s *ScoringService) sortScored(scored []scoredCandidate, weights Weights, hasInbound bool) {
	sort.SliceStable(scored, func(i, j int) bool {
		a, b := &scored[i], &scored[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}

		byDistance := func() (bool, bool) {
			if a.DistanceMiles != b.DistanceMiles {
				return true, a.DistanceMiles < b.DistanceMiles
			}
			return false, false
		}
		byCaseload := func() (bool, bool) {
			if a.ReferralCount != b.ReferralCount {
				return true, a.ReferralCount > b.ReferralCount
			}
			return false, false
		}

		// Distance leads only when it strictly outweighs caseload; an
		// equal-weight tie falls to caseload first.
		first, second := byCaseload, byDistance
		if weights.Distance > weights.Caseload {
			first, second = byDistance, byCaseload
		}
		if decided, less := first(); decided {
			return less
		}
		if decided, less := second(); decided {
			return less
		}

		if hasInbound && a.inbound != b.inbound {
			return a.inbound > b.inbound
		}

		return a.FullName < b.FullName
	})
}

// normalizeDistances maps distances into [0,1] with nearest=1. Candidates
// without a distance score 0. A pool where every distance is identical
// scores 0 across the board.
func normalizeDistances(pool []Candidate) []float64 {
	min, max, seen := 0.0, 0.0, false
	for _, c := range pool {
		if c.Distance == nil {
			continue
		}
		d := *c.Distance
		if !seen {
			min, max, seen = d, d, true
			continue
		}
		if d < min {
			min = d
		}
		if d > max {
			max = d
		}
	}

	out := make([]float64, len(pool))
	if !seen || max == min {
		return out
	}
	span := max - min
	for i, c := range pool {
		if c.Distance == nil {
			continue
		}
		out[i] = 1 - (*c.Distance-min)/span
	}
	return out
}

// normalizeCaseloads maps referral counts into [0,1] with busiest=1
func normalizeCaseloads(pool []Candidate) []float64 {
	min, max := pool[0].Provider.ReferralCount, pool[0].Provider.ReferralCount
	for _, c := range pool[1:] {
		n := c.Provider.ReferralCount
		if n < min {
			min = n
		}
		if n > max {
			max = n
		}
	}

	out := make([]float64, len(pool))
	if max == min {
		return out
	}
	span := float64(max - min)
	for i, c := range pool {
		out[i] = float64(c.Provider.ReferralCount-min) / span
	}
	return out
}

// normalizePreferred folds the preferred flag to 0/1 and min-max
// normalizes it like every other criterion. A pool where all candidates
// carry the same flag has zero range and contributes nothing.
func normalizePreferred(pool []Candidate) []float64 {
	out := make([]float64, len(pool))
	anyTrue, anyFalse := false, false
	for i, c := range pool {
		if ParseTruthy(c.Provider.Preferred) {
			out[i] = 1
			anyTrue = true
		} else {
			anyFalse = true
		}
	}
	if !anyTrue || !anyFalse {
		return make([]float64, len(pool))
	}
	return out
}

// normalizeInbound returns nil when no candidate carries an inbound count
func normalizeInbound(pool []Candidate) []float64 {
	min, max, seen := 0, 0, false
	for _, c := range pool {
		if c.Inbound == nil {
			continue
		}
		n := *c.Inbound
		if !seen {
			min, max, seen = n, n, true
			continue
		}
		if n < min {
			min = n
		}
		if n > max {
			max = n
		}
	}
	if !seen {
		return nil
	}

	out := make([]float64, len(pool))
	if max == min {
		return out
	}
	span := float64(max - min)
	for i, c := range pool {
		if c.Inbound == nil {
			continue
		}
		out[i] = float64(*c.Inbound-min) / span
	}
	return out
}

// ParseTruthy interprets loosely typed flag cells. True for booleans that
// are true, non-zero numbers, and the strings yes/y/true/t/1 in any case.
// Everything else, including nil, is false.
func ParseTruthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case int:
		return t != 0
	case int32:
		return t != 0
	case int64:
		return t != 0
	case float32:
		return t != 0
	case float64:
		return t != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "yes", "y", "true", "t", "1":
			return true
		}
		return false
	default:
		return false
	}
}
