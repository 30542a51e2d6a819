package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zatekoja/medmatch/internal/domain/entities"
)

func candidate(name string, distance float64, caseload int) Candidate {
	return Candidate{
		Provider: entities.Provider{FullName: name, ReferralCount: caseload},
		Distance: ptr(distance),
	}
}

func TestRankScoresStayWithinBounds(t *testing.T) {
	scoring := NewScoringService()
	candidates := []Candidate{
		candidate("Dr. A", 1, 10),
		candidate("Dr. B", 8, 45),
		candidate("Dr. C", 22, 3),
	}

	ranked := scoring.Rank(candidates, Weights{Distance: 0.5, Caseload: 0.5}, 0)
	assert.Len(t, ranked, 3)
	for _, r := range ranked {
		assert.GreaterOrEqual(t, r.Score, 0.0)
		assert.LessOrEqual(t, r.Score, 1.0)
	}
}

func TestRankDistanceOnlyOrdersNearestFirst(t *testing.T) {
	scoring := NewScoringService()
	candidates := []Candidate{
		candidate("Dr. Far", 30, 10),
		candidate("Dr. Near", 2, 10),
		candidate("Dr. Mid", 12, 10),
	}

	ranked := scoring.Rank(candidates, Weights{Distance: 1}, 0)
	assert.Equal(t, "Dr. Near", ranked[0].FullName)
	assert.Equal(t, "Dr. Mid", ranked[1].FullName)
	assert.Equal(t, "Dr. Far", ranked[2].FullName)
}

func TestRankThreeWayTieBreaksAlphabetically(t *testing.T) {
	scoring := NewScoringService()
	// Identical signals all the way down, only the name differs
	candidates := []Candidate{
		candidate("Dr. Young", 5, 10),
		candidate("Dr. Adams", 5, 10),
		candidate("Dr. Miller", 5, 10),
	}

	ranked := scoring.Rank(candidates, Weights{Distance: 0.6, Caseload: 0.4}, 0)
	assert.Equal(t, "Dr. Adams", ranked[0].FullName)
	assert.Equal(t, "Dr. Miller", ranked[1].FullName)
	assert.Equal(t, "Dr. Young", ranked[2].FullName)
}

func TestRankZeroRangePoolScoresZero(t *testing.T) {
	scoring := NewScoringService()
	candidates := []Candidate{
		candidate("Dr. A", 5, 10),
		candidate("Dr. B", 5, 10),
	}

	ranked := scoring.Rank(candidates, Weights{Distance: 0.6, Caseload: 0.4}, 0)
	for _, r := range ranked {
		assert.Equal(t, 0.0, r.Score)
	}
}

func TestRankMinCaseloadCutoff(t *testing.T) {
	scoring := NewScoringService()
	candidates := []Candidate{
		candidate("Dr. Busy", 5, 40),
		candidate("Dr. Quiet", 2, 3),
	}

	ranked := scoring.Rank(candidates, Weights{Distance: 0.6, Caseload: 0.4}, 10)
	assert.Len(t, ranked, 1)
	assert.Equal(t, "Dr. Busy", ranked[0].FullName)
}

func TestRankEmptyWhenNothingSurvives(t *testing.T) {
	scoring := NewScoringService()
	candidates := []Candidate{candidate("Dr. Quiet", 2, 3)}

	ranked := scoring.Rank(candidates, Weights{Distance: 1}, 10)
	assert.Nil(t, ranked)
}

func TestRankCaseloadHeavyWeights(t *testing.T) {
	scoring := NewScoringService()
	// Distances rise with caseload so the two signals pull in opposite
	// directions; with caseload at 0.7 the busiest provider must win.
	candidates := []Candidate{
		candidate("Dr. A", 1, 10),
		candidate("Dr. B", 2, 20),
		candidate("Dr. C", 3, 30),
		candidate("Dr. D", 4, 40),
		candidate("Dr. E", 5, 50),
	}

	ranked := scoring.Rank(candidates, Weights{Distance: 0.3, Caseload: 0.7}, 0)
	assert.Len(t, ranked, 5)
	assert.Equal(t, "Dr. E", ranked[0].FullName)
	assert.InDelta(t, 0.7, ranked[0].Score, 1e-9)
	assert.Equal(t, "Dr. D", ranked[1].FullName)
	assert.InDelta(t, 0.6, ranked[1].Score, 1e-9)
	assert.Equal(t, "Dr. A", ranked[4].FullName)
	assert.InDelta(t, 0.3, ranked[4].Score, 1e-9)
}

func TestRankEqualWeightTieBreaksOnCaseload(t *testing.T) {
	scoring := NewScoringService()
	// Each candidate leads on exactly one signal, so both land on the
	// same composite score; with neither weight dominating, the busier
	// provider ranks first.
	candidates := []Candidate{
		candidate("Dr. Near", 1, 10),
		candidate("Dr. Busy", 2, 20),
	}

	ranked := scoring.Rank(candidates, Weights{Distance: 0.5, Caseload: 0.5}, 0)
	assert.Equal(t, ranked[0].Score, ranked[1].Score)
	assert.Equal(t, "Dr. Busy", ranked[0].FullName)
	assert.Equal(t, "Dr. Near", ranked[1].FullName)
}

func TestSortScoredOrdersHeavierSignalFirst(t *testing.T) {
	scoring := NewScoringService()
	tied := func() []scoredCandidate {
		return []scoredCandidate{
			{RankedProvider: entities.RankedProvider{
				Provider:      entities.Provider{FullName: "Dr. Busy", ReferralCount: 20},
				DistanceMiles: 4,
				Score:         0.5,
			}},
			{RankedProvider: entities.RankedProvider{
				Provider:      entities.Provider{FullName: "Dr. Near", ReferralCount: 10},
				DistanceMiles: 2,
				Score:         0.5,
			}},
		}
	}

	distanceHeavy := tied()
	scoring.sortScored(distanceHeavy, Weights{Distance: 0.6, Caseload: 0.4}, false)
	assert.Equal(t, "Dr. Near", distanceHeavy[0].FullName)

	caseloadHeavy := tied()
	scoring.sortScored(caseloadHeavy, Weights{Distance: 0.4, Caseload: 0.6}, false)
	assert.Equal(t, "Dr. Busy", caseloadHeavy[0].FullName)

	equalWeights := tied()
	scoring.sortScored(equalWeights, Weights{Distance: 0.5, Caseload: 0.5}, false)
	assert.Equal(t, "Dr. Busy", equalWeights[0].FullName)
}

func TestRankInboundParticipates(t *testing.T) {
	scoring := NewScoringService()
	in5, in0 := 5, 0
	candidates := []Candidate{
		{Provider: entities.Provider{FullName: "Dr. Giver", ReferralCount: 10}, Distance: ptr(5.0), Inbound: &in0},
		{Provider: entities.Provider{FullName: "Dr. Reciprocal", ReferralCount: 10}, Distance: ptr(5.0), Inbound: &in5},
	}

	ranked := scoring.Rank(candidates, Weights{Distance: 0.5, Caseload: 0.3, Inbound: 0.2}, 0)
	assert.Equal(t, "Dr. Reciprocal", ranked[0].FullName)
	assert.Greater(t, ranked[0].Score, ranked[1].Score)
}

func TestRankPreferredBonus(t *testing.T) {
	scoring := NewScoringService()
	candidates := []Candidate{
		{Provider: entities.Provider{FullName: "Dr. Plain", ReferralCount: 10}, Distance: ptr(5.0)},
		{Provider: entities.Provider{FullName: "Dr. Preferred", ReferralCount: 10, Preferred: "yes"}, Distance: ptr(5.0)},
	}

	ranked := scoring.Rank(candidates, Weights{Distance: 0.8, Preferred: 0.2}, 0)
	assert.Equal(t, "Dr. Preferred", ranked[0].FullName)
}

func TestRankAllPreferredContributesNothing(t *testing.T) {
	scoring := NewScoringService()
	// When every candidate carries the flag the criterion has zero range
	// and must not inflate any score.
	candidates := []Candidate{
		{Provider: entities.Provider{FullName: "Dr. A", ReferralCount: 10, Preferred: true}, Distance: ptr(5.0)},
		{Provider: entities.Provider{FullName: "Dr. B", ReferralCount: 10, Preferred: "yes"}, Distance: ptr(5.0)},
	}

	ranked := scoring.Rank(candidates, Weights{Distance: 0.8, Preferred: 0.2}, 0)
	for _, r := range ranked {
		assert.Equal(t, 0.0, r.Score)
	}
}

func TestParseTruthy(t *testing.T) {
	truthy := []any{true, 1, int64(2), 3.5, "yes", "Y", "TRUE", "t", "1", " Yes "}
	falsy := []any{nil, false, 0, int64(0), 0.0, "", "no", "n", "false", "0", "2", "maybe"}

	for _, v := range truthy {
		t.Run(fmt.Sprintf("truthy_%v", v), func(t *testing.T) {
			assert.True(t, ParseTruthy(v))
		})
	}
	for _, v := range falsy {
		t.Run(fmt.Sprintf("falsy_%v", v), func(t *testing.T) {
			assert.False(t, ParseTruthy(v))
		})
	}
}
