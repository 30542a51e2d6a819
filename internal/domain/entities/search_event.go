package entities

import "time"

// SearchEvent records one recommendation request for offline analysis.
// Persisted best-effort; losing an event never fails the request.
type SearchEvent struct {
	ID             string    `json:"id"`
	RequestID      string    `json:"request_id"`
	Specialties    string    `json:"specialties"`
	Genders        string    `json:"genders"`
	MinCaseload    int       `json:"min_caseload"`
	RadiusMiles    float64   `json:"radius_miles"`
	DistanceWeight float64   `json:"distance_weight"`
	CaseloadWeight float64   `json:"caseload_weight"`
	UserLatitude   float64   `json:"user_latitude"`
	UserLongitude  float64   `json:"user_longitude"`
	ResultCount    int       `json:"result_count"`
	BestMatch      string    `json:"best_match"`
	EmptyReason    string    `json:"empty_reason"`
	LatencyMs      int64     `json:"latency_ms"`
	CreatedAt      time.Time `json:"created_at"`
}
