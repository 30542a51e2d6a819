package entities

import "time"

// ReferralDirection tags which side of a referral a record describes
type ReferralDirection string

const (
	ReferralInbound  ReferralDirection = "inbound"
	ReferralOutbound ReferralDirection = "outbound"
	ReferralProvider ReferralDirection = "provider"
)

// Provider is one row of a normalized dataset. Latitude, Longitude, Rating
// and the date fields stay nil when the source value was absent or invalid;
// a nil coordinate means no distance is computable for the row.
type Provider struct {
	FullName      string            `json:"full_name"`
	WorkAddress   string            `json:"work_address,omitempty"`
	WorkPhone     string            `json:"work_phone,omitempty"`
	Latitude      *float64          `json:"latitude,omitempty"`
	Longitude     *float64          `json:"longitude,omitempty"`
	Specialty     string            `json:"specialty,omitempty"`
	Gender        string            `json:"gender,omitempty"`
	ReferralCount int               `json:"referral_count"`
	Rating        *float64          `json:"rating,omitempty"`
	LastVerified  *time.Time        `json:"last_verified,omitempty"`
	ReferralDate  *time.Time        `json:"referral_date,omitempty"`
	ReferralType  ReferralDirection `json:"referral_type,omitempty"`

	// Preferred carries the raw preferred-partner marker exactly as it
	// appears in the source (bool, number, or string). The scoring engine
	// folds it to a binary flag.
	Preferred any `json:"preferred,omitempty"`
}

// HasCoordinates reports whether the provider has a usable location
func (p *Provider) HasCoordinates() bool {
	return p.Latitude != nil && p.Longitude != nil
}

// RankedProvider is a provider annotated with its computed distance and
// weighted score for a single recommendation request.
type RankedProvider struct {
	Provider
	DistanceMiles float64 `json:"distance_miles"`
	Score         float64 `json:"score"`
}
