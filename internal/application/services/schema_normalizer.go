package services

import (
	"strconv"
	"strings"
	"time"

	"github.com/zatekoja/medmatch/internal/domain/entities"
	"github.com/zatekoja/medmatch/pkg/utils"
)

// Canonical column names of a normalized dataset.
const (
	colFullName        = "Full Name"
	colWorkPhone       = "Work Phone"
	colWorkPhoneNumber = "Work Phone Number"
	colWorkAddress     = "Work Address"
	colLatitude        = "Latitude"
	colLongitude       = "Longitude"
	colSpecialty       = "Specialty"
	colReferralCount   = "Referral Count"
	colRating          = "Rating"
	colGender          = "Gender"
	colReferralType    = "referral_type"
	colReferralDate    = "Referral Date"
	colLastVerified    = "Last Verified Date"
	colPersonID        = "Person ID"
	colPreferred       = "Preferred"
)

// dateSentinel rejects corrupt date input: anything earlier is treated as
// a placeholder and nulled out.
var dateSentinel = time.Date(1990, time.January, 1, 0, 0, 0, 0, time.UTC)

// recognized date-like raw columns, in adoption order for Referral Date
var rawDateColumns = []string{"Create Date", "Date of Intake", "Sign Up Date"}

// markerColumns detect an already-normalized table (>= 4 present). Prevents
// double transformation when one dataset variant is requested after another
// already normalized the same underlying rows.
var markerColumns = []string{colFullName, colWorkAddress, colWorkPhone, colLatitude, colLongitude, colReferralType}

// SchemaNormalizer maps heterogeneous raw source columns onto the canonical
// provider schema and applies dataset-specific post-processing.
type SchemaNormalizer struct{}

// NewSchemaNormalizer creates a new schema normalizer
func NewSchemaNormalizer() *SchemaNormalizer {
	return &SchemaNormalizer{}
}

// Normalize converts a raw table into the canonical schema for the given
// logical dataset. Absent raw columns degrade gracefully: the canonical
// field is simply left unset. Re-running on normalized input is a no-op
// apart from the roster aggregation, which is always applied.
func (n *SchemaNormalizer) Normalize(t *entities.Table, ds entities.Dataset) *entities.Table {
	if t == nil {
		return entities.NewTable(nil)
	}

	if n.IsNormalized(t) {
		if ds == entities.DatasetProviderRoster {
			return n.aggregateRoster(t.Clone())
		}
		return t
	}

	out := t.Clone()
	n.applyBaseSchema(out)

	switch ds {
	case entities.DatasetOutboundReferrals:
		n.remapDirection(out, outboundColumnMap, entities.ReferralOutbound)
	case entities.DatasetInboundReferrals:
		n.remapDirection(out, inboundColumnMap, entities.ReferralInbound)
	case entities.DatasetAllReferrals:
		out = n.synthesizeAllReferrals(out)
	case entities.DatasetProviderRoster:
		out = n.aggregateRoster(out)
	}

	return out
}

// IsNormalized reports whether the table already carries the canonical schema
func (n *SchemaNormalizer) IsNormalized(t *entities.Table) bool {
	found := 0
	for _, c := range markerColumns {
		if t.HasColumn(c) {
			found++
		}
	}
	return found >= 4
}

// rawColumnMap renames the combined-contacts raw columns to canonical names
var rawColumnMap = map[string]string{
	"Telephone Number": colWorkPhone,
	"Full Address":     colWorkAddress,
	"latitude":         colLatitude,
	"longitude":        colLongitude,
	"pri_spec":         colSpecialty,
	"patient_count":    colReferralCount,
	"star_value":       colRating,
	"gndr":             colGender,
}

var outboundColumnMap = map[string]string{
	"Referred To Full Name":                    colFullName,
	"Referred To's Work Phone":                 colWorkPhone,
	"Referred To's Work Address":               colWorkAddress,
	"Referred To's Details: Latitude":          colLatitude,
	"Referred To's Details: Longitude":         colLongitude,
	"Referred To's Details: Last Verified Date": colLastVerified,
}

var inboundColumnMap = map[string]string{
	"Referred From Full Name":                    colFullName,
	"Referred From's Work Phone":                 colWorkPhone,
	"Referred From's Work Address":               colWorkAddress,
	"Referred From's Details: Latitude":          colLatitude,
	"Referred From's Details: Longitude":         colLongitude,
	"Referred From's Details: Last Verified Date": colLastVerified,
}

func (n *SchemaNormalizer) applyBaseSchema(t *entities.Table) {
	n.deriveFullName(t)

	for raw, canonical := range rawColumnMap {
		if t.HasColumn(raw) {
			t.CopyColumn(raw, canonical)
		}
	}

	// Alias kept because downstream consumers historically read either name
	if t.HasColumn(colWorkPhone) && !t.HasColumn(colWorkPhoneNumber) {
		t.CopyColumn(colWorkPhone, colWorkPhoneNumber)
	}

	if t.NumRows() > 0 {
		t.AddColumn(colReferralType)
		for r := 0; r < t.NumRows(); r++ {
			t.SetValue(r, colReferralType, string(entities.ReferralProvider))
		}
	}

	n.coerceNumerics(t)
	n.standardizeDates(t)
}

// deriveFullName joins trimmed first/last name parts with a single space;
// empty parts contribute nothing.
func (n *SchemaNormalizer) deriveFullName(t *entities.Table) {
	const first, last = "Provider First Name", "Provider Last Name"
	if !t.HasColumn(first) && !t.HasColumn(last) {
		return
	}
	for r := 0; r < t.NumRows(); r++ {
		parts := make([]string, 0, 2)
		if s := strings.TrimSpace(toString(t.Value(r, first))); s != "" {
			parts = append(parts, s)
		}
		if s := strings.TrimSpace(toString(t.Value(r, last))); s != "" {
			parts = append(parts, s)
		}
		t.SetValue(r, colFullName, strings.Join(parts, " "))
	}
}

// coerceNumerics types the canonical numeric columns. Invalid coordinates
// become nil so no distance is computable for the row; invalid or missing
// caseload counts become zero and are never negative.
func (n *SchemaNormalizer) coerceNumerics(t *entities.Table) {
	if t.HasColumn(colLatitude) {
		for r := 0; r < t.NumRows(); r++ {
			t.SetValue(r, colLatitude, boundedFloat(t.Value(r, colLatitude), -90, 90))
		}
	}
	if t.HasColumn(colLongitude) {
		for r := 0; r < t.NumRows(); r++ {
			t.SetValue(r, colLongitude, boundedFloat(t.Value(r, colLongitude), -180, 180))
		}
	}
	if t.HasColumn(colReferralCount) {
		for r := 0; r < t.NumRows(); r++ {
			count := 0
			if f := toFloat(t.Value(r, colReferralCount)); f != nil && *f > 0 {
				count = int(*f)
			}
			t.SetValue(r, colReferralCount, int64(count))
		}
	}
	if t.HasColumn(colRating) {
		for r := 0; r < t.NumRows(); r++ {
			if f := toFloat(t.Value(r, colRating)); f != nil {
				t.SetValue(r, colRating, *f)
			} else {
				t.SetValue(r, colRating, nil)
			}
		}
	}
}

// standardizeDates coerces every recognized date column to time.Time, nulls
// values before the 1990 sentinel, and adopts the first populated raw date
// column as Referral Date when no canonical one exists yet.
func (n *SchemaNormalizer) standardizeDates(t *entities.Table) {
	coerce := func(col string) int {
		populatedCount := 0
		for r := 0; r < t.NumRows(); r++ {
			ts := toTime(t.Value(r, col))
			if ts != nil && ts.Before(dateSentinel) {
				ts = nil
			}
			if ts != nil {
				t.SetValue(r, col, *ts)
				populatedCount++
			} else {
				t.SetValue(r, col, nil)
			}
		}
		return populatedCount
	}

	populatedByCol := make(map[string]int, len(rawDateColumns))
	for _, col := range rawDateColumns {
		if t.HasColumn(col) {
			populatedByCol[col] = coerce(col)
		}
	}
	if t.HasColumn(colLastVerified) {
		coerce(colLastVerified)
	}

	if !t.HasColumn(colReferralDate) {
		for _, col := range rawDateColumns {
			if populatedByCol[col] > 0 {
				t.CopyColumn(col, colReferralDate)
				break
			}
		}
	}
}

// remapDirection rewrites the referred-to/referred-from column family onto
// the canonical person fields and tags the referral direction.
func (n *SchemaNormalizer) remapDirection(t *entities.Table, columnMap map[string]string, dir entities.ReferralDirection) {
	for raw, canonical := range columnMap {
		if t.HasColumn(raw) {
			t.CopyColumn(raw, canonical)
		}
	}
	t.AddColumn(colReferralType)
	for r := 0; r < t.NumRows(); r++ {
		t.SetValue(r, colReferralType, string(dir))
	}
	n.coerceNumerics(t)
	n.standardizeDates(t)
}

// synthesizeAllReferrals emits up to two rows per source row, one per
// referral party whose name field is populated. Built as two independent
// projections concatenated, not a row-by-row accumulation.
func (n *SchemaNormalizer) synthesizeAllReferrals(t *entities.Table) *entities.Table {
	outbound := t.Filter(func(r int) bool {
		return populated(t.Value(r, "Referred To Full Name"))
	})
	n.remapDirection(outbound, outboundColumnMap, entities.ReferralOutbound)

	inbound := t.Filter(func(r int) bool {
		return populated(t.Value(r, "Referred From Full Name"))
	})
	n.remapDirection(inbound, inboundColumnMap, entities.ReferralInbound)

	return concatTables(outbound, inbound)
}

// aggregateRoster reduces the table to one row per unique provider name.
// When a populated count column already exists the row with the highest
// count wins; otherwise rows are grouped by name, counted, and the first
// non-nil contact/coordinate/specialty value per group is kept.
func (n *SchemaNormalizer) aggregateRoster(t *entities.Table) *entities.Table {
	if !t.HasColumn(colFullName) || t.NumRows() == 0 {
		return t
	}

	if t.HasColumn(colReferralCount) {
		best := make(map[string]int)
		for r := 0; r < t.NumRows(); r++ {
			name := strings.TrimSpace(toString(t.Value(r, colFullName)))
			prev, seen := best[name]
			if !seen {
				best[name] = r
				continue
			}
			if countAt(t, r) > countAt(t, prev) {
				best[name] = r
			}
		}
		keep := make(map[int]bool, len(best))
		for _, r := range best {
			keep[r] = true
		}
		return t.Filter(func(r int) bool { return keep[r] })
	}

	return n.groupByName(t)
}

// groupByName is the fallback aggregation for datasets without a count
// column: occurrences (or distinct identifier values) per name become the
// referral count.
func (n *SchemaNormalizer) groupByName(t *entities.Table) *entities.Table {
	firstCols := []string{colWorkAddress, colWorkPhone, colLatitude, colLongitude, colSpecialty}
	hasPersonID := t.HasColumn(colPersonID)

	type group struct {
		count  int64
		values map[string]any
	}
	order := make([]string, 0)
	groups := make(map[string]*group)

	for r := 0; r < t.NumRows(); r++ {
		name := strings.TrimSpace(toString(t.Value(r, colFullName)))
		g, ok := groups[name]
		if !ok {
			g = &group{values: make(map[string]any)}
			groups[name] = g
			order = append(order, name)
		}
		if hasPersonID {
			if t.Value(r, colPersonID) != nil {
				g.count++
			}
		} else {
			g.count++
		}
		for _, col := range firstCols {
			if _, have := g.values[col]; !have && t.Value(r, col) != nil {
				g.values[col] = t.Value(r, col)
			}
		}
	}

	cols := append([]string{colFullName, colReferralCount}, firstCols...)
	out := entities.NewTable(cols)
	for _, name := range order {
		g := groups[name]
		row := map[string]any{colFullName: name, colReferralCount: g.count}
		for col, v := range g.values {
			row[col] = v
		}
		out.AppendRow(row)
	}
	return out
}

// ToProviders converts a normalized table into typed provider records
func (n *SchemaNormalizer) ToProviders(t *entities.Table) []entities.Provider {
	if t == nil {
		return nil
	}
	out := make([]entities.Provider, 0, t.NumRows())
	for r := 0; r < t.NumRows(); r++ {
		p := entities.Provider{
			FullName:    strings.TrimSpace(toString(t.Value(r, colFullName))),
			WorkAddress: cleanText(toString(t.Value(r, colWorkAddress))),
			Specialty:   cleanText(toString(t.Value(r, colSpecialty))),
			Gender:      cleanText(toString(t.Value(r, colGender))),
		}

		phone := toString(t.Value(r, colWorkPhoneNumber))
		if phone == "" {
			phone = toString(t.Value(r, colWorkPhone))
		}
		p.WorkPhone = utils.FormatPhoneNumber(phone)

		p.Latitude = toFloat(t.Value(r, colLatitude))
		p.Longitude = toFloat(t.Value(r, colLongitude))
		if f := toFloat(t.Value(r, colReferralCount)); f != nil && *f > 0 {
			p.ReferralCount = int(*f)
		}
		p.Rating = toFloat(t.Value(r, colRating))
		p.LastVerified = toTime(t.Value(r, colLastVerified))
		p.ReferralDate = toTime(t.Value(r, colReferralDate))
		if rt := toString(t.Value(r, colReferralType)); rt != "" {
			p.ReferralType = entities.ReferralDirection(rt)
		}
		if t.HasColumn(colPreferred) {
			p.Preferred = t.Value(r, colPreferred)
		}

		out = append(out, p)
	}
	return out
}

func countAt(t *entities.Table, r int) int64 {
	if f := toFloat(t.Value(r, colReferralCount)); f != nil {
		return int64(*f)
	}
	return 0
}

func concatTables(a, b *entities.Table) *entities.Table {
	cols := a.Columns()
	seen := make(map[string]bool, len(cols))
	for _, c := range cols {
		seen[c] = true
	}
	for _, c := range b.Columns() {
		if !seen[c] {
			cols = append(cols, c)
		}
	}

	out := entities.NewTable(cols)
	appendAll := func(t *entities.Table) {
		tCols := t.Columns()
		for r := 0; r < t.NumRows(); r++ {
			row := make(map[string]any, len(tCols))
			for _, c := range tCols {
				if v := t.Value(r, c); v != nil {
					row[c] = v
				}
			}
			out.AppendRow(row)
		}
	}
	appendAll(a)
	appendAll(b)
	return out
}

// ---- cell coercion helpers ----

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
}

func toString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	default:
		return ""
	}
}

func toFloat(v any) *float64 {
	switch x := v.(type) {
	case float64:
		f := x
		return &f
	case int64:
		f := float64(x)
		return &f
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(x), 64); err == nil {
			return &f
		}
	}
	return nil
}

func toTime(v any) *time.Time {
	switch x := v.(type) {
	case time.Time:
		t := x
		return &t
	case *time.Time:
		return x
	case string:
		s := strings.TrimSpace(x)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return &t
			}
		}
	}
	return nil
}

func boundedFloat(v any, min, max float64) any {
	f := toFloat(v)
	if f == nil || *f < min || *f > max {
		return nil
	}
	return *f
}

func populated(v any) bool {
	if v == nil {
		return false
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) != ""
	}
	return true
}

// cleanText clears pandas-era null spellings that survive in legacy exports
func cleanText(s string) string {
	switch strings.TrimSpace(s) {
	case "nan", "None", "NaN":
		return ""
	}
	return strings.TrimSpace(s)
}
