package services

import (
	"math"

	"github.com/zatekoja/medmatch/internal/domain/entities"
)

// earthRadiusMiles is the mean Earth radius used for great-circle distances
const earthRadiusMiles = 3958.8

// Distances computes the great-circle distance in miles from the query
// point to every candidate in one pass. Candidates without valid
// coordinates get a nil distance, which radius filters exclude downstream.
// Pure and stateless over the whole pool.
func Distances(lat, lon float64, providers []entities.Provider) []*float64 {
	latRad := degToRad(lat)
	lonRad := degToRad(lon)
	cosLat := math.Cos(latRad)

	out := make([]*float64, len(providers))
	for i := range providers {
		p := &providers[i]
		if !p.HasCoordinates() {
			continue
		}
		pLat := degToRad(*p.Latitude)
		pLon := degToRad(*p.Longitude)

		dLat := pLat - latRad
		dLon := pLon - lonRad
		a := math.Sin(dLat/2)*math.Sin(dLat/2) +
			cosLat*math.Cos(pLat)*math.Sin(dLon/2)*math.Sin(dLon/2)
		d := 2 * earthRadiusMiles * math.Asin(math.Sqrt(a))
		out[i] = &d
	}
	return out
}

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180.0
}
