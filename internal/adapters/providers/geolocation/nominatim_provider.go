package geolocation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/zatekoja/medmatch/internal/domain/providers"
)

const (
	nominatimSearchURL = "https://nominatim.openstreetmap.org/search"

	// Geocoding results are effectively immutable, cache for 30 days
	geocodeCacheTTL = 60 * 60 * 24 * 30

	defaultHTTPTimeout = 8 * time.Second

	// Nominatim's usage policy requires an identifying User-Agent
	defaultUserAgent = "medmatch/1.0"
)

// NominatimProvider resolves free-form addresses to coordinates through the
// OpenStreetMap Nominatim API, with an optional byte-cache in front so
// repeated lookups of the same address never leave the process twice.
type NominatimProvider struct {
	httpClient *http.Client
	cache      providers.CacheProvider
	baseURL    string
	userAgent  string
}

// NewNominatimProvider creates a new Nominatim geolocation provider
func NewNominatimProvider(cache providers.CacheProvider) providers.GeolocationProvider {
	return NewNominatimProviderWithOptions(cache, nominatimSearchURL, "", nil)
}

// NewNominatimProviderWithOptions allows overriding the base URL, the
// User-Agent header, and the HTTP client. Blank values fall back to the
// defaults.
func NewNominatimProviderWithOptions(cache providers.CacheProvider, baseURL, userAgent string, httpClient *http.Client) providers.GeolocationProvider {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = nominatimSearchURL
	}
	if strings.TrimSpace(userAgent) == "" {
		userAgent = defaultUserAgent
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &NominatimProvider{
		httpClient: httpClient,
		cache:      cache,
		baseURL:    baseURL,
		userAgent:  userAgent,
	}
}

// Geocode converts an address to coordinates
func (p *NominatimProvider) Geocode(ctx context.Context, address string) (*providers.Coordinates, error) {
	trimmed := strings.TrimSpace(address)
	if trimmed == "" {
		return nil, fmt.Errorf("address is required")
	}

	cacheKey := "geo:v1:geocode:" + hashKey(strings.ToLower(trimmed))
	if p.cache != nil {
		if cached, err := p.cache.Get(ctx, cacheKey); err == nil && len(cached) > 0 {
			var coords providers.Coordinates
			if err := json.Unmarshal(cached, &coords); err == nil && (coords.Latitude != 0 || coords.Longitude != 0) {
				return &coords, nil
			}
		}
	}

	coords, err := p.doSearch(ctx, trimmed)
	if err != nil {
		return nil, err
	}

	if p.cache != nil {
		if payload, err := json.Marshal(coords); err == nil {
			_ = p.cache.Set(ctx, cacheKey, payload, geocodeCacheTTL)
		}
	}
	return coords, nil
}

func (p *NominatimProvider) doSearch(ctx context.Context, query string) (*providers.Coordinates, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "1")

	reqURL := fmt.Sprintf("%s?%s", p.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build geocode request: %w", err)
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("geocode request returned status %d", resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("failed to decode geocode response: %w", err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("no results for address")
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude in geocode response: %w", err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude in geocode response: %w", err)
	}

	return &providers.Coordinates{Latitude: lat, Longitude: lon}, nil
}

func hashKey(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}
