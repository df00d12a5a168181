package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"weatherscope.app/config"
	"weatherscope.app/errors"
	"weatherscope.app/models"
)

// nominatimClient queries the OpenStreetMap Nominatim search API. Nominatim
// is free but requires an identifying User-Agent on every request.
type nominatimClient struct {
	baseURL    string
	userAgent  string
	maxResults int
	client     *http.Client
}

func newNominatimClient(cfg *config.GeocodingConfig) *nominatimClient {
	return &nominatimClient{
		baseURL:    cfg.BaseURL,
		userAgent:  cfg.UserAgent,
		maxResults: cfg.MaxResults,
		client:     &http.Client{Timeout: cfg.Timeout},
	}
}

// nominatimPlace is the wire shape of one search result. Coordinates arrive
// as strings.
type nominatimPlace struct {
	Name        string  `json:"name"`
	DisplayName string  `json:"display_name"`
	Lat         string  `json:"lat"`
	Lon         string  `json:"lon"`
	Importance  float64 `json:"importance"`
	Address     struct {
		City         string `json:"city"`
		Town         string `json:"town"`
		Village      string `json:"village"`
		Municipality string `json:"municipality"`
		State        string `json:"state"`
		Country      string `json:"country"`
		CountryCode  string `json:"country_code"`
	} `json:"address"`
}

// search performs one geocoding request and maps the response into candidate
// records. Transport, HTTP, and decode failures all surface as
// ResolutionUnavailable so the caller can distinguish "could not check" from
// "no such place".
func (c *nominatimClient) search(ctx context.Context, query string) ([]candidate, error) {
	endpoint := fmt.Sprintf("%s/search?q=%s&format=jsonv2&addressdetails=1&limit=%d",
		c.baseURL, url.QueryEscape(query), c.maxResults)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.NewResolutionUnavailableError("build geocoding request", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.NewResolutionUnavailableError("geocoding request failed", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			_ = closeErr
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewResolutionUnavailableError(
			fmt.Sprintf("geocoding service returned status code %d", resp.StatusCode), nil)
	}

	var places []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return nil, errors.NewResolutionUnavailableError("failed to decode geocoding response", err)
	}

	candidates := make([]candidate, 0, len(places))
	for _, place := range places {
		lat, latErr := strconv.ParseFloat(place.Lat, 64)
		lon, lonErr := strconv.ParseFloat(place.Lon, 64)
		if latErr != nil || lonErr != nil {
			// A place without usable coordinates cannot key a weather lookup.
			continue
		}

		name := firstNonEmpty(
			place.Address.City,
			place.Address.Town,
			place.Address.Village,
			place.Address.Municipality,
			place.Name,
		)
		if name == "" {
			continue
		}

		candidates = append(candidates, candidate{
			Location: models.Location{
				Query:   query,
				Name:    name,
				Country: place.Address.Country,
				State:   place.Address.State,
				Lat:     lat,
				Lon:     lon,
			},
			Importance: place.Importance,
		})
	}

	return candidates, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
