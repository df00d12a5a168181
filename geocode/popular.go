package geocode

import "weatherscope.app/models"

// popularCities is a short list of well-known places answered without a
// network call when the normalized query matches exactly. Entries feed the
// same ranking, dedupe, and caching path as live results.
var popularCities = map[string]candidate{
	"london":    {Location: models.Location{Name: "London", Country: "United Kingdom", Lat: 51.5074, Lon: -0.1278}, Importance: 0.95},
	"new york":  {Location: models.Location{Name: "New York", Country: "United States", State: "New York", Lat: 40.7128, Lon: -74.0060}, Importance: 0.95},
	"tokyo":     {Location: models.Location{Name: "Tokyo", Country: "Japan", Lat: 35.6762, Lon: 139.6503}, Importance: 0.95},
	"paris":     {Location: models.Location{Name: "Paris", Country: "France", Lat: 48.8566, Lon: 2.3522}, Importance: 0.95},
	"dubai":     {Location: models.Location{Name: "Dubai", Country: "United Arab Emirates", Lat: 25.2048, Lon: 55.2708}, Importance: 0.95},
	"riyadh":    {Location: models.Location{Name: "Riyadh", Country: "Saudi Arabia", Lat: 24.7136, Lon: 46.6753}, Importance: 0.95},
	"singapore": {Location: models.Location{Name: "Singapore", Country: "Singapore", Lat: 1.3521, Lon: 103.8198}, Importance: 0.95},
	"sydney":    {Location: models.Location{Name: "Sydney", Country: "Australia", State: "New South Wales", Lat: -33.8688, Lon: 151.2093}, Importance: 0.95},
	"berlin":    {Location: models.Location{Name: "Berlin", Country: "Germany", Lat: 52.5200, Lon: 13.4050}, Importance: 0.95},
	"toronto":   {Location: models.Location{Name: "Toronto", Country: "Canada", State: "Ontario", Lat: 43.6532, Lon: -79.3832}, Importance: 0.95},
}

// lookupPopular returns the shortlist entry for an exactly-matching
// normalized query, stamped with the caller's query text.
func lookupPopular(normalized string) ([]candidate, bool) {
	entry, ok := popularCities[normalized]
	if !ok {
		return nil, false
	}
	entry.Location.Query = normalized
	return []candidate{entry}, true
}
