// Package geocode resolves free-text place names into unambiguous locations.
// A name like "Birmingham" legitimately maps to several places; the resolver
// ranks and deduplicates the candidates instead of guessing one.
package geocode

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"weatherscope.app/cache"
	"weatherscope.app/config"
	"weatherscope.app/errors"
	"weatherscope.app/models"
	"weatherscope.app/ratelimit"
)

// Bucket is the rate-limiting scope shared by all Nominatim calls.
const Bucket = "nominatim"

// candidate pairs a location with the provider-given relevance score used
// for ranking.
type candidate struct {
	Location   models.Location
	Importance float64
}

// Resolver turns a raw query into a ranked, deduplicated list of locations,
// backed by a long-TTL cache and a one-request-per-second rate limit.
type Resolver struct {
	client  *nominatimClient
	cache   cache.Cache
	limiter *ratelimit.Limiter
	ttl     time.Duration
}

// NewResolver wires the resolver against shared cache and limiter instances;
// both are owned by the caller and may serve other components.
func NewResolver(cfg *config.GeocodingConfig, store cache.Cache, limiter *ratelimit.Limiter) *Resolver {
	limiter.Configure(Bucket, cfg.MinInterval)

	return &Resolver{
		client:  newNominatimClient(cfg),
		cache:   store,
		limiter: limiter,
		ttl:     cfg.CacheTTL,
	}
}

// Resolve returns candidate locations for query, best match first. An empty
// slice means the query matched nothing; errors mean the question could not
// be answered at all.
func (r *Resolver) Resolve(ctx context.Context, query string) ([]models.Location, error) {
	normalized := Normalize(query)
	if normalized == "" {
		return nil, errors.NewInvalidInputError("query cannot be empty")
	}

	cacheKey := fmt.Sprintf("geocode:%s", normalized)

	var cached []models.Location
	if cache.GetJSON(ctx, r.cache, cacheKey, &cached) {
		slog.Debug("geocode cache hit", "query", normalized)
		return cached, nil
	}

	candidates, err := r.fetchCandidates(ctx, normalized)
	if err != nil {
		return nil, err
	}

	locations := dedupe(rank(candidates, normalized))

	cache.SetJSON(ctx, r.cache, cacheKey, locations, r.ttl)
	slog.Debug("geocode resolved", "query", normalized, "candidates", len(locations))

	return locations, nil
}

func (r *Resolver) fetchCandidates(ctx context.Context, normalized string) ([]candidate, error) {
	if shortlist, ok := lookupPopular(normalized); ok {
		slog.Debug("geocode popular shortlist hit", "query", normalized)
		return shortlist, nil
	}

	if err := r.limiter.Acquire(ctx, Bucket); err != nil {
		return nil, errors.NewResolutionUnavailableError("rate limit wait interrupted", err)
	}

	return r.client.search(ctx, normalized)
}

// Normalize trims, case-folds, and collapses inner whitespace so equivalent
// queries share one cache entry.
func Normalize(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), " ")
}

// rank orders candidates by relevance score descending. Ties prefer exact
// name matches over partial ones, then entries with populated country/state
// over those without.
func rank(candidates []candidate, normalized string) []candidate {
	ranked := make([]candidate, len(candidates))
	copy(ranked, candidates)

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]

		if a.Importance != b.Importance {
			return a.Importance > b.Importance
		}

		aExact := strings.ToLower(a.Location.Name) == normalized
		bExact := strings.ToLower(b.Location.Name) == normalized
		if aExact != bExact {
			return aExact
		}

		return adminScore(a.Location) > adminScore(b.Location)
	})

	return ranked
}

func adminScore(loc models.Location) int {
	score := 0
	if loc.Country != "" {
		score += 2
	}
	if loc.State != "" {
		score++
	}
	return score
}

// dedupe drops candidates whose (name, country, state) triple repeats,
// keeping the highest-ranked instance. Distinct triples always survive, even
// when the display names collide.
func dedupe(ranked []candidate) []models.Location {
	seen := make(map[string]struct{}, len(ranked))
	locations := make([]models.Location, 0, len(ranked))

	for _, c := range ranked {
		key := c.Location.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		locations = append(locations, c.Location)
	}

	return locations
}
