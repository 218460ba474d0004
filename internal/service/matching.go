package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/reloophq/waste-exchange/api/internal/config"
	"github.com/reloophq/waste-exchange/api/internal/dto"
	"github.com/reloophq/waste-exchange/api/internal/entity"
	"github.com/reloophq/waste-exchange/api/internal/repository"
	"github.com/reloophq/waste-exchange/api/internal/service/geo"
	"github.com/reloophq/waste-exchange/api/internal/service/scoring"
	"github.com/reloophq/waste-exchange/api/internal/service/similarity"
)

const (
	categoryBoostFloor = 0.9
	minVisibleScore    = 0.4

	directionSupplyToDemands  = "supply_to_demands"
	directionDemandToSupplies = "demand_to_supplies"
)

// resultCache is the subset of the redis cache the matching service uses.
type resultCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	TTL(ctx context.Context, key string) (int64, error)
}

// SearchOptions carry the per-request knobs of a match search.
type SearchOptions struct {
	// Force skips the cache read; the fresh result is still written back.
	Force bool
	// RadiusKm overrides the listing and configured search radius when > 0.
	// Overridden searches bypass the cache entirely since keys do not
	// encode the radius.
	RadiusKm float64
}

// MatchingService runs the filter/score/rank pipeline over candidate
// listings and caches ranked results per query listing.
type MatchingService struct {
	repo    repository.ListingsRepository
	cache   resultCache
	matcher *similarity.Matcher
	cfg     config.MatchingConfig
	group   singleflight.Group
}

// NewMatchingService wires the matching pipeline.
func NewMatchingService(repo repository.ListingsRepository, cache resultCache, matcher *similarity.Matcher, cfg config.MatchingConfig) *MatchingService {
	return &MatchingService{repo: repo, cache: cache, matcher: matcher, cfg: cfg}
}

// SearchSupplyMatches ranks demand listings against the given supply.
func (s *MatchingService) SearchSupplyMatches(ctx context.Context, supplyID int64, opts SearchOptions) (*dto.SearchResponse, error) {
	key := supplyCacheKey(supplyID)
	return s.searchCached(ctx, key, opts, func(ctx context.Context) (*dto.SearchResponse, error) {
		supply, org, err := s.repo.GetSupply(ctx, supplyID)
		if err != nil {
			return nil, err
		}
		radius := s.resolveRadius(opts.RadiusKm, supply.SearchRadius)

		candidates, err := s.repo.DemandCandidates(ctx, supply.OrgID)
		if err != nil {
			return nil, fmt.Errorf("load demand candidates: %w", err)
		}

		query := supplyQuery(supply, org)
		results := make([]dto.MatchResult, 0, len(candidates))
		for _, cand := range candidates {
			if res, ok := s.scoreCandidate(ctx, query, demandCandidate(&cand.Demand), cand.Org, radius); ok {
				results = append(results, res)
			}
		}
		return s.finalize(supplyID, directionSupplyToDemands, radius, results), nil
	})
}

// SearchDemandMatches ranks supply listings against the given demand.
func (s *MatchingService) SearchDemandMatches(ctx context.Context, demandID int64, opts SearchOptions) (*dto.SearchResponse, error) {
	key := demandCacheKey(demandID)
	return s.searchCached(ctx, key, opts, func(ctx context.Context) (*dto.SearchResponse, error) {
		demand, org, err := s.repo.GetDemand(ctx, demandID)
		if err != nil {
			return nil, err
		}
		radius := s.resolveRadius(opts.RadiusKm, demand.SearchRadius)

		candidates, err := s.repo.SupplyCandidates(ctx, demand.OrgID)
		if err != nil {
			return nil, fmt.Errorf("load supply candidates: %w", err)
		}

		query := demandQuery(demand, org)
		results := make([]dto.MatchResult, 0, len(candidates))
		for _, cand := range candidates {
			if res, ok := s.scoreCandidate(ctx, query, supplyCandidate(&cand.Supply), cand.Org, radius); ok {
				results = append(results, res)
			}
		}
		return s.finalize(demandID, directionDemandToSupplies, radius, results), nil
	})
}

// InvalidateSupplyCache drops the cached result set for a supply search.
func (s *MatchingService) InvalidateSupplyCache(ctx context.Context, supplyID int64) error {
	return s.cache.Delete(ctx, supplyCacheKey(supplyID))
}

// InvalidateDemandCache drops the cached result set for a demand search.
func (s *MatchingService) InvalidateDemandCache(ctx context.Context, demandID int64) error {
	return s.cache.Delete(ctx, demandCacheKey(demandID))
}

func supplyCacheKey(id int64) string { return fmt.Sprintf("search_results:supply:%d", id) }

func demandCacheKey(id int64) string { return fmt.Sprintf("search_results:demand:%d", id) }

// searchCached serves from the cache when possible and collapses
// concurrent misses for one key into a single computation.
func (s *MatchingService) searchCached(ctx context.Context, key string, opts SearchOptions, compute func(context.Context) (*dto.SearchResponse, error)) (*dto.SearchResponse, error) {
	cacheable := opts.RadiusKm <= 0

	if cacheable && !opts.Force {
		if resp, ok := s.cacheLookup(ctx, key); ok {
			return resp, nil
		}
	}

	v, err, _ := s.group.Do(flightKey(key, opts), func() (any, error) {
		resp, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		if cacheable {
			s.cacheStore(ctx, key, resp)
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*dto.SearchResponse), nil
}

func flightKey(key string, opts SearchOptions) string {
	if opts.RadiusKm > 0 {
		return fmt.Sprintf("%s:r%g", key, opts.RadiusKm)
	}
	return key
}

func (s *MatchingService) cacheLookup(ctx context.Context, key string) (*dto.SearchResponse, bool) {
	raw, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		log.Printf("matching: cache read failed key=%s err=%v", key, err)
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var resp dto.SearchResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		log.Printf("matching: cache entry corrupt key=%s err=%v", key, err)
		return nil, false
	}

	resp.Cached = true
	if ttl, err := s.cache.TTL(ctx, key); err == nil && ttl >= 0 {
		resp.CacheExpiresInSeconds = &ttl
	}
	return &resp, true
}

func (s *MatchingService) cacheStore(ctx context.Context, key string, resp *dto.SearchResponse) {
	payload, err := json.Marshal(resp)
	if err != nil {
		log.Printf("matching: cache encode failed key=%s err=%v", key, err)
		return
	}
	if err := s.cache.Set(ctx, key, string(payload), s.cfg.CacheTTL); err != nil {
		log.Printf("matching: cache write failed key=%s err=%v", key, err)
	}
}

func (s *MatchingService) resolveRadius(override float64, listingRadius *float64) float64 {
	if override > 0 {
		return override
	}
	if listingRadius != nil && *listingRadius > 0 {
		return *listingRadius
	}
	return s.cfg.DefaultSearchRadiusKm
}

// queryListing is a direction-neutral view of the listing being searched
// for. price is the offered price for supplies and the buyer's ceiling
// for demands.
type queryListing struct {
	supplySide   bool
	itemName     string
	category     *string
	categoryID   *int64
	description  *string
	price        *float64
	quantity     *float64
	quantityUnit *string
	latitude     float64
	longitude    float64
}

// candidateListing is the direction-neutral view of one candidate row.
type candidateListing struct {
	id           int64
	itemName     string
	category     *string
	categoryID   *int64
	description  *string
	price        *float64
	quantity     *float64
	quantityUnit *string
}

func supplyQuery(s *entity.Supply, org *entity.Organization) queryListing {
	return queryListing{
		supplySide:   true,
		itemName:     s.ItemName,
		category:     s.ItemCategory,
		categoryID:   s.CategoryID,
		description:  s.Description,
		price:        s.PricePerUnit,
		quantity:     s.Quantity,
		quantityUnit: s.QuantityUnit,
		latitude:     org.Latitude,
		longitude:    org.Longitude,
	}
}

func demandQuery(d *entity.Demand, org *entity.Organization) queryListing {
	return queryListing{
		supplySide:   false,
		itemName:     d.ItemName,
		category:     d.ItemCategory,
		categoryID:   d.CategoryID,
		description:  d.Description,
		price:        d.MaxPricePerUnit,
		quantity:     d.Quantity,
		quantityUnit: d.QuantityUnit,
		latitude:     org.Latitude,
		longitude:    org.Longitude,
	}
}

func supplyCandidate(s *entity.Supply) candidateListing {
	return candidateListing{
		id:           s.ID,
		itemName:     s.ItemName,
		category:     s.ItemCategory,
		categoryID:   s.CategoryID,
		description:  s.Description,
		price:        s.PricePerUnit,
		quantity:     s.Quantity,
		quantityUnit: s.QuantityUnit,
	}
}

func demandCandidate(d *entity.Demand) candidateListing {
	return candidateListing{
		id:           d.ID,
		itemName:     d.ItemName,
		category:     d.ItemCategory,
		categoryID:   d.CategoryID,
		description:  d.Description,
		price:        d.MaxPricePerUnit,
		quantity:     d.Quantity,
		quantityUnit: d.QuantityUnit,
	}
}

// scoreCandidate runs the per-candidate pipeline: radius gate, category
// match, hybrid similarity with threshold gate, weighted score with the
// minimum visible score cut. A panic while scoring one candidate skips
// that candidate only.
func (s *MatchingService) scoreCandidate(ctx context.Context, query queryListing, cand candidateListing, candOrg entity.Organization, radiusKm float64) (result dto.MatchResult, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("matching: candidate skipped id=%d err=%v", cand.id, r)
			result, ok = dto.MatchResult{}, false
		}
	}()

	distance := geo.Distance(query.latitude, query.longitude, candOrg.Latitude, candOrg.Longitude)
	if distance > radiusKm {
		return dto.MatchResult{}, false
	}

	catMatch := categoriesMatch(query.categoryID, query.category, cand.categoryID, cand.category)

	sim := s.matcher.Hybrid(ctx,
		compositeText(query.itemName, query.description, query.category),
		compositeText(cand.itemName, cand.description, cand.category),
		s.cfg.UseSemanticSearch, s.cfg.SemanticWeight, s.cfg.FuzzyWeight,
	)

	similarityScore := sim.Score
	if !catMatch && similarityScore < s.cfg.SimilarityThreshold {
		return dto.MatchResult{}, false
	}
	if catMatch && similarityScore < categoryBoostFloor {
		similarityScore = categoryBoostFloor
	}

	in := scoring.Input{
		DistanceKm:     distance,
		Similarity:     similarityScore,
		MaxDistanceKm:  radiusKm,
		PriceTolerance: s.cfg.PriceTolerancePercent,
	}
	if query.supplySide {
		in.SupplyPrice = query.price
		in.DemandMaxPrice = cand.price
		in.SupplyQty, in.DemandQty = query.quantity, cand.quantity
		in.SupplyUnit, in.DemandUnit = derefUnit(query.quantityUnit), derefUnit(cand.quantityUnit)
	} else {
		in.SupplyPrice = cand.price
		in.DemandMaxPrice = query.price
		in.SupplyQty, in.DemandQty = cand.quantity, query.quantity
		in.SupplyUnit, in.DemandUnit = derefUnit(cand.quantityUnit), derefUnit(query.quantityUnit)
	}

	scored := scoring.Compute(in)
	if scored.Score < minVisibleScore {
		return dto.MatchResult{}, false
	}

	return dto.MatchResult{
		ID:             cand.id,
		OrgID:          candOrg.ID,
		OrgName:        candOrg.Name,
		ItemName:       cand.itemName,
		ItemCategory:   cand.category,
		Description:    cand.description,
		Price:          cand.price,
		Quantity:       cand.quantity,
		QuantityUnit:   cand.quantityUnit,
		DistanceKm:     round2(distance),
		NameSimilarity: round2(similarityScore),
		MatchScore:     round2(scored.Score),
		OrgEmail:       candOrg.Email,
		OrgPhone:       candOrg.Phone,
		OrgAddress:     candOrg.Address,
		OrgLatitude:    candOrg.Latitude,
		OrgLongitude:   candOrg.Longitude,
	}, true
}

func (s *MatchingService) finalize(queryID int64, direction string, radiusKm float64, results []dto.MatchResult) *dto.SearchResponse {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].MatchScore > results[j].MatchScore
	})
	if len(results) > s.cfg.MaxResults {
		results = results[:s.cfg.MaxResults]
	}

	return &dto.SearchResponse{
		QueryID:        queryID,
		Direction:      direction,
		TotalResults:   len(results),
		SearchRadiusKm: radiusKm,
		Cached:         false,
		Results:        results,
		SearchedAt:     time.Now().UTC(),
	}
}

// categoriesMatch prefers category ids; labels fall back to a
// case-insensitive equality-or-substring comparison in both directions.
func categoriesMatch(aID *int64, aLabel *string, bID *int64, bLabel *string) bool {
	if aID != nil && bID != nil {
		return *aID == *bID
	}
	if aLabel == nil || bLabel == nil {
		return false
	}
	a := strings.ToLower(strings.TrimSpace(*aLabel))
	b := strings.ToLower(strings.TrimSpace(*bLabel))
	if a == "" || b == "" {
		return false
	}
	return a == b || strings.Contains(a, b) || strings.Contains(b, a)
}

func compositeText(name string, description, category *string) string {
	parts := []string{name}
	if description != nil {
		parts = append(parts, *description)
	}
	if category != nil {
		parts = append(parts, *category)
	}
	fields := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			fields = append(fields, p)
		}
	}
	return strings.Join(fields, " ")
}

func derefUnit(u *string) string {
	if u == nil {
		return ""
	}
	return *u
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
