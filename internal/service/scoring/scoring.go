package scoring

import (
	"math"

	"github.com/reloophq/waste-exchange/api/internal/service/quantity"
)

// Sub-score weights. They sum to 1.0 so the weighted combination stays in
// [0,1] without rescaling.
const (
	weightSimilarity = 0.40
	weightDistance   = 0.25
	weightPrice      = 0.25
	weightQuantity   = 0.10
)

const (
	// priceNegotiable is assigned when the supply side lists no price.
	priceNegotiable = 0.9
	// priceFloor keeps clearly-overpriced candidates visible; they rank
	// last instead of disappearing.
	priceFloor = 0.1
	// quantityNeutral applies when the two quantities are not comparable.
	quantityNeutral = 0.5
)

// Input captures the signals combined into a match score. Price and
// quantity pointers are nil when the listing left them unspecified.
type Input struct {
	DistanceKm     float64
	Similarity     float64
	SupplyPrice    *float64
	DemandMaxPrice *float64
	MaxDistanceKm  float64
	SupplyQty      *float64
	SupplyUnit     string
	DemandQty      *float64
	DemandUnit     string
	PriceTolerance float64
}

// Breakdown reports the per-factor sub-scores, each in [0,1].
type Breakdown struct {
	Similarity float64
	Distance   float64
	Price      float64
	Quantity   float64
}

// Result is the aggregate match score with its breakdown.
type Result struct {
	Score     float64
	Breakdown Breakdown
}

// Compute evaluates the weighted match score for one candidate.
func Compute(in Input) Result {
	breakdown := Breakdown{
		Similarity: clamp01(in.Similarity),
		Distance:   distanceScore(in.DistanceKm, in.MaxDistanceKm),
		Price:      priceScore(in.SupplyPrice, in.DemandMaxPrice, in.PriceTolerance),
		Quantity:   quantityScore(in.SupplyQty, in.SupplyUnit, in.DemandQty, in.DemandUnit),
	}

	score := breakdown.Similarity*weightSimilarity +
		breakdown.Distance*weightDistance +
		breakdown.Price*weightPrice +
		breakdown.Quantity*weightQuantity

	return Result{Score: clamp01(score), Breakdown: breakdown}
}

// distanceScore decays linearly from 1.0 at zero distance to 0.0 at the
// search radius.
func distanceScore(distanceKm, maxDistanceKm float64) float64 {
	if maxDistanceKm <= 0 {
		return 0
	}
	return math.Max(0, 1-distanceKm/maxDistanceKm)
}

// priceScore is 1.0 when the buyer sets no ceiling, 0.9 when the seller
// lists no price (assumed negotiable), 1.0 at or under the ceiling, then
// decays to 0.5 at the tolerance boundary and drops to a fixed floor
// beyond it.
func priceScore(supplyPrice, demandMaxPrice *float64, tolerance float64) float64 {
	if demandMaxPrice == nil || *demandMaxPrice <= 0 {
		return 1
	}
	if supplyPrice == nil || *supplyPrice <= 0 {
		return priceNegotiable
	}

	price := *supplyPrice
	ceiling := *demandMaxPrice
	if price <= ceiling {
		return 1
	}

	limit := ceiling * (1 + tolerance)
	if price <= limit {
		maxOverage := limit - ceiling
		if maxOverage <= 0 {
			return priceFloor
		}
		ratio := (price - ceiling) / maxOverage
		return 1 - 0.5*ratio
	}

	return priceFloor
}

// quantityScore rewards suppliers who can fulfill the demanded quantity,
// after normalizing both sides to a common base unit.
func quantityScore(supplyQty *float64, supplyUnit string, demandQty *float64, demandUnit string) float64 {
	if supplyQty == nil || demandQty == nil {
		return quantityNeutral
	}

	s := quantity.Normalize(*supplyQty, supplyUnit)
	d := quantity.Normalize(*demandQty, demandUnit)
	if !quantity.Comparable(s, d) || d.Value <= 0 {
		return quantityNeutral
	}

	switch ratio := s.Value / d.Value; {
	case ratio >= 1.0:
		return 1.0
	case ratio >= 0.8:
		return 0.9
	case ratio >= 0.5:
		return 0.7
	default:
		return 0.4
	}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
