package service

import (
	"context"
	"strings"

	"github.com/reloophq/waste-exchange/api/internal/dto"
	"github.com/reloophq/waste-exchange/api/internal/entity"
	"github.com/reloophq/waste-exchange/api/internal/repository"
)

// ListingValidationError indicates that a listing payload is invalid.
type ListingValidationError struct {
	Message string
}

// Error implements the error interface.
func (e ListingValidationError) Error() string {
	return e.Message
}

// ListingsService manages an organization's supply and demand listings.
type ListingsService struct {
	repo repository.ListingsRepository
}

// NewListingsService builds a new ListingsService.
func NewListingsService(repo repository.ListingsRepository) *ListingsService {
	return &ListingsService{repo: repo}
}

// CreateSupply publishes a new supply listing for the organization.
func (s *ListingsService) CreateSupply(ctx context.Context, orgID int64, req dto.CreateSupplyRequest) (*entity.Supply, error) {
	name := strings.TrimSpace(req.ItemName)
	if name == "" {
		return nil, ListingValidationError{Message: "item_name is required"}
	}
	if err := validateListingNumbers(req.PricePerUnit, req.Quantity, req.SearchRadius); err != nil {
		return nil, err
	}

	supply := &entity.Supply{
		OrgID:        orgID,
		ItemName:     name,
		ItemCategory: req.ItemCategory,
		CategoryID:   req.CategoryID,
		Description:  req.Description,
		PricePerUnit: req.PricePerUnit,
		Currency:     normalizeCurrency(req.Currency),
		Quantity:     req.Quantity,
		QuantityUnit: req.QuantityUnit,
		SearchRadius: req.SearchRadius,
	}
	if err := s.repo.CreateSupply(ctx, supply); err != nil {
		return nil, err
	}
	return supply, nil
}

// CreateDemand publishes a new demand listing for the organization.
func (s *ListingsService) CreateDemand(ctx context.Context, orgID int64, req dto.CreateDemandRequest) (*entity.Demand, error) {
	name := strings.TrimSpace(req.ItemName)
	if name == "" {
		return nil, ListingValidationError{Message: "item_name is required"}
	}
	if err := validateListingNumbers(req.MaxPricePerUnit, req.Quantity, req.SearchRadius); err != nil {
		return nil, err
	}

	demand := &entity.Demand{
		OrgID:           orgID,
		ItemName:        name,
		ItemCategory:    req.ItemCategory,
		CategoryID:      req.CategoryID,
		Description:     req.Description,
		MaxPricePerUnit: req.MaxPricePerUnit,
		Currency:        normalizeCurrency(req.Currency),
		Quantity:        req.Quantity,
		QuantityUnit:    req.QuantityUnit,
		SearchRadius:    req.SearchRadius,
	}
	if err := s.repo.CreateDemand(ctx, demand); err != nil {
		return nil, err
	}
	return demand, nil
}

// ListSupplies returns the organization's active supply listings.
func (s *ListingsService) ListSupplies(ctx context.Context, orgID int64) ([]entity.Supply, error) {
	return s.repo.ListSuppliesByOrg(ctx, orgID)
}

// ListDemands returns the organization's active demand listings.
func (s *ListingsService) ListDemands(ctx context.Context, orgID int64) ([]entity.Demand, error) {
	return s.repo.ListDemandsByOrg(ctx, orgID)
}

func validateListingNumbers(price, quantity, radius *float64) error {
	if price != nil && *price < 0 {
		return ListingValidationError{Message: "price must not be negative"}
	}
	if quantity != nil && *quantity <= 0 {
		return ListingValidationError{Message: "quantity must be positive"}
	}
	if radius != nil && *radius <= 0 {
		return ListingValidationError{Message: "search_radius must be positive"}
	}
	return nil
}

func normalizeCurrency(currency string) string {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		return "USD"
	}
	return currency
}
