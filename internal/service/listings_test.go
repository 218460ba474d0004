package service

import (
	"context"
	"errors"
	"testing"

	"github.com/reloophq/waste-exchange/api/internal/dto"
	"github.com/reloophq/waste-exchange/api/internal/entity"
)

func TestListingsService_CreateSupply(t *testing.T) {
	repo := &fakeListingsRepo{
		createSupply: func(ctx context.Context, supply *entity.Supply) error {
			supply.ID = 55
			supply.Active = true
			return nil
		},
	}
	svc := NewListingsService(repo)

	supply, err := svc.CreateSupply(context.Background(), 7, dto.CreateSupplyRequest{
		ItemName:     "  HDPE regrind ",
		PricePerUnit: floatPtr(12.5),
		Currency:     "eur",
		Quantity:     floatPtr(500),
		QuantityUnit: strPtr("kg"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if supply.ID != 55 || supply.OrgID != 7 {
		t.Fatalf("unexpected supply: %+v", supply)
	}
	if supply.ItemName != "HDPE regrind" {
		t.Fatalf("expected trimmed name, got %q", supply.ItemName)
	}
	if supply.Currency != "EUR" {
		t.Fatalf("expected uppercased currency, got %q", supply.Currency)
	}
}

func TestListingsService_CreateSupply_Invalid(t *testing.T) {
	svc := NewListingsService(&fakeListingsRepo{})

	tests := map[string]dto.CreateSupplyRequest{
		"missing name":    {},
		"blank name":      {ItemName: "   "},
		"negative price":  {ItemName: "scrap", PricePerUnit: floatPtr(-1)},
		"zero quantity":   {ItemName: "scrap", Quantity: floatPtr(0)},
		"negative radius": {ItemName: "scrap", SearchRadius: floatPtr(-5)},
	}

	for name, req := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := svc.CreateSupply(context.Background(), 7, req)
			var valErr ListingValidationError
			if !errors.As(err, &valErr) {
				t.Fatalf("expected ListingValidationError, got %v", err)
			}
		})
	}
}

func TestListingsService_CreateDemand(t *testing.T) {
	repo := &fakeListingsRepo{
		createDemand: func(ctx context.Context, demand *entity.Demand) error {
			demand.ID = 66
			demand.Active = true
			return nil
		},
	}
	svc := NewListingsService(repo)

	demand, err := svc.CreateDemand(context.Background(), 9, dto.CreateDemandRequest{
		ItemName:        "glass cullet",
		MaxPricePerUnit: floatPtr(80),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if demand.ID != 66 || demand.OrgID != 9 {
		t.Fatalf("unexpected demand: %+v", demand)
	}
	if demand.Currency != "USD" {
		t.Fatalf("expected default currency, got %q", demand.Currency)
	}
}

func TestListingsService_ListSupplies(t *testing.T) {
	repo := &fakeListingsRepo{
		listSupplies: func(ctx context.Context, orgID int64) ([]entity.Supply, error) {
			if orgID != 7 {
				t.Fatalf("unexpected org id %d", orgID)
			}
			return []entity.Supply{{ID: 1, ItemName: "glass cullet"}}, nil
		},
	}
	svc := NewListingsService(repo)

	supplies, err := svc.ListSupplies(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(supplies) != 1 || supplies[0].ItemName != "glass cullet" {
		t.Fatalf("unexpected supplies: %+v", supplies)
	}
}

func TestOrganizationsService_SetVerified(t *testing.T) {
	var gotID int64
	var gotVerified bool
	repo := &mockOrganizationsRepository{
		setVerified: func(ctx context.Context, id int64, verified bool) error {
			gotID, gotVerified = id, verified
			return nil
		},
	}
	svc := NewOrganizationsService(repo)

	if err := svc.SetVerified(context.Background(), 7, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotID != 7 || !gotVerified {
		t.Fatalf("unexpected call: id=%d verified=%v", gotID, gotVerified)
	}
}
