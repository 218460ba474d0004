package service

import (
	"context"

	"github.com/reloophq/waste-exchange/api/internal/entity"
	"github.com/reloophq/waste-exchange/api/internal/repository"
)

// OrganizationsService exposes administrative operations over registered
// organizations.
type OrganizationsService struct {
	repo repository.OrganizationsRepository
}

// NewOrganizationsService builds a new OrganizationsService.
func NewOrganizationsService(repo repository.OrganizationsRepository) *OrganizationsService {
	return &OrganizationsService{repo: repo}
}

// ListOrganizations returns every registered organization.
func (s *OrganizationsService) ListOrganizations(ctx context.Context) ([]entity.Organization, error) {
	return s.repo.List(ctx)
}

// SetVerified flips the verification flag; only verified organizations
// appear as match candidates.
func (s *OrganizationsService) SetVerified(ctx context.Context, orgID int64, verified bool) error {
	return s.repo.SetVerified(ctx, orgID, verified)
}
