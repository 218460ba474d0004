package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/reloophq/waste-exchange/api/internal/entity"
)

var (
	// ErrSupplyNotFound is returned when no active supply matches the id.
	ErrSupplyNotFound = errors.New("supply not found or inactive")
	// ErrDemandNotFound is returned when no active demand matches the id.
	ErrDemandNotFound = errors.New("demand not found or inactive")
)

// ListingsRepository describes persistence operations for supply and
// demand listings. Candidate queries return pre-joined listing+org pairs
// filtered to active listings of verified organizations, excluding the
// querying organization; the matching core never touches storage itself.
type ListingsRepository interface {
	GetSupply(ctx context.Context, id int64) (*entity.Supply, *entity.Organization, error)
	GetDemand(ctx context.Context, id int64) (*entity.Demand, *entity.Organization, error)
	DemandCandidates(ctx context.Context, excludeOrgID int64) ([]entity.DemandCandidate, error)
	SupplyCandidates(ctx context.Context, excludeOrgID int64) ([]entity.SupplyCandidate, error)
	CreateSupply(ctx context.Context, supply *entity.Supply) error
	CreateDemand(ctx context.Context, demand *entity.Demand) error
	ListSuppliesByOrg(ctx context.Context, orgID int64) ([]entity.Supply, error)
	ListDemandsByOrg(ctx context.Context, orgID int64) ([]entity.Demand, error)
}

// PGXListingsRepository implements ListingsRepository using pgx.
type PGXListingsRepository struct {
	pool pgxPool
}

// NewPGXListingsRepository wires a pgx backed listings repository.
func NewPGXListingsRepository(pool *pgxpool.Pool) *PGXListingsRepository {
	return &PGXListingsRepository{pool: pool}
}

const supplyColumns = `
	s.supply_id, s.org_id, s.item_name, c.category_name, s.category_id,
	s.item_description, s.price_per_unit, s.currency, s.quantity,
	s.quantity_unit, s.search_radius, s.is_active, s.created_at`

const demandColumns = `
	d.demand_id, d.org_id, d.item_name, c.category_name, d.category_id,
	d.item_description, d.max_price_per_unit, d.currency, d.quantity,
	d.quantity_unit, d.search_radius, d.is_active, d.created_at`

const orgColumns = `
	o.org_id, o.org_name, o.email, o.phone_number, o.address,
	o.latitude, o.longitude, o.is_verified, o.created_at, o.updated_at`

// GetSupply fetches one active supply together with its owning organization.
func (r *PGXListingsRepository) GetSupply(ctx context.Context, id int64) (*entity.Supply, *entity.Organization, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+supplyColumns+`, `+orgColumns+`
		FROM org_supply s
		JOIN organization o ON o.org_id = s.org_id
		LEFT JOIN item_category c ON c.category_id = s.category_id
		WHERE s.supply_id = $1 AND s.is_active = TRUE AND s.deleted_at IS NULL
	`, id)

	var (
		supply entity.Supply
		org    entity.Organization
	)
	if err := scanSupplyWithOrg(row, &supply, &org); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrSupplyNotFound
		}
		return nil, nil, fmt.Errorf("query supply by id: %w", err)
	}
	return &supply, &org, nil
}

// GetDemand fetches one active demand together with its owning organization.
func (r *PGXListingsRepository) GetDemand(ctx context.Context, id int64) (*entity.Demand, *entity.Organization, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+demandColumns+`, `+orgColumns+`
		FROM org_demand d
		JOIN organization o ON o.org_id = d.org_id
		LEFT JOIN item_category c ON c.category_id = d.category_id
		WHERE d.demand_id = $1 AND d.is_active = TRUE AND d.deleted_at IS NULL
	`, id)

	var (
		demand entity.Demand
		org    entity.Organization
	)
	if err := scanDemandWithOrg(row, &demand, &org); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrDemandNotFound
		}
		return nil, nil, fmt.Errorf("query demand by id: %w", err)
	}
	return &demand, &org, nil
}

// DemandCandidates returns all active demands from verified organizations
// other than the given one, each pre-joined with its owner.
func (r *PGXListingsRepository) DemandCandidates(ctx context.Context, excludeOrgID int64) ([]entity.DemandCandidate, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+demandColumns+`, `+orgColumns+`
		FROM org_demand d
		JOIN organization o ON o.org_id = d.org_id
		LEFT JOIN item_category c ON c.category_id = d.category_id
		WHERE d.is_active = TRUE AND d.deleted_at IS NULL
		  AND o.is_verified = TRUE AND d.org_id != $1
	`, excludeOrgID)
	if err != nil {
		return nil, fmt.Errorf("query demand candidates: %w", err)
	}
	defer rows.Close()

	var candidates []entity.DemandCandidate
	for rows.Next() {
		var cand entity.DemandCandidate
		if err := scanDemandWithOrg(rows, &cand.Demand, &cand.Org); err != nil {
			return nil, fmt.Errorf("scan demand candidate: %w", err)
		}
		candidates = append(candidates, cand)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate demand candidates: %w", err)
	}
	return candidates, nil
}

// SupplyCandidates returns all active supplies from verified organizations
// other than the given one, each pre-joined with its owner.
func (r *PGXListingsRepository) SupplyCandidates(ctx context.Context, excludeOrgID int64) ([]entity.SupplyCandidate, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+supplyColumns+`, `+orgColumns+`
		FROM org_supply s
		JOIN organization o ON o.org_id = s.org_id
		LEFT JOIN item_category c ON c.category_id = s.category_id
		WHERE s.is_active = TRUE AND s.deleted_at IS NULL
		  AND o.is_verified = TRUE AND s.org_id != $1
	`, excludeOrgID)
	if err != nil {
		return nil, fmt.Errorf("query supply candidates: %w", err)
	}
	defer rows.Close()

	var candidates []entity.SupplyCandidate
	for rows.Next() {
		var cand entity.SupplyCandidate
		if err := scanSupplyWithOrg(rows, &cand.Supply, &cand.Org); err != nil {
			return nil, fmt.Errorf("scan supply candidate: %w", err)
		}
		candidates = append(candidates, cand)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate supply candidates: %w", err)
	}
	return candidates, nil
}

// CreateSupply inserts a new supply listing and fills in generated fields.
func (r *PGXListingsRepository) CreateSupply(ctx context.Context, supply *entity.Supply) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO org_supply (
			org_id, item_name, category_id, item_description,
			price_per_unit, currency, quantity, quantity_unit, search_radius
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING supply_id, is_active, created_at
	`, supply.OrgID, supply.ItemName, supply.CategoryID, supply.Description,
		supply.PricePerUnit, supply.Currency, supply.Quantity, supply.QuantityUnit, supply.SearchRadius)

	if err := row.Scan(&supply.ID, &supply.Active, &supply.CreatedAt); err != nil {
		return fmt.Errorf("insert supply: %w", err)
	}
	return nil
}

// CreateDemand inserts a new demand listing and fills in generated fields.
func (r *PGXListingsRepository) CreateDemand(ctx context.Context, demand *entity.Demand) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO org_demand (
			org_id, item_name, category_id, item_description,
			max_price_per_unit, currency, quantity, quantity_unit, search_radius
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING demand_id, is_active, created_at
	`, demand.OrgID, demand.ItemName, demand.CategoryID, demand.Description,
		demand.MaxPricePerUnit, demand.Currency, demand.Quantity, demand.QuantityUnit, demand.SearchRadius)

	if err := row.Scan(&demand.ID, &demand.Active, &demand.CreatedAt); err != nil {
		return fmt.Errorf("insert demand: %w", err)
	}
	return nil
}

// ListSuppliesByOrg returns the organization's active supplies, newest first.
func (r *PGXListingsRepository) ListSuppliesByOrg(ctx context.Context, orgID int64) ([]entity.Supply, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+supplyColumns+`
		FROM org_supply s
		LEFT JOIN item_category c ON c.category_id = s.category_id
		WHERE s.org_id = $1 AND s.is_active = TRUE AND s.deleted_at IS NULL
		ORDER BY s.created_at DESC
	`, orgID)
	if err != nil {
		return nil, fmt.Errorf("list supplies: %w", err)
	}
	defer rows.Close()

	var supplies []entity.Supply
	for rows.Next() {
		var s entity.Supply
		if err := scanSupply(rows, &s); err != nil {
			return nil, fmt.Errorf("scan supply row: %w", err)
		}
		supplies = append(supplies, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate supplies: %w", err)
	}
	return supplies, nil
}

// ListDemandsByOrg returns the organization's active demands, newest first.
func (r *PGXListingsRepository) ListDemandsByOrg(ctx context.Context, orgID int64) ([]entity.Demand, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+demandColumns+`
		FROM org_demand d
		LEFT JOIN item_category c ON c.category_id = d.category_id
		WHERE d.org_id = $1 AND d.is_active = TRUE AND d.deleted_at IS NULL
		ORDER BY d.created_at DESC
	`, orgID)
	if err != nil {
		return nil, fmt.Errorf("list demands: %w", err)
	}
	defer rows.Close()

	var demands []entity.Demand
	for rows.Next() {
		var d entity.Demand
		if err := scanDemand(rows, &d); err != nil {
			return nil, fmt.Errorf("scan demand row: %w", err)
		}
		demands = append(demands, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate demands: %w", err)
	}
	return demands, nil
}

func scanSupply(row pgx.Row, s *entity.Supply) error {
	return row.Scan(
		&s.ID, &s.OrgID, &s.ItemName, &s.ItemCategory, &s.CategoryID,
		&s.Description, &s.PricePerUnit, &s.Currency, &s.Quantity,
		&s.QuantityUnit, &s.SearchRadius, &s.Active, &s.CreatedAt,
	)
}

func scanDemand(row pgx.Row, d *entity.Demand) error {
	return row.Scan(
		&d.ID, &d.OrgID, &d.ItemName, &d.ItemCategory, &d.CategoryID,
		&d.Description, &d.MaxPricePerUnit, &d.Currency, &d.Quantity,
		&d.QuantityUnit, &d.SearchRadius, &d.Active, &d.CreatedAt,
	)
}

func scanSupplyWithOrg(row pgx.Row, s *entity.Supply, o *entity.Organization) error {
	return row.Scan(
		&s.ID, &s.OrgID, &s.ItemName, &s.ItemCategory, &s.CategoryID,
		&s.Description, &s.PricePerUnit, &s.Currency, &s.Quantity,
		&s.QuantityUnit, &s.SearchRadius, &s.Active, &s.CreatedAt,
		&o.ID, &o.Name, &o.Email, &o.Phone, &o.Address,
		&o.Latitude, &o.Longitude, &o.Verified, &o.CreatedAt, &o.UpdatedAt,
	)
}

func scanDemandWithOrg(row pgx.Row, d *entity.Demand, o *entity.Organization) error {
	return row.Scan(
		&d.ID, &d.OrgID, &d.ItemName, &d.ItemCategory, &d.CategoryID,
		&d.Description, &d.MaxPricePerUnit, &d.Currency, &d.Quantity,
		&d.QuantityUnit, &d.SearchRadius, &d.Active, &d.CreatedAt,
		&o.ID, &o.Name, &o.Email, &o.Phone, &o.Address,
		&o.Latitude, &o.Longitude, &o.Verified, &o.CreatedAt, &o.UpdatedAt,
	)
}
