package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/reloophq/waste-exchange/api/internal/entity"
)

// ErrOrganizationNotFound is returned when no organization matches the lookup criteria.
var (
	ErrOrganizationNotFound = errors.New("organization not found")
	ErrEmailDuplicate       = errors.New("email already exists")
)

// OrganizationsRepository declares persistence operations for organizations.
type OrganizationsRepository interface {
	FindByEmail(ctx context.Context, email string) (*entity.Organization, error)
	FindByID(ctx context.Context, id int64) (*entity.Organization, error)
	Create(ctx context.Context, org *entity.Organization) (*entity.Organization, error)
	List(ctx context.Context) ([]entity.Organization, error)
	SetVerified(ctx context.Context, id int64, verified bool) error
}

// PGXOrganizationsRepository implements OrganizationsRepository with pgx.
type PGXOrganizationsRepository struct {
	pool pgxPool
}

// NewPGXOrganizationsRepository instantiates an organizations repository.
func NewPGXOrganizationsRepository(pool *pgxpool.Pool) *PGXOrganizationsRepository {
	return &PGXOrganizationsRepository{pool: pool}
}

const organizationColumns = `org_id, org_name, email, password_hash, role, phone_number, address, latitude, longitude, is_verified, created_at, updated_at`

func scanOrganization(row pgx.Row) (*entity.Organization, error) {
	var org entity.Organization
	err := row.Scan(
		&org.ID, &org.Name, &org.Email, &org.PasswordHash, &org.Role,
		&org.Phone, &org.Address, &org.Latitude, &org.Longitude,
		&org.Verified, &org.CreatedAt, &org.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &org, nil
}

// FindByEmail fetches an organization by email if present.
func (r *PGXOrganizationsRepository) FindByEmail(ctx context.Context, email string) (*entity.Organization, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+organizationColumns+` FROM organization WHERE email = $1 AND deleted_at IS NULL`, email)

	org, err := scanOrganization(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("query organization by email: %w", err)
	}
	return org, nil
}

// FindByID retrieves an organization by identifier.
func (r *PGXOrganizationsRepository) FindByID(ctx context.Context, id int64) (*entity.Organization, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+organizationColumns+` FROM organization WHERE org_id = $1 AND deleted_at IS NULL`, id)

	org, err := scanOrganization(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("query organization by id: %w", err)
	}
	return org, nil
}

// Create inserts a new organization row.
func (r *PGXOrganizationsRepository) Create(ctx context.Context, org *entity.Organization) (*entity.Organization, error) {
	row := r.pool.QueryRow(ctx, `
        INSERT INTO organization (org_name, email, password_hash, role, phone_number, address, latitude, longitude)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING `+organizationColumns+`
    `, org.Name, org.Email, org.PasswordHash, org.Role, org.Phone, org.Address, org.Latitude, org.Longitude)

	created, err := scanOrganization(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && strings.Contains(pgErr.Message, "organization_email_key") {
			return nil, fmt.Errorf("%w: %v", ErrEmailDuplicate, pgErr)
		}
		return nil, fmt.Errorf("insert organization: %w", err)
	}
	return created, nil
}

// List returns all organizations ordered by creation date (desc).
func (r *PGXOrganizationsRepository) List(ctx context.Context) ([]entity.Organization, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+organizationColumns+` FROM organization WHERE deleted_at IS NULL ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}
	defer rows.Close()

	var orgs []entity.Organization
	for rows.Next() {
		org, err := scanOrganization(rows)
		if err != nil {
			return nil, fmt.Errorf("scan organization row: %w", err)
		}
		orgs = append(orgs, *org)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate organizations: %w", err)
	}
	return orgs, nil
}

// SetVerified toggles the verification flag for an organization.
func (r *PGXOrganizationsRepository) SetVerified(ctx context.Context, id int64, verified bool) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE organization SET is_verified = $1, updated_at = NOW() WHERE org_id = $2 AND deleted_at IS NULL`, verified, id)
	if err != nil {
		return fmt.Errorf("update organization verification: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrOrganizationNotFound
	}
	return nil
}
