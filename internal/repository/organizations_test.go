package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/reloophq/waste-exchange/api/internal/entity"
)

type stubPool struct {
	queryRowFunc func(ctx context.Context, query string, args ...any) pgx.Row
	queryFunc    func(ctx context.Context, query string, args ...any) (pgx.Rows, error)
	execFunc     func(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
}

func (s *stubPool) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	if s.queryRowFunc != nil {
		return s.queryRowFunc(ctx, query, args...)
	}
	return &stubRow{scan: func(dest ...any) error { return nil }}
}

func (s *stubPool) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	if s.queryFunc != nil {
		return s.queryFunc(ctx, query, args...)
	}
	return nil, errors.New("query not implemented")
}

func (s *stubPool) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	if s.execFunc != nil {
		return s.execFunc(ctx, query, args...)
	}
	return pgconn.CommandTag{}, errors.New("exec not implemented")
}

type stubRow struct {
	scan func(dest ...any) error
}

func (s *stubRow) Scan(dest ...any) error {
	if s.scan != nil {
		return s.scan(dest...)
	}
	return nil
}

type stubRows struct {
	scans []func(dest ...any) error
	idx   int
	err   error
}

func (s *stubRows) Close() {}

func (s *stubRows) Err() error { return s.err }

func (s *stubRows) CommandTag() pgconn.CommandTag { return pgconn.CommandTag{} }

func (s *stubRows) FieldDescriptions() []pgconn.FieldDescription { return nil }

func (s *stubRows) Next() bool {
	if s.err != nil {
		return false
	}
	if s.idx < len(s.scans) {
		s.idx++
		return true
	}
	return false
}

func (s *stubRows) Scan(dest ...any) error {
	if s.idx == 0 || s.idx > len(s.scans) {
		return errors.New("scan called out of order")
	}
	return s.scans[s.idx-1](dest...)
}

func (s *stubRows) Values() ([]any, error) { return nil, nil }

func (s *stubRows) RawValues() [][]byte { return nil }

func (s *stubRows) Conn() *pgx.Conn { return nil }

func fillOrganization(dest []any, id int64, email string) error {
	created := time.Now()
	phone := "+14155552671"
	address := "12 Mill Road"
	*dest[0].(*int64) = id
	*dest[1].(*string) = "Green Mills"
	*dest[2].(*string) = email
	*dest[3].(*string) = "hashed"
	*dest[4].(*string) = "organization"
	*dest[5].(**string) = &phone
	*dest[6].(**string) = &address
	*dest[7].(*float64) = 52.52
	*dest[8].(*float64) = 13.405
	*dest[9].(*bool) = true
	*dest[10].(*time.Time) = created
	*dest[11].(*time.Time) = created
	return nil
}

func TestPGXOrganizationsRepository_FindByEmail(t *testing.T) {
	repo := &PGXOrganizationsRepository{pool: &stubPool{
		queryRowFunc: func(ctx context.Context, query string, args ...any) pgx.Row {
			return &stubRow{scan: func(dest ...any) error {
				return fillOrganization(dest, 7, "ops@greenmills.example")
			}}
		},
	}}

	org, err := repo.FindByEmail(context.Background(), "ops@greenmills.example")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if org.ID != 7 || org.Email != "ops@greenmills.example" || !org.Verified {
		t.Fatalf("unexpected organization: %+v", org)
	}

	repo.pool = &stubPool{
		queryRowFunc: func(ctx context.Context, query string, args ...any) pgx.Row {
			return &stubRow{scan: func(dest ...any) error {
				return pgx.ErrNoRows
			}}
		},
	}
	if _, err := repo.FindByEmail(context.Background(), "missing@example.com"); !errors.Is(err, ErrOrganizationNotFound) {
		t.Fatalf("expected ErrOrganizationNotFound, got %v", err)
	}
}

func TestPGXOrganizationsRepository_Create(t *testing.T) {
	repo := &PGXOrganizationsRepository{pool: &stubPool{
		queryRowFunc: func(ctx context.Context, query string, args ...any) pgx.Row {
			return &stubRow{scan: func(dest ...any) error {
				return fillOrganization(dest, 12, "new@example.com")
			}}
		},
	}}

	phone := "+14155552671"
	org, err := repo.Create(context.Background(), &entity.Organization{
		Name:         "Green Mills",
		Email:        "new@example.com",
		PasswordHash: "hashed",
		Role:         "organization",
		Phone:        &phone,
		Latitude:     52.52,
		Longitude:    13.405,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if org.ID != 12 {
		t.Fatalf("expected created organization, got %+v", org)
	}
}

func TestPGXOrganizationsRepository_Create_DuplicateEmail(t *testing.T) {
	repo := &PGXOrganizationsRepository{pool: &stubPool{
		queryRowFunc: func(ctx context.Context, query string, args ...any) pgx.Row {
			return &stubRow{scan: func(dest ...any) error {
				return &pgconn.PgError{Code: "23505", Message: `duplicate key value violates unique constraint "organization_email_key"`}
			}}
		},
	}}

	_, err := repo.Create(context.Background(), &entity.Organization{Email: "dup@example.com"})
	if !errors.Is(err, ErrEmailDuplicate) {
		t.Fatalf("expected ErrEmailDuplicate, got %v", err)
	}
}

func TestPGXOrganizationsRepository_List(t *testing.T) {
	repo := &PGXOrganizationsRepository{pool: &stubPool{
		queryFunc: func(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
			return &stubRows{
				scans: []func(dest ...any) error{
					func(dest ...any) error {
						return fillOrganization(dest, 1, "first@example.com")
					},
					func(dest ...any) error {
						return fillOrganization(dest, 2, "second@example.com")
					},
				},
			}, nil
		},
	}}

	orgs, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(orgs) != 2 || orgs[0].Email != "first@example.com" || orgs[1].ID != 2 {
		t.Fatalf("unexpected rows: %+v", orgs)
	}
}

func TestPGXOrganizationsRepository_SetVerified(t *testing.T) {
	repo := &PGXOrganizationsRepository{pool: &stubPool{
		execFunc: func(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
			return pgconn.NewCommandTag("UPDATE 1"), nil
		},
	}}

	if err := repo.SetVerified(context.Background(), 7, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	repo.pool = &stubPool{
		execFunc: func(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
			return pgconn.NewCommandTag("UPDATE 0"), nil
		},
	}
	if err := repo.SetVerified(context.Background(), 404, true); !errors.Is(err, ErrOrganizationNotFound) {
		t.Fatalf("expected ErrOrganizationNotFound, got %v", err)
	}
}
