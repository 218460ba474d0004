package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/reloophq/waste-exchange/api/internal/auth"
	"github.com/reloophq/waste-exchange/api/internal/entity"
	"github.com/reloophq/waste-exchange/api/internal/repository"
	"github.com/reloophq/waste-exchange/api/internal/service"
)

type stubOrgsRepo struct {
	findByEmail func(ctx context.Context, email string) (*entity.Organization, error)
	create      func(ctx context.Context, org *entity.Organization) (*entity.Organization, error)
	list        func(ctx context.Context) ([]entity.Organization, error)
	setVerified func(ctx context.Context, id int64, verified bool) error
}

func (s *stubOrgsRepo) FindByEmail(ctx context.Context, email string) (*entity.Organization, error) {
	if s.findByEmail != nil {
		return s.findByEmail(ctx, email)
	}
	return nil, errors.New("not implemented")
}

func (s *stubOrgsRepo) FindByID(ctx context.Context, id int64) (*entity.Organization, error) {
	return nil, errors.New("not implemented")
}

func (s *stubOrgsRepo) Create(ctx context.Context, org *entity.Organization) (*entity.Organization, error) {
	if s.create != nil {
		return s.create(ctx, org)
	}
	return nil, errors.New("not implemented")
}

func (s *stubOrgsRepo) List(ctx context.Context) ([]entity.Organization, error) {
	if s.list != nil {
		return s.list(ctx)
	}
	return nil, errors.New("not implemented")
}

func (s *stubOrgsRepo) SetVerified(ctx context.Context, id int64, verified bool) error {
	if s.setVerified != nil {
		return s.setVerified(ctx, id, verified)
	}
	return errors.New("not implemented")
}

type stubMXResolver struct{}

func (stubMXResolver) LookupMX(ctx context.Context, domain string) ([]*net.MX, error) {
	return []*net.MX{{Host: "mx." + domain, Pref: 10}}, nil
}

func newAuthHandler(t *testing.T, repo repository.OrganizationsRepository) *AuthHandler {
	t.Helper()
	jwtManager := auth.NewJWTManager("test-secret", 0)
	validator := service.NewContactValidator("US", service.WithDNSResolver(stubMXResolver{}))
	return NewAuthHandler(service.NewAuthService(repo, jwtManager, validator))
}

func registerPayload() map[string]any {
	return map[string]any{
		"org_name":  "Green Mills",
		"email":     "ops@greenmills.example",
		"password":  "supersecret",
		"latitude":  48.2,
		"longitude": 16.4,
	}
}

func TestAuthHandler_Register(t *testing.T) {
	e := echo.New()

	t.Run("invalid payload", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBufferString("{"))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		handler := newAuthHandler(t, &stubOrgsRepo{})
		if err := handler.Register(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{"email": " ", "password": ""})
		req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		handler := newAuthHandler(t, &stubOrgsRepo{})
		_ = handler.Register(c)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("invalid registration data", func(t *testing.T) {
		payload := registerPayload()
		payload["password"] = "short"
		body, _ := json.Marshal(payload)
		req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		handler := newAuthHandler(t, &stubOrgsRepo{})
		_ = handler.Register(c)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		body, _ := json.Marshal(registerPayload())
		req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		handler := newAuthHandler(t, &stubOrgsRepo{
			create: func(ctx context.Context, org *entity.Organization) (*entity.Organization, error) {
				return nil, repository.ErrEmailDuplicate
			},
		})

		_ = handler.Register(c)
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		body, _ := json.Marshal(registerPayload())
		req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		handler := newAuthHandler(t, &stubOrgsRepo{
			create: func(ctx context.Context, org *entity.Organization) (*entity.Organization, error) {
				created := *org
				created.ID = 7
				return &created, nil
			},
		})

		_ = handler.Register(c)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", rec.Code)
		}
	})
}

func TestAuthHandler_Login(t *testing.T) {
	e := echo.New()
	hashed, _ := bcrypt.GenerateFromPassword([]byte("supersecret"), bcrypt.DefaultCost)

	t.Run("invalid payload", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString("{"))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		handler := newAuthHandler(t, &stubOrgsRepo{})
		_ = handler.Login(c)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("invalid credentials", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{"email": "ops@greenmills.example", "password": "wrong"})
		req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		handler := newAuthHandler(t, &stubOrgsRepo{
			findByEmail: func(ctx context.Context, email string) (*entity.Organization, error) {
				return &entity.Organization{ID: 7, Email: email, PasswordHash: string(hashed), Role: "organization"}, nil
			},
		})

		_ = handler.Login(c)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("unexpected error", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{"email": "ops@greenmills.example", "password": "supersecret"})
		req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		handler := newAuthHandler(t, &stubOrgsRepo{
			findByEmail: func(ctx context.Context, email string) (*entity.Organization, error) {
				return nil, errors.New("db down")
			},
		})

		_ = handler.Login(c)
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{"email": "ops@greenmills.example", "password": "supersecret"})
		req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		handler := newAuthHandler(t, &stubOrgsRepo{
			findByEmail: func(ctx context.Context, email string) (*entity.Organization, error) {
				return &entity.Organization{ID: 7, Email: email, PasswordHash: string(hashed), Role: "organization"}, nil
			},
		})

		_ = handler.Login(c)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})
}
