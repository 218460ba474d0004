package service

import (
	"context"
	"errors"
	"strconv"

	"golang.org/x/crypto/bcrypt"

	"github.com/reloophq/waste-exchange/api/internal/auth"
	"github.com/reloophq/waste-exchange/api/internal/dto"
	"github.com/reloophq/waste-exchange/api/internal/entity"
	"github.com/reloophq/waste-exchange/api/internal/repository"
)

// ErrInvalidCredentials is returned for an unknown email or a wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// RegistrationError indicates that the submitted registration data is invalid.
type RegistrationError struct {
	Message string
}

// Error implements the error interface.
func (e RegistrationError) Error() string {
	return e.Message
}

// AuthService coordinates organization registration, credential
// validation and token issuance.
type AuthService struct {
	orgs      repository.OrganizationsRepository
	jwt       *auth.JWTManager
	validator *ContactValidator
}

// NewAuthService constructs a new AuthService.
func NewAuthService(orgs repository.OrganizationsRepository, jwtManager *auth.JWTManager, validator *ContactValidator) *AuthService {
	return &AuthService{orgs: orgs, jwt: jwtManager, validator: validator}
}

// Register validates the submitted contact details and creates a new,
// unverified organization.
func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (*entity.Organization, error) {
	name := s.validator.NormalizeAddress(req.OrgName)
	if name == "" {
		return nil, RegistrationError{Message: "org_name is required"}
	}
	if len(req.Password) < 8 {
		return nil, RegistrationError{Message: "password must be at least 8 characters"}
	}

	email, err := s.validator.ValidateEmail(ctx, req.Email)
	if err != nil {
		return nil, RegistrationError{Message: err.Error()}
	}
	phone, err := s.validator.ValidatePhone(req.Phone)
	if err != nil {
		return nil, RegistrationError{Message: err.Error()}
	}
	if err := s.validator.ValidateCoordinates(req.Latitude, req.Longitude); err != nil {
		return nil, RegistrationError{Message: err.Error()}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	org := &entity.Organization{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         "organization",
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
	}
	if phone != "" {
		org.Phone = &phone
	}
	if address := s.validator.NormalizeAddress(req.Address); address != "" {
		org.Address = &address
	}

	return s.orgs.Create(ctx, org)
}

// Login validates credentials and returns a JWT with the organization.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *entity.Organization, error) {
	if email == "" || password == "" {
		return "", nil, ErrInvalidCredentials
	}

	org, err := s.orgs.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrOrganizationNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(org.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(strconv.FormatInt(org.ID, 10), org.Email, org.Role)
	if err != nil {
		return "", nil, err
	}

	return token, org, nil
}
