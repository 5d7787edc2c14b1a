package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"schedulepro/internal/analytics"
	"schedulepro/internal/caching"
	"schedulepro/internal/models"
	"schedulepro/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RegisterInput struct {
	CompanyName string `json:"company_name" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required"`
	Password    string `json:"password" validate:"required"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthService interface {
	// Register signs the user up at the provider, then creates the company
	// and its owner person.
	Register(ctx context.Context, in *RegisterInput) (*models.AuthResult, error)
	Login(ctx context.Context, in *LoginInput) (*models.AuthResult, error)
	// Logout ends the provider session and denies the token locally until expiresAt.
	Logout(ctx context.Context, accessToken string, userID uuid.UUID, expiresAt time.Time) error
	Me(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
}

// ErrInvalidCredentials is returned when the provider rejects a login.
var ErrInvalidCredentials = errors.New("invalid email or password")

const (
	msgRegisterRequired = "Missing required fields: company_name, name, email, password"
	msgPasswordLength   = "Password must be at least 8 characters"
	msgLoginRequired    = "Email and password are required"
	msgSignupFailed     = "Failed to create user account"
	minPasswordLength   = 8
)

var slugSeparators = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases name and joins its alphanumeric runs with dashes.
func Slugify(name string) string {
	slug := slugSeparators.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}

type authService struct {
	identity    IdentityProvider
	companyRepo repositories.CompanyRepository
	personRepo  repositories.PersonRepository
	cache       caching.CacheService
	tracker     analytics.Tracker
	logger      *zap.Logger
}

func NewAuthService(identity IdentityProvider, companyRepo repositories.CompanyRepository,
	personRepo repositories.PersonRepository, cache caching.CacheService, tracker analytics.Tracker,
	logger *zap.Logger) AuthService {
	return &authService{
		identity:    identity,
		companyRepo: companyRepo,
		personRepo:  personRepo,
		cache:       cache,
		tracker:     tracker,
		logger:      logger,
	}
}

func (s *authService) Register(ctx context.Context, in *RegisterInput) (*models.AuthResult, error) {
	if err := checkStruct(in, msgRegisterRequired, nil); err != nil {
		return nil, err
	}
	if len(in.Password) < minPasswordLength {
		return nil, newValidationError(msgPasswordLength)
	}

	user, session, err := s.identity.SignUp(ctx, in.Email, in.Password, map[string]any{"name": in.Name})
	if err != nil {
		var pErr *ProviderError
		if errors.As(err, &pErr) && pErr.StatusCode < 500 {
			msg := pErr.Message
			if msg == "" {
				msg = msgSignupFailed
			}
			return nil, newValidationError(msg)
		}
		return nil, fmt.Errorf("sign up: %w", err)
	}

	company := &models.Company{
		ID:       uuid.New(),
		Name:     in.CompanyName,
		Slug:     Slugify(in.CompanyName),
		Settings: map[string]any{},
	}
	userID := user.ID
	owner := &models.Person{
		ID:        uuid.New(),
		CompanyID: company.ID,
		UserID:    &userID,
		Name:      in.Name,
		Email:     in.Email,
	}
	if err := s.companyRepo.Register(ctx, company, owner); err != nil {
		// TODO: delete the provider user so the email can be registered again.
		return nil, fmt.Errorf("register company: %w", err)
	}

	if err := s.cache.DeletePrincipal(ctx, userID); err != nil {
		s.logger.Warn("failed to evict cached principal", zap.String("user_id", userID.String()), zap.Error(err))
	}
	s.tracker.Track(ctx, "company.registered", &company.ID, map[string]any{"slug": company.Slug})

	return &models.AuthResult{
		User:    user,
		Session: session,
		Profile: &models.Profile{
			Person:  *owner,
			Company: models.CompanySummary{ID: company.ID, Name: company.Name, Slug: company.Slug},
		},
	}, nil
}

func (s *authService) Login(ctx context.Context, in *LoginInput) (*models.AuthResult, error) {
	if err := checkStruct(in, msgLoginRequired, nil); err != nil {
		return nil, err
	}

	user, session, err := s.identity.SignInWithPassword(ctx, in.Email, in.Password)
	if err != nil {
		s.logger.Info("login rejected by auth provider", zap.Error(err))
		return nil, ErrInvalidCredentials
	}

	profile, err := s.personRepo.GetProfileByUserID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	return &models.AuthResult{User: user, Session: session, Profile: profile}, nil
}

func (s *authService) Logout(ctx context.Context, accessToken string, userID uuid.UUID, expiresAt time.Time) error {
	if err := s.identity.SignOut(ctx, accessToken); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	if err := s.cache.RevokeToken(ctx, accessToken, time.Until(expiresAt)); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	if err := s.cache.DeletePrincipal(ctx, userID); err != nil {
		s.logger.Warn("failed to evict cached principal", zap.String("user_id", userID.String()), zap.Error(err))
	}
	return nil
}

func (s *authService) Me(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	return s.personRepo.GetProfileByUserID(ctx, userID)
}
