package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"schedulepro/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

type AuthServiceTestSuite struct {
	suite.Suite
	identity    *MockIdentityProvider
	companyRepo *MockCompanyRepository
	personRepo  *MockPersonRepository
	cache       *MockCacheService
	tracker     *MockTracker
	service     AuthService
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.identity = &MockIdentityProvider{}
	suite.companyRepo = &MockCompanyRepository{}
	suite.personRepo = &MockPersonRepository{}
	suite.cache = &MockCacheService{}
	suite.tracker = &MockTracker{}
	suite.service = NewAuthService(suite.identity, suite.companyRepo, suite.personRepo, suite.cache, suite.tracker, zap.NewNop())

	suite.identity.Test(suite.T())
	suite.companyRepo.Test(suite.T())
	suite.personRepo.Test(suite.T())
	suite.cache.Test(suite.T())
}

func (suite *AuthServiceTestSuite) TearDownTest() {
	suite.identity.AssertExpectations(suite.T())
	suite.companyRepo.AssertExpectations(suite.T())
	suite.personRepo.AssertExpectations(suite.T())
	suite.cache.AssertExpectations(suite.T())
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}

func (suite *AuthServiceTestSuite) registerInput() *RegisterInput {
	return &RegisterInput{
		CompanyName: "Acme Field Services",
		Name:        "Dana Reyes",
		Email:       "dana@example.com",
		Password:    "correct-horse",
	}
}

func (suite *AuthServiceTestSuite) TestRegister_Success() {
	ctx := context.Background()
	user := &models.AuthUser{ID: uuid.New(), Email: "dana@example.com"}
	session := &models.AuthSession{AccessToken: "access", TokenType: "bearer"}

	suite.identity.On("SignUp", ctx, "dana@example.com", "correct-horse", map[string]any{"name": "Dana Reyes"}).
		Return(user, session, nil)
	suite.companyRepo.On("Register", ctx,
		mock.MatchedBy(func(c *models.Company) bool {
			return c.Name == "Acme Field Services" && c.Slug == "acme-field-services"
		}),
		mock.MatchedBy(func(p *models.Person) bool {
			return *p.UserID == user.ID && p.Email == "dana@example.com" && p.Name == "Dana Reyes"
		})).Return(nil)
	suite.cache.On("DeletePrincipal", ctx, user.ID).Return(nil)

	result, err := suite.service.Register(ctx, suite.registerInput())

	suite.Require().NoError(err)
	assert.Equal(suite.T(), user, result.User)
	assert.Equal(suite.T(), session, result.Session)
	assert.Equal(suite.T(), "acme-field-services", result.Profile.Company.Slug)
	assert.Equal(suite.T(), result.Profile.Company.ID, result.Profile.Person.CompanyID)
	assert.Equal(suite.T(), []string{"company.registered"}, suite.tracker.Events)
}

func (suite *AuthServiceTestSuite) TestRegister_Validation() {
	tests := []struct {
		name   string
		mutate func(in *RegisterInput)
		msg    string
	}{
		{"missing company", func(in *RegisterInput) { in.CompanyName = "" }, msgRegisterRequired},
		{"missing password", func(in *RegisterInput) { in.Password = "" }, msgRegisterRequired},
		{"short password", func(in *RegisterInput) { in.Password = "short" }, msgPasswordLength},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			in := suite.registerInput()
			tt.mutate(in)

			_, err := suite.service.Register(context.Background(), in)

			vErr, ok := IsValidationError(err)
			suite.Require().True(ok)
			assert.Equal(suite.T(), tt.msg, vErr.Message)
		})
	}
}

func (suite *AuthServiceTestSuite) TestRegister_ProviderRejects() {
	ctx := context.Background()
	suite.identity.On("SignUp", ctx, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, nil, &ProviderError{StatusCode: 422, Message: "User already registered"})

	_, err := suite.service.Register(ctx, suite.registerInput())

	vErr, ok := IsValidationError(err)
	suite.Require().True(ok)
	assert.Equal(suite.T(), "User already registered", vErr.Message)
}

func (suite *AuthServiceTestSuite) TestRegister_ProviderDown() {
	ctx := context.Background()
	suite.identity.On("SignUp", ctx, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, nil, &ProviderError{StatusCode: 503, Message: "unavailable"})

	_, err := suite.service.Register(ctx, suite.registerInput())

	assert.Error(suite.T(), err)
	_, isValidation := IsValidationError(err)
	assert.False(suite.T(), isValidation)
}

func (suite *AuthServiceTestSuite) TestLogin_InvalidCredentials() {
	ctx := context.Background()
	suite.identity.On("SignInWithPassword", ctx, "dana@example.com", "wrong-password").
		Return(nil, nil, &ProviderError{StatusCode: 400, Message: "Invalid login credentials"})

	_, err := suite.service.Login(ctx, &LoginInput{Email: "dana@example.com", Password: "wrong-password"})

	assert.ErrorIs(suite.T(), err, ErrInvalidCredentials)
}

func (suite *AuthServiceTestSuite) TestLogin_MissingFields() {
	_, err := suite.service.Login(context.Background(), &LoginInput{Email: "dana@example.com"})

	vErr, ok := IsValidationError(err)
	suite.Require().True(ok)
	assert.Equal(suite.T(), msgLoginRequired, vErr.Message)
}

func (suite *AuthServiceTestSuite) TestLogin_NoProfile() {
	ctx := context.Background()
	user := &models.AuthUser{ID: uuid.New()}
	suite.identity.On("SignInWithPassword", ctx, mock.Anything, mock.Anything).
		Return(user, &models.AuthSession{}, nil)
	suite.personRepo.On("GetProfileByUserID", ctx, user.ID).Return(nil, ErrNotFound)

	_, err := suite.service.Login(ctx, &LoginInput{Email: "dana@example.com", Password: "correct-horse"})

	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *AuthServiceTestSuite) TestLogout_RevokesToken() {
	ctx := context.Background()
	userID := uuid.New()
	expiresAt := time.Now().Add(30 * time.Minute)

	suite.identity.On("SignOut", ctx, "raw-token").Return(nil)
	suite.cache.On("RevokeToken", ctx, "raw-token", mock.MatchedBy(func(ttl time.Duration) bool {
		return ttl > 29*time.Minute && ttl <= 30*time.Minute
	})).Return(nil)
	suite.cache.On("DeletePrincipal", ctx, userID).Return(errors.New("redis down"))

	err := suite.service.Logout(ctx, "raw-token", userID, expiresAt)

	assert.NoError(suite.T(), err)
}

func (suite *AuthServiceTestSuite) TestLogout_ProviderFailure() {
	ctx := context.Background()
	suite.identity.On("SignOut", ctx, "raw-token").Return(errors.New("timeout"))

	err := suite.service.Logout(ctx, "raw-token", uuid.New(), time.Now().Add(time.Hour))

	assert.ErrorContains(suite.T(), err, "sign out")
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Acme Field Services": "acme-field-services",
		"  O'Brien & Sons!! ": "o-brien-sons",
		"ÉCOLE 42":            "cole-42",
		"---":                 "",
	}
	for name, want := range tests {
		assert.Equal(t, want, Slugify(name), name)
	}
}
