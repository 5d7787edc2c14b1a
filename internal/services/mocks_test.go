package services

import (
	"context"
	"io"
	"time"

	"schedulepro/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockPersonRepository struct {
	mock.Mock
}

func (m *MockPersonRepository) Create(ctx context.Context, person *models.Person) error {
	args := m.Called(ctx, person)
	return args.Error(0)
}

func (m *MockPersonRepository) GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.Person, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Person), args.Error(1)
}

func (m *MockPersonRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Person, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Person), args.Error(1)
}

func (m *MockPersonRepository) GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockPersonRepository) List(ctx context.Context, companyID uuid.UUID) ([]*models.Person, error) {
	args := m.Called(ctx, companyID)
	return args.Get(0).([]*models.Person), args.Error(1)
}

func (m *MockPersonRepository) Update(ctx context.Context, person *models.Person) error {
	args := m.Called(ctx, person)
	return args.Error(0)
}

func (m *MockPersonRepository) SoftDelete(ctx context.Context, companyID, id uuid.UUID) (*models.Person, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Person), args.Error(1)
}

func (m *MockPersonRepository) Restore(ctx context.Context, companyID, id uuid.UUID) (*models.Person, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Person), args.Error(1)
}

type MockVehicleRepository struct {
	mock.Mock
}

func (m *MockVehicleRepository) Create(ctx context.Context, vehicle *models.Vehicle) error {
	args := m.Called(ctx, vehicle)
	return args.Error(0)
}

func (m *MockVehicleRepository) GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.Vehicle, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vehicle), args.Error(1)
}

func (m *MockVehicleRepository) List(ctx context.Context, companyID uuid.UUID) ([]*models.Vehicle, error) {
	args := m.Called(ctx, companyID)
	return args.Get(0).([]*models.Vehicle), args.Error(1)
}

func (m *MockVehicleRepository) Update(ctx context.Context, vehicle *models.Vehicle) error {
	args := m.Called(ctx, vehicle)
	return args.Error(0)
}

func (m *MockVehicleRepository) SoftDelete(ctx context.Context, companyID, id uuid.UUID) (*models.Vehicle, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vehicle), args.Error(1)
}

func (m *MockVehicleRepository) Restore(ctx context.Context, companyID, id uuid.UUID) (*models.Vehicle, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vehicle), args.Error(1)
}

type MockEquipmentRepository struct {
	mock.Mock
}

func (m *MockEquipmentRepository) Create(ctx context.Context, equipment *models.Equipment) error {
	args := m.Called(ctx, equipment)
	return args.Error(0)
}

func (m *MockEquipmentRepository) GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.Equipment, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Equipment), args.Error(1)
}

func (m *MockEquipmentRepository) List(ctx context.Context, companyID uuid.UUID) ([]*models.Equipment, error) {
	args := m.Called(ctx, companyID)
	return args.Get(0).([]*models.Equipment), args.Error(1)
}

func (m *MockEquipmentRepository) Update(ctx context.Context, equipment *models.Equipment) error {
	args := m.Called(ctx, equipment)
	return args.Error(0)
}

func (m *MockEquipmentRepository) SoftDelete(ctx context.Context, companyID, id uuid.UUID) (*models.Equipment, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Equipment), args.Error(1)
}

func (m *MockEquipmentRepository) Restore(ctx context.Context, companyID, id uuid.UUID) (*models.Equipment, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Equipment), args.Error(1)
}

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.Booking, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockBookingRepository) List(ctx context.Context, companyID uuid.UUID) ([]*models.Booking, error) {
	args := m.Called(ctx, companyID)
	return args.Get(0).([]*models.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListInRange(ctx context.Context, companyID uuid.UUID, from, to time.Time) ([]*models.Booking, error) {
	args := m.Called(ctx, companyID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Booking), args.Error(1)
}

func (m *MockBookingRepository) Update(ctx context.Context, booking *models.Booking, replaceRequirements bool) error {
	args := m.Called(ctx, booking, replaceRequirements)
	return args.Error(0)
}

func (m *MockBookingRepository) SoftDelete(ctx context.Context, companyID, id uuid.UUID) (*models.Booking, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockBookingRepository) Restore(ctx context.Context, companyID, id uuid.UUID) (*models.Booking, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

type MockCompanyRepository struct {
	mock.Mock
}

func (m *MockCompanyRepository) Register(ctx context.Context, company *models.Company, owner *models.Person) error {
	args := m.Called(ctx, company, owner)
	return args.Error(0)
}

func (m *MockCompanyRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Company), args.Error(1)
}

// MockTracker records tracked events without expectations.
type MockTracker struct {
	Events []string
}

func (m *MockTracker) Track(_ context.Context, eventName string, _ *uuid.UUID, _ map[string]any) {
	m.Events = append(m.Events, eventName)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetPrincipal(ctx context.Context, userID uuid.UUID) (*models.Principal, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Principal), args.Error(1)
}

func (m *MockCacheService) SetPrincipal(ctx context.Context, principal *models.Principal, ttl time.Duration) error {
	args := m.Called(ctx, principal, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeletePrincipal(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockCacheService) RevokeToken(ctx context.Context, rawToken string, ttl time.Duration) error {
	args := m.Called(ctx, rawToken, ttl)
	return args.Error(0)
}

func (m *MockCacheService) IsTokenRevoked(ctx context.Context, rawToken string) (bool, error) {
	args := m.Called(ctx, rawToken)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCacheService) Close() error {
	args := m.Called()
	return args.Error(0)
}

type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) SignUp(ctx context.Context, email, password string, metadata map[string]any) (*models.AuthUser, *models.AuthSession, error) {
	args := m.Called(ctx, email, password, metadata)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*models.AuthUser), args.Get(1).(*models.AuthSession), args.Error(2)
}

func (m *MockIdentityProvider) SignInWithPassword(ctx context.Context, email, password string) (*models.AuthUser, *models.AuthSession, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*models.AuthUser), args.Get(1).(*models.AuthSession), args.Error(2)
}

func (m *MockIdentityProvider) SignOut(ctx context.Context, accessToken string) error {
	args := m.Called(ctx, accessToken)
	return args.Error(0)
}

type MockObjectStorage struct {
	mock.Mock
	Uploaded []byte
}

func (m *MockObjectStorage) Upload(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, contentType string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	m.Uploaded = data
	args := m.Called(ctx, bucketName, objectName, objectSize, contentType)
	return args.Error(0)
}

func (m *MockObjectStorage) GetPresignedURL(ctx context.Context, bucketName, objectName string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, bucketName, objectName, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockObjectStorage) EnsureBucketExists(ctx context.Context, bucketName string) error {
	args := m.Called(ctx, bucketName)
	return args.Error(0)
}

func stringPtr(s string) *string {
	return &s
}
