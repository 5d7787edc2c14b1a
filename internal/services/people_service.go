package services

import (
	"context"
	"errors"
	"fmt"

	"schedulepro/internal/analytics"
	"schedulepro/internal/caching"
	"schedulepro/internal/models"
	"schedulepro/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PersonInput is the editable part of a person, used for create and update.
type PersonInput struct {
	Name           string   `json:"name" validate:"required"`
	Email          string   `json:"email" validate:"required"`
	Phone          *string  `json:"phone"`
	HomeAddress    *string  `json:"home_address"`
	Skills         []string `json:"skills"`
	Certifications []string `json:"certifications"`
	HourlyRate     *float64 `json:"hourly_rate"`
}

type PersonService interface {
	List(ctx context.Context, companyID uuid.UUID) ([]*models.Person, error)
	Get(ctx context.Context, companyID, id uuid.UUID) (*models.Person, error)
	Create(ctx context.Context, companyID uuid.UUID, in *PersonInput) (*models.Person, error)
	Update(ctx context.Context, companyID, id uuid.UUID, in *PersonInput) (*models.Person, error)
	Delete(ctx context.Context, companyID, id uuid.UUID) (*models.Person, error)
	Restore(ctx context.Context, companyID, id uuid.UUID) (*models.Person, error)
}

const (
	msgPersonRequired  = "Name and email are required"
	msgPersonDuplicate = "A person with this email already exists in your company"
)

type personService struct {
	personRepo repositories.PersonRepository
	cache      caching.CacheService
	tracker    analytics.Tracker
	logger     *zap.Logger
}

func NewPersonService(personRepo repositories.PersonRepository, cache caching.CacheService, tracker analytics.Tracker,
	logger *zap.Logger) PersonService {
	return &personService{
		personRepo: personRepo,
		cache:      cache,
		tracker:    tracker,
		logger:     logger,
	}
}

func (s *personService) List(ctx context.Context, companyID uuid.UUID) ([]*models.Person, error) {
	return s.personRepo.List(ctx, companyID)
}

func (s *personService) Get(ctx context.Context, companyID, id uuid.UUID) (*models.Person, error) {
	return s.personRepo.GetByID(ctx, companyID, id)
}

func (s *personService) Create(ctx context.Context, companyID uuid.UUID, in *PersonInput) (*models.Person, error) {
	if err := checkStruct(in, msgPersonRequired, nil); err != nil {
		return nil, err
	}

	person := &models.Person{
		ID:             uuid.New(),
		CompanyID:      companyID,
		Name:           in.Name,
		Email:          in.Email,
		Phone:          nullIfEmpty(in.Phone),
		HomeAddress:    nullIfEmpty(in.HomeAddress),
		Skills:         in.Skills,
		Certifications: in.Certifications,
		HourlyRate:     in.HourlyRate,
	}
	if person.Skills == nil {
		person.Skills = []string{}
	}
	if person.Certifications == nil {
		person.Certifications = []string{}
	}

	if err := s.personRepo.Create(ctx, person); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, newValidationError(msgPersonDuplicate)
		}
		return nil, fmt.Errorf("create person: %w", err)
	}

	s.tracker.Track(ctx, "person.created", &companyID, map[string]any{"person_id": person.ID})
	return person, nil
}

// Update replaces the contact fields. Skills, certifications and hourly rate
// change only when supplied.
func (s *personService) Update(ctx context.Context, companyID, id uuid.UUID, in *PersonInput) (*models.Person, error) {
	if err := checkStruct(in, msgPersonRequired, nil); err != nil {
		return nil, err
	}

	person := &models.Person{
		ID:             id,
		CompanyID:      companyID,
		Name:           in.Name,
		Email:          in.Email,
		Phone:          nullIfEmpty(in.Phone),
		HomeAddress:    nullIfEmpty(in.HomeAddress),
		Skills:         in.Skills,
		Certifications: in.Certifications,
		HourlyRate:     in.HourlyRate,
	}
	if err := s.personRepo.Update(ctx, person); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, newValidationError(msgPersonDuplicate)
		}
		return nil, fmt.Errorf("update person: %w", err)
	}
	return person, nil
}

// Delete soft-deletes the person. A linked user loses company access on the
// next request, not when the cached principal expires.
func (s *personService) Delete(ctx context.Context, companyID, id uuid.UUID) (*models.Person, error) {
	person, err := s.personRepo.SoftDelete(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	s.evictPrincipal(ctx, person)
	return person, nil
}

func (s *personService) Restore(ctx context.Context, companyID, id uuid.UUID) (*models.Person, error) {
	person, err := s.personRepo.Restore(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	s.evictPrincipal(ctx, person)
	return person, nil
}

func (s *personService) evictPrincipal(ctx context.Context, person *models.Person) {
	if person.UserID == nil {
		return
	}
	if err := s.cache.DeletePrincipal(ctx, *person.UserID); err != nil {
		s.logger.Warn("failed to evict cached principal", zap.String("user_id", person.UserID.String()), zap.Error(err))
	}
}
