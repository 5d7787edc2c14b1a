package services

import (
	"context"
	"errors"
	"fmt"

	"schedulepro/internal/analytics"
	"schedulepro/internal/models"
	"schedulepro/internal/repositories"

	"github.com/google/uuid"
)

type VehicleInput struct {
	Name         string  `json:"name" validate:"required"`
	LicensePlate string  `json:"license_plate" validate:"required"`
	Make         *string `json:"make"`
	Model        *string `json:"model"`
	Year         *int    `json:"year"`
	Capacity     *int    `json:"capacity"`
	Notes        *string `json:"notes"`
}

type VehicleService interface {
	List(ctx context.Context, companyID uuid.UUID) ([]*models.Vehicle, error)
	Get(ctx context.Context, companyID, id uuid.UUID) (*models.Vehicle, error)
	Create(ctx context.Context, companyID uuid.UUID, in *VehicleInput) (*models.Vehicle, error)
	Update(ctx context.Context, companyID, id uuid.UUID, in *VehicleInput) (*models.Vehicle, error)
	Delete(ctx context.Context, companyID, id uuid.UUID) (*models.Vehicle, error)
	Restore(ctx context.Context, companyID, id uuid.UUID) (*models.Vehicle, error)
}

const (
	msgVehicleRequired  = "Name and license plate are required"
	msgVehicleDuplicate = "A vehicle with this license plate already exists in your company"
)

type vehicleService struct {
	vehicleRepo repositories.VehicleRepository
	tracker     analytics.Tracker
}

func NewVehicleService(vehicleRepo repositories.VehicleRepository, tracker analytics.Tracker) VehicleService {
	return &vehicleService{
		vehicleRepo: vehicleRepo,
		tracker:     tracker,
	}
}

func (s *vehicleService) List(ctx context.Context, companyID uuid.UUID) ([]*models.Vehicle, error) {
	return s.vehicleRepo.List(ctx, companyID)
}

func (s *vehicleService) Get(ctx context.Context, companyID, id uuid.UUID) (*models.Vehicle, error) {
	return s.vehicleRepo.GetByID(ctx, companyID, id)
}

func (s *vehicleService) build(companyID, id uuid.UUID, in *VehicleInput) (*models.Vehicle, error) {
	if err := checkStruct(in, msgVehicleRequired, nil); err != nil {
		return nil, err
	}
	return &models.Vehicle{
		ID:           id,
		CompanyID:    companyID,
		Name:         in.Name,
		LicensePlate: in.LicensePlate,
		Make:         nullIfEmpty(in.Make),
		Model:        nullIfEmpty(in.Model),
		Year:         nullIfZero(in.Year),
		Capacity:     nullIfZero(in.Capacity),
		Notes:        nullIfEmpty(in.Notes),
	}, nil
}

func (s *vehicleService) Create(ctx context.Context, companyID uuid.UUID, in *VehicleInput) (*models.Vehicle, error) {
	vehicle, err := s.build(companyID, uuid.New(), in)
	if err != nil {
		return nil, err
	}
	if err := s.vehicleRepo.Create(ctx, vehicle); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, newValidationError(msgVehicleDuplicate)
		}
		return nil, fmt.Errorf("create vehicle: %w", err)
	}

	s.tracker.Track(ctx, "vehicle.created", &companyID, map[string]any{"vehicle_id": vehicle.ID})
	return vehicle, nil
}

func (s *vehicleService) Update(ctx context.Context, companyID, id uuid.UUID, in *VehicleInput) (*models.Vehicle, error) {
	vehicle, err := s.build(companyID, id, in)
	if err != nil {
		return nil, err
	}
	if err := s.vehicleRepo.Update(ctx, vehicle); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, newValidationError(msgVehicleDuplicate)
		}
		return nil, fmt.Errorf("update vehicle: %w", err)
	}
	return vehicle, nil
}

func (s *vehicleService) Delete(ctx context.Context, companyID, id uuid.UUID) (*models.Vehicle, error) {
	return s.vehicleRepo.SoftDelete(ctx, companyID, id)
}

func (s *vehicleService) Restore(ctx context.Context, companyID, id uuid.UUID) (*models.Vehicle, error) {
	return s.vehicleRepo.Restore(ctx, companyID, id)
}
