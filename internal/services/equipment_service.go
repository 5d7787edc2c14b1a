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

type EquipmentInput struct {
	Name         string  `json:"name" validate:"required"`
	SerialNumber string  `json:"serial_number" validate:"required"`
	Type         *string `json:"type"`
	Condition    *string `json:"condition" validate:"omitempty,oneof=excellent good fair poor"`
	Notes        *string `json:"notes"`
}

type EquipmentService interface {
	List(ctx context.Context, companyID uuid.UUID) ([]*models.Equipment, error)
	Get(ctx context.Context, companyID, id uuid.UUID) (*models.Equipment, error)
	Create(ctx context.Context, companyID uuid.UUID, in *EquipmentInput) (*models.Equipment, error)
	Update(ctx context.Context, companyID, id uuid.UUID, in *EquipmentInput) (*models.Equipment, error)
	Delete(ctx context.Context, companyID, id uuid.UUID) (*models.Equipment, error)
	Restore(ctx context.Context, companyID, id uuid.UUID) (*models.Equipment, error)
}

const (
	msgEquipmentRequired  = "Name and serial number are required"
	msgEquipmentCondition = "Condition must be one of: excellent, good, fair, poor"
	msgEquipmentDuplicate = "Equipment with this serial number already exists in your company"
)

type equipmentService struct {
	equipmentRepo repositories.EquipmentRepository
	tracker       analytics.Tracker
}

func NewEquipmentService(equipmentRepo repositories.EquipmentRepository, tracker analytics.Tracker) EquipmentService {
	return &equipmentService{
		equipmentRepo: equipmentRepo,
		tracker:       tracker,
	}
}

func (s *equipmentService) List(ctx context.Context, companyID uuid.UUID) ([]*models.Equipment, error) {
	return s.equipmentRepo.List(ctx, companyID)
}

func (s *equipmentService) Get(ctx context.Context, companyID, id uuid.UUID) (*models.Equipment, error) {
	return s.equipmentRepo.GetByID(ctx, companyID, id)
}

func (s *equipmentService) build(companyID, id uuid.UUID, in *EquipmentInput) (*models.Equipment, error) {
	in.Condition = nullIfEmpty(in.Condition)
	if err := checkStruct(in, msgEquipmentRequired, map[string]string{"Condition": msgEquipmentCondition}); err != nil {
		return nil, err
	}
	return &models.Equipment{
		ID:           id,
		CompanyID:    companyID,
		Name:         in.Name,
		SerialNumber: in.SerialNumber,
		Type:         nullIfEmpty(in.Type),
		Condition:    in.Condition,
		Notes:        nullIfEmpty(in.Notes),
	}, nil
}

func (s *equipmentService) Create(ctx context.Context, companyID uuid.UUID, in *EquipmentInput) (*models.Equipment, error) {
	equipment, err := s.build(companyID, uuid.New(), in)
	if err != nil {
		return nil, err
	}
	if err := s.equipmentRepo.Create(ctx, equipment); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, newValidationError(msgEquipmentDuplicate)
		}
		return nil, fmt.Errorf("create equipment: %w", err)
	}

	s.tracker.Track(ctx, "equipment.created", &companyID, map[string]any{"equipment_id": equipment.ID})
	return equipment, nil
}

func (s *equipmentService) Update(ctx context.Context, companyID, id uuid.UUID, in *EquipmentInput) (*models.Equipment, error) {
	equipment, err := s.build(companyID, id, in)
	if err != nil {
		return nil, err
	}
	if err := s.equipmentRepo.Update(ctx, equipment); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, newValidationError(msgEquipmentDuplicate)
		}
		return nil, fmt.Errorf("update equipment: %w", err)
	}
	return equipment, nil
}

func (s *equipmentService) Delete(ctx context.Context, companyID, id uuid.UUID) (*models.Equipment, error) {
	return s.equipmentRepo.SoftDelete(ctx, companyID, id)
}

func (s *equipmentService) Restore(ctx context.Context, companyID, id uuid.UUID) (*models.Equipment, error) {
	return s.equipmentRepo.Restore(ctx, companyID, id)
}
