package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"schedulepro/internal/analytics"
	"schedulepro/internal/models"
	"schedulepro/internal/repositories"

	"github.com/google/uuid"
)

// BookingInput is the create and update payload. Requirements stays raw so
// an omitted key can be told apart from an explicit null.
type BookingInput struct {
	Title        string          `json:"title" validate:"required"`
	Location     *string         `json:"location"`
	StartTime    string          `json:"start_time" validate:"required"`
	EndTime      string          `json:"end_time" validate:"required"`
	Notes        *string         `json:"notes"`
	Requirements json.RawMessage `json:"requirements"`
	People       []uuid.UUID     `json:"people"`
	Vehicles     []uuid.UUID     `json:"vehicles"`
	Equipment    []uuid.UUID     `json:"equipment"`
}

type BookingService interface {
	List(ctx context.Context, companyID uuid.UUID) ([]*models.Booking, error)
	Get(ctx context.Context, companyID, id uuid.UUID) (*models.Booking, error)
	Create(ctx context.Context, companyID uuid.UUID, createdBy *uuid.UUID, in *BookingInput) (*models.Booking, error)
	Update(ctx context.Context, companyID, id uuid.UUID, in *BookingInput) (*models.Booking, error)
	Delete(ctx context.Context, companyID, id uuid.UUID) (*models.Booking, error)
	Restore(ctx context.Context, companyID, id uuid.UUID) (*models.Booking, error)
}

const (
	msgBookingRequired  = "Title, start time, and end time are required"
	msgBookingTimes     = "Invalid start time or end time format"
	msgBookingTimeOrder = "End time must be after start time"
)

type bookingService struct {
	bookingRepo repositories.BookingRepository
	tracker     analytics.Tracker
}

func NewBookingService(bookingRepo repositories.BookingRepository, tracker analytics.Tracker) BookingService {
	return &bookingService{
		bookingRepo: bookingRepo,
		tracker:     tracker,
	}
}

func (s *bookingService) List(ctx context.Context, companyID uuid.UUID) ([]*models.Booking, error) {
	return s.bookingRepo.List(ctx, companyID)
}

func (s *bookingService) Get(ctx context.Context, companyID, id uuid.UUID) (*models.Booking, error) {
	return s.bookingRepo.GetByID(ctx, companyID, id)
}

// build validates the payload and returns the booking row it describes.
func (s *bookingService) build(companyID, id uuid.UUID, in *BookingInput) (*models.Booking, error) {
	if err := checkStruct(in, msgBookingRequired, nil); err != nil {
		return nil, err
	}

	start, err := time.Parse(time.RFC3339, in.StartTime)
	if err != nil {
		return nil, newValidationError(msgBookingTimes)
	}
	end, err := time.Parse(time.RFC3339, in.EndTime)
	if err != nil {
		return nil, newValidationError(msgBookingTimes)
	}
	if !end.After(start) {
		return nil, newValidationError(msgBookingTimeOrder)
	}

	requirements, err := ParseRequirements(in.Requirements)
	if err != nil {
		return nil, err
	}

	return &models.Booking{
		ID:           id,
		CompanyID:    companyID,
		Title:        in.Title,
		Location:     nullIfEmpty(in.Location),
		StartTime:    start,
		EndTime:      end,
		Notes:        nullIfEmpty(in.Notes),
		Requirements: requirements,
		People:       in.People,
		Vehicles:     in.Vehicles,
		Equipment:    in.Equipment,
	}, nil
}

func (s *bookingService) Create(ctx context.Context, companyID uuid.UUID, createdBy *uuid.UUID, in *BookingInput) (*models.Booking, error) {
	booking, err := s.build(companyID, uuid.New(), in)
	if err != nil {
		return nil, err
	}
	booking.CreatedBy = createdBy

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.tracker.Track(ctx, "booking.created", &companyID, map[string]any{
		"booking_id":       booking.ID,
		"people_count":     len(booking.People),
		"vehicles_count":   len(booking.Vehicles),
		"equipment_count":  len(booking.Equipment),
		"has_requirements": !booking.Requirements.IsEmpty(),
	})
	return booking, nil
}

// Update rewrites the booking and replaces its resource set. Requirements
// are only replaced when the payload carries the key.
func (s *bookingService) Update(ctx context.Context, companyID, id uuid.UUID, in *BookingInput) (*models.Booking, error) {
	booking, err := s.build(companyID, id, in)
	if err != nil {
		return nil, err
	}

	replaceRequirements := in.Requirements != nil
	if err := s.bookingRepo.Update(ctx, booking, replaceRequirements); err != nil {
		return nil, fmt.Errorf("update booking: %w", err)
	}

	s.tracker.Track(ctx, "booking.updated", &companyID, map[string]any{"booking_id": booking.ID})
	return booking, nil
}

func (s *bookingService) Delete(ctx context.Context, companyID, id uuid.UUID) (*models.Booking, error) {
	booking, err := s.bookingRepo.SoftDelete(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	s.tracker.Track(ctx, "booking.deleted", &companyID, map[string]any{"booking_id": id})
	return booking, nil
}

func (s *bookingService) Restore(ctx context.Context, companyID, id uuid.UUID) (*models.Booking, error) {
	booking, err := s.bookingRepo.Restore(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	s.tracker.Track(ctx, "booking.restored", &companyID, map[string]any{"booking_id": id})
	return booking, nil
}
