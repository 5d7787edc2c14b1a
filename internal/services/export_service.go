package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"schedulepro/internal/analytics"
	"schedulepro/internal/models"
	"schedulepro/internal/repositories"

	"github.com/google/uuid"
	"github.com/jinzhu/now"
)

const exportLinkExpiry = 15 * time.Minute

// ExportFormat is the file type of a bookings export.
type ExportFormat string

const (
	ExportCSV ExportFormat = "csv"
	ExportPDF ExportFormat = "pdf"
)

const msgExportFormat = "Export format must be csv or pdf"

// ParseExportFormat maps the format query value, defaulting to CSV.
func ParseExportFormat(value string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(value)) {
	case "", ExportCSV:
		return ExportCSV, nil
	case ExportPDF:
		return ExportPDF, nil
	}
	return "", newValidationError(msgExportFormat)
}

func (f ExportFormat) contentType() string {
	if f == ExportPDF {
		return "application/pdf"
	}
	return "text/csv"
}

// ExportRange is the half-open start_time window [From, To) of an export.
type ExportRange struct {
	From time.Time
	To   time.Time
}

type ExportResult struct {
	ObjectName string       `json:"object_name"`
	Format     ExportFormat `json:"format"`
	URL        string       `json:"url"`
	Rows       int          `json:"rows"`
	From       time.Time    `json:"from"`
	To         time.Time    `json:"to"`
	ExpiresAt  time.Time    `json:"expires_at"`
}

type ExportService interface {
	// ExportBookings writes the company's bookings in r to a CSV or PDF object
	// and returns a download link. Zero bounds default to the current month.
	ExportBookings(ctx context.Context, companyID uuid.UUID, r ExportRange, format ExportFormat) (*ExportResult, error)
}

type exportService struct {
	bookingRepo repositories.BookingRepository
	storage     ObjectStorage
	bucket      string
	tracker     analytics.Tracker
	clock       func() time.Time
}

func NewExportService(bookingRepo repositories.BookingRepository, storage ObjectStorage, bucket string, tracker analytics.Tracker) ExportService {
	return &exportService{
		bookingRepo: bookingRepo,
		storage:     storage,
		bucket:      bucket,
		tracker:     tracker,
		clock:       time.Now,
	}
}

// resolveRange fills missing bounds from the calendar month containing now.
func resolveRange(r ExportRange, current time.Time) (ExportRange, error) {
	month := now.With(current.UTC())
	if r.From.IsZero() {
		r.From = month.BeginningOfMonth()
	}
	if r.To.IsZero() {
		r.To = now.With(r.From).BeginningOfMonth().AddDate(0, 1, 0)
	}
	if !r.To.After(r.From) {
		return r, newValidationError("Export range end must be after its start")
	}
	return r, nil
}

func (s *exportService) ExportBookings(ctx context.Context, companyID uuid.UUID, r ExportRange, format ExportFormat) (*ExportResult, error) {
	current := s.clock()
	r, err := resolveRange(r, current)
	if err != nil {
		return nil, err
	}

	bookings, err := s.bookingRepo.ListInRange(ctx, companyID, r.From, r.To)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	var data []byte
	if format == ExportPDF {
		data, err = encodeBookingsPDF(bookings, r, current)
	} else {
		format = ExportCSV
		data, err = encodeBookingsCSV(bookings)
	}
	if err != nil {
		return nil, err
	}

	if err := s.storage.EnsureBucketExists(ctx, s.bucket); err != nil {
		return nil, fmt.Errorf("ensure bucket: %w", err)
	}
	objectName := fmt.Sprintf("%s/bookings-%s.%s", companyID, current.UTC().Format("20060102T150405Z"), format)
	if err := s.storage.Upload(ctx, s.bucket, objectName, bytes.NewReader(data), int64(len(data)), format.contentType()); err != nil {
		return nil, fmt.Errorf("upload export: %w", err)
	}
	url, err := s.storage.GetPresignedURL(ctx, s.bucket, objectName, exportLinkExpiry)
	if err != nil {
		return nil, fmt.Errorf("presign export: %w", err)
	}

	s.tracker.Track(ctx, "bookings.exported", &companyID, map[string]any{"rows": len(bookings), "format": format})

	return &ExportResult{
		ObjectName: objectName,
		Format:     format,
		URL:        url,
		Rows:       len(bookings),
		From:       r.From,
		To:         r.To,
		ExpiresAt:  current.Add(exportLinkExpiry),
	}, nil
}

var exportHeader = []string{
	"id", "title", "location", "start_time", "end_time", "notes",
	"people", "vehicles", "equipment", "required_people", "required_vehicles", "required_equipment",
}

func encodeBookingsCSV(bookings []*models.Booking) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}
	for _, b := range bookings {
		record := []string{
			b.ID.String(),
			b.Title,
			deref(b.Location),
			b.StartTime.UTC().Format(time.RFC3339),
			b.EndTime.UTC().Format(time.RFC3339),
			deref(b.Notes),
			joinIDs(b.People),
			joinIDs(b.Vehicles),
			joinIDs(b.Equipment),
			strconv.Itoa(requiredPeople(b.Requirements)),
			strconv.Itoa(requiredVehicles(b.Requirements)),
			strconv.Itoa(requiredEquipment(b.Requirements)),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("encode csv: %w", err)
	}
	return buf.Bytes(), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func joinIDs(ids []uuid.UUID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return strings.Join(parts, ";")
}

func requiredPeople(r models.Requirements) int {
	total := 0
	for _, p := range r.People {
		total += p.Quantity
	}
	return total
}

func requiredVehicles(r models.Requirements) int {
	total := 0
	for _, v := range r.Vehicles {
		total += v.Quantity
	}
	return total
}

func requiredEquipment(r models.Requirements) int {
	total := 0
	for _, e := range r.Equipment {
		total += e.Quantity
	}
	return total
}
