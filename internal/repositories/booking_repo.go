package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"schedulepro/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type BookingRepository interface {
	// Create inserts the booking row and its junction rows in one transaction.
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.Booking, error)
	List(ctx context.Context, companyID uuid.UUID) ([]*models.Booking, error)
	// ListInRange returns active bookings starting in [from, to), oldest first.
	ListInRange(ctx context.Context, companyID uuid.UUID, from, to time.Time) ([]*models.Booking, error)
	// Update rewrites the booking fields and replaces its resource set in one
	// transaction. Requirements are only written when replaceRequirements is set.
	Update(ctx context.Context, booking *models.Booking, replaceRequirements bool) error
	SoftDelete(ctx context.Context, companyID, id uuid.UUID) (*models.Booking, error)
	Restore(ctx context.Context, companyID, id uuid.UUID) (*models.Booking, error)
}

const bookingColumns = `id, company_id, created_by, title, location, start_time, end_time, notes, requirements,
		is_deleted, deleted_at, created_at, updated_at`

type bookingRepo struct {
	db        Database
	resources resourceSynchronizer
}

func NewBookingRepository(db Database) BookingRepository {
	return &bookingRepo{db: db}
}

func scanBooking(row pgx.Row) (*models.Booking, error) {
	b := &models.Booking{}
	var requirements []byte
	err := row.Scan(&b.ID, &b.CompanyID, &b.CreatedBy, &b.Title, &b.Location, &b.StartTime, &b.EndTime, &b.Notes,
		&requirements, &b.IsDeleted, &b.DeletedAt, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	if len(requirements) > 0 {
		if err := json.Unmarshal(requirements, &b.Requirements); err != nil {
			return nil, fmt.Errorf("decode requirements of booking %s: %w", b.ID, err)
		}
	}
	return b, nil
}

func encodeRequirements(req models.Requirements) ([]byte, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode requirements: %w", err)
	}
	return data, nil
}

func resourcesOf(b *models.Booking) models.BookingResources {
	return models.BookingResources{People: b.People, Vehicles: b.Vehicles, Equipment: b.Equipment}
}

func (r *bookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	requirements, err := encodeRequirements(booking.Requirements)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO bookings (id, company_id, created_by, title, location, start_time, end_time, notes, requirements)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + bookingColumns

	res := resourcesOf(booking)
	var created *models.Booking
	err = withTx(ctx, r.db, func(tx pgx.Tx) error {
		var err error
		created, err = scanBooking(tx.QueryRow(ctx, query, booking.ID, booking.CompanyID, booking.CreatedBy,
			booking.Title, booking.Location, booking.StartTime, booking.EndTime, booking.Notes, requirements))
		if err != nil {
			return err
		}
		return r.resources.Insert(ctx, tx, created.ID, res)
	})
	if err != nil {
		return err
	}

	created.People, created.Vehicles, created.Equipment = res.People, res.Vehicles, res.Equipment
	created.EnsureResourceSlices()
	*booking = *created
	return nil
}

func (r *bookingRepo) GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE company_id = $1 AND id = $2 AND is_deleted = false
	`
	booking, err := scanBooking(r.db.QueryRow(ctx, query, companyID, id))
	if err != nil {
		return nil, err
	}
	if err := r.attachResources(ctx, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

func (r *bookingRepo) List(ctx context.Context, companyID uuid.UUID) ([]*models.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE company_id = $1 AND is_deleted = false
		ORDER BY created_at DESC
	`
	return r.queryBookings(ctx, query, companyID)
}

func (r *bookingRepo) ListInRange(ctx context.Context, companyID uuid.UUID, from, to time.Time) ([]*models.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE company_id = $1 AND is_deleted = false AND start_time >= $2 AND start_time < $3
		ORDER BY start_time ASC
	`
	return r.queryBookings(ctx, query, companyID, from, to)
}

func (r *bookingRepo) queryBookings(ctx context.Context, query string, args ...any) ([]*models.Booking, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	bookings := []*models.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		bookings = append(bookings, b)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(bookings))
	for i, b := range bookings {
		ids[i] = b.ID
	}
	resources, err := r.resources.Load(ctx, r.db, ids)
	if err != nil {
		return nil, err
	}
	for _, b := range bookings {
		res := resources[b.ID]
		b.People, b.Vehicles, b.Equipment = res.People, res.Vehicles, res.Equipment
	}
	return bookings, nil
}

func (r *bookingRepo) attachResources(ctx context.Context, booking *models.Booking) error {
	resources, err := r.resources.Load(ctx, r.db, []uuid.UUID{booking.ID})
	if err != nil {
		return err
	}
	res := resources[booking.ID]
	booking.People, booking.Vehicles, booking.Equipment = res.People, res.Vehicles, res.Equipment
	return nil
}

func (r *bookingRepo) Update(ctx context.Context, booking *models.Booking, replaceRequirements bool) error {
	var requirements []byte
	if replaceRequirements {
		var err error
		if requirements, err = encodeRequirements(booking.Requirements); err != nil {
			return err
		}
	}

	query := `
		UPDATE bookings
		SET title = $3, location = $4, start_time = $5, end_time = $6, notes = $7,
			requirements = COALESCE($8::jsonb, requirements),
			updated_at = NOW()
		WHERE company_id = $1 AND id = $2 AND is_deleted = false
		RETURNING ` + bookingColumns

	res := resourcesOf(booking)
	var updated *models.Booking
	err := withTx(ctx, r.db, func(tx pgx.Tx) error {
		var err error
		updated, err = scanBooking(tx.QueryRow(ctx, query, booking.CompanyID, booking.ID, booking.Title,
			booking.Location, booking.StartTime, booking.EndTime, booking.Notes, requirements))
		if err != nil {
			return err
		}
		return r.resources.Replace(ctx, tx, updated.ID, res)
	})
	if err != nil {
		return err
	}

	updated.People, updated.Vehicles, updated.Equipment = res.People, res.Vehicles, res.Equipment
	updated.EnsureResourceSlices()
	*booking = *updated
	return nil
}

func (r *bookingRepo) SoftDelete(ctx context.Context, companyID, id uuid.UUID) (*models.Booking, error) {
	query := `
		UPDATE bookings
		SET is_deleted = true, deleted_at = NOW(), updated_at = NOW()
		WHERE company_id = $1 AND id = $2 AND is_deleted = false
		RETURNING ` + bookingColumns
	return r.changeState(ctx, query, companyID, id)
}

func (r *bookingRepo) Restore(ctx context.Context, companyID, id uuid.UUID) (*models.Booking, error) {
	query := `
		UPDATE bookings
		SET is_deleted = false, deleted_at = NULL, updated_at = NOW()
		WHERE company_id = $1 AND id = $2 AND is_deleted = true
		RETURNING ` + bookingColumns
	return r.changeState(ctx, query, companyID, id)
}

func (r *bookingRepo) changeState(ctx context.Context, query string, companyID, id uuid.UUID) (*models.Booking, error) {
	booking, err := scanBooking(r.db.QueryRow(ctx, query, companyID, id))
	if err != nil {
		return nil, err
	}
	if err := r.attachResources(ctx, booking); err != nil {
		return nil, err
	}
	return booking, nil
}
