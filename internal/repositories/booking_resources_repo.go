package repositories

import (
	"context"
	"fmt"

	"schedulepro/internal/models"

	"github.com/google/uuid"
)

// resourceLink describes one booking junction table.
type resourceLink struct {
	table  string
	column string
	ids    func(res *models.BookingResources) []uuid.UUID
	attach func(res *models.BookingResources, id uuid.UUID)
}

var bookingResourceLinks = []resourceLink{
	{
		table:  "booking_people",
		column: "person_id",
		ids:    func(res *models.BookingResources) []uuid.UUID { return res.People },
		attach: func(res *models.BookingResources, id uuid.UUID) { res.People = append(res.People, id) },
	},
	{
		table:  "booking_vehicles",
		column: "vehicle_id",
		ids:    func(res *models.BookingResources) []uuid.UUID { return res.Vehicles },
		attach: func(res *models.BookingResources, id uuid.UUID) { res.Vehicles = append(res.Vehicles, id) },
	},
	{
		table:  "booking_equipment",
		column: "equipment_id",
		ids:    func(res *models.BookingResources) []uuid.UUID { return res.Equipment },
		attach: func(res *models.BookingResources, id uuid.UUID) { res.Equipment = append(res.Equipment, id) },
	},
}

// resourceSynchronizer writes the booking junction rows. It runs on whatever
// Database it is given, normally the transaction that wrote the booking row.
type resourceSynchronizer struct{}

// Insert adds one junction row per id. Empty id lists issue no statement.
// Ids are neither deduplicated nor checked for existence.
func (resourceSynchronizer) Insert(ctx context.Context, db Database, bookingID uuid.UUID, res models.BookingResources) error {
	for _, link := range bookingResourceLinks {
		ids := link.ids(&res)
		if len(ids) == 0 {
			continue
		}
		query := fmt.Sprintf(`INSERT INTO %s (booking_id, %s) SELECT $1, unnest($2::uuid[])`, link.table, link.column)
		if _, err := db.Exec(ctx, query, bookingID, ids); err != nil {
			return fmt.Errorf("insert %s: %w", link.table, mapError(err))
		}
	}
	return nil
}

// Replace deletes every junction row of the booking and inserts the new set.
func (s resourceSynchronizer) Replace(ctx context.Context, db Database, bookingID uuid.UUID, res models.BookingResources) error {
	for _, link := range bookingResourceLinks {
		query := fmt.Sprintf(`DELETE FROM %s WHERE booking_id = $1`, link.table)
		if _, err := db.Exec(ctx, query, bookingID); err != nil {
			return fmt.Errorf("clear %s: %w", link.table, err)
		}
	}
	return s.Insert(ctx, db, bookingID, res)
}

// Load returns the resource sets of the given bookings keyed by booking id.
// Bookings without junction rows are present with empty slices.
func (resourceSynchronizer) Load(ctx context.Context, db Database, bookingIDs []uuid.UUID) (map[uuid.UUID]*models.BookingResources, error) {
	out := make(map[uuid.UUID]*models.BookingResources, len(bookingIDs))
	for _, id := range bookingIDs {
		out[id] = &models.BookingResources{
			People:    []uuid.UUID{},
			Vehicles:  []uuid.UUID{},
			Equipment: []uuid.UUID{},
		}
	}
	if len(bookingIDs) == 0 {
		return out, nil
	}

	for _, link := range bookingResourceLinks {
		query := fmt.Sprintf(`SELECT booking_id, %s FROM %s WHERE booking_id = ANY($1)`, link.column, link.table)
		rows, err := db.Query(ctx, query, bookingIDs)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", link.table, err)
		}
		for rows.Next() {
			var bookingID, resourceID uuid.UUID
			if err := rows.Scan(&bookingID, &resourceID); err != nil {
				rows.Close()
				return nil, err
			}
			if res, ok := out[bookingID]; ok {
				link.attach(res, resourceID)
			}
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, err
		}
	}
	return out, nil
}
