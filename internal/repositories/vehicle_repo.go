package repositories

import (
	"context"

	"schedulepro/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type VehicleRepository interface {
	Create(ctx context.Context, vehicle *models.Vehicle) error
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.Vehicle, error)
	List(ctx context.Context, companyID uuid.UUID) ([]*models.Vehicle, error)
	Update(ctx context.Context, vehicle *models.Vehicle) error
	SoftDelete(ctx context.Context, companyID, id uuid.UUID) (*models.Vehicle, error)
	Restore(ctx context.Context, companyID, id uuid.UUID) (*models.Vehicle, error)
}

const vehicleColumns = `id, company_id, name, license_plate, make, model, year, capacity, notes,
		is_deleted, deleted_at, created_at, updated_at`

type vehicleRepo struct {
	db Database
}

func NewVehicleRepository(db Database) VehicleRepository {
	return &vehicleRepo{db: db}
}

func scanVehicle(row pgx.Row) (*models.Vehicle, error) {
	v := &models.Vehicle{}
	err := row.Scan(&v.ID, &v.CompanyID, &v.Name, &v.LicensePlate, &v.Make, &v.Model, &v.Year, &v.Capacity,
		&v.Notes, &v.IsDeleted, &v.DeletedAt, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return v, nil
}

func (r *vehicleRepo) Create(ctx context.Context, vehicle *models.Vehicle) error {
	query := `
		INSERT INTO vehicles (id, company_id, name, license_plate, make, model, year, capacity, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + vehicleColumns
	created, err := scanVehicle(r.db.QueryRow(ctx, query, vehicle.ID, vehicle.CompanyID, vehicle.Name,
		vehicle.LicensePlate, vehicle.Make, vehicle.Model, vehicle.Year, vehicle.Capacity, vehicle.Notes))
	if err != nil {
		return err
	}
	*vehicle = *created
	return nil
}

func (r *vehicleRepo) GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.Vehicle, error) {
	query := `
		SELECT ` + vehicleColumns + `
		FROM vehicles
		WHERE company_id = $1 AND id = $2 AND is_deleted = false
	`
	return scanVehicle(r.db.QueryRow(ctx, query, companyID, id))
}

func (r *vehicleRepo) List(ctx context.Context, companyID uuid.UUID) ([]*models.Vehicle, error) {
	query := `
		SELECT ` + vehicleColumns + `
		FROM vehicles
		WHERE company_id = $1 AND is_deleted = false
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	vehicles := []*models.Vehicle{}
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

func (r *vehicleRepo) Update(ctx context.Context, vehicle *models.Vehicle) error {
	query := `
		UPDATE vehicles
		SET name = $3, license_plate = $4, make = $5, model = $6, year = $7, capacity = $8, notes = $9,
			updated_at = NOW()
		WHERE company_id = $1 AND id = $2 AND is_deleted = false
		RETURNING ` + vehicleColumns
	updated, err := scanVehicle(r.db.QueryRow(ctx, query, vehicle.CompanyID, vehicle.ID, vehicle.Name,
		vehicle.LicensePlate, vehicle.Make, vehicle.Model, vehicle.Year, vehicle.Capacity, vehicle.Notes))
	if err != nil {
		return err
	}
	*vehicle = *updated
	return nil
}

func (r *vehicleRepo) SoftDelete(ctx context.Context, companyID, id uuid.UUID) (*models.Vehicle, error) {
	query := `
		UPDATE vehicles
		SET is_deleted = true, deleted_at = NOW(), updated_at = NOW()
		WHERE company_id = $1 AND id = $2 AND is_deleted = false
		RETURNING ` + vehicleColumns
	return scanVehicle(r.db.QueryRow(ctx, query, companyID, id))
}

func (r *vehicleRepo) Restore(ctx context.Context, companyID, id uuid.UUID) (*models.Vehicle, error) {
	query := `
		UPDATE vehicles
		SET is_deleted = false, deleted_at = NULL, updated_at = NOW()
		WHERE company_id = $1 AND id = $2 AND is_deleted = true
		RETURNING ` + vehicleColumns
	return scanVehicle(r.db.QueryRow(ctx, query, companyID, id))
}
