package repositories

import (
	"context"

	"schedulepro/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type EquipmentRepository interface {
	Create(ctx context.Context, equipment *models.Equipment) error
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.Equipment, error)
	List(ctx context.Context, companyID uuid.UUID) ([]*models.Equipment, error)
	Update(ctx context.Context, equipment *models.Equipment) error
	SoftDelete(ctx context.Context, companyID, id uuid.UUID) (*models.Equipment, error)
	Restore(ctx context.Context, companyID, id uuid.UUID) (*models.Equipment, error)
}

const equipmentColumns = `id, company_id, name, serial_number, type, condition, notes,
		is_deleted, deleted_at, created_at, updated_at`

type equipmentRepo struct {
	db Database
}

func NewEquipmentRepository(db Database) EquipmentRepository {
	return &equipmentRepo{db: db}
}

func scanEquipment(row pgx.Row) (*models.Equipment, error) {
	e := &models.Equipment{}
	err := row.Scan(&e.ID, &e.CompanyID, &e.Name, &e.SerialNumber, &e.Type, &e.Condition, &e.Notes,
		&e.IsDeleted, &e.DeletedAt, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return e, nil
}

func (r *equipmentRepo) Create(ctx context.Context, equipment *models.Equipment) error {
	query := `
		INSERT INTO equipment (id, company_id, name, serial_number, type, condition, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + equipmentColumns
	created, err := scanEquipment(r.db.QueryRow(ctx, query, equipment.ID, equipment.CompanyID, equipment.Name,
		equipment.SerialNumber, equipment.Type, equipment.Condition, equipment.Notes))
	if err != nil {
		return err
	}
	*equipment = *created
	return nil
}

func (r *equipmentRepo) GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.Equipment, error) {
	query := `
		SELECT ` + equipmentColumns + `
		FROM equipment
		WHERE company_id = $1 AND id = $2 AND is_deleted = false
	`
	return scanEquipment(r.db.QueryRow(ctx, query, companyID, id))
}

func (r *equipmentRepo) List(ctx context.Context, companyID uuid.UUID) ([]*models.Equipment, error) {
	query := `
		SELECT ` + equipmentColumns + `
		FROM equipment
		WHERE company_id = $1 AND is_deleted = false
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []*models.Equipment{}
	for rows.Next() {
		e, err := scanEquipment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

func (r *equipmentRepo) Update(ctx context.Context, equipment *models.Equipment) error {
	query := `
		UPDATE equipment
		SET name = $3, serial_number = $4, type = $5, condition = $6, notes = $7, updated_at = NOW()
		WHERE company_id = $1 AND id = $2 AND is_deleted = false
		RETURNING ` + equipmentColumns
	updated, err := scanEquipment(r.db.QueryRow(ctx, query, equipment.CompanyID, equipment.ID, equipment.Name,
		equipment.SerialNumber, equipment.Type, equipment.Condition, equipment.Notes))
	if err != nil {
		return err
	}
	*equipment = *updated
	return nil
}

func (r *equipmentRepo) SoftDelete(ctx context.Context, companyID, id uuid.UUID) (*models.Equipment, error) {
	query := `
		UPDATE equipment
		SET is_deleted = true, deleted_at = NOW(), updated_at = NOW()
		WHERE company_id = $1 AND id = $2 AND is_deleted = false
		RETURNING ` + equipmentColumns
	return scanEquipment(r.db.QueryRow(ctx, query, companyID, id))
}

func (r *equipmentRepo) Restore(ctx context.Context, companyID, id uuid.UUID) (*models.Equipment, error) {
	query := `
		UPDATE equipment
		SET is_deleted = false, deleted_at = NULL, updated_at = NOW()
		WHERE company_id = $1 AND id = $2 AND is_deleted = true
		RETURNING ` + equipmentColumns
	return scanEquipment(r.db.QueryRow(ctx, query, companyID, id))
}
