package repositories

import (
	"context"

	"schedulepro/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PersonRepository interface {
	Create(ctx context.Context, person *models.Person) error
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.Person, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Person, error)
	GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	List(ctx context.Context, companyID uuid.UUID) ([]*models.Person, error)
	Update(ctx context.Context, person *models.Person) error
	SoftDelete(ctx context.Context, companyID, id uuid.UUID) (*models.Person, error)
	Restore(ctx context.Context, companyID, id uuid.UUID) (*models.Person, error)
}

const personColumns = `id, company_id, user_id, name, email, phone, home_address, skills, certifications,
		hourly_rate, is_deleted, deleted_at, created_at, updated_at`

type personRepo struct {
	db Database
}

func NewPersonRepository(db Database) PersonRepository {
	return &personRepo{db: db}
}

func scanPerson(row pgx.Row) (*models.Person, error) {
	p := &models.Person{}
	err := row.Scan(&p.ID, &p.CompanyID, &p.UserID, &p.Name, &p.Email, &p.Phone, &p.HomeAddress,
		&p.Skills, &p.Certifications, &p.HourlyRate, &p.IsDeleted, &p.DeletedAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.Certifications == nil {
		p.Certifications = []string{}
	}
	return p, nil
}

func (r *personRepo) Create(ctx context.Context, person *models.Person) error {
	query := `
		INSERT INTO people (id, company_id, user_id, name, email, phone, home_address, skills, certifications, hourly_rate)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + personColumns
	created, err := scanPerson(r.db.QueryRow(ctx, query, person.ID, person.CompanyID, person.UserID, person.Name,
		person.Email, person.Phone, person.HomeAddress, person.Skills, person.Certifications, person.HourlyRate))
	if err != nil {
		return err
	}
	*person = *created
	return nil
}

func (r *personRepo) GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.Person, error) {
	query := `
		SELECT ` + personColumns + `
		FROM people
		WHERE company_id = $1 AND id = $2 AND is_deleted = false
	`
	return scanPerson(r.db.QueryRow(ctx, query, companyID, id))
}

// GetByUserID returns the active person linked to an auth identity.
func (r *personRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Person, error) {
	query := `
		SELECT ` + personColumns + `
		FROM people
		WHERE user_id = $1 AND is_deleted = false
		LIMIT 1
	`
	return scanPerson(r.db.QueryRow(ctx, query, userID))
}

func (r *personRepo) GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	query := `
		SELECT p.id, p.company_id, p.user_id, p.name, p.email, p.phone, p.home_address, p.skills, p.certifications,
			p.hourly_rate, p.is_deleted, p.deleted_at, p.created_at, p.updated_at,
			c.id, c.name, c.slug
		FROM people p
		JOIN companies c ON c.id = p.company_id
		WHERE p.user_id = $1 AND p.is_deleted = false
		LIMIT 1
	`
	profile := &models.Profile{}
	p := &profile.Person
	err := r.db.QueryRow(ctx, query, userID).Scan(&p.ID, &p.CompanyID, &p.UserID, &p.Name, &p.Email, &p.Phone,
		&p.HomeAddress, &p.Skills, &p.Certifications, &p.HourlyRate, &p.IsDeleted, &p.DeletedAt, &p.CreatedAt,
		&p.UpdatedAt, &profile.Company.ID, &profile.Company.Name, &profile.Company.Slug)
	if err != nil {
		return nil, mapError(err)
	}
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.Certifications == nil {
		p.Certifications = []string{}
	}
	return profile, nil
}

func (r *personRepo) List(ctx context.Context, companyID uuid.UUID) ([]*models.Person, error) {
	query := `
		SELECT ` + personColumns + `
		FROM people
		WHERE company_id = $1 AND is_deleted = false
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	people := []*models.Person{}
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, err
		}
		people = append(people, p)
	}
	return people, rows.Err()
}

// Update overwrites the editable fields. Nil skills, certifications or
// hourly rate keep the stored value.
func (r *personRepo) Update(ctx context.Context, person *models.Person) error {
	query := `
		UPDATE people
		SET name = $3, email = $4, phone = $5, home_address = $6,
			skills = COALESCE($7, skills),
			certifications = COALESCE($8, certifications),
			hourly_rate = COALESCE($9, hourly_rate),
			updated_at = NOW()
		WHERE company_id = $1 AND id = $2 AND is_deleted = false
		RETURNING ` + personColumns
	updated, err := scanPerson(r.db.QueryRow(ctx, query, person.CompanyID, person.ID, person.Name, person.Email,
		person.Phone, person.HomeAddress, person.Skills, person.Certifications, person.HourlyRate))
	if err != nil {
		return err
	}
	*person = *updated
	return nil
}

func (r *personRepo) SoftDelete(ctx context.Context, companyID, id uuid.UUID) (*models.Person, error) {
	query := `
		UPDATE people
		SET is_deleted = true, deleted_at = NOW(), updated_at = NOW()
		WHERE company_id = $1 AND id = $2 AND is_deleted = false
		RETURNING ` + personColumns
	return scanPerson(r.db.QueryRow(ctx, query, companyID, id))
}

func (r *personRepo) Restore(ctx context.Context, companyID, id uuid.UUID) (*models.Person, error) {
	query := `
		UPDATE people
		SET is_deleted = false, deleted_at = NULL, updated_at = NOW()
		WHERE company_id = $1 AND id = $2 AND is_deleted = true
		RETURNING ` + personColumns
	return scanPerson(r.db.QueryRow(ctx, query, companyID, id))
}
