package repositories

import (
	"context"
	"encoding/json"

	"schedulepro/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type CompanyRepository interface {
	// Register creates the company and its owner person in one transaction.
	Register(ctx context.Context, company *models.Company, owner *models.Person) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error)
}

type companyRepo struct {
	db Database
}

func NewCompanyRepository(db Database) CompanyRepository {
	return &companyRepo{db: db}
}

func (r *companyRepo) Register(ctx context.Context, company *models.Company, owner *models.Person) error {
	settings := company.Settings
	if settings == nil {
		settings = map[string]any{}
	}
	settingsJSON, err := json.Marshal(settings)
	if err != nil {
		return err
	}

	companyQuery := `
		INSERT INTO companies (id, name, slug, settings)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`
	personQuery := `
		INSERT INTO people (id, company_id, user_id, name, email, skills, certifications)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + personColumns

	return withTx(ctx, r.db, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, companyQuery, company.ID, company.Name, company.Slug, settingsJSON).
			Scan(&company.CreatedAt, &company.UpdatedAt)
		if err != nil {
			return mapError(err)
		}
		company.Settings = settings

		owner.CompanyID = company.ID
		created, err := scanPerson(tx.QueryRow(ctx, personQuery, owner.ID, owner.CompanyID, owner.UserID,
			owner.Name, owner.Email, []string{}, []string{}))
		if err != nil {
			return err
		}
		*owner = *created
		return nil
	})
}

func (r *companyRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	query := `
		SELECT id, name, slug, settings, created_at, updated_at
		FROM companies
		WHERE id = $1
	`
	company := &models.Company{}
	var settings []byte
	err := r.db.QueryRow(ctx, query, id).Scan(&company.ID, &company.Name, &company.Slug, &settings,
		&company.CreatedAt, &company.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	company.Settings = map[string]any{}
	if len(settings) > 0 {
		if err := json.Unmarshal(settings, &company.Settings); err != nil {
			return nil, err
		}
	}
	return company, nil
}
