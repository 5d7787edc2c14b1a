package repositories

import (
	"context"
	"testing"
	"time"

	"schedulepro/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompanyRepo_RegisterCreatesOwner(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	createdAt := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	userID := uuid.New()
	company := &models.Company{ID: uuid.New(), Name: "Acme", Slug: "acme"}
	owner := &models.Person{ID: uuid.New(), UserID: &userID, Name: "Dana", Email: "dana@example.com"}
	stored := *owner
	stored.CompanyID = company.ID
	stored.Skills = []string{}
	stored.Certifications = []string{}
	stored.CreatedAt, stored.UpdatedAt = createdAt, createdAt

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO companies \(id, name, slug, settings\)`).
		WithArgs(company.ID, "Acme", "acme", []byte(`{}`)).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(createdAt, createdAt))
	mock.ExpectQuery(`INSERT INTO people \(id, company_id, user_id, name, email, skills, certifications\)`).
		WithArgs(owner.ID, company.ID, owner.UserID, "Dana", "dana@example.com", []string{}, []string{}).
		WillReturnRows(personRow(pgxmock.NewRows(personRowColumns), &stored))
	mock.ExpectCommit()

	err = NewCompanyRepository(mock).Register(context.Background(), company, owner)

	require.NoError(t, err)
	assert.Equal(t, createdAt, company.CreatedAt)
	assert.Equal(t, map[string]any{}, company.Settings)
	assert.Equal(t, company.ID, owner.CompanyID)
	assert.Equal(t, createdAt, owner.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompanyRepo_RegisterRollsBackOnOwnerConflict(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	userID := uuid.New()
	company := &models.Company{ID: uuid.New(), Name: "Acme", Slug: "acme"}
	owner := &models.Person{ID: uuid.New(), UserID: &userID, Name: "Dana", Email: "dana@example.com"}
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO companies`).
		WithArgs(anyArgs(4)...).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	mock.ExpectQuery(`INSERT INTO people`).
		WithArgs(anyArgs(7)...).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "people_company_email_key"})
	mock.ExpectRollback()

	err = NewCompanyRepository(mock).Register(context.Background(), company, owner)

	assert.ErrorIs(t, err, ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompanyRepo_GetByIDDecodesSettings(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	id := uuid.New()
	now := time.Now()
	mock.ExpectQuery(`FROM companies\s+WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "slug", "settings", "created_at", "updated_at"}).
			AddRow(id, "Acme", "acme", []byte(`{"timezone":"UTC"}`), now, now))

	company, err := NewCompanyRepository(mock).GetByID(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, "UTC", company.Settings["timezone"])
}
