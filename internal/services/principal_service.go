package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"schedulepro/internal/caching"
	"schedulepro/internal/models"
	"schedulepro/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PrincipalResolver maps a verified auth identity to its company-scoped principal.
type PrincipalResolver interface {
	Resolve(ctx context.Context, userID uuid.UUID, email string) (*models.Principal, error)
}

type principalResolver struct {
	personRepo repositories.PersonRepository
	cache      caching.CacheService
	ttl        time.Duration
	logger     *zap.Logger
}

func NewPrincipalResolver(personRepo repositories.PersonRepository, cache caching.CacheService, ttl time.Duration, logger *zap.Logger) PrincipalResolver {
	return &principalResolver{
		personRepo: personRepo,
		cache:      cache,
		ttl:        ttl,
		logger:     logger,
	}
}

// Resolve looks the principal up in the cache, then in the people table.
// A user without an active person row resolves to a principal with no company.
// Cache failures are logged and bypassed.
func (r *principalResolver) Resolve(ctx context.Context, userID uuid.UUID, email string) (*models.Principal, error) {
	cached, err := r.cache.GetPrincipal(ctx, userID)
	if err != nil {
		r.logger.Warn("principal cache read failed", zap.String("user_id", userID.String()), zap.Error(err))
	} else if cached != nil {
		return cached, nil
	}

	principal := &models.Principal{UserID: userID, Email: email}
	person, err := r.personRepo.GetByUserID(ctx, userID)
	switch {
	case err == nil:
		principal.PersonID = &person.ID
		principal.CompanyID = &person.CompanyID
	case errors.Is(err, repositories.ErrNotFound):
	default:
		return nil, fmt.Errorf("resolve principal: %w", err)
	}

	if r.ttl > 0 {
		if err := r.cache.SetPrincipal(ctx, principal, r.ttl); err != nil {
			r.logger.Warn("principal cache write failed", zap.String("user_id", userID.String()), zap.Error(err))
		}
	}
	return principal, nil
}
