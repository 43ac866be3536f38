package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/campuseats-backend/pkg/auth"
	"github.com/angelmondragon/campuseats-backend/pkg/db"
	"github.com/angelmondragon/campuseats-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/campuseats-backend/pkg/errors"
)

type usersRepository interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
	Upsert(ctx context.Context, user *models.User) error
}

// Service resolves authenticated principals into user rows.
type Service interface {
	// Sync makes sure the principal has a local row with current profile data.
	Sync(ctx context.Context, principal auth.Principal) (*models.User, error)
	Get(ctx context.Context, id int64) (*models.User, error)
}

type service struct {
	repo usersRepository
}

// NewService builds the users service.
func NewService(repo usersRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Sync(ctx context.Context, principal auth.Principal) (*models.User, error) {
	if principal.UserID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing principal")
	}

	existing, err := s.repo.FindByID(ctx, principal.UserID)
	if err != nil && !db.IsNotFound(err) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	desired := fromPrincipal(principal)
	if existing != nil {
		if !profileChanged(existing, desired) {
			return existing, nil
		}
		// the identity provider may omit names; keep the ones we already have
		if desired.FirstName == "" {
			desired.FirstName = existing.FirstName
		}
		if desired.LastName == "" {
			desired.LastName = existing.LastName
		}
	}

	if err := s.repo.Upsert(ctx, desired); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sync user")
	}
	return desired, nil
}

func (s *service) Get(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "Usuario no encontrado: %d", id)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return user, nil
}

func fromPrincipal(p auth.Principal) *models.User {
	return &models.User{
		ID:        p.UserID,
		Email:     strings.ToLower(strings.TrimSpace(p.Email)),
		FirstName: strings.TrimSpace(p.FirstName),
		LastName:  strings.TrimSpace(p.LastName),
		Role:      p.Role,
	}
}

func profileChanged(existing, desired *models.User) bool {
	if existing.Email != desired.Email || existing.Role != desired.Role {
		return true
	}
	if desired.FirstName != "" && existing.FirstName != desired.FirstName {
		return true
	}
	return desired.LastName != "" && existing.LastName != desired.LastName
}
