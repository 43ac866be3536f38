package options

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/angelmondragon/campuseats-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/campuseats-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service manages a store's option categories.
type Service interface {
	CreateCategoryWithOptions(ctx context.Context, storeID int64, input CreateCategoryInput) (*CategoryDTO, error)
	ListCategories(ctx context.Context, storeID int64) ([]CategoryDTO, error)
	// CategoriesForProduct returns the categories linked to a product, with options.
	CategoriesForProduct(ctx context.Context, productID int64) ([]CategoryDTO, error)
}

type service struct {
	tx   txRunner
	repo *Repository
}

// NewService builds the options service.
func NewService(tx txRunner, repo *Repository) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("options repository required")
	}
	return &service{tx: tx, repo: repo}, nil
}

func (s *service) CreateCategoryWithOptions(ctx context.Context, storeID int64, input CreateCategoryInput) (*CategoryDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "El nombre de la categoría es obligatorio.")
	}

	opts := make([]models.Option, 0, len(input.Options))
	for i, in := range input.Options {
		optName := strings.TrimSpace(in.Name)
		if optName == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "El nombre de la opción es obligatorio.").
				WithDetails(map[string]any{"index": i})
		}
		if in.AdditionalPrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "El precio adicional no puede ser negativo.").
				WithDetails(map[string]any{"index": i})
		}
		opts = append(opts, models.Option{
			Name:            optName,
			AdditionalPrice: in.AdditionalPrice.Round(2),
			Position:        i,
		})
	}

	category := &models.OptionCategory{StoreID: storeID, Name: name}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.CreateCategory(ctx, category); err != nil {
			return err
		}
		for i := range opts {
			opts[i].CategoryID = category.ID
		}
		return repo.CreateOptions(ctx, opts)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create option category")
	}

	dto := toCategoryDTO(*category, opts)
	return &dto, nil
}

func (s *service) ListCategories(ctx context.Context, storeID int64) ([]CategoryDTO, error) {
	categories, err := s.repo.ListCategoriesByStore(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list option categories")
	}
	return s.withOptions(ctx, categories)
}

func (s *service) CategoriesForProduct(ctx context.Context, productID int64) ([]CategoryDTO, error) {
	categories, err := s.repo.ListCategoriesForProduct(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list product option categories")
	}
	return s.withOptions(ctx, categories)
}

func (s *service) withOptions(ctx context.Context, categories []models.OptionCategory) ([]CategoryDTO, error) {
	ids := make([]int64, 0, len(categories))
	for _, c := range categories {
		ids = append(ids, c.ID)
	}
	grouped, err := s.repo.OptionsByCategory(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list options")
	}

	out := make([]CategoryDTO, 0, len(categories))
	for _, c := range categories {
		out = append(out, toCategoryDTO(c, grouped[c.ID]))
	}
	return out, nil
}
