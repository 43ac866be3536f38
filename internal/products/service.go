package products

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/campuseats-backend/pkg/db"
	"github.com/angelmondragon/campuseats-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/campuseats-backend/pkg/errors"
	"github.com/angelmondragon/campuseats-backend/pkg/storage"
)

const (
	msgClassificationRequired = "La clasificación del producto es obligatoria."
	msgCategoryForeignStore   = "La categoría no pertenece a la tienda de este producto."
)

type productRepository interface {
	Create(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id int64) (*models.Product, error)
	Update(ctx context.Context, id int64, updates map[string]any) error
	ListByStore(ctx context.Context, storeID int64, includeUnavailable bool) ([]models.Product, error)
	CategoryIDs(ctx context.Context, productIDs []int64) (map[int64][]int64, error)
	AddCategory(ctx context.Context, productID, categoryID int64) error
	RemoveCategory(ctx context.Context, productID, categoryID int64) (bool, error)
}

type categoryFinder interface {
	FindCategoryByID(ctx context.Context, id int64) (*models.OptionCategory, error)
}

// Service manages a vendor's menu. Every call is scoped to the vendor's
// already-resolved store id.
type Service interface {
	Create(ctx context.Context, storeID int64, input CreateProductInput) (*ProductDTO, error)
	Update(ctx context.Context, storeID, productID int64, input UpdateProductInput) (*ProductDTO, error)
	// Delete disables the product; line items keep referencing it.
	Delete(ctx context.Context, storeID, productID int64) error
	ListForStore(ctx context.Context, storeID int64) ([]ProductDTO, error)
	AssignOptionCategory(ctx context.Context, storeID, productID, categoryID int64) (*ProductDTO, error)
	RemoveOptionCategory(ctx context.Context, storeID, productID, categoryID int64) (*ProductDTO, error)
}

type service struct {
	repo       productRepository
	categories categoryFinder
	media      storage.Uploader
}

// NewService builds the product service. media may be nil when uploads are
// disabled.
func NewService(repo productRepository, categories categoryFinder, media storage.Uploader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if categories == nil {
		return nil, fmt.Errorf("category finder required")
	}
	return &service{repo: repo, categories: categories, media: media}, nil
}

func (s *service) Create(ctx context.Context, storeID int64, input CreateProductInput) (*ProductDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "El nombre del producto es obligatorio.")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "El precio no puede ser negativo.")
	}
	if input.Classification == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, msgClassificationRequired)
	}
	if !input.Classification.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "Clasificación inválida: %s", *input.Classification)
	}

	product := &models.Product{
		StoreID:        storeID,
		Name:           name,
		Description:    trimmedOrNil(input.Description),
		Price:          input.Price.Round(2),
		IsAvailable:    true,
		Classification: input.Classification,
	}

	if input.Image != nil {
		url, err := s.upload(ctx, *input.Image)
		if err != nil {
			return nil, err
		}
		product.ImageURL = &url
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	dto := FromModel(*product, nil)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, storeID, productID int64, input UpdateProductInput) (*ProductDTO, error) {
	if _, err := s.ownedProduct(ctx, storeID, productID); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "El nombre del producto es obligatorio.")
		}
		updates["name"] = name
	}
	if input.Description != nil {
		updates["description"] = trimmedOrNil(input.Description)
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "El precio no puede ser negativo.")
		}
		updates["price"] = input.Price.Round(2)
	}
	if input.Classification != nil {
		if !input.Classification.IsValid() {
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "Clasificación inválida: %s", *input.Classification)
		}
		updates["classification"] = *input.Classification
	}
	if input.IsAvailable != nil {
		updates["is_available"] = *input.IsAvailable
	}
	if input.Image != nil {
		url, err := s.upload(ctx, *input.Image)
		if err != nil {
			return nil, err
		}
		updates["image_url"] = url
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, productID, updates); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
		}
	}
	return s.load(ctx, productID)
}

func (s *service) Delete(ctx context.Context, storeID, productID int64) error {
	if _, err := s.ownedProduct(ctx, storeID, productID); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, productID, map[string]any{"is_available": false}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "disable product")
	}
	return nil
}

func (s *service) ListForStore(ctx context.Context, storeID int64) ([]ProductDTO, error) {
	rows, err := s.repo.ListByStore(ctx, storeID, true)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	categoryIDs, err := s.repo.CategoryIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list product categories")
	}

	out := make([]ProductDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromModel(row, categoryIDs[row.ID]))
	}
	return out, nil
}

func (s *service) AssignOptionCategory(ctx context.Context, storeID, productID, categoryID int64) (*ProductDTO, error) {
	product, err := s.ownedProduct(ctx, storeID, productID)
	if err != nil {
		return nil, err
	}

	category, err := s.categories.FindCategoryByID(ctx, categoryID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "Categoría no encontrada: %d", categoryID)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load option category")
	}
	if category.StoreID != product.StoreID {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, msgCategoryForeignStore)
	}

	if err := s.repo.AddCategory(ctx, productID, categoryID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "link option category")
	}
	return s.load(ctx, productID)
}

func (s *service) RemoveOptionCategory(ctx context.Context, storeID, productID, categoryID int64) (*ProductDTO, error) {
	if _, err := s.ownedProduct(ctx, storeID, productID); err != nil {
		return nil, err
	}
	removed, err := s.repo.RemoveCategory(ctx, productID, categoryID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "unlink option category")
	}
	if !removed {
		return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "Categoría no encontrada: %d", categoryID)
	}
	return s.load(ctx, productID)
}

// ownedProduct hides products of other stores behind NotFound.
func (s *service) ownedProduct(ctx context.Context, storeID, productID int64) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, notFound(productID)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if product.StoreID != storeID {
		return nil, notFound(productID)
	}
	return product, nil
}

func (s *service) load(ctx context.Context, productID int64) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload product")
	}
	categoryIDs, err := s.repo.CategoryIDs(ctx, []int64{productID})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list product categories")
	}
	dto := FromModel(*product, categoryIDs[productID])
	return &dto, nil
}

func (s *service) upload(ctx context.Context, obj storage.Object) (string, error) {
	if s.media == nil {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "media store not configured")
	}
	url, err := s.media.Upload(ctx, storage.FolderProducts, obj)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upload product image")
	}
	return url, nil
}

func notFound(productID int64) error {
	return pkgerrors.Newf(pkgerrors.CodeNotFound, "Producto no encontrado: %d", productID)
}

func trimmedOrNil(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
