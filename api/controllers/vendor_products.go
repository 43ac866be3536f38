package controllers

import (
	"net/http"

	"github.com/angelmondragon/campuseats-backend/api/middleware"
	"github.com/angelmondragon/campuseats-backend/api/responses"
	"github.com/angelmondragon/campuseats-backend/api/validators"
	"github.com/angelmondragon/campuseats-backend/internal/products"
	"github.com/angelmondragon/campuseats-backend/pkg/config"
	"github.com/angelmondragon/campuseats-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/campuseats-backend/pkg/errors"
	"github.com/angelmondragon/campuseats-backend/pkg/logger"
	"github.com/angelmondragon/campuseats-backend/pkg/types"
)

const (
	maxProductNameLength        = 120
	maxProductDescriptionLength = 1000
)

type createProductRequest struct {
	Name           string                       `json:"name" validate:"required,max=120"`
	Description    *string                      `json:"description"`
	Price          types.Money                  `json:"price"`
	Classification *enums.ProductClassification `json:"classification" validate:"required"`
}

type updateProductRequest struct {
	Name           *string                      `json:"name" validate:"omitempty,min=1,max=120"`
	Description    *string                      `json:"description"`
	Price          *types.Money                 `json:"price"`
	Classification *enums.ProductClassification `json:"classification"`
	IsAvailable    *bool                        `json:"isAvailable"`
}

type assignCategoryRequest struct {
	CategoryID int64 `json:"categoryId" validate:"required,gt=0"`
}

// vendorScope reads the store id injected by StoreContext.
func vendorScope(w http.ResponseWriter, r *http.Request, ready bool, logg *logger.Logger) (int64, bool) {
	if !ready {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "vendor service unavailable"))
		return 0, false
	}
	storeID := middleware.StoreIDFromContext(r.Context())
	if storeID == 0 {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "store context missing"))
		return 0, false
	}
	return storeID, true
}

func VendorListProducts(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, ok := vendorScope(w, r, svc != nil, logg)
		if !ok {
			return
		}
		list, err := svc.ListForStore(r.Context(), storeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// VendorCreateProduct adds a menu item. The body is JSON, or multipart with
// the same fields plus an optional image.
func VendorCreateProduct(svc products.Service, media config.MediaConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, ok := vendorScope(w, r, svc != nil, logg)
		if !ok {
			return
		}
		input, err := decodeCreateProduct(w, r, media)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.Create(r.Context(), storeID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

func decodeCreateProduct(w http.ResponseWriter, r *http.Request, media config.MediaConfig) (products.CreateProductInput, error) {
	if !isMultipart(r) {
		var req createProductRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			return products.CreateProductInput{}, err
		}
		return products.CreateProductInput{
			Name:           validators.SanitizeString(req.Name, maxProductNameLength),
			Description:    sanitizeOptional(req.Description, maxProductDescriptionLength),
			Price:          req.Price.Decimal,
			Classification: req.Classification,
		}, nil
	}

	if err := parseMultipart(w, r, media); err != nil {
		return products.CreateProductInput{}, err
	}
	image, err := formObject(r, media)
	if err != nil {
		return products.CreateProductInput{}, err
	}
	input := products.CreateProductInput{
		Description: sanitizeOptional(formValue(r, "description"), maxProductDescriptionLength),
		Image:       image,
	}
	if name := formValue(r, "name"); name != nil {
		input.Name = validators.SanitizeString(*name, maxProductNameLength)
	}
	if raw := formValue(r, "price"); raw != nil {
		var price types.Money
		if err := price.UnmarshalJSON([]byte(*raw)); err != nil {
			return products.CreateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price").
				WithDetails(map[string]any{"field": "price"})
		}
		input.Price = price.Decimal
	}
	if raw := formValue(r, "classification"); raw != nil && *raw != "" {
		classification := enums.ProductClassification(*raw)
		input.Classification = &classification
	}
	return input, nil
}

func VendorUpdateProduct(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, ok := vendorScope(w, r, svc != nil, logg)
		if !ok {
			return
		}
		productID, err := validators.ParseIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req updateProductRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input := products.UpdateProductInput{
			Description:    req.Description,
			Classification: req.Classification,
			IsAvailable:    req.IsAvailable,
		}
		if req.Name != nil {
			name := validators.SanitizeString(*req.Name, maxProductNameLength)
			input.Name = &name
		}
		if req.Price != nil {
			price := req.Price.Decimal
			input.Price = &price
		}
		product, err := svc.Update(r.Context(), storeID, productID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// VendorDeleteProduct disables the product. Past orders keep their lines.
func VendorDeleteProduct(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, ok := vendorScope(w, r, svc != nil, logg)
		if !ok {
			return
		}
		productID, err := validators.ParseIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), storeID, productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

func VendorUploadProductImage(svc products.Service, media config.MediaConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, ok := vendorScope(w, r, svc != nil, logg)
		if !ok {
			return
		}
		productID, err := validators.ParseIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		image, err := readUpload(w, r, media)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.Update(r.Context(), storeID, productID, products.UpdateProductInput{Image: image})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func VendorAssignProductCategory(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, ok := vendorScope(w, r, svc != nil, logg)
		if !ok {
			return
		}
		productID, err := validators.ParseIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req assignCategoryRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.AssignOptionCategory(r.Context(), storeID, productID, req.CategoryID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func VendorRemoveProductCategory(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, ok := vendorScope(w, r, svc != nil, logg)
		if !ok {
			return
		}
		productID, err := validators.ParseIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		categoryID, err := validators.ParseIDParam(r, "categoryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.RemoveOptionCategory(r.Context(), storeID, productID, categoryID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}
