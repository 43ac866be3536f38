package controllers

import (
	"net/http"

	"github.com/angelmondragon/campuseats-backend/api/responses"
	"github.com/angelmondragon/campuseats-backend/api/validators"
	"github.com/angelmondragon/campuseats-backend/internal/options"
	"github.com/angelmondragon/campuseats-backend/pkg/logger"
	"github.com/angelmondragon/campuseats-backend/pkg/types"
)

type optionRequest struct {
	Name            string      `json:"name" validate:"required,max=80"`
	AdditionalPrice types.Money `json:"additionalPrice"`
}

type createCategoryRequest struct {
	Name    string          `json:"name" validate:"required,max=80"`
	Options []optionRequest `json:"options" validate:"dive"`
}

func VendorListOptionCategories(svc options.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, ok := vendorScope(w, r, svc != nil, logg)
		if !ok {
			return
		}
		categories, err := svc.ListCategories(r.Context(), storeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, categories)
	}
}

// VendorCreateOptionCategory creates a category and its options atomically.
func VendorCreateOptionCategory(svc options.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, ok := vendorScope(w, r, svc != nil, logg)
		if !ok {
			return
		}
		var req createCategoryRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input := options.CreateCategoryInput{
			Name:    validators.SanitizeString(req.Name, 80),
			Options: make([]options.OptionInput, 0, len(req.Options)),
		}
		for _, opt := range req.Options {
			input.Options = append(input.Options, options.OptionInput{
				Name:            validators.SanitizeString(opt.Name, 80),
				AdditionalPrice: opt.AdditionalPrice.Decimal,
			})
		}
		category, err := svc.CreateCategoryWithOptions(r.Context(), storeID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, category)
	}
}
