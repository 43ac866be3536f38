package controllers

import (
	"net/http"

	"github.com/angelmondragon/campuseats-backend/api/middleware"
	"github.com/angelmondragon/campuseats-backend/api/responses"
	"github.com/angelmondragon/campuseats-backend/api/validators"
	"github.com/angelmondragon/campuseats-backend/internal/stores"
	"github.com/angelmondragon/campuseats-backend/pkg/config"
	"github.com/angelmondragon/campuseats-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/campuseats-backend/pkg/errors"
	"github.com/angelmondragon/campuseats-backend/pkg/logger"
)

const (
	maxStoreNameLength        = 120
	maxStoreDescriptionLength = 1000
)

type createStoreRequest struct {
	Name        string  `json:"name" validate:"required,max=120"`
	TaxID       string  `json:"taxId" validate:"required,max=40"`
	Description *string `json:"description"`
}

type updateStoreRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=120"`
	Description *string `json:"description"`
}

type setOpenRequest struct {
	IsOpen *bool `json:"isOpen" validate:"required"`
}

type scheduleEntryRequest struct {
	Weekday  string  `json:"weekday" validate:"required"`
	IsOpen   bool    `json:"isOpen"`
	OpensAt  *string `json:"opensAt" validate:"omitempty,hhmm"`
	ClosesAt *string `json:"closesAt" validate:"omitempty,hhmm"`
}

type updateSchedulesRequest struct {
	Schedules []scheduleEntryRequest `json:"schedules" validate:"required,max=7,dive"`
}

func vendorStoreGuard(w http.ResponseWriter, r *http.Request, svc stores.Service, logg *logger.Logger) (int64, bool) {
	if svc == nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "store service unavailable"))
		return 0, false
	}
	ownerID := middleware.UserIDFromContext(r.Context())
	if ownerID == 0 {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
		return 0, false
	}
	return ownerID, true
}

// VendorCreateStore registers the vendor's single store as PENDING. The body
// is JSON, or multipart with an optional logo in the file field.
func VendorCreateStore(svc stores.Service, media config.MediaConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := vendorStoreGuard(w, r, svc, logg)
		if !ok {
			return
		}

		input, err := decodeCreateStore(w, r, media)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, err := svc.CreateStore(r.Context(), ownerID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if logg != nil {
			ctx := logg.WithStoreID(r.Context(), store.ID)
			logg.Info(ctx, "vendor store registered")
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, store)
	}
}

func decodeCreateStore(w http.ResponseWriter, r *http.Request, media config.MediaConfig) (stores.CreateStoreInput, error) {
	if !isMultipart(r) {
		var req createStoreRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			return stores.CreateStoreInput{}, err
		}
		return stores.CreateStoreInput{
			Name:        validators.SanitizeString(req.Name, maxStoreNameLength),
			TaxID:       validators.SanitizeString(req.TaxID, maxStoreNameLength),
			Description: sanitizeOptional(req.Description, maxStoreDescriptionLength),
		}, nil
	}

	if err := parseMultipart(w, r, media); err != nil {
		return stores.CreateStoreInput{}, err
	}
	logo, err := formObject(r, media)
	if err != nil {
		return stores.CreateStoreInput{}, err
	}
	input := stores.CreateStoreInput{
		Description: sanitizeOptional(formValue(r, "description"), maxStoreDescriptionLength),
		Logo:        logo,
	}
	if name := formValue(r, "name"); name != nil {
		input.Name = validators.SanitizeString(*name, maxStoreNameLength)
	}
	if taxID := formValue(r, "taxId"); taxID != nil {
		input.TaxID = validators.SanitizeString(*taxID, maxStoreNameLength)
	}
	return input, nil
}

// VendorGetStore returns the vendor dashboard: store, full menu and schedules.
func VendorGetStore(svc stores.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := vendorStoreGuard(w, r, svc, logg)
		if !ok {
			return
		}
		dashboard, err := svc.GetMyStore(r.Context(), ownerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dashboard)
	}
}

func VendorUpdateStore(svc stores.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := vendorStoreGuard(w, r, svc, logg)
		if !ok {
			return
		}
		var req updateStoreRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input := stores.UpdateStoreInput{Description: req.Description}
		if req.Name != nil {
			name := validators.SanitizeString(*req.Name, maxStoreNameLength)
			input.Name = &name
		}
		store, err := svc.UpdateStore(r.Context(), ownerID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, store)
	}
}

func VendorUploadStoreLogo(svc stores.Service, media config.MediaConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := vendorStoreGuard(w, r, svc, logg)
		if !ok {
			return
		}
		logo, err := readUpload(w, r, media)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		store, err := svc.UpdateStore(r.Context(), ownerID, stores.UpdateStoreInput{Logo: logo})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, store)
	}
}

// VendorSetStoreOpen toggles the manual open flag.
func VendorSetStoreOpen(svc stores.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := vendorStoreGuard(w, r, svc, logg)
		if !ok {
			return
		}
		var req setOpenRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		store, err := svc.SetOpen(r.Context(), ownerID, *req.IsOpen)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, store)
	}
}

// VendorUpdateSchedules replaces the weekly schedule. Omitted weekdays are
// stored closed.
func VendorUpdateSchedules(svc stores.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := vendorStoreGuard(w, r, svc, logg)
		if !ok {
			return
		}
		var req updateSchedulesRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		entries := make([]stores.ScheduleInput, 0, len(req.Schedules))
		for _, entry := range req.Schedules {
			entries = append(entries, stores.ScheduleInput{
				Weekday:  enums.Weekday(entry.Weekday),
				IsOpen:   entry.IsOpen,
				OpensAt:  entry.OpensAt,
				ClosesAt: entry.ClosesAt,
			})
		}
		schedules, err := svc.UpdateSchedules(r.Context(), ownerID, entries)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, schedules)
	}
}
