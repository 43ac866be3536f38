package stores

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/angelmondragon/campuseats-backend/internal/products"
	"github.com/angelmondragon/campuseats-backend/pkg/db"
	"github.com/angelmondragon/campuseats-backend/pkg/db/models"
	"github.com/angelmondragon/campuseats-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/campuseats-backend/pkg/errors"
	"github.com/angelmondragon/campuseats-backend/pkg/storage"
)

const (
	msgStoreNotFound      = "Tienda no encontrada"
	msgVendorAlreadyOwner = "Este vendedor ya tiene una tienda registrada."
	msgNameTaken          = "Ya existe una tienda con ese nombre."
	msgTaxIDTaken         = "Ya existe una tienda con ese NIT."

	constraintOwner = "stores_owner_id_key"
	constraintName  = "stores_name_key"
	constraintTaxID = "stores_tax_id_key"

	timeLayout = "15:04"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productLister interface {
	ListForStore(ctx context.Context, storeID int64) ([]products.ProductDTO, error)
}

// Service exposes the vendor's store management. ownerID is the
// authenticated vendor.
type Service interface {
	CreateStore(ctx context.Context, ownerID int64, input CreateStoreInput) (*StoreDTO, error)
	UpdateStore(ctx context.Context, ownerID int64, input UpdateStoreInput) (*StoreDTO, error)
	SetOpen(ctx context.Context, ownerID int64, open bool) (*StoreDTO, error)
	GetMyStore(ctx context.Context, ownerID int64) (*DashboardDTO, error)
	UpdateSchedules(ctx context.Context, ownerID int64, entries []ScheduleInput) ([]ScheduleDTO, error)
	// StoreIDForOwner resolves the vendor's store for request scoping.
	StoreIDForOwner(ctx context.Context, ownerID int64) (int64, error)
}

type service struct {
	tx       txRunner
	repo     *Repository
	products productLister
	media    storage.Uploader
}

// NewService builds a store service. media may be nil when uploads are disabled.
func NewService(tx txRunner, repo *Repository, productsSvc productLister, media storage.Uploader) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("store repository required")
	}
	if productsSvc == nil {
		return nil, fmt.Errorf("product lister required")
	}
	return &service{tx: tx, repo: repo, products: productsSvc, media: media}, nil
}

func (s *service) CreateStore(ctx context.Context, ownerID int64, input CreateStoreInput) (*StoreDTO, error) {
	name := strings.TrimSpace(input.Name)
	taxID := strings.TrimSpace(input.TaxID)
	if name == "" || taxID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "El nombre y el NIT de la tienda son obligatorios.")
	}

	existing, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil && !db.IsNotFound(err) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check vendor store")
	}
	if existing != nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, msgVendorAlreadyOwner)
	}
	// Checked before the logo upload; the insert still maps a racing duplicate.
	taken, err := s.repo.FindByNameOrTaxID(ctx, name, taxID)
	if err != nil && !db.IsNotFound(err) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check store identity")
	}
	if taken != nil {
		if taken.Name == name {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, msgNameTaken)
		}
		return nil, pkgerrors.New(pkgerrors.CodeConflict, msgTaxIDTaken)
	}

	store := &models.Store{
		Name:        name,
		TaxID:       taxID,
		Description: trimmedOrNil(input.Description),
		Status:      enums.StoreStatusPending,
		IsOpen:      false,
		OwnerID:     ownerID,
	}
	if input.Logo != nil {
		url, err := s.uploadLogo(ctx, *input.Logo)
		if err != nil {
			return nil, err
		}
		store.LogoURL = &url
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Create(ctx, store); err != nil {
			return err
		}
		return repo.ReplaceSchedules(ctx, store.ID, closedWeek(store.ID))
	})
	if err != nil {
		return nil, mapStoreWriteError(err, "create store")
	}

	dto := FromModel(*store)
	return &dto, nil
}

func (s *service) UpdateStore(ctx context.Context, ownerID int64, input UpdateStoreInput) (*StoreDTO, error) {
	store, err := s.ownStore(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "El nombre de la tienda es obligatorio.")
		}
		updates["name"] = name
	}
	if input.Description != nil {
		updates["description"] = trimmedOrNil(input.Description)
	}
	if input.Logo != nil {
		url, err := s.uploadLogo(ctx, *input.Logo)
		if err != nil {
			return nil, err
		}
		updates["logo_url"] = url
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, store.ID, updates); err != nil {
			return nil, mapStoreWriteError(err, "update store")
		}
	}
	return s.reload(ctx, store.ID)
}

func (s *service) SetOpen(ctx context.Context, ownerID int64, open bool) (*StoreDTO, error) {
	store, err := s.ownStore(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, store.ID, map[string]any{"is_open": open}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "toggle store")
	}
	return s.reload(ctx, store.ID)
}

func (s *service) GetMyStore(ctx context.Context, ownerID int64) (*DashboardDTO, error) {
	store, err := s.ownStore(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	menu, err := s.products.ListForStore(ctx, store.ID)
	if err != nil {
		return nil, err
	}
	schedules, err := s.repo.ListSchedules(ctx, store.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list schedules")
	}
	return &DashboardDTO{
		Store:     FromModel(*store),
		Products:  menu,
		Schedules: SchedulesFromModels(schedules),
	}, nil
}

func (s *service) UpdateSchedules(ctx context.Context, ownerID int64, entries []ScheduleInput) ([]ScheduleDTO, error) {
	store, err := s.ownStore(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	rows, err := buildSchedules(store.ID, entries)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).ReplaceSchedules(ctx, store.ID, rows)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace schedules")
	}
	return SchedulesFromModels(rows), nil
}

func (s *service) StoreIDForOwner(ctx context.Context, ownerID int64) (int64, error) {
	store, err := s.ownStore(ctx, ownerID)
	if err != nil {
		return 0, err
	}
	return store.ID, nil
}

func (s *service) ownStore(ctx context.Context, ownerID int64) (*models.Store, error) {
	store, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, msgStoreNotFound)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor store")
	}
	return store, nil
}

func (s *service) reload(ctx context.Context, storeID int64) (*StoreDTO, error) {
	store, err := s.repo.FindByID(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload store")
	}
	dto := FromModel(*store)
	return &dto, nil
}

func (s *service) uploadLogo(ctx context.Context, obj storage.Object) (string, error) {
	if s.media == nil {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "media store not configured")
	}
	url, err := s.media.Upload(ctx, storage.FolderLogos, obj)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upload store logo")
	}
	return url, nil
}

// closedWeek seeds one closed entry per weekday.
func closedWeek(storeID int64) []models.StoreSchedule {
	days := enums.Weekdays()
	rows := make([]models.StoreSchedule, 0, len(days))
	for _, day := range days {
		rows = append(rows, models.StoreSchedule{StoreID: storeID, Weekday: day})
	}
	return rows
}

// buildSchedules validates every entry and reports all problems at once.
// Weekdays left out of the edit are stored closed.
func buildSchedules(storeID int64, entries []ScheduleInput) ([]models.StoreSchedule, error) {
	var errs error
	seen := make(map[enums.Weekday]ScheduleInput, len(entries))
	for _, entry := range entries {
		if !entry.Weekday.IsValid() {
			errs = multierr.Append(errs, fmt.Errorf("día inválido: %q", entry.Weekday))
			continue
		}
		if _, dup := seen[entry.Weekday]; dup {
			errs = multierr.Append(errs, fmt.Errorf("%s: día repetido", entry.Weekday))
			continue
		}
		seen[entry.Weekday] = entry
		errs = multierr.Append(errs, validateEntry(entry))
	}
	if errs != nil {
		details := []string{}
		for _, e := range multierr.Errors(errs) {
			details = append(details, e.Error())
		}
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Horario inválido.").
			WithDetails(map[string]any{"errors": details})
	}

	rows := make([]models.StoreSchedule, 0, len(enums.Weekdays()))
	for _, day := range enums.Weekdays() {
		row := models.StoreSchedule{StoreID: storeID, Weekday: day}
		if entry, ok := seen[day]; ok {
			row.IsOpen = entry.IsOpen
			row.OpensAt = normalizeTime(entry.OpensAt)
			row.ClosesAt = normalizeTime(entry.ClosesAt)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func validateEntry(entry ScheduleInput) error {
	var errs error
	opens, opensErr := parseTime(entry.OpensAt)
	closes, closesErr := parseTime(entry.ClosesAt)
	if opensErr != nil {
		errs = multierr.Append(errs, fmt.Errorf("%s: hora de apertura %w", entry.Weekday, opensErr))
	}
	if closesErr != nil {
		errs = multierr.Append(errs, fmt.Errorf("%s: hora de cierre %w", entry.Weekday, closesErr))
	}
	if errs != nil || !entry.IsOpen {
		return errs
	}
	if opens == nil || closes == nil {
		return fmt.Errorf("%s: un día abierto requiere hora de apertura y de cierre", entry.Weekday)
	}
	if !opens.Before(*closes) {
		return fmt.Errorf("%s: la apertura debe ser anterior al cierre", entry.Weekday)
	}
	return nil
}

func parseTime(value *string) (*time.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	parsed, err := time.Parse(timeLayout, strings.TrimSpace(*value))
	if err != nil {
		return nil, fmt.Errorf("inválida %q (formato HH:mm)", *value)
	}
	return &parsed, nil
}

func normalizeTime(value *string) *string {
	parsed, err := parseTime(value)
	if err != nil || parsed == nil {
		return nil
	}
	formatted := parsed.Format(timeLayout)
	return &formatted
}

func mapStoreWriteError(err error, step string) error {
	switch {
	case db.IsUniqueViolation(err, constraintOwner):
		return pkgerrors.New(pkgerrors.CodeConflict, msgVendorAlreadyOwner)
	case db.IsUniqueViolation(err, constraintName):
		return pkgerrors.New(pkgerrors.CodeConflict, msgNameTaken)
	case db.IsUniqueViolation(err, constraintTaxID):
		return pkgerrors.New(pkgerrors.CodeConflict, msgTaxIDTaken)
	default:
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, step)
	}
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
