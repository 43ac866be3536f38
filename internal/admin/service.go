// Package admin runs the store approval lifecycle and the admin dashboard.
package admin

import (
	"context"
	"fmt"

	"github.com/angelmondragon/campuseats-backend/pkg/db"
	"github.com/angelmondragon/campuseats-backend/pkg/db/models"
	"github.com/angelmondragon/campuseats-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/campuseats-backend/pkg/errors"
	"github.com/angelmondragon/campuseats-backend/pkg/logger"
	"github.com/angelmondragon/campuseats-backend/pkg/mail"
)

type storeRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Store, error)
	List(ctx context.Context, status *enums.StoreStatus) ([]models.Store, error)
	Update(ctx context.Context, id int64, updates map[string]any) error
	CountByStatus(ctx context.Context) (map[enums.StoreStatus]int64, error)
}

type userRepository interface {
	FindByIDs(ctx context.Context, ids []int64) (map[int64]models.User, error)
	CountByRole(ctx context.Context) (map[enums.UserRole]int64, error)
}

type orderCounter interface {
	CountByStatus(ctx context.Context) (map[enums.OrderStatus]int64, error)
}

type Service interface {
	ListStores(ctx context.Context, status *enums.StoreStatus) ([]StoreDTO, error)
	GetStore(ctx context.Context, storeID int64) (*StoreDTO, error)
	ApproveStore(ctx context.Context, storeID int64) (*StoreDTO, error)
	RejectStore(ctx context.Context, storeID int64) (*StoreDTO, error)
	ReactivateStore(ctx context.Context, storeID int64) (*StoreDTO, error)
	DashboardStats(ctx context.Context) (*StatsDTO, error)
}

type service struct {
	stores storeRepository
	users  userRepository
	orders orderCounter
	mailer mail.Sender
	logg   *logger.Logger
	// async runs notifications off the request path.
	async func(func())
}

// NewService builds the admin service. A nil mailer disables notifications.
func NewService(storeRepo storeRepository, userRepo userRepository, orderRepo orderCounter, mailer mail.Sender, logg *logger.Logger) (Service, error) {
	if storeRepo == nil {
		return nil, fmt.Errorf("store repository required")
	}
	if userRepo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	if orderRepo == nil {
		return nil, fmt.Errorf("order counter required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if mailer == nil {
		mailer = mail.NopSender{}
	}
	return &service{
		stores: storeRepo,
		users:  userRepo,
		orders: orderRepo,
		mailer: mailer,
		logg:   logg,
		async:  func(fn func()) { go fn() },
	}, nil
}

func (s *service) ListStores(ctx context.Context, status *enums.StoreStatus) ([]StoreDTO, error) {
	if status != nil && !status.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "Estado de tienda inválido: %s", *status)
	}
	rows, err := s.stores.List(ctx, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stores")
	}
	ownerIDs := make([]int64, 0, len(rows))
	for _, row := range rows {
		ownerIDs = append(ownerIDs, row.OwnerID)
	}
	owners, err := s.users.FindByIDs(ctx, ownerIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store owners")
	}
	out := make([]StoreDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, storeFromModel(row, owners[row.OwnerID]))
	}
	return out, nil
}

func (s *service) GetStore(ctx context.Context, storeID int64) (*StoreDTO, error) {
	store, err := s.load(ctx, storeID)
	if err != nil {
		return nil, err
	}
	return s.withOwner(ctx, *store)
}

func (s *service) ApproveStore(ctx context.Context, storeID int64) (*StoreDTO, error) {
	dto, err := s.setStatus(ctx, storeID, enums.StoreStatusActive)
	if err != nil {
		return nil, err
	}
	s.notifyOwner(ctx, *dto,
		fmt.Sprintf("Tu tienda %s fue aprobada", dto.Name),
		fmt.Sprintf("Hola %s,\n\nTu tienda \"%s\" fue aprobada y ya puede recibir pedidos cuando la abras.\n", dto.OwnerName, dto.Name),
	)
	return dto, nil
}

func (s *service) RejectStore(ctx context.Context, storeID int64) (*StoreDTO, error) {
	dto, err := s.setStatus(ctx, storeID, enums.StoreStatusInactive)
	if err != nil {
		return nil, err
	}
	s.notifyOwner(ctx, *dto,
		fmt.Sprintf("Tu tienda %s fue inhabilitada", dto.Name),
		fmt.Sprintf("Hola %s,\n\nTu tienda \"%s\" no está habilitada en el marketplace. Contacta a la administración para más información.\n", dto.OwnerName, dto.Name),
	)
	return dto, nil
}

func (s *service) ReactivateStore(ctx context.Context, storeID int64) (*StoreDTO, error) {
	return s.setStatus(ctx, storeID, enums.StoreStatusActive)
}

func (s *service) DashboardStats(ctx context.Context) (*StatsDTO, error) {
	byRole, err := s.users.CountByRole(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count users")
	}
	byStoreStatus, err := s.stores.CountByStatus(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count stores")
	}
	byOrderStatus, err := s.orders.CountByStatus(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count orders")
	}

	stats := &StatsDTO{
		UsersByRole:    make(map[enums.UserRole]int64),
		StoresByStatus: make(map[enums.StoreStatus]int64),
		OrdersByStatus: make(map[enums.OrderStatus]int64),
	}
	for _, role := range enums.UserRoles() {
		stats.UsersByRole[role] = byRole[role]
		stats.TotalUsers += byRole[role]
	}
	for _, status := range enums.StoreStatuses() {
		stats.StoresByStatus[status] = byStoreStatus[status]
		stats.TotalStores += byStoreStatus[status]
	}
	for _, status := range enums.OrderStatuses() {
		stats.OrdersByStatus[status] = byOrderStatus[status]
		stats.TotalOrders += byOrderStatus[status]
	}
	return stats, nil
}

func (s *service) setStatus(ctx context.Context, storeID int64, status enums.StoreStatus) (*StoreDTO, error) {
	store, err := s.load(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if err := s.stores.Update(ctx, store.ID, map[string]any{"status": status}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update store status")
	}
	s.logg.Info(s.logg.WithFields(s.logg.WithStoreID(ctx, store.ID), map[string]any{
		"from_status": store.Status,
		"to_status":   status,
	}), "admin.store_status_changed")

	store.Status = status
	return s.withOwner(ctx, *store)
}

// notifyOwner sends best effort. Failures are logged and never returned.
func (s *service) notifyOwner(ctx context.Context, store StoreDTO, subject, body string) {
	if store.OwnerEmail == "" {
		return
	}
	msg := mail.Message{To: store.OwnerEmail, Subject: subject, Body: body}
	bg := context.WithoutCancel(s.logg.WithStoreID(ctx, store.ID))
	s.async(func() {
		if err := s.mailer.Send(bg, msg); err != nil {
			s.logg.Error(bg, "admin.notify_owner_failed", err)
		}
	})
}

func (s *service) load(ctx context.Context, storeID int64) (*models.Store, error) {
	store, err := s.stores.FindByID(ctx, storeID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Tienda no encontrada")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}
	return store, nil
}

func (s *service) withOwner(ctx context.Context, store models.Store) (*StoreDTO, error) {
	owners, err := s.users.FindByIDs(ctx, []int64{store.OwnerID})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store owner")
	}
	dto := storeFromModel(store, owners[store.OwnerID])
	return &dto, nil
}
