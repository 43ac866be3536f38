package products

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/campuseats-backend/internal/options"
	"github.com/angelmondragon/campuseats-backend/pkg/db/dbtest"
	"github.com/angelmondragon/campuseats-backend/pkg/db/models"
	"github.com/angelmondragon/campuseats-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/campuseats-backend/pkg/errors"
	"github.com/angelmondragon/campuseats-backend/pkg/storage"
)

type stubUploader struct {
	folder string
	err    error
}

func (s *stubUploader) Upload(_ context.Context, folder string, obj storage.Object) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.folder = folder
	return "https://cdn.test/" + folder + "/" + obj.Filename, nil
}

func newFixture(t *testing.T) (Service, *Repository, *stubUploader, func(rows ...any)) {
	t.Helper()
	conn := dbtest.Open(t)
	repo := NewRepository(conn)
	media := &stubUploader{}
	svc, err := NewService(repo, options.NewRepository(conn), media)
	require.NoError(t, err)
	return svc, repo, media, func(rows ...any) { dbtest.Create(t, conn, rows...) }
}

func classification(c enums.ProductClassification) *enums.ProductClassification {
	return &c
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	if _, err := NewService(nil, &options.Repository{}, nil); err == nil {
		t.Fatal("expected error without product repository")
	}
	if _, err := NewService(&Repository{}, nil, nil); err == nil {
		t.Fatal("expected error without category finder")
	}
}

func TestCreateRequiresClassification(t *testing.T) {
	svc, _, _, _ := newFixture(t)

	_, err := svc.Create(context.Background(), 1, CreateProductInput{Name: "Burger", Price: decimal.NewFromInt(15000)})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Equal(t, "La clasificación del producto es obligatoria.", typed.Message())
}

func TestCreateValidatesNameAndPrice(t *testing.T) {
	svc, _, _, _ := newFixture(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, CreateProductInput{Name: " ", Price: decimal.Zero, Classification: classification(enums.ProductClassificationSnack)})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.Create(ctx, 1, CreateProductInput{Name: "Té", Price: decimal.NewFromInt(-5), Classification: classification(enums.ProductClassificationDrink)})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.Create(ctx, 1, CreateProductInput{Name: "Té", Price: decimal.Zero, Classification: classification("CAFE")})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestCreateStoresAvailableProductWithImage(t *testing.T) {
	svc, repo, media, _ := newFixture(t)
	ctx := context.Background()

	dto, err := svc.Create(ctx, 3, CreateProductInput{
		Name:           "Burger",
		Price:          decimal.RequireFromString("15000"),
		Classification: classification(enums.ProductClassificationFastFood),
		Image:          &storage.Object{Filename: "burger.png", Body: strings.NewReader("img")},
	})
	require.NoError(t, err)
	assert.True(t, dto.IsAvailable)
	assert.Equal(t, "15000.00", dto.Price.String())
	assert.Equal(t, storage.FolderProducts, media.folder)
	require.NotNil(t, dto.ImageURL)

	stored, err := repo.FindByID(ctx, dto.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stored.StoreID)
	assert.Equal(t, *dto.ImageURL, *stored.ImageURL)
}

func TestCreateFailsWhenUploadFails(t *testing.T) {
	svc, _, media, _ := newFixture(t)
	media.err = errors.New("bucket offline")

	_, err := svc.Create(context.Background(), 3, CreateProductInput{
		Name:           "Burger",
		Price:          decimal.NewFromInt(1),
		Classification: classification(enums.ProductClassificationFastFood),
		Image:          &storage.Object{Filename: "b.png", Body: strings.NewReader("x")},
	})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
}

func TestUpdateIsScopedToStore(t *testing.T) {
	svc, _, _, _ := newFixture(t)
	ctx := context.Background()

	dto, err := svc.Create(ctx, 3, CreateProductInput{Name: "Arepa", Price: decimal.NewFromInt(5000), Classification: classification(enums.ProductClassificationBreakfast)})
	require.NoError(t, err)

	name := "Arepa con queso"
	_, err = svc.Update(ctx, 4, dto.ID, UpdateProductInput{Name: &name})
	require.Error(t, err)
	assert.Equal(t, "Producto no encontrado: "+itoa(dto.ID), pkgerrors.As(err).Message())

	price := decimal.RequireFromString("6500.5")
	updated, err := svc.Update(ctx, 3, dto.ID, UpdateProductInput{Name: &name, Price: &price})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	assert.Equal(t, "6500.50", updated.Price.String())
}

func TestDeleteDisablesInsteadOfRemoving(t *testing.T) {
	svc, repo, _, _ := newFixture(t)
	ctx := context.Background()

	dto, err := svc.Create(ctx, 3, CreateProductInput{Name: "Jugo", Price: decimal.NewFromInt(3000), Classification: classification(enums.ProductClassificationDrink)})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, 3, dto.ID))

	stored, err := repo.FindByID(ctx, dto.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsAvailable)

	list, err := svc.ListForStore(ctx, 3)
	require.NoError(t, err)
	require.Len(t, list, 1, "vendors still see disabled products")

	err = svc.Delete(ctx, 3, 999)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestAssignOptionCategory(t *testing.T) {
	svc, _, _, seed := newFixture(t)
	ctx := context.Background()

	dto, err := svc.Create(ctx, 3, CreateProductInput{Name: "Burger", Price: decimal.NewFromInt(15000), Classification: classification(enums.ProductClassificationFastFood)})
	require.NoError(t, err)

	own := &models.OptionCategory{StoreID: 3, Name: "Salsas"}
	foreign := &models.OptionCategory{StoreID: 8, Name: "Toppings"}
	seed(own, foreign)

	_, err = svc.AssignOptionCategory(ctx, 3, dto.ID, foreign.ID)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
	assert.Equal(t, "La categoría no pertenece a la tienda de este producto.", typed.Message())

	_, err = svc.AssignOptionCategory(ctx, 3, dto.ID, 777)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	linked, err := svc.AssignOptionCategory(ctx, 3, dto.ID, own.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{own.ID}, linked.CategoryIDs)

	again, err := svc.AssignOptionCategory(ctx, 3, dto.ID, own.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{own.ID}, again.CategoryIDs)

	removed, err := svc.RemoveOptionCategory(ctx, 3, dto.ID, own.ID)
	require.NoError(t, err)
	assert.Empty(t, removed.CategoryIDs)

	_, err = svc.RemoveOptionCategory(ctx, 3, dto.ID, own.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
