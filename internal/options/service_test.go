package options

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/campuseats-backend/pkg/db"
	"github.com/angelmondragon/campuseats-backend/pkg/db/dbtest"
	"github.com/angelmondragon/campuseats-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/campuseats-backend/pkg/errors"
)

func newTestService(t *testing.T) (Service, *Repository) {
	t.Helper()
	conn := dbtest.Open(t)
	repo := NewRepository(conn)
	svc, err := NewService(db.FromGorm(conn), repo)
	require.NoError(t, err)
	return svc, repo
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	if _, err := NewService(nil, &Repository{}); err == nil {
		t.Fatal("expected error without tx runner")
	}
	if _, err := NewService(db.FromGorm(dbtest.Open(t)), nil); err == nil {
		t.Fatal("expected error without repository")
	}
}

func TestCreateCategoryWithOptions(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	dto, err := svc.CreateCategoryWithOptions(ctx, 4, CreateCategoryInput{
		Name: " Salsas ",
		Options: []OptionInput{
			{Name: "BBQ", AdditionalPrice: decimal.NewFromInt(2000)},
			{Name: "Rosada"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Salsas", dto.Name)
	require.Len(t, dto.Options, 2)
	assert.NotZero(t, dto.Options[0].ID)
	assert.Equal(t, "2000.00", dto.Options[0].AdditionalPrice.String())
	assert.Equal(t, "0.00", dto.Options[1].AdditionalPrice.String())

	stored, err := repo.FindOptionByID(ctx, dto.Options[1].ID)
	require.NoError(t, err)
	assert.Equal(t, dto.ID, stored.CategoryID)
	assert.Equal(t, 1, stored.Position)

	list, err := svc.ListCategories(ctx, 4)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, []string{"BBQ", "Rosada"}, []string{list[0].Options[0].Name, list[0].Options[1].Name})

	other, err := svc.ListCategories(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestCreateCategoryValidates(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateCategoryWithOptions(ctx, 1, CreateCategoryInput{Name: "  "})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.CreateCategoryWithOptions(ctx, 1, CreateCategoryInput{
		Name:    "Extras",
		Options: []OptionInput{{Name: "Queso", AdditionalPrice: decimal.NewFromInt(-1)}},
	})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	categories, err := repo.ListCategoriesByStore(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, categories, "rejected input must not persist")
}

func TestCategoriesForProduct(t *testing.T) {
	conn := dbtest.Open(t)
	repo := NewRepository(conn)
	svc, err := NewService(db.FromGorm(conn), repo)
	require.NoError(t, err)
	ctx := context.Background()

	linked, err := svc.CreateCategoryWithOptions(ctx, 1, CreateCategoryInput{Name: "Salsas", Options: []OptionInput{{Name: "BBQ"}}})
	require.NoError(t, err)
	_, err = svc.CreateCategoryWithOptions(ctx, 1, CreateCategoryInput{Name: "Bebidas"})
	require.NoError(t, err)

	dbtest.Create(t, conn, &models.ProductOptionCategory{ProductID: 10, CategoryID: linked.ID})

	got, err := svc.CategoriesForProduct(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Salsas", got[0].Name)
	assert.Len(t, got[0].Options, 1)

	byID, err := repo.FindOptionsByIDs(ctx, []int64{got[0].Options[0].ID, 999})
	require.NoError(t, err)
	assert.Len(t, byID, 1)
}
