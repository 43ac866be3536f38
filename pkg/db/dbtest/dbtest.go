// Package dbtest opens isolated in-memory sqlite databases with the
// marketplace schema for repository and service tests.
package dbtest

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/angelmondragon/campuseats-backend/pkg/db/models"
)

var seq atomic.Int64

// Models lists every table the services touch.
func Models() []any {
	return []any{
		&models.User{},
		&models.Store{},
		&models.StoreSchedule{},
		&models.Product{},
		&models.OptionCategory{},
		&models.Option{},
		&models.ProductOptionCategory{},
		&models.Order{},
		&models.OrderLineItem{},
		&models.OrderLineItemOption{},
	}
}

// Open returns a fresh database named after the test so parallel packages and
// subtests never share rows.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, seq.Add(1))

	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(Models()...); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return conn
}

// Create inserts rows (pointers to models) and fails the test on error.
func Create(t testing.TB, conn *gorm.DB, rows ...any) {
	t.Helper()
	for _, row := range rows {
		if err := conn.Create(row).Error; err != nil {
			t.Fatalf("seed %T: %v", row, err)
		}
	}
}
