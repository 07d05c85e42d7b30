// Package testutil provides database fixtures shared by package tests.
package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"fooddelight/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewDB returns a migrated sqlite database in a temporary file. The pool is
// limited to one connection, so code under test must run every statement of a
// transaction on the transaction handle.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db") + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Discard,
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, models.Migrate(db))
	return db
}

func CreateUser(t testing.TB, db *gorm.DB, name, email, phone string) models.User {
	t.Helper()
	u := models.User{Name: name, Email: email, Phone: phone, Address: "12 MG Road"}
	require.NoError(t, db.Create(&u).Error)
	return u
}

// CreatePartner inserts a partner; an empty rating leaves it NULL.
func CreatePartner(t testing.TB, db *gorm.DB, name, phone, rating string) models.DeliveryPartner {
	t.Helper()
	p := models.DeliveryPartner{Name: name, Phone: phone}
	if rating != "" {
		p.Rating = decimal.NewNullDecimal(decimal.RequireFromString(rating))
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func CreateRestaurant(t testing.TB, db *gorm.DB, name, rating string) models.Restaurant {
	t.Helper()
	r := models.Restaurant{Name: name, Address: "Koramangala"}
	if rating != "" {
		r.Rating = decimal.NewNullDecimal(decimal.RequireFromString(rating))
	}
	require.NoError(t, db.Create(&r).Error)
	return r
}

func CreateMenuItem(t testing.TB, db *gorm.DB, restID uint, name, price string, qty int) models.MenuItem {
	t.Helper()
	m := models.MenuItem{Name: name, Price: decimal.RequireFromString(price), Quantity: qty, RestaurantID: restID}
	require.NoError(t, db.Create(&m).Error)
	return m
}

// Stock reads the current quantity of a menu item.
func Stock(t testing.TB, db *gorm.DB, itemID uint) int {
	t.Helper()
	var m models.MenuItem
	require.NoError(t, db.First(&m, itemID).Error)
	return m.Quantity
}

// Count returns the number of rows of model's table.
func Count(t testing.TB, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}
