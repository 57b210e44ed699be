// Package testutil builds in-memory fixtures shared by package tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/restaurant/internal/models"
	"github.com/Skotchmaster/restaurant/pkg/db"
)

// InitTestDB opens a migrated in-memory sqlite database private to t.
func InitTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := db.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(models.All()...))

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}

func Product(t *testing.T, gdb *gorm.DB, name, price string) models.Product {
	t.Helper()
	p := models.Product{
		Name:        name,
		Description: name + " description",
		Price:       decimal.RequireFromString(price),
		Category:    "Food",
		Subcategory: "Mains",
		Available:   true,
	}
	require.NoError(t, gdb.Create(&p).Error)
	return p
}

// Clock returns a func that always reports at.
func Clock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

// Recorder is an events.Publisher that keeps what it was given.
type Recorder struct {
	Events []Published
}

type Published struct {
	Topic string
	Key   string
	Event any
}

func (r *Recorder) PublishEvent(_ context.Context, topic, key string, event any) error {
	r.Events = append(r.Events, Published{Topic: topic, Key: key, Event: event})
	return nil
}
