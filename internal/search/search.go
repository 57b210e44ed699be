package search

import (
	"context"
	"strings"

	"github.com/Skotchmaster/restaurant/internal/models"
	"github.com/Skotchmaster/restaurant/internal/repo"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

type Results struct {
	Total int64            `json:"total"`
	Items []models.Product `json:"items"`
}

// Engine searches available menu items by name and description and keeps
// its index in step with product changes.
type Engine interface {
	Search(ctx context.Context, q string, offset, limit int) (Results, error)
	Index(ctx context.Context, p models.Product) error
	Remove(ctx context.Context, id uint) error
}

func normalize(q string, offset, limit int) (string, int, int) {
	q = strings.TrimSpace(q)
	if limit <= 0 || limit > MaxLimit {
		limit = DefaultLimit
	}
	if offset < 0 {
		offset = 0
	}
	return q, offset, limit
}

// DB answers searches straight from the products table.
type DB struct {
	Repo *repo.GormRepo
}

func (d *DB) Search(ctx context.Context, rawQ string, offset, limit int) (Results, error) {
	q, offset, limit := normalize(rawQ, offset, limit)
	if q == "" {
		return Results{Items: []models.Product{}}, nil
	}
	total, items, err := d.Repo.SearchProducts(ctx, q, offset, limit)
	if err != nil {
		return Results{}, err
	}
	return Results{Total: total, Items: items}, nil
}

func (d *DB) Index(context.Context, models.Product) error { return nil }
func (d *DB) Remove(context.Context, uint) error          { return nil }
