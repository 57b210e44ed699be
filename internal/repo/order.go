package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/restaurant/internal/models"
)

// CreateOrder writes the order, its items and the staff notification in one
// transaction. On any failure nothing is left behind.
func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order, notification *models.Notification) (*models.Order, error) {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		if notification != nil {
			notification.OrderID = order.ID
			if err := tx.Create(notification).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *GormRepo) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

type OrderFilter struct {
	Status models.OrderStatus
	Search string
}

func (r *GormRepo) ListOrders(ctx context.Context, f OrderFilter, offset, limit int) (int64, []models.Order, error) {
	base := func() *gorm.DB {
		q := r.DB.WithContext(ctx).Model(&models.Order{})
		if f.Status != "" {
			q = q.Where("status = ?", f.Status)
		}
		if f.Search != "" {
			p := likePattern(f.Search)
			q = q.Where(`(LOWER(customer_name) LIKE ? ESCAPE '\' OR LOWER(customer_phone) LIKE ? ESCAPE '\' OR LOWER(order_type) LIKE ? ESCAPE '\')`, p, p, p)
		}
		return q
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var orders []models.Order
	if err := base().
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&orders).Error; err != nil {
		return 0, nil, err
	}
	return total, orders, nil
}

func (r *GormRepo) ListCustomerOrders(ctx context.Context, customerID uint) ([]models.Order, error) {
	var orders []models.Order
	if err := r.DB.WithContext(ctx).
		Preload("Items").
		Where("customer_id = ?", customerID).
		Order("created_at DESC, id DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormRepo) RecentOrders(ctx context.Context, limit int) ([]models.Order, error) {
	var orders []models.Order
	if err := r.DB.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateOrderStatus sets the status and returns the previous one.
func (r *GormRepo) UpdateOrderStatus(ctx context.Context, id uint, set func(from models.OrderStatus) (models.OrderStatus, error)) (*models.Order, models.OrderStatus, error) {
	var (
		order models.Order
		from  models.OrderStatus
	)
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, id).Error; err != nil {
			return err
		}
		from = order.Status
		to, err := set(from)
		if err != nil {
			return err
		}
		if err := tx.Model(&order).Update("status", to).Error; err != nil {
			return err
		}
		order.Status = to
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	return &order, from, nil
}

func (r *GormRepo) CountOrders(ctx context.Context, status models.OrderStatus) (int64, error) {
	q := r.DB.WithContext(ctx).Model(&models.Order{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *GormRepo) CountOrdersSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.Order{}).
		Where("created_at >= ?", since.UTC()).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// PendingOrdersOlderThan lists orders still pending that were placed before cutoff.
func (r *GormRepo) PendingOrdersOlderThan(ctx context.Context, cutoff time.Time) ([]models.Order, error) {
	var orders []models.Order
	if err := r.DB.WithContext(ctx).
		Where("status = ? AND created_at < ?", models.OrderStatusPending, cutoff.UTC()).
		Order("created_at ASC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}
