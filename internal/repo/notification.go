package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/restaurant/internal/models"
)

func (r *GormRepo) CreateNotification(ctx context.Context, n *models.Notification) error {
	return r.DB.WithContext(ctx).Create(n).Error
}

func (r *GormRepo) UnreadNotifications(ctx context.Context, limit int) ([]models.Notification, error) {
	var items []models.Notification
	if err := r.DB.WithContext(ctx).
		Where("is_read = ?", false).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) MarkNotificationRead(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ?", id).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// HasUnreadNotification reports whether an unread notification of kind exists for the order.
func (r *GormRepo) HasUnreadNotification(ctx context.Context, orderID uint, kind string) (bool, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.Notification{}).
		Where("order_id = ? AND kind = ? AND is_read = ?", orderID, kind, false).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
