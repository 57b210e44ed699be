package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/Skotchmaster/restaurant/internal/models"
)

func (r *GormRepo) CreateReservation(ctx context.Context, res *models.Reservation) (*models.Reservation, error) {
	if err := r.DB.WithContext(ctx).Create(res).Error; err != nil {
		return nil, err
	}
	return res, nil
}

func (r *GormRepo) GetReservation(ctx context.Context, id uint) (*models.Reservation, error) {
	var res models.Reservation
	if err := r.DB.WithContext(ctx).First(&res, id).Error; err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *GormRepo) ListReservations(ctx context.Context, status models.ReservationStatus, offset, limit int) (int64, []models.Reservation, error) {
	base := func() *gorm.DB {
		q := r.DB.WithContext(ctx).Model(&models.Reservation{})
		if status != "" {
			q = q.Where("status = ?", status)
		}
		return q
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []models.Reservation
	if err := base().
		Order("reservation_date DESC, reservation_time DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

// UpcomingPending returns the pending reservations in date/time order.
func (r *GormRepo) UpcomingPending(ctx context.Context, limit int) ([]models.Reservation, error) {
	var items []models.Reservation
	if err := r.DB.WithContext(ctx).
		Where("status = ?", models.ReservationStatusPending).
		Order("reservation_date ASC, reservation_time ASC").
		Limit(limit).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) ReservationsByEmail(ctx context.Context, email string) ([]models.Reservation, error) {
	var items []models.Reservation
	if err := r.DB.WithContext(ctx).
		Where("LOWER(guest_email) = ?", strings.ToLower(strings.TrimSpace(email))).
		Order("reservation_date DESC, reservation_time DESC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) CountReservations(ctx context.Context, status models.ReservationStatus) (int64, error) {
	q := r.DB.WithContext(ctx).Model(&models.Reservation{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *GormRepo) UpdateReservationStatus(ctx context.Context, id uint, notes *string, set func(from models.ReservationStatus) (models.ReservationStatus, error)) (*models.Reservation, models.ReservationStatus, error) {
	var (
		res  models.Reservation
		from models.ReservationStatus
	)
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&res, id).Error; err != nil {
			return err
		}
		from = res.Status
		to, err := set(from)
		if err != nil {
			return err
		}
		updates := map[string]any{"status": to}
		if notes != nil {
			updates["admin_notes"] = *notes
		}
		if err := tx.Model(&res).Updates(updates).Error; err != nil {
			return err
		}
		res.Status = to
		if notes != nil {
			res.AdminNotes = *notes
		}
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	return &res, from, nil
}
