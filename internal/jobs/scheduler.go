package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/Skotchmaster/restaurant/internal/models"
	"github.com/Skotchmaster/restaurant/internal/repo"
	"github.com/Skotchmaster/restaurant/pkg/events"
	"github.com/Skotchmaster/restaurant/pkg/logging"
)

const (
	ReminderNotification = "pending_reminder"

	DefaultReminderEvery = 5 * time.Minute
	DefaultPendingAfter  = 15 * time.Minute
	tokenPurgeEvery      = time.Hour
)

type Config struct {
	ReminderEvery time.Duration
	// PendingAfter is how long an order may stay pending before staff are reminded.
	PendingAfter time.Duration
}

// Scheduler runs the periodic housekeeping jobs.
type Scheduler struct {
	scheduler gocron.Scheduler
	repo      *repo.GormRepo
	events    events.Publisher
	log       *slog.Logger
	cfg       Config
	now       func() time.Time
}

func New(r *repo.GormRepo, pub events.Publisher, l *slog.Logger, cfg Config) (*Scheduler, error) {
	if cfg.ReminderEvery <= 0 {
		cfg.ReminderEvery = DefaultReminderEvery
	}
	if cfg.PendingAfter <= 0 {
		cfg.PendingAfter = DefaultPendingAfter
	}

	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	return &Scheduler{
		scheduler: s,
		repo:      r,
		events:    pub,
		log:       l.With("component", "jobs"),
		cfg:       cfg,
		now:       time.Now,
	}, nil
}

func (js *Scheduler) Register(ctx context.Context) error {
	ctx = logging.IntoContext(ctx, js.log)

	if _, err := js.scheduler.NewJob(
		gocron.DurationJob(js.cfg.ReminderEvery),
		gocron.NewTask(js.task("pending-order-reminder", js.RemindPendingOrders), ctx),
		gocron.WithName("pending-order-reminder"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	); err != nil {
		return fmt.Errorf("register reminder job: %w", err)
	}

	if _, err := js.scheduler.NewJob(
		gocron.DurationJob(tokenPurgeEvery),
		gocron.NewTask(js.task("refresh-token-purge", js.PurgeTokens), ctx),
		gocron.WithName("refresh-token-purge"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	); err != nil {
		return fmt.Errorf("register purge job: %w", err)
	}
	return nil
}

func (js *Scheduler) task(name string, fn func(context.Context) (int, error)) func(context.Context) {
	return func(ctx context.Context) {
		n, err := fn(ctx)
		if err != nil {
			js.log.Error("job_error", "job", name, "error", err)
			return
		}
		js.log.Debug("job_done", "job", name, "affected", n)
	}
}

func (js *Scheduler) Start() {
	js.log.Info("scheduler starting", "jobs", len(js.scheduler.Jobs()))
	js.scheduler.Start()
}

func (js *Scheduler) Stop() error {
	return js.scheduler.Shutdown()
}

// RemindPendingOrders adds a staff notification for every order that has
// been pending longer than PendingAfter and has no unread reminder yet.
func (js *Scheduler) RemindPendingOrders(ctx context.Context) (int, error) {
	now := js.now()
	orders, err := js.repo.PendingOrdersOlderThan(ctx, now.Add(-js.cfg.PendingAfter))
	if err != nil {
		return 0, err
	}

	created := 0
	for _, o := range orders {
		exists, err := js.repo.HasUnreadNotification(ctx, o.ID, ReminderNotification)
		if err != nil {
			return created, err
		}
		if exists {
			continue
		}
		waiting := now.Sub(o.CreatedAt).Round(time.Minute)
		n := &models.Notification{
			OrderID:   o.ID,
			Kind:      ReminderNotification,
			Message:   fmt.Sprintf("Order #%d has been pending for %s", o.ID, waiting),
			CreatedAt: now.UTC(),
		}
		if err := js.repo.CreateNotification(ctx, n); err != nil {
			return created, err
		}
		created++

		if js.events != nil {
			ev := events.OrderEvent{
				Type:    events.OrderPendingTooLong,
				OrderID: o.ID,
				Status:  string(o.Status),
				At:      now,
			}
			if err := js.events.PublishEvent(ctx, events.TopicOrders, o.IDString(), ev); err != nil {
				js.log.Warn("publish_error", "topic", events.TopicOrders, "error", err)
			}
		}
	}
	return created, nil
}

func (js *Scheduler) PurgeTokens(ctx context.Context) (int, error) {
	n, err := js.repo.PurgeRefreshTokens(ctx, js.now())
	return int(n), err
}
