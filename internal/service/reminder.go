package service

import (
	"context"
	"time"

	"vocabtrainer/internal/domain"
	"vocabtrainer/internal/metrics"
	"vocabtrainer/internal/repository"

	"go.uber.org/zap"
)

// Notifier delivers a reminder to a user
type Notifier func(ctx context.Context, r domain.Reminder) error

// ReminderService finds users with words due for review
type ReminderService struct {
	users   repository.UserRepository
	records repository.LearningRecordRepository
	metrics metrics.Collector
	logger  *zap.Logger
}

// NewReminderService creates a new reminder service
func NewReminderService(
	users repository.UserRepository,
	records repository.LearningRecordRepository,
	collector metrics.Collector,
	logger *zap.Logger,
) *ReminderService {
	return &ReminderService{
		users:   users,
		records: records,
		metrics: collector,
		logger:  logger,
	}
}

// DueReminders returns one reminder per authorized user with at least one
// LEARNING word due before asOf
func (s *ReminderService) DueReminders(ctx context.Context, asOf time.Time) ([]domain.Reminder, error) {
	users, err := s.users.ListAuthorized(ctx)
	if err != nil {
		return nil, domain.Storage("list authorized users", err)
	}

	var reminders []domain.Reminder
	for _, u := range users {
		due, err := s.records.CountDue(ctx, u.UserID, asOf)
		if err != nil {
			return nil, domain.Storage("count due records", err)
		}
		if due == 0 {
			continue
		}
		reminders = append(reminders, domain.Reminder{
			UserID:    u.UserID,
			Due:       due,
			DailyGoal: u.DailyGoal,
		})
	}
	return reminders, nil
}

// SendReminders notifies every user with due words. A failed delivery is
// logged and does not stop the others.
func (s *ReminderService) SendReminders(ctx context.Context, asOf time.Time, notify Notifier) error {
	s.logger.Info("Starting reminder run", zap.Time("as_of", asOf))

	reminders, err := s.DueReminders(ctx, asOf)
	if err != nil {
		s.logger.Error("Failed to collect reminders", zap.Error(err))
		return err
	}

	sent := 0
	for _, r := range reminders {
		if err := notify(ctx, r); err != nil {
			s.logger.Warn("Failed to deliver reminder",
				zap.Int64("user_id", r.UserID),
				zap.Error(err),
			)
			continue
		}
		sent++
	}
	s.metrics.IncCounter(metrics.RemindersQueued, int64(sent))

	s.logger.Info("Reminder run completed",
		zap.Int("due_users", len(reminders)),
		zap.Int("sent", sent),
	)
	return nil
}
